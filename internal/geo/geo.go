// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geo validates coordinates against the serviceable region and
// resolves Seoul neighborhoods from coordinates. Everything here is pure
// and table-driven.
package geo

import "github.com/hanguk-labs/local-guide/pkg/types"

// DefaultCenter is the Seoul city-center point substituted when a caller
// supplies no location.
var DefaultCenter = types.LatLng{Lat: 37.5665, Lng: 126.9780}

// Korea bounding box used to reject out-of-country coordinates before they
// bias a search.
const (
	koreaSouth = 33.0
	koreaNorth = 39.0
	koreaWest  = 124.0
	koreaEast  = 132.0
)

// Seoul city bounds.
const (
	seoulSouth = 37.4269
	seoulNorth = 37.7013
	seoulWest  = 126.7342
	seoulEast  = 127.1831
)

// box is a rectangular neighborhood boundary.
type box struct {
	name                   string
	south, north           float64
	west, east             float64
}

// neighborhoodBoxes are checked in order; the first containing box wins.
var neighborhoodBoxes = []box{
	{"hongdae", 37.5480, 37.5580, 126.9180, 126.9950},
	{"myeongdong", 37.5600, 37.5680, 126.9780, 126.9880},
	{"itaewon", 37.5300, 37.5400, 126.9900, 127.0000},
	{"gangnam", 37.4950, 37.5150, 127.0200, 127.0400},
}

// InKorea reports whether the coordinates fall inside the serviceable
// country bounding box.
func InKorea(lat, lng float64) bool {
	return koreaSouth <= lat && lat <= koreaNorth && koreaWest <= lng && lng <= koreaEast
}

// InSeoul reports whether the coordinates fall inside the Seoul city
// bounds.
func InSeoul(lat, lng float64) bool {
	return seoulSouth <= lat && lat <= seoulNorth && seoulWest <= lng && lng <= seoulEast
}

// ValidWorld reports whether the coordinates are plausible at all.
func ValidWorld(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Neighborhood maps coordinates to a district name. Coordinates inside a
// known district box return that district; other Seoul coordinates return
// "seoul"; everything else returns "unknown". A zero coordinate pair is
// treated as missing data.
func Neighborhood(lat, lng float64) string {
	if lat == 0 || lng == 0 {
		return "unknown"
	}
	for _, b := range neighborhoodBoxes {
		if b.south <= lat && lat <= b.north && b.west <= lng && lng <= b.east {
			return b.name
		}
	}
	if InSeoul(lat, lng) {
		return "seoul"
	}
	return "unknown"
}
