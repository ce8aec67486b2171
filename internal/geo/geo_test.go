// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geo

import "testing"

func TestNeighborhood(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want string
	}{
		{"hongdae center", 37.5563, 126.9236, "hongdae"},
		{"myeongdong", 37.5636, 126.9822, "myeongdong"},
		{"itaewon", 37.5344, 126.9944, "itaewon"},
		{"gangnam", 37.5050, 127.0300, "gangnam"},
		{"seoul city hall area", 37.5665, 126.9780, "seoul"},
		{"busan", 35.1796, 129.0756, "unknown"},
		{"zero coordinates", 0, 0, "unknown"},
		{"tokyo", 35.6762, 139.6503, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Neighborhood(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Neighborhood(%v, %v) = %q, want %q", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestNeighborhoodPriorityOrder(t *testing.T) {
	// A point inside the hongdae box is resolved before any later box can
	// be considered, even near box edges.
	if got := Neighborhood(37.5580, 126.9780); got != "hongdae" {
		t.Errorf("boundary point = %q, want hongdae (first box wins)", got)
	}
}

func TestInKorea(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{"seoul", 37.5665, 126.9780, true},
		{"jeju", 33.4996, 126.5312, true},
		{"tokyo out of range", 35.6762, 139.6503, false},
		{"negative coords", -37.5, -126.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InKorea(tt.lat, tt.lng); got != tt.want {
				t.Errorf("InKorea(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestInSeoul(t *testing.T) {
	if !InSeoul(DefaultCenter.Lat, DefaultCenter.Lng) {
		t.Error("default center should be inside Seoul bounds")
	}
	if InSeoul(35.1796, 129.0756) {
		t.Error("Busan should be outside Seoul bounds")
	}
}
