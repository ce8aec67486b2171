// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hanguk-labs/local-guide/pkg/types"
)

var amenitiesCmd = &cobra.Command{
	Use:   "amenities",
	Short: "Find everyday services near a point in Korea",
	Long: `Amenities finds convenience stores, transit stations, pharmacies,
ATMs, food, and coffee near the given coordinates. Unlike recommend,
results are not filtered for cultural relevance.`,
	RunE: runAmenities,
}

func runAmenities(cmd *cobra.Command, args []string) error {
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")
	perKind, _ := cmd.Flags().GetInt("limit")

	cfg := loadConfig()
	_, maps := buildGuide(cfg)

	groups, err := maps.Amenities(context.Background(), types.LatLng{Lat: lat, Lng: lng}, perKind)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		fmt.Printf("%s:\n", label)
		for _, rec := range groups[label] {
			fmt.Printf("  %s", rec.Name)
			if rec.Neighborhood != "" && rec.Neighborhood != "unknown" {
				fmt.Printf(" (%s)", rec.Neighborhood)
			}
			fmt.Println()
		}
	}
	return nil
}

func init() {
	amenitiesCmd.Flags().Float64("lat", 37.5665, "latitude of the search center")
	amenitiesCmd.Flags().Float64("lng", 126.9780, "longitude of the search center")
	amenitiesCmd.Flags().Int("limit", 3, "results per amenity group")
	amenitiesCmd.Flags().Bool("json", false, "output groups as JSON")

	rootCmd.AddCommand(amenitiesCmd)
}
