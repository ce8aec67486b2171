// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hanguk-labs/local-guide/internal/profile"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Get cultural recommendations for a query",
	Long: `Recommend fans a query out to the cultural discovery, place search,
and neighborhood providers, merges and ranks the results, and composes
a response. With --user the stored profile is applied: visited places
are suppressed, food restrictions filtered, and category weights used
for ordering.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg := loadConfig()
	g, _ := buildGuide(cfg)

	var p *types.Personalization
	if userID, _ := cmd.Flags().GetString("user"); userID != "" {
		store, err := profile.NewStore(cfg.Profile)
		if err != nil {
			return fmt.Errorf("opening profile store: %w", err)
		}
		defer store.Close()
		p, err = store.PersonalizationFor(context.Background(), userID)
		if err != nil {
			return fmt.Errorf("loading profile %q: %w", userID, err)
		}
	}

	var loc *types.LatLng
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")
	if lat != 0 || lng != 0 {
		loc = &types.LatLng{Lat: lat, Lng: lng}
	}

	result := g.Recommend(context.Background(), query, p, loc)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return formatResult(result)
}

func formatResult(result types.Result) error {
	fmt.Println(result.Response)
	fmt.Println()

	if len(result.Recommendations) == 0 {
		fmt.Println("No recommendations found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-36s  %-14s  %-12s  %-6s  %s\n",
		"Rank", "Name", "Category", "Neighborhood", "Auth", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for i, rec := range result.Recommendations {
		name := rec.Name
		if len(name) > 36 {
			name = name[:33] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-36s  %-14s  %-12s  %-6.2f  %s\n",
			i+1, name, rec.Category, rec.Neighborhood, rec.AuthenticityScore, rec.Source)
	}

	fmt.Fprintf(os.Stdout, "\n%d recommendations (mean authenticity %.2f", len(result.Recommendations), result.AuthenticityScore)
	if result.FallbackUsed {
		fmt.Fprint(os.Stdout, ", served from fallback data")
	}
	fmt.Fprintln(os.Stdout, ")")
	return nil
}

func init() {
	recommendCmd.Flags().String("user", "", "user ID for personalized results")
	recommendCmd.Flags().Float64("lat", 0, "latitude to bias place results")
	recommendCmd.Flags().Float64("lng", 0, "longitude to bias place results")
	recommendCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(recommendCmd)
}
