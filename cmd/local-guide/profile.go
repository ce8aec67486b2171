// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/hanguk-labs/local-guide/internal/profile"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profiles (show, prefs, visit, favorite, export, import)",
	Long: `Profile manages the local SQLite profile store. Profiles hold
interests, food restrictions, visit history, favorites, and the learned
category weights that personalize recommendations.`,
}

// --- show subcommand ---

var profileShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show the full personalization context for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	store, err := openProfileStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.PersonalizationFor(context.Background(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// --- prefs subcommand ---

var profilePrefsCmd = &cobra.Command{
	Use:   "prefs <user-id>",
	Short: "Set declared preferences for a user",
	Long: `Prefs replaces the declared part of a profile: interests, food
restrictions, cultural preferences, budget range, and travel style.
Visit history, favorites, and learned weights are untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilePrefs,
}

func runProfilePrefs(cmd *cobra.Command, args []string) error {
	store, err := openProfileStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p := &types.Personalization{
		Interests:           splitList(cmd, "interests"),
		FoodRestrictions:    splitList(cmd, "restrictions"),
		CulturalPreferences: splitList(cmd, "preferences"),
	}
	p.BudgetRange, _ = cmd.Flags().GetString("budget")
	p.TravelStyle, _ = cmd.Flags().GetString("style")

	if err := store.UpdatePreferences(context.Background(), args[0], p); err != nil {
		return err
	}
	fmt.Printf("Updated preferences for %s\n", args[0])
	return nil
}

// --- visit subcommand ---

var profileVisitCmd = &cobra.Command{
	Use:   "visit <user-id> <place-name>",
	Short: "Record a visit with a 1-5 rating",
	Long: `Visit records that a user visited a place. The rating adjusts the
category weight for future recommendations; a rating of 5 also marks
the place as a favorite.`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileVisit,
}

func runProfileVisit(cmd *cobra.Command, args []string) error {
	store, err := openProfileStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rating, _ := cmd.Flags().GetInt("rating")
	neighborhood, _ := cmd.Flags().GetString("neighborhood")
	category, _ := cmd.Flags().GetString("category")

	v := profile.Visit{
		PlaceName:    args[1],
		Neighborhood: neighborhood,
		Category:     types.Category(category),
		Rating:       rating,
	}
	if err := store.RecordVisit(context.Background(), args[0], v); err != nil {
		return err
	}
	fmt.Printf("Recorded visit to %s (rating %d)\n", args[1], rating)
	return nil
}

// --- favorite subcommand ---

var profileFavoriteCmd = &cobra.Command{
	Use:   "favorite <user-id> <place-name>",
	Short: "Mark a place as a favorite",
	Long: `Favorite marks a place as a favorite. A favorite counts as a top
rating, so passing --category also bumps that category's recommendation
weight.`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileFavorite,
}

func runProfileFavorite(cmd *cobra.Command, args []string) error {
	store, err := openProfileStore()
	if err != nil {
		return err
	}
	defer store.Close()

	category, _ := cmd.Flags().GetString("category")
	if err := store.AddFavorite(context.Background(), args[0], args[1], types.Category(category)); err != nil {
		return err
	}
	fmt.Printf("Added favorite %s\n", args[1])
	return nil
}

// --- export / import subcommands ---

var profileExportCmd = &cobra.Command{
	Use:   "export <user-id>",
	Short: "Export a user's personalization context as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileExport,
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	store, err := openProfileStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.PersonalizationFor(context.Background(), args[0])
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

var profileImportCmd = &cobra.Command{
	Use:   "import <user-id> <file>",
	Short: "Import declared preferences from a YAML file",
	Long: `Import reads a YAML personalization document (as written by export)
and replaces the user's declared preferences. Visit history, favorites,
and learned weights are untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileImport,
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	var p types.Personalization
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parsing %s: %w", args[1], err)
	}

	store, err := openProfileStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpdatePreferences(context.Background(), args[0], &p); err != nil {
		return err
	}
	fmt.Printf("Imported preferences for %s\n", args[0])
	return nil
}

// --- shared helpers ---

func openProfileStore() (*profile.Store, error) {
	cfg := loadConfig()
	store, err := profile.NewStore(cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("opening profile store: %w", err)
	}
	return store, nil
}

func splitList(cmd *cobra.Command, flag string) []string {
	raw, _ := cmd.Flags().GetString(flag)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	profilePrefsCmd.Flags().String("interests", "", "comma-separated interests (e.g. food,history)")
	profilePrefsCmd.Flags().String("restrictions", "", "comma-separated food restrictions (e.g. vegetarian,no spicy)")
	profilePrefsCmd.Flags().String("preferences", "", "comma-separated cultural preferences")
	profilePrefsCmd.Flags().String("budget", "", "budget range: budget, mid-range, luxury")
	profilePrefsCmd.Flags().String("style", "", "travel style: solo, couple, family, group")

	profileVisitCmd.Flags().Int("rating", 3, "rating from 1 (poor) to 5 (favorite)")
	profileVisitCmd.Flags().String("neighborhood", "", "district where the place is")
	profileVisitCmd.Flags().String("category", "", "weight category: food, culture, nightlife, shopping, nature")

	profileFavoriteCmd.Flags().String("category", "", "weight category: food, culture, nightlife, shopping, nature")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profilePrefsCmd)
	profileCmd.AddCommand(profileVisitCmd)
	profileCmd.AddCommand(profileFavoriteCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileImportCmd)

	rootCmd.AddCommand(profileCmd)
}
