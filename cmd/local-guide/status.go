// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show provider circuit states and overall health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	g, _ := buildGuide(cfg)

	status := g.Status()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Fprintf(os.Stdout, "%s: %s (health %.2f)\n\n", status.Service, status.State, status.Health)
	fmt.Fprintf(os.Stdout, "%-20s  %-12s  %-10s  %s\n", "Provider", "State", "Available", "Failures")
	for _, svc := range status.Services {
		fmt.Fprintf(os.Stdout, "%-20s  %-12s  %-10t  %d\n",
			svc.Service, svc.State, svc.Available, svc.FailureCount)
	}
	return nil
}

func init() {
	statusCmd.Flags().Bool("json", false, "output status as JSON")

	rootCmd.AddCommand(statusCmd)
}
