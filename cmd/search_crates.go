package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var searchCratesCmd = &cobra.Command{
	Use:   "search-crates <query>",
	Short: "Search crates.io for Rust crates",
	Example: `  crateskel search-crates serde
  crateskel search-crates "async http client"
  crateskel search-crates --limit 5 tokio`,
	Args: cobra.ExactArgs(1),
	Run:  runSearchCrates,
}

var searchCratesLimit int

func init() {
	searchCratesCmd.Flags().IntVar(&searchCratesLimit, "limit", 20, "max results")
}

func runSearchCrates(cmd *cobra.Command, args []string) {
	_, client, _ := newService()

	results, err := client.SearchCratesIO(context.Background(), args[0], searchCratesLimit)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return
	}

	for _, r := range results {
		fmt.Printf("  %-30s %s  (%d downloads)\n", r.Name, r.MaxVersion, r.Downloads)
		if r.Description != "" {
			fmt.Printf("    %s\n", r.Description)
		}
	}
}
