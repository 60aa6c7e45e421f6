package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var flagPrefetchJobs int

var prefetchCmd = &cobra.Command{
	Use:   "prefetch <crate>...",
	Short: "Warm the on-disk cache for one or more crates",
	Example: `  crateskel prefetch serde tokio rand
  crateskel prefetch serde@1.0.160 --jobs 2`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPrefetch,
}

func init() {
	prefetchCmd.Flags().IntVar(&flagPrefetchJobs, "jobs", 4, "number of concurrent downloads")
}

func runPrefetch(cmd *cobra.Command, args []string) {
	service, _, _ := newService()

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(flagPrefetchJobs)

	for _, spec := range args {
		g.Go(func() error {
			if _, err := service.RawJSON(ctx, spec); err != nil {
				return fmt.Errorf("prefetching %s: %w", spec, err)
			}
			fmt.Printf("cached %s\n", spec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("prefetch failed: %v", err)
	}
}
