package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/crateskel/internal/config"
	"github.com/jcdickinson/crateskel/internal/provider"
	"github.com/jcdickinson/crateskel/internal/skeleton"
)

var (
	flagPrivate      bool
	flagAutoImpls    bool
	flagBlanketImpls bool
	flagNoHeader     bool
	flagOffline      bool
	flagNoCache      bool
)

var rootCmd = &cobra.Command{
	Use:   "crateskel <target>",
	Short: "Render Rust crate APIs as implementation-free skeletons",
	Long: `crateskel fetches rustdoc JSON from docs.rs and renders a crate's API
as syntactically valid Rust with all implementation bodies omitted.

The target accepts crate[@version][::path::to::item]. Standard library
paths such as std::vec::Vec resolve to the crate that defines them.`,
	Example: `  crateskel serde
  crateskel serde@1.0.160
  crateskel tokio::sync::mpsc
  crateskel std::vec::Vec`,
	Args: cobra.ExactArgs(1),
	Run:  runRoot,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagOffline, "offline", false, "serve only the on-disk cache, never the network")
	pf.BoolVar(&flagNoCache, "no-cache", false, "skip reading and writing the on-disk cache")

	f := rootCmd.Flags()
	f.BoolVar(&flagPrivate, "private", false, "include non-public items")
	f.BoolVar(&flagAutoImpls, "auto-impls", false, "include compiler-synthesized trait impls")
	f.BoolVar(&flagBlanketImpls, "blanket-impls", false, "include blanket trait impls")
	f.BoolVar(&flagNoHeader, "no-header", false, "omit the metadata comment block")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(jsonCmd)
	rootCmd.AddCommand(prefetchCmd)
	rootCmd.AddCommand(searchCratesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
}

// newService builds the shared provider and skeleton service from config
// and persistent flags.
func newService() (*skeleton.Service, *provider.Client, *config.Config) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	client := provider.NewClient(time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second)
	p := provider.New(client, provider.Options{
		Offline: flagOffline || cfg.Fetch.Offline,
		NoCache: flagNoCache,
	})
	return skeleton.NewService(p), client, cfg
}

func runRoot(cmd *cobra.Command, args []string) {
	service, _, cfg := newService()

	out, warnings, err := service.Render(context.Background(), skeleton.Request{
		Target:       args[0],
		Private:      flagPrivate || cfg.Render.Private,
		AutoImpls:    flagAutoImpls || cfg.Render.AutoImpls,
		BlanketImpls: flagBlanketImpls || cfg.Render.BlanketImpls,
		NoHeader:     flagNoHeader || cfg.Render.NoHeader,
	})
	if err != nil {
		log.Fatalf("rendering %s: %v", args[0], err)
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Print(out)
}
