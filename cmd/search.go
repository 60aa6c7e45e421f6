package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/crateskel/internal/skeleton"
)

var (
	flagDomains       []string
	flagCaseSensitive bool
	flagDirect        bool
)

var searchCmd = &cobra.Command{
	Use:   "search <target> <query>",
	Short: "Render only the items matching a query, with ancestor context",
	Example: `  crateskel search tokio spawn
  crateskel search serde deserialize --domains name,doc
  crateskel search serde Visitor --direct`,
	Args: cobra.ExactArgs(2),
	Run:  runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringSliceVar(&flagDomains, "domains", nil, "search domains: name, doc, path, signature (default name,doc,signature)")
	f.BoolVar(&flagCaseSensitive, "case-sensitive", false, "match query case exactly")
	f.BoolVar(&flagDirect, "direct", false, "render matched containers as shells instead of expanding them")
	f.BoolVar(&flagPrivate, "private", false, "include non-public items")
	f.BoolVar(&flagNoHeader, "no-header", false, "omit the metadata comment block")
}

func runSearch(cmd *cobra.Command, args []string) {
	service, _, cfg := newService()

	domains := flagDomains
	if len(domains) == 0 {
		domains = cfg.Search.Domains
	}

	out, warnings, err := service.Render(context.Background(), skeleton.Request{
		Target:          args[0],
		Query:           args[1],
		Domains:         domains,
		CaseSensitive:   flagCaseSensitive || cfg.Search.CaseSensitive,
		DirectMatchOnly: flagDirect,
		Private:         flagPrivate || cfg.Render.Private,
		NoHeader:        flagNoHeader || cfg.Render.NoHeader,
	})
	if err != nil {
		log.Fatalf("searching %s: %v", args[0], err)
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Print(out)
}
