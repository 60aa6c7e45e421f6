package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/crateskel/internal/search"
)

var listCmd = &cobra.Command{
	Use:   "list <target>",
	Short: "List a crate's items as kind/path pairs",
	Args:  cobra.ExactArgs(1),
	Run:   runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagPrivate, "private", false, "include non-public items")
}

func runList(cmd *cobra.Command, args []string) {
	service, _, cfg := newService()

	rows, err := service.List(context.Background(), args[0], flagPrivate || cfg.Render.Private)
	if err != nil {
		log.Fatalf("listing %s: %v", args[0], err)
	}
	fmt.Print(search.FormatList(rows))
}
