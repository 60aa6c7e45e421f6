package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var jsonCmd = &cobra.Command{
	Use:   "json <target>",
	Short: "Print the raw rustdoc JSON for a crate",
	Args:  cobra.ExactArgs(1),
	Run:   runJSON,
}

func runJSON(cmd *cobra.Command, args []string) {
	service, _, _ := newService()

	raw, err := service.RawJSON(context.Background(), args[0])
	if err != nil {
		log.Fatalf("fetching %s: %v", args[0], err)
	}
	os.Stdout.Write(raw)
}
