package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/crateskel/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk rustdoc JSON cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached rustdoc JSON",
	Run:   runCacheClear,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.CacheDir())
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) {
	dir := config.CacheDir()
	if err := os.RemoveAll(dir); err != nil {
		log.Fatalf("failed to clear cache: %v", err)
	}
	fmt.Printf("cleared %s\n", dir)
}
