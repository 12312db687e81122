package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"muscript/internal/driver"
)

var (
	parseCached   bool
	parseCacheDir string
)

func init() {
	parseCmd.Flags().BoolVar(&parseCached, "cached", false, "skip files whose content matched a clean previous parse")
	parseCmd.Flags().StringVar(&parseCacheDir, "cache-dir", "", "cache directory (default: the user cache dir)")
}

var parseCmd = &cobra.Command{
	Use:   "parse <file.uc>...",
	Short: "Syntax-check source files",
	Long:  `Parses each file in isolation and reports syntax diagnostics. Files are checked in parallel.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cache *driver.DiskCache
		if parseCached {
			var err error
			if parseCacheDir != "" {
				cache, err = driver.OpenDiskCacheAt(parseCacheDir)
			} else {
				cache, err = driver.OpenDiskCache("muscript")
			}
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
		}

		results, err := driver.CheckFiles(context.Background(), &driver.CheckRequest{
			Paths:          args,
			Cache:          cache,
			MaxDiagnostics: maxDiagnostics(cmd),
		})
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		failed := false
		for _, res := range results {
			switch {
			case res.Skipped:
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: unchanged (cached)\n", res.Path)
				}
			case res.Bag != nil && res.Bag.HasErrors():
				failed = true
				printDiagnostics(cmd, res.Bag, res.FileSet)
			default:
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d item(s)\n", res.Path, res.Items)
				}
				printDiagnostics(cmd, res.Bag, res.FileSet)
			}
		}
		if failed {
			return silentFailure(cmd)
		}
		return nil
	},
}
