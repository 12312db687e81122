package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"muscript/internal/diag"
	"muscript/internal/diagfmt"
	"muscript/internal/source"
)

func colorEnabled(cmd *cobra.Command) bool {
	mode, _ := cmd.Flags().GetString("color")
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, _ := cmd.Flags().GetInt("max-diagnostics")
	if n < 0 {
		return 0
	}
	return n
}

// printDiagnostics sorts the bag and renders it to stderr.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	opts := diagfmt.PrettyOpts{
		Color:     colorEnabled(cmd),
		Width:     120,
		ShowNotes: true,
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, opts)
	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		diagfmt.Summary(cmd.ErrOrStderr(), bag, opts)
	}
}

// errSilent marks a failure already explained through diagnostics.
var errSilent = errors.New("exiting due to diagnostics")

func silentFailure(cmd *cobra.Command) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return errSilent
}
