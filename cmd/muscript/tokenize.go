package main

import (
	"github.com/spf13/cobra"

	"muscript/internal/diag"
	"muscript/internal/diagfmt"
	"muscript/internal/lexer"
	"muscript/internal/pp"
	"muscript/internal/source"
	"muscript/internal/token"
)

var (
	tokenizeExpand   bool
	tokenizeChannels bool
	tokenizeSpans    bool
)

func init() {
	tokenizeCmd.Flags().BoolVar(&tokenizeExpand, "pp", false, "run the preprocessor before dumping")
	tokenizeCmd.Flags().BoolVar(&tokenizeChannels, "channels", false, "show the channel of each token")
	tokenizeCmd.Flags().BoolVar(&tokenizeSpans, "spans", false, "show line:col of each token")
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file.uc>...",
	Short: "Dump the token stream of source files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileSet := source.NewFileSet()
		arena := token.NewArena()
		bag := diag.NewBag(maxDiagnostics(cmd))
		rep := diag.BagReporter{Bag: bag}

		opts := diagfmt.TokensOpts{
			ShowChannel: tokenizeChannels,
			ShowSpan:    tokenizeSpans,
			Width:       60,
		}

		for _, path := range args {
			fid, err := fileSet.Load(path)
			if err != nil {
				return err
			}
			span := lexer.Tokenize(fileSet.Get(fid), arena, lexer.Options{Reporter: rep})

			if tokenizeExpand {
				macros := pp.NewMacros()
				ppr := pp.New(fileSet, arena, macros, rep, nil)
				ids := ppr.Expand(span)
				for _, id := range ids {
					diagfmt.Tokens(cmd.OutOrStdout(), arena, token.Single(id), fileSet, opts)
				}
			} else {
				diagfmt.Tokens(cmd.OutOrStdout(), arena, span, fileSet, opts)
			}
		}

		printDiagnostics(cmd, bag, fileSet)
		if bag.HasErrors() {
			return silentFailure(cmd)
		}
		return nil
	},
}
