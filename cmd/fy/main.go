// Command fy is a reference command-line front end over package fy: it
// parses, re-emits, copies, and dumps the test-suite event notation for
// YAML documents (spec §5.8).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	mode                 string
	resolve              bool
	sortKeys             bool
	stripEmptyKV         bool
	comments             bool
	width                int
	indent               int
	color                string
	relaxedDuplicateKeys bool
	indentedSeqInMap     bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "fy",
		Short:         "parse, scan, copy, and inspect YAML documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.mode, "mode", "block",
		"emission mode: block, flow, flow-oneline, json, json-oneline, json-tp, original")
	root.PersistentFlags().BoolVar(&flags.resolve, "resolve", false, "resolve anchors, aliases, and merge keys")
	root.PersistentFlags().BoolVar(&flags.sortKeys, "sort-keys", false, "sort mapping keys in the emitted text")
	root.PersistentFlags().BoolVar(&flags.stripEmptyKV, "strip-empty-kv", false, "drop mapping pairs whose value is null")
	root.PersistentFlags().BoolVar(&flags.comments, "comments", true, "emit head/line/foot comments")
	root.PersistentFlags().IntVar(&flags.width, "width", 0, "preferred line width (0 = default, negative = never wrap)")
	root.PersistentFlags().IntVar(&flags.indent, "indent", 0, "block indentation width (0 = default)")
	root.PersistentFlags().StringVar(&flags.color, "color", "auto", "diagnostic color: auto, always, never")
	root.PersistentFlags().BoolVar(&flags.relaxedDuplicateKeys, "relaxed-duplicate-keys", false,
		"do not reject duplicate mapping keys")
	root.PersistentFlags().BoolVar(&flags.indentedSeqInMap, "indented-seq-in-map", false,
		"emit a block sequence under a mapping key with its own indent level (INDENTED_SEQ_IN_MAP)")

	root.AddCommand(newParseCmd(&flags))
	root.AddCommand(newScanCmd(&flags))
	root.AddCommand(newCopyCmd(&flags))
	root.AddCommand(newTestsuiteCmd(&flags))
	return root
}

func inputFile(args []string) (*os.File, error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, nil
	}
	return os.Open(args[0])
}
