package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	fy "github.com/fy-yaml/fy"
	"github.com/fy-yaml/fy/diag"
)

func newCopyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "copy [file]",
		Short: "parse a document and re-emit it in the selected mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(flags, args)
		},
	}
}

func runCopy(flags *rootFlags, args []string) error {
	f, err := inputFile(args)
	if err != nil {
		return err
	}
	if f != os.Stdin {
		defer f.Close()
	}

	opts, err := encodeOptions(flags)
	if err != nil {
		return err
	}

	sink := diag.NewPrintSink(os.Stderr, colorEnabled(flags.color, os.Stderr))
	p := fy.NewParser(f, fy.ParseOptions{
		Resolve:              flags.resolve,
		RelaxedDuplicateKeys: flags.relaxedDuplicateKeys,
		Sink:                 sink,
	})
	enc := fy.NewEncoder(os.Stdout, opts)

	for {
		doc, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return enc.Close()
}
