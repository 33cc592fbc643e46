package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	fy "github.com/fy-yaml/fy"
	"github.com/fy-yaml/fy/diag"
)

func newParseCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "parse a document and report diagnostics without emitting it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(flags, args)
		},
	}
}

func runParse(flags *rootFlags, args []string) error {
	f, err := inputFile(args)
	if err != nil {
		return err
	}
	if f != os.Stdin {
		defer f.Close()
	}

	sink := diag.NewPrintSink(os.Stderr, colorEnabled(flags.color, os.Stderr))
	p := fy.NewParser(f, fy.ParseOptions{
		Resolve:              flags.resolve,
		RelaxedDuplicateKeys: flags.relaxedDuplicateKeys,
		Sink:                 sink,
	})

	count := 0
	for {
		_, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		count++
	}
	fmt.Printf("parse: %d document(s) ok\n", count)
	return nil
}
