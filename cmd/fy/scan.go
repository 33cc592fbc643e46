package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fy-yaml/fy/internal/engine"
)

func newScanCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [file]",
		Short: "dump the raw token stream (kind [start:end] \"text\")",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args)
		},
	}
}

func runScan(args []string) error {
	f, err := inputFile(args)
	if err != nil {
		return err
	}
	if f != os.Stdin {
		defer f.Close()
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	p := engine.New(f)
	for {
		t, err := engine.Scan(p)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if t == nil {
			return nil
		}
		fmt.Fprintf(out, "%s [%d:%d] %q\n", t.Type, t.Start_mark.Index, t.End_mark.Index, t.Value)
	}
}
