package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fy-yaml/fy/internal/engine"
	tok "github.com/fy-yaml/fy/internal/token"
)

func newTestsuiteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "testsuite [file]",
		Short: "dump the YAML test-suite event notation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTestsuite(args)
		},
	}
}

func runTestsuite(args []string) error {
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
		ev, err := engine.Parse(p)
		if err != nil {
			return fmt.Errorf("testsuite: %w", err)
		}
		if ev == nil || ev.Type == tok.NO_EVENT {
			return nil
		}
		switch ev.Type {
		case tok.STREAM_START_EVENT:
			fmt.Fprintln(out, "+STR")
		case tok.STREAM_END_EVENT:
			fmt.Fprintln(out, "-STR")
			return nil
		case tok.DOCUMENT_START_EVENT:
			if ev.Implicit {
				fmt.Fprintln(out, "+DOC")
			} else {
				fmt.Fprintln(out, "+DOC ---")
			}
		case tok.DOCUMENT_END_EVENT:
			if ev.Implicit {
				fmt.Fprintln(out, "-DOC")
			} else {
				fmt.Fprintln(out, "-DOC ...")
			}
		case tok.MAPPING_START_EVENT:
			fmt.Fprintln(out, "+MAP"+anchorTagSuffix(ev))
		case tok.MAPPING_END_EVENT:
			fmt.Fprintln(out, "-MAP")
		case tok.SEQUENCE_START_EVENT:
			fmt.Fprintln(out, "+SEQ"+anchorTagSuffix(ev))
		case tok.SEQUENCE_END_EVENT:
			fmt.Fprintln(out, "-SEQ")
		case tok.SCALAR_EVENT:
			fmt.Fprintf(out, "=VAL%s %c%s\n", anchorTagSuffix(ev), styleIndicator(ev.Scalar_style()), escapeValue(string(ev.Value)))
		case tok.ALIAS_EVENT:
			fmt.Fprintf(out, "=ALI *%s\n", ev.Anchor)
		}
	}
}

func anchorTagSuffix(ev *tok.Event) string {
	var b strings.Builder
	if len(ev.Anchor) > 0 {
		fmt.Fprintf(&b, " &%s", ev.Anchor)
	}
	if len(ev.Tag) > 0 {
		fmt.Fprintf(&b, " <%s>", ev.Tag)
	}
	return b.String()
}

func styleIndicator(style tok.YamlScalarStyle) byte {
	switch {
	case style&tok.SINGLE_QUOTED_SCALAR_STYLE != 0:
		return '\''
	case style&tok.DOUBLE_QUOTED_SCALAR_STYLE != 0:
		return '"'
	case style&tok.LITERAL_SCALAR_STYLE != 0:
		return '|'
	case style&tok.FOLDED_SCALAR_STYLE != 0:
		return '>'
	default:
		return ':'
	}
}

func escapeValue(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
