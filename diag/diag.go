// Package diag implements fy's diagnostic subsystem: typed, position-
// carrying errors and warnings, each tagged with the module that raised
// it, with an optional colorized sink (spec §7). Diagnostics are not
// filtered by module. It has no dependency on the rest of
// fy so the scanner, parser, builder, and emitter can all report through
// it without an import cycle.
package diag

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Module tags a diagnostic with the subsystem that raised it.
type Module string

const (
	ModuleInput   Module = "input"
	ModuleScan    Module = "scan"
	ModuleParse   Module = "parse"
	ModuleBuild   Module = "build"
	ModuleEmit    Module = "emit"
	ModuleUnknown Module = "unknown"
)

// Severity orders diagnostics for filtering and display.
type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Position mirrors the scanner/parser's source position so diag doesn't
// need to import internal/token (which would create an import cycle
// with packages that both scan and diagnose).
type Position struct {
	ByteOffset int
	Line       int
	Column     int
}

func (p Position) String() string {
	if p.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Diagnostic is one reported error, warning, or note.
type Diagnostic struct {
	Severity Severity
	Module   Module
	Position Position
	Message  string

	// Err is the underlying error, if the diagnostic was constructed by
	// wrapping one. It is nil for diagnostics raised without a Go error
	// (e.g. informational notes from the emitter).
	Err error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Module, d.Severity, d.Message, d.Position)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// New builds a Diagnostic at SeverityError, the common case for scanner/
// parser/builder failures.
func New(module Module, pos Position, err error) Diagnostic {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Diagnostic{Severity: SeverityError, Module: module, Position: pos, Message: msg, Err: err}
}

// Sink receives diagnostics as they are produced. Report may return true
// to request cooperative cancellation (spec §5): the caller's next pull
// from the parser then returns early instead of continuing the stream.
type Sink interface {
	Report(d Diagnostic) (stop bool)
}

// Buffer is an in-memory Sink, the default when a caller wants to collect
// diagnostics instead of acting on them as they arrive.
type Buffer struct {
	items []Diagnostic
}

func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) Report(d Diagnostic) bool {
	b.items = append(b.items, d)
	return false
}

func (b *Buffer) Diagnostics() []Diagnostic { return b.items }

func (b *Buffer) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sort orders buffered diagnostics by position, matching the order a
// reader scanning the source top-to-bottom would encounter them.
func (b *Buffer) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		if b.items[i].Position.Line != b.items[j].Position.Line {
			return b.items[i].Position.Line < b.items[j].Position.Line
		}
		return b.items[i].Position.Column < b.items[j].Position.Column
	})
}

// styles mirrors the severity-colored style table pattern used for
// terminal output elsewhere in the corpus (charmbracelet/lipgloss), kept
// deliberately small: one style per severity plus a module badge.
type styles struct {
	errorText   lipgloss.Style
	warnText    lipgloss.Style
	noteText    lipgloss.Style
	moduleBadge lipgloss.Style
	position    lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		return styles{}
	}
	return styles{
		errorText:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C")),
		warnText:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4D03F")),
		noteText:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2CD7C7")),
		moduleBadge: lipgloss.NewStyle().Foreground(lipgloss.Color("#157483")),
		position:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54")),
	}
}

// PrintSink is a Sink that writes colorized (or plain) diagnostics to w
// as they are reported. Color is typically gated by the caller on TTY
// detection (see cmd/fy, which uses mattn/go-isatty).
type PrintSink struct {
	w      io.Writer
	color  bool
	styles styles
	mode   string // not set by NewPrintSink and not read anywhere
}

func NewPrintSink(w io.Writer, color bool) *PrintSink {
	return &PrintSink{w: w, color: color, styles: newStyles(color)}
}

func (p *PrintSink) Report(d Diagnostic) bool {
	sevText := d.Severity.String()
	badge := fmt.Sprintf("[%s]", d.Module)
	if p.color {
		st := p.styles.noteText
		switch d.Severity {
		case SeverityError:
			st = p.styles.errorText
		case SeverityWarning:
			st = p.styles.warnText
		}
		sevText = st.Render(sevText)
		badge = p.styles.moduleBadge.Render(badge)
		fmt.Fprintf(p.w, "%s %s %s: %s\n", sevText, badge, p.styles.position.Render(d.Position.String()), d.Message)
		return false
	}
	fmt.Fprintf(p.w, "%s %s %s: %s\n", sevText, badge, d.Position.String(), d.Message)
	return false
}
