package diag_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fy-yaml/fy/diag"
)

func TestBufferCollectsAndSorts(t *testing.T) {
	b := diag.NewBuffer()
	b.Report(diag.New(diag.ModuleParse, diag.Position{Line: 3, Column: 1}, errors.New("late")))
	b.Report(diag.New(diag.ModuleScan, diag.Position{Line: 1, Column: 5}, errors.New("early")))
	b.Sort()
	got := b.Diagnostics()
	require.Len(t, got, 2)
	require.Equal(t, "early", got[0].Message)
	require.Equal(t, "late", got[1].Message)
	require.True(t, b.HasErrors())
}

func TestPrintSinkPlain(t *testing.T) {
	var buf bytes.Buffer
	sink := diag.NewPrintSink(&buf, false)
	stop := sink.Report(diag.New(diag.ModuleEmit, diag.Position{Line: 2, Column: 4}, errors.New("boom")))
	require.False(t, stop)
	require.Contains(t, buf.String(), "boom")
	require.Contains(t, buf.String(), "2:4")
}

func TestDiagnosticUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	d := diag.New(diag.ModuleBuild, diag.Position{}, sentinel)
	require.ErrorIs(t, d, sentinel)
}
