//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fy_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	fy "github.com/fy-yaml/fy"
)

func encode(t *testing.T, doc *fy.Document, opts fy.EncodeOptions) string {
	t.Helper()
	var buf bytes.Buffer
	enc := fy.NewEncoder(&buf, opts)
	require.NoError(t, enc.Encode(doc))
	require.NoError(t, enc.Close())
	return buf.String()
}

func TestEmitJSONModeIsValidJSONShape(t *testing.T) {
	doc := parseOne(t, "a: 1\nb:\n  - x\n  - y\nc: \"hi\"\n", fy.ParseOptions{})
	out := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeJSONOneline})
	require.Contains(t, out, `"a"`)
	require.Contains(t, out, `"c": "hi"`)
	require.NotContains(t, out, "&")
	require.NotContains(t, out, "!!")
}

func TestEmitJSONModeInlinesAlias(t *testing.T) {
	doc := parseOne(t, "a: &x 1\nb: *x\n", fy.ParseOptions{})
	out := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeJSONOneline})
	require.NotContains(t, out, "*x")
	require.Contains(t, out, `"b": 1`)
}

func TestEmitJSONModeRejectsUnresolvedAlias(t *testing.T) {
	alias := &fy.Node{Kind: fy.AliasNode, Value: "x"}
	doc := &fy.Document{Root: alias}
	var buf bytes.Buffer
	enc := fy.NewEncoder(&buf, fy.EncodeOptions{Mode: fy.ModeJSON})
	require.Error(t, enc.Encode(doc))
}

func TestEmitSortKeysDoesNotMutateTree(t *testing.T) {
	doc := parseOne(t, "b: 1\na: 2\n", fy.ParseOptions{})
	_ = encode(t, doc, fy.EncodeOptions{Mode: fy.ModeBlock, SortKeys: true})
	keys, _ := doc.Root.Pairs()
	require.Equal(t, "b", keys[0].Value, "source tree order must survive a sorted emission")
}

func TestEmitSortKeysOrdersOutput(t *testing.T) {
	doc := parseOne(t, "b: 1\na: 2\n", fy.ParseOptions{})
	out := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeFlowOneline, SortKeys: true})
	require.True(t, strings.Index(out, "a:") < strings.Index(out, "b:"))
}

func TestEmitStripEmptyKV(t *testing.T) {
	doc := parseOne(t, "a: 1\nb: null\n", fy.ParseOptions{})
	out := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeFlowOneline, StripEmptyKV: true})
	require.NotContains(t, out, "b:")
}

func TestEmitFlowOnelineSingleLine(t *testing.T) {
	doc := parseOne(t, "a:\n  - 1\n  - 2\n  - 3\n", fy.ParseOptions{})
	out := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeFlowOneline})
	require.Equal(t, 1, strings.Count(strings.TrimRight(out, "\n"), "\n")+1)
}

func TestEmitIndentedSeqInMapDefaultIsIndentless(t *testing.T) {
	doc := parseOne(t, "k:\n- 1\n- 2\n", fy.ParseOptions{})
	out := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeBlock, Indent: 2})
	require.Equal(t, "k:\n- 1\n- 2\n", out)
}

func TestEmitIndentedSeqInMap(t *testing.T) {
	doc := parseOne(t, "k:\n- 1\n- 2\n", fy.ParseOptions{})
	out := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeBlock, Indent: 2, IndentedSeqInMap: true})
	require.Equal(t, "k:\n  - 1\n  - 2\n", out)
}

func TestEmitIndentedSeqInMapNestedSequence(t *testing.T) {
	doc := parseOne(t, "k:\n  - 1\n  - - 2\n    - 3\n", fy.ParseOptions{})
	out := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeBlock, Indent: 2, IndentedSeqInMap: true})
	require.Equal(t, "k:\n  - 1\n  -\n    - 2\n    - 3\n", out)
}

func TestEmitIndentedSeqInMapDoesNotAffectSequenceInSequence(t *testing.T) {
	doc := parseOne(t, "- 1\n- - 2\n  - 3\n", fy.ParseOptions{})
	withFlag := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeBlock, Indent: 2, IndentedSeqInMap: true})
	withoutFlag := encode(t, doc, fy.EncodeOptions{Mode: fy.ModeBlock, Indent: 2})
	require.Equal(t, withoutFlag, withFlag, "the flag only applies to a sequence valuing a mapping key")
}
