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
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	fy "github.com/fy-yaml/fy"
)

func parseOne(t *testing.T, src string, opts fy.ParseOptions) *fy.Document {
	t.Helper()
	p := fy.NewParserFromBytes([]byte(src), opts)
	doc, err := p.Next()
	require.NoError(t, err)
	return doc
}

func TestParserScalar(t *testing.T) {
	doc := parseOne(t, "hello\n", fy.ParseOptions{})
	require.Equal(t, fy.ScalarNode, doc.Root.Kind)
	require.Equal(t, "hello", doc.Root.Value)
}

func TestParserMappingOrderPreserved(t *testing.T) {
	doc := parseOne(t, "b: 1\na: 2\nc: 3\n", fy.ParseOptions{})
	keys, _ := doc.Root.Pairs()
	require.Len(t, keys, 3)
	require.Equal(t, []string{"b", "a", "c"}, []string{keys[0].Value, keys[1].Value, keys[2].Value})
}

func TestParserAnchorAlias(t *testing.T) {
	doc := parseOne(t, "a: &x 1\nb: *x\n", fy.ParseOptions{})
	_, values := doc.Root.Pairs()
	require.Equal(t, "1", values[0].Value)
	require.Equal(t, fy.AliasNode, values[1].Kind)
	require.Same(t, values[0], values[1].Alias)
}

func TestParserUndefinedAlias(t *testing.T) {
	_, err := fy.NewParserFromBytes([]byte("a: *missing\n"), fy.ParseOptions{}).Next()
	require.ErrorIs(t, err, fy.ErrUndefinedAlias)
}

func TestMergeKeyExpansion(t *testing.T) {
	src := "base: &b\n  x: 1\n  y: 2\nderived:\n  <<: *b\n  y: 3\n  z: 4\n"
	doc := parseOne(t, src, fy.ParseOptions{Resolve: true})
	_, top := doc.Root.Pairs()
	derived := top[1]
	require.Equal(t, fy.MappingNode, derived.Kind)
	keys, values := derived.Pairs()
	got := map[string]string{}
	for i, k := range keys {
		got[k.Value] = values[i].Value
	}
	// y and z are explicit; x is contributed by the merge. y keeps its
	// explicit value of 3, not the merged-in 2 (explicit wins).
	require.Equal(t, "3", got["y"])
	require.Equal(t, "4", got["z"])
	require.Equal(t, "1", got["x"])
	require.Len(t, keys, 3)
}

func TestMergeKeySequenceOfMappingsListOrder(t *testing.T) {
	src := "a: &a\n  k: a-value\nb: &b\n  k: b-value\n  only-b: 1\nc:\n  <<: [*a, *b]\n"
	doc := parseOne(t, src, fy.ParseOptions{Resolve: true})
	_, top := doc.Root.Pairs()
	c := top[2]
	_, ok := c.Get("k")
	require.True(t, ok)
	v, _ := c.Get("k")
	require.Equal(t, "a-value", v.Value, "first contributor in list order wins")
	_, ok = c.Get("only-b")
	require.True(t, ok)
}

func TestMergeKeySplicesAtItsSourcePosition(t *testing.T) {
	src := "base: &base\n  a: 1\n  b: 2\noverride: &override\n  b: 20\nroot:\n  <<: [*base, *override]\n  foo: bar\n"
	doc := parseOne(t, src, fy.ParseOptions{Resolve: true})
	_, top := doc.Root.Pairs()
	root := top[2]
	keys, values := root.Pairs()
	require.Len(t, keys, 3)
	require.Equal(t, []string{"a", "b", "foo"}, []string{keys[0].Value, keys[1].Value, keys[2].Value})
	require.Equal(t, []string{"1", "2", "bar"}, []string{values[0].Value, values[1].Value, values[2].Value})
}

func TestMergeKeyExplicitOverridesRegardlessOfPosition(t *testing.T) {
	// The merge key precedes "y" in source, but an explicit "y" still
	// wins over the value the merge would have contributed (§4.4).
	src := "base: &b\n  x: 1\n  y: 2\nderived:\n  <<: *b\n  y: 3\n"
	doc := parseOne(t, src, fy.ParseOptions{Resolve: true})
	_, top := doc.Root.Pairs()
	derived := top[1]
	v, ok := derived.Get("y")
	require.True(t, ok)
	require.Equal(t, "3", v.Value)
}

func TestDuplicateKeyStructuralMappingKey(t *testing.T) {
	src := "? {a: 1}\n: x\n? {a: 1}\n: y\n"
	_, err := fy.NewParserFromBytes([]byte(src), fy.ParseOptions{Resolve: true}).Next()
	require.ErrorIs(t, err, fy.ErrDuplicateKey)
}

func TestDuplicateKeyStrict(t *testing.T) {
	_, err := fy.NewParserFromBytes([]byte("a: 1\na: 2\n"), fy.ParseOptions{Resolve: true}).Next()
	require.ErrorIs(t, err, fy.ErrDuplicateKey)
}

func TestDuplicateKeyRelaxed(t *testing.T) {
	doc := parseOne(t, "a: 1\na: 2\n", fy.ParseOptions{Resolve: true, RelaxedDuplicateKeys: true})
	keys, values := doc.Root.Pairs()
	require.Len(t, keys, 2)
	require.Equal(t, "1", values[0].Value)
	require.Equal(t, "2", values[1].Value)
}

func TestScanErrorNulInStream(t *testing.T) {
	_, err := fy.NewParserFromBytes([]byte("a: 1\x00\n"), fy.ParseOptions{}).Next()
	require.ErrorIs(t, err, fy.ErrNulInStream)
}

func TestScanErrorInvalidEncoding(t *testing.T) {
	_, err := fy.NewParserFromBytes([]byte("a: \xff\xfe\n"), fy.ParseOptions{}).Next()
	require.ErrorIs(t, err, fy.ErrInvalidEncoding)
}

func TestScanErrorTabInIndent(t *testing.T) {
	_, err := fy.NewParserFromBytes([]byte("a: |\n\ttext\n"), fy.ParseOptions{}).Next()
	require.ErrorIs(t, err, fy.ErrTabInIndent)
}

func TestScanErrorUnterminatedString(t *testing.T) {
	_, err := fy.NewParserFromBytes([]byte("a: \"unterminated\n"), fy.ParseOptions{}).Next()
	require.ErrorIs(t, err, fy.ErrUnterminatedString)
}

func TestParseErrorVersionUnsupported(t *testing.T) {
	_, err := fy.NewParserFromBytes([]byte("%YAML 2.0\n---\na: 1\n"), fy.ParseOptions{}).Next()
	require.ErrorIs(t, err, fy.ErrVersionUnsupported)
}

func TestParseErrorBadDirective(t *testing.T) {
	_, err := fy.NewParserFromBytes([]byte("%YAML 1.1\n%YAML 1.1\n---\na: 1\n"), fy.ParseOptions{}).Next()
	require.ErrorIs(t, err, fy.ErrBadDirective)
}

func TestMultiDocumentStream(t *testing.T) {
	p := fy.NewParserFromBytes([]byte("---\na: 1\n---\nb: 2\n"), fy.ParseOptions{})
	var docs []*fy.Document
	for {
		doc, err := p.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	require.Len(t, docs, 2)
}

func TestResolveTreeStructuralEquality(t *testing.T) {
	src := "base: &b\n  x: 1\nderived:\n  <<: *b\n  y: 2\n"
	withMerge := parseOne(t, src, fy.ParseOptions{Resolve: true})

	// The merge key's contributions splice in at its own position
	// (§8 scenario 6), and `<<` comes before `y` in src, so the
	// flattened equivalent lists x (contributed) before y (explicit).
	flat := "base: &b\n  x: 1\nderived:\n  x: 1\n  y: 2\n"
	noMerge := parseOne(t, flat, fy.ParseOptions{Resolve: true})

	// Doc is ignored: the two trees come from unrelated Documents, and the
	// field would otherwise cycle back through Document.Root. Line/Column
	// are ignored because the two source texts lay out differently.
	opt := cmpopts.IgnoreFields(fy.Node{}, "Doc", "Line", "Column")
	if diff := cmp.Diff(noMerge.Root, withMerge.Root, opt); diff != "" {
		t.Fatalf("merge-key expansion does not match its flattened equivalent (-want +got):\n%s", diff)
	}
}

func TestRoundTripBlockMode(t *testing.T) {
	src := "name: widget\ncount: 3\ntags:\n  - a\n  - b\n"
	doc := parseOne(t, src, fy.ParseOptions{})

	var buf bytes.Buffer
	enc := fy.NewEncoder(&buf, fy.EncodeOptions{Mode: fy.ModeBlock})
	require.NoError(t, enc.Encode(doc))
	require.NoError(t, enc.Close())

	doc2 := parseOne(t, buf.String(), fy.ParseOptions{})
	require.Equal(t, doc.Root.Value, doc2.Root.Value)
	k1, v1 := doc.Root.Pairs()
	k2, v2 := doc2.Root.Pairs()
	require.Equal(t, len(k1), len(k2))
	for i := range k1 {
		require.Equal(t, k1[i].Value, k2[i].Value)
		require.Equal(t, v1[i].Value, v2[i].Value)
	}
}
