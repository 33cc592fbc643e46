package path_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	fy "github.com/fy-yaml/fy"
	"github.com/fy-yaml/fy/path"
)

func parseDoc(t *testing.T, src string) *fy.Node {
	t.Helper()
	p := fy.NewParserFromBytes([]byte(src), fy.ParseOptions{Resolve: true})
	doc, err := p.Next()
	require.NoError(t, err)
	return doc.Root
}

func TestByJSONPointer(t *testing.T) {
	root := parseDoc(t, "a:\n  b:\n    - x\n    - y\n")
	n, err := path.ByJSONPointer(root, "/a/b/1")
	require.NoError(t, err)
	require.Equal(t, "y", n.Value)
}

func TestByJSONPointerEscapes(t *testing.T) {
	root := parseDoc(t, "\"a/b\": 1\n\"c~d\": 2\n")
	n, err := path.ByJSONPointer(root, "/a~1b")
	require.NoError(t, err)
	require.Equal(t, "1", n.Value)
	n, err = path.ByJSONPointer(root, "/c~0d")
	require.NoError(t, err)
	require.Equal(t, "2", n.Value)
}

func TestByJSONPointerNotFound(t *testing.T) {
	root := parseDoc(t, "a: 1\n")
	_, err := path.ByJSONPointer(root, "/missing")
	require.ErrorIs(t, err, path.ErrNotFound)
}

func TestByPathBareAndIndex(t *testing.T) {
	root := parseDoc(t, "a:\n  b:\n    - x\n    - y\n    - z\n")
	n, err := path.ByPath(root, "/a/b/[2]")
	require.NoError(t, err)
	require.Equal(t, "z", n.Value)
}

func TestByPathQuotedSegment(t *testing.T) {
	root := parseDoc(t, "\"a key\": 1\n")
	n, err := path.ByPath(root, `/"a key"`)
	require.NoError(t, err)
	require.Equal(t, "1", n.Value)
}

func TestByRelativeJSONPointer(t *testing.T) {
	root := parseDoc(t, "a:\n  b: 1\n  c: 2\n")
	b, err := path.ByJSONPointer(root, "/a/b")
	require.NoError(t, err)

	sibling, err := path.ByRelativeJSONPointer(root, b, "1/c")
	require.NoError(t, err)
	require.Equal(t, "2", sibling.Value)

	self, err := path.ByRelativeJSONPointer(root, b, "0")
	require.NoError(t, err)
	require.Same(t, b, self)
}
