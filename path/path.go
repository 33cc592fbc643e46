// Package path implements the three node-addressing notations a YAML
// document supports (spec §4.5): a slash-separated YAML path with bare,
// quoted, and flow-expression segments; RFC 6901 JSON Pointer; and the
// relative JSON Pointer draft. All three resolve directly against
// *fy.Node trees, without copying into an intermediate generic value.
package path

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	fy "github.com/fy-yaml/fy"
)

// ErrNotFound is returned when a path addresses nothing in the tree.
var ErrNotFound = errors.New("fy/path: node not found")

// ByPath resolves expr as a YAML path: "/"-separated segments where a
// segment is a bare key, a quoted string (with \ escapes), "[n]" for a
// sequence index, or a flow-expression key such as "{a: 1}" matched
// against a mapping key that is itself a mapping with equal pairs.
func ByPath(root *fy.Node, expr string) (*fy.Node, error) {
	segs, err := splitYAMLPath(expr)
	if err != nil {
		return nil, err
	}
	return walkSegments(root, segs)
}

// ByJSONPointer resolves expr as an RFC 6901 JSON Pointer.
func ByJSONPointer(root *fy.Node, expr string) (*fy.Node, error) {
	if expr == "" {
		return root, nil
	}
	if expr[0] != '/' {
		return nil, fmt.Errorf("fy/path: JSON pointer must start with '/': %q", expr)
	}
	tokens := strings.Split(expr[1:], "/")
	n := root
	for _, t := range tokens {
		t = unescapeJSONPointerToken(t)
		var ok bool
		n, ok = step(n, t)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, expr)
		}
	}
	return n, nil
}

// ByRelativeJSONPointer resolves expr as a relative JSON Pointer: "<n>"
// optionally followed by "/<rest>", ascending n parents from current
// before applying the remainder as an absolute JSON Pointer. root is
// needed to compute the ancestor chain of current.
func ByRelativeJSONPointer(root, current *fy.Node, expr string) (*fy.Node, error) {
	i := 0
	for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
		i++
	}
	if i == 0 {
		return nil, fmt.Errorf("fy/path: relative JSON pointer must start with a digit: %q", expr)
	}
	n, err := strconv.Atoi(expr[:i])
	if err != nil {
		return nil, err
	}
	rest := expr[i:]

	ancestors := ancestorChain(root, current)
	if n > len(ancestors) {
		return nil, fmt.Errorf("fy/path: cannot ascend %d levels, only %d available", n, len(ancestors))
	}
	start := current
	if n > 0 {
		start = ancestors[n-1]
	}
	if rest == "" {
		return start, nil
	}
	return ByJSONPointer(start, rest)
}

func unescapeJSONPointerToken(t string) string {
	if !strings.Contains(t, "~") {
		return t
	}
	t = strings.ReplaceAll(t, "~1", "/")
	t = strings.ReplaceAll(t, "~0", "~")
	return t
}

// step applies one path/pointer token to n: a mapping key lookup, or a
// sequence index (including JSON Pointer's "-" meaning one past the end,
// which never resolves to an existing element).
func step(n *fy.Node, token string) (*fy.Node, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Kind {
	case fy.MappingNode:
		return n.Get(token)
	case fy.SequenceNode:
		if token == "-" {
			return nil, false
		}
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 || idx >= len(n.Content) {
			return nil, false
		}
		return n.Content[idx], true
	case fy.DocumentNode:
		if len(n.Content) == 1 {
			return step(n.Content[0], token)
		}
		return nil, false
	default:
		return nil, false
	}
}

// ancestorChain returns current's ancestors from nearest parent to
// root, found by a depth-first search from root. It returns nil if
// current is root or is not reachable from root.
func ancestorChain(root, current *fy.Node) []*fy.Node {
	if root == current {
		return nil
	}
	var chain []*fy.Node
	var walk func(n *fy.Node, stack []*fy.Node) bool
	walk = func(n *fy.Node, stack []*fy.Node) bool {
		if n == current {
			chain = append([]*fy.Node(nil), stack...)
			return true
		}
		next := append(stack, n)
		for _, c := range n.Content {
			if c == nil {
				continue
			}
			if walk(c, next) {
				return true
			}
		}
		return false
	}
	walk(root, nil)
	// chain is root...parent (outermost first); callers ascend nearest
	// first, so reverse it.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// yamlPathSegment is one decoded "/"-separated component of a YAML path.
type yamlPathSegment struct {
	key   string // bare or quoted-string key, or flow-expression text
	index int    // sequence index, valid when isIndex is true
	isIndex bool
}

func splitYAMLPath(expr string) ([]yamlPathSegment, error) {
	if expr == "" || expr == "/" {
		return nil, nil
	}
	if expr[0] != '/' {
		return nil, fmt.Errorf("fy/path: YAML path must start with '/': %q", expr)
	}
	var segs []yamlPathSegment
	rest := expr[1:]
	for len(rest) > 0 {
		seg, remainder, err := readYAMLPathSegment(rest)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
		rest = remainder
	}
	return segs, nil
}

func readYAMLPathSegment(s string) (yamlPathSegment, string, error) {
	switch s[0] {
	case '[':
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return yamlPathSegment{}, "", fmt.Errorf("fy/path: unterminated '[' in %q", s)
		}
		idx, err := strconv.Atoi(s[1:end])
		if err != nil {
			return yamlPathSegment{}, "", fmt.Errorf("fy/path: bad sequence index %q", s[1:end])
		}
		rest := s[end+1:]
		rest = strings.TrimPrefix(rest, "/")
		return yamlPathSegment{index: idx, isIndex: true}, rest, nil
	case '"':
		var b strings.Builder
		i := 1
		for i < len(s) && s[i] != '"' {
			if s[i] == '\\' && i+1 < len(s) {
				i++
			}
			b.WriteByte(s[i])
			i++
		}
		if i >= len(s) {
			return yamlPathSegment{}, "", fmt.Errorf("fy/path: unterminated quoted segment in %q", s)
		}
		rest := s[i+1:]
		rest = strings.TrimPrefix(rest, "/")
		return yamlPathSegment{key: b.String()}, rest, nil
	case '{':
		depth := 0
		i := 0
		for i < len(s) {
			switch s[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					i++
					goto done
				}
			}
			i++
		}
	done:
		if depth != 0 {
			return yamlPathSegment{}, "", fmt.Errorf("fy/path: unterminated '{' in %q", s)
		}
		rest := s[i:]
		rest = strings.TrimPrefix(rest, "/")
		return yamlPathSegment{key: s[:i]}, rest, nil
	default:
		i := strings.IndexByte(s, '/')
		if i < 0 {
			return yamlPathSegment{key: s}, "", nil
		}
		return yamlPathSegment{key: s[:i]}, s[i+1:], nil
	}
}

func walkSegments(root *fy.Node, segs []yamlPathSegment) (*fy.Node, error) {
	n := root
	for _, seg := range segs {
		if n == nil {
			return nil, ErrNotFound
		}
		if n.Kind == fy.DocumentNode && len(n.Content) == 1 {
			n = n.Content[0]
		}
		switch {
		case seg.isIndex:
			if n.Kind != fy.SequenceNode || seg.index < 0 || seg.index >= len(n.Content) {
				return nil, ErrNotFound
			}
			n = n.Content[seg.index]
		case strings.HasPrefix(seg.key, "{"):
			match, ok := matchFlowKey(n, seg.key)
			if !ok {
				return nil, ErrNotFound
			}
			n = match
		default:
			v, ok := n.Get(seg.key)
			if !ok {
				return nil, ErrNotFound
			}
			n = v
		}
	}
	return n, nil
}

// matchFlowKey finds a mapping entry in n whose key is itself a mapping
// structurally equal (by canonical scalar value) to the flow expression
// text's parsed pairs. This covers complex (non-scalar) keys, which
// YAML permits but which most real documents never use.
func matchFlowKey(n *fy.Node, flowExpr string) (*fy.Node, bool) {
	if n.Kind != fy.MappingNode {
		return nil, false
	}
	want := parseFlowPairs(flowExpr)
	keys, values := n.Pairs()
	for i, k := range keys {
		if k.Kind != fy.MappingNode {
			continue
		}
		have := map[string]string{}
		kk, vv := k.Pairs()
		for j := range kk {
			have[kk[j].Value] = vv[j].Value
		}
		if len(have) == len(want) {
			match := true
			for wk, wv := range want {
				if have[wk] != wv {
					match = false
					break
				}
			}
			if match {
				return values[i], true
			}
		}
	}
	return nil, false
}

// parseFlowPairs does a minimal, scalars-only parse of a "{k: v, ...}"
// expression, sufficient for matching flow-mapping keys in a path
// segment. It is not a general flow-YAML parser.
func parseFlowPairs(expr string) map[string]string {
	expr = strings.TrimSuffix(strings.TrimPrefix(expr, "{"), "}")
	out := map[string]string{}
	if strings.TrimSpace(expr) == "" {
		return out
	}
	for _, part := range strings.Split(expr, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		out[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return out
}
