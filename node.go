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

// Package fy implements a YAML 1.1/1.2 scanner, parser, document builder,
// and emitter. Node is the public tree type: fy does not bind documents
// onto arbitrary Go structs by reflection, so there is no Marshal or
// Unmarshal here. Callers that want struct binding compose it themselves
// on top of Node.
package fy

import "github.com/fy-yaml/fy/internal/resolve"

// Kind identifies the shape of a Node.
type Kind uint32

const (
	// DocumentNode wraps the single root node of a document.
	DocumentNode Kind = 1 << iota
	SequenceNode
	MappingNode
	ScalarNode
	AliasNode
)

func (k Kind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	case ScalarNode:
		return "scalar"
	case AliasNode:
		return "alias"
	}
	return "unknown"
}

// Style is a bitmask of presentation hints carried by a Node. A Node
// synthesized at runtime (not parsed from text) carries no style and the
// emitter falls back to its own selection rules (see internal/emitter).
type Style uint32

const (
	TaggedStyle Style = 1 << iota
	DoubleQuotedStyle
	SingleQuotedStyle
	LiteralStyle
	FoldedStyle
	FlowStyle
)

// Node is one element of a parsed or constructed document tree. Mapping
// nodes store their pairs flattened into Content (key, value, key, value,
// ...) in insertion order; YAML 1.2 requires that order be preserved, and
// fy never reorders it even under SORT_KEYS emission (§4.6), which sorts
// only the emitted text, not the tree.
type Node struct {
	Kind    Kind
	Style   Style
	Tag     string
	Value   string
	Anchor  string
	Alias   *Node
	Content []*Node

	HeadComment string
	LineComment string
	FootComment string

	Line   int
	Column int

	// Doc is the document this node belongs to. It is nil only for nodes
	// synthesized outside of any parse (e.g. in tests). No node outlives
	// its Doc (§3 invariant); once a Document is discarded its nodes must
	// not be dereferenced further.
	Doc *Document
}

// IsZero reports whether the node is the zero Node, which fy's emitter
// treats the same as an explicit null scalar.
func (n *Node) IsZero() bool {
	return n.Kind == 0 && n.Style == 0 && n.Tag == "" && n.Value == "" &&
		n.Anchor == "" && n.Alias == nil && n.Content == nil
}

// IsMergeKey reports whether n is the YAML 1.1 "<<" merge key (§4.4).
func (n *Node) IsMergeKey() bool {
	if n.Kind != ScalarNode || n.Value != "<<" {
		return false
	}
	return n.Tag == "" || n.Tag == "!" || resolve.ShortTag(n.Tag) == resolve.MergeTag
}

// Pairs returns the node's mapping entries as key/value slices of equal
// length. It panics if n is not a MappingNode; callers that aren't sure
// should check Kind first.
func (n *Node) Pairs() (keys, values []*Node) {
	if n.Kind != MappingNode {
		panic("fy: Pairs called on a non-mapping node")
	}
	keys = make([]*Node, 0, len(n.Content)/2)
	values = make([]*Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i])
		values = append(values, n.Content[i+1])
	}
	return keys, values
}

// Get looks up a mapping key by its scalar value. It returns nil, false
// if n is not a mapping or the key is absent. This is a convenience for
// the common case; general lookups go through package path.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind != MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Kind == ScalarNode && n.Content[i].Value == key {
			return n.Content[i+1], true
		}
	}
	return nil, false
}
