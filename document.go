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

package fy

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fy-yaml/fy/diag"
	"github.com/fy-yaml/fy/internal/engine"
	"github.com/fy-yaml/fy/internal/resolve"
	tok "github.com/fy-yaml/fy/internal/token"
)

// Sentinel build errors (spec §7 [MODULE: Build]).
var (
	ErrUndefinedAlias = errors.New("fy: undefined alias")
	ErrRecursiveAlias = errors.New("fy: alias to a still-collecting anchor")
	ErrBadMergeValue  = errors.New("fy: merge value must be a mapping or sequence of mappings")
	ErrDuplicateKey   = errors.New("fy: duplicate mapping key")
)

// Sentinel encoding/scan/parse errors (spec §7), re-exported from the engine
// package so callers can errors.Is against them without importing an
// internal package. diag.Diagnostic unwraps to these via Unwrap.
var (
	ErrInvalidEncoding  = engine.ErrInvalidEncoding
	ErrNulInStream      = engine.ErrNulInStream
	ErrPartialUTF8AtEOF = engine.ErrPartialUTF8AtEOF

	ErrUnexpectedIndent   = engine.ErrUnexpectedIndent
	ErrTabInIndent        = engine.ErrTabInIndent
	ErrUnterminatedString = engine.ErrUnterminatedString
	ErrInvalidEscape      = engine.ErrInvalidEscape
	ErrBadDirective       = engine.ErrBadDirective
	ErrUnmatchedFlow      = engine.ErrUnmatchedFlow
	ErrBadBlockIndicator  = engine.ErrBadBlockIndicator

	ErrUnexpectedToken       = engine.ErrUnexpectedToken
	ErrTagUndefined          = engine.ErrTagUndefined
	ErrVersionUnsupported    = engine.ErrVersionUnsupported
	ErrDirectiveAfterContent = engine.ErrDirectiveAfterContent
)

// anchorState is the two-state lifecycle of an anchor registry entry
// (spec §4.4): collecting while the anchored collection is still being
// built (so a cycle can be detected without allocating a cycle graph),
// complete once the collection closes.
type anchorState int

const (
	anchorCollecting anchorState = iota
	anchorComplete
)

type anchorEntry struct {
	node  *Node
	state anchorState
}

// Document is one parsed or constructed YAML document: a root Node plus
// its version/tag-directive state and anchor registry (spec §3).
type Document struct {
	Root *Node

	Version         tok.VersionDirective
	VersionExplicit bool
	TagDirectives   []tok.TagDirective
	TagsExplicit    bool

	anchors  map[string]*anchorEntry
	resolved bool
}

// ParseOptions configures a Parser.
type ParseOptions struct {
	// Resolve enables anchor/alias substitution and YAML 1.1 merge-key
	// expansion (spec §4.4). Without it, Document returns the raw tree:
	// alias nodes keep their Alias pointer but mapping pairs are not
	// merged, mirroring libfyaml's non-resolving parse mode.
	Resolve bool

	// RelaxedDuplicateKeys disables the strict duplicate-key check
	// (spec §4.4's "unless relaxed" clause).
	RelaxedDuplicateKeys bool

	// Sink, if set, receives every diagnostic as it is produced, in
	// addition to it being returned as a Go error. A Sink may request
	// cooperative cancellation (spec §5) by returning true from Report.
	Sink diag.Sink
}

// Parser pulls one Document at a time from a byte stream. A Parser, and
// every Document and Node it has produced, belongs to a single
// goroutine; concurrent use is undefined (spec §5).
type Parser struct {
	eng       *engine.YamlParser
	opts      ParseOptions
	event     *tok.Event
	started   bool
	cancelled bool
}

// NewParser constructs a Parser reading from r.
func NewParser(r io.Reader, opts ParseOptions) *Parser {
	return &Parser{eng: engine.New(r), opts: opts}
}

// NewParserFromBytes constructs a Parser over an in-memory buffer.
func NewParserFromBytes(b []byte, opts ParseOptions) *Parser {
	if len(b) == 0 {
		b = []byte{'\n'}
	}
	return &Parser{eng: engine.New(bytes.NewReader(b)), opts: opts}
}

func (p *Parser) pos() diag.Position {
	m := p.eng.Mark
	return diag.Position{ByteOffset: m.Index, Line: m.Line, Column: m.Column}
}

func (p *Parser) report(module diag.Module, err error) error {
	if err == nil {
		return nil
	}
	d := diag.New(module, p.pos(), err)
	if p.opts.Sink != nil {
		if p.opts.Sink.Report(d) {
			p.cancelled = true
		}
	}
	return d
}

func (p *Parser) next() (*tok.Event, error) {
	if p.cancelled {
		return nil, nil
	}
	ev, err := engine.Parse(p.eng)
	if err != nil {
		return nil, p.report(diag.ModuleParse, err)
	}
	return ev, nil
}

// Next returns the next document in the stream, or nil, io.EOF once the
// stream is exhausted. A cancellation requested by the Sink surfaces the
// same way as end-of-stream (spec §5: "the parser then returns the next
// event as None with a cancellation condition set").
func (p *Parser) Next() (*Document, error) {
	if !p.started {
		ev, err := p.next()
		if err != nil {
			return nil, err
		}
		if ev == nil || ev.Type != tok.STREAM_START_EVENT {
			return nil, fmt.Errorf("fy: expected stream-start event")
		}
		p.started = true
	}

	ev, err := p.next()
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, io.EOF
	}
	switch ev.Type {
	case tok.STREAM_END_EVENT:
		return nil, io.EOF
	case tok.DOCUMENT_START_EVENT:
		// handled below
	default:
		return nil, fmt.Errorf("fy: expected document-start or stream-end event, got %s", ev.Type)
	}

	doc := &Document{anchors: make(map[string]*anchorEntry)}
	if ev.Version_directive != nil {
		doc.Version = *ev.Version_directive
		doc.VersionExplicit = true
	}
	if len(ev.Tag_directives) > 0 {
		doc.TagDirectives = ev.Tag_directives
		doc.TagsExplicit = true
	}

	b := &builder{p: p, doc: doc}
	root, err := b.parseNode()
	if err != nil {
		return nil, err
	}
	doc.Root = root

	ev, err = p.next()
	if err != nil {
		return nil, err
	}
	if ev == nil || ev.Type != tok.DOCUMENT_END_EVENT {
		return nil, fmt.Errorf("fy: expected document-end event")
	}

	if p.opts.Resolve {
		if err := doc.resolveAll(!p.opts.RelaxedDuplicateKeys); err != nil {
			return nil, p.report(diag.ModuleBuild, err)
		}
	}
	return doc, nil
}

// builder turns one document's event sub-stream into a Node tree.
type builder struct {
	p   *Parser
	doc *Document
}

func (b *builder) anchor(n *Node, anchor []byte) {
	if len(anchor) == 0 {
		return
	}
	n.Anchor = string(anchor)
	b.doc.anchors[n.Anchor] = &anchorEntry{node: n, state: anchorCollecting}
}

func (b *builder) completeAnchor(n *Node) {
	if n.Anchor == "" {
		return
	}
	if e, ok := b.doc.anchors[n.Anchor]; ok {
		e.state = anchorComplete
	}
}

func (b *builder) parseNode() (*Node, error) {
	ev, err := b.p.next()
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, fmt.Errorf("fy: unexpected end of event stream")
	}
	switch ev.Type {
	case tok.SCALAR_EVENT:
		return b.scalar(ev)
	case tok.ALIAS_EVENT:
		return b.alias(ev)
	case tok.SEQUENCE_START_EVENT:
		return b.sequence(ev)
	case tok.MAPPING_START_EVENT:
		return b.mapping(ev)
	default:
		return nil, fmt.Errorf("fy: unexpected event %s while parsing a node", ev.Type)
	}
}

func nodeStyleFromScalar(s tok.YamlScalarStyle) Style {
	switch {
	case s&tok.DOUBLE_QUOTED_SCALAR_STYLE != 0:
		return DoubleQuotedStyle
	case s&tok.SINGLE_QUOTED_SCALAR_STYLE != 0:
		return SingleQuotedStyle
	case s&tok.LITERAL_SCALAR_STYLE != 0:
		return LiteralStyle
	case s&tok.FOLDED_SCALAR_STYLE != 0:
		return FoldedStyle
	}
	return 0
}

func (b *builder) scalar(ev *tok.Event) (*Node, error) {
	style := nodeStyleFromScalar(ev.Scalar_style())
	n := &Node{
		Kind:        ScalarNode,
		Style:       style,
		Tag:         string(ev.Tag),
		Value:       string(ev.Value),
		Doc:         b.doc,
		Line:        ev.Start_mark.Line + 1,
		Column:      ev.Start_mark.Column + 1,
		HeadComment: string(ev.Head_comment),
		LineComment: string(ev.Line_comment),
		FootComment: string(ev.Foot_comment),
	}
	if n.Tag == "" && style == 0 && n.Value == "<<" {
		n.Tag = resolve.MergeTag
	}
	b.anchor(n, ev.Anchor)
	b.completeAnchor(n)
	return n, nil
}

func (b *builder) alias(ev *tok.Event) (*Node, error) {
	name := string(ev.Anchor)
	n := &Node{
		Kind:   AliasNode,
		Value:  name,
		Doc:    b.doc,
		Line:   ev.Start_mark.Line + 1,
		Column: ev.Start_mark.Column + 1,
	}
	entry, ok := b.doc.anchors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedAlias, name)
	}
	if entry.state == anchorCollecting {
		return nil, fmt.Errorf("%w: %q", ErrRecursiveAlias, name)
	}
	n.Alias = entry.node
	return n, nil
}

func (b *builder) sequence(ev *tok.Event) (*Node, error) {
	n := &Node{
		Kind:        SequenceNode,
		Tag:         string(ev.Tag),
		Doc:         b.doc,
		Line:        ev.Start_mark.Line + 1,
		Column:      ev.Start_mark.Column + 1,
		HeadComment: string(ev.Head_comment),
	}
	if ev.Sequence_style()&tok.FLOW_SEQUENCE_STYLE != 0 {
		n.Style |= FlowStyle
	}
	b.anchor(n, ev.Anchor)
	for {
		next, err := b.p.next()
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, fmt.Errorf("fy: unexpected end of event stream in sequence")
		}
		if next.Type == tok.SEQUENCE_END_EVENT {
			n.LineComment = string(next.Line_comment)
			n.FootComment = string(next.Foot_comment)
			break
		}
		child, err := b.parseNodeFromEvent(next)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, child)
	}
	b.completeAnchor(n)
	return n, nil
}

// parseNodeFromEvent builds a node from an already-pulled event, used
// where the caller peeked ahead to check for a collection's end event.
func (b *builder) parseNodeFromEvent(ev *tok.Event) (*Node, error) {
	switch ev.Type {
	case tok.SCALAR_EVENT:
		return b.scalar(ev)
	case tok.ALIAS_EVENT:
		return b.alias(ev)
	case tok.SEQUENCE_START_EVENT:
		return b.sequence(ev)
	case tok.MAPPING_START_EVENT:
		return b.mapping(ev)
	default:
		return nil, fmt.Errorf("fy: unexpected event %s while parsing a node", ev.Type)
	}
}

func (b *builder) mapping(ev *tok.Event) (*Node, error) {
	n := &Node{
		Kind:        MappingNode,
		Tag:         string(ev.Tag),
		Doc:         b.doc,
		Line:        ev.Start_mark.Line + 1,
		Column:      ev.Start_mark.Column + 1,
		HeadComment: string(ev.Head_comment),
	}
	if ev.Mapping_style()&tok.FLOW_MAPPING_STYLE != 0 {
		n.Style |= FlowStyle
	}
	b.anchor(n, ev.Anchor)
	for {
		next, err := b.p.next()
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, fmt.Errorf("fy: unexpected end of event stream in mapping")
		}
		// A tail-comment event carries the foot comment of the value
		// just parsed; it is not itself a key (see
		// yaml_parser_parse_block_mapping_key's "tail comment was left
		// from the prior mapping value" case).
		if next.Type == tok.TAIL_COMMENT_EVENT {
			if len(n.Content) > 0 {
				n.Content[len(n.Content)-1].FootComment = string(next.Foot_comment)
			}
			continue
		}
		if next.Type == tok.MAPPING_END_EVENT {
			n.LineComment = string(next.Line_comment)
			n.FootComment = string(next.Foot_comment)
			break
		}
		key, err := b.parseNodeFromEvent(next)
		if err != nil {
			return nil, err
		}
		value, err := b.parseNode()
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, key, value)
	}
	b.completeAnchor(n)
	return n, nil
}
