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

package fy

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fy-yaml/fy/internal/emitter"
	"github.com/fy-yaml/fy/internal/resolve"
	tok "github.com/fy-yaml/fy/internal/token"
)

// Mode selects one of the emitter's output profiles (spec §4.6).
type Mode int

const (
	// ModeOriginal preserves each node's own recorded style (flow vs
	// block), the mode a style-preserving round trip uses.
	ModeOriginal Mode = iota
	// ModeBlock forces block style on every collection.
	ModeBlock
	// ModeFlow forces flow style on every collection, wrapping long
	// lines at the configured width.
	ModeFlow
	// ModeFlowOneline is ModeFlow with wrapping disabled.
	ModeFlowOneline
	// ModeJSON forces flow style, double-quotes every string scalar,
	// and suppresses anchors, aliases, directives, tags and comments,
	// wrapping long lines at the configured width.
	ModeJSON
	// ModeJSONOneline is ModeJSON with wrapping disabled.
	ModeJSONOneline
	// ModeJSONTP ("test profile") is ModeJSON with a fixed wrapping
	// width: unless EncodeOptions.Width is set, the emitter applies its
	// 80-column default, so flow items move to a new line only once a
	// line passes 80 columns. Items are not each put on their own line.
	ModeJSONTP
)

func (m Mode) json() bool {
	return m == ModeJSON || m == ModeJSONOneline || m == ModeJSONTP
}

func (m Mode) forcesFlow() bool {
	return m == ModeFlow || m == ModeFlowOneline || m.json()
}

// EncodeOptions configures an Encoder's output (spec §4.6, §5.8).
type EncodeOptions struct {
	Mode Mode

	// SortKeys sorts each mapping's keys in the emitted text only; it
	// never reorders a Node's Content (§4.6).
	SortKeys bool

	// StripEmptyKV drops mapping pairs whose value is null from the
	// emitted text: the zero Node, or an unquoted scalar that resolves
	// to !!null (such as "null", "~" or an empty value).
	StripEmptyKV bool

	// Comments controls whether head/line/foot comments are emitted.
	// Comments are always suppressed in flow and JSON modes regardless
	// of this setting (spec §4.6: "comments cannot appear inside
	// flow-style output").
	Comments bool

	// Indent is the block indentation width; 0 selects the emitter's
	// default.
	Indent int

	// Width is the preferred line width for flow wrapping; 0 selects
	// the emitter's default, negative disables wrapping.
	Width int

	// IndentedSeqInMap is spec's INDENTED_SEQ_IN_MAP flag: a block
	// sequence valuing a mapping key gets its own indent level
	// ("k:\n  - 1") instead of aligning "-" with the key ("k:\n- 1",
	// the default when this is false). Only block modes honor it.
	IndentedSeqInMap bool
}

// Encoder writes Documents to a stream in one of the modes in Mode.
// Unlike the teacher's reflection-based encoder, an Encoder here only
// ever walks an explicit Node tree: there is no Marshal.
type Encoder struct {
	emitter emitter.Emitter
	opts    EncodeOptions
	started bool
}

func NewEncoder(w io.Writer, opts EncodeOptions) *Encoder {
	e := &Encoder{emitter: *emitter.New(w), opts: opts}
	if opts.Indent > 0 {
		e.emitter.SetIndent(opts.Indent)
	}
	e.emitter.SetIndentedSeqInMap(opts.IndentedSeqInMap)
	switch {
	case opts.Width != 0:
		e.emitter.SetWidth(opts.Width)
	case opts.Mode == ModeFlowOneline || opts.Mode == ModeJSONOneline:
		e.emitter.SetWidth(-1)
	case opts.Mode == ModeJSONTP:
		e.emitter.SetWidth(0)
	}
	return e
}

// Encode writes one document to the stream. If multiple documents are
// encoded, the second and later ones are preceded by a "---" separator.
func (e *Encoder) Encode(doc *Document) error {
	if !e.started {
		if err := e.emitter.Emit(streamStartEvent(), false); err != nil {
			return err
		}
		e.started = true
	}
	return e.encodeDocument(doc)
}

// Close flushes the stream. It does not write a trailing "...".
func (e *Encoder) Close() error {
	return e.emitter.Emit(streamEndEvent(), true)
}

func (e *Encoder) encodeDocument(doc *Document) error {
	start := documentStartEvent()
	if doc.VersionExplicit {
		start.Version_directive = &tok.VersionDirective{Major: doc.Version.Major, Minor: doc.Version.Minor}
		start.Implicit = false
	}
	if doc.TagsExplicit {
		start.Tag_directives = doc.TagDirectives
		start.Implicit = false
	}
	if err := e.emitter.Emit(start, false); err != nil {
		return err
	}
	if err := e.encodeNode(doc.Root, ""); err != nil {
		return err
	}
	return e.emitter.Emit(documentEndEvent(), false)
}

func (e *Encoder) containerStyle(node *Node) (forceFlow bool) {
	switch {
	case e.opts.Mode.forcesFlow():
		return true
	case e.opts.Mode == ModeBlock:
		return false
	default: // ModeOriginal
		return node.Style&FlowStyle != 0
	}
}

func (e *Encoder) emitComments() bool {
	return e.opts.Comments && !e.opts.Mode.forcesFlow()
}

func (e *Encoder) encodeNil() error {
	return e.emitScalar("null", "", "", tok.PLAIN_SCALAR_STYLE, nil, nil, nil, nil)
}

func (e *Encoder) emitScalar(value, anchor, tag string, style tok.YamlScalarStyle, head, line, foot, tail []byte) error {
	implicit := tag == ""
	if !implicit {
		tag = resolve.LongTag(tag)
	}
	if e.opts.Mode.json() {
		anchor = ""
		tag = ""
		implicit = true
		head, line, foot, tail = nil, nil, nil, nil
	}
	event := scalarEvent([]byte(anchor), []byte(tag), []byte(value), implicit, implicit, style)
	if e.emitComments() {
		event.Head_comment = head
		event.Line_comment = line
		event.Foot_comment = foot
		event.Tail_comment = tail
	}
	return e.emitter.Emit(event, false)
}

// jsonScalarStyle reports the style a scalar must use to be valid,
// unambiguous JSON text: strings double-quoted, everything else left
// plain (numbers, true/false/null already parse the same in both).
func jsonScalarStyle(tagShort, value string) tok.YamlScalarStyle {
	if tagShort == resolve.StrTag || tagShort == "" {
		return tok.DOUBLE_QUOTED_SCALAR_STYLE
	}
	return tok.PLAIN_SCALAR_STYLE
}

func (e *Encoder) encodeNode(node *Node, tail string) error {
	if node == nil || (node.Kind == 0 && node.IsZero()) {
		return e.encodeNil()
	}

	if node.Kind == AliasNode {
		if e.opts.Mode.json() {
			if node.Alias == nil {
				return fmt.Errorf("fy: cannot emit an unresolved alias in a JSON mode")
			}
			return e.encodeNode(node.Alias, tail)
		}
		event := aliasEvent([]byte(node.Value))
		if e.emitComments() {
			event.Head_comment = []byte(node.HeadComment)
			event.Line_comment = []byte(node.LineComment)
			event.Foot_comment = []byte(node.FootComment)
		}
		return e.emitter.Emit(event, false)
	}

	tag := node.Tag
	stag := resolve.ShortTag(tag)
	var forceQuoting bool
	if tag != "" && node.Style&TaggedStyle == 0 && !e.opts.Mode.json() {
		if node.Kind == ScalarNode {
			if stag == resolve.StrTag && node.Style&(SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) != 0 {
				tag = ""
			} else {
				rtag, _, err := resolve.Resolve("", node.Value)
				if err != nil {
					return err
				}
				if rtag == stag {
					tag = ""
				} else if stag == resolve.StrTag {
					tag = ""
					forceQuoting = true
				}
			}
		} else {
			var rtag string
			switch node.Kind {
			case MappingNode:
				rtag = resolve.MapTag
			case SequenceNode:
				rtag = resolve.SeqTag
			}
			if rtag == stag {
				tag = ""
			}
		}
	} else if e.opts.Mode.json() {
		tag = ""
	}

	switch node.Kind {
	case DocumentNode:
		for _, n := range node.Content {
			if err := e.encodeNode(n, ""); err != nil {
				return err
			}
		}
		return nil

	case SequenceNode:
		style := tok.BLOCK_SEQUENCE_STYLE
		if e.containerStyle(node) {
			style = tok.FLOW_SEQUENCE_STYLE
		}
		event := sequenceStartEvent([]byte(node.Anchor), []byte(resolve.LongTag(tag)), tag == "", style)
		if e.emitComments() {
			event.Head_comment = []byte(node.HeadComment)
		}
		if e.opts.Mode.json() {
			event.Anchor = nil
			event.Tag = nil
		}
		if err := e.emitter.Emit(event, false); err != nil {
			return err
		}
		for _, child := range node.Content {
			if e.opts.StripEmptyKV && child != nil && child.IsZero() {
				continue
			}
			if err := e.encodeNode(child, ""); err != nil {
				return err
			}
		}
		end := sequenceEndEvent()
		if e.emitComments() {
			end.Line_comment = []byte(node.LineComment)
			end.Foot_comment = []byte(node.FootComment)
		}
		return e.emitter.Emit(end, false)

	case MappingNode:
		style := tok.BLOCK_MAPPING_STYLE
		if e.containerStyle(node) {
			style = tok.FLOW_MAPPING_STYLE
		}
		event := mappingStartEvent([]byte(node.Anchor), []byte(resolve.LongTag(tag)), tag == "", style)
		if e.opts.Mode.json() {
			event.Anchor = nil
			event.Tag = nil
		}
		if e.emitComments() {
			event.Tail_comment = []byte(tail)
			event.Head_comment = []byte(node.HeadComment)
		}
		if err := e.emitter.Emit(event, false); err != nil {
			return err
		}

		keys, values := e.orderedPairs(node)

		var tl string
		for i, k := range keys {
			v := values[i]
			if e.opts.StripEmptyKV && v != nil && v.IsZero() {
				continue
			}
			if e.opts.StripEmptyKV && v != nil && v.Kind == ScalarNode &&
				v.Style&(SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) == 0 {
				if rtag, _, err := resolve.Resolve(v.Tag, v.Value); err == nil && rtag == resolve.NullTag {
					continue
				}
			}
			if e.opts.Mode.json() && k.Kind == ScalarNode {
				// JSON keys are always strings.
				kq := *k
				kq.Style |= DoubleQuotedStyle
				k = &kq
			}
			foot := k.FootComment
			if foot != "" && e.emitComments() {
				kopy := *k
				kopy.FootComment = ""
				k = &kopy
			} else {
				foot = ""
			}
			if err := e.encodeNode(k, tl); err != nil {
				return err
			}
			tl = foot
			if err := e.encodeNode(v, ""); err != nil {
				return err
			}
		}

		end := mappingEndEvent()
		if e.emitComments() {
			end.Tail_comment = []byte(tl)
			end.Line_comment = []byte(node.LineComment)
			end.Foot_comment = []byte(node.FootComment)
		}
		return e.emitter.Emit(end, false)

	case ScalarNode:
		value := node.Value
		if !utf8.ValidString(value) {
			if stag == resolve.BinaryTag {
				return fmt.Errorf("fy: explicitly tagged !!binary data must be base64-encoded")
			}
			if stag != "" {
				return fmt.Errorf("fy: cannot emit invalid UTF-8 data as %s", stag)
			}
			tag = resolve.BinaryTag
			value = resolve.EncodeBase64(value)
		}

		var style tok.YamlScalarStyle
		switch {
		case e.opts.Mode.json():
			jtag := resolve.ShortTag(node.Tag)
			if jtag == "" && node.Style&(SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) == 0 && json.Valid([]byte(value)) {
				jtag, _, _ = resolve.Resolve("", value)
			}
			style = jsonScalarStyle(jtag, value)
		case node.Style&DoubleQuotedStyle != 0:
			style = tok.DOUBLE_QUOTED_SCALAR_STYLE
		case node.Style&SingleQuotedStyle != 0:
			style = tok.SINGLE_QUOTED_SCALAR_STYLE
		case node.Style&LiteralStyle != 0:
			style = tok.LITERAL_SCALAR_STYLE
		case node.Style&FoldedStyle != 0:
			style = tok.FOLDED_SCALAR_STYLE
		case strings.Contains(value, "\n"):
			style = tok.LITERAL_SCALAR_STYLE
		case forceQuoting:
			style = tok.DOUBLE_QUOTED_SCALAR_STYLE
		default:
			style = tok.PLAIN_SCALAR_STYLE
		}

		return e.emitScalar(value, node.Anchor, tag, style,
			[]byte(node.HeadComment), []byte(node.LineComment), []byte(node.FootComment), []byte(tail))
	default:
		return fmt.Errorf("fy: cannot emit node with unknown kind %d", node.Kind)
	}
}

// orderedPairs returns node's key/value pairs, sorted by the emitted
// key text when SortKeys is set. The Node's own Content is untouched.
func (e *Encoder) orderedPairs(node *Node) (keys, values []*Node) {
	keys, values = node.Pairs()
	if !e.opts.SortKeys {
		return keys, values
	}
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return sortKeyText(keys[idx[a]]) < sortKeyText(keys[idx[b]])
	})
	sortedKeys := make([]*Node, len(keys))
	sortedValues := make([]*Node, len(values))
	for i, j := range idx {
		sortedKeys[i] = keys[j]
		sortedValues[i] = values[j]
	}
	return sortedKeys, sortedValues
}

func sortKeyText(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Value
}
