//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package fy

import (
	tok "github.com/fy-yaml/fy/internal/token"
)

// Create STREAM-START.
func streamStartEvent() *tok.Event {
	return &tok.Event{
		Type:     tok.STREAM_START_EVENT,
		Encoding: tok.UTF8_ENCODING,
	}
}

func streamEndEvent() *tok.Event {
	return &tok.Event{
		Type: tok.STREAM_END_EVENT,
	}
}

// Create DOCUMENT-START.
func documentStartEvent() *tok.Event {
	return &tok.Event{
		Type:     tok.DOCUMENT_START_EVENT,
		Implicit: true,
	}
}

// Create DOCUMENT-END.
func documentEndEvent() *tok.Event {
	return &tok.Event{
		Type:     tok.DOCUMENT_END_EVENT,
		Implicit: true,
	}
}

// Create ALIAS.
func aliasEvent(anchor []byte) *tok.Event {
	return &tok.Event{
		Type:   tok.ALIAS_EVENT,
		Anchor: anchor,
	}
}

// Create SCALAR.
func scalarEvent(anchor, tag, value []byte, plain_implicit, quoted_implicit bool, style tok.YamlScalarStyle) *tok.Event {
	return &tok.Event{
		Type:            tok.SCALAR_EVENT,
		Anchor:          anchor,
		Tag:             tag,
		Value:           value,
		Implicit:        plain_implicit,
		Quoted_implicit: quoted_implicit,
		Style:           tok.YamlStyle(style),
	}
}

// Create SEQUENCE-START.
func sequenceStartEvent(anchor, tag []byte, implicit bool, style tok.YamlSequenceStyle) *tok.Event {
	return &tok.Event{
		Type:     tok.SEQUENCE_START_EVENT,
		Anchor:   anchor,
		Tag:      tag,
		Implicit: implicit,
		Style:    tok.YamlStyle(style),
	}
}

// Create SEQUENCE-END.
func sequenceEndEvent() *tok.Event {
	return &tok.Event{
		Type: tok.SEQUENCE_END_EVENT,
	}
}

// Create MAPPING-START.
func mappingStartEvent(anchor, tag []byte, implicit bool, style tok.YamlMappingStyle) *tok.Event {
	return &tok.Event{
		Type:     tok.MAPPING_START_EVENT,
		Anchor:   anchor,
		Tag:      tag,
		Implicit: implicit,
		Style:    tok.YamlStyle(style),
	}
}

// Create MAPPING-END.
func mappingEndEvent() *tok.Event {
	return &tok.Event{
		Type: tok.MAPPING_END_EVENT,
	}
}
