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
	"fmt"
	"sort"
	"strconv"
)

// resolveAll walks the document's tree once, expanding YAML 1.1 merge
// keys (§4.4) and, if strict is set, rejecting duplicate mapping keys.
// It mutates mapping nodes in place, replacing their Content with the
// merged key/value pairs; sequence and scalar nodes are visited only to
// recurse into their children.
func (d *Document) resolveAll(strict bool) error {
	if d.resolved {
		return nil
	}
	visiting := make(map[*Node]bool)
	if err := resolveNode(d.Root, strict, visiting); err != nil {
		return err
	}
	d.resolved = true
	return nil
}

func resolveNode(n *Node, strict bool, visiting map[*Node]bool) error {
	if n == nil || visiting[n] {
		return nil
	}
	switch n.Kind {
	case MappingNode:
		visiting[n] = true
		if err := resolveMapping(n, strict, visiting); err != nil {
			return err
		}
		delete(visiting, n)
	case SequenceNode:
		visiting[n] = true
		for _, c := range n.Content {
			if err := resolveNode(c, strict, visiting); err != nil {
				return err
			}
		}
		delete(visiting, n)
	}
	return nil
}

// mapKey is a structural identity for a mapping key, used to detect
// duplicates and merge-key shadowing. Equality is structural (§4.4):
// scalars compare by tag and canonical value, sequences by their
// elements in order, and mappings by their key/value pairs regardless
// of pair order (a mapping-valued key is the same key however its
// pairs were written). Aliases are dereferenced to the node they point
// at before comparison.
func mapKey(n *Node) (key string, ok bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case ScalarNode:
		return "s\x00" + n.Tag + "\x00" + n.Value, true
	case AliasNode:
		return mapKey(n.Alias)
	case SequenceNode:
		parts := make([]string, len(n.Content))
		for i, c := range n.Content {
			k, ok := mapKey(c)
			if !ok {
				return "", false
			}
			parts[i] = k
		}
		return "q[" + strconv.Itoa(len(parts)) + "]" + joinKeys(parts), true
	case MappingNode:
		keys, values := n.Pairs()
		parts := make([]string, len(keys))
		for i := range keys {
			k, ok := mapKey(keys[i])
			if !ok {
				return "", false
			}
			v, ok := mapKey(values[i])
			if !ok {
				return "", false
			}
			parts[i] = k + "\x00" + v
		}
		sort.Strings(parts)
		return "m{" + strconv.Itoa(len(parts)) + "}" + joinKeys(parts), true
	default:
		return "", false
	}
}

// joinKeys concatenates serialized sub-keys with a separator that can't
// collide with the length-prefixed tokens above, so e.g. ["a","bc"] and
// ["ab","c"] never hash to the same string.
func joinKeys(parts []string) string {
	out := make([]byte, 0, 16*len(parts))
	for _, p := range parts {
		out = append(out, strconv.Itoa(len(p))...)
		out = append(out, ':')
		out = append(out, p...)
	}
	return string(out)
}

// resolveMapping rewrites n.Content in place. A merge key's contributions
// are spliced in at the `<<` key's own position relative to the other
// pairs (spec §8 scenario 6: `<<` before a later key keeps the merged
// keys ahead of it in the result), but an explicit key anywhere in the
// mapping always overrides a same-named merge contribution regardless of
// which one comes first in the source (spec §4.4). Among multiple merge
// contributors, the first occurrence of a key wins (list order, §9).
func resolveMapping(n *Node, strict bool, visiting map[*Node]bool) error {
	type pair struct{ key, value *Node }

	explicitSeen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.IsMergeKey() {
			continue
		}
		if k, ok := mapKey(key); ok {
			if explicitSeen[k] {
				if strict {
					return fmt.Errorf("%w: %q at %d:%d", ErrDuplicateKey, key.Value, key.Line, key.Column)
				}
			} else {
				explicitSeen[k] = true
			}
		}
	}

	var result []pair
	contributedSeen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if err := resolveNode(value, strict, visiting); err != nil {
			return err
		}
		if !key.IsMergeKey() {
			result = append(result, pair{key, value})
			continue
		}
		contributed, err := mergeContributors(value)
		if err != nil {
			return err
		}
		for _, c := range contributed {
			k, ok := mapKey(c.key)
			if ok && (explicitSeen[k] || contributedSeen[k]) {
				continue
			}
			if ok {
				contributedSeen[k] = true
			}
			result = append(result, pair{c.key, c.value})
		}
	}

	content := make([]*Node, 0, len(result)*2)
	for _, p := range result {
		content = append(content, p.key, p.value)
	}
	n.Content = content
	return nil
}

type mergeSource struct{ key, value *Node }

// mergeContributors resolves one merge key's value into an ordered list
// of key/value pairs, following aliases to mapping nodes and, for a
// sequence value, merging each element's mapping in list order
// (spec §4.4: "a sequence of mappings is merged in list order").
func mergeContributors(v *Node) ([]mergeSource, error) {
	target := v
	if target.Kind == AliasNode {
		target = target.Alias
	}
	if target == nil {
		return nil, ErrBadMergeValue
	}

	switch target.Kind {
	case MappingNode:
		return mappingSources(target), nil
	case SequenceNode:
		var out []mergeSource
		for _, item := range target.Content {
			it := item
			if it.Kind == AliasNode {
				it = it.Alias
			}
			if it == nil || it.Kind != MappingNode {
				return nil, ErrBadMergeValue
			}
			out = append(out, mappingSources(it)...)
		}
		return out, nil
	default:
		return nil, ErrBadMergeValue
	}
}

func mappingSources(m *Node) []mergeSource {
	out := make([]mergeSource, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].IsMergeKey() {
			continue
		}
		out = append(out, mergeSource{m.Content[i], m.Content[i+1]})
	}
	return out
}
