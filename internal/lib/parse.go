// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: Apache-2.0

package lib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformedIndentation signals a line indented more than one level
// beyond its open ancestor, or indentation that is not a repetition of
// the file's indentation unit.
var ErrMalformedIndentation = errors.New("malformed indentation")

// ParseFile reads a configuration file and returns its forest of roots.
func ParseFile(path string) ([]*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse builds the configuration forest. Each non-blank line is an
// absolute path (top level), a relative path segment (nested under the
// preceding less-indented line) or a remote URL (leaf, bound to the
// nearest enclosing path line). The indentation unit is the leading
// whitespace of the first indented line; every other line must repeat
// that unit exactly once per level.
func Parse(r io.Reader) ([]*Node, error) {
	type frame struct {
		depth int
		node  *Node
	}

	var (
		roots []*Node
		stack []frame
		unit  string
	)

	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		raw := sc.Text()
		content := strings.TrimSpace(raw)
		if content == "" {
			continue
		}

		indent := raw[:len(raw)-len(strings.TrimLeft(raw, " \t"))]
		depth := 0
		if indent != "" {
			if unit == "" {
				unit = indent
			}
			depth = len(indent) / len(unit)
			if depth == 0 || strings.Repeat(unit, depth) != indent {
				return nil, fmt.Errorf("line %d: %w: indentation is not a repetition of the file's unit %q", n, ErrMalformedIndentation, unit)
			}
		}

		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 && depth > 0 {
			return nil, fmt.Errorf("line %d: %w: indented entry has no parent", n, ErrMalformedIndentation)
		}
		if len(stack) > 0 && depth > stack[len(stack)-1].depth+1 {
			return nil, fmt.Errorf("line %d: %w: entry skips %d level(s)", n, ErrMalformedIndentation, depth-stack[len(stack)-1].depth-1)
		}

		node := &Node{Label: content}

		if len(stack) == 0 {
			if isRemoteURL(content) {
				return nil, fmt.Errorf("line %d: repository URL %q at top level, needs an enclosing directory", n, content)
			}
			if !filepath.IsAbs(content) {
				return nil, fmt.Errorf("line %d: root path %q is not absolute", n, content)
			}
			node.Kind = KindRoot
			node.Label = filepath.Clean(content)
			for _, r := range roots {
				if r.Label == node.Label {
					return nil, fmt.Errorf("line %d: duplicate root path %q", n, node.Label)
				}
				if isAncestorPath(r.Label, node.Label) || isAncestorPath(node.Label, r.Label) {
					return nil, fmt.Errorf("line %d: root path %q overlaps root %q", n, node.Label, r.Label)
				}
			}
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1].node
			if parent.Kind == KindRepo {
				return nil, fmt.Errorf("line %d: cannot nest %q under repository URL %q", n, content, parent.Label)
			}
			if isRemoteURL(content) {
				node.Kind = KindRepo
			} else {
				if err := validSegment(content); err != nil {
					return nil, fmt.Errorf("line %d: %v", n, err)
				}
				node.Kind = KindDir
			}
			parent.Children = append(parent.Children, node)
		}

		stack = append(stack, frame{depth: depth, node: node})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return roots, nil
}

func validSegment(s string) error {
	if strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("path segment %q contains a separator, nested entries must be single segments", s)
	}
	if s == "." || s == ".." {
		return fmt.Errorf("path segment %q is not allowed", s)
	}
	return nil
}

// isAncestorPath reports whether q lies strictly below p. Both are
// cleaned absolute paths; cleaning leaves a trailing separator only on
// filesystem roots like "/".
func isAncestorPath(p, q string) bool {
	if !strings.HasSuffix(p, string(filepath.Separator)) {
		p += string(filepath.Separator)
	}
	return len(q) > len(p) && strings.HasPrefix(q, p)
}
