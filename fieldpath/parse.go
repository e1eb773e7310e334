// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fieldpath

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError occurs when a string is not in the notation produced by [Path.String].
type ParseError struct {
	Input  string
	Offset int
	Reason string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("invalid path %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

// Parse is the inverse of [Path.String]. Both "" and [RootName] parse
// to the root. Property names containing '.' or '[' cannot be expressed.
func Parse(s string) (Path, error) {
	p := Root()
	if s == "" || s == RootName {
		return p, nil
	}

	i := 0
	for i < len(s) {
		switch {
		case s[i] == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return Path{}, ParseError{Input: s, Offset: i, Reason: "unterminated index"}
			}
			n, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || n < 0 {
				return Path{}, ParseError{Input: s, Offset: i + 1, Reason: "index must be a non-negative integer"}
			}
			p = p.WithIndex(n)
			i += end + 1
		case s[i] == '.' && i > 0:
			i++
			fallthrough
		default:
			end := strings.IndexAny(s[i:], ".[")
			if end < 0 {
				end = len(s) - i
			}
			if end == 0 {
				return Path{}, ParseError{Input: s, Offset: i, Reason: "empty property name"}
			}
			p = p.WithProperty(s[i : i+end])
			i += end
		}
	}
	return p, nil
}
