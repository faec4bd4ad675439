// Copyright 2024 The Yue Authors
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

// Package errors defines the error type shared by the parser and the
// transformer: every compile error carries a position and renders both a
// short message and a multi-line, source-framed display message.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pigpigyyy/yue-go/yue/token"
)

// An Error is a positioned compile error. Both syntax errors (raised by the
// grammar's semantic predicates) and semantic errors (raised by transform
// invariant checks) implement this interface.
type Error interface {
	error
	// Position is the primary position at which the error was detected.
	Position() token.Pos
	// Msg returns the unformatted message and its arguments, so that
	// messages can be localized or re-rendered without re-parsing error text.
	Msg() (format string, args []any)
}

// New creates an Error at pos with the given formatted message.
func New(pos token.Pos, format string, args ...any) Error {
	return &posError{pos: pos, format: format, args: args}
}

type posError struct {
	pos    token.Pos
	format string
	args   []any
}

func (e *posError) Position() token.Pos      { return e.pos }
func (e *posError) Msg() (string, []any)     { return e.format, e.args }
func (e *posError) Error() string            { return fmt.Sprintf(e.format, e.args...) }

// DisplayMessage renders the multi-line, caret-annotated form described by
// the compiler's error model: the short message, followed by the filename
// and line:column, followed by the offending source line with tabs expanded
// to four spaces and a caret placed under the error column.
func DisplayMessage(e Error) string {
	pos := e.Position()
	msg := e.Error()
	if !pos.IsValid() {
		return msg
	}
	p := pos.Position()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", msg)
	fmt.Fprintf(&b, "  at %s\n", p.String())
	f := pos.File()
	if f == nil {
		return b.String()
	}
	line := expandTabs(f.Line(p.Line))
	col := expandedColumn(f.Line(p.Line), p.Column)
	fmt.Fprintf(&b, "    %s\n", line)
	fmt.Fprintf(&b, "    %s^\n", strings.Repeat(" ", col-1))
	return b.String()
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// expandedColumn recomputes a 1-based column after tabs in the prefix of s
// (up to, but not including, col) have been expanded to four spaces each.
func expandedColumn(s string, col int) int {
	runes := []rune(s)
	if col-1 > len(runes) {
		col = len(runes) + 1
	}
	expanded := 0
	for _, r := range runes[:col-1] {
		if r == '\t' {
			expanded += 4
		} else {
			expanded++
		}
	}
	return expanded + 1
}

// A List collects zero or more errors produced during one compile. It
// implements error, so a List can itself be returned wherever a plain error
// is expected, and sort.Interface so callers can report diagnostics in
// source order regardless of which pass raised each one.
type List []Error

// Add appends err to the list; a nil err is ignored.
func (l *List) Add(err Error) {
	if err == nil {
		return
	}
	*l = append(*l, err)
}

// Sort orders the list by position, ascending.
func (l List) Sort() { sort.Stable(l) }

func (l List) Len() int      { return len(l) }
func (l List) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l List) Less(i, j int) bool {
	return l[i].Position().Compare(l[j].Position()) < 0
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Error()
	default:
		var b strings.Builder
		for i, e := range l {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(e.Error())
		}
		return b.String()
	}
}

// First returns the first error in the list, or nil if the list is empty.
func (l List) First() Error {
	if len(l) == 0 {
		return nil
	}
	return l[0]
}
