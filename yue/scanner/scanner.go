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

// Package scanner implements the rune-level reading and indentation
// bookkeeping shared by the parser: position tracking and the indent-stack
// primitives the grammar's `check_indent`/`advance`/`push_indent`/
// `pop_indent` productions are built from. A
// [token.File] already holds the whole source as runes with its line starts
// indexed, so Scanner itself only walks that slice and reports illegal runes
// it finds along the way, a leading byte-order mark among them.
package scanner

import "github.com/pigpigyyy/yue-go/yue/token"

// ErrorHandler may be provided to Scanner.Init. If a syntax error is
// encountered and a handler was installed, it is called with a position
// and an error message.
type ErrorHandler func(pos token.Position, msg string)

// Scanner walks a [token.File]'s decoded rune sequence.
type Scanner struct {
	file *token.File
	err  ErrorHandler

	runes []rune
	idx   int // index of the rune about to be returned by Rune()

	ErrorCount int
}

// Init prepares the scanner to read file from its first rune.
func (s *Scanner) Init(file *token.File, err ErrorHandler) {
	s.file = file
	s.err = err
	s.runes = file.Runes()
	s.idx = 0
	s.ErrorCount = 0

	if len(s.runes) > 0 && s.runes[0] == 0xFEFF {
		s.error(0, "illegal byte order mark")
	}
}

func (s *Scanner) error(offset int, msg string) {
	if s.err != nil {
		s.err(s.file.Pos(offset).Position(), msg)
	}
	s.ErrorCount++
}

// Offset reports the current rune index.
func (s *Scanner) Offset() int { return s.idx }

// Pos reports the current position as a [token.Pos].
func (s *Scanner) Pos() token.Pos { return s.file.Pos(s.idx) }

// Rune reports the rune at the current index, or -1 at end of input.
func (s *Scanner) Rune() rune {
	if s.idx >= len(s.runes) {
		return -1
	}
	r := s.runes[s.idx]
	if r == 0 {
		s.error(s.idx, "illegal NUL byte")
	}
	return r
}

// Next advances past the current rune and returns the new current rune.
func (s *Scanner) Next() rune {
	if s.idx < len(s.runes) {
		s.idx++
	}
	return s.Rune()
}

// Peek reports the rune after the current one without consuming it, or -1
// at end of input.
func (s *Scanner) Peek() rune {
	if s.idx+1 >= len(s.runes) {
		return -1
	}
	return s.runes[s.idx+1]
}

// Seek repositions the scanner at the given rune index, for grammar
// backtracking.
func (s *Scanner) Seek(idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.runes) {
		idx = len(s.runes)
	}
	s.idx = idx
}

// AtEnd reports whether the scanner has consumed the whole file.
func (s *Scanner) AtEnd() bool { return s.idx >= len(s.runes) }

// IndentWidth measures the width of a run of leading space/tab runes: a
// space counts as one column, a tab as four, measured left to right
// without tab-stop rounding.
func IndentWidth(indent []rune) int {
	width := 0
	for _, r := range indent {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		}
	}
	return width
}

// IndentStack tracks the stack of active indentation widths used by the
// grammar's check_indent/push_indent/pop_indent primitives. A width of -1
// marks a "suppressed" indent level introduced by a same-line block
//.
type IndentStack struct {
	widths []int
}

// NewIndentStack returns a stack seeded with the column-0 base level.
func NewIndentStack() *IndentStack {
	return &IndentStack{widths: []int{0}}
}

// Top reports the innermost active indent width.
func (s *IndentStack) Top() int { return s.widths[len(s.widths)-1] }

// Push enters a new, deeper indentation level.
func (s *IndentStack) Push(width int) { s.widths = append(s.widths, width) }

// PushSuppressed enters a level that never matches on column (the -1
// marker), used for a Body written inline rather than as an indented
// Block.
func (s *IndentStack) PushSuppressed() { s.Push(-1) }

// Pop leaves the innermost indentation level.
func (s *IndentStack) Pop() {
	if len(s.widths) > 1 {
		s.widths = s.widths[:len(s.widths)-1]
	}
}

// CheckIndent reports how width compares to the current level: 1 if width
// is deeper (a nested Block begins), 0 if equal (the next statement of the
// same Block), -1 if shallower (the Block has ended).
func (s *IndentStack) CheckIndent(width int) int {
	top := s.Top()
	switch {
	case top < 0:
		return 1
	case width > top:
		return 1
	case width == top:
		return 0
	default:
		return -1
	}
}

// Depth reports the number of active indentation levels, base level
// included.
func (s *IndentStack) Depth() int { return len(s.widths) }
