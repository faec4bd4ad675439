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

// Package parser implements the indent-sensitive, PEG-style Yue grammar
// on top of the small ordered-choice engine in combinator.go,
// producing the yue/ast node family. State carries everything the grammar
// threads through recursive descent: the indent stack, the no-X guard
// stacks that suppress ambiguous nested constructs (a chain started inside
// a `do`-block condition, a table literal opened where a block was
// expected, ...), and the bookkeeping the transformer later needs for
// export/macro wiring.
package parser

import (
	"strings"

	"github.com/pigpigyyy/yue-go/yue/ast"
	"github.com/pigpigyyy/yue-go/yue/errors"
	"github.com/pigpigyyy/yue-go/yue/scanner"
	"github.com/pigpigyyy/yue-go/yue/token"
)

// Parser holds the full mutable state of one parse.
type Parser struct {
	s    *scanner.Scanner
	file *token.File

	indents *scanner.IndentStack

	// Guard stacks: grammar productions push a marker while parsing a
	// construct that forbids some ambiguous nested form, and pop it on the
	// way back out.
	noDoStack          []bool
	noChainBlockStack  []bool
	noTableBlockStack  []bool
	noForStack         []bool

	usedNames map[string]bool

	exportDefault   bool
	exportCount     int
	exportMacro     bool
	exportMetatable bool
	exportMetamethod bool

	errs []errors.Error
}

// New constructs a Parser ready to read file's runes.
func New(file *token.File) *Parser {
	p := &Parser{
		file:      file,
		indents:   scanner.NewIndentStack(),
		usedNames: make(map[string]bool),
	}
	p.s = &scanner.Scanner{}
	p.s.Init(file, func(pos token.Position, msg string) {
		p.errs = append(p.errs, errors.New(p.file.Pos(0), "%s", msg))
		_ = pos
	})
	return p
}

// Result is everything Parse produces for one file.
type Result struct {
	File            *ast.File
	Errors          errors.List
	ExportDefault   bool
	ExportCount     int
	ExportMacro     bool
	ExportMetatable bool
}

// Parse runs the grammar's top-level File rule over the whole input.
func Parse(name string, src string) Result {
	src = strings.TrimPrefix(src, string(rune(0xFEFF)))
	runes := []rune(src)
	file := token.NewFile(name, runes)
	p := New(file)

	shebang := ""
	if strings.HasPrefix(src, "#") {
		end := strings.IndexByte(src, '\n')
		if end < 0 {
			end = len(src)
		}
		shebang = src[:end]
		p.s.Seek(len([]rune(src[:end])))
	}

	from := p.s.Pos()
	block := p.parseBlock()
	to := p.s.Pos()

	if !p.s.AtEnd() {
		p.errorf("unexpected trailing input")
	}

	f := &ast.File{
		Shebang: shebang,
		Block:   block,
	}
	f.From, f.To = from, to
	return Result{
		File:            f,
		Errors:          p.errs,
		ExportDefault:   p.exportDefault,
		ExportCount:     p.exportCount,
		ExportMacro:     p.exportMacro,
		ExportMetatable: p.exportMetatable,
	}
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, errors.New(p.s.Pos(), format, args...))
}

// skipSpaceInLine consumes spaces and tabs (not newlines) at the current
// position.
func (p *Parser) skipSpaceInLine() {
	for {
		switch p.s.Rune() {
		case ' ', '\t':
			p.s.Next()
		default:
			return
		}
	}
}

// skipComment consumes a `--` line comment or a `--[[ ]]` long comment if
// one starts at the current position, returning its text (sans markers)
// when reserve_comment bookkeeping wants it.
func (p *Parser) skipComment() (text string, ok bool) {
	if p.s.Rune() != '-' || p.s.Peek() != '-' {
		return "", false
	}
	start := p.s.Offset()
	p.s.Next()
	p.s.Next()
	if p.s.Rune() == '[' {
		if lvl := p.peekLongBracketLevel(); lvl >= 0 {
			body, closed := p.readLongBracket(lvl)
			if closed {
				return body, true
			}
		}
	}
	for p.s.Rune() != '\n' && p.s.Rune() != -1 {
		p.s.Next()
	}
	end := p.s.Offset()
	return string(p.file.Runes()[start+2 : end]), true
}

func (p *Parser) peekLongBracketLevel() int {
	if p.s.Rune() != '[' {
		return -1
	}
	m := p.mark()
	defer p.reset(m)
	p.s.Next()
	lvl := 0
	for p.s.Rune() == '=' {
		lvl++
		p.s.Next()
	}
	if p.s.Rune() != '[' {
		return -1
	}
	return lvl
}

// readLongBracket assumes the opener `[=*[` starts at the current
// position and consumes through the matching `]=*]`.
func (p *Parser) readLongBracket(level int) (body string, closed bool) {
	p.s.Next() // '['
	for i := 0; i < level; i++ {
		p.s.Next()
	}
	p.s.Next() // '['
	if p.s.Rune() == '\n' {
		p.s.Next()
	}
	closer := "]" + strings.Repeat("=", level) + "]"
	start := p.s.Offset()
	for {
		if p.s.Rune() == -1 {
			return string(p.file.Runes()[start:p.s.Offset()]), false
		}
		if p.s.Rune() == ']' {
			m := p.mark()
			matched := true
			for _, want := range closer {
				if p.s.Rune() != want {
					matched = false
					break
				}
				p.s.Next()
			}
			if matched {
				end := m.offset
				return string(p.file.Runes()[start:end]), true
			}
			p.reset(m)
		}
		p.s.Next()
	}
}

// skipTrivia consumes horizontal whitespace and comments, but not
// newlines, between grammar tokens.
func (p *Parser) skipTrivia() {
	for {
		before := p.s.Offset()
		p.skipSpaceInLine()
		if _, ok := p.skipComment(); ok {
			continue
		}
		if p.s.Offset() == before {
			return
		}
	}
}

// newline consumes one logical line break: optional trivia, a '\n', then
// any further blank lines.
func (p *Parser) newline() bool {
	p.skipTrivia()
	if p.s.Rune() != '\n' {
		return false
	}
	for p.s.Rune() == '\n' {
		p.s.Next()
		p.skipTrivia()
	}
	return true
}

// literalToken matches an exact keyword/operator spelling, requiring a
// non-identifier boundary after alphabetic keywords.
func (p *Parser) literalToken(lit string) bool {
	p.skipTrivia()
	runes := []rune(lit)
	start := p.s.Offset()
	for _, want := range runes {
		if p.s.Rune() != want {
			p.s.Seek(start)
			return false
		}
		p.s.Next()
	}
	if isIdentRune(runes[len(runes)-1]) && isIdentRune(p.s.Rune()) {
		p.s.Seek(start)
		return false
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}

var keywords = map[string]bool{
	"and": true, "break": true, "class": true, "continue": true, "do": true,
	"else": true, "elseif": true, "export": true, "extends": true, "false": true,
	"for": true, "from": true, "global": true, "if": true, "import": true,
	"in": true, "local": true, "macro": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "switch": true, "then": true,
	"true": true, "try": true, "unless": true, "until": true, "using": true,
	"while": true, "with": true,
}
