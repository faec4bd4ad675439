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

package parser

import (
	"strings"

	"github.com/pigpigyyy/yue-go/yue/ast"
	"github.com/pigpigyyy/yue-go/yue/literal"
	"github.com/pigpigyyy/yue-go/yue/token"
)

// parseBlock reads a sequence of Statements sharing the indent stack's
// current top level.
func (p *Parser) parseBlock() *ast.Block {
	from := p.s.Pos()
	var stmts []*ast.Statement
	for {
		p.skipBlankLines()
		if p.s.AtEnd() {
			break
		}
		width := p.peekIndentWidth()
		if p.indents.CheckIndent(width) != 0 {
			break
		}
		st, ok := p.parseStatement()
		if !ok {
			break
		}
		stmts = append(stmts, st)
		if !p.newline() && !p.s.AtEnd() {
			break
		}
	}
	to := p.s.Pos()
	return &ast.Block{Base: ast.NewBase(from, to), Statements: stmts}
}

func (p *Parser) skipBlankLines() {
	for {
		m := p.mark()
		p.skipTrivia()
		if p.s.Rune() == '\n' {
			p.s.Next()
			continue
		}
		p.reset(m)
		return
	}
}

// peekIndentWidth measures the indentation of the current line without
// consuming it.
func (p *Parser) peekIndentWidth() int {
	m := p.mark()
	defer p.reset(m)
	start := p.s.Offset()
	for p.s.Rune() == ' ' || p.s.Rune() == '\t' {
		p.s.Next()
	}
	return scannerIndentWidth(p.file.Runes()[start:p.s.Offset()])
}

func scannerIndentWidth(runes []rune) int {
	w := 0
	for _, r := range runes {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 4
		}
	}
	return w
}

// parseBody parses `Statement | NewLine IndentedBlock`.
func (p *Parser) parseBody() (*ast.Body, bool) {
	from := p.s.Pos()
	if p.newline() {
		width := p.peekIndentWidth()
		if p.indents.CheckIndent(width) > 0 {
			p.indents.Push(width)
			block := p.parseBlock()
			p.indents.Pop()
			return &ast.Body{Block: block}, true
		}
		p.errorf("expected an indented block")
		return nil, false
	}
	st, ok := p.parseStatement()
	if !ok {
		return nil, false
	}
	to := p.s.Pos()
	_ = from
	_ = to
	return &ast.Body{Inline: st}, true
}

// parseStatement parses one Statement: an optional leading comment, one
// StatementContent, and an optional trailing appendix.
func (p *Parser) parseStatement() (*ast.Statement, bool) {
	from := p.s.Pos()
	var comments []string
	for {
		m := p.mark()
		p.skipSpaceInLine()
		text, ok := p.skipComment()
		if !ok {
			p.reset(m)
			break
		}
		comments = append(comments, strings.TrimSpace(text))
		if !p.newline() {
			break
		}
	}

	content, ok := p.parseStatementContent()
	if !ok {
		return nil, false
	}

	appendix := p.parseAppendix()
	to := p.s.Pos()
	return &ast.Statement{
		Base:     ast.NewBase(from, to),
		Comments: comments,
		Content:  content,
		Appendix: appendix,
	}, true
}

func (p *Parser) parseAppendix() *ast.StatementAppendix {
	from := p.s.Pos()
	if p.literalToken("if") {
		v, ok := p.parseExp()
		if !ok {
			return nil
		}
		return &ast.StatementAppendix{Base: ast.NewBase(from, p.s.Pos()), Item: &ast.IfLine{
			Base: ast.NewBase(from, p.s.Pos()), Type: &ast.IfType{Value: "if"}, Value: v,
		}}
	}
	if p.literalToken("unless") {
		v, ok := p.parseExp()
		if !ok {
			return nil
		}
		return &ast.StatementAppendix{Base: ast.NewBase(from, p.s.Pos()), Item: &ast.IfLine{
			Base: ast.NewBase(from, p.s.Pos()), Type: &ast.IfType{Value: "unless"}, Value: v,
		}}
	}
	if p.literalToken("while") {
		v, ok := p.parseExp()
		if !ok {
			return nil
		}
		return &ast.StatementAppendix{Base: ast.NewBase(from, p.s.Pos()), Item: &ast.WhileLine{
			Base: ast.NewBase(from, p.s.Pos()), Type: &ast.WhileType{Value: "while"}, Value: v,
		}}
	}
	return nil
}

// parseStatementContent dispatches on the leading keyword/token to pick
// which closed-choice alternative of Statement's content to parse.
func (p *Parser) parseStatementContent() (ast.StatementContent, bool) {
	switch {
	case p.peekKeyword("import"):
		return p.parseImport()
	case p.peekKeyword("export"):
		return p.parseExport()
	case p.peekKeyword("local"):
		return p.parseLocal()
	case p.peekKeyword("global"):
		return p.parseGlobal()
	case p.peekKeyword("if"):
		return p.parseIf("if")
	case p.peekKeyword("unless"):
		return p.parseIf("unless")
	case p.peekKeyword("while"):
		return p.parseWhile("while")
	case p.peekKeyword("until"):
		return p.parseWhile("until")
	case p.peekKeyword("repeat"):
		return p.parseRepeat()
	case p.peekKeyword("for"):
		return p.parseForOrForEach()
	case p.peekKeyword("switch"):
		return p.parseSwitch()
	case p.peekKeyword("with"):
		return p.parseWith()
	case p.peekKeyword("try"):
		return p.parseTry()
	case p.peekKeyword("class"):
		return p.parseClassDecl()
	case p.peekKeyword("do"):
		return p.parseDo()
	case p.peekKeyword("return"):
		return p.parseReturn()
	case p.peekKeyword("break"):
		return p.parseBreakContinue("break")
	case p.peekKeyword("continue"):
		return p.parseBreakContinue("continue")
	case p.peekKeyword("macro"):
		return p.parseMacro()
	case p.peekLabel():
		return p.parseLabel()
	case p.literalToken("::"):
		return p.parseGoto()
	case p.and(p.peekBackcallArrow):
		return p.parseBackcallStatement()
	}
	return p.parseExpListAssign()
}

// peekBackcallArrow reports whether a `<-`/`<=` backcall prefix starts
// here. It is only ever consulted at statement-content start, where `<=`
// cannot otherwise appear (a comparison operator needs a left operand),
// so there is no ambiguity with the ordinary `<=` binary operator.
func (p *Parser) peekBackcallArrow() bool {
	return p.literalToken("<-") || p.literalToken("<=")
}

// parseBackcallStatement parses `<- f(args)` / `<= f(args)`: the call
// expression receiving, later at transform time, the rest of the
// enclosing block folded into a trailing lambda argument.
func (p *Parser) parseBackcallStatement() (ast.StatementContent, bool) {
	from := p.s.Pos()
	var arrow *ast.FnArrowBack
	if p.literalToken("<-") {
		arrow = &ast.FnArrowBack{Base: ast.NewBase(from, p.s.Pos()), Value: "<-"}
	} else if p.literalToken("<=") {
		arrow = &ast.FnArrowBack{Base: ast.NewBase(from, p.s.Pos()), Value: "<="}
	} else {
		return nil, false
	}
	v, ok := p.parseExp()
	if !ok {
		p.errorf("expected a call expression after %q", arrow.Value)
		return nil, false
	}
	bc := &ast.Backcall{Base: ast.NewBase(from, p.s.Pos()), Arrow: arrow, Value: v}
	list := &ast.ExpList{Base: ast.NewBase(from, p.s.Pos()), Exprs: []ast.Expr{bc}}
	return &ast.ExpListAssign{Base: ast.NewBase(from, p.s.Pos()), ExpList: list}, true
}

func (p *Parser) peekKeyword(kw string) bool {
	return p.and(func() bool { return p.literalToken(kw) })
}

func (p *Parser) peekLabel() bool {
	return p.and(func() bool {
		if !p.literalToken("::") {
			return false
		}
		return true
	})
}

func (p *Parser) parseBreakContinue(kw string) (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken(kw) {
		return nil, false
	}
	bl := &ast.BreakLoop{Base: ast.NewBase(from, p.s.Pos()), Value: kw}
	return &ast.BreakStat{Base: ast.NewBase(from, p.s.Pos()), Keyword: bl}, true
}

func (p *Parser) parseGoto() (ast.StatementContent, bool) {
	from := p.s.Pos()
	v, ok := p.parseVariable()
	if !ok {
		p.errorf("expected a label name after ::")
		return nil, false
	}
	if !p.literalToken("::") {
		p.errorf("expected closing :: after goto label")
		return nil, false
	}
	return &ast.Goto{Base: ast.NewBase(from, p.s.Pos()), Name: v}, true
}

func (p *Parser) parseLabel() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("::") {
		return nil, false
	}
	v, ok := p.parseVariable()
	if !ok {
		p.errorf("expected a label name")
		return nil, false
	}
	if !p.literalToken("::") {
		p.errorf("expected closing ::")
		return nil, false
	}
	name := &ast.LabelName{Base: ast.NewBase(v.Pos(), v.End()), Name: v.Name}
	return &ast.Label{Base: ast.NewBase(from, p.s.Pos()), Name: name}, true
}

// ---------------------------------------------------------------------------
// Names, leaves

func (p *Parser) parseName() (*ast.Name, bool) {
	p.skipTrivia()
	from := p.s.Pos()
	if !isIdentStart(p.s.Rune()) || p.s.Rune() > 127 {
		return nil, false
	}
	start := p.s.Offset()
	for isIdentRune(p.s.Rune()) {
		p.s.Next()
	}
	text := string(p.file.Runes()[start:p.s.Offset()])
	if text == "" || keywords[text] {
		p.s.Seek(start)
		return nil, false
	}
	p.usedNames[text] = true
	return &ast.Name{Base: ast.NewBase(from, p.s.Pos()), Value: text}, true
}

func (p *Parser) parseUnicodeName() (*ast.UnicodeName, bool) {
	p.skipTrivia()
	from := p.s.Pos()
	if p.s.Rune() <= 127 {
		return nil, false
	}
	start := p.s.Offset()
	for isIdentRune(p.s.Rune()) || p.s.Rune() > 127 {
		p.s.Next()
	}
	text := string(p.file.Runes()[start:p.s.Offset()])
	if text == "" {
		return nil, false
	}
	return &ast.UnicodeName{Base: ast.NewBase(from, p.s.Pos()), Value: text}, true
}

func (p *Parser) parseNameLike() (ast.Expr, bool) {
	if n, ok := p.parseUnicodeName(); ok {
		return n, true
	}
	if n, ok := p.parseName(); ok {
		return n, true
	}
	return nil, false
}

func (p *Parser) parseVariable() (*ast.Variable, bool) {
	from := p.s.Pos()
	n, ok := p.parseNameLike()
	if !ok {
		return nil, false
	}
	return &ast.Variable{Base: ast.NewBase(from, p.s.Pos()), Name: n}, true
}

func (p *Parser) parseNum() (*ast.Num, bool) {
	p.skipTrivia()
	from := p.s.Pos()
	start := p.s.Offset()
	if !(p.s.Rune() >= '0' && p.s.Rune() <= '9') {
		return nil, false
	}
	if p.s.Rune() == '0' && (p.s.Peek() == 'x' || p.s.Peek() == 'X') {
		p.s.Next()
		p.s.Next()
		for isHexDigit(p.s.Rune()) || p.s.Rune() == '_' {
			p.s.Next()
		}
		if p.s.Rune() == '.' {
			p.s.Next()
			for isHexDigit(p.s.Rune()) || p.s.Rune() == '_' {
				p.s.Next()
			}
		}
		if p.s.Rune() == 'p' || p.s.Rune() == 'P' {
			p.s.Next()
			if p.s.Rune() == '+' || p.s.Rune() == '-' {
				p.s.Next()
			}
			for p.s.Rune() >= '0' && p.s.Rune() <= '9' {
				p.s.Next()
			}
		}
	} else {
		for p.s.Rune() >= '0' && p.s.Rune() <= '9' || p.s.Rune() == '_' {
			p.s.Next()
		}
		if p.s.Rune() == '.' {
			p.s.Next()
			for p.s.Rune() >= '0' && p.s.Rune() <= '9' || p.s.Rune() == '_' {
				p.s.Next()
			}
		}
		if p.s.Rune() == 'e' || p.s.Rune() == 'E' {
			p.s.Next()
			if p.s.Rune() == '+' || p.s.Rune() == '-' {
				p.s.Next()
			}
			for p.s.Rune() >= '0' && p.s.Rune() <= '9' {
				p.s.Next()
			}
		}
	}
	text := string(p.file.Runes()[start:p.s.Offset()])
	if _, err := literal.ParseNum(text); err != nil {
		p.errorf("malformed numeral %q: %v", text, err)
	}
	return &ast.Num{Base: ast.NewBase(from, p.s.Pos()), Value: text}, true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// ---------------------------------------------------------------------------
// Strings

func (p *Parser) parseString() (*ast.String, bool) {
	p.skipTrivia()
	from := p.s.Pos()
	switch p.s.Rune() {
	case '\'':
		s, ok := p.parseSingleString()
		if !ok {
			return nil, false
		}
		return &ast.String{Base: ast.NewBase(from, p.s.Pos()), Item: s}, true
	case '"':
		s, ok := p.parseDoubleString()
		if !ok {
			return nil, false
		}
		return &ast.String{Base: ast.NewBase(from, p.s.Pos()), Item: s}, true
	case '[':
		if lvl := p.peekLongBracketLevel(); lvl >= 0 {
			s, ok := p.parseLuaString(lvl)
			if !ok {
				return nil, false
			}
			return &ast.String{Base: ast.NewBase(from, p.s.Pos()), Item: s}, true
		}
	}
	return nil, false
}

func (p *Parser) parseSingleString() (*ast.SingleString, bool) {
	from := p.s.Pos()
	p.s.Next() // opening '
	start := p.s.Offset()
	for {
		switch p.s.Rune() {
		case -1, '\n':
			p.errorf("unterminated string")
			return nil, false
		case '\\':
			p.s.Next()
			p.s.Next()
			continue
		case '\'':
			body := string(p.file.Runes()[start:p.s.Offset()])
			p.s.Next()
			return &ast.SingleString{Base: ast.NewBase(from, p.s.Pos()), Value: body}, true
		}
		p.s.Next()
	}
}

func (p *Parser) parseDoubleString() (*ast.DoubleString, bool) {
	from := p.s.Pos()
	p.s.Next() // opening "
	start := p.s.Offset()
	for {
		switch p.s.Rune() {
		case -1, '\n':
			p.errorf("unterminated string")
			return nil, false
		case '\\':
			p.s.Next()
			p.s.Next()
			continue
		case '"':
			body := string(p.file.Runes()[start:p.s.Offset()])
			p.s.Next()
			segs, err := literal.SplitDoubleString(body)
			if err != nil {
				p.errorf("%v", err)
				return nil, false
			}
			inner := &ast.DoubleStringInner{Base: ast.NewBase(from, p.s.Pos())}
			for _, seg := range segs {
				if seg.Interp != "" {
					sub := New(token.NewFile(p.file.Name(), []rune(seg.Interp)))
					exp, ok := sub.parseExp()
					if !ok {
						p.errorf("malformed interpolation %q", seg.Interp)
						continue
					}
					inner.Segments = append(inner.Segments, exp)
				} else {
					inner.Segments = append(inner.Segments, &ast.DoubleStringContent{
						Base: ast.NewBase(from, p.s.Pos()), Value: seg.Text,
					})
				}
			}
			return &ast.DoubleString{Base: ast.NewBase(from, p.s.Pos()), Inner: inner}, true
		}
		p.s.Next()
	}
}

func (p *Parser) parseLuaString(level int) (*ast.LuaString, bool) {
	from := p.s.Pos()
	openFrom := p.s.Pos()
	body, closed := p.readLongBracket(level)
	if !closed {
		p.errorf("unterminated long string")
		return nil, false
	}
	open := &ast.LuaStringOpen{Base: ast.NewBase(openFrom, openFrom), Level: level}
	content := &ast.LuaStringContent{Base: ast.NewBase(from, p.s.Pos()), Value: body}
	return &ast.LuaString{Base: ast.NewBase(from, p.s.Pos()), Open: open, Content: content}, true
}

// ---------------------------------------------------------------------------
// Expressions (precedence climbing over the binary operator set)

var binaryPrec = map[string]int{
	"|>": 0,
	"or": 1, "and": 2,
	"<": 3, ">": 3, "<=": 3, ">=": 3, "~=": 3, "==": 3,
	"|": 4, "~": 5, "&": 6, "<<": 7, ">>": 7,
	"..": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "//": 10, "%": 10,
	"^": 12,
}

var rightAssoc = map[string]bool{"..": true, "^": true}

func (p *Parser) parseExp() (ast.Expr, bool) {
	from := p.s.Pos()
	first, ok := p.parseUnaryExp()
	if !ok {
		return nil, false
	}
	exp := &ast.Exp{Base: ast.NewBase(from, p.s.Pos()), First: first}
	for {
		op, ok := p.peekBinaryOp()
		if !ok {
			break
		}
		opFrom := p.s.Pos()
		p.consumeOp(op)
		rhs, ok := p.parseUnaryExp()
		if !ok {
			p.errorf("expected an expression after operator %q", op)
			break
		}
		if op == "|>" {
			rhs = &ast.PipeBody{Base: ast.NewBase(rhs.Pos(), rhs.End()), Value: rhs}
		}
		exp.OpValues = append(exp.OpValues, &ast.ExpOpValue{
			Base:  ast.NewBase(opFrom, p.s.Pos()),
			Op:    &ast.BinaryOperator{Base: ast.NewBase(opFrom, p.s.Pos()), Value: op},
			Value: rhs,
		})
	}
	if p.literalToken("??") {
		tail, ok := p.parseExp()
		if !ok {
			p.errorf("expected an expression after ??")
		} else {
			exp.NilCoalesed = tail
		}
	}
	exp.To = p.s.Pos()
	return resolvePrecedence(exp), true
}

// resolvePrecedence folds the flat opValues chain captured by the grammar
// into a precedence- and associativity-correct [ast.BinaryExpr] tree, a
// post-parse pass rather than baking precedence climbing into the grammar
// itself. An Exp with a `??` tail stays an Exp whose First is the folded
// tree, so the tail reaches the transformer.
func resolvePrecedence(exp *ast.Exp) ast.Expr {
	if exp.NilCoalesed != nil {
		first := resolvePrecedence(&ast.Exp{Base: exp.Base, First: exp.First, OpValues: exp.OpValues})
		return &ast.Exp{Base: exp.Base, First: first, NilCoalesed: exp.NilCoalesed}
	}
	if len(exp.OpValues) == 0 {
		return exp.First
	}
	values := make([]ast.Expr, 0, len(exp.OpValues)+1)
	ops := make([]string, 0, len(exp.OpValues))
	values = append(values, exp.First)
	for _, ov := range exp.OpValues {
		ops = append(ops, ov.Op.Value)
		values = append(values, ov.Value)
	}

	i := 0
	var climb func(minPrec int) ast.Expr
	climb = func(minPrec int) ast.Expr {
		left := values[i]
		for i < len(ops) && binaryPrec[ops[i]] >= minPrec {
			op := ops[i]
			prec := binaryPrec[op]
			i++
			nextMin := prec + 1
			if rightAssoc[op] {
				nextMin = prec
			}
			right := climb(nextMin)
			left = &ast.BinaryExpr{
				Base:  ast.NewBase(left.Pos(), right.End()),
				Op:    op,
				Left:  left,
				Right: right,
			}
		}
		return left
	}
	return climb(0)
}

func (p *Parser) peekBinaryOp() (string, bool) {
	candidates := []string{"or", "and", "<=", ">=", "~=", "==", "<<", ">>", "//", "..", "<", ">", "|>", "|", "~", "&", "+", "-", "*", "/", "%", "^"}
	for _, c := range candidates {
		if p.and(func() bool { return p.literalToken(c) }) {
			return c, true
		}
	}
	return "", false
}

func (p *Parser) consumeOp(op string) { p.literalToken(op) }

var unaryOps = []string{"not", "-", "#", "~"}

func (p *Parser) parseUnaryExp() (ast.Expr, bool) {
	from := p.s.Pos()
	var ops []*ast.UnaryOperator
	for {
		matched := false
		for _, u := range unaryOps {
			if p.and(func() bool { return p.literalToken(u) }) {
				opFrom := p.s.Pos()
				p.literalToken(u)
				ops = append(ops, &ast.UnaryOperator{Base: ast.NewBase(opFrom, p.s.Pos()), Value: u})
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	val, ok := p.parseChainOrValue()
	if !ok {
		return nil, false
	}
	if len(ops) == 0 {
		return val, true
	}
	return &ast.UnaryExp{Base: ast.NewBase(from, p.s.Pos()), Ops: ops, Value: val}, true
}
