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

import "github.com/pigpigyyy/yue-go/yue/ast"

// ---------------------------------------------------------------------------
// if / unless

func (p *Parser) parseIf(kw string) (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken(kw) {
		return nil, false
	}
	node := &ast.If{Base: ast.NewBase(from, from), Type: &ast.IfType{Value: kw}}
	for {
		condFrom := p.s.Pos()
		v, ok := p.parseExp()
		if !ok {
			p.errorf("expected a condition expression")
			return nil, false
		}
		node.Conds = append(node.Conds, &ast.IfCond{Base: ast.NewBase(condFrom, p.s.Pos()), Value: v})
		body, ok := p.parseBody()
		if !ok {
			return nil, false
		}
		node.Bodies = append(node.Bodies, body)
		if !p.newline() {
			break
		}
		width := p.peekIndentWidth()
		if p.indents.CheckIndent(width) != 0 {
			break
		}
		if p.and(func() bool { return p.literalToken("elseif") }) {
			p.literalToken("elseif")
			continue
		}
		if p.and(func() bool { return p.literalToken("else") }) {
			p.literalToken("else")
			body, ok := p.parseBody()
			if ok {
				node.Bodies = append(node.Bodies, body)
				node.HasElse = true
			}
		}
		break
	}
	node.To = p.s.Pos()
	return node, true
}

// ---------------------------------------------------------------------------
// while / until

func (p *Parser) parseWhile(kw string) (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken(kw) {
		return nil, false
	}
	v, ok := p.parseExp()
	if !ok {
		p.errorf("expected a condition expression")
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	return &ast.While{Base: ast.NewBase(from, p.s.Pos()), Type: &ast.WhileType{Value: kw}, Value: v, Body: body}, true
}

func (p *Parser) parseRepeat() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("repeat") {
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	if !p.newline() || !p.literalToken("until") {
		p.errorf("expected until after repeat body")
		return nil, false
	}
	cond, ok := p.parseExp()
	if !ok {
		return nil, false
	}
	return &ast.Repeat{Base: ast.NewBase(from, p.s.Pos()), Body: body, Cond: cond}, true
}

// ---------------------------------------------------------------------------
// for / for-each

func (p *Parser) parseForOrForEach() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("for") {
		return nil, false
	}
	if p.and(p.tryNumericForHeader) {
		name, start, stop, step, ok := p.parseNumericForHeader()
		if !ok {
			return nil, false
		}
		body, ok := p.parseBody()
		if !ok {
			return nil, false
		}
		return &ast.For{Base: ast.NewBase(from, p.s.Pos()), Name: name, Start: start, Stop: stop, Step: step, Body: body}, true
	}
	names, ok := p.parseAssignableNameList()
	if !ok {
		p.errorf("expected name(s) after for")
		return nil, false
	}
	if !p.literalToken("in") {
		p.errorf("expected in")
		return nil, false
	}
	var loopExpr ast.Node
	if p.literalToken("*") {
		e, ok := p.parseExp()
		if !ok {
			return nil, false
		}
		loopExpr = &ast.StarExp{Base: ast.NewBase(e.Pos(), e.End()), Value: e}
	} else {
		list, ok := p.parseExpList()
		if !ok {
			return nil, false
		}
		loopExpr = list
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	return &ast.ForEach{Base: ast.NewBase(from, p.s.Pos()), NameList: names, LoopExpr: loopExpr, Body: body}, true
}

func (p *Parser) tryNumericForHeader() bool {
	_, _, _, _, ok := p.parseNumericForHeader()
	return ok
}

func (p *Parser) parseNumericForHeader() (*ast.Variable, ast.Expr, ast.Expr, *ast.ForStepValue, bool) {
	name, ok := p.parseVariable()
	if !ok || !p.literalToken("=") {
		return nil, nil, nil, nil, false
	}
	start, ok := p.parseExp()
	if !ok || !p.literalToken(",") {
		return nil, nil, nil, nil, false
	}
	stop, ok := p.parseExp()
	if !ok {
		return nil, nil, nil, nil, false
	}
	var step *ast.ForStepValue
	if p.literalToken(",") {
		e, ok := p.parseExp()
		if !ok {
			return nil, nil, nil, nil, false
		}
		step = &ast.ForStepValue{Base: ast.NewBase(e.Pos(), e.End()), Value: e}
	}
	return name, start, stop, step, true
}

func (p *Parser) parseAssignableNameList() (*ast.AssignableNameList, bool) {
	from := p.s.Pos()
	var names []*ast.Variable
	for {
		v, ok := p.parseVariable()
		if !ok {
			break
		}
		names = append(names, v)
		if !p.literalToken(",") {
			break
		}
	}
	if len(names) == 0 {
		return nil, false
	}
	return &ast.AssignableNameList{Base: ast.NewBase(from, p.s.Pos()), Names: names}, true
}

func (p *Parser) parseExpList() (*ast.ExpList, bool) {
	from := p.s.Pos()
	var exprs []ast.Expr
	for {
		e, ok := p.parseExp()
		if !ok {
			break
		}
		exprs = append(exprs, e)
		if !p.literalToken(",") {
			break
		}
	}
	if len(exprs) == 0 {
		return nil, false
	}
	return &ast.ExpList{Base: ast.NewBase(from, p.s.Pos()), Exprs: exprs}, true
}

func (p *Parser) parseExpListLow() (*ast.ExpListLow, bool) {
	from := p.s.Pos()
	var exprs []ast.Expr
	for {
		e, ok := p.parseExp()
		if !ok {
			break
		}
		exprs = append(exprs, e)
		if !p.literalToken(",") {
			break
		}
	}
	if len(exprs) == 0 {
		return nil, false
	}
	return &ast.ExpListLow{Base: ast.NewBase(from, p.s.Pos()), Exprs: exprs}, true
}

// ---------------------------------------------------------------------------
// do / return

func (p *Parser) parseDo() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("do") {
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	return &ast.Do{Base: ast.NewBase(from, p.s.Pos()), Body: body}, true
}

func (p *Parser) parseReturn() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("return") {
		return nil, false
	}
	vals, _ := p.parseExpListLow()
	return &ast.Return{Base: ast.NewBase(from, p.s.Pos()), ValueList: vals}, true
}

// ---------------------------------------------------------------------------
// switch

func (p *Parser) parseSwitch() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("switch") {
		return nil, false
	}
	v, ok := p.parseExp()
	if !ok {
		return nil, false
	}
	node := &ast.Switch{Base: ast.NewBase(from, from), Value: v}
	if !p.newline() {
		p.errorf("expected an indented block of switch cases")
		return nil, false
	}
	width := p.peekIndentWidth()
	if p.indents.CheckIndent(width) <= 0 {
		p.errorf("expected an indented block of switch cases")
		return nil, false
	}
	p.indents.Push(width)
	defer p.indents.Pop()
	for {
		p.skipBlankLines()
		if p.s.AtEnd() || p.indents.CheckIndent(p.peekIndentWidth()) != 0 {
			break
		}
		caseFrom := p.s.Pos()
		var list *ast.SwitchList
		if p.literalToken("else") {
			list = nil
		} else {
			listFrom := p.s.Pos()
			var exprs []ast.Expr
			for {
				e, ok := p.parseExp()
				if !ok {
					break
				}
				exprs = append(exprs, e)
				if !p.literalToken(",") {
					break
				}
			}
			if len(exprs) == 0 {
				break
			}
			list = &ast.SwitchList{Base: ast.NewBase(listFrom, p.s.Pos()), Exprs: exprs}
		}
		body, ok := p.parseBody()
		if !ok {
			break
		}
		node.Cases = append(node.Cases, &ast.SwitchCase{Base: ast.NewBase(caseFrom, p.s.Pos()), ValueList: list, Body: body})
		if !p.newline() {
			break
		}
	}
	node.To = p.s.Pos()
	return node, true
}

// ---------------------------------------------------------------------------
// with

func (p *Parser) parseWith() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("with") {
		return nil, false
	}
	var assigns []ast.Expr
	v, ok := p.parseExp()
	if !ok {
		return nil, false
	}
	if p.literalToken("=") {
		// `with x = expr` binds a fresh local; record the target as the
		// first assignment slot and re-read the value.
		assigns = append(assigns, v)
		val, ok := p.parseExp()
		if !ok {
			return nil, false
		}
		v = val
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	return &ast.With{Base: ast.NewBase(from, p.s.Pos()), Assigns: assigns, Value: v, Body: body}, true
}

// ---------------------------------------------------------------------------
// try / catch

func (p *Parser) parseTry() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("try") {
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	node := &ast.Try{Base: ast.NewBase(from, from), Body: body}
	if p.newline() {
		if p.literalToken("catch") {
			catchFrom := p.s.Pos()
			name, _ := p.parseVariable()
			cbody, ok := p.parseBody()
			if ok {
				node.Catch = &ast.CatchBlock{Base: ast.NewBase(catchFrom, p.s.Pos()), Name: name, Body: cbody}
			}
		}
	}
	node.To = p.s.Pos()
	return node, true
}

// ---------------------------------------------------------------------------
// import / export / local / global

func (p *Parser) parseImport() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("import") {
		return nil, false
	}
	node := &ast.Import{Base: ast.NewBase(from, from)}
	if p.literalToken("\\") {
		v, ok := p.parseVariable()
		if ok {
			node.Colon = &ast.ColonImportName{Base: ast.NewBase(v.Pos(), v.End()), Name: v}
		}
	} else if t, ok := p.parseTableLit(); ok {
		if lit, ok := t.(*ast.TableLit); ok {
			node.Target = &ast.ImportTabLit{Base: ast.NewBase(lit.Pos(), lit.End()), Items: lit.Items}
		}
	} else {
		litFrom := p.s.Pos()
		var segs []string
		for {
			n, ok := p.parseNameLike()
			if !ok {
				break
			}
			segs = append(segs, nameText(n))
			if !p.literalToken(".") {
				break
			}
		}
		if len(segs) == 0 {
			p.errorf("expected an import path")
			return nil, false
		}
		node.Target = &ast.ImportLiteral{Base: ast.NewBase(litFrom, p.s.Pos()), Inners: segs}
	}
	if p.literalToken("as") {
		asFrom := p.s.Pos()
		if t, ok := p.parseTableLit(); ok {
			if lit, ok := t.(*ast.TableLit); ok {
				node.As = &ast.ImportAs{Base: ast.NewBase(asFrom, p.s.Pos()), Target: &ast.ImportTabLit{Base: ast.NewBase(lit.Pos(), lit.End()), Items: lit.Items}}
			}
		} else if v, ok := p.parseVariable(); ok {
			node.As = &ast.ImportAs{Base: ast.NewBase(asFrom, p.s.Pos()), Target: v}
		}
	}
	if p.literalToken("from") {
		e, ok := p.parseExp()
		if ok {
			node.From = &ast.ImportFrom{Base: ast.NewBase(e.Pos(), e.End()), Value: e}
		}
	}
	node.To = p.s.Pos()
	return node, true
}

func nameText(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Name:
		return n.Value
	case *ast.UnicodeName:
		return n.Value
	}
	return ""
}

func (p *Parser) parseExport() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("export") {
		return nil, false
	}
	p.exportCount++
	node := &ast.Export{Base: ast.NewBase(from, from)}
	if p.literalToken("default") {
		node.Default = &ast.ExportDefault{Base: ast.NewBase(from, p.s.Pos())}
		p.exportDefault = true
		e, ok := p.parseExp()
		if ok {
			node.Target = &ast.Assign{Base: ast.NewBase(e.Pos(), e.End()), Exprs: []ast.Expr{e}}
		}
	} else if v, ok := p.parseVariable(); ok {
		node.Target = v
	}
	node.To = p.s.Pos()
	return node, true
}

func (p *Parser) parseLocal() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("local") {
		return nil, false
	}
	if p.literalToken("*") {
		return &ast.Local{Base: ast.NewBase(from, p.s.Pos()), Item: &ast.LocalFlag{Base: ast.NewBase(from, p.s.Pos()), Value: "*"}}, true
	}
	if p.and(func() bool { return p.literalToken("const") || p.literalToken("close") }) {
		attrFrom := p.s.Pos()
		var attr ast.Node
		if p.literalToken("const") {
			attr = &ast.ConstAttrib{Base: ast.NewBase(attrFrom, p.s.Pos())}
		} else {
			p.literalToken("close")
			attr = &ast.CloseAttrib{Base: ast.NewBase(attrFrom, p.s.Pos())}
		}
		left, ok := p.parseAssignableList()
		if !ok {
			return nil, false
		}
		var assign *ast.Assign
		if p.literalToken("=") {
			list, ok := p.parseExpListLow()
			if ok {
				assign = &ast.Assign{Base: ast.NewBase(list.Pos(), list.End()), Exprs: list.Exprs}
			}
		}
		return &ast.LocalAttrib{Base: ast.NewBase(from, p.s.Pos()), Attrib: attr, LeftList: left, Assign: assign}, true
	}
	names, ok := p.parseNameList()
	if !ok {
		p.errorf("expected name(s) after local")
		return nil, false
	}
	var values ast.Expr
	if p.literalToken("=") {
		if t, ok := p.parseTableBlock(); ok {
			values = t
		} else if list, ok := p.parseExpListLow(); ok {
			values = list
		}
	}
	return &ast.Local{Base: ast.NewBase(from, p.s.Pos()), Item: &ast.LocalValues{
		Base: ast.NewBase(from, p.s.Pos()), NameList: names, ValueList: values,
	}}, true
}

func (p *Parser) parseAssignableList() ([]ast.Expr, bool) {
	var out []ast.Expr
	for {
		e, ok := p.parseAssignable()
		if !ok {
			break
		}
		out = append(out, e)
		if !p.literalToken(",") {
			break
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (p *Parser) parseTableBlock() (ast.Expr, bool) {
	// A table literal is also valid directly after `=` in a local
	// declaration without the surrounding parens a plain Exp would need;
	// parseTableLit already covers the `{ ... }` spelling.
	return p.parseTableLit()
}

func (p *Parser) parseNameList() (*ast.NameList, bool) {
	from := p.s.Pos()
	var names []*ast.Variable
	for {
		v, ok := p.parseVariable()
		if !ok {
			break
		}
		names = append(names, v)
		if !p.literalToken(",") {
			break
		}
	}
	if len(names) == 0 {
		return nil, false
	}
	return &ast.NameList{Base: ast.NewBase(from, p.s.Pos()), Names: names}, true
}

func (p *Parser) parseGlobal() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("global") {
		return nil, false
	}
	values := &ast.GlobalValues{Base: ast.NewBase(from, from)}
	if p.literalToken("*") {
		values.Op = &ast.GlobalOp{Base: ast.NewBase(from, p.s.Pos()), Value: "*"}
	} else if p.literalToken("^") {
		values.Op = &ast.GlobalOp{Base: ast.NewBase(from, p.s.Pos()), Value: "^"}
	} else if names, ok := p.parseNameList(); ok {
		values.NameList = names
	}
	values.To = p.s.Pos()
	return &ast.Global{Base: ast.NewBase(from, p.s.Pos()), Item: values}, true
}

// ---------------------------------------------------------------------------
// macro

func (p *Parser) parseMacro() (ast.StatementContent, bool) {
	from := p.s.Pos()
	if !p.literalToken("macro") {
		return nil, false
	}
	nameFrom := p.s.Pos()
	v, ok := p.parseVariable()
	if !ok {
		p.errorf("expected a macro name")
		return nil, false
	}
	name := &ast.MacroName{Base: ast.NewBase(nameFrom, p.s.Pos()), Name: v}
	litFrom := p.s.Pos()
	args := p.tryParseFnArgsDef()
	if !p.literalToken("->") {
		p.errorf("expected -> in macro definition")
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	p.exportMacro = true
	lit := &ast.MacroLit{Base: ast.NewBase(litFrom, p.s.Pos()), Args: args, Body: body}
	return &ast.Macro{Base: ast.NewBase(from, p.s.Pos()), Name: name, Lit: lit}, true
}

// ---------------------------------------------------------------------------
// bare expression statement / assignment / update

func (p *Parser) parseExpListAssign() (ast.StatementContent, bool) {
	from := p.s.Pos()
	list, ok := p.parseExpList()
	if !ok {
		return nil, false
	}
	var action ast.Node
	switch {
	case p.literalToken(":="):
		rhs, ok := p.parseExpListLow()
		if ok {
			action = &ast.Assign{Base: ast.NewBase(rhs.Pos(), rhs.End()), Exprs: rhs.Exprs}
		}
	case p.and(p.peekUpdateOp):
		op := p.readUpdateOp()
		val, ok := p.parseExp()
		if ok {
			action = &ast.Update{Base: ast.NewBase(op.Pos(), val.End()), Op: op, Value: val}
		}
	case p.literalToken("="):
		rhs, ok := p.parseExpListLow()
		if ok {
			action = &ast.Assign{Base: ast.NewBase(rhs.Pos(), rhs.End()), Exprs: rhs.Exprs}
		}
	}
	return &ast.ExpListAssign{Base: ast.NewBase(from, p.s.Pos()), ExpList: list, Action: action}, true
}

var updateOps = []string{"+=", "-=", "*=", "/=", "//=", "%=", "^=", "..=", "||=", "&&=", "??=", "or=", "and=", "|=", "&=", "~=", "<<=", ">>="}

func (p *Parser) peekUpdateOp() bool {
	for _, op := range updateOps {
		if p.and(func() bool { return p.literalToken(op) }) {
			return true
		}
	}
	return false
}

func (p *Parser) readUpdateOp() *ast.UpdateOp {
	from := p.s.Pos()
	for _, op := range updateOps {
		if p.literalToken(op) {
			return &ast.UpdateOp{Base: ast.NewBase(from, p.s.Pos()), Value: op}
		}
	}
	return nil
}
