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
	"github.com/pigpigyyy/yue-go/yue/ast"
	"github.com/pigpigyyy/yue-go/yue/token"
)

// ---------------------------------------------------------------------------
// Chains and values

// parseChainOrValue parses a Callable/literal/parenthesized value, then any
// trailing dot/colon/invoke/index/slice/table-appending `[]` items. An
// existential `?` may follow the caller or any item; a `?` directly followed
// by another `?` is left for the `??` operator.
func (p *Parser) parseChainOrValue() (ast.Expr, bool) {
	from := p.s.Pos()
	caller, ok := p.parseCallableOrLiteral()
	if !ok {
		return nil, false
	}
	var items []ast.Node
	for {
		if p.literalToken(".") {
			itemFrom := p.s.Pos()
			name, ok := p.parseNameLike()
			if !ok {
				p.errorf("expected a name after .")
				break
			}
			items = append(items, &ast.DotChainItem{Base: ast.NewBase(itemFrom, p.s.Pos()), Name: name})
			continue
		}
		if p.literalToken("\\") {
			itemFrom := p.s.Pos()
			name, ok := p.parseNameLike()
			if !ok {
				p.errorf("expected a name after \\")
				break
			}
			existential := p.literalToken("?")
			items = append(items, &ast.ColonChainItem{Base: ast.NewBase(itemFrom, p.s.Pos()), Name: name, Existential: existential})
			continue
		}
		if p.literalToken(":") {
			itemFrom := p.s.Pos()
			name, ok := p.parseNameLike()
			if !ok {
				p.errorf("expected a name after :")
				break
			}
			existential := p.literalToken("?")
			items = append(items, &ast.ColonChainItem{Base: ast.NewBase(itemFrom, p.s.Pos()), Name: name, Existential: existential})
			continue
		}
		if p.and(func() bool { return p.literalToken("(") }) {
			args, ok := p.parseInvokeArgs()
			if !ok {
				break
			}
			items = append(items, &ast.Invoke{Base: ast.NewBase(args.Pos(), args.End()), Args: args})
			continue
		}
		if p.literalToken("[") {
			itemFrom := p.s.Pos()
			if p.literalToken("]") {
				items = append(items, &ast.TableAppendingOp{Base: ast.NewBase(itemFrom, p.s.Pos())})
				continue
			}
			idxOrSlice, ok := p.parseIndexOrSlice(itemFrom)
			if !ok {
				break
			}
			items = append(items, idxOrSlice)
			continue
		}
		if p.and(func() bool { return p.literalToken("?") && !p.literalToken("?") }) {
			p.literalToken("?")
			items = append(items, &ast.ExistentialOp{Base: ast.NewBase(p.s.Pos(), p.s.Pos())})
			continue
		}
		break
	}
	if len(items) == 0 {
		return caller, true
	}
	return &ast.ChainValue{Base: ast.NewBase(from, p.s.Pos()), Caller: caller, Items: items}, true
}

func (p *Parser) parseIndexOrSlice(from token.Pos) (ast.Node, bool) {
	var fromExp, toExp, stepExp ast.Expr
	if !p.literalToken(":") {
		e, ok := p.parseExp()
		if !ok {
			p.errorf("expected an expression inside []")
			return nil, false
		}
		if p.literalToken(":") {
			fromExp = e
		} else {
			if !p.literalToken("]") {
				p.errorf("expected ] to close index")
				return nil, false
			}
			return &ast.Index{Base: ast.NewBase(from, p.s.Pos()), Value: e}, true
		}
	}
	if !p.and(func() bool { return p.literalToken(":") || p.literalToken("]") }) {
		e, ok := p.parseExp()
		if ok {
			toExp = e
		}
	}
	if p.literalToken(":") {
		e, ok := p.parseExp()
		if ok {
			stepExp = e
		}
	}
	if !p.literalToken("]") {
		p.errorf("expected ] to close slice")
		return nil, false
	}
	return &ast.Slice{Base: ast.NewBase(from, p.s.Pos()), From: fromExp, To: toExp, Step: stepExp}, true
}

func (p *Parser) parseInvokeArgs() (*ast.InvokeArgs, bool) {
	from := p.s.Pos()
	if !p.literalToken("(") {
		return nil, false
	}
	var args []ast.Expr
	if !p.and(func() bool { return p.literalToken(")") }) {
		for {
			e, ok := p.parseExp()
			if !ok {
				break
			}
			args = append(args, e)
			if !p.literalToken(",") {
				break
			}
		}
	}
	if !p.literalToken(")") {
		p.errorf("expected ) to close argument list")
		return nil, false
	}
	return &ast.InvokeArgs{Base: ast.NewBase(from, p.s.Pos()), Args: args}, true
}

func (p *Parser) parseCallableOrLiteral() (ast.Expr, bool) {
	from := p.s.Pos()
	switch {
	case p.literalToken("nil"):
		return &ast.ConstValue{Base: ast.NewBase(from, p.s.Pos()), Value: "nil"}, true
	case p.literalToken("true"):
		return &ast.ConstValue{Base: ast.NewBase(from, p.s.Pos()), Value: "true"}, true
	case p.literalToken("false"):
		return &ast.ConstValue{Base: ast.NewBase(from, p.s.Pos()), Value: "false"}, true
	case p.literalToken("..."):
		return &ast.VarArg{Base: ast.NewBase(from, p.s.Pos())}, true
	case p.literalToken("@@"):
		if v, ok := p.parseNameLike(); ok {
			return &ast.SelfClassName{Base: ast.NewBase(from, p.s.Pos()), Name: v}, true
		}
		return &ast.SelfClass{Base: ast.NewBase(from, p.s.Pos())}, true
	case p.literalToken("@"):
		if v, ok := p.parseNameLike(); ok {
			return &ast.SelfName{Base: ast.NewBase(from, p.s.Pos()), Name: v}, true
		}
		return &ast.Self{Base: ast.NewBase(from, p.s.Pos())}, true
	}
	if s, ok := p.parseString(); ok {
		return s, true
	}
	if n, ok := p.parseNum(); ok {
		return n, true
	}
	if p.literalToken("(") {
		e, ok := p.parseExp()
		if !ok {
			p.errorf("expected an expression inside ( )")
			return nil, false
		}
		if !p.literalToken(")") {
			p.errorf("expected ) to close parenthesized expression")
			return nil, false
		}
		return &ast.Parens{Base: ast.NewBase(from, p.s.Pos()), Value: e}, true
	}
	if fn, ok := p.tryParseFunLit(); ok {
		return fn, true
	}
	if cls, ok := p.tryParseClassExpr(); ok {
		return cls, true
	}
	if t, ok := p.parseTableLit(); ok {
		return t, true
	}
	if macroCall, ok := p.tryParseMacroInPlace(); ok {
		return macroCall, true
	}
	if v, ok := p.parseVariable(); ok {
		return v, true
	}
	return nil, false
}

func (p *Parser) tryParseMacroInPlace() (ast.Expr, bool) {
	from := p.s.Pos()
	if !p.literalToken("$") {
		return nil, false
	}
	name, ok := p.parseVariable()
	if !ok {
		p.errorf("expected a macro name after $")
		return nil, false
	}
	args, ok := p.parseInvokeArgs()
	if !ok {
		return nil, false
	}
	return &ast.MacroInPlace{Base: ast.NewBase(from, p.s.Pos()), Name: name, Args: args}, true
}

// ---------------------------------------------------------------------------
// Function literals

func (p *Parser) tryParseFunLit() (*ast.FunLit, bool) {
	from := p.s.Pos()
	args := p.tryParseFnArgsDef()
	arrowFrom := p.s.Pos()
	var arrow string
	switch {
	case p.literalToken("->"):
		arrow = "->"
	case p.literalToken("=>"):
		arrow = "=>"
	default:
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		p.errorf("expected a function body")
		return nil, false
	}
	return &ast.FunLit{
		Base:  ast.NewBase(from, p.s.Pos()),
		Args:  args,
		Arrow: &ast.FnArrow{Base: ast.NewBase(arrowFrom, arrowFrom), Value: arrow},
		Body:  body,
	}, true
}

func (p *Parser) tryParseFnArgsDef() *ast.FnArgsDef {
	from := p.s.Pos()
	if !p.literalToken("(") {
		return nil
	}
	def := &ast.FnArgsDef{Base: ast.NewBase(from, from)}
	list := &ast.FnArgDefList{Base: ast.NewBase(from, from)}
	for {
		if p.literalToken("...") {
			def.VarArg = &ast.VarArg{Base: ast.NewBase(p.s.Pos(), p.s.Pos())}
			break
		}
		argFrom := p.s.Pos()
		nd, ok := p.parseNameOrDestructure()
		if !ok {
			break
		}
		var def_ *ast.DefaultValue
		if p.literalToken("=") {
			e, ok := p.parseExp()
			if ok {
				def_ = &ast.DefaultValue{Base: ast.NewBase(argFrom, p.s.Pos()), Value: e}
			}
		}
		list.Args = append(list.Args, &ast.FnArgDef{Base: ast.NewBase(argFrom, p.s.Pos()), Name: nd, Default: def_})
		if !p.literalToken(",") {
			break
		}
	}
	def.Args = list
	if p.literalToken("using") {
		shadowFrom := p.s.Pos()
		shadow := &ast.OuterVarShadow{Base: ast.NewBase(shadowFrom, shadowFrom)}
		if !p.literalToken("nil") {
			for {
				v, ok := p.parseVariable()
				if !ok {
					break
				}
				shadow.Names = append(shadow.Names, v)
				if !p.literalToken(",") {
					break
				}
			}
		}
		def.Shadow = shadow
	}
	p.literalToken(")")
	def.To = p.s.Pos()
	return def
}

func (p *Parser) parseNameOrDestructure() (*ast.NameOrDestructure, bool) {
	from := p.s.Pos()
	if t, ok := p.parseTableLit(); ok {
		return &ast.NameOrDestructure{Base: ast.NewBase(from, p.s.Pos()), Item: t}, true
	}
	if v, ok := p.parseVariable(); ok {
		return &ast.NameOrDestructure{Base: ast.NewBase(from, p.s.Pos()), Item: v}, true
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Table literals (braces, flat or block form)

func (p *Parser) parseTableLit() (ast.Expr, bool) {
	from := p.s.Pos()
	if !p.literalToken("{") {
		return nil, false
	}
	var items []ast.Node
	if !p.and(func() bool { return p.literalToken("}") }) {
		for {
			it, ok := p.parseTableItem()
			if !ok {
				break
			}
			items = append(items, it)
			if !p.literalToken(",") && !p.newline() {
				break
			}
		}
	}
	if !p.literalToken("}") {
		p.errorf("expected } to close table literal")
		return nil, false
	}
	return &ast.TableLit{Base: ast.NewBase(from, p.s.Pos()), Items: items}, true
}

func (p *Parser) parseTableItem() (ast.Node, bool) {
	from := p.s.Pos()
	if p.literalToken("...") {
		if e, ok := p.parseExp(); ok {
			return &ast.SpreadExp{Base: ast.NewBase(from, p.s.Pos()), Value: e}, true
		}
		return &ast.SpreadExp{Base: ast.NewBase(from, p.s.Pos())}, true
	}
	if p.literalToken(":") {
		name, ok := p.parseNameLike()
		if !ok {
			p.errorf("expected a name after :")
			return nil, false
		}
		pair := &ast.VariablePair{Base: ast.NewBase(from, p.s.Pos()), Name: name}
		if def, ok := p.parseDefaultValue(); ok {
			return &ast.VariablePairDef{Base: ast.NewBase(from, p.s.Pos()), Pair: pair, Default: def}, true
		}
		return pair, true
	}
	if p.and(func() bool {
		_, okName := p.parseNameLike()
		return okName && p.literalToken(":")
	}) {
		name, _ := p.parseNameLike()
		p.literalToken(":")
		v, ok := p.parseExp()
		if !ok {
			p.errorf("expected a value after :")
			return nil, false
		}
		pair := &ast.NormalPair{Base: ast.NewBase(from, p.s.Pos()), Key: name, Value: v}
		if def, ok := p.parseDefaultValue(); ok {
			return &ast.NormalPairDef{Base: ast.NewBase(from, p.s.Pos()), Pair: pair, Default: def}, true
		}
		return pair, true
	}
	if p.literalToken("[") {
		k, ok := p.parseExp()
		if !ok || !p.literalToken("]") || !p.literalToken(":") {
			p.errorf("malformed computed table key")
			return nil, false
		}
		v, ok := p.parseExp()
		if !ok {
			return nil, false
		}
		return &ast.NormalPair{Base: ast.NewBase(from, p.s.Pos()), Key: &ast.Index{Base: ast.NewBase(from, p.s.Pos()), Value: k}, Value: v}, true
	}
	e, ok := p.parseExp()
	if !ok {
		return nil, false
	}
	if def, ok := p.parseDefaultValue(); ok {
		return &ast.NormalDef{Base: ast.NewBase(from, p.s.Pos()), Target: e, Default: def}, true
	}
	return e, true
}

// parseDefaultValue recognizes a destructuring pattern item's trailing
// `= expr`, used by table-pattern targets such as `{a, b = 10} = t`.
func (p *Parser) parseDefaultValue() (*ast.DefaultValue, bool) {
	from := p.s.Pos()
	if !p.and(func() bool { return p.literalToken("=") && !p.literalToken("=") }) {
		return nil, false
	}
	p.literalToken("=")
	v, ok := p.parseExp()
	if !ok {
		p.errorf("expected a default value after =")
		return nil, false
	}
	return &ast.DefaultValue{Base: ast.NewBase(from, p.s.Pos()), Value: v}, true
}

// ---------------------------------------------------------------------------
// Class

func (p *Parser) tryParseClassExpr() (ast.Expr, bool) {
	from := p.s.Pos()
	if !p.literalToken("class") {
		return nil, false
	}
	decl := &ast.ClassDecl{Base: ast.NewBase(from, from)}
	if v, ok := p.parseVariable(); ok {
		decl.Name = &ast.Assignable{Base: ast.NewBase(v.Pos(), v.End()), Item: v}
	}
	if p.literalToken("extends") {
		e, ok := p.parseExp()
		if ok {
			decl.Extends = e
		}
	}
	if p.literalToken("using") {
		if p.literalToken("nil") {
			decl.Using = []ast.Expr{nil}
		} else {
			for {
				e, ok := p.parseExp()
				if !ok {
					break
				}
				decl.Using = append(decl.Using, e)
				if !p.literalToken(",") {
					break
				}
			}
		}
	}
	body, _ := p.parseClassBody()
	decl.Body = body
	decl.To = p.s.Pos()
	return decl, true
}

func (p *Parser) parseClassDecl() (ast.StatementContent, bool) {
	expr, ok := p.tryParseClassExpr()
	if !ok {
		return nil, false
	}
	return expr.(*ast.ClassDecl), true
}

func (p *Parser) parseClassBody() (*ast.ClassBlock, bool) {
	from := p.s.Pos()
	if !p.newline() {
		return &ast.ClassBlock{Base: ast.NewBase(from, from)}, true
	}
	width := p.peekIndentWidth()
	if p.indents.CheckIndent(width) <= 0 {
		return &ast.ClassBlock{Base: ast.NewBase(from, from)}, true
	}
	p.indents.Push(width)
	defer p.indents.Pop()
	list := &ast.ClassMemberList{Base: ast.NewBase(from, from)}
	for {
		p.skipBlankLines()
		if p.s.AtEnd() || p.indents.CheckIndent(p.peekIndentWidth()) != 0 {
			break
		}
		it, ok := p.parseTableItem()
		if !ok {
			break
		}
		list.Members = append(list.Members, it)
		if !p.newline() {
			break
		}
	}
	return &ast.ClassBlock{Base: ast.NewBase(from, p.s.Pos()), Members: list}, true
}

// parseAssignable parses the left-hand side of an assignment/class-name
// position: a plain Variable, a SelfItem, or a chain.
func (p *Parser) parseAssignable() (ast.Expr, bool) {
	from := p.s.Pos()
	e, ok := p.parseChainOrValue()
	if !ok {
		return nil, false
	}
	return &ast.Assignable{Base: ast.NewBase(from, p.s.Pos()), Item: e}, true
}
