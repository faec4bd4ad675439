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

package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/pigpigyyy/yue-go/yue/ast"
	"github.com/pigpigyyy/yue-go/yue/literal"
	"github.com/pigpigyyy/yue-go/yue/scope"
	"github.com/pigpigyyy/yue-go/yue/token"
)

// binOpText maps a yue binary operator spelling to its Lua rendering;
// operators absent from this table pass through unchanged (most
// arithmetic/comparison spellings are already shared with Lua).
var binOpText = map[string]string{
	"!=": "~=",
	"==": "==",
	"and": "and",
	"or":  "or",
}

func renderBinOp(op string) string {
	if lua, ok := binOpText[op]; ok {
		return lua
	}
	return op
}

// checkOperatorTarget raises a compile error when op needs a newer Lua
// target than the active Config.Target provides.
func (t *Transformer) checkOperatorTarget(pos token.Pos, op string) {
	if bitwiseOps[op] {
		t.requireTarget(pos, Lua53, fmt.Sprintf("bitwise operator %q", op))
	} else if op == "//" {
		t.requireTarget(pos, Lua53, "floor division //")
	}
}

func (t *Transformer) transformExpr(e ast.Expr, mode Mode) string {
	switch n := e.(type) {
	case nil:
		return "nil"
	case *ast.Value:
		return t.transformExpr(n.Item, mode)
	case *ast.SimpleValue:
		return t.transformExpr(n.Item, mode)
	case *ast.ConstValue:
		return n.Value
	case *ast.Num:
		return n.Value
	case *ast.Name:
		return n.Value
	case *ast.UnicodeName:
		return n.Value
	case *ast.Variable:
		return nameOf(n.Name)
	case *ast.Self:
		return "self"
	case *ast.SelfClass:
		return "self.__class"
	case *ast.SelfName:
		return "self." + nameOf(n.Name)
	case *ast.SelfClassName:
		return "self.__class." + nameOf(n.Name)
	case *ast.SelfItem:
		return t.transformExpr(n.Item, mode)
	case *ast.VarArg:
		return "..."
	case *ast.Parens:
		return "(" + t.transformExpr(n.Value, Common) + ")"
	case *ast.String:
		return t.transformStringItem(n.Item)
	case *ast.SingleString:
		return t.quoteSingle(n.Value)
	case *ast.DoubleString:
		return t.transformDoubleString(n.Inner)
	case *ast.LuaString:
		return t.transformLuaString(n)
	case *ast.TableLit:
		return t.transformTableItems(n.Items)
	case *ast.SimpleTable:
		return t.transformTableItems(n.Items)
	case *ast.TableBlock:
		return t.transformTableItems(n.Items)
	case *ast.TableBlockIndent:
		return t.transformTableItems(n.Items)
	case *ast.FunLit:
		return t.transformFunLit(n)
	case *ast.ChainValue:
		return t.transformChain(n)
	case *ast.Callable:
		return t.transformExpr(n.Item, mode)
	case *ast.BinaryExpr:
		if n.Op == "|>" {
			if body, ok := n.Right.(*ast.PipeBody); ok {
				return t.transformPipeStep(t.transformExpr(n.Left, Common), body)
			}
		}
		t.checkOperatorTarget(n.Pos(), n.Op)
		return fmt.Sprintf("(%s %s %s)", t.transformExpr(n.Left, Common), renderBinOp(n.Op), t.transformExpr(n.Right, Common))
	case *ast.UnaryExp:
		return t.transformUnary(n)
	case *ast.UnaryValue:
		return t.transformExpr(n.Value, mode)
	case *ast.Exp:
		return t.transformExpNode(n)
	case *ast.Backcall:
		// Reachable only if a backcall ends up outside statement position
		// (the grammar only ever produces one at statement start); the
		// normal lowering lives in transformBackcall.
		t.errorf(n.Pos(), "backcall must be a standalone statement")
		return t.transformExpr(n.Value, mode)
	case *ast.ClassDecl:
		return t.wrapStatementExpr(func(b *strings.Builder, depth int) {
			t.transformClassDecl(b, n, depth)
		}, t.classDeclName(n))
	case *ast.If:
		return t.wrapStatementExpr(func(b *strings.Builder, depth int) {
			b.WriteString(t.transformIf(n, depth))
		}, "")
	case *ast.Do:
		return t.wrapStatementExpr(func(b *strings.Builder, depth int) {
			fmt.Fprintf(b, "%sdo\n", indent(depth))
			t.transformBody(b, n.Body, depth+1)
			fmt.Fprintf(b, "%send\n", indent(depth))
		}, "")
	case *ast.Try:
		return t.wrapStatementExpr(func(b *strings.Builder, depth int) {
			b.WriteString(t.transformTry(n, depth))
		}, "")
	case *ast.Switch:
		return t.wrapStatementExpr(func(b *strings.Builder, depth int) {
			b.WriteString(t.transformSwitch(n, depth))
		}, "")
	case *ast.With:
		return t.wrapStatementExpr(func(b *strings.Builder, depth int) {
			b.WriteString(t.transformWith(n, depth))
		}, "")
	case *ast.MacroInPlace:
		return t.transformMacroInPlace(n)
	case *ast.Comprehension:
		return t.transformComprehension(n)
	case *ast.TblComprehension:
		return t.transformTblComprehension(n)
	case *ast.KeyName:
		return t.transformExpr(n.Item, mode)
	default:
		return "nil"
	}
}

// transformPipeStep lowers one `|>` step: leftText pipes into body's call,
// substituting for a bare `_` placeholder argument when present, or
// otherwise becoming the call's leading argument.
func (t *Transformer) transformPipeStep(leftText string, body *ast.PipeBody) string {
	chain, ok := body.Value.(*ast.ChainValue)
	if !ok || len(chain.Items) == 0 {
		return t.transformExpr(body.Value, Common) + "(" + leftText + ")"
	}
	inv, ok := chain.Items[len(chain.Items)-1].(*ast.Invoke)
	if !ok {
		return t.transformExpr(body.Value, Common) + "(" + leftText + ")"
	}
	base := t.transformExpr(chain.Caller, Common)
	callee := t.renderChainItems(base, chain.Items[:len(chain.Items)-1])
	argsText, hasPlaceholder := t.renderPipeArgs(inv.Args, leftText)
	switch {
	case hasPlaceholder:
		return callee + "(" + argsText + ")"
	case argsText == "":
		return callee + "(" + leftText + ")"
	default:
		return callee + "(" + leftText + ", " + argsText + ")"
	}
}

// renderPipeArgs renders a piped call's argument list, substituting
// leftText for a bare `_` placeholder argument wherever one appears.
func (t *Transformer) renderPipeArgs(args *ast.InvokeArgs, leftText string) (string, bool) {
	if args == nil || len(args.Args) == 0 {
		return "", false
	}
	parts := make([]string, len(args.Args))
	found := false
	for i, a := range args.Args {
		if name, ok := assignedVariableName(a); ok && name == "_" {
			parts[i] = leftText
			found = true
		} else {
			parts[i] = t.transformExpr(a, Common)
		}
	}
	return strings.Join(parts, ", "), found
}

func (t *Transformer) transformUnary(n *ast.UnaryExp) string {
	val := t.transformExpr(n.Value, Common)
	for i := len(n.Ops) - 1; i >= 0; i-- {
		op := n.Ops[i].Value
		switch op {
		case "not":
			val = "not " + val
		case "-":
			val = "-" + val
		case "#":
			val = "#" + val
		case "~":
			t.requireTarget(n.Pos(), Lua53, "bitwise operator \"~\"")
			val = "~" + val
		default:
			val = op + val
		}
	}
	return val
}

// transformExpNode folds an Exp node (First + OpValues chain, with an
// optional `??` tail) left to right. A parsed Exp reaches it only when it
// carries a `??` tail: the parser has already folded its operators into a
// BinaryExpr held in First, so OpValues is empty.
func (t *Transformer) transformExpNode(n *ast.Exp) string {
	val := t.transformExpr(n.First, Common)
	for _, ov := range n.OpValues {
		if ov.Op.Value == "|>" {
			if body, ok := ov.Value.(*ast.PipeBody); ok {
				val = t.transformPipeStep(val, body)
				continue
			}
		}
		t.checkOperatorTarget(ov.Op.Pos(), ov.Op.Value)
		val = fmt.Sprintf("(%s %s %s)", val, renderBinOp(ov.Op.Value), t.transformExpr(ov.Value, Common))
	}
	if n.NilCoalesed != nil {
		tmp := t.scope.GetUnusedName("nilco")
		return fmt.Sprintf("(function() local %s = %s if %s ~= nil then return %s end return %s end)()",
			tmp, val, tmp, tmp, t.transformExpr(n.NilCoalesed, Common))
	}
	return val
}

func (t *Transformer) quoteSingle(raw string) string {
	unquoted := literal.UnquoteSingle(raw)
	return fmt.Sprintf("%q", unquoted)
}

func (t *Transformer) transformStringItem(item ast.Node) string {
	switch s := item.(type) {
	case *ast.SingleString:
		return t.quoteSingle(s.Value)
	case *ast.DoubleString:
		return t.transformDoubleString(s.Inner)
	case *ast.LuaString:
		return t.transformLuaString(s)
	default:
		return `""`
	}
}

func (t *Transformer) transformDoubleString(inner *ast.DoubleStringInner) string {
	if inner == nil {
		return `""`
	}
	var parts []string
	for _, seg := range inner.Segments {
		switch s := seg.(type) {
		case *ast.DoubleStringContent:
			parts = append(parts, fmt.Sprintf("%q", s.Value))
		case ast.Expr:
			parts = append(parts, "tostring("+t.transformExpr(s, Common)+")")
		}
	}
	if len(parts) == 0 {
		return `""`
	}
	return strings.Join(parts, " .. ")
}

func (t *Transformer) transformLuaString(s *ast.LuaString) string {
	level := 0
	if s.Open != nil {
		level = s.Open.Level
	}
	eq := strings.Repeat("=", level)
	content := ""
	if s.Content != nil {
		content = s.Content.Value
	}
	return "[" + eq + "[" + content + "]" + eq + "]"
}

func (t *Transformer) transformTableItems(items []ast.Node) string {
	if len(items) == 0 {
		return "{}"
	}
	var parts []string
	for _, item := range items {
		switch p := item.(type) {
		case *ast.NormalPair:
			val := t.transformExpr(p.Value, Common)
			if name, ok := classMemberKeyName(p.Key); ok {
				parts = append(parts, fmt.Sprintf("%s = %s", name, val))
			} else {
				parts = append(parts, fmt.Sprintf("[%s] = %s", t.transformExpr(p.Key, Common), val))
			}
		case *ast.VariablePair:
			name := nameOf(p.Name)
			parts = append(parts, fmt.Sprintf("%s = %s", name, name))
		case *ast.MetaNormalPair:
			val := t.transformExpr(p.Value, Common)
			if name, ok := classMemberKeyName(p.Key); ok {
				parts = append(parts, fmt.Sprintf("__%s = %s", name, val))
			} else {
				parts = append(parts, fmt.Sprintf("[%s] = %s", t.transformExpr(p.Key, Common), val))
			}
		case *ast.MetaVariablePair:
			name := nameOf(p.Name)
			parts = append(parts, fmt.Sprintf("%s = %s", name, name))
		case *ast.NormalDef:
			parts = append(parts, t.transformExpr(p.Target, Common))
		case *ast.VariablePairDef:
			name := nameOf(p.Pair.Name)
			parts = append(parts, fmt.Sprintf("%s = %s", name, name))
		case *ast.NormalPairDef:
			val := t.transformExpr(p.Pair.Value, Common)
			if name, ok := classMemberKeyName(p.Pair.Key); ok {
				parts = append(parts, fmt.Sprintf("%s = %s", name, val))
			} else {
				parts = append(parts, fmt.Sprintf("[%s] = %s", t.transformExpr(p.Pair.Key, Common), val))
			}
		case *ast.SpreadExp:
			if p.Value == nil {
				parts = append(parts, "...")
			} else {
				parts = append(parts, "table.unpack("+t.transformExpr(p.Value, Common)+")")
			}
		case ast.Expr:
			parts = append(parts, t.transformExpr(p, Common))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (t *Transformer) transformFunLit(n *ast.FunLit) string {
	var params []string
	isFatArrow := n.Arrow != nil && n.Arrow.Value == "=>"
	if isFatArrow {
		params = append(params, "self")
	}

	if n.Args != nil && n.Args.Shadow != nil {
		names := n.Args.Shadow.Names
		allowed := make([]string, len(names))
		for i, v := range names {
			allowed[i] = nameOf(v.Name)
		}
		t.scope.PushShadowed(allowed, len(allowed) == 0)
	} else {
		t.scope.Push()
	}
	var prelude []string
	if isFatArrow {
		t.scope.Declare("self", scope.Local)
	}
	if n.Args != nil && n.Args.Args != nil {
		for _, arg := range n.Args.Args.Args {
			name, pre := t.transformFnArgDef(arg)
			params = append(params, name)
			prelude = append(prelude, pre...)
		}
	}
	if n.Args != nil && n.Args.VarArg != nil {
		params = append(params, "...")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "function(%s)\n", strings.Join(params, ", "))
	for _, line := range prelude {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	t.transformBody(&b, n.Body, 1)
	t.scope.Pop()
	b.WriteString("end")
	return b.String()
}

// transformFnArgDef lowers one function parameter: a plain name
// (optionally with a `= default` value), or a destructuring pattern,
// which binds a synthetic parameter name and emits prelude statements
// unpacking its fields into locals.
func (t *Transformer) transformFnArgDef(arg *ast.FnArgDef) (param string, prelude []string) {
	switch item := arg.Name.Item.(type) {
	case *ast.Variable:
		name := nameOf(item.Name)
		t.scope.Declare(name, scope.Local)
		if arg.Default != nil {
			prelude = append(prelude, fmt.Sprintf("if %s == nil then %s = %s end", name, name, t.transformExpr(arg.Default.Value, Common)))
		}
		return name, prelude
	case *ast.SimpleTable, *ast.TableLit:
		tmp := t.scope.GetUnusedName("arg")
		var items []ast.Node
		if st, ok := item.(*ast.SimpleTable); ok {
			items = st.Items
		} else {
			items = item.(*ast.TableLit).Items
		}
		var b strings.Builder
		pos := 0
		for _, it := range items {
			pos++
			t.destructureTableItem(&b, it, tmp, pos, 0, true)
		}
		for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
			if line != "" {
				prelude = append(prelude, strings.TrimSpace(line))
			}
		}
		return tmp, prelude
	default:
		return t.scope.GetUnusedName("arg"), nil
	}
}

// wrapStatementExpr renders a multi-statement construct as an
// immediately invoked function literal so it can appear in expression
// position. If resultName is non-empty, that name (bound inside the
// IIFE) is returned; otherwise the rendered block is expected to contain
// its own `return`.
func (t *Transformer) wrapStatementExpr(render func(b *strings.Builder, depth int), resultName string) string {
	var inner strings.Builder
	render(&inner, 1)
	var b strings.Builder
	b.WriteString("(function()\n")
	b.WriteString(inner.String())
	if resultName != "" {
		fmt.Fprintf(&b, "  return %s\n", resultName)
	}
	b.WriteString("end)()")
	return b.String()
}

func (t *Transformer) classDeclName(n *ast.ClassDecl) string {
	if assignable, ok := n.Name.(*ast.Assignable); ok {
		if v, ok := assignable.Item.(*ast.Variable); ok {
			return nameOf(v.Name)
		}
	}
	return ""
}

func (t *Transformer) transformMacroInPlace(n *ast.MacroInPlace) string {
	name := nameOf(n.Name.Name)
	expanded, err := t.cfg.MacroHost.Invoke(context.Background(), t.session, name, n.RawArgs)
	if err != nil {
		t.errorf(n.Pos(), "macro %q: %v", name, err)
		return "nil"
	}
	return expanded
}

func (t *Transformer) transformComprehension(n *ast.Comprehension) string {
	results := t.scope.GetUnusedName("comp")
	var b strings.Builder
	fmt.Fprintf(&b, "(function()\n  local %s = {}\n", results)
	t.scope.Push()
	closeCount := t.emitCompInner(&b, n.Inner, 1, func(depth int) {
		fmt.Fprintf(&b, "%stable.insert(%s, %s)\n", indent(depth), results, t.transformExpr(n.Value.Value, Common))
	})
	_ = closeCount
	t.scope.Pop()
	fmt.Fprintf(&b, "  return %s\nend)()", results)
	return b.String()
}

func (t *Transformer) transformTblComprehension(n *ast.TblComprehension) string {
	results := t.scope.GetUnusedName("comp")
	var b strings.Builder
	fmt.Fprintf(&b, "(function()\n  local %s = {}\n", results)
	t.scope.Push()
	t.emitCompInner(&b, n.Inner, 1, func(depth int) {
		if n.Value != nil {
			fmt.Fprintf(&b, "%s%s[%s] = %s\n", indent(depth), results, t.transformExpr(n.Key, Common), t.transformExpr(n.Value, Common))
		} else {
			fmt.Fprintf(&b, "%stable.insert(%s, %s)\n", indent(depth), results, t.transformExpr(n.Key, Common))
		}
	})
	t.scope.Pop()
	fmt.Fprintf(&b, "  return %s\nend)()", results)
	return b.String()
}

// emitCompInner renders one comprehension's for/each/when clauses as
// nested Lua loops, invoking body at the innermost level. It returns the
// number of closing `end`s the caller owes (already emitted here).
func (t *Transformer) emitCompInner(b *strings.Builder, inner *ast.CompInner, depth int, body func(depth int)) int {
	if inner == nil {
		body(depth)
		return 0
	}
	opened := 0
	cur := depth
	for _, clause := range inner.Clauses {
		switch c := clause.(type) {
		case *ast.CompForEach:
			names := make([]string, len(c.NameList.Names))
			for i, v := range c.NameList.Names {
				names[i] = nameOf(v.Name)
				t.scope.Declare(names[i], scope.Local)
			}
			var iterExpr string
			switch le := c.LoopExpr.(type) {
			case *ast.StarExp:
				iterExpr = "ipairs(" + t.transformExpr(le.Value, Common) + ")"
			case *ast.ExpList:
				parts := make([]string, len(le.Exprs))
				for i, e := range le.Exprs {
					parts[i] = t.transformExpr(e, Common)
				}
				iterExpr = "pairs(" + strings.Join(parts, ", ") + ")"
			}
			fmt.Fprintf(b, "%sfor %s in %s do\n", indent(cur), strings.Join(names, ", "), iterExpr)
			cur++
			opened++
		case *ast.CompFor:
			name := nameOf(c.Name.Name)
			t.scope.Declare(name, scope.Local)
			step := ""
			if c.Step != nil {
				step = ", " + t.transformExpr(c.Step.Value, Common)
			}
			fmt.Fprintf(b, "%sfor %s = %s, %s%s do\n", indent(cur), name, t.transformExpr(c.Start, Common), t.transformExpr(c.Stop, Common), step)
			cur++
			opened++
		case ast.Expr:
			fmt.Fprintf(b, "%sif %s then\n", indent(cur), t.transformExpr(c, Common))
			cur++
			opened++
		}
	}
	body(cur)
	for i := 0; i < opened; i++ {
		cur--
		fmt.Fprintf(b, "%send\n", indent(cur))
	}
	return opened
}
