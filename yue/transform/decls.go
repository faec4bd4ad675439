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
	"github.com/pigpigyyy/yue-go/yue/scope"
)

func (t *Transformer) transformLocal(b *strings.Builder, n *ast.Local, depth int) {
	switch item := n.Item.(type) {
	case *ast.LocalFlag:
		// `local *` switches the rest of the enclosing block's bare
		// assignments to implicit locals; it carries no runtime text.
		return
	case *ast.LocalValues:
		names := make([]string, len(item.NameList.Names))
		for i, v := range item.NameList.Names {
			names[i] = nameOf(v.Name)
		}
		for _, name := range names {
			t.scope.Declare(name, scope.Local)
		}
		if item.ValueList == nil {
			fmt.Fprintf(b, "%slocal %s\n", indent(depth), strings.Join(names, ", "))
			return
		}
		values := t.transformValueList(item.ValueList)
		fmt.Fprintf(b, "%slocal %s = %s\n", indent(depth), strings.Join(names, ", "), values)
	}
}

// transformValueList renders the right-hand side of a local/assignment:
// either a plain expression list or a table-block initializer.
func (t *Transformer) transformValueList(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.ExpListLow:
		parts := make([]string, len(v.Exprs))
		for i, ex := range v.Exprs {
			parts[i] = t.transformExpr(ex, Common)
		}
		return strings.Join(parts, ", ")
	default:
		return t.transformExpr(e, Common)
	}
}

func (t *Transformer) transformLocalAttrib(b *strings.Builder, n *ast.LocalAttrib, depth int) {
	var rhs []string
	if n.Assign != nil {
		for _, e := range n.Assign.Exprs {
			rhs = append(rhs, t.transformExpr(e, Common))
		}
	}

	var luaAttrib string
	kind := scope.Local
	switch n.Attrib.(type) {
	case *ast.ConstAttrib:
		luaAttrib = " <const>"
		kind = scope.Const
	case *ast.CloseAttrib:
		luaAttrib = " <close>"
		t.requireTarget(n.Pos(), Lua54, "<close>")
	}

	// Plain-name targets are the fast path: `local const a, b = 1, 2`.
	allPlain := true
	for _, target := range n.LeftList {
		if _, ok := target.(*ast.Variable); !ok {
			allPlain = false
			break
		}
	}
	if allPlain {
		names := make([]string, len(n.LeftList))
		for i, target := range n.LeftList {
			v := target.(*ast.Variable)
			names[i] = nameOf(v.Name)
			t.scope.Declare(names[i], kind)
		}
		decl := names[0] + luaAttrib
		if len(names) > 1 {
			rest := make([]string, len(names)-1)
			for i, name := range names[1:] {
				rest[i] = name + luaAttrib
			}
			decl = decl + ", " + strings.Join(rest, ", ")
		}
		if len(rhs) == 0 {
			fmt.Fprintf(b, "%slocal %s\n", indent(depth), decl)
			return
		}
		fmt.Fprintf(b, "%slocal %s = %s\n", indent(depth), decl, strings.Join(rhs, ", "))
		return
	}

	// Destructuring targets: bind each right-hand value to a fresh
	// temporary and pull individual names out of it field by field.
	for i, target := range n.LeftList {
		var src string
		if i < len(rhs) {
			src = rhs[i]
		} else {
			src = "nil"
		}
		t.destructureInto(b, target, src, depth)
	}
}

// destructureInto lowers one destructuring target against a source
// expression text, declaring every bound name as a fresh local.
func (t *Transformer) destructureInto(b *strings.Builder, target ast.Expr, src string, depth int) {
	t.destructureIntoKind(b, target, src, depth, true)
}

// destructureIntoKind is destructureInto, but emits a plain assignment
// (`name = ...`) instead of `local name = ...` when declare is false —
// used by a bare pattern-assignment (`{a, b = 10} = t`, no `local`
// keyword), whose bound names are hoisted as locals ahead of the
// destructuring block so they stay visible after it.
func (t *Transformer) destructureIntoKind(b *strings.Builder, target ast.Expr, src string, depth int, declare bool) {
	switch tgt := target.(type) {
	case *ast.Variable:
		name := nameOf(tgt.Name)
		t.scope.Declare(name, scope.Local)
		fmt.Fprintf(b, "%s%s%s = %s\n", indent(depth), localPrefix(declare), name, src)
	case *ast.SimpleTable:
		tmp := t.scope.GetUnusedName("obj")
		fmt.Fprintf(b, "%slocal %s = %s\n", indent(depth), tmp, src)
		pos := 0
		for _, item := range tgt.Items {
			pos++
			t.destructureTableItem(b, item, tmp, pos, depth, declare)
		}
	case *ast.TableLit:
		tmp := t.scope.GetUnusedName("obj")
		fmt.Fprintf(b, "%slocal %s = %s\n", indent(depth), tmp, src)
		pos := 0
		for _, item := range tgt.Items {
			pos++
			t.destructureTableItem(b, item, tmp, pos, depth, declare)
		}
	default:
		// Comprehension or other dynamic destructuring targets fall back
		// to a plain evaluation; nothing further is bound.
		fmt.Fprintf(b, "%s-- unsupported destructuring target\n", indent(depth))
	}
}

func localPrefix(declare bool) string {
	if declare {
		return "local "
	}
	return ""
}

// patternNames collects, in order, every name a destructuring target
// binds, so a bare pattern-assignment can hoist them as locals ahead of
// the destructuring block.
func patternNames(target ast.Expr) []string {
	var names []string
	var items []ast.Node
	switch tgt := target.(type) {
	case *ast.Variable:
		return []string{nameOf(tgt.Name)}
	case *ast.SimpleTable:
		items = tgt.Items
	case *ast.TableLit:
		items = tgt.Items
	default:
		return nil
	}
	for _, item := range items {
		switch p := item.(type) {
		case *ast.Variable:
			names = append(names, nameOf(p.Name))
		case *ast.VariablePair:
			names = append(names, nameOf(p.Name))
		case *ast.VariablePairDef:
			names = append(names, nameOf(p.Pair.Name))
		case *ast.NormalPair:
			if name, ok := assignedVariableName(p.Value); ok {
				names = append(names, name)
			} else {
				names = append(names, patternNames(p.Value)...)
			}
		case *ast.NormalPairDef:
			if name, ok := assignedVariableName(p.Pair.Value); ok {
				names = append(names, name)
			} else {
				names = append(names, patternNames(p.Pair.Value)...)
			}
		case *ast.NormalDef:
			if name, ok := assignedVariableName(p.Target); ok {
				names = append(names, name)
			} else {
				names = append(names, patternNames(p.Target)...)
			}
		}
	}
	return names
}

// patternTarget reports whether any left-hand side expression of a plain
// assignment is a table pattern, so the caller knows to route through
// transformPatternAssign instead of a flat `lhs = rhs` line.
func patternTarget(exprs []ast.Expr) bool {
	for _, e := range exprs {
		switch e.(type) {
		case *ast.TableLit, *ast.SimpleTable:
			return true
		}
	}
	return false
}

// transformPatternAssign lowers a bare (no `local`) pattern-assignment such
// as `{a, b = 10} = t`. Every name the pattern binds is hoisted as a local
// ahead of a `do ... end` block so it stays visible afterward, matching how
// a parallel-assignment target with a table pattern destructures against a
// temporary without redeclaring already-local names.
func (t *Transformer) transformPatternAssign(b *strings.Builder, lhs []ast.Expr, rhsExprs []ast.Expr, depth int) {
	var hoist []string
	for _, e := range lhs {
		switch e.(type) {
		case *ast.TableLit, *ast.SimpleTable:
			hoist = append(hoist, patternNames(e)...)
		}
	}
	for _, name := range hoist {
		t.scope.Declare(name, scope.Local)
	}
	if len(hoist) > 0 {
		fmt.Fprintf(b, "%slocal %s\n", indent(depth), strings.Join(hoist, ", "))
	}

	rhs := make([]string, len(rhsExprs))
	for i, e := range rhsExprs {
		rhs[i] = t.transformExpr(e, Common)
	}

	fmt.Fprintf(b, "%sdo\n", indent(depth))
	for i, e := range lhs {
		var src string
		if i < len(rhs) {
			src = rhs[i]
		} else {
			src = "nil"
		}
		switch e.(type) {
		case *ast.TableLit, *ast.SimpleTable:
			t.destructureIntoKind(b, e, src, depth+1, false)
		default:
			target := t.transformExpr(e, Common)
			if name, ok := assignedVariableName(e); ok {
				if kind, declared := t.scope.Lookup(name); declared && kind == scope.Const {
					t.errorf(e.Pos(), "cannot assign to const variable %q", name)
				}
			}
			fmt.Fprintf(b, "%s%s = %s\n", indent(depth+1), target, src)
		}
	}
	fmt.Fprintf(b, "%send\n", indent(depth))
}

// assignedVariableName unwraps the common single-value expression
// wrappers down to a bare *ast.Variable, for detecting a plain-name
// assignment target without having to special-case every wrapper at
// every call site.
func assignedVariableName(e ast.Expr) (string, bool) {
	for {
		switch n := e.(type) {
		case *ast.Variable:
			return nameOf(n.Name), true
		case *ast.Value:
			e = n.Item
		case *ast.SimpleValue:
			e = n.Item
		case *ast.Callable:
			e = n.Item
		default:
			return "", false
		}
	}
}

// destructureTableItem lowers one table-pattern item bound against tmp. An
// unkeyed item (a bare name, or a bare name with a default) binds by its
// 1-based position in the pattern (`tmp[pos]`), matching how a positional
// `{a, b}` pattern with no explicit `:name`/`name:` key addresses the
// source table; a keyed item binds by its own key instead. declare selects
// `local name = ...` (the default-declaration form) versus a plain
// `name = ...` for names already hoisted as locals by the caller.
func (t *Transformer) destructureTableItem(b *strings.Builder, item ast.Node, tmp string, pos, depth int, declare bool) {
	lp := localPrefix(declare)
	switch p := item.(type) {
	case *ast.Variable:
		name := nameOf(p.Name)
		t.scope.Declare(name, scope.Local)
		fmt.Fprintf(b, "%s%s%s = %s[%d]\n", indent(depth), lp, name, tmp, pos)
	case *ast.VariablePair:
		name := nameOf(p.Name)
		t.scope.Declare(name, scope.Local)
		fmt.Fprintf(b, "%s%s%s = %s.%s\n", indent(depth), lp, name, tmp, name)
	case *ast.NormalPair:
		key := t.transformExpr(p.Key, Common)
		switch val := p.Value.(type) {
		case *ast.Variable:
			name := nameOf(val.Name)
			t.scope.Declare(name, scope.Local)
			fmt.Fprintf(b, "%s%s%s = %s[%s]\n", indent(depth), lp, name, tmp, key)
		default:
			t.destructureIntoKind(b, p.Value, fmt.Sprintf("%s[%s]", tmp, key), depth, declare)
		}
	case *ast.VariablePairDef:
		name := nameOf(p.Pair.Name)
		t.scope.Declare(name, scope.Local)
		fmt.Fprintf(b, "%s%s%s = %s.%s\n", indent(depth), lp, name, tmp, name)
		t.emitDefaultCheck(b, name, p.Default, depth)
	case *ast.NormalPairDef:
		key := t.transformExpr(p.Pair.Key, Common)
		switch val := p.Pair.Value.(type) {
		case *ast.Variable:
			name := nameOf(val.Name)
			t.scope.Declare(name, scope.Local)
			fmt.Fprintf(b, "%s%s%s = %s[%s]\n", indent(depth), lp, name, tmp, key)
			t.emitDefaultCheck(b, name, p.Default, depth)
		default:
			t.destructureIntoKind(b, p.Pair.Value, fmt.Sprintf("%s[%s]", tmp, key), depth, declare)
		}
	case *ast.NormalDef:
		switch target := p.Target.(type) {
		case *ast.Variable:
			name := nameOf(target.Name)
			t.scope.Declare(name, scope.Local)
			fmt.Fprintf(b, "%s%s%s = %s[%d]\n", indent(depth), lp, name, tmp, pos)
			t.emitDefaultCheck(b, name, p.Default, depth)
		default:
			t.destructureIntoKind(b, p.Target, fmt.Sprintf("%s[%d]", tmp, pos), depth, declare)
		}
	}
}

// emitDefaultCheck renders the `if name == nil then name = default end`
// guard a destructured pattern item's default value needs.
func (t *Transformer) emitDefaultCheck(b *strings.Builder, name string, def *ast.DefaultValue, depth int) {
	if def == nil {
		return
	}
	fmt.Fprintf(b, "%sif %s == nil then %s = %s end\n", indent(depth), name, name, t.transformExpr(def.Value, Common))
}

func (t *Transformer) transformGlobal(b *strings.Builder, n *ast.Global, depth int) {
	if n.Item.Op != nil {
		switch n.Item.Op.Value {
		case "*":
			t.scope.SetGlobalMode(scope.Any)
		case "^":
			t.scope.SetGlobalMode(scope.Capital)
		}
		return
	}
	if n.Item.NameList == nil {
		return
	}
	for _, v := range n.Item.NameList.Names {
		t.scope.Declare(nameOf(v.Name), scope.Global)
	}
}

// transformExport records export bindings; the actual module return
// table is emitted once, at the end of Transform.
func (t *Transformer) transformExport(b *strings.Builder, n *ast.Export, depth int) {
	if n.Default != nil {
		if assign, ok := n.Target.(*ast.Assign); ok && len(assign.Exprs) > 0 {
			t.defaultExport = t.transformExpr(assign.Exprs[0], Common)
		}
		return
	}
	if v, ok := n.Target.(*ast.Variable); ok {
		name := nameOf(v.Name)
		t.scope.Declare(name, scope.Global)
		t.exportNames = append(t.exportNames, name)
	}
}

func (t *Transformer) transformReturn(b *strings.Builder, n *ast.Return, depth int) {
	if n.ValueList == nil {
		fmt.Fprintf(b, "%sreturn\n", indent(depth))
		return
	}
	parts := make([]string, len(n.ValueList.Exprs))
	for i, e := range n.ValueList.Exprs {
		parts[i] = t.transformExpr(e, Return)
	}
	fmt.Fprintf(b, "%sreturn %s\n", indent(depth), strings.Join(parts, ", "))
}

func (t *Transformer) transformImport(b *strings.Builder, n *ast.Import, depth int) {
	var reqExpr string
	var bindName string
	var destructItems []ast.Node

	switch {
	case n.Colon != nil:
		bindName = nameOf(n.Colon.Name.Name)
		reqExpr = fmt.Sprintf("require(%q)", bindName)
	case n.Target != nil:
		switch target := n.Target.(type) {
		case *ast.ImportLiteral:
			path := strings.Join(target.Inners, ".")
			if len(target.Inners) > 0 {
				bindName = target.Inners[len(target.Inners)-1]
			}
			reqExpr = fmt.Sprintf("require(%q)", path)
		case *ast.ImportTabLit:
			destructItems = target.Items
		}
	}

	if n.From != nil {
		reqExpr = t.transformExpr(n.From.Value, Common)
	}

	if n.As != nil {
		switch asTarget := n.As.Target.(type) {
		case *ast.Variable:
			bindName = nameOf(asTarget.Name)
		case *ast.ImportTabLit:
			destructItems = asTarget.Items
		}
	}

	if len(destructItems) > 0 {
		tmp := t.scope.GetUnusedName("import")
		fmt.Fprintf(b, "%slocal %s = %s\n", indent(depth), tmp, reqExpr)
		for _, item := range destructItems {
			switch p := item.(type) {
			case *ast.VariablePair:
				name := nameOf(p.Name)
				t.scope.Declare(name, scope.Local)
				fmt.Fprintf(b, "%slocal %s = %s.%s\n", indent(depth), name, tmp, name)
			case *ast.NormalPair:
				key := nameOf(p.Key)
				var alias string
				if v, ok := p.Value.(*ast.Variable); ok {
					alias = nameOf(v.Name)
				} else {
					alias = key
				}
				t.scope.Declare(alias, scope.Local)
				fmt.Fprintf(b, "%slocal %s = %s.%s\n", indent(depth), alias, tmp, key)
			case *ast.MacroNamePair, *ast.ImportAllMacro:
				// Macro imports are resolved at invocation time through
				// the macro host rather than bound as a Lua local.
			}
		}
		return
	}

	if bindName == "" {
		fmt.Fprintf(b, "%s%s\n", indent(depth), reqExpr)
		return
	}
	t.scope.Declare(bindName, scope.Local)
	fmt.Fprintf(b, "%slocal %s = %s\n", indent(depth), bindName, reqExpr)
}

func (t *Transformer) transformMacroDef(b *strings.Builder, n *ast.Macro, depth int) {
	name := nameOf(n.Name.Name.Name)
	var body strings.Builder
	t.transformBody(&body, n.Lit.Body, 0)
	if err := t.cfg.MacroHost.LoadChunk(context.Background(), t.session, name, body.String()); err != nil {
		t.errorf(n.Pos(), "macro %q: %v", name, err)
	}
}

// transformExpListAssign lowers a bare expression-statement, a plain
// assignment, or a compound-update statement: the three forms
// ExpListAssign's Action slot distinguishes.
func (t *Transformer) transformExpListAssign(b *strings.Builder, n *ast.ExpListAssign, depth int) {
	if assign, ok := n.Action.(*ast.Assign); ok {
		if patternTarget(n.ExpList.Exprs) {
			t.transformPatternAssign(b, n.ExpList.Exprs, assign.Exprs, depth)
			return
		}
	}

	lhsParts := make([]string, len(n.ExpList.Exprs))
	for i, e := range n.ExpList.Exprs {
		lhsParts[i] = t.transformExpr(e, Common)
	}

	switch action := n.Action.(type) {
	case nil:
		fmt.Fprintf(b, "%s%s\n", indent(depth), strings.Join(lhsParts, ", "))
	case *ast.Assign:
		for _, e := range n.ExpList.Exprs {
			if name, ok := assignedVariableName(e); ok {
				if kind, declared := t.scope.Lookup(name); declared && kind == scope.Const {
					t.errorf(e.Pos(), "cannot assign to const variable %q", name)
				}
			}
		}
		rhs := make([]string, len(action.Exprs))
		for i, e := range action.Exprs {
			rhs[i] = t.transformExpr(e, Common)
		}
		fmt.Fprintf(b, "%s%s = %s\n", indent(depth), strings.Join(lhsParts, ", "), strings.Join(rhs, ", "))
	case *ast.Update:
		if len(lhsParts) == 0 {
			return
		}
		if name, ok := assignedVariableName(n.ExpList.Exprs[0]); ok {
			if kind, declared := t.scope.Lookup(name); declared && kind == scope.Const {
				t.errorf(n.ExpList.Exprs[0].Pos(), "cannot assign to const variable %q", name)
			}
		}
		lhs := lhsParts[0]
		val := t.transformExpr(action.Value, Common)
		op := action.Op.Value
		if op == "??=" {
			fmt.Fprintf(b, "%sif %s == nil then %s = %s end\n", indent(depth), lhs, lhs, val)
			return
		}
		luaOp := strings.TrimSuffix(op, "=")
		t.checkOperatorTarget(action.Op.Pos(), luaOp)
		fmt.Fprintf(b, "%s%s = %s %s %s\n", indent(depth), lhs, lhs, luaOp, val)
	}
}
