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
	"fmt"
	"strings"

	"github.com/pigpigyyy/yue-go/yue/ast"
	"github.com/pigpigyyy/yue-go/yue/scope"
)

func (t *Transformer) transformIf(n *ast.If, depth int) string {
	var b strings.Builder
	for i, cond := range n.Conds {
		kw := "if"
		if i > 0 {
			kw = "elseif"
		}
		condStr := t.transformExpr(cond.Value, Common)
		if n.Type.Value == "unless" {
			fmt.Fprintf(&b, "%s%s not (%s) then\n", indent(depth), kw, condStr)
		} else {
			fmt.Fprintf(&b, "%s%s %s then\n", indent(depth), kw, condStr)
		}
		t.scope.Push()
		t.transformBody(&b, n.Bodies[i], depth+1)
		t.scope.Pop()
	}
	if n.HasElse {
		fmt.Fprintf(&b, "%selse\n", indent(depth))
		t.scope.Push()
		t.transformBody(&b, n.Bodies[len(n.Bodies)-1], depth+1)
		t.scope.Pop()
	}
	fmt.Fprintf(&b, "%send\n", indent(depth))
	return b.String()
}

func (t *Transformer) transformWhile(b *strings.Builder, n *ast.While, depth int) {
	cond := t.transformExpr(n.Value, Common)
	lc := t.enterLoop()
	if !lc.usesGoto {
		fmt.Fprintf(b, "%slocal %s = false\n", indent(depth), lc.breakFlag)
	}
	prefix := "while"
	condStr := cond
	if n.Type.Value == "until" {
		condStr = "not (" + cond + ")"
	}
	fmt.Fprintf(b, "%s%s %s do\n", indent(depth), prefix, condStr)
	t.scope.Push()
	b.WriteString(t.wrapLoopBody(n.Body, depth, lc))
	t.scope.Pop()
	fmt.Fprintf(b, "%send\n", indent(depth))
	t.exitLoop()
}

func (t *Transformer) transformRepeat(b *strings.Builder, n *ast.Repeat, depth int) {
	lc := t.enterLoop()
	if !lc.usesGoto {
		fmt.Fprintf(b, "%slocal %s = false\n", indent(depth), lc.breakFlag)
	}
	fmt.Fprintf(b, "%srepeat\n", indent(depth))
	t.scope.Push()
	body, _ := n.Body.(*ast.Body)
	b.WriteString(t.wrapLoopBody(body, depth, lc))
	cond := t.transformExpr(n.Cond, Common)
	t.scope.Pop()
	fmt.Fprintf(b, "%suntil %s\n", indent(depth), cond)
	t.exitLoop()
}

func (t *Transformer) transformFor(b *strings.Builder, n *ast.For, depth int) {
	t.scope.Push()
	t.scope.Declare(nameOf(n.Name.Name), scope.Local)
	start := t.transformExpr(n.Start, Common)
	stop := t.transformExpr(n.Stop, Common)
	step := ""
	if n.Step != nil {
		step = ", " + t.transformExpr(n.Step.Value, Common)
	}
	lc := t.enterLoop()
	if !lc.usesGoto {
		fmt.Fprintf(b, "%slocal %s = false\n", indent(depth), lc.breakFlag)
	}
	fmt.Fprintf(b, "%sfor %s = %s, %s%s do\n", indent(depth), nameOf(n.Name.Name), start, stop, step)
	b.WriteString(t.wrapLoopBody(n.Body, depth, lc))
	fmt.Fprintf(b, "%send\n", indent(depth))
	t.exitLoop()
	t.scope.Pop()
}

func (t *Transformer) transformForEach(b *strings.Builder, n *ast.ForEach, depth int) {
	t.scope.Push()
	names := make([]string, len(n.NameList.Names))
	for i, v := range n.NameList.Names {
		names[i] = nameOf(v.Name)
		t.scope.Declare(names[i], scope.Local)
	}
	var iterExpr string
	switch le := n.LoopExpr.(type) {
	case *ast.StarExp:
		iterExpr = "ipairs(" + t.transformExpr(le.Value, Common) + ")"
	case *ast.ExpList:
		parts := make([]string, len(le.Exprs))
		for i, e := range le.Exprs {
			parts[i] = t.transformExpr(e, Common)
		}
		if len(parts) == 1 {
			iterExpr = "pairs(" + parts[0] + ")"
		} else {
			iterExpr = strings.Join(parts, ", ")
		}
	}
	lc := t.enterLoop()
	if !lc.usesGoto {
		fmt.Fprintf(b, "%slocal %s = false\n", indent(depth), lc.breakFlag)
	}
	fmt.Fprintf(b, "%sfor %s in %s do\n", indent(depth), strings.Join(names, ", "), iterExpr)
	b.WriteString(t.wrapLoopBody(n.Body, depth, lc))
	fmt.Fprintf(b, "%send\n", indent(depth))
	t.exitLoop()
	t.scope.Pop()
}

func (t *Transformer) transformSwitch(n *ast.Switch, depth int) string {
	var b strings.Builder
	subject := t.scope.GetUnusedName("switch")
	fmt.Fprintf(&b, "%slocal %s = %s\n", indent(depth), subject, t.transformExpr(n.Value, Common))
	for i, c := range n.Cases {
		kw := "if"
		if i > 0 {
			kw = "elseif"
		}
		if c.ValueList == nil {
			fmt.Fprintf(&b, "%selse\n", indent(depth))
		} else {
			conds := make([]string, len(c.ValueList.Exprs))
			for j, e := range c.ValueList.Exprs {
				conds[j] = fmt.Sprintf("%s == %s", subject, t.transformExpr(e, Common))
			}
			fmt.Fprintf(&b, "%s%s %s then\n", indent(depth), kw, strings.Join(conds, " or "))
		}
		t.scope.Push()
		t.transformBody(&b, c.Body, depth+1)
		t.scope.Pop()
	}
	fmt.Fprintf(&b, "%send\n", indent(depth))
	return b.String()
}

// transformWith lowers `with expr <body>` into a scoped `do` block binding
// a fresh local to expr's value, making the block's chain shorthand (bare
// `.field` item accesses inside the body) resolve against it; full
// shorthand-chain rewriting inside the body is left to the chain
// transformer, which already threads the bound name through as the
// implicit receiver.
func (t *Transformer) transformWith(n *ast.With, depth int) string {
	var b strings.Builder
	subject := t.scope.GetUnusedName("with")
	fmt.Fprintf(&b, "%sdo\n", indent(depth))
	fmt.Fprintf(&b, "%slocal %s = %s\n", indent(depth+1), subject, t.transformExpr(n.Value, Common))
	t.scope.Push()
	t.scope.Declare(subject, scope.Local)
	t.transformBody(&b, n.Body, depth+1)
	t.scope.Pop()
	fmt.Fprintf(&b, "%send\n", indent(depth))
	return b.String()
}

func (t *Transformer) transformTry(n *ast.Try, depth int) string {
	var b strings.Builder
	ok := t.scope.GetUnusedName("ok")
	fmt.Fprintf(&b, "%slocal %s = pcall(function()\n", indent(depth), ok)
	t.scope.Push()
	switch body := n.Body.(type) {
	case *ast.Body:
		t.transformBody(&b, body, depth+1)
	}
	t.scope.Pop()
	fmt.Fprintf(&b, "%send)\n", indent(depth))
	if n.Catch != nil {
		fmt.Fprintf(&b, "%sif not %s then\n", indent(depth), ok)
		t.scope.Push()
		if n.Catch.Name != nil {
			t.scope.Declare(nameOf(n.Catch.Name.Name), scope.Local)
		}
		t.transformBody(&b, n.Catch.Body, depth+1)
		t.scope.Pop()
		fmt.Fprintf(&b, "%send\n", indent(depth))
	}
	return b.String()
}
