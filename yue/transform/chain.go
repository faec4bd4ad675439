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
)

// transformChain renders a full chain: a base value followed by dot/colon
// items, invocations, indexes, slices, and the trailing `?`/`[]`
// modifiers. A bare `?` anywhere along the chain short-circuits the
// remainder to nil when the value so far is nil, lowered as a guarded
// IIFE rather than a long repeated `and` expression.
func (t *Transformer) transformChain(n *ast.ChainValue) string {
	base := t.transformExpr(n.Caller, Common)
	hasExistential := false
	for _, item := range n.Items {
		if _, ok := item.(*ast.ExistentialOp); ok {
			hasExistential = true
			break
		}
	}
	if !hasExistential {
		return t.renderChainItems(base, n.Items)
	}
	return t.renderGuardedChain(base, n.Items)
}

func (t *Transformer) renderChainItems(base string, items []ast.Node) string {
	cur := base
	for i := 0; i < len(items); i++ {
		switch item := items[i].(type) {
		case *ast.DotChainItem:
			cur = cur + "." + nameOf(item.Name)
		case *ast.ColonChainItem:
			// A colon item immediately followed by an Invoke is a native
			// Lua method call; otherwise it is a bound-method reference,
			// emulated by indexing then binding via a closure.
			if i+1 < len(items) {
				if inv, ok := items[i+1].(*ast.Invoke); ok {
					cur = cur + ":" + nameOf(item.Name) + "(" + t.renderInvokeArgs(inv.Args) + ")"
					i++
					continue
				}
			}
			name := nameOf(item.Name)
			cur = fmt.Sprintf("(function(...) return %s:%s(...) end)", cur, name)
		case *ast.Invoke:
			cur = cur + "(" + t.renderInvokeArgs(item.Args) + ")"
		case *ast.Index:
			cur = cur + "[" + t.transformExpr(item.Value, Common) + "]"
		case *ast.Slice:
			cur = t.renderSlice(cur, item)
		case *ast.Metatable:
			cur = "getmetatable(" + cur + ")"
		case *ast.Metamethod:
			cur = "getmetatable(" + cur + ")." + nameOf(item.Name)
		case *ast.TableAppendingOp:
			cur = cur + "[#" + cur + " + 1]"
		case *ast.ExistentialOp:
			// handled by the guarded-chain path; reachable here only when
			// a stray `?` survives with no guard needed (e.g. trailing).
		}
	}
	return cur
}

// renderGuardedChain rewrites a chain containing one or more `?`
// existential checks into an IIFE: each segment up to a `?` is bound to a
// temporary, tested for nil, and only continued past if non-nil.
func (t *Transformer) renderGuardedChain(base string, items []ast.Node) string {
	var b strings.Builder
	b.WriteString("(function()\n")
	tmp := t.scope.GetUnusedName("chain")
	fmt.Fprintf(&b, "  local %s = %s\n", tmp, base)
	cur := tmp
	depth := 1
	for i := 0; i < len(items); i++ {
		switch item := items[i].(type) {
		case *ast.ExistentialOp:
			fmt.Fprintf(&b, "%sif %s == nil then return nil end\n", strings.Repeat("  ", depth), cur)
		case *ast.DotChainItem:
			next := t.scope.GetUnusedName("chain")
			fmt.Fprintf(&b, "%slocal %s = %s.%s\n", strings.Repeat("  ", depth), next, cur, nameOf(item.Name))
			cur = next
		case *ast.ColonChainItem:
			if i+1 < len(items) {
				if inv, ok := items[i+1].(*ast.Invoke); ok {
					next := t.scope.GetUnusedName("chain")
					fmt.Fprintf(&b, "%slocal %s = %s:%s(%s)\n", strings.Repeat("  ", depth), next, cur, nameOf(item.Name), t.renderInvokeArgs(inv.Args))
					cur = next
					i++
					continue
				}
			}
			next := t.scope.GetUnusedName("chain")
			fmt.Fprintf(&b, "%slocal %s = %s.%s\n", strings.Repeat("  ", depth), next, cur, nameOf(item.Name))
			cur = next
		case *ast.Invoke:
			next := t.scope.GetUnusedName("chain")
			fmt.Fprintf(&b, "%slocal %s = %s(%s)\n", strings.Repeat("  ", depth), next, cur, t.renderInvokeArgs(item.Args))
			cur = next
		case *ast.Index:
			next := t.scope.GetUnusedName("chain")
			fmt.Fprintf(&b, "%slocal %s = %s[%s]\n", strings.Repeat("  ", depth), next, cur, t.transformExpr(item.Value, Common))
			cur = next
		}
	}
	fmt.Fprintf(&b, "  return %s\n", cur)
	b.WriteString("end)()")
	return b.String()
}

func (t *Transformer) renderInvokeArgs(args *ast.InvokeArgs) string {
	if args == nil || len(args.Args) == 0 {
		return ""
	}
	parts := make([]string, len(args.Args))
	for i, a := range args.Args {
		parts[i] = t.transformExpr(a, Common)
	}
	return strings.Join(parts, ", ")
}

// renderSlice lowers `x[from:to:step]` to a helper call building a new
// array table, since Lua has no native slice syntax.
func (t *Transformer) renderSlice(base string, s *ast.Slice) string {
	from, to, step := "nil", "nil", "nil"
	if s.From != nil {
		from = t.transformExpr(s.From, Common)
	}
	if s.To != nil {
		to = t.transformExpr(s.To, Common)
	}
	if s.Step != nil {
		step = t.transformExpr(s.Step, Common)
	}
	return fmt.Sprintf("__yue_slice(%s, %s, %s, %s)", base, from, to, step)
}
