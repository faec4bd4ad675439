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

// transformClassDecl lowers a class to the closure-based __index/__call
// pattern shared by moonscript/yuescript: a base table of members, a
// class table whose __call builds and __init-s new instances, a
// __parent link when the class extends another, mixin application via
// `using`, and the __inherited hook.
func (t *Transformer) transformClassDecl(b *strings.Builder, n *ast.ClassDecl, depth int) {
	var className string
	if assignable, ok := n.Name.(*ast.Assignable); ok {
		if v, ok := assignable.Item.(*ast.Variable); ok {
			className = nameOf(v.Name)
		}
	}
	if className == "" {
		className = t.scope.GetUnusedName("class")
	}
	t.scope.Declare(className, scope.Local)

	base := t.scope.GetUnusedName("base")
	class := t.scope.GetUnusedName("class")
	parent := ""
	if n.Extends != nil {
		parent = t.transformExpr(n.Extends, Common)
	}

	fmt.Fprintf(b, "%slocal %s\n", indent(depth), className)
	fmt.Fprintf(b, "%sdo\n", indent(depth))
	fmt.Fprintf(b, "%slocal %s = {}\n", indent(depth+1), base)
	fmt.Fprintf(b, "%s%s.__index = %s\n", indent(depth+1), base, base)
	parentVar := ""
	if parent != "" {
		parentVar = t.scope.GetUnusedName("parent")
		fmt.Fprintf(b, "%slocal %s = %s\n", indent(depth+1), parentVar, parent)
		fmt.Fprintf(b, "%ssetmetatable(%s, {__index = %s})\n", indent(depth+1), base, parentVar)
	}

	for _, mixin := range n.Using {
		if mixin == nil {
			continue
		}
		mixinVal := t.transformExpr(mixin, Common)
		k := t.scope.GetUnusedName("k")
		v := t.scope.GetUnusedName("v")
		fmt.Fprintf(b, "%sfor %s, %s in pairs(%s.__base) do\n", indent(depth+1), k, v, mixinVal)
		fmt.Fprintf(b, "%sif %s[%s] == nil then %s[%s] = %s end\n", indent(depth+2), base, k, base, k, v)
		fmt.Fprintf(b, "%send\n", indent(depth+1))
	}

	t.scope.Push()
	t.scope.Declare("@", scope.Local)
	initExpr := ""
	if n.Body != nil && n.Body.Members != nil {
		for _, m := range n.Body.Members.Members {
			if v, ok := t.transformClassMember(b, m, base, depth+1); ok {
				initExpr = v
			}
		}
	}
	t.scope.Pop()

	if initExpr == "" {
		if parentVar != "" {
			initExpr = fmt.Sprintf("function(self, ...) return %s.__init(self, ...) end", parentVar)
		} else {
			initExpr = "function() end"
		}
	}
	fmt.Fprintf(b, "%s%s.__init = %s\n", indent(depth+1), base, initExpr)

	fmt.Fprintf(b, "%slocal %s = setmetatable({__base = %s, __name = %q}, {__index = %s, __call = function(cls, ...)\n",
		indent(depth+1), class, base, className, base)
	fmt.Fprintf(b, "%slocal self = setmetatable({}, %s)\n", indent(depth+2), base)
	fmt.Fprintf(b, "%scls.__init(self, ...)\n", indent(depth+2))
	fmt.Fprintf(b, "%sreturn self\n", indent(depth+2))
	fmt.Fprintf(b, "%send})\n", indent(depth+1))
	fmt.Fprintf(b, "%s%s.__class = %s\n", indent(depth+1), base, class)
	if parentVar != "" {
		fmt.Fprintf(b, "%s%s.__parent = %s\n", indent(depth+1), class, parentVar)
		fmt.Fprintf(b, "%sif %s.__inherited then %s:__inherited(%s) end\n", indent(depth+1), parentVar, parentVar, class)
	}
	fmt.Fprintf(b, "%s%s = %s\n", indent(depth+1), className, class)
	fmt.Fprintf(b, "%send\n", indent(depth))
}

// classMemberKeyName reports the literal name text of a class-member key
// when it is a bare identifier (rather than a computed expression), so
// callers can special-case metamethod-shaped keys such as "new".
func classMemberKeyName(key ast.Expr) (string, bool) {
	switch key.(type) {
	case *ast.Name, *ast.UnicodeName:
		return nameOf(key), true
	default:
		return "", false
	}
}

// transformClassMember emits one class member onto base. When the member
// is the constructor (keyed "new"), its function value is returned instead
// of being written onto base, so the caller can install it as __init.
func (t *Transformer) transformClassMember(b *strings.Builder, member ast.Node, base string, depth int) (string, bool) {
	switch m := member.(type) {
	case *ast.NormalPair:
		if name, ok := classMemberKeyName(m.Key); ok {
			val := t.transformExpr(m.Value, Common)
			if name == "new" {
				return val, true
			}
			fmt.Fprintf(b, "%s%s.%s = %s\n", indent(depth), base, name, val)
			return "", false
		}
		key := t.transformExpr(m.Key, Common)
		val := t.transformExpr(m.Value, Common)
		fmt.Fprintf(b, "%s%s[%s] = %s\n", indent(depth), base, key, val)
	case *ast.VariablePair:
		name := nameOf(m.Name)
		fmt.Fprintf(b, "%s%s.%s = %s\n", indent(depth), base, name, name)
	case *ast.MetaNormalPair:
		if name, ok := classMemberKeyName(m.Key); ok {
			val := t.transformExpr(m.Value, Common)
			fmt.Fprintf(b, "%s%s.__%s = %s\n", indent(depth), base, name, val)
			return "", false
		}
		key := t.transformExpr(m.Key, Common)
		val := t.transformExpr(m.Value, Common)
		fmt.Fprintf(b, "%s%s[%s] = %s\n", indent(depth), base, key, val)
	case *ast.MetaVariablePair:
		name := nameOf(m.Name)
		fmt.Fprintf(b, "%s%s.__%s = %s\n", indent(depth), base, name, name)
	case *ast.ClassDecl:
		t.transformClassDecl(b, m, depth)
	}
	return "", false
}
