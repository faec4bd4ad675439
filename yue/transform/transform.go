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

// Package transform lowers a parsed yue/ast.File into Lua source text. It
// is the scope-aware half of the compiler: declarations are recorded in
// yue/scope as they are lowered and synthesized temporaries take fresh
// names from it (name references are emitted as written), and every desugaring
// (destructuring, classes, chains, comprehensions, switch, try/catch,
// macros, ...) happens here rather than in the grammar. The structure --
// a Transformer carrying a frame stack and an errf-style error collector
// -- follows internal/core/compile/compile.go's compiler/frame split,
// generalized from building an adt.Vertex to emitting text.
package transform

import (
	"fmt"
	"strings"

	"github.com/pigpigyyy/yue-go/yue/ast"
	"github.com/pigpigyyy/yue-go/yue/errors"
	"github.com/pigpigyyy/yue-go/yue/macro"
	"github.com/pigpigyyy/yue-go/yue/scope"
	"github.com/pigpigyyy/yue-go/yue/token"
)

// Mode is the expression usage mode threaded through transformExpr: it
// decides whether a multi-statement construct (an `if`, a `switch`, a
// `with`) can be used directly as a value, wrapped in an IIFE, or only
// appears in statement position.
type Mode int

const (
	// Common is a plain statement-position or simple-value context.
	Common Mode = iota
	// Assignment is the right-hand side of an assignment or declaration.
	Assignment
	// Return is the tail position of a function body.
	Return
	// Closure is any other position requiring an expression: multi-line
	// constructs are wrapped in an immediately invoked function literal.
	Closure
)

// LuaVersion gates code generation choices that differ across Lua
// releases: whether `goto`/labels are available for
// `continue` lowering, and whether native bitwise operators exist.
type LuaVersion int

const (
	Lua51 LuaVersion = iota
	Lua52
	Lua53
	Lua54
)

// Config configures one compile.
type Config struct {
	Target        LuaVersion
	ReserveComment bool
	ImplicitReturn bool
	ModuleName    string
	MacroHost     macro.Host
}

// Transformer lowers one File.
type Transformer struct {
	cfg     Config
	scope   *scope.Manager
	errs    errors.List
	session string

	varArgsStack  []bool // tracks whether the enclosing function forwards `...`
	loops         []*loopCtx
	exportNames   []string
	defaultExport string // rendered expression text of `export default`, if any
}

// loopCtx tracks how break/continue lower within one active loop. On
// targets with goto (Lua 5.2+) `break` stays a native break and `continue`
// jumps to a label at the end of the loop body. On Lua 5.1,
// which has no goto, continue lowers by wrapping the loop body in
// `repeat <body> until true` and treating `continue` as `break` out of
// that single-iteration pseudo-loop; a real `break` instead sets a flag
// checked right after the pseudo-loop exits.
type loopCtx struct {
	continueLabel string
	breakFlag     string
	usesGoto      bool
}

// New creates a Transformer for one compile.
func New(cfg Config) *Transformer {
	if cfg.MacroHost == nil {
		cfg.MacroHost = macro.NoopHost{}
	}
	return &Transformer{
		cfg:     cfg,
		scope:   scope.New(),
		session: macro.NewSession(),
	}
}

func (t *Transformer) errorf(pos token.Pos, format string, args ...any) {
	t.errs.Add(errors.New(pos, format, args...))
}

// requireTarget raises a compile error when the active Config.Target is
// below min, for a feature (bitwise operators, floor division, <close>)
// that has no meaning on older Lua releases.
func (t *Transformer) requireTarget(pos token.Pos, min LuaVersion, feature string) {
	if t.cfg.Target < min {
		t.errorf(pos, "%s requires Lua target %s or newer", feature, min)
	}
}

func (v LuaVersion) String() string {
	switch v {
	case Lua51:
		return "5.1"
	case Lua52:
		return "5.2"
	case Lua53:
		return "5.3"
	case Lua54:
		return "5.4"
	default:
		return "unknown"
	}
}

// bitwiseOps are the operators (binary and unary) that only exist as Lua
// syntax from 5.3 onward.
var bitwiseOps = map[string]bool{
	"&": true, "|": true, "~": true, "<<": true, ">>": true,
}

// Output is everything one Transform call produces.
type Output struct {
	Code    string
	Errors  errors.List
	Globals []string
	Exports []string
}

// Transform lowers f into Lua source text.
func (t *Transformer) Transform(f *ast.File) Output {
	defer t.cfg.MacroHost.Release(t.session)

	var b strings.Builder
	if f.Shebang != "" {
		b.WriteString(f.Shebang)
		b.WriteByte('\n')
	}
	t.transformBlock(&b, f.Block, 0)

	if t.defaultExport != "" || len(t.exportNames) > 0 {
		var fields []string
		if t.defaultExport != "" {
			fields = append(fields, "default = "+t.defaultExport)
		}
		for _, name := range t.exportNames {
			fields = append(fields, fmt.Sprintf("%s = %s", name, name))
		}
		fmt.Fprintf(&b, "return {%s}\n", strings.Join(fields, ", "))
	}

	return Output{
		Code:    b.String(),
		Errors:  t.errs,
		Globals: t.scope.Globals(),
		Exports: t.exportNames,
	}
}

func indent(n int) string { return strings.Repeat("  ", n) }

// transformBlock lowers every statement of a Block in order, each on its
// own Lua line(s) at the given indent depth.
func (t *Transformer) transformBlock(b *strings.Builder, block *ast.Block, depth int) {
	if block == nil {
		return
	}
	t.transformStatements(b, block.Statements, depth)
}

// transformStatements lowers a statement sequence, the unit both a Block
// and a backcall's captured continuation are expressed in. A `<-`/`<=`
// backcall statement consumes every statement after it into a trailing
// lambda argument, so it always ends the sequence it appears in.
func (t *Transformer) transformStatements(b *strings.Builder, stmts []*ast.Statement, depth int) {
	for i, st := range stmts {
		if bc, ok := backcallOf(st); ok {
			t.transformBackcall(b, bc, stmts[i+1:], depth)
			return
		}
		t.transformStatement(b, st, depth)
	}
}

// backcallOf reports whether st is a bare-expression statement wrapping a
// `<-`/`<=` backcall.
func backcallOf(st *ast.Statement) (*ast.Backcall, bool) {
	if st == nil || st.Appendix != nil {
		return nil, false
	}
	ela, ok := st.Content.(*ast.ExpListAssign)
	if !ok || ela.Action != nil || ela.ExpList == nil || len(ela.ExpList.Exprs) != 1 {
		return nil, false
	}
	bc, ok := ela.ExpList.Exprs[0].(*ast.Backcall)
	return bc, ok
}

// transformBackcall lowers a backcall: the statements following it in its
// block are rendered as a function literal and spliced onto its call
// expression as a trailing argument. A `<=` arrow gives that lambda a
// leading `self` parameter, the same fat-arrow convention FunLit uses.
func (t *Transformer) transformBackcall(b *strings.Builder, bc *ast.Backcall, rest []*ast.Statement, depth int) {
	isFat := bc.Arrow != nil && bc.Arrow.Value == "<="

	t.scope.Push()
	if isFat {
		t.scope.Declare("self", scope.Local)
	}
	var body strings.Builder
	t.transformStatements(&body, rest, depth+1)
	t.scope.Pop()

	params := ""
	if isFat {
		params = "self"
	}
	lambda := fmt.Sprintf("function(%s)\n%s%send", params, body.String(), indent(depth))

	fmt.Fprintf(b, "%s%s\n", indent(depth), t.spliceTrailingArg(bc.Value, lambda))
}

// spliceTrailingArg renders call as text with extra appended as one more
// argument to its final invocation.
func (t *Transformer) spliceTrailingArg(call ast.Expr, extra string) string {
	chain, ok := call.(*ast.ChainValue)
	if !ok || len(chain.Items) == 0 {
		return t.transformExpr(call, Common) + "(" + extra + ")"
	}
	inv, ok := chain.Items[len(chain.Items)-1].(*ast.Invoke)
	if !ok {
		return t.transformExpr(call, Common) + "(" + extra + ")"
	}
	base := t.transformExpr(chain.Caller, Common)
	cur := t.renderChainItems(base, chain.Items[:len(chain.Items)-1])
	args := t.renderInvokeArgs(inv.Args)
	if args == "" {
		return cur + "(" + extra + ")"
	}
	return cur + "(" + args + ", " + extra + ")"
}

func (t *Transformer) transformBody(b *strings.Builder, body *ast.Body, depth int) {
	if body == nil {
		return
	}
	if body.Inline != nil {
		t.transformStatement(b, body.Inline, depth)
		return
	}
	t.transformBlock(b, body.Block, depth)
}

// transformStatement lowers one Statement, honoring its trailing
// if/unless/while appendix by wrapping the content in the appropriate Lua
// control form.
func (t *Transformer) transformStatement(b *strings.Builder, st *ast.Statement, depth int) {
	if st == nil {
		return
	}
	if t.cfg.ReserveComment {
		for _, c := range st.Comments {
			fmt.Fprintf(b, "%s--%s\n", indent(depth), c)
		}
	}

	if st.Appendix != nil {
		t.transformAppendix(b, st, depth)
		return
	}
	t.transformContent(b, st.Content, depth)
}

func (t *Transformer) transformAppendix(b *strings.Builder, st *ast.Statement, depth int) {
	switch item := st.Appendix.Item.(type) {
	case *ast.IfLine:
		cond := t.transformExpr(item.Value, Common)
		prefix := "if "
		if item.Type.Value == "unless" {
			prefix = "if not ("
			fmt.Fprintf(b, "%s%s%s) then\n", indent(depth), prefix, cond)
		} else {
			fmt.Fprintf(b, "%s%s%s then\n", indent(depth), prefix, cond)
		}
		t.transformContent(b, st.Content, depth+1)
		fmt.Fprintf(b, "%send\n", indent(depth))
	case *ast.WhileLine:
		cond := t.transformExpr(item.Value, Common)
		fmt.Fprintf(b, "%swhile %s do\n", indent(depth), cond)
		t.transformContent(b, st.Content, depth+1)
		fmt.Fprintf(b, "%send\n", indent(depth))
	}
}

// transformContent dispatches on the concrete StatementContent kind,
// mirroring the closed choice Statement.Content encodes in the grammar.
func (t *Transformer) transformContent(b *strings.Builder, content ast.StatementContent, depth int) {
	switch n := content.(type) {
	case *ast.Local:
		t.transformLocal(b, n, depth)
	case *ast.LocalAttrib:
		t.transformLocalAttrib(b, n, depth)
	case *ast.Global:
		t.transformGlobal(b, n, depth)
	case *ast.Export:
		t.transformExport(b, n, depth)
	case *ast.Import:
		t.transformImport(b, n, depth)
	case *ast.ExpListAssign:
		t.transformExpListAssign(b, n, depth)
	case *ast.Return:
		t.transformReturn(b, n, depth)
	case *ast.BreakStat:
		fmt.Fprintf(b, "%s%s\n", indent(depth), t.lowerBreakLoop(n.Keyword.Value))
	case *ast.If:
		b.WriteString(t.transformIf(n, depth))
	case *ast.While:
		t.transformWhile(b, n, depth)
	case *ast.Repeat:
		t.transformRepeat(b, n, depth)
	case *ast.For:
		t.transformFor(b, n, depth)
	case *ast.ForEach:
		t.transformForEach(b, n, depth)
	case *ast.Do:
		fmt.Fprintf(b, "%sdo\n", indent(depth))
		t.scope.Push()
		t.transformBody(b, n.Body, depth+1)
		t.scope.Pop()
		fmt.Fprintf(b, "%send\n", indent(depth))
	case *ast.Switch:
		b.WriteString(t.transformSwitch(n, depth))
	case *ast.With:
		b.WriteString(t.transformWith(n, depth))
	case *ast.Try:
		b.WriteString(t.transformTry(n, depth))
	case *ast.ClassDecl:
		t.transformClassDecl(b, n, depth)
	case *ast.Label:
		fmt.Fprintf(b, "%s::%s::\n", indent(depth), nameOf(n.Name.Name))
	case *ast.Goto:
		fmt.Fprintf(b, "%sgoto %s\n", indent(depth), nameOf(n.Name.Name))
	case *ast.Macro:
		t.transformMacroDef(b, n, depth)
	default:
		// Unhandled content kinds fall through to a no-op rather than a
		// panic: the architecture favors graceful degradation of
		// less-common forms over a hard failure mid-compile.
	}
}

// enterLoop pushes a new loop context, allocating the continue-label or
// break-flag names a nested break/continue will reference.
func (t *Transformer) enterLoop() *loopCtx {
	lc := &loopCtx{usesGoto: t.cfg.Target >= Lua52}
	if lc.usesGoto {
		lc.continueLabel = t.scope.GetUnusedLabel("continue")
	} else {
		lc.breakFlag = t.scope.GetUnusedName("__break")
	}
	t.loops = append(t.loops, lc)
	return lc
}

func (t *Transformer) exitLoop() { t.loops = t.loops[:len(t.loops)-1] }

func (t *Transformer) currentLoop() *loopCtx {
	if len(t.loops) == 0 {
		return nil
	}
	return t.loops[len(t.loops)-1]
}

func (t *Transformer) lowerBreakLoop(kw string) string {
	lc := t.currentLoop()
	if lc == nil {
		return kw // outside any loop: emitted as-is, a semantic error upstream
	}
	if lc.usesGoto {
		if kw == "break" {
			return "break"
		}
		return "goto " + lc.continueLabel
	}
	if kw == "break" {
		return lc.breakFlag + " = true break"
	}
	return "break" // continue: exits only the inner `repeat until true` pseudo-loop
}

// wrapLoopBody lowers one loop's Body, applying the Lua-5.1 continue
// emulation (see loopCtx) when the target lacks goto.
func (t *Transformer) wrapLoopBody(body *ast.Body, depth int, lc *loopCtx) string {
	var inner strings.Builder
	t.transformBody(&inner, body, depth+1)
	if lc.usesGoto {
		fmt.Fprintf(&inner, "%s::%s::\n", indent(depth+1), lc.continueLabel)
		return inner.String()
	}
	var out strings.Builder
	fmt.Fprintf(&out, "%srepeat\n", indent(depth+1))
	out.WriteString(indentBlock(inner.String(), 1))
	fmt.Fprintf(&out, "%suntil true\n", indent(depth+1))
	fmt.Fprintf(&out, "%sif %s then break end\n", indent(depth+1), lc.breakFlag)
	return out.String()
}

func indentBlock(s string, extra int) string {
	if extra <= 0 || s == "" {
		return s
	}
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	prefix := strings.Repeat("  ", extra)
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	return b.String()
}
