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

// Package ast declares the node family produced by the Yue grammar: every
// syntactic form of the language, from the bare Num leaf up to the File
// root, carries a begin/end [token.Pos] span recovered from the source
// buffer. Leaves hold their textual value directly (sliced from the
// buffer at parse time); containers hold strongly-typed, ordered child
// slots. Dispatch on node kind is done with Go type switches, idiomatic
// Go's usual stand-in for a closed sum type.
package ast

import "github.com/pigpigyyy/yue-go/yue/token"

// A Node is any node of the syntax tree.
type Node interface {
	Pos() token.Pos // position of the first rune belonging to the node
	End() token.Pos // position immediately after the node
}

type Base struct {
	From, To token.Pos
}

func (b Base) Pos() token.Pos { return b.From }
func (b Base) End() token.Pos { return b.To }

// NewBase constructs the embeddable position pair every concrete node
// carries; grammar actions call it once the rule's span is known.
func NewBase(from, to token.Pos) Base { return Base{From: from, To: to} }

// An Expr is implemented by every node that produces a Lua value when
// transformed (directly, or through an IIFE in closure usage mode; see
// yue/transform).
type Expr interface {
	Node
	exprNode()
}

// A Decl is implemented by every top-level-capable declaration form.
type Decl interface {
	Node
	declNode()
}

// A StatementContent is implemented by every node kind that can be the sole
// `content` child of a [Statement].
type StatementContent interface {
	Node
	statementContent()
}

// ---------------------------------------------------------------------------
// Leaves: token-like nodes whose textual value was recovered by slicing the
// source buffer with the node's span at parse time.

type (
	// Num is a numeric literal leaf; Value is the verbatim source text.
	Num struct {
		Base
		Value string
	}

	// Name is an ASCII identifier leaf.
	Name struct {
		Base
		Value string
	}

	// UnicodeName is an identifier leaf containing at least one non-ASCII
	// code point.
	UnicodeName struct {
		Base
		Value string
	}

	// Self is the bare `@` self-reference.
	Self struct{ Base }

	// SelfClass is the bare `@@` class-self-reference.
	SelfClass struct{ Base }

	// VarArg is the literal `...`.
	VarArg struct{ Base }

	// Seperator is attached to any container whose list children may be
	// produced by alternation, letting generic traversal detect "the list
	// production fired" independent of the list's length.
	Seperator struct{ Base }

	// ConstAttrib is the `const` attribute keyword.
	ConstAttrib struct{ Base }

	// CloseAttrib is the `close` attribute keyword (Lua 5.4 `<close>`).
	CloseAttrib struct{ Base }

	// LocalFlag is either `local` or the `:=` operator spelling.
	LocalFlag struct {
		Base
		Value string
	}

	// BreakLoop is `break` or `continue`.
	BreakLoop struct {
		Base
		Value string
	}

	// LuaKeyword wraps a Name that happens to collide with a reserved Lua
	// keyword, forcing bracket-index access in chain emission.
	LuaKeyword struct {
		Base
		Name *Name
	}
)

func (*Num) exprNode()         {}
func (*Name) exprNode()        {}
func (*UnicodeName) exprNode() {}
func (*Self) exprNode()        {}
func (*SelfClass) exprNode()   {}
func (*VarArg) exprNode()      {}
func (*ConstValue) exprNode()  {}

// ---------------------------------------------------------------------------
// Names and self-references

type (
	// Variable is a plain identifier used as a value or binding target.
	Variable struct {
		Base
		Name Expr // *Name or *UnicodeName
	}

	// LabelName names a goto label.
	LabelName struct {
		Base
		Name Expr
	}

	// SelfName is `@name`.
	SelfName struct {
		Base
		Name Expr
	}

	// SelfClassName is `@@name`.
	SelfClassName struct {
		Base
		Name Expr
	}

	// SelfItem is one of SelfClassName, SelfClass, SelfName, Self.
	SelfItem struct {
		Base
		Item Expr
	}

	// KeyName is a table-literal shorthand key: one of SelfItem, Name,
	// UnicodeName.
	KeyName struct {
		Base
		Item Expr
	}
)

func (*Variable) exprNode()      {}
func (*SelfName) exprNode()      {}
func (*SelfClassName) exprNode() {}
func (*SelfItem) exprNode()      {}
func (*KeyName) exprNode()       {}

// NameList is a list of Variables, carrying a Seperator marker.
type NameList struct {
	Base
	Sep   *Seperator
	Names []*Variable
}

// ---------------------------------------------------------------------------
// Local / global / export declarations

type (
	// LocalValues is `names = values` under a `local` declaration.
	LocalValues struct {
		Base
		NameList  *NameList
		ValueList Expr // *TableBlock or *ExpListLow, or nil
	}

	// Local is the `local` statement: either a bare `LocalFlag` (no
	// initializer) or `LocalValues`.
	Local struct {
		Base
		Item        Node // *LocalFlag or *LocalValues
		ForceDecls  []string
		Decls       []string
	}

	// LocalAttrib is `local <const|close> a, b = ...` / the `::=`/`:=`
	// pattern-destructuring local form.
	LocalAttrib struct {
		Base
		Attrib   Node // *ConstAttrib or *CloseAttrib
		Sep      *Seperator
		LeftList []Expr // *Variable, *SimpleTable, *TableLit, *Comprehension
		Assign   *Assign
	}

	// GlobalOp selects between `*` (all) and `^` (capital-only) global
	// declaration modes, or is absent for a plain name list.
	GlobalOp struct {
		Base
		Value string
	}

	// GlobalValues is the name list (or op) of a Global declaration.
	GlobalValues struct {
		Base
		Op       *GlobalOp
		NameList *NameList
	}

	// Global declares names as explicitly global in the current scope.
	Global struct {
		Base
		Item *GlobalValues
	}

	// ExportDefault marks `export default expr`.
	ExportDefault struct{ Base }

	// Export re-exports names (or marks the file's default export) from the
	// per-module table.
	Export struct {
		Base
		Default *ExportDefault
		Target  Node // *Assign, *Variable, or nil for export-all
	}
)

func (*Local) statementContent()       {}
func (*LocalAttrib) statementContent() {}
func (*Global) statementContent()      {}
func (*Export) statementContent()      {}

// ---------------------------------------------------------------------------
// Import

type (
	// ColonImportName is the `\name` colon-shorthand import binding.
	ColonImportName struct {
		Base
		Name *Variable
	}

	// ImportLiteral is a dotted import path, e.g. `a.b.c`.
	ImportLiteral struct {
		Base
		Sep    *Seperator
		Inners []string // raw path segments
	}

	// MacroNamePair is `$name` or `$name: alias` inside an import list.
	MacroNamePair struct {
		Base
		Name  *Variable
		Alias *Variable // nil when not aliased
	}

	// ImportAllMacro is the `$*` wildcard macro import.
	ImportAllMacro struct{ Base }

	// ImportTabLit is the `{a, b: c, $m}` destructuring import list.
	ImportTabLit struct {
		Base
		Sep   *Seperator
		Items []Node // *VariablePair, *NormalPair, *MacroNamePair, *ImportAllMacro
	}

	// ImportAs is the `as name` / `as {...}` suffix of an import.
	ImportAs struct {
		Base
		Target Node // *Variable or *ImportTabLit
	}

	// ImportFrom is `from expr`.
	ImportFrom struct {
		Base
		Value Expr
	}

	// Import is the complete `import ...` statement in all its surface
	// forms: literal path import, colon shorthand, and `from`-style
	// destructuring import.
	Import struct {
		Base
		Colon  *ColonImportName
		Target Node // *ImportLiteral or *ImportTabLit
		As     *ImportAs
		From   *ImportFrom
	}
)

func (*Import) statementContent() {}

// ---------------------------------------------------------------------------
// goto / label

type (
	Label struct {
		Base
		Name *LabelName
	}
	Goto struct {
		Base
		Name *Variable
	}
)

func (*Label) statementContent() {}
func (*Goto) statementContent()  {}

// ---------------------------------------------------------------------------
// Backcall / pipe

type (
	// FnArrowBack is the `<-` or `<=` backcall operator spelling.
	FnArrowBack struct {
		Base
		Value string
	}

	// Backcall is `<- f(args)` / `<= f(args)`: the rest of the enclosing
	// block becomes an extra lambda argument to the call.
	Backcall struct {
		Base
		Arrow *FnArrowBack
		Value Expr // the call expression receiving the synthesized lambda
	}

	// PipeBody is the right-hand side of a `|>` pipe step.
	PipeBody struct {
		Base
		Value Expr
	}
)

func (*Backcall) exprNode() {}
func (*PipeBody) exprNode() {}

// ---------------------------------------------------------------------------
// Expression lists

type (
	ExpListLow struct {
		Base
		Sep   *Seperator
		Exprs []Expr
	}
	ExpList struct {
		Base
		Sep   *Seperator
		Exprs []Expr
	}
	ExpListAssign struct {
		Base
		ExpList *ExpList
		Action  Node // *Update, *Assign, or nil (bare expression statement)
	}
	Return struct {
		Base
		ValueList *ExpListLow // nil for a bare `return`
	}
)

func (*ExpListAssign) statementContent() {}
func (*Return) statementContent()        {}

// ---------------------------------------------------------------------------
// With

type With struct {
	Base
	Sep     *Seperator
	Assigns []Expr // target expressions bound for the body's short-chain items
	Value   Expr
	Body    *Body
}

func (*With) statementContent() {}
func (*With) exprNode()         {}

// ---------------------------------------------------------------------------
// Switch

type (
	SwitchList struct {
		Base
		Sep   *Seperator
		Exprs []Expr
	}
	SwitchCase struct {
		Base
		ValueList *SwitchList // nil for the `else` arm
		Body      *Body
	}
	Switch struct {
		Base
		Value Expr
		Cases []*SwitchCase
	}
)

func (*Switch) statementContent() {}
func (*Switch) exprNode()         {}

// ---------------------------------------------------------------------------
// Assignment forms

type (
	Assignable struct {
		Base
		Item Expr // *Variable, *SelfItem, or *AssignableChain
	}
	AssignableChain struct {
		Base
		Chain *ChainValue
	}
	Assign struct {
		Base
		Sep   *Seperator
		Exprs []Expr // the right-hand side ExpListLow contents
	}
	UpdateOp struct {
		Base
		Value string // +=, -=, //=, ??=, ...
	}
	Update struct {
		Base
		Op    *UpdateOp
		Value Expr
	}
	ChainAssign struct {
		Base
		Sep   *Seperator
		Exprs []Expr
	}
)

func (*Assignable) exprNode()      {}
func (*AssignableChain) exprNode() {}

// AssignableNameList is the left-hand side of a `local`/`:=` declaration
// when every target is a plain name, the fast path that skips
// destructuring lowering entirely.
type AssignableNameList struct {
	Base
	Sep   *Seperator
	Names []*Variable
}

// NameOrDestructure is a function parameter name or an inline destructuring
// pattern used as a parameter.
type NameOrDestructure struct {
	Base
	Item Node // *Variable, *TableLit, *SimpleTable
}

// ---------------------------------------------------------------------------
// Binary / unary operators and Exp

type (
	BinaryOperator struct {
		Base
		Value string
	}
	UnaryOperator struct {
		Base
		Value string
	}
	UnaryExp struct {
		Base
		Ops   []*UnaryOperator
		Value Expr
	}
	UnaryValue struct {
		Base
		Value Expr
	}
	// ExpOpValue pairs a binary operator with the next pipe-chain operand.
	ExpOpValue struct {
		Base
		Op    *BinaryOperator
		Value Expr
	}
	// Exp is `pipeExprs (non-empty) + opValues (possibly empty) + optional
	// nilCoalesed tail` as the grammar reads it. The parser folds the
	// opValues chain into a [BinaryExpr] tree once the Exp is read; an Exp
	// is kept in the tree only when a `??` tail follows, with First holding
	// the folded tree and OpValues empty.
	Exp struct {
		Base
		First        Expr // the first pipe-chain value
		OpValues     []*ExpOpValue
		NilCoalesed  Expr // non-nil when `?? tail` follows
	}
)

func (*UnaryExp) exprNode()  {}
func (*UnaryValue) exprNode() {}
func (*Exp) exprNode()       {}

// BinaryExpr is a resolved binary operation. The parser flattens the
// grammar's flat opValues chain (see Exp) into a BinaryExpr tree using
// standard precedence and associativity once a full Exp has been read;
// this mirrors the original compiler's own post-parse precedence pass
// rather than encoding precedence into the grammar itself.
type BinaryExpr struct {
	Base
	Op          string
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

// ---------------------------------------------------------------------------
// Chains

type (
	Callable struct {
		Base
		Item Expr // *Variable, *SelfItem, *VarArg, *Parens, ...
	}

	DotChainItem struct {
		Base
		Name Expr // *Name or *UnicodeName; marker name for metatable access
	}

	ColonChainItem struct {
		Base
		Name      Expr
		Existential bool // a trailing `?` was written on this item
	}

	Slice struct {
		Base
		From, To, Step Expr // any may be nil
	}

	Invoke struct {
		Base
		Args *InvokeArgs
	}

	InvokeArgs struct {
		Base
		Sep   *Seperator
		Args  []Expr
	}

	// ExistentialOp marks a trailing `?` guarding the rest of the chain.
	ExistentialOp struct{ Base }

	// TableAppendingOp is the trailing `[]` of `x[] = v`.
	TableAppendingOp struct{ Base }

	// Metatable is the `<>` chain item (`getmetatable(x)`).
	Metatable struct{ Base }

	// Metamethod is the `<name>` chain item (`getmetatable(x).__name`).
	Metamethod struct {
		Base
		Name Expr
	}

	// Index is a `[expr]` chain item.
	Index struct {
		Base
		Value Expr
	}

	// ChainValue is a chain: a Callable/short item/string literal, followed
	// by zero or more dot/colon items, invocations, slices, or index
	// expressions, optionally suffixed with an ExistentialOp or
	// TableAppendingOp.
	ChainValue struct {
		Base
		Caller Expr // *Callable, *DotChainItem, *ColonChainItem, or *String
		Items  []Node
	}
)

func (*ChainValue) exprNode() {}
func (*Callable) exprNode()   {}

// ---------------------------------------------------------------------------
// Table literals

type (
	VariablePair struct {
		Base
		Name Expr // the `:name` shorthand key
	}
	NormalPair struct {
		Base
		Key   Expr // string, Name, or `[expr]`
		Value Expr
	}
	MetaVariablePair struct {
		Base
		Name Expr
	}
	MetaNormalPair struct {
		Base
		Key   Expr
		Value Expr
	}
	DefaultValue struct {
		Base
		Value Expr
	}
	VariablePairDef struct {
		Base
		Pair    *VariablePair
		Default *DefaultValue
	}
	NormalPairDef struct {
		Base
		Pair    *NormalPair
		Default *DefaultValue
	}
	NormalDef struct {
		Base
		Target  Expr
		Default *DefaultValue
	}
	MetaVariablePairDef struct {
		Base
		Pair    *MetaVariablePair
		Default *DefaultValue
	}
	MetaNormalPairDef struct {
		Base
		Pair    *MetaNormalPair
		Default *DefaultValue
	}

	// SpreadExp is a `...expr` entry inside a table literal.
	SpreadExp struct {
		Base
		Value Expr // nil for a bare trailing `...` (forwards varargs)
	}

	TableLit struct {
		Base
		Sep   *Seperator
		Items []Node // pair/def kinds, plain Expr, or *SpreadExp
	}
	SimpleTable struct {
		Base
		Sep   *Seperator
		Items []Node
	}
	TableBlock struct {
		Base
		Sep   *Seperator
		Items []Node
	}
	TableBlockIndent struct {
		Base
		Sep   *Seperator
		Items []Node
	}
)

func (*TableLit) exprNode()          {}
func (*SimpleTable) exprNode()       {}
func (*TableBlock) exprNode()        {}
func (*TableBlockIndent) exprNode()  {}

// ---------------------------------------------------------------------------
// Strings

type (
	LuaStringOpen    struct{ Base; Level int }
	LuaStringContent struct{ Base; Value string }
	LuaStringClose   struct{ Base; Level int }
	LuaString        struct {
		Base
		Open    *LuaStringOpen
		Content *LuaStringContent
	}
	SingleString struct {
		Base
		Value string // raw body, before UnquoteSingle
	}
	DoubleStringContent struct {
		Base
		Value string
	}
	DoubleStringInner struct {
		Base
		Segments []Node // *DoubleStringContent or an interpolated Expr
	}
	DoubleString struct {
		Base
		Inner *DoubleStringInner
	}
	String struct {
		Base
		Item Node // *SingleString, *DoubleString, or *LuaString
	}
)

func (*LuaString) exprNode()    {}
func (*SingleString) exprNode() {}
func (*DoubleString) exprNode() {}
func (*String) exprNode()       {}

// ---------------------------------------------------------------------------
// Parens / values

type Parens struct {
	Base
	Value Expr
}

func (*Parens) exprNode() {}

// ConstValue is a keyword-valued constant: nil, true, false.
type ConstValue struct {
	Base
	Value string
}

type SimpleValue struct {
	Base
	Item Expr
}

func (*SimpleValue) exprNode() {}

type Value struct {
	Base
	Item Expr
}

func (*Value) exprNode() {}

// ---------------------------------------------------------------------------
// Function literals

type (
	FnArgDef struct {
		Base
		Name    *NameOrDestructure
		Default *DefaultValue
	}
	FnArgDefList struct {
		Base
		Sep   *Seperator
		Args  []*FnArgDef
	}
	// OuterVarShadow is the `using a, b` allow-list that opts a function
	// literal's closure out of capturing every outer local.
	OuterVarShadow struct {
		Base
		Sep   *Seperator
		Names []*Variable // empty list (bare `using nil`) shadows everything
	}
	FnArgsDef struct {
		Base
		Args   *FnArgDefList
		VarArg *VarArg
		Shadow *OuterVarShadow
	}
	FnArrow struct {
		Base
		Value string // "->" or "=>"
	}
	FunLit struct {
		Base
		Args  *FnArgsDef
		Arrow *FnArrow
		Body  *Body
	}
)

func (*FunLit) exprNode() {}

// ---------------------------------------------------------------------------
// Macro

type (
	MacroName struct {
		Base
		Name *Variable
	}
	MacroLit struct {
		Base
		Args *FnArgsDef
		Body *Body
	}
	Macro struct {
		Base
		Name *MacroName
		Lit  *MacroLit
	}
	// MacroInPlace is a `$name(args)` invocation site.
	MacroInPlace struct {
		Base
		Name *Variable
		Args *InvokeArgs
		RawArgs string // the unparsed source text of the argument list, so
		                // long-string content survives verbatim
	}
)

func (*Macro) statementContent() {}
func (*MacroInPlace) exprNode()  {}

// ---------------------------------------------------------------------------
// Class

type (
	ClassMemberList struct {
		Base
		Sep     *Seperator
		Members []Node // table-pair kinds, nested *ClassDecl
	}
	ClassBlock struct {
		Base
		Members *ClassMemberList
	}
	ClassDecl struct {
		Base
		Name    Expr // *Assignable, nil for an anonymous class expression
		Extends Expr
		Using   []Expr // mixin list; a single `nil` entry encodes `using nil`
		Body    *ClassBlock
	}
)

func (*ClassDecl) exprNode()         {}
func (*ClassDecl) statementContent() {}

// BreakStat is a `break` or `continue` statement.
type BreakStat struct {
	Base
	Keyword *BreakLoop
}

func (*BreakStat) statementContent() {}

// ---------------------------------------------------------------------------
// Control flow

type (
	IfCond struct {
		Base
		Assign *Assign // non-nil for `if x := expr`-style condition binding
		Value  Expr
	}
	IfType struct {
		Base
		Value string // "if" or "unless"
	}
	If struct {
		Base
		Type    *IfType
		Conds   []*IfCond
		Bodies  []*Body // len(Bodies) == len(Conds), plus an optional trailing else body
		HasElse bool
	}
	WhileType struct {
		Base
		Value string // "while" or "until"
	}
	While struct {
		Base
		Type  *WhileType
		Value Expr
		Body  *Body
	}
	Repeat struct {
		Base
		Body Node // *Body
		Cond Expr
	}
	ForStepValue struct {
		Base
		Value Expr
	}
	For struct {
		Base
		Name  *Variable
		Start Expr
		Stop  Expr
		Step  *ForStepValue
		Body  *Body
	}
	StarExp struct {
		Base
		Value Expr
	}
	ForEach struct {
		Base
		NameList *AssignableNameList
		LoopExpr Node // *StarExp or *ExpList ("in" source)
		Body     *Body
	}
	Do struct {
		Base
		Body *Body
	}
	CatchBlock struct {
		Base
		Name *Variable
		Body *Body
	}
	Try struct {
		Base
		Body  Node // *Body or a single Block statement shorthand
		Catch *CatchBlock
	}
)

func (*If) statementContent()      {}
func (*If) exprNode()              {}
func (*While) statementContent()   {}
func (*Repeat) statementContent()  {}
func (*For) statementContent()     {}
func (*ForEach) statementContent() {}
func (*Do) statementContent()      {}
func (*Do) exprNode()              {}
func (*Try) statementContent()     {}
func (*Try) exprNode()             {}

// ---------------------------------------------------------------------------
// Comprehensions

type (
	CompForEach struct {
		Base
		NameList *AssignableNameList
		LoopExpr Node
	}
	CompFor struct {
		Base
		Name  *Variable
		Start Expr
		Stop  Expr
		Step  *ForStepValue
	}
	// CompInner is one clause of a comprehension: a `for`/`each` binding or
	// a `when` guard.
	CompInner struct {
		Base
		Clauses []Node // *CompForEach, *CompFor, or Expr (guard)
	}
	CompValue struct {
		Base
		Value Expr
	}
	Comprehension struct {
		Base
		Value *CompValue
		Inner *CompInner
	}
	TblComprehension struct {
		Base
		Key   Expr
		Value Expr // nil for a set/list-style table comprehension
		Inner *CompInner
	}
)

func (*Comprehension) exprNode()     {}
func (*TblComprehension) exprNode()  {}

// ---------------------------------------------------------------------------
// Statement-level plumbing

type (
	IfLine struct {
		Base
		Type  *IfType
		Value Expr
	}
	WhileLine struct {
		Base
		Type  *WhileType
		Value Expr
	}
	// StatementAppendix is the trailing `if`/`unless`/`while`/`until`/
	// comprehension modifier a Statement may carry.
	StatementAppendix struct {
		Base
		Item Node // *IfLine, *WhileLine, or *CompInner
	}

	// Statement is the universal wrapper: exactly one `content` child from
	// a closed choice, an optional appendix, and an optional leading
	// comment list (kept for ReserveComment's passthrough support).
	Statement struct {
		Base
		Comments []string
		Content  StatementContent
		Appendix *StatementAppendix
	}

	// Body is `Statement | (Statement NewLine Block)` — a statement on the
	// same line, or an indented Block on the following lines.
	Body struct {
		Base
		Inline *Statement
		Block  *Block
	}

	// Block is a sequence of Statements all sharing one indentation level
	//.
	Block struct {
		Base
		Statements []*Statement
	}

	// File is the parse root.
	File struct {
		Base
		Shebang string
		Block   *Block
		Module  string
	}
)

func (b *Body) Pos() token.Pos {
	if b.Inline != nil {
		return b.Inline.Pos()
	}
	return b.Block.Pos()
}

func (b *Body) End() token.Pos {
	if b.Block != nil {
		return b.Block.End()
	}
	return b.Inline.End()
}
