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

package ast

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result Visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Done(node).
type Visitor interface {
	Visit(node Node) (w Visitor)
	Done(node Node)
}

type emptyVisitor struct{}

func (emptyVisitor) Visit(Node) Visitor { return nil }
func (emptyVisitor) Done(Node)          {}

// Walk traverses an AST in depth-first order: it starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor w for
// each of the non-nil children of node, followed by a call of
// w.Done(node).
func Walk(v Visitor, node Node) {
	if v == nil || node == nil {
		return
	}
	w := v.Visit(node)
	if w == nil {
		return
	}
	for _, c := range children(node) {
		Walk(w, c)
	}
	w.Done(node)
}

// children returns the direct, non-nil children of node in source order.
// It is exhaustive over the node kinds that actually nest other nodes;
// leaves fall through to the default empty case.
func children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n == nil {
			return
		}
		out = append(out, n)
	}
	switch n := node.(type) {
	case *File:
		add(n.Block)
	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *Statement:
		add(n.Content)
		add(n.Appendix)
	case *StatementAppendix:
		add(n.Item)
	case *Body:
		if n.Inline != nil {
			add(n.Inline)
		} else {
			add(n.Block)
		}
	case *Local:
		add(n.Item)
	case *LocalValues:
		add(n.NameList)
		add(n.ValueList)
	case *LocalAttrib:
		add(n.Attrib)
		for _, e := range n.LeftList {
			add(e)
		}
		add(n.Assign)
	case *NameList:
		for _, v := range n.Names {
			add(v)
		}
	case *Global:
		add(n.Item)
	case *GlobalValues:
		add(n.Op)
		add(n.NameList)
	case *Export:
		add(n.Default)
		add(n.Target)
	case *Import:
		add(n.Colon)
		add(n.Target)
		add(n.As)
		add(n.From)
	case *ColonImportName:
		add(n.Name)
	case *ImportFrom:
		add(n.Value)
	case *ImportAs:
		add(n.Target)
	case *ImportTabLit:
		for _, it := range n.Items {
			add(it)
		}
	case *MacroNamePair:
		add(n.Name)
		add(n.Alias)
	case *Label:
		add(n.Name)
	case *Goto:
		add(n.Name)
	case *Backcall:
		add(n.Arrow)
		add(n.Value)
	case *PipeBody:
		add(n.Value)
	case *ExpListLow:
		for _, e := range n.Exprs {
			add(e)
		}
	case *ExpList:
		for _, e := range n.Exprs {
			add(e)
		}
	case *ExpListAssign:
		add(n.ExpList)
		add(n.Action)
	case *Return:
		add(n.ValueList)
	case *With:
		for _, e := range n.Assigns {
			add(e)
		}
		add(n.Value)
		add(n.Body)
	case *SwitchList:
		for _, e := range n.Exprs {
			add(e)
		}
	case *SwitchCase:
		add(n.ValueList)
		add(n.Body)
	case *Switch:
		add(n.Value)
		for _, c := range n.Cases {
			add(c)
		}
	case *Assignable:
		add(n.Item)
	case *AssignableChain:
		add(n.Chain)
	case *Assign:
		for _, e := range n.Exprs {
			add(e)
		}
	case *Update:
		add(n.Op)
		add(n.Value)
	case *ChainAssign:
		for _, e := range n.Exprs {
			add(e)
		}
	case *AssignableNameList:
		for _, v := range n.Names {
			add(v)
		}
	case *NameOrDestructure:
		add(n.Item)
	case *UnaryExp:
		for _, op := range n.Ops {
			add(op)
		}
		add(n.Value)
	case *UnaryValue:
		add(n.Value)
	case *ExpOpValue:
		add(n.Op)
		add(n.Value)
	case *Exp:
		add(n.First)
		for _, ov := range n.OpValues {
			add(ov)
		}
		add(n.NilCoalesed)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *Callable:
		add(n.Item)
	case *DotChainItem:
		add(n.Name)
	case *ColonChainItem:
		add(n.Name)
	case *Slice:
		add(n.From)
		add(n.To)
		add(n.Step)
	case *Invoke:
		add(n.Args)
	case *InvokeArgs:
		for _, a := range n.Args {
			add(a)
		}
	case *Metamethod:
		add(n.Name)
	case *Index:
		add(n.Value)
	case *ChainValue:
		add(n.Caller)
		for _, it := range n.Items {
			add(it)
		}
	case *VariablePair:
		add(n.Name)
	case *NormalPair:
		add(n.Key)
		add(n.Value)
	case *MetaVariablePair:
		add(n.Name)
	case *MetaNormalPair:
		add(n.Key)
		add(n.Value)
	case *DefaultValue:
		add(n.Value)
	case *VariablePairDef:
		add(n.Pair)
		add(n.Default)
	case *NormalPairDef:
		add(n.Pair)
		add(n.Default)
	case *NormalDef:
		add(n.Target)
		add(n.Default)
	case *MetaVariablePairDef:
		add(n.Pair)
		add(n.Default)
	case *MetaNormalPairDef:
		add(n.Pair)
		add(n.Default)
	case *SpreadExp:
		add(n.Value)
	case *TableLit:
		for _, it := range n.Items {
			add(it)
		}
	case *SimpleTable:
		for _, it := range n.Items {
			add(it)
		}
	case *TableBlock:
		for _, it := range n.Items {
			add(it)
		}
	case *TableBlockIndent:
		for _, it := range n.Items {
			add(it)
		}
	case *DoubleStringInner:
		for _, s := range n.Segments {
			add(s)
		}
	case *DoubleString:
		add(n.Inner)
	case *LuaString:
		add(n.Open)
		add(n.Content)
	case *String:
		add(n.Item)
	case *Parens:
		add(n.Value)
	case *SimpleValue:
		add(n.Item)
	case *Value:
		add(n.Item)
	case *FnArgDef:
		add(n.Name)
		add(n.Default)
	case *FnArgDefList:
		for _, a := range n.Args {
			add(a)
		}
	case *OuterVarShadow:
		for _, v := range n.Names {
			add(v)
		}
	case *FnArgsDef:
		add(n.Args)
		add(n.VarArg)
		add(n.Shadow)
	case *FunLit:
		add(n.Args)
		add(n.Arrow)
		add(n.Body)
	case *MacroName:
		add(n.Name)
	case *MacroLit:
		add(n.Args)
		add(n.Body)
	case *Macro:
		add(n.Name)
		add(n.Lit)
	case *MacroInPlace:
		add(n.Name)
		add(n.Args)
	case *ClassMemberList:
		for _, m := range n.Members {
			add(m)
		}
	case *ClassBlock:
		add(n.Members)
	case *BreakStat:
		add(n.Keyword)
	case *ClassDecl:
		add(n.Name)
		add(n.Extends)
		for _, u := range n.Using {
			add(u)
		}
		add(n.Body)
	case *IfCond:
		add(n.Assign)
		add(n.Value)
	case *If:
		for _, c := range n.Conds {
			add(c)
		}
		for _, b := range n.Bodies {
			add(b)
		}
	case *While:
		add(n.Type)
		add(n.Value)
		add(n.Body)
	case *IfLine:
		add(n.Type)
		add(n.Value)
	case *WhileLine:
		add(n.Type)
		add(n.Value)
	case *Repeat:
		add(n.Body)
		add(n.Cond)
	case *ForStepValue:
		add(n.Value)
	case *For:
		add(n.Name)
		add(n.Start)
		add(n.Stop)
		add(n.Step)
		add(n.Body)
	case *StarExp:
		add(n.Value)
	case *ForEach:
		add(n.NameList)
		add(n.LoopExpr)
		add(n.Body)
	case *Do:
		add(n.Body)
	case *CatchBlock:
		add(n.Name)
		add(n.Body)
	case *Try:
		add(n.Body)
		add(n.Catch)
	case *CompForEach:
		add(n.NameList)
		add(n.LoopExpr)
	case *CompFor:
		add(n.Name)
		add(n.Start)
		add(n.Stop)
		add(n.Step)
	case *CompInner:
		for _, c := range n.Clauses {
			add(c)
		}
	case *CompValue:
		add(n.Value)
	case *Comprehension:
		add(n.Value)
		add(n.Inner)
	case *TblComprehension:
		add(n.Key)
		add(n.Value)
		add(n.Inner)
	case *Variable:
		add(n.Name)
	case *SelfName:
		add(n.Name)
	case *SelfClassName:
		add(n.Name)
	case *SelfItem:
		add(n.Item)
	case *KeyName:
		add(n.Item)
	case *LabelName:
		add(n.Name)
	case *LuaKeyword:
		add(n.Name)
	}
	return out
}
