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

package parser_test

import (
	"testing"

	"github.com/pigpigyyy/yue-go/yue/ast"
	"github.com/pigpigyyy/yue-go/yue/parser"
)

func TestParseSimpleAssignment(t *testing.T) {
	res := parser.Parse("t.yue", "x = 1 + 2\n")
	if err := res.Errors.First(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if res.File == nil || len(res.File.Block.Statements) != 1 {
		t.Fatalf("expected exactly one top-level statement")
	}
	if _, ok := res.File.Block.Statements[0].Content.(*ast.ExpListAssign); !ok {
		t.Fatalf("expected an ExpListAssign, got %T", res.File.Block.Statements[0].Content)
	}
}

func TestParseIfElse(t *testing.T) {
	src := "if x == 1\n  print x\nelse\n  print 0\n"
	res := parser.Parse("t.yue", src)
	if err := res.Errors.First(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	stmt := res.File.Block.Statements[0]
	ifNode, ok := stmt.Content.(*ast.If)
	if !ok {
		t.Fatalf("expected an If, got %T", stmt.Content)
	}
	if !ifNode.HasElse {
		t.Errorf("expected HasElse to be true")
	}
}

func TestParseClassDecl(t *testing.T) {
	src := "class A extends B\n  greet: => print @x\n"
	res := parser.Parse("t.yue", src)
	if err := res.Errors.First(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	stmt := res.File.Block.Statements[0]
	if _, ok := stmt.Content.(*ast.ClassDecl); !ok {
		t.Fatalf("expected a ClassDecl, got %T", stmt.Content)
	}
}

func TestParseBreakContinue(t *testing.T) {
	src := "while true\n  break\n"
	res := parser.Parse("t.yue", src)
	if err := res.Errors.First(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	whileNode := res.File.Block.Statements[0].Content.(*ast.While)
	brk, ok := whileNode.Body.Block.Statements[0].Content.(*ast.BreakStat)
	if !ok {
		t.Fatalf("expected a BreakStat, got %T", whileNode.Body.Block.Statements[0].Content)
	}
	if brk.Keyword.Value != "break" {
		t.Errorf("Keyword.Value = %q, want \"break\"", brk.Keyword.Value)
	}
}
