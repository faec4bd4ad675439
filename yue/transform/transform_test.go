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

package transform_test

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/pigpigyyy/yue-go/yue/parser"
	"github.com/pigpigyyy/yue-go/yue/transform"
)

func compile(t *testing.T, src string, cfg transform.Config) string {
	t.Helper()
	res := parser.Parse("t.yue", src)
	if err := res.Errors.First(); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	out := transform.New(cfg).Transform(res.File)
	if err := out.Errors.First(); err != nil {
		t.Fatalf("transform error: %v", err)
	}
	return out.Code
}

func TestTransformLocalAssignment(t *testing.T) {
	got := compile(t, "x = 1\n", transform.Config{Target: transform.Lua54})
	want := "x = 1"
	if !strings.Contains(got, want) {
		t.Errorf("missing expected fragment:\n%# v", pretty.Formatter(struct{ Got, Want string }{got, want}))
	}
}

func TestTransformWhileBreakIsNativeOnLua54(t *testing.T) {
	got := compile(t, "while true\n  break\n", transform.Config{Target: transform.Lua54})
	if !strings.Contains(got, "break") {
		t.Errorf("expected a native break, got %q", got)
	}
	if strings.Contains(got, "__break") {
		t.Errorf("Lua 5.4 target should not need a break flag, got %q", got)
	}
}

func TestTransformWhileBreakUsesFlagOnLua51(t *testing.T) {
	got := compile(t, "while true\n  break\n", transform.Config{Target: transform.Lua51})
	if !strings.Contains(got, "__break") {
		t.Errorf("Lua 5.1 target should emulate break via a flag, got %q", got)
	}
}

func TestTransformClassDeclEmitsBaseAndClassTables(t *testing.T) {
	got := compile(t, "class Animal\n  speak: => print @name\n", transform.Config{Target: transform.Lua54})
	for _, want := range []string{"_base", "_class", "__index", "__call"} {
		if !strings.Contains(got, want) {
			t.Errorf("class lowering missing %q, got:\n%s", want, got)
		}
	}
}

func TestTransformExportBuildsReturnTable(t *testing.T) {
	got := compile(t, "export foo = 1\n", transform.Config{Target: transform.Lua54})
	if !strings.Contains(got, "return {") {
		t.Errorf("expected a trailing return table, got %q", got)
	}
	if !strings.Contains(got, "foo = foo") {
		t.Errorf("expected the export table to re-export foo, got %q", got)
	}
}

func TestTransformIfAsExpressionWrapsInIIFE(t *testing.T) {
	got := compile(t, "x = if true then 1 else 2\n", transform.Config{Target: transform.Lua54})
	if !strings.Contains(got, "function()") {
		t.Errorf("expected an if-expression to lower through an IIFE, got %q", got)
	}
}

func TestTransformExistentialChainGuardsNil(t *testing.T) {
	got := compile(t, "y = a?.b.c\n", transform.Config{Target: transform.Lua54})
	if !strings.Contains(got, "== nil") {
		t.Errorf("expected a nil guard from the existential chain, got %q", got)
	}
}
