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

package astdebug_test

import (
	"strings"
	"testing"

	"github.com/pigpigyyy/yue-go/internal/astdebug"
	"github.com/pigpigyyy/yue-go/yue/ast"
	"github.com/pigpigyyy/yue-go/yue/parser"
)

func TestDebugStringRendersParsedTree(t *testing.T) {
	res := parser.Parse("t.yue", "x = 1 + 2\n")
	if err := res.Errors.First(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	got := astdebug.DebugString(res.File)
	for _, want := range []string{"File", "ExpListAssign"} {
		if !strings.Contains(got, want) {
			t.Errorf("debug string missing %q:\n%s", want, got)
		}
	}
}

func TestAppendDebugOmitsZeroFieldsWhenConfigured(t *testing.T) {
	brk := &ast.BreakStat{Keyword: &ast.BreakLoop{Value: "break"}}
	withKeyword := string(astdebug.AppendDebug(nil, brk, astdebug.DebugConfig{OmitEmpty: true}))
	if !strings.Contains(withKeyword, "break") {
		t.Errorf("expected debug output to contain the keyword value, got %q", withKeyword)
	}

	empty := &ast.BreakStat{}
	omitted := string(astdebug.AppendDebug(nil, empty, astdebug.DebugConfig{OmitEmpty: true}))
	full := string(astdebug.AppendDebug(nil, empty, astdebug.DebugConfig{OmitEmpty: false}))
	if len(omitted) >= len(full) {
		t.Errorf("expected OmitEmpty output to be shorter than the full dump: %q vs %q", omitted, full)
	}
}
