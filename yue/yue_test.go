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

package yue_test

import (
	"strings"
	"testing"

	"github.com/pigpigyyy/yue-go/yue"
	"github.com/pigpigyyy/yue-go/yue/transform"
)

func TestCompilePrependsRuntimePrelude(t *testing.T) {
	info := yue.Compile("x = 1\n")
	if err := info.Error.First(); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !strings.Contains(info.Codes, "__yue_slice") {
		t.Errorf("expected the runtime prelude to be prepended, got:\n%s", info.Codes)
	}
	if !strings.Contains(info.Codes, "x = 1") {
		t.Errorf("expected the compiled body to follow the prelude, got:\n%s", info.Codes)
	}
}

func TestCompileDefaultsToLua54(t *testing.T) {
	info := yue.Compile("while true\n  break\n")
	if info.Options.Target != transform.Lua54 {
		t.Errorf("Options.Target = %v, want Lua54", info.Options.Target)
	}
}

func TestCompileTargetOptionLowersForLua51(t *testing.T) {
	info := yue.Compile("while true\n  break\n", yue.Target(transform.Lua51))
	if err := info.Error.First(); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !strings.Contains(info.Codes, "__break") {
		t.Errorf("expected Lua 5.1 target to emulate break via a flag, got:\n%s", info.Codes)
	}
}

func TestCompileReportsSyntaxErrorsWithoutPanicking(t *testing.T) {
	info := yue.Compile("x = \n")
	if info.Error.First() == nil {
		t.Fatalf("expected a parse error for incomplete source")
	}
	if info.Codes != "" {
		t.Errorf("expected no output on a failed parse, got:\n%s", info.Codes)
	}
}

func TestCompileLeavesModuleNameOptionUnset(t *testing.T) {
	info := yue.Compile("x = 1\n")
	if info.Options.ModuleName != "" {
		t.Errorf("ModuleName option should stay empty unless set, got %q", info.Options.ModuleName)
	}
}
