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

package scope_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/pigpigyyy/yue-go/yue/scope"
)

func TestLookupOuter(t *testing.T) {
	m := scope.New()
	m.Declare("x", scope.Local)
	m.Push()
	kind, ok := m.Lookup("x")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(kind, scope.Local))
	m.Pop()
}

func TestUsingShadowsOuter(t *testing.T) {
	m := scope.New()
	m.Declare("x", scope.Local)
	m.Declare("y", scope.Local)
	m.PushShadowed([]string{"y"}, false)
	if _, ok := m.Lookup("x"); ok {
		t.Errorf("x should not be visible past a using(y) boundary")
	}
	if _, ok := m.Lookup("y"); !ok {
		t.Errorf("y should be visible: explicitly allowed")
	}
	m.Pop()
}

func TestUsingNilShadowsEverything(t *testing.T) {
	m := scope.New()
	m.Declare("x", scope.Local)
	m.PushShadowed(nil, true)
	if _, ok := m.Lookup("x"); ok {
		t.Errorf("x should not be visible past a bare using nil boundary")
	}
	m.Pop()
}

func TestGetUnusedNameIsFresh(t *testing.T) {
	m := scope.New()
	names := map[string]bool{}
	for i := 0; i < 5; i++ {
		n := m.GetUnusedName("tmp")
		if names[n] {
			t.Fatalf("GetUnusedName produced a duplicate: %s", n)
		}
		names[n] = true
	}
}

func TestGlobalModeCapital(t *testing.T) {
	m := scope.New()
	m.SetGlobalMode(scope.Capital)
	qt.Assert(t, qt.IsTrue(m.IsGlobalByMode("Foo")))
	qt.Assert(t, qt.IsFalse(m.IsGlobalByMode("foo")))
}

func TestGlobalModeCapitalNonASCII(t *testing.T) {
	m := scope.New()
	m.SetGlobalMode(scope.Capital)
	qt.Assert(t, qt.IsTrue(m.IsGlobalByMode("Ångström")))
	qt.Assert(t, qt.IsFalse(m.IsGlobalByMode("ångström")))
}
