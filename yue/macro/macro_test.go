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

package macro

import (
	"context"
	"testing"
)

func TestNoopHostRejectsEveryOperation(t *testing.T) {
	var h NoopHost
	ctx := context.Background()

	if err := h.LoadChunk(ctx, "s", "m", "return 1"); err == nil {
		t.Errorf("expected LoadChunk to fail without a configured host")
	}
	if _, err := h.Invoke(ctx, "s", "m", ""); err == nil {
		t.Errorf("expected Invoke to fail without a configured host")
	}
	h.Release("s") // must not panic
}

func TestRegistryStoreLookupRelease(t *testing.T) {
	r := newRegistry()

	if _, ok := r.lookup("s1", "double"); ok {
		t.Fatalf("lookup on an empty registry should miss")
	}

	r.store("s1", "double", "return x * 2")
	got, ok := r.lookup("s1", "double")
	if !ok || got != "return x * 2" {
		t.Fatalf("lookup(s1, double) = (%q, %v), want (\"return x * 2\", true)", got, ok)
	}

	if _, ok := r.lookup("s2", "double"); ok {
		t.Fatalf("a macro stored under one session must not leak into another")
	}

	r.release("s1")
	if _, ok := r.lookup("s1", "double"); ok {
		t.Fatalf("lookup after release should miss")
	}
}

func TestNewSessionReturnsDistinctIDs(t *testing.T) {
	a := NewSession()
	b := NewSession()
	if a == "" || b == "" {
		t.Fatalf("NewSession must not return an empty ID")
	}
	if a == b {
		t.Fatalf("two NewSession calls returned the same ID: %q", a)
	}
}
