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

// Package macro defines the trait the transformer uses to evaluate
// `macro name -> ...` bodies and `$name(...)` call sites at compile time.
// The trait is kept independent of any concrete embedded-VM implementation
// so the rest of the compiler links and compiles cleanly with macros
// disabled; [NoopHost] is that zero-cost default, mirroring how
// cuelang.org/go/internal/wasm keeps its own callers free of a hard
// dependency on any concrete Wasm runtime.
package macro

import (
	"context"
	"fmt"
	"sync"
)

// Host loads and invokes the guest runtime a compile's macros run in.
// Every module (file) being compiled gets its own registry, keyed by the
// module's session ID, so macros defined in one file never leak into
// another compiled concurrently.
type Host interface {
	// LoadChunk compiles luaSource (a `macro` body already lowered to Lua
	// by the transformer) into a callable bound to session.
	LoadChunk(ctx context.Context, session string, name string, luaSource string) error

	// Invoke calls a previously loaded macro by name with its raw,
	// unparsed argument source text, and returns the Lua source fragment
	// the macro expands to.
	Invoke(ctx context.Context, session string, name string, rawArgs string) (string, error)

	// Release frees any per-session state, called once the compile using
	// session completes.
	Release(session string)
}

// NoopHost rejects every macro operation, the default when the compiler
// is built without an embedded guest runtime wired in.
type NoopHost struct{}

func (NoopHost) LoadChunk(context.Context, string, string, string) error {
	return fmt.Errorf("macro feature not supported: no macro host configured")
}

func (NoopHost) Invoke(context.Context, string, string, string) (string, error) {
	return "", fmt.Errorf("macro feature not supported: no macro host configured")
}

func (NoopHost) Release(string) {}

// registry is the bookkeeping NoopHost's real counterparts share: the set
// of loaded chunks per compile session, guarded for the concurrent
// compiles one process may run side by side.
type registry struct {
	mu      sync.Mutex
	byName  map[string]map[string]string // session -> macro name -> lowered Lua source
}

func newRegistry() *registry {
	return &registry{byName: make(map[string]map[string]string)}
}

func (r *registry) store(session, name, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.byName[session]
	if m == nil {
		m = make(map[string]string)
		r.byName[session] = m
	}
	m[name] = source
}

func (r *registry) lookup(session, name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byName[session]
	if !ok {
		return "", false
	}
	src, ok := m[name]
	return src, ok
}

func (r *registry) release(session string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, session)
}
