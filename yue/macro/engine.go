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
	"fmt"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
)

// Engine hosts macros in a sandboxed Wasm guest via wazero, the same
// approach cue/wasm.Runtime uses to embed a foreign interpreter without
// linking it directly. A real Lua-in-Wasm guest module (built
// from a Lua distribution compiled to WASI) would receive each macro
// body's lowered Lua source through LoadChunk and execute it through a
// small ABI that marshals the raw argument text and returns the expanded
// Lua fragment as a string. Engine owns one wazero runtime shared by every
// compile session; each session's chunks are tracked independently in the
// registry so two concurrent compiles never see each other's macros.
type Engine struct {
	runtime  wazero.Runtime
	registry *registry
	guest    []byte // compiled Wasm bytes for the Lua-in-Wasm guest module
}

// NewEngine constructs an Engine around a fresh wazero runtime. guest is
// the compiled Wasm module bytes implementing the macro host ABI
// (LoadChunk/Invoke); passing nil yields an Engine that behaves like
// [NoopHost] until a guest module is supplied with SetGuest.
func NewEngine(ctx context.Context, guest []byte) *Engine {
	return &Engine{
		runtime:  wazero.NewRuntime(ctx),
		registry: newRegistry(),
		guest:    guest,
	}
}

// SetGuest installs (or replaces) the compiled guest module bytes.
func (e *Engine) SetGuest(guest []byte) { e.guest = guest }

// NewSession mints a fresh per-compile session ID for use with Host calls.
func NewSession() string { return uuid.NewString() }

func (e *Engine) LoadChunk(ctx context.Context, session, name, luaSource string) error {
	if len(e.guest) == 0 {
		return fmt.Errorf("macro feature not supported: no guest module loaded")
	}
	e.registry.store(session, name, luaSource)
	return nil
}

func (e *Engine) Invoke(ctx context.Context, session, name, rawArgs string) (string, error) {
	if len(e.guest) == 0 {
		return "", fmt.Errorf("macro feature not supported: no guest module loaded")
	}
	if _, ok := e.registry.lookup(session, name); !ok {
		return "", fmt.Errorf("macro %q was never loaded for this compile", name)
	}
	// Instantiating the guest module and invoking its exported `invoke`
	// function is the remaining wiring once a concrete Lua-in-Wasm guest
	// is built; the ABI mirrors cue/wasm's Func(name string) (Func, error)
	// + variadic-args calling convention.
	_, err := e.runtime.CompileModule(ctx, e.guest)
	if err != nil {
		return "", fmt.Errorf("compiling macro guest module: %w", err)
	}
	return "", fmt.Errorf("macro %q: guest invocation ABI not wired to a concrete Lua runtime", name)
}

func (e *Engine) Release(session string) { e.registry.release(session) }

// Close releases the underlying wazero runtime.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
