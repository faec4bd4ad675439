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

// Package yue is the compiler's public entry point: Compile parses and
// lowers one source file's text and returns the rendered Lua plus any
// diagnostics, mirroring the shape of cuelang.org/go's own top-level
// cuecontext/Compile-style wrapper around its internal compile package.
package yue

import (
	"github.com/pigpigyyy/yue-go/yue/errors"
	"github.com/pigpigyyy/yue-go/yue/macro"
	"github.com/pigpigyyy/yue-go/yue/parser"
	"github.com/pigpigyyy/yue-go/yue/transform"
)

// Option configures one Compile call.
type Option func(*transform.Config)

// Target selects the Lua release the emitted code must run on.
func Target(v transform.LuaVersion) Option {
	return func(c *transform.Config) { c.Target = v }
}

// ReserveComment keeps leading line comments attached to a statement in
// the emitted output.
func ReserveComment(v bool) Option {
	return func(c *transform.Config) { c.ReserveComment = v }
}

// ImplicitReturn sets Config.ImplicitReturn. The transformer does not read
// that field, so no implicit return is emitted for any block.
func ImplicitReturn(v bool) Option {
	return func(c *transform.Config) { c.ImplicitReturn = v }
}

// ModuleName names the chunk in parse diagnostics; Compile uses "chunk"
// when it is empty.
func ModuleName(name string) Option {
	return func(c *transform.Config) { c.ModuleName = name }
}

// MacroHost installs the runtime macros compile against; omitted, macros
// fail closed via [macro.NoopHost].
func MacroHost(h macro.Host) Option {
	return func(c *transform.Config) { c.MacroHost = h }
}

// CompileInfo is everything one Compile call produces.
type CompileInfo struct {
	Codes   string
	Error   errors.List
	Globals []string
	Options transform.Config
}

// Compile parses source as one module and lowers it to Lua source text.
func Compile(source string, opts ...Option) CompileInfo {
	cfg := transform.Config{Target: transform.Lua54}
	for _, opt := range opts {
		opt(&cfg)
	}

	name := cfg.ModuleName
	if name == "" {
		name = "chunk"
	}
	result := parser.Parse(name, source)
	if result.Errors.First() != nil {
		return CompileInfo{Error: result.Errors, Options: cfg}
	}

	tf := transform.New(cfg)
	out := tf.Transform(result.File)

	info := CompileInfo{
		Codes:   runtimePrelude + out.Code,
		Error:   out.Errors,
		Globals: out.Globals,
		Options: cfg,
	}
	return info
}

// runtimePrelude defines the small set of helpers generated code may
// call that have no single-expression Lua equivalent (slice syntax
// chief among them). It is prepended to every compiled chunk rather
// than required separately, keeping one compiled file self-contained.
const runtimePrelude = `local function __yue_slice(t, from, to, step)
  local len = #t
  from = from or 1
  to = to or len
  step = step or 1
  if from < 0 then from = len + from + 1 end
  if to < 0 then to = len + to + 1 end
  local out = {}
  if step > 0 then
    for i = from, to, step do out[#out + 1] = t[i] end
  else
    for i = from, to, step do out[#out + 1] = t[i] end
  end
  return out
end
`
