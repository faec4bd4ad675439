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

// Package astdebug renders a yue/ast tree as a multi-line, Go-like debug
// string for use in test failures and error context, walking the tree
// generically through reflection rather than a hand-written case per
// node kind (adapted from internal/astinternal.AppendDebug).
package astdebug

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pigpigyyy/yue-go/yue/ast"
	"github.com/pigpigyyy/yue-go/yue/token"
)

// AppendDebug writes a debug representation of node to dst.
func AppendDebug(dst []byte, node ast.Node, cfg DebugConfig) []byte {
	d := &debugPrinter{cfg: cfg}
	dst = d.value(dst, reflect.ValueOf(node), nil)
	dst = d.newline(dst)
	return dst
}

// DebugString is a convenience wrapper around AppendDebug.
func DebugString(node ast.Node) string {
	return string(AppendDebug(nil, node, DebugConfig{OmitEmpty: true}))
}

// DebugConfig configures AppendDebug's output.
type DebugConfig struct {
	// Filter is consulted for every value; returning false omits it.
	Filter func(reflect.Value) bool
	// OmitEmpty elides zero-valued fields, empty slices, and nil pointers.
	OmitEmpty bool
}

type debugPrinter struct {
	cfg   DebugConfig
	level int
}

func (d *debugPrinter) printf(dst []byte, format string, args ...any) []byte {
	return fmt.Appendf(dst, format, args...)
}

func (d *debugPrinter) newline(dst []byte) []byte {
	return fmt.Appendf(dst, "\n%s", strings.Repeat("\t", d.level))
}

var typeTokenPos = reflect.TypeFor[token.Pos]()

func (d *debugPrinter) value(dst []byte, v reflect.Value, impliedType reflect.Type) []byte {
	if d.cfg.Filter != nil && !d.cfg.Filter(v) {
		return dst
	}
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		if !d.cfg.OmitEmpty {
			dst = d.printf(dst, "nil")
		}
		return dst
	}

	origType := v.Type()
	v = reflect.Indirect(v)
	if !v.IsValid() {
		if !d.cfg.OmitEmpty {
			dst = d.printf(dst, "nil")
		}
		return dst
	}
	if d.cfg.OmitEmpty && v.IsZero() {
		return dst
	}

	t := v.Type()
	if t == typeTokenPos {
		return d.printf(dst, "%s(%q)", t, v)
	}

	undoValue := len(dst)
	switch t.Kind() {
	default:
		if t.PkgPath() != "" {
			dst = d.printf(dst, "%s(%#v)", t, v)
		} else {
			dst = d.printf(dst, "%#v", v)
		}

	case reflect.Slice:
		if origType != impliedType {
			dst = d.printf(dst, "%s", origType)
		}
		dst = d.printf(dst, "{")
		d.level++
		anyElems := false
		for i := 0; i < v.Len(); i++ {
			ev := v.Index(i)
			undoElem := len(dst)
			dst = d.newline(dst)
			if dst2 := d.value(dst, ev, t.Elem()); len(dst2) == len(dst) {
				dst = dst[:undoElem]
			} else {
				dst = dst2
				anyElems = true
			}
		}
		d.level--
		if !anyElems && d.cfg.OmitEmpty {
			dst = dst[:undoValue]
		} else {
			if anyElems {
				dst = d.newline(dst)
			}
			dst = d.printf(dst, "}")
		}

	case reflect.Struct:
		if origType != impliedType {
			dst = d.printf(dst, "%s", origType)
		}
		dst = d.printf(dst, "{")
		anyElems := false
		d.level++
		for i := 0; i < v.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			undoElem := len(dst)
			dst = d.newline(dst)
			dst = d.printf(dst, "%s: ", f.Name)
			if dst2 := d.value(dst, v.Field(i), nil); len(dst2) == len(dst) {
				dst = dst[:undoElem]
			} else {
				dst = dst2
				anyElems = true
			}
		}
		d.level--
		if !anyElems && d.cfg.OmitEmpty {
			dst = dst[:undoValue]
		} else {
			if anyElems {
				dst = d.newline(dst)
			}
			dst = d.printf(dst, "}")
		}
	}
	return dst
}
