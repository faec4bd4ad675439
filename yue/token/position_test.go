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

package token_test

import (
	"testing"

	"github.com/pigpigyyy/yue-go/yue/token"
)

func TestPositionLookup(t *testing.T) {
	src := []rune("x = 1\ny = 2\n\nz = 3\n")
	f := token.NewFile("t.yue", src)

	cases := []struct {
		offset int
		line   int
		col    int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{6, 2, 1},
		{12, 3, 1},
		{13, 4, 1},
	}
	for _, c := range cases {
		pos := f.Pos(c.offset).Position()
		if pos.Line != c.line || pos.Column != c.col {
			t.Errorf("Pos(%d) = %d:%d, want %d:%d", c.offset, pos.Line, pos.Column, c.line, c.col)
		}
	}
}

func TestNoPos(t *testing.T) {
	if token.NoPos.IsValid() {
		t.Fatal("NoPos must not be valid")
	}
	if token.NoPos.String() != "-" {
		t.Fatalf("NoPos.String() = %q, want %q", token.NoPos.String(), "-")
	}
}

func TestFileLine(t *testing.T) {
	src := []rune("local x = 1\n  print x\n")
	f := token.NewFile("t.yue", src)
	if got, want := f.Line(1), "local x = 1"; got != want {
		t.Errorf("Line(1) = %q, want %q", got, want)
	}
	if got, want := f.Line(2), "  print x"; got != want {
		t.Errorf("Line(2) = %q, want %q", got, want)
	}
}
