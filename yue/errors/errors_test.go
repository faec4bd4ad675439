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

package errors_test

import (
	"strings"
	"testing"

	"github.com/pigpigyyy/yue-go/yue/errors"
	"github.com/pigpigyyy/yue-go/yue/token"
)

func TestDisplayMessage(t *testing.T) {
	f := token.NewFile("t.yue", []rune("x = a + \n"))
	pos := f.Pos(4) // the 'a'
	err := errors.New(pos, "syntax error")
	msg := errors.DisplayMessage(err)
	if !strings.Contains(msg, "syntax error") {
		t.Fatalf("display message missing short message: %q", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Fatalf("display message missing caret: %q", msg)
	}
}

func TestList(t *testing.T) {
	var l errors.List
	l.Add(errors.New(token.NoPos, "first"))
	l.Add(errors.New(token.NoPos, "second"))
	l.Add(nil)
	if len(l) != 2 {
		t.Fatalf("len(l) = %d, want 2", len(l))
	}
	if l.First().Error() != "first" {
		t.Fatalf("First() = %q, want %q", l.First().Error(), "first")
	}
}

func TestListSortsByPosition(t *testing.T) {
	f := token.NewFile("t.yue", []rune("0123456789"))
	var l errors.List
	l.Add(errors.New(f.Pos(8), "late"))
	l.Add(errors.New(f.Pos(2), "early"))
	l.Add(errors.New(f.Pos(5), "middle"))
	l.Sort()
	got := []string{l[0].Error(), l[1].Error(), l[2].Error()}
	want := []string{"early", "middle", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}
