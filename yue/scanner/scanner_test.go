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

package scanner_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/pigpigyyy/yue-go/yue/scanner"
	"github.com/pigpigyyy/yue-go/yue/token"
)

func TestNextPeekAtEnd(t *testing.T) {
	f := token.NewFile("t.yue", []rune("ab"))
	var s scanner.Scanner
	s.Init(f, nil)

	qt.Assert(t, qt.Equals(s.Rune(), 'a'))
	qt.Assert(t, qt.Equals(s.Peek(), 'b'))
	qt.Assert(t, qt.Equals(s.Next(), 'b'))
	qt.Assert(t, qt.IsFalse(s.AtEnd()))
	s.Next()
	qt.Assert(t, qt.IsTrue(s.AtEnd()))
	qt.Assert(t, qt.Equals(s.Rune(), rune(-1)))
}

func TestSeekBacktracks(t *testing.T) {
	f := token.NewFile("t.yue", []rune("hello"))
	var s scanner.Scanner
	s.Init(f, nil)
	s.Next()
	s.Next()
	mark := s.Offset()
	s.Next()
	s.Next()
	s.Seek(mark)
	qt.Assert(t, qt.Equals(s.Offset(), mark))
}

func TestIndentWidth(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"  ", 2},
		{"\t", 4},
		{" \t", 5},
		{"\t\t", 8},
	}
	for _, c := range cases {
		qt.Assert(t, qt.Equals(scanner.IndentWidth([]rune(c.in)), c.want))
	}
}

func TestIndentStackPushPopCheck(t *testing.T) {
	st := scanner.NewIndentStack()
	qt.Assert(t, qt.Equals(st.Top(), 0))
	qt.Assert(t, qt.Equals(st.CheckIndent(2), 1))
	st.Push(2)
	qt.Assert(t, qt.Equals(st.CheckIndent(2), 0))
	qt.Assert(t, qt.Equals(st.CheckIndent(0), -1))
	st.Pop()
	qt.Assert(t, qt.Equals(st.Depth(), 1))
}

func TestIndentStackSuppressed(t *testing.T) {
	st := scanner.NewIndentStack()
	st.PushSuppressed()
	qt.Assert(t, qt.Equals(st.CheckIndent(0), 1))
}

func TestErrorHandlerCalledOnBOM(t *testing.T) {
	f := token.NewFile("t.yue", []rune{0xFEFF, 'x'})
	var called bool
	var s scanner.Scanner
	s.Init(f, func(pos token.Position, msg string) { called = true })
	qt.Assert(t, qt.IsTrue(called))
	qt.Assert(t, qt.Equals(s.ErrorCount, 1))
}
