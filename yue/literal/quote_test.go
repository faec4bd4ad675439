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

package literal_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pigpigyyy/yue-go/yue/literal"
)

func TestUnquoteSingle(t *testing.T) {
	got, err := literal.UnquoteSingle(`it\'s \\ok`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `it's \ok`; got != want {
		t.Errorf("UnquoteSingle = %q, want %q", got, want)
	}
}

func TestSplitDoubleString(t *testing.T) {
	got, err := literal.SplitDoubleString(`hello #{name}, cost: \#{not interp} end`)
	if err != nil {
		t.Fatal(err)
	}
	want := []literal.DoubleStringSegment{
		{Text: "hello "},
		{Interp: "name"},
		{Text: ", cost: #{not interp} end"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitDoubleString mismatch (-want +got):\n%s", diff)
	}
}

func TestLongBracketLevel(t *testing.T) {
	if lvl := literal.LongBracketLevel("[==["); lvl != 2 {
		t.Errorf("LongBracketLevel([==[) = %d, want 2", lvl)
	}
	if lvl := literal.LongBracketLevel("[abc"); lvl != -1 {
		t.Errorf("LongBracketLevel(non-bracket) = %d, want -1", lvl)
	}
}
