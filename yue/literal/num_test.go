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

	"github.com/pigpigyyy/yue-go/yue/literal"
)

func TestParseNum(t *testing.T) {
	cases := []struct {
		in      string
		isFloat bool
		isHex   bool
	}{
		{"42", false, false},
		{"3.14", true, false},
		{"1e-9", true, false},
		{"2_3", false, false},
		{"0x1F", false, true},
		{"0x1p4", true, true},
	}
	for _, c := range cases {
		info, err := literal.ParseNum(c.in)
		if err != nil {
			t.Errorf("ParseNum(%q) error: %v", c.in, err)
			continue
		}
		if info.Float != c.isFloat {
			t.Errorf("ParseNum(%q).Float = %v, want %v", c.in, info.Float, c.isFloat)
		}
		if info.Hex != c.isHex {
			t.Errorf("ParseNum(%q).Hex = %v, want %v", c.in, info.Hex, c.isHex)
		}
		if info.IsInteger() == c.isFloat {
			t.Errorf("ParseNum(%q).IsInteger() = %v, want %v", c.in, info.IsInteger(), !c.isFloat)
		}
	}
}

func TestParseNumInvalid(t *testing.T) {
	if _, err := literal.ParseNum("12.3.4"); err == nil {
		t.Fatal("expected error for malformed numeral")
	}
}
