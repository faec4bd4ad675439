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

package literal

import (
	"fmt"
	"strings"
)

// UnquoteSingle decodes the body of a single-quoted string: the only
// recognized escapes are \' and \\, everything else passes through
// verbatim.
func UnquoteSingle(body string) (string, error) {
	var b strings.Builder
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			return "", fmt.Errorf("dangling escape at end of string")
		}
		i++
		switch runes[i] {
		case '\'', '\\':
			b.WriteRune(runes[i])
		default:
			// Not a recognized escape: keep the backslash literally, as Lua
			// itself will (Yue never validates escapes other than the two
			// it defines for single-quoted strings).
			b.WriteRune('\\')
			b.WriteRune(runes[i])
		}
	}
	return b.String(), nil
}

// DoubleStringSegment is either a literal text run or an interpolated
// expression's raw source text, produced by splitting a double-quoted
// string on unescaped "#{" ... "}" spans.
type DoubleStringSegment struct {
	Text       string // set when Interp == ""
	Interp     string // raw Yue expression source, set for #{...} spans
}

// SplitDoubleString splits the body of a double-quoted string into
// alternating text/interpolation segments and unescapes \", \\, \# in the
// text runs. Interpolation spans are returned as raw, unescaped source
// text for re-parsing as an Exp.
func SplitDoubleString(body string) ([]DoubleStringSegment, error) {
	var segs []DoubleStringSegment
	var cur strings.Builder
	runes := []rune(body)
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, DoubleStringSegment{Text: cur.String()})
			cur.Reset()
		}
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			switch runes[i+1] {
			case '"', '\\', '#':
				cur.WriteRune(runes[i+1])
				i++
				continue
			}
			cur.WriteRune(r)
		case r == '#' && i+1 < len(runes) && runes[i+1] == '{':
			flush()
			depth := 1
			j := i + 2
			start := j
			for ; j < len(runes) && depth > 0; j++ {
				switch runes[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
			}
			if depth != 0 {
				return nil, fmt.Errorf("unterminated interpolation in string")
			}
			segs = append(segs, DoubleStringSegment{Interp: string(runes[start : j-1])})
			i = j - 1
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return segs, nil
}

// LongBracketLevel reports the `=`-count of a Lua long-bracket opener such
// as `[==[`, or -1 if s is not a long-bracket opener.
func LongBracketLevel(s string) int {
	if len(s) < 2 || s[0] != '[' {
		return -1
	}
	i := 1
	for i < len(s) && s[i] == '=' {
		i++
	}
	if i >= len(s) || s[i] != '[' {
		return -1
	}
	return i - 1
}

// QuoteLuaLong re-encodes s as a Lua long-bracket string using the lowest
// `=`-count not already present as a `]=*]` sequence inside s, the scheme
// the transformer uses whenever it must emit a string whose content may
// contain both quote characters (e.g. macro "text" results).
func QuoteLuaLong(s string) string {
	level := 0
	for {
		closer := "]" + strings.Repeat("=", level) + "]"
		if !strings.Contains(s, closer) {
			break
		}
		level++
	}
	open := "[" + strings.Repeat("=", level) + "["
	closer := "]" + strings.Repeat("=", level) + "]"
	// A long bracket that begins with a newline drops it; guard against
	// accidentally swallowing real content by always prefixing a newline.
	return open + "\n" + s + closer
}
