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

// Package literal parses the Num and String leaves of the grammar: numeric
// constants (decimal, hex, exponent forms) and the escape sequences of
// single- and double-quoted strings.
package literal

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// NumInfo is the parsed form of a Num literal. The original source text is
// always re-emitted verbatim into the generated Lua (Lua's own number
// grammar is a superset of Yue's), but NumInfo.Decimal gives the
// transformer an exact value to reason about: whether the literal is
// integral (for target-gating of the floor-division operator, which some
// Lua targets lack) and whether it parses at all.
type NumInfo struct {
	Text      string // verbatim source text, passed through to the Lua output
	Hex       bool
	Float     bool
	Decimal   apd.Decimal
}

// ParseNum decodes a Yue Num literal. Accepted forms: decimal integers and
// floats with optional exponent (`1`, `3.14`, `1e-9`, `2_3` with `_` digit
// separators dropped before parsing), and hex integers/floats (`0x1F`,
// `0x1p4`).
func ParseNum(text string) (NumInfo, error) {
	clean := strings.ReplaceAll(text, "_", "")
	info := NumInfo{Text: text}

	if len(clean) > 1 && clean[0] == '0' && (clean[1] == 'x' || clean[1] == 'X') {
		info.Hex = true
		info.Float = strings.ContainsAny(clean, ".pP")
		// apd has no hex-float literal support; store the decoded integer
		// part only when there is no fractional/exponent part, otherwise
		// leave Decimal at its zero value -- Lua's own reader re-parses the
		// verbatim text, so exactness here only matters for target gating.
		if !info.Float {
			if _, _, err := info.Decimal.SetString(parseHexInt(clean)); err != nil {
				return info, fmt.Errorf("invalid hex numeral %q: %w", text, err)
			}
		}
		return info, nil
	}

	info.Float = strings.ContainsAny(clean, ".eE")
	if _, _, err := info.Decimal.SetString(clean); err != nil {
		return info, fmt.Errorf("invalid numeral %q: %w", text, err)
	}
	return info, nil
}

// parseHexInt converts a "0x..." literal into its base-10 string so it can
// be loaded into an apd.Decimal, which has no native hex support.
func parseHexInt(s string) string {
	var v uint64
	for _, r := range s[2:] {
		v *= 16
		switch {
		case r >= '0' && r <= '9':
			v += uint64(r - '0')
		case r >= 'a' && r <= 'f':
			v += uint64(r-'a') + 10
		case r >= 'A' && r <= 'F':
			v += uint64(r-'A') + 10
		}
	}
	return fmt.Sprintf("%d", v)
}

// IsInteger reports whether the literal denotes a whole number, which is
// what the `//` (floor division) and bitwise-operator target-gating checks
// in the transformer care about.
func (n NumInfo) IsInteger() bool {
	return !n.Float
}
