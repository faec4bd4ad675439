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

package parser_test

import (
	"fmt"
	"testing"

	"github.com/pigpigyyy/yue-go/internal/yuetxtar"
	"github.com/pigpigyyy/yue-go/yue/parser"
)

// TestParseShapes runs every archive under testdata/ through the parser and
// checks the top-level statement kinds against each archive's golden
// "out/kinds" section, one Go type name per line.
func TestParseShapes(t *testing.T) {
	tt := &yuetxtar.TxTarTest{Root: "testdata", Name: "kinds"}
	tt.Run(t, func(tc *yuetxtar.Test) {
		files := tc.Files()
		src, ok := files["input.yue"]
		if !ok {
			tc.Fatalf("archive missing input.yue section")
		}
		res := parser.Parse("t.yue", src)
		if err := res.Errors.First(); err != nil {
			tc.Fatalf("unexpected parse error: %v", err)
		}
		for _, stmt := range res.File.Block.Statements {
			fmt.Fprintf(tc, "%T\n", stmt.Content)
		}
	})
}
