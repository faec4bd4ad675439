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

package transform

import "github.com/pigpigyyy/yue-go/yue/ast"

// nameOf extracts the raw text of a *ast.Name or *ast.UnicodeName leaf,
// the two expression kinds every identifier-bearing node (Variable,
// LabelName, KeyName, ...) ultimately wraps.
func nameOf(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Name:
		return n.Value
	case *ast.UnicodeName:
		return n.Value
	case nil:
		return ""
	default:
		return ""
	}
}
