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

// Package yuetxtar runs golden tests rooted in a directory of txtar
// archives: each archive holds one or more Yue source files and an
// "out/<name>" section holding the expected compiled Lua (adapted from
// internal/cuetxtar.TxTarTest/Test).
package yuetxtar

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// TxTarTest walks every .txtar file under Root and runs fn once per
// archive via Run.
type TxTarTest struct {
	// Root directory to walk for .txtar files.
	Root string

	// Name identifies the golden output section this test owns:
	// "out/<Name>" inside each archive.
	Name string

	// Skip maps archive base names to a reason to skip them.
	Skip map[string]string
}

// Run executes fn once for every discovered archive, giving it a Test to
// read input sections from and write golden output to.
func (tt *TxTarTest) Run(t *testing.T, fn func(tc *Test)) {
	entries, err := os.ReadDir(tt.Root)
	if err != nil {
		t.Fatalf("reading %s: %v", tt.Root, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txtar") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".txtar")
		if reason, skip := tt.Skip[name]; skip {
			t.Run(name, func(t *testing.T) { t.Skip(reason) })
			continue
		}
		path := filepath.Join(tt.Root, e.Name())
		t.Run(name, func(t *testing.T) {
			archive, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatalf("parsing %s: %v", path, err)
			}
			tc := &Test{T: t, path: path, archive: archive, goldKey: "out/" + tt.Name}
			fn(tc)
			tc.checkGolden()
		})
	}
}

// Test wraps one archive's state across a test function's run.
type Test struct {
	*testing.T

	path    string
	archive *txtar.Archive
	goldKey string
	buf     bytes.Buffer
}

// Files returns every non-golden section's content keyed by section name,
// skipping any "out/" section. The map does not keep the archive order.
func (tc *Test) Files() map[string]string {
	out := make(map[string]string)
	for _, f := range tc.archive.Files {
		if strings.HasPrefix(f.Name, "out/") {
			continue
		}
		out[f.Name] = string(f.Data)
	}
	return out
}

// Write implements io.Writer, accumulating output compared against the
// archive's golden section once the test function returns.
func (tc *Test) Write(p []byte) (int, error) { return tc.buf.Write(p) }

func (tc *Test) golden() (string, bool) {
	for _, f := range tc.archive.Files {
		if f.Name == tc.goldKey {
			return string(f.Data), true
		}
	}
	return "", false
}

func (tc *Test) checkGolden() {
	got := tc.buf.String()
	want, ok := tc.golden()
	if !ok {
		if os.Getenv("YUE_UPDATE") != "" {
			tc.updateGolden(got)
			return
		}
		tc.Fatalf("%s: missing golden section %q; set YUE_UPDATE=1 to create it", tc.path, tc.goldKey)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		if os.Getenv("YUE_UPDATE") != "" {
			tc.updateGolden(got)
			return
		}
		tc.Errorf("%s: golden mismatch (-want +got):\n%s", tc.path, diff)
	}
}

func (tc *Test) updateGolden(got string) {
	found := false
	for i, f := range tc.archive.Files {
		if f.Name == tc.goldKey {
			tc.archive.Files[i].Data = []byte(got)
			found = true
		}
	}
	if !found {
		tc.archive.Files = append(tc.archive.Files, txtar.File{Name: tc.goldKey, Data: []byte(got)})
	}
	if err := os.WriteFile(tc.path, txtar.Format(tc.archive), 0o644); err != nil {
		tc.Fatalf("updating golden file %s: %v", tc.path, err)
	}
}
