// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// !android is required for compatibility with endtoend_test.go.
//go:build !android

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/emabrey/countedarray/internal/testenv"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// This file contains a test that checks the output files existence
// and content when countedarray has directives in multiple different
// input files to choose from.
//
// Input is specified in a txtar string.

// Several tests expect the declaration of quad in some package.
func expectQuad(pkg string) []byte {
	return []byte(fmt.Sprintf(`
// Header comment ignored.

package %s

var quad = [4]byte{1, 2, 3, 4}
`, pkg))
}

func TestMultifile(t *testing.T) {
	testenv.NeedsTool(t, "go")
	countedarray := countedarrayPath(t)

	tests := []struct {
		name        string
		args        []string
		archive     []byte
		expectFiles map[string][]byte
	}{
		{
			name: "package only",
			archive: []byte(`
-- go.mod --
module foo

-- main.go --
package main

//countedarray:var quad [_]byte{1, 2, 3, 4}
`),
			expectFiles: map[string][]byte{
				"main_countedarray.go": expectQuad("main"),
			},
		},
		{
			name: "test package only",
			archive: []byte(`
-- go.mod --
module foo

-- main.go --
package main

func main() {}

-- main_test.go --
package main

//countedarray:var quad [_]byte{1, 2, 3, 4}
`),
			expectFiles: map[string][]byte{
				"main_countedarray_test.go": expectQuad("main"),
			},
		},
		{
			name: "x_test package only",
			archive: []byte(`
-- go.mod --
module foo

-- main.go --
package main

func main() {}

-- main_test.go --
package main_test

//countedarray:var quad [_]byte{1, 2, 3, 4}
`),
			expectFiles: map[string][]byte{
				"main_test_countedarray_test.go": expectQuad("main_test"),
			},
		},
		{
			name: "package and test package",
			archive: []byte(`
-- go.mod --
module foo

-- main.go --
package main

//countedarray:var quad [_]byte{1, 2, 3, 4}

-- main_test.go --
package main

//countedarray:pub var testQuad [_]byte{1, 2, 3, 4}
`),
			expectFiles: map[string][]byte{
				"main_countedarray.go": expectQuad("main"),
				"main_countedarray_test.go": []byte(`
// Header comment ignored.

package main

var TestQuad = [4]byte{1, 2, 3, 4}
`),
			},
		},
		{
			name: "several files in order",
			archive: []byte(`
-- go.mod --
module foo

-- b.go --
package main

//countedarray:var second [_]int{2, 2}

-- a.go --
package main

//countedarray:var first [_]int{1}
//countedarray:var firstAgain [_]int{1,}
`),
			expectFiles: map[string][]byte{
				"main_countedarray.go": []byte(`
// Header comment ignored.

package main

var first = [1]int{1}

var firstAgain = [1]int{1}

var second = [2]int{2, 2}
`),
			},
		},
		{
			name: "no directives",
			archive: []byte(`
-- go.mod --
module foo

-- main.go --
package main

// countedarray:var spaced [_]int{1}

func main() {}
`),
		},
		{
			name: "generated files are skipped",
			archive: []byte(`
-- go.mod --
module foo

-- main.go --
package main

func main() {}

-- gen.go --
// Code generated by hand. DO NOT EDIT.

package main

//countedarray:var quad [_]byte{1, 2, 3, 4}
`),
		},
		{
			name: "build tags",
			args: []string{"-tags=extra"},
			archive: []byte(`
-- go.mod --
module foo

-- main.go --
//go:build !extra

package main

//countedarray:var quad [_]byte{9}

-- extra.go --
//go:build extra

package main

//countedarray:var quad [_]byte{1, 2, 3, 4}
`),
			expectFiles: map[string][]byte{
				"main_countedarray.go": expectQuad("main"),
			},
		},
		{
			name: "custom output file name",
			args: []string{"-output=custom_output.go"},
			archive: []byte(`
-- go.mod --
module foo

-- main.go --
package main

//countedarray:var quad [_]byte{1, 2, 3, 4}
`),
			expectFiles: map[string][]byte{
				"custom_output.go": expectQuad("main"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			arFS, err := txtar.FS(txtar.Parse(tt.archive))
			if err != nil {
				t.Fatalf("txtar.FS: %s", err)
			}
			err = os.CopyFS(tmpDir, arFS)
			if err != nil {
				t.Fatalf("copy fs: %s", err)
			}
			before := dirContent(t, tmpDir)

			// Must run countedarray in the temp directory, see TestTestFiles.
			args := append(tt.args, tmpDir)
			err = runInDir(t, tmpDir, countedarray, args...)
			if err != nil {
				t.Fatalf("run countedarray: %s", err)
			}

			checkFiles(t, tmpDir, before, tt.expectFiles)
		})
	}
}

func TestManifest(t *testing.T) {
	testenv.NeedsTool(t, "go")
	countedarray := countedarrayPath(t)

	archive := []byte(`
-- go.mod --
module foo

-- tables.yaml --
package: main
declarations:
  - name: quad
    type: byte
    values: [1, 2, 3, 4]
  - name: delays
    kind: const
    public: true
    type: time.Duration
    values: [time.Second, time.Minute]
-- main.go --
package main

import "time"

func main() {
	if quad != [4]byte{1, 2, 3, 4} || Delays()[1] != time.Minute {
		panic("manifest")
	}
}
`)
	tmpDir := t.TempDir()
	arFS, err := txtar.FS(txtar.Parse(archive))
	if err != nil {
		t.Fatalf("txtar.FS: %s", err)
	}
	if err := os.CopyFS(tmpDir, arFS); err != nil {
		t.Fatalf("copy fs: %s", err)
	}
	before := dirContent(t, tmpDir)

	if err := runInDir(t, tmpDir, countedarray, "-manifest", "tables.yaml"); err != nil {
		t.Fatalf("run countedarray: %s", err)
	}
	checkFiles(t, tmpDir, before, map[string][]byte{
		"tables_countedarray.go": []byte(`
// Header comment ignored.

package main

import "time"

var quad = [4]byte{1, 2, 3, 4}

func Delays() [2]time.Duration {
	return [2]time.Duration{time.Second, time.Minute}
}
`),
	})

	if err := runInDir(t, tmpDir, "go", "run", "."); err != nil {
		t.Fatalf("go run: %s", err)
	}
}

// A package with bad directives fails and writes nothing.
func TestFailureWritesNothing(t *testing.T) {
	testenv.NeedsTool(t, "go")
	countedarray := countedarrayPath(t)

	archive := []byte(`
-- go.mod --
module foo

-- a.go --
package main

//countedarray:var good [_]int{1}

-- b.go --
package main

//countedarray:var bad [3]int{1, 2, 3}
`)
	tmpDir := t.TempDir()
	arFS, err := txtar.FS(txtar.Parse(archive))
	if err != nil {
		t.Fatalf("txtar.FS: %s", err)
	}
	if err := os.CopyFS(tmpDir, arFS); err != nil {
		t.Fatalf("copy fs: %s", err)
	}
	before := dirContent(t, tmpDir)
	if err := runInDir(t, tmpDir, countedarray, tmpDir); err == nil {
		t.Fatal("unexpected countedarray success")
	}
	checkFiles(t, tmpDir, before, nil)
}

// checkFiles checks that all expected files have been created with the
// expected content, and that nothing else has.
func checkFiles(t *testing.T, dir string, before map[string]bool, expectFiles map[string][]byte) {
	t.Helper()
	for f, want := range expectFiles {
		got, err := os.ReadFile(filepath.Join(dir, f))
		if errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected file not written during test: %s", f)
			continue
		}
		if err != nil {
			t.Fatalf("read file %q: %s", f, err)
		}
		// Trim data for more robust comparison.
		got = trimHeader(bytes.TrimSpace(got))
		want = trimHeader(bytes.TrimSpace(want))
		if !bytes.Equal(want, got) {
			t.Errorf("file %s does not have the expected content (-want +got):\n%s", f, cmp.Diff(string(want), string(got)))
		}
	}

	after := dirContent(t, dir)
	for f := range after {
		if _, expected := expectFiles[f]; !expected && !before[f] {
			t.Errorf("found %q in output directory, it is neither input or expected output", f)
		}
	}
}

func dirContent(t *testing.T, dir string) map[string]bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %s", err)
	}

	out := map[string]bool{}
	for _, e := range entries {
		out[e.Name()] = true
	}
	return out
}

// trimHeader removes the header countedarray puts in a file.
// It depends on the command line and interferes with comparing file content.
func trimHeader(s []byte) []byte {
	if !bytes.HasPrefix(s, []byte("//")) {
		return s
	}
	_, after, ok := bytes.Cut(s, []byte{'\n'})
	if ok {
		return after
	}
	return s
}
