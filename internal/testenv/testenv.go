// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testenv contains helper functions for skipping tests
// based on which tools are present in the environment.
package testenv

import (
	"os"
	"os/exec"
	"runtime"
	"sync"
	"testing"
	"time"
)

var lookPath = struct {
	sync.Mutex
	errs map[string]error
}{errs: make(map[string]error)}

// NeedsTool skips t if the named tool is not present in the path.
func NeedsTool(t testing.TB, tool string) {
	t.Helper()
	NeedsExec(t)

	lookPath.Lock()
	err, ok := lookPath.errs[tool]
	if !ok {
		_, err = exec.LookPath(tool)
		lookPath.errs[tool] = err
	}
	lookPath.Unlock()

	if err != nil {
		t.Skipf("skipping because %s tool not available: %v", tool, err)
	}
}

// NeedsExec skips t if the test cannot start subprocesses.
func NeedsExec(t testing.TB) {
	t.Helper()
	switch runtime.GOOS {
	case "js", "wasip1", "ios":
		t.Skipf("skipping test: cannot exec subprocess on %s/%s", runtime.GOOS, runtime.GOARCH)
	}
}

// Command is like exec.Command, but the command is interrupted when the
// test finishes and killed if it does not exit promptly after that.
func Command(t testing.TB, name string, args ...string) *exec.Cmd {
	t.Helper()
	NeedsExec(t)

	cmd := exec.CommandContext(t.Context(), name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = 10 * time.Second
	return cmd
}
