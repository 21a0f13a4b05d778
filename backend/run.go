// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Time allowed for a killed tool's output pipes to drain.
const waitDelay = time.Second

// An outcome holds the result of one external tool run.
type outcome struct {
	stdout   []byte
	stderr   []byte
	exitCode int
	output   string // path the produced binary is expected at
}

// Run an external program in dir and wait for it to exit. A program that
// starts returns an outcome and a nil error whatever its exit code. An
// error is returned when the program could not be started, or when ctx is
// done first, in which case the program and its children are killed.
func run(ctx context.Context, dir, path string, args []string) (*outcome, error) {
	cmd := exec.Command(path, args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		killProcess(cmd)
		<-done
		return &outcome{stdout: stdout.Bytes(), stderr: stderr.Bytes(), exitCode: -1}, ctx.Err()
	case err = <-done:
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			exitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrWaitDelay):
			// The tool exited but a child kept its output open.
			exitCode = cmd.ProcessState.ExitCode()
		default:
			return nil, err
		}
	}

	return &outcome{
		stdout:   stdout.Bytes(),
		stderr:   stderr.Bytes(),
		exitCode: exitCode,
	}, nil
}

// Return the executable name to run for a configured tool path. Windows
// executables need an extension. A relative path containing a separator is
// made absolute, so that it names the same file whatever directory the tool
// runs in. A bare name is left for a PATH search.
func executable(path string) string {
	if runtime.GOOS == "windows" && filepath.Ext(path) == "" {
		path += ".exe"
	}
	if !filepath.IsAbs(path) && strings.ContainsAny(path, `/`+string(filepath.Separator)) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return path
}

// Format a command line for display, quoting arguments where needed.
func commandLine(path string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{path}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
