// file_io.go - guest path sandboxing for path-based syscalls

package main

import (
	"path/filepath"
	"strings"
)

// pathSandbox resolves guest-supplied paths against a host base directory,
// refusing anything that would escape it. Used by the syscall bridge for
// every path-taking syscall (open, stat, mkdir, unlink, ...) so that a
// guest binary cannot read or write outside the directory it was launched
// against, regardless of "-root" defaulting to "/" for normal use.
type pathSandbox struct {
	baseDir string
}

// newPathSandbox resolves baseDir to an absolute path up front.
func newPathSandbox(baseDir string) *pathSandbox {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		abs = baseDir
	}
	return &pathSandbox{baseDir: abs}
}

// resolve joins a guest path (absolute or relative) onto the sandbox root
// and verifies the result cannot escape it via "..".
func (s *pathSandbox) resolve(guestPath string) (string, bool) {
	if guestPath == "" {
		return "", false
	}

	var joined string
	if filepath.IsAbs(guestPath) {
		joined = filepath.Join(s.baseDir, guestPath)
	} else {
		joined = filepath.Join(s.baseDir, guestPath)
	}

	rel, err := filepath.Rel(s.baseDir, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return joined, true
}
