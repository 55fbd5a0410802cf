// Package stacktrace trims goroutine dumps down to the frames that belong to
// this module, which keeps panic logs readable.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// a debug.Stack dump that points into an internal package.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		// file lines are tab-indented: "\t/abs/path/file.go:42 +0x1d"
		line := strings.TrimSpace(sc.Text())
		if !strings.Contains(line, ".go:") {
			continue
		}

		idx := strings.Index(line, marker)
		if idx == -1 {
			continue
		}

		loc, _, _ := strings.Cut(line[idx+1:], " ")
		paths = append(paths, loc)
	}

	return paths
}
