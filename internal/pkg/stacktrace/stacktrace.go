// Package stacktrace trims goroutine dumps down to this module's frames.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns the "internal/<pkg>/<file>.go:<line>" locations found
// in a debug.Stack dump, in call order.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.SplitSeq(string(stack), "\n") {
		line = strings.TrimSpace(line)

		loc, _, _ := strings.Cut(line, " ")
		if !strings.Contains(loc, ".go:") {
			continue
		}

		idx := strings.Index(loc, marker)
		if idx == -1 {
			continue
		}
		paths = append(paths, loc[idx+1:])
	}
	return paths
}
