package util

import (
	"os"
	"runtime"
	"strconv"
)

// WorkersEnv overrides the computed pool size when set to a positive integer.
const WorkersEnv = "SYNTAXDOC_WORKERS"

const (
	minPoolSize = 4
	maxPoolSize = 32
)

// GetOptimalPoolSize returns the number of concurrent extraction units.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Parsing runs in tree-sitter through cgo, so two units per core keep the
// CPU busy while a unit is inside a cgo call. The cap bounds the number of
// live parsers, one per unit.
//
// The parser pool and the batch worker pool both size themselves from this
// value so that no worker waits for a parser.
func GetOptimalPoolSize() int {
	if n, err := strconv.Atoi(os.Getenv(WorkersEnv)); err == nil && n > 0 {
		return n
	}
	return clampPoolSize(runtime.NumCPU() * 2)
}

// GetOptimalPoolSizeWithOverride returns override when positive and
// GetOptimalPoolSize otherwise.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}

func clampPoolSize(n int) int {
	return min(max(n, minPoolSize), maxPoolSize)
}
