package util

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPoolSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 4},
		{2, 4},
		{8, 8},
		{32, 32},
		{48, 32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampPoolSize(tt.in), "clampPoolSize(%d)", tt.in)
	}
}

func TestGetOptimalPoolSize(t *testing.T) {
	t.Setenv(WorkersEnv, "")
	assert.Equal(t, clampPoolSize(runtime.NumCPU()*2), GetOptimalPoolSize())

	t.Setenv(WorkersEnv, "3")
	assert.Equal(t, 3, GetOptimalPoolSize())

	t.Setenv(WorkersEnv, "-1")
	assert.Equal(t, clampPoolSize(runtime.NumCPU()*2), GetOptimalPoolSize())

	t.Setenv(WorkersEnv, "3")
	assert.Equal(t, 7, GetOptimalPoolSizeWithOverride(7))
	assert.Equal(t, 3, GetOptimalPoolSizeWithOverride(0))
}
