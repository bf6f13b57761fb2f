package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	w := Default()

	require.NoError(t, w.Validate())
	assert.Len(t, w.Sizes, 10)
	assert.Equal(t, 1000, w.Sizes[0])
	assert.Equal(t, 10000, w.Sizes[9])
	assert.Equal(t, 10, w.Rounds)
	assert.Equal(t, []int{5, 15, 1, 5, 5}, w.Priorities)
	assert.Equal(t, []int64{100, 3, 15, 150, 100}, w.Expiries)
	assert.Equal(t, 1, w.Workers)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "bench.yaml", `
sizes: [10, 20]
rounds: 3
http_addr: ":9090"
verbose: true
`)

	w, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, w.Sizes)
	assert.Equal(t, 3, w.Rounds)
	assert.Equal(t, ":9090", w.HTTPAddr)
	assert.True(t, w.Verbose)
	// untouched fields keep defaults
	assert.Equal(t, []int{5, 15, 1, 5, 5}, w.Priorities)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "bench.toml", `
sizes = [5]
rounds = 2
priorities = [1, 2]
expiries = [7]
workers = 4
`)

	w, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, w.Sizes)
	assert.Equal(t, 2, w.Rounds)
	assert.Equal(t, []int{1, 2}, w.Priorities)
	assert.Equal(t, []int64{7}, w.Expiries)
	assert.Equal(t, 4, w.Workers)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unsupported extension", "bench.json", `{}`, "unsupported file format"},
		{"bad yaml", "bench.yaml", "sizes: [1, 2", "parsing YAML"},
		{"bad toml", "bench.toml", "sizes = [", "parsing TOML"},
		{"invalid size", "bench.yaml", "sizes: [0]", "size 0 must be positive"},
		{"invalid rounds", "bench.toml", "rounds = -1", "rounds -1 must be positive"},
		{"negative expiry", "bench.yaml", "expiries: [-5]", "expiry -5 must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
