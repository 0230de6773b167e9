package transpose_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maverickz/ParallelComputing/transpose"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  transpose.Config
		ok   bool
	}{
		{"default", transpose.DefaultConfig(), true},
		{"single worker", transpose.Config{Workers: 1, Dimension: 5}, true},
		{"block of one", transpose.Config{Workers: 4, Dimension: 4}, true},
		{"non power of two", transpose.Config{Workers: 3, Dimension: 9}, true},
		{"zero workers", transpose.Config{Workers: 0, Dimension: 128}, false},
		{"negative dimension", transpose.Config{Workers: 4, Dimension: -4}, false},
		{"not divisible", transpose.Config{Workers: 3, Dimension: 128}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, transpose.ErrBadConfig)
		})
	}
}

func TestConfigBlockSize(t *testing.T) {
	require.Equal(t, 32, transpose.DefaultConfig().BlockSize())
	require.Equal(t, 1, transpose.Config{Workers: 4, Dimension: 4}.BlockSize())
	require.Zero(t, transpose.Config{}.BlockSize())
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "run.toml", "workers = 8\ndimension = 64\n")
	cfg, err := transpose.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, transpose.Config{Workers: 8, Dimension: 64}, cfg)
}

func TestLoadConfigYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "run.yaml", "dimension: 256\n")
	cfg, err := transpose.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, transpose.Config{Workers: transpose.DefaultWorkers, Dimension: 256}, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := transpose.LoadConfig(writeFile(t, "run.json", "{}"))
	require.ErrorIs(t, err, transpose.ErrUnsupportedConfig)

	_, err = transpose.LoadConfig(writeFile(t, "run.toml", "workers = 4\nprocs = 3\n"))
	require.ErrorIs(t, err, transpose.ErrBadConfig)

	_, err = transpose.LoadConfig(writeFile(t, "run.yml", "workers: 3\ndimension: 128\n"))
	require.ErrorIs(t, err, transpose.ErrBadConfig)

	_, err = transpose.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
