package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("", "")
	require.NoError(t, err)
	require.Equal(t, Default(), c)
	require.Equal(t, 8, c.Engine.Workers)
	require.Equal(t, 50000, c.Engine.Paths)
	require.Equal(t, ":8080", c.Server.Address)
}

func TestLoadFile(t *testing.T) {
	path := write(t, "zebra.yaml", `
log:
  level: debug
  format: json
engine:
  paths: 1000
  iv:
    tolerance: 1e-8
server:
  address: 127.0.0.1:9000
  rate_limit: 5
  timeout: 30s
  keys:
    - name: desk
      prefix: dmag_d8K
      hash: $2a$04$abcdefghijklmnopqrstuu
`)
	c, err := Load(path, "")
	require.NoError(t, err)
	require.Equal(t, "debug", c.Log.Level)
	require.Equal(t, "json", c.Log.Format)
	require.Equal(t, 1000, c.Engine.Paths)
	require.Equal(t, 100, c.Engine.Steps)
	require.InDelta(t, 1e-8, c.Engine.IV.Tolerance, 1e-20)
	require.Equal(t, 100, c.Engine.IV.MaxIterations)
	require.Equal(t, "127.0.0.1:9000", c.Server.Address)
	require.Equal(t, 5.0, c.Server.RateLimit)
	require.Equal(t, 30*time.Second, c.Server.Timeout)
	require.Len(t, c.Server.Keys, 1)
	require.Equal(t, "dmag_d8K", c.Server.Keys[0].Prefix)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("ZEBRA_ENGINE_PATHS", "1234")
	t.Setenv("ZEBRA_LOG_LEVEL", "warn")
	path := write(t, "zebra.yaml", "engine:\n  paths: 1000\n")

	c, err := Load(path, "")
	require.NoError(t, err)
	require.Equal(t, 1234, c.Engine.Paths)
	require.Equal(t, "warn", c.Log.Level)
}

func TestDotEnv(t *testing.T) {
	// restored by t.Setenv when the test ends
	t.Setenv("ZEBRA_SERVER_ADDRESS", "")
	require.NoError(t, os.Unsetenv("ZEBRA_SERVER_ADDRESS"))
	env := write(t, ".env", "ZEBRA_SERVER_ADDRESS=:7070\n")

	c, err := Load("", env)
	require.NoError(t, err)
	require.Equal(t, ":7070", c.Server.Address)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	type testCases struct {
		name string
		body string
	}

	for _, test := range []testCases{
		{"BAD_LEVEL", "log:\n  level: loud\n"},
		{"BAD_FORMAT", "log:\n  format: xml\n"},
		{"NEGATIVE_PATHS", "engine:\n  paths: -5\n"},
		{"ONE_STEP_TREE", "engine:\n  tree_steps: 1\n"},
		{"SHORT_PREFIX", "server:\n  keys:\n    - prefix: abc\n      hash: x\n"},
		{"MISSING_HASH", "server:\n  keys:\n    - prefix: dmag_d8K\n"},
		{"BAD_MODE", "server:\n  mode: chaos\n"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(write(t, "zebra.yaml", test.body), "")
			require.ErrorContains(t, err, "config validation failed")
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.ErrorContains(t, err, "read config error")
}
