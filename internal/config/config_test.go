package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "ATOMSPACE_DRIVER", "SQLITE_PATH", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	assert.Equal(t, 8080, ServerPort())
	assert.Equal(t, ":8080", ServerAddr())
	assert.Equal(t, DriverMemory, AtomSpaceDriver())
	assert.Equal(t, "pln.db", SQLitePath())
	assert.Equal(t, 100.0, RateLimitRPS())
	assert.Equal(t, 20, RateLimitBurst())
	assert.Equal(t, "info", LogLevel())
}

func TestOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ATOMSPACE_DRIVER", DriverSQLite)
	t.Setenv("RATE_LIMIT_RPS", "-3")

	assert.Equal(t, ":9090", ServerAddr())
	assert.Equal(t, DriverSQLite, AtomSpaceDriver())
	assert.Equal(t, 100.0, RateLimitRPS())
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RULESET_FILE=rules.yaml\n"), 0o600))
	t.Setenv("PLN_ENV", path)
	t.Setenv("RULESET_FILE", "")
	os.Unsetenv("RULESET_FILE")

	require.NoError(t, Load())
	assert.Equal(t, "rules.yaml", RuleSetFile())
}

func writeRuleSet(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRuleSet(t *testing.T) {
	rs, err := LoadRuleSet("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRuleSet(), rs)

	rs, err = LoadRuleSet(writeRuleSet(t, "max_arity: 6\ntransformations: true\n"))
	require.NoError(t, err)
	assert.Equal(t, RuleSet{MinArity: 1, MaxArity: 6, Transformations: true, Simplify: "full"}, rs)

	_, err = LoadRuleSet(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRuleSet_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero min arity", "min_arity: 0\n"},
		{"max below min", "min_arity: 3\nmax_arity: 2\n"},
		{"unknown simplify mode", "simplify: partial\n"},
		{"malformed yaml", "min_arity: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRuleSet(writeRuleSet(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
