package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("SYNDIC_TEST_PORT", "9090")
	path := writeFile(t, "name: syndic\nport: ${SYNDIC_TEST_PORT}\n")

	cfg := testConfig{Port: 1}
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, testConfig{Name: "syndic", Port: 9090}, cfg)
}

func TestLoadKeepsUnsetFields(t *testing.T) {
	path := writeFile(t, "name: other\n")

	cfg := testConfig{Name: "default", Port: 8080}
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, "other", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadValidates(t *testing.T) {
	path := writeFile(t, "port: 0\n")

	cfg := testConfig{Port: 8080}
	err := Load(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFile(t, "port: [\n")
	require.Error(t, Load(path, &testConfig{}))
}

func TestLoadIfExists(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	cfg := testConfig{Name: "default", Port: 8080}
	found, err := LoadIfExists(missing, &cfg)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, testConfig{Name: "default", Port: 8080}, cfg)

	found, err = LoadIfExists(missing, &testConfig{})
	assert.False(t, found)
	assert.Error(t, err, "defaults are still validated")

	path := writeFile(t, "port: 7000\n")
	found, err = LoadIfExists(path, &cfg)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7000, cfg.Port)
}
