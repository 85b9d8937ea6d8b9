package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobsched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_cores: 8\nscheduling_policy: FAIR_SHARE\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.NumCores)
	assert.Equal(t, "FAIR_SHARE", cfg.SchedulingPolicy)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JOBSCHED_NUM_CORES", "16")
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.NumCores)
}

func TestLoadRejectsNonPositiveCores(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobsched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_cores: 0\n"), 0o644))

	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobsched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduling_policy: MADE_UP\n"), 0o644))

	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestPolicyResolvesSchedulingPolicy(t *testing.T) {
	cfg := Defaults()
	cfg.SchedulingPolicy = "ROUND_ROBIN"
	assert.Equal(t, "ROUND_ROBIN", cfg.Policy().String())
}
