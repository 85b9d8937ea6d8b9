// Package config loads scheduler settings from defaults, an optional
// config file, environment variables, and CLI flags, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ahmadhassan44/jobsched/internal/policy"
)

// Config holds every scheduler tunable.
type Config struct {
	NumCores          int
	MaxConcurrentJobs int
	LogPath           string
	SchedulingPolicy  string
	CompletedCapacity int
	CPUAffinity       bool
}

// Defaults detects the logical CPU count at call time; everything else
// is a fixed baseline. max_concurrent_jobs defaults to twice the core
// count.
func Defaults() Config {
	cores := runtime.NumCPU()
	return Config{
		NumCores:          cores,
		MaxConcurrentJobs: 2 * cores,
		LogPath:           "logs/job_log.csv",
		SchedulingPolicy:  "PRIORITY_FIRST",
		CompletedCapacity: 1000,
		CPUAffinity:       false,
	}
}

// Load builds a viper instance seeded with Defaults, an optional config
// file, a JOBSCHED_-prefixed environment layer, and flags bound from fs
// (if non-nil) — each layer overriding the one before it, viper's
// standard precedence order.
func Load(configPath string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	d := Defaults()

	v.SetDefault("num_cores", d.NumCores)
	v.SetDefault("max_concurrent_jobs", d.MaxConcurrentJobs)
	v.SetDefault("log_path", d.LogPath)
	v.SetDefault("scheduling_policy", d.SchedulingPolicy)
	v.SetDefault("completed_capacity", d.CompletedCapacity)
	v.SetDefault("cpu_affinity", d.CPUAffinity)

	v.SetEnvPrefix("JOBSCHED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", configPath, err)
		}
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	cfg := Config{
		NumCores:          v.GetInt("num_cores"),
		MaxConcurrentJobs: v.GetInt("max_concurrent_jobs"),
		LogPath:           v.GetString("log_path"),
		SchedulingPolicy:  v.GetString("scheduling_policy"),
		CompletedCapacity: v.GetInt("completed_capacity"),
		CPUAffinity:       v.GetBool("cpu_affinity"),
	}

	if cfg.NumCores <= 0 {
		return Config{}, fmt.Errorf("config: num_cores must be positive, got %d", cfg.NumCores)
	}
	if _, ok := policy.Parse(cfg.SchedulingPolicy); !ok {
		return Config{}, fmt.Errorf("config: unrecognized scheduling_policy %q", cfg.SchedulingPolicy)
	}

	return cfg, nil
}

// Policy resolves the configured scheduling policy name, defaulting to
// PriorityFirst on anything unrecognized (Load already rejects that case,
// this is a convenience for callers holding a Config value directly).
func (c Config) Policy() policy.Policy {
	p, _ := policy.Parse(c.SchedulingPolicy)
	return p
}

// Cores, MaxConcurrent, CompletedCap, SchedPolicy, and Affinity satisfy
// internal/scheduler's configLike interface, used by NewFromConfig.
func (c Config) Cores() int                 { return c.NumCores }
func (c Config) MaxConcurrent() int         { return c.MaxConcurrentJobs }
func (c Config) CompletedCap() int          { return c.CompletedCapacity }
func (c Config) SchedPolicy() policy.Policy { return c.Policy() }
func (c Config) Affinity() bool             { return c.CPUAffinity }
