// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const envPrefix = "PULLSUM"

// Config holds every setting of a run. Values come, in increasing order of
// precedence, from the defaults below, an optional YAML config file,
// PULLSUM_* environment variables, and command-line flags.
type Config struct {
	// Workers is the number of hash workers; zero means one per CPU.
	Workers int `mapstructure:"workers" default:"0"`
	// TasksPerWorker scales the number of files open at once with the
	// number of workers.
	TasksPerWorker int `mapstructure:"tasks_per_worker" default:"3"`
	// MaxOpenFiles, when positive, replaces the derived limit on files open
	// at once.
	MaxOpenFiles     int           `mapstructure:"max_open_files" default:"0"`
	ChunkSize        int           `mapstructure:"chunk_size" default:"1048576"`
	Include          []string      `mapstructure:"include"`
	Exclude          []string      `mapstructure:"exclude"`
	ProgressInterval time.Duration `mapstructure:"progress_interval" default:"5s"`
	Log              LogConfig     `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" default:"warn"`
	Format string `mapstructure:"format" default:"console"`
}

// newViper returns a viper instance reading config files from fsys and
// environment variables with the PULLSUM_ prefix.
func newViper(fsys afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fsys)
	v.SetEnvPrefix(envPrefix)
	// PULLSUM_LOG_LEVEL for log.level
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig resolves the configuration from v. An explicitly named config
// file must exist; otherwise ./.pullsum.yaml is read if present.
func loadConfig(v *viper.Viper, configFile string) (Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return cfg, fmt.Errorf("setting defaults: %w", err)
	}

	// Registering every key as a viper default makes the key visible to
	// AutomaticEnv and lets unchanged flags fall through to it.
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("tasks_per_worker", cfg.TasksPerWorker)
	v.SetDefault("max_open_files", cfg.MaxOpenFiles)
	v.SetDefault("chunk_size", cfg.ChunkSize)
	v.SetDefault("include", cfg.Include)
	v.SetDefault("exclude", cfg.Exclude)
	v.SetDefault("progress_interval", cfg.ProgressInterval)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".pullsum")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	case c.TasksPerWorker < 1:
		return fmt.Errorf("tasks per worker must be at least one, got %d", c.TasksPerWorker)
	case c.MaxOpenFiles < 0:
		return fmt.Errorf("max open files must not be negative, got %d", c.MaxOpenFiles)
	case c.ChunkSize < 1:
		return fmt.Errorf("chunk size must be at least one, got %d", c.ChunkSize)
	}
	return nil
}
