// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd(fsys afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	v := newViper(fsys)
	var configFile string

	cmd := &cobra.Command{
		Use:   "pullsum [flags] DIR",
		Short: "Print chunked SHA-256 digests of the files under a directory",
		Long: `pullsum walks DIR and prints one "<digest>  <path>" line per file, sorted
by path. Files are split into fixed-size chunks that a pool of workers hashes
concurrently; the chunk digests of a file are combined in order into its
digest, so the result does not depend on the number of workers.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, configFile)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log, stderr)
			defer func() { _ = logger.Sync() }()
			defer zap.ReplaceGlobals(logger)()

			return run(cmd.Context(), cfg, fsys, args[0], stdout, stderr, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (default is ./.pullsum.yaml)")
	flags.IntP("workers", "w", 0, "number of hash workers (default one per CPU)")
	flags.Int("tasks-per-worker", 0, "files open at once per worker (default 3)")
	flags.Int("max-open-files", 0, "fixed limit on files open at once, overriding --tasks-per-worker")
	flags.Int("chunk-size", 0, "chunk size in bytes (default 1MiB)")
	flags.StringSlice("include", nil, "only hash files matching these doublestar patterns")
	flags.StringSlice("exclude", nil, "skip files and directories matching these doublestar patterns")
	flags.Duration("progress-interval", 0, "how often to log progress at info level; 0 disables (default 5s)")
	flags.String("log-level", "", "log level: debug, info, warn, or error (default warn)")
	flags.String("log-format", "", "log format: console or json (default console)")

	for key, flag := range map[string]string{
		"workers":           "workers",
		"tasks_per_worker":  "tasks-per-worker",
		"max_open_files":    "max-open-files",
		"chunk_size":        "chunk-size",
		"include":           "include",
		"exclude":           "exclude",
		"progress_interval": "progress-interval",
		"log.level":         "log-level",
		"log.format":        "log-format",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}
