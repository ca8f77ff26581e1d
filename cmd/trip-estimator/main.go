// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trip-estimator CLI. It wires the
// spec resolver, the estimate engine and the auto-parameter estimator to
// configuration, secrets and logging, and prints results as a table, JSON
// or YAML.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trip-estimator/internal/logging"
	"github.com/pdiddy/trip-estimator/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// logger is replaced in PersistentPreRunE once configuration is read.
var (
	logger    = logging.Discard()
	logCloser io.Closer
)

// rootCmd is the base command for the trip-estimator CLI.
var rootCmd = &cobra.Command{
	Use:   "trip-estimator",
	Short: "Estimate general-aviation trip time, fuel and cost",
	Long: `trip-estimator estimates flight time, fuel, cost and confidence for a
general-aviation trip from an aircraft identity and a route.

Aircraft performance specs are resolved through an ordered pipeline (specs
API, spec-page scraping, local heuristic) and cached for 90 days in a local
SQLite database. Manual overrides replace cached specs permanently.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		l, closer, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger, logCloser = l, closer
		slog.SetDefault(logger)

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := s.Keys()
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./trip-estimator.yaml or ~/.config/trip-estimator/trip-estimator.yaml)")
	pf.String("cache-dir", "data", "directory holding the spec cache database (empty keeps the cache in memory)")
	pf.String("airports", "", "YAML airports file (default: built-in airports)")
	pf.String("log-dir", "", "write rotating logs to this directory instead of stderr")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")

	viper.BindPFlag("cache.dir", pf.Lookup("cache-dir"))
	viper.BindPFlag("airports_file", pf.Lookup("airports"))
	viper.BindPFlag("log.dir", pf.Lookup("log-dir"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trip-estimator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "trip-estimator"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("TRIP_ESTIMATOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
