// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the summary-engine CLI.
// Subcommands: summarize, evaluate, runs, strategies, version.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the summary-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "summary-engine",
	Short: "Extractive multi-document summarization of news clusters",
	Long: `summary-engine builds extractive summaries of news-event clusters. Each
cluster is a set of articles about one event; a scoring strategy ranks their
sentences and a budgeted selector assembles the summary.

summarize runs a strategy over a JSONL dataset and writes predictions,
evaluate scores predictions against the reference summaries with ROUGE, and
runs inspects the runs recorded in the SQLite run store.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./summary-engine.yaml or ~/.config/summary-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON lines")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("summary-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "summary-engine"))
		}
	}

	viper.SetEnvPrefix("SUMMARY_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger: console output unless log_json is
// set, debug level with verbose.
func newLogger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	if viper.GetBool("log_json") {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
