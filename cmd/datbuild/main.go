// Package main provides the entry point for the datbuild CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/datbuild/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "datbuild",
	Short: "Build DAT catalogs from JSON title descriptors",
	Long: "datbuild converts directories of per-title JSON descriptors (filenames, sizes and checksums) " +
		"into aggregated DAT XML catalogs for archival and verification tools.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", `Path to build configuration file (default "build.json", or $DATBUILD_CONFIG)`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs and catalog summaries")
}

// resolveConfigPath applies the environment and default fallbacks to --config.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if p := os.Getenv(config.EnvPath); p != "" {
		return p
	}
	return config.DefaultPath
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
