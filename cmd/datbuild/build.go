package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/datbuild/internal/config"
	"github.com/jonathan/datbuild/internal/dat"
	"github.com/jonathan/datbuild/internal/observability"
)

var buildCmd = &cobra.Command{
	Use:   "build [NAME...]",
	Short: "Build DAT catalogs",
	Long: `Builds the catalogs named in the configuration file. With no names, or the single
name "all", every configured catalog is built. A catalog is always written, even
when one of its descriptors fails to validate; the failure is then reported and
the command exits non-zero.`,
	RunE: runBuild,
}

var buildJobs int

func init() {
	buildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 1, "Number of catalogs to build in parallel")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	var printer *observability.Printer
	if verbose {
		printer = observability.NewPrinter(cmd.OutOrStdout())
	}
	return buildCatalogs(resolveConfigPath(), args, buildJobs, logger, printer)
}

// buildCatalogs builds every selected entry of the config at cfgPath.
// After the first failure no further catalog is started.
func buildCatalogs(cfgPath string, names []string, jobs int, logger *slog.Logger, printer *observability.Printer) error {
	cfg, entries, err := loadEntries(cfgPath, names, logger)
	if err != nil {
		return err
	}
	if jobs < 1 {
		jobs = 1
	}

	g, gCtx := errgroup.WithContext(context.Background())
	g.SetLimit(jobs)

	var printMu sync.Mutex
	for _, entry := range entries {
		entry := entry // per-iteration copy (go.mod targets Go 1.21 loop semantics)
		g.Go(func() error {
			if gCtx.Err() != nil {
				return nil
			}
			res, err := dat.Create(cfg.DatConfig(entry), dat.Options{Logger: logger})
			if printer != nil {
				printMu.Lock()
				printer.PrintCatalog(res)
				printer.PrintFailure(entry.Name, err)
				printMu.Unlock()
			}
			if err != nil {
				return fmt.Errorf("failed to build %s: %w", entry.Name, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// loadEntries loads the config and resolves the requested names to entries.
func loadEntries(cfgPath string, names []string, logger *slog.Logger) (*config.Config, []config.Entry, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	if unknown := cfg.Unknown(names); len(unknown) > 0 {
		logger.Warn("no configured catalog with name", "names", strings.Join(unknown, ", "))
	}

	entries := cfg.Select(names)
	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("no catalogs selected from %s", cfgPath)
	}
	return cfg, entries, nil
}
