package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/datbuild/internal/dat"
	"github.com/jonathan/datbuild/internal/observability"
)

var checkCmd = &cobra.Command{
	Use:   "check [NAME...]",
	Short: "Validate title descriptors without writing catalogs",
	Long:  "Validates every descriptor matched by the selected catalogs' sources, reporting the first failure of each catalog. No output files are written.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	cfg, entries, err := loadEntries(resolveConfigPath(), args, logger)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	failed := 0
	for _, entry := range entries {
		res, err := dat.Check(cfg.DatConfig(entry), dat.Options{Logger: logger})
		if err != nil {
			failed++
			printer.PrintFailure(entry.Name, err)
			continue
		}
		if verbose {
			printer.PrintCatalog(res)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d games, %d roms OK\n", entry.Name, res.Titles, res.Roms)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d catalogs failed validation", failed, len(entries))
	}
	return nil
}
