package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/datbuild/internal/dat"
)

var filenameCmd = &cobra.Command{
	Use:   "filename UID...",
	Short: "Print the descriptor filename expected for each uid",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, uid := range args {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), dat.JSONFilename(uid)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filenameCmd)
}
