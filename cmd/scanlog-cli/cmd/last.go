package cmd

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"scanlog/internal/application/commands"
)

var lastCopy bool

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Print the most recent scan",
	Long: `Print the text of the most recent scan.

Examples:
  scanlog-cli last
  scanlog-cli last --copy    # also copy it to the clipboard`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, ok, err := commands.NewLastScanCommand(GetRuntime().Store).Execute(context.Background())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), "No history")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), rec.Text)
		if lastCopy {
			if err := clipboard.WriteAll(rec.Text); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
		}
		return nil
	},
}

func init() {
	lastCmd.Flags().BoolVar(&lastCopy, "copy", false, "copy the text to the clipboard")
	rootCmd.AddCommand(lastCmd)
}
