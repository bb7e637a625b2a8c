package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"scanlog/internal/application/commands"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of recorded scans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := commands.NewCountHistoryCommand(GetRuntime().Store).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}
