package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scanlog/internal/application/commands"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole scan history",
	Long: `Delete every recorded scan.

Warning: This operation cannot be undone. Without --yes you are asked
to confirm first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed := clearYes
		if !confirmed {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", commands.ClearPrompt)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			confirmed = answer == "y" || answer == "yes"
		}
		if !confirmed {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
			return nil
		}

		res, err := commands.NewClearCommand(GetRuntime().Store, true).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(clearCmd)
}
