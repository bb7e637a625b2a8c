package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scanlog/internal/application/commands"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the document host access token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store the access token",
	Long: `Store the access token used for upload and download.

The token is stored in plaintext in the local database. When no argument
is given it is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value string
		if len(args) == 1 {
			value = args[0]
		} else {
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			value = line
		}

		msg, err := commands.NewSetTokenCommand(GetRuntime().Session, strings.TrimSpace(value)).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the access token, masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cred, err := GetRuntime().Session.Credential(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), commands.MaskToken(cred))
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetRuntime().Session.ClearCredential(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Access token removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenClearCmd)
}
