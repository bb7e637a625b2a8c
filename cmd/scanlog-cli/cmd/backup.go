package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scanlog/internal/application"
	"scanlog/internal/application/commands"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Back up the history to the document host",
	Long: `Upload the whole history as a single JSON document.

The backup document is created on first upload and replaced afterwards.
Requires an access token (see "scanlog-cli token set").`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := GetRuntime()
		res, err := commands.NewUploadCommand(r.Guard, r.Remote, r.Store, r.Session).Execute(context.Background())
		if err != nil {
			return statusErr("upload", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Merge the backed up history into the local one",
	Long: `Fetch the backup document and merge it into the local history.

Records present on both sides are kept once. The local history is
never discarded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := GetRuntime()
		res, err := commands.NewDownloadCommand(r.Guard, r.Remote, r.Store, r.Session).Execute(context.Background())
		if err != nil {
			return statusErr("download", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	},
}

// statusErr replaces protocol errors with the user-facing wording.
// The detailed cause is logged at debug level.
func statusErr(op string, err error) error {
	GetRuntime().Logger.Debugw(op+" failed", "error", err)
	return errors.New(application.StatusMessage(op, err))
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
}
