package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scanlog/internal/adapters/editor"
	"scanlog/internal/application"
	"scanlog/internal/application/commands"
)

var (
	exportFile string
	exportOpen bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history as CSV",
	Long: `Write the history to a CSV file with a Timestamp,Content header.

The file starts with a UTF-8 byte order mark so spreadsheet applications
detect the encoding.

Examples:
  scanlog-cli export                 # writes qr-history.csv
  scanlog-cli export -f ~/scans.csv --open`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := GetRuntime()
		res, err := commands.NewExportCommand(r.Store, r.Exporter, exportFile).Execute(context.Background())
		if errors.Is(err, application.ErrEmptyHistory) {
			fmt.Fprintln(cmd.ErrOrStderr(), application.StatusMessage("export", err))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)

		if exportOpen {
			return editor.NewOpener().OpenFile(res.Path)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "output path (default qr-history.csv)")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "open the file after exporting")
	rootCmd.AddCommand(exportCmd)
}
