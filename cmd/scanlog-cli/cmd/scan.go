package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scanlog/internal/adapters/linereader"
)

var (
	scanFile   string
	scanPrefix string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Record decoded text read line by line",
	Long: `Start a scanning session and record each decoded line.

The same text decoded again within two seconds is recorded once.
The session ends at end of input or on Ctrl+C.

Examples:
  zbarcam --raw | scanlog-cli scan
  scanlog-cli scan -f codes.txt
  zbarimg --quiet photo.png | scanlog-cli scan --prefix QR-Code:`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var in io.Reader = cmd.InOrStdin()
		if scanFile != "" && scanFile != "-" {
			f, err := os.Open(scanFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		session := GetRuntime().Session
		session.Start()
		defer session.Stop()

		admitted, err := session.Consume(ctx, linereader.Events(ctx, in, linereader.WithPrefix(scanPrefix)))
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		out := cmd.OutOrStdout()
		for _, text := range session.Reported() {
			fmt.Fprintln(out, text)
		}
		fmt.Fprintf(out, "Recorded %d scans\n", admitted)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "read decoded text from file instead of stdin")
	scanCmd.Flags().StringVar(&scanPrefix, "prefix", "", "strip this prefix from each line, e.g. QR-Code:")
	rootCmd.AddCommand(scanCmd)
}
