package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scanlog/internal/application/commands"
	"scanlog/internal/domain"
)

var (
	historyLimit  int
	historyOffset int
	historyQuery  string
	historyOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the scan history, newest first",
	Long: `List recorded scans, newest first.

Examples:
  scanlog-cli history
  scanlog-cli history --limit 20 --offset 20
  scanlog-cli history -q example.com
  scanlog-cli history -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutputOpts(historyOutput); err != nil {
			return err
		}
		ctx := context.Background()
		store := GetRuntime().Store

		var records domain.HistoryLog
		var total int
		if historyQuery != "" {
			results, err := commands.NewSearchHistoryCommand(store, historyQuery).Execute(ctx)
			if err != nil {
				return err
			}
			for _, r := range results {
				records = append(records, r.ScanRecord)
			}
			total = len(records)
			records = commands.Window(records, historyOffset, historyLimit)
		} else {
			page, err := commands.NewListHistoryCommand(store, historyLimit, historyOffset).Execute(ctx)
			if err != nil {
				return err
			}
			records, total = page.Records, page.Total
		}

		return printRecords(cmd, historyOutput, records, total)
	},
}

func printRecords(cmd *cobra.Command, outputFormat string, records domain.HistoryLog, total int) error {
	out := cmd.OutOrStdout()
	if records == nil {
		records = domain.HistoryLog{}
	}

	switch outputFormat {
	case "":
		tw := table.NewWriter()
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateFooter = false
		tw.Style().Options.SeparateHeader = false
		tw.Style().Options.SeparateRows = false

		tw.AppendHeader(table.Row{"TIMESTAMP", "CONTENT"})
		for _, rec := range records {
			tw.AppendRow(table.Row{displayTime(rec), rec.Text})
		}
		fmt.Fprintf(out, "History (%d items)\n", total)
		fmt.Fprintln(out, tw.Render())
	case "json":
		marshalled, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return errors.New("marshal JSON")
		}
		fmt.Fprintln(out, string(marshalled))
	case "yaml":
		marshalled, err := yaml.Marshal(records)
		if err != nil {
			return errors.New("marshal YAML")
		}
		fmt.Fprint(out, string(marshalled))
	default:
		return errors.New("unknown output format")
	}
	return nil
}

func displayTime(rec domain.ScanRecord) string {
	t, ok := rec.Time()
	if !ok {
		return rec.Timestamp
	}
	return t.Local().Format(GetRuntime().Config.CSVTimeLayout)
}

func validateOutputOpts(output string) error {
	if output != "" && output != "yaml" && output != "json" {
		return errors.New(`--output must be 'yaml' or 'json'`)
	}
	return nil
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of records (0 for all)")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "number of records to skip")
	historyCmd.Flags().StringVarP(&historyQuery, "query", "q", "", "fuzzy filter on the scanned text")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "output format: json or yaml")
	rootCmd.AddCommand(historyCmd)
}
