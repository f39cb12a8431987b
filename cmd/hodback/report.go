package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/newthinker/hodback/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report [results.csv]",
	Short: "Replay a saved trade ledger into summary statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	trades, err := report.ReadCSV(f)
	if err != nil {
		return err
	}
	return report.New(trades).WriteSummary(os.Stdout)
}
