package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "hodback",
	Short: "hodback - small-cap Momentum HOD backtester",
	Long: `hodback replays minute-bar history through the Momentum HOD strategy:
small-cap symbols near their high of day are watched, entered on an EMA9
touch-and-bounce confirmation, and managed with scale-out, trailing-stop
and hard-stop exits. The output is a deterministic trade ledger.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
