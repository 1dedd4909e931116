package main

import (
	"github.com/spf13/cobra"

	"linklint/internal/logger"
	"linklint/internal/store"
)

var (
	// Global flags
	dataPath string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "linklint",
	Short: "Generate and verify randomly linked lists in a pebble store",
	Long: `linklint writes long, randomly keyed linked lists into a local pebble
store and verifies their integrity: every node must be written, and every
prev pointer must land on a node that exists. A verification pass classifies
every key as referenced, unreferenced, or undefined and turns the counts
into a pass/fail verdict.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "./data", "Data directory path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// openStore opens the node store at the configured data path.
func openStore() (*store.Store, error) {
	return store.Open(dataPath)
}
