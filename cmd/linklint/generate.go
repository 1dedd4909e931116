package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linklint/internal/generate"
)

var (
	genNodes  uint64
	genWidth  uint64
	genBatch  uint64
	genClient string
	genSeed   uint64
	genOpen   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write random circular linked lists into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("open store:\n%w", err)
		}
		defer st.Close()

		client := genClient
		if client == "" {
			host, _ := os.Hostname()
			client = fmt.Sprintf("%s-%d", host, os.Getpid())
		}

		return generate.Run(cmd.Context(), st, generate.Config{
			Nodes:     genNodes,
			Width:     genWidth,
			BatchSize: genBatch,
			Client:    client,
			Seed:      genSeed,
			Open:      genOpen,
		})
	},
}

func init() {
	generateCmd.Flags().Uint64Var(&genNodes, "nodes", 1_000_000, "Total number of nodes to write")
	generateCmd.Flags().Uint64Var(&genWidth, "width", 1_000_000, "Loop length; each loop is closed back on itself")
	generateCmd.Flags().Uint64Var(&genBatch, "batch", 1000, "Nodes per store batch")
	generateCmd.Flags().StringVar(&genClient, "client", "", "Client tag written to every node (default host-pid)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "PRNG seed; 0 picks a random one")
	generateCmd.Flags().BoolVar(&genOpen, "open", false, "Leave loops unclosed (one unreferenced tail per loop)")
	rootCmd.AddCommand(generateCmd)
}
