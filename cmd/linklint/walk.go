package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"linklint/internal/logger"
	"linklint/internal/walk"
)

var (
	walkSteps uint64
	walkSeed  uint64
)

var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Follow prev pointers from random starting nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("open store:\n%w", err)
		}
		defer st.Close()

		stats, err := walk.New(st, walkSeed).Walk(cmd.Context(), walkSteps)
		if err != nil {
			return err
		}

		logger.Info("walk complete", "steps", stats.Steps, "holes", stats.Holes)

		if stats.Holes > 0 {
			return fmt.Errorf("walk found %d holes", stats.Holes)
		}

		return nil
	},
}

func init() {
	walkCmd.Flags().Uint64Var(&walkSteps, "steps", 10_000, "Number of prev pointers to follow")
	walkCmd.Flags().Uint64Var(&walkSeed, "seed", 0, "PRNG seed; 0 picks a random one")
	rootCmd.AddCommand(walkCmd)
}
