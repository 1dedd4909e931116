package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"linklint/internal/logger"
)

var (
	deleteCount uint64
	deleteKey   string
	deleteSeed  uint64
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete nodes to manufacture holes for the verifier",
	Long: `delete removes nodes without touching anything that points at them,
leaving dangling prev pointers behind. A subsequent verify pass should
report the deleted keys as undefined.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("open store:\n%w", err)
		}
		defer st.Close()

		if deleteKey != "" {
			key, err := parseKey(deleteKey)
			if err != nil {
				return err
			}

			logger.Info("deleting node", "key", fmt.Sprintf("%016x", key))

			return st.Delete(key)
		}

		seed := deleteSeed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng := rand.New(rand.NewPCG(seed, 0))

		for i := uint64(0); i < deleteCount; i++ {
			n, ok, err := st.SeekCeiling(rng.Uint64() & (1<<63 - 1))
			if err != nil {
				return err
			}

			if !ok {
				logger.Warn("store is empty, nothing to delete")
				return nil
			}

			logger.Info("deleting node", "key", fmt.Sprintf("%016x", n.Key))

			if err := st.Delete(n.Key); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	deleteCmd.Flags().Uint64Var(&deleteCount, "count", 1, "Number of random nodes to delete")
	deleteCmd.Flags().StringVar(&deleteKey, "key", "", "Delete this specific key instead of random ones")
	deleteCmd.Flags().Uint64Var(&deleteSeed, "seed", 0, "PRNG seed; 0 picks a random one")
	rootCmd.AddCommand(deleteCmd)
}
