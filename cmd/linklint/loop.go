package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linklint/internal/generate"
	"linklint/internal/logger"
	"linklint/internal/report"
	"linklint/internal/verify"
)

var (
	loopIterations uint64
	loopNodes      uint64
	loopWidth      uint64
	loopReducers   int
)

var loopCmd = &cobra.Command{
	Use:   "loop",
	Short: "Alternate generate and verify passes as a soak test",
	Long: `loop generates a batch of closed linked-list loops, then verifies the
whole store expecting every node written so far to be referenced, and
repeats. The first failing verdict stops the loop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("open store:\n%w", err)
		}
		defer st.Close()

		total, err := st.Count()
		if err != nil {
			return fmt.Errorf("count store:\n%w", err)
		}

		host, _ := os.Hostname()

		for i := uint64(1); i <= loopIterations; i++ {
			logger.Info("loop iteration", "iteration", i, "of", loopIterations)

			err := generate.Run(cmd.Context(), st, generate.Config{
				Nodes:     loopNodes,
				Width:     loopWidth,
				BatchSize: 1000,
				Client:    fmt.Sprintf("%s-%d-loop%d", host, os.Getpid(), i),
			})
			if err != nil {
				return err
			}

			total += loopNodes

			sink := report.NewMemorySink()

			summary, err := verify.Run(cmd.Context(), st, sink, loopReducers)
			if err != nil {
				return err
			}

			pass, failures, err := summary.Verdict(total)
			if err != nil {
				return err
			}

			if !pass {
				for _, f := range failures {
					logger.Error(f)
				}

				for key, refs := range sink.Records() {
					logger.Error("undefined node", "key", key, "referencedBy", refs)
				}

				return errors.New("verification failed")
			}
		}

		logger.Info("loop complete", "iterations", loopIterations, "totalNodes", total)

		return nil
	},
}

func init() {
	loopCmd.Flags().Uint64Var(&loopIterations, "iterations", 10, "Number of generate+verify iterations")
	loopCmd.Flags().Uint64Var(&loopNodes, "nodes", 100_000, "Nodes generated per iteration")
	loopCmd.Flags().Uint64Var(&loopWidth, "width", 25_000, "Loop length per iteration")
	loopCmd.Flags().IntVar(&loopReducers, "reducers", 4, "Number of reducer workers")
	rootCmd.AddCommand(loopCmd)
}
