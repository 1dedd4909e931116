package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"linklint/internal/logger"
	"linklint/internal/report"
	"linklint/internal/verify"
)

var (
	verifyOutput   string
	verifyReducers int
	verifyExpected uint64
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify every prev pointer and decide pass/fail",
	Long: `verify scans every stored node once, groups the emitted definition and
reference signals by key, classifies every key, and writes one diagnostic
line per undefined key to the output file (zstd-compressed when the path
ends in .zst). The pass succeeds only if the referenced count equals
--expected-referenced and nothing is unreferenced or undefined.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("open store:\n%w", err)
		}
		defer st.Close()

		sink, err := report.NewFileSink(verifyOutput)
		if err != nil {
			return err
		}

		summary, err := verify.Run(cmd.Context(), st, sink, verifyReducers)

		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close diagnostics:\n%w", cerr)
		}

		if err != nil {
			return err
		}

		return printVerdict(summary, verifyExpected)
	},
}

// printVerdict prints the counters and the verdict, returning an error on
// FAIL so the process exits non-zero.
func printVerdict(summary *verify.Summary, expected uint64) error {
	c := summary.Counters

	fmt.Printf("REFERENCED=%d\nUNREFERENCED=%d\nUNDEFINED=%d\nCORRUPT=%d\n",
		c.Referenced, c.Unreferenced, c.Undefined, c.Corrupt)

	pass, failures, err := summary.Verdict(expected)
	if err != nil {
		return err
	}

	if !pass {
		for _, f := range failures {
			logger.Error(f)
		}

		fmt.Println("FAILED")

		return errors.New("verification failed")
	}

	fmt.Println("PASSED")

	return nil
}

func init() {
	verifyCmd.Flags().StringVar(&verifyOutput, "output", "verify.out", "Diagnostics output file (.zst enables compression)")
	verifyCmd.Flags().IntVar(&verifyReducers, "reducers", runtime.NumCPU(), "Number of reducer workers")
	verifyCmd.Flags().Uint64Var(&verifyExpected, "expected-referenced", 0, "Expected number of referenced nodes")
	verifyCmd.MarkFlagRequired("expected-referenced")
	rootCmd.AddCommand(verifyCmd)
}
