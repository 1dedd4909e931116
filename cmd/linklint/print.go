package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"linklint/internal/store"
)

var (
	printStart string
	printLimit int
)

// errLimitReached stops a scan early without reporting a failure.
var errLimitReached = errors.New("limit reached")

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Dump nodes starting at a key",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseKey(printStart)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return fmt.Errorf("open store:\n%w", err)
		}
		defer st.Close()

		printed := 0

		err = st.ScanFrom(start, func(n store.Node) error {
			prev := "-"
			if n.HasPrev {
				prev = fmt.Sprintf("%016x", n.Prev)
			}

			fmt.Printf("%016x prev=%s count=%d client=%s\n", n.Key, prev, n.Count, n.Client)

			printed++
			if printed >= printLimit {
				return errLimitReached
			}

			return nil
		})

		if errors.Is(err, errLimitReached) {
			return nil
		}

		return err
	},
}

// parseKey parses a node key given as hex (with or without 0x) or decimal.
func parseKey(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}

	key, err := strconv.ParseUint(s, 0, 64)
	if err == nil {
		return key, nil
	}

	key, err = strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q", s)
	}

	return key, nil
}

func init() {
	printCmd.Flags().StringVar(&printStart, "start", "", "First key to print (hex or decimal, default lowest)")
	printCmd.Flags().IntVar(&printLimit, "limit", 100, "Maximum number of nodes to print")
	rootCmd.AddCommand(printCmd)
}
