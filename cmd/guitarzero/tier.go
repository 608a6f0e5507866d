package main

import (
	"fmt"
	"strconv"

	"github.com/areknoster/guitarzero/domain"

	"github.com/spf13/cobra"
)

var tierLength int

func init() {
	tierCmd.Flags().IntVarP(&tierLength, "length", "n", 30, "round length")
	rootCmd.AddCommand(tierCmd)
}

var tierCmd = &cobra.Command{
	Use:   "tier SCORE",
	Short: "Print the difficulty a previous score selects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		previous, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("score must be a number: %w", err)
		}
		if tierLength <= 0 {
			return fmt.Errorf("round length must be positive, got %d", tierLength)
		}
		fmt.Fprintln(cmd.OutOrStdout(), domain.SelectTier(previous, tierLength))
		return nil
	},
}
