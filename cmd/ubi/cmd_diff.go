package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ubi/compare"
	"github.com/dhamidi/ubi/format"
)

func newDiffCmd() *cobra.Command {
	var policy policyFlags
	var outputFormat string

	cmd := &cobra.Command{
		Use:          "diff <mock.smali> <reference.smali>",
		Short:        "Compare two smali files",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ign, err := policy.ignoreList("")
			if err != nil {
				return err
			}

			cfg := compare.Config{Options: policy.options(), Ignore: ign}
			r := cfg.Pair(args[0], args[1])
			if err := enc.EncodeResult(r); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if r.Status != compare.StatusOK {
				return errDifferent
			}
			return nil
		},
	}

	policy.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json, line)")

	return cmd
}
