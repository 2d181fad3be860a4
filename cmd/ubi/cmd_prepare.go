package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ubi/aar"
)

func newPrepareCmd() *cobra.Command {
	var tools aar.Tools

	cmd := &cobra.Command{
		Use:   "prepare <mock.aar> <work-dir>",
		Short: "Disassemble a mock .aar into a smali tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := tools.Prepare(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&tools.DX, "dx", "", "Path to the dx script")
	cmd.Flags().StringVar(&tools.Baksmali, "baksmali", "", "Path to baksmali.jar")
	cmd.Flags().StringVar(&tools.Java, "java", "java", "Java launcher used to run baksmali")
	cmd.MarkFlagRequired("dx")
	cmd.MarkFlagRequired("baksmali")

	return cmd
}
