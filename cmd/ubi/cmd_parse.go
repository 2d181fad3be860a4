package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ubi/format"
	"github.com/dhamidi/ubi/smali"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var workers int

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse smali files and dump their declarations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var opts []smali.Option
			if workers > 0 {
				opts = append(opts, smali.WithWorkers(workers))
			}
			for _, filename := range args {
				class, err := smali.ParseFile(filename, opts...)
				if err != nil {
					return fmt.Errorf("parse %s: %w", filename, err)
				}
				if err := enc.EncodeClass(class); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json, line)")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Goroutines tokenizing each file (default GOMAXPROCS)")

	return cmd
}
