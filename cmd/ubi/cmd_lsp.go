package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ubi/compare"
	"github.com/dhamidi/ubi/lsp"
)

func newLSPCmd() *cobra.Command {
	var policy policyFlags
	var refDir string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg compare.Config
			cfg.RefDir = refDir
			cfg.Options = policy.options()
			if policy.ignoreFile != "" {
				ign, err := policy.ignoreList(refDir)
				if err != nil {
					return err
				}
				cfg.Ignore = ign
			}
			server := lsp.NewServer(version, cfg)
			return server.RunStdio()
		},
	}

	policy.register(cmd)
	cmd.Flags().StringVar(&refDir, "reference-dir", os.Getenv("UBI_REFERENCE_DIR"), "Reference disassembly directory (env UBI_REFERENCE_DIR)")

	return cmd
}
