package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/ubi/aar"
	"github.com/dhamidi/ubi/compare"
	"github.com/dhamidi/ubi/format"
	"github.com/dhamidi/ubi/gitdiff"
)

func newCheckCmd() *cobra.Command {
	var policy policyFlags
	var outputFormat string
	var showAll bool
	var noDiff bool
	var baseTag, updateTag string
	var workers int
	var tools aar.Tools
	var workDir string

	cmd := &cobra.Command{
		Use:   "check <mod> <disass-dir>",
		Short: "Compare a mock smali tree (or .aar) against a reference disassembly",
		Long: `Compare every smali file of the mock build with its counterpart in the
reference disassembly directory. <mod> is either a smali root or the mock
.aar, which is converted with dx and baksmali first.

Unless --no-diff is given, only files that changed between the base and
update tags of the disassembly repository are compared.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := commonlog.GetLogger("ubi.check")
			ctx := cmd.Context()
			modDir, refDir := args[0], args[1]

			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if filepath.Ext(modDir) == ".aar" {
				if tools.DX == "" || tools.Baksmali == "" {
					return fmt.Errorf("checking an .aar requires --dx and --baksmali")
				}
				if workDir == "" {
					workDir, err = os.MkdirTemp("", "ubi-")
					if err != nil {
						return fmt.Errorf("create work dir: %w", err)
					}
				}
				modDir, err = tools.Prepare(ctx, modDir, workDir)
				if err != nil {
					return fmt.Errorf("prepare %s: %w", args[0], err)
				}
				log.Infof("disassembled mock into %s", modDir)
			}

			ign, err := policy.ignoreList(refDir)
			if err != nil {
				return err
			}

			cfg := compare.Config{
				ModDir:  modDir,
				RefDir:  refDir,
				Options: policy.options(),
				Ignore:  ign,
				Workers: workers,
			}
			if !noDiff {
				cfg.Only, err = gitdiff.Changed(ctx, refDir, baseTag, updateTag)
				if err != nil {
					return err
				}
			}

			results, err := compare.Run(ctx, cfg)
			if err != nil {
				return err
			}
			for _, r := range results {
				if r.Status == compare.StatusOK && !showAll {
					continue
				}
				if err := enc.EncodeResult(r); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			}
			summary := compare.Summarize(results)
			if err := enc.EncodeSummary(summary); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if !summary.Clean() {
				return errDifferent
			}
			return nil
		},
	}

	policy.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json, line)")
	cmd.Flags().BoolVar(&showAll, "all", false, "Also list files without differences")
	cmd.Flags().BoolVar(&noDiff, "no-diff", false, "Compare all files instead of those changed between the tags")
	cmd.Flags().StringVar(&baseTag, "base-tag", gitdiff.DefaultBase, "Tag of the previous reference disassembly")
	cmd.Flags().StringVar(&updateTag, "update-tag", gitdiff.DefaultUpdate, "Tag of the current reference disassembly")
	cmd.Flags().IntVarP(&workers, "workers", "j", runtime.GOMAXPROCS(0), "Number of files compared in parallel")
	cmd.Flags().StringVar(&tools.DX, "dx", "", "Path to the dx script (for .aar input)")
	cmd.Flags().StringVar(&tools.Baksmali, "baksmali", "", "Path to baksmali.jar (for .aar input)")
	cmd.Flags().StringVar(&workDir, "work-dir", "", "Directory for intermediate files (default: a new temporary directory)")

	return cmd
}
