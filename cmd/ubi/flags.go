package main

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ubi/diff"
	"github.com/dhamidi/ubi/ignore"
)

// policyFlags are shared by every command that runs the diff engine.
type policyFlags struct {
	ignoreDefaultConstructors bool
	ignoreObjectSuper         bool
	compareFinal              bool
	ignoreFile                string
}

func (p *policyFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&p.ignoreDefaultConstructors, "ignore-default-constructors", false, "Do not report mock no-arg constructors missing from the reference")
	cmd.Flags().BoolVar(&p.ignoreObjectSuper, "ignore-object-super", false, "Do not report a super class mismatch when the mock extends java.lang.Object")
	cmd.Flags().BoolVar(&p.compareFinal, "compare-final", false, "Also compare the final flag of fields")
	cmd.Flags().StringVar(&p.ignoreFile, "ignore-file", "", "Ignore list (default: .ubignore in the reference directory, if present)")
}

func (p *policyFlags) options() diff.Options {
	return diff.Options{
		IgnoreDefaultConstructors: p.ignoreDefaultConstructors,
		IgnoreObjectSuper:         p.ignoreObjectSuper,
		CompareFinal:              p.compareFinal,
	}
}

// ignoreList loads --ignore-file, or the default list next to refDir when
// one exists.
func (p *policyFlags) ignoreList(refDir string) (*ignore.List, error) {
	if p.ignoreFile != "" {
		return ignore.Load(p.ignoreFile)
	}
	if refDir == "" {
		return nil, nil
	}
	l, err := ignore.Load(filepath.Join(refDir, ignore.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return l, err
}
