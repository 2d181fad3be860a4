// Package compare runs the diff engine over a whole mock smali tree and
// its reference disassembly.
package compare

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/ubi/diff"
	"github.com/dhamidi/ubi/ignore"
	"github.com/dhamidi/ubi/smali"
)

var log = commonlog.GetLogger("ubi.compare")

const smaliExt = ".smali"

type Config struct {
	// ModDir is the root of the mock smali tree.
	ModDir string
	// RefDir holds one smali root per dex file (smali/, smali_classes2/, ...).
	RefDir  string
	Options diff.Options
	Ignore  *ignore.List
	// Only restricts the run to these relative paths. nil means all files.
	Only    []string
	Workers int
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// Files returns the slash separated paths of all smali files below root,
// relative to root, in lexical order.
func Files(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), smaliExt) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}

// FindReference locates rel in refDir itself or in one of its first-level
// subdirectories, tried in lexical order.
func FindReference(refDir, rel string) (string, bool) {
	roots := []string{refDir}
	entries, err := os.ReadDir(refDir)
	if err != nil {
		log.Debugf("read reference dir %s: %v", refDir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			roots = append(roots, filepath.Join(refDir, e.Name()))
		}
	}
	for _, root := range roots {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// Run compares every selected mock file with its reference counterpart.
// Per-file failures are recorded in the results; only a walk error or a
// cancelled context aborts the run.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	files, err := Files(cfg.ModDir)
	if err != nil {
		return nil, err
	}
	if cfg.Only != nil {
		files = filter(files, cfg.Only)
	}
	log.Infof("comparing %d smali files", len(files))

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())
	for i, rel := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = cfg.file(rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := results[:0]
	for _, r := range results {
		if r.Status == StatusNotFound && cfg.Ignore.NotFoundIgnored(r.Path) {
			log.Debugf("ignoring missing reference for %s", r.Path)
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}

func (c Config) file(rel string) Result {
	ref, ok := FindReference(c.RefDir, rel)
	if !ok {
		log.Warningf("not found in reference: %s", rel)
		return Result{Path: rel, Status: StatusNotFound}
	}
	r := c.Pair(filepath.Join(c.ModDir, filepath.FromSlash(rel)), ref)
	r.Path = rel
	if r.Err != nil {
		log.Errorf("%s: %v", rel, r.Err)
	}
	return r
}

// Pair parses and compares two smali files.
func (c Config) Pair(origPath, refPath string) Result {
	orig, err := smali.ParseFile(origPath, c.parseOptions()...)
	if err != nil {
		return Result{Path: origPath, Reference: refPath, Status: StatusFailed, Err: fmt.Errorf("parse %s: %w", origPath, err)}
	}
	r := c.Class(orig, refPath)
	r.Path = origPath
	return r
}

// Class compares an already parsed mock class against the reference file.
func (c Config) Class(orig *smali.Class, refPath string) Result {
	r := Result{Path: orig.Path, Reference: refPath}
	ref, err := smali.ParseFile(refPath, c.parseOptions()...)
	if err != nil {
		r.Status = StatusFailed
		r.Err = fmt.Errorf("parse %s: %w", refPath, err)
		return r
	}
	if d := c.Ignore.Apply(diff.Diff(orig, ref, c.Options)); d != nil {
		r.Status = StatusDifferent
		r.Diff = d
	}
	return r
}

func (c Config) parseOptions() []smali.Option {
	if c.Workers < 1 {
		return nil
	}
	return []smali.Option{smali.WithWorkers(c.Workers)}
}

func filter(files, only []string) []string {
	keep := make(map[string]struct{}, len(only))
	for _, p := range only {
		keep[path.Clean(filepath.ToSlash(p))] = struct{}{}
	}
	return slices.DeleteFunc(files, func(f string) bool {
		_, ok := keep[f]
		return !ok
	})
}

// RelPath is the location of a class's smali file below a smali root, as
// laid out by baksmali.
func RelPath(classPath string) string {
	return strings.ReplaceAll(classPath, ".", "/") + smaliExt
}
