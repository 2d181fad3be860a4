// Package gitdiff lists the smali files that changed between two tags of
// the reference disassembly repository.
package gitdiff

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("ubi.gitdiff")

const (
	DefaultBase   = "base"
	DefaultUpdate = "update"
)

// Changed runs git in repo and returns the changed smali paths relative to
// their smali root. Renames count as a deletion plus an addition, so both
// names are reported.
func Changed(ctx context.Context, repo, base, update string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", repo, "diff", "--name-only", "--no-renames",
		"refs/tags/"+base, "refs/tags/"+update, "--")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff %s..%s: %w: %s", base, update, err, strings.TrimSpace(stderr.String()))
	}
	paths := SmaliPaths(out)
	log.Infof("%d smali files changed between %s and %s", len(paths), base, update)
	return paths, nil
}

// SmaliPaths filters "git diff --name-only" output down to smali files and
// strips the leading dex directory from each path. The result is sorted
// without duplicates. It is never nil, so an empty change set selects
// nothing.
func SmaliPaths(out []byte) []string {
	paths := []string{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasSuffix(line, ".smali") {
			continue
		}
		_, rel, ok := strings.Cut(line, "/")
		if !ok {
			log.Debugf("skipping %s outside any smali root", line)
			continue
		}
		paths = append(paths, rel)
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}
