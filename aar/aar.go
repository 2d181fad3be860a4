// Package aar turns a mock build's .aar into a smali tree using dx and
// baksmali.
package aar

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("ubi.aar")

var ErrNoClassesJar = errors.New("archive has no classes.jar")

const classesJar = "classes.jar"

// ToolError reports a failed external tool together with everything it
// printed.
type ToolError struct {
	Tool   string
	Err    error
	Output []byte
}

func (e *ToolError) Error() string {
	out := bytes.TrimSpace(e.Output)
	if len(out) == 0 {
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Tool, e.Err, out)
}

func (e *ToolError) Unwrap() error { return e.Err }

type Tools struct {
	// DX is the dx launcher script, run through Shell.
	DX string
	// Baksmali is the baksmali jar, run through Java.
	Baksmali string
	Shell    string
	Java     string
}

func (t Tools) shell() string {
	if t.Shell == "" {
		return "sh"
	}
	return t.Shell
}

func (t Tools) java() string {
	if t.Java == "" {
		return "java"
	}
	return t.Java
}

// Prepare converts aarPath into smali files below workDir and
// returns the resulting smali root.
func (t Tools) Prepare(ctx context.Context, aarPath, workDir string) (string, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	jar, err := ExtractClassesJar(aarPath, workDir)
	if err != nil {
		return "", err
	}
	dex := filepath.Join(workDir, "classes.dex")
	if err := t.Dex(ctx, jar, dex); err != nil {
		return "", err
	}
	out := filepath.Join(workDir, "smali")
	if err := os.RemoveAll(out); err != nil {
		return "", fmt.Errorf("clear smali dir: %w", err)
	}
	if err := t.Disassemble(ctx, dex, out); err != nil {
		return "", err
	}
	return out, nil
}

// ExtractClassesJar copies the classes.jar entry of the archive at
// aarPath into dir.
func ExtractClassesJar(aarPath, dir string) (string, error) {
	zr, err := zip.OpenReader(aarPath)
	if err != nil {
		return "", fmt.Errorf("open aar: %w", err)
	}
	defer zr.Close()

	f, err := zr.Open(classesJar)
	if err != nil {
		return "", fmt.Errorf("%s: %w", aarPath, ErrNoClassesJar)
	}
	defer f.Close()

	dst := filepath.Join(dir, classesJar)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	n, err := io.Copy(out, f)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", classesJar, err)
	}
	log.Debugf("extracted %s (%d bytes) to %s", classesJar, n, dst)
	return dst, nil
}

// Dex runs "dx --dex --output=<dex> <jar>".
func (t Tools) Dex(ctx context.Context, jar, dex string) error {
	return run(ctx, "dx", t.shell(), t.DX, "--dex", "--output="+dex, jar)
}

// Disassemble runs "baksmali d <dex> -o <dir>".
func (t Tools) Disassemble(ctx context.Context, dex, dir string) error {
	return run(ctx, "baksmali", t.java(), "-jar", t.Baksmali, "d", dex, "-o", dir)
}

func run(ctx context.Context, tool, name string, args ...string) error {
	log.Infof("running %s", tool)
	log.Debugf("+ %s %q", name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &ToolError{Tool: tool, Err: err, Output: out}
	}
	if len(out) > 0 {
		log.Debugf("%s output: %s", tool, bytes.TrimSpace(out))
	}
	return nil
}
