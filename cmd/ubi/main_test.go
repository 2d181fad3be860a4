package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockSmali = `.class public Lbttv/Widget;
.super Ljava/lang/Object;
.field private count:I
.method public constructor <init>()V
.end method
`

const refSmali = `.class public Lbttv/Widget;
.super Ljava/lang/Object;
.field private count:I
.method public constructor <init>(I)V
.end method
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, rel, body string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	mock := writeFile(t, dir, "mock/Widget.smali", mockSmali)
	ref := writeFile(t, dir, "ref/Widget.smali", refSmali)

	out, err := execute(t, "diff", "-f", "line", mock, ref)
	assert.ErrorIs(t, err, errDifferent)
	assert.Contains(t, out, "different\t"+mock)
	assert.Contains(t, out, "method <init>()V\tnot-found")

	out, err = execute(t, "diff", "--ignore-default-constructors", mock, ref)
	require.NoError(t, err)
	assert.Contains(t, out, "ok ")
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	mock := writeFile(t, dir, "Widget.smali", mockSmali)

	out, err := execute(t, "parse", "-f", "line", mock)
	require.NoError(t, err)
	assert.Contains(t, out, "class\tbttv.Widget\tjava.lang.Object\tpublic\n")
	assert.Contains(t, out, "field\tcount\tint\tprivate\t-\n")

	_, err = execute(t, "parse", "-f", "xml", mock)
	assert.ErrorContains(t, err, "unknown format")
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mod/bttv/Widget.smali", mockSmali)
	writeFile(t, dir, "mod/bttv/Extra.smali", ".class Lbttv/Extra;\n")
	writeFile(t, dir, "disass/smali/bttv/Widget.smali", refSmali)
	writeFile(t, dir, "disass/.ubignore", "ignore_not_found: [bttv/Extra.smali]\n")

	mod := filepath.Join(dir, "mod")
	disass := filepath.Join(dir, "disass")

	out, err := execute(t, "check", "--no-diff", "-f", "line", mod, disass)
	assert.ErrorIs(t, err, errDifferent)
	assert.Contains(t, out, "different\tbttv/Widget.smali\n")
	assert.NotContains(t, out, "Extra")
	assert.Contains(t, out, "summary\tok=0\tdifferent=1\tfailed=0\tnot-found=0\n")

	out, err = execute(t, "check", "--no-diff", "--ignore-default-constructors", "--all", "-f", "line", mod, disass)
	require.NoError(t, err)
	assert.Contains(t, out, "ok\tbttv/Widget.smali\n")
}

func TestCheckAARNeedsTools(t *testing.T) {
	_, err := execute(t, "check", "--no-diff", "mock.aar", t.TempDir())
	assert.ErrorContains(t, err, "--dx and --baksmali")
}
