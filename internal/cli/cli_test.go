package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gbkHello = []byte{0xC4, 0xE3, 0xBA, 0xC3}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	args = append([]string{"--env-file", "", "--color", "never"}, args...)
	code := run(context.Background(), root, args, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func fixtureTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"a.txt":      gbkHello,
		"b.txt":      []byte("plain ascii\n"),
		"c.bin":      {0x00, 0x01, 0x02, 0xFF, 0xFE},
		"sub/d.md":   []byte("\xEF\xBB\xBF# title\n"),
		".git/x.txt": gbkHello,
	}
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return dir
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestConvert_DefaultCommand(t *testing.T) {
	dir := fixtureTree(t)
	report := filepath.Join(t.TempDir(), "run.json")

	res := execute(t, "-i", dir, "--exclude", `^\.git/`, "--report", report)

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Converted 1 files")
	assert.Equal(t, "你好", string(readFile(t, filepath.Join(dir, "a.txt"))))
	assert.Equal(t, gbkHello, readFile(t, filepath.Join(dir, ".git", "x.txt")), "excluded")
	assert.Equal(t, []byte{0x00, 0x01, 0x02, 0xFF, 0xFE}, readFile(t, filepath.Join(dir, "c.bin")))
	assert.Contains(t, string(readFile(t, report)), `"converted": 1`)
}

func TestConvert_SubcommandWithFilters(t *testing.T) {
	dir := fixtureTree(t)

	res := execute(t, "convert", "-i", dir, "-e", "gbk", "--extensionw", "md")

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Converted 1 files")
	assert.Equal(t, []byte("# title\n"), readFile(t, filepath.Join(dir, "sub", "d.md")))
	assert.Equal(t, gbkHello, readFile(t, filepath.Join(dir, "a.txt")))
}

func TestConvert_OutputDirectory(t *testing.T) {
	dir := fixtureTree(t)
	out := t.TempDir()

	res := execute(t, "-i", dir, "-o", out, "--extensionb", ".bin,.md")

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "你好", string(readFile(t, filepath.Join(out, "a.txt"))))
	assert.Equal(t, gbkHello, readFile(t, filepath.Join(dir, "a.txt")))
	assert.NoFileExists(t, filepath.Join(out, "b.txt"), "unchanged files are not copied")
}

func TestConvert_DryRun(t *testing.T) {
	dir := fixtureTree(t)

	res := execute(t, "-i", dir, "--dry-run")

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, gbkHello, readFile(t, filepath.Join(dir, "a.txt")))
}

func TestConvert_UnsupportedTargetTouchesNothing(t *testing.T) {
	dir := fixtureTree(t)

	res := execute(t, "-i", dir, "-e", "not-a-real-encoding")

	assert.Equal(t, ExitConfig, res.code)
	assert.Contains(t, res.stderr, "not-a-real-encoding")
	assert.Equal(t, gbkHello, readFile(t, filepath.Join(dir, "a.txt")))
}

func TestConvert_ConfigErrors(t *testing.T) {
	dir := fixtureTree(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing input", nil},
		{"input is a file", []string{"-i", filepath.Join(dir, "a.txt")}},
		{"bad workers", []string{"-i", dir, "-j", "0"}},
		{"bad engine", []string{"-i", dir, "--detector", "magic"}},
		{"bad exclude", []string{"-i", dir, "--exclude", "("}},
		{"bad prefer", []string{"-i", dir, "--prefer", "klingon"}},
		{"unknown flag", []string{"--frobnicate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			assert.Equal(t, ExitConfig, res.code, res.stderr)
		})
	}
	assert.Equal(t, gbkHello, readFile(t, filepath.Join(dir, "a.txt")))
}

func TestConvert_FailedFileExitStatus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cjk.txt")
	data := []byte("中文\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	res := execute(t, "-i", dir, "-e", "windows-1252")

	assert.Equal(t, ExitFailed, res.code)
	assert.Contains(t, res.stderr, "1 of 1 files failed")
	assert.Equal(t, data, readFile(t, path))
}

func TestConvert_ConfigFile(t *testing.T) {
	dir := fixtureTree(t)
	cfgFile := filepath.Join(t.TempDir(), "convenc.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
input = "`+filepath.ToSlash(dir)+`"
encoding = "gbk"
extensionw = [".md"]
`), 0o644))

	res := execute(t, "--config", cfgFile)

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, []byte("# title\n"), readFile(t, filepath.Join(dir, "sub", "d.md")))
}

func TestDetect(t *testing.T) {
	dir := fixtureTree(t)

	res := execute(t, "detect", "-i", dir)

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "a.txt")
	assert.Contains(t, res.stdout, "GBK")
	assert.Contains(t, res.stdout, "detection-failed")
	assert.Contains(t, res.stdout, "would be converted to UTF-8")
	assert.Equal(t, gbkHello, readFile(t, filepath.Join(dir, "a.txt")))
}

func TestEncodings(t *testing.T) {
	res := execute(t, "encodings")

	require.Equal(t, ExitOK, res.code, res.stderr)
	for _, want := range []string{"UTF-8", "Shift_JIS", "cp932", "windows-1251", "EF BB BF"} {
		assert.Contains(t, res.stdout, want)
	}
}

func TestVersion(t *testing.T) {
	res := execute(t, "version")

	require.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "convert-encoding "+Version)
}
