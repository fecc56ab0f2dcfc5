package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTab = "x\ty\tz\tgroup\n" +
	"c\tc\tc\td\n" +
	"\t\t\tclass\n" +
	"0.0\t0.1\t1.0\ta\n" +
	"0.2\t0.0\t0.9\ta\n" +
	"5.0\t5.1\t0.2\tb\n" +
	"5.2\t4.9\t?\tb\n" +
	"9.0\t0.5\t0.5\tc\n"

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// workspace moves the test into a temporary directory holding sample.tab and
// points the default cache there.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	require.NoError(t, os.WriteFile("sample.tab", []byte(sampleTab), 0o644))
	return dir
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"translate", "cluster", "render", "cache", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestTranslateCommands(t *testing.T) {
	workspace(t)

	_, err := execute(t, "translate", "analyse", "sample.tab")
	require.NoError(t, err)
	require.FileExists(t, "sample.model.toml")

	_, err = execute(t, "translate", "apply", "sample.model.toml", "sample.tab", "-o", "rows.csv")
	require.NoError(t, err)
	csv, err := os.ReadFile("rows.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	assert.Equal(t, "x,y,z,class", lines[0])
	assert.Len(t, lines, 6)

	_, err = execute(t, "translate", "apply", "sample.model.toml", "sample.tab", "-e", "libsvm", "--target", "svm", "-o", "rows.svm")
	require.NoError(t, err)
	svm, err := os.ReadFile("rows.svm")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(svm)), "\n"), 5)

	out, err := execute(t, "translate", "describe", "sample.model.toml")
	require.NoError(t, err)
	for _, col := range []string{"x", "y", "z", "group"} {
		assert.Contains(t, out, col)
	}

	out, err = execute(t, "translate", "decode", "sample.model.toml", "0", "0.5", "1")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", out)
}

func TestWriteRowsReportsCloseFailure(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "rows.csv")
	err := writeRows(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "x\n")
		return err
	})
	require.NoError(t, err)
	assert.FileExists(t, path)

	// closing the file early makes the deferred close fail
	err = writeRows(filepath.Join(dir, "closed.csv"), func(w io.Writer) error {
		return w.(*os.File).Close()
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close")

	err = writeRows(filepath.Join(dir, "missing", "rows.csv"), func(io.Writer) error { return nil })
	assert.Error(t, err)
}

func TestTranslateAnalyseOptions(t *testing.T) {
	workspace(t)

	_, err := execute(t, "translate", "analyse", "sample.tab", "--mode", "binarize", "--target", "svm", "-o", "m.toml")
	require.NoError(t, err)
	model, err := os.ReadFile("m.toml")
	require.NoError(t, err)
	assert.Contains(t, string(model), "binarize")

	_, err = execute(t, "translate", "analyse", "sample.tab", "--mode", "nope")
	assert.Error(t, err)

	_, err = execute(t, "translate", "analyse", "sample.tab", "--weight", "w")
	assert.Error(t, err, "unknown weight meta")

	_, err = execute(t, "translate", "apply", "m.toml", "sample.tab", "-e", "xml")
	assert.Error(t, err)
}

func TestTranslateAnalyseReadsConfigFile(t *testing.T) {
	workspace(t)
	require.NoError(t, os.WriteFile("orngkit.yaml", []byte("mode: auto\n"), 0o644))

	_, err := execute(t, "translate", "analyse", "sample.tab")
	require.NoError(t, err)
	model, err := os.ReadFile("sample.model.toml")
	require.NoError(t, err)
	assert.Contains(t, string(model), "auto")
}

func TestClusterAndRender(t *testing.T) {
	workspace(t)

	_, err := execute(t, "cluster", "sample.tab", "-f", "png,json", "--heatmap", "--clusters", "2")
	require.NoError(t, err)

	img, err := os.ReadFile("sample.png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic), "sample.png is not a PNG")
	require.FileExists(t, "sample.json")

	_, err = execute(t, "render", "sample.json", "--data", "sample.tab", "-o", "again.png")
	require.NoError(t, err)
	img, err = os.ReadFile("again.png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic), "again.png is not a PNG")

	_, err = execute(t, "render", "sample.json", "--renderer", "nodelink", "-f", "svg")
	require.NoError(t, err)
	svg, err := os.ReadFile("sample.svg")
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestClusterAttributesWithPlot(t *testing.T) {
	workspace(t)

	_, err := execute(t, "cluster", "sample.tab", "--attributes", "--renderer", "plot", "-f", "svg", "-o", "attrs.svg", "--no-cache")
	require.NoError(t, err)
	svg, err := os.ReadFile("attrs.svg")
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestClusterRejectsBadOptions(t *testing.T) {
	workspace(t)

	tests := [][]string{
		{"cluster", "sample.tab", "--linkage", "centroid"},
		{"cluster", "sample.tab", "--renderer", "image", "-f", "svg"},
		{"cluster", "sample.tab", "--measure", "cosine"},
		{"cluster", "missing.tab"},
	}
	for _, args := range tests {
		_, err := execute(t, args...)
		assert.Error(t, err, strings.Join(args, " "))
	}
}

func TestCacheCommands(t *testing.T) {
	dir := workspace(t)

	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache", "orngkit"), strings.TrimSpace(out))

	_, err = execute(t, "cluster", "sample.tab")
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(dir, "cache", "orngkit"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries, "cluster should populate the cache")

	_, err = execute(t, "cache", "clear")
	require.NoError(t, err)

	_, err = execute(t, "cache", "clear", "--no-cache")
	require.NoError(t, err)
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "orngkit")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
