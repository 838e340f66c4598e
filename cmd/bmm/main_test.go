package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/dhth/bmm-sub000/internal/logging"
)

// execute runs the root command with isolated XDG directories.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	logging.Close()
	return out.String(), err
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("BMM_DB_PATH", "")
	t.Setenv("BMM_DEBUG", "")
	return dir
}

func TestCLI_SaveListSearchDelete(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "save", "https://github.com/dhth/bmm", "--title", "bmm", "--tags", "tools,rust")
	assert.NilError(t, err)
	_, err = execute(t, "save-all", "https://go.dev", "https://pkg.go.dev", "--tags", "golang")
	assert.NilError(t, err)

	out, err := execute(t, "list", "--tags", "golang", "--format", "plain")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "https://go.dev\n"))
	assert.Check(t, is.Contains(out, "https://pkg.go.dev\n"))
	assert.Check(t, !strings.Contains(out, "github.com"))

	out, err = execute(t, "search", "rust", "bmm", "--format", "delimited")
	assert.NilError(t, err)
	assert.Equal(t, out, "uri,title,tags\nhttps://github.com/dhth/bmm,bmm,\"rust,tools\"\n")

	out, err = execute(t, "tags", "list", "--show-stats", "--format", "plain")
	assert.NilError(t, err)
	assert.Equal(t, out, "golang (2)\nrust (1)\ntools (1)\n")

	out, err = execute(t, "delete", "https://go.dev", "https://pkg.go.dev")
	assert.NilError(t, err)
	assert.Equal(t, out, "deleted 2 bookmarks\n")

	out, err = execute(t, "tags", "list", "--show-stats=false", "--format", "plain")
	assert.NilError(t, err)
	assert.Equal(t, out, "rust\ntools\n")

	_, err = os.Stat(filepath.Join(dir, "data", "bmm", "bmm.db"))
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(dir, "state", "bmm", "bmm.log"))
	assert.NilError(t, err)
}

func TestCLI_ImportDryRunDoesNotSave(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "urls.txt")
	assert.NilError(t, os.WriteFile(file, []byte("# list\nhttps://a.dev\nhttps://b.dev\n"), 0o644))

	out, err := execute(t, "import", file, "--dry-run")
	assert.NilError(t, err)
	assert.Equal(t, out, "https://a.dev\nhttps://b.dev\nwould import 2 bookmarks\n")

	out, err = execute(t, "list", "--format", "plain")
	assert.NilError(t, err)
	assert.Equal(t, out, "")

	out, err = execute(t, "import", file, "--dry-run=false")
	assert.NilError(t, err)
	assert.Equal(t, out, "imported 2 bookmarks\n")
}

func TestCLI_Errors(t *testing.T) {
	isolate(t)

	_, err := execute(t, "show", "https://missing.dev")
	assert.ErrorContains(t, err, "does not exist")

	_, err = execute(t, "search", " ")
	assert.ErrorContains(t, err, "query is empty")

	_, err = execute(t, "list", "--format", "yaml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "save", "https://x.dev", "--tags", "not valid")
	assert.ErrorContains(t, err, "invalid tag")
}

func TestCLI_DBPathFlagWins(t *testing.T) {
	dir := isolate(t)
	custom := filepath.Join(dir, "custom", "my.db")
	t.Setenv("BMM_DB_PATH", filepath.Join(dir, "env.db"))

	_, err := execute(t, "save", "https://flag.dev", "--db-path", custom)
	assert.NilError(t, err)

	_, err = os.Stat(custom)
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(dir, "env.db"))
	assert.Assert(t, os.IsNotExist(err))
}
