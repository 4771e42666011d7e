package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/fine-structures/ringorder/goring"
	"github.com/plan-systems/klog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against the given db path and returns what it printed.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)

	cfg := &Config{
		DbPath: dbPath,
	}
	rootCmd, cleanup := newRootCmd(cfg, fset)
	defer cleanup()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDecodeEncode(t *testing.T) {
	out, err := run(t, "", "decode", "{0:1, 1:2, 2:4, 4:3, 3:0}")
	require.NoError(t, err)
	assert.Equal(t, "[1,2,4,3]\n", out)

	out, err = run(t, "", "encode", "[1,2,4,3]")
	require.NoError(t, err)
	assert.Equal(t, "{0:1, 1:2, 2:4, 4:3, 3:0}\n", out)

	_, err = run(t, "", "decode", "{0:1, 1:0, 2:0}")
	require.Error(t, err)
	assert.ErrorIs(t, err, goring.ErrCorruptConfig)

	_, err = run(t, "", "encode", "[1,1,2]")
	assert.ErrorIs(t, err, goring.ErrInvalidArgument)
}

func TestOrderInMemory(t *testing.T) {
	out, err := run(t, "", "order", "move", "2", "down")
	require.NoError(t, err)
	assert.Contains(t, out, "2. [4] ")
	assert.Contains(t, out, "3. [3] ")

	out, err = run(t, "", "order", "move", "0", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "row 0 cannot move up")

	_, err = run(t, "", "order", "move", "9", "up")
	assert.ErrorIs(t, err, goring.ErrInvalidArgument)

	_, err = run(t, "", "order", "move", "1", "left")
	assert.ErrorIs(t, err, goring.ErrInvalidArgument)
}

func TestOrderPersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prefs")

	_, err := run(t, dbPath, "order", "set", "[2,1,4,3]")
	require.NoError(t, err)

	out, err := run(t, dbPath, "order", "graph")
	require.NoError(t, err)
	assert.Equal(t, "{0:2, 2:1, 1:4, 4:3, 3:0}\n", out)

	out, err = run(t, dbPath, "order", "next", "0")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, dbPath, "--read-only", "order", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "0. [2] ")

	_, err = run(t, dbPath, "--read-only", "order", "reset")
	assert.ErrorIs(t, err, goring.ErrReadOnly)

	out, err = run(t, dbPath, "order", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "0. [1] ")
}

func TestFields(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prefs")
	exportPath := filepath.Join(t.TempDir(), "layout.json")

	out, err := run(t, dbPath, "fields", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "tag_browser")

	_, err = run(t, dbPath, "fields", "hide-field", "book_details", "0")
	require.NoError(t, err)

	out, err = run(t, dbPath, "fields", "show", "book_details")
	require.NoError(t, err)
	assert.Contains(t, out, "0. [ ] ")

	_, err = run(t, dbPath, "fields", "export", "book_details", exportPath)
	require.NoError(t, err)
	_, err = os.Stat(exportPath)
	require.NoError(t, err)

	_, err = run(t, dbPath, "fields", "reset", "book_details")
	require.NoError(t, err)
	out, err = run(t, dbPath, "fields", "import", "book_details", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0. [ ] ")

	_, err = run(t, dbPath, "fields", "show", "no_such_layout")
	assert.ErrorIs(t, err, goring.ErrInvalidArgument)
}
