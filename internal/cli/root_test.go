package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackerCatalog is the shared scenario catalog of the harness package.
var trackerCatalog = filepath.Join("..", "harness", "testdata", "catalogs", "tracker.yaml")

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// tempDB returns a fresh database path.
func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

// copyCatalog copies the tracker catalog into a temp dir for tests that
// write it back.
func copyCatalog(t *testing.T) string {
	t.Helper()
	src, err := os.Open(trackerCatalog)
	require.NoError(t, err)
	defer src.Close()

	path := filepath.Join(t.TempDir(), "tracker.yaml")
	dst, err := os.Create(path)
	require.NoError(t, err)
	_, err = io.Copy(dst, src)
	require.NoError(t, err)
	require.NoError(t, dst.Close())
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "issuefilter", cmd.Use)
	assert.Contains(t, cmd.Long, "label:bug state:open")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"parse"}, {"query"}, {"apply"}, {"log"}, {"complete"}, {"test"},
		{"panel", "save"}, {"panel", "list"}, {"panel", "show"}, {"panel", "delete"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "command %v should exist", path)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, DefaultDB, dbFlag.DefValue)

	for _, name := range []string{"catalog", "now"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		path []string
		flag string
		def  string
	}{
		{[]string{"query"}, "workers", "0"},
		{[]string{"apply"}, "write", "false"},
		{[]string{"panel", "show"}, "run", "false"},
		{[]string{"test"}, "golden", ""},
		{[]string{"test"}, "update", "false"},
		{[]string{"test"}, "filter", ""},
	}
	for _, tt := range tests {
		sub, _, err := cmd.Find(tt.path)
		require.NoError(t, err)
		flag := sub.Flags().Lookup(tt.flag)
		require.NotNil(t, flag, "%v --%s", tt.path, tt.flag)
		assert.Equal(t, tt.def, flag.DefValue)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "parse", "x", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
	assert.False(t, Reported(err))
}

func TestInvalidNow(t *testing.T) {
	_, _, err := execute(t, "parse", "x", "--now", "tomorrow")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid --now")
}

func TestParseNow(t *testing.T) {
	clock, err := parseNow("2024-03-15T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15T12:00:00Z", clock.Now().UTC().Format(time.RFC3339))

	clock, err = parseNow("")
	require.NoError(t, err)
	assert.False(t, clock.Now().IsZero())

	_, err = parseNow("2024-03-15")
	assert.Error(t, err)
}

func TestRootOptions_ClockDefaultsToWallClock(t *testing.T) {
	opts := &RootOptions{Now: "2024-03-15T12:00:00Z"}
	// Without PersistentPreRunE nothing parsed --now.
	assert.WithinDuration(t, time.Now(), opts.clock().Now(), time.Minute)
}

func TestInvalidNow_StopsBeforeRunning(t *testing.T) {
	for _, args := range [][]string{
		{"query", "--catalog", trackerCatalog, "updated:<24"},
		{"apply", "--catalog", trackerCatalog, "--db", tempDB(t), "acme/widgets#1", "state:closed"},
	} {
		out, _, err := execute(t, append(args, "--now", "noon")...)
		require.Error(t, err, args[0])
		assert.Equal(t, ExitCommandError, GetExitCode(err), args[0])
		assert.Contains(t, err.Error(), "invalid --now", args[0])
		assert.Empty(t, out, args[0])
	}
}
