package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// testOptions points every command at a config file under a temp dir so
// the session database and log stay out of the user's home.
func testOptions(t *testing.T) (*globalOptions, string) {
	t.Helper()
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfg := fmt.Sprintf("cache:\n  dir: %s\nlogging:\n  file: %s\n", cacheDir, filepath.Join(dir, "grimoire.log"))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return &globalOptions{configFile: cfgPath, envFile: filepath.Join(dir, ".env")}, cacheDir
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAuthCommands_SessionSurvivesRestart(t *testing.T) {
	opts, _ := testOptions(t)

	out, err := execute(t, whoamiCmd(opts), "")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in")

	out, err = execute(t, loginCmd(opts), "expelliarmus\n", "harry")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Signed in as harry (explorer)")

	out, err = execute(t, whoamiCmd(opts), "")
	require.NoError(t, err)
	require.Equal(t, "harry (explorer)\n", out)

	out, err = execute(t, logoutCmd(opts), "")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Signed out")

	out, err = execute(t, logoutCmd(opts), "")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in")
}

func TestLoginCmd_PromptsForUsername(t *testing.T) {
	opts, _ := testOptions(t)

	out, err := execute(t, loginCmd(opts), "hermione\nwingardium\n")
	require.NoError(t, err)
	require.Contains(t, out, "Username: ")
	require.Contains(t, out, "✓ Signed in as hermione (admin)")
}

func TestLoginCmd_BadPassword(t *testing.T) {
	opts, _ := testOptions(t)

	_, err := execute(t, loginCmd(opts), "alohomora\n", "harry")
	require.ErrorIs(t, err, errBadCredentials)

	out, err := execute(t, whoamiCmd(opts), "")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in")
}

func TestLoginCmd_NoCacheForgetsSession(t *testing.T) {
	opts, _ := testOptions(t)
	opts.noCache = true

	out, err := execute(t, loginCmd(opts), "expelliarmus\n", "harry")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Signed in as harry")

	out, err = execute(t, whoamiCmd(opts), "")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in")
}

func TestCacheCommands(t *testing.T) {
	opts, cacheDir := testOptions(t)

	out, err := execute(t, cacheCmd(opts), "", "info")
	require.NoError(t, err)
	require.Contains(t, out, "Database: "+filepath.Join(cacheDir, "grimoire.db"))
	require.Contains(t, out, "No cached queries")

	_, err = execute(t, loginCmd(opts), "expelliarmus\n", "harry")
	require.NoError(t, err)

	out, err = execute(t, cacheCmd(opts), "", "clear")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Cache cleared")

	out, err = execute(t, whoamiCmd(opts), "")
	require.NoError(t, err)
	require.Contains(t, out, "harry", "plain clear keeps the session")

	out, err = execute(t, cacheCmd(opts), "", "clear", "--all")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Cache, session and favourites cleared")

	out, err = execute(t, whoamiCmd(opts), "")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in")
}

func TestCacheInfo_MemoryOnly(t *testing.T) {
	opts, _ := testOptions(t)
	opts.noCache = true

	out, err := execute(t, cacheCmd(opts), "", "info")
	require.NoError(t, err)
	require.Contains(t, out, "Database: (memory only)")
}
