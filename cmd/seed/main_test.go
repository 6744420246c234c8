package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-dotenv", "--log-mode", "test"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "seed.db"))
}

func TestSeedCommandBuiltInFixtures(t *testing.T) {
	useSQLite(t)

	out, err := runCmd(t)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 vendors, 2 colleges, 5 users, 3 trainers")

	_, err = runCmd(t)
	require.Error(t, err, "second run without --reset hits unique emails")

	out, err = runCmd(t, "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 vendors")
}

func TestSeedCommandCustomFile(t *testing.T) {
	useSQLite(t)
	path := filepath.Join(t.TempDir(), "mini.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vendors:
  - ref: solo
    name: Solo Vendor
trainers:
  - ref: t1
    name: Tess
    email: tess@example.com
    skills: [Go]
`), 0o600))

	out, err := runCmd(t, "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 vendors, 0 colleges, 0 users, 1 trainers")
}

func TestSeedCommandRejectsArgsAndMissingFile(t *testing.T) {
	useSQLite(t)
	_, err := runCmd(t, "extra")
	require.Error(t, err)

	_, err = runCmd(t, "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read fixtures")
}
