package cracker

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/credscan/lib/arch"
	"github.com/unclesp1d3r/credscan/scanstate"
)

// saveAndRestoreState saves the current state paths and returns a cleanup function.
func saveAndRestoreState(t *testing.T) func() {
	t.Helper()

	saved := struct {
		pidFile, dataPath, crackersPath, tempPath, johnPath, resultDB string
	}{
		scanstate.State.PidFile,
		scanstate.State.DataPath,
		scanstate.State.CrackersPath,
		scanstate.State.TempPath,
		scanstate.State.JohnPath,
		scanstate.State.ResultDBPath,
	}

	return func() {
		scanstate.State.PidFile = saved.pidFile
		scanstate.State.DataPath = saved.dataPath
		scanstate.State.CrackersPath = saved.crackersPath
		scanstate.State.TempPath = saved.tempPath
		scanstate.State.JohnPath = saved.johnPath
		scanstate.State.ResultDBPath = saved.resultDB
	}
}

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o700)) //nolint:gosec // Executable needs exec permission
}

func TestFindJohnBinary_ConfiguredPath(t *testing.T) {
	cleanup := saveAndRestoreState(t)
	defer cleanup()

	johnPath := filepath.Join(t.TempDir(), "custom-john")
	writeExecutable(t, johnPath, "#!/bin/sh\nexit 0\n")
	scanstate.State.JohnPath = johnPath

	found, err := FindJohnBinary()
	require.NoError(t, err)
	assert.Equal(t, johnPath, found)
}

func TestFindJohnBinary_CrackersDir(t *testing.T) {
	cleanup := saveAndRestoreState(t)
	defer cleanup()

	crackers := t.TempDir()
	johnPath := filepath.Join(crackers, "john", "run", arch.GetDefaultJohnBinaryName())
	writeExecutable(t, johnPath, "#!/bin/sh\nexit 0\n")

	scanstate.State.JohnPath = ""
	scanstate.State.CrackersPath = crackers

	found, err := FindJohnBinary()
	require.NoError(t, err)
	assert.Equal(t, johnPath, found)
}

func TestFindJohnBinary_SkipsNonExecutable(t *testing.T) {
	cleanup := saveAndRestoreState(t)
	defer cleanup()

	johnPath := filepath.Join(t.TempDir(), "john")
	require.NoError(t, os.WriteFile(johnPath, []byte("not executable"), 0o600))
	scanstate.State.JohnPath = johnPath

	found, err := FindJohnBinary()
	if err == nil {
		assert.NotEqual(t, johnPath, found)
	} else {
		require.ErrorIs(t, err, ErrJohnBinaryNotFound)
	}
}

func TestGetJohnVersion(t *testing.T) {
	johnPath := filepath.Join(t.TempDir(), "john")
	writeExecutable(t, johnPath, "#!/bin/sh\necho 'Version: 1.9.0-jumbo-1+bleeding'\necho 'Build: linux-gnu 64-bit'\nexit 1\n")

	version, err := GetJohnVersion(context.Background(), johnPath)
	require.NoError(t, err)
	assert.Equal(t, "1.9.0-jumbo-1+bleeding", version)
}

func TestGetJohnVersion_NoVersionLine(t *testing.T) {
	johnPath := filepath.Join(t.TempDir(), "john")
	writeExecutable(t, johnPath, "#!/bin/sh\necho 'garbage'\nexit 2\n")

	version, err := GetJohnVersion(context.Background(), johnPath)
	require.Error(t, err)
	assert.Equal(t, emptyVersion, version)
}

func TestCheckForExistingClient(t *testing.T) {
	dir := t.TempDir()

	t.Run("no lock file", func(t *testing.T) {
		assert.False(t, CheckForExistingClient(filepath.Join(dir, "missing.pid")))
	})

	t.Run("running process", func(t *testing.T) {
		pidFile := filepath.Join(dir, "running.pid")
		require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0o600))
		assert.True(t, CheckForExistingClient(pidFile))
	})

	t.Run("garbage pid", func(t *testing.T) {
		pidFile := filepath.Join(dir, "garbage.pid")
		require.NoError(t, os.WriteFile(pidFile, []byte("not-a-pid"), 0o600))
		assert.True(t, CheckForExistingClient(pidFile))
	})
}

func TestCreateAndRemoveLockFile(t *testing.T) {
	cleanup := saveAndRestoreState(t)
	defer cleanup()

	scanstate.State.PidFile = filepath.Join(t.TempDir(), "lock.pid")

	require.NoError(t, CreateLockFile())

	content, err := os.ReadFile(scanstate.State.PidFile)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(content))

	require.NoError(t, RemoveLockFile())
	assert.NoFileExists(t, scanstate.State.PidFile)
	require.NoError(t, RemoveLockFile(), "removing a missing lock file is a no-op")
}

func TestCreateDataDirs(t *testing.T) {
	cleanup := saveAndRestoreState(t)
	defer cleanup()

	root := t.TempDir()
	scanstate.State.DataPath = filepath.Join(root, "data")
	scanstate.State.CrackersPath = filepath.Join(root, "data", "crackers")
	scanstate.State.TempPath = filepath.Join(root, "data", "tmp")
	scanstate.State.ResultDBPath = filepath.Join(root, "db", "results.db")

	require.NoError(t, CreateDataDirs())

	assert.DirExists(t, scanstate.State.DataPath)
	assert.DirExists(t, scanstate.State.CrackersPath)
	assert.DirExists(t, scanstate.State.TempPath)
	assert.DirExists(t, filepath.Join(root, "db"))
}

func TestCreateDataDirs_BlankPaths(t *testing.T) {
	cleanup := saveAndRestoreState(t)
	defer cleanup()

	scanstate.State.DataPath = ""
	scanstate.State.CrackersPath = ""
	scanstate.State.TempPath = ""
	scanstate.State.ResultDBPath = ""

	require.NoError(t, CreateDataDirs())
}

func TestErrJohnBinaryNotFound(t *testing.T) {
	assert.Equal(t, "john binary not found", ErrJohnBinaryNotFound.Error())
}
