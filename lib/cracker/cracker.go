// Package cracker locates the john binary and manages the scanner's data directories and lock file.
package cracker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/duke-git/lancet/v2/convertor"
	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/duke-git/lancet/v2/strutil"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/unclesp1d3r/credscan/lib/arch"
	"github.com/unclesp1d3r/credscan/scanstate"
)

// ErrJohnBinaryNotFound is returned when the john binary cannot be located.
var ErrJohnBinaryNotFound = errors.New("john binary not found")

const emptyVersion = "0.0.0"

// FindJohnBinary searches for the john binary at several predefined locations and returns its path if found.
// The configured john_path wins, then a copy bundled under the crackers directory or next to credscan itself,
// then well-known system locations and finally the user's PATH.
func FindJohnBinary() (string, error) {
	binaryName := arch.GetDefaultJohnBinaryName()

	possiblePaths := []string{
		scanstate.State.JohnPath,
		filepath.Join(scanstate.State.CrackersPath, "john", "run", binaryName),
		filepath.Join(scanstate.State.CrackersPath, "john", binaryName),
		filepath.Join(filepath.Dir(os.Args[0]), binaryName),
	}
	possiblePaths = append(possiblePaths, arch.GetDefaultJohnSearchPaths()...)

	for _, filePath := range possiblePaths {
		if isExecutable(filePath) {
			return filePath, nil
		}
	}

	// Didn't find it on the predefined locations. Checking the user's `$PATH`.
	for _, name := range []string{binaryName, "john-the-ripper"} {
		if johnPath, err := exec.LookPath(name); err == nil && isExecutable(johnPath) {
			return johnPath, nil
		}
	}

	return "", ErrJohnBinaryNotFound
}

func isExecutable(filePath string) bool {
	if strutil.IsBlank(filePath) {
		return false
	}

	info, err := os.Stat(filePath)

	return err == nil && !info.IsDir() && info.Mode()&0o111 != 0
}

// GetCurrentJohnVersion finds the john binary and reads its version from the build information.
func GetCurrentJohnVersion(ctx context.Context) (string, error) {
	johnPath, err := FindJohnBinary()
	if err != nil {
		return emptyVersion, err
	}

	return GetJohnVersion(ctx, johnPath)
}

// GetJohnVersion runs john --list=build-info and returns the value of its "Version:" line.
// john exits non-zero for some informational commands, so output is parsed whenever there is any.
func GetJohnVersion(ctx context.Context, johnPath string) (string, error) {
	out, err := exec.CommandContext(ctx, johnPath, "--list=build-info").Output()
	if version := parseBuildInfoVersion(out); version != "" {
		return version, nil
	}

	if err != nil {
		return emptyVersion, err
	}

	return emptyVersion, nil
}

func parseBuildInfoVersion(out []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if version, ok := strings.CutPrefix(scanner.Text(), "Version:"); ok {
			return strings.TrimSpace(version)
		}
	}

	return ""
}

// CheckForExistingClient checks if another credscan process is already running by examining a PID file at the specified path.
// Returns true if the process is found or errors occur, otherwise false.
func CheckForExistingClient(pidFilePath string) bool {
	if !fileutil.IsExist(pidFilePath) {
		return false
	}

	pidString, err := fileutil.ReadFileToString(pidFilePath)
	if err != nil {
		scanstate.Logger.Error("Error reading PID file", "path", pidFilePath)

		return true
	}

	pidInt64, err := strconv.ParseInt(strutil.Trim(pidString), 10, 32)
	if err != nil {
		scanstate.Logger.Error(
			"Error converting PID to integer, or PID is too large for int32",
			"pid",
			pidString,
			"error",
			err,
		)

		return true
	}

	pidValue := int32(pidInt64)

	pidRunning, err := process.PidExists(pidValue)
	if err != nil {
		scanstate.Logger.Error("Error checking if process is running", "pid", pidValue)

		return true
	}

	scanstate.Logger.Warn("Existing lock file found", "path", pidFilePath, "pid", pidValue)

	if !pidRunning {
		scanstate.Logger.Warn("Existing process is not running, cleaning up file", "pid", pidValue)
	}

	return pidRunning
}

// CreateLockFile writes the current process PID to the lock file in the shared state.
func CreateLockFile() error {
	lockFilePath := scanstate.State.PidFile

	pidString := convertor.ToString(os.Getpid())

	if err := fileutil.WriteStringToFile(lockFilePath, pidString, false); err != nil {
		scanstate.Logger.Error("Error writing PID to file", "path", lockFilePath)

		return err
	}

	return nil
}

// RemoveLockFile deletes the lock file if it exists.
func RemoveLockFile() error {
	lockFilePath := scanstate.State.PidFile
	if strutil.IsBlank(lockFilePath) || !fileutil.IsExist(lockFilePath) {
		return nil
	}

	scanstate.Logger.Debug("Cleaning up PID file", "path", lockFilePath)

	return fileutil.RemoveFile(lockFilePath)
}

// CreateDataDirs creates the directories named in scanstate.State. Blank paths are skipped.
func CreateDataDirs() error {
	dataDirs := []string{
		scanstate.State.DataPath,
		scanstate.State.CrackersPath,
		scanstate.State.TempPath,
	}

	if !strutil.IsBlank(scanstate.State.ResultDBPath) {
		dataDirs = append(dataDirs, filepath.Dir(scanstate.State.ResultDBPath))
	}

	for _, dir := range dataDirs {
		if strutil.IsBlank(dir) {
			scanstate.Logger.Warn("Data directory not set")

			continue
		}

		if !fileutil.IsDir(dir) {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				scanstate.Logger.Error("Error creating directory", "path", dir, "error", err)

				return err
			}

			scanstate.Logger.Info("Created directory", "path", dir)
		}
	}

	return nil
}
