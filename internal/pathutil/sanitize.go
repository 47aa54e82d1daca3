package pathutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/apiflow/flowerrors"
)

// SanitizeOutputPath returns the cleaned absolute form of an output file
// path. Existing symlinks and directories are refused, as is a path whose
// parent directory does not exist.
func SanitizeOutputPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", outputError(path, "output path is empty", nil)
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", outputError(path, "cannot resolve absolute path", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&fs.ModeSymlink != 0 {
			return "", outputError(path, "refusing to write through a symlink", nil)
		}
		if info.IsDir() {
			return "", outputError(path, "output path is a directory", nil)
		}
	case errors.Is(err, fs.ErrNotExist):
		parent, statErr := os.Stat(filepath.Dir(abs))
		if statErr != nil || !parent.IsDir() {
			return "", outputError(path, "parent directory does not exist", statErr)
		}
	default:
		return "", outputError(path, "cannot stat path", err)
	}

	return abs, nil
}

func outputError(path, msg string, cause error) error {
	return &flowerrors.ConfigError{Option: "output", Value: path, Message: msg, Cause: cause}
}
