// Package filesys provides the small set of filesystem checks the
// journal needs before it will touch a directory: existence checks,
// nothing that creates or mutates anything. A journal never creates
// its own parent directory — that is the caller's responsibility.
package filesys

import (
	"errors"
	"os"
)

// ErrNotDir is returned when a path exists but is not a directory.
var ErrNotDir = errors.New("path exists but is not a directory")

// Exists reports whether a file or directory exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// DirExists reports whether path exists and is a directory. It does
// not create the directory; the journal requires it to already exist.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, ErrNotDir
	}
	return true, nil
}
