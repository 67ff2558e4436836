// Package fsnames derives the filesystem paths a journal instance owns
// from its directory and base name, and validates that the name is one
// the on-disk format allows.
//
// Filename layout: <name>.dat (records), <name>.idx (seqnum→offset
// map), both living side by side in the same directory.
package fsnames

import (
	"fmt"
	"path/filepath"
)

// MaxNameLength is the longest journal name the on-disk format allows.
const MaxNameLength = 31

// Valid reports whether name matches the journal's naming constraint:
// 1 to 31 characters drawn from [A-Za-z0-9_].
func Valid(name string) bool {
	if len(name) == 0 || len(name) > MaxNameLength {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

// DataPath returns the path of the journal's data file.
func DataPath(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.dat", name))
}

// IndexPath returns the path of the journal's index file.
func IndexPath(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.idx", name))
}
