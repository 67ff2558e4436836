// Package journal is the public entry point for the embeddable
// append-only journal: open a named journal in a directory, append
// batches of records, read them back positionally, query statistics
// and timestamps, and truncate from either end. Internally it is a
// thin wrapper over internal/engine, which in turn wraps
// internal/journalfile's recovery, append, read, and truncation logic.
package journal

import (
	"github.com/iamNilotpal/journal/internal/engine"
	"github.com/iamNilotpal/journal/internal/journalfile"
	"github.com/iamNilotpal/journal/pkg/errors"
	"github.com/iamNilotpal/journal/pkg/logger"
	"github.com/iamNilotpal/journal/pkg/options"
)

// version is the library's semantic version string. It is distinct
// from the on-disk format version stored in each file header
// (codec.FormatVersion).
const version = "1.0.0"

// Entry is one record appended to or read from a journal.
type Entry = journalfile.Entry

// Stats is the journal-wide summary Stats returns.
type Stats = journalfile.Stats

// SearchMode selects which boundary Search resolves a timestamp to.
type SearchMode = journalfile.SearchMode

const (
	SearchLower = journalfile.SearchLower
	SearchUpper = journalfile.SearchUpper
)

// Journal is a single open instance of the append-only journal.
type Journal struct {
	engine *engine.Engine
}

// Open opens (creating on first use) the journal named name inside
// dir, running whatever recovery its on-disk state requires.
func Open(dir, name string, opts ...options.OptionFunc) (*Journal, error) {
	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	log := logger.New("journal")
	eng, err := engine.New(dir, name, &engine.Config{Options: &defaultOpts, Logger: log})
	if err != nil {
		return nil, err
	}
	return &Journal{engine: eng}, nil
}

// Close releases the journal's locks and file handles. A Journal must
// not be used after Close returns.
func (j *Journal) Close() error {
	return j.engine.Close()
}

// SetFsync toggles whether append batches are fsynced in addition to
// being flushed.
func (j *Journal) SetFsync(on bool) {
	j.engine.SetFsync(on)
}

// Append assigns seqnum/timestamp to any zero-valued entries, writes
// the batch durably, and returns the number of entries committed. On
// validation failure, nothing in the batch is committed.
func (j *Journal) Append(entries []Entry) (int, error) {
	return j.engine.Append(entries)
}

// Read copies entries starting at startSeqnum into buf. See
// internal/journalfile.Read for the exact partial-record contract.
func (j *Journal) Read(startSeqnum uint64, buf []byte) ([]Entry, error) {
	return j.engine.Read(startSeqnum, buf)
}

// Stats summarizes the journal, clamped to [seqnumLo, seqnumHi].
func (j *Journal) Stats(seqnumLo, seqnumHi uint64) (Stats, error) {
	return j.engine.Stats(seqnumLo, seqnumHi)
}

// Search binary-searches the index by timestamp.
func (j *Journal) Search(timestamp uint64, mode SearchMode) (uint64, error) {
	return j.engine.Search(timestamp, mode)
}

// Rollback discards every entry with seqnum' > seqnum.
func (j *Journal) Rollback(seqnum uint64) (int, error) {
	return j.engine.Rollback(seqnum)
}

// Purge discards every entry with seqnum < seqnum.
func (j *Journal) Purge(seqnum uint64) (int, error) {
	return j.engine.Purge(seqnum)
}

// Version returns the library's semantic version string.
func Version() string {
	return version
}

// Strerror renders a StatusCode to a human-readable string.
func Strerror(code errors.StatusCode) string {
	return errors.Strerror(code)
}

// Code extracts the StatusCode from an error returned by any Journal
// method, or OK if err is nil.
func Code(err error) errors.StatusCode {
	return errors.Code(err)
}
