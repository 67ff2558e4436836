// Package journalfile implements the journal's core engine: file
// lifecycle and recovery, the append pipeline, read/stats/search, and
// the two truncation operations, all built on top of internal/codec,
// internal/datafile, and internal/indexfile.
package journalfile

import (
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/journal/internal/datafile"
	"github.com/iamNilotpal/journal/internal/indexfile"
	"github.com/iamNilotpal/journal/pkg/errors"
	"github.com/iamNilotpal/journal/pkg/lock"
	"github.com/iamNilotpal/journal/pkg/options"
	"go.uber.org/zap"
)

// state is the four-word in-memory summary of what the journal
// currently holds, plus the data file's write cursor. It is
// published atomically: a reader that observes a given seqnum2 is
// guaranteed the data file has flushed every record up to it.
type state struct {
	seqnum1, timestamp1 uint64
	seqnum2, timestamp2 uint64
	datEnd              int64
}

// empty reports whether the journal holds no entries.
func (s state) empty() bool {
	return s.seqnum1 == 0
}

// Core is the journal's engine: two backing files, their advisory
// locks, and the published state that readers and the single writer
// coordinate through.
//
// Two mutexes guard two different things, deliberately of different
// width: stateMu is narrow, held only to read or publish the four-word
// state snapshot; filesMu is wide, held for the full duration of
// Read/Stats/Search/Rollback/Purge. Append never takes filesMu and
// holds stateMu only to snapshot and publish — it relies on the data
// file only ever growing, and on state being published
// after the flush completes, so a reader can never observe a torn
// write.
type Core struct {
	dir  string
	name string

	data  *datafile.File
	index *indexfile.File

	dataLock  *lock.Lock
	indexLock *lock.Lock

	opts *options.Options
	log  *zap.SugaredLogger

	fsync  atomic.Bool
	closed atomic.Bool

	stateMu sync.Mutex
	st      state

	filesMu sync.RWMutex
}

// snapshot returns a copy of the current published state.
func (c *Core) snapshot() state {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.st
}

// publish atomically replaces the published state. Callers must have
// already flushed (and, if enabled, fsynced) every file write that
// the new state claims is durable.
func (c *Core) publish(s state) {
	c.stateMu.Lock()
	c.st = s
	c.stateMu.Unlock()
}

// SetFsync toggles whether append batches are fsynced in addition to
// being flushed. Safe to call at any time; takes effect on the next
// append.
func (c *Core) SetFsync(on bool) {
	c.fsync.Store(on)
}

// checkOpen returns a closed-journal error if the journal has already
// been closed, so every public operation fails fast without touching
// disk.
func (c *Core) checkOpen() error {
	if c.closed.Load() {
		return errors.NewClosedError()
	}
	return nil
}
