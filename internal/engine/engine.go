// Package engine is the thin coordinator sitting between the public
// API in pkg/journal and the core implementation in
// internal/journalfile. It owns nothing of its own beyond lifecycle
// state — every operation delegates straight to the underlying Core.
package engine

import (
	"sync/atomic"

	"github.com/iamNilotpal/journal/internal/journalfile"
	"github.com/iamNilotpal/journal/pkg/errors"
	"github.com/iamNilotpal/journal/pkg/options"
	"go.uber.org/zap"
)

// Engine coordinates a single journal's lifecycle.
type Engine struct {
	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool
	core    *journalfile.Core
}

// Config holds the parameters needed to initialize a new Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New opens the journal's backing files at dir/name, running recovery
// if needed, and returns a ready-to-use Engine.
func New(dir, name string, config *Config) (*Engine, error) {
	core, err := journalfile.Open(dir, name, config.Options, config.Logger)
	if err != nil {
		return nil, err
	}
	return &Engine{options: config.Options, log: config.Logger, core: core}, nil
}

// Close shuts down the engine, releasing locks and closing both
// backing files.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return errors.NewClosedError()
	}
	return e.core.Close()
}

// SetFsync toggles whether append batches are fsynced.
func (e *Engine) SetFsync(on bool) {
	e.core.SetFsync(on)
}

// Append delegates to the underlying Core.
func (e *Engine) Append(entries []journalfile.Entry) (int, error) {
	return e.core.Append(entries)
}

// Read delegates to the underlying Core.
func (e *Engine) Read(startSeqnum uint64, buf []byte) ([]journalfile.Entry, error) {
	return e.core.Read(startSeqnum, buf)
}

// Stats delegates to the underlying Core.
func (e *Engine) Stats(seqnumLo, seqnumHi uint64) (journalfile.Stats, error) {
	return e.core.Stats(seqnumLo, seqnumHi)
}

// Search delegates to the underlying Core.
func (e *Engine) Search(timestamp uint64, mode journalfile.SearchMode) (uint64, error) {
	return e.core.Search(timestamp, mode)
}

// Rollback delegates to the underlying Core.
func (e *Engine) Rollback(seqnum uint64) (int, error) {
	return e.core.Rollback(seqnum)
}

// Purge delegates to the underlying Core.
func (e *Engine) Purge(seqnum uint64) (int, error) {
	return e.core.Purge(seqnum)
}
