// Package options provides the functional-options configuration
// surface for opening a journal: whether Open performs a deep
// consistency scan, whether every append batch is fsynced, and a
// scratch-buffer size setting.
package options

// Options controls how a journal instance is opened and how it
// behaves afterward.
type Options struct {
	// DeepCheck, when true, makes Open walk every record in the data
	// and index files verifying checksums, density, and monotonicity,
	// rather than only inspecting the first and last live records.
	DeepCheck bool `json:"deepCheck"`

	// Fsync, when true, fsyncs the data file after every append batch
	// in addition to flushing it. SetFsync can change this at runtime.
	Fsync bool `json:"fsync"`

	// MaxReadBuf is a scratch-buffer size setting. No journal
	// operation reads it; in particular Purge holds the whole retained
	// data region in memory while rewriting the data file.
	MaxReadBuf int `json:"maxReadBuf"`
}

// OptionFunc is a function that modifies a journal's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to its documented default.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDeepCheck sets whether Open performs a full, checksum-verifying
// scan of the data and index files instead of a shallow open.
func WithDeepCheck(enabled bool) OptionFunc {
	return func(o *Options) {
		o.DeepCheck = enabled
	}
}

// WithFsync sets whether append batches are fsynced in addition to
// being flushed.
func WithFsync(enabled bool) OptionFunc {
	return func(o *Options) {
		o.Fsync = enabled
	}
}

// WithMaxReadBuf sets MaxReadBuf (see Options.MaxReadBuf). Values
// less than or equal to zero are ignored, leaving the previous value
// in place.
func WithMaxReadBuf(size int) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.MaxReadBuf = size
		}
	}
}
