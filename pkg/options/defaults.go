package options

const (
	// DefaultDeepCheck controls whether Open performs a full checksum
	// and density scan of the data file, versus a shallow open that
	// only reads the first and last records.
	DefaultDeepCheck = false

	// DefaultFsync controls whether the data file is fsynced after
	// every append batch, in addition to being flushed.
	DefaultFsync = false

	// DefaultMaxReadBuf is the default MaxReadBuf setting. No journal
	// operation reads it: it bounds neither Purge's rewrite buffer nor
	// the caller-supplied Read buffer.
	DefaultMaxReadBuf = 1 << 20 // 1 MiB
)

// defaultOptions holds the baseline configuration every journal starts
// from before functional options are applied.
var defaultOptions = Options{
	DeepCheck:  DefaultDeepCheck,
	Fsync:      DefaultFsync,
	MaxReadBuf: DefaultMaxReadBuf,
}

// NewDefaultOptions returns a copy of the journal's baseline configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
