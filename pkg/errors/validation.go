package errors

// ArgumentError is a specialized error type for invalid call arguments:
// nil handles, malformed search modes, out-of-range lengths — the
// class spec.md §7 calls "argument errors".
type ArgumentError struct {
	*baseError
	argument string // Name of the argument that failed validation.
	provided any    // The value that was provided, if useful to report.
}

// NewArgumentError creates a new argument-specific error.
func NewArgumentError(err error, code ErrorCode, status StatusCode, msg string) *ArgumentError {
	return &ArgumentError{baseError: NewBaseError(err, code, status, msg)}
}

// WithArgument records which parameter was invalid.
func (ae *ArgumentError) WithArgument(name string) *ArgumentError {
	ae.argument = name
	return ae
}

// WithProvided captures the offending value for diagnostics.
func (ae *ArgumentError) WithProvided(value any) *ArgumentError {
	ae.provided = value
	return ae
}

// Argument returns the name of the parameter that failed validation.
func (ae *ArgumentError) Argument() string {
	return ae.argument
}

// Provided returns the value that was supplied and rejected.
func (ae *ArgumentError) Provided() any {
	return ae.provided
}

// NewNilHandleError builds the canonical "nil journal handle" error.
func NewNilHandleError() *ArgumentError {
	return NewArgumentError(nil, ErrorCodeInvalidArgument, StatusInvalidArgument, "journal handle is nil").
		WithArgument("journal")
}

// NewInvalidModeError builds the canonical "unrecognized search mode" error.
func NewInvalidModeError(mode any) *ArgumentError {
	return NewArgumentError(nil, ErrorCodeInvalidMode, StatusInvalidMode, "invalid search mode").
		WithArgument("mode").WithProvided(mode)
}

// NewInvalidLengthError builds the canonical "buffer/payload length" error,
// used for things like a read buffer too small to hold a header, or a
// payload length that exceeds the configured maximum.
func NewInvalidLengthError(argument string, provided any) *ArgumentError {
	return NewArgumentError(nil, ErrorCodeInvalidArgument, StatusInvalidArgument, "invalid length").
		WithArgument(argument).WithProvided(provided)
}

// NameError is a specialized error type for problems with the journal's
// name or its backing directory: characters outside the allowed
// alphabet, or a directory that does not exist.
type NameError struct {
	*baseError
	name string // The journal name that was rejected.
	dir  string // The directory that was checked, if relevant.
}

// NewNameError creates a new name/path-specific error.
func NewNameError(err error, code ErrorCode, status StatusCode, msg string) *NameError {
	return &NameError{baseError: NewBaseError(err, code, status, msg)}
}

// WithName records the rejected journal name.
func (ne *NameError) WithName(name string) *NameError {
	ne.name = name
	return ne
}

// WithDir records the directory that was checked.
func (ne *NameError) WithDir(dir string) *NameError {
	ne.dir = dir
	return ne
}

// Name returns the journal name that was rejected.
func (ne *NameError) Name() string {
	return ne.name
}

// Dir returns the directory that was checked.
func (ne *NameError) Dir() string {
	return ne.dir
}

// NewInvalidNameError builds the canonical "name has disallowed
// characters or length" error.
func NewInvalidNameError(name string) *NameError {
	return NewNameError(nil, ErrorCodeInvalidName, StatusInvalidName, "journal name contains invalid characters").
		WithName(name)
}

// NewDirectoryMissingError builds the canonical "parent directory does
// not exist" error. The journal never creates its own directory.
func NewDirectoryMissingError(dir string) *NameError {
	return NewNameError(nil, ErrorCodeDirectoryMissing, StatusDirectoryMissing, "directory does not exist").
		WithDir(dir)
}
