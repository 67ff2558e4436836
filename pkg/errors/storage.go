package errors

// FileKind identifies which of the journal's two files an error concerns,
// so callers can localize the fault the way spec.md §7 requires ("split
// per file: data vs. index").
type FileKind string

const (
	FileData  FileKind = "data"
	FileIndex FileKind = "index"
)

// FileError is a specialized error type for open/read/write failures
// against one of the journal's backing files.
type FileError struct {
	*baseError
	file   FileKind // Which file (data or index) was being accessed.
	path   string   // Path of the file that caused the issue.
	offset int64    // Byte offset within the file where the problem happened.
}

// NewFileError creates a new file-specific error.
func NewFileError(err error, code ErrorCode, status StatusCode, msg string) *FileError {
	return &FileError{baseError: NewBaseError(err, code, status, msg)}
}

// WithFile records which file (data or index) was involved.
func (fe *FileError) WithFile(kind FileKind) *FileError {
	fe.file = kind
	return fe
}

// WithPath captures which path was being processed when the error occurred.
func (fe *FileError) WithPath(path string) *FileError {
	fe.path = path
	return fe
}

// WithOffset records the byte position where the error occurred.
func (fe *FileError) WithOffset(offset int64) *FileError {
	fe.offset = offset
	return fe
}

// File returns which of the two backing files the error concerns.
func (fe *FileError) File() FileKind {
	return fe.file
}

// Path returns the path of the file that was being processed.
func (fe *FileError) Path() string {
	return fe.path
}

// Offset returns the byte offset within the file where the error happened.
func (fe *FileError) Offset() int64 {
	return fe.offset
}

// NewDataOpenError builds the canonical "failed to open data file" error.
func NewDataOpenError(err error, path string) *FileError {
	return NewFileError(err, ErrorCodeDataOpenFailed, StatusDataOpenFailed, "failed to open data file").
		WithFile(FileData).WithPath(path)
}

// NewIndexOpenError builds the canonical "failed to open index file" error.
func NewIndexOpenError(err error, path string) *FileError {
	return NewFileError(err, ErrorCodeIndexOpenFailed, StatusIndexOpenFailed, "failed to open index file").
		WithFile(FileIndex).WithPath(path)
}

// NewDataReadError builds a localized data-file read failure.
func NewDataReadError(err error, path string, offset int64) *FileError {
	return NewFileError(err, ErrorCodeDataReadFailed, StatusDataReadFailed, "failed to read data file").
		WithFile(FileData).WithPath(path).WithOffset(offset)
}

// NewIndexReadError builds a localized index-file read failure.
func NewIndexReadError(err error, path string, offset int64) *FileError {
	return NewFileError(err, ErrorCodeIndexReadFailed, StatusIndexReadFailed, "failed to read index file").
		WithFile(FileIndex).WithPath(path).WithOffset(offset)
}

// NewDataWriteError builds a localized data-file write failure.
func NewDataWriteError(err error, path string, offset int64) *FileError {
	return NewFileError(err, ErrorCodeDataWriteFailed, StatusDataWriteFailed, "failed to write data file").
		WithFile(FileData).WithPath(path).WithOffset(offset)
}

// NewIndexWriteError builds a localized index-file write failure.
func NewIndexWriteError(err error, path string, offset int64) *FileError {
	return NewFileError(err, ErrorCodeIndexWriteFailed, StatusIndexWriteFailed, "failed to write index file").
		WithFile(FileIndex).WithPath(path).WithOffset(offset)
}
