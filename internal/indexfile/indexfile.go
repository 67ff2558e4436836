// Package indexfile provides low-level, positional I/O against a
// journal's `<name>.idx` file: header handling and index record
// framing. Like internal/datafile, it is a pure I/O layer with no
// opinion on what a valid index should contain — that coordination
// lives in internal/journalfile.
package indexfile

import (
	"io"
	"os"

	"github.com/iamNilotpal/journal/internal/codec"
	"github.com/iamNilotpal/journal/pkg/errors"
)

// File wraps an open index file with the positional operations the
// journal needs.
type File struct {
	f    *os.File
	path string
}

// Open opens an existing index file at path.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.ClassifyOpenError(err, errors.FileIndex, path)
	}
	return &File{f: f, path: path}, nil
}

// Create creates a new index file at path and writes its header.
func Create(path string, banner string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, errors.ClassifyOpenError(err, errors.FileIndex, path)
	}
	idx := &File{f: f, path: path}
	hdr := codec.EncodeHeader(codec.Header{Magic: codec.IndexMagic, Format: codec.FormatVersion, Text: banner})
	if _, err := f.WriteAt(hdr, 0); err != nil {
		_ = f.Close()
		return nil, errors.NewIndexWriteError(err, path, 0)
	}
	return idx, nil
}

// Path returns the file's path on disk.
func (x *File) Path() string { return x.path }

// Fd exposes the underlying descriptor, needed by pkg/lock.
func (x *File) Fd() *os.File { return x.f }

// Size returns the current size of the file in bytes.
func (x *File) Size() (int64, error) {
	info, err := x.f.Stat()
	if err != nil {
		return 0, errors.NewIndexReadError(err, x.path, 0)
	}
	return info.Size(), nil
}

// ReadHeader reads and decodes the 128-byte file header.
func (x *File) ReadHeader() (codec.Header, error) {
	buf := make([]byte, codec.HeaderSize)
	if _, err := x.f.ReadAt(buf, 0); err != nil {
		return codec.Header{}, errors.NewIndexReadError(err, x.path, 0)
	}
	return codec.DecodeHeader(buf), nil
}

// OffsetForSlot returns the absolute byte offset of the slot-th index
// record (0-based), i.e. 128 + slot*24.
func OffsetForSlot(slot int64) int64 {
	return int64(codec.HeaderSize) + slot*int64(codec.IndexRecordSize)
}

// ReadRecord reads and decodes the index record at the given absolute
// byte offset.
func (x *File) ReadRecord(offset int64) (codec.IndexRecord, error) {
	buf := make([]byte, codec.IndexRecordSize)
	n, err := x.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return codec.IndexRecord{}, errors.NewIndexReadError(err, x.path, offset)
	}
	if n < codec.IndexRecordSize {
		return codec.IndexRecord{}, errors.NewIndexStructuralError(offset)
	}
	return codec.DecodeIndexRecord(buf), nil
}

// ReadSlot reads the slot-th index record (0-based).
func (x *File) ReadSlot(slot int64) (codec.IndexRecord, error) {
	return x.ReadRecord(OffsetForSlot(slot))
}

// WriteRecord writes r at the given absolute byte offset.
func (x *File) WriteRecord(offset int64, r codec.IndexRecord) error {
	buf := codec.EncodeIndexRecord(r)
	if _, err := x.f.WriteAt(buf, offset); err != nil {
		return errors.NewIndexWriteError(err, x.path, offset)
	}
	return nil
}

// WriteSlot writes r at the slot-th index record (0-based).
func (x *File) WriteSlot(slot int64, r codec.IndexRecord) error {
	return x.WriteRecord(OffsetForSlot(slot), r)
}

// ZeroRange overwrites [from, end-of-file) with zero bytes.
func (x *File) ZeroRange(from int64) error {
	size, err := x.Size()
	if err != nil {
		return err
	}
	if from >= size {
		return nil
	}
	const chunk = 64 * 1024
	zeros := make([]byte, chunk)
	for pos := from; pos < size; pos += chunk {
		n := chunk
		if remaining := size - pos; remaining < int64(chunk) {
			n = int(remaining)
		}
		if _, err := x.f.WriteAt(zeros[:n], pos); err != nil {
			return errors.NewIndexWriteError(err, x.path, pos)
		}
	}
	return nil
}

// Truncate shrinks the file to exactly size bytes.
func (x *File) Truncate(size int64) error {
	if err := x.f.Truncate(size); err != nil {
		return errors.NewIndexWriteError(err, x.path, size)
	}
	return nil
}

// Flush fsyncs the file to stable storage when sync is true.
func (x *File) Flush(sync bool) error {
	if !sync {
		return nil
	}
	if err := x.f.Sync(); err != nil {
		return errors.ClassifySyncError(err, errors.FileIndex, x.path, 0)
	}
	return nil
}

// Close closes the underlying file.
func (x *File) Close() error {
	if err := x.f.Close(); err != nil {
		return errors.NewFileError(err, errors.ErrorCodeIndexWriteFailed, errors.StatusIndexWriteFailed, "failed to close index file").
			WithFile(errors.FileIndex).WithPath(x.path)
	}
	return nil
}
