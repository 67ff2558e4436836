// Package datafile provides low-level, positional I/O against a
// journal's `<name>.dat` file: header handling, record framing, and
// the zero-fill primitives the recovery and truncation paths need.
// It knows the data record format but nothing about seqnum/timestamp
// validation or index coordination — that lives in internal/journalfile.
package datafile

import (
	"io"
	"os"

	"github.com/iamNilotpal/journal/internal/codec"
	"github.com/iamNilotpal/journal/pkg/errors"
)

// File wraps an open data file with the positional operations the
// journal needs. It holds no in-memory record state of its own.
type File struct {
	f    *os.File
	path string
}

// Open opens an existing data file at path for reading and writing.
// It does not touch the header or validate anything; callers use
// ReadHeader/WriteHeader and the scan helpers for that.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.ClassifyOpenError(err, errors.FileData, path)
	}
	return &File{f: f, path: path}, nil
}

// Create creates a new data file at path, writes its 128-byte header,
// and returns the open handle positioned for append at offset 128.
func Create(path string, banner string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, errors.ClassifyOpenError(err, errors.FileData, path)
	}
	df := &File{f: f, path: path}
	hdr := codec.EncodeHeader(codec.Header{Magic: codec.DataMagic, Format: codec.FormatVersion, Text: banner})
	if _, err := f.WriteAt(hdr, 0); err != nil {
		_ = f.Close()
		return nil, errors.NewDataWriteError(err, path, 0)
	}
	return df, nil
}

// Path returns the file's path on disk.
func (d *File) Path() string { return d.path }

// Fd exposes the underlying descriptor, needed by pkg/lock.
func (d *File) Fd() *os.File { return d.f }

// Size returns the current size of the file in bytes.
func (d *File) Size() (int64, error) {
	info, err := d.f.Stat()
	if err != nil {
		return 0, errors.NewDataReadError(err, d.path, 0)
	}
	return info.Size(), nil
}

// ReadHeader reads and decodes the 128-byte file header.
func (d *File) ReadHeader() (codec.Header, error) {
	buf := make([]byte, codec.HeaderSize)
	if _, err := d.f.ReadAt(buf, 0); err != nil {
		return codec.Header{}, errors.NewDataReadError(err, d.path, 0)
	}
	return codec.DecodeHeader(buf), nil
}

// ReadRecordHeader reads and decodes the 24-byte data record header
// at the given offset, without touching the payload.
func (d *File) ReadRecordHeader(offset int64) (codec.DataRecordHeader, error) {
	buf := make([]byte, codec.DataRecordHeaderSize)
	n, err := d.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return codec.DataRecordHeader{}, errors.NewDataReadError(err, d.path, offset)
	}
	if n < codec.DataRecordHeaderSize {
		return codec.DataRecordHeader{}, errors.NewDataStructuralError(offset)
	}
	return codec.DecodeDataRecordHeader(buf), nil
}

// ReadAt performs a positional read of len(buf) bytes starting at
// offset, tolerating a short final read at end-of-file and returning
// the number of bytes actually read.
func (d *File) ReadAt(buf []byte, offset int64) (int, error) {
	n, err := d.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return n, errors.NewDataReadError(err, d.path, offset)
	}
	return n, nil
}

// WriteRecord writes a full data record — header, payload, and zero
// padding — at offset, returning the number of bytes written.
func (d *File) WriteRecord(offset int64, hdr codec.DataRecordHeader, payload []byte) (int64, error) {
	buf := make([]byte, 0, codec.RecordSize(hdr.DataLen))
	buf = append(buf, codec.EncodeDataRecordHeader(hdr)...)
	buf = append(buf, payload...)
	buf = append(buf, make([]byte, codec.PadLen(hdr.DataLen))...)
	if _, err := d.f.WriteAt(buf, offset); err != nil {
		return 0, errors.NewDataWriteError(err, d.path, offset)
	}
	return int64(len(buf)), nil
}

// ZeroRange overwrites [from, end-of-file) with zero bytes, used both
// by recovery (tail-zeroing a torn record) and by Rollback. Chunks are
// written from the end of the file back towards from, which gives
// Rollback its bottom-up zeroing order.
func (d *File) ZeroRange(from int64) error {
	size, err := d.Size()
	if err != nil {
		return err
	}
	if from >= size {
		return nil
	}
	const chunk = 64 * 1024
	zeros := make([]byte, chunk)
	for end := size; end > from; {
		pos := end - chunk
		if pos < from {
			pos = from
		}
		if _, err := d.f.WriteAt(zeros[:end-pos], pos); err != nil {
			return errors.NewDataWriteError(err, d.path, pos)
		}
		end = pos
	}
	return nil
}

// Truncate shrinks the file to exactly size bytes.
func (d *File) Truncate(size int64) error {
	if err := d.f.Truncate(size); err != nil {
		return errors.NewDataWriteError(err, d.path, size)
	}
	return nil
}

// Flush flushes buffered writes to the OS and, if sync is true,
// fsyncs the file to stable storage.
func (d *File) Flush(sync bool) error {
	if !sync {
		return nil
	}
	if err := d.f.Sync(); err != nil {
		return errors.ClassifySyncError(err, errors.FileData, d.path, 0)
	}
	return nil
}

// Close closes the underlying file.
func (d *File) Close() error {
	if err := d.f.Close(); err != nil {
		return errors.NewFileError(err, errors.ErrorCodeDataWriteFailed, errors.StatusDataWriteFailed, "failed to close data file").
			WithFile(errors.FileData).WithPath(d.path)
	}
	return nil
}
