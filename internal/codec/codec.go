// Package codec implements the journal's on-disk wire format: the
// shared 128-byte file header, the 24-byte data record header, the
// 24-byte index record, and the checksum that ties a data record's
// header fields to its payload. Every function here is a pure
// encode/decode routine with no I/O of its own — callers own the
// file handles and buffers.
//
// All multi-byte integers are little-endian, the canonical byte order
// for the v1 format, whatever the host's own byte order.
package codec

import (
	"encoding/binary"
	"hash/crc32"
)

// WordSize is the alignment boundary data records are padded to.
// Fixed at 8 bytes rather than derived from the host's pointer size:
// a v1 journal file is not portable across machine word sizes anyway,
// so there is nothing to gain from coupling the on-disk layout to
// unsafe.Sizeof(uintptr(0)).
const WordSize = 8

// HeaderSize is the size in bytes of the shared file header that
// begins both the data file and the index file.
const HeaderSize = 128

// DataRecordHeaderSize is the size in bytes of a data record's fixed
// header, before its variable-length payload and padding.
const DataRecordHeaderSize = 24

// IndexRecordSize is the size in bytes of one index record.
const IndexRecordSize = 24

// Magic values distinguish a data file header from an index file
// header so a misidentified file is caught immediately rather than
// silently misparsed.
const (
	DataMagic  uint64 = 0x4a524e4c44415401 // "JRNLDAT\x01", arbitrary but stable sentinel.
	IndexMagic uint64 = 0x4a524e4c49445801 // "JRNLIDX\x01".
)

// FormatVersion is the current on-disk format version.
const FormatVersion uint32 = 1

// DataBanner and IndexBanner are the human-readable banners stamped
// into the file header's text field, purely informational.
const (
	DataBanner  = "journal data file — do not edit by hand"
	IndexBanner = "journal index file — derived from data file, safe to delete"
)

// crcTable is the standard 256-entry lookup table for the AUTODIN-II /
// IEEE 802.3 polynomial. crc32.IEEE is exactly that polynomial, and
// crc32.MakeTable memoizes the same table the original implementation
// built once at process init.
var crcTable = crc32.MakeTable(crc32.IEEE)

// Header is the 128-byte structure shared by the data and index file.
type Header struct {
	Magic  uint64
	Format uint32
	Text   string // Truncated/zero-padded to 116 bytes on encode.
}

// EncodeHeader writes h into a fresh 128-byte buffer.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.Magic)
	binary.LittleEndian.PutUint32(buf[8:12], h.Format)
	n := copy(buf[12:HeaderSize], h.Text)
	_ = n // remaining bytes stay zero, matching the zero-padding invariant.
	return buf
}

// DecodeHeader parses a 128-byte buffer into a Header. buf must be at
// least HeaderSize bytes.
func DecodeHeader(buf []byte) Header {
	text := buf[12:HeaderSize]
	// Trim trailing zero bytes from the banner.
	end := len(text)
	for end > 0 && text[end-1] == 0 {
		end--
	}
	return Header{
		Magic:  binary.LittleEndian.Uint64(buf[0:8]),
		Format: binary.LittleEndian.Uint32(buf[8:12]),
		Text:   string(text[:end]),
	}
}

// DataRecordHeader is the 24-byte fixed header preceding every data
// record's payload.
type DataRecordHeader struct {
	Seqnum    uint64
	Timestamp uint64
	DataLen   uint32
	Checksum  uint32
}

// EncodeDataRecordHeader writes h into a fresh 24-byte buffer.
func EncodeDataRecordHeader(h DataRecordHeader) []byte {
	buf := make([]byte, DataRecordHeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.Seqnum)
	binary.LittleEndian.PutUint64(buf[8:16], h.Timestamp)
	binary.LittleEndian.PutUint32(buf[16:20], h.DataLen)
	binary.LittleEndian.PutUint32(buf[20:24], h.Checksum)
	return buf
}

// DecodeDataRecordHeader parses a 24-byte buffer into a
// DataRecordHeader. buf must be at least DataRecordHeaderSize bytes.
func DecodeDataRecordHeader(buf []byte) DataRecordHeader {
	return DataRecordHeader{
		Seqnum:    binary.LittleEndian.Uint64(buf[0:8]),
		Timestamp: binary.LittleEndian.Uint64(buf[8:16]),
		DataLen:   binary.LittleEndian.Uint32(buf[16:20]),
		Checksum:  binary.LittleEndian.Uint32(buf[20:24]),
	}
}

// IsZero reports whether h is the all-zero header that marks a
// rolled-back or never-committed slot.
func (h DataRecordHeader) IsZero() bool {
	return h.Seqnum == 0 && h.Timestamp == 0 && h.DataLen == 0 && h.Checksum == 0
}

// PadLen returns the number of zero pad bytes that follow a
// dataLen-byte payload to bring the record to a WordSize boundary.
func PadLen(dataLen uint32) int {
	rem := int(dataLen) % WordSize
	if rem == 0 {
		return 0
	}
	return WordSize - rem
}

// RecordSize returns the total on-disk size of a data record —
// header, payload, and padding — for a payload of the given length.
func RecordSize(dataLen uint32) int64 {
	return int64(DataRecordHeaderSize) + int64(dataLen) + int64(PadLen(dataLen))
}

// IndexRecord is the 24-byte seqnum→offset mapping entry.
type IndexRecord struct {
	Seqnum    uint64
	Timestamp uint64
	Pos       uint64
}

// EncodeIndexRecord writes r into a fresh 24-byte buffer.
func EncodeIndexRecord(r IndexRecord) []byte {
	buf := make([]byte, IndexRecordSize)
	binary.LittleEndian.PutUint64(buf[0:8], r.Seqnum)
	binary.LittleEndian.PutUint64(buf[8:16], r.Timestamp)
	binary.LittleEndian.PutUint64(buf[16:24], r.Pos)
	return buf
}

// DecodeIndexRecord parses a 24-byte buffer into an IndexRecord. buf
// must be at least IndexRecordSize bytes.
func DecodeIndexRecord(buf []byte) IndexRecord {
	return IndexRecord{
		Seqnum:    binary.LittleEndian.Uint64(buf[0:8]),
		Timestamp: binary.LittleEndian.Uint64(buf[8:16]),
		Pos:       binary.LittleEndian.Uint64(buf[16:24]),
	}
}

// IsZero reports whether r is the all-zero index record that marks a
// rolled-back or never-committed slot.
func (r IndexRecord) IsZero() bool {
	return r.Seqnum == 0 && r.Timestamp == 0 && r.Pos == 0
}

// ChecksumFields computes the data record checksum over the three
// header fields (seqnum, timestamp, data_len) as the first of the two
// conceptual steps spec'd for incremental verification: the header
// fields first, the payload extended afterward via ChecksumExtend.
// This lets a verifier checksum a record without ever materializing
// header and payload into one contiguous buffer.
func ChecksumFields(seqnum, timestamp uint64, dataLen uint32) uint32 {
	var buf [20]byte
	binary.LittleEndian.PutUint64(buf[0:8], seqnum)
	binary.LittleEndian.PutUint64(buf[8:16], timestamp)
	binary.LittleEndian.PutUint32(buf[16:20], dataLen)
	return crc32.Checksum(buf[:], crcTable)
}

// ChecksumExtend extends a checksum produced by ChecksumFields over
// the record's payload bytes. crc32.Update implements exactly the
// composition property the format relies on:
// crc32(tail, crc32(head, seed)) == crc32(head‖tail, seed).
func ChecksumExtend(partial uint32, payload []byte) uint32 {
	return crc32.Update(partial, crcTable, payload)
}

// Checksum computes the full data record checksum over
// (seqnum, timestamp, data_len, payload) in the two conceptual steps
// the format specifies.
func Checksum(seqnum, timestamp uint64, dataLen uint32, payload []byte) uint32 {
	return ChecksumExtend(ChecksumFields(seqnum, timestamp, dataLen), payload)
}
