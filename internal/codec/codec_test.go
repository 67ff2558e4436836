package codec_test

import (
	"testing"

	"github.com/iamNilotpal/journal/internal/codec"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	h := codec.Header{Magic: codec.DataMagic, Format: codec.FormatVersion, Text: codec.DataBanner}
	buf := codec.EncodeHeader(h)
	require.Len(t, buf, codec.HeaderSize)

	got := codec.DecodeHeader(buf)
	require.Equal(t, h, got)
}

func TestDataRecordHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	h := codec.DataRecordHeader{Seqnum: 42, Timestamp: 1000, DataLen: 12, Checksum: 0xdeadbeef}
	buf := codec.EncodeDataRecordHeader(h)
	require.Len(t, buf, codec.DataRecordHeaderSize)
	require.Equal(t, h, codec.DecodeDataRecordHeader(buf))
}

func TestDataRecordHeaderIsZero(t *testing.T) {
	t.Parallel()

	require.True(t, codec.DataRecordHeader{}.IsZero())
	require.False(t, codec.DataRecordHeader{Seqnum: 1}.IsZero())
}

func TestIndexRecordRoundTrip(t *testing.T) {
	t.Parallel()

	r := codec.IndexRecord{Seqnum: 7, Timestamp: 700, Pos: 128}
	buf := codec.EncodeIndexRecord(r)
	require.Len(t, buf, codec.IndexRecordSize)
	require.Equal(t, r, codec.DecodeIndexRecord(buf))
}

func TestPadLen(t *testing.T) {
	t.Parallel()

	cases := map[uint32]int{0: 0, 1: 7, 7: 1, 8: 0, 9: 7, 16: 0}
	for dataLen, want := range cases {
		require.Equal(t, want, codec.PadLen(dataLen), "dataLen=%d", dataLen)
	}
}

func TestRecordSizeIsWordAligned(t *testing.T) {
	t.Parallel()

	for dataLen := uint32(0); dataLen < 64; dataLen++ {
		size := codec.RecordSize(dataLen)
		require.Zero(t, size%codec.WordSize, "dataLen=%d size=%d not word-aligned", dataLen, size)
		require.GreaterOrEqual(t, size, int64(codec.DataRecordHeaderSize)+int64(dataLen))
	}
}

func TestChecksumComposesOverHeaderThenPayload(t *testing.T) {
	t.Parallel()

	seqnum, timestamp := uint64(10), uint64(1000)
	payload := []byte("data-10")

	whole := codec.Checksum(seqnum, timestamp, uint32(len(payload)), payload)

	partial := codec.ChecksumFields(seqnum, timestamp, uint32(len(payload)))
	extended := codec.ChecksumExtend(partial, payload)

	require.Equal(t, whole, extended, "checksum must compose across the header/payload split")
}

func TestChecksumDetectsTampering(t *testing.T) {
	t.Parallel()

	good := codec.Checksum(1, 100, 4, []byte("abcd"))
	bad := codec.Checksum(1, 100, 4, []byte("abcE"))
	require.NotEqual(t, good, bad)
}
