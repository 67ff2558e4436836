package journal_test

import (
	"testing"

	"github.com/iamNilotpal/journal/pkg/errors"
	"github.com/iamNilotpal/journal/pkg/journal"
	"github.com/iamNilotpal/journal/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestOpenAppendReadCloseRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := journal.Open(dir, "events")
	require.NoError(t, err)
	defer j.Close()

	n, err := j.Append([]journal.Entry{
		{Data: []byte("first")},
		{Data: []byte("second")},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	entries, err := j.Read(1, make([]byte, 4096))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, uint64(1), entries[0].Seqnum)
	require.Equal(t, []byte("first"), entries[0].Data)
	require.Equal(t, uint64(2), entries[1].Seqnum)
	require.Equal(t, []byte("second"), entries[1].Data)
}

func TestStatsAndSearch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := journal.Open(dir, "events")
	require.NoError(t, err)
	defer j.Close()

	entries := make([]journal.Entry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, journal.Entry{Timestamp: uint64(i*100 + 1), Data: []byte("x")})
	}
	_, err = j.Append(entries)
	require.NoError(t, err)

	stats, err := j.Stats(0, ^uint64(0))
	require.NoError(t, err)
	require.Equal(t, uint64(1), stats.MinSeqnum)
	require.Equal(t, uint64(10), stats.MaxSeqnum)
	require.Equal(t, uint64(10), stats.NumEntries)

	seqnum, err := j.Search(250, journal.SearchLower)
	require.NoError(t, err)
	require.Equal(t, uint64(4), seqnum)
}

func TestRollbackAndPurge(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := journal.Open(dir, "events")
	require.NoError(t, err)
	defer j.Close()

	entries := make([]journal.Entry, 0, 20)
	for i := 0; i < 20; i++ {
		entries = append(entries, journal.Entry{Data: []byte("x")})
	}
	_, err = j.Append(entries)
	require.NoError(t, err)

	removed, err := j.Rollback(15)
	require.NoError(t, err)
	require.Equal(t, 5, removed)

	removed, err = j.Purge(5)
	require.NoError(t, err)
	require.Equal(t, 4, removed)

	stats, err := j.Stats(0, ^uint64(0))
	require.NoError(t, err)
	require.Equal(t, uint64(5), stats.MinSeqnum)
	require.Equal(t, uint64(15), stats.MaxSeqnum)
}

func TestSecondCloseReturnsError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := journal.Open(dir, "events")
	require.NoError(t, err)

	require.NoError(t, j.Close())
	require.Error(t, j.Close())
}

func TestOpenRejectsInvalidName(t *testing.T) {
	t.Parallel()

	_, err := journal.Open(t.TempDir(), "bad/name")
	require.Error(t, err)
	require.Equal(t, errors.StatusInvalidName, journal.Code(err))
}

func TestOpenWithOptionsDeepCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := journal.Open(dir, "events", options.WithDeepCheck(true), options.WithFsync(true))
	require.NoError(t, err)
	defer j.Close()

	_, err = j.Append([]journal.Entry{{Data: []byte("durable")}})
	require.NoError(t, err)
}

func TestVersionAndStrerror(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, journal.Version())
	require.NotEmpty(t, journal.Strerror(errors.StatusNotFound))
	require.Equal(t, errors.OK, journal.Code(nil))
}
