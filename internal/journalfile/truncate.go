package journalfile

import (
	"bytes"
	"os"

	"github.com/iamNilotpal/journal/internal/codec"
	"github.com/iamNilotpal/journal/internal/datafile"
	"github.com/iamNilotpal/journal/pkg/errors"
	"github.com/iamNilotpal/journal/pkg/lock"
	"github.com/natefinch/atomic"
)

// Rollback discards every entry with seqnum' > seqnum, keeping
// [seqnum1, seqnum], and returns the number of entries removed. The
// index is zeroed top-down (from the new tail forward to the old end)
// before the data file is zeroed bottom-up (from the old end back to
// the new tail) — a crash between the two steps always leaves the
// index strictly behind the data file, so recovery's reconciliation
// step (internal/journalfile/open.go) finishes the job by zeroing the
// data past whatever the index still claims as its tail.
func (c *Core) Rollback(seqnum uint64) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	c.filesMu.Lock()
	defer c.filesMu.Unlock()

	st := c.snapshot()
	if st.empty() || seqnum >= st.seqnum2 {
		return 0, nil
	}

	var keepSlot int64
	if seqnum >= st.seqnum1 {
		keepSlot = int64(seqnum-st.seqnum1) + 1
	}
	removed := int(st.seqnum2-st.seqnum1+1) - int(keepSlot)

	var newDatEnd int64
	var newSeqnum2, newTimestamp2 uint64
	if keepSlot == 0 {
		newDatEnd = codec.HeaderSize
	} else {
		rec, err := c.index.ReadSlot(keepSlot - 1)
		if err != nil {
			return 0, err
		}
		hdr, err := c.data.ReadRecordHeader(int64(rec.Pos))
		if err != nil {
			return 0, err
		}
		newDatEnd = int64(rec.Pos) + codec.RecordSize(hdr.DataLen)
		newSeqnum2, newTimestamp2 = rec.Seqnum, rec.Timestamp
	}

	idxEnd := codec.HeaderSize + keepSlot*codec.IndexRecordSize
	if err := c.index.ZeroRange(idxEnd); err != nil {
		return 0, err
	}
	if err := c.index.Flush(c.fsync.Load()); err != nil {
		return 0, err
	}
	if err := c.data.ZeroRange(newDatEnd); err != nil {
		return 0, err
	}
	if err := c.data.Flush(c.fsync.Load()); err != nil {
		return 0, err
	}

	newSt := state{datEnd: newDatEnd}
	if keepSlot > 0 {
		newSt.seqnum1, newSt.timestamp1 = st.seqnum1, st.timestamp1
		newSt.seqnum2, newSt.timestamp2 = newSeqnum2, newTimestamp2
	}
	c.publish(newSt)

	c.log.Infow("rollback", "seqnum", seqnum, "removed", removed)
	return removed, nil
}

// Purge discards every entry with seqnum < seqnum, rewriting the data
// file through a temporary file and rebuilding the index from scratch,
// then returns the number of entries removed.
func (c *Core) Purge(seqnum uint64) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	c.filesMu.Lock()
	defer c.filesMu.Unlock()

	st := c.snapshot()
	if st.empty() || seqnum <= st.seqnum1 {
		return 0, nil
	}
	if seqnum > st.seqnum2 {
		seqnum = st.seqnum2 + 1
	}

	fromSlot := int64(seqnum - st.seqnum1)
	removed := int(fromSlot)

	startRec, err := c.index.ReadSlot(fromSlot)
	var keepBytes int64
	var newSeqnum1, newTimestamp1, newSeqnum2, newTimestamp2 uint64
	var newDatEnd int64

	if err != nil || fromSlot > int64(st.seqnum2-st.seqnum1) {
		// Nothing left after the purge point.
		if err2 := c.data.Truncate(codec.HeaderSize); err2 != nil {
			return 0, err2
		}
		if err2 := c.index.Truncate(codec.HeaderSize); err2 != nil {
			return 0, err2
		}
		c.publish(state{datEnd: codec.HeaderSize})
		c.log.Infow("purge", "seqnum", seqnum, "removed", removed)
		return removed, nil
	}

	keepBytes = st.datEnd - int64(startRec.Pos)
	newSeqnum1, newTimestamp1 = startRec.Seqnum, startRec.Timestamp
	newSeqnum2, newTimestamp2 = st.seqnum2, st.timestamp2
	newDatEnd = codec.HeaderSize + keepBytes

	if err := c.rewriteDataFile(int64(startRec.Pos), keepBytes); err != nil {
		return 0, err
	}

	indexPath := c.index.Path()
	if err := c.indexLock.Unlock(); err != nil {
		return 0, err
	}
	if err := c.index.Close(); err != nil {
		return 0, err
	}
	if err := os.Remove(indexPath); err != nil {
		return 0, errors.NewIndexWriteError(err, indexPath, 0)
	}
	newIndex, err := rebuildIndex(indexPath, c.data, state{
		seqnum1: newSeqnum1, timestamp1: newTimestamp1,
		seqnum2: newSeqnum2, timestamp2: newTimestamp2,
		datEnd: newDatEnd,
	})
	if err != nil {
		return 0, err
	}
	newIndexLock, err := lock.TryLock(newIndex.Fd())
	if err != nil {
		_ = newIndex.Close()
		return 0, errors.NewLockContentionError(indexPath)
	}
	c.index = newIndex
	c.indexLock = newIndexLock

	c.publish(state{
		seqnum1: newSeqnum1, timestamp1: newTimestamp1,
		seqnum2: newSeqnum2, timestamp2: newTimestamp2,
		datEnd: newDatEnd,
	})

	c.log.Infow("purge", "seqnum", seqnum, "removed", removed)
	return removed, nil
}

// rewriteDataFile assembles a fresh data file image — banner header
// plus [from, from+length) of the current data file — and replaces the
// original with it via atomic.WriteFile's temp-then-rename, so a reader
// opening the path mid-purge always sees either the whole old file or
// the whole new one, never a partial write.
func (c *Core) rewriteDataFile(from, length int64) error {
	payload := make([]byte, length)
	if _, err := c.data.ReadAt(payload, from); err != nil {
		return err
	}

	image := make([]byte, 0, codec.HeaderSize+length)
	image = append(image, codec.EncodeHeader(codec.Header{
		Magic: codec.DataMagic, Format: codec.FormatVersion, Text: codec.DataBanner,
	})...)
	image = append(image, payload...)

	oldPath := c.data.Path()
	if err := c.data.Close(); err != nil {
		return err
	}
	if err := atomic.WriteFile(oldPath, bytes.NewReader(image)); err != nil {
		return errors.NewTempFileError(err, oldPath)
	}

	reopened, err := datafile.Open(oldPath)
	if err != nil {
		return err
	}
	newLock, err := lock.TryLock(reopened.Fd())
	if err != nil {
		_ = reopened.Close()
		return errors.NewLockContentionError(oldPath)
	}
	_ = c.dataLock.Unlock()
	c.data = reopened
	c.dataLock = newLock
	return nil
}
