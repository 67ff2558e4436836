package journalfile

import (
	"os"

	"github.com/iamNilotpal/journal/internal/codec"
	"github.com/iamNilotpal/journal/internal/datafile"
	"github.com/iamNilotpal/journal/internal/indexfile"
	"github.com/iamNilotpal/journal/pkg/errors"
	"github.com/iamNilotpal/journal/pkg/filesys"
	"github.com/iamNilotpal/journal/pkg/fsnames"
	"github.com/iamNilotpal/journal/pkg/lock"
	"github.com/iamNilotpal/journal/pkg/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Open validates dir/name, creates the backing files on first use,
// repairs whatever inconsistency a deep or shallow scan turns up, and
// returns a ready-to-use Core with both advisory locks held.
func Open(dir, name string, opts *options.Options, log *zap.SugaredLogger) (*Core, error) {
	if !fsnames.Valid(name) {
		return nil, errors.NewInvalidNameError(name)
	}
	if dir == "" {
		dir = "."
	}
	exists, err := filesys.DirExists(dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewDirectoryMissingError(dir)
	}

	dataPath := fsnames.DataPath(dir, name)
	indexPath := fsnames.IndexPath(dir, name)

	dataExists, err := filesys.Exists(dataPath)
	if err != nil {
		return nil, errors.NewDataOpenError(err, dataPath)
	}
	indexExists, err := filesys.Exists(indexPath)
	if err != nil {
		return nil, errors.NewIndexOpenError(err, indexPath)
	}

	// A missing data file forces recreation of both, since the data
	// file is authoritative and an index without it is meaningless.
	if !dataExists && indexExists {
		if err := os.Remove(indexPath); err != nil {
			return nil, errors.NewIndexWriteError(err, indexPath, 0)
		}
		indexExists = false
	}

	var data *datafile.File
	var index *indexfile.File
	var st state

	switch {
	case !dataExists && !indexExists:
		data, index, st, err = createFresh(dataPath, indexPath)
	case dataExists && !indexExists:
		data, st, err = openAndScanData(dataPath, true)
		if err == nil {
			index, err = rebuildIndex(indexPath, data, st)
		}
	default:
		data, index, st, err = openExisting(dataPath, indexPath, opts.DeepCheck)
	}
	if err != nil {
		if data != nil {
			_ = data.Close()
		}
		if index != nil {
			_ = index.Close()
		}
		return nil, err
	}

	dataLock, err := lock.TryLock(data.Fd())
	if err != nil {
		_ = data.Close()
		_ = index.Close()
		if err == lock.ErrWouldBlock {
			return nil, errors.NewLockContentionError(dataPath)
		}
		return nil, errors.NewInternalError(err, "failed to lock data file")
	}
	indexLock, err := lock.TryLock(index.Fd())
	if err != nil {
		_ = dataLock.Unlock()
		_ = data.Close()
		_ = index.Close()
		if err == lock.ErrWouldBlock {
			return nil, errors.NewLockContentionError(indexPath)
		}
		return nil, errors.NewInternalError(err, "failed to lock index file")
	}

	log.Infow("journal opened",
		"dir", dir, "name", name,
		"seqnum1", st.seqnum1, "seqnum2", st.seqnum2,
		"deepCheck", opts.DeepCheck,
	)

	c := &Core{
		dir: dir, name: name,
		data: data, index: index,
		dataLock: dataLock, indexLock: indexLock,
		opts: opts, log: log,
		st: st,
	}
	c.fsync.Store(opts.Fsync)
	return c, nil
}

// createFresh lays down brand-new, empty data and index files.
func createFresh(dataPath, indexPath string) (*datafile.File, *indexfile.File, state, error) {
	data, err := datafile.Create(dataPath, codec.DataBanner)
	if err != nil {
		return nil, nil, state{}, err
	}
	index, err := indexfile.Create(indexPath, codec.IndexBanner)
	if err != nil {
		_ = data.Close()
		return nil, nil, state{}, err
	}
	return data, index, state{datEnd: codec.HeaderSize}, nil
}

// dataScanResult captures what a data-file scan learned.
type dataScanResult struct {
	seqnum1, timestamp1 uint64
	seqnum2, timestamp2 uint64
	datEnd              int64
}

// openAndScanData opens the data file and validates its header,
// performing a full forward scan when deep is true.
func openAndScanData(path string, deep bool) (*datafile.File, state, error) {
	data, err := datafile.Open(path)
	if err != nil {
		return nil, state{}, err
	}
	hdr, err := data.ReadHeader()
	if err != nil {
		return data, state{}, err
	}
	if hdr.Magic != codec.DataMagic {
		return data, state{}, errors.NewDataBadMagicError()
	}
	if hdr.Format != codec.FormatVersion {
		return data, state{}, errors.NewDataBadFormatError(hdr.Format)
	}

	if !deep {
		res, err := scanDataFirstRecord(data)
		if err != nil {
			return data, state{}, err
		}
		return data, state{seqnum1: res.seqnum1, timestamp1: res.timestamp1}, nil
	}

	res, err := scanDataFull(data)
	if err != nil {
		return data, state{}, err
	}
	if err := data.ZeroRange(res.datEnd); err != nil {
		return data, state{}, err
	}
	return data, state{
		seqnum1: res.seqnum1, timestamp1: res.timestamp1,
		seqnum2: res.seqnum2, timestamp2: res.timestamp2,
		datEnd: res.datEnd,
	}, nil
}

// scanDataFirstRecord reads only the first record, for a shallow open.
func scanDataFirstRecord(data *datafile.File) (dataScanResult, error) {
	size, err := data.Size()
	if err != nil {
		return dataScanResult{}, err
	}
	if size <= codec.HeaderSize {
		return dataScanResult{}, nil
	}
	hdr, err := data.ReadRecordHeader(codec.HeaderSize)
	if err != nil {
		return dataScanResult{}, err
	}
	if hdr.IsZero() {
		return dataScanResult{}, nil
	}
	return dataScanResult{seqnum1: hdr.Seqnum, timestamp1: hdr.Timestamp}, nil
}

// scanDataFull walks every record from the start, verifying checksum,
// seqnum density, and timestamp monotonicity. On the first sign of a
// torn tail (truncated header, truncated payload, or a zero-seqnum
// marker) it stops there without error; a mid-stream inconsistency
// with an otherwise intact record is fatal.
func scanDataFull(data *datafile.File) (dataScanResult, error) {
	size, err := data.Size()
	if err != nil {
		return dataScanResult{}, err
	}

	var res dataScanResult
	offset := int64(codec.HeaderSize)
	havePrev := false

	for offset+codec.DataRecordHeaderSize <= size {
		hdr, err := data.ReadRecordHeader(offset)
		if err != nil {
			return dataScanResult{}, err
		}
		if hdr.IsZero() {
			res.datEnd = offset
			return res, nil
		}

		recSize := codec.RecordSize(hdr.DataLen)
		if offset+recSize > size {
			// Truncated payload: a torn tail, not corruption.
			res.datEnd = offset
			return res, nil
		}

		payload := make([]byte, hdr.DataLen)
		if _, err := data.ReadAt(payload, offset+codec.DataRecordHeaderSize); err != nil {
			return dataScanResult{}, err
		}
		if hdr.DataLen > 0 || hdr.Seqnum != 0 {
			sum := codec.Checksum(hdr.Seqnum, hdr.Timestamp, hdr.DataLen, payload)
			if sum != hdr.Checksum {
				return dataScanResult{}, errors.NewChecksumMismatchError(hdr.Seqnum)
			}
		}
		if havePrev {
			if hdr.Seqnum != res.seqnum2+1 {
				return dataScanResult{}, errors.NewBrokenSequenceError(res.seqnum2+1, hdr.Seqnum)
			}
			if hdr.Timestamp < res.timestamp2 {
				return dataScanResult{}, errors.NewTimestampRegressionError(res.timestamp2, hdr.Timestamp)
			}
		} else {
			res.seqnum1, res.timestamp1 = hdr.Seqnum, hdr.Timestamp
			havePrev = true
		}
		res.seqnum2, res.timestamp2 = hdr.Seqnum, hdr.Timestamp
		offset += recSize
	}

	// Remaining bytes (if any) are a truncated header.
	res.datEnd = offset
	return res, nil
}

// openExisting opens both files when neither was missing, scanning
// per opts.DeepCheck and reconciling the index against the data file.
func openExisting(dataPath, indexPath string, deepCheck bool) (*datafile.File, *indexfile.File, state, error) {
	data, st, err := openAndScanData(dataPath, deepCheck)
	if err != nil {
		return data, nil, state{}, err
	}

	index, idxTail, idxEnd, rebuild, err := openAndScanIndex(indexPath, st.seqnum1, st.timestamp1, deepCheck)
	if err != nil {
		if index != nil {
			_ = index.Close()
		}
		return data, nil, state{}, err
	}

	if rebuild {
		if index != nil {
			_ = index.Close()
		}
		if err := os.Remove(indexPath); err != nil && !os.IsNotExist(err) {
			return data, nil, state{}, errors.NewIndexWriteError(err, indexPath, 0)
		}
		full := st
		if !deepCheck {
			// A rebuild needs full knowledge of the data file
			// regardless of the requested open mode.
			res, err := scanDataFull(data)
			if err != nil {
				return data, nil, state{}, err
			}
			if err := data.ZeroRange(res.datEnd); err != nil {
				return data, nil, state{}, err
			}
			full = state{
				seqnum1: res.seqnum1, timestamp1: res.timestamp1,
				seqnum2: res.seqnum2, timestamp2: res.timestamp2,
				datEnd: res.datEnd,
			}
		}
		index, err = rebuildIndex(indexPath, data, full)
		if err != nil {
			return data, nil, state{}, err
		}
		return data, index, full, nil
	}

	final := st
	if deepCheck {
		if st.seqnum2 > idxTail.seqnum2 {
			if err := replayIndex(index, data, idxTail, idxEnd, st.seqnum2); err != nil {
				return data, nil, state{}, err
			}
		}
	} else {
		final.seqnum2, final.timestamp2 = idxTail.seqnum2, idxTail.timestamp2
		if idxTail.seqnum2 == 0 {
			final.datEnd = codec.HeaderSize
		} else {
			hdr, err := data.ReadRecordHeader(int64(idxTail.pos))
			if err != nil {
				return data, nil, state{}, err
			}
			final.datEnd = int64(idxTail.pos) + codec.RecordSize(hdr.DataLen)
		}
		if err := data.ZeroRange(final.datEnd); err != nil {
			return data, nil, state{}, err
		}
	}

	return data, index, final, nil
}

// indexTail summarizes what the index scan found at its tail.
type indexTail struct {
	seqnum2, timestamp2 uint64
	pos                 uint64
}

// openAndScanIndex validates the index header and slot 0, then either
// walks forward (deep) or scans backward over trailing zero slots
// (shallow) to find the tail. Any index-specific inconsistency is
// reported via the rebuild flag rather than a hard error, since the
// index is always derivable from the data file.
func openAndScanIndex(path string, seqnum1, timestamp1 uint64, deep bool) (*indexfile.File, indexTail, int64, bool, error) {
	index, err := indexfile.Open(path)
	if err != nil {
		return nil, indexTail{}, 0, false, err
	}

	hdr, err := index.ReadHeader()
	if err != nil || hdr.Magic != codec.IndexMagic || hdr.Format != codec.FormatVersion {
		return index, indexTail{}, 0, true, nil
	}

	size, err := index.Size()
	if err != nil {
		return index, indexTail{}, 0, true, nil
	}

	if seqnum1 == 0 {
		if size != codec.HeaderSize {
			return index, indexTail{}, 0, true, nil
		}
		return index, indexTail{}, codec.HeaderSize, false, nil
	}

	first, err := index.ReadSlot(0)
	if err != nil || first.Seqnum != seqnum1 || first.Timestamp != timestamp1 || first.Pos != codec.HeaderSize {
		return index, indexTail{}, 0, true, nil
	}

	numSlots := (size - codec.HeaderSize) / codec.IndexRecordSize
	if numSlots <= 0 {
		return index, indexTail{}, 0, true, nil
	}

	if deep {
		prevSeqnum, prevTimestamp := first.Seqnum, first.Timestamp
		tail := indexTail{seqnum2: first.Seqnum, timestamp2: first.Timestamp, pos: first.Pos}
		var slot int64 = 1
		for ; slot < numSlots; slot++ {
			rec, err := index.ReadSlot(slot)
			if err != nil {
				return index, indexTail{}, 0, true, nil
			}
			if rec.IsZero() {
				break
			}
			if rec.Seqnum != prevSeqnum+1 || rec.Timestamp < prevTimestamp {
				return index, indexTail{}, 0, true, nil
			}
			prevSeqnum, prevTimestamp = rec.Seqnum, rec.Timestamp
			tail = indexTail{seqnum2: rec.Seqnum, timestamp2: rec.Timestamp, pos: rec.Pos}
		}
		idxEnd := indexfile.OffsetForSlot(slot)
		if err := index.ZeroRange(idxEnd); err != nil {
			return index, indexTail{}, 0, true, nil
		}
		return index, tail, idxEnd, false, nil
	}

	slot := numSlots - 1
	for slot > 0 {
		rec, err := index.ReadSlot(slot)
		if err != nil {
			return index, indexTail{}, 0, true, nil
		}
		if !rec.IsZero() {
			break
		}
		slot--
	}
	tailRec, err := index.ReadSlot(slot)
	if err != nil {
		return index, indexTail{}, 0, true, nil
	}
	idxEnd := indexfile.OffsetForSlot(slot + 1)
	if err := index.ZeroRange(idxEnd); err != nil {
		return index, indexTail{}, 0, true, nil
	}
	return index, indexTail{seqnum2: tailRec.Seqnum, timestamp2: tailRec.Timestamp, pos: tailRec.Pos}, idxEnd, false, nil
}

// replayIndex appends index records for data records that exist past
// the index's current tail — the signature of a crash between the
// data flush and the index flush of an append.
func replayIndex(index *indexfile.File, data *datafile.File, tail indexTail, idxEnd int64, upToSeqnum uint64) error {
	offset := int64(tail.pos)
	if tail.seqnum2 != 0 {
		hdr, err := data.ReadRecordHeader(offset)
		if err != nil {
			return err
		}
		offset += codec.RecordSize(hdr.DataLen)
	} else {
		offset = codec.HeaderSize
	}

	slot := (idxEnd - codec.HeaderSize) / codec.IndexRecordSize
	for {
		hdr, err := data.ReadRecordHeader(offset)
		if err != nil {
			return err
		}
		if hdr.IsZero() || hdr.Seqnum > upToSeqnum {
			break
		}
		if err := index.WriteSlot(slot, codec.IndexRecord{Seqnum: hdr.Seqnum, Timestamp: hdr.Timestamp, Pos: uint64(offset)}); err != nil {
			return err
		}
		slot++
		offset += codec.RecordSize(hdr.DataLen)
		if hdr.Seqnum == upToSeqnum {
			break
		}
	}
	return index.Flush(false)
}

// rebuildIndex discards whatever the index file contained and
// reconstructs it from scratch with a single forward pass over the
// (already-scanned) data file.
func rebuildIndex(path string, data *datafile.File, st state) (*indexfile.File, error) {
	index, err := indexfile.Create(path, codec.IndexBanner)
	if err != nil {
		return nil, err
	}
	if st.empty() {
		return index, nil
	}

	offset := int64(codec.HeaderSize)
	var slot int64
	for {
		hdr, err := data.ReadRecordHeader(offset)
		if err != nil {
			return index, err
		}
		if hdr.IsZero() {
			break
		}
		if err := index.WriteSlot(slot, codec.IndexRecord{Seqnum: hdr.Seqnum, Timestamp: hdr.Timestamp, Pos: uint64(offset)}); err != nil {
			return index, err
		}
		slot++
		offset += codec.RecordSize(hdr.DataLen)
		if hdr.Seqnum == st.seqnum2 {
			break
		}
	}
	return index, index.Flush(false)
}

// Close releases both advisory locks and closes both files, combining
// any errors encountered along the way so the caller sees all of
// them, not just the first.
func (c *Core) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return errors.NewClosedError()
	}

	var err error
	if e := c.dataLock.Unlock(); e != nil {
		err = multierr.Append(err, e)
	}
	if e := c.indexLock.Unlock(); e != nil {
		err = multierr.Append(err, e)
	}
	if e := c.data.Close(); e != nil {
		err = multierr.Append(err, e)
	}
	if e := c.index.Close(); e != nil {
		err = multierr.Append(err, e)
	}
	return err
}
