package journalfile

import (
	"github.com/iamNilotpal/journal/internal/codec"
	"github.com/iamNilotpal/journal/pkg/errors"
)

// SearchMode selects which boundary Search resolves a timestamp to.
type SearchMode int

const (
	// SearchLower resolves to the first seqnum whose timestamp is >= target.
	SearchLower SearchMode = iota
	// SearchUpper resolves to the first seqnum whose timestamp is > target.
	SearchUpper
)

// Stats is the journal-wide summary Stats returns.
type Stats struct {
	MinSeqnum    uint64
	MaxSeqnum    uint64
	MinTimestamp uint64
	MaxTimestamp uint64
	NumEntries   uint64
	IndexSize    int64
	DataSize     int64
}

// Read copies entries starting at startSeqnum into buf, returning as
// many fully- or partially-described entries as fit. Each returned
// entry's Data is a slice of buf, valid until buf is reused. A read that ends
// mid-header simply stops, dropping that in-progress entry so the
// next call starts at the same seqnum; a read that ends mid-payload
// returns one final entry with Data == nil and DataLen set to the
// payload's true size, so the caller knows exactly how much buffer to
// bring on retry.
func (c *Core) Read(startSeqnum uint64, buf []byte) ([]Entry, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	c.filesMu.RLock()
	defer c.filesMu.RUnlock()

	st := c.snapshot()
	if st.empty() || startSeqnum > st.seqnum2 {
		return nil, errors.NewNotFoundError(startSeqnum)
	}
	if startSeqnum < st.seqnum1 {
		startSeqnum = st.seqnum1
	}

	slot := int64(startSeqnum - st.seqnum1)
	rec, err := c.index.ReadSlot(slot)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	offset := int64(rec.Pos)
	remaining := buf

	for {
		if int64(len(remaining)) < codec.DataRecordHeaderSize {
			break
		}
		hdr, err := c.data.ReadRecordHeader(offset)
		if err != nil {
			return nil, err
		}
		if hdr.IsZero() {
			break
		}

		recSize := codec.RecordSize(hdr.DataLen)
		if int64(len(remaining)) < recSize {
			entries = append(entries, Entry{Seqnum: hdr.Seqnum, Timestamp: hdr.Timestamp, DataLen: hdr.DataLen, Data: nil})
			break
		}

		if _, err := c.data.ReadAt(remaining[:recSize], offset); err != nil {
			return nil, err
		}
		payload := remaining[codec.DataRecordHeaderSize : codec.DataRecordHeaderSize+int64(hdr.DataLen)]
		entries = append(entries, Entry{Seqnum: hdr.Seqnum, Timestamp: hdr.Timestamp, DataLen: hdr.DataLen, Data: payload})

		remaining = remaining[recSize:]
		offset += recSize
		if hdr.Seqnum == st.seqnum2 {
			break
		}
	}

	return entries, nil
}

// Stats summarizes the journal, clamping the requested range to
// [seqnum1, seqnum2] and returning zeros when the clamped range is
// empty.
func (c *Core) Stats(seqnumLo, seqnumHi uint64) (Stats, error) {
	if err := c.checkOpen(); err != nil {
		return Stats{}, err
	}

	c.filesMu.RLock()
	defer c.filesMu.RUnlock()

	st := c.snapshot()
	if st.empty() {
		return Stats{}, nil
	}
	if seqnumLo < st.seqnum1 {
		seqnumLo = st.seqnum1
	}
	if seqnumHi > st.seqnum2 || seqnumHi == 0 {
		seqnumHi = st.seqnum2
	}
	if seqnumLo > seqnumHi {
		return Stats{}, nil
	}

	loSlot := int64(seqnumLo - st.seqnum1)
	hiSlot := int64(seqnumHi - st.seqnum1)

	loRec, err := c.index.ReadSlot(loSlot)
	if err != nil {
		return Stats{}, err
	}
	hiRec, err := c.index.ReadSlot(hiSlot)
	if err != nil {
		return Stats{}, err
	}

	hiHdr, err := c.data.ReadRecordHeader(int64(hiRec.Pos))
	if err != nil {
		return Stats{}, err
	}

	dataSize := int64(hiRec.Pos) + codec.RecordSize(hiHdr.DataLen) - int64(loRec.Pos)
	indexSize := (hiSlot - loSlot + 1) * codec.IndexRecordSize

	return Stats{
		MinSeqnum:    loRec.Seqnum,
		MaxSeqnum:    hiRec.Seqnum,
		MinTimestamp: loRec.Timestamp,
		MaxTimestamp: hiRec.Timestamp,
		NumEntries:   uint64(hiSlot - loSlot + 1),
		IndexSize:    indexSize,
		DataSize:     dataSize,
	}, nil
}

// Search performs a binary search over the index by timestamp, per
// mode, returning the not-found LogicalError built by
// errors.NewNotFoundError when no seqnum satisfies it.
func (c *Core) Search(timestamp uint64, mode SearchMode) (uint64, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	c.filesMu.RLock()
	defer c.filesMu.RUnlock()

	st := c.snapshot()
	if st.empty() {
		return 0, errors.NewNotFoundError(0)
	}

	switch mode {
	case SearchLower:
		if timestamp <= st.timestamp1 {
			return st.seqnum1, nil
		}
		if timestamp > st.timestamp2 {
			return 0, errors.NewNotFoundError(0)
		}
	case SearchUpper:
		if timestamp < st.timestamp1 {
			return st.seqnum1, nil
		}
		if timestamp >= st.timestamp2 {
			return 0, errors.NewNotFoundError(0)
		}
	}

	n := int64(st.seqnum2 - st.seqnum1 + 1)
	lo, hi := int64(0), n-1
	result := int64(-1)

	for lo <= hi {
		mid := lo + (hi-lo)/2
		rec, err := c.index.ReadSlot(mid)
		if err != nil {
			return 0, err
		}
		var match bool
		switch mode {
		case SearchLower:
			match = rec.Timestamp >= timestamp
		case SearchUpper:
			match = rec.Timestamp > timestamp
		}
		if match {
			result = mid
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}

	if result < 0 {
		return 0, errors.NewNotFoundError(0)
	}
	rec, err := c.index.ReadSlot(result)
	if err != nil {
		return 0, err
	}
	return rec.Seqnum, nil
}
