package journalfile

import (
	"time"

	"github.com/iamNilotpal/journal/internal/codec"
	"github.com/iamNilotpal/journal/pkg/errors"
)

// Entry is one record accepted by Append or returned by Read. A zero
// Seqnum on input means "assign the next value"; a non-zero Seqnum
// on the first entry appended to an empty journal is accepted as the
// journal's starting seqnum. A zero Timestamp on
// input means "assign the current wall-clock time, clamped to be >=
// the last stored timestamp". Data may be empty but never nil on
// input.
type Entry struct {
	Seqnum    uint64
	Timestamp uint64
	DataLen   uint32 // Populated on Read; on Append input, len(Data) is authoritative.
	Data      []byte
}

// Append validates and writes entries as a single batch: every record
// is assigned a seqnum/timestamp, written to the data file, indexed,
// flushed, and only then published as visible state. A validation
// failure partway through the batch leaves nothing published — the
// journal never exposes a partially-applied batch.
//
// Append never takes filesMu, and holds stateMu only inside snapshot
// and publish: it is the journal's single writer, the data and index
// files only ever grow, and state is published with a single
// assignment after the flush, so a concurrent reader can only ever
// observe a fully-written prefix.
func (c *Core) Append(entries []Entry) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	st := c.snapshot()
	nextSeqnum := st.seqnum2 + 1
	nextTimestamp := st.timestamp2
	offset := st.datEnd
	indexSlot := int64(0)
	if st.empty() {
		offset = codec.HeaderSize
	} else {
		indexSlot = int64(st.seqnum2 - st.seqnum1 + 1)
	}

	sync := c.fsync.Load()

	for i := range entries {
		e := &entries[i]
		if e.Seqnum == 0 {
			e.Seqnum = nextSeqnum
		} else if e.Seqnum != nextSeqnum && !(i == 0 && st.empty()) {
			return i, errors.NewBrokenSequenceError(nextSeqnum, e.Seqnum)
		}
		if e.Timestamp == 0 {
			e.Timestamp = nextTimestamp
			if now := uint64(time.Now().UnixMilli()); now > e.Timestamp {
				e.Timestamp = now
			}
		} else if e.Timestamp < nextTimestamp {
			return i, errors.NewTimestampRegressionError(nextTimestamp, e.Timestamp)
		}

		hdr := codec.DataRecordHeader{
			Seqnum:    e.Seqnum,
			Timestamp: e.Timestamp,
			DataLen:   uint32(len(e.Data)),
			Checksum:  codec.Checksum(e.Seqnum, e.Timestamp, uint32(len(e.Data)), e.Data),
		}
		n, err := c.data.WriteRecord(offset, hdr, e.Data)
		if err != nil {
			return i, err
		}
		if err := c.index.WriteSlot(indexSlot, codec.IndexRecord{Seqnum: e.Seqnum, Timestamp: e.Timestamp, Pos: uint64(offset)}); err != nil {
			return i, err
		}

		offset += n
		indexSlot++
		nextSeqnum = e.Seqnum + 1
		nextTimestamp = e.Timestamp
	}

	if err := c.data.Flush(sync); err != nil {
		return len(entries), err
	}
	if err := c.index.Flush(sync); err != nil {
		return len(entries), err
	}

	last := &entries[len(entries)-1]
	first, firstTs := st.seqnum1, st.timestamp1
	if st.empty() {
		first, firstTs = entries[0].Seqnum, entries[0].Timestamp
	}
	c.publish(state{
		seqnum1: first, timestamp1: firstTs,
		seqnum2: last.Seqnum, timestamp2: last.Timestamp,
		datEnd: offset,
	})

	c.log.Debugw("appended", "count", len(entries), "first", entries[0].Seqnum, "last", last.Seqnum)
	return len(entries), nil
}
