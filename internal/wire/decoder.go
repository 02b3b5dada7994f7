package wire

import (
	"errors"
	"fmt"
	"io"
)

type state uint8

const (
	stateHeader state = iota
	statePayload
	stateResync
)

var (
	// ErrShortInput reports that the buffered bytes do not hold the next
	// complete frame yet. Feed more input and call Next again; no bytes
	// are consumed.
	ErrShortInput = errors.New("wire: short input")

	// ErrFrameCorruption tags every *CorruptionError.
	ErrFrameCorruption = errors.New("wire: frame corruption")

	// ErrTruncatedStream reports a partial frame pending at end of input.
	// It is returned at most once; records decoded before it remain valid.
	ErrTruncatedStream = errors.New("wire: truncated stream")
)

// CorruptionError reports a span of bytes discarded while resynchronizing.
type CorruptionError struct {
	Offset  int64 // stream offset of the first discarded byte
	Skipped int   // bytes discarded before framing resumed
	Reason  string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("wire: frame corruption at offset %d: discarded %d byte(s): %s",
		e.Offset, e.Skipped, e.Reason)
}

func (e *CorruptionError) Unwrap() error { return ErrFrameCorruption }

// Limits constrains decoder memory use. A header claiming an argument
// payload larger than MaxArgBytes is treated as corruption.
type Limits struct {
	MaxArgBytes uint64
}

func DefaultLimits() Limits {
	return Limits{MaxArgBytes: 1 << 20}
}

// Decoder turns an arbitrarily chunked byte stream into Records. It is a
// pull-based state machine: Feed appends raw transport bytes and Next yields
// the next record, ErrShortInput to request more input, a *CorruptionError
// after a resynchronization, ErrTruncatedStream once for a partial trailing
// frame, or io.EOF after CloseInput once the buffer is drained.
//
// Chunking never affects the record sequence: a frame is only consumed once
// all of its bytes are buffered.
type Decoder struct {
	limits Limits

	buf []byte
	off int   // cursor into buf
	pos int64 // stream offset of buf[0]

	state state

	// frame being assembled while in statePayload
	hdr    Record
	argLen int

	// resync bookkeeping while in stateResync
	resyncStart  int64
	resyncReason string
	skipped      int

	closed    bool
	truncated bool
}

func NewDecoder(limits Limits) *Decoder {
	if limits.MaxArgBytes == 0 {
		limits = DefaultLimits()
	}
	return &Decoder{limits: limits}
}

// Feed appends a chunk of raw transport bytes. Feeding after CloseInput is a
// no-op.
func (d *Decoder) Feed(p []byte) {
	if d.closed || len(p) == 0 {
		return
	}
	d.compact()
	d.buf = append(d.buf, p...)
}

// CloseInput marks end of input. Next drains any complete frames still
// buffered, reports a pending partial frame as ErrTruncatedStream once, and
// returns io.EOF thereafter.
func (d *Decoder) CloseInput() { d.closed = true }

func (d *Decoder) compact() {
	if d.off == 0 {
		return
	}
	n := copy(d.buf, d.buf[d.off:])
	d.buf = d.buf[:n]
	d.pos += int64(d.off)
	d.off = 0
}

// Next returns the next decoded record or a per-call condition, as described
// on Decoder.
func (d *Decoder) Next() (Record, error) {
	for {
		switch d.state {
		case stateHeader:
			hdr, argLen, n, err := d.parseHeader()
			if err == nil {
				d.off += n
				d.hdr = hdr
				d.argLen = argLen
				d.state = statePayload
				continue
			}
			if isShort(err) {
				return d.suspend()
			}
			// Bad header byte: discard it and start hunting for the
			// next parseable frame boundary.
			d.state = stateResync
			d.resyncStart = d.pos + int64(d.off)
			d.resyncReason = err.Error()
			d.skipped = 1
			d.off++
			continue

		case stateResync:
			return d.resync()

		case statePayload:
			if len(d.buf)-d.off < d.argLen {
				return d.suspend()
			}
			args := make([]byte, d.argLen)
			copy(args, d.buf[d.off:d.off+d.argLen])
			d.off += d.argLen
			rec := d.hdr
			rec.Args = args
			d.state = stateHeader
			return rec, nil
		}
	}
}

// resync probes each buffered byte for a parseable header, then reports the
// discarded span as one CorruptionError. Framing resumes on the next call.
func (d *Decoder) resync() (Record, error) {
	for d.off < len(d.buf) {
		_, _, _, err := d.parseHeader()
		if err == nil {
			return Record{}, d.finishResync()
		}
		if isShort(err) {
			if !d.closed {
				return Record{}, ErrShortInput
			}
			// Input is closed and the tail never becomes a frame;
			// fold it into the corrupt span.
			d.skipped += len(d.buf) - d.off
			d.off = len(d.buf)
			return Record{}, d.finishResync()
		}
		d.off++
		d.skipped++
	}
	if !d.closed {
		return Record{}, ErrShortInput
	}
	return Record{}, d.finishResync()
}

func (d *Decoder) finishResync() error {
	err := &CorruptionError{Offset: d.resyncStart, Skipped: d.skipped, Reason: d.resyncReason}
	d.state = stateHeader
	d.skipped = 0
	return err
}

// suspend is the short-input exit: more input wanted, or end of input with a
// clean boundary (io.EOF) or a partial frame (ErrTruncatedStream, once).
func (d *Decoder) suspend() (Record, error) {
	if !d.closed {
		return Record{}, ErrShortInput
	}
	if d.off < len(d.buf) || d.state == statePayload {
		d.off = len(d.buf)
		d.state = stateHeader
		if d.truncated {
			return Record{}, io.EOF
		}
		d.truncated = true
		return Record{}, ErrTruncatedStream
	}
	return Record{}, io.EOF
}

var errShortHeader = errors.New("wire: short header")

func isShort(err error) bool {
	return errors.Is(err, errShortHeader) || errors.Is(err, ErrShortVarint)
}

// parseHeader attempts to decode a frame header at the cursor without
// consuming anything. It returns the header record (Args unset), the payload
// length, and the header's encoded size.
func (d *Decoder) parseHeader() (Record, int, int, error) {
	b := d.buf[d.off:]
	if len(b) == 0 {
		return Record{}, 0, 0, errShortHeader
	}
	lvl := Level(b[0])
	if !lvl.Valid() {
		return Record{}, 0, 0, fmt.Errorf("invalid level tag 0x%02x", b[0])
	}
	id, n, err := Uvarint(b[1:])
	if err != nil {
		return Record{}, 0, 0, err
	}
	argLen, m, err := Uvarint(b[1+n:])
	if err != nil {
		return Record{}, 0, 0, err
	}
	if argLen > d.limits.MaxArgBytes {
		return Record{}, 0, 0, fmt.Errorf("argument length %d exceeds limit %d", argLen, d.limits.MaxArgBytes)
	}
	return Record{Level: lvl, FormatID: id}, int(argLen), 1 + n + m, nil
}
