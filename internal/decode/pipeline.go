package decode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/danmuck/binlog/internal/observability"
	"github.com/danmuck/binlog/internal/sink"
	"github.com/danmuck/binlog/internal/symtab"
	"github.com/danmuck/binlog/internal/wire"
)

// Reporter receives per-record decode failures. It is deliberately separate
// from the line sink so noise never interleaves with decoded output.
type Reporter func(err error)

// Options tunes one pipeline run.
type Options struct {
	// MinLevel drops decoded lines below this severity. Filtering happens
	// after decoding so malformed records are still reported.
	MinLevel wire.Level

	Limits    wire.Limits
	ChunkSize int

	// Report defaults to logging through Logger at warn level.
	Report Reporter
	Logger zerolog.Logger
}

// Stats is a snapshot of pipeline progress counters.
type Stats struct {
	BytesRead    int64
	Records      int64
	Lines        int64
	RecordErrors int64
}

// Pipeline drives the frame decoder, symbol table, and argument formatter
// over one record stream. Single-threaded and pull-based: it blocks on the
// byte source when the decoder wants more input and on the sink when
// emitting.
type Pipeline struct {
	table *symtab.Table
	out   sink.Sink
	dec   *wire.Decoder
	opts  Options

	bytesRead    atomic.Int64
	records      atomic.Int64
	lines        atomic.Int64
	recordErrors atomic.Int64
}

func New(table *symtab.Table, out sink.Sink, opts Options) *Pipeline {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 4096
	}
	p := &Pipeline{
		table: table,
		out:   out,
		dec:   wire.NewDecoder(opts.Limits),
		opts:  opts,
	}
	if p.opts.Report == nil {
		logger := opts.Logger
		p.opts.Report = func(err error) {
			logger.Warn().Err(err).Msg("record error")
		}
	}
	return p
}

// Snapshot returns current progress counters. Safe to call from other
// goroutines (the status server) while Run is active.
func (p *Pipeline) Snapshot() Stats {
	return Stats{
		BytesRead:    p.bytesRead.Load(),
		Records:      p.records.Load(),
		Lines:        p.lines.Load(),
		RecordErrors: p.recordErrors.Load(),
	}
}

// Run consumes r until EOF or ctx cancellation. Per-record conditions are
// reported and skipped; only source/sink failures and cancellation end the
// run early. A truncated trailing frame is reported once and the run still
// succeeds.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, p.opts.ChunkSize)
	for {
		if err := p.drain(ctx); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			p.bytesRead.Add(int64(n))
			observability.RecordStreamBytes(n)
			p.dec.Feed(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("decode: reading record stream: %w", err)
			}
			p.dec.CloseInput()
			return p.drain(ctx)
		}
	}
}

// drain pulls the decoder until it suspends or the stream ends. Cancellation
// is checked between records, never mid-record.
func (p *Pipeline) drain(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		rec, err := p.dec.Next()
		switch {
		case err == nil:
			if err := p.handle(rec); err != nil {
				return err
			}
		case errors.Is(err, wire.ErrShortInput), errors.Is(err, io.EOF):
			return nil
		default:
			// frame corruption or trailing truncation
			p.recordError(err)
		}
	}
}

func (p *Pipeline) handle(rec wire.Record) error {
	p.records.Add(1)
	observability.RecordDecoded()

	entry, ok := p.table.Lookup(rec.FormatID)
	if !ok {
		p.recordError(fmt.Errorf("%w: %d", ErrUnknownFormatID, rec.FormatID))
		return nil
	}
	text, err := FormatArgs(entry, rec.Args)
	if err != nil {
		p.recordError(err)
		if !errors.Is(err, ErrArgOverflow) {
			return nil
		}
	}
	if rec.Level < p.opts.MinLevel {
		return nil
	}
	if err := p.out.Emit(sink.Line{Level: rec.Level, Text: text}); err != nil {
		return fmt.Errorf("decode: emitting line: %w", err)
	}
	p.lines.Add(1)
	observability.RecordLineEmitted()
	return nil
}

func (p *Pipeline) recordError(err error) {
	p.recordErrors.Add(1)
	observability.RecordRecordError(errorKind(err))
	p.opts.Report(err)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, wire.ErrFrameCorruption):
		return "frame_corruption"
	case errors.Is(err, wire.ErrTruncatedStream):
		return "truncated_stream"
	case errors.Is(err, ErrUnknownFormatID):
		return "unknown_format_id"
	case errors.Is(err, ErrArgUnderflow):
		return "arg_underflow"
	case errors.Is(err, ErrArgOverflow):
		return "arg_overflow"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "other"
	}
}
