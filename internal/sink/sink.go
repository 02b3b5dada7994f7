// Package sink owns decoded-line output surfaces.
package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danmuck/binlog/internal/wire"
)

// Line is one decoded log line, handed to a sink as soon as it is produced.
type Line struct {
	Level wire.Level
	Text  string
}

// Sink receives decoded lines one at a time. Emit blocks until the line is
// accepted; a failing sink ends the run.
type Sink interface {
	Emit(line Line) error
}

type jsonLine struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Writer emits plain "LEVEL text" lines.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (s *Writer) Emit(line Line) error {
	_, err := fmt.Fprintf(s.w, "%s %s\n", line.Level, line.Text)
	return err
}

// JSONL emits one JSON object per line.
type JSONL struct {
	enc *json.Encoder
}

func NewJSONL(w io.Writer) *JSONL { return &JSONL{enc: json.NewEncoder(w)} }

func (s *JSONL) Emit(line Line) error {
	return s.enc.Encode(jsonLine{Level: line.Level.String(), Text: line.Text})
}

// Fanout emits to every sink in order, stopping at the first failure.
type Fanout []Sink

func (f Fanout) Emit(line Line) error {
	for _, s := range f {
		if err := s.Emit(line); err != nil {
			return err
		}
	}
	return nil
}
