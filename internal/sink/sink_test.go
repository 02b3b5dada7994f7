package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/danmuck/binlog/internal/wire"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)
	if err := s.Emit(Line{Level: wire.LevelInfo, Text: "val=42 msg=hi!"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if buf.String() != "INFO val=42 msg=hi!\n" {
		t.Fatalf("output %q", buf.String())
	}
}

func TestJSONLFormat(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONL(&buf)
	if err := s.Emit(Line{Level: wire.LevelError, Text: "fault"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	var got struct {
		Level string `json:"level"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Level != "ERROR" || got.Text != "fault" {
		t.Fatalf("line %+v", got)
	}
}

type failSink struct{ err error }

func (s failSink) Emit(Line) error { return s.err }

func TestFanoutStopsAtFirstFailure(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")
	f := Fanout{NewWriter(&buf), failSink{err: boom}, NewWriter(&buf)}
	if err := f.Emit(Line{Level: wire.LevelInfo, Text: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if buf.String() != "INFO x\n" {
		t.Fatalf("later sinks ran after failure: %q", buf.String())
	}
}
