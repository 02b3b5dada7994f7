package symtab

import (
	"errors"
	"testing"

	"github.com/danmuck/binlog/internal/wire"
)

// sectionEntry builds one section-layout entry for tests.
func sectionEntry(id uint32, template string, schema []ArgType) []byte {
	b := []byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)}
	b = wire.AppendUvarint(b, uint64(len(template)))
	b = append(b, template...)
	b = wire.AppendUvarint(b, uint64(len(schema)))
	for _, at := range schema {
		b = append(b, byte(at))
	}
	return b
}

func TestNewTableLookup(t *testing.T) {
	table, err := NewTable([]RawEntry{
		{ID: 1, Template: "boot complete"},
		{ID: 2, Template: "val={} msg={}", Schema: []ArgType{ArgU8, ArgString}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("len=%d", table.Len())
	}
	entry, ok := table.Lookup(2)
	if !ok || entry.Template != "val={} msg={}" || len(entry.Schema) != 2 {
		t.Fatalf("lookup 2: %+v ok=%v", entry, ok)
	}
	if _, ok := table.Lookup(99); ok {
		t.Fatalf("lookup of absent id succeeded")
	}
}

func TestNewTableRejectsDuplicateID(t *testing.T) {
	_, err := NewTable([]RawEntry{
		{ID: 7, Template: "first"},
		{ID: 7, Template: "second"},
	})
	if !errors.Is(err, ErrCorruptSymbolTable) {
		t.Fatalf("expected ErrCorruptSymbolTable, got %v", err)
	}
}

func TestNewTableRejectsArityMismatch(t *testing.T) {
	_, err := NewTable([]RawEntry{
		{ID: 1, Template: "a={} b={}", Schema: []ArgType{ArgU8}},
	})
	if !errors.Is(err, ErrCorruptSymbolTable) {
		t.Fatalf("expected ErrCorruptSymbolTable, got %v", err)
	}
}

func TestNewTableRejectsUnknownSchemaType(t *testing.T) {
	_, err := NewTable([]RawEntry{
		{ID: 1, Template: "x={}", Schema: []ArgType{ArgType(200)}},
	})
	if !errors.Is(err, ErrCorruptSymbolTable) {
		t.Fatalf("expected ErrCorruptSymbolTable, got %v", err)
	}
}

func TestNewTableRejectsInvalidUTF8Template(t *testing.T) {
	_, err := NewTable([]RawEntry{
		{ID: 1, Template: string([]byte{0xff, 0xfe})},
	})
	if !errors.Is(err, ErrCorruptSymbolTable) {
		t.Fatalf("expected ErrCorruptSymbolTable, got %v", err)
	}
}

func TestParseSectionRoundTrip(t *testing.T) {
	data := sectionEntry(1, "boot complete", nil)
	data = append(data, sectionEntry(2, "val={} msg={}", []ArgType{ArgU8, ArgString})...)
	data = append(data, sectionEntry(300, "temp={}", []ArgType{ArgI16})...)

	entries, err := ParseSection(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries=%d", len(entries))
	}
	if entries[1].ID != 2 || entries[1].Template != "val={} msg={}" {
		t.Fatalf("entry 1: %+v", entries[1])
	}
	if entries[2].ID != 300 || len(entries[2].Schema) != 1 || entries[2].Schema[0] != ArgI16 {
		t.Fatalf("entry 2: %+v", entries[2])
	}
}

func TestParseSectionTruncated(t *testing.T) {
	data := sectionEntry(1, "val={}", []ArgType{ArgU8})
	for cut := 1; cut < len(data); cut++ {
		if _, err := ParseSection(data[:cut]); !errors.Is(err, ErrCorruptSymbolTable) {
			t.Fatalf("cut=%d: expected ErrCorruptSymbolTable, got %v", cut, err)
		}
	}
}

func TestParseArgTypeNames(t *testing.T) {
	for at := ArgU8; at <= ArgBytes; at++ {
		got, ok := ParseArgType(at.String())
		if !ok || got != at {
			t.Fatalf("%s: got %v ok=%v", at, got, ok)
		}
	}
	if _, ok := ParseArgType("f32"); ok {
		t.Fatalf("unknown type name accepted")
	}
}
