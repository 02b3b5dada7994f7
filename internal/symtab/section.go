package symtab

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/danmuck/binlog/internal/wire"
)

// Section entry layout, matching the device toolchain's embedding convention:
//
//	[format_id u32 LE][template_len varint][template_bytes]
//	[schema_count varint][schema entries, one byte each]
//
// Entries repeat back to back until the section ends.

// ParseSection decodes the raw metadata section bytes into table entries.
// Any structural problem is ErrCorruptSymbolTable with the failing offset.
func ParseSection(data []byte) ([]RawEntry, error) {
	var entries []RawEntry
	off := 0
	for off < len(data) {
		entry, n, err := parseSectionEntry(data[off:])
		if err != nil {
			return nil, fmt.Errorf("%w: entry at offset %d: %v", ErrCorruptSymbolTable, off, err)
		}
		entries = append(entries, entry)
		off += n
	}
	return entries, nil
}

func parseSectionEntry(b []byte) (RawEntry, int, error) {
	if len(b) < 4 {
		return RawEntry{}, 0, errors.New("truncated format id")
	}
	id := binary.LittleEndian.Uint32(b)
	off := 4

	tmplLen, n, err := wire.Uvarint(b[off:])
	if err != nil {
		return RawEntry{}, 0, fmt.Errorf("template length: %v", err)
	}
	off += n
	if uint64(len(b)-off) < tmplLen {
		return RawEntry{}, 0, errors.New("truncated template")
	}
	tmpl := string(b[off : off+int(tmplLen)])
	off += int(tmplLen)

	count, n, err := wire.Uvarint(b[off:])
	if err != nil {
		return RawEntry{}, 0, fmt.Errorf("schema count: %v", err)
	}
	off += n
	if uint64(len(b)-off) < count {
		return RawEntry{}, 0, errors.New("truncated schema")
	}
	var schema []ArgType
	if count > 0 {
		schema = make([]ArgType, count)
		for i := range schema {
			schema[i] = ArgType(b[off+i])
		}
		off += int(count)
	}

	return RawEntry{ID: uint64(id), Template: tmpl, Schema: schema}, off, nil
}
