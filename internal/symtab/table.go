package symtab

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrMalformedImage       = errors.New("symtab: malformed image")
	ErrMissingSymbolSection = errors.New("symtab: missing symbol section")
	ErrCorruptSymbolTable   = errors.New("symtab: corrupt symbol table")
)

// ArgType identifies one primitive argument encoding in a format schema.
// Integer types are fixed-width little-endian; string and bytes carry a
// varint length prefix.
type ArgType uint8

const (
	ArgU8 ArgType = iota + 1
	ArgU16
	ArgU32
	ArgU64
	ArgI8
	ArgI16
	ArgI32
	ArgI64
	ArgBool
	ArgString
	ArgBytes
)

func (t ArgType) Valid() bool { return t >= ArgU8 && t <= ArgBytes }

func (t ArgType) String() string {
	switch t {
	case ArgU8:
		return "u8"
	case ArgU16:
		return "u16"
	case ArgU32:
		return "u32"
	case ArgU64:
		return "u64"
	case ArgI8:
		return "i8"
	case ArgI16:
		return "i16"
	case ArgI32:
		return "i32"
	case ArgI64:
		return "i64"
	case ArgBool:
		return "bool"
	case ArgString:
		return "str"
	case ArgBytes:
		return "bytes"
	default:
		return fmt.Sprintf("arg(%d)", uint8(t))
	}
}

// ParseArgType maps a schema type name from a symbol map file.
func ParseArgType(name string) (ArgType, bool) {
	switch name {
	case "u8":
		return ArgU8, true
	case "u16":
		return ArgU16, true
	case "u32":
		return ArgU32, true
	case "u64":
		return ArgU64, true
	case "i8":
		return ArgI8, true
	case "i16":
		return ArgI16, true
	case "i32":
		return ArgI32, true
	case "i64":
		return ArgI64, true
	case "bool":
		return ArgBool, true
	case "str", "string":
		return ArgString, true
	case "bytes":
		return ArgBytes, true
	default:
		return 0, false
	}
}

// Placeholder is the positional substitution marker in templates.
const Placeholder = "{}"

// FormatEntry is one recovered format string and its argument schema.
// Schema order matches the encoding order of the argument payload exactly.
type FormatEntry struct {
	Template string
	Schema   []ArgType
}

// RawEntry is one parsed but not yet validated table entry.
type RawEntry struct {
	ID       uint64
	Template string
	Schema   []ArgType
}

// Table maps format ids to their entries. It is built once before decoding
// starts and never mutated after, so it is shared without locking.
type Table struct {
	entries map[uint64]FormatEntry
}

func (t *Table) Lookup(id uint64) (FormatEntry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

func (t *Table) Len() int { return len(t.entries) }

// NewTable validates raw entries and builds the table. Duplicate ids,
// invalid schema types, non-UTF-8 templates, and template/schema arity
// mismatches are all ErrCorruptSymbolTable: any of them means the image
// metadata cannot be trusted and the run must not start.
func NewTable(raw []RawEntry) (*Table, error) {
	entries := make(map[uint64]FormatEntry, len(raw))
	for _, e := range raw {
		if _, dup := entries[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate format id %d", ErrCorruptSymbolTable, e.ID)
		}
		if !utf8.ValidString(e.Template) {
			return nil, fmt.Errorf("%w: format id %d template is not valid UTF-8", ErrCorruptSymbolTable, e.ID)
		}
		for i, at := range e.Schema {
			if !at.Valid() {
				return nil, fmt.Errorf("%w: format id %d schema[%d] unknown type %d",
					ErrCorruptSymbolTable, e.ID, i, uint8(at))
			}
		}
		if n := strings.Count(e.Template, Placeholder); n != len(e.Schema) {
			return nil, fmt.Errorf("%w: format id %d has %d placeholder(s) but %d schema entr(ies)",
				ErrCorruptSymbolTable, e.ID, n, len(e.Schema))
		}
		entries[e.ID] = FormatEntry{Template: e.Template, Schema: e.Schema}
	}
	return &Table{entries: entries}, nil
}
