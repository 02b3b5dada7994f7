package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/danmuck/binlog/internal/symtab"
	"github.com/danmuck/binlog/internal/wire"
)

var (
	ErrUnknownFormatID = errors.New("decode: unknown format id")
	ErrArgUnderflow    = errors.New("decode: argument underflow")
	ErrArgOverflow     = errors.New("decode: argument overflow")
	ErrInvalidArgument = errors.New("decode: invalid argument encoding")
)

// FormatArgs interpolates args into entry's template following its schema.
// On ErrArgOverflow the formatted text is still returned: the decoded prefix
// is complete, and the surplus is a version-skew signal rather than garbage.
func FormatArgs(entry symtab.FormatEntry, args []byte) (string, error) {
	var b strings.Builder
	tmpl := entry.Template
	off := 0
	for i, at := range entry.Schema {
		// Placeholder arity was validated at table build, so the marker
		// is always found.
		idx := strings.Index(tmpl, symtab.Placeholder)
		b.WriteString(tmpl[:idx])
		tmpl = tmpl[idx+len(symtab.Placeholder):]

		val, n, err := decodeArg(at, args[off:])
		if err != nil {
			return "", fmt.Errorf("arg %d (%s): %w", i, at, err)
		}
		off += n
		b.WriteString(val)
	}
	b.WriteString(tmpl)
	if off < len(args) {
		return b.String(), fmt.Errorf("%w: %d surplus byte(s)", ErrArgOverflow, len(args)-off)
	}
	return b.String(), nil
}

// decodeArg consumes one schema entry from the front of b and renders it.
func decodeArg(t symtab.ArgType, b []byte) (string, int, error) {
	switch t {
	case symtab.ArgU8:
		if len(b) < 1 {
			return "", 0, ErrArgUnderflow
		}
		return strconv.FormatUint(uint64(b[0]), 10), 1, nil
	case symtab.ArgU16:
		if len(b) < 2 {
			return "", 0, ErrArgUnderflow
		}
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint16(b)), 10), 2, nil
	case symtab.ArgU32:
		if len(b) < 4 {
			return "", 0, ErrArgUnderflow
		}
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint32(b)), 10), 4, nil
	case symtab.ArgU64:
		if len(b) < 8 {
			return "", 0, ErrArgUnderflow
		}
		return strconv.FormatUint(binary.LittleEndian.Uint64(b), 10), 8, nil
	case symtab.ArgI8:
		if len(b) < 1 {
			return "", 0, ErrArgUnderflow
		}
		return strconv.FormatInt(int64(int8(b[0])), 10), 1, nil
	case symtab.ArgI16:
		if len(b) < 2 {
			return "", 0, ErrArgUnderflow
		}
		return strconv.FormatInt(int64(int16(binary.LittleEndian.Uint16(b))), 10), 2, nil
	case symtab.ArgI32:
		if len(b) < 4 {
			return "", 0, ErrArgUnderflow
		}
		return strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(b))), 10), 4, nil
	case symtab.ArgI64:
		if len(b) < 8 {
			return "", 0, ErrArgUnderflow
		}
		return strconv.FormatInt(int64(binary.LittleEndian.Uint64(b)), 10), 8, nil
	case symtab.ArgBool:
		if len(b) < 1 {
			return "", 0, ErrArgUnderflow
		}
		if b[0] == 0 {
			return "false", 1, nil
		}
		return "true", 1, nil
	case symtab.ArgString:
		s, n, err := lengthPrefixed(b)
		if err != nil {
			return "", 0, err
		}
		if !utf8.Valid(s) {
			return "", 0, fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidArgument)
		}
		return string(s), n, nil
	case symtab.ArgBytes:
		s, n, err := lengthPrefixed(b)
		if err != nil {
			return "", 0, err
		}
		return string(s), n, nil
	default:
		return "", 0, fmt.Errorf("%w: unknown arg type %d", ErrInvalidArgument, uint8(t))
	}
}

func lengthPrefixed(b []byte) ([]byte, int, error) {
	ln, n, err := wire.Uvarint(b)
	if err != nil {
		if errors.Is(err, wire.ErrShortVarint) {
			return nil, 0, ErrArgUnderflow
		}
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if uint64(len(b)-n) < ln {
		return nil, 0, ErrArgUnderflow
	}
	return b[n : n+int(ln)], n + int(ln), nil
}
