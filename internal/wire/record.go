package wire

import "strings"

// Level is the severity tag carried in each frame header. The encoding is
// ordered so that a higher tag is more severe.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) Valid() bool { return l <= LevelError }

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to its wire tag.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Record is one decoded frame: severity, format-string id, and the packed
// argument bytes. Records are transient; the pipeline consumes them as they
// are produced.
type Record struct {
	Level    Level
	FormatID uint64
	Args     []byte
}

// AppendRecord appends the wire encoding of r to dst.
func AppendRecord(dst []byte, r Record) []byte {
	dst = append(dst, byte(r.Level))
	dst = AppendUvarint(dst, r.FormatID)
	dst = AppendUvarint(dst, uint64(len(r.Args)))
	return append(dst, r.Args...)
}
