package decode

import (
	"errors"
	"testing"

	"github.com/danmuck/binlog/internal/symtab"
	"github.com/danmuck/binlog/internal/wire"
)

func TestFormatArgsMixedPlaceholders(t *testing.T) {
	entry := symtab.FormatEntry{
		Template: "val={} msg={}",
		Schema:   []symtab.ArgType{symtab.ArgU8, symtab.ArgString},
	}
	got, err := FormatArgs(entry, []byte{0x2a, 0x03, 'h', 'i', '!'})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got != "val=42 msg=hi!" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatArgsNumericWidths(t *testing.T) {
	cases := []struct {
		at   symtab.ArgType
		args []byte
		want string
	}{
		{symtab.ArgU8, []byte{0xff}, "255"},
		{symtab.ArgU16, []byte{0x34, 0x12}, "4660"},
		{symtab.ArgU32, []byte{0xff, 0xff, 0xff, 0xff}, "4294967295"},
		{symtab.ArgU64, []byte{1, 0, 0, 0, 0, 0, 0, 0x80}, "9223372036854775809"},
		{symtab.ArgI8, []byte{0xff}, "-1"},
		{symtab.ArgI16, []byte{0x00, 0x80}, "-32768"},
		{symtab.ArgI32, []byte{0xff, 0xff, 0xff, 0xff}, "-1"},
		{symtab.ArgI64, []byte{0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, "-2"},
		{symtab.ArgBool, []byte{0}, "false"},
		{symtab.ArgBool, []byte{1}, "true"},
	}
	for _, tc := range cases {
		entry := symtab.FormatEntry{Template: "x={}", Schema: []symtab.ArgType{tc.at}}
		got, err := FormatArgs(entry, tc.args)
		if err != nil {
			t.Fatalf("%s: %v", tc.at, err)
		}
		if got != "x="+tc.want {
			t.Fatalf("%s: got %q want x=%s", tc.at, got, tc.want)
		}
	}
}

func TestFormatArgsBytesVerbatim(t *testing.T) {
	entry := symtab.FormatEntry{Template: "blob=[{}]", Schema: []symtab.ArgType{symtab.ArgBytes}}
	payload := wire.AppendUvarint(nil, 3)
	payload = append(payload, 'a', 'b', 'c')
	got, err := FormatArgs(entry, payload)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got != "blob=[abc]" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatArgsUnderflow(t *testing.T) {
	entry := symtab.FormatEntry{Template: "a={} b={}", Schema: []symtab.ArgType{symtab.ArgU8, symtab.ArgU32}}
	_, err := FormatArgs(entry, []byte{1, 2})
	if !errors.Is(err, ErrArgUnderflow) {
		t.Fatalf("expected ErrArgUnderflow, got %v", err)
	}

	// string whose declared length exceeds the payload
	entry = symtab.FormatEntry{Template: "s={}", Schema: []symtab.ArgType{symtab.ArgString}}
	_, err = FormatArgs(entry, []byte{0x05, 'h', 'i'})
	if !errors.Is(err, ErrArgUnderflow) {
		t.Fatalf("expected ErrArgUnderflow on short string, got %v", err)
	}
}

func TestFormatArgsOverflowStillFormats(t *testing.T) {
	entry := symtab.FormatEntry{Template: "v={}", Schema: []symtab.ArgType{symtab.ArgU8}}
	got, err := FormatArgs(entry, []byte{7, 0xaa, 0xbb})
	if !errors.Is(err, ErrArgOverflow) {
		t.Fatalf("expected ErrArgOverflow, got %v", err)
	}
	if got != "v=7" {
		t.Fatalf("formatted prefix lost: %q", got)
	}
}

func TestFormatArgsInvalidUTF8String(t *testing.T) {
	entry := symtab.FormatEntry{Template: "s={}", Schema: []symtab.ArgType{symtab.ArgString}}
	_, err := FormatArgs(entry, []byte{0x02, 0xff, 0xfe})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestFormatArgsNoSchema(t *testing.T) {
	entry := symtab.FormatEntry{Template: "boot complete"}
	got, err := FormatArgs(entry, nil)
	if err != nil || got != "boot complete" {
		t.Fatalf("got %q, %v", got, err)
	}
}
