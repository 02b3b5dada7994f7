package symtab

import (
	"bytes"
	"debug/elf"
	"fmt"
)

// SectionName is the dedicated metadata section the device toolchain embeds
// format strings into.
const SectionName = ".binlog.fmt"

// SectionLocator abstracts the object-file container: it finds a named
// section and returns its bytes. Variant implementations cover other
// container formats without branching through the extractor.
type SectionLocator interface {
	Section(name string) ([]byte, error)
}

type elfLocator struct {
	file *elf.File
}

// NewELFLocator parses image as an ELF object. The image is not mutated and
// may be discarded once the table is built.
func NewELFLocator(image []byte) (SectionLocator, error) {
	f, err := elf.NewFile(bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	return &elfLocator{file: f}, nil
}

func (l *elfLocator) Section(name string) ([]byte, error) {
	sec := l.file.Section(name)
	if sec == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingSymbolSection, name)
	}
	data, err := sec.Data()
	if err != nil {
		return nil, fmt.Errorf("%w: reading section %s: %v", ErrMalformedImage, name, err)
	}
	return data, nil
}

// Load builds the table from an object-file image through loc.
func Load(loc SectionLocator) (*Table, error) {
	data, err := loc.Section(SectionName)
	if err != nil {
		return nil, err
	}
	raw, err := ParseSection(data)
	if err != nil {
		return nil, err
	}
	return NewTable(raw)
}

// LoadELF builds the table straight from ELF image bytes.
func LoadELF(image []byte) (*Table, error) {
	loc, err := NewELFLocator(image)
	if err != nil {
		return nil, err
	}
	return Load(loc)
}
