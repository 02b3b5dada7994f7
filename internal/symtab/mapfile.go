package symtab

import (
	"fmt"

	"github.com/valyala/fastjson"
)

// LoadMapFile parses a JSON symbol map, the sidecar some toolchains emit
// when the metadata section is stripped from shipped images. Expected shape:
//
//	{"formats": [{"id": 1, "template": "val={}", "schema": ["u8"]}, ...]}
//
// The same validation runs as for section-embedded tables, so duplicate ids
// and arity mismatches fail identically.
func LoadMapFile(data []byte) (*Table, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	formats := v.GetArray("formats")
	if formats == nil {
		return nil, fmt.Errorf("%w: symbol map has no formats array", ErrMissingSymbolSection)
	}

	raw := make([]RawEntry, 0, len(formats))
	for i, fv := range formats {
		idv := fv.Get("id")
		if idv == nil {
			return nil, fmt.Errorf("%w: formats[%d] missing id", ErrCorruptSymbolTable, i)
		}
		id, err := idv.Uint64()
		if err != nil {
			return nil, fmt.Errorf("%w: formats[%d] id: %v", ErrCorruptSymbolTable, i, err)
		}
		tmpl := fv.Get("template")
		if tmpl == nil {
			return nil, fmt.Errorf("%w: formats[%d] missing template", ErrCorruptSymbolTable, i)
		}
		tmplBytes, err := tmpl.StringBytes()
		if err != nil {
			return nil, fmt.Errorf("%w: formats[%d] template: %v", ErrCorruptSymbolTable, i, err)
		}
		var schema []ArgType
		for j, sv := range fv.GetArray("schema") {
			name, err := sv.StringBytes()
			if err != nil {
				return nil, fmt.Errorf("%w: formats[%d] schema[%d]: %v", ErrCorruptSymbolTable, i, j, err)
			}
			at, ok := ParseArgType(string(name))
			if !ok {
				return nil, fmt.Errorf("%w: formats[%d] schema[%d] unknown type %q",
					ErrCorruptSymbolTable, i, j, name)
			}
			schema = append(schema, at)
		}
		raw = append(raw, RawEntry{ID: id, Template: string(tmplBytes), Schema: schema})
	}
	return NewTable(raw)
}
