package descriptor

import (
	"encoding/xml"
	"io"
	"strings"
)

// Properties is an order-preserving string property table. Lookups
// honor the first occurrence of a duplicate key.
type Properties struct {
	entries []propEntry
	index   map[string]int
}

type propEntry struct {
	name  string
	value string
}

// Get returns the first-defined value for name.
func (p *Properties) Get(name string) (string, bool) {
	if p == nil || p.index == nil {
		return "", false
	}
	i, ok := p.index[name]
	if !ok {
		return "", false
	}
	return p.entries[i].value, true
}

// Put appends a property. A second definition of the same name is kept
// in the entry list but never wins a lookup.
func (p *Properties) Put(name, value string) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	p.entries = append(p.entries, propEntry{name: name, value: value})
	if _, exists := p.index[name]; !exists {
		p.index[name] = len(p.entries) - 1
	}
}

// Len returns the number of declared entries, duplicates included.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Each calls fn for every entry in declaration order.
func (p *Properties) Each(fn func(name, value string)) {
	if p == nil {
		return
	}
	for _, e := range p.entries {
		fn(e.name, e.value)
	}
}

// UnmarshalXML reads a flat element block (<properties>) where each
// child element name is a property key and its character data the value.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Put(t.Name.Local, strings.TrimSpace(value))
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}
