package article

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotObject is returned when artikel.json is not a JSON object.
var ErrNotObject = errors.New("article: index must be a JSON object")

// Parse decodes artikel.json in the default site time zone.
func Parse(data []byte) (*Index, error) {
	return ParseIn(data, DefaultLocation)
}

// ParseIn decodes artikel.json keeping the category order of the file.
// Values that are not arrays and tuples with fewer than two elements are
// skipped; a repeated category key replaces the earlier one.
func ParseIn(data []byte, loc *time.Location) (*Index, error) {
	if loc == nil {
		loc = DefaultLocation
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("article: read index: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	var groups []Group
	pos := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("article: read category: %w", err)
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("article: read category %q: %w", name, err)
		}
		var tuples []json.RawMessage
		if err := json.Unmarshal(raw, &tuples); err != nil {
			continue
		}

		g := Group{Name: name}
		for _, t := range tuples {
			if a, ok := decodeTuple(t, loc); ok {
				a.Category = name
				g.Articles = append(g.Articles, a)
			}
		}
		if i, ok := pos[name]; ok {
			groups[i] = g
			continue
		}
		pos[name] = len(groups)
		groups = append(groups, g)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("article: read index end: %w", err)
	}
	return New(groups, loc), nil
}

func decodeTuple(raw json.RawMessage, loc *time.Location) (Article, bool) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) < 2 {
		return Article{}, false
	}
	field := func(i int) string {
		if i >= len(fields) {
			return ""
		}
		var s string
		if err := json.Unmarshal(fields[i], &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	a := Article{
		Title:       field(0),
		Slug:        field(1),
		Image:       field(2),
		RawDate:     field(3),
		Description: field(4),
	}
	a.Published, _ = ParseDate(a.RawDate, loc)
	return a, true
}

// Marshal writes the index in the compact layout used on disk: one tuple
// per line, categories in index order, HTML characters left unescaped.
func Marshal(ix *Index) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, g := range ix.groups {
		if i > 0 {
			buf.WriteString(",")
		}
		name, err := encodeCompact(g.Name)
		if err != nil {
			return nil, err
		}
		buf.WriteString("\n  ")
		buf.Write(name)
		buf.WriteString(": [")
		for j, a := range g.Articles {
			if j > 0 {
				buf.WriteString(",")
			}
			t, err := encodeCompact(a.Tuple())
			if err != nil {
				return nil, err
			}
			buf.WriteString("\n    ")
			buf.Write(t)
		}
		if len(g.Articles) > 0 {
			buf.WriteString("\n  ")
		}
		buf.WriteString("]")
	}
	if len(ix.groups) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func encodeCompact(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("article: encode: %w", err)
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}
