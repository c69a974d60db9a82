// Package categorize maps article titles to categories by keyword and
// keeps the keyword list growing with the help of an LLM.
package categorize

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/frijal/ArtikelHub/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Fallback is the category of titles that match no keyword.
const Fallback = "🗂️ Lainnya"

//go:embed default_categories.yaml
var defaultYAML []byte

var ErrNoCategories = errors.New("categorize: no categories defined")

// Category is one named keyword bucket.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Set is the ordered category list; the first match wins.
type Set struct {
	Categories []Category `yaml:"categories"`
}

// Default returns the built-in list.
func Default() *Set {
	s, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("categorize: embedded list: %v", err))
	}
	return s
}

// Parse decodes a YAML category list. Keywords are lower-cased.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(s.Categories) == 0 {
		return nil, ErrNoCategories
	}
	for i := range s.Categories {
		kws := s.Categories[i].Keywords
		for j, k := range kws {
			kws[j] = strings.ToLower(strings.TrimSpace(k))
		}
	}
	return &s, nil
}

// Load reads path, or returns Default when path is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}
	return Parse(data)
}

// yaml.v3 escapes runes outside the BMP (emoji) as \UXXXXXXXX; an escaped
// backslash is matched first so it is never mistaken for one.
var longEscapeRe = regexp.MustCompile(`\\\\|\\U[0-9A-Fa-f]{8}`)

// Save writes the list back atomically, with emoji kept as-is so the file
// stays editable by hand.
func (s *Set) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	return fsutil.WriteFileAtomic(path, unescapeLong(buf.Bytes()))
}

func unescapeLong(data []byte) []byte {
	return longEscapeRe.ReplaceAllFunc(data, func(m []byte) []byte {
		if m[1] == '\\' {
			return m
		}
		n, err := strconv.ParseUint(string(m[2:]), 16, 32)
		if err != nil {
			return m
		}
		return []byte(string(rune(n)))
	})
}

// Categorize returns the first category with a keyword contained in the
// lower-cased title, else Fallback.
func (s *Set) Categorize(title string) string {
	t := strings.ToLower(title)
	for _, c := range s.Categories {
		for _, k := range c.Keywords {
			if k != "" && strings.Contains(t, k) {
				return c.Name
			}
		}
	}
	return Fallback
}

// Known returns every keyword of every category.
func (s *Set) Known() map[string]bool {
	out := make(map[string]bool)
	for _, c := range s.Categories {
		for _, k := range c.Keywords {
			out[k] = true
		}
	}
	return out
}

// Merge adds words to the named category as a sorted set and returns how
// many were new. Unknown categories are ignored.
func (s *Set) Merge(name string, words []string) int {
	for i := range s.Categories {
		c := &s.Categories[i]
		if c.Name != name {
			continue
		}
		set := make(map[string]bool, len(c.Keywords)+len(words))
		for _, k := range c.Keywords {
			set[k] = true
		}
		before := len(set)
		for _, w := range words {
			set[w] = true
		}
		if len(set) == before {
			return 0
		}
		c.Keywords = c.Keywords[:0]
		for k := range set {
			c.Keywords = append(c.Keywords, k)
		}
		sort.Strings(c.Keywords)
		return len(set) - before
	}
	return 0
}
