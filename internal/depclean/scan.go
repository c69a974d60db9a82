// Package depclean finds npm dependencies that no source file imports and
// removes them.
package depclean

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var ErrNoPackageJSON = errors.New("depclean: package.json not found")

var sourceExt = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true,
	".ts": true, ".mts": true, ".cts": true, ".tsx": true,
	".html": true, ".vue": true, ".svelte": true,
}

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

var specifierRes = []*regexp.Regexp{
	regexp.MustCompile(`(?m)\bimport\s+(?:[\w*${}\s,]+?\s+from\s+)?["']([^"'\n]+)["']`),
	regexp.MustCompile(`(?m)\bexport\s+[\w*${}\s,]+?\s+from\s+["']([^"'\n]+)["']`),
	regexp.MustCompile(`\brequire\(\s*["']([^"'\n]+)["']\s*\)`),
	regexp.MustCompile(`\bimport\(\s*["']([^"'\n]+)["']\s*\)`),
	regexp.MustCompile(`\brequire\.resolve\(\s*["']([^"'\n]+)["']\s*\)`),
}

// Manifest is the part of package.json the scan reads.
type Manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

// Report lists unused packages, sorted by name.
type Report struct {
	Dependencies    []string `json:"dependencies"`
	DevDependencies []string `json:"devDependencies"`
	// Used maps every imported package to the first file importing it.
	Used map[string]string `json:"used"`
}

// Empty reports whether nothing is unused.
func (r *Report) Empty() bool {
	return len(r.Dependencies) == 0 && len(r.DevDependencies) == 0
}

// ReadManifest loads <dir>/package.json.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoPackageJSON
		}
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	return &m, nil
}

// Scan walks dir collecting import specifiers and compares them with the
// manifest. A dependency named inside an npm script counts as used.
func Scan(dir string) (*Report, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	used := make(map[string]string)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExt[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		for _, spec := range Specifiers(string(data)) {
			if name := PackageName(spec); name != "" {
				if _, ok := used[name]; !ok {
					used[name] = filepath.ToSlash(rel)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, script := range m.Scripts {
		for _, deps := range []map[string]string{m.Dependencies, m.DevDependencies} {
			for name := range deps {
				if _, ok := used[name]; !ok && mentions(script, name) {
					used[name] = "package.json#scripts"
				}
			}
		}
	}

	return &Report{
		Dependencies:    unused(m.Dependencies, used),
		DevDependencies: unused(m.DevDependencies, used),
		Used:            used,
	}, nil
}

// Specifiers returns every module specifier imported by src, in order.
func Specifiers(src string) []string {
	var out []string
	for _, re := range specifierRes {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			out = append(out, m[1])
		}
	}
	return out
}

// PackageName maps a specifier to its npm package: "@scope/pkg/x" gives
// "@scope/pkg", "lodash/fp" gives "lodash". Relative, absolute, URL and
// node: specifiers give "".
func PackageName(spec string) string {
	spec = strings.TrimSpace(spec)
	switch {
	case spec == "",
		strings.HasPrefix(spec, "."),
		strings.HasPrefix(spec, "/"),
		strings.HasPrefix(spec, "node:"),
		strings.Contains(spec, "://"):
		return ""
	}
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

func mentions(script, name string) bool {
	for _, field := range strings.FieldsFunc(script, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '&' || r == '|' || r == ';' || r == '"' || r == '\''
	}) {
		if field == name || strings.HasPrefix(field, name+"/") || strings.HasPrefix(field, name+"@") {
			return true
		}
		// scoped packages usually ship a binary named after the scope or the last segment
		if i := strings.LastIndex(name, "/"); i >= 0 && (field == name[i+1:] || field == strings.TrimPrefix(name[:i], "@")) {
			return true
		}
	}
	return false
}

func unused(deps map[string]string, used map[string]string) []string {
	out := []string{}
	for name := range deps {
		if _, ok := used[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
