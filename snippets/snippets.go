// Package snippets rewrites a submitted line before it is typed: it expands
// user-defined abbreviations and flattens anything that would break the
// one-line contract of the injector.
package snippets

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Rule maps an abbreviation to its expansion. Abbreviations match whole
// space-separated words only.
type Rule struct {
	Abbrev    string
	Expansion string
}

// Table holds the loaded snippet rules.
type Table struct {
	rules map[string]string
}

// NewTable builds a table from explicit rules. Later duplicates win.
func NewTable(rules []Rule) *Table {
	t := &Table{rules: make(map[string]string, len(rules))}
	for _, r := range rules {
		if r.Abbrev != "" {
			t.rules[r.Abbrev] = r.Expansion
		}
	}
	return t
}

// Len reports how many rules are loaded.
func (t *Table) Len() int { return len(t.rules) }

// Load reads a snippet file: one `abbrev -> expansion` per line, `#` starts
// a comment. A missing file yields an empty table, not an error.
func Load(path string) (*Table, error) {
	if path == "" {
		configDir := os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		path = filepath.Join(configDir, "overtype", "snippets.txt")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewTable(nil), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snippets: %w", err)
	}
	defer file.Close()

	var rules []Rule
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		abbrev, expansion, ok := strings.Cut(line, "->")
		if !ok {
			continue
		}
		rules = append(rules, Rule{
			Abbrev:    strings.TrimSpace(abbrev),
			Expansion: strings.TrimSpace(expansion),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snippets: %w", err)
	}

	return NewTable(rules), nil
}

// Expand applies the rules to each whole word of text.
func (t *Table) Expand(text string) string {
	if len(t.rules) == 0 {
		return text
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if repl, ok := t.rules[w]; ok {
			words[i] = repl
		}
	}
	return strings.Join(words, " ")
}

// Flatten collapses line breaks and tabs into single spaces and trims the
// result. The injector types exactly one line; control characters in the
// middle of a batch would act as keystrokes in the target window.
func Flatten(text string) string {
	replacer := strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ")
	flat := replacer.Replace(text)
	return strings.TrimSpace(strings.Join(strings.Fields(flat), " "))
}

// Apply runs the full rewrite: flatten first so rules see clean words.
func (t *Table) Apply(text string) string {
	return t.Expand(Flatten(text))
}
