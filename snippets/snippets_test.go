package snippets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpand_WholeWordsOnly(t *testing.T) {
	table := NewTable([]Rule{
		{Abbrev: "gg", Expansion: "good game"},
		{Abbrev: "brb", Expansion: "be right back"},
	})

	tests := []struct{ in, want string }{
		{"gg", "good game"},
		{"gg wp", "good game wp"},
		{"egg", "egg"}, // substring must not expand
		{"brb gg", "be right back good game"},
		{"nothing here", "nothing here"},
	}
	for _, tt := range tests {
		if got := table.Expand(tt.in); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain text", "plain text"},
		{"line\nbreak", "line break"},
		{"crlf\r\nbreak", "crlf break"},
		{"tab\there", "tab here"},
		{"  padded  \n", "padded"},
		{"a\n\n\nb", "a b"},
	}
	for _, tt := range tests {
		if got := Flatten(tt.in); got != tt.want {
			t.Errorf("Flatten(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippets.txt")
	content := `# comment
gg -> good game

brb->be right back
malformed line without arrow
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("loaded %d rules, want 2", table.Len())
	}
	if got := table.Expand("brb"); got != "be right back" {
		t.Errorf("Expand(brb) = %q", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("expected empty table, got %d rules", table.Len())
	}
}

func TestApply(t *testing.T) {
	table := NewTable([]Rule{{Abbrev: "omw", Expansion: "on my way"}})
	if got := table.Apply("  omw\nnow "); got != "on my way now" {
		t.Errorf("Apply = %q", got)
	}
}
