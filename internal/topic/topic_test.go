package topic

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.yml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultCatalog(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cat.Topics) == 0 {
		t.Fatal("default catalog should not be empty")
	}
	for i, topic := range cat.Topics {
		if topic.ID == "" || topic.Title == "" || topic.Content == "" {
			t.Errorf("default topic %d is incomplete", i)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeCatalog(t, `topics:
  - id: "9.1"
    title: "Electricity"
    content: "Current is the rate of flow of charge."
  - id: "9.2"
    title: "Magnetism"
    content: "Magnets attract ferrous materials."
`)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cat.Topics) != 2 {
		t.Fatalf("got %d topics, want 2", len(cat.Topics))
	}
	if cat.Topics[0].Title != "Electricity" {
		t.Errorf("title = %q, want Electricity", cat.Topics[0].Title)
	}
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "no topics", contents: "topics: []\n"},
		{name: "missing title", contents: "topics:\n  - id: \"1\"\n    content: \"x\"\n"},
		{name: "missing content", contents: "topics:\n  - id: \"1\"\n    title: \"T\"\n"},
		{name: "duplicate ids", contents: `topics:
  - id: "1"
    title: "A"
    content: "a"
  - id: "1"
    title: "B"
    content: "b"
`},
		{name: "not yaml", contents: "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeCatalog(t, tt.contents)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestByID(t *testing.T) {
	cat := DefaultCatalog()

	got, ok := cat.ByID(cat.Topics[1].ID)
	if !ok {
		t.Fatal("expected to find topic")
	}
	if got.Title != cat.Topics[1].Title {
		t.Errorf("title = %q, want %q", got.Title, cat.Topics[1].Title)
	}

	if _, ok := cat.ByID("no-such-topic"); ok {
		t.Error("expected miss for unknown id")
	}
}
