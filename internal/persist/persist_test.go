package persist

import (
	"os"
	"path/filepath"
	"testing"
)

type doc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	in := doc{Name: "x", Items: []string{"a", "b"}}

	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out doc
	if !Load(path, &out) {
		t.Fatal("load reported failure for a just-saved file")
	}
	if out.Name != in.Name || len(out.Items) != 2 {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var out doc
	if Load(filepath.Join(t.TempDir(), "nope.json"), &out) {
		t.Error("load of a missing file should report false")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	var out doc
	if Load(path, &out) {
		t.Error("load of a corrupt file should report false")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")
	if err := Save(path, doc{Name: "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "store.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("unexpected directory contents: %v", names)
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	Save(path, doc{Name: "first"})
	Save(path, doc{Name: "second"})

	var out doc
	Load(path, &out)
	if out.Name != "second" {
		t.Errorf("loaded %q, want second", out.Name)
	}
}
