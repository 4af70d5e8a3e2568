package filters

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filters.json")
	return NewStore(path), path
}

func TestStoreAddPersists(t *testing.T) {
	s, path := testStore(t)

	added := s.Add(Rule{Type: Keyword, Value: "spam", Enabled: true})
	if added.ID == "" {
		t.Fatal("Add should assign an id")
	}
	if added.CreatedAt == 0 {
		t.Error("Add should stamp creation time")
	}

	reloaded := NewStore(path)
	rules := reloaded.Rules()
	if len(rules) != 1 || rules[0].ID != added.ID {
		t.Fatalf("reload mismatch: %+v", rules)
	}
}

func TestStoreRemoveAndToggle(t *testing.T) {
	s, _ := testStore(t)

	a := s.Add(Rule{Type: Keyword, Value: "a", Enabled: true})
	b := s.Add(Rule{Type: Keyword, Value: "b", Enabled: true})

	if !s.Toggle(a.ID) {
		t.Error("Toggle on a known id should report true")
	}
	if s.Rules()[0].Enabled {
		t.Error("Toggle should have disabled the rule")
	}
	if s.Toggle("nope") {
		t.Error("Toggle on an unknown id should report false")
	}

	s.Remove(a.ID)
	rules := s.Rules()
	if len(rules) != 1 || rules[0].ID != b.ID {
		t.Fatalf("Remove left %+v", rules)
	}
	// Removing an unknown id is a no-op
	s.Remove("nope")
	if len(s.Rules()) != 1 {
		t.Error("Remove of unknown id changed the set")
	}
}

func TestStoreUpdateKeepsIdentity(t *testing.T) {
	s, _ := testStore(t)
	orig := s.Add(Rule{Type: Keyword, Value: "old", Enabled: true})

	ok := s.Update(orig.ID, Rule{Type: Subject, Value: "new", Enabled: false})
	if !ok {
		t.Fatal("Update on a known id should succeed")
	}

	got := s.Rules()[0]
	if got.ID != orig.ID || got.Seq != orig.Seq || got.CreatedAt != orig.CreatedAt {
		t.Errorf("Update must preserve id, seq and creation time: %+v", got)
	}
	if got.Type != Subject || got.Value != "new" || got.Enabled {
		t.Errorf("Update did not apply new fields: %+v", got)
	}

	if s.Update("nope", Rule{}) {
		t.Error("Update on an unknown id should report false")
	}
}

func TestStoreImportNeverDedups(t *testing.T) {
	s, _ := testStore(t)
	existing := s.Add(Rule{Type: Name, Value: "bob", Enabled: true})

	n := s.Import([]Rule{{ID: "imported-id", Type: Name, Value: "bob", Enabled: true}})
	if n != 1 {
		t.Fatalf("Import returned %d, want 1", n)
	}

	rules := s.Rules()
	if len(rules) != 2 {
		t.Fatalf("expected two distinct bob rules, got %d", len(rules))
	}
	if rules[0].ID == rules[1].ID {
		t.Error("imported rule must get a fresh id")
	}
	for _, r := range rules {
		if r.ID == "imported-id" {
			t.Error("imported ids must never be reused")
		}
	}
	if rules[1].Seq <= existing.Seq {
		t.Error("imported rule should evaluate after existing rules")
	}
}

func TestStoreImportEmptyIsNoop(t *testing.T) {
	s, path := testStore(t)
	if n := s.Import(nil); n != 0 {
		t.Errorf("empty import returned %d", n)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty import should not create the store file")
	}
}

func TestStoreCorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(path)
	if len(s.Rules()) != 0 {
		t.Errorf("corrupt file should load as empty, got %+v", s.Rules())
	}
}

func TestStoreSeqOrderSurvivesReload(t *testing.T) {
	s, path := testStore(t)
	first := s.Add(Rule{Type: Keyword, Value: "first", Enabled: true})
	second := s.Add(Rule{Type: Keyword, Value: "second", Enabled: true})

	reloaded := NewStore(path)
	rules := reloaded.Rules()
	if rules[0].ID != first.ID || rules[1].ID != second.ID {
		t.Errorf("reload broke evaluation order: %+v", rules)
	}

	// New rules after reload continue the sequence
	third := reloaded.Add(Rule{Type: Keyword, Value: "third", Enabled: true})
	if third.Seq <= second.Seq {
		t.Errorf("seq %d should exceed %d", third.Seq, second.Seq)
	}
}
