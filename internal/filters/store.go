package filters

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/persist"
)

// Store holds the persisted rule set. Not safe for concurrent use; all
// access goes through the single app task.
type Store struct {
	path  string
	rules []Rule
	// nextSeq is one past the highest Seq ever assigned
	nextSeq int
}

// NewStore loads the rule set from path, starting empty when the file is
// missing or corrupt.
func NewStore(path string) *Store {
	s := &Store{path: path}

	var doc struct {
		Filters []Rule `json:"filters"`
	}
	if persist.Load(path, &doc) {
		s.rules = doc.Filters
	}
	for _, r := range s.rules {
		if r.Seq >= s.nextSeq {
			s.nextSeq = r.Seq + 1
		}
	}
	// Evaluation order is Seq order regardless of on-disk order
	sort.SliceStable(s.rules, func(i, j int) bool { return s.rules[i].Seq < s.rules[j].Seq })
	return s
}

func (s *Store) save() {
	doc := struct {
		Filters []Rule `json:"filters"`
	}{Filters: s.rules}
	if err := persist.Save(s.path, doc); err != nil {
		logging.Error("Failed to save filters", "error", err)
	}
}

// Rules returns the rule set in evaluation order. Callers must not
// mutate the returned slice.
func (s *Store) Rules() []Rule {
	return s.rules
}

// Add creates a rule from the given template, assigning a fresh id,
// sequence number and creation time. Returns the stored rule.
func (s *Store) Add(r Rule) Rule {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().Unix()
	r.Seq = s.nextSeq
	s.nextSeq++
	if r.Boards == nil {
		r.Boards = []string{}
	}
	s.rules = append(s.rules, r)
	s.save()
	return r
}

// Remove deletes a rule by id. Unknown ids are a no-op.
func (s *Store) Remove(id string) {
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			s.save()
			return
		}
	}
}

// Update replaces a rule's mutable fields, keeping id, sequence and
// creation time. Returns false for unknown ids.
func (s *Store) Update(id string, upd Rule) bool {
	for i := range s.rules {
		if s.rules[i].ID != id {
			continue
		}
		upd.ID = s.rules[i].ID
		upd.Seq = s.rules[i].Seq
		upd.CreatedAt = s.rules[i].CreatedAt
		if upd.Boards == nil {
			upd.Boards = []string{}
		}
		s.rules[i] = upd
		s.save()
		return true
	}
	return false
}

// Toggle flips a rule's enabled flag. Returns false for unknown ids.
func (s *Store) Toggle(id string) bool {
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules[i].Enabled = !s.rules[i].Enabled
			s.save()
			return true
		}
	}
	return false
}

// Clear removes every rule.
func (s *Store) Clear() {
	s.rules = nil
	s.save()
}

// Export returns a copy of the rule set in the interchange format.
func (s *Store) Export() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Import appends rules, assigning fresh ids and sequence numbers so
// applying the same export twice yields distinct rules rather than
// clobbering existing ones. Returns the number imported.
func (s *Store) Import(rules []Rule) int {
	for _, r := range rules {
		r.ID = uuid.NewString()
		r.Seq = s.nextSeq
		s.nextSeq++
		if r.Boards == nil {
			r.Boards = []string{}
		}
		s.rules = append(s.rules, r)
	}
	if len(rules) > 0 {
		s.save()
	}
	return len(rules)
}
