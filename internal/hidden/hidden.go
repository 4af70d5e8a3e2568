// Package hidden tracks manual per-thread and per-post hides. These are
// independent of filter rules: an explicit user action adds an entry and
// only an explicit unhide removes it.
package hidden

import (
	"fmt"
	"sort"

	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/persist"
)

// Ledger holds the hidden thread and post sets. Unbounded: the user
// curates the list manually and expected scale is small.
type Ledger struct {
	path    string
	threads map[string]struct{}
	posts   map[string]struct{}
}

// diskFormat is the storage shape: sets serialized as sorted arrays.
type diskFormat struct {
	HiddenThreads []string `json:"hiddenThreads"`
	HiddenPosts   []string `json:"hiddenPosts"`
}

// NewLedger loads the ledger from path, starting empty when the file is
// missing or corrupt.
func NewLedger(path string) *Ledger {
	l := &Ledger{
		path:    path,
		threads: make(map[string]struct{}),
		posts:   make(map[string]struct{}),
	}

	var doc diskFormat
	if persist.Load(path, &doc) {
		for _, k := range doc.HiddenThreads {
			l.threads[k] = struct{}{}
		}
		for _, k := range doc.HiddenPosts {
			l.posts[k] = struct{}{}
		}
	}
	return l
}

func key(boardID string, id int64) string {
	return fmt.Sprintf("%s:%d", boardID, id)
}

func (l *Ledger) save() {
	doc := diskFormat{
		HiddenThreads: sortedKeys(l.threads),
		HiddenPosts:   sortedKeys(l.posts),
	}
	if err := persist.Save(l.path, doc); err != nil {
		logging.Error("Failed to save hidden ledger", "error", err)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HideThread hides a thread. Idempotent.
func (l *Ledger) HideThread(boardID string, threadID int64) {
	l.threads[key(boardID, threadID)] = struct{}{}
	l.save()
}

// UnhideThread removes a thread hide. Idempotent.
func (l *Ledger) UnhideThread(boardID string, threadID int64) {
	delete(l.threads, key(boardID, threadID))
	l.save()
}

// IsThreadHidden reports whether a thread is hidden.
func (l *Ledger) IsThreadHidden(boardID string, threadID int64) bool {
	_, ok := l.threads[key(boardID, threadID)]
	return ok
}

// HidePost hides a single post. Idempotent.
func (l *Ledger) HidePost(boardID string, postNo int64) {
	l.posts[key(boardID, postNo)] = struct{}{}
	l.save()
}

// UnhidePost removes a post hide. Idempotent.
func (l *Ledger) UnhidePost(boardID string, postNo int64) {
	delete(l.posts, key(boardID, postNo))
	l.save()
}

// IsPostHidden reports whether a post is hidden.
func (l *Ledger) IsPostHidden(boardID string, postNo int64) bool {
	_, ok := l.posts[key(boardID, postNo)]
	return ok
}

// Clear removes every hide.
func (l *Ledger) Clear() {
	l.threads = make(map[string]struct{})
	l.posts = make(map[string]struct{})
	l.save()
}

// Counts returns the number of hidden threads and posts.
func (l *Ledger) Counts() (threads, posts int) {
	return len(l.threads), len(l.posts)
}
