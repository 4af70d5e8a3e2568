// Package watchlist tracks threads the user is observing and flags the
// ones that have grown new replies since the last check.
package watchlist

import (
	"sort"
	"time"

	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/persist"
)

// Thread is one watched thread.
type Thread struct {
	ID    int64  `json:"id"`
	Board string `json:"board"`
	// Provider identifies which backend the thread lives on
	Provider string `json:"provider"`
	Title    string `json:"title"`
	// LastChecked is the unix time of the most recent status update
	LastChecked    int64 `json:"lastChecked"`
	LastReplyCount int   `json:"lastReplyCount"`
	HasNewReplies  bool  `json:"hasNewReplies"`
}

// Watchlist holds the watched thread set.
type Watchlist struct {
	path    string
	threads map[int64]Thread

	now func() time.Time
}

type diskFormat struct {
	WatchedThreads []Thread `json:"watchedThreads"`
}

// New loads the watchlist from path, starting empty when the file is
// missing or corrupt.
func New(path string) *Watchlist {
	w := &Watchlist{
		path:    path,
		threads: make(map[int64]Thread),
		now:     time.Now,
	}

	var doc diskFormat
	if persist.Load(path, &doc) {
		for _, t := range doc.WatchedThreads {
			w.threads[t.ID] = t
		}
	}
	return w
}

func (w *Watchlist) save() {
	doc := diskFormat{WatchedThreads: w.All()}
	if err := persist.Save(w.path, doc); err != nil {
		logging.Error("Failed to save watchlist", "error", err)
	}
}

// Watch adds a thread. Idempotent: watching an already-watched thread
// keeps the original metadata (first writer wins).
func (w *Watchlist) Watch(t Thread) {
	if _, ok := w.threads[t.ID]; ok {
		return
	}
	t.LastChecked = w.now().Unix()
	t.HasNewReplies = false
	w.threads[t.ID] = t
	w.save()
}

// Unwatch removes a thread. Unknown ids are a no-op.
func (w *Watchlist) Unwatch(threadID int64) {
	if _, ok := w.threads[threadID]; !ok {
		return
	}
	delete(w.threads, threadID)
	w.save()
}

// UpdateStatus feeds a freshly observed reply count into the watchlist.
// A strictly greater count raises the new-replies flag and stores the
// count; an equal or lower count only refreshes the check time, since
// upstream pruning can legitimately shrink a thread and must not be
// flagged as activity.
func (w *Watchlist) UpdateStatus(threadID int64, replyCount int) {
	t, ok := w.threads[threadID]
	if !ok {
		return
	}
	t.LastChecked = w.now().Unix()
	if replyCount > t.LastReplyCount {
		t.HasNewReplies = true
		t.LastReplyCount = replyCount
	}
	w.threads[threadID] = t
	w.save()
}

// MarkRead clears the new-replies flag without touching the count.
func (w *Watchlist) MarkRead(threadID int64) {
	t, ok := w.threads[threadID]
	if !ok {
		return
	}
	t.HasNewReplies = false
	w.threads[threadID] = t
	w.save()
}

// Get returns a watched thread by id.
func (w *Watchlist) Get(threadID int64) (Thread, bool) {
	t, ok := w.threads[threadID]
	return t, ok
}

// All returns the watched threads ordered by id for stable output.
func (w *Watchlist) All() []Thread {
	out := make([]Thread, 0, len(w.threads))
	for _, t := range w.threads {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear removes every watched thread.
func (w *Watchlist) Clear() {
	w.threads = make(map[int64]Thread)
	w.save()
}
