// Package lastseen tracks the highest post number the user has been
// shown per thread, which is what makes "new since last visit" badges
// possible.
package lastseen

import (
	"time"

	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/persist"
)

// retention is how long an untouched watermark survives Cleanup.
const retention = 7 * 24 * time.Hour

// Watermark records the highest seen post number for one thread.
type Watermark struct {
	ThreadID   int64 `json:"threadId"`
	LastPostNo int64 `json:"lastPostNo"`
	// Timestamp is the unix time of the last watermark update
	Timestamp int64 `json:"timestamp"`
}

// Tracker holds per-thread watermarks.
type Tracker struct {
	path  string
	marks map[int64]Watermark

	// now is swappable for tests
	now func() time.Time
}

type diskFormat struct {
	LastSeen []Watermark `json:"lastSeen"`
}

// NewTracker loads watermarks from path, starting empty when the file is
// missing or corrupt.
func NewTracker(path string) *Tracker {
	t := &Tracker{
		path:  path,
		marks: make(map[int64]Watermark),
		now:   time.Now,
	}

	var doc diskFormat
	if persist.Load(path, &doc) {
		for _, w := range doc.LastSeen {
			t.marks[w.ThreadID] = w
		}
	}
	return t
}

func (t *Tracker) save() {
	doc := diskFormat{LastSeen: make([]Watermark, 0, len(t.marks))}
	for _, w := range t.marks {
		doc.LastSeen = append(doc.LastSeen, w)
	}
	if err := persist.Save(t.path, doc); err != nil {
		logging.Error("Failed to save last-seen watermarks", "error", err)
	}
}

// RecordSeen advances a thread's watermark. Watermarks are monotonic:
// recording a lower post number than the stored one is a no-op.
func (t *Tracker) RecordSeen(threadID, postNo int64) {
	existing, ok := t.marks[threadID]
	if ok && postNo <= existing.LastPostNo {
		return
	}
	t.marks[threadID] = Watermark{
		ThreadID:   threadID,
		LastPostNo: postNo,
		Timestamp:  t.now().Unix(),
	}
	t.save()
}

// Watermark returns the stored watermark for a thread, if any.
func (t *Tracker) Watermark(threadID int64) (int64, bool) {
	w, ok := t.marks[threadID]
	if !ok {
		return 0, false
	}
	return w.LastPostNo, true
}

// IsNew reports whether a post arrived after the user last saw the
// thread. A thread with no watermark has no baseline, so nothing in it
// is "new" on the first visit.
func (t *Tracker) IsNew(threadID, postNo int64) bool {
	w, ok := t.marks[threadID]
	if !ok {
		return false
	}
	return postNo > w.LastPostNo
}

// ModifiedSince reports whether a thread changed upstream after the
// watermark was recorded. Catalog views use this because catalogs carry
// modification times but no post numbers. No watermark means no
// baseline, so false.
func (t *Tracker) ModifiedSince(threadID, modifiedAt int64) bool {
	w, ok := t.marks[threadID]
	if !ok {
		return false
	}
	return modifiedAt > w.Timestamp
}

// Cleanup drops watermarks idle longer than the retention window.
// Callers invoke this periodically; it is deliberately not run on every
// read to keep the hot path a map lookup. Returns the number dropped.
func (t *Tracker) Cleanup() int {
	cutoff := t.now().Add(-retention).Unix()
	dropped := 0
	for id, w := range t.marks {
		if w.Timestamp <= cutoff {
			delete(t.marks, id)
			dropped++
		}
	}
	if dropped > 0 {
		t.save()
	}
	return dropped
}

// Len returns the number of tracked threads.
func (t *Tracker) Len() int {
	return len(t.marks)
}
