package watchlist

import (
	"path/filepath"
	"testing"
)

func testWatchlist(t *testing.T) (*Watchlist, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.json")
	return New(path), path
}

func TestNewRepliesScenario(t *testing.T) {
	w, _ := testWatchlist(t)

	w.Watch(Thread{ID: 42, Board: "g", Provider: "4chan", Title: "dt", LastReplyCount: 5})

	w.UpdateStatus(42, 8)
	got, _ := w.Get(42)
	if !got.HasNewReplies {
		t.Error("strictly greater count should raise the flag")
	}
	if got.LastReplyCount != 8 {
		t.Errorf("LastReplyCount = %d, want 8", got.LastReplyCount)
	}

	w.MarkRead(42)
	got, _ = w.Get(42)
	if got.HasNewReplies {
		t.Error("MarkRead should clear the flag")
	}
	if got.LastReplyCount != 8 {
		t.Error("MarkRead must not touch the count")
	}
}

func TestUpdateStatusEqualOrLower(t *testing.T) {
	w, _ := testWatchlist(t)
	w.Watch(Thread{ID: 1, Board: "g", Provider: "4chan", LastReplyCount: 10})

	w.UpdateStatus(1, 10)
	if got, _ := w.Get(1); got.HasNewReplies {
		t.Error("equal count must not raise the flag")
	}

	// Upstream pruning can shrink a thread; that is not activity
	w.UpdateStatus(1, 7)
	got, _ := w.Get(1)
	if got.HasNewReplies {
		t.Error("lower count must not raise the flag")
	}
	if got.LastReplyCount != 10 {
		t.Errorf("lower count must not overwrite the stored count, got %d", got.LastReplyCount)
	}

	// Unknown ids are ignored
	w.UpdateStatus(999, 5)
}

func TestWatchIsIdempotentFirstWriterWins(t *testing.T) {
	w, _ := testWatchlist(t)
	w.Watch(Thread{ID: 1, Board: "g", Provider: "4chan", Title: "original"})
	w.Watch(Thread{ID: 1, Board: "v", Provider: "7chan", Title: "imposter"})

	got, _ := w.Get(1)
	if got.Title != "original" || got.Board != "g" {
		t.Errorf("second watch overwrote metadata: %+v", got)
	}
	if len(w.All()) != 1 {
		t.Errorf("watchlist holds %d entries, want 1", len(w.All()))
	}
}

func TestUnwatch(t *testing.T) {
	w, _ := testWatchlist(t)
	w.Watch(Thread{ID: 1, Board: "g", Provider: "4chan"})

	w.Unwatch(1)
	if _, ok := w.Get(1); ok {
		t.Error("thread still present after Unwatch")
	}
	w.Unwatch(1)
}

func TestAllOrderedByID(t *testing.T) {
	w, _ := testWatchlist(t)
	for _, id := range []int64{30, 10, 20} {
		w.Watch(Thread{ID: id, Board: "g", Provider: "4chan"})
	}

	all := w.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("All not sorted: %+v", all)
		}
	}
}

func TestWatchlistPersists(t *testing.T) {
	w, path := testWatchlist(t)
	w.Watch(Thread{ID: 42, Board: "g", Provider: "4chan", Title: "dt", LastReplyCount: 5})
	w.UpdateStatus(42, 8)

	reloaded := New(path)
	got, ok := reloaded.Get(42)
	if !ok {
		t.Fatal("watched thread lost on reload")
	}
	if !got.HasNewReplies || got.LastReplyCount != 8 {
		t.Errorf("reload state mismatch: %+v", got)
	}
}
