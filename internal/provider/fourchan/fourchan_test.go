package fourchan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chandesk/chandesk/internal/httpclient"
)

func testProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := httpclient.New(httpclient.WithHostInterval(time.Millisecond))
	return New(client, WithAPIBase(srv.URL), WithMediaBase(srv.URL), WithSysBase(srv.URL))
}

func TestFetchBoards(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/boards.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"boards": [
			{"board": "g", "title": "Technology", "ws_board": 1, "meta_description": "tech"},
			{"board": "b", "title": "Random", "ws_board": 0},
			{"board": "zzz", "title": "Unknown", "ws_board": 1}
		]}`))
	}))

	boards := p.FetchBoards(context.Background())
	if len(boards) != 3 {
		t.Fatalf("got %d boards", len(boards))
	}
	if boards[0].ID != "g" || boards[0].NSFW || boards[0].Category != "Technology" {
		t.Errorf("g parsed as %+v", boards[0])
	}
	if !boards[1].NSFW {
		t.Error("ws_board 0 should mean nsfw")
	}
	if boards[2].Category != "Other" {
		t.Errorf("unlisted board category = %q", boards[2].Category)
	}
}

func TestFetchBoardsFailureIsEmpty(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))

	if boards := p.FetchBoards(context.Background()); len(boards) != 0 {
		t.Errorf("expected empty board list, got %d", len(boards))
	}
}

func TestFetchCatalogFlattensPages(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/g/catalog.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[
			{"page": 1, "threads": [
				{"no": 100, "sub": "first", "replies": 5, "tim": 111, "ext": ".png", "sticky": 1},
				{"no": 200, "com": "second", "replies": 2}
			]},
			{"page": 2, "threads": [
				{"no": 300, "replies": 0, "closed": 1}
			]}
		]`))
	}))

	entries := p.FetchCatalog(context.Background(), "g")
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].No != 100 || !entries[0].Sticky || entries[0].Thumb == nil {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Thumb != nil {
		t.Error("entry without tim should have no thumb")
	}
	if entries[2].No != 300 || !entries[2].Closed {
		t.Errorf("cross-page entry = %+v", entries[2])
	}
}

func TestFetchThread(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/g/thread/100.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"posts": [
			{"no": 100, "time": 1700000000, "name": "Anonymous", "sub": "op", "com": "body",
			 "tim": 1700000000123, "ext": ".jpg", "filename": "pic", "fsize": 1234, "w": 800, "h": 600},
			{"no": 101, "resto": 100, "com": "reply"}
		]}`))
	}))

	thread := p.FetchThread(context.Background(), "g", 100)
	if len(thread.Posts) != 2 {
		t.Fatalf("got %d posts", len(thread.Posts))
	}
	op := thread.Posts[0]
	if op.No != 100 || op.File == nil || op.File.Ext != ".jpg" || op.File.Width != 800 {
		t.Errorf("op = %+v file = %+v", op, op.File)
	}
	if thread.Posts[1].ReplyTo != 100 || thread.Posts[1].File != nil {
		t.Errorf("reply = %+v", thread.Posts[1])
	}
}

func TestFetchThreadFailureIsEmpty(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	thread := p.FetchThread(context.Background(), "g", 404)
	if thread.Posts == nil || len(thread.Posts) != 0 {
		t.Errorf("expected empty non-nil posts, got %+v", thread.Posts)
	}
}

func TestMediaURLs(t *testing.T) {
	client := httpclient.New(httpclient.WithHostInterval(time.Millisecond))
	p := New(client)

	if got := p.ImageURL("g", 1700000000123, ".png"); got != "https://i.4cdn.org/g/1700000000123.png" {
		t.Errorf("image url = %q", got)
	}
	if got := p.ThumbnailURL("g", 1700000000123); got != "https://i.4cdn.org/g/1700000000123s.jpg" {
		t.Errorf("thumb url = %q", got)
	}
}

func TestFetchPopular(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Same small catalog for every board
		w.Write([]byte(`[{"page": 1, "threads": [
			{"no": 1, "replies": 50, "tim": 11, "ext": ".png"},
			{"no": 2, "replies": 90, "tim": 22, "ext": ".png"},
			{"no": 3, "replies": 70, "tim": 33, "ext": ".png"},
			{"no": 4, "replies": 999}
		]}]`))
	}))

	popular := p.FetchPopular(context.Background(), 2)
	if len(popular) != 2*len(popularBoards) {
		t.Fatalf("got %d popular threads, want %d", len(popular), 2*len(popularBoards))
	}
	// Text-only threads are excluded even with the top reply count
	for _, pt := range popular {
		if pt.Entry.No == 4 {
			t.Fatal("thread without an image made the popular list")
		}
	}
	// Global ordering by replies, descending
	for i := 1; i < len(popular); i++ {
		if popular[i-1].Entry.Replies < popular[i].Entry.Replies {
			t.Fatalf("popular list not sorted at %d: %+v", i, popular)
		}
	}
}
