package foolfuuka

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chandesk/chandesk/internal/httpclient"
	"github.com/chandesk/chandesk/internal/provider"
)

// indexPage mixes number and string encodings the way live FoolFuuka
// installs do.
const indexPage = `{"pol": {
	"1000": {
		"op": {"num": 1000, "timestamp": 1700000100, "name": "Anonymous",
			"title": "older thread", "comment": "op body",
			"media": {"media_id": "77", "media_orig": "1699999999.png",
				"media_filename": "original.png", "media_size": "2048",
				"media_w": 640, "media_h": "480"}},
		"posts": {"1001": {"num": "1001", "timestamp": "1700000101", "comment": "reply"}}
	},
	"2000": {
		"op": {"num": "2000", "timestamp": "1700000200", "title": "newer thread",
			"comment_sanitized": "clean body", "comment": "raw body", "media": null},
		"posts": {}
	},
	"3000": {"posts": {}}
}}`

const threadPage = `{"1000": {
	"op": {"num": 1000, "timestamp": 1700000100, "comment": "op body",
		"media": {"media_orig": "1699999999.png", "media_filename": "original.png"}},
	"posts": {
		"1002": {"num": 1002, "timestamp": 1700000102, "comment": "second reply"},
		"1001": {"num": "1001", "timestamp": 1700000101, "comment": "first reply"}
	}
}}`

func testProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := httpclient.New(httpclient.WithHostInterval(time.Millisecond))
	return NewFourPlebs(client, WithAPIBase(srv.URL))
}

func TestFetchBoardsIsHardcoded(t *testing.T) {
	client := httpclient.New(httpclient.WithHostInterval(time.Millisecond))

	plebs := NewFourPlebs(client, WithAPIBase("http://127.0.0.1:1"))
	boards := plebs.FetchBoards(context.Background())
	if len(boards) != len(fourPlebsBoards) {
		t.Fatalf("got %d boards, want %d", len(boards), len(fourPlebsBoards))
	}
	for _, b := range boards {
		if b.Category != "Archive" {
			t.Errorf("/%s/ category = %q", b.ID, b.Category)
		}
		if b.ID == "pol" && !b.NSFW {
			t.Error("/pol/ should be nsfw")
		}
	}

	moe := NewArchivedMoe(client, WithAPIBase("http://127.0.0.1:1"))
	if len(moe.FetchBoards(context.Background())) != len(archivedMoeBoards) {
		t.Error("archived.moe board list mismatch")
	}
}

func TestFetchCatalogParsesIndex(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index/" || r.URL.Query().Get("board") != "pol" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(indexPage))
	}))

	entries := p.FetchCatalog(context.Background(), "pol")
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (op-less thread skipped)", len(entries))
	}

	// Newest first regardless of map order
	if entries[0].No != 2000 || entries[1].No != 1000 {
		t.Fatalf("order = %d, %d", entries[0].No, entries[1].No)
	}
	if entries[0].Subject != "newer thread" || entries[0].Excerpt != "clean body" {
		t.Errorf("sanitized comment should win: %+v", entries[0])
	}
	if entries[0].Thumb != nil {
		t.Error("null media should carry no thumb")
	}

	older := entries[1]
	if older.Replies != 1 || older.Name != "Anonymous" {
		t.Errorf("older entry = %+v", older)
	}
	if older.Thumb == nil || older.Thumb.Tim != 1699999999 || older.Thumb.Ext != ".png" {
		t.Errorf("thumb = %+v", older.Thumb)
	}
}

func TestFetchThreadSortsReplies(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/thread/" || r.URL.Query().Get("num") != "1000" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(threadPage))
	}))

	thread := p.FetchThread(context.Background(), "pol", 1000)
	if len(thread.Posts) != 3 {
		t.Fatalf("got %d posts", len(thread.Posts))
	}

	op := thread.Posts[0]
	if op.No != 1000 || op.ReplyTo != 0 {
		t.Errorf("op = %+v", op)
	}
	if op.File == nil || op.File.Tim != 1699999999 || op.File.Filename != "original" {
		t.Errorf("op file = %+v", op.File)
	}

	// Replies ordered by post number, not map iteration order
	if thread.Posts[1].No != 1001 || thread.Posts[2].No != 1002 {
		t.Errorf("reply order = %d, %d", thread.Posts[1].No, thread.Posts[2].No)
	}
	if thread.Posts[1].ReplyTo != 1000 {
		t.Errorf("reply = %+v", thread.Posts[1])
	}
}

func TestFetchFailureIsEmpty(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	if entries := p.FetchCatalog(context.Background(), "pol"); len(entries) != 0 {
		t.Errorf("catalog = %+v", entries)
	}
	thread := p.FetchThread(context.Background(), "pol", 1)
	if thread.Posts == nil || len(thread.Posts) != 0 {
		t.Errorf("thread posts = %+v", thread.Posts)
	}
}

func TestArchivesAreReadOnly(t *testing.T) {
	client := httpclient.New(httpclient.WithHostInterval(time.Millisecond))
	p := NewArchivedMoe(client)

	if p.SupportsPosting() {
		t.Error("archives must not report posting support")
	}
	if _, err := p.SubmitPost(context.Background(), provider.PostRequest{}); !errors.Is(err, provider.ErrPostingUnsupported) {
		t.Errorf("SubmitPost err = %v", err)
	}
}

func TestMediaURLs(t *testing.T) {
	client := httpclient.New(httpclient.WithHostInterval(time.Millisecond))

	plebs := NewFourPlebs(client)
	if got := plebs.ImageURL("pol", 1699999999, ".png"); got != "https://i.4pcdn.org/pol/1699999999.png" {
		t.Errorf("4plebs image url = %q", got)
	}
	if got := plebs.ThumbnailURL("pol", 1699999999); got != "https://i.4pcdn.org/pol/1699999999s.jpg" {
		t.Errorf("4plebs thumb url = %q", got)
	}

	moe := NewArchivedMoe(client)
	if got := moe.ImageURL("g", 1699999999, ".png"); got != "https://archived.moe/g/full_image/1699999999.png" {
		t.Errorf("archived.moe image url = %q", got)
	}
	if got := moe.ThumbnailURL("g", 1699999999); got != "https://archived.moe/g/thumb/1699999999s.jpg" {
		t.Errorf("archived.moe thumb url = %q", got)
	}
}

func TestFlexIntForms(t *testing.T) {
	cases := []struct {
		in   string
		want flexInt
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`null`, 0},
		{`""`, 0},
		{`"not a number"`, 0},
	}
	for _, tc := range cases {
		var n flexInt
		if err := n.UnmarshalJSON([]byte(tc.in)); err != nil {
			t.Errorf("UnmarshalJSON(%s) errored: %v", tc.in, err)
		}
		if n != tc.want {
			t.Errorf("flexInt(%s) = %d, want %d", tc.in, n, tc.want)
		}
	}
}
