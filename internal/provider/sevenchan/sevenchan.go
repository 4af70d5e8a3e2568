// Package sevenchan implements the 7chan provider. 7chan runs Kusaba X,
// which exposes JSON in several inconsistent shapes and has no board
// list API, so boards are hardcoded and catalog parsing tries each known
// format in turn.
package sevenchan

import (
	"context"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/chandesk/chandesk/internal/board"
	"github.com/chandesk/chandesk/internal/httpclient"
	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/provider"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultBaseURL = "https://7chan.org"

// knownBoards is the hardcoded board list; 7chan has no list endpoint.
var knownBoards = []board.Board{
	{ID: "a", Name: "Anime", Category: "Anime & Media"},
	{ID: "me", Name: "Mecha", Category: "Anime & Media"},
	{ID: "co", Name: "Comics & Cartoons", Category: "Anime & Media"},
	{ID: "tv", Name: "Movies & TV", Category: "Anime & Media"},
	{ID: "pr", Name: "Programming", Category: "Technology"},
	{ID: "tech", Name: "Technology", Category: "Technology"},
	{ID: "tg", Name: "Tabletop Games", Category: "Games"},
	{ID: "vg", Name: "Video Games", Category: "Games"},
	{ID: "b", Name: "Random", NSFW: true, Category: "Random"},
	{ID: "gfx", Name: "Graphics", Category: "Creative"},
	{ID: "w", Name: "Weapons", Category: "Interests"},
	{ID: "fit", Name: "Fitness", Category: "Lifestyle"},
	{ID: "fl", Name: "Flash", Category: "Creative"},
	{ID: "lit", Name: "Literature", Category: "Culture"},
	{ID: "phi", Name: "Philosophy", Category: "Culture"},
	{ID: "x", Name: "Paranormal", Category: "Interests"},
	{ID: "gif", Name: "Animated GIFs", NSFW: true, Category: "Adult"},
	{ID: "d", Name: "Alternative Hentai", NSFW: true, Category: "Adult"},
	{ID: "h", Name: "Hentai", NSFW: true, Category: "Adult"},
	{ID: "di", Name: "Sexy Beautiful Traps", NSFW: true, Category: "Adult"},
}

// Provider is the 7chan backend. Read-only.
type Provider struct {
	provider.Unsupported

	client  *httpclient.Client
	baseURL string
}

// Option configures the provider.
type Option func(*Provider)

// WithBaseURL overrides the site base URL, for tests.
func WithBaseURL(u string) Option { return func(p *Provider) { p.baseURL = u } }

// New creates the provider.
func New(client *httpclient.Client, opts ...Option) *Provider {
	p := &Provider{client: client, baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Info returns provider identity metadata.
func (p *Provider) Info() provider.Info {
	return provider.Info{
		ID:        "7chan",
		Name:      "7chan",
		ShortName: "7ch",
		BaseURL:   defaultBaseURL,
		NSFW:      true,
	}
}

// FetchBoards returns the hardcoded board list.
func (p *Provider) FetchBoards(ctx context.Context) []board.Board {
	boards := make([]board.Board, len(knownBoards))
	copy(boards, knownBoards)
	return boards
}

type wirePost struct {
	No       int64  `json:"no"`
	Resto    int64  `json:"resto"`
	Time     int64  `json:"time"`
	Name     string `json:"name"`
	Trip     string `json:"trip"`
	Sub      string `json:"sub"`
	Com      string `json:"com"`
	Tim      int64  `json:"tim"`
	Ext      string `json:"ext"`
	Filename string `json:"filename"`
	Fsize    int64  `json:"fsize"`
	W        int    `json:"w"`
	H        int    `json:"h"`
	Replies  int    `json:"replies"`
	Images   int    `json:"images"`
}

func (w wirePost) toCatalogEntry() board.CatalogEntry {
	e := board.CatalogEntry{
		No:      w.No,
		Subject: w.Sub,
		Excerpt: w.Com,
		Name:    w.Name,
		Trip:    w.Trip,
		Replies: w.Replies,
		Images:  w.Images,
		Time:    w.Time,
	}
	if w.Tim != 0 {
		e.Thumb = &board.File{Tim: w.Tim, Ext: w.Ext, Filename: w.Filename}
	}
	return e
}

func (w wirePost) toPost() board.Post {
	p := board.Post{
		No:      w.No,
		ReplyTo: w.Resto,
		Time:    w.Time,
		Name:    w.Name,
		Trip:    w.Trip,
		Subject: w.Sub,
		Comment: w.Com,
	}
	if w.Tim != 0 {
		p.File = &board.File{
			Tim:      w.Tim,
			Ext:      w.Ext,
			Filename: w.Filename,
			Size:     w.Fsize,
			Width:    w.W,
			Height:   w.H,
		}
	}
	return p
}

// FetchCatalog fetches the board catalog, trying each JSON shape Kusaba
// deployments are known to serve: paged pages with a threads array, a
// flat thread array, and finally page 0 as thread objects wrapping post
// arrays. Any failure yields an empty catalog.
func (p *Provider) FetchCatalog(ctx context.Context, boardID string) []board.CatalogEntry {
	body, err := p.client.Get(ctx, p.baseURL+"/"+boardID+"/catalog.json")
	if err == nil {
		if entries, ok := parseCatalog(body); ok {
			return entries
		}
	}

	// Some boards only serve per-page JSON
	body, err = p.client.Get(ctx, p.baseURL+"/"+boardID+"/0.json")
	if err != nil {
		logging.Warn("7chan catalog fetch failed", "board", boardID, "error", err)
		return []board.CatalogEntry{}
	}
	if entries, ok := parsePageZero(body); ok {
		return entries
	}

	logging.Warn("7chan catalog parse failed", "board", boardID)
	return []board.CatalogEntry{}
}

func parseCatalog(body []byte) ([]board.CatalogEntry, bool) {
	// Paged format: [{"page": 0, "threads": [...]}, ...]
	var pages []struct {
		Threads []wirePost `json:"threads"`
	}
	if err := json.Unmarshal(body, &pages); err == nil && len(pages) > 0 && pages[0].Threads != nil {
		var entries []board.CatalogEntry
		for _, page := range pages {
			for _, t := range page.Threads {
				entries = append(entries, t.toCatalogEntry())
			}
		}
		return entries, true
	}

	// Flat array format
	var flat []wirePost
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		entries := make([]board.CatalogEntry, 0, len(flat))
		for _, t := range flat {
			entries = append(entries, t.toCatalogEntry())
		}
		return entries, true
	}

	return nil, false
}

func parsePageZero(body []byte) ([]board.CatalogEntry, bool) {
	var page struct {
		Threads []struct {
			Posts []wirePost `json:"posts"`
		} `json:"threads"`
	}
	if err := json.Unmarshal(body, &page); err != nil || page.Threads == nil {
		return nil, false
	}

	var entries []board.CatalogEntry
	for _, t := range page.Threads {
		if len(t.Posts) == 0 {
			continue
		}
		op := t.Posts[0]
		e := op.toCatalogEntry()
		e.Replies = len(t.Posts) - 1
		entries = append(entries, e)
	}
	return entries, true
}

// FetchThread fetches a thread from the res endpoint, falling back to a
// posts-wrapper shape. Any failure yields a thread with zero posts.
func (p *Provider) FetchThread(ctx context.Context, boardID string, threadID int64) board.Thread {
	url := p.baseURL + "/" + boardID + "/res/" + strconv.FormatInt(threadID, 10) + ".json"
	body, err := p.client.Get(ctx, url)
	if err != nil {
		logging.Warn("7chan thread fetch failed", "board", boardID, "thread", threadID, "error", err)
		return board.Thread{Posts: []board.Post{}}
	}

	var resp struct {
		Posts []wirePost `json:"posts"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Posts) == 0 {
		logging.Warn("7chan thread parse failed", "board", boardID, "thread", threadID)
		return board.Thread{Posts: []board.Post{}}
	}

	posts := make([]board.Post, 0, len(resp.Posts))
	for _, w := range resp.Posts {
		posts = append(posts, w.toPost())
	}
	return board.Thread{Posts: posts}
}

// ImageURL returns the full-size media URL for an attachment.
func (p *Provider) ImageURL(boardID string, tim int64, ext string) string {
	return p.baseURL + "/" + boardID + "/src/" + strconv.FormatInt(tim, 10) + ext
}

// ThumbnailURL returns the thumbnail URL for an attachment.
func (p *Provider) ThumbnailURL(boardID string, tim int64) string {
	return p.baseURL + "/" + boardID + "/thumb/" + strconv.FormatInt(tim, 10) + "s.jpg"
}
