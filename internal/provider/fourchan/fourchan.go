// Package fourchan implements the 4chan provider against the read-only
// JSON API at a.4cdn.org and the posting endpoint at sys.4chan.org.
package fourchan

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/chandesk/chandesk/internal/board"
	"github.com/chandesk/chandesk/internal/httpclient"
	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/provider"
)

const (
	defaultAPIBase   = "https://a.4cdn.org"
	defaultMediaBase = "https://i.4cdn.org"
	defaultSysBase   = "https://sys.4chan.org"

	// postCooldown is the local spacing between submissions
	postCooldown = 60 * time.Second
)

// boardCategories groups well-known boards for the sidebar. Boards not
// listed fall into "Other".
var boardCategories = map[string]string{
	"a": "Japanese Culture", "jp": "Japanese Culture", "m": "Japanese Culture",
	"v": "Video Games", "vg": "Video Games", "vp": "Video Games", "vr": "Video Games",
	"g": "Technology", "sci": "Technology", "diy": "Technology",
	"i": "Creative", "ic": "Creative", "gd": "Creative", "po": "Creative",
	"b": "Random", "pol": "News", "int": "Culture", "sp": "Sports",
}

// popularBoards is the fixed set sampled for the home view.
var popularBoards = []string{"g", "v", "a", "tv", "sp", "fit", "int", "sci"}

// Provider is the 4chan backend.
type Provider struct {
	client    *httpclient.Client
	apiBase   string
	mediaBase string
	sysBase   string

	mu       sync.Mutex
	lastPost time.Time
}

// Option configures the provider, primarily for tests.
type Option func(*Provider)

// WithAPIBase overrides the JSON API base URL.
func WithAPIBase(u string) Option { return func(p *Provider) { p.apiBase = u } }

// WithMediaBase overrides the media base URL.
func WithMediaBase(u string) Option { return func(p *Provider) { p.mediaBase = u } }

// WithSysBase overrides the posting base URL.
func WithSysBase(u string) Option { return func(p *Provider) { p.sysBase = u } }

// New creates the provider.
func New(client *httpclient.Client, opts ...Option) *Provider {
	p := &Provider{
		client:    client,
		apiBase:   defaultAPIBase,
		mediaBase: defaultMediaBase,
		sysBase:   defaultSysBase,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Info returns provider identity metadata.
func (p *Provider) Info() provider.Info {
	return provider.Info{
		ID:        "4chan",
		Name:      "4chan",
		ShortName: "4ch",
		BaseURL:   "https://4chan.org",
		NSFW:      false,
	}
}

// Wire types mirror the upstream JSON field names.

type wireBoard struct {
	Board           string `json:"board"`
	Title           string `json:"title"`
	WSBoard         int    `json:"ws_board"`
	MetaDescription string `json:"meta_description"`
}

type wirePost struct {
	No           int64  `json:"no"`
	Resto        int64  `json:"resto"`
	Time         int64  `json:"time"`
	Name         string `json:"name"`
	Trip         string `json:"trip"`
	Capcode      string `json:"capcode"`
	Country      string `json:"country"`
	Sub          string `json:"sub"`
	Com          string `json:"com"`
	Tim          int64  `json:"tim"`
	Filename     string `json:"filename"`
	Ext          string `json:"ext"`
	Fsize        int64  `json:"fsize"`
	W            int    `json:"w"`
	H            int    `json:"h"`
	Sticky       int    `json:"sticky"`
	Closed       int    `json:"closed"`
	BumpLimit    int    `json:"bumplimit"`
	ImageLimit   int    `json:"imagelimit"`
	Replies      int    `json:"replies"`
	Images       int    `json:"images"`
	LastModified int64  `json:"last_modified"`
}

type wireCatalogPage struct {
	Page    int        `json:"page"`
	Threads []wirePost `json:"threads"`
}

func (w wirePost) toPost() board.Post {
	p := board.Post{
		No:      w.No,
		ReplyTo: w.Resto,
		Time:    w.Time,
		Name:    w.Name,
		Trip:    w.Trip,
		Capcode: w.Capcode,
		Country: w.Country,
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

func (w wirePost) toCatalogEntry() board.CatalogEntry {
	e := board.CatalogEntry{
		No:           w.No,
		Subject:      w.Sub,
		Excerpt:      w.Com,
		Name:         w.Name,
		Trip:         w.Trip,
		Replies:      w.Replies,
		Images:       w.Images,
		Time:         w.Time,
		LastModified: w.LastModified,
		Sticky:       w.Sticky != 0,
		Closed:       w.Closed != 0,
		BumpLimit:    w.BumpLimit != 0,
		ImageLimit:   w.ImageLimit != 0,
	}
	if w.Tim != 0 {
		e.Thumb = &board.File{Tim: w.Tim, Ext: w.Ext, Filename: w.Filename}
	}
	return e
}

// FetchBoards returns the board list, or an empty list on any failure.
func (p *Provider) FetchBoards(ctx context.Context) []board.Board {
	var resp struct {
		Boards []wireBoard `json:"boards"`
	}
	if err := p.client.GetJSON(ctx, p.apiBase+"/boards.json", &resp); err != nil {
		logging.Warn("4chan board list fetch failed", "error", err)
		return []board.Board{}
	}

	boards := make([]board.Board, 0, len(resp.Boards))
	for _, b := range resp.Boards {
		category := boardCategories[b.Board]
		if category == "" {
			category = "Other"
		}
		boards = append(boards, board.Board{
			ID:          b.Board,
			Name:        b.Title,
			Description: b.MetaDescription,
			NSFW:        b.WSBoard == 0,
			Category:    category,
		})
	}
	return boards
}

// FetchCatalog returns the board catalog flattened across pages, or an
// empty list on any failure.
func (p *Provider) FetchCatalog(ctx context.Context, boardID string) []board.CatalogEntry {
	var pages []wireCatalogPage
	if err := p.client.GetJSON(ctx, p.apiBase+"/"+boardID+"/catalog.json", &pages); err != nil {
		logging.Warn("4chan catalog fetch failed", "board", boardID, "error", err)
		return []board.CatalogEntry{}
	}

	var entries []board.CatalogEntry
	for _, page := range pages {
		for _, t := range page.Threads {
			entries = append(entries, t.toCatalogEntry())
		}
	}
	if entries == nil {
		entries = []board.CatalogEntry{}
	}
	return entries
}

// FetchThread returns a thread, or a thread with zero posts on any
// failure.
func (p *Provider) FetchThread(ctx context.Context, boardID string, threadID int64) board.Thread {
	var resp struct {
		Posts []wirePost `json:"posts"`
	}
	url := p.apiBase + "/" + boardID + "/thread/" + itoa(threadID) + ".json"
	if err := p.client.GetJSON(ctx, url, &resp); err != nil {
		logging.Warn("4chan thread fetch failed", "board", boardID, "thread", threadID, "error", err)
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
	return p.mediaBase + "/" + boardID + "/" + itoa(tim) + ext
}

// ThumbnailURL returns the thumbnail URL for an attachment.
func (p *Provider) ThumbnailURL(boardID string, tim int64) string {
	return p.mediaBase + "/" + boardID + "/" + itoa(tim) + "s.jpg"
}

// PopularThread is a catalog entry annotated with its board, for the
// cross-board home view.
type PopularThread struct {
	Board string
	Entry board.CatalogEntry
}

// FetchPopular samples the catalogs of a fixed board set concurrently
// and returns the top image threads ordered by reply count. Individual
// board failures degrade to no contribution.
func (p *Provider) FetchPopular(ctx context.Context, perBoard int) []PopularThread {
	results := fanOutCatalogs(ctx, p, popularBoards)

	var popular []PopularThread
	for i, entries := range results {
		withImages := make([]board.CatalogEntry, 0, len(entries))
		for _, e := range entries {
			if e.Thumb != nil {
				withImages = append(withImages, e)
			}
		}
		sort.Slice(withImages, func(a, b int) bool {
			return withImages[a].Replies > withImages[b].Replies
		})
		if len(withImages) > perBoard {
			withImages = withImages[:perBoard]
		}
		for _, e := range withImages {
			popular = append(popular, PopularThread{Board: popularBoards[i], Entry: e})
		}
	}

	sort.Slice(popular, func(a, b int) bool {
		return popular[a].Entry.Replies > popular[b].Entry.Replies
	})
	return popular
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
