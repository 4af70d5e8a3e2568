// Package twentytwochan implements the 22chan provider. The site runs a
// custom Django stack with no JSON API, so catalogs and threads are
// scraped from the HTML pages.
package twentytwochan

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chandesk/chandesk/internal/board"
	"github.com/chandesk/chandesk/internal/httpclient"
	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/provider"
)

const defaultBaseURL = "https://22chan.org"

// mediaHrefFragment identifies attachment links inside a post element.
const mediaHrefFragment = "/UserMedia/uploads/"

// knownBoards is the hardcoded board list; 22chan has no list endpoint.
var knownBoards = []struct {
	id   string
	name string
	nsfw bool
}{
	{"a", "Anime & Manga", false},
	{"b", "Random", true},
	{"cat", "Cinema", false},
	{"co", "Comics & Cartoons", false},
	{"fit", "Fitness", false},
	{"k", "Weapons", false},
	{"lit", "Literature", false},
	{"meta", "Meta", false},
	{"mu", "Music", false},
	{"out", "Outdoors", false},
	{"pol", "Politics", true},
	{"sci", "Science", false},
	{"tech", "Technology", false},
	{"v", "Video Games General", false},
	{"vg", "Video Games", false},
	{"w", "Wallpapers", false},
}

// Provider is the 22chan backend. Read-only.
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
		ID:        "22chan",
		Name:      "22chan",
		ShortName: "22ch",
		BaseURL:   defaultBaseURL,
		NSFW:      true,
	}
}

// FetchBoards returns the hardcoded board list.
func (p *Provider) FetchBoards(ctx context.Context) []board.Board {
	boards := make([]board.Board, 0, len(knownBoards))
	for _, b := range knownBoards {
		boards = append(boards, board.Board{
			ID:          b.id,
			Name:        b.name,
			Description: "22chan /" + b.id + "/",
			NSFW:        b.nsfw,
			Category:    "22chan",
		})
	}
	return boards
}

// parseMediaHref splits an upload href into tim, ext and filename. Tim
// is the numeric filename stem; non-numeric stems yield no attachment.
func parseMediaHref(href string) (tim int64, ext, filename string, ok bool) {
	filename = href
	if i := strings.LastIndexByte(href, '/'); i >= 0 {
		filename = href[i+1:]
	}
	dot := strings.LastIndexByte(filename, '.')
	if dot <= 0 {
		return 0, "", "", false
	}
	tim, err := strconv.ParseInt(filename[:dot], 10, 64)
	if err != nil {
		return 0, "", "", false
	}
	return tim, filename[dot:], filename, true
}

func findMediaFile(sel *goquery.Selection) *board.File {
	href, exists := sel.Find("a[href*='" + mediaHrefFragment + "']").First().Attr("href")
	if !exists {
		return nil
	}
	tim, ext, filename, ok := parseMediaHref(href)
	if !ok {
		return nil
	}
	return &board.File{Tim: tim, Ext: ext, Filename: filename}
}

// parseSlug reads the post id from the data-slug attribute.
func parseSlug(sel *goquery.Selection) int64 {
	slug, _ := sel.Attr("data-slug")
	id, err := strconv.ParseInt(slug, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// parseReplyCount extracts the reply count from a thread header, which
// renders it after a star marker.
func parseReplyCount(text string) int {
	_, after, found := strings.Cut(text, "★")
	if !found {
		return 0
	}
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// excerpt takes the first few content lines of the inner text, skipping
// the header line.
func excerpt(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 {
		lines = lines[1:]
	}
	if len(lines) > 5 {
		lines = lines[:5]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// FetchCatalog scrapes the board index page. Any failure yields an
// empty catalog.
func (p *Provider) FetchCatalog(ctx context.Context, boardID string) []board.CatalogEntry {
	body, err := p.client.Get(ctx, p.baseURL+"/"+boardID+"/")
	if err != nil {
		logging.Warn("22chan catalog fetch failed", "board", boardID, "error", err)
		return []board.CatalogEntry{}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logging.Warn("22chan catalog parse failed", "board", boardID, "error", err)
		return []board.CatalogEntry{}
	}

	entries := []board.CatalogEntry{}
	doc.Find(".thread").Each(func(_ int, sel *goquery.Selection) {
		id := parseSlug(sel)
		if id == 0 {
			return
		}
		e := board.CatalogEntry{
			No:      id,
			Subject: strings.TrimSpace(sel.Find(".subject").First().Text()),
			Name:    strings.TrimSpace(sel.Find(".name").First().Text()),
			Excerpt: excerpt(sel.Find(".inner").First().Text()),
			Replies: parseReplyCount(sel.Text()),
			Thumb:   findMediaFile(sel),
		}
		entries = append(entries, e)
	})
	return entries
}

// FetchThread scrapes a thread page. The OP is the .thread element and
// replies are .reply elements. Any failure yields a thread with zero
// posts.
func (p *Provider) FetchThread(ctx context.Context, boardID string, threadID int64) board.Thread {
	url := p.baseURL + "/" + boardID + "/" + strconv.FormatInt(threadID, 10) + "/"
	body, err := p.client.Get(ctx, url)
	if err != nil {
		logging.Warn("22chan thread fetch failed", "board", boardID, "thread", threadID, "error", err)
		return board.Thread{Posts: []board.Post{}}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logging.Warn("22chan thread parse failed", "board", boardID, "thread", threadID, "error", err)
		return board.Thread{Posts: []board.Post{}}
	}

	posts := []board.Post{}

	op := doc.Find(".thread").First()
	if op.Length() > 0 {
		id := parseSlug(op)
		if id == 0 {
			id = threadID
		}
		posts = append(posts, board.Post{
			No:      id,
			Subject: strings.TrimSpace(op.Find(".subject").First().Text()),
			Name:    strings.TrimSpace(op.Find(".name").First().Text()),
			Comment: strings.TrimSpace(op.Find(".inner").First().Text()),
			File:    findMediaFile(op),
		})
	}

	doc.Find(".reply").Each(func(_ int, sel *goquery.Selection) {
		id := parseSlug(sel)
		if id == 0 {
			return
		}
		posts = append(posts, board.Post{
			No:      id,
			ReplyTo: threadID,
			Name:    strings.TrimSpace(sel.Find(".name").First().Text()),
			Comment: strings.TrimSpace(sel.Find(".inner").First().Text()),
			File:    findMediaFile(sel),
		})
	})

	return board.Thread{Posts: posts}
}

// ImageURL returns the full-size media URL for an attachment.
func (p *Provider) ImageURL(boardID string, tim int64, ext string) string {
	return p.baseURL + mediaHrefFragment + strconv.FormatInt(tim, 10) + ext
}

// ThumbnailURL returns the thumbnail URL for an attachment.
func (p *Provider) ThumbnailURL(boardID string, tim int64) string {
	return p.baseURL + mediaHrefFragment + "thumbnails/" + strconv.FormatInt(tim, 10) + "s.jpg"
}
