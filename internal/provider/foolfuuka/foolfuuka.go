// Package foolfuuka implements the archive provider family backed by
// FoolFuuka installations: 4plebs and archived.moe. Archives are
// read-only snapshots of 4chan boards, so the family never posts.
//
// The API shape is shared across installations. The catalog comes from
// /index/?board=...&page=1 as {board: {threadNum: {op, posts}}}, a
// thread from /thread/?board=...&num=... keyed by its number. Numeric
// fields arrive as JSON numbers or strings depending on the install,
// so the wire types decode both.
package foolfuuka

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chandesk/chandesk/internal/board"
	"github.com/chandesk/chandesk/internal/httpclient"
	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/provider"
)

const (
	fourPlebsAPIBase     = "https://archive.4plebs.org/_/api/chan"
	fourPlebsImageBase   = "https://i.4pcdn.org"
	archivedMoeAPIBase   = "https://archived.moe/_/api/chan"
	archivedMoeImageBase = "https://archived.moe"
)

type knownBoard struct {
	id   string
	name string
	nsfw bool
}

// fourPlebsBoards is the fixed set of boards 4plebs archives.
var fourPlebsBoards = []knownBoard{
	{"adv", "Advice", false},
	{"f", "Flash", false},
	{"hr", "High Resolution", false},
	{"o", "Auto", false},
	{"pol", "Politically Incorrect", true},
	{"s4s", "Shit 4chan Says", true},
	{"sp", "Sports", false},
	{"tg", "Traditional Games", false},
	{"trv", "Travel", false},
	{"tv", "Television & Film", false},
	{"x", "Paranormal", false},
}

// archivedMoeBoards is the fixed set of boards archived.moe archives.
var archivedMoeBoards = []knownBoard{
	{"a", "Anime & Manga", false},
	{"c", "Anime/Cute", false},
	{"g", "Technology", false},
	{"k", "Weapons", false},
	{"m", "Mecha", false},
	{"o", "Auto", false},
	{"n", "Transportation", false},
	{"p", "Photography", false},
	{"v", "Video Games", false},
	{"vg", "Video Game Generals", false},
	{"vm", "Video Games/Multiplayer", false},
	{"vmg", "Video Games/Mobile", false},
	{"vp", "Pokémon", false},
	{"vr", "Retro Games", false},
	{"vst", "Video Games/Strategy", false},
	{"vt", "Virtual YouTubers", false},
	{"w", "Anime/Wallpapers", false},
	{"wg", "Wallpapers/General", false},
	{"i", "Oekaki", false},
	{"ic", "Artwork/Critique", false},
	{"r", "Adult Requests", true},
	{"r9k", "ROBOT9001", true},
	{"s4s", "Shit 4chan Says", true},
	{"cm", "Cute/Male", false},
	{"hm", "Handsome Men", true},
	{"lgbt", "LGBT", true},
	{"y", "Yaoi", true},
	{"3", "3DCG", true},
	{"aco", "Adult Cartoons", true},
	{"adv", "Advice", false},
	{"an", "Animals & Nature", false},
	{"bant", "International/Random", true},
	{"biz", "Business & Finance", false},
	{"cgl", "Cosplay & EGL", false},
	{"ck", "Food & Cooking", false},
	{"co", "Comics & Cartoons", false},
	{"diy", "Do It Yourself", false},
	{"fa", "Fashion", false},
	{"fit", "Fitness", false},
	{"gd", "Graphic Design", false},
	{"hc", "Hardcore", true},
	{"his", "History & Humanities", false},
	{"int", "International", false},
	{"jp", "Otaku Culture", false},
	{"lit", "Literature", false},
	{"mlp", "My Little Pony", false},
	{"mu", "Music", false},
	{"news", "Current News", false},
	{"out", "Outdoors", false},
	{"po", "Papercraft & Origami", false},
	{"pw", "Professional Wrestling", false},
	{"qst", "Quests", false},
	{"sci", "Science & Math", false},
	{"soc", "Cams & Meetups", true},
	{"sp", "Sports", false},
	{"tg", "Traditional Games", false},
	{"toy", "Toys", false},
	{"trv", "Travel", false},
	{"tv", "Television & Film", false},
	{"vip", "Very Important Posts", false},
	{"vrpg", "Video Games/RPG", false},
	{"wsg", "Worksafe GIF", false},
	{"wsr", "Worksafe Requests", false},
	{"x", "Paranormal", false},
	{"xs", "Extreme Sports", false},
}

// Provider is one FoolFuuka archive backend.
type Provider struct {
	provider.Unsupported

	client    *httpclient.Client
	info      provider.Info
	apiBase   string
	imageBase string
	// imagePath and thumbPath are path templates under imageBase,
	// formatted with (board, tim, ext) and (board, tim) respectively
	imagePath string
	thumbPath string
	boards    []board.Board
}

// Option configures the provider, primarily for tests.
type Option func(*Provider)

// WithAPIBase overrides the FoolFuuka API base URL.
func WithAPIBase(u string) Option { return func(p *Provider) { p.apiBase = u } }

// WithImageBase overrides the media base URL.
func WithImageBase(u string) Option { return func(p *Provider) { p.imageBase = u } }

// NewFourPlebs creates the 4plebs backend. Media is served from the
// 4cdn-style mirror at i.4pcdn.org.
func NewFourPlebs(client *httpclient.Client, opts ...Option) *Provider {
	p := &Provider{
		client: client,
		info: provider.Info{
			ID:        "4plebs",
			Name:      "4plebs",
			ShortName: "4pl",
			BaseURL:   "https://archive.4plebs.org",
			NSFW:      true,
		},
		apiBase:   fourPlebsAPIBase,
		imageBase: fourPlebsImageBase,
		imagePath: "%s/%d%s",
		thumbPath: "%s/%ds.jpg",
		boards:    archiveBoards("4plebs", fourPlebsBoards),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewArchivedMoe creates the archived.moe backend, which serves media
// from the site itself under full_image and thumb paths.
func NewArchivedMoe(client *httpclient.Client, opts ...Option) *Provider {
	p := &Provider{
		client: client,
		info: provider.Info{
			ID:        "archivedmoe",
			Name:      "Archived.moe",
			ShortName: "arc",
			BaseURL:   "https://archived.moe",
			NSFW:      true,
		},
		apiBase:   archivedMoeAPIBase,
		imageBase: archivedMoeImageBase,
		imagePath: "%s/full_image/%d%s",
		thumbPath: "%s/thumb/%ds.jpg",
		boards:    archiveBoards("archived.moe", archivedMoeBoards),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func archiveBoards(site string, known []knownBoard) []board.Board {
	boards := make([]board.Board, 0, len(known))
	for _, b := range known {
		boards = append(boards, board.Board{
			ID:          b.id,
			Name:        b.name,
			Description: fmt.Sprintf("%s archive of /%s/", site, b.id),
			NSFW:        b.nsfw,
			Category:    "Archive",
		})
	}
	return boards
}

// Info returns provider identity metadata.
func (p *Provider) Info() provider.Info {
	return p.info
}

// flexInt decodes a JSON number whether it arrives as a number or a
// string. Unparseable values read as zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}

type wireMedia struct {
	MediaID   flexInt `json:"media_id"`
	MediaOrig string  `json:"media_orig"`
	Filename  string  `json:"media_filename"`
	Size      flexInt `json:"media_size"`
	W         flexInt `json:"media_w"`
	H         flexInt `json:"media_h"`
}

// tim returns the media timestamp id: the numeric stem of the stored
// filename when present, the raw media id otherwise.
func (m *wireMedia) tim() int64 {
	if i := strings.LastIndexByte(m.MediaOrig, '.'); i > 0 {
		if v, err := strconv.ParseInt(m.MediaOrig[:i], 10, 64); err == nil {
			return v
		}
	}
	return int64(m.MediaID)
}

type wirePost struct {
	Num       flexInt    `json:"num"`
	Timestamp flexInt    `json:"timestamp"`
	Name      string     `json:"name"`
	Trip      string     `json:"trip"`
	Title     string     `json:"title"`
	Comment   string     `json:"comment"`
	Sanitized string     `json:"comment_sanitized"`
	Media     *wireMedia `json:"media"`
}

func (w wirePost) toPost(threadID int64) board.Post {
	p := board.Post{
		No:      int64(w.Num),
		Time:    int64(w.Timestamp),
		Name:    w.Name,
		Trip:    w.Trip,
		Subject: w.Title,
		Comment: w.Sanitized,
	}
	if p.Comment == "" {
		p.Comment = w.Comment
	}
	if p.No != threadID {
		p.ReplyTo = threadID
	}
	if w.Media != nil {
		if tim := w.Media.tim(); tim != 0 {
			f := &board.File{
				Tim:    tim,
				Size:   int64(w.Media.Size),
				Width:  int(w.Media.W),
				Height: int(w.Media.H),
			}
			if i := strings.LastIndexByte(w.Media.Filename, '.'); i > 0 {
				f.Filename = w.Media.Filename[:i]
				f.Ext = w.Media.Filename[i:]
			}
			p.File = f
		}
	}
	return p
}

type wireThread struct {
	OP    *wirePost           `json:"op"`
	Posts map[string]wirePost `json:"posts"`
}

// FetchBoards returns the fixed archived board list. Never touches the
// network: FoolFuuka installs have no board list endpoint.
func (p *Provider) FetchBoards(ctx context.Context) []board.Board {
	return p.boards
}

// FetchCatalog returns the first index page of a board, newest threads
// first, or an empty list on any failure.
func (p *Provider) FetchCatalog(ctx context.Context, boardID string) []board.CatalogEntry {
	url := p.apiBase + "/index/?board=" + boardID + "&page=1"
	var idx map[string]map[string]wireThread
	if err := p.client.GetJSON(ctx, url, &idx); err != nil {
		logging.Warn("Archive catalog fetch failed", "backend", p.info.ID, "board", boardID, "error", err)
		return []board.CatalogEntry{}
	}

	entries := []board.CatalogEntry{}
	for numStr, t := range idx[boardID] {
		if t.OP == nil {
			continue
		}
		num, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil || num == 0 {
			continue
		}
		op := t.OP.toPost(num)
		e := board.CatalogEntry{
			No:      num,
			Subject: op.Subject,
			Excerpt: op.Comment,
			Name:    op.Name,
			Trip:    op.Trip,
			Replies: len(t.Posts),
			Time:    op.Time,
		}
		if op.File != nil {
			e.Thumb = &board.File{Tim: op.File.Tim, Ext: op.File.Ext, Filename: op.File.Filename}
		}
		entries = append(entries, e)
	}

	// The index arrives keyed by thread number; order newest first
	sort.Slice(entries, func(i, j int) bool { return entries[i].Time > entries[j].Time })
	return entries
}

// FetchThread returns an archived thread, or a thread with zero posts
// on any failure.
func (p *Provider) FetchThread(ctx context.Context, boardID string, threadID int64) board.Thread {
	num := strconv.FormatInt(threadID, 10)
	url := p.apiBase + "/thread/?board=" + boardID + "&num=" + num
	var resp map[string]wireThread
	if err := p.client.GetJSON(ctx, url, &resp); err != nil {
		logging.Warn("Archive thread fetch failed", "backend", p.info.ID, "board", boardID, "thread", threadID, "error", err)
		return board.Thread{Posts: []board.Post{}}
	}

	t, ok := resp[num]
	if !ok {
		return board.Thread{Posts: []board.Post{}}
	}

	posts := []board.Post{}
	if t.OP != nil {
		if op := t.OP.toPost(threadID); op.No != 0 {
			posts = append(posts, op)
		}
	}
	replies := make([]board.Post, 0, len(t.Posts))
	for _, w := range t.Posts {
		if r := w.toPost(threadID); r.No != 0 {
			replies = append(replies, r)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].No < replies[j].No })
	return board.Thread{Posts: append(posts, replies...)}
}

// ImageURL returns the full-size media URL for an attachment.
func (p *Provider) ImageURL(boardID string, tim int64, ext string) string {
	return p.imageBase + "/" + fmt.Sprintf(p.imagePath, boardID, tim, ext)
}

// ThumbnailURL returns the thumbnail URL for an attachment.
func (p *Provider) ThumbnailURL(boardID string, tim int64) string {
	return p.imageBase + "/" + fmt.Sprintf(p.thumbPath, boardID, tim)
}
