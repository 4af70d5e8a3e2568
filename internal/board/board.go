// Package board defines the normalized data model shared by all
// imageboard providers: boards, catalog entries, threads and posts.
//
// The remote imageboard is the source of truth for everything here; the
// client only ever holds read-only, possibly-stale copies. Local
// annotations (hidden, filtered, new) live in their own packages and are
// computed per view, never written back into these types.
package board

import "time"

// Board is immutable reference data for a single board on a provider.
type Board struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	NSFW        bool   `json:"nsfw"`
	Category    string `json:"category,omitempty"`
}

// File describes a post's attached media.
type File struct {
	// Tim is the upload timestamp id the server keys media by
	Tim      int64  `json:"tim"`
	Ext      string `json:"ext"`
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"fsize,omitempty"`
	Width    int    `json:"w,omitempty"`
	Height   int    `json:"h,omitempty"`
}

// CatalogEntry is a thread summary from a board catalog. Entries are
// ephemeral: each catalog fetch fully replaces the previous one.
type CatalogEntry struct {
	No           int64  `json:"no"`
	Subject      string `json:"sub,omitempty"`
	Excerpt      string `json:"com,omitempty"`
	Name         string `json:"name,omitempty"`
	Trip         string `json:"trip,omitempty"`
	Replies      int    `json:"replies"`
	Images       int    `json:"images"`
	Time         int64  `json:"time"`
	LastModified int64  `json:"last_modified,omitempty"`
	Sticky       bool   `json:"sticky,omitempty"`
	Closed       bool   `json:"closed,omitempty"`
	BumpLimit    bool   `json:"bumplimit,omitempty"`
	ImageLimit   bool   `json:"imagelimit,omitempty"`
	Thumb        *File  `json:"thumb,omitempty"`
}

// Post is a single post within a thread. Posts are immutable upstream;
// the client never mutates remote content.
type Post struct {
	No int64 `json:"no"`
	// ReplyTo is 0 for the opening post, otherwise the thread id.
	// Quote links may reference posts outside the thread; those dangling
	// references are tolerated, not resolved.
	ReplyTo int64  `json:"resto"`
	Time    int64  `json:"time"`
	Name    string `json:"name,omitempty"`
	Trip    string `json:"trip,omitempty"`
	Capcode string `json:"capcode,omitempty"`
	Country string `json:"country,omitempty"`
	Subject string `json:"sub,omitempty"`
	Comment string `json:"com,omitempty"`
	File    *File  `json:"file,omitempty"`
}

// Created returns the post creation time.
func (p Post) Created() time.Time {
	return time.Unix(p.Time, 0)
}

// IsOP reports whether the post opened its thread.
func (p Post) IsOP() bool {
	return p.ReplyTo == 0
}

// Thread is an opening post plus its ordered replies. Posts[0] is always
// the opening post when the thread is non-empty.
type Thread struct {
	Posts []Post `json:"posts"`
}

// OP returns the opening post, or nil for an empty thread.
func (t Thread) OP() *Post {
	if len(t.Posts) == 0 {
		return nil
	}
	return &t.Posts[0]
}

// ID returns the thread id (the opening post number), or 0 when empty.
func (t Thread) ID() int64 {
	if op := t.OP(); op != nil {
		return op.No
	}
	return 0
}

// ReplyCount returns the number of posts excluding the opening post.
func (t Thread) ReplyCount() int {
	if len(t.Posts) == 0 {
		return 0
	}
	return len(t.Posts) - 1
}

// ImageCount returns the number of posts carrying an attachment.
func (t Thread) ImageCount() int {
	n := 0
	for i := range t.Posts {
		if t.Posts[i].File != nil {
			n++
		}
	}
	return n
}

// LastPostNo returns the highest post number in the thread, or 0.
// Posts arrive ordered but a max scan keeps this robust against
// providers that interleave stickied or repaired posts.
func (t Thread) LastPostNo() int64 {
	var max int64
	for i := range t.Posts {
		if t.Posts[i].No > max {
			max = t.Posts[i].No
		}
	}
	return max
}
