// Package provider defines the uniform capability surface implemented
// once per remote imageboard backend, plus the registry the app resolves
// providers through.
//
// Failure policy: implementations catch upstream fetch failures at this
// boundary and return empty results (empty board list, empty catalog,
// thread with zero posts) instead of errors. Callers treat "empty" as a
// valid signal of unavailability; they cannot distinguish it from a
// genuinely empty upstream, and that is the accepted cost of keeping
// per-provider error handling out of every call site.
package provider

import (
	"context"
	"errors"

	"github.com/chandesk/chandesk/internal/board"
)

// ErrPostingUnsupported is returned by SubmitPost on providers that are
// read-only. Callers can check SupportsPosting before offering the
// action, but the method contract is explicit either way.
var ErrPostingUnsupported = errors.New("provider does not support posting")

// Info is static provider identity and capability metadata.
type Info struct {
	ID        string
	Name      string
	ShortName string
	BaseURL   string
	NSFW      bool
}

// PostRequest is a post submission.
type PostRequest struct {
	Board string
	// ReplyTo is the thread id for replies, 0 for a new thread
	ReplyTo int64
	Name    string
	Email   string
	Subject string
	Comment string
	// FilePath optionally attaches a local file
	FilePath string
	FileName string
	// PassToken authenticates a paid pass, skipping captcha
	PassToken string
}

// PostResult is the structured outcome of a submission. Unlike fetches,
// posting surfaces errors: the user needs success feedback.
type PostResult struct {
	Success  bool
	ThreadID int64
	PostID   int64
	Error    string
}

// Provider is the uniform interface over heterogeneous imageboard
// backends. Fetch methods never return an error; see the package
// documentation for the degrade-to-empty policy.
type Provider interface {
	Info() Info

	FetchBoards(ctx context.Context) []board.Board
	FetchCatalog(ctx context.Context, boardID string) []board.CatalogEntry
	FetchThread(ctx context.Context, boardID string, threadID int64) board.Thread

	ImageURL(boardID string, tim int64, ext string) string
	ThumbnailURL(boardID string, tim int64) string

	// SupportsPosting reports whether SubmitPost can succeed at all.
	SupportsPosting() bool
	// SubmitPost submits a post, or ErrPostingUnsupported.
	SubmitPost(ctx context.Context, req PostRequest) (PostResult, error)
}

// Unsupported is embeddable by read-only providers to satisfy the
// posting half of the interface.
type Unsupported struct{}

// SupportsPosting always reports false.
func (Unsupported) SupportsPosting() bool { return false }

// SubmitPost always fails with ErrPostingUnsupported.
func (Unsupported) SubmitPost(context.Context, PostRequest) (PostResult, error) {
	return PostResult{}, ErrPostingUnsupported
}
