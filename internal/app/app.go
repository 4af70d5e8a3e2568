// Package app wires the stores and providers together and implements
// the read-path orchestration: cache-aware thread loads, annotated
// catalog views and watchlist refresh.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chandesk/chandesk/internal/board"
	"github.com/chandesk/chandesk/internal/cache"
	"github.com/chandesk/chandesk/internal/config"
	"github.com/chandesk/chandesk/internal/favorites"
	"github.com/chandesk/chandesk/internal/filters"
	"github.com/chandesk/chandesk/internal/hidden"
	"github.com/chandesk/chandesk/internal/lastseen"
	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/provider"
	"github.com/chandesk/chandesk/internal/watchlist"
)

// refreshConcurrency bounds provider fan-out during watchlist refresh.
const refreshConcurrency = 4

// App holds the injected stores and the provider registry. It owns no
// global state; every dependency arrives through New.
type App struct {
	Config    *config.Config
	Providers *provider.Registry
	Filters   *filters.Store
	Hidden    *hidden.Ledger
	LastSeen  *lastseen.Tracker
	Watchlist *watchlist.Watchlist
	Favorites *favorites.List
	Cache     *cache.Cache
}

// New assembles an App from its dependencies.
func New(cfg *config.Config, reg *provider.Registry, f *filters.Store, h *hidden.Ledger,
	ls *lastseen.Tracker, wl *watchlist.Watchlist, fav *favorites.List, c *cache.Cache) *App {
	return &App{
		Config:    cfg,
		Providers: reg,
		Filters:   f,
		Hidden:    h,
		LastSeen:  ls,
		Watchlist: wl,
		Favorites: fav,
		Cache:     c,
	}
}

// ThreadOptions tunes LoadThread behavior.
type ThreadOptions struct {
	// ForceRefresh bypasses the freshness check and always refetches.
	ForceRefresh bool
	// StaleWhileRevalidate serves a stale snapshot immediately and
	// refreshes the cache in the background.
	StaleWhileRevalidate bool
}

// ThreadResult is a loaded thread plus its provenance.
type ThreadResult struct {
	Thread board.Thread
	// FromCache reports whether the snapshot came from the local cache.
	FromCache bool
	// Stale is set when a cached snapshot past its freshness window was
	// served, either deliberately or as a fallback after a failed fetch.
	Stale bool
}

// LoadThread loads a thread, preferring a fresh cached snapshot. A
// stale snapshot is served directly under StaleWhileRevalidate (with a
// background refresh), and as a fallback when the upstream fetch yields
// nothing. Cache write failures are logged, never surfaced: returning
// fetched data always wins.
func (a *App) LoadThread(ctx context.Context, providerID, boardID string, threadID int64, opts ThreadOptions) (ThreadResult, error) {
	p, ok := a.Providers.Get(providerID)
	if !ok {
		return ThreadResult{}, fmt.Errorf("unknown provider %q", providerID)
	}

	key := cache.Key{Provider: providerID, Board: boardID, ThreadID: threadID}
	freshFor := time.Duration(a.Config.Cache.FreshSecs) * time.Second

	if !opts.ForceRefresh {
		fresh, err := a.Cache.IsFresh(key, freshFor)
		if err != nil {
			logging.Warn("Cache freshness check failed", "key", key, "error", err)
		}
		if fresh {
			if t, ok, err := a.Cache.Get(key); err == nil && ok {
				return ThreadResult{Thread: t, FromCache: true}, nil
			}
		}

		if opts.StaleWhileRevalidate {
			if t, ok, err := a.Cache.Get(key); err == nil && ok {
				go a.refreshThread(context.WithoutCancel(ctx), p, key)
				return ThreadResult{Thread: t, FromCache: true, Stale: true}, nil
			}
		}
	}

	fetched := p.FetchThread(ctx, boardID, threadID)
	if len(fetched.Posts) == 0 {
		// Upstream gave nothing; any snapshot beats an empty view
		if t, ok, err := a.Cache.Get(key); err == nil && ok {
			return ThreadResult{Thread: t, FromCache: true, Stale: true}, nil
		}
		return ThreadResult{Thread: fetched}, nil
	}

	if err := a.Cache.Put(key, fetched); err != nil {
		logging.Warn("Cache write failed", "key", key, "error", err)
	}
	return ThreadResult{Thread: fetched}, nil
}

func (a *App) refreshThread(ctx context.Context, p provider.Provider, key cache.Key) {
	t := p.FetchThread(ctx, key.Board, key.ThreadID)
	if len(t.Posts) == 0 {
		return
	}
	if err := a.Cache.Put(key, t); err != nil {
		logging.Warn("Background cache refresh failed", "key", key, "error", err)
	}
}

// MarkSeen advances the last-seen watermark to the thread's newest post.
// Callers invoke it once the thread has actually been shown.
func (a *App) MarkSeen(t board.Thread) {
	if n := t.LastPostNo(); n > 0 {
		a.LastSeen.RecordSeen(t.ID(), n)
	}
}

// CatalogItem is a catalog entry plus its local annotations.
type CatalogItem struct {
	board.CatalogEntry
	// Hidden is set for threads in the manual hide ledger.
	Hidden bool
	// Filtered names the first filter rule the entry matched, if any.
	Filtered *filters.Rule
	// NewReplies is set when the thread changed upstream after the user
	// last saw it. False without a baseline.
	NewReplies bool
}

// LoadCatalog fetches a board catalog and annotates each entry against
// the hide ledger, the filter rules and the last-seen tracker.
func (a *App) LoadCatalog(ctx context.Context, providerID, boardID string) ([]CatalogItem, error) {
	p, ok := a.Providers.Get(providerID)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", providerID)
	}

	entries := p.FetchCatalog(ctx, boardID)
	rules := a.Filters.Rules()

	items := make([]CatalogItem, 0, len(entries))
	for _, e := range entries {
		item := CatalogItem{
			CatalogEntry: e,
			Hidden:       a.Hidden.IsThreadHidden(boardID, e.No),
			Filtered: filters.Evaluate(filters.Fields{
				Comment: e.Excerpt,
				Subject: e.Subject,
				Name:    e.Name,
				Trip:    e.Trip,
			}, rules, boardID),
		}
		// Catalogs carry no post numbers, so "new" falls back to the
		// upstream modification time against the watermark's own age
		if e.LastModified > 0 {
			item.NewReplies = a.LastSeen.ModifiedSince(e.No, e.LastModified)
		}
		items = append(items, item)
	}
	return items, nil
}

// PostView is a post plus its local annotations.
type PostView struct {
	board.Post
	// Hidden is set for posts in the manual hide ledger.
	Hidden bool
	// Filtered names the first filter rule the post matched, if any.
	Filtered *filters.Rule
	// New is set for posts above the thread's last-seen watermark.
	New bool
}

// AnnotatePosts computes per-post annotations for a thread view. When
// the opening post matches a hide-entire-thread rule, every post in the
// thread carries that rule.
func (a *App) AnnotatePosts(t board.Thread, boardID string) []PostView {
	rules := a.Filters.Rules()
	threadID := t.ID()

	var threadRule *filters.Rule
	if op := t.OP(); op != nil {
		if r := evaluatePost(*op, rules, boardID); r != nil && r.HideThread {
			threadRule = r
		}
	}

	views := make([]PostView, 0, len(t.Posts))
	for _, p := range t.Posts {
		v := PostView{
			Post:   p,
			Hidden: a.Hidden.IsPostHidden(boardID, p.No),
			New:    a.LastSeen.IsNew(threadID, p.No),
		}
		if threadRule != nil {
			v.Filtered = threadRule
		} else {
			v.Filtered = evaluatePost(p, rules, boardID)
		}
		views = append(views, v)
	}
	return views
}

// VisiblePosts returns the posts of a thread that survive hiding and
// filtering, still annotated so callers can badge new arrivals.
func (a *App) VisiblePosts(t board.Thread, boardID string) []PostView {
	views := a.AnnotatePosts(t, boardID)
	visible := views[:0]
	for _, v := range views {
		if v.Hidden || v.Filtered != nil {
			continue
		}
		visible = append(visible, v)
	}
	return visible
}

func evaluatePost(p board.Post, rules []filters.Rule, boardID string) *filters.Rule {
	return filters.Evaluate(filters.Fields{
		Comment: p.Comment,
		Subject: p.Subject,
		Name:    p.Name,
		Trip:    p.Trip,
	}, rules, boardID)
}

// RefreshWatchlist refetches every watched thread concurrently and
// feeds the observed reply counts into the watchlist. Fetch failures
// leave the thread's status untouched. Returns the number of watched
// threads flagged with new replies afterwards.
func (a *App) RefreshWatchlist(ctx context.Context) int {
	watched := a.Watchlist.All()
	counts := make([]int, len(watched))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for i, w := range watched {
		i, w := i, w
		g.Go(func() error {
			p, ok := a.Providers.Get(w.Provider)
			if !ok {
				logging.Warn("Watched thread references unknown provider", "provider", w.Provider, "thread", w.ID)
				counts[i] = -1
				return nil
			}
			t := p.FetchThread(ctx, w.Board, w.ID)
			if len(t.Posts) == 0 {
				counts[i] = -1
				return nil
			}
			counts[i] = t.ReplyCount()
			return nil
		})
	}
	g.Wait()

	// The store is not concurrency-safe, so updates apply serially
	for i, w := range watched {
		if counts[i] >= 0 {
			a.Watchlist.UpdateStatus(w.ID, counts[i])
		}
	}

	flagged := 0
	for _, w := range a.Watchlist.All() {
		if w.HasNewReplies {
			flagged++
		}
	}
	return flagged
}

// CleanupSummary reports what a maintenance pass removed.
type CleanupSummary struct {
	WatermarksDropped int
	Cache             cache.CleanupResult
}

// CleanupStores runs the periodic maintenance pass: last-seen retention
// and cache policy cleanup using the configured limits.
func (a *App) CleanupStores() (CleanupSummary, error) {
	var s CleanupSummary
	s.WatermarksDropped = a.LastSeen.Cleanup()

	res, err := a.Cache.Cleanup(a.Config.Cache.MaxAgeDays, a.Config.Cache.MaxSizeMB)
	if err != nil {
		return s, fmt.Errorf("cache cleanup: %w", err)
	}
	s.Cache = res

	logging.Info("Store cleanup finished",
		"watermarks_dropped", s.WatermarksDropped,
		"cache_deleted_by_age", res.DeletedByAge,
		"cache_deleted_by_size", res.DeletedBySize)
	return s, nil
}
