package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chandesk/chandesk/internal/app"
	"github.com/chandesk/chandesk/internal/cache"
	"github.com/chandesk/chandesk/internal/config"
	"github.com/chandesk/chandesk/internal/favorites"
	"github.com/chandesk/chandesk/internal/filters"
	"github.com/chandesk/chandesk/internal/hidden"
	"github.com/chandesk/chandesk/internal/httpclient"
	"github.com/chandesk/chandesk/internal/lastseen"
	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/provider"
	"github.com/chandesk/chandesk/internal/provider/foolfuuka"
	"github.com/chandesk/chandesk/internal/provider/fourchan"
	"github.com/chandesk/chandesk/internal/provider/sevenchan"
	"github.com/chandesk/chandesk/internal/provider/twentytwochan"
	"github.com/chandesk/chandesk/internal/watchlist"
)

// fatal prints to stderr and exits.
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "chandesk: "+format+"\n", args...)
	os.Exit(1)
}

// newClient builds the shared HTTP client from config.
func newClient(cfg *config.Config) *httpclient.Client {
	return httpclient.New(
		httpclient.WithUserAgent(cfg.Network.UserAgent),
		httpclient.WithTimeout(cfg.RequestTimeout()),
		httpclient.WithHostInterval(cfg.PerHostInterval()),
	)
}

// newRegistry registers all known providers against one shared client.
func newRegistry(client *httpclient.Client) *provider.Registry {
	reg := provider.NewRegistry()
	reg.Register("4chan", func() provider.Provider { return fourchan.New(client) })
	reg.Register("7chan", func() provider.Provider { return sevenchan.New(client) })
	reg.Register("22chan", func() provider.Provider { return twentytwochan.New(client) })
	reg.Register("4plebs", func() provider.Provider { return foolfuuka.NewFourPlebs(client) })
	reg.Register("archivedmoe", func() provider.Provider { return foolfuuka.NewArchivedMoe(client) })
	return reg
}

// buildApp assembles the application or fatals. The returned func
// releases the cache and log file.
func buildApp() (*app.App, func()) {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	if err := logging.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}

	dir := cfg.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		fatal("failed to create data directory: %v", err)
	}

	c, err := cache.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		fatal("failed to open thread cache: %v", err)
	}

	a := app.New(cfg, newRegistry(newClient(cfg)),
		filters.NewStore(filepath.Join(dir, "filters.json")),
		hidden.NewLedger(filepath.Join(dir, "hidden.json")),
		lastseen.NewTracker(filepath.Join(dir, "lastseen.json")),
		watchlist.New(filepath.Join(dir, "watchlist.json")),
		favorites.NewList(filepath.Join(dir, "favorites.json")),
		c)

	return a, func() {
		c.Close()
		logging.Close()
	}
}

// truncate shortens s to n runes for single-line table output.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
