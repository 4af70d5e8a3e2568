package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

const cacheUsage = `usage: chandesk cache <action>

Actions:
  stats      Show cache contents summary
  cleanup    Prune by age then by size (defaults from config)
  clear      Delete every cached thread
`

func runCache() {
	if len(os.Args) < 2 {
		fmt.Print(cacheUsage)
		os.Exit(1)
	}
	action := os.Args[1]
	os.Args = os.Args[1:]

	switch action {
	case "stats":
		runCacheStats()
	case "cleanup":
		runCacheCleanup()
	case "clear":
		runCacheClear()
	default:
		fmt.Fprintf(os.Stderr, "chandesk cache: unknown action %q\n\n", action)
		fmt.Print(cacheUsage)
		os.Exit(1)
	}
}

func runCacheStats() {
	a, done := buildApp()
	defer done()

	s, err := a.Cache.Stats()
	if err != nil {
		fatal("failed to read cache stats: %v", err)
	}

	fmt.Printf("Threads:  %d\n", s.ThreadCount)
	fmt.Printf("Posts:    %d\n", s.PostCount)
	fmt.Printf("Size:     %s\n", humanize.Bytes(uint64(s.SizeBytes)))
	if s.ThreadCount > 0 {
		fmt.Printf("Oldest:   %s\n", humanize.Time(time.Unix(s.OldestTs, 0)))
		fmt.Printf("Newest:   %s\n", humanize.Time(time.Unix(s.NewestTs, 0)))
	}
}

func runCacheCleanup() {
	fs := flag.NewFlagSet("cache cleanup", flag.ExitOnError)
	maxAgeDays := fs.Int("max-age-days", 0, "Delete entries older than this (0 = config default)")
	maxSizeMB := fs.Int("max-size-mb", 0, "Shrink the cache below this (0 = config default)")
	fs.Parse(os.Args[1:])

	a, done := buildApp()
	defer done()

	// Without overrides this is the full maintenance pass, which also
	// expires stale last-seen watermarks
	if *maxAgeDays == 0 && *maxSizeMB == 0 {
		s, err := a.CleanupStores()
		if err != nil {
			fatal("cleanup failed: %v", err)
		}
		fmt.Printf("Deleted %d by age (>%dd), %d by size (>%dMB), dropped %d watermarks\n",
			s.Cache.DeletedByAge, a.Config.Cache.MaxAgeDays,
			s.Cache.DeletedBySize, a.Config.Cache.MaxSizeMB,
			s.WatermarksDropped)
		return
	}

	age := *maxAgeDays
	if age == 0 {
		age = a.Config.Cache.MaxAgeDays
	}
	size := *maxSizeMB
	if size == 0 {
		size = a.Config.Cache.MaxSizeMB
	}

	res, err := a.Cache.Cleanup(age, size)
	if err != nil {
		fatal("cleanup failed: %v", err)
	}
	fmt.Printf("Deleted %d by age (>%dd), %d by size (>%dMB)\n",
		res.DeletedByAge, age, res.DeletedBySize, size)
}

func runCacheClear() {
	a, done := buildApp()
	defer done()

	s, _ := a.Cache.Stats()
	if err := a.Cache.Clear(); err != nil {
		fatal("clear failed: %v", err)
	}
	fmt.Printf("Deleted %d cached threads (%s)\n", s.ThreadCount, humanize.Bytes(uint64(s.SizeBytes)))
}
