package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/chandesk/chandesk/internal/watchlist"
)

const watchUsage = `usage: chandesk watch <action>

Actions:
  add [-p provider] <board> <id>   Watch a thread
  rm <id>                          Stop watching a thread
  ls                               List watched threads
  refresh                          Refetch all watched threads
  read <id>                        Clear a thread's new-replies flag
`

func runWatch() {
	if len(os.Args) < 2 {
		fmt.Print(watchUsage)
		os.Exit(1)
	}
	action := os.Args[1]
	os.Args = os.Args[1:]

	switch action {
	case "add":
		runWatchAdd()
	case "rm":
		runWatchRm()
	case "ls":
		runWatchLs()
	case "refresh":
		runWatchRefresh()
	case "read":
		runWatchRead()
	default:
		fmt.Fprintf(os.Stderr, "chandesk watch: unknown action %q\n\n", action)
		fmt.Print(watchUsage)
		os.Exit(1)
	}
}

func runWatchAdd() {
	fs := flag.NewFlagSet("watch add", flag.ExitOnError)
	providerID := fs.String("p", "4chan", "Provider id")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 2 {
		fatal("usage: chandesk watch add [-p provider] <board> <id>")
	}
	boardID := fs.Arg(0)
	threadID, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		fatal("invalid thread id %q", fs.Arg(1))
	}

	a, done := buildApp()
	defer done()

	p, ok := a.Providers.Get(*providerID)
	if !ok {
		fatal("unknown provider %q", *providerID)
	}

	// Fetch once for the title and the initial reply count
	t := p.FetchThread(context.Background(), boardID, threadID)
	title := ""
	replies := 0
	if op := t.OP(); op != nil {
		title = op.Subject
		if title == "" {
			title = truncate(op.Comment, 60)
		}
		replies = t.ReplyCount()
	}

	a.Watchlist.Watch(watchlist.Thread{
		ID:             threadID,
		Board:          boardID,
		Provider:       *providerID,
		Title:          title,
		LastReplyCount: replies,
	})
	fmt.Printf("Watching %s /%s/ %d", *providerID, boardID, threadID)
	if title != "" {
		fmt.Printf(" (%s)", title)
	}
	fmt.Println()
}

func runWatchRm() {
	fs := flag.NewFlagSet("watch rm", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk watch rm <id>")
	}
	threadID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		fatal("invalid thread id %q", fs.Arg(0))
	}

	a, done := buildApp()
	defer done()

	a.Watchlist.Unwatch(threadID)
	fmt.Printf("Unwatched %d\n", threadID)
}

func runWatchLs() {
	a, done := buildApp()
	defer done()

	watched := a.Watchlist.All()
	if len(watched) == 0 {
		fmt.Println("Watchlist is empty")
		return
	}

	for _, w := range watched {
		badge := " "
		if w.HasNewReplies {
			badge = "*"
		}
		checked := "never"
		if w.LastChecked > 0 {
			checked = humanize.Time(time.Unix(w.LastChecked, 0))
		}
		fmt.Printf("%s %10d  %-7s /%s/ %4dR  checked %-14s %s\n",
			badge, w.ID, w.Provider, w.Board, w.LastReplyCount, checked, truncate(w.Title, 50))
	}
	fmt.Printf("\n%d watched (* = new replies)\n", len(watched))
}

func runWatchRefresh() {
	a, done := buildApp()
	defer done()

	n := len(a.Watchlist.All())
	if n == 0 {
		fmt.Println("Watchlist is empty")
		return
	}

	flagged := a.RefreshWatchlist(context.Background())
	fmt.Printf("Refreshed %d threads, %d with new replies\n", n, flagged)
}

func runWatchRead() {
	fs := flag.NewFlagSet("watch read", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk watch read <id>")
	}
	threadID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		fatal("invalid thread id %q", fs.Arg(0))
	}

	a, done := buildApp()
	defer done()

	a.Watchlist.MarkRead(threadID)
	fmt.Printf("Marked %d read\n", threadID)
}
