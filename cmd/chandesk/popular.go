package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chandesk/chandesk/internal/provider/fourchan"
)

func runPopular() {
	fs := flag.NewFlagSet("popular", flag.ExitOnError)
	perBoard := fs.Int("n", 2, "Threads sampled per board")
	fs.Parse(os.Args[1:])

	a, done := buildApp()
	defer done()

	// Popular sampling is a 4chan feature, so the concrete type is used
	// rather than the provider interface
	p, _ := a.Providers.Get("4chan")
	fc, ok := p.(*fourchan.Provider)
	if !ok {
		fatal("4chan provider unavailable")
	}

	threads := fc.FetchPopular(context.Background(), *perBoard)
	if len(threads) == 0 {
		fmt.Println("No popular threads (provider unreachable?)")
		return
	}

	for _, t := range threads {
		title := t.Entry.Subject
		if title == "" {
			title = t.Entry.Excerpt
		}
		fmt.Printf("/%s/ %10d  %4dR  %s\n", t.Board, t.Entry.No, t.Entry.Replies, truncate(title, 65))
	}
}
