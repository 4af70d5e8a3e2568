package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/chandesk/chandesk/internal/app"
)

func runThread() {
	fs := flag.NewFlagSet("thread", flag.ExitOnError)
	providerID := fs.String("p", "4chan", "Provider id")
	refresh := fs.Bool("refresh", false, "Bypass the cache and refetch")
	showAll := fs.Bool("all", false, "Include hidden and filtered posts")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 2 {
		fatal("usage: chandesk thread [-p provider] [-refresh] [-all] <board> <id>")
	}
	boardID := fs.Arg(0)
	threadID, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		fatal("invalid thread id %q", fs.Arg(1))
	}

	a, done := buildApp()
	defer done()

	res, err := a.LoadThread(context.Background(), *providerID, boardID, threadID,
		app.ThreadOptions{ForceRefresh: *refresh})
	if err != nil {
		fatal("%v", err)
	}
	if len(res.Thread.Posts) == 0 {
		fmt.Println("Thread not found or empty")
		return
	}

	var views []app.PostView
	if *showAll {
		views = a.AnnotatePosts(res.Thread, boardID)
	} else {
		views = a.VisiblePosts(res.Thread, boardID)
	}

	for _, v := range views {
		header := fmt.Sprintf("No.%d", v.No)
		if v.Name != "" {
			header = v.Name + " " + header
		}
		if v.Trip != "" {
			header += " " + v.Trip
		}
		if v.Time > 0 {
			header += " " + time.Unix(v.Time, 0).Format("2006-01-02 15:04")
		}
		if v.New {
			header += " [new]"
		}
		if v.Hidden {
			header += " [hidden]"
		}
		if v.Filtered != nil {
			header += fmt.Sprintf(" [filtered: %s %q]", v.Filtered.Type, v.Filtered.Value)
		}

		fmt.Println(header)
		if v.Subject != "" {
			fmt.Printf("  %s\n", v.Subject)
		}
		if v.File != nil {
			fmt.Printf("  <%s>\n", v.File.Filename)
		}
		if v.Comment != "" {
			fmt.Printf("  %s\n", v.Comment)
		}
		fmt.Println()
	}

	provenance := "fetched"
	if res.FromCache {
		provenance = "cached"
		if res.Stale {
			provenance = "cached (stale)"
		}
	}
	fmt.Printf("%d posts shown of %d, %s\n", len(views), len(res.Thread.Posts), provenance)

	a.MarkSeen(res.Thread)
}
