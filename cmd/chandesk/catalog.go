package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func runCatalog() {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	providerID := fs.String("p", "4chan", "Provider id")
	showAll := fs.Bool("all", false, "Include hidden and filtered threads")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk catalog [-p provider] [-all] <board>")
	}
	boardID := fs.Arg(0)

	a, done := buildApp()
	defer done()

	items, err := a.LoadCatalog(context.Background(), *providerID, boardID)
	if err != nil {
		fatal("%v", err)
	}
	if len(items) == 0 {
		fmt.Println("Empty catalog (provider unreachable?)")
		return
	}

	shown, suppressed := 0, 0
	for _, item := range items {
		if (item.Hidden || item.Filtered != nil) && !*showAll {
			suppressed++
			continue
		}
		shown++

		badges := ""
		if item.NewReplies {
			badges += " [new]"
		}
		if item.Sticky {
			badges += " [sticky]"
		}
		if item.Closed {
			badges += " [closed]"
		}
		if item.Hidden {
			badges += " [hidden]"
		}
		if item.Filtered != nil {
			badges += fmt.Sprintf(" [filtered: %s %q]", item.Filtered.Type, item.Filtered.Value)
		}

		title := item.Subject
		if title == "" {
			title = item.Excerpt
		}
		fmt.Printf("%10d  %4dR %3dI  %s%s\n", item.No, item.Replies, item.Images, truncate(title, 70), badges)
	}

	fmt.Printf("\n%d threads", shown)
	if suppressed > 0 {
		fmt.Printf(" (%d hidden or filtered, use -all to show)", suppressed)
	}
	fmt.Println()
}
