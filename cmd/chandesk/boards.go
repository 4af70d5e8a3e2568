package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
)

func runBoards() {
	fs := flag.NewFlagSet("boards", flag.ExitOnError)
	providerID := fs.String("p", "4chan", "Provider id")
	fs.Parse(os.Args[1:])

	a, done := buildApp()
	defer done()

	p, ok := a.Providers.Get(*providerID)
	if !ok {
		fatal("unknown provider %q (known: %v)", *providerID, a.Providers.IDs())
	}

	boards := p.FetchBoards(context.Background())
	if len(boards) == 0 {
		fmt.Println("No boards (provider unreachable?)")
		return
	}

	byCategory := map[string][]int{}
	for i, b := range boards {
		byCategory[b.Category] = append(byCategory[b.Category], i)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		fmt.Printf("%s\n", c)
		for _, i := range byCategory[c] {
			b := boards[i]
			star := " "
			if a.Favorites.Contains(b.ID) {
				star = "*"
			}
			nsfw := ""
			if b.NSFW {
				nsfw = " [nsfw]"
			}
			fmt.Printf(" %s/%s/ %s%s\n", star, b.ID, b.Name, nsfw)
		}
	}
	fmt.Printf("\n%d boards (* = favorite)\n", len(boards))
}
