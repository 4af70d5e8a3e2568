package main

import (
	"flag"
	"fmt"
	"os"
)

const favUsage = `usage: chandesk fav <action>

Actions:
  ls                  List favorite boards in display order
  add <board>         Add a board to the favorites
  rm <board>          Remove a board from the favorites
  reorder <b> [b...]  Replace the favorites with the given order
`

func runFav() {
	if len(os.Args) < 2 {
		fmt.Print(favUsage)
		os.Exit(1)
	}
	action := os.Args[1]
	os.Args = os.Args[1:]

	switch action {
	case "ls":
		runFavLs()
	case "add":
		runFavAdd()
	case "rm":
		runFavRm()
	case "reorder":
		runFavReorder()
	default:
		fmt.Fprintf(os.Stderr, "chandesk fav: unknown action %q\n\n", action)
		fmt.Print(favUsage)
		os.Exit(1)
	}
}

func runFavLs() {
	a, done := buildApp()
	defer done()

	favs := a.Favorites.All()
	if len(favs) == 0 {
		fmt.Println("No favorite boards")
		return
	}
	for _, b := range favs {
		fmt.Printf("/%s/\n", b)
	}
}

func runFavAdd() {
	fs := flag.NewFlagSet("fav add", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk fav add <board>")
	}

	a, done := buildApp()
	defer done()

	a.Favorites.Add(fs.Arg(0))
	fmt.Printf("Added /%s/ to favorites\n", fs.Arg(0))
}

func runFavRm() {
	fs := flag.NewFlagSet("fav rm", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk fav rm <board>")
	}

	a, done := buildApp()
	defer done()

	a.Favorites.Remove(fs.Arg(0))
	fmt.Printf("Removed /%s/ from favorites\n", fs.Arg(0))
}

func runFavReorder() {
	fs := flag.NewFlagSet("fav reorder", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk fav reorder <board> [board...]")
	}

	a, done := buildApp()
	defer done()

	a.Favorites.Reorder(fs.Args())
	fmt.Printf("Favorites: %v\n", a.Favorites.All())
}
