package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

const hideUsage = `usage: chandesk hide <action>

Actions:
  thread <board> <id>    Hide a thread
  post <board> <no>      Hide a single post
  rm-thread <board> <id> Unhide a thread
  rm-post <board> <no>   Unhide a post
  ls                     Show hide counts
  clear                  Remove every hide
`

func runHide() {
	if len(os.Args) < 2 {
		fmt.Print(hideUsage)
		os.Exit(1)
	}
	action := os.Args[1]
	os.Args = os.Args[1:]

	switch action {
	case "thread", "post", "rm-thread", "rm-post":
		runHideMutate(action)
	case "ls":
		runHideLs()
	case "clear":
		runHideClear()
	default:
		fmt.Fprintf(os.Stderr, "chandesk hide: unknown action %q\n\n", action)
		fmt.Print(hideUsage)
		os.Exit(1)
	}
}

func runHideMutate(action string) {
	fs := flag.NewFlagSet("hide "+action, flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 2 {
		fatal("usage: chandesk hide %s <board> <id>", action)
	}
	boardID := fs.Arg(0)
	id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		fatal("invalid id %q", fs.Arg(1))
	}

	a, done := buildApp()
	defer done()

	switch action {
	case "thread":
		a.Hidden.HideThread(boardID, id)
		fmt.Printf("Hid thread %s:%d\n", boardID, id)
	case "post":
		a.Hidden.HidePost(boardID, id)
		fmt.Printf("Hid post %s:%d\n", boardID, id)
	case "rm-thread":
		a.Hidden.UnhideThread(boardID, id)
		fmt.Printf("Unhid thread %s:%d\n", boardID, id)
	case "rm-post":
		a.Hidden.UnhidePost(boardID, id)
		fmt.Printf("Unhid post %s:%d\n", boardID, id)
	}
}

func runHideLs() {
	a, done := buildApp()
	defer done()

	threads, posts := a.Hidden.Counts()
	fmt.Printf("Hidden: %d threads, %d posts\n", threads, posts)
}

func runHideClear() {
	a, done := buildApp()
	defer done()

	threads, posts := a.Hidden.Counts()
	a.Hidden.Clear()
	fmt.Printf("Cleared %d thread hides and %d post hides\n", threads, posts)
}
