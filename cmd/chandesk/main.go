// Command chandesk is the CLI for browsing imageboards through the
// shared core: providers, filters, watchlist and thread cache.
//
// Usage:
//
//	chandesk boards              List boards on a provider
//	chandesk catalog <board>     Show a board catalog
//	chandesk thread <board> <id> Show a thread
//	chandesk popular             Cross-board popular threads (4chan)
//	chandesk watch ...           Manage the watchlist
//	chandesk filter ...          Manage filter rules
//	chandesk fav ...             Manage favorite boards
//	chandesk cache ...           Inspect and prune the thread cache
//	chandesk post <board>        Submit a reply (providers that allow it)
//	chandesk pass <token>        Validate a 4chan pass token
package main

import (
	"fmt"
	"os"
)

const usage = `chandesk — imageboard client CLI

Usage:
  chandesk <command> [flags]

Commands:
  boards      List boards on a provider
  catalog     Show a board catalog with local annotations
  thread      Show a thread (marks it seen)
  popular     Cross-board popular threads (4chan)
  watch       Watchlist: add, rm, ls, refresh, read
  filter      Filter rules: ls, add, rm, toggle, import, export, clear
  fav         Favorite boards: ls, add, rm, reorder
  hide        Manual hides: thread, post, rm-thread, rm-post, ls, clear
  cache       Thread cache: stats, cleanup, clear
  post        Submit a reply on providers that support posting
  pass        Validate a 4chan pass token

Most commands take -p <provider> (default 4chan). Registered providers:
4chan, 7chan, 22chan, 4plebs, archivedmoe.

Run 'chandesk <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "boards":
		runBoards()
	case "catalog":
		runCatalog()
	case "thread":
		runThread()
	case "popular":
		runPopular()
	case "watch":
		runWatch()
	case "filter":
		runFilter()
	case "fav":
		runFav()
	case "hide":
		runHide()
	case "cache":
		runCache()
	case "post":
		runPost()
	case "pass":
		runPass()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "chandesk: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
