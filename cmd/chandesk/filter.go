package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chandesk/chandesk/internal/filters"
)

const filterUsage = `usage: chandesk filter <action>

Actions:
  ls                          List filter rules
  add -type <t> -value <v>    Add a rule (keyword|subject|name|tripcode|regex)
  rm <id>                     Remove a rule
  toggle <id>                 Enable or disable a rule
  import <file>               Append rules from an export file
  export <file>               Write all rules to a file
  clear                       Remove all rules
`

func runFilter() {
	if len(os.Args) < 2 {
		fmt.Print(filterUsage)
		os.Exit(1)
	}
	action := os.Args[1]
	os.Args = os.Args[1:]

	switch action {
	case "ls":
		runFilterLs()
	case "add":
		runFilterAdd()
	case "rm":
		runFilterRm()
	case "toggle":
		runFilterToggle()
	case "import":
		runFilterImport()
	case "export":
		runFilterExport()
	case "clear":
		runFilterClear()
	default:
		fmt.Fprintf(os.Stderr, "chandesk filter: unknown action %q\n\n", action)
		fmt.Print(filterUsage)
		os.Exit(1)
	}
}

func runFilterLs() {
	a, done := buildApp()
	defer done()

	rules := a.Filters.Rules()
	if len(rules) == 0 {
		fmt.Println("No filter rules")
		return
	}

	for _, r := range rules {
		state := "on "
		if !r.Enabled {
			state = "off"
		}
		scope := "all boards"
		if len(r.Boards) > 0 {
			scope = "/" + strings.Join(r.Boards, "/ /") + "/"
		}
		extras := ""
		if r.CaseSensitive {
			extras += " case"
		}
		if r.HideThread {
			extras += " hide-thread"
		}
		fmt.Printf("%s [%s] %-8s %-30q %s%s\n", r.ID, state, r.Type, r.Value, scope, extras)
	}
	fmt.Printf("\n%d rules, evaluated top to bottom\n", len(rules))
}

func runFilterAdd() {
	fs := flag.NewFlagSet("filter add", flag.ExitOnError)
	ruleType := fs.String("type", "keyword", "Rule type: keyword|subject|name|tripcode|regex")
	value := fs.String("value", "", "Pattern to match")
	boards := fs.String("boards", "", "Comma-separated board scope (empty = all)")
	caseSensitive := fs.Bool("case", false, "Case-sensitive matching")
	hideThread := fs.Bool("hide-thread", false, "Hide the whole thread on a match")
	disabled := fs.Bool("disabled", false, "Create the rule disabled")
	fs.Parse(os.Args[1:])

	if *value == "" {
		fatal("filter add requires -value")
	}

	r := filters.Rule{
		Type:          filters.Type(*ruleType),
		Value:         *value,
		Enabled:       !*disabled,
		CaseSensitive: *caseSensitive,
		HideThread:    *hideThread,
	}
	if *boards != "" {
		for _, b := range strings.Split(*boards, ",") {
			if b = strings.TrimSpace(b); b != "" {
				r.Boards = append(r.Boards, b)
			}
		}
	}

	switch r.Type {
	case filters.Keyword, filters.Subject, filters.Name, filters.Tripcode, filters.Regex:
	default:
		fatal("unknown rule type %q", *ruleType)
	}
	if err := filters.Validate(r); err != nil {
		fatal("invalid pattern: %v", err)
	}

	a, done := buildApp()
	defer done()

	stored := a.Filters.Add(r)
	fmt.Printf("Added rule %s\n", stored.ID)
}

func runFilterRm() {
	fs := flag.NewFlagSet("filter rm", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk filter rm <id>")
	}

	a, done := buildApp()
	defer done()

	a.Filters.Remove(fs.Arg(0))
	fmt.Printf("Removed %s\n", fs.Arg(0))
}

func runFilterToggle() {
	fs := flag.NewFlagSet("filter toggle", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk filter toggle <id>")
	}

	a, done := buildApp()
	defer done()

	if !a.Filters.Toggle(fs.Arg(0)) {
		fatal("no rule with id %s", fs.Arg(0))
	}
	fmt.Printf("Toggled %s\n", fs.Arg(0))
}

func runFilterImport() {
	fs := flag.NewFlagSet("filter import", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk filter import <file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fatal("failed to read %s: %v", fs.Arg(0), err)
	}
	rules, err := filters.UnmarshalExport(data)
	if err != nil {
		fatal("failed to parse %s: %v", fs.Arg(0), err)
	}

	a, done := buildApp()
	defer done()

	n := a.Filters.Import(rules)
	fmt.Printf("Imported %d rules\n", n)
}

func runFilterExport() {
	fs := flag.NewFlagSet("filter export", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk filter export <file>")
	}

	a, done := buildApp()
	defer done()

	rules := a.Filters.Export()
	data, err := filters.MarshalExport(rules)
	if err != nil {
		fatal("failed to encode rules: %v", err)
	}
	if err := os.WriteFile(fs.Arg(0), data, 0644); err != nil {
		fatal("failed to write %s: %v", fs.Arg(0), err)
	}
	fmt.Printf("Exported %d rules to %s\n", len(rules), fs.Arg(0))
}

func runFilterClear() {
	a, done := buildApp()
	defer done()

	n := len(a.Filters.Rules())
	a.Filters.Clear()
	fmt.Printf("Removed %d rules\n", n)
}
