package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chandesk/chandesk/internal/provider/fourchan"
)

func runPass() {
	fs := flag.NewFlagSet("pass", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk pass <token>")
	}

	a, done := buildApp()
	defer done()

	// Pass validation is a 4chan feature, so the concrete type is used
	// rather than the provider interface
	p, _ := a.Providers.Get("4chan")
	fc, ok := p.(*fourchan.Provider)
	if !ok {
		fatal("4chan provider unavailable")
	}

	valid, err := fc.ValidatePass(context.Background(), fs.Arg(0))
	if err != nil {
		fatal("pass validation failed: %v", err)
	}
	if valid {
		fmt.Println("Pass token is valid")
	} else {
		fmt.Println("Pass token was rejected")
		os.Exit(1)
	}
}
