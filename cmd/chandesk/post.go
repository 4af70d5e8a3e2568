package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chandesk/chandesk/internal/provider"
)

func runPost() {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	providerID := fs.String("p", "4chan", "Provider id")
	replyTo := fs.Int64("to", 0, "Thread id to reply to (required)")
	name := fs.String("name", "", "Poster name")
	email := fs.String("email", "", "Email field")
	subject := fs.String("subject", "", "Subject")
	comment := fs.String("com", "", "Comment body (required)")
	file := fs.String("file", "", "Path of an image to attach")
	pass := fs.String("pass", "", "Pass token (skips captcha)")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatal("usage: chandesk post [-p provider] -to <thread> -com <text> <board>")
	}
	if *replyTo == 0 || *comment == "" {
		fatal("post requires -to and -com")
	}
	boardID := fs.Arg(0)

	a, done := buildApp()
	defer done()

	p, ok := a.Providers.Get(*providerID)
	if !ok {
		fatal("unknown provider %q", *providerID)
	}
	if !p.SupportsPosting() {
		fatal("provider %q is read-only", *providerID)
	}

	res, err := p.SubmitPost(context.Background(), provider.PostRequest{
		Board:     boardID,
		ReplyTo:   *replyTo,
		Name:      *name,
		Email:     *email,
		Subject:   *subject,
		Comment:   *comment,
		FilePath:  *file,
		PassToken: *pass,
	})
	if err != nil {
		fatal("%v", err)
	}

	if res.Success {
		fmt.Println("Post successful")
		return
	}
	fmt.Fprintf(os.Stderr, "Post failed: %s\n", res.Error)
	os.Exit(1)
}
