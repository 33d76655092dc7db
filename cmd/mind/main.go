package main

import (
	"context"
	"os"
	"os/signal"

	rootcmd "github.com/go-ports/mind/cmd/mind/root"
	"github.com/go-ports/mind/cmd/mind/shared"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return rootcmd.Run(ctx, &shared.Context{}, os.Args[1:], os.Stdout, os.Stderr)
}
