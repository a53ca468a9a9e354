package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	ghlogincmd "github.com/telekom/ghlogin/pkg/ghctl/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ghlogincmd.Execute(ctx, ghlogincmd.DefaultConfig(), args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
