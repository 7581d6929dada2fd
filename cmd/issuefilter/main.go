// Command issuefilter parses, evaluates and applies issue filters.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/issuefilter/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		// Commands report their own failures; only flag and argument
		// errors from cobra reach here unprinted.
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
