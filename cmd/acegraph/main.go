// Command acegraph runs equality scenarios against an AC e-graph.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/acegraph/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit code. Commands report
// their own failures; flag and argument errors are printed here.
func exitCode(err error) int {
	if err == nil {
		return cli.ExitSuccess
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return cli.ExitCommandError
}
