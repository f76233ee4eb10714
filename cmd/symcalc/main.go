package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/njchilds90/symcalc/internal/cli"
	"github.com/njchilds90/symcalc/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	prefix := "Error:"
	if logger.IsTerminal(os.Stderr) {
		prefix = color.New(color.FgRed, color.Bold).Sprint(prefix)
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", prefix, err)
	stop()
	os.Exit(cli.ExitCode(err))
}
