// Command otnanalyzer-scan scans a hex stream from a file or stdin, or runs an interactive prompt
//
//	otnanalyzer-scan [flags] [file|-]
//	otnanalyzer-scan repl
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"otnanalyzer/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// results go to stdout, logs to stderr
	lo := logger.FromEnv()
	lo.Writer = os.Stderr
	lo.Component = "scan-cli"
	logger.Init(lo)

	if len(os.Args) > 1 && os.Args[1] == "repl" {
		os.Exit(runREPL(ctx, os.Stdout))
	}
	os.Exit(runScan(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
