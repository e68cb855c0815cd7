// Package main is the entry point for the assistant-bot CLI.
//
// Without arguments the binary starts the interactive address book
// assistant; subcommands run single contact commands or manage the
// container image. All functionality lives in internal/cli.
//
// Build-time variables (version, commit, date) are injected via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/assistant-bot
package main

import (
	"github.com/shinji-kodama/assistant-bot/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package before the
	// root command reads it.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
