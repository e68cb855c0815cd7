// Package cli implements the cobra-based CLI commands for assistant-bot.
//
// Run without a subcommand, assistant-bot starts the interactive session.
// The contact subcommands (add, change, phone, ...) run a single bot
// command against the stored address book, and the image command group
// renders, validates and builds the container image. This file defines
// the root command and the global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose lowers the log level to Debug.
	verbose bool

	// dataFile overrides the address book path from the environment.
	dataFile string

	// backendName overrides the storage backend (json, yaml, sqlite, memory).
	backendName string
)

// logger receives diagnostic output. User-facing output never goes
// through it.
var logger = newLogger(os.Stderr)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// Without a subcommand the root command runs the interactive assistant
// on stdin/stdout.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "assistant-bot",
		Short: "Address book assistant for the terminal",
		Long: `assistant-bot keeps an address book of contacts with phone numbers
and birthdays.

Run it without arguments for the interactive prompt, or use one of the
subcommands to run a single command and exit.`,

		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogger(logger, verbose)
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&dataFile, "file", "f", "",
		"Address book file (default: $ASSISTANT_BOT_FILE or addressbook.json)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "",
		"Storage backend: json, yaml, sqlite, memory (default: by file extension)")

	for _, cmd := range NewContactCommands() {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(NewImageCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError types carry their own exit codes; other errors are mapped from
// the domain error they wrap and default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(os.Stderr, cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(os.Stderr, err.Error(), nil)
		os.Exit(int(model.ExitCodeFor(err)))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// newLogger returns a text logger without timestamps writing to w.
func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	configureLogger(l, false)
	return l
}

func configureLogger(l *logrus.Logger, verbose bool) {
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
}

// VerboseLog logs a debug message, shown only with --verbose.
func VerboseLog(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
