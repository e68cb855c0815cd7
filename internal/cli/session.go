package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assistant-bot/internal/bot"
	"github.com/shinji-kodama/assistant-bot/internal/config"
	"github.com/shinji-kodama/assistant-bot/internal/model"
	"github.com/shinji-kodama/assistant-bot/internal/storage"
)

// loadConfig reads the environment configuration and applies the
// --file and --backend overrides. A relative --file is resolved against
// the working directory, not APP_HOME.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load .env file", err)
	}

	if dataFile != "" {
		path, err := filepath.Abs(dataFile)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidInput,
				"invalid --file path", err)
		}
		cfg.DataFile = path
	}
	if backendName != "" {
		cfg.Backend = backendName
	}

	VerboseLog("Address book: %s (backend: %s)", cfg.DataFile, backendLabel(cfg.Backend))
	return cfg, nil
}

// openStore opens the configured store. Callers must Close it.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	var backend storage.Backend
	if cfg.Backend != "" {
		b, err := storage.ParseBackend(cfg.Backend)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidInput,
				"invalid storage backend: valid values are json, yaml, sqlite, memory", err)
		}
		backend = b
	}

	store, err := storage.Open(ctx, backend, cfg.DataFile)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitStorageError,
			"failed to open address book", err)
	}
	return store, nil
}

func backendLabel(name string) string {
	if name == "" {
		return "by extension"
	}
	return name
}

// runInteractive runs the interactive session on the command's stdin and
// stdout. SIGINT and SIGTERM end the session; the book is still saved.
func runInteractive(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	session := bot.NewSession(store, bot.NewConsoleView(cmd.OutOrStdout()), logger)
	session.DefaultDays = cfg.BirthdayDays

	if err := session.Run(ctx, cmd.InOrStdin()); err != nil {
		return model.WrapCLIError(model.ExitStorageError, "address book session failed", err)
	}
	return nil
}
