package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bayanapp/bayan-tui/internal/api"
	"github.com/bayanapp/bayan-tui/internal/app"
	"github.com/bayanapp/bayan-tui/internal/logging"
	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/notify"
	"github.com/bayanapp/bayan-tui/internal/store"
	"github.com/bayanapp/bayan-tui/internal/theme"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bayan: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer log.Sync()

	db, err := store.NewSQLiteStore(model.DefaultDataPath())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	notes := notify.NewStore(db, log)
	if err := notes.Load(ctx); err != nil {
		// Losing saved notifications is not worth refusing to start.
		log.Warn("loading saved notifications failed", zap.Error(err))
	}

	if v, err := db.GetSetting(ctx, store.SettingDarkMode); err == nil && v == "true" {
		theme.SetDarkMode(true)
	}
	// A persisted preference from a previous session wins over the config file.
	if v, err := db.GetSetting(ctx, store.SettingEnhancedUI); err == nil && v != "" {
		cfg.Display.EnhancedUI = v == "true"
	}

	client := api.NewClient(cfg.Server.BaseURL, log)

	p := tea.NewProgram(
		app.New(cfg, client, db, notes, log),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
