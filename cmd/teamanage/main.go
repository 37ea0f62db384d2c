package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/app"
	"github.com/haianh3623/TEAManage/internal/auth"
	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/notify"
	"github.com/haianh3623/TEAManage/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "teamanage: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := model.DefaultConfigPath()
	if env := os.Getenv("TEAMANAGE_CONFIG"); env != "" {
		cfgPath = env
	}

	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	client := api.NewClient(
		cfg.Server.BaseURL,
		time.Duration(cfg.Server.RequestTimeoutSec)*time.Second,
	)

	dataDir := filepath.Dir(cfgPath)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	s, err := store.NewSQLiteStore(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		return fmt.Errorf("opening local cache: %w", err)
	}
	defer s.Close()

	channel := notify.NewChannel(
		client,
		notify.NewWebSocketDialer(),
		cfg.Server.WebSocketURL,
		cfg.Notifications,
		s,
	)

	// A restore failure just means signing in again.
	session, _ := auth.Restore(client)

	p := tea.NewProgram(
		app.New(client, s, channel, session),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	return nil
}
