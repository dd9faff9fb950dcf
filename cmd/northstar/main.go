package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/northstar/internal/config"
	"github.com/jask/northstar/internal/database"
	"github.com/jask/northstar/internal/llm"
	"github.com/jask/northstar/internal/service"
	"github.com/jask/northstar/internal/store"
	"github.com/jask/northstar/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	st := store.New(store.NewSQLiteGateway(db))
	if err := st.Load(ctx); err != nil {
		log.Fatalf("load snapshot: %v", err)
	}

	planner := newPlanner(cfg)

	services := tui.Services{
		Setup:   &service.SetupService{Store: st, Planner: planner},
		Checkin: &service.CheckinService{Store: st, Planner: planner},
	}

	p := tea.NewProgram(tui.New(ctx, cfg, st, services), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func newPlanner(cfg config.Config) llm.Planner {
	switch strings.ToLower(strings.TrimSpace(cfg.Planner.Provider)) {
	case "openai":
		return llm.NewOpenAIPlanner(config.ResolveAPIKey(cfg), cfg.Planner.Model)
	default:
		return llm.NewHeuristicPlanner()
	}
}
