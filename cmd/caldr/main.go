package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvnheller/caldr/internal/calendar"
	"github.com/kvnheller/caldr/internal/config"
	"github.com/kvnheller/caldr/internal/scheduler"
	"github.com/kvnheller/caldr/internal/storage"
	"github.com/kvnheller/caldr/internal/update"
)

func main() {
	configPath := flag.String("config", "", "path to caldr.yaml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "caldr failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	repo, err := storage.OpenSQLite(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx := context.Background()
	cal, err := repo.LoadCalendar(ctx, cfg.CalendarTitle)
	if errors.Is(err, storage.ErrNotFound) {
		cal = calendar.New(cfg.CalendarTitle)
		cal.SetAllowConflicts(cfg.AllowConflicts)
		err = nil
	}
	if err != nil {
		return fmt.Errorf("load calendar: %w", err)
	}

	engine := scheduler.NewEngine(cfg.AlertBuffer)
	engine.Start()
	defer engine.Stop()

	planner := scheduler.NewPlanner(engine, time.Duration(cfg.AlertLeadMinutes)*time.Minute)
	planner.PlanCalendar(cal)
	cal.AddListener(planner)

	program := tea.NewProgram(update.NewModelWithScheduler(cal, engine))
	if _, err := program.Run(); err != nil {
		return err
	}

	if err := repo.SaveCalendar(ctx, cal); err != nil {
		return fmt.Errorf("save calendar: %w", err)
	}
	return nil
}
