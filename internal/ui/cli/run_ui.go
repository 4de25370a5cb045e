package cli

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	coreapp "readsanalyzer/internal/core/app"
	"readsanalyzer/internal/data/history"
)

const uiHistoryLimit = 50

func runUI(ctx context.Context, app *coreapp.App, initial coreapp.Result, store *history.Store, project string) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	loadRuns := func() []history.Run {
		if store == nil {
			return nil
		}
		runs, err := store.LoadRuns(project, time.Time{}, uiHistoryLimit)
		if err != nil {
			slog.Warn("failed to load history for UI", "error", err)
			return nil
		}
		return runs
	}

	app.SetUpdateHandler(func(update coreapp.Update) {
		p.Send(updateMsg{result: update.Result, runs: loadRuns()})
	})

	go func() {
		p.Send(updateMsg{result: initial, runs: loadRuns()})
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
