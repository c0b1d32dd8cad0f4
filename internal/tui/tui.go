package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/vibetrack/internal/models"
	"github.com/balkashynov/vibetrack/internal/parser"
)

// Controller is the live timer as the TUI sees it
type Controller interface {
	ElapsedSource
	Stop(ctx context.Context) (*models.Session, error)
}

// RunTimerTUI shows the live timer until the user stops or leaves it
func RunTimerTUI(ctx context.Context, timer Controller, totals Totals) error {
	model := NewTimerModel(timer, totals)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(TimerModel)
	if !ok || m.session == nil {
		return nil
	}

	if m.stopping {
		stopped, err := timer.Stop(ctx)
		if err != nil {
			return fmt.Errorf("failed to stop session: %w", err)
		}
		if stopped == nil {
			fmt.Println("No session was running.")
			return nil
		}
		fmt.Printf("⏹️  Stopped %s\n", stopped.Discipline.Name)
		fmt.Printf("📊 Session duration: %s\n", parser.FormatHMS(stopped.DurationSeconds))
	} else if m.exiting {
		fmt.Printf("\n💡 Timer is still running for %s.\n", m.session.Discipline.Name)
		fmt.Printf("   Use 'vibetrack status' to check it or 'vibetrack stop' to stop it.\n")
	}

	return nil
}
