package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kallt/ekspress/internal/provisioning"
)

// RunApply wraps a provisioning run with the dashboard. The run function
// receives an observer that feeds step progress into the display and must
// return the load balancer hostname on success.
func RunApply(
	ctx context.Context,
	clusterName, region string,
	steps []provisioning.Step,
	run func(obs provisioning.Observer) (string, error),
) error {
	m := NewModel(clusterName, region, steps)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		hostname, err := run(NewObserver(p))
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{Hostname: hostname})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("terminal UI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
