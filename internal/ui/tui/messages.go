// Package tui provides a Bubble Tea-based terminal UI for provisioning.
package tui

import "github.com/kallt/ekspress/internal/provisioning"

// StepMsg reports progress of one provisioning step.
type StepMsg struct {
	Step provisioning.StepID
	Done bool
	Err  error
}

// StatusMsg updates the transient status line below the step list.
type StatusMsg struct {
	Line string
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries a fatal error.
type ErrMsg struct{ Err error }

// DoneMsg signals that provisioning is complete.
type DoneMsg struct {
	Hostname string
}
