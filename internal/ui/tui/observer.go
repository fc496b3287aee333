package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kallt/ekspress/internal/provisioning"
)

// sender is the part of *tea.Program the observer needs. Tests supply a
// recording fake.
type sender interface {
	Send(msg tea.Msg)
}

// Observer translates provisioning events into Bubble Tea messages.
type Observer struct {
	program sender
}

var _ provisioning.Observer = (*Observer)(nil)

// NewObserver creates an observer feeding the given program.
func NewObserver(program sender) *Observer {
	return &Observer{program: program}
}

// Printf implements provisioning.Observer. Lines show up on the status line.
func (o *Observer) Printf(format string, v ...interface{}) {
	o.program.Send(StatusMsg{Line: fmt.Sprintf(format, v...)})
}

// Event implements provisioning.Observer.
func (o *Observer) Event(event provisioning.Event) {
	step := provisioning.StepID(event.Step)

	switch event.Type {
	case provisioning.EventStepStarted:
		o.program.Send(StepMsg{Step: step})
	case provisioning.EventStepCompleted:
		o.program.Send(StepMsg{Step: step, Done: true})
	case provisioning.EventStepFailed:
		o.program.Send(StepMsg{Step: step, Err: fmt.Errorf("%s", event.Message)})
	default:
		line := event.Message
		if event.Resource != "" {
			line = fmt.Sprintf("%s: %s", event.Message, event.Resource)
		}
		o.program.Send(StatusMsg{Line: line})
	}
}

// WithFields implements provisioning.Observer. Fields carry no extra
// meaning in the dashboard, so the same observer is returned.
func (o *Observer) WithFields(_ map[string]string) provisioning.Observer {
	return o
}
