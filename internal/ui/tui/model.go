package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kallt/ekspress/internal/provisioning"
)

// StepView is one provisioning step as shown in the dashboard.
type StepView struct {
	ID     provisioning.StepID
	Name   string
	Done   bool
	Active bool
	Err    error
}

// Model is the Bubble Tea model for the provisioning dashboard.
type Model struct {
	ClusterName string
	Region      string

	Steps      []StepView
	StatusLine string
	Hostname   string

	// Animation
	SpinnerFrame int
	StartTime    time.Time

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

// NewModel creates a dashboard model for the given provisioning sequence.
// Steps are shown in execution order.
func NewModel(clusterName, region string, steps []provisioning.Step) Model {
	views := make([]StepView, 0, len(steps))
	for _, s := range steps {
		views = append(views, StepView{ID: s.ID, Name: s.Name})
	}
	return Model{
		ClusterName: clusterName,
		Region:      region,
		Steps:       views,
		StartTime:   time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StepMsg:
		m.updateStep(msg)
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}

	case StatusMsg:
		m.StatusLine = msg.Line

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.Hostname = msg.Hostname
		m.StatusLine = ""
		for i := range m.Steps {
			m.Steps[i].Done = true
			m.Steps[i].Active = false
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updateStep(msg StepMsg) {
	idx := -1
	for i, step := range m.Steps {
		if step.ID == msg.Step {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// Steps run sequentially, so everything before is done.
	for i := 0; i < idx; i++ {
		m.Steps[i].Done = true
		m.Steps[i].Active = false
	}

	if msg.Done {
		m.Steps[idx].Done = true
		m.Steps[idx].Active = false
	} else {
		m.Steps[idx].Active = true
	}

	if msg.Err != nil {
		m.Steps[idx].Err = msg.Err
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
