package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallt/ekspress/internal/provisioning"
)

func newTestModel() Model {
	return NewModel("demo", "eu-central-1", provisioning.DefaultSteps(false, false))
}

func TestNewModel(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	assert.Equal(t, "demo", m.ClusterName)
	assert.Len(t, m.Steps, 7)
	assert.Equal(t, provisioning.StepInfrastructure, m.Steps[0].ID)
	assert.False(t, m.Done)
}

func TestModelStepProgress(t *testing.T) {
	t.Parallel()

	m := newTestModel()

	next, _ := m.Update(StepMsg{Step: provisioning.StepCluster})
	m = next.(Model)

	assert.True(t, m.Steps[0].Done, "earlier steps are marked done")
	assert.True(t, m.Steps[1].Active)
	assert.False(t, m.Steps[1].Done)

	next, _ = m.Update(StepMsg{Step: provisioning.StepCluster, Done: true})
	m = next.(Model)
	assert.True(t, m.Steps[1].Done)
	assert.False(t, m.Steps[1].Active)
}

func TestModelStepFailure(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	failure := errors.New("vpc limit exceeded")

	next, cmd := m.Update(StepMsg{Step: provisioning.StepInfrastructure, Err: failure})
	m = next.(Model)

	assert.Equal(t, failure, m.Err)
	assert.NotNil(t, cmd, "failure quits the program")
}

func TestModelDone(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	next, cmd := m.Update(DoneMsg{Hostname: "abc.elb.amazonaws.com"})
	m = next.(Model)

	assert.True(t, m.Done)
	assert.Equal(t, "abc.elb.amazonaws.com", m.Hostname)
	for _, step := range m.Steps {
		assert.True(t, step.Done)
	}
	assert.NotNil(t, cmd)
}

func TestModelQuitKeys(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.NotNil(t, cmd)
}

func TestViewContents(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	m.StartTime = time.Now()
	next, _ := m.Update(StepMsg{Step: provisioning.StepCluster})
	m = next.(Model)
	m.StatusLine = "creating nat gateway"

	out := m.View()
	assert.Contains(t, out, "ekspress: demo (eu-central-1)")
	assert.Contains(t, out, "Infrastructure")
	assert.Contains(t, out, "Workload")
	assert.Contains(t, out, "creating nat gateway")
	assert.Contains(t, out, checkMark, "completed steps show the check mark")
}

type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.msgs = append(r.msgs, msg)
}

func TestObserverTranslatesEvents(t *testing.T) {
	t.Parallel()

	rec := &recordingSender{}
	obs := NewObserver(rec)

	obs.Event(provisioning.Event{Type: provisioning.EventStepStarted, Step: "cluster"})
	obs.Event(provisioning.Event{Type: provisioning.EventStepCompleted, Step: "cluster"})
	obs.Event(provisioning.Event{Type: provisioning.EventStepFailed, Step: "workload", Message: "rollout timed out"})
	obs.Event(provisioning.Event{Type: provisioning.EventResourceCreating, Message: "creating vpc", Resource: "demo-vpc"})
	obs.Printf("waiting for %s", "nodes")

	require.Len(t, rec.msgs, 5)

	started := rec.msgs[0].(StepMsg)
	assert.Equal(t, provisioning.StepCluster, started.Step)
	assert.False(t, started.Done)

	completed := rec.msgs[1].(StepMsg)
	assert.True(t, completed.Done)

	failed := rec.msgs[2].(StepMsg)
	require.Error(t, failed.Err)
	assert.Contains(t, failed.Err.Error(), "rollout timed out")

	status := rec.msgs[3].(StatusMsg)
	assert.Equal(t, "creating vpc: demo-vpc", status.Line)

	printed := rec.msgs[4].(StatusMsg)
	assert.Equal(t, "waiting for nodes", printed.Line)
}
