package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes the phases that implement the graph's steps, in
// topological order. Every step in the graph must have a registered phase.
func RunPhases(ctx *Context, graph *Graph, phases []Phase) error {
	byID := make(map[StepID]Phase, len(phases))
	for _, phase := range phases {
		byID[phase.ID()] = phase
	}

	order, err := graph.Sort()
	if err != nil {
		return err
	}
	for _, step := range order {
		if _, ok := byID[step.ID]; !ok {
			return fmt.Errorf("no phase registered for step %q", step.ID)
		}
	}

	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d steps...", len(order))

	for i, step := range order {
		phase := byID[step.ID]
		stepStart := time.Now()
		label := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(order))

		ctx.Observer.Event(Event{Type: EventStepStarted, Step: string(step.ID), Message: "starting"})
		ctx.Observer.Printf("[%s] starting", label)

		if err := phase.Provision(ctx); err != nil {
			ctx.Observer.Event(Event{
				Type:    EventStepFailed,
				Step:    string(step.ID),
				Message: fmt.Sprintf("failed: %v", err),
			})
			return fmt.Errorf("%s step failed: %w", step.ID, err)
		}

		ctx.Observer.Event(Event{
			Type:    EventStepCompleted,
			Step:    string(step.ID),
			Message: fmt.Sprintf("completed in %v", time.Since(stepStart).Round(time.Millisecond)),
		})
		ctx.Observer.Printf("[%s] completed in %v", label, time.Since(stepStart).Round(time.Millisecond))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
