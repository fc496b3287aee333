package provisioning

import (
	"fmt"
	"sort"

	"github.com/emicklei/dot"
)

// StepID identifies one provisioning step.
type StepID string

// The provisioning sequence. Steps within the same tier (oidc, csi-driver,
// database-access) carry no ordering relative to each other, but all of
// them precede service-account creation.
const (
	StepInfrastructure      StepID = "infrastructure"
	StepCluster             StepID = "cluster"
	StepDatabaseAccess      StepID = "database-access"
	StepOIDC                StepID = "oidc"
	StepCSIDriver           StepID = "csi-driver"
	StepServiceAccount      StepID = "service-account"
	StepSecretProviderClass StepID = "secret-provider-class"
	StepWorkload            StepID = "workload"
	StepExposure            StepID = "exposure"
)

// Step is a node in the provisioning graph.
type Step struct {
	ID       StepID
	Name     string
	Requires []StepID
}

// Graph is a set of steps with prerequisite edges.
type Graph struct {
	steps map[StepID]Step
	order []StepID // insertion order, for deterministic sorting
}

// NewGraph builds a graph from the given steps.
func NewGraph(steps ...Step) *Graph {
	g := &Graph{steps: make(map[StepID]Step, len(steps))}
	for _, s := range steps {
		if _, exists := g.steps[s.ID]; exists {
			continue
		}
		g.steps[s.ID] = s
		g.order = append(g.order, s.ID)
	}
	return g
}

// DefaultSteps returns the full provisioning sequence. Conditional steps
// (database access, external exposure) are included only when requested.
func DefaultSteps(withDatabase, withExposure bool) []Step {
	steps := []Step{
		{ID: StepInfrastructure, Name: "Infrastructure"},
		{ID: StepCluster, Name: "Cluster", Requires: []StepID{StepInfrastructure}},
		{ID: StepOIDC, Name: "OIDC Provider", Requires: []StepID{StepCluster}},
		{ID: StepCSIDriver, Name: "Secrets Store CSI Driver", Requires: []StepID{StepCluster}},
		{ID: StepServiceAccount, Name: "Service Account", Requires: []StepID{StepOIDC, StepCSIDriver}},
		{ID: StepSecretProviderClass, Name: "Secret Provider Class", Requires: []StepID{StepServiceAccount}},
		{ID: StepWorkload, Name: "Workload", Requires: []StepID{StepSecretProviderClass}},
	}
	if withDatabase {
		steps = append(steps, Step{ID: StepDatabaseAccess, Name: "Database Access", Requires: []StepID{StepCluster}})
	}
	if withExposure {
		steps = append(steps, Step{ID: StepExposure, Name: "External Exposure", Requires: []StepID{StepWorkload}})
	}
	return steps
}

// Validate checks that every prerequisite exists and that the graph is
// acyclic.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		for _, req := range g.steps[id].Requires {
			if _, ok := g.steps[req]; !ok {
				return fmt.Errorf("step %s requires unknown step %s", id, req)
			}
		}
	}

	if _, err := g.Sort(); err != nil {
		return err
	}
	return nil
}

// Sort returns the steps in a deterministic topological order: Kahn's
// algorithm, breaking ties by insertion order. An error is returned if
// the graph contains a cycle.
func (g *Graph) Sort() ([]Step, error) {
	indegree := make(map[StepID]int, len(g.steps))
	for _, id := range g.order {
		indegree[id] = len(g.steps[id].Requires)
	}

	dependents := make(map[StepID][]StepID)
	for _, id := range g.order {
		for _, req := range g.steps[id].Requires {
			dependents[req] = append(dependents[req], id)
		}
	}

	var ready []StepID
	for _, id := range g.order {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	sorted := make([]Step, 0, len(g.steps))
	for len(ready) > 0 {
		// Deterministic tie-break: earliest inserted first.
		sort.Slice(ready, func(i, j int) bool {
			return g.insertionIndex(ready[i]) < g.insertionIndex(ready[j])
		})

		next := ready[0]
		ready = ready[1:]
		sorted = append(sorted, g.steps[next])

		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(sorted) != len(g.steps) {
		var stuck []StepID
		for _, id := range g.order {
			if indegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, fmt.Errorf("provisioning graph contains a cycle involving %v", stuck)
	}

	return sorted, nil
}

// Steps returns all steps in insertion order.
func (g *Graph) Steps() []Step {
	out := make([]Step, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.steps[id])
	}
	return out
}

// DOT renders the graph in Graphviz format for `ekspress plan --format dot`.
func (g *Graph) DOT() string {
	d := dot.NewGraph(dot.Directed)
	d.Attr("rankdir", "LR")

	nodes := make(map[StepID]dot.Node, len(g.steps))
	for _, id := range g.order {
		nodes[id] = d.Node(string(id)).Label(g.steps[id].Name)
	}
	for _, id := range g.order {
		for _, req := range g.steps[id].Requires {
			d.Edge(nodes[req], nodes[id])
		}
	}
	return d.String()
}

func (g *Graph) insertionIndex(id StepID) int {
	for i, v := range g.order {
		if v == id {
			return i
		}
	}
	return len(g.order)
}
