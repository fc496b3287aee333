package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/kallt/ekspress/internal/provisioning"
)

// Plan prints the provisioning sequence for the configuration without
// contacting AWS. Supported formats are "text" (the ordered step list)
// and "dot" (Graphviz).
func Plan(configPath, format string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	graph := provisioning.NewGraph(provisioning.DefaultSteps(cfg.HasDatabase(), cfg.HasDomain())...)
	if err := graph.Validate(); err != nil {
		return err
	}

	switch format {
	case "dot":
		fmt.Fprintln(out, graph.DOT())
		return nil
	case "", "text":
		return printPlanText(cfg.Name, graph, out)
	default:
		return fmt.Errorf("unknown format %q (expected text or dot)", format)
	}
}

func printPlanText(clusterName string, graph *provisioning.Graph, out io.Writer) error {
	steps, err := graph.Sort()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Provisioning plan for %s (%d steps):\n\n", clusterName, len(steps))
	for i, step := range steps {
		line := fmt.Sprintf("  %d. %s", i+1, step.Name)
		if len(step.Requires) > 0 {
			reqs := make([]string, 0, len(step.Requires))
			for _, r := range step.Requires {
				reqs = append(reqs, string(r))
			}
			line += fmt.Sprintf("  (after: %s)", strings.Join(reqs, ", "))
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
