package handlers

import (
	"fmt"
	"io"

	"github.com/kallt/ekspress/internal/provisioning"
)

// Validate checks the configuration, the provisioning graph, and the
// generated manifest bundle without contacting AWS.
func Validate(configPath string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	graph := provisioning.NewGraph(provisioning.DefaultSteps(cfg.HasDatabase(), cfg.HasDomain())...)
	if err := graph.Validate(); err != nil {
		return fmt.Errorf("provisioning graph invalid: %w", err)
	}

	bundle, err := buildOfflineBundle(cfg)
	if err != nil {
		return fmt.Errorf("failed to build manifests: %w", err)
	}
	if err := bundle.Validate(); err != nil {
		return fmt.Errorf("manifest bundle invalid: %w", err)
	}

	steps := len(graph.Steps())

	fmt.Fprintf(out, "Configuration is valid.\n\n")
	fmt.Fprintf(out, "  Cluster:   %s (%s)\n", cfg.Name, cfg.Region)
	fmt.Fprintf(out, "  Image:     %s\n", cfg.Image)
	fmt.Fprintf(out, "  Namespace: %s\n", cfg.Namespace)
	fmt.Fprintf(out, "  Nodes:     %d x %s\n", cfg.Nodes.Count, cfg.Nodes.Size)
	fmt.Fprintf(out, "  Secret:    %s -> %s/%s\n", cfg.Secret.Name, cfg.Secret.MountPath, cfg.Secret.Alias)
	if cfg.Database != nil {
		fmt.Fprintf(out, "  Database:  %s (port %d)\n", cfg.Database.Identifier, cfg.Database.Port)
	}
	if cfg.Domain != nil {
		fmt.Fprintf(out, "  Domain:    %s\n", cfg.Domain.Name)
	}
	fmt.Fprintf(out, "  Steps:     %d\n", steps)

	return nil
}
