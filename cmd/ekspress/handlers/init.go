package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/kallt/ekspress/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the configuration wizard.
	runWizard = config.RunWizard

	// saveConfig writes the config to a file.
	saveConfig = config.Save
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	cfg := result.ToConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if err := saveConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("ekspress - containers to EKS, minus the ceremony")
	fmt.Println("================================================")
	fmt.Println()
	fmt.Println("This wizard creates a deployment configuration with sensible defaults.")
	fmt.Println("Everything can be changed later by editing the file.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	// Summary
	fmt.Println("Deployment Summary")
	fmt.Println("------------------")
	fmt.Printf("  Cluster:   %s\n", cfg.Name)
	fmt.Printf("  Region:    %s\n", cfg.Region)
	fmt.Printf("  Image:     %s\n", cfg.Image)
	fmt.Printf("  Nodes:     %d x %s\n", cfg.Nodes.Count, cfg.Nodes.Size)
	fmt.Printf("  Secret:    %s\n", cfg.Secret.Name)
	if cfg.Database != nil {
		fmt.Printf("  Database:  %s\n", cfg.Database.Identifier)
	}
	if cfg.Domain != nil {
		fmt.Printf("  Domain:    %s\n", cfg.Domain.Name)
	}
	fmt.Println()

	// Next steps
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Make sure your AWS credentials are configured:")
	fmt.Println("     aws sts get-caller-identity")
	fmt.Println()
	fmt.Printf("  2. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Deploy:")
	fmt.Println("     ekspress apply")
	fmt.Println()
}
