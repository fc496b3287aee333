// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the ekspress CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ekspress",
		Short: "Deploy containers to EKS without the YAML archaeology",
	}

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Destroy())

	// Inspection commands
	cmd.AddCommand(Plan())
	cmd.AddCommand(Render())
	cmd.AddCommand(Validate())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
