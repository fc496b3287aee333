// Package main is the entry point for the ekspress CLI.
//
// ekspress provisions an EKS cluster on AWS and deploys a container image
// to it: VPC, cluster, node group, IAM roles, Secrets Manager integration
// via the CSI driver, and a network load balancer, all from one small
// YAML file.
//
// Commands: init, apply, plan, render, validate, destroy.
//
// For detailed usage information, run:
//
//	ekspress --help
package main

import (
	"fmt"
	"os"

	"github.com/kallt/ekspress/cmd/ekspress/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
