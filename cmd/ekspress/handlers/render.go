package handlers

import (
	"fmt"
	"io"

	"github.com/kallt/ekspress/internal/config"
	"github.com/kallt/ekspress/internal/manifest"
	"github.com/kallt/ekspress/internal/util/naming"
)

// Render writes the generated manifest bundle to out.
//
// Rendering is offline: the secret reference is emitted exactly as
// configured. During apply the reference is resolved to the full
// Secrets Manager ARN before the SecretProviderClass is applied; the
// CSI provider accepts either form.
func Render(configPath string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	bundle, err := buildOfflineBundle(cfg)
	if err != nil {
		return err
	}

	data, err := bundle.Render()
	if err != nil {
		return fmt.Errorf("failed to render manifests: %w", err)
	}

	_, err = out.Write(data)
	return err
}

// RenderToFile writes the generated manifest bundle to a file.
func RenderToFile(configPath, outputPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	bundle, err := buildOfflineBundle(cfg)
	if err != nil {
		return err
	}

	data, err := bundle.Render()
	if err != nil {
		return fmt.Errorf("failed to render manifests: %w", err)
	}

	if err := writeFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifests: %w", err)
	}

	fmt.Printf("Manifests written to %s\n", outputPath)
	return nil
}

// buildOfflineBundle generates the bundle from configuration alone.
func buildOfflineBundle(cfg *config.Config) (*manifest.Bundle, error) {
	return manifest.Build(manifest.Inputs{
		Namespace:      cfg.Namespace,
		AppName:        cfg.AppName(),
		Image:          cfg.Image,
		Replicas:       int32(cfg.Replicas),
		ServiceAccount: naming.ServiceAccount(cfg.AppName()),
		SecretARN:      cfg.Secret.Name,
		SecretAlias:    cfg.Secret.Alias,
		MountPath:      cfg.Secret.MountPath,
	})
}
