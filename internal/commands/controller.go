// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/rs/zerolog"

	"github.com/okra-platform/nativegen/internal/build"
	"github.com/okra-platform/nativegen/internal/codegen/hierarchy"
	"github.com/okra-platform/nativegen/internal/config"
	"github.com/okra-platform/nativegen/internal/dev"
)

type Flags struct {
	LogLevel string

	// ConfigPath points at a specific nativegen.yaml. Empty means search
	// the working directory and its parents.
	ConfigPath string

	// Format overrides output.format from the configuration
	Format string
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger

	// FS defaults to the OS filesystem
	FS vfs.FileSystem

	// Stdout defaults to os.Stdout
	Stdout io.Writer
}

func (c *Controller) fs() vfs.FileSystem {
	if c.FS == nil {
		return osfs.New()
	}
	return c.FS
}

func (c *Controller) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// loadConfig returns the configuration and the project root it applies to
func (c *Controller) loadConfig() (*config.Config, string, error) {
	loader := config.NewLoader()
	loader.FS = c.fs()

	if c.Flags.ConfigPath != "" {
		cfg, err := loader.LoadFromPath(c.Flags.ConfigPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load configuration: %w", err)
		}
		return cfg, filepath.Dir(c.Flags.ConfigPath), nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, root, err := loader.LoadFromDir(dir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load configuration (create a %s or pass --config): %w", config.FileName, err)
	}
	return cfg, root, nil
}

func (c *Controller) builder() (*build.ModelBuilder, *config.Config, string, error) {
	cfg, root, err := c.loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	if c.Flags.Format != "" {
		cfg.Output.Format = c.Flags.Format
	}

	return build.NewModelBuilder(cfg, root, c.fs(), c.Logger), cfg, root, nil
}

// Generate compiles the schema and writes the configured output
func (c *Controller) Generate(ctx context.Context) error {
	builder, _, _, err := c.builder()
	if err != nil {
		return err
	}

	artifacts, err := builder.Build()
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fmt.Fprintf(c.stdout(), "wrote %s (%d classes, %d skipped)\n",
		artifacts.OutputPath, len(artifacts.Model.Classes), artifacts.BuildInfo.Skipped)
	return nil
}

// Tree prints the class hierarchy without writing any files
func (c *Controller) Tree(ctx context.Context) error {
	builder, _, _, err := c.builder()
	if err != nil {
		return err
	}

	model, err := builder.Compile()
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	data, _, err := builder.Render(model, hierarchy.Format)
	if err != nil {
		return err
	}

	_, err = c.stdout().Write(data)
	return err
}

// Watch regenerates the output whenever a watched input changes, until ctx
// is cancelled
func (c *Controller) Watch(ctx context.Context) error {
	builder, cfg, root, err := c.builder()
	if err != nil {
		return err
	}

	server := dev.NewServer(cfg, root, builder, c.Logger)
	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
