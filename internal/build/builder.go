// Package build drives one generation run: load the class dump, compile it
// into a model, render it and write the result.
package build

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/rs/zerolog"

	"github.com/okra-platform/nativegen/internal/codegen"
	"github.com/okra-platform/nativegen/internal/codegen/canonical"
	"github.com/okra-platform/nativegen/internal/config"
	"github.com/okra-platform/nativegen/internal/definition"
	"github.com/okra-platform/nativegen/internal/schema"
	"github.com/okra-platform/nativegen/internal/tree"
)

// Artifacts describes the output of a successful run
type Artifacts struct {
	// OutputPath is the rendered file, including its extension
	OutputPath string

	// Model is the compiled model that was rendered
	Model *definition.Model

	BuildInfo BuildInfo
}

// BuildInfo contains metadata about the run
type BuildInfo struct {
	// Timestamp when the run started
	Timestamp time.Time

	// Format the model was rendered in
	Format string

	// Digest is the sha256 of the model's canonical JSON
	Digest string

	// Skipped counts members dropped with a diagnostic
	Skipped int
}

// Builder compiles and renders models
type Builder interface {
	// Compile loads the schema and resolves it into a model
	Compile() (*definition.Model, error)

	// Render renders a model in the given format
	Render(model *definition.Model, format string) ([]byte, codegen.Generator, error)

	// Build runs Compile and Render and writes the configured output
	Build() (*Artifacts, error)

	// OutputPath returns the file Build writes to
	OutputPath() (string, error)
}

// ModelBuilder implements Builder over a vfs filesystem
type ModelBuilder struct {
	config      *config.Config
	projectRoot string
	fs          vfs.FileSystem
	registry    *codegen.Registry
	logger      zerolog.Logger
}

// NewModelBuilder creates a builder. Relative paths in cfg resolve against projectRoot.
func NewModelBuilder(cfg *config.Config, projectRoot string, fs vfs.FileSystem, logger zerolog.Logger) *ModelBuilder {
	return &ModelBuilder{
		config:      cfg,
		projectRoot: projectRoot,
		fs:          fs,
		registry:    codegen.DefaultRegistry,
		logger:      logger,
	}
}

// SchemaPath returns the resolved path of the class dump
func (b *ModelBuilder) SchemaPath() string {
	return b.resolve(b.config.Schema)
}

// OutputPath returns the file Build writes to, including the extension of
// the configured format
func (b *ModelBuilder) OutputPath() (string, error) {
	generator, err := b.registry.Get(b.config.Output.Format, codegen.Options{})
	if err != nil {
		return "", err
	}
	return b.outputPath(generator), nil
}

func (b *ModelBuilder) outputPath(generator codegen.Generator) string {
	return b.resolve(b.config.Output.Path) + generator.FileExtension()
}

// Compile loads the schema and resolves it into a model
func (b *ModelBuilder) Compile() (*definition.Model, error) {
	path := b.SchemaPath()

	classes, err := schema.LoadSchema(b.fs, path)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().
		Str("path", path).
		Int("classes", len(classes)).
		Msg("loaded schema")

	result, err := tree.Build(classes, tree.Options{
		Module: b.config.Module,
		Logger: b.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build class tree: %w", err)
	}

	return definition.FromResult(result, definition.Options{
		Module:        b.config.Module,
		GenericPrefix: b.config.GenericPrefix,
	}), nil
}

// Render renders a model in the given format
func (b *ModelBuilder) Render(model *definition.Model, format string) ([]byte, codegen.Generator, error) {
	generator, err := b.registry.Get(format, codegen.Options{})
	if err != nil {
		return nil, nil, err
	}

	data, err := generator.Generate(model)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render %s output: %w", format, err)
	}

	return data, generator, nil
}

// Build runs one generation. Nothing is written unless every step succeeds.
func (b *ModelBuilder) Build() (*Artifacts, error) {
	start := time.Now()

	model, err := b.Compile()
	if err != nil {
		return nil, err
	}

	format := b.config.Output.Format
	data, generator, err := b.Render(model, format)
	if err != nil {
		return nil, err
	}

	digest, err := canonical.Digest(model)
	if err != nil {
		return nil, err
	}

	output := b.outputPath(generator)
	if err := b.fs.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := vfs.WriteFile(b.fs, output, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", output, err)
	}

	b.logger.Info().
		Str("output", output).
		Str("format", format).
		Str("digest", digest).
		Int("classes", len(model.Classes)).
		Int("skipped", len(model.Diagnostics)).
		Dur("elapsed", time.Since(start)).
		Msg("generated model")

	return &Artifacts{
		OutputPath: output,
		Model:      model,
		BuildInfo: BuildInfo{
			Timestamp: start,
			Format:    format,
			Digest:    digest,
			Skipped:   len(model.Diagnostics),
		},
	}, nil
}

func (b *ModelBuilder) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.projectRoot, path)
}
