package codegen

import "github.com/okra-platform/nativegen/internal/definition"

// Generator renders a resolved model in one output format
type Generator interface {
	// Generate renders the model and returns the output as bytes
	Generate(model *definition.Model) ([]byte, error)

	// Format returns the name of the output format (e.g., "json", "tree")
	Format() string

	// FileExtension returns the file extension for rendered files (e.g., ".json")
	FileExtension() string
}

// Options contains options shared by every generator
type Options struct {
	// Indent is the indentation unit for text formats
	Indent string

	// IncludeHidden renders hidden methods alongside the public ones
	IncludeHidden bool
}
