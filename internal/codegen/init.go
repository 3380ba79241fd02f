package codegen

import (
	"github.com/okra-platform/nativegen/internal/codegen/canonical"
	"github.com/okra-platform/nativegen/internal/codegen/hierarchy"
	"github.com/okra-platform/nativegen/internal/codegen/outline"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(canonical.Format, func(opts Options) Generator {
		return canonical.NewGenerator()
	})

	DefaultRegistry.Register(hierarchy.Format, func(opts Options) Generator {
		return hierarchy.NewGenerator()
	})

	DefaultRegistry.Register(outline.Format, func(opts Options) Generator {
		return outline.NewGenerator(opts.Indent, opts.IncludeHidden)
	})
}
