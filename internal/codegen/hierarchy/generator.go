// Package hierarchy renders the class hierarchy as a text tree.
package hierarchy

import (
	"bytes"
	"fmt"

	"github.com/ddddddO/gtree"

	"github.com/okra-platform/nativegen/internal/definition"
)

// Format is the registry name of this generator
const Format = "tree"

// Generator draws one line per class, nested under its parent
type Generator struct{}

// NewGenerator creates a new hierarchy generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Format returns the name of the output format
func (g *Generator) Format() string {
	return Format
}

// FileExtension returns the file extension for rendered files
func (g *Generator) FileExtension() string {
	return ".txt"
}

// Generate draws the hierarchy. Classes arrive parents first, so every
// parent is already in the tree when its children are added.
func (g *Generator) Generate(model *definition.Model) ([]byte, error) {
	if len(model.Classes) == 0 {
		return nil, fmt.Errorf("model has no classes")
	}

	nodes := make(map[string]*gtree.Node, len(model.Classes))
	var root *gtree.Node
	var rootName string

	for _, class := range model.Classes {
		if class.Parent == "" {
			if root != nil {
				return nil, fmt.Errorf("model has more than one root: %s and %s", rootName, class.Qualified)
			}
			root = gtree.NewRoot(label(class))
			rootName = class.Qualified
			nodes[class.Qualified] = root
			continue
		}

		parent, ok := nodes[class.Parent]
		if !ok {
			return nil, fmt.Errorf("class %s appears before its parent %s", class.Qualified, class.Parent)
		}
		nodes[class.Qualified] = parent.Add(label(class))
	}

	var buf bytes.Buffer
	if err := gtree.OutputFromRoot(&buf, root); err != nil {
		return nil, fmt.Errorf("failed to draw hierarchy: %w", err)
	}
	return buf.Bytes(), nil
}

func label(class definition.Class) string {
	text := class.Qualified
	switch {
	case class.Singleton:
		text += " (singleton)"
	case class.Managed:
		text += " (managed)"
	}
	if class.Final {
		text += " final"
	}
	return text
}
