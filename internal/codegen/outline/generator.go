// Package outline renders the model as an indented, human-readable outline
// of every class and the signatures its members would be emitted with.
package outline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okra-platform/nativegen/internal/codegen/writer"
	"github.com/okra-platform/nativegen/internal/definition"
)

// Format is the registry name of this generator
const Format = "outline"

// Generator renders the outline
type Generator struct {
	indent        string
	includeHidden bool
}

// NewGenerator creates a new outline generator
func NewGenerator(indent string, includeHidden bool) *Generator {
	if indent == "" {
		indent = "  "
	}
	return &Generator{indent: indent, includeHidden: includeHidden}
}

// Format returns the name of the output format
func (g *Generator) Format() string {
	return Format
}

// FileExtension returns the file extension for rendered files
func (g *Generator) FileExtension() string {
	return ".txt"
}

// Generate writes one section per class, parents first
func (g *Generator) Generate(model *definition.Model) ([]byte, error) {
	w := writer.NewWriter(g.indent)

	w.WriteLinef("module %s", model.Module)
	w.BlankLine()

	for _, class := range model.Classes {
		g.writeClass(w, class)
		w.BlankLine()
	}

	if len(model.Diagnostics) > 0 {
		w.Section("skipped", func() {
			for _, d := range model.Diagnostics {
				w.WriteLine(d.String())
			}
		})
	}

	return w.Bytes(), nil
}

func (g *Generator) writeClass(w *writer.Writer, class definition.Class) {
	heading := "class " + class.Qualified
	if class.Final {
		heading = "final " + heading
	}
	if class.Parent != "" {
		heading += ": " + class.Parent
	}

	w.Section(heading, func() {
		w.Field("symbol", class.Symbol)
		w.Field("namespace", class.Namespace)
		w.Field("api", class.API)

		constants := make([]string, len(class.Constants))
		for i, c := range class.Constants {
			constants[i] = fmt.Sprintf("%s = %d", c.Name, c.Value)
		}
		w.List("constants:", constants)

		w.Section("enumerations:", func() {
			for _, enum := range class.Enumerations {
				cases := make([]string, len(enum.Cases))
				for i, c := range enum.Cases {
					cases[i] = fmt.Sprintf("case %s = %d", c.Name, c.Value)
				}
				w.List("enum "+enum.Qualified, cases)
			}
		})

		w.Section("properties:", func() {
			for _, p := range class.Properties {
				g.writeProperty(w, p)
			}
		})

		w.Section("methods:", func() {
			for _, m := range class.Methods {
				if m.Hidden && !g.includeHidden {
					continue
				}
				g.writeMethod(w, m)
			}
		})
	})
}

func (g *Generator) writeProperty(w *writer.Writer, p definition.Property) {
	w.Section(declaration(p.Modifiers, "var")+p.Name+": "+p.Outer+where(p.Constraints), func() {
		if p.Index != nil {
			w.Field("index", fmt.Sprint(*p.Index))
		}
		w.Field("get", p.Getter+" -> "+p.Result)
		if p.Setter != "" {
			w.Field("set", p.Setter+"("+p.Argument+")")
		}
	})
}

func (g *Generator) writeMethod(w *writer.Writer, m definition.Method) {
	arguments := make([]string, len(m.Parameters))
	expressions := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		arguments[i] = fmt.Sprintf("%s %s: %s", p.Label, p.Name, p.Outer)
		if p.Default != "" {
			arguments[i] += " = " + p.Default
		}
		expressions[i] = p.Expression
	}

	signature := fmt.Sprintf("%s%s%s(%s) -> %s%s",
		declaration(m.Modifiers, "func"), m.Name, angled(m.Generics),
		strings.Join(arguments, ", "), m.Return.Outer, where(m.Constraints))

	w.Section(signature, func() {
		var notes []string
		for _, flag := range []struct {
			set  bool
			name string
		}{
			{m.Hidden, "hidden"},
			{m.Const, "const"},
			{m.Variadic, "variadic"},
			{m.EditorOnly, "editor"},
			{m.NoScript, "noscript"},
			{m.Virtual, "virtual"},
		} {
			if flag.set {
				notes = append(notes, flag.name)
			}
		}
		w.Field("qualifiers", strings.Join(notes, " "))
		w.Field("call", m.Symbol+"("+strings.Join(expressions, ", ")+")")
		w.Field("return", m.Return.Expression)
	})
}

func declaration(modifiers []string, keyword string) string {
	return strings.Join(slices.Concat(modifiers, []string{keyword}), " ") + " "
}

func angled(generics []string) string {
	if len(generics) == 0 {
		return ""
	}
	return "<" + strings.Join(generics, ", ") + ">"
}

func where(constraints []string) string {
	if len(constraints) == 0 {
		return ""
	}
	return " where " + strings.Join(constraints, ", ")
}
