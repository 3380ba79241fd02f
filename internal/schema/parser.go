// Package schema holds the class records of an engine API dump and loads
// them from disk.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"
)

// ErrInvalidSchema is returned for structurally malformed input
var ErrInvalidSchema = errors.New("invalid schema")

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadSchema reads, decodes and validates the class dump at path
func LoadSchema(fs vfs.FileSystem, path string) ([]Class, error) {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: schema file is empty: %s", ErrInvalidSchema, path)
	}

	return ParseSchema(data)
}

// ParseSchema decodes a class dump. JSON and YAML documents are both accepted.
func ParseSchema(data []byte) ([]Class, error) {
	var classes []Class
	if err := yaml.Unmarshal(data, &classes); err != nil {
		return nil, fmt.Errorf("%w: failed to decode class list: %v", ErrInvalidSchema, err)
	}

	if err := Validate(classes); err != nil {
		return nil, err
	}

	return classes, nil
}

// Validate checks the structural constraints of a class list
func Validate(classes []Class) error {
	if len(classes) == 0 {
		return fmt.Errorf("%w: no classes defined", ErrInvalidSchema)
	}

	seen := make(map[string]bool, len(classes))
	for i := range classes {
		class := &classes[i]

		if err := validate.Struct(class); err != nil {
			return fmt.Errorf("%w: class #%d (%s): %s", ErrInvalidSchema, i, class.Name, describe(err))
		}

		if seen[class.Name] {
			return fmt.Errorf("%w: duplicate class %q", ErrInvalidSchema, class.Name)
		}
		seen[class.Name] = true

		if class.Parent == class.Name {
			return fmt.Errorf("%w: class %q inherits from itself", ErrInvalidSchema, class.Name)
		}
	}

	return nil
}

// describe flattens validator errors into one line
func describe(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
