// Package canonical renders the model as RFC 8785 canonical JSON.
package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/okra-platform/nativegen/internal/definition"
)

// Format is the registry name of this generator
const Format = "json"

// Generator renders canonical JSON. Equal models always render to equal bytes.
type Generator struct{}

// NewGenerator creates a new canonical JSON generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Format returns the name of the output format
func (g *Generator) Format() string {
	return Format
}

// FileExtension returns the file extension for rendered files
func (g *Generator) FileExtension() string {
	return ".json"
}

// Generate marshals the model and canonicalizes the result
func (g *Generator) Generate(model *definition.Model) ([]byte, error) {
	data, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model: %w", err)
	}

	data, err = jcs.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize model: %w", err)
	}

	return data, nil
}

// Digest returns the hex sha256 of the model's canonical form
func Digest(model *definition.Model) (string, error) {
	data, err := NewGenerator().Generate(model)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}
