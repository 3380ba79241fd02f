package canonical

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/nativegen/internal/definition"
)

func sample() *definition.Model {
	return &definition.Model{
		Module: "Godot",
		Classes: []definition.Class{
			{
				Symbol:    "Object",
				Name:      "AnyDelegate",
				Namespace: "root",
				Qualified: "Godot.AnyDelegate",
				API:       "core",
				Constants: []definition.Constant{{Name: "NOTIFICATION_PREDELETE", Value: 1}},
				Methods: []definition.Method{
					{
						Signature: definition.Signature{Generics: []string{"T0"}, Constraints: []string{"T0:FixedWidthInteger"}},
						Symbol:    "get_instance_id",
						Name:      "getInstanceId",
						Modifiers: []string{"final"},
						Return:    definition.Return{Outer: "T0", Inner: "Int64", Expression: "T0.init(result)"},
					},
				},
			},
		},
	}
}

func TestGenerator_Canonical(t *testing.T) {
	// Test plan:
	// - Output is valid JSON with keys in sorted order
	// - Rendering twice gives identical bytes

	g := NewGenerator()
	assert.Equal(t, "json", g.Format())
	assert.Equal(t, ".json", g.FileExtension())

	first, err := g.Generate(sample())
	require.NoError(t, err)
	second, err := g.Generate(sample())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(first, &decoded))
	assert.Equal(t, "Godot", decoded["module"])

	// Canonical JSON sorts keys and drops insignificant whitespace
	assert.Contains(t, string(first), `{"classes":[{"api":"core",`)
	assert.NotContains(t, string(first), "\n")
}

func TestDigest(t *testing.T) {
	a, err := Digest(sample())
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := Digest(sample())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := sample()
	changed.Module = "Engine"
	c, err := Digest(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
