package definition

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/nativegen/internal/schema"
	"github.com/okra-platform/nativegen/internal/tree"
)

const classes = `
	- name: Object
	  constants:
	    NOTIFICATION_PREDELETE: 1
	    NOTIFICATION_POSTINITIALIZE: 0
	  methods:
	    - name: get_instance_id
	      return_type: int
	      is_const: true
	    - name: set_meta
	      return_type: void
	      arguments:
	        - name: name
	          type: String
	        - name: value
	          type: Variant
	    - name: get_class
	      return_type: String
	- name: Node
	  base_class: Object
	  instanciable: true
	  enums:
	    - name: PauseMode
	      values:
	        PAUSE_MODE_INHERIT: 0
	        PAUSE_MODE_STOP: 1
	  properties:
	    - name: pause_mode
	      getter: get_pause_mode
	      setter: set_pause_mode
	    - name: position
	      getter: get_position
	  methods:
	    - name: get_pause_mode
	      return_type: enum.Node::PauseMode
	    - name: set_pause_mode
	      return_type: void
	      arguments:
	        - name: mode
	          type: int
	    - name: get_position
	      return_type: Vector2
	    - name: move
	      return_type: Vector2
	      arguments:
	        - name: arg0
	          type: Vector2
	        - name: speed
	          type: float
	          default_value: "1"
	        - name: target
	          type: Node
	    - name: get_class
	      return_type: String
`

func model(t *testing.T, input string, opts Options) *Model {
	t.Helper()
	parsed, err := schema.ParseSchema([]byte(dedent.Dedent(input)))
	require.NoError(t, err)
	result, err := tree.Build(parsed, tree.Options{Module: opts.Module})
	require.NoError(t, err)
	return FromResult(result, opts)
}

func TestBuild_Classes(t *testing.T) {
	// Test plan:
	// - Classes appear parents first with qualified names
	// - Only leaves below the root are final
	// - Constants are sorted and enum cases camelcased

	m := model(t, classes, Options{})
	assert.Equal(t, "Godot", m.Module)
	require.Len(t, m.Classes, 2)

	object := m.Classes[0]
	assert.Equal(t, "Object", object.Symbol)
	assert.Equal(t, "Godot.AnyDelegate", object.Qualified)
	assert.Equal(t, "root", object.Namespace)
	assert.Empty(t, object.Parent)
	assert.False(t, object.Final)
	assert.Equal(t, 0, object.Depth)
	assert.Equal(t, []Constant{
		{Name: "NOTIFICATION_POSTINITIALIZE", Value: 0},
		{Name: "NOTIFICATION_PREDELETE", Value: 1},
	}, object.Constants)

	node, ok := m.Class("Node")
	require.True(t, ok)
	assert.Equal(t, "Godot.Unmanaged.Node", node.Qualified)
	assert.Equal(t, "Godot.AnyDelegate", node.Parent)
	assert.True(t, node.Final)
	assert.True(t, node.Instantiable)
	assert.Equal(t, 1, node.Depth)
	assert.Equal(t, "core", node.API)

	require.Len(t, node.Enumerations, 1)
	assert.Equal(t, "Godot.Unmanaged.Node.PauseMode", node.Enumerations[0].Qualified)
	assert.Equal(t, []Case{{Name: "inherit", Value: 0}, {Name: "stop", Value: 1}}, node.Enumerations[0].Cases)

	assert.Empty(t, m.Diagnostics)
	assert.NotNil(t, m.Diagnostics)
}

func TestBuild_Properties(t *testing.T) {
	m := model(t, classes, Options{})
	node, _ := m.Class("Node")
	require.Len(t, node.Properties, 2)

	pause := node.Properties[0]
	assert.Equal(t, "pauseMode", pause.Name)
	assert.Equal(t, []string{"final"}, pause.Modifiers)
	assert.Equal(t, "Godot.Unmanaged.Node.PauseMode", pause.Outer)
	assert.Equal(t, "Int64", pause.Inner)
	assert.Empty(t, pause.Generics)
	assert.Equal(t, "getPauseMode", pause.Getter)
	assert.Equal(t, "setPauseMode", pause.Setter)
	assert.Equal(t, "Godot.Unmanaged.Node.PauseMode.init(value: result)", pause.Result)
	assert.Equal(t, "value.value", pause.Argument)

	position := node.Properties[1]
	assert.Equal(t, "position", position.Name)
	assert.Equal(t, []string{"T0"}, position.Generics)
	assert.Equal(t, []string{"T0:BinaryFloatingPoint & SIMDScalar"}, position.Constraints)
	assert.Equal(t, "Vector2<T0>", position.Outer)
	assert.Equal(t, "Vector2<Float32>", position.Canonical)
	assert.Empty(t, position.Setter)
	assert.Empty(t, position.Argument)
}

func TestBuild_Methods(t *testing.T) {
	// Test plan:
	// - Arguments take generics before the return value
	// - Overrides carry the override modifier and leave the base virtual
	// - Void methods have no result expression

	m := model(t, classes, Options{GenericPrefix: "U"})
	node, _ := m.Class("Node")
	object, _ := m.Class("Object")

	var move Method
	for _, method := range node.Methods {
		if method.Symbol == "move" {
			move = method
		}
	}
	require.Equal(t, "move", move.Symbol)
	assert.Equal(t, []string{"U0", "U1", "U2"}, move.Generics)
	require.Len(t, move.Parameters, 3)
	assert.Equal(t, Parameter{
		Label:      "_",
		Name:       "t0",
		Outer:      "Vector2<U0>",
		Inner:      "Vector2<Float32>",
		Expression: "Vector2<Float32>.init(t0)",
	}, move.Parameters[0])
	assert.Equal(t, "speed", move.Parameters[1].Label)
	assert.Equal(t, "1", move.Parameters[1].Default)
	assert.Equal(t, "Godot.Unmanaged.Node?", move.Parameters[2].Outer)
	assert.Equal(t, "t2", move.Parameters[2].Expression)
	assert.Equal(t, Return{Outer: "Vector2<U2>", Inner: "Vector2<Float32>", Expression: "Vector2<U2>.init(result)"}, move.Return)

	var getClass, baseGetClass, setMeta Method
	for _, method := range node.Methods {
		if method.Symbol == "get_class" {
			getClass = method
		}
	}
	for _, method := range object.Methods {
		switch method.Symbol {
		case "get_class":
			baseGetClass = method
		case "set_meta":
			setMeta = method
		}
	}
	assert.Equal(t, []string{"final", "override"}, getClass.Modifiers)
	assert.Empty(t, baseGetClass.Modifiers)
	assert.Equal(t, "U0", getClass.Return.Outer)

	assert.Empty(t, setMeta.Return.Expression)
	assert.Equal(t, "()", setMeta.Return.Outer)
	assert.Equal(t, "Godot.VariantExistential.init(variant: t1)", setMeta.Parameters[1].Expression)

	for _, method := range object.Methods {
		if method.Symbol == "get_instance_id" {
			assert.True(t, method.Const)
			assert.Equal(t, "getInstanceId", method.Name)
		}
	}

	for _, method := range node.Methods {
		if method.Symbol == "get_pause_mode" {
			assert.True(t, method.Hidden)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	first := model(t, classes, Options{})
	second := model(t, classes, Options{})

	if diff := deep.Equal(first, second); diff != nil {
		t.Fatalf("models differ between runs: %v", diff)
	}
}

func TestFromResult_CarriesDiagnostics(t *testing.T) {
	m := model(t, `
		- name: Object
		  methods:
		    - name: broken
		      return_type: Mystery
	`, Options{Module: "Engine"})

	require.Len(t, m.Diagnostics, 1)
	assert.Equal(t, "broken", m.Diagnostics[0].Member)
	assert.Equal(t, "Engine.AnyDelegate", m.Classes[0].Qualified)
}
