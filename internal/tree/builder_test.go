package tree

import (
	"bytes"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/nativegen/internal/schema"
	"github.com/okra-platform/nativegen/internal/types"
)

func parse(t *testing.T, input string) []schema.Class {
	t.Helper()
	classes, err := schema.ParseSchema([]byte(dedent.Dedent(input)))
	require.NoError(t, err)
	return classes
}

func build(t *testing.T, input string) *Result {
	t.Helper()
	result, err := Build(parse(t, input), Options{})
	require.NoError(t, err)
	return result
}

func lookup(t *testing.T, result *Result, symbol string) *Node {
	t.Helper()
	node, ok := result.Forest.Lookup(symbol)
	require.True(t, ok, "class %q not in forest", symbol)
	return node
}

const engineClasses = `
	- name: Object
	  instanciable: true
	  methods:
	    - name: emit_signal
	      return_type: void
	      has_varargs: true
	      arguments:
	        - name: signal
	          type: String
	    - name: free
	      return_type: void
	- name: Reference
	  base_class: Object
	  instanciable: true
	  methods:
	    - name: reference
	      return_type: bool
	    - name: unreference
	      return_type: bool
	- name: Resource
	  base_class: Reference
	  is_reference: true
	  instanciable: true
	- name: NativeScript
	  base_class: Resource
	  is_reference: true
	  instanciable: true
	- name: _Engine
	  base_class: Object
	  singleton_name: Engine
	- name: Light
	  base_class: Node
	  api_type: tools
	  enums:
	    - name: LightParam
	      values:
	        LIGHT_PARAM_ENERGY: 0
	        LIGHT_PARAM_RANGE: 1
	- name: VisualShader
	  base_class: Object
	  enums:
	    - name: Type
	      values:
	        TYPE_VERTEX: 0
	        TYPE_FRAGMENT: 1
	- name: Node
	  base_class: Object
	  instanciable: true
	  constants:
	    NOTIFICATION_READY: 13
	  enums:
	    - name: PauseMode
	      values:
	        PAUSE_MODE_STOP: 1
	        PAUSE_MODE_PROCESS: 2
	        PAUSE_MODE_INHERIT: 0
	  properties:
	    - name: pause_mode
	      type: int
	      getter: get_pause_mode
	      setter: set_pause_mode
	  methods:
	    - name: get_pause_mode
	      return_type: enum.Node::PauseMode
	    - name: set_pause_mode
	      return_type: void
	      arguments:
	        - name: mode
	          type: int
	    - name: add_child
	      return_type: void
	      arguments:
	        - name: arg0
	          type: Node
	        - name: legible_unique_name
	          type: bool
	          default_value: "False"
`

func TestBuild_Namespaces(t *testing.T) {
	// Test plan:
	// - Object and Reference are renamed to the root identities
	// - Managed classes live in the root tier, the rest in unmanaged
	// - Singletons are named after the singleton, not the class
	// - NativeScript is renamed so it does not shadow the generated name

	result := build(t, engineClasses)

	tests := []struct {
		symbol    string
		qualified string
		flags     Flags
	}{
		{symbol: "Object", qualified: "Godot.AnyDelegate", flags: Flags{Instantiable: true}},
		{symbol: "Reference", qualified: "Godot.AnyObject", flags: Flags{Instantiable: true, Managed: true}},
		{symbol: "Resource", qualified: "Godot.Resource", flags: Flags{Instantiable: true, Managed: true}},
		{symbol: "NativeScript", qualified: "Godot.NativeScriptDelegate", flags: Flags{Instantiable: true, Managed: true}},
		{symbol: "_Engine", qualified: "Godot.Singleton.Engine", flags: Flags{Singleton: true}},
		{symbol: "Node", qualified: "Godot.Unmanaged.Node", flags: Flags{Instantiable: true}},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			node := lookup(t, result, tt.symbol)
			assert.Equal(t, tt.qualified, node.Identifier.Qualified(DefaultModule))
			assert.Equal(t, tt.flags, node.Flags)

			typ, ok := result.Types.Lookup(tt.symbol)
			require.True(t, ok)
			assert.Equal(t, types.ObjectType(tt.qualified), typ)
		})
	}

	assert.True(t, lookup(t, result, "Object").Identifier.Equal(DelegateRoot))
	assert.True(t, lookup(t, result, "Reference").Identifier.Equal(ReferenceRoot))
	assert.Equal(t, schema.APITools, lookup(t, result, "Light").API)
	assert.Equal(t, 13, lookup(t, result, "Node").Constants["NOTIFICATION_READY"])
}

func TestBuild_Module(t *testing.T) {
	result, err := Build(parse(t, engineClasses), Options{Module: "Engine"})
	require.NoError(t, err)

	typ, ok := result.Types.Lookup("Node")
	require.True(t, ok)
	assert.Equal(t, "Engine.Unmanaged.Node", typ.Name)
}

func TestBuild_Enumerations(t *testing.T) {
	// Test plan:
	// - Cases are ordered by value and lose their common prefix
	// - Enum names are factored out of the owning class name
	// - Known collisions are renamed
	// - Enums register under owner::name and resolve through the enum. prefix

	result := build(t, engineClasses)

	node := lookup(t, result, "Node")
	require.Len(t, node.Enumerations, 1)
	pause := node.Enumerations[0]
	assert.Equal(t, "PauseMode", pause.Symbol)
	assert.Equal(t, "PauseMode", pause.Name.String())

	var names []string
	var values []int
	for _, c := range pause.Cases {
		names = append(names, c.Name.String())
		values = append(values, c.Value)
	}
	assert.Equal(t, []string{"Inherit", "Stop", "Process"}, names)
	assert.Equal(t, []int{0, 1, 2}, values)

	light := lookup(t, result, "Light")
	require.Len(t, light.Enumerations, 1)
	assert.Equal(t, "Parameter", light.Enumerations[0].Name.String())
	assert.Equal(t, "Energy", light.Enumerations[0].Cases[0].Name.String())

	shader := lookup(t, result, "VisualShader")
	require.Len(t, shader.Enumerations, 1)
	assert.Equal(t, "Shader", shader.Enumerations[0].Name.String())
	assert.Equal(t, "Vertex", shader.Enumerations[0].Cases[0].Name.String())

	typ, ok := result.Types.Lookup("enum.Node::PauseMode")
	require.True(t, ok)
	assert.Equal(t, types.EnumerationType("Godot.Unmanaged.Node.PauseMode"), typ)

	typ, ok = result.Types.Lookup("Light::LightParam")
	require.True(t, ok)
	assert.Equal(t, types.EnumerationType("Godot.Unmanaged.Light.Parameter"), typ)
}

func TestBuild_Members(t *testing.T) {
	// Test plan:
	// - An enum getter pairs with an int setter
	// - Accessor methods stay registered but hidden
	// - Lifecycle methods on the two roots are hidden
	// - Positional argument names lose their label

	result := build(t, engineClasses)
	node := lookup(t, result, "Node")

	property, ok := node.Property("pause_mode")
	require.True(t, ok)
	assert.Equal(t, types.EnumerationType("Godot.Unmanaged.Node.PauseMode"), property.Type)
	assert.Equal(t, "getPauseMode", property.Getter.Name())
	require.NotNil(t, property.Setter)
	assert.Equal(t, "setPauseMode", property.Setter.Name())
	assert.Nil(t, property.Index)
	assert.Equal(t, "pauseMode", property.Name())

	getter, ok := node.Method("get_pause_mode")
	require.True(t, ok)
	assert.True(t, getter.Hidden)

	addChild, ok := node.Method("add_child")
	require.True(t, ok)
	assert.False(t, addChild.Hidden)
	assert.Equal(t, []string{"_", "legibleUniqueName"}, addChild.Labels())
	assert.Equal(t, types.ObjectType("Godot.Unmanaged.Node"), addChild.Parameters[0].Type)
	assert.Equal(t, "False", addChild.Parameters[1].Default)

	emit, ok := lookup(t, result, "Object").Method("emit_signal")
	require.True(t, ok)
	assert.True(t, emit.Hidden)
	assert.True(t, emit.Qualifiers.Variadic)

	free, ok := lookup(t, result, "Object").Method("free")
	require.True(t, ok)
	assert.False(t, free.Hidden)

	for _, symbol := range []string{"reference", "unreference"} {
		m, ok := lookup(t, result, "Reference").Method(symbol)
		require.True(t, ok)
		assert.True(t, m.Hidden, symbol)
	}

	assert.Empty(t, result.Diagnostics)
}

func TestBuild_IndexedProperty(t *testing.T) {
	result := build(t, `
		- name: Object
		  properties:
		    - name: frame_0
		      type: float
		      getter: get_frame
		      setter: set_frame
		      index: 0
		  methods:
		    - name: get_frame
		      return_type: float
		      arguments:
		        - name: index
		          type: int
		    - name: set_frame
		      return_type: void
		      arguments:
		        - name: index
		          type: int
		        - name: value
		          type: float
	`)

	property, ok := lookup(t, result, "Object").Property("frame_0")
	require.True(t, ok)
	require.NotNil(t, property.Index)
	assert.Equal(t, 0, *property.Index)
	assert.Equal(t, types.Of(types.Float), property.Type)
}

func TestBuild_InheritedAccessors(t *testing.T) {
	// Test plan:
	// - A property may use a getter and setter declared only on an ancestor
	// - The accessors stay on the ancestor and are not copied down
	// - Declaring the property does not make it an override

	result := build(t, `
		- name: Base
		  methods:
		    - name: get_value
		      return_type: float
		    - name: set_value
		      return_type: void
		      arguments:
		        - name: value
		          type: float
		- name: Derived
		  base_class: Base
		  properties:
		    - name: value
		      getter: get_value
		      setter: set_value
	`)

	assert.Empty(t, result.Diagnostics)

	property, ok := lookup(t, result, "Derived").Property("value")
	require.True(t, ok)
	assert.Equal(t, types.Of(types.Float), property.Type)
	assert.Equal(t, "getValue", property.Getter.Name())
	require.NotNil(t, property.Setter)
	assert.Equal(t, "setValue", property.Setter.Name())
	assert.False(t, property.Override)
	assert.True(t, property.Final)

	_, ok = lookup(t, result, "Derived").Method("get_value")
	assert.False(t, ok)
	_, ok = lookup(t, result, "Base").Method("get_value")
	assert.True(t, ok)
}

func TestBuild_Recoverable(t *testing.T) {
	// Test plan:
	// - Each recoverable condition drops only its own member
	// - Every drop is reported as a diagnostic and logged

	var logs bytes.Buffer
	classes := parse(t, `
		- name: Object
		  properties:
		    - name: frame/0
		      type: int
		      getter: get_frame
		    - name: ghost
		      type: int
		      getter: get_ghost
		    - name: noisy
		      type: int
		      getter: get_noisy
		      setter: set_noisy
		    - name: strange
		      type: Mystery
		      getter: get_strange
		    - name: kept
		      type: int
		      getter: get_kept
		  methods:
		    - name: get_frame
		      return_type: int
		    - name: get_noisy
		      return_type: int
		    - name: set_noisy
		      return_type: bool
		      arguments:
		        - name: value
		          type: int
		    - name: get_strange
		      return_type: Mystery
		    - name: get_kept
		      return_type: int
		    - name: call_strange
		      return_type: void
		      arguments:
		        - name: value
		          type: Mystery
	`)

	result, err := Build(classes, Options{Logger: zerolog.New(&logs)})
	require.NoError(t, err)

	object := lookup(t, result, "Object")
	properties := object.Properties()
	require.Len(t, properties, 1)
	assert.Equal(t, "kept", properties[0].Symbol)

	_, ok := object.Method("call_strange")
	assert.False(t, ok)
	_, ok = object.Method("get_frame")
	assert.True(t, ok)

	var dropped []string
	for _, d := range result.Diagnostics {
		dropped = append(dropped, d.Member)
	}
	assert.Equal(t, []string{"frame/0", "ghost", "noisy", "strange", "get_strange", "call_strange"}, dropped)
	assert.Equal(t, "skipping property 'Object.frame/0' (name contains a path separator)", result.Diagnostics[0].String())
	assert.Equal(t, KindProperty, result.Diagnostics[3].Kind)
	assert.Equal(t, KindMethod, result.Diagnostics[5].Kind)

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "could not find getter 'get_ghost'")
}

func TestBuild_Fatal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		classes []schema.Class
		err     error
	}{
		{
			name: "no root",
			input: `
				- name: A
				  base_class: B
				- name: B
				  base_class: A
			`,
			err: ErrMissingRoot,
		},
		{
			name: "delegate root is not the root",
			input: `
				- name: Base
				- name: Object
				  base_class: Base
			`,
			err: ErrMissingRoot,
		},
		{
			name: "two roots",
			input: `
				- name: A
				- name: B
			`,
			err: ErrMultipleRoots,
		},
		{
			name: "dangling parent",
			input: `
				- name: Object
				- name: Node
				  base_class: Spatial
			`,
			err: ErrUnknownParent,
		},
		{
			name: "cycle below the root",
			input: `
				- name: Object
				- name: A
				  base_class: B
				- name: B
				  base_class: A
			`,
			err: ErrCycle,
		},
		{
			name: "two classes with one identity",
			input: `
				- name: Object
				- name: AnyDelegate
				  base_class: Object
			`,
			err: ErrDuplicateIdentifier,
		},
		{
			name: "duplicate method",
			input: `
				- name: Object
				  methods:
				    - name: free
				      return_type: void
				    - name: free
				      return_type: void
			`,
			err: ErrDuplicateMember,
		},
		{
			name: "getter takes an argument on an unindexed property",
			input: `
				- name: Object
				  properties:
				    - name: value
				      getter: get_value
				  methods:
				    - name: get_value
				      return_type: int
				      arguments:
				        - name: index
				          type: int
			`,
			err: ErrAccessorArity,
		},
		{
			name: "indexed getter without an index",
			input: `
				- name: Object
				  properties:
				    - name: value
				      getter: get_value
				      index: 2
				  methods:
				    - name: get_value
				      return_type: int
			`,
			err: ErrAccessorArity,
		},
		{
			name: "indexed setter missing the value",
			input: `
				- name: Object
				  properties:
				    - name: value
				      getter: get_value
				      setter: set_value
				      index: 2
				  methods:
				    - name: get_value
				      return_type: int
				      arguments:
				        - name: index
				          type: int
				    - name: set_value
				      return_type: void
				      arguments:
				        - name: index
				          type: int
			`,
			err: ErrAccessorArity,
		},
		{
			name: "missing setter",
			input: `
				- name: Object
				  properties:
				    - name: value
				      getter: get_value
				      setter: set_value
				  methods:
				    - name: get_value
				      return_type: int
			`,
			err: ErrMissingSetter,
		},
		{
			name: "getter and setter disagree",
			input: `
				- name: Object
				  properties:
				    - name: value
				      getter: get_value
				      setter: set_value
				  methods:
				    - name: get_value
				      return_type: float
				    - name: set_value
				      return_type: void
				      arguments:
				        - name: value
				          type: int
			`,
			err: ErrAccessorType,
		},
		{
			name: "override changes the value type",
			input: `
				- name: Base
				  properties:
				    - name: value
				      getter: get_value
				  methods:
				    - name: get_value
				      return_type: float
				    - name: get_text
				      return_type: String
				- name: Derived
				  base_class: Base
				  properties:
				    - name: value
				      getter: get_text
			`,
			err: ErrOverrideType,
		},
		{
			name: "enumeration override of an integer property",
			input: `
				- name: Base
				  properties:
				    - name: mode
				      getter: get_mode
				  methods:
				    - name: get_mode
				      return_type: int
				- name: Derived
				  base_class: Base
				  enums:
				    - name: Mode
				      values:
				        MODE_A: 0
				  properties:
				    - name: mode
				      getter: get_derived_mode
				  methods:
				    - name: get_derived_mode
				      return_type: enum.Derived::Mode
			`,
			err: ErrOverrideType,
		},
		{
			name: "class shadows a built-in type",
			input: `
				- name: Object
				- name: String
				  base_class: Object
			`,
			err: types.ErrDuplicateType,
		},
		{
			name:    "malformed input",
			classes: []schema.Class{{Parent: "Object"}},
			err:     schema.ErrInvalidSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes := tt.classes
			if classes == nil {
				classes = parse(t, tt.input)
			}

			result, err := Build(classes, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, result)
		})
	}
}
