package schema

import "encoding/json"

// NoIndex marks a property that is not indexed
const NoIndex = -1

// API is the engine API tier a class belongs to
type API string

const (
	APICore  API = "core"
	APITools API = "tools"
)

// Class is one record of the engine's class dump
type Class struct {
	Name         string         `json:"name" validate:"required"`
	Parent       string         `json:"base_class"`
	API          API            `json:"api_type" validate:"omitempty,oneof=core tools"`
	Singleton    string         `json:"singleton_name"`
	Instantiable bool           `json:"instanciable"`
	Managed      bool           `json:"is_reference"`
	Constants    map[string]int `json:"constants"`
	Properties   []Property     `json:"properties" validate:"dive"`
	Methods      []Method       `json:"methods" validate:"dive"`
	Enumerations []Enumeration  `json:"enums" validate:"dive"`
}

// Tier returns the API tier, defaulting to core
func (c Class) Tier() API {
	if c.API == "" {
		return APICore
	}
	return c.API
}

// Property represents a property backed by getter and setter methods
type Property struct {
	Name   string `json:"name" validate:"required"`
	Type   string `json:"type"`
	Getter string `json:"getter" validate:"required"`
	Setter string `json:"setter"`
	Index  int    `json:"index" validate:"gte=-1"`
}

// UnmarshalJSON defaults a missing index to NoIndex
func (p *Property) UnmarshalJSON(data []byte) error {
	type plain Property
	decoded := plain{Index: NoIndex}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Property(decoded)
	return nil
}

// Indexed reports whether the property selects its value by index
func (p Property) Indexed() bool {
	return p.Index != NoIndex
}

// Argument represents a single method argument
type Argument struct {
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type" validate:"required"`
	Default string `json:"default_value"`
}

// Method represents a bound engine method
type Method struct {
	Name       string     `json:"name" validate:"required"`
	Arguments  []Argument `json:"arguments" validate:"dive"`
	Return     string     `json:"return_type" validate:"required"`
	EditorOnly bool       `json:"is_editor"`
	NoScript   bool       `json:"is_noscript"`
	Const      bool       `json:"is_const"`
	Virtual    bool       `json:"is_virtual"`
	Variadic   bool       `json:"has_varargs"`
}

// Enumeration represents an enum declared inside a class
type Enumeration struct {
	Name  string         `json:"name" validate:"required"`
	Cases map[string]int `json:"values"`
}
