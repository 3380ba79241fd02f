// Package definition turns the finished class tree into generation-ready
// member definitions: names, modifiers, generic plans and the conversion
// expressions a binding emits for each call.
package definition

import (
	"github.com/okra-platform/nativegen/internal/tree"
)

// Model is everything an emitter needs to render bindings
type Model struct {
	Module      string            `json:"module"`
	Classes     []Class           `json:"classes"`
	Diagnostics []tree.Diagnostic `json:"diagnostics"`
}

// Class is one generated class
type Class struct {
	Symbol       string        `json:"symbol"`
	Name         string        `json:"name"`
	Namespace    string        `json:"namespace"`
	Qualified    string        `json:"qualified"`
	Parent       string        `json:"parent,omitempty"`
	API          string        `json:"api"`
	Final        bool          `json:"final"`
	Instantiable bool          `json:"instantiable"`
	Singleton    bool          `json:"singleton"`
	Managed      bool          `json:"managed"`
	Depth        int           `json:"depth"`
	Constants    []Constant    `json:"constants"`
	Enumerations []Enumeration `json:"enumerations"`
	Properties   []Property    `json:"properties"`
	Methods      []Method      `json:"methods"`
}

type Constant struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Enumeration struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Qualified string `json:"qualified"`
	Cases     []Case `json:"cases"`
}

type Case struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Signature is the generic plan shared by properties and methods
type Signature struct {
	Generics    []string `json:"generics"`
	Constraints []string `json:"constraints"`
}

// Property is a generated property backed by accessor calls
type Property struct {
	Signature
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Modifiers []string `json:"modifiers"`
	Canonical string   `json:"canonical"`
	Outer     string   `json:"outer"`
	Inner     string   `json:"inner"`
	Index     *int     `json:"index,omitempty"`
	Getter    string   `json:"getter"`
	Setter    string   `json:"setter,omitempty"`

	// Result converts the getter's wire result, held in `result`
	Result string `json:"result"`
	// Argument converts the assigned `value` for the setter call
	Argument string `json:"argument,omitempty"`
}

// Method is a generated method
type Method struct {
	Signature
	Symbol     string      `json:"symbol"`
	Name       string      `json:"name"`
	Modifiers  []string    `json:"modifiers"`
	Hidden     bool        `json:"hidden"`
	Const      bool        `json:"const"`
	Variadic   bool        `json:"variadic"`
	EditorOnly bool        `json:"editor_only"`
	NoScript   bool        `json:"no_script"`
	Virtual    bool        `json:"virtual"`
	Parameters []Parameter `json:"parameters"`
	Return     Return      `json:"return"`
}

// Parameter is one generated method argument. Name is the local binding
// the argument expression refers to.
type Parameter struct {
	Label      string `json:"label"`
	Name       string `json:"name"`
	Outer      string `json:"outer"`
	Inner      string `json:"inner"`
	Default    string `json:"default,omitempty"`
	Expression string `json:"expression"`
}

// Return describes the result of a generated method. Expression is empty
// for methods returning nothing.
type Return struct {
	Outer      string `json:"outer"`
	Inner      string `json:"inner"`
	Expression string `json:"expression,omitempty"`
}
