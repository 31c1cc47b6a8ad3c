// Package params implements the parameter model from spec.md §4.1: typed
// input/output descriptors, default application, validation, conditional
// visibility, and grouping.
package params

// Kind is the closed set of parameter kinds spec.md §3 allows.
type Kind string

const (
	KindInteger      Kind = "integer"
	KindFloating     Kind = "floating"
	KindText         Kind = "text"
	KindBoolean      Kind = "boolean"
	KindObject       Kind = "object"
	KindSequence     Kind = "sequence"
	KindNamespacedID Kind = "namespaced_id" // domain-tagged text, e.g. "minecraft:stone"
)

var validKinds = map[Kind]bool{
	KindInteger: true, KindFloating: true, KindText: true, KindBoolean: true,
	KindObject: true, KindSequence: true, KindNamespacedID: true,
}

// ValidKind reports whether k is one of the closed set of recognised kinds.
func ValidKind(k Kind) bool { return validKinds[k] }

// Def is a single parameter definition (ParameterDef in spec.md §3).
type Def struct {
	Kind        Kind
	Default     interface{}
	HasDefault  bool
	Min         *float64
	Max         *float64
	Step        *float64
	Options     []interface{}
	ItemKind    Kind // only meaningful when Kind == KindSequence
	Description string
	Group       string
	DependsOn   map[string]interface{}
}

// Schema is an ordered key -> Def map. Go maps don't preserve insertion
// order, so Schema tracks it explicitly the way the engine needs to for
// applyDefaults/group to behave deterministically (spec.md §4.1 "preserving
// input iteration order").
type Schema struct {
	Keys []string
	Defs map[string]Def
}

// NewSchema builds an empty ordered schema.
func NewSchema() *Schema {
	return &Schema{Defs: make(map[string]Def)}
}

// Set adds or replaces a key's definition, appending to Keys only if new.
func (s *Schema) Set(key string, def Def) {
	if _, exists := s.Defs[key]; !exists {
		s.Keys = append(s.Keys, key)
	}
	s.Defs[key] = def
}

// IOSchema is the two key->Def mappings spec.md §3 describes.
type IOSchema struct {
	Inputs  *Schema
	Outputs *Schema
}
