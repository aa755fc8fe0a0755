// Package target defines structured addresses for renamable entities in a
// circuit hierarchy. A target identifies a circuit, a module, an instance of
// a module, or a declared reference (optionally narrowed to a named field
// such as an instance port or a memory reader).
package target

import (
	"fmt"
	"strings"
)

// Target is the interface for all address variants. The set of variants is
// closed: Circuit, Module, Instance and Reference.
type Target interface {
	// Key returns the canonical string form, used for equality and as a map
	// key. Two targets are equal iff their keys are equal.
	Key() string
	// IsLocal reports whether the target has no instance path, i.e. it names
	// an entity directly owned by its declaring scope.
	IsLocal() bool
	targetNode()
}

// InstanceKey is one step of an instance path: a local instance alias and
// the module it instantiates.
type InstanceKey struct {
	Instance string
	OfModule string
}

// Circuit addresses a whole circuit by name.
type Circuit struct {
	Circuit string
}

func (t Circuit) Key() string   { return "~" + t.Circuit }
func (t Circuit) IsLocal() bool { return true }
func (Circuit) targetNode()     {}

// Module returns the address of a module inside this circuit.
func (t Circuit) Module(name string) Module {
	return Module{Circuit: t.Circuit, Module: name}
}

// Module addresses a module by name within a circuit.
type Module struct {
	Circuit string
	Module  string
}

func (t Module) Key() string   { return fmt.Sprintf("~%s|%s", t.Circuit, t.Module) }
func (t Module) IsLocal() bool { return true }
func (Module) targetNode()     {}

// CircuitTarget returns the address of the enclosing circuit.
func (t Module) CircuitTarget() Circuit {
	return Circuit{Circuit: t.Circuit}
}

// Ref returns the address of a reference declared directly in this module.
func (t Module) Ref(name string) Reference {
	return Reference{Circuit: t.Circuit, Module: t.Module, Ref: name}
}

// InstOf returns the address of an instance declared directly in this
// module.
func (t Module) InstOf(instance, ofModule string) Instance {
	return Instance{Circuit: t.Circuit, Module: t.Module, Instance: instance, OfModule: ofModule}
}

// Instance addresses an instance declaration. Path holds the enclosing
// instance hierarchy; a local instance has an empty path.
type Instance struct {
	Circuit  string
	Module   string
	Path     []InstanceKey
	Instance string
	OfModule string
}

func (t Instance) Key() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("~%s|%s", t.Circuit, t.Module))
	for _, k := range t.Path {
		sb.WriteString(fmt.Sprintf("/%s:%s", k.Instance, k.OfModule))
	}
	sb.WriteString(fmt.Sprintf("/%s:%s", t.Instance, t.OfModule))
	return sb.String()
}

func (t Instance) IsLocal() bool { return len(t.Path) == 0 }
func (Instance) targetNode()     {}

// Reference addresses a declared reference (port, wire, register, node,
// memory or instance alias), optionally narrowed by a field path to a
// sub-port of an instance or memory.
type Reference struct {
	Circuit string
	Module  string
	Path    []InstanceKey
	Ref     string
	Field   []string
}

func (t Reference) Key() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("~%s|%s", t.Circuit, t.Module))
	for _, k := range t.Path {
		sb.WriteString(fmt.Sprintf("/%s:%s", k.Instance, k.OfModule))
	}
	sb.WriteString(">" + t.Ref)
	for _, f := range t.Field {
		sb.WriteString("." + f)
	}
	return sb.String()
}

func (t Reference) IsLocal() bool { return len(t.Path) == 0 }
func (Reference) targetNode()     {}

// Field returns this reference narrowed by one more field-path element.
func (t Reference) FieldOf(name string) Reference {
	field := make([]string, 0, len(t.Field)+1)
	field = append(field, t.Field...)
	field = append(field, name)
	return Reference{Circuit: t.Circuit, Module: t.Module, Path: t.Path, Ref: t.Ref, Field: field}
}
