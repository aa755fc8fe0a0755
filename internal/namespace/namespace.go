// Package namespace provides per-scope name reservation sets used to keep
// renamed identifiers collision-free. A namespace covers exactly one scope
// (circuit, module, or a memory's port set); namespaces never nest.
package namespace

import (
	"strconv"

	mapset "github.com/deckarep/golang-set"

	"github.com/tdb-alcorn/firrtl/internal/ir"
)

// suffixDelim separates a base name from the numeric suffix appended by
// Allocate.
const suffixDelim = "_"

// Namespace is a mutable set of reserved names for one scope.
type Namespace struct {
	names mapset.Set
}

// New creates an empty namespace.
func New() *Namespace {
	return &Namespace{names: mapset.NewSet()}
}

// FromCircuit creates a namespace seeded with the names of every module in
// the circuit.
func FromCircuit(c *ir.Circuit) *Namespace {
	ns := New()
	for _, m := range c.Modules {
		ns.Reserve(m.Name())
	}
	return ns
}

// FromModule creates a namespace seeded with the module's port names and
// every name declared in its statement tree. External modules seed only
// their port names.
func FromModule(m ir.DefModule) *Namespace {
	ns := New()
	for _, p := range m.ModulePorts() {
		ns.Reserve(p.Ident)
	}
	mod, ok := m.(*ir.Module)
	if !ok {
		return ns
	}
	ir.WalkStmt(mod.Body, func(s ir.Stmt) {
		switch x := s.(type) {
		case *ir.Wire:
			ns.Reserve(x.Ident)
		case *ir.Register:
			ns.Reserve(x.Ident)
		case *ir.Node:
			ns.Reserve(x.Ident)
		case *ir.Instance:
			ns.Reserve(x.Ident)
		case *ir.Memory:
			ns.Reserve(x.Ident)
		}
	})
	return ns
}

// FromMemory creates a namespace seeded with the union of the memory's
// reader, writer and readwriter names.
func FromMemory(m *ir.Memory) *Namespace {
	ns := New()
	for _, r := range m.Readers {
		ns.Reserve(r)
	}
	for _, w := range m.Writers {
		ns.Reserve(w)
	}
	for _, rw := range m.ReadWriters {
		ns.Reserve(rw)
	}
	return ns
}

// Contains reports whether name is reserved in this scope.
func (ns *Namespace) Contains(name string) bool {
	return ns.names.Contains(name)
}

// Reserve marks name as used in this scope.
func (ns *Namespace) Reserve(name string) {
	ns.names.Add(name)
}

// Allocate returns a name derived from base that collides neither with this
// scope's reservations nor with extra, reserves it, and returns it. The base
// itself is used when free; otherwise the smallest numeric suffix that
// clears all reservations is appended.
func (ns *Namespace) Allocate(base string, extra mapset.Set) string {
	name := base
	for i := 0; ns.taken(name, extra); i++ {
		name = base + suffixDelim + strconv.Itoa(i)
	}
	ns.Reserve(name)
	return name
}

func (ns *Namespace) taken(name string, extra mapset.Set) bool {
	if ns.names.Contains(name) {
		return true
	}
	return extra != nil && extra.Contains(name)
}
