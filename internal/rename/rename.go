// Package rename implements the identifier-renaming engine. Given a
// circuit, a rename ledger, a skip set and a per-name rule, it produces an
// equivalent circuit in which every declared identifier has been passed
// through the rule and every use site updated consistently, recording all
// old→new mappings in the ledger.
package rename

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdb-alcorn/firrtl/internal/graph"
	"github.com/tdb-alcorn/firrtl/internal/ir"
	"github.com/tdb-alcorn/firrtl/internal/namespace"
	"github.com/tdb-alcorn/firrtl/internal/renamemap"
	"github.com/tdb-alcorn/firrtl/internal/target"
)

// ErrNilRule is returned by Run when no rule is supplied.
var ErrNilRule = errors.New("rename: nil rule")

// InvariantError reports input IR the engine's assumptions do not cover,
// e.g. a subfield whose base is neither an instance nor a memory. The whole
// run aborts; there is no partial result.
type InvariantError struct {
	Module string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("rename: module %s: %s", e.Module, e.Detail)
}

// entryKind distinguishes what a module-local alias denotes.
type entryKind int

const (
	kindInstance entryKind = iota
	kindMemory
)

// instEntry resolves a local alias to the instance or memory it denotes.
// The carried targets are keyed under original names, the key space the
// ledger is addressed with.
type instEntry struct {
	kind     entryKind
	ofModule target.Module    // instance: the instantiated module's address
	mem      target.Reference // memory: the memory's own address
}

// instKey addresses an instance-map entry: the alias as it reads after the
// declaration pass, scoped to its module.
type instKey struct {
	module string // original module name
	name   string // post-rename local alias
}

// session holds the mutable state of one engine run: the namespace map, the
// instance map and the write side of the ledger. It is created per Run and
// discarded afterwards.
type session struct {
	rule       Rule
	skips      *SkipSet
	renames    *renamemap.RenameMap
	circuit    target.Circuit // original circuit name: the ledger key space
	newCircuit string
	namespaces map[string]*namespace.Namespace
	instances  map[instKey]instEntry
}

// Run renames every declared identifier of c through rule, threading all
// old→new mappings through renames. Targets in skips pass through
// untouched. The input circuit is not mutated; a new circuit value is
// returned.
func Run(c *ir.Circuit, renames *renamemap.RenameMap, skips *SkipSet, rule Rule) (*ir.Circuit, error) {
	if rule == nil {
		return nil, ErrNilRule
	}
	if errs := ir.Validate(c); len(errs) > 0 {
		return nil, &InvariantError{Module: c.Main, Detail: "invalid input circuit: " + strings.Join(errs, "; ")}
	}

	ct := target.Circuit{Circuit: c.Main}

	// Skipping the circuit-level target suppresses the whole run: the
	// circuit passes through untouched and the ledger gains no entries.
	if skips.Contains(ct) {
		return &ir.Circuit{Main: c.Main, Modules: append([]ir.DefModule(nil), c.Modules...)}, nil
	}

	s := &session{
		rule:       rule,
		skips:      skips,
		renames:    renames,
		circuit:    ct,
		newCircuit: c.Main,
		namespaces: make(map[string]*namespace.Namespace),
		instances:  make(map[instKey]instEntry),
	}

	circuitNS := namespace.FromCircuit(c)
	s.namespaces[ct.Key()] = circuitNS
	if newName, ok := rule(c.Main, circuitNS); ok && newName != c.Main {
		circuitNS.Reserve(newName)
		renames.Record(ct, target.Circuit{Circuit: newName})
		s.newCircuit = newName
	}

	g, err := graph.New(c)
	if err != nil {
		return nil, err
	}
	order, err := g.ModuleOrder()
	if err != nil {
		return nil, err
	}

	renamed := make(map[string]ir.DefModule, len(order))
	for _, m := range order {
		mx, err := s.onModule(m)
		if err != nil {
			return nil, err
		}
		renamed[m.Name()] = mx
	}

	out := &ir.Circuit{Main: s.newCircuit, Modules: make([]ir.DefModule, 0, len(c.Modules))}
	for _, m := range c.Modules {
		out.Modules = append(out.Modules, renamed[m.Name()])
	}
	return out, nil
}

// maybeRename applies the rule to name within ns unless key is skipped. A
// successful rename is reserved in ns and recorded as key→mk(newName).
func (s *session) maybeRename(ns *namespace.Namespace, key target.Target, mk func(string) target.Target, name string) string {
	if s.skips.Contains(key) {
		return name
	}
	newName, ok := s.rule(name, ns)
	if !ok || newName == name {
		return name
	}
	ns.Reserve(newName)
	s.renames.Record(key, mk(newName))
	return newName
}

// onModule renames one module definition. Callees are processed before
// callers, so every ledger entry this module's expressions need is already
// present.
func (s *session) onModule(m ir.DefModule) (ir.DefModule, error) {
	mt := s.circuit.Module(m.Name())
	circuitNS := s.namespaces[s.circuit.Key()]

	newModName := s.maybeRename(circuitNS, mt, func(n string) target.Target {
		return target.Module{Circuit: s.newCircuit, Module: n}
	}, m.Name())

	ext, isExt := m.(*ir.ExtModule)
	if isExt {
		// Opaque internals: only the declared name may change.
		return &ir.ExtModule{Ident: newModName, Ports: ext.Ports}, nil
	}
	mod := m.(*ir.Module)

	ns, ok := s.namespaces[mt.Key()]
	if !ok {
		ns = namespace.FromModule(mod)
		s.namespaces[mt.Key()] = ns
	}
	newMT := target.Module{Circuit: s.newCircuit, Module: newModName}
	mkRef := func(n string) target.Target { return newMT.Ref(n) }

	ports := make([]*ir.Port, len(mod.Ports))
	for i, p := range mod.Ports {
		newName := s.maybeRename(ns, mt.Ref(p.Ident), mkRef, p.Ident)
		ports[i] = &ir.Port{Ident: newName, Direction: p.Direction, Type: p.Type}
	}

	body, err := s.onStmtDecls(mt, newMT, ns, mod.Body)
	if err != nil {
		return nil, err
	}
	body, err = s.onStmtExprs(mt, body)
	if err != nil {
		return nil, err
	}

	return &ir.Module{Ident: newModName, Ports: ports, Body: body}, nil
}

// onStmtDecls walks the statement tree top-down, renaming every declared
// name and populating the instance map. Expressions are left for the second
// pass.
func (s *session) onStmtDecls(mt, newMT target.Module, ns *namespace.Namespace, st ir.Stmt) (ir.Stmt, error) {
	mkRef := func(n string) target.Target { return newMT.Ref(n) }

	switch x := st.(type) {
	case *ir.Block, *ir.Conditionally:
		var err error
		mapped := ir.MapStmt(st, func(sub ir.Stmt) ir.Stmt {
			if err != nil {
				return sub
			}
			var subx ir.Stmt
			subx, err = s.onStmtDecls(mt, newMT, ns, sub)
			if err != nil {
				return sub
			}
			return subx
		})
		return mapped, err

	case *ir.Wire:
		newName := s.maybeRename(ns, mt.Ref(x.Ident), mkRef, x.Ident)
		return &ir.Wire{Ident: newName, Type: x.Type}, nil

	case *ir.Register:
		newName := s.maybeRename(ns, mt.Ref(x.Ident), mkRef, x.Ident)
		return &ir.Register{Ident: newName, Type: x.Type, Clock: x.Clock}, nil

	case *ir.Node:
		newName := s.maybeRename(ns, mt.Ref(x.Ident), mkRef, x.Ident)
		return &ir.Node{Ident: newName, Value: x.Value}, nil

	case *ir.Instance:
		return s.onInstance(mt, newMT, ns, x)

	case *ir.Memory:
		return s.onMemory(mt, newMT, ns, x)

	default:
		return st, nil
	}
}

// onInstance renames an instance declaration. The instantiated module's
// current name is resolved read-only first: leaf-to-root order guarantees
// its rename, if any, is already in the ledger.
func (s *session) onInstance(mt, newMT target.Module, ns *namespace.Namespace, x *ir.Instance) (ir.Stmt, error) {
	ofNew := x.Module
	if t, ok := s.renames.Get(s.circuit.Module(x.Module)); ok {
		if modT, ok := t.(target.Module); ok {
			ofNew = modT.Module
		}
	}

	instT := mt.InstOf(x.Ident, x.Module)
	name := x.Ident
	if !s.skips.Contains(instT) {
		if newName, ok := s.rule(x.Ident, ns); ok && newName != x.Ident {
			ns.Reserve(newName)
			// An instance alias is also addressable as a plain reference,
			// which is how expressions spell it; record both.
			s.renames.Record(instT, target.Instance{
				Circuit:  s.newCircuit,
				Module:   newMT.Module,
				Instance: newName,
				OfModule: ofNew,
			})
			s.renames.Record(mt.Ref(x.Ident), newMT.Ref(newName))
			name = newName
		}
	}

	s.instances[instKey{module: mt.Module, name: name}] = instEntry{
		kind:     kindInstance,
		ofModule: s.circuit.Module(x.Module),
	}
	return &ir.Instance{Ident: name, Module: ofNew}, nil
}

// onMemory renames a memory declaration and its reader/writer/readwriter
// names within a namespace of their own.
func (s *session) onMemory(mt, newMT target.Module, ns *namespace.Namespace, x *ir.Memory) (ir.Stmt, error) {
	memT := mt.Ref(x.Ident)
	newMem := s.maybeRename(ns, memT, func(n string) target.Target { return newMT.Ref(n) }, x.Ident)

	sub, ok := s.namespaces[memT.Key()]
	if !ok {
		sub = namespace.FromMemory(x)
		s.namespaces[memT.Key()] = sub
	}
	onPort := func(port string) string {
		return s.maybeRename(sub, memT.FieldOf(port), func(n string) target.Target {
			return newMT.Ref(newMem).FieldOf(n)
		}, port)
	}
	readers := make([]string, len(x.Readers))
	for i, r := range x.Readers {
		readers[i] = onPort(r)
	}
	writers := make([]string, len(x.Writers))
	for i, w := range x.Writers {
		writers[i] = onPort(w)
	}
	readwriters := make([]string, len(x.ReadWriters))
	for i, rw := range x.ReadWriters {
		readwriters[i] = onPort(rw)
	}

	s.instances[instKey{module: mt.Module, name: newMem}] = instEntry{
		kind: kindMemory,
		mem:  memT,
	}
	return &ir.Memory{
		Ident:        newMem,
		DataType:     x.DataType,
		Depth:        x.Depth,
		ReadLatency:  x.ReadLatency,
		WriteLatency: x.WriteLatency,
		Readers:      readers,
		Writers:      writers,
		ReadWriters:  readwriters,
	}, nil
}

// onStmtExprs rewrites every expression in the statement tree, bottom-up
// through child statements first.
func (s *session) onStmtExprs(mt target.Module, st ir.Stmt) (ir.Stmt, error) {
	var err error
	st = ir.MapStmt(st, func(sub ir.Stmt) ir.Stmt {
		if err != nil {
			return sub
		}
		var subx ir.Stmt
		subx, err = s.onStmtExprs(mt, sub)
		if err != nil {
			return sub
		}
		return subx
	})
	if err != nil {
		return nil, err
	}
	st = ir.MapStmtExpr(st, func(e ir.Expr) ir.Expr {
		if err != nil {
			return e
		}
		var ex ir.Expr
		ex, err = s.onExpr(mt, e)
		if err != nil {
			return e
		}
		return ex
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// onExpr rewrites one expression. All lookups are read-only: the ledger and
// namespaces are not touched here.
func (s *session) onExpr(mt target.Module, e ir.Expr) (ir.Expr, error) {
	switch x := e.(type) {
	case *ir.Reference:
		return &ir.Reference{Ident: s.resolveRef(mt, x.Ident)}, nil

	case *ir.SubField:
		return s.onSubField(mt, x)

	default:
		var err error
		mapped := ir.MapExpr(e, func(sub ir.Expr) ir.Expr {
			if err != nil {
				return sub
			}
			var subx ir.Expr
			subx, err = s.onExpr(mt, sub)
			if err != nil {
				return sub
			}
			return subx
		})
		return mapped, err
	}
}

// onSubField rewrites a field selection. A one-level subfield of a
// reference selects an instance port or a memory reader/writer/readwriter;
// a deeper selection keeps its own field name, since those inner fields
// follow a fixed schema that renaming never touches.
func (s *session) onSubField(mt target.Module, x *ir.SubField) (ir.Expr, error) {
	base, ok := x.Expr.(*ir.Reference)
	if !ok {
		basex, err := s.onExpr(mt, x.Expr)
		if err != nil {
			return nil, err
		}
		return &ir.SubField{Expr: basex, Name: x.Name}, nil
	}

	baseName := s.resolveRef(mt, base.Ident)
	entry, found := s.instances[instKey{module: mt.Module, name: baseName}]
	if !found {
		return nil, &InvariantError{
			Module: mt.Module,
			Detail: fmt.Sprintf("subfield base %q is neither an instance nor a memory", base.Ident),
		}
	}

	fieldName := x.Name
	switch entry.kind {
	case kindInstance:
		// The port's identity lives in the instantiated module's scope.
		if t, ok := s.renames.Get(entry.ofModule.Ref(x.Name)); ok {
			if rt, ok := t.(target.Reference); ok {
				fieldName = rt.Ref
			}
		}
	case kindMemory:
		if t, ok := s.renames.Get(entry.mem.FieldOf(x.Name)); ok {
			if rt, ok := t.(target.Reference); ok && len(rt.Field) > 0 {
				fieldName = rt.Field[len(rt.Field)-1]
			}
		}
	}
	return &ir.SubField{Expr: &ir.Reference{Ident: baseName}, Name: fieldName}, nil
}

// resolveRef is the read-only ledger lookup for a plain reference in this
// module's scope: exactly one replacement substitutes, anything else leaves
// the name unchanged.
func (s *session) resolveRef(mt target.Module, name string) string {
	if t, ok := s.renames.Get(mt.Ref(name)); ok {
		if rt, ok := t.(target.Reference); ok {
			return rt.Ref
		}
	}
	return name
}
