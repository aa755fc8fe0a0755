// Package graph builds the module instantiation graph of a circuit and
// provides the leaf-to-root module ordering the rename engine traverses.
package graph

import (
	"fmt"

	"github.com/tdb-alcorn/firrtl/internal/ir"
)

// InstanceGraph records, per module, which modules it instantiates.
type InstanceGraph struct {
	circuit  *ir.Circuit
	byName   map[string]ir.DefModule
	children map[string][]string // module name -> instantiated module names, in declaration order
}

// New builds the instantiation graph of a circuit. Instances of undefined
// modules are an error: the engine cannot resolve references into a module
// that does not exist.
func New(c *ir.Circuit) (*InstanceGraph, error) {
	g := &InstanceGraph{
		circuit:  c,
		byName:   make(map[string]ir.DefModule),
		children: make(map[string][]string),
	}
	for _, m := range c.Modules {
		if _, dup := g.byName[m.Name()]; dup {
			return nil, fmt.Errorf("graph: duplicate module %s", m.Name())
		}
		g.byName[m.Name()] = m
	}
	for _, m := range c.Modules {
		mod, ok := m.(*ir.Module)
		if !ok {
			continue
		}
		var deps []string
		var badInst error
		ir.WalkStmt(mod.Body, func(s ir.Stmt) {
			inst, ok := s.(*ir.Instance)
			if !ok {
				return
			}
			if _, defined := g.byName[inst.Module]; !defined {
				if badInst == nil {
					badInst = fmt.Errorf("graph: module %s instantiates undefined module %s", mod.Ident, inst.Module)
				}
				return
			}
			deps = append(deps, inst.Module)
		})
		if badInst != nil {
			return nil, badInst
		}
		g.children[mod.Ident] = deps
	}
	return g, nil
}

// Module returns the definition of the named module.
func (g *InstanceGraph) Module(name string) (ir.DefModule, bool) {
	m, ok := g.byName[name]
	return m, ok
}

// ModuleOrder returns every module of the circuit in leaf-to-root order: no
// module appears before a module it instantiates. Unreachable modules are
// included, visited in declaration order. An instantiation cycle is an
// error.
func (g *InstanceGraph) ModuleOrder() ([]ir.DefModule, error) {
	var order []ir.DefModule
	visiting := make(map[string]bool) // recursion stack
	visited := make(map[string]bool)  // completed nodes

	var visit func(name string) error
	visit = func(name string) error {
		if visited[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("graph: instantiation cycle through module %s", name)
		}
		visiting[name] = true
		for _, child := range g.children[name] {
			if err := visit(child); err != nil {
				return err
			}
		}
		visiting[name] = false
		visited[name] = true
		order = append(order, g.byName[name])
		return nil
	}

	// Start at the top module so the reachable hierarchy comes out in one
	// post-order sweep, then pick up any unreachable modules.
	if _, ok := g.byName[g.circuit.Main]; ok {
		if err := visit(g.circuit.Main); err != nil {
			return nil, err
		}
	}
	for _, m := range g.circuit.Modules {
		if err := visit(m.Name()); err != nil {
			return nil, err
		}
	}
	return order, nil
}
