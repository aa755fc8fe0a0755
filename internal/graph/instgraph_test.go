package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdb-alcorn/firrtl/internal/ir"
)

func modWithInsts(name string, insts ...string) *ir.Module {
	stmts := make([]ir.Stmt, 0, len(insts))
	for i, of := range insts {
		stmts = append(stmts, &ir.Instance{Ident: "i" + string(rune('a'+i)), Module: of})
	}
	return &ir.Module{Ident: name, Body: &ir.Block{Stmts: stmts}}
}

func names(mods []ir.DefModule) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Name()
	}
	return out
}

func TestModuleOrderLeafFirst(t *testing.T) {
	c := &ir.Circuit{
		Main: "Top",
		Modules: []ir.DefModule{
			modWithInsts("Top", "Mid", "Leaf"),
			modWithInsts("Mid", "Leaf"),
			modWithInsts("Leaf"),
		},
	}
	g, err := New(c)
	require.NoError(t, err)
	order, err := g.ModuleOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"Leaf", "Mid", "Top"}, names(order))
}

func TestModuleOrderUnreachable(t *testing.T) {
	c := &ir.Circuit{
		Main: "Top",
		Modules: []ir.DefModule{
			modWithInsts("Top"),
			modWithInsts("Orphan", "OrphanChild"),
			modWithInsts("OrphanChild"),
		},
	}
	g, err := New(c)
	require.NoError(t, err)
	order, err := g.ModuleOrder()
	require.NoError(t, err)
	// Every module appears, and no module before one it instantiates.
	assert.Equal(t, []string{"Top", "OrphanChild", "Orphan"}, names(order))
}

func TestModuleOrderExtModule(t *testing.T) {
	c := &ir.Circuit{
		Main: "Top",
		Modules: []ir.DefModule{
			modWithInsts("Top", "Box"),
			&ir.ExtModule{Ident: "Box"},
		},
	}
	g, err := New(c)
	require.NoError(t, err)
	order, err := g.ModuleOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"Box", "Top"}, names(order))
}

func TestModuleOrderCycle(t *testing.T) {
	c := &ir.Circuit{
		Main: "A",
		Modules: []ir.DefModule{
			modWithInsts("A", "B"),
			modWithInsts("B", "A"),
		},
	}
	g, err := New(c)
	require.NoError(t, err)
	_, err = g.ModuleOrder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestNewDuplicateModule(t *testing.T) {
	c := &ir.Circuit{
		Main: "Top",
		Modules: []ir.DefModule{
			modWithInsts("Top"),
			modWithInsts("Top"),
		},
	}
	_, err := New(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewUndefinedInstance(t *testing.T) {
	c := &ir.Circuit{
		Main:    "Top",
		Modules: []ir.DefModule{modWithInsts("Top", "Ghost")},
	}
	_, err := New(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ghost")
}

func TestModuleLookup(t *testing.T) {
	c := &ir.Circuit{
		Main:    "Top",
		Modules: []ir.DefModule{modWithInsts("Top")},
	}
	g, err := New(c)
	require.NoError(t, err)
	m, ok := g.Module("Top")
	require.True(t, ok)
	assert.Equal(t, "Top", m.Name())
	_, ok = g.Module("Ghost")
	assert.False(t, ok)
}
