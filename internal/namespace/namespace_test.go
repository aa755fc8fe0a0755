package namespace

import (
	"testing"

	mapset "github.com/deckarep/golang-set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdb-alcorn/firrtl/internal/ir"
)

func TestReserveContains(t *testing.T) {
	ns := New()
	assert.False(t, ns.Contains("head"))
	ns.Reserve("head")
	assert.True(t, ns.Contains("head"))
	assert.False(t, ns.Contains("tail"))
}

func TestAllocate(t *testing.T) {
	ns := New()
	assert.Equal(t, "head", ns.Allocate("head", nil))
	assert.True(t, ns.Contains("head"))

	// Base taken: the smallest free numeric suffix wins.
	assert.Equal(t, "head_0", ns.Allocate("head", nil))
	assert.Equal(t, "head_1", ns.Allocate("head", nil))

	ns.Reserve("tail_0")
	assert.Equal(t, "tail", ns.Allocate("tail", nil))
	assert.Equal(t, "tail_1", ns.Allocate("tail", nil))
}

func TestAllocateExtra(t *testing.T) {
	ns := New()
	extra := mapset.NewSet()
	extra.Add("reg")
	extra.Add("reg_0")

	assert.Equal(t, "reg_1", ns.Allocate("reg", extra))
	assert.True(t, ns.Contains("reg_1"))
	// Extra is consulted, never mutated.
	assert.False(t, extra.Contains("reg_1"))
}

func TestFromCircuit(t *testing.T) {
	c := &ir.Circuit{
		Main: "Top",
		Modules: []ir.DefModule{
			&ir.Module{Ident: "Top"},
			&ir.ExtModule{Ident: "Box"},
		},
	}
	ns := FromCircuit(c)
	assert.True(t, ns.Contains("Top"))
	assert.True(t, ns.Contains("Box"))
	assert.False(t, ns.Contains("Queue"))
}

func TestFromModule(t *testing.T) {
	m := &ir.Module{
		Ident: "Queue",
		Ports: []*ir.Port{
			{Ident: "clk", Direction: ir.Input, Type: &ir.ClockType{}},
			{Ident: "out", Direction: ir.Output, Type: &ir.UIntType{Width: 8}},
		},
		Body: &ir.Block{Stmts: []ir.Stmt{
			&ir.Wire{Ident: "head", Type: &ir.UIntType{Width: 8}},
			&ir.Conditionally{
				Pred:   &ir.Reference{Ident: "clk"},
				Conseq: &ir.Node{Ident: "next", Value: &ir.Reference{Ident: "head"}},
				Alt:    &ir.Empty{},
			},
			&ir.Instance{Ident: "sub", Module: "Fifo"},
			&ir.Memory{Ident: "ram", DataType: &ir.UIntType{Width: 8}, Depth: 4},
		}},
	}
	ns := FromModule(m)
	for _, name := range []string{"clk", "out", "head", "next", "sub", "ram"} {
		assert.True(t, ns.Contains(name), name)
	}
	assert.False(t, ns.Contains("Fifo"))
}

func TestFromModuleExternal(t *testing.T) {
	m := &ir.ExtModule{
		Ident: "Box",
		Ports: []*ir.Port{{Ident: "p", Direction: ir.Input, Type: &ir.UIntType{Width: 1}}},
	}
	ns := FromModule(m)
	assert.True(t, ns.Contains("p"))
}

func TestFromMemory(t *testing.T) {
	m := &ir.Memory{
		Ident:       "ram",
		Readers:     []string{"rd"},
		Writers:     []string{"wr"},
		ReadWriters: []string{"rw"},
	}
	ns := FromMemory(m)
	require.True(t, ns.Contains("rd"))
	require.True(t, ns.Contains("wr"))
	require.True(t, ns.Contains("rw"))
	assert.False(t, ns.Contains("ram"))
}
