package rename

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdb-alcorn/firrtl/internal/ir"
	"github.com/tdb-alcorn/firrtl/internal/namespace"
	"github.com/tdb-alcorn/firrtl/internal/parser"
	"github.com/tdb-alcorn/firrtl/internal/renamemap"
	"github.com/tdb-alcorn/firrtl/internal/target"
)

func parseCircuit(t *testing.T, src string) *ir.Circuit {
	t.Helper()
	p := parser.New(src)
	c := p.Parse()
	require.False(t, p.Diagnostics().HasErrors(), p.Diagnostics().Format("test"))
	return c
}

func mustSkips(t *testing.T, targets ...target.Target) *SkipSet {
	t.Helper()
	skips, err := NewSkipSet(targets...)
	require.NoError(t, err)
	return skips
}

func TestPrefixSingleModule(t *testing.T) {
	c := parseCircuit(t, `circuit Foo :
  module Foo :
    input clk : Clock
    output z : UInt<8>
    wire w : UInt<8>
    reg r : UInt<8>, clk
    node n = add(w, r)
    when w :
      z <= n
    else :
      z <= w
    w <= UInt<8>(3)
`)
	rm := renamemap.New()
	out, err := Run(c, rm, nil, Prefix("pfx_"))
	require.NoError(t, err)

	want := `circuit pfx_Foo :
  module pfx_Foo :
    input pfx_clk : Clock
    output pfx_z : UInt<8>
    wire pfx_w : UInt<8>
    reg pfx_r : UInt<8>, pfx_clk
    node pfx_n = add(pfx_w, pfx_r)
    when pfx_w :
      pfx_z <= pfx_n
    else :
      pfx_z <= pfx_w
    pfx_w <= UInt<8>(3)
`
	assert.Equal(t, want, ir.Serialize(out))
}

func TestLedgerKeysAndValues(t *testing.T) {
	c := parseCircuit(t, `circuit Foo :
  module Foo :
    wire w : UInt<1>
`)
	rm := renamemap.New()
	_, err := Run(c, rm, nil, Prefix("pfx_"))
	require.NoError(t, err)

	// Keys live under original names, values under fully new names.
	got, ok := rm.Get(target.Circuit{Circuit: "Foo"})
	require.True(t, ok)
	assert.Equal(t, "~pfx_Foo", got.Key())

	got, ok = rm.Get(target.Circuit{Circuit: "Foo"}.Module("Foo"))
	require.True(t, ok)
	assert.Equal(t, "~pfx_Foo|pfx_Foo", got.Key())

	got, ok = rm.Get(target.Circuit{Circuit: "Foo"}.Module("Foo").Ref("w"))
	require.True(t, ok)
	assert.Equal(t, "~pfx_Foo|pfx_Foo>pfx_w", got.Key())
}

func TestInstancePortsFollowCallee(t *testing.T) {
	c := parseCircuit(t, `circuit Top :
  module Child :
    input in : UInt<8>
    output out : UInt<8>
    out <= in
  module Top :
    input x : UInt<8>
    output y : UInt<8>
    inst c of Child
    c.in <= x
    y <= c.out
`)
	rm := renamemap.New()
	out, err := Run(c, rm, nil, Prefix("pfx_"))
	require.NoError(t, err)

	want := `circuit pfx_Top :
  module pfx_Child :
    input pfx_in : UInt<8>
    output pfx_out : UInt<8>
    pfx_out <= pfx_in
  module pfx_Top :
    input pfx_x : UInt<8>
    output pfx_y : UInt<8>
    inst pfx_c of pfx_Child
    pfx_c.pfx_in <= pfx_x
    pfx_y <= pfx_c.pfx_out
`
	assert.Equal(t, want, ir.Serialize(out))

	// The instance is addressable both as an instance and as a reference.
	got, ok := rm.Get(target.Circuit{Circuit: "Top"}.Module("Top").InstOf("c", "Child"))
	require.True(t, ok)
	assert.Equal(t, "~pfx_Top|pfx_Top/pfx_c:pfx_Child", got.Key())
	got, ok = rm.Get(target.Circuit{Circuit: "Top"}.Module("Top").Ref("c"))
	require.True(t, ok)
	assert.Equal(t, "~pfx_Top|pfx_Top>pfx_c", got.Key())
}

func TestDoubleInstantiation(t *testing.T) {
	c := parseCircuit(t, `circuit Foo :
  module Bar :
    skip
  module Foo :
    inst bar of Bar
    inst bar2 of Bar
`)
	rm := renamemap.New()
	out, err := Run(c, rm, nil, Prefix("pfx_"))
	require.NoError(t, err)

	want := `circuit pfx_Foo :
  module pfx_Bar :
    skip
  module pfx_Foo :
    inst pfx_bar of pfx_Bar
    inst pfx_bar2 of pfx_Bar
`
	assert.Equal(t, want, ir.Serialize(out))
	// One rename for Bar itself, reused by both instantiation sites.
	got, ok := rm.Get(target.Circuit{Circuit: "Foo"}.Module("Bar"))
	require.True(t, ok)
	assert.Equal(t, "~pfx_Foo|pfx_Bar", got.Key())
}

func TestMemoryRename(t *testing.T) {
	c := parseCircuit(t, `circuit M :
  module M :
    input clk : Clock
    input addr : UInt<4>
    output data : UInt<8>
    mem ram :
      data-type => UInt<8>
      depth => 16
      read-latency => 0
      write-latency => 1
      reader => rd
      writer => wr
    ram.rd.addr <= addr
    ram.rd.en <= UInt<1>(1)
    ram.rd.clk <= clk
    data <= ram.rd.data
`)
	rm := renamemap.New()
	out, err := Run(c, rm, nil, Prefix("pfx_"))
	require.NoError(t, err)

	// Reader and writer names rename; the fixed addr/en/clk/data schema
	// below them never does.
	want := `circuit pfx_M :
  module pfx_M :
    input pfx_clk : Clock
    input pfx_addr : UInt<4>
    output pfx_data : UInt<8>
    mem pfx_ram :
      data-type => UInt<8>
      depth => 16
      read-latency => 0
      write-latency => 1
      reader => pfx_rd
      writer => pfx_wr
    pfx_ram.pfx_rd.addr <= pfx_addr
    pfx_ram.pfx_rd.en <= UInt<1>(1)
    pfx_ram.pfx_rd.clk <= pfx_clk
    pfx_data <= pfx_ram.pfx_rd.data
`
	assert.Equal(t, want, ir.Serialize(out))

	memT := target.Circuit{Circuit: "M"}.Module("M").Ref("ram")
	got, ok := rm.Get(memT.FieldOf("rd"))
	require.True(t, ok)
	assert.Equal(t, "~pfx_M|pfx_M>pfx_ram.pfx_rd", got.Key())
}

func TestExtModulePortsStable(t *testing.T) {
	c := parseCircuit(t, `circuit X :
  module X :
    input in : UInt<1>
    inst bb of Box
    bb.p <= in
  extmodule Box :
    input p : UInt<1>
`)
	rm := renamemap.New()
	out, err := Run(c, rm, nil, Prefix("pfx_"))
	require.NoError(t, err)

	// An external module's internals are opaque: its name renames, its
	// ports do not, and use sites keep the original port name.
	want := `circuit pfx_X :
  module pfx_X :
    input pfx_in : UInt<1>
    inst pfx_bb of pfx_Box
    pfx_bb.p <= pfx_in
  extmodule pfx_Box :
    input p : UInt<1>
`
	assert.Equal(t, want, ir.Serialize(out))
	_, ok := rm.Get(target.Circuit{Circuit: "X"}.Module("Box").Ref("p"))
	assert.False(t, ok)
}

func TestSkipCircuit(t *testing.T) {
	src := `circuit Foo :
  module Foo :
    wire w : UInt<1>
`
	c := parseCircuit(t, src)
	rm := renamemap.New()
	skips := mustSkips(t, target.Circuit{Circuit: "Foo"})
	out, err := Run(c, rm, skips, Prefix("pfx_"))
	require.NoError(t, err)

	assert.Equal(t, src, ir.Serialize(out))
	assert.Equal(t, 0, rm.Len())
}

func TestSkipModuleName(t *testing.T) {
	c := parseCircuit(t, `circuit Foo :
  module Bar :
    skip
  module Foo :
    wire w : UInt<1>
    inst bar of Bar
`)
	rm := renamemap.New()
	skips := mustSkips(t, target.Circuit{Circuit: "Foo"}.Module("Foo"))
	out, err := Run(c, rm, skips, Prefix("pfx_"))
	require.NoError(t, err)

	// Skipping is exact-match: the module keeps its name while the circuit,
	// the other module, and the skipped module's own contents all rename.
	want := `circuit pfx_Foo :
  module pfx_Bar :
    skip
  module Foo :
    wire pfx_w : UInt<1>
    inst pfx_bar of pfx_Bar
`
	assert.Equal(t, want, ir.Serialize(out))
	_, ok := rm.Get(target.Circuit{Circuit: "Foo"}.Module("Foo"))
	assert.False(t, ok)
}

func TestSkipInstance(t *testing.T) {
	c := parseCircuit(t, `circuit Top :
  module Child :
    input in : UInt<1>
    in <= in
  module Top :
    input x : UInt<1>
    inst c of Child
    c.in <= x
`)
	rm := renamemap.New()
	skips := mustSkips(t, target.Circuit{Circuit: "Top"}.Module("Top").InstOf("c", "Child"))
	out, err := Run(c, rm, skips, Prefix("pfx_"))
	require.NoError(t, err)

	// The alias keeps its name, but the instantiated module's rename and
	// its port renames still apply at the use site.
	want := `circuit pfx_Top :
  module pfx_Child :
    input pfx_in : UInt<1>
    pfx_in <= pfx_in
  module pfx_Top :
    input pfx_x : UInt<1>
    inst c of pfx_Child
    c.pfx_in <= pfx_x
`
	assert.Equal(t, want, ir.Serialize(out))
}

func TestSkipReference(t *testing.T) {
	c := parseCircuit(t, `circuit C :
  module C :
    wire keep : UInt<1>
    wire w : UInt<1>
    node n = keep
    w <= n
`)
	rm := renamemap.New()
	skips := mustSkips(t, target.Circuit{Circuit: "C"}.Module("C").Ref("keep"))
	out, err := Run(c, rm, skips, Prefix("pfx_"))
	require.NoError(t, err)

	want := `circuit pfx_C :
  module pfx_C :
    wire keep : UInt<1>
    wire pfx_w : UInt<1>
    node pfx_n = keep
    pfx_w <= pfx_n
`
	assert.Equal(t, want, ir.Serialize(out))
}

func TestNoOpRuleLeavesCircuitUntouched(t *testing.T) {
	src := `circuit Foo :
  module Bar :
    input in : UInt<8>
    output out : UInt<8>
    out <= in
  module Foo :
    inst bar of Bar
    bar.in <= bar.out
`
	c := parseCircuit(t, src)
	rm := renamemap.New()
	out, err := Run(c, rm, nil, func(string, *namespace.Namespace) (string, bool) { return "", false })
	require.NoError(t, err)

	if diff := cmp.Diff(c, out); diff != "" {
		t.Errorf("no-op rule changed the circuit (-in +out):\n%s", diff)
	}
	assert.Equal(t, 0, rm.Len())
}

func TestRunDoesNotMutateInput(t *testing.T) {
	src := `circuit Foo :
  module Foo :
    wire w : UInt<1>
    w <= w
`
	c := parseCircuit(t, src)
	rm := renamemap.New()
	_, err := Run(c, rm, nil, Prefix("pfx_"))
	require.NoError(t, err)
	assert.Equal(t, src, ir.Serialize(c))
}

func TestComposeAcrossRuns(t *testing.T) {
	rm := renamemap.New()
	c := parseCircuit(t, `circuit Foo :
  module Foo :
    wire w : UInt<1>
`)
	mid, err := Run(c, rm, nil, Prefix("a_"))
	require.NoError(t, err)
	_, err = Run(mid, rm, nil, Prefix("b_"))
	require.NoError(t, err)

	// A query under the original names chases through both runs.
	got, ok := rm.Get(target.Circuit{Circuit: "Foo"})
	require.True(t, ok)
	assert.Equal(t, "~b_a_Foo", got.Key())

	got, ok = rm.Get(target.Circuit{Circuit: "Foo"}.Module("Foo").Ref("w"))
	require.True(t, ok)
	assert.Equal(t, "~b_a_Foo|b_a_Foo>b_a_w", got.Key())
}

func TestLowercaseCollision(t *testing.T) {
	c := parseCircuit(t, `circuit top :
  module top :
    wire SIG : UInt<1>
    wire sig : UInt<1>
    sig <= SIG
`)
	rm := renamemap.New()
	out, err := Run(c, rm, nil, Lowercase())
	require.NoError(t, err)

	// SIG lowercases into occupied territory and gets a suffixed variant.
	want := `circuit top :
  module top :
    wire sig_0 : UInt<1>
    wire sig : UInt<1>
    sig <= sig_0
`
	assert.Equal(t, want, ir.Serialize(out))
}

func TestAvoidKeywordsRule(t *testing.T) {
	c := parseCircuit(t, `circuit K :
  module K :
    wire always : UInt<1>
    wire x : UInt<1>
    x <= always
`)
	rm := renamemap.New()
	out, err := Run(c, rm, nil, AvoidKeywords(VerilogKeywords()))
	require.NoError(t, err)

	want := `circuit K :
  module K :
    wire always_ : UInt<1>
    wire x : UInt<1>
    x <= always_
`
	assert.Equal(t, want, ir.Serialize(out))
	assert.Equal(t, 1, rm.Len())
}

func TestNilRule(t *testing.T) {
	c := parseCircuit(t, "circuit C :\n  module C :\n    skip\n")
	_, err := Run(c, renamemap.New(), nil, nil)
	assert.ErrorIs(t, err, ErrNilRule)
}

func TestInvalidCircuit(t *testing.T) {
	c := &ir.Circuit{Main: "Gone"}
	_, err := Run(c, renamemap.New(), nil, Prefix("p_"))
	require.Error(t, err)
	var ie *InvariantError
	assert.True(t, errors.As(err, &ie))
}

func TestSubFieldOfNonInstance(t *testing.T) {
	c := parseCircuit(t, `circuit B :
  module B :
    input a : UInt<8>
    wire w : UInt<8>
    w <= a.f
`)
	_, err := Run(c, renamemap.New(), nil, Prefix("p_"))
	require.Error(t, err)
	var ie *InvariantError
	require.True(t, errors.As(err, &ie))
	assert.Contains(t, ie.Detail, `"a"`)
}

func TestInstantiationCycle(t *testing.T) {
	c := parseCircuit(t, `circuit A :
  module A :
    inst b of B
  module B :
    inst a of A
`)
	_, err := Run(c, renamemap.New(), nil, Prefix("p_"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
