package ir

// Circuit is the root of the IR: an ordered list of module definitions plus
// the name of the distinguished top-level module.
type Circuit struct {
	Main    string
	Modules []DefModule
}

// DefModule is the interface for module definitions. A module is either a
// Module (with a statement body) or an ExtModule (opaque internals).
type DefModule interface {
	Name() string
	ModulePorts() []*Port
	moduleNode()
}

// Module represents a module with a body. Its statements may declare wires,
// registers, nodes, instances and memories, and connect expressions.
type Module struct {
	Ident string
	Ports []*Port
	Body  Stmt
}

func (m *Module) Name() string         { return m.Ident }
func (m *Module) ModulePorts() []*Port { return m.Ports }
func (*Module) moduleNode()            {}

// ExtModule represents an externally-defined module. Only its name and ports
// are known; its internals are opaque and never traversed.
type ExtModule struct {
	Ident string
	Ports []*Port
}

func (m *ExtModule) Name() string         { return m.Ident }
func (m *ExtModule) ModulePorts() []*Port { return m.Ports }
func (*ExtModule) moduleNode()            {}

// Direction is the direction of a port.
type Direction int

const (
	Input Direction = iota
	Output
)

// String returns the textual keyword for the direction.
func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Port represents a module port.
type Port struct {
	Ident     string
	Direction Direction
	Type      Type
}

// --- Types ---

// Type is the interface for IR ground types.
type Type interface {
	typeNode()
}

// UnknownWidth marks a UInt or SInt whose width is not specified.
const UnknownWidth = -1

// UIntType is an unsigned integer type with an optional width.
type UIntType struct {
	Width int
}

func (*UIntType) typeNode() {}

// SIntType is a signed integer type with an optional width.
type SIntType struct {
	Width int
}

func (*SIntType) typeNode() {}

// ClockType is the clock type.
type ClockType struct{}

func (*ClockType) typeNode() {}

// VectorType is a fixed-size vector of an element type.
type VectorType struct {
	Elem Type
	Size int
}

func (*VectorType) typeNode() {}

// --- Statements ---

// Stmt is the interface for all IR statement nodes.
type Stmt interface {
	stmtNode()
}

// Wire declares a wire.
type Wire struct {
	Ident string
	Type  Type
}

func (*Wire) stmtNode() {}

// Register declares a register driven by a clock expression.
type Register struct {
	Ident string
	Type  Type
	Clock Expr
}

func (*Register) stmtNode() {}

// Node binds a name to the value of an expression.
type Node struct {
	Ident string
	Value Expr
}

func (*Node) stmtNode() {}

// Instance instantiates a module under a local alias.
type Instance struct {
	Ident  string
	Module string
}

func (*Instance) stmtNode() {}

// Memory declares a memory with named reader, writer and readwriter ports.
// The sub-fields of each port (addr, en, data, clk, ...) follow a fixed
// schema and are not represented here.
type Memory struct {
	Ident        string
	DataType     Type
	Depth        int
	ReadLatency  int
	WriteLatency int
	Readers      []string
	Writers      []string
	ReadWriters  []string
}

func (*Memory) stmtNode() {}

// Connect drives the location expression with the source expression.
type Connect struct {
	Loc  Expr
	Expr Expr
}

func (*Connect) stmtNode() {}

// Conditionally guards two statement branches with a predicate. Alt is an
// Empty statement when there is no else branch.
type Conditionally struct {
	Pred   Expr
	Conseq Stmt
	Alt    Stmt
}

func (*Conditionally) stmtNode() {}

// Block is an ordered sequence of statements.
type Block struct {
	Stmts []Stmt
}

func (*Block) stmtNode() {}

// Empty is the no-op statement.
type Empty struct{}

func (*Empty) stmtNode() {}

// --- Expressions ---

// Expr is the interface for all IR expression nodes.
type Expr interface {
	exprNode()
}

// Reference names a declared entity (port, wire, register, node, instance
// alias or memory).
type Reference struct {
	Ident string
}

func (*Reference) exprNode() {}

// SubField selects a named field of an expression, e.g. an instance port or
// a memory reader.
type SubField struct {
	Expr Expr
	Name string
}

func (*SubField) exprNode() {}

// SubIndex selects a constant index of a vector expression.
type SubIndex struct {
	Expr  Expr
	Index int
}

func (*SubIndex) exprNode() {}

// Mux selects between two expressions on a boolean condition.
type Mux struct {
	Cond Expr
	TVal Expr
	FVal Expr
}

func (*Mux) exprNode() {}

// DoPrim applies a primitive operation to expression arguments and integer
// constants, e.g. add(a, b) or bits(x, 4, 2).
type DoPrim struct {
	Op     string
	Args   []Expr
	Consts []int64
}

func (*DoPrim) exprNode() {}

// UIntLiteral is an unsigned integer literal with an optional width.
type UIntLiteral struct {
	Value uint64
	Width int
}

func (*UIntLiteral) exprNode() {}

// SIntLiteral is a signed integer literal with an optional width.
type SIntLiteral struct {
	Value int64
	Width int
}

func (*SIntLiteral) exprNode() {}
