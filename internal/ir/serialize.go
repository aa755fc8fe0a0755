package ir

import (
	"fmt"
	"strings"
)

// Serialize returns the canonical text form of a circuit. The output is
// accepted by the parser and round-trips to a structurally equal circuit.
func Serialize(c *Circuit) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("circuit %s :\n", c.Main))
	for _, m := range c.Modules {
		writeModule(&sb, m)
	}
	return sb.String()
}

func writeModule(sb *strings.Builder, m DefModule) {
	switch mod := m.(type) {
	case *Module:
		sb.WriteString(fmt.Sprintf("  module %s :\n", mod.Ident))
		for _, p := range mod.Ports {
			writePort(sb, p)
		}
		writeStmt(sb, mod.Body, 2)
	case *ExtModule:
		sb.WriteString(fmt.Sprintf("  extmodule %s :\n", mod.Ident))
		for _, p := range mod.Ports {
			writePort(sb, p)
		}
	}
}

func writePort(sb *strings.Builder, p *Port) {
	sb.WriteString(fmt.Sprintf("    %s %s : %s\n", p.Direction, p.Ident, TypeString(p.Type)))
}

func writeStmt(sb *strings.Builder, s Stmt, depth int) {
	prefix := strings.Repeat("  ", depth)

	switch x := s.(type) {
	case *Block:
		for _, sub := range x.Stmts {
			writeStmt(sb, sub, depth)
		}
	case *Wire:
		sb.WriteString(fmt.Sprintf("%swire %s : %s\n", prefix, x.Ident, TypeString(x.Type)))
	case *Register:
		sb.WriteString(fmt.Sprintf("%sreg %s : %s, %s\n", prefix, x.Ident, TypeString(x.Type), ExprString(x.Clock)))
	case *Node:
		sb.WriteString(fmt.Sprintf("%snode %s = %s\n", prefix, x.Ident, ExprString(x.Value)))
	case *Instance:
		sb.WriteString(fmt.Sprintf("%sinst %s of %s\n", prefix, x.Ident, x.Module))
	case *Memory:
		sb.WriteString(fmt.Sprintf("%smem %s :\n", prefix, x.Ident))
		inner := prefix + "  "
		sb.WriteString(fmt.Sprintf("%sdata-type => %s\n", inner, TypeString(x.DataType)))
		sb.WriteString(fmt.Sprintf("%sdepth => %d\n", inner, x.Depth))
		sb.WriteString(fmt.Sprintf("%sread-latency => %d\n", inner, x.ReadLatency))
		sb.WriteString(fmt.Sprintf("%swrite-latency => %d\n", inner, x.WriteLatency))
		for _, r := range x.Readers {
			sb.WriteString(fmt.Sprintf("%sreader => %s\n", inner, r))
		}
		for _, w := range x.Writers {
			sb.WriteString(fmt.Sprintf("%swriter => %s\n", inner, w))
		}
		for _, rw := range x.ReadWriters {
			sb.WriteString(fmt.Sprintf("%sreadwriter => %s\n", inner, rw))
		}
	case *Connect:
		sb.WriteString(fmt.Sprintf("%s%s <= %s\n", prefix, ExprString(x.Loc), ExprString(x.Expr)))
	case *Conditionally:
		sb.WriteString(fmt.Sprintf("%swhen %s :\n", prefix, ExprString(x.Pred)))
		writeBranch(sb, x.Conseq, depth+1)
		if _, ok := x.Alt.(*Empty); !ok {
			sb.WriteString(fmt.Sprintf("%selse :\n", prefix))
			writeBranch(sb, x.Alt, depth+1)
		}
	case *Empty:
		sb.WriteString(prefix + "skip\n")
	}
}

// writeBranch prints a conditional branch body, keeping an explicit skip when
// the branch is empty so the block survives the round trip.
func writeBranch(sb *strings.Builder, s Stmt, depth int) {
	if b, ok := s.(*Block); ok && len(b.Stmts) == 0 {
		sb.WriteString(strings.Repeat("  ", depth) + "skip\n")
		return
	}
	writeStmt(sb, s, depth)
}

// TypeString returns the textual form of a type.
func TypeString(t Type) string {
	switch x := t.(type) {
	case *UIntType:
		if x.Width == UnknownWidth {
			return "UInt"
		}
		return fmt.Sprintf("UInt<%d>", x.Width)
	case *SIntType:
		if x.Width == UnknownWidth {
			return "SInt"
		}
		return fmt.Sprintf("SInt<%d>", x.Width)
	case *ClockType:
		return "Clock"
	case *VectorType:
		return fmt.Sprintf("%s[%d]", TypeString(x.Elem), x.Size)
	default:
		return fmt.Sprintf("Type(%T)", t)
	}
}

// ExprString returns the textual form of an expression.
func ExprString(e Expr) string {
	switch x := e.(type) {
	case *Reference:
		return x.Ident
	case *SubField:
		return fmt.Sprintf("%s.%s", ExprString(x.Expr), x.Name)
	case *SubIndex:
		return fmt.Sprintf("%s[%d]", ExprString(x.Expr), x.Index)
	case *Mux:
		return fmt.Sprintf("mux(%s, %s, %s)", ExprString(x.Cond), ExprString(x.TVal), ExprString(x.FVal))
	case *DoPrim:
		parts := make([]string, 0, len(x.Args)+len(x.Consts))
		for _, a := range x.Args {
			parts = append(parts, ExprString(a))
		}
		for _, c := range x.Consts {
			parts = append(parts, fmt.Sprintf("%d", c))
		}
		return fmt.Sprintf("%s(%s)", x.Op, strings.Join(parts, ", "))
	case *UIntLiteral:
		if x.Width == UnknownWidth {
			return fmt.Sprintf("UInt(%d)", x.Value)
		}
		return fmt.Sprintf("UInt<%d>(%d)", x.Width, x.Value)
	case *SIntLiteral:
		if x.Width == UnknownWidth {
			return fmt.Sprintf("SInt(%d)", x.Value)
		}
		return fmt.Sprintf("SInt<%d>(%d)", x.Width, x.Value)
	default:
		return fmt.Sprintf("Expr(%T)", e)
	}
}
