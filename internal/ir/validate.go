package ir

import (
	"fmt"
)

// Validate checks a circuit for internal consistency and returns a list of
// error messages. An empty slice indicates the circuit is valid.
func Validate(c *Circuit) []string {
	var errors []string

	if c.Main == "" {
		errors = append(errors, "circuit has empty Main")
	}
	found := false
	for _, m := range c.Modules {
		if m.Name() == c.Main {
			found = true
			break
		}
	}
	if !found {
		errors = append(errors, fmt.Sprintf("circuit %s has no module named %s", c.Main, c.Main))
	}

	for _, m := range c.Modules {
		for _, p := range m.ModulePorts() {
			if p.Type == nil {
				errors = append(errors, fmt.Sprintf("module %s port %s has nil Type", m.Name(), p.Ident))
			}
		}
		if mod, ok := m.(*Module); ok {
			if mod.Body == nil {
				errors = append(errors, fmt.Sprintf("module %s has nil Body", mod.Ident))
				continue
			}
			errors = append(errors, validateStmt(mod.Body, fmt.Sprintf("module %s", mod.Ident))...)
		}
	}

	return errors
}

// validateStmt checks a single statement and its children.
func validateStmt(s Stmt, context string) []string {
	var errors []string

	switch x := s.(type) {
	case *Wire:
		if x.Type == nil {
			errors = append(errors, fmt.Sprintf("%s: wire %s has nil Type", context, x.Ident))
		}
	case *Register:
		if x.Type == nil {
			errors = append(errors, fmt.Sprintf("%s: reg %s has nil Type", context, x.Ident))
		}
		errors = append(errors, validateExpr(x.Clock, fmt.Sprintf("%s reg %s clock", context, x.Ident))...)
	case *Node:
		errors = append(errors, validateExpr(x.Value, fmt.Sprintf("%s node %s", context, x.Ident))...)
	case *Instance:
		if x.Module == "" {
			errors = append(errors, fmt.Sprintf("%s: inst %s has empty Module", context, x.Ident))
		}
	case *Memory:
		if x.DataType == nil {
			errors = append(errors, fmt.Sprintf("%s: mem %s has nil DataType", context, x.Ident))
		}
		if x.Depth <= 0 {
			errors = append(errors, fmt.Sprintf("%s: mem %s has non-positive depth %d", context, x.Ident, x.Depth))
		}
		seen := make(map[string]bool)
		for _, name := range memPortNames(x) {
			if seen[name] {
				errors = append(errors, fmt.Sprintf("%s: mem %s has duplicate port %q", context, x.Ident, name))
			}
			seen[name] = true
		}
	case *Connect:
		errors = append(errors, validateExpr(x.Loc, fmt.Sprintf("%s connect loc", context))...)
		errors = append(errors, validateExpr(x.Expr, fmt.Sprintf("%s connect expr", context))...)
	case *Conditionally:
		errors = append(errors, validateExpr(x.Pred, fmt.Sprintf("%s when pred", context))...)
		errors = append(errors, validateStmt(x.Conseq, fmt.Sprintf("%s (when)", context))...)
		errors = append(errors, validateStmt(x.Alt, fmt.Sprintf("%s (else)", context))...)
	case *Block:
		for i, sub := range x.Stmts {
			errors = append(errors, validateStmt(sub, fmt.Sprintf("%s statement %d", context, i))...)
		}
	case *Empty:
		// No validation needed
	default:
		errors = append(errors, fmt.Sprintf("%s: unknown statement type %T", context, s))
	}

	return errors
}

// validateExpr checks an expression for validity.
func validateExpr(e Expr, context string) []string {
	var errors []string

	if e == nil {
		errors = append(errors, fmt.Sprintf("%s: nil expression", context))
		return errors
	}

	switch x := e.(type) {
	case *SubField:
		errors = append(errors, validateExpr(x.Expr, context)...)
	case *SubIndex:
		errors = append(errors, validateExpr(x.Expr, context)...)
	case *Mux:
		errors = append(errors, validateExpr(x.Cond, context)...)
		errors = append(errors, validateExpr(x.TVal, context)...)
		errors = append(errors, validateExpr(x.FVal, context)...)
	case *DoPrim:
		for i, a := range x.Args {
			errors = append(errors, validateExpr(a, fmt.Sprintf("%s (arg %d)", context, i))...)
		}
	case *Reference, *UIntLiteral, *SIntLiteral:
		// No validation needed for leaf nodes
	default:
		errors = append(errors, fmt.Sprintf("%s: unknown expression type %T", context, e))
	}

	return errors
}

// memPortNames returns the reader, writer and readwriter names of a memory
// in declaration order.
func memPortNames(m *Memory) []string {
	names := make([]string, 0, len(m.Readers)+len(m.Writers)+len(m.ReadWriters))
	names = append(names, m.Readers...)
	names = append(names, m.Writers...)
	names = append(names, m.ReadWriters...)
	return names
}
