package ir

// MapExpr returns a copy of e with f applied to each immediate
// sub-expression. Leaf expressions are returned unchanged. Callers recurse by
// calling MapExpr again from inside f.
func MapExpr(e Expr, f func(Expr) Expr) Expr {
	switch x := e.(type) {
	case *SubField:
		return &SubField{Expr: f(x.Expr), Name: x.Name}
	case *SubIndex:
		return &SubIndex{Expr: f(x.Expr), Index: x.Index}
	case *Mux:
		return &Mux{Cond: f(x.Cond), TVal: f(x.TVal), FVal: f(x.FVal)}
	case *DoPrim:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = f(a)
		}
		return &DoPrim{Op: x.Op, Args: args, Consts: x.Consts}
	default:
		return e
	}
}

// MapStmt returns a copy of s with f applied to each immediate child
// statement. Statements without children are returned unchanged.
func MapStmt(s Stmt, f func(Stmt) Stmt) Stmt {
	switch x := s.(type) {
	case *Block:
		stmts := make([]Stmt, len(x.Stmts))
		for i, sub := range x.Stmts {
			stmts[i] = f(sub)
		}
		return &Block{Stmts: stmts}
	case *Conditionally:
		return &Conditionally{Pred: x.Pred, Conseq: f(x.Conseq), Alt: f(x.Alt)}
	default:
		return s
	}
}

// MapStmtExpr returns a copy of s with f applied to each immediate
// expression owned by s. Child statements are not visited.
func MapStmtExpr(s Stmt, f func(Expr) Expr) Stmt {
	switch x := s.(type) {
	case *Register:
		return &Register{Ident: x.Ident, Type: x.Type, Clock: f(x.Clock)}
	case *Node:
		return &Node{Ident: x.Ident, Value: f(x.Value)}
	case *Connect:
		return &Connect{Loc: f(x.Loc), Expr: f(x.Expr)}
	case *Conditionally:
		return &Conditionally{Pred: f(x.Pred), Conseq: x.Conseq, Alt: x.Alt}
	default:
		return s
	}
}

// WalkStmt calls f on s and every statement nested below it, in declaration
// order.
func WalkStmt(s Stmt, f func(Stmt)) {
	f(s)
	switch x := s.(type) {
	case *Block:
		for _, sub := range x.Stmts {
			WalkStmt(sub, f)
		}
	case *Conditionally:
		WalkStmt(x.Conseq, f)
		WalkStmt(x.Alt, f)
	}
}
