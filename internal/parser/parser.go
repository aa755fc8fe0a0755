// Package parser reads the circuit text form into IR values. The grammar
// covers exactly what internal/ir represents; ir.Serialize is its inverse.
package parser

import (
	"strconv"

	"github.com/tdb-alcorn/firrtl/internal/diagnostic"
	"github.com/tdb-alcorn/firrtl/internal/ir"
	"github.com/tdb-alcorn/firrtl/internal/lexer"
)

// Parser consumes a token stream and produces a circuit.
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
}

// New creates a new parser
func New(source string) *Parser {
	l := lexer.New(source)
	return &Parser{
		tokens: l.Tokenize(),
		pos:    0,
		diags:  diagnostic.New(),
	}
}

// Diagnostics returns the parser's diagnostics
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// Parse parses the token stream into a circuit
func (p *Parser) Parse() *ir.Circuit {
	c := &ir.Circuit{}

	p.expect(lexer.CIRCUIT)
	c.Main = p.expect(lexer.IDENT).Literal
	p.expect(lexer.COLON)
	p.endLine()

	if p.accept(lexer.INDENT) {
		for p.check(lexer.MODULE) || p.check(lexer.EXTMODULE) {
			startPos := p.pos
			c.Modules = append(c.Modules, p.parseModule())
			if p.pos == startPos {
				p.advance() // ensure forward progress
			}
		}
		p.expect(lexer.DEDENT)
	}

	return c
}

// parseModule parses: (module|extmodule) <name> : <ports> <body>
func (p *Parser) parseModule() ir.DefModule {
	external := p.check(lexer.EXTMODULE)
	p.advance()
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.COLON)
	p.endLine()

	var ports []*ir.Port
	var stmts []ir.Stmt
	if p.accept(lexer.INDENT) {
		for p.check(lexer.INPUT) || p.check(lexer.OUTPUT) {
			ports = append(ports, p.parsePort())
		}
		if external {
			for !p.check(lexer.DEDENT) && !p.check(lexer.EOF) {
				p.diags.Errorf(p.current().Line, p.current().Column,
					"extmodule %s may not contain statements", name)
				p.synchronize()
			}
		} else {
			stmts = p.parseStmts()
		}
		p.expect(lexer.DEDENT)
	}

	if external {
		return &ir.ExtModule{Ident: name, Ports: ports}
	}
	return &ir.Module{Ident: name, Ports: ports, Body: &ir.Block{Stmts: stmts}}
}

// parsePort parses: (input|output) <name> : <type>
func (p *Parser) parsePort() *ir.Port {
	dir := ir.Input
	if p.check(lexer.OUTPUT) {
		dir = ir.Output
	}
	p.advance()
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.COLON)
	typ := p.parseType()
	p.endLine()
	return &ir.Port{Ident: name, Direction: dir, Type: typ}
}

// parseStmts parses statements until the enclosing block ends
func (p *Parser) parseStmts() []ir.Stmt {
	var stmts []ir.Stmt
	for !p.check(lexer.DEDENT) && !p.check(lexer.EOF) {
		startPos := p.pos
		stmts = append(stmts, p.parseStmt())
		if p.pos == startPos {
			p.advance() // ensure forward progress
		}
	}
	return stmts
}

// parseStmt parses a single statement
func (p *Parser) parseStmt() ir.Stmt {
	switch p.current().Type {
	case lexer.WIRE:
		p.advance()
		name := p.expect(lexer.IDENT).Literal
		p.expect(lexer.COLON)
		typ := p.parseType()
		p.endLine()
		return &ir.Wire{Ident: name, Type: typ}

	case lexer.REG:
		p.advance()
		name := p.expect(lexer.IDENT).Literal
		p.expect(lexer.COLON)
		typ := p.parseType()
		p.expect(lexer.COMMA)
		clock := p.parseExpr()
		p.endLine()
		return &ir.Register{Ident: name, Type: typ, Clock: clock}

	case lexer.NODE:
		p.advance()
		name := p.expect(lexer.IDENT).Literal
		p.expect(lexer.ASSIGN)
		value := p.parseExpr()
		p.endLine()
		return &ir.Node{Ident: name, Value: value}

	case lexer.INST:
		p.advance()
		name := p.expect(lexer.IDENT).Literal
		p.expect(lexer.OF)
		module := p.expect(lexer.IDENT).Literal
		p.endLine()
		return &ir.Instance{Ident: name, Module: module}

	case lexer.MEM:
		return p.parseMem()

	case lexer.WHEN:
		return p.parseWhen()

	case lexer.SKIP:
		p.advance()
		p.endLine()
		return &ir.Empty{}

	default:
		loc := p.parseExpr()
		p.expect(lexer.LARROW)
		rhs := p.parseExpr()
		p.endLine()
		return &ir.Connect{Loc: loc, Expr: rhs}
	}
}

// parseMem parses a memory declaration and its field block
func (p *Parser) parseMem() ir.Stmt {
	p.expect(lexer.MEM)
	m := &ir.Memory{Ident: p.expect(lexer.IDENT).Literal}
	p.expect(lexer.COLON)
	p.endLine()
	p.expect(lexer.INDENT)

	for !p.check(lexer.DEDENT) && !p.check(lexer.EOF) {
		startPos := p.pos
		key := p.expect(lexer.IDENT)
		p.expect(lexer.FATARROW)
		switch key.Literal {
		case "data-type":
			m.DataType = p.parseType()
		case "depth":
			m.Depth = p.parseInt()
		case "read-latency":
			m.ReadLatency = p.parseInt()
		case "write-latency":
			m.WriteLatency = p.parseInt()
		case "reader":
			m.Readers = append(m.Readers, p.expect(lexer.IDENT).Literal)
		case "writer":
			m.Writers = append(m.Writers, p.expect(lexer.IDENT).Literal)
		case "readwriter":
			m.ReadWriters = append(m.ReadWriters, p.expect(lexer.IDENT).Literal)
		default:
			p.diags.Errorf(key.Line, key.Column, "unknown memory field %q", key.Literal)
		}
		p.endLine()
		if p.pos == startPos {
			p.advance() // ensure forward progress
		}
	}
	p.expect(lexer.DEDENT)
	return m
}

// parseWhen parses: when <expr> : <block> [else : <block>]
func (p *Parser) parseWhen() ir.Stmt {
	p.expect(lexer.WHEN)
	pred := p.parseExpr()
	p.expect(lexer.COLON)
	p.endLine()
	conseq := p.parseBlock()

	var alt ir.Stmt = &ir.Empty{}
	if p.check(lexer.ELSE) {
		p.advance()
		p.expect(lexer.COLON)
		p.endLine()
		alt = p.parseBlock()
	}
	return &ir.Conditionally{Pred: pred, Conseq: conseq, Alt: alt}
}

// parseBlock parses an indented statement block
func (p *Parser) parseBlock() ir.Stmt {
	p.expect(lexer.INDENT)
	stmts := p.parseStmts()
	p.expect(lexer.DEDENT)
	return &ir.Block{Stmts: stmts}
}

// parseType parses: UInt[<w>] | SInt[<w>] | Clock, with [n] vector suffixes
func (p *Parser) parseType() ir.Type {
	tok := p.expect(lexer.IDENT)
	var typ ir.Type
	switch tok.Literal {
	case "UInt":
		typ = &ir.UIntType{Width: p.parseWidth()}
	case "SInt":
		typ = &ir.SIntType{Width: p.parseWidth()}
	case "Clock":
		typ = &ir.ClockType{}
	default:
		p.diags.Errorf(tok.Line, tok.Column, "unknown type %q", tok.Literal)
		typ = &ir.UIntType{Width: ir.UnknownWidth}
	}
	for p.check(lexer.LBRACKET) {
		p.advance()
		size := p.parseInt()
		p.expect(lexer.RBRACKET)
		typ = &ir.VectorType{Elem: typ, Size: size}
	}
	return typ
}

// parseWidth parses an optional <n> width suffix
func (p *Parser) parseWidth() int {
	if !p.check(lexer.LT) {
		return ir.UnknownWidth
	}
	p.advance()
	w := p.parseInt()
	p.expect(lexer.GT)
	return w
}

// parseExpr parses a primary expression with field and index selections
func (p *Parser) parseExpr() ir.Expr {
	e := p.parsePrimary()
	for {
		switch {
		case p.check(lexer.DOT):
			p.advance()
			name := p.expect(lexer.IDENT).Literal
			e = &ir.SubField{Expr: e, Name: name}
		case p.check(lexer.LBRACKET):
			p.advance()
			idx := p.parseInt()
			p.expect(lexer.RBRACKET)
			e = &ir.SubIndex{Expr: e, Index: idx}
		default:
			return e
		}
	}
}

// parsePrimary parses a reference, literal, mux or primitive application
func (p *Parser) parsePrimary() ir.Expr {
	tok := p.expect(lexer.IDENT)

	switch {
	case tok.Literal == "UInt" && (p.check(lexer.LT) || p.check(lexer.LPAREN)):
		width := p.parseWidth()
		p.expect(lexer.LPAREN)
		value := p.parseInt()
		p.expect(lexer.RPAREN)
		return &ir.UIntLiteral{Value: uint64(value), Width: width}

	case tok.Literal == "SInt" && (p.check(lexer.LT) || p.check(lexer.LPAREN)):
		width := p.parseWidth()
		p.expect(lexer.LPAREN)
		value := p.parseInt()
		p.expect(lexer.RPAREN)
		return &ir.SIntLiteral{Value: int64(value), Width: width}

	case tok.Literal == "mux" && p.check(lexer.LPAREN):
		p.advance()
		cond := p.parseExpr()
		p.expect(lexer.COMMA)
		tval := p.parseExpr()
		p.expect(lexer.COMMA)
		fval := p.parseExpr()
		p.expect(lexer.RPAREN)
		return &ir.Mux{Cond: cond, TVal: tval, FVal: fval}

	case p.check(lexer.LPAREN):
		p.advance()
		prim := &ir.DoPrim{Op: tok.Literal}
		for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
			if p.check(lexer.INT) {
				prim.Consts = append(prim.Consts, int64(p.parseInt()))
			} else {
				prim.Args = append(prim.Args, p.parseExpr())
			}
			if !p.accept(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RPAREN)
		return prim

	default:
		return &ir.Reference{Ident: tok.Literal}
	}
}

// parseInt parses an integer token
func (p *Parser) parseInt() int {
	tok := p.expect(lexer.INT)
	n, err := strconv.Atoi(tok.Literal)
	if err != nil {
		p.diags.Errorf(tok.Line, tok.Column, "invalid integer %q", tok.Literal)
		return 0
	}
	return n
}

// --- Token stream helpers ---

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.current().Type == t
}

// accept advances past a token of the given type if present
func (p *Parser) accept(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given type, reporting an error without
// advancing on mismatch so callers stay positioned for recovery.
func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	cur := p.current()
	p.diags.Errorf(cur.Line, cur.Column, "expected %s, found %s", t, cur.Type)
	return cur
}

// endLine consumes a NEWLINE; the end of a block or the file also ends a
// line.
func (p *Parser) endLine() {
	if p.accept(lexer.NEWLINE) {
		return
	}
	if p.check(lexer.DEDENT) || p.check(lexer.EOF) {
		return
	}
	cur := p.current()
	p.diags.Errorf(cur.Line, cur.Column, "expected end of line, found %s", cur.Type)
	p.synchronize()
}

// synchronize skips tokens through the next line or block boundary
func (p *Parser) synchronize() {
	for !p.check(lexer.EOF) {
		if p.accept(lexer.NEWLINE) {
			return
		}
		if p.check(lexer.DEDENT) {
			return
		}
		p.advance()
	}
}
