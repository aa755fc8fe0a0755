package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	NEWLINE
	INDENT
	DEDENT

	// Literals
	IDENT // x, Foo, data-type
	INT   // 123, -5

	// Keywords
	CIRCUIT
	MODULE
	EXTMODULE
	INPUT
	OUTPUT
	WIRE
	REG
	NODE
	INST
	OF
	MEM
	WHEN
	ELSE
	SKIP

	// Operators and delimiters
	LARROW   // <=
	FATARROW // =>
	ASSIGN   // =
	LT       // <
	GT       // >
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	COLON    // :
	DOT      // .
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case INDENT:
		return "INDENT"
	case DEDENT:
		return "DEDENT"
	case IDENT:
		return "IDENT"
	case INT:
		return "INT"
	case CIRCUIT:
		return "CIRCUIT"
	case MODULE:
		return "MODULE"
	case EXTMODULE:
		return "EXTMODULE"
	case INPUT:
		return "INPUT"
	case OUTPUT:
		return "OUTPUT"
	case WIRE:
		return "WIRE"
	case REG:
		return "REG"
	case NODE:
		return "NODE"
	case INST:
		return "INST"
	case OF:
		return "OF"
	case MEM:
		return "MEM"
	case WHEN:
		return "WHEN"
	case ELSE:
		return "ELSE"
	case SKIP:
		return "SKIP"
	case LARROW:
		return "LARROW"
	case FATARROW:
		return "FATARROW"
	case ASSIGN:
		return "ASSIGN"
	case LT:
		return "LT"
	case GT:
		return "GT"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case COMMA:
		return "COMMA"
	case COLON:
		return "COLON"
	case DOT:
		return "DOT"
	default:
		return fmt.Sprintf("TokenType(%d)", t)
	}
}

// keywords maps keyword strings to their token types
var keywords = map[string]TokenType{
	"circuit":   CIRCUIT,
	"module":    MODULE,
	"extmodule": EXTMODULE,
	"input":     INPUT,
	"output":    OUTPUT,
	"wire":      WIRE,
	"reg":       REG,
	"node":      NODE,
	"inst":      INST,
	"of":        OF,
	"mem":       MEM,
	"when":      WHEN,
	"else":      ELSE,
	"skip":      SKIP,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
