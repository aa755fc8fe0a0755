package lexer

// Lexer scans circuit text and produces tokens. Block structure is conveyed
// through NEWLINE, INDENT and DEDENT tokens derived from leading whitespace,
// so the parser never inspects columns itself.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number

	indents []int   // indentation stack, always starts with 0
	pending []Token // queued INDENT/DEDENT tokens
	atLineStart bool
}

// New creates a new Lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:       input,
		line:        1,
		column:      0,
		indents:     []int{0},
		atLineStart: true,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII code for NUL
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipSpaces skips spaces and tabs, but not newlines
func (l *Lexer) skipSpaces() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment skips a ';' comment to the end of the line
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// handleLineStart measures the indentation of the next non-blank line and
// queues INDENT/DEDENT tokens against the indentation stack.
func (l *Lexer) handleLineStart() {
	for {
		indent := 0
		for l.ch == ' ' || l.ch == '\t' {
			l.readChar()
			indent++
		}
		if l.ch == ';' {
			l.skipComment()
		}
		if l.ch == '\n' {
			// Blank or comment-only line: no block structure.
			l.line++
			l.column = 0
			l.readChar()
			continue
		}
		if l.ch == 0 {
			// Trailing whitespace at EOF carries no block structure.
			return
		}
		top := l.indents[len(l.indents)-1]
		if indent > top {
			l.indents = append(l.indents, indent)
			l.pending = append(l.pending, Token{Type: INDENT, Line: l.line, Column: 1})
		}
		for indent < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, Token{Type: DEDENT, Line: l.line, Column: 1})
		}
		return
	}
}

// readIdentifier reads an identifier or keyword. A '-' is accepted inside an
// identifier when followed by a letter, so memory keys like data-type lex as
// one token while negative numbers do not.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || (l.ch == '-' && isLetter(l.peekChar())) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer literal, optionally negative
func (l *Lexer) readNumber() string {
	position := l.position
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	if l.atLineStart {
		l.atLineStart = false
		l.handleLineStart()
		if len(l.pending) > 0 {
			return l.NextToken()
		}
	}

	l.skipSpaces()
	if l.ch == ';' {
		l.skipComment()
	}

	var tok Token
	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '\n':
		tok = Token{Type: NEWLINE, Literal: "\\n", Line: tok.Line, Column: tok.Column}
		l.line++
		l.column = 0
		l.atLineStart = true
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: LARROW, Literal: "<=", Line: tok.Line, Column: tok.Column}
		} else {
			tok = Token{Type: LT, Literal: "<", Line: tok.Line, Column: tok.Column}
		}
	case '=':
		if l.peekChar() == '>' {
			l.readChar()
			tok = Token{Type: FATARROW, Literal: "=>", Line: tok.Line, Column: tok.Column}
		} else {
			tok = Token{Type: ASSIGN, Literal: "=", Line: tok.Line, Column: tok.Column}
		}
	case '>':
		tok = Token{Type: GT, Literal: ">", Line: tok.Line, Column: tok.Column}
	case '(':
		tok = Token{Type: LPAREN, Literal: "(", Line: tok.Line, Column: tok.Column}
	case ')':
		tok = Token{Type: RPAREN, Literal: ")", Line: tok.Line, Column: tok.Column}
	case '[':
		tok = Token{Type: LBRACKET, Literal: "[", Line: tok.Line, Column: tok.Column}
	case ']':
		tok = Token{Type: RBRACKET, Literal: "]", Line: tok.Line, Column: tok.Column}
	case ',':
		tok = Token{Type: COMMA, Literal: ",", Line: tok.Line, Column: tok.Column}
	case ':':
		tok = Token{Type: COLON, Literal: ":", Line: tok.Line, Column: tok.Column}
	case '.':
		tok = Token{Type: DOT, Literal: ".", Line: tok.Line, Column: tok.Column}
	case 0:
		for len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, Token{Type: DEDENT, Line: l.line, Column: l.column})
		}
		l.pending = append(l.pending, Token{Type: EOF, Line: l.line, Column: l.column})
		return l.NextToken()
	default:
		if isLetter(l.ch) || l.ch == '_' {
			ident := l.readIdentifier()
			return Token{Type: LookupIdent(ident), Literal: ident, Line: tok.Line, Column: tok.Column}
		}
		if isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())) {
			return Token{Type: INT, Literal: l.readNumber(), Line: tok.Line, Column: tok.Column}
		}
		tok = Token{Type: ILLEGAL, Literal: string(l.ch), Line: tok.Line, Column: tok.Column}
	}

	l.readChar()
	return tok
}

// Tokenize returns all tokens from the input
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens
}

// Helper functions

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
