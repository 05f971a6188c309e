package lexer

import (
	"strconv"
	"unicode/utf8"

	"lox/internal/diag"
	"lox/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination; 0 means EOF
	line         int
	offset       int // added to every token Position
	reporter     diag.Reporter
}

func New(input string, reporter diag.Reporter) *Lexer {
	return NewAt(input, 0, reporter)
}

// NewAt scans input as if it started offset bytes into a longer source.
// Sources scanned at disjoint offsets yield tokens with distinct keys.
func NewAt(input string, offset int, reporter diag.Reporter) *Lexer {
	l := &Lexer{input: input, line: 1, offset: offset, reporter: reporter}
	l.readChar()
	return l
}

// Tokens scans the remaining input and returns every token up to and
// including EOF.
func (l *Lexer) Tokens() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()

		start := l.position
		switch l.ch {
		case 0:
			return token.Token{Type: token.EOF, Line: l.line, Position: l.offset + start}
		case '(':
			return l.single(token.LEFT_PAREN)
		case ')':
			return l.single(token.RIGHT_PAREN)
		case '{':
			return l.single(token.LEFT_BRACE)
		case '}':
			return l.single(token.RIGHT_BRACE)
		case ',':
			return l.single(token.COMMA)
		case '.':
			return l.single(token.DOT)
		case '-':
			return l.single(token.MINUS)
		case '+':
			return l.single(token.PLUS)
		case ';':
			return l.single(token.SEMICOLON)
		case '*':
			return l.single(token.STAR)
		case '/':
			return l.single(token.SLASH)
		case '!':
			return l.handleCompoundToken(token.BANG, '=', token.BANG_EQUAL)
		case '=':
			return l.handleCompoundToken(token.EQUAL, '=', token.EQUAL_EQUAL)
		case '<':
			return l.handleCompoundToken(token.LESS, '=', token.LESS_EQUAL)
		case '>':
			return l.handleCompoundToken(token.GREATER, '=', token.GREATER_EQUAL)
		case '"':
			if tok, ok := l.readString(); ok {
				return tok
			}
		default:
			if isDigit(l.ch) {
				return l.readNumber()
			}
			if isLetter(l.ch) {
				return l.readIdentifier()
			}
			l.reporter.Error(l.line, "Unexpected character.")
			l.skipRune()
		}
	}
}

func (l *Lexer) single(t token.TokenType) token.Token {
	tok := token.Token{Type: t, Lexeme: string(l.ch), Line: l.line, Position: l.offset + l.position}
	l.readChar()
	return tok
}

func (l *Lexer) handleCompoundToken(t token.TokenType, ch1 byte, t1 token.TokenType) token.Token {
	start := l.position
	if l.peekChar() == ch1 {
		l.readChar()
		l.readChar()
		return token.Token{Type: t1, Lexeme: l.input[start:l.position], Line: l.line, Position: l.offset + start}
	}
	return l.single(t)
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
		case '\n':
			l.line++
			l.readChar()
		case '/':
			if l.peekChar() != '/' {
				return
			}
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// skipRune steps over the whole UTF-8 sequence starting at the current
// byte, so a multi-byte character is reported once.
func (l *Lexer) skipRune() {
	_, size := utf8.DecodeRuneInString(l.input[l.position:])
	for i := 0; i < size; i++ {
		l.readChar()
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) readString() (token.Token, bool) {
	start := l.position
	startLine := l.line
	l.readChar() // opening quote
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\n' {
			l.line++
		}
		l.readChar()
	}

	if l.ch == 0 {
		l.reporter.Error(l.line, "Unterminated string.")
		return token.Token{}, false
	}

	l.readChar() // closing quote
	lexeme := l.input[start:l.position]
	return token.Token{
		Type:     token.STRING,
		Lexeme:   lexeme,
		Literal:  lexeme[1 : len(lexeme)-1],
		Line:     startLine,
		Position: l.offset + start,
	}, true
}

func (l *Lexer) readNumber() token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := l.input[start:l.position]
	// the lexeme is digits with an optional fraction, so this cannot fail
	value, _ := strconv.ParseFloat(lexeme, 64)
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: value, Line: l.line, Position: l.offset + start}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{Type: token.LookupIdent(lexeme), Lexeme: lexeme, Line: l.line, Position: l.offset + start}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
