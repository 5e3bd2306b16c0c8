// # internal/lang/lexer.go
//
// Hand-written lexer for AWK/GAWK source. The stream is whitespace-aware in
// two places the grammar depends on:
//
//   - an identifier directly followed by "(" (no gap) becomes FUNC_NAME,
//     which is how "f(x)" (call) is told apart from "f (x)" (concatenation);
//   - every token carries the length of the ignored text before it plus a
//     flag for crossed line breaks, which drives the parameter/local split
//     in function declarations.
//
// "/" is resolved to division or a regex literal from the class of the
// previous significant token, the usual AWK trick.
package lang

import (
	"strings"

	"hawk/internal/symbol"
)

type Lexer struct {
	src  string
	cur  int
	line int
	col  int

	gap     int  // ignored chars since previous token
	nl      bool // ignored text contained a line break (incl. backslash-newline)
	doc     []string
	prev    TokenType
	hasPrev bool

	shebangGawk bool
}

func NewLexer(src string) *Lexer {
	l := &Lexer{src: src}
	l.scanShebang()
	return l
}

// ShebangGawk reports whether the first line is an interpreter directive
// naming gawk, which forces extended mode for the file.
func (l *Lexer) ShebangGawk() bool { return l.shebangGawk }

func (l *Lexer) scanShebang() {
	if !strings.HasPrefix(l.src, "#!") {
		return
	}
	end := strings.IndexByte(l.src, '\n')
	if end < 0 {
		end = len(l.src)
	}
	l.shebangGawk = strings.Contains(l.src[:end], "gawk")
}

// Scan tokenizes the whole source. Lexical problems never abort the scan;
// they surface as ILLEGAL tokens carrying a message in Lit, which the
// parser turns into syntax diagnostics.
func (l *Lexer) Scan() []Token {
	var toks []Token
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) next() Token {
	l.skipIgnored()
	start := symbol.Position{Line: l.line, Col: l.col}

	if l.atEnd() {
		return l.emit(EOF, "", start)
	}

	ch := l.src[l.cur]
	switch {
	case ch == '\n':
		l.advance()
		tok := l.emit(NEWLINE, "", start)
		l.line++
		l.col = 0
		return tok
	case isAlpha(ch):
		return l.scanIdent(start)
	case isDigit(ch) || (ch == '.' && l.cur+1 < len(l.src) && isDigit(l.src[l.cur+1])):
		return l.scanNumber(start)
	case ch == '"':
		return l.scanString(start)
	case ch == '/':
		if l.regexAllowed() {
			return l.scanRegex(start)
		}
		return l.scanOperator(start)
	default:
		return l.scanOperator(start)
	}
}

// skipIgnored consumes spaces, tabs, carriage returns, comments and
// backslash-newlines, accumulating gap length and doc-comment text.
// Real newlines are NOT skipped; they are tokens of their own.
func (l *Lexer) skipIgnored() {
	l.gap = 0
	l.nl = false
	for !l.atEnd() {
		ch := l.src[l.cur]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.gap++
			l.advance()
		case ch == '\\' && l.cur+1 < len(l.src) && l.src[l.cur+1] == '\n':
			l.gap += 2
			l.nl = true
			l.cur += 2
			l.line++
			l.col = 0
		case ch == '#':
			l.scanComment()
		default:
			return
		}
	}
}

func (l *Lexer) scanComment() {
	start := l.cur
	doc := strings.HasPrefix(l.src[l.cur:], "##")
	for !l.atEnd() && l.src[l.cur] != '\n' {
		l.advance()
	}
	text := l.src[start:l.cur]
	l.gap += len(text)
	if doc {
		l.doc = append(l.doc, strings.TrimSpace(strings.TrimLeft(text, "#")))
	} else if !strings.HasPrefix(text, "#!") {
		// a plain comment breaks a doc block
		l.doc = nil
	}
}

func (l *Lexer) emit(t TokenType, lit string, pos symbol.Position) Token {
	tok := Token{Type: t, Lit: lit, Pos: pos, Gap: l.gap, NL: l.nl}
	if t != NEWLINE && len(l.doc) > 0 {
		tok.Doc = strings.Join(l.doc, "\n")
		l.doc = nil
	}
	if t != NEWLINE && t != EOF {
		l.prev = t
		l.hasPrev = true
	}
	if t == NEWLINE {
		// the previous-token memory resets at a statement break so that a
		// leading "/" on the next line reads as a regex pattern
		l.hasPrev = false
	}
	return tok
}

func (l *Lexer) scanIdent(start symbol.Position) Token {
	from := l.cur
	for !l.atEnd() && isAlphaNum(l.src[l.cur]) {
		l.advance()
	}
	// gawk namespace-qualified name: ns::name stays one identifier
	if strings.HasPrefix(l.src[l.cur:], "::") && l.cur+2 < len(l.src) && isAlpha(l.src[l.cur+2]) {
		l.advance()
		l.advance()
		for !l.atEnd() && isAlphaNum(l.src[l.cur]) {
			l.advance()
		}
	}
	lit := l.src[from:l.cur]
	if kw, ok := keywords[lit]; ok {
		return l.emit(kw, lit, start)
	}
	if !l.atEnd() && l.src[l.cur] == '(' {
		return l.emit(FUNC_NAME, lit, start)
	}
	return l.emit(IDENT, lit, start)
}

func (l *Lexer) scanNumber(start symbol.Position) Token {
	from := l.cur
	if strings.HasPrefix(l.src[l.cur:], "0x") || strings.HasPrefix(l.src[l.cur:], "0X") {
		l.advance()
		l.advance()
		for !l.atEnd() && isHex(l.src[l.cur]) {
			l.advance()
		}
		return l.emit(NUMBER, l.src[from:l.cur], start)
	}
	for !l.atEnd() && isDigit(l.src[l.cur]) {
		l.advance()
	}
	if !l.atEnd() && l.src[l.cur] == '.' {
		l.advance()
		for !l.atEnd() && isDigit(l.src[l.cur]) {
			l.advance()
		}
	}
	if !l.atEnd() && (l.src[l.cur] == 'e' || l.src[l.cur] == 'E') {
		save := l.cur
		l.advance()
		if !l.atEnd() && (l.src[l.cur] == '+' || l.src[l.cur] == '-') {
			l.advance()
		}
		if l.atEnd() || !isDigit(l.src[l.cur]) {
			l.cur = save
			l.col = start.Col + (save - from)
		} else {
			for !l.atEnd() && isDigit(l.src[l.cur]) {
				l.advance()
			}
		}
	}
	return l.emit(NUMBER, l.src[from:l.cur], start)
}

func (l *Lexer) scanString(start symbol.Position) Token {
	from := l.cur
	l.advance() // opening quote
	for !l.atEnd() {
		ch := l.src[l.cur]
		if ch == '\n' {
			break
		}
		l.advance()
		if ch == '"' {
			return l.emit(STRING, l.src[from:l.cur], start)
		}
		if ch == '\\' && !l.atEnd() && l.src[l.cur] != '\n' {
			l.advance()
		}
	}
	return l.emit(ILLEGAL, "unterminated string", start)
}

func (l *Lexer) scanRegex(start symbol.Position) Token {
	from := l.cur
	l.advance() // opening slash
	inBracket := false
	for !l.atEnd() {
		ch := l.src[l.cur]
		if ch == '\n' {
			break
		}
		l.advance()
		switch {
		case ch == '\\' && !l.atEnd() && l.src[l.cur] != '\n':
			l.advance()
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case ch == '/' && !inBracket:
			return l.emit(ERE, l.src[from:l.cur], start)
		}
	}
	return l.emit(ILLEGAL, "unterminated regex", start)
}

// regexAllowed reports whether a "/" at the current position starts a regex
// literal rather than a division operator.
func (l *Lexer) regexAllowed() bool {
	if !l.hasPrev {
		return true
	}
	switch l.prev {
	case IDENT, NUMBER, STRING, ERE, RPAREN, RBRACKET, INCR, DECR, DOLLAR:
		return false
	}
	return true
}

func (l *Lexer) scanOperator(start symbol.Position) Token {
	two := ""
	if l.cur+2 <= len(l.src) {
		two = l.src[l.cur : l.cur+2]
	}
	if t, ok := twoCharOps[two]; ok {
		l.advance()
		l.advance()
		return l.emit(t, two, start)
	}
	ch := l.src[l.cur]
	l.advance()
	if t, ok := oneCharOps[ch]; ok {
		return l.emit(t, string(ch), start)
	}
	return l.emit(ILLEGAL, "unexpected character "+string(ch), start)
}

var twoCharOps = map[string]TokenType{
	"+=": ADD_ASSIGN, "-=": SUB_ASSIGN, "*=": MUL_ASSIGN, "/=": DIV_ASSIGN,
	"%=": MOD_ASSIGN, "^=": POW_ASSIGN, "==": EQ, "!=": NE, "<=": LE,
	">=": GE, "!~": NOT_MATCH, "&&": AND, "||": OR, "++": INCR, "--": DECR,
	">>": APPEND, "|&": AND_PIPE, "**": CARET,
}

var oneCharOps = map[byte]TokenType{
	'{': LBRACE, '}': RBRACE, '(': LPAREN, ')': RPAREN, '[': LBRACKET,
	']': RBRACKET, ';': SEMI, ',': COMMA, '+': PLUS, '-': MINUS, '*': STAR,
	'/': SLASH, '%': PERCENT, '^': CARET, '=': ASSIGN, '<': LT, '>': GT,
	'~': MATCH, '!': NOT, '?': QUESTION, ':': COLON, '$': DOLLAR,
	'|': PIPE, '@': AT,
}

func (l *Lexer) advance() {
	l.cur++
	l.col++
}

func (l *Lexer) atEnd() bool { return l.cur >= len(l.src) }

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }
