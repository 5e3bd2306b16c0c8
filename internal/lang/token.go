// # internal/lang/token.go
package lang

import "hawk/internal/symbol"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL
	NEWLINE

	// Punctuation
	LBRACE   // "{"
	RBRACE   // "}"
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	SEMI     // ";"
	COMMA    // ","

	// Operators
	PLUS       // "+"
	MINUS      // "-"
	STAR       // "*"
	SLASH      // "/"
	PERCENT    // "%"
	CARET      // "^"
	ASSIGN     // "="
	ADD_ASSIGN // "+="
	SUB_ASSIGN // "-="
	MUL_ASSIGN // "*="
	DIV_ASSIGN // "/="
	MOD_ASSIGN // "%="
	POW_ASSIGN // "^="
	EQ         // "=="
	NE         // "!="
	LT         // "<"
	LE         // "<="
	GT         // ">"
	GE         // ">="
	MATCH      // "~"
	NOT_MATCH  // "!~"
	NOT        // "!"
	AND        // "&&"
	OR         // "||"
	INCR       // "++"
	DECR       // "--"
	QUESTION   // "?"
	COLON      // ":"
	DOLLAR     // "$"
	APPEND     // ">>"
	PIPE       // "|"
	AND_PIPE   // "|&" (gawk coprocess)
	AT         // "@" (gawk indirect call / directive)

	// Literals & identifiers
	IDENT
	FUNC_NAME // identifier immediately followed by "(" (no gap)
	NUMBER
	STRING
	ERE // regex literal /.../

	// Keywords
	BEGIN
	END
	FUNCTION
	IF
	ELSE
	WHILE
	FOR
	DO
	BREAK
	CONTINUE
	NEXT
	NEXTFILE
	EXIT
	RETURN
	DELETE
	IN
	GETLINE
	PRINT
	PRINTF
	SWITCH  // gawk
	CASE    // gawk
	DEFAULT // gawk
)

var keywords = map[string]TokenType{
	"BEGIN":    BEGIN,
	"END":      END,
	"function": FUNCTION,
	"func":     FUNCTION, // historical synonym, still accepted
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"do":       DO,
	"break":    BREAK,
	"continue": CONTINUE,
	"next":     NEXT,
	"nextfile": NEXTFILE,
	"exit":     EXIT,
	"return":   RETURN,
	"delete":   DELETE,
	"in":       IN,
	"getline":  GETLINE,
	"print":    PRINT,
	"printf":   PRINTF,
	"switch":   SWITCH,
	"case":     CASE,
	"default":  DEFAULT,
}

var tokenNames = map[TokenType]string{
	EOF: "end of file", ILLEGAL: "illegal token", NEWLINE: "newline",
	LBRACE: "'{'", RBRACE: "'}'", LPAREN: "'('", RPAREN: "')'",
	LBRACKET: "'['", RBRACKET: "']'", SEMI: "';'", COMMA: "','",
	PLUS: "'+'", MINUS: "'-'", STAR: "'*'", SLASH: "'/'", PERCENT: "'%'",
	CARET: "'^'", ASSIGN: "'='", ADD_ASSIGN: "'+='", SUB_ASSIGN: "'-='",
	MUL_ASSIGN: "'*='", DIV_ASSIGN: "'/='", MOD_ASSIGN: "'%='",
	POW_ASSIGN: "'^='", EQ: "'=='", NE: "'!='", LT: "'<'", LE: "'<='",
	GT: "'>'", GE: "'>='", MATCH: "'~'", NOT_MATCH: "'!~'", NOT: "'!'",
	AND: "'&&'", OR: "'||'", INCR: "'++'", DECR: "'--'", QUESTION: "'?'",
	COLON: "':'", DOLLAR: "'$'", APPEND: "'>>'", PIPE: "'|'",
	AND_PIPE: "'|&'", AT: "'@'",
	IDENT: "identifier", FUNC_NAME: "function name", NUMBER: "number",
	STRING: "string", ERE: "regex",
	BEGIN: "'BEGIN'", END: "'END'", FUNCTION: "'function'", IF: "'if'",
	ELSE: "'else'", WHILE: "'while'", FOR: "'for'", DO: "'do'",
	BREAK: "'break'", CONTINUE: "'continue'", NEXT: "'next'",
	NEXTFILE: "'nextfile'", EXIT: "'exit'", RETURN: "'return'",
	DELETE: "'delete'", IN: "'in'", GETLINE: "'getline'", PRINT: "'print'",
	PRINTF: "'printf'", SWITCH: "'switch'", CASE: "'case'", DEFAULT: "'default'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "unknown token"
}

// Token is one lexeme plus the layout facts the grammar needs: its start
// position, and the length of ignored text (spaces, tabs, comments,
// backslash-newlines) between it and the previous token. Gap feeds the
// "more than one space before a parameter starts the locals" rule.
type Token struct {
	Type TokenType
	Lit  string
	Pos  symbol.Position
	Gap  int
	NL   bool   // ignored text before this token crossed a line break
	Doc  string // doc comment immediately preceding this token, if any
}

// Len returns the token's source length in characters.
func (t Token) Len() int {
	if n := len(t.Lit); n > 0 {
		return n
	}
	return 1
}
