// # internal/lang/parser.go
//
// LL(1) recursive-descent grammar over the token stream from lexer.go. The
// parser owns no analysis results: everything it learns is pushed through
// the Sink interface as a left-to-right, top-to-bottom event stream
// (definitions, usages, diagnostics, include directives, call and parameter
// boundaries, structural regions). All parser state lives on the parser
// struct, so one invocation never leaks into the next and re-entrant parses
// cannot share mutable state.
//
// The awkward corners of the grammar, handled operationally:
//
//   - newline is a soft statement terminator (diagnosed per Options);
//   - string concatenation is juxtaposition: after a binary operator fails
//     to match, the expression continues if the next token can start an
//     operand;
//   - in a declaration's parameter list, a name preceded by more than one
//     space or a line break shifts the remainder into locals;
//   - the first clause of "for (...)" is re-judged after the fact: before
//     ")" it must be a membership test, before ";" it must not be.
package lang

import (
	"fmt"
	"strings"

	"hawk/internal/symbol"
)

// Sink receives the parser's event stream. Callbacks are invoked strictly
// in text order.
type Sink interface {
	Define(t symbol.Type, scope *symbol.Definition, name string, pos symbol.Position, doc string) *symbol.Definition
	Use(t symbol.Type, scope *symbol.Definition, name string, pos symbol.Position)
	Message(sev symbol.Severity, msg string, pos symbol.Position, length int)
	Include(path string, relative bool, pos symbol.Position, length int)
	CallBoundary(start bool, pos symbol.Position)
	ParamBoundary(index int, start bool, pos symbol.Position)
	EnterRegion(seg string, pos symbol.Position)
	RegionValue(pos symbol.Position)
	LeaveRegion(pos symbol.Position)
}

// Options controls dialect and stylistic diagnostics for one parse.
type Options struct {
	Gawk              bool // extended mode (may also be forced by a shebang)
	CompatWarnings    bool // diagnose constructs used outside their dialect
	SemicolonWarnings bool // diagnose newline-terminated statements
}

// Parse tokenizes and parses src, reporting everything through sink. It
// never returns an error: all failures, including internal parser faults,
// become diagnostics.
func Parse(src string, opts Options, sink Sink) {
	lex := NewLexer(src)
	toks := lex.Scan()
	p := &parser{toks: toks, opts: opts, gawk: opts.Gawk || lex.ShebangGawk(), sink: sink}
	defer func() {
		if r := recover(); r != nil {
			t := p.last()
			sink.Message(symbol.SeverityError, fmt.Sprintf("internal parser fault: %v", r), t.Pos, t.Len())
		}
	}()
	p.program()
}

type parser struct {
	toks []Token
	pos  int
	opts Options
	gawk bool
	sink Sink

	scope  *symbol.Definition
	params map[string]bool
	locals map[string]bool

	noGT int // >0 while a bare '>' means redirection, not comparison
}

// ── token plumbing ──────────────────────────────────────────────────────────

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) at(t TokenType) bool { return p.toks[p.pos].Type == t }

func (p *parser) peek() TokenType {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1].Type
	}
	return EOF
}

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) last() Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *parser) expect(t TokenType) (Token, bool) {
	if p.at(t) {
		return p.advance(), true
	}
	p.errorHere(fmt.Sprintf("expected %s, found %s", t, p.describe(p.cur())))
	return p.cur(), false
}

func (p *parser) describe(tok Token) string {
	switch tok.Type {
	case IDENT, FUNC_NAME, NUMBER:
		return "'" + tok.Lit + "'"
	default:
		return tok.Type.String()
	}
}

func (p *parser) skipNewlines() {
	for p.at(NEWLINE) {
		p.advance()
	}
}

// errorHere reports a syntax error at the last consumed token, matching the
// "position = last consumed token" contract.
func (p *parser) errorHere(msg string) {
	t := p.last()
	p.sink.Message(symbol.SeverityError, msg, t.Pos, t.Len())
}

// sync skips ahead to the next plausible statement boundary.
func (p *parser) sync() {
	for {
		switch p.cur().Type {
		case NEWLINE, SEMI:
			p.advance()
			return
		case RBRACE, EOF:
			return
		}
		p.advance()
	}
}

func (p *parser) compat(feature string, tok Token) {
	if p.gawk || !p.opts.CompatWarnings {
		return
	}
	p.sink.Message(symbol.SeverityWarning,
		feature+" is a gawk extension and not available in POSIX mode", tok.Pos, tok.Len())
}

// ── program structure ───────────────────────────────────────────────────────

func (p *parser) program() {
	for !p.at(EOF) {
		start := p.pos
		switch p.cur().Type {
		case NEWLINE, SEMI:
			p.advance()
		case AT:
			p.directive()
		case FUNCTION:
			p.functionDef()
		default:
			p.rule()
		}
		if p.pos == start {
			p.advance()
			p.errorHere("unexpected " + p.describe(p.last()))
		}
	}
}

// directive parses "@include \"path\"" at the top level.
func (p *parser) directive() {
	atTok := p.advance()
	if !p.at(IDENT) && !p.at(FUNC_NAME) {
		p.errorHere("expected directive name after '@'")
		p.sync()
		return
	}
	name := p.advance()
	if name.Lit != "include" {
		p.errorHere(fmt.Sprintf("unknown directive '@%s'", name.Lit))
		p.sync()
		return
	}
	p.compat("'@include'", atTok)
	str, ok := p.expect(STRING)
	if !ok {
		p.sync()
		return
	}
	path := unquote(str.Lit)
	end := str.Pos.Col + str.Len()
	p.sink.Include(path, !strings.HasPrefix(path, "/"), atTok.Pos, end-atTok.Pos.Col)
}

// rule parses one pattern-action item.
func (p *parser) rule() {
	first := p.cur()
	seg := "rule"
	hasPattern := false

	switch first.Type {
	case BEGIN, END:
		seg = first.Lit
		hasPattern = true
		p.sink.EnterRegion(seg, first.Pos)
		p.advance()
	case LBRACE:
		p.sink.EnterRegion(seg, first.Pos)
	default:
		hasPattern = true
		p.sink.EnterRegion(seg, first.Pos)
		p.expression()
		if p.at(COMMA) { // range pattern
			p.advance()
			p.skipNewlines()
			p.expression()
		}
	}

	if p.at(LBRACE) {
		p.sink.RegionValue(p.cur().Pos)
		p.blockBody()
	} else if first.Type == BEGIN || first.Type == END {
		p.errorHere(fmt.Sprintf("%s requires an action block", first.Lit))
		p.sync()
	} else if hasPattern {
		// a bare pattern defaults to { print }; nothing to record
		p.endOfStatement()
	}
	p.sink.LeaveRegion(p.last().Pos)
}

// functionDef parses a function declaration, registering its parameter and
// local definitions. The "more than one space or a newline before a name
// shifts the rest into locals" convention is applied per parameter.
func (p *parser) functionDef() {
	fnTok := p.advance()
	doc := fnTok.Doc

	if !p.at(FUNC_NAME) && !p.at(IDENT) {
		p.errorHere("expected function name")
		p.sync()
		return
	}
	nameTok := p.advance()
	if doc == "" {
		doc = nameTok.Doc
	}

	if b, known := Builtins[nameTok.Lit]; known {
		if p.opts.CompatWarnings || !b.Gawk {
			p.sink.Message(symbol.SeverityWarning,
				fmt.Sprintf("function '%s' shadows a built-in of the same name", nameTok.Lit),
				nameTok.Pos, nameTok.Len())
		}
	}

	def := p.sink.Define(symbol.DefineFunction, nil, nameTok.Lit, nameTok.Pos, doc)
	p.scope = def
	p.params = make(map[string]bool)
	p.locals = make(map[string]bool)
	defer func() {
		p.scope = nil
		p.params = nil
		p.locals = nil
	}()

	p.sink.EnterRegion("function", fnTok.Pos)
	p.sink.EnterRegion(nameTok.Lit, nameTok.Pos)
	defer func() {
		p.sink.LeaveRegion(p.last().Pos)
		p.sink.LeaveRegion(p.last().Pos)
	}()

	if _, ok := p.expect(LPAREN); !ok {
		p.sync()
		return
	}

	shifted := false
	for !p.at(RPAREN) && !p.at(EOF) {
		if p.at(NEWLINE) {
			shifted = true
			p.advance()
			continue
		}
		if !p.at(IDENT) && !p.at(FUNC_NAME) {
			p.errorHere("expected parameter name")
			p.sync()
			return
		}
		param := p.advance()
		if param.NL || param.Gap > 1 {
			shifted = true
		}
		if p.params[param.Lit] || p.locals[param.Lit] {
			p.sink.Message(symbol.SeverityWarning,
				fmt.Sprintf("duplicate parameter '%s'", param.Lit), param.Pos, param.Len())
		}
		if shifted {
			p.sink.Define(symbol.DefineLocalVar, def, param.Lit, param.Pos, param.Doc)
			p.locals[param.Lit] = true
		} else {
			p.sink.Define(symbol.DefineParam, def, param.Lit, param.Pos, param.Doc)
			p.params[param.Lit] = true
		}
		if p.at(COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(RPAREN); !ok {
		p.sync()
		return
	}

	p.skipNewlines()
	if !p.at(LBRACE) {
		p.errorHere("expected '{' to start function body")
		p.sync()
		return
	}
	p.sink.RegionValue(p.cur().Pos)
	p.blockBody()
}

// blockBody parses "{ statements }" without opening a region of its own.
func (p *parser) blockBody() {
	p.expect(LBRACE)
	for {
		p.skipNewlines()
		if p.at(RBRACE) || p.at(EOF) {
			break
		}
		start := p.pos
		p.statement()
		if p.pos == start {
			p.advance()
			p.errorHere("unexpected " + p.describe(p.last()))
		}
	}
	p.expect(RBRACE)
}

func (p *parser) nestedBlock() {
	p.sink.EnterRegion("block", p.cur().Pos)
	p.blockBody()
	p.sink.LeaveRegion(p.last().Pos)
}

// ── statements ──────────────────────────────────────────────────────────────

func (p *parser) statement() {
	switch p.cur().Type {
	case LBRACE:
		p.nestedBlock()
	case IF:
		p.ifStatement()
	case WHILE:
		p.whileStatement()
	case DO:
		p.doStatement()
	case FOR:
		p.forStatement()
	case SWITCH:
		p.switchStatement()
	case BREAK, CONTINUE, NEXT, NEXTFILE:
		p.advance()
		p.endOfStatement()
	case EXIT:
		p.advance()
		if p.startsExpression() {
			p.expression()
		}
		p.endOfStatement()
	case RETURN:
		p.advance()
		if p.startsExpression() {
			p.expression()
		}
		p.endOfStatement()
	case DELETE:
		p.deleteStatement()
	case PRINT, PRINTF:
		p.printStatement()
	case GETLINE:
		p.expression()
		p.endOfStatement()
	case SEMI:
		p.advance()
	default:
		p.expression()
		p.endOfStatement()
	}
}

// endOfStatement consumes the statement terminator and applies the
// missing-semicolon policy when the terminator is a newline.
func (p *parser) endOfStatement() {
	switch p.cur().Type {
	case SEMI:
		p.advance()
	case NEWLINE:
		nl := p.advance()
		p.missingSemicolon(nl)
	case RBRACE, EOF, ELSE:
		// closed by the enclosing construct
	default:
		p.errorHere("unexpected " + p.describe(p.cur()) + " after statement")
		p.sync()
	}
}

// missingSemicolon reports a newline-terminated statement: always an error
// in strict mode, a toggled warning in extended mode.
func (p *parser) missingSemicolon(nl Token) {
	if !p.opts.SemicolonWarnings {
		return
	}
	sev := symbol.SeverityWarning
	if !p.gawk {
		sev = symbol.SeverityError
	}
	p.sink.Message(sev, "statement ends without ';'", nl.Pos, 1)
}

func (p *parser) parenCondition() {
	if _, ok := p.expect(LPAREN); !ok {
		p.sync()
		return
	}
	p.skipNewlines()
	p.expression()
	p.skipNewlines()
	p.expect(RPAREN)
}

func (p *parser) ifStatement() {
	p.advance()
	p.parenCondition()
	p.skipNewlines()
	p.statement()

	// a newline may separate the branch from "else"
	save := p.pos
	p.skipNewlines()
	if p.at(ELSE) {
		p.advance()
		p.skipNewlines()
		p.statement()
	} else {
		p.pos = save
	}
}

func (p *parser) whileStatement() {
	p.advance()
	p.parenCondition()
	p.skipNewlines()
	p.statement()
}

func (p *parser) doStatement() {
	p.advance()
	p.skipNewlines()
	p.statement()
	p.skipNewlines()
	if _, ok := p.expect(WHILE); !ok {
		p.sync()
		return
	}
	p.parenCondition()
	p.endOfStatement()
}

// forStatement re-judges the first clause after parsing it: when ")" comes
// next the clause must have been a membership test, when ";" comes next it
// must not.
func (p *parser) forStatement() {
	p.advance()
	if _, ok := p.expect(LPAREN); !ok {
		p.sync()
		return
	}

	var first *Expr
	if !p.at(SEMI) {
		first = p.expression()
	}

	switch p.cur().Type {
	case RPAREN:
		if !first.IsMembership() {
			p.errorHere("expected '(variable in array)' in for clause")
		}
		p.advance()
	case SEMI:
		if first.IsMembership() {
			p.errorHere("membership test cannot start a three-clause for loop")
		}
		p.advance()
		p.skipNewlines()
		if !p.at(SEMI) {
			p.expression()
		}
		if _, ok := p.expect(SEMI); !ok {
			p.sync()
			return
		}
		p.skipNewlines()
		if !p.at(RPAREN) {
			p.expression()
		}
		p.expect(RPAREN)
	default:
		p.errorHere("expected ';' or ')' in for clause")
		p.sync()
		return
	}

	p.skipNewlines()
	p.statement()
}

func (p *parser) switchStatement() {
	sw := p.advance()
	p.compat("'switch'", sw)
	p.parenCondition()
	p.skipNewlines()
	if !p.at(LBRACE) {
		p.errorHere("expected '{' after switch")
		p.sync()
		return
	}
	p.sink.EnterRegion("switch", sw.Pos)
	p.advance()
	for {
		p.skipNewlines()
		switch p.cur().Type {
		case CASE:
			p.advance()
			p.expression()
			p.expect(COLON)
		case DEFAULT:
			p.advance()
			p.expect(COLON)
		case RBRACE, EOF:
			p.expect(RBRACE)
			p.sink.LeaveRegion(p.last().Pos)
			return
		default:
			start := p.pos
			p.statement()
			if p.pos == start {
				p.advance()
				p.errorHere("unexpected " + p.describe(p.last()))
			}
		}
	}
}

func (p *parser) deleteStatement() {
	p.advance()
	if !p.at(IDENT) && !p.at(FUNC_NAME) {
		p.errorHere("expected array name after 'delete'")
		p.sync()
		return
	}
	name := p.advance()
	p.useVariable(name)
	if p.at(LBRACKET) {
		p.subscript()
	}
	p.endOfStatement()
}

// printStatement parses print/printf with their output list and optional
// redirection; a bare '>' inside the list is a redirection target, which is
// why the list is parsed with noGT set.
func (p *parser) printStatement() {
	kw := p.advance()
	if kw.Type == PRINTF {
		p.compat("'printf'", kw)
	}

	if p.startsExpression() {
		p.noGT++
		p.expression()
		for p.at(COMMA) {
			p.advance()
			p.skipNewlines()
			p.expression()
		}
		p.noGT--
	} else if kw.Type == PRINTF {
		p.errorHere("printf requires a format argument")
	}

	switch p.cur().Type {
	case GT, APPEND, PIPE, AND_PIPE:
		redir := p.advance()
		if redir.Type == AND_PIPE {
			p.compat("'|&'", redir)
		}
		p.expression()
	}
	p.endOfStatement()
}

func (p *parser) startsExpression() bool {
	switch p.cur().Type {
	case IDENT, FUNC_NAME, NUMBER, STRING, ERE, DOLLAR, LPAREN, NOT,
		MINUS, PLUS, INCR, DECR, GETLINE, AT:
		return true
	}
	return false
}

// ── expressions ─────────────────────────────────────────────────────────────

func (p *parser) expression() *Expr {
	e := p.ternary()
	for p.at(PIPE) && p.peek() == GETLINE {
		p.advance()
		op := p.advance()
		var lv *Expr
		if p.at(IDENT) || p.at(FUNC_NAME) || p.at(DOLLAR) {
			lv = p.postfix()
		}
		if lv == nil {
			lv = leaf(op)
		}
		e = binary(op, e, lv)
	}
	return e
}

func (p *parser) ternary() *Expr {
	cond := p.orExpr()
	if !p.at(QUESTION) {
		return cond
	}
	q := p.advance()
	p.skipNewlines()
	thenE := p.ternary()
	if _, ok := p.expect(COLON); !ok {
		return binary(q, cond, thenE)
	}
	p.skipNewlines()
	elseE := p.ternary()
	return binary(q, cond, binary(q, thenE, elseE))
}

func (p *parser) orExpr() *Expr {
	e := p.andExpr()
	for p.at(OR) {
		op := p.advance()
		p.skipNewlines()
		e = binary(op, e, p.andExpr())
	}
	return e
}

func (p *parser) andExpr() *Expr {
	e := p.inExpr()
	for p.at(AND) {
		op := p.advance()
		p.skipNewlines()
		e = binary(op, e, p.inExpr())
	}
	return e
}

func (p *parser) inExpr() *Expr {
	e := p.matchExpr()
	for p.at(IN) {
		op := p.advance()
		if !p.at(IDENT) && !p.at(FUNC_NAME) {
			p.errorHere("expected array name after 'in'")
			return binary(op, e, leaf(op))
		}
		arr := p.advance()
		p.useVariable(arr)
		e = binary(op, e, leaf(arr))
	}
	return e
}

func (p *parser) matchExpr() *Expr {
	e := p.relExpr()
	for p.at(MATCH) || p.at(NOT_MATCH) {
		op := p.advance()
		e = binary(op, e, p.relExpr())
	}
	return e
}

func (p *parser) relExpr() *Expr {
	e := p.concat()
	switch p.cur().Type {
	case LT, LE, NE, EQ, GE:
		op := p.advance()
		return binary(op, e, p.concat())
	case GT:
		if p.noGT > 0 {
			return e
		}
		op := p.advance()
		return binary(op, e, p.concat())
	case ASSIGN, ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN, POW_ASSIGN:
		// assignment is right-associative and hangs off any lvalue-shaped
		// expression; lvalue validity is not this tool's concern
		op := p.advance()
		p.skipNewlines()
		return binary(op, e, p.ternary())
	}
	return e
}

// concat chains additive expressions by juxtaposition: the continuation is
// tried whenever no binary operator matched but the next token can start an
// operand.
func (p *parser) concat() *Expr {
	e := p.addExpr()
	for p.concatContinues() {
		rhs := p.addExpr()
		e = &Expr{Kind: ExprBinary, Op: STRING, Tok: rhs.Tok, Kids: []*Expr{e, rhs}}
	}
	return e
}

func (p *parser) concatContinues() bool {
	switch p.cur().Type {
	case IDENT, FUNC_NAME, NUMBER, STRING, ERE, DOLLAR, LPAREN:
		return true
	}
	return false
}

func (p *parser) addExpr() *Expr {
	e := p.mulExpr()
	for p.at(PLUS) || p.at(MINUS) {
		op := p.advance()
		e = binary(op, e, p.mulExpr())
	}
	return e
}

func (p *parser) mulExpr() *Expr {
	e := p.unary()
	for p.at(STAR) || p.at(SLASH) || p.at(PERCENT) {
		op := p.advance()
		e = binary(op, e, p.unary())
	}
	return e
}

func (p *parser) unary() *Expr {
	switch p.cur().Type {
	case NOT, MINUS, PLUS:
		op := p.advance()
		return unary(op, p.unary())
	case INCR, DECR:
		op := p.advance()
		return unary(op, p.unary())
	}
	return p.powExpr()
}

func (p *parser) powExpr() *Expr {
	e := p.postfix()
	if p.at(CARET) {
		op := p.advance()
		return binary(op, e, p.unary()) // right-assoc, binds tighter than unary minus
	}
	return e
}

func (p *parser) postfix() *Expr {
	e := p.primary()
	for p.at(INCR) || p.at(DECR) {
		op := p.advance()
		e = unary(op, e)
	}
	return e
}

func (p *parser) primary() *Expr {
	switch p.cur().Type {
	case NUMBER, STRING, ERE:
		return leaf(p.advance())
	case DOLLAR:
		op := p.advance()
		return unary(op, p.postfix())
	case LPAREN:
		return p.group()
	case IDENT:
		tok := p.advance()
		p.useVariable(tok)
		e := leaf(tok)
		if p.at(LBRACKET) {
			p.subscript()
		}
		return e
	case FUNC_NAME:
		return p.call()
	case GETLINE:
		return p.getline()
	case AT:
		return p.indirectCall()
	case ILLEGAL:
		tok := p.advance()
		p.sink.Message(symbol.SeverityError, tok.Lit, tok.Pos, tok.Len())
		return leaf(tok)
	default:
		p.errorHere("expected expression, found " + p.describe(p.cur()))
		return leaf(p.cur())
	}
}

func (p *parser) group() *Expr {
	lp := p.advance()
	p.skipNewlines()
	kids := []*Expr{p.expression()}
	for p.at(COMMA) {
		p.advance()
		p.skipNewlines()
		kids = append(kids, p.expression())
	}
	p.skipNewlines()
	p.expect(RPAREN)
	kind := ExprGroup
	if len(kids) > 1 {
		kind = ExprList
	}
	return &Expr{Kind: kind, Tok: lp, Kids: kids}
}

// call parses "name(args)" and brackets it with call/parameter boundary
// events for the arity checker and signature help.
func (p *parser) call() *Expr {
	nameTok := p.advance()

	if b, known := Builtins[nameTok.Lit]; known && b.Gawk {
		p.compat("'"+nameTok.Lit+"'", nameTok)
	}

	p.sink.Use(symbol.Function, p.scope, nameTok.Lit, nameTok.Pos)
	p.sink.CallBoundary(true, nameTok.Pos)
	p.expect(LPAREN)

	node := &Expr{Kind: ExprCall, Tok: nameTok}
	i := 0
	p.skipNewlines()
	for !p.at(RPAREN) && !p.at(EOF) {
		p.sink.ParamBoundary(i, true, p.cur().Pos)
		node.Kids = append(node.Kids, p.expression())
		p.sink.ParamBoundary(i, false, p.cur().Pos)
		i++
		if p.at(COMMA) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	rp, _ := p.expect(RPAREN)
	p.sink.ParamBoundary(symbol.CallClose, false, rp.Pos)
	p.sink.CallBoundary(false, rp.Pos)
	return node
}

// indirectCall parses gawk's "@name(args)". The target is a variable whose
// value names a function, so no call boundary is recorded: arity cannot be
// judged statically.
func (p *parser) indirectCall() *Expr {
	atTok := p.advance()
	p.compat("indirect function calls", atTok)
	if !p.at(IDENT) && !p.at(FUNC_NAME) {
		p.errorHere("expected function variable after '@'")
		return leaf(atTok)
	}
	nameTok := p.advance()
	p.useVariable(nameTok)
	node := &Expr{Kind: ExprCall, Tok: nameTok}
	if p.at(LPAREN) {
		p.advance()
		p.skipNewlines()
		for !p.at(RPAREN) && !p.at(EOF) {
			node.Kids = append(node.Kids, p.expression())
			if p.at(COMMA) {
				p.advance()
				p.skipNewlines()
				continue
			}
			break
		}
		p.expect(RPAREN)
	}
	return node
}

func (p *parser) getline() *Expr {
	tok := p.advance()
	if p.at(IDENT) || p.at(FUNC_NAME) || p.at(DOLLAR) {
		p.postfix()
	}
	if p.at(LT) {
		p.advance()
		p.expression()
	}
	return leaf(tok)
}

func (p *parser) subscript() {
	p.expect(LBRACKET)
	p.skipNewlines()
	p.expression()
	for p.at(COMMA) {
		p.advance()
		p.skipNewlines()
		p.expression()
	}
	p.expect(RBRACKET)
}

// useVariable classifies a name occurrence against the current function
// scope and emits the usage.
func (p *parser) useVariable(tok Token) {
	t := symbol.GlobalVar
	if p.scope != nil {
		if p.params[tok.Lit] {
			t = symbol.Param
		} else if p.locals[tok.Lit] {
			t = symbol.LocalVar
		}
	}
	p.sink.Use(t, p.scope, tok.Lit, tok.Pos)
}

func unquote(lit string) string {
	if len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"' {
		lit = lit[1 : len(lit)-1]
	}
	var b strings.Builder
	for i := 0; i < len(lit); i++ {
		if lit[i] == '\\' && i+1 < len(lit) {
			i++
			switch lit[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(lit[i])
			}
			continue
		}
		b.WriteByte(lit[i])
	}
	return b.String()
}
