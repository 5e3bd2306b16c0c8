// # internal/lang/expr.go
package lang

import "hawk/internal/symbol"

// ExprKind tags nodes of the lightweight expression tree. The tree exists
// only so the grammar can test structural shapes after the fact (the for-in
// clause); it is never evaluated.
type ExprKind int

const (
	ExprLeaf ExprKind = iota
	ExprUnary
	ExprBinary
	ExprGroup
	ExprList
	ExprCall
)

// Expr is one node of the expression tree.
type Expr struct {
	Kind ExprKind
	Op   TokenType // operator for unary/binary nodes
	Tok  Token     // leaf token, or the operator token
	Kids []*Expr
}

func leaf(tok Token) *Expr { return &Expr{Kind: ExprLeaf, Tok: tok} }

func unary(op Token, kid *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Op: op.Type, Tok: op, Kids: []*Expr{kid}}
}

func binary(op Token, lhs, rhs *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Op: op.Type, Tok: op, Kids: []*Expr{lhs, rhs}}
}

// IsMembership reports whether the expression has the shape of an array
// membership test: "x in arr" or "(i, j) in arr". Grouping around the whole
// test is looked through.
func (e *Expr) IsMembership() bool {
	if e == nil {
		return false
	}
	if e.Kind == ExprGroup && len(e.Kids) == 1 {
		return e.Kids[0].IsMembership()
	}
	return e.Kind == ExprBinary && e.Op == IN
}

// Pos returns the start position of the expression.
func (e *Expr) Pos() symbol.Position {
	if e == nil {
		return symbol.Position{}
	}
	if len(e.Kids) > 0 && (e.Kind == ExprBinary || e.Kind == ExprGroup || e.Kind == ExprList) {
		return e.Kids[0].Pos()
	}
	return e.Tok.Pos
}
