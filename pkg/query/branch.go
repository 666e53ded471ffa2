/*
Package query folds the overlapping terms found in a piece of text into one
boolean expression.

A scanner may report several readings for the same span, for example
"北京大学" as one word or as "北京" followed by "大学". A Branch keeps every
reading: terms that overlap become alternatives (OR), terms that follow each
other become a chain (AND).

	root := query.NewBranch(nil)
	for _, lex := range lexemes {
		if _, err := root.Accept(&lex); err != nil {
			return err
		}
	}
	expr := root.Expr("content") // content:北京大学 (+content:北京 +content:大学)

Terms must arrive ordered by begin offset. A Branch is built by one goroutine
and is not safe for concurrent use.
*/
package query

import (
	"errors"

	"github.com/charmbracelet/log"
)

var (
	// ErrNilLexeme is returned when Accept is given no lexeme.
	ErrNilLexeme = errors.New("query: lexeme is nil")
	// ErrInvalidLexeme is returned for lexemes with a negative or empty span.
	ErrInvalidLexeme = errors.New("query: lexeme span is invalid")
	// ErrOutOfOrder is returned when a lexeme begins before one already accepted.
	ErrOutOfOrder = errors.New("query: lexeme out of order")
)

type acceptKind int

const (
	refused acceptKind = iota - 1
	accepted
	toNext
)

// Branch is one node of the ambiguity tree. Its lexeme is the anchor; nil for
// the root and for the continuation branches linked through next.
type Branch struct {
	lexeme      *Lexeme
	leftBorder  int
	rightBorder int
	children    []*Branch
	next        *Branch

	// lastBegin is the begin of the latest lexeme given to Accept.
	lastBegin int
	started   bool
}

// NewBranch creates a branch anchored on lex, or an anchorless one for nil.
func NewBranch(lex *Lexeme) *Branch {
	b := &Branch{lexeme: lex}
	if lex != nil {
		b.leftBorder = lex.Begin
		b.rightBorder = lex.End
	}
	return b
}

// Lexeme returns the anchor, nil for anchorless branches.
func (b *Branch) Lexeme() *Lexeme { return b.lexeme }

// LeftBorder returns where the branch envelope starts.
func (b *Branch) LeftBorder() int { return b.leftBorder }

// RightBorder returns where the branch envelope ends.
func (b *Branch) RightBorder() int { return b.rightBorder }

// Children returns the alternative branches overlapping this one.
func (b *Branch) Children() []*Branch { return b.children }

// Next returns the branch following this one in the text.
func (b *Branch) Next() *Branch { return b.next }

// IsEmpty reports whether the branch holds nothing.
func (b *Branch) IsEmpty() bool {
	return b.lexeme == nil && len(b.children) == 0 && b.next == nil
}

// Accept folds lex into the tree below b and reports whether it was taken.
// Anchorless branches always take it. A lexeme beginning before the previous
// one breaks the ordering the tree relies on and is rejected with ErrOutOfOrder.
func (b *Branch) Accept(lex *Lexeme) (bool, error) {
	if lex == nil {
		return false, ErrNilLexeme
	}
	if lex.Begin < 0 || lex.End <= lex.Begin {
		return false, ErrInvalidLexeme
	}
	if b.started && lex.Begin < b.lastBegin {
		log.Error("Lexeme out of order", "begin", lex.Begin, "end", lex.End, "text", lex.Text, "previous", b.lastBegin)
		return false, ErrOutOfOrder
	}
	b.started = true
	b.lastBegin = lex.Begin
	return b.accept(lex), nil
}

func (b *Branch) accept(lex *Lexeme) bool {
	switch b.check(lex) {
	case refused:
		return false

	case accepted:
		byChild := false
		// every child gets a chance; several may take the same lexeme
		for _, child := range b.children {
			byChild = child.accept(lex) || byChild
		}
		if !byChild {
			b.children = append(b.children, NewBranch(lex))
		}
		if lex.End > b.rightBorder {
			b.rightBorder = lex.End
		}

	case toNext:
		if b.next == nil {
			b.next = NewBranch(nil)
		}
		b.next.accept(lex)
	}
	return true
}

func (b *Branch) check(lex *Lexeme) acceptKind {
	if b.lexeme == nil {
		if len(b.children) > 0 && lex.Begin >= b.rightBorder {
			return toNext
		}
		return accepted
	}

	switch {
	case lex.Begin < b.lexeme.Begin:
		// only reachable with unordered input
		return refused
	case lex.Begin < b.lexeme.End:
		return refused
	case lex.Begin < b.rightBorder:
		return accepted
	default:
		return toNext
	}
}

// ToExpr renders b as a list of sequential expressions: the anchor term,
// the children (one expression, or an OR of them), then the next chain.
func (b *Branch) ToExpr(field string) []*Expr {
	var list []*Expr
	if b.lexeme != nil {
		list = append(list, Term(field, b.lexeme.Text))
	}

	switch len(b.children) {
	case 0:
	case 1:
		if e := Optimize(b.children[0].ToExpr(field)); e != nil {
			list = append(list, e)
		}
	default:
		or := Bool()
		for _, child := range b.children {
			if e := Optimize(child.ToExpr(field)); e != nil {
				or.Add(Should, e)
			}
		}
		if !or.IsEmpty() {
			list = append(list, or)
		}
	}

	if b.next != nil {
		list = append(list, b.next.ToExpr(field)...)
	}
	return list
}

// Expr renders b as a single expression, nil when b is empty.
func (b *Branch) Expr(field string) *Expr {
	return Optimize(b.ToExpr(field))
}
