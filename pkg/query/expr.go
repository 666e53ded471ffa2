package query

import "strings"

// Occur tells how a clause takes part in a boolean expression.
type Occur int

const (
	Must Occur = iota
	Should
	MustNot
)

func (o Occur) String() string {
	switch o {
	case Must:
		return "MUST"
	case Should:
		return "SHOULD"
	case MustNot:
		return "MUST_NOT"
	default:
		return "UNKNOWN"
	}
}

func (o Occur) prefix() string {
	switch o {
	case Must:
		return "+"
	case MustNot:
		return "-"
	default:
		return ""
	}
}

// Kind separates term leaves from boolean nodes.
type Kind int

const (
	KindTerm Kind = iota
	KindBool
)

// Clause is one member of a boolean expression.
type Clause struct {
	Occur Occur
	Expr  *Expr
}

// Expr is the tree handed to a search layer: single-field terms combined
// by boolean nodes. An AND is a boolean node whose clauses are all Must,
// an OR one whose clauses are all Should.
type Expr struct {
	Kind    Kind
	Field   string
	Text    string
	Clauses []Clause
}

// Term builds a leaf.
func Term(field, text string) *Expr {
	return &Expr{Kind: KindTerm, Field: field, Text: text}
}

// Bool builds a boolean node from clauses.
func Bool(clauses ...Clause) *Expr {
	return &Expr{Kind: KindBool, Clauses: clauses}
}

// And joins exprs so that all must hold. Nil entries are skipped.
func And(exprs ...*Expr) *Expr {
	return join(Must, exprs)
}

// Or joins exprs so that at least one must hold. Nil entries are skipped.
func Or(exprs ...*Expr) *Expr {
	return join(Should, exprs)
}

func join(occur Occur, exprs []*Expr) *Expr {
	b := Bool()
	for _, e := range exprs {
		if e != nil {
			b.Add(occur, e)
		}
	}
	return b
}

// Add appends a clause to a boolean node.
func (e *Expr) Add(occur Occur, sub *Expr) {
	e.Clauses = append(e.Clauses, Clause{Occur: occur, Expr: sub})
}

// IsTerm reports whether e is a leaf.
func (e *Expr) IsTerm() bool {
	return e.Kind == KindTerm
}

// IsEmpty reports whether e is a boolean node without clauses.
func (e *Expr) IsEmpty() bool {
	return e.Kind == KindBool && len(e.Clauses) == 0
}

// IsAnd reports whether e is a non-empty boolean node of Must clauses only.
func (e *Expr) IsAnd() bool {
	return e.all(Must)
}

// IsOr reports whether e is a non-empty boolean node of Should clauses only.
func (e *Expr) IsOr() bool {
	return e.all(Should)
}

func (e *Expr) all(occur Occur) bool {
	if e.Kind != KindBool || len(e.Clauses) == 0 {
		return false
	}
	for _, c := range e.Clauses {
		if c.Occur != occur {
			return false
		}
	}
	return true
}

// Terms lists the leaves of e from left to right.
func (e *Expr) Terms() []*Expr {
	if e == nil {
		return nil
	}
	if e.IsTerm() {
		return []*Expr{e}
	}
	var out []*Expr
	for _, c := range e.Clauses {
		out = append(out, c.Expr.Terms()...)
	}
	return out
}

// Equal compares two trees structurally, clause order included.
func (e *Expr) Equal(o *Expr) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Kind != o.Kind {
		return false
	}
	if e.IsTerm() {
		return e.Field == o.Field && e.Text == o.Text
	}
	if len(e.Clauses) != len(o.Clauses) {
		return false
	}
	for i := range e.Clauses {
		if e.Clauses[i].Occur != o.Clauses[i].Occur || !e.Clauses[i].Expr.Equal(o.Clauses[i].Expr) {
			return false
		}
	}
	return true
}

// String renders e in the usual search syntax, e.g. "+f:a +f:b" or "f:a (+f:b +f:c)".
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	e.write(&sb, false)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder, nested bool) {
	if e.IsTerm() {
		sb.WriteString(e.Field)
		sb.WriteByte(':')
		sb.WriteString(e.Text)
		return
	}
	if nested {
		sb.WriteByte('(')
	}
	for i, c := range e.Clauses {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.Occur.prefix())
		c.Expr.write(sb, true)
	}
	if nested {
		sb.WriteByte(')')
	}
}

// Optimize collapses a list of sequential expressions: nothing gives nil,
// one is returned as is, more are joined with And.
func Optimize(list []*Expr) *Expr {
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	default:
		return And(list...)
	}
}
