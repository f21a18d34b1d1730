// Package searchql builds Trilium search query strings from condition
// trees.
//
// A condition tree is assembled from typed constructors and rendered by
// [Build]:
//
//	cond := searchql.And(
//		searchql.Cond("#blog", true),
//		searchql.Cond("note.type", "text"),
//		searchql.Or(
//			searchql.Cond("#category", "tech"),
//			searchql.Cond("#category", "programming"),
//		),
//		searchql.Not(searchql.Cond("#draft", true)),
//	)
//	query := searchql.Build(cond)
//	// #blog AND note.type = 'text' AND (#category = 'tech' OR #category = 'programming') AND not(#draft)
//
// Clause keys are classified by prefix: "#name" is a label, "~name" is a
// relation, anything else is a note property and gets the "note." prefix
// unless it already carries one. Dotted names ("#template.title") are used
// verbatim as the left-hand side.
//
// [Parse] accepts the same trees as JSON documents, with "AND"/"OR"/"NOT"
// keys for combinators and {"value": ..., "operator": ...} objects for
// explicit comparisons.
package searchql

// Comparison operators understood by the Trilium search grammar.
const (
	OpEqual          = "="
	OpNotEqual       = "!="
	OpLess           = "<"
	OpLessOrEqual    = "<="
	OpGreater        = ">"
	OpGreaterOrEqual = ">="
	OpEndsWith       = "*="
	OpStartsWith     = "=*"
	OpContains       = "*=*"
)

type kind int

const (
	kindLeaf kind = iota
	kindAnd
	kindOr
	kindNot
)

// Condition is one node of a search condition tree: either a leaf holding
// an ordered list of clauses, or an AND/OR/NOT combinator over child
// conditions. The zero value is an empty leaf and renders as "".
type Condition struct {
	kind     kind
	children []Condition
	clauses  []Clause
}

// Clause is a single comparison inside a leaf condition.
type Clause struct {
	key   string
	value any
}

// OpValue pairs a comparison operator with its right-hand value. An empty
// Op falls back to the clause kind's default: "=" for labels and note
// properties, "*=*" for relations.
type OpValue struct {
	Op    string
	Value any
}

// And combines conditions so that all of them must hold.
func And(conds ...Condition) Condition {
	return Condition{kind: kindAnd, children: conds}
}

// Or combines conditions so that at least one of them must hold.
func Or(conds ...Condition) Condition {
	return Condition{kind: kindOr, children: conds}
}

// Not negates a condition.
func Not(cond Condition) Condition {
	return Condition{kind: kindNot, children: []Condition{cond}}
}

// Where builds a leaf condition from clauses, preserving their order.
func Where(clauses ...Clause) Condition {
	return Condition{kind: kindLeaf, clauses: clauses}
}

// C builds a single clause. The value may be a string, bool, number, an
// [OpValue], or nil (nil clauses are dropped at render time).
func C(key string, value any) Clause {
	return Clause{key: key, value: value}
}

// Cond is shorthand for Where(C(key, value)).
func Cond(key string, value any) Condition {
	return Where(C(key, value))
}

// Op builds an explicit operator/value pair for use as a clause value.
func Op(op string, value any) OpValue {
	return OpValue{Op: op, Value: value}
}

// String renders the condition, for debugging and logging.
func (c Condition) String() string {
	return Build(c)
}
