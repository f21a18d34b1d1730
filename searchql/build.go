package searchql

import (
	"fmt"
	"strconv"
	"strings"
)

// Build renders the condition tree as a single search string. The tagged
// tree cannot express an invalid NOT, so Build is total; the fallible part
// of query construction lives in Parse.
func Build(cond Condition) string {
	switch cond.kind {
	case kindAnd:
		return joinChildren(cond.children, " AND ", needsParensInAnd)
	case kindOr:
		return joinChildren(cond.children, " OR ", needsParensInOr)
	case kindNot:
		return "not(" + Build(cond.children[0]) + ")"
	default:
		return buildLeaf(cond.clauses)
	}
}

func joinChildren(children []Condition, sep string, needsParens func(string) bool) string {
	parts := make([]string, 0, len(children))

	for _, child := range children {
		s := Build(child)
		if s == "" {
			continue
		}
		if needsParens(s) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}

	return strings.Join(parts, sep)
}

// An OR child must be grouped inside an AND list so the OR does not bind
// into the surrounding context.
func needsParensInAnd(s string) bool {
	return strings.Contains(s, " OR ")
}

func needsParensInOr(s string) bool {
	return strings.Contains(s, " AND ") || strings.Contains(s, " OR ")
}

func buildLeaf(clauses []Clause) string {
	parts := make([]string, 0, len(clauses))

	for _, cl := range clauses {
		s, ok := renderClause(cl)
		if !ok {
			continue
		}
		parts = append(parts, s)
	}

	return strings.Join(parts, " AND ")
}

// renderClause renders one comparison. The second return is false when the
// clause holds no condition (nil value) and must be dropped.
func renderClause(cl Clause) (string, bool) {
	if cl.value == nil {
		return "", false
	}

	switch {
	case strings.HasPrefix(cl.key, "#"):
		return renderLabel(cl.key, cl.value)
	case strings.HasPrefix(cl.key, "~"):
		return renderComparison(cl.key, cl.value, OpContains)
	default:
		lhs := cl.key
		if !strings.HasPrefix(lhs, "note.") {
			lhs = "note." + lhs
		}
		return renderComparison(lhs, cl.value, OpEqual)
	}
}

func renderLabel(key string, value any) (string, bool) {
	// Booleans assert label presence or absence rather than comparing.
	if b, ok := value.(bool); ok {
		if b {
			return key, true
		}
		return "#!" + key[1:], true
	}

	return renderComparison(key, value, OpEqual)
}

func renderComparison(lhs string, value any, defaultOp string) (string, bool) {
	op := defaultOp

	if ov, ok := value.(OpValue); ok {
		if ov.Value == nil {
			return "", false
		}
		if ov.Op != "" {
			op = ov.Op
		}
		value = ov.Value
	}

	return lhs + " " + op + " " + formatValue(value), true
}

// formatValue renders a right-hand value. Strings are single-quoted with no
// escaping performed; quote-safe input is the caller's responsibility.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + x + "'"
	case bool:
		return strconv.FormatBool(x)
	case rawNumber:
		return string(x)
	default:
		return fmt.Sprintf("%v", v)
	}
}
