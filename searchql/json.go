package searchql

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// ErrInvalidNot is returned when a NOT operator is given a bare value
// instead of a nested condition.
var ErrInvalidNot = errors.New("NOT operator requires a query object, not a simple value")

// rawNumber carries a JSON number literal through to the rendered query
// unchanged, so "1.50" stays "1.50".
type rawNumber string

// Parse builds a Condition from a JSON condition document.
//
// An object with an "AND" or "OR" key is a combinator over the key's array
// of child objects; an object with a "NOT" key negates the key's nested
// object. Any other object is a leaf: its entries become clauses in
// document order. Entry values may be strings, numbers, booleans, null
// (dropped), or {"value": ..., "operator": ...} objects.
//
// Empty or all-whitespace input parses to the empty condition.
func Parse(data []byte) (Condition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Condition{}, nil
	}

	cond, err := parseNode(data)
	if err != nil {
		return Condition{}, err
	}

	return cond, nil
}

// BuildJSON parses a JSON condition document and renders it in one step.
func BuildJSON(data []byte) (string, error) {
	cond, err := Parse(data)
	if err != nil {
		return "", err
	}

	return Build(cond), nil
}

// parseNode parses one condition object. Combinator keys win over leaf
// interpretation, checked in the order AND, OR, NOT.
func parseNode(data []byte) (Condition, error) {
	if andValue, dataType, _, err := jsonparser.Get(data, "AND"); err == nil && dataType == jsonparser.Array {
		children, err := parseChildren(andValue)
		if err != nil {
			return Condition{}, err
		}
		return And(children...), nil
	}

	if orValue, dataType, _, err := jsonparser.Get(data, "OR"); err == nil && dataType == jsonparser.Array {
		children, err := parseChildren(orValue)
		if err != nil {
			return Condition{}, err
		}
		return Or(children...), nil
	}

	if notValue, dataType, _, err := jsonparser.Get(data, "NOT"); err == nil && dataType != jsonparser.NotExist {
		return parseNot(notValue, dataType)
	}

	return parseLeaf(data)
}

func parseChildren(arrayValue []byte) ([]Condition, error) {
	var children []Condition
	var parseErr error

	_, err := jsonparser.ArrayEach(arrayValue, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if parseErr != nil {
			return
		}
		// Non-object elements hold no condition.
		if dataType != jsonparser.Object {
			return
		}

		child, err := parseNode(value)
		if err != nil {
			parseErr = err
			return
		}
		children = append(children, child)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid combinator children: %w", err)
	}
	if parseErr != nil {
		return nil, parseErr
	}

	return children, nil
}

// parseNot enforces the one hard rule of the grammar: NOT takes a nested
// condition object. A {"value": ...} leaf in that position is a bare
// comparison, not a condition, and is rejected the same as a scalar.
func parseNot(value []byte, dataType jsonparser.ValueType) (Condition, error) {
	if dataType != jsonparser.Object {
		return Condition{}, ErrInvalidNot
	}

	if _, _, _, err := jsonparser.Get(value, "value"); err == nil {
		return Condition{}, ErrInvalidNot
	}

	inner, err := parseNode(value)
	if err != nil {
		return Condition{}, err
	}

	return Not(inner), nil
}

func parseLeaf(data []byte) (Condition, error) {
	var clauses []Clause
	var parseErr error

	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		if parseErr != nil {
			return nil
		}

		v, err := parseLeafValue(value, dataType)
		if err != nil {
			parseErr = err
			return nil
		}
		clauses = append(clauses, C(string(key), v))

		return nil
	})
	if err != nil {
		return Condition{}, fmt.Errorf("invalid condition document: %w", err)
	}
	if parseErr != nil {
		return Condition{}, parseErr
	}

	return Where(clauses...), nil
}

// parseLeafValue converts a JSON entry value into a clause value. Nil means
// the clause is dropped at render time.
func parseLeafValue(value []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid string value: %w", err)
		}
		return s, nil

	case jsonparser.Number:
		return rawNumber(value), nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %w", err)
		}
		return b, nil

	case jsonparser.Object:
		return parseOpValue(value)

	default:
		// Null and anything else carry no condition.
		return nil, nil
	}
}

// parseOpValue reads a {"value": ..., "operator": ...} object. An object
// without a "value" field holds no condition.
func parseOpValue(data []byte) (any, error) {
	inner, dataType, _, err := jsonparser.Get(data, "value")
	if err != nil || dataType == jsonparser.Null {
		return nil, nil //nolint:nilerr // absent value means no condition
	}

	v, err := parseLeafValue(inner, dataType)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	op, _ := jsonparser.GetString(data, "operator")

	return OpValue{Op: op, Value: v}, nil
}
