package selection

import(
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidSelection = errors.New("invalid selection")

// A Table is anything with numeric columns we can cut on.
type Table interface {
	NumRows() int
	// Column returns the values of the named column, one per row, or false
	// if there is no such column.
	Column(name string) ([]float64, bool)
}

// An IntTable also has integer columns, such as IDs, which integer cuts
// compare exactly instead of through float64.
type IntTable interface {
	IntColumn(name string) ([]int64, bool)
}

// Mode says how multiple cuts combine.
type Mode string

const(
	ModeAnd Mode = "and"
	ModeOr  Mode = "or"
)

type op string

// Longest operators first, so ">=" isn't read as ">".
var ops = []op{"==", "!=", ">=", "<=", ">", "<"}

// A Cut is one compiled `<column><operator><value>` clause, or one of
// the literals ALL / NONE.
type Cut struct {
	Text   string
	Column string
	Op     op
	Value  float64

	intValue int64
	isInt    bool
	all    bool
	none   bool
}

func (c Cut)String() string { return c.Text }

// ParseCut compiles a single cut expression. Whitespace around the
// parts is ignored; the column must be an identifier.
func ParseCut(expr string) (Cut, error) {
	text := strings.TrimSpace(expr)
	switch text {
	case "", "ALL": return Cut{Text:text, all:true}, nil
	case "NONE":    return Cut{Text:text, none:true}, nil
	}

	for _, o := range ops {
		idx := strings.Index(text, string(o))
		if idx < 0 {
			continue
		}
		col := strings.TrimSpace(text[:idx])
		lit := strings.TrimSpace(text[idx+len(o):])
		if !isIdentifier(col) {
			return Cut{}, fmt.Errorf("cut %q: bad column name %q: %w", expr, col, ErrInvalidSelection)
		}
		val, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return Cut{}, fmt.Errorf("cut %q: bad value %q: %w", expr, lit, ErrInvalidSelection)
		}
		c := Cut{Text:text, Column:col, Op:o, Value:val}
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			c.intValue, c.isInt = n, true
		}
		return c, nil
	}

	return Cut{}, fmt.Errorf("cut %q: no comparison operator: %w", expr, ErrInvalidSelection)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// A predicate reports whether a row passes.
type predicate func(row int) bool

func (c Cut)compile(t Table) (predicate, error) {
	switch {
	case c.all:  return func(int) bool { return true }, nil
	case c.none: return func(int) bool { return false }, nil
	}

	if it, ok := t.(IntTable); ok && c.isInt {
		if ivals, exists := it.IntColumn(c.Column); exists {
			return c.compileInt(ivals)
		}
	}

	vals, exists := t.Column(c.Column)
	if !exists {
		return nil, fmt.Errorf("cut %q: no column named '%s': %w", c.Text, c.Column, ErrInvalidSelection)
	}
	v := c.Value

	switch c.Op {
	case "==": return func(i int) bool { return vals[i] == v }, nil
	case "!=": return func(i int) bool { return vals[i] != v }, nil
	case ">=": return func(i int) bool { return vals[i] >= v }, nil
	case "<=": return func(i int) bool { return vals[i] <= v }, nil
	case ">":  return func(i int) bool { return vals[i] > v }, nil
	case "<":  return func(i int) bool { return vals[i] < v }, nil
	}
	return nil, fmt.Errorf("cut %q: operator %q: %w", c.Text, c.Op, ErrInvalidSelection)
}

func (c Cut)compileInt(vals []int64) (predicate, error) {
	v := c.intValue
	switch c.Op {
	case "==": return func(i int) bool { return vals[i] == v }, nil
	case "!=": return func(i int) bool { return vals[i] != v }, nil
	case ">=": return func(i int) bool { return vals[i] >= v }, nil
	case "<=": return func(i int) bool { return vals[i] <= v }, nil
	case ">":  return func(i int) bool { return vals[i] > v }, nil
	case "<":  return func(i int) bool { return vals[i] < v }, nil
	}
	return nil, fmt.Errorf("cut %q: operator %q: %w", c.Text, c.Op, ErrInvalidSelection)
}

// Evaluate builds a mask over the table's rows from the cut expressions,
// combined according to mode ("" means "and"). With no expressions, "and"
// passes every row and "or" passes none. Every expression is parsed first;
// in "and" mode a NONE then gives an all-false mask without looking at the
// table's columns. Otherwise each cut is compiled against the table before
// any row is looked at.
func Evaluate(t Table, mode Mode, exprs ...string) ([]bool, error) {
	if mode == "" {
		mode = ModeAnd
	}
	if mode != ModeAnd && mode != ModeOr {
		return nil, fmt.Errorf("mode %q: %w", mode, ErrInvalidSelection)
	}

	cuts := make([]Cut, len(exprs))
	for i, expr := range exprs {
		c, err := ParseCut(expr)
		if err != nil {
			return nil, err
		}
		cuts[i] = c
	}

	n := t.NumRows()
	mask := make([]bool, n)
	if mode == ModeAnd {
		for _, c := range cuts {
			if c.none {
				return mask, nil
			}
		}
		for i := range mask {
			mask[i] = true
		}
	}

	preds := make([]predicate, len(cuts))
	for i, c := range cuts {
		p, err := c.compile(t)
		if err != nil {
			return nil, err
		}
		preds[i] = p
	}

	for _, p := range preds {
		for i:=0; i<n; i++ {
			if mode == ModeAnd {
				mask[i] = mask[i] && p(i)
			} else {
				mask[i] = mask[i] || p(i)
			}
		}
	}

	return mask, nil
}
