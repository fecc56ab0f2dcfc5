package data

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VarType distinguishes continuous and discrete variables.
type VarType int

const (
	// Continuous variables hold real values.
	Continuous VarType = iota + 1
	// Discrete variables hold one of a fixed list of labels.
	Discrete
)

// String returns the short type name used in tab files.
func (t VarType) String() string {
	switch t {
	case Continuous:
		return "continuous"
	case Discrete:
		return "discrete"
	default:
		return "unknown"
	}
}

// Variable is a named attribute of a domain.
type Variable struct {
	Name   string
	Type   VarType
	Values []string // discrete labels; empty for continuous variables
}

// NewContinuous creates a continuous variable.
func NewContinuous(name string) *Variable {
	return &Variable{Name: name, Type: Continuous}
}

// NewDiscrete creates a discrete variable with the given labels in order.
func NewDiscrete(name string, values ...string) *Variable {
	return &Variable{Name: name, Type: Discrete, Values: append([]string(nil), values...)}
}

// IsContinuous reports whether v holds real values.
func (v *Variable) IsContinuous() bool { return v.Type == Continuous }

// IsDiscrete reports whether v holds labels.
func (v *Variable) IsDiscrete() bool { return v.Type == Discrete }

// Index returns the position of label in v.Values.
func (v *Variable) Index(label string) (int, bool) {
	for i, s := range v.Values {
		if s == label {
			return i, true
		}
	}
	return -1, false
}

// AddValue appends label to a discrete variable unless already present and
// returns its index.
func (v *Variable) AddValue(label string) int {
	if i, ok := v.Index(label); ok {
		return i
	}
	v.Values = append(v.Values, label)
	return len(v.Values) - 1
}

// Value builds a known value of v. For discrete variables x is the label index.
func (v *Variable) Value(x float64) Value {
	return Value{Var: v, X: x}
}

// Missing builds an unknown value of v.
func (v *Variable) Missing() Value {
	return Value{Var: v, X: math.NaN(), Missing: true}
}

// Parse converts the textual form s into a value of v.
// Discrete labels must already be known to v.
func (v *Variable) Parse(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if isMissingToken(s) {
		return v.Missing(), nil
	}
	switch v.Type {
	case Continuous:
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("variable %s: invalid number %q", v.Name, s)
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return v.Missing(), nil
		}
		return v.Value(x), nil
	case Discrete:
		i, ok := v.Index(s)
		if !ok {
			return Value{}, fmt.Errorf("variable %s: unknown value %q", v.Name, s)
		}
		return v.Value(float64(i)), nil
	default:
		return Value{}, fmt.Errorf("variable %s: unknown type", v.Name)
	}
}

// String returns the variable name.
func (v *Variable) String() string { return v.Name }

// isMissingToken reports whether s denotes an unknown value in tab files.
func isMissingToken(s string) bool {
	switch s {
	case "", "?", "~", ".":
		return true
	}
	return false
}

// Value is a single cell: a number for continuous variables, a label index
// for discrete ones.
type Value struct {
	Var     *Variable
	X       float64
	Missing bool
}

// Float returns the numeric payload.
func (x Value) Float() float64 { return x.X }

// Int returns the payload truncated to an integer, the label index for
// discrete values.
func (x Value) Int() int { return int(x.X) }

// String formats the value the way it appears in tab files.
func (x Value) String() string {
	if x.Missing {
		return "?"
	}
	if x.Var != nil && x.Var.IsDiscrete() {
		if i := x.Int(); i >= 0 && i < len(x.Var.Values) {
			return x.Var.Values[i]
		}
	}
	return strconv.FormatFloat(x.X, 'g', -1, 64)
}
