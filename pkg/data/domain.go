package data

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/orngkit/pkg/errors"
)

// Domain is the schema of a data set.
type Domain struct {
	Attributes []*Variable
	ClassVar   *Variable // nil for unsupervised data
	Metas      map[int]*Variable
}

// NewDomain creates a domain over attrs with an optional class variable.
func NewDomain(attrs []*Variable, class *Variable) *Domain {
	return &Domain{
		Attributes: attrs,
		ClassVar:   class,
		Metas:      make(map[int]*Variable),
	}
}

// Variables returns the attributes followed by the class variable, in the
// order values are stored in an [Example].
func (d *Domain) Variables() []*Variable {
	vars := make([]*Variable, 0, len(d.Attributes)+1)
	vars = append(vars, d.Attributes...)
	if d.ClassVar != nil {
		vars = append(vars, d.ClassVar)
	}
	return vars
}

// Len returns the number of stored values per example.
func (d *Domain) Len() int {
	if d.ClassVar != nil {
		return len(d.Attributes) + 1
	}
	return len(d.Attributes)
}

// Index returns the value position of v, matched by reference, or -1.
func (d *Domain) Index(v *Variable) int {
	for i, a := range d.Attributes {
		if a == v {
			return i
		}
	}
	if d.ClassVar != nil && d.ClassVar == v {
		return len(d.Attributes)
	}
	return -1
}

// IndexByName returns the value position of the variable called name, or -1.
func (d *Domain) IndexByName(name string) int {
	for i, a := range d.Attributes {
		if a.Name == name {
			return i
		}
	}
	if d.ClassVar != nil && d.ClassVar.Name == name {
		return len(d.Attributes)
	}
	return -1
}

// AddMeta registers a meta attribute and returns its (negative) ID.
func (d *Domain) AddMeta(v *Variable) int {
	if d.Metas == nil {
		d.Metas = make(map[int]*Variable)
	}
	id := -1
	for {
		if _, taken := d.Metas[id]; !taken {
			break
		}
		id--
	}
	d.Metas[id] = v
	return id
}

// MetaID returns the ID of the meta attribute called name.
func (d *Domain) MetaID(name string) (int, bool) {
	ids := make([]int, 0, len(d.Metas))
	for id := range d.Metas {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	for _, id := range ids {
		if d.Metas[id].Name == name {
			return id, true
		}
	}
	return 0, false
}

// Example is one row of values over a domain.
type Example struct {
	Domain *Domain
	Values []Value
	Metas  map[int]Value
}

// NewExample creates an example. values must follow [Domain.Variables].
func NewExample(d *Domain, values []Value) (*Example, error) {
	if len(values) != d.Len() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"example has %d values, domain expects %d", len(values), d.Len())
	}
	return &Example{Domain: d, Values: values, Metas: make(map[int]Value)}, nil
}

// At returns the i-th stored value.
func (e *Example) At(i int) Value { return e.Values[i] }

// Class returns the class value, or a missing value without a variable when
// the domain has no class.
func (e *Example) Class() Value {
	if e.Domain.ClassVar == nil {
		return Value{Missing: true}
	}
	return e.Values[len(e.Domain.Attributes)]
}

// Meta returns the meta value with the given ID.
func (e *Example) Meta(id int) (Value, bool) {
	v, ok := e.Metas[id]
	return v, ok
}

// SetMeta stores a meta value.
func (e *Example) SetMeta(id int, v Value) {
	if e.Metas == nil {
		e.Metas = make(map[int]Value)
	}
	e.Metas[id] = v
}

// Lookup resolves v in the example, first by reference, then by name.
//
// A value found by name in a different domain is re-expressed in v: discrete
// labels are mapped through v.Values and labels unknown to v become missing.
// When v cannot be resolved at all, Lookup returns v's first value flagged
// missing together with an ErrCodeMissingAttribute error.
func (e *Example) Lookup(v *Variable) (Value, error) {
	if i := e.Domain.Index(v); i >= 0 {
		return e.Values[i], nil
	}
	if i := e.Domain.IndexByName(v.Name); i >= 0 {
		return convert(e.Values[i], v), nil
	}
	fallback := Value{Var: v, Missing: true}
	if v.IsContinuous() {
		fallback.X = 0
	}
	return fallback, errors.New(errors.ErrCodeMissingAttribute, "missing attribute %s", v.Name)
}

// convert re-expresses x, a value of another variable with the same name, in v.
func convert(x Value, v *Variable) Value {
	if x.Missing {
		return v.Missing()
	}
	if !v.IsDiscrete() || x.Var == nil {
		return v.Value(x.X)
	}
	if i, ok := v.Index(x.String()); ok {
		return v.Value(float64(i))
	}
	return v.Missing()
}

// String formats the example as tab-separated values.
func (e *Example) String() string {
	var b strings.Builder
	for i, v := range e.Values {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// Table is a domain together with its examples.
type Table struct {
	Domain   *Domain
	Examples []*Example
}

// NewTable creates an empty table over d.
func NewTable(d *Domain) *Table {
	return &Table{Domain: d}
}

// Append adds an example built from values and returns it.
func (t *Table) Append(values ...Value) (*Example, error) {
	ex, err := NewExample(t.Domain, values)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", len(t.Examples), err)
	}
	t.Examples = append(t.Examples, ex)
	return ex, nil
}

// Len returns the number of examples.
func (t *Table) Len() int { return len(t.Examples) }

// Column returns the i-th stored value of every example.
func (t *Table) Column(i int) []Value {
	col := make([]Value, len(t.Examples))
	for r, ex := range t.Examples {
		col[r] = ex.Values[i]
	}
	return col
}
