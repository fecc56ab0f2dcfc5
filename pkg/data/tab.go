package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/orngkit/pkg/errors"
)

// column roles from the flags header line.
type role int

const (
	roleAttribute role = iota
	roleClass
	roleMeta
	roleIgnore
)

// columnSpec is one parsed header column.
type columnSpec struct {
	name   string
	role   role
	v      *Variable
	infer  bool // type left empty; decided after reading the data
	metaID int
}

// LoadTab reads a tab file from path.
func LoadTab(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTab(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadTab parses tab-separated data with three header lines (names, types,
// flags). See the package documentation for the format.
func ReadTab(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read tab data")
	}
	if len(records) < 3 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "tab data needs 3 header lines, got %d", len(records))
	}

	specs, err := parseHeader(records[0], records[1], records[2])
	if err != nil {
		return nil, err
	}
	rows := records[3:]
	for i, s := range specs {
		if s.infer {
			s.v = inferVariable(s.name, rows, i)
		}
		if s.v.IsDiscrete() {
			collectValues(s.v, rows, i)
		}
	}

	var attrs []*Variable
	var class *Variable
	for _, s := range specs {
		switch s.role {
		case roleAttribute:
			attrs = append(attrs, s.v)
		case roleClass:
			if class != nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "more than one class column (%s, %s)", class.Name, s.name)
			}
			class = s.v
		}
	}
	d := NewDomain(attrs, class)
	for _, s := range specs {
		if s.role == roleMeta {
			s.metaID = d.AddMeta(s.v)
		}
	}

	t := NewTable(d)
	for n, rec := range rows {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		line := n + 4
		values := make([]Value, 0, d.Len())
		var classValue *Value
		metas := make(map[int]Value)
		for i, s := range specs {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			if s.role == roleIgnore {
				continue
			}
			v, err := s.v.Parse(cell)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
			}
			switch s.role {
			case roleAttribute:
				values = append(values, v)
			case roleClass:
				classValue = &v
			case roleMeta:
				metas[s.metaID] = v
			}
		}
		if classValue != nil {
			values = append(values, *classValue)
		}
		ex, err := t.Append(values...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
		}
		for id, v := range metas {
			ex.SetMeta(id, v)
		}
	}
	return t, nil
}

// parseHeader builds column specs from the three header lines.
func parseHeader(names, types, flags []string) ([]*columnSpec, error) {
	specs := make([]*columnSpec, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if err := errors.ValidateVariableName(name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "column %d", i+1)
		}
		s := &columnSpec{name: name}

		typ := ""
		if i < len(types) {
			typ = strings.TrimSpace(types[i])
		}
		switch strings.ToLower(typ) {
		case "c", "continuous", "f", "float":
			s.v = NewContinuous(name)
		case "d", "discrete":
			s.v = NewDiscrete(name)
		case "s", "string":
			s.role = roleIgnore
			s.v = NewDiscrete(name)
		case "":
			s.infer = true
		default:
			s.v = NewDiscrete(name, strings.Fields(typ)...)
		}

		flag := ""
		if i < len(flags) {
			flag = strings.ToLower(strings.TrimSpace(flags[i]))
		}
		switch flag {
		case "":
		case "c", "class":
			s.role = roleClass
		case "m", "meta":
			s.role = roleMeta
		case "i", "ignore", "-":
			s.role = roleIgnore
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "column %s: unknown flag %q", name, flag)
		}
		specs[i] = s
	}
	return specs, nil
}

// inferVariable picks continuous when every known cell in column i is numeric.
func inferVariable(name string, rows [][]string, i int) *Variable {
	for _, rec := range rows {
		if i >= len(rec) {
			continue
		}
		cell := strings.TrimSpace(rec[i])
		if isMissingToken(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return NewDiscrete(name)
		}
	}
	return NewContinuous(name)
}

// collectValues adds labels of column i to v in order of first appearance.
func collectValues(v *Variable, rows [][]string, i int) {
	for _, rec := range rows {
		if i >= len(rec) {
			continue
		}
		cell := strings.TrimSpace(rec[i])
		if !isMissingToken(cell) {
			v.AddValue(cell)
		}
	}
}
