package translate

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/orngkit/pkg/data"
	"github.com/matzehuels/orngkit/pkg/errors"
)

// modelVersion is bumped when the persisted layout changes.
const modelVersion = 1

// Model is the persisted form of an analysed translation.
type Model struct {
	Version    int     `toml:"version"`
	Mode       string  `toml:"mode"`
	Target     string  `toml:"target"`
	Weight     string  `toml:"weight,omitempty"`
	Attributes []State `toml:"attribute"`
	Class      *State  `toml:"class,omitempty"`
}

// Model exports the learned state of t.
func (t *Translation) Model() Model {
	m := Model{
		Version:    modelVersion,
		Mode:       t.Mode.String(),
		Target:     t.target.String(),
		Weight:     t.Weight,
		Attributes: make([]State, len(t.Attributes)),
	}
	for i, enc := range t.Attributes {
		m.Attributes[i] = enc.State()
	}
	if t.Class != nil {
		st := t.Class.State()
		m.Class = &st
	}
	return m
}

// Save writes t as TOML.
func (t *Translation) Save(w io.Writer) error {
	if len(t.Attributes) == 0 && t.Class == nil {
		return errors.New(errors.ErrCodeNotPrepared, "translation has not been analysed")
	}
	return toml.NewEncoder(w).Encode(t.Model())
}

// SaveFile writes t as TOML to path.
func (t *Translation) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := t.Save(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Load reads a translation written by [Translation.Save]. If the model was
// prepared for a learner, the translation is prepared the same way.
func Load(r io.Reader, opts ...Option) (*Translation, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := toml.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode translation model")
	}
	return FromModel(m, opts...)
}

// LoadFile reads a translation model from path.
func LoadFile(path string, opts ...Option) (*Translation, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "model %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Load(f, opts...)
}

// FromModel rebuilds a translation from its persisted state.
func FromModel(m Model, opts ...Option) (*Translation, error) {
	if m.Version != modelVersion {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported model version %d", m.Version)
	}
	mode, err := ParseMode(m.Mode)
	if err != nil {
		return nil, err
	}
	t, err := New(mode, opts...)
	if err != nil {
		return nil, err
	}
	t.Weight = m.Weight

	idx := 0
	for i, st := range m.Attributes {
		if st.Offset != idx {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"attribute %d (%s): offset %d, expected %d", i, st.Name, st.Offset, idx)
		}
		enc, err := restore(st)
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		t.Attributes = append(t.Attributes, enc)
		idx += enc.Width()
	}
	t.width = idx

	if m.Class != nil {
		if t.Class, err = restore(*m.Class); err != nil {
			return nil, fmt.Errorf("class: %w", err)
		}
	}

	if m.Target != TargetNone.String() {
		target, err := ParseTarget(m.Target)
		if err != nil {
			return nil, err
		}
		t.prepare(target)
	}
	return t, nil
}

func restore(st State) (Encoder, error) {
	v := &data.Variable{Name: st.Name, Values: st.Values}
	switch st.Type {
	case data.Continuous.String():
		v.Type = data.Continuous
	case data.Discrete.String():
		v.Type = data.Discrete
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "variable %s: unknown type %q", st.Name, st.Type)
	}

	needs := func(t data.VarType) error {
		if v.Type != t {
			return errors.New(errors.ErrCodeInvalidFormat, "%s cannot encode %s variable %s", st.Kind, v.Type, v.Name)
		}
		return nil
	}

	switch st.Kind {
	case KindScalizer:
		if err := needs(data.Continuous); err != nil {
			return nil, err
		}
		s := NewScalizer(st.Offset, v, st.Class)
		s.min, s.max, s.seen = st.Min, st.Max, true
		return s, nil
	case KindStandardizer:
		if err := needs(data.Continuous); err != nil {
			return nil, err
		}
		s := NewStandardizer(st.Offset, v, st.Class)
		s.mean, s.stddev, s.n = st.Mean, st.StdDev, st.N
		if s.stddev <= 0 {
			s.stddev = 1
		}
		return s, nil
	case KindOrdinalizer:
		if err := needs(data.Discrete); err != nil {
			return nil, err
		}
		return NewOrdinalizer(st.Offset, v, st.Class), nil
	case KindBinarizer:
		if err := needs(data.Discrete); err != nil {
			return nil, err
		}
		return NewBinarizer(st.Offset, v), nil
	case KindDummy:
		if err := needs(data.Discrete); err != nil {
			return nil, err
		}
		d := NewDummy(st.Offset, v)
		if len(st.Counts) == len(d.counts) {
			copy(d.counts, st.Counts)
		}
		if len(v.Values) > 0 && (st.Reference < 0 || st.Reference >= len(v.Values)) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "dummy %s: reference %d out of range", v.Name, st.Reference)
		}
		d.useReference(st.Reference)
		return d, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown encoder kind %q", st.Kind)
}
