package translate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/orngkit/pkg/data"
)

// ClassMissing encodes an unknown class value for SVM learners.
const ClassMissing = 3.14159

// Kind names an encoder type.
type Kind string

const (
	KindScalizer     Kind = "scalizer"
	KindStandardizer Kind = "standardizer"
	KindOrdinalizer  Kind = "ordinalizer"
	KindBinarizer    Kind = "binarizer"
	KindDummy        Kind = "dummy"
)

// Encoder maps the values of one variable onto a block of output columns.
type Encoder interface {
	Kind() Kind
	Var() *data.Variable
	// Offset is the index of the first output column.
	Offset() int
	// Width is the number of output columns.
	Width() int

	// Learn observes one training value.
	Learn(x data.Value)
	// Activate finalises the learned statistics.
	Activate()
	// Prepare sets the encoding parameters for a learner.
	Prepare(t Target)

	// Apply writes the encoding of x into row[Offset():Offset()+Width()].
	Apply(x data.Value, row []float64)
	// Inverse decodes the block of row back into a value.
	Inverse(row []float64) data.Value

	// Columns names the output columns.
	Columns() []string
	// Describe summarises the encoder for users.
	Describe() AttributeDescription
	// State exports the learned statistics.
	State() State
}

// State is the persisted form of an encoder: what it encodes and what it
// learned. Encoding parameters are derived again by Prepare.
type State struct {
	Kind   Kind     `toml:"kind"`
	Name   string   `toml:"name"`
	Type   string   `toml:"type"`
	Values []string `toml:"values,omitempty"`
	Offset int      `toml:"offset"`
	Class  bool     `toml:"class,omitempty"`

	Min    float64 `toml:"min"`
	Max    float64 `toml:"max"`
	Mean   float64 `toml:"mean,omitempty"`
	StdDev float64 `toml:"stddev,omitempty"`
	N      int     `toml:"n,omitempty"`

	Counts    []int `toml:"counts,omitempty"`
	Reference int   `toml:"reference,omitempty"`
}

// linear holds the affine encoding shared by the single-column encoders.
type linear struct {
	v       *data.Variable
	idx     int
	isClass bool

	mult, disp, missing float64
}

func (l *linear) Var() *data.Variable { return l.v }
func (l *linear) Offset() int         { return l.idx }
func (l *linear) Width() int          { return 1 }
func (l *linear) Activate()           {}
func (l *linear) Columns() []string   { return []string{l.v.Name} }

// svmMissing returns the substitute for unknown values under SVM.
func (l *linear) svmMissing() float64 {
	if l.isClass {
		return ClassMissing
	}
	return math.NaN()
}

// scaleTo sets mult and disp so that [lo, hi] maps onto an interval of the
// given span centred (span 2) or starting (span 1) at zero. A degenerate
// range maps its single value to one, or leaves zero untouched.
func (l *linear) scaleTo(lo, hi float64, centred bool) {
	if lo == hi {
		if hi != 0 {
			l.mult, l.disp = 1/hi, 0
		} else {
			l.mult, l.disp = 1, hi
		}
		return
	}
	if centred {
		l.mult, l.disp = 2/(hi-lo), (lo+hi)/2
		return
	}
	l.mult, l.disp = 1/(hi-lo), lo
}

func (l *linear) apply(x data.Value, row []float64) {
	if x.Missing {
		row[l.idx] = l.missing
		return
	}
	row[l.idx] = (x.Float() - l.disp) * l.mult
}

func (l *linear) decode(row []float64) float64 {
	return row[l.idx]/l.mult + l.disp
}

func (l *linear) formula() string {
	if l.disp == 0 && l.mult == 1 {
		return l.v.Name
	}
	return fmt.Sprintf("(%s-%g)*%g", l.v.Name, l.disp, l.mult)
}

func (l *linear) state(k Kind) State {
	return State{
		Kind:   k,
		Name:   l.v.Name,
		Type:   l.v.Type.String(),
		Values: l.v.Values,
		Offset: l.idx,
		Class:  l.isClass,
	}
}

// Scalizer maps a continuous variable linearly by its observed range.
type Scalizer struct {
	linear
	min, max float64
	seen     bool
}

// NewScalizer creates a scalizer writing column idx.
func NewScalizer(idx int, v *data.Variable, isClass bool) *Scalizer {
	return &Scalizer{linear: linear{v: v, idx: idx, isClass: isClass, mult: 1}}
}

func (s *Scalizer) Kind() Kind { return KindScalizer }

func (s *Scalizer) Learn(x data.Value) {
	if x.Missing || math.IsNaN(x.Float()) {
		return
	}
	if !s.seen {
		s.min, s.max, s.seen = x.Float(), x.Float(), true
		return
	}
	s.min = math.Min(s.min, x.Float())
	s.max = math.Max(s.max, x.Float())
}

// Prepare maps [min, max] onto [-1, 1] for SVM and leaves values unscaled
// for LR, where unknown values become the range midpoint.
func (s *Scalizer) Prepare(t Target) {
	if t == TargetSVM {
		s.missing = s.svmMissing()
		s.scaleTo(s.min, s.max, true)
		return
	}
	s.missing = (s.min + s.max) / 2
	s.mult, s.disp = 1, 0
}

func (s *Scalizer) Apply(x data.Value, row []float64) { s.apply(x, row) }

func (s *Scalizer) Inverse(row []float64) data.Value { return s.v.Value(s.decode(row)) }

func (s *Scalizer) Describe() AttributeDescription {
	return AttributeDescription{Name: s.v.Name, Columns: s.Columns(), Formula: s.formula()}
}

func (s *Scalizer) State() State {
	st := s.state(KindScalizer)
	st.Min, st.Max = s.min, s.max
	return st
}

// Standardizer centres a continuous variable on its mean and, for SVM,
// scales it by the sample standard deviation.
type Standardizer struct {
	linear
	values       []float64
	mean, stddev float64
	n            int
}

// NewStandardizer creates a standardizer writing column idx.
func NewStandardizer(idx int, v *data.Variable, isClass bool) *Standardizer {
	return &Standardizer{linear: linear{v: v, idx: idx, isClass: isClass, mult: 1}, stddev: 1}
}

func (s *Standardizer) Kind() Kind { return KindStandardizer }

func (s *Standardizer) Learn(x data.Value) {
	if x.Missing || math.IsNaN(x.Float()) {
		return
	}
	s.values = append(s.values, x.Float())
}

// Activate computes the mean and sample standard deviation. Fewer than two
// values or a zero deviation give a deviation of one.
func (s *Standardizer) Activate() {
	s.n = len(s.values)
	s.mean, s.stddev = 0, 1
	if s.n > 0 {
		s.mean = stat.Mean(s.values, nil)
	}
	if s.n > 1 {
		if sd := stat.StdDev(s.values, nil); sd > 0 {
			s.stddev = sd
		}
	}
	s.values = nil
}

func (s *Standardizer) Prepare(t Target) {
	s.disp = s.mean
	if t == TargetSVM {
		s.mult = 1 / s.stddev
		s.missing = s.svmMissing()
		return
	}
	s.mult = 1
	s.missing = 0
}

func (s *Standardizer) Apply(x data.Value, row []float64) { s.apply(x, row) }

func (s *Standardizer) Inverse(row []float64) data.Value { return s.v.Value(s.decode(row)) }

func (s *Standardizer) Describe() AttributeDescription {
	return AttributeDescription{Name: s.v.Name, Columns: s.Columns(), Formula: s.formula()}
}

func (s *Standardizer) State() State {
	st := s.state(KindStandardizer)
	st.Mean, st.StdDev, st.N = s.mean, s.stddev, s.n
	return st
}

// Ordinalizer treats the labels of a discrete variable as evenly spaced
// points.
type Ordinalizer struct {
	linear
	min, max float64
}

// NewOrdinalizer creates an ordinalizer writing column idx.
func NewOrdinalizer(idx int, v *data.Variable, isClass bool) *Ordinalizer {
	return &Ordinalizer{
		linear: linear{v: v, idx: idx, isClass: isClass, mult: 1},
		max:    math.Max(0, float64(len(v.Values)-1)),
	}
}

func (o *Ordinalizer) Kind() Kind { return KindOrdinalizer }

func (o *Ordinalizer) Learn(data.Value) {}

// Prepare maps label indices onto [0, 1] for LR. For SVM a class keeps
// integer labels while an attribute maps onto [-1, 1].
func (o *Ordinalizer) Prepare(t Target) {
	if t == TargetSVM {
		o.missing = o.svmMissing()
		if o.isClass {
			o.mult, o.disp = 1, 0
			return
		}
		o.scaleTo(o.min, o.max, true)
		return
	}
	o.missing = 0.5
	o.scaleTo(o.min, o.max, false)
}

func (o *Ordinalizer) Apply(x data.Value, row []float64) {
	if x.Missing {
		row[o.idx] = o.missing
		return
	}
	row[o.idx] = (float64(x.Int()) - o.disp) * o.mult
}

// Inverse rounds to the nearest label.
func (o *Ordinalizer) Inverse(row []float64) data.Value {
	x := o.decode(row)
	if math.IsNaN(x) || len(o.v.Values) == 0 {
		return o.v.Missing()
	}
	i := math.Floor(x + 0.5)
	i = math.Max(o.min, math.Min(o.max, i))
	return o.v.Value(i)
}

func (o *Ordinalizer) Describe() AttributeDescription {
	return AttributeDescription{
		Name:     o.v.Name,
		Discrete: true,
		Values:   append([]string(nil), o.v.Values...),
		Columns:  o.Columns(),
		Formula:  o.formula(),
	}
}

func (o *Ordinalizer) State() State {
	st := o.state(KindOrdinalizer)
	st.Min, st.Max = o.min, o.max
	return st
}

// block holds the one-column-per-label layout of Binarizer and Dummy.
type block struct {
	v     *data.Variable
	idx   int
	width int

	min, max, missing float64
}

func (b *block) Var() *data.Variable { return b.v }
func (b *block) Offset() int         { return b.idx }
func (b *block) Width() int          { return b.width }
func (b *block) Learn(data.Value)    {}
func (b *block) Activate()           {}

func (b *block) Prepare(t Target) {
	b.min, b.max = 0, 1
	if t == TargetSVM {
		b.missing = math.NaN()
		return
	}
	b.missing = 0
}

func (b *block) fill(x float64, row []float64) {
	for i := b.idx; i < b.idx+b.width; i++ {
		row[i] = x
	}
}

// nearest returns the column of the block closest to the "on" value.
func (b *block) nearest(row []float64) (col int, dist float64) {
	col, dist = -1, math.Inf(1)
	for i := 0; i < b.width; i++ {
		if d := math.Abs(row[b.idx+i] - b.max); d < dist {
			col, dist = i, d
		}
	}
	return col, dist
}

func (b *block) state(k Kind) State {
	return State{
		Kind:   k,
		Name:   b.v.Name,
		Type:   b.v.Type.String(),
		Values: b.v.Values,
		Offset: b.idx,
	}
}

// Binarizer one-hot encodes a discrete variable, one column per label.
type Binarizer struct {
	block
}

// NewBinarizer creates a binarizer starting at column idx.
func NewBinarizer(idx int, v *data.Variable) *Binarizer {
	return &Binarizer{block{v: v, idx: idx, width: len(v.Values), max: 1}}
}

func (b *Binarizer) Kind() Kind { return KindBinarizer }

// Prepare sets unknown values to 1/width in every column for LR.
func (b *Binarizer) Prepare(t Target) {
	b.block.Prepare(t)
	if t != TargetSVM && b.width > 0 {
		b.missing = 1 / float64(b.width)
	}
}

func (b *Binarizer) Apply(x data.Value, row []float64) {
	i := x.Int()
	if x.Missing || i < 0 || i >= b.width {
		b.fill(b.missing, row)
		return
	}
	b.fill(b.min, row)
	row[b.idx+i] = b.max
}

// Inverse returns the label whose column is closest to the "on" value.
func (b *Binarizer) Inverse(row []float64) data.Value {
	col, _ := b.nearest(row)
	if col < 0 {
		return b.v.Missing()
	}
	return b.v.Value(float64(col))
}

func (b *Binarizer) Columns() []string {
	cols := make([]string, len(b.v.Values))
	for i, label := range b.v.Values {
		cols[i] = b.v.Name + "=" + label
	}
	return cols
}

func (b *Binarizer) Describe() AttributeDescription {
	return AttributeDescription{
		Name:     b.v.Name,
		Discrete: true,
		Values:   append([]string(nil), b.v.Values...),
		Columns:  b.Columns(),
	}
}

func (b *Binarizer) State() State { return b.state(KindBinarizer) }

// Dummy encodes a discrete variable with one column per label except the
// most frequent one, the reference, which is encoded as all zeros.
type Dummy struct {
	block
	counts    []int
	reference int
	lut       []int // label index -> column, -1 for the reference
}

// NewDummy creates a dummy encoder starting at column idx.
func NewDummy(idx int, v *data.Variable) *Dummy {
	d := &Dummy{
		block:  block{v: v, idx: idx, width: max(0, len(v.Values)-1), max: 1},
		counts: make([]int, len(v.Values)),
	}
	d.Activate()
	return d
}

func (d *Dummy) Kind() Kind { return KindDummy }

func (d *Dummy) Learn(x data.Value) {
	if i := x.Int(); !x.Missing && i >= 0 && i < len(d.counts) {
		d.counts[i]++
	}
}

// Activate picks the most frequent label as the reference, the first one
// on ties, and assigns columns to the others in label order.
func (d *Dummy) Activate() {
	ref, best := -1, -1
	for i, c := range d.counts {
		if c > best {
			ref, best = i, c
		}
	}
	d.useReference(ref)
}

func (d *Dummy) useReference(ref int) {
	d.reference = ref
	d.lut = make([]int, len(d.v.Values))
	col := 0
	for i := range d.lut {
		if i == d.reference {
			d.lut[i] = -1
			continue
		}
		d.lut[i] = col
		col++
	}
}

// Reference returns the label index encoded as all zeros.
func (d *Dummy) Reference() int { return d.reference }

func (d *Dummy) Apply(x data.Value, row []float64) {
	i := x.Int()
	if x.Missing || i < 0 || i >= len(d.lut) {
		d.fill(d.missing, row)
		return
	}
	d.fill(d.min, row)
	if c := d.lut[i]; c >= 0 {
		row[d.idx+c] = d.max
	}
}

// Inverse returns the label whose column is closest to the "on" value, or
// the reference when every column is below one half.
func (d *Dummy) Inverse(row []float64) data.Value {
	if d.reference < 0 {
		return d.v.Missing()
	}
	low := true
	for i := d.idx; i < d.idx+d.width; i++ {
		low = low && row[i] < 0.5
	}
	if low {
		return d.v.Value(float64(d.reference))
	}
	col, _ := d.nearest(row)
	if col < 0 {
		return d.v.Missing()
	}
	for i, c := range d.lut {
		if c == col {
			return d.v.Value(float64(i))
		}
	}
	return d.v.Missing()
}

func (d *Dummy) Columns() []string {
	var cols []string
	for i, label := range d.v.Values {
		if d.lut[i] >= 0 {
			cols = append(cols, d.v.Name+"="+label)
		}
	}
	return cols
}

// Describe lists the labels with the reference blanked out.
func (d *Dummy) Describe() AttributeDescription {
	values := make([]string, len(d.v.Values))
	for i, label := range d.v.Values {
		if d.lut[i] >= 0 {
			values[i] = label
		}
	}
	return AttributeDescription{
		Name:     d.v.Name,
		Discrete: true,
		Values:   values,
		Columns:  d.Columns(),
	}
}

func (d *Dummy) State() State {
	st := d.state(KindDummy)
	st.Counts = append([]int(nil), d.counts...)
	st.Reference = d.reference
	return st
}
