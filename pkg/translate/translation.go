package translate

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/orngkit/pkg/data"
	"github.com/matzehuels/orngkit/pkg/errors"
)

// Row is one translated example.
type Row struct {
	Features []float64
	Label    float64
	// Weight is the example weight; meaningful only when Weighted is set.
	Weight   float64
	Weighted bool
}

// AttributeDescription summarises how one variable is encoded.
type AttributeDescription struct {
	Name     string
	Discrete bool
	// Values lists the labels of a discrete variable; a label without a
	// column of its own is blank.
	Values  []string
	Columns []string
	// Formula shows the affine map of single-column encoders.
	Formula string
}

// Description summarises the whole translation.
type Description struct {
	Attributes []AttributeDescription
	Class      *AttributeDescription
}

// Columns returns the names of all output columns in order.
func (d Description) Columns() []string {
	var cols []string
	for _, a := range d.Attributes {
		cols = append(cols, a.Columns...)
	}
	return cols
}

// Option configures a [Translation].
type Option func(*Translation)

// WithLogger sets the logger used for warnings about the data.
func WithLogger(l *log.Logger) Option {
	return func(t *Translation) {
		if l != nil {
			t.logger = l
		}
	}
}

// Translation encodes the examples of a domain as numeric rows.
type Translation struct {
	Mode     Mode
	WeightID int
	// Weight names the weight meta attribute. Tables are matched by this
	// name, so meta IDs may differ between the analysed and applied data.
	Weight string

	Attributes []Encoder
	Class      Encoder // nil for tables without a class

	target  Target
	weights bool
	width   int
	logger  *log.Logger
	warned  map[string]bool

	weightWarned bool
}

// New creates a translation using mode for discrete attributes.
func New(mode Mode, opts ...Option) (*Translation, error) {
	if !mode.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidMode, "invalid mode: %d", int(mode))
	}
	t := &Translation{Mode: mode, logger: log.Default(), warned: make(map[string]bool)}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Analyse chooses an encoder for every variable of tab's domain and learns
// the encoders' statistics from its examples. weightID names the meta
// attribute holding example weights; 0 means unweighted.
func (t *Translation) Analyse(tab *data.Table, weightID int) error {
	if tab == nil || tab.Domain == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no data to analyse")
	}
	t.WeightID, t.Weight = weightID, ""
	if weightID != 0 {
		if v := tab.Domain.Metas[weightID]; v != nil {
			t.Weight = v.Name
		} else {
			t.logger.Warn("weight meta not in domain", "id", weightID)
		}
	}
	t.target = TargetNone
	t.Attributes = nil

	idx := 0
	for _, v := range tab.Domain.Attributes {
		enc := t.attributeEncoder(idx, v)
		t.Attributes = append(t.Attributes, enc)
		idx += enc.Width()
	}
	t.width = idx

	t.Class = nil
	if cv := tab.Domain.ClassVar; cv != nil {
		if cv.IsContinuous() {
			t.Class = NewScalizer(0, cv, true)
		} else {
			if len(cv.Values) > 2 {
				t.logger.Warn("simulating classification with regression", "class", cv.Name, "values", len(cv.Values))
			}
			t.Class = NewOrdinalizer(0, cv, true)
		}
	}

	for _, ex := range tab.Examples {
		for i, enc := range t.Attributes {
			enc.Learn(ex.Values[i])
		}
		if t.Class != nil {
			t.Class.Learn(ex.Class())
		}
	}
	for _, enc := range t.Attributes {
		enc.Activate()
	}
	if t.Class != nil {
		t.Class.Activate()
	}

	t.logger.Debug("analysed domain",
		"attributes", len(t.Attributes),
		"columns", t.width,
		"examples", tab.Len(),
		"mode", t.Mode)
	return nil
}

func (t *Translation) attributeEncoder(idx int, v *data.Variable) Encoder {
	if v.IsContinuous() {
		return NewStandardizer(idx, v, false)
	}
	switch t.Mode {
	case ModeBinarize:
		return NewBinarizer(idx, v)
	case ModeAuto:
		if len(v.Values) > 2 {
			return NewBinarizer(idx, v)
		}
	}
	return NewDummy(idx, v)
}

// PrepareLR sets up encoding for logistic regression. Example weights are
// attached to rows.
func (t *Translation) PrepareLR() { t.prepare(TargetLR) }

// PrepareSVM sets up encoding for SVM learners, which do not support
// example weights.
func (t *Translation) PrepareSVM() { t.prepare(TargetSVM) }

// Prepare dispatches to [Translation.PrepareLR] or [Translation.PrepareSVM].
func (t *Translation) Prepare(target Target) error {
	switch target {
	case TargetLR, TargetSVM:
		t.prepare(target)
		return nil
	}
	return errors.New(errors.ErrCodeInvalidTarget, "cannot prepare for target %s", target)
}

func (t *Translation) prepare(target Target) {
	t.target = target
	t.weights = target == TargetLR
	for _, enc := range t.Attributes {
		enc.Prepare(target)
	}
	if t.Class != nil {
		t.Class.Prepare(target)
	}
}

// Target returns the learner the translation is prepared for.
func (t *Translation) Target() Target { return t.target }

// Width returns the number of feature columns.
func (t *Translation) Width() int { return t.width }

func (t *Translation) ready() error {
	if len(t.Attributes) == 0 && t.Class == nil {
		return errors.New(errors.ErrCodeNotPrepared, "translation has not been analysed")
	}
	if t.target == TargetNone {
		return errors.New(errors.ErrCodeNotPrepared, "translation is not prepared for a learner")
	}
	return nil
}

// Transform translates every example of tab.
func (t *Translation) Transform(tab *data.Table) ([]Row, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	weightID, weighted := t.weightColumn(tab)
	rows := make([]Row, len(tab.Examples))
	for i, ex := range tab.Examples {
		rows[i] = Row{Features: t.features(ex)}
		if t.Class != nil {
			rows[i].Label = t.encodeClass(t.lookup(ex, t.Class.Var()))
		}
		if t.weights && weighted {
			rows[i].Weight, rows[i].Weighted = weight(ex, weightID), true
		}
	}
	return rows, nil
}

// TransformExample translates the attributes of a single example.
func (t *Translation) TransformExample(ex *data.Example) ([]float64, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	return t.features(ex), nil
}

// TransformClass encodes a list of class values, for example the labels of
// a test set.
func (t *Translation) TransformClass(values []data.Value) ([]float64, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	if t.Class == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "domain has no class")
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = t.encodeClass(v)
	}
	return out, nil
}

// ClassValue maps a learner's prediction back to a class value.
func (t *Translation) ClassValue(label float64) (data.Value, error) {
	if err := t.ready(); err != nil {
		return data.Value{}, err
	}
	if t.Class == nil {
		return data.Value{}, errors.New(errors.ErrCodeInvalidInput, "domain has no class")
	}
	return t.Class.Inverse([]float64{label}), nil
}

// Description names the output columns and summarises every encoder.
func (t *Translation) Description() Description {
	d := Description{Attributes: make([]AttributeDescription, len(t.Attributes))}
	for i, enc := range t.Attributes {
		d.Attributes[i] = enc.Describe()
	}
	if t.Class != nil {
		c := t.Class.Describe()
		d.Class = &c
	}
	return d
}

func (t *Translation) features(ex *data.Example) []float64 {
	row := make([]float64, t.width)
	for _, enc := range t.Attributes {
		enc.Apply(t.lookup(ex, enc.Var()), row)
	}
	return row
}

func (t *Translation) encodeClass(v data.Value) float64 {
	var row [1]float64
	t.Class.Apply(v, row[:])
	return row[0]
}

// lookup resolves v in ex, warning once per variable that cannot be found.
func (t *Translation) lookup(ex *data.Example, v *data.Variable) data.Value {
	x, err := ex.Lookup(v)
	if err != nil && !t.warned[v.Name] {
		if t.warned == nil {
			t.warned = make(map[string]bool)
		}
		t.warned[v.Name] = true
		t.logger.Warn("missing attribute", "attribute", v.Name)
	}
	return x
}

// weightColumn resolves the weight meta of tab. A named weight that tab
// lacks yields ID 0, so every row weighs 1.
func (t *Translation) weightColumn(tab *data.Table) (int, bool) {
	if t.Weight == "" {
		return t.WeightID, t.WeightID != 0
	}
	if id, ok := tab.Domain.MetaID(t.Weight); ok {
		return id, true
	}
	if !t.weightWarned {
		t.weightWarned = true
		t.logger.Warn("missing weight meta, using weight 1", "meta", t.Weight)
	}
	return 0, true
}

func weight(ex *data.Example, id int) float64 {
	if id == 0 {
		return 1
	}
	w, ok := ex.Meta(id)
	if !ok || w.Missing {
		return 1
	}
	return w.Float()
}
