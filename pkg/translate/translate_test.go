package translate

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/orngkit/pkg/data"
	"github.com/matzehuels/orngkit/pkg/errors"
)

type fixture struct {
	table                   *data.Table
	size, color, flag, kind *data.Variable
	weightID                int
}

// newFixture builds a small table with a missing value in every attribute
// kind and a weight meta attribute.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		size:  data.NewContinuous("size"),
		color: data.NewDiscrete("color", "red", "green", "blue"),
		flag:  data.NewDiscrete("flag", "yes", "no"),
		kind:  data.NewDiscrete("kind", "a", "b", "c"),
	}
	dom := data.NewDomain([]*data.Variable{f.size, f.color, f.flag}, f.kind)
	weight := data.NewContinuous("w")
	f.weightID = dom.AddMeta(weight)
	f.table = data.NewTable(dom)

	rows := []struct {
		size  float64
		color string
		flag  string
		kind  string
		w     float64
	}{
		{1, "red", "yes", "a", 1},
		{2, "green", "yes", "b", 2},
		{3, "green", "no", "c", 0.5},
		{4, "?", "yes", "a", 1},
		{math.NaN(), "blue", "no", "b", 3},
	}
	for _, r := range rows {
		size := f.size.Value(r.size)
		if math.IsNaN(r.size) {
			size = f.size.Missing()
		}
		color, err := f.color.Parse(r.color)
		require.NoError(t, err)
		flag, err := f.flag.Parse(r.flag)
		require.NoError(t, err)
		kind, err := f.kind.Parse(r.kind)
		require.NoError(t, err)
		ex, err := f.table.Append(size, color, flag, kind)
		require.NoError(t, err)
		ex.SetMeta(f.weightID, weight.Value(r.w))
	}
	return f
}

func quiet() Option { return WithLogger(log.New(io.Discard)) }

func analysed(t *testing.T, f *fixture, mode Mode) *Translation {
	t.Helper()
	tr, err := New(mode, quiet())
	require.NoError(t, err)
	require.NoError(t, tr.Analyse(f.table, f.weightID))
	return tr
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"dummy", ModeDummy, false},
		{"Binarize", ModeBinarize, false},
		{"auto", ModeAuto, false},
		{"2", ModeAuto, false},
		{"3", 0, true},
		{"onehot", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidMode), tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := New(Mode(7))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidMode))
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget("SVM")
	require.NoError(t, err)
	assert.Equal(t, TargetSVM, got)

	_, err = ParseTarget("tree")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTarget))
}

func TestEncoderSelection(t *testing.T) {
	tests := []struct {
		mode  Mode
		kinds []Kind
		width int
	}{
		{ModeDummy, []Kind{KindStandardizer, KindDummy, KindDummy}, 4},
		{ModeBinarize, []Kind{KindStandardizer, KindBinarizer, KindBinarizer}, 6},
		{ModeAuto, []Kind{KindStandardizer, KindBinarizer, KindDummy}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			tr := analysed(t, newFixture(t), tt.mode)
			var kinds []Kind
			for _, enc := range tr.Attributes {
				kinds = append(kinds, enc.Kind())
			}
			assert.Equal(t, tt.kinds, kinds)
			assert.Equal(t, tt.width, tr.Width())
			assert.Equal(t, KindOrdinalizer, tr.Class.Kind())
		})
	}
}

func TestMulticlassWarning(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(ModeDummy, WithLogger(log.New(&buf)))
	require.NoError(t, err)
	require.NoError(t, tr.Analyse(newFixture(t).table, 0))
	assert.Contains(t, buf.String(), "simulating classification with regression")
}

func TestTransformBeforePrepare(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeDummy)
	_, err := tr.Transform(f.table)
	assert.True(t, errors.Is(err, errors.ErrCodeNotPrepared))

	empty, err := New(ModeDummy)
	require.NoError(t, err)
	empty.PrepareLR()
	_, err = empty.TransformExample(f.table.Examples[0])
	assert.True(t, errors.Is(err, errors.ErrCodeNotPrepared))

	assert.Error(t, tr.Prepare(TargetNone))
}

func TestTransformLR(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeDummy)
	tr.PrepareLR()

	rows, err := tr.Transform(f.table)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	// size centred on 2.5; color dummy with green as reference; flag dummy
	// with yes as reference
	want := []Row{
		{Features: []float64{-1.5, 1, 0, 0}, Label: 0, Weight: 1, Weighted: true},
		{Features: []float64{-0.5, 0, 0, 0}, Label: 0.5, Weight: 2, Weighted: true},
		{Features: []float64{0.5, 0, 0, 1}, Label: 1, Weight: 0.5, Weighted: true},
		{Features: []float64{1.5, 0, 0, 0}, Label: 0, Weight: 1, Weighted: true},
		{Features: []float64{0, 0, 1, 1}, Label: 0.5, Weight: 3, Weighted: true},
	}
	for i := range want {
		assert.InDeltaSlice(t, want[i].Features, rows[i].Features, 1e-12, "row %d", i)
		assert.InDelta(t, want[i].Label, rows[i].Label, 1e-12, "row %d", i)
		assert.Equal(t, want[i].Weighted, rows[i].Weighted)
		assert.InDelta(t, want[i].Weight, rows[i].Weight, 1e-12)
	}

	assert.Equal(t, []string{"size", "color=red", "color=blue", "flag=no"}, tr.Description().Columns())
}

func TestTransformSVM(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeBinarize)
	tr.PrepareSVM()

	rows, err := tr.Transform(f.table)
	require.NoError(t, err)

	sd := math.Sqrt(5.0 / 3)
	assert.InDelta(t, -1.5/sd, rows[0].Features[0], 1e-9)
	assert.False(t, rows[0].Weighted, "SVM rows carry no weights")

	// missing color: the whole block is skipped
	for _, x := range rows[3].Features[1:4] {
		assert.True(t, math.IsNaN(x))
	}
	assert.True(t, math.IsNaN(rows[4].Features[0]))

	// class labels stay integer
	labels := []float64{rows[0].Label, rows[1].Label, rows[2].Label}
	assert.Equal(t, []float64{0, 1, 2}, labels)

	missing, err := tr.TransformClass([]data.Value{f.kind.Missing()})
	require.NoError(t, err)
	assert.Equal(t, []float64{ClassMissing}, missing)
}

func TestBinarizerMissingLR(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeBinarize)
	tr.PrepareLR()
	row, err := tr.TransformExample(f.table.Examples[3])
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 1.0 / 3, 1.0 / 3, 1.0 / 3, 1, 0}, row, 1e-12)
}

func TestClassValue(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeDummy)

	tr.PrepareLR()
	tests := []struct {
		label float64
		want  string
	}{
		{0, "a"},
		{0.2, "a"},
		{0.3, "b"},
		{0.74, "b"},
		{0.9, "c"},
		{4, "c"},
		{-3, "a"},
	}
	for _, tt := range tests {
		v, err := tr.ClassValue(tt.label)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v.String(), "label %v", tt.label)
	}

	tr.PrepareSVM()
	v, err := tr.ClassValue(1.6)
	require.NoError(t, err)
	assert.Equal(t, "c", v.String())
}

func TestContinuousClass(t *testing.T) {
	x := data.NewContinuous("x")
	y := data.NewContinuous("y")
	tab := data.NewTable(data.NewDomain([]*data.Variable{x}, y))
	for i, yv := range []float64{2, 4, 6} {
		_, err := tab.Append(x.Value(float64(i)), y.Value(yv))
		require.NoError(t, err)
	}
	_, err := tab.Append(x.Value(9), y.Missing())
	require.NoError(t, err)

	tr, err := New(ModeDummy, quiet())
	require.NoError(t, err)
	require.NoError(t, tr.Analyse(tab, 0))
	assert.Equal(t, KindScalizer, tr.Class.Kind())

	tr.PrepareSVM()
	labels, err := tr.TransformClass(tab.Column(1))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1, ClassMissing}, labels, 1e-12)
	v, err := tr.ClassValue(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 5, v.Float(), 1e-12)

	tr.PrepareLR()
	labels, err = tr.TransformClass(tab.Column(1))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4, 6, 4}, labels, 1e-12)
}

func TestScalizerDegenerate(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{5, 1},
		{-2, 1},
		{0, 0},
	}
	for _, tt := range tests {
		v := data.NewContinuous("c")
		s := NewScalizer(0, v, false)
		s.Learn(v.Value(tt.value))
		s.Learn(v.Value(tt.value))
		s.Prepare(TargetSVM)
		row := make([]float64, 1)
		s.Apply(v.Value(tt.value), row)
		assert.InDelta(t, tt.want, row[0], 1e-12, "value %v", tt.value)
	}
}

func TestStandardizerDegenerate(t *testing.T) {
	v := data.NewContinuous("c")
	s := NewStandardizer(0, v, false)
	s.Learn(v.Value(3))
	s.Activate()
	s.Prepare(TargetSVM)
	row := make([]float64, 1)
	s.Apply(v.Value(5), row)
	assert.InDelta(t, 2, row[0], 1e-12)

	// preparing twice gives the same encoding
	s.Prepare(TargetSVM)
	s.Apply(v.Value(5), row)
	assert.InDelta(t, 2, row[0], 1e-12)
}

func TestDummy(t *testing.T) {
	v := data.NewDiscrete("d", "x", "y", "z")

	t.Run("most frequent is reference", func(t *testing.T) {
		d := NewDummy(0, v)
		for _, i := range []float64{0, 2, 2, 1} {
			d.Learn(v.Value(i))
		}
		d.Learn(v.Missing())
		d.Activate()
		assert.Equal(t, 2, d.Reference())
		assert.Equal(t, []string{"d=x", "d=y"}, d.Columns())
		assert.Equal(t, []string{"x", "y", ""}, d.Describe().Values)

		d.Prepare(TargetLR)
		row := make([]float64, 2)
		d.Apply(v.Value(1), row)
		assert.Equal(t, []float64{0, 1}, row)
		d.Apply(v.Value(2), row)
		assert.Equal(t, []float64{0, 0}, row)

		assert.Equal(t, "y", d.Inverse([]float64{0.2, 0.9}).String())
		assert.Equal(t, "x", d.Inverse([]float64{0.7, 0.6}).String())
		assert.Equal(t, "z", d.Inverse([]float64{0.3, 0.4}).String())
	})

	t.Run("ties pick the first", func(t *testing.T) {
		d := NewDummy(0, v)
		d.Learn(v.Value(1))
		d.Learn(v.Value(2))
		d.Activate()
		assert.Equal(t, 1, d.Reference())
	})
}

func TestBinarizerInverse(t *testing.T) {
	v := data.NewDiscrete("d", "x", "y", "z")
	b := NewBinarizer(1, v)
	b.Prepare(TargetLR)
	assert.Equal(t, "z", b.Inverse([]float64{9, 0.1, 0.2, 0.8}).String())
	assert.Equal(t, "x", b.Inverse([]float64{9, 1.1, 0.2, 0.8}).String())
}

func TestDomainDisparity(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	tr, err := New(ModeDummy, WithLogger(log.New(&buf)))
	require.NoError(t, err)
	require.NoError(t, tr.Analyse(f.table, 0))
	tr.PrepareLR()

	// same names, other variables, reordered labels, no color
	size := data.NewContinuous("size")
	flag := data.NewDiscrete("flag", "no", "yes")
	other := data.NewTable(data.NewDomain([]*data.Variable{flag, size}, nil))
	_, err = other.Append(flag.Value(0), size.Value(3.5))
	require.NoError(t, err)

	row, err := tr.TransformExample(other.Examples[0])
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0, 0, 1}, row, 1e-12)
	assert.Contains(t, buf.String(), "missing attribute")

	// warned once per attribute
	before := strings.Count(buf.String(), "missing attribute")
	_, err = tr.TransformExample(other.Examples[0])
	require.NoError(t, err)
	assert.Equal(t, before, strings.Count(buf.String(), "missing attribute"))
}

func TestUnweightedWithoutWeightID(t *testing.T) {
	f := newFixture(t)
	tr, err := New(ModeDummy, quiet())
	require.NoError(t, err)
	require.NoError(t, tr.Analyse(f.table, 0))
	tr.PrepareLR()
	rows, err := tr.Transform(f.table)
	require.NoError(t, err)
	assert.False(t, rows[0].Weighted)
}

func TestSaveLoad(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeAuto)
	tr.PrepareLR()

	var buf bytes.Buffer
	require.NoError(t, tr.Save(&buf))
	assert.Contains(t, buf.String(), `kind = "standardizer"`)

	loaded, err := Load(&buf, quiet())
	require.NoError(t, err)
	assert.Equal(t, TargetLR, loaded.Target())
	assert.Equal(t, tr.Width(), loaded.Width())
	assert.Equal(t, tr.Description().Columns(), loaded.Description().Columns())

	want, err := tr.Transform(f.table)
	require.NoError(t, err)
	got, err := loaded.Transform(f.table)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDeltaSlice(t, want[i].Features, got[i].Features, 1e-12, "row %d", i)
		assert.InDelta(t, want[i].Label, got[i].Label, 1e-12)
		assert.Equal(t, want[i].Weight, got[i].Weight)
	}
}

func TestSaveLoadResolvesWeightByName(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeDummy)
	tr.PrepareLR()

	var buf bytes.Buffer
	require.NoError(t, tr.Save(&buf))
	assert.Contains(t, buf.String(), `weight = "w"`)

	// same attributes, but the weight meta is registered second
	dom := data.NewDomain([]*data.Variable{f.size, f.color, f.flag}, f.kind)
	other := data.NewContinuous("other")
	otherID := dom.AddMeta(other)
	w := data.NewContinuous("w")
	wID := dom.AddMeta(w)
	require.NotEqual(t, f.weightID, wID)
	require.Equal(t, f.weightID, otherID)

	tab := data.NewTable(dom)
	for i, x := range []float64{7, 0.25} {
		ex, err := tab.Append(f.size.Value(x), f.color.Value(0), f.flag.Value(0), f.kind.Value(0))
		require.NoError(t, err)
		ex.SetMeta(otherID, other.Value(100))
		ex.SetMeta(wID, w.Value(float64(i+2)))
	}

	loaded, err := Load(&buf, quiet())
	require.NoError(t, err)
	assert.Equal(t, "w", loaded.Weight)
	rows, err := loaded.Transform(tab)
	require.NoError(t, err)
	for i, r := range rows {
		assert.True(t, r.Weighted)
		assert.Equal(t, float64(i+2), r.Weight, "row %d", i)
	}
}

func TestMissingWeightMetaWarns(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeDummy)
	tr.PrepareLR()

	var buf bytes.Buffer
	var model bytes.Buffer
	require.NoError(t, tr.Save(&model))
	loaded, err := Load(&model, WithLogger(log.New(&buf)))
	require.NoError(t, err)

	dom := data.NewDomain([]*data.Variable{f.size, f.color, f.flag}, f.kind)
	tab := data.NewTable(dom)
	_, err = tab.Append(f.size.Value(1), f.color.Value(0), f.flag.Value(0), f.kind.Value(0))
	require.NoError(t, err)

	rows, err := loaded.Transform(tab)
	require.NoError(t, err)
	assert.True(t, rows[0].Weighted)
	assert.Equal(t, 1.0, rows[0].Weight)
	assert.Contains(t, buf.String(), "missing weight meta")

	before := strings.Count(buf.String(), "missing weight meta")
	_, err = loaded.Transform(tab)
	require.NoError(t, err)
	assert.Equal(t, before, strings.Count(buf.String(), "missing weight meta"))
}

func TestSaveLoadFile(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeDummy)
	path := t.TempDir() + "/model.toml"
	require.NoError(t, tr.SaveFile(path))

	loaded, err := LoadFile(path, quiet())
	require.NoError(t, err)
	assert.Equal(t, TargetNone, loaded.Target())
	assert.Equal(t, 1, loaded.Attributes[1].(*Dummy).Reference())

	_, err = LoadFile(t.TempDir() + "/missing.toml")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadRejectsBadModels(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"version", "version = 9\nmode = \"dummy\"\ntarget = \"none\"\n"},
		{"mode", "version = 1\nmode = \"onehot\"\ntarget = \"none\"\n"},
		{"kind", "version = 1\nmode = \"dummy\"\ntarget = \"none\"\n[[attribute]]\nkind = \"pca\"\nname = \"x\"\ntype = \"continuous\"\n"},
		{"type mismatch", "version = 1\nmode = \"dummy\"\ntarget = \"none\"\n[[attribute]]\nkind = \"dummy\"\nname = \"x\"\ntype = \"continuous\"\n"},
		{"offset", "version = 1\nmode = \"dummy\"\ntarget = \"none\"\n[[attribute]]\nkind = \"standardizer\"\nname = \"x\"\ntype = \"continuous\"\noffset = 3\n"},
		{"syntax", "version = = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat) || errors.Is(err, errors.ErrCodeInvalidMode), "got %v", err)
		})
	}
}

func TestMatrix(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeDummy)
	tr.PrepareLR()
	rows, err := tr.Transform(f.table)
	require.NoError(t, err)

	ds, err := Matrix(rows)
	require.NoError(t, err)
	r, c := ds.X.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 0.5, ds.Y.AtVec(1))
	require.NotNil(t, ds.W)
	assert.Equal(t, 3.0, ds.W.AtVec(4))

	_, err = Matrix(nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = Matrix([]Row{{Features: []float64{1}}, {Features: []float64{1, 2}}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestWriters(t *testing.T) {
	rows := []Row{
		{Features: []float64{0.5, 0, math.NaN()}, Label: 1},
		{Features: []float64{0, 2, -1}, Label: 0},
	}

	var svm bytes.Buffer
	require.NoError(t, WriteLibSVM(&svm, rows))
	assert.Equal(t, "1 1:0.5\n0 2:2 3:-1\n", svm.String())

	var csvBuf bytes.Buffer
	require.NoError(t, WriteCSV(&csvBuf, []string{"a", "b", "c"}, rows))
	assert.Equal(t, "a,b,c,class\n0.5,0,,1\n0,2,-1,0\n", csvBuf.String())

	weighted := []Row{{Features: []float64{1}, Label: 0, Weight: 2, Weighted: true}}
	csvBuf.Reset()
	require.NoError(t, WriteCSV(&csvBuf, []string{"x"}, weighted))
	assert.Equal(t, "x,class,weight\n1,0,2\n", csvBuf.String())
}

func TestStatusAndDescription(t *testing.T) {
	f := newFixture(t)
	tr := analysed(t, f, ModeAuto)
	tr.PrepareSVM()

	var buf bytes.Buffer
	tr.Status(&buf)
	out := buf.String()
	for _, want := range []string{"size", "standardizer", "binarizer", "reference=yes", "kind (class)"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, strings.ToLower(out), "target=svm")

	buf.Reset()
	tr.PrintDescription(&buf)
	assert.Contains(t, buf.String(), "color=blue")
	assert.Contains(t, buf.String(), "one-hot")

	d := tr.Description()
	require.NotNil(t, d.Class)
	assert.Equal(t, []string{"a", "b", "c"}, d.Class.Values)
}
