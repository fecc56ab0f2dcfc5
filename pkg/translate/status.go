package translate

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Status prints one line per encoder with its position and learned state.
func (t *Translation) Status(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Variable", "Encoder", "Columns", "Learned"})

	for _, enc := range t.Attributes {
		tw.AppendRow(statusRow(enc))
	}
	if t.Class != nil {
		tw.AppendSeparator()
		row := statusRow(t.Class)
		row[0] = fmt.Sprintf("%s (class)", row[0])
		tw.AppendRow(row)
	}
	tw.AppendFooter(table.Row{"", "", t.width, fmt.Sprintf("mode=%s target=%s", t.Mode, t.target)})
	tw.Render()
}

// PrintDescription prints the output columns and how labels map onto them.
func (t *Translation) PrintDescription(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Column", "Encoding"})

	d := t.Description()
	col := 0
	for _, a := range d.Attributes {
		for _, name := range a.Columns {
			tw.AppendRow(table.Row{col, name, describeEncoding(a)})
			col++
		}
	}
	if d.Class != nil {
		tw.AppendSeparator()
		tw.AppendRow(table.Row{"class", d.Class.Name, describeEncoding(*d.Class)})
	}
	tw.Render()
}

func describeEncoding(a AttributeDescription) string {
	if !a.Discrete {
		return a.Formula
	}
	if a.Formula != "" {
		return a.Formula + " over " + strings.Join(a.Values, ", ")
	}
	for _, v := range a.Values {
		if v == "" {
			return "one-hot, reference omitted"
		}
	}
	return "one-hot"
}

func statusRow(enc Encoder) table.Row {
	st := enc.State()
	span := fmt.Sprintf("%d", enc.Offset())
	if enc.Width() != 1 {
		span = fmt.Sprintf("%d-%d", enc.Offset(), enc.Offset()+enc.Width()-1)
	}
	if enc.Width() == 0 {
		span = "-"
	}

	var learned string
	switch st.Kind {
	case KindScalizer, KindOrdinalizer:
		learned = fmt.Sprintf("min=%g max=%g", st.Min, st.Max)
	case KindStandardizer:
		learned = fmt.Sprintf("mean=%g stddev=%g n=%d", st.Mean, st.StdDev, st.N)
	case KindBinarizer:
		learned = fmt.Sprintf("values=%d", len(st.Values))
	case KindDummy:
		ref := "-"
		if st.Reference >= 0 && st.Reference < len(st.Values) {
			ref = st.Values[st.Reference]
		}
		learned = fmt.Sprintf("reference=%s counts=%v", ref, st.Counts)
	}
	return table.Row{st.Name, string(st.Kind), span, learned}
}
