package translate

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// WriteCSV writes rows as comma-separated values under a header of column
// names followed by "class" and, for weighted rows, "weight". NaN cells are
// written empty.
func WriteCSV(w io.Writer, columns []string, rows []Row) error {
	cw := csv.NewWriter(w)
	weighted := len(rows) > 0 && rows[0].Weighted

	header := append(append([]string(nil), columns...), "class")
	if weighted {
		header = append(header, "weight")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 0, len(header))
	for _, r := range rows {
		record = record[:0]
		for _, x := range r.Features {
			record = append(record, formatCell(x))
		}
		record = append(record, formatCell(r.Label))
		if weighted {
			record = append(record, formatCell(r.Weight))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLibSVM writes rows in the sparse libsvm format: the label followed
// by 1-based index:value pairs. Zero and NaN entries are omitted.
func WriteLibSVM(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		bw.WriteString(formatCell(r.Label))
		for i, x := range r.Features {
			if x == 0 || math.IsNaN(x) {
				continue
			}
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(i + 1))
			bw.WriteByte(':')
			bw.WriteString(formatCell(x))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatCell(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
