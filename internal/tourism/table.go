package tourism

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrLabelNotFound is returned when a row or column label to drop is absent.
	ErrLabelNotFound = errors.New("label not found")
	// ErrEmptyTable is returned when the CSV contains no records.
	ErrEmptyTable = errors.New("csv contains no records")
	// ErrMalformedCSV is returned when the upload is not valid CSV.
	ErrMalformedCSV = errors.New("malformed csv")
)

// Table is a labelled string frame. Labels are the positions the cells had
// in the source file, so they survive drops and transposition. Column labels
// are carried as the frame's column names.
type Table struct {
	frame     dataframe.DataFrame
	rowLabels []int
}

// ParseTable reads a headerless CSV. Short rows are padded with empty cells
// so the result is rectangular.
func ParseTable(r io.Reader) (*Table, error) {
	// dataframe.ReadCSV insists on equal-length records; the published sheet
	// has ragged trailing notes, so records are read and padded first.
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	width := 0
	for _, rec := range records {
		width = max(width, len(rec))
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, width)
		for j, cell := range rec {
			row[j] = strings.TrimSpace(cell)
		}
		rows[i] = row
	}

	return newTable(seq(width), seq(len(rows)), rows)
}

func newTable(colLabels, rowLabels []int, rows [][]string) (*Table, error) {
	if len(colLabels) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrEmptyTable)
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, labelNames(colLabels))
	records = append(records, rows...)

	frame := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if frame.Err != nil {
		return nil, fmt.Errorf("load frame: %w", frame.Err)
	}
	return &Table{frame: frame, rowLabels: rowLabels}, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.frame.Nrow() }

// Cols returns the number of columns.
func (t *Table) Cols() int { return t.frame.Ncol() }

// RowLabels returns the source positions of the remaining rows.
func (t *Table) RowLabels() []int { return append([]int(nil), t.rowLabels...) }

// ColLabels returns the source positions of the remaining columns.
func (t *Table) ColLabels() []int {
	names := t.frame.Names()
	out := make([]int, len(names))
	for i, name := range names {
		out[i], _ = strconv.Atoi(name)
	}
	return out
}

// SelectColumnsFrom keeps the columns at position pos and after.
func (t *Table) SelectColumnsFrom(pos int) (*Table, error) {
	pos = max(pos, 0)
	if pos >= t.Cols() {
		return nil, fmt.Errorf("select columns: %w: only %d columns", ErrLabelNotFound, t.Cols())
	}

	frame := t.frame.Select(seq(t.Cols())[pos:])
	if frame.Err != nil {
		return nil, fmt.Errorf("select columns: %w", frame.Err)
	}
	return &Table{frame: frame, rowLabels: t.RowLabels()}, nil
}

// DropRows removes the rows carrying the given labels.
func (t *Table) DropRows(labels ...int) (*Table, error) {
	keep, err := keepPositions(t.rowLabels, labels)
	if err != nil {
		return nil, fmt.Errorf("drop rows: %w", err)
	}

	frame := t.frame.Subset(keep)
	if frame.Err != nil {
		return nil, fmt.Errorf("drop rows: %w", frame.Err)
	}

	rowLabels := make([]int, len(keep))
	for i, pos := range keep {
		rowLabels[i] = t.rowLabels[pos]
	}
	return &Table{frame: frame, rowLabels: rowLabels}, nil
}

// DropColumns removes the columns carrying the given labels.
func (t *Table) DropColumns(labels ...int) (*Table, error) {
	if _, err := keepPositions(t.ColLabels(), labels); err != nil {
		return nil, fmt.Errorf("drop columns: %w", err)
	}

	frame := t.frame.Drop(labelNames(labels))
	if frame.Err != nil {
		return nil, fmt.Errorf("drop columns: %w", frame.Err)
	}
	return &Table{frame: frame, rowLabels: t.RowLabels()}, nil
}

// Transpose swaps rows and columns together with their labels.
func (t *Table) Transpose() (*Table, error) {
	records := t.frame.Records()[1:]

	rows := make([][]string, t.Cols())
	for j := range rows {
		row := make([]string, len(records))
		for i, rec := range records {
			row[i] = rec[j]
		}
		rows[j] = row
	}
	return newTable(t.RowLabels(), t.ColLabels(), rows)
}

// Row returns a copy of the row at position pos.
func (t *Table) Row(pos int) []string {
	return append([]string(nil), t.frame.Records()[pos+1]...)
}

// Column returns a copy of the column at position pos.
func (t *Table) Column(pos int) []string {
	return t.frame.Col(t.frame.Names()[pos]).Records()
}

func labelNames(labels []int) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strconv.Itoa(l)
	}
	return out
}

func keepPositions(have, drop []int) ([]int, error) {
	index := make(map[int]int, len(have))
	for pos, label := range have {
		index[label] = pos
	}

	skip := make(map[int]bool, len(drop))
	for _, label := range drop {
		pos, ok := index[label]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrLabelNotFound, label)
		}
		skip[pos] = true
	}

	keep := make([]int, 0, len(have)-len(skip))
	for pos := range have {
		if !skip[pos] {
			keep = append(keep, pos)
		}
	}
	return keep, nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
