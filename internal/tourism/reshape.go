package tourism

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/i474232898/tourism-forecast/internal/common"
)

var (
	// ErrUnexpectedShape is returned when the layout does not leave exactly
	// a Years column and a Number of Tourists column.
	ErrUnexpectedShape = errors.New("unexpected table shape")
	// ErrNoNumericData is returned when no tourist count can be parsed.
	ErrNoNumericData = errors.New("no numeric tourist counts found")
)

var yearPattern = regexp.MustCompile(`(\d{4})`)

// ReadDataset parses a raw upload and reshapes it with the given layout.
func ReadDataset(name string, r io.Reader, layout Layout) (*Dataset, error) {
	t, err := ParseTable(r)
	if err != nil {
		return nil, err
	}
	ds, err := Reshape(t, layout)
	if err != nil {
		return nil, err
	}
	ds.Name = name
	return ds, nil
}

// Reshape turns the raw spreadsheet into a year-indexed arrivals series.
func Reshape(t *Table, layout Layout) (*Dataset, error) {
	data, err := t.SelectColumnsFrom(layout.SkipColumns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	data, err = data.DropRows(layout.DropRows...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	data, err = data.Transpose()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	data, err = data.DropRows(layout.DropAfterTranspose)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	data, err = data.DropColumns(layout.DropColumns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	if data.Cols() != 2 {
		return nil, fmt.Errorf("%w: expected 2 columns, got %d", ErrUnexpectedShape, data.Cols())
	}
	if data.Rows() == 0 {
		return nil, fmt.Errorf("%w: no rows left", ErrUnexpectedShape)
	}

	years := data.Column(0)
	counts := data.Column(1)

	// Both branches of the row-count check give the same contiguous index;
	// a mismatch only means the sheet covers a different span than 1991-2015.
	n := data.Rows()
	base := layout.BaseYear

	obs := make([]Observation, n)
	var present []float64
	for i := 0; i < n; i++ {
		obs[i].Index = base + i
		obs[i].Year = extractYear(years[i])

		v, ok := parseCount(counts[i])
		if !ok {
			obs[i].Imputed = true
			continue
		}
		obs[i].Tourists = v
		present = append(present, v)
	}

	if len(present) == 0 {
		return nil, ErrNoNumericData
	}

	mean := stat.Mean(present, nil)
	for i := range obs {
		if obs[i].Imputed {
			obs[i].Tourists = mean
		}
	}

	return &Dataset{Observations: obs}, nil
}

func extractYear(cell string) int {
	m := yearPattern.FindString(cell)
	if m == "" {
		return -1
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return -1
	}
	return y
}

func parseCount(cell string) (float64, bool) {
	if common.IsMissing(cell) {
		return 0, false
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
