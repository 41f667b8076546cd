package tourism

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// Layout describes where the arrivals series sits in the source spreadsheet.
// Row and column numbers are positions in the raw CSV.
type Layout struct {
	SkipColumns        int   `json:"skipColumns"`
	DropRows           []int `json:"dropRows"`
	DropAfterTranspose int   `json:"dropAfterTranspose"`
	DropColumns        []int `json:"dropColumns"`
	BaseYear           int   `json:"baseYear"`
	ExpectedRows       int   `json:"expectedRows"`
}

// DefaultLayout returns the layout of the published Bhutan tourism statistics
// sheet: a year header in row 0 and the total arrivals in row 5, with 1991
// to 2015 laid out across columns.
func DefaultLayout() Layout {
	return Layout{
		SkipColumns:        2,
		DropRows:           []int{10, 11, 12, 13, 14},
		DropAfterTranspose: 2,
		DropColumns:        []int{1, 2, 3, 4, 6, 7, 8, 9, 15},
		BaseYear:           1991,
		ExpectedRows:       25,
	}
}

// Observation is a single row of the reshaped table.
type Observation struct {
	Index    int     `json:"index"`
	Year     int     `json:"year"` // -1 when the header cell has no four-digit year
	Tourists float64 `json:"tourists"`
	Imputed  bool    `json:"imputed,omitempty"`
}

// Dataset is the two-column (Years, Number of Tourists) table.
type Dataset struct {
	Name         string        `json:"name"`
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations.
func (d *Dataset) Len() int { return len(d.Observations) }

// Values returns the tourist counts in index order.
func (d *Dataset) Values() []float64 {
	out := make([]float64, len(d.Observations))
	for i, o := range d.Observations {
		out[i] = o.Tourists
	}
	return out
}

// Years returns the index years in order.
func (d *Dataset) Years() []int {
	out := make([]int, len(d.Observations))
	for i, o := range d.Observations {
		out[i] = o.Index
	}
	return out
}

// FirstYear returns the first index year, or 0 for an empty dataset.
func (d *Dataset) FirstYear() int {
	if len(d.Observations) == 0 {
		return 0
	}
	return d.Observations[0].Index
}

// LastYear returns the last index year, or 0 for an empty dataset.
func (d *Dataset) LastYear() int {
	if len(d.Observations) == 0 {
		return 0
	}
	return d.Observations[len(d.Observations)-1].Index
}

// StationarityReport is the outcome of the Augmented Dickey-Fuller test.
type StationarityReport struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"pValue"`
	LagsUsed       int                `json:"lagsUsed"`
	NObs           int                `json:"nObs"`
	CriticalValues map[string]float64 `json:"criticalValues"`
	Stationary     bool               `json:"stationary"`
	Conclusion     string             `json:"conclusion"`

	// KPSS is reported alongside for comparison; nil when the series is too short.
	KPSS *KPSSReport `json:"kpss,omitempty"`
}

// KPSSReport holds the KPSS test result. Its null hypothesis is stationarity.
type KPSSReport struct {
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"pValue"`
	Lags       int     `json:"lags"`
	Stationary bool    `json:"stationary"`
}

// AnalysisRun is one processed upload.
type AnalysisRun struct {
	ID           string              `json:"id"`
	CreatedAt    time.Time           `json:"createdAt"` // always UTC
	Dataset      *Dataset            `json:"dataset"`
	Stationarity *StationarityReport `json:"stationarity"`
}

// Prediction is a forecast (or observed value) for a single date.
type Prediction struct {
	Date       time.Time `json:"date"`
	Year       int       `json:"year"`
	Tourists   float64   `json:"tourists"`
	Lower      float64   `json:"lower"`
	Upper      float64   `json:"upper"`
	InSample   bool      `json:"inSample"`
	StepsAhead int       `json:"stepsAhead"`
}

// Message renders the prediction the way it is shown to users.
func (p Prediction) Message() string {
	return fmt.Sprintf("Predicted number of tourists on %s: %s",
		p.Date.Format(time.DateOnly), humanize.Comma(int64(math.Round(p.Tourists))))
}

// ModelSummary describes the active forecasting model.
type ModelSummary struct {
	Order     ModelOrder `json:"order"`
	FirstYear int        `json:"firstYear"`
	LastYear  int        `json:"lastYear"`
	AIC       float64    `json:"aic"`
	AICc      float64    `json:"aicc"`
	BIC       float64    `json:"bic"`
	TrainedAt time.Time  `json:"trainedAt"`
}
