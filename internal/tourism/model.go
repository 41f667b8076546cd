package tourism

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/goarima/sarima"
	"github.com/sartorproj/goarima/timeseries"
)

var (
	// ErrModelNotFound is returned when no trained model is available.
	ErrModelNotFound = errors.New("trained model not found")
	// ErrDateOutOfRange is returned for dates before the training window.
	ErrDateOutOfRange = errors.New("date is before the first observed year")
	// ErrInvalidOrder is returned for malformed model orders.
	ErrInvalidOrder = errors.New("invalid model order")
	// ErrFitFailed is returned when the series cannot support the requested order.
	ErrFitFailed = errors.New("model fit failed")
)

// PredictionConfidence is the coverage of the reported forecast interval.
const PredictionConfidence = 0.95

// ModelOrder is a SARIMA (p,d,q)(P,D,Q)[m] order.
type ModelOrder struct {
	P  int `json:"p"`
	D  int `json:"d"`
	Q  int `json:"q"`
	SP int `json:"sp"`
	SD int `json:"sd"`
	SQ int `json:"sq"`
	M  int `json:"m"`
}

// DefaultOrder is ARIMA(1,1,1); annual arrivals carry no seasonal period.
func DefaultOrder() ModelOrder {
	return ModelOrder{P: 1, D: 1, Q: 1}
}

// String renders the order as "(p,d,q)(P,D,Q)[m]".
func (o ModelOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// ParseOrder accepts "p,d,q" or "p,d,q,P,D,Q,m".
func ParseOrder(s string) (ModelOrder, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 7 {
		return ModelOrder{}, fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}

	nums := make([]int, 7)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return ModelOrder{}, fmt.Errorf("%w: %q", ErrInvalidOrder, s)
		}
		nums[i] = n
	}

	o := ModelOrder{P: nums[0], D: nums[1], Q: nums[2], SP: nums[3], SD: nums[4], SQ: nums[5], M: nums[6]}
	if (o.SP > 0 || o.SD > 0 || o.SQ > 0) && o.M < 2 {
		return ModelOrder{}, fmt.Errorf("%w: seasonal terms need a period of at least 2", ErrInvalidOrder)
	}
	return o, nil
}

// Model is a fitted SARIMA model together with its training window.
type Model struct {
	order     ModelOrder
	firstYear int
	values    []float64
	trainedAt time.Time
	fitted    *sarima.Model
}

// artifact is the on-disk form of a Model. The fit is deterministic, so the
// training values are enough to restore it.
type artifact struct {
	Order     ModelOrder `json:"order"`
	FirstYear int        `json:"firstYear"`
	Values    []float64  `json:"values"`
	TrainedAt time.Time  `json:"trainedAt"`
	AIC       float64    `json:"aic"`
	BIC       float64    `json:"bic"`
}

// Train fits a model of the given order to the dataset.
func Train(ds *Dataset, order ModelOrder) (*Model, error) {
	if ds.Len() == 0 {
		return nil, ErrSeriesTooShort
	}
	return fit(order, ds.FirstYear(), ds.Values(), time.Now().UTC())
}

func fit(order ModelOrder, firstYear int, values []float64, trainedAt time.Time) (*Model, error) {
	vals := append([]float64(nil), values...)

	m := sarima.New(order.P, order.D, order.Q, order.SP, order.SD, order.SQ, order.M)
	if err := m.Fit(timeseries.New(vals)); err != nil {
		return nil, fmt.Errorf("%w: sarima%s: %v", ErrFitFailed, order, err)
	}

	return &Model{
		order:     order,
		firstYear: firstYear,
		values:    vals,
		trainedAt: trainedAt,
		fitted:    m,
	}, nil
}

// LoadModel restores a model saved with SaveModel.
func LoadModel(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return fit(a.Order, a.FirstYear, a.Values, a.TrainedAt)
}

// SaveModel writes the model artifact atomically.
func (m *Model) SaveModel(path string) error {
	raw, err := json.MarshalIndent(artifact{
		Order:     m.order,
		FirstYear: m.firstYear,
		Values:    m.values,
		TrainedAt: m.trainedAt,
		AIC:       finite(m.fitted.AIC),
		BIC:       finite(m.fitted.BIC),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return os.Rename(tmp, path)
}

// Order is the SARIMA order the model was fitted with.
func (m *Model) Order() ModelOrder { return m.order }

// Apply fits the model's order to ds. The receiver is returned unchanged when
// ds is the series it was trained on.
func (m *Model) Apply(ds *Dataset) (*Model, error) {
	if m.firstYear == ds.FirstYear() && slices.Equal(m.values, ds.Values()) {
		return m, nil
	}
	return Train(ds, m.order)
}

// FirstYear is the first year of the training window.
func (m *Model) FirstYear() int { return m.firstYear }

// LastYear is the last year of the training window.
func (m *Model) LastYear() int { return m.firstYear + len(m.values) - 1 }

// Summary describes the model.
func (m *Model) Summary() ModelSummary {
	return ModelSummary{
		Order:     m.order,
		FirstYear: m.FirstYear(),
		LastYear:  m.LastYear(),
		AIC:       finite(m.fitted.AIC),
		AICc:      finite(m.fitted.AICc),
		BIC:       finite(m.fitted.BIC),
		TrainedAt: m.trainedAt,
	}
}

// finite maps NaN and infinities to zero so criteria stay JSON-encodable.
// A zero-variance fit reports an infinite log-likelihood.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Predict returns the number of tourists for the year of date. Years inside
// the training window return the observed count.
func (m *Model) Predict(date time.Time) (Prediction, error) {
	year := date.Year()
	p := Prediction{Date: date, Year: year}

	switch {
	case year < m.FirstYear():
		return p, fmt.Errorf("%w: %d < %d", ErrDateOutOfRange, year, m.FirstYear())
	case year <= m.LastYear():
		v := m.values[year-m.firstYear]
		p.Tourists, p.Lower, p.Upper = v, v, v
		p.InSample = true
		return p, nil
	}

	steps := year - m.LastYear()
	forecasts, lower, upper, err := m.fitted.PredictWithInterval(steps, PredictionConfidence)
	if err != nil {
		return p, fmt.Errorf("forecast %d steps: %w", steps, err)
	}

	p.StepsAhead = steps
	p.Tourists = forecasts[steps-1]
	p.Lower = lower[steps-1]
	p.Upper = upper[steps-1]
	return p, nil
}

// Forecast returns point forecasts for the next steps years.
func (m *Model) Forecast(steps int) ([]Observation, error) {
	forecasts, err := m.fitted.Predict(steps)
	if err != nil {
		return nil, err
	}
	out := make([]Observation, len(forecasts))
	for i, v := range forecasts {
		year := m.LastYear() + i + 1
		out[i] = Observation{Index: year, Year: year, Tourists: v}
	}
	return out, nil
}
