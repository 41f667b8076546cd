package tourism

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/tourism-forecast/internal/metrics"
)

// ErrNoSource is returned by Retrain when no dataset source is configured.
var ErrNoSource = errors.New("no dataset source configured")

// Options tunes the service.
type Options struct {
	Layout    Layout
	Order     ModelOrder
	ModelPath string // empty disables persistence of retrained models
	ADFMaxLag int
	Metrics   *metrics.Metrics
}

// Service orchestrates reshaping, stationarity analysis and forecasting.
type Service struct {
	store   Store
	source  Source
	opts    Options
	metrics *metrics.Metrics

	mu    sync.RWMutex
	model *Model
}

// NewService creates a new Service. source may be nil.
func NewService(store Store, source Source, opts Options) *Service {
	if opts.Layout.BaseYear == 0 {
		opts.Layout = DefaultLayout()
	}
	if opts.Order == (ModelOrder{}) {
		opts.Order = DefaultOrder()
	}
	return &Service{
		store:   store,
		source:  source,
		opts:    opts,
		metrics: opts.Metrics,
	}
}

// LoadModel makes the artifact at Options.ModelPath the active model.
func (s *Service) LoadModel() error {
	if s.opts.ModelPath == "" {
		return ErrModelNotFound
	}
	m, err := LoadModel(s.opts.ModelPath)
	if err != nil {
		return err
	}
	s.setModel(m)
	log.Printf("INFO: loaded model %s covering %d-%d from %s",
		m.order, m.FirstYear(), m.LastYear(), s.opts.ModelPath)
	return nil
}

// Analyze reshapes an upload, tests it for stationarity and stores the run.
func (s *Service) Analyze(ctx context.Context, name string, r io.Reader) (run *AnalysisRun, err error) {
	defer func() { s.metrics.ObserveAnalysis(err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := ReadDataset(name, r, s.opts.Layout)
	if err != nil {
		return nil, err
	}

	report, err := TestStationarity(ds, s.opts.ADFMaxLag)
	if err != nil {
		return nil, err
	}

	run = &AnalysisRun{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Dataset:      ds,
		Stationarity: report,
	}
	s.store.SaveRun(run)

	log.Printf("INFO: analysis %s: %d observations %d-%d, adf=%.4f p=%.4f",
		run.ID, ds.Len(), ds.FirstYear(), ds.LastYear(), report.Statistic, report.PValue)
	return run, nil
}

// Run delegates to the underlying store.
func (s *Service) Run(id string) (*AnalysisRun, error) {
	return s.store.GetRun(id)
}

// Runs delegates to the underlying store.
func (s *Service) Runs() []*AnalysisRun {
	return s.store.ListRuns()
}

// Predict returns the tourist count for date. With an upload the active
// model's order is applied to that data (the configured order when no model
// is loaded); without one the active model is used as trained.
func (s *Service) Predict(ctx context.Context, date time.Time, name string, r io.Reader) (p Prediction, summary ModelSummary, err error) {
	defer func() { s.metrics.ObservePrediction(err) }()

	if err := ctx.Err(); err != nil {
		return Prediction{}, ModelSummary{}, err
	}

	var model *Model
	if r == nil {
		if model = s.activeModel(); model == nil {
			return Prediction{}, ModelSummary{}, ErrModelNotFound
		}
	} else {
		ds, err := ReadDataset(name, r, s.opts.Layout)
		if err != nil {
			return Prediction{}, ModelSummary{}, err
		}
		if model, err = s.apply(ds); err != nil {
			return Prediction{}, ModelSummary{}, err
		}
	}

	p, err = model.Predict(date)
	if err != nil {
		return Prediction{}, ModelSummary{}, err
	}
	return p, model.Summary(), nil
}

// Forecast returns point forecasts for the years following ds, from the
// active model's order applied to ds.
func (s *Service) Forecast(ds *Dataset, steps int) ([]Observation, error) {
	model, err := s.apply(ds)
	if err != nil {
		return nil, err
	}
	return model.Forecast(steps)
}

func (s *Service) apply(ds *Dataset) (*Model, error) {
	if m := s.activeModel(); m != nil {
		return m.Apply(ds)
	}
	return Train(ds, s.opts.Order)
}

func (s *Service) activeModel() *Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Retrain fetches the dataset from the source, fits a fresh model, persists
// it and makes it active. The previous model stays active on failure.
func (s *Service) Retrain(ctx context.Context) (summary ModelSummary, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveRetrain(started, err) }()

	if s.source == nil {
		return ModelSummary{}, ErrNoSource
	}

	rc, err := s.source.Open(ctx)
	if err != nil {
		return ModelSummary{}, fmt.Errorf("open %s: %w", s.source.Name(), err)
	}
	defer rc.Close()

	ds, err := ReadDataset(s.source.Name(), rc, s.opts.Layout)
	if err != nil {
		return ModelSummary{}, err
	}

	m, err := Train(ds, s.opts.Order)
	if err != nil {
		return ModelSummary{}, err
	}

	if s.opts.ModelPath != "" {
		if err := m.SaveModel(s.opts.ModelPath); err != nil {
			return ModelSummary{}, err
		}
	}

	s.setModel(m)
	log.Printf("INFO: retrained model %s on %s (%d-%d)", m.order, s.source.Name(), m.FirstYear(), m.LastYear())
	return m.Summary(), nil
}

// ActiveModel summarises the current model.
func (s *Service) ActiveModel() (ModelSummary, error) {
	m := s.activeModel()
	if m == nil {
		return ModelSummary{}, ErrModelNotFound
	}
	return m.Summary(), nil
}

func (s *Service) setModel(m *Model) {
	s.mu.Lock()
	s.model = m
	s.mu.Unlock()
	s.metrics.SetModelYear(m.LastYear())
}
