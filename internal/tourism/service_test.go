package tourism_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tourism-forecast/internal/metrics"
	"github.com/i474232898/tourism-forecast/internal/store"
	"github.com/i474232898/tourism-forecast/internal/tourism"
	"github.com/i474232898/tourism-forecast/internal/tourism/sources"
	"github.com/i474232898/tourism-forecast/internal/tourism/tourismtest"
)

func writeSheet(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bhutan-tourism-statistics.csv")
	require.NoError(t, os.WriteFile(path, []byte(tourismtest.Sheet(tourismtest.Arrivals)), 0o644))
	return path
}

func newService(source tourism.Source, modelPath string) *tourism.Service {
	return tourism.NewService(store.NewMemoryStore(10, time.Hour), source, tourism.Options{
		ModelPath: modelPath,
		Metrics:   metrics.New(),
	})
}

func TestService_AnalyzeStoresRun(t *testing.T) {
	t.Parallel()

	svc := newService(nil, "")

	run, err := svc.Analyze(context.Background(), "upload.csv", strings.NewReader(tourismtest.Sheet(tourismtest.Arrivals)))
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, 25, run.Dataset.Len())
	require.NotNil(t, run.Stationarity)

	got, err := svc.Run(run.ID)
	require.NoError(t, err)
	assert.Same(t, run, got)
	assert.Len(t, svc.Runs(), 1)
}

func TestService_AnalyzeRejectsBadUpload(t *testing.T) {
	t.Parallel()

	svc := newService(nil, "")

	_, err := svc.Analyze(context.Background(), "bad.csv", strings.NewReader("just,one,row\n"))
	require.ErrorIs(t, err, tourism.ErrUnexpectedShape)
	assert.Empty(t, svc.Runs())
}

func TestService_PredictWithoutModel(t *testing.T) {
	t.Parallel()

	svc := newService(nil, filepath.Join(t.TempDir(), "model.json"))
	require.ErrorIs(t, svc.LoadModel(), tourism.ErrModelNotFound)

	_, _, err := svc.Predict(context.Background(), time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "", nil)
	require.ErrorIs(t, err, tourism.ErrModelNotFound)

	_, err = svc.ActiveModel()
	require.ErrorIs(t, err, tourism.ErrModelNotFound)
}

func TestService_PredictFromUpload(t *testing.T) {
	t.Parallel()

	svc := newService(nil, "")

	p, summary, err := svc.Predict(context.Background(), time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC),
		"upload.csv", strings.NewReader(tourismtest.Sheet(tourismtest.Arrivals)))
	require.NoError(t, err)

	assert.Equal(t, 2, p.StepsAhead)
	assert.Equal(t, 2015, summary.LastYear)
	assert.Equal(t, tourism.DefaultOrder(), summary.Order)
}

func TestService_RetrainPersistsAndActivates(t *testing.T) {
	t.Parallel()

	modelPath := filepath.Join(t.TempDir(), "model.json")
	svc := newService(sources.NewFileSource(writeSheet(t)), modelPath)

	summary, err := svc.Retrain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1991, summary.FirstYear)
	assert.Equal(t, 2015, summary.LastYear)
	assert.FileExists(t, modelPath)

	active, err := svc.ActiveModel()
	require.NoError(t, err)
	assert.Equal(t, summary.Order, active.Order)

	p, _, err := svc.Predict(context.Background(), time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), "", nil)
	require.NoError(t, err)
	assert.True(t, p.InSample)
	assert.InDelta(t, 40873, p.Tourists, 0)

	ds, err := tourism.ReadDataset("same.csv", strings.NewReader(tourismtest.Sheet(tourismtest.Arrivals)), tourism.DefaultLayout())
	require.NoError(t, err)
	forecast, err := svc.Forecast(ds, 3)
	require.NoError(t, err)
	assert.Len(t, forecast, 3)

	// A second service picks up the persisted artifact.
	other := newService(nil, modelPath)
	require.NoError(t, other.LoadModel())
	_, err = other.ActiveModel()
	require.NoError(t, err)
}

func TestService_RetrainErrors(t *testing.T) {
	t.Parallel()

	_, err := newService(nil, "").Retrain(context.Background())
	require.ErrorIs(t, err, tourism.ErrNoSource)

	missing := sources.NewFileSource(filepath.Join(t.TempDir(), "nope.csv"))
	_, err = newService(missing, "").Retrain(context.Background())
	require.ErrorIs(t, err, sources.ErrSourceNotFound)
}

func TestService_PredictFromUploadUsesLoadedOrder(t *testing.T) {
	t.Parallel()

	ds, err := tourism.ReadDataset("train.csv", strings.NewReader(tourismtest.Sheet(tourismtest.ArrivalsThrough2020)), tourism.DefaultLayout())
	require.NoError(t, err)

	loadedOrder := tourism.ModelOrder{P: 2, D: 1}
	trained, err := tourism.Train(ds, loadedOrder)
	require.NoError(t, err)

	modelPath := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, trained.SaveModel(modelPath))

	svc := newService(nil, modelPath)
	require.NoError(t, svc.LoadModel())

	_, summary, err := svc.Predict(context.Background(), time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		"upload.csv", strings.NewReader(tourismtest.Sheet(tourismtest.Arrivals)))
	require.NoError(t, err)

	assert.Equal(t, loadedOrder, summary.Order, "upload must be fitted with the loaded model's order")
	assert.Equal(t, 2015, summary.LastYear, "upload must be fitted on its own window")
}

func TestService_ForecastFollowsDatasetWindow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "through-2020.csv")
	require.NoError(t, os.WriteFile(path, []byte(tourismtest.Sheet(tourismtest.ArrivalsThrough2020)), 0o644))

	svc := newService(sources.NewFileSource(path), "")
	summary, err := svc.Retrain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2020, summary.LastYear)

	short, err := tourism.ReadDataset("short.csv", strings.NewReader(tourismtest.Sheet(tourismtest.Arrivals)), tourism.DefaultLayout())
	require.NoError(t, err)

	forecast, err := svc.Forecast(short, 3)
	require.NoError(t, err)
	require.Len(t, forecast, 3)
	assert.Equal(t, []int{2016, 2017, 2018}, []int{forecast[0].Index, forecast[1].Index, forecast[2].Index})
}

func TestService_ForecastWithoutModelUsesConfiguredOrder(t *testing.T) {
	t.Parallel()

	ds, err := tourism.ReadDataset("a.csv", strings.NewReader(tourismtest.Sheet(tourismtest.Arrivals)), tourism.DefaultLayout())
	require.NoError(t, err)

	forecast, err := newService(nil, "").Forecast(ds, 2)
	require.NoError(t, err)
	assert.Equal(t, 2016, forecast[0].Index)
}
