package tourism

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/sartorproj/goarima/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tourism-forecast/internal/tourism/tourismtest"
)

func datasetOf(values []float64) *Dataset {
	ds := &Dataset{Name: "test"}
	for i, v := range values {
		ds.Observations = append(ds.Observations, Observation{Index: 1991 + i, Year: 1991 + i, Tourists: v})
	}
	return ds
}

func TestTestStationarity_ArrivalsHaveUnitRoot(t *testing.T) {
	t.Parallel()

	values := make([]float64, len(tourismtest.Arrivals))
	for i, s := range tourismtest.Arrivals {
		v, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		values[i] = v
	}

	report, err := TestStationarity(datasetOf(values), 0)
	require.NoError(t, err)

	assert.False(t, report.Stationary)
	assert.Greater(t, report.PValue, SignificanceLevel)
	assert.Equal(t, ConclusionNonStationary, report.Conclusion)
	assert.Equal(t, 2, report.LagsUsed)
	assert.Equal(t, 22, report.NObs)
	assert.Contains(t, report.CriticalValues, "5%")
}

func TestTestStationarity_MeanRevertingSeries(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	values := make([]float64, 120)
	for i := 1; i < len(values); i++ {
		values[i] = 0.2*values[i-1] + rng.NormFloat64()
	}

	report, err := TestStationarity(datasetOf(values), 1)
	require.NoError(t, err)

	assert.True(t, report.Stationary)
	assert.LessOrEqual(t, report.PValue, SignificanceLevel)
	assert.Equal(t, ConclusionStationary, report.Conclusion)
	assert.Equal(t, 1, report.LagsUsed)
	require.NotNil(t, report.KPSS)
}

func TestTestStationarity_TooShort(t *testing.T) {
	t.Parallel()

	_, err := TestStationarity(datasetOf([]float64{1, 2, 3, 4, 5}), 0)
	require.ErrorIs(t, err, ErrSeriesTooShort)
}

func TestCheckFinite(t *testing.T) {
	t.Parallel()

	require.NoError(t, checkFinite(&stats.ADFResult{Statistic: -1.2, PValue: 0.6}))
	require.ErrorIs(t, checkFinite(&stats.ADFResult{Statistic: math.NaN(), PValue: 0.6}), ErrDegenerateSeries)
	require.ErrorIs(t, checkFinite(&stats.ADFResult{Statistic: -1.2, PValue: math.Inf(1)}), ErrDegenerateSeries)
}
