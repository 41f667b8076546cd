package tourism

import (
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/sartorproj/goarima/stats"
	"github.com/sartorproj/goarima/timeseries"
)

var (
	// ErrSeriesTooShort is returned when the series has too few observations for the test.
	ErrSeriesTooShort = errors.New("series too short for stationarity test")
	// ErrDegenerateSeries is returned when the test statistic is not a finite number.
	ErrDegenerateSeries = errors.New("stationarity test is undefined for this series")
)

// SignificanceLevel is the p-value at or below which the unit root is rejected.
const SignificanceLevel = 0.05

const (
	ConclusionStationary    = "Strong evidence against the null hypothesis (H0), reject the null hypothesis. Data has no unit root and is stationary"
	ConclusionNonStationary = "Weak evidence against the null hypothesis, time series has a unit root, indicating it is non-stationary"
)

// TestStationarity runs the Augmented Dickey-Fuller test on the tourist counts.
// maxLag <= 0 selects the lag automatically.
func TestStationarity(ds *Dataset, maxLag int) (*StationarityReport, error) {
	series := toSeries(ds)

	adf := stats.ADF(series, maxLag)
	if adf == nil {
		return nil, ErrSeriesTooShort
	}
	if err := checkFinite(adf); err != nil {
		return nil, err
	}

	report := &StationarityReport{
		Statistic:      adf.Statistic,
		PValue:         adf.PValue,
		LagsUsed:       adf.Lags,
		NObs:           adf.NObs,
		CriticalValues: maps.Clone(adf.CriticalVals),
		Stationary:     adf.PValue <= SignificanceLevel,
	}
	report.Conclusion = conclusion(report.Stationary)

	if kpss := stats.KPSS(series, "c", 0); kpss != nil {
		report.KPSS = &KPSSReport{
			Statistic:  kpss.Statistic,
			PValue:     kpss.PValue,
			Lags:       kpss.Lags,
			Stationary: kpss.IsStationary,
		}
	}

	return report, nil
}

func checkFinite(adf *stats.ADFResult) error {
	for _, v := range []float64{adf.Statistic, adf.PValue} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: adf statistic %v, p-value %v", ErrDegenerateSeries, adf.Statistic, adf.PValue)
		}
	}
	return nil
}

func conclusion(stationary bool) string {
	if stationary {
		return ConclusionStationary
	}
	return ConclusionNonStationary
}

func toSeries(ds *Dataset) *timeseries.Series {
	series := timeseries.New(ds.Values())
	series.Name = ds.Name
	return series
}
