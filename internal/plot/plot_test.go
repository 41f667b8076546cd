package plot

import (
	"bytes"
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

func sample() *tourism.Dataset {
	ds := &tourism.Dataset{Name: "sample"}
	for i, v := range []float64{2384, 2850, 2974, 3971, 4765} {
		ds.Observations = append(ds.Observations, tourism.Observation{Index: 1991 + i, Year: 1991 + i, Tourists: v})
	}
	return ds
}

func TestTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bhutan Tourist Arrivals (1991-1995)", Title(sample()))
	assert.Equal(t, "Bhutan Tourist Arrivals", Title(&tourism.Dataset{}))
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	report := &tourism.StationarityReport{Statistic: -1.25, PValue: 0.65, LagsUsed: 2, NObs: 22}
	forecast := []tourism.Observation{{Index: 1996, Year: 1996, Tourists: 5100}}

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sample(), report, forecast))

	page := buf.String()
	assert.Contains(t, page, "Bhutan Tourist Arrivals (1991-1995)")
	assert.Contains(t, page, "ADF statistic -1.2500, p-value 0.6500")
	assert.Contains(t, page, yAxisLabel)
	assert.Contains(t, page, "Forecast")
}

func TestLineChart_ForecastPadding(t *testing.T) {
	t.Parallel()

	forecast := []tourism.Observation{{Index: 1996, Tourists: 5100}, {Index: 1997, Tourists: 5400}}
	line := LineChart(sample(), nil, forecast)

	require.Len(t, line.MultiSeries, 2)
	projected := line.MultiSeries[1].Data.([]opts.LineData)
	require.Len(t, projected, 7)
	assert.Equal(t, "-", projected[0].Value)
	assert.Equal(t, 4765.0, projected[4].Value)
	assert.Equal(t, 5400.0, projected[6].Value)
}

func TestRenderPNG(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, sample(), []tourism.Observation{{Index: 1996, Tourists: 5100}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))

	require.Error(t, RenderPNG(&buf, &tourism.Dataset{}, nil))
}
