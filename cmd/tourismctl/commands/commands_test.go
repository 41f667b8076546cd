package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tourism-forecast/internal/tourism"
	"github.com/i474232898/tourism-forecast/internal/tourism/tourismtest"
)

func writeSheet(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bhutan.csv")
	require.NoError(t, os.WriteFile(path, []byte(tourismtest.Sheet(tourismtest.Arrivals)), 0o644))
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, NewAnalyzeCommand(), writeSheet(t))
	require.NoError(t, err)

	assert.Contains(t, out, "ADF Test Statistic")
	assert.Contains(t, out, "155,121")
	assert.Contains(t, out, tourism.ConclusionNonStationary)
}

func TestAnalyzeCommand_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := execute(t, NewAnalyzeCommand(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestTrainThenPredict(t *testing.T) {
	t.Parallel()

	sheet := writeSheet(t)
	modelPath := filepath.Join(t.TempDir(), "model.json")

	out, err := execute(t, NewTrainCommand(), "--model", modelPath, sheet)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved SARIMA(1,1,1)(0,0,0)[0] trained on 1991-2015")
	assert.FileExists(t, modelPath)

	out, err = execute(t, NewPredictCommand(), "--model", modelPath, "--date", "2000-05-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted number of tourists on 2000-05-01: 7,559")
	assert.Contains(t, out, "observed value for 2000")

	out, err = execute(t, NewPredictCommand(), "--model", modelPath, "--date", "2018-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "3 years ahead")
}

func TestPredictCommand_Errors(t *testing.T) {
	t.Parallel()

	_, err := execute(t, NewPredictCommand())
	require.ErrorContains(t, err, "--date is required")

	_, err = execute(t, NewPredictCommand(), "--date", "01/02/2020")
	require.ErrorContains(t, err, "YYYY-MM-DD")

	_, err = execute(t, NewPredictCommand(), "--date", "2020-01-01", "--model", filepath.Join(t.TempDir(), "none.json"))
	require.ErrorIs(t, err, tourism.ErrModelNotFound)
}

func TestPlotCommand(t *testing.T) {
	t.Parallel()

	sheet := writeSheet(t)
	dir := t.TempDir()

	for _, name := range []string{"arrivals.html", "arrivals.png"} {
		out, err := execute(t, NewPlotCommand(), "-o", filepath.Join(dir, name), sheet)
		require.NoError(t, err)
		assert.Contains(t, out, "Wrote")
		assert.FileExists(t, filepath.Join(dir, name))
	}

	_, err := execute(t, NewPlotCommand(), "-o", filepath.Join(dir, "arrivals.svg"), sheet)
	require.ErrorContains(t, err, "unsupported output")
	assert.NoFileExists(t, filepath.Join(dir, "arrivals.svg"))
}

func TestPlotCommand_FailureLeavesNoFile(t *testing.T) {
	t.Parallel()

	short := filepath.Join(t.TempDir(), "short.csv")
	require.NoError(t, os.WriteFile(short, []byte(tourismtest.Sheet(tourismtest.Arrivals[:5])), 0o644))

	out := filepath.Join(t.TempDir(), "short.html")
	_, err := execute(t, NewPlotCommand(), "-o", out, short)
	require.ErrorIs(t, err, tourism.ErrSeriesTooShort)
	assert.NoFileExists(t, out)
}

func TestPlotCommand_ForecastUsesSavedOrder(t *testing.T) {
	t.Parallel()

	sheet := writeSheet(t)
	modelPath := filepath.Join(t.TempDir(), "model.json")
	_, err := execute(t, NewTrainCommand(), "--model", modelPath, "--order", "2,1,0", sheet)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "arrivals.png")
	_, err = execute(t, NewPlotCommand(), "--model", modelPath, "--forecast", "3", "-o", out, sheet)
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestFitUpload_UsesSavedOrder(t *testing.T) {
	t.Parallel()

	sheet := writeSheet(t)
	modelPath := filepath.Join(t.TempDir(), "model.json")
	_, err := execute(t, NewTrainCommand(), "--model", modelPath, "--order", "2,1,0", sheet)
	require.NoError(t, err)

	ds, err := loadDataset(context.Background(), sheet)
	require.NoError(t, err)

	model, err := fitUpload(ds, modelPath, defaultOrder, false)
	require.NoError(t, err)
	assert.Equal(t, tourism.ModelOrder{P: 2, D: 1}, model.Order())

	model, err = fitUpload(ds, modelPath, "1,1,0", true)
	require.NoError(t, err)
	assert.Equal(t, tourism.ModelOrder{P: 1, D: 1}, model.Order(), "an explicit order wins")

	model, err = fitUpload(ds, filepath.Join(t.TempDir(), "none.json"), defaultOrder, false)
	require.NoError(t, err)
	assert.Equal(t, tourism.DefaultOrder(), model.Order())
}
