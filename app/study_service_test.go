package app

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthstudy/adapters/csvfile"
	"healthstudy/internal"
	"healthstudy/internal/config"
	"healthstudy/internal/testkit"
)

func testConfig(path string) *config.Config {
	return &config.Config{
		Input: config.InputConfig{Path: path, Delimiter: ","},
		Analysis: config.AnalysisConfig{
			Confidence:  0.95,
			Alpha:       0.05,
			GroupColumn: "sex",
		},
		Simulation: config.SimulationConfig{
			Seed:                42,
			SampleSize:          1000,
			BootstrapReplicates: 2000,
		},
	}
}

func writeStudyFile(t *testing.T) string {
	t.Helper()
	generatorConfig := testkit.DefaultGeneratorConfig()
	generatorConfig.Rows = 300
	ds := testkit.NewHealthGenerator(generatorConfig).Generate()

	path := filepath.Join(t.TempDir(), "study.csv")
	require.NoError(t, testkit.WriteCSV(path, ds))
	return path
}

func newTestService(path string) *StudyService {
	log := internal.NewLogger(io.Discard, internal.LogLevelError)
	return NewStudyService(log, csvfile.NewReader(path))
}

func TestStudyServiceRunsFullPipeline(t *testing.T) {
	path := writeStudyFile(t)
	report, err := newTestService(path).Run(context.Background(), testConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 300, report.RowCount)
	assert.False(t, report.RunID.String() == "")
	assert.False(t, report.ReportID.String() == "")
	// Six file columns plus the derived BMI column
	assert.Len(t, report.Summaries, 7)
	assert.NotEmpty(t, report.GroupedSummaries)

	assert.Len(t, report.Simulation.Outcomes, 1000)
	assert.Len(t, report.GroupSimulations, 2)
	assert.Len(t, report.Comparisons, 3)

	assert.Equal(t, "student_t", report.SystolicInterval.Method)
	assert.Equal(t, "bootstrap", report.BootstrapInterval.Method)
	assert.Less(t, report.SystolicInterval.Lower, report.SystolicInterval.Upper)

	// Generated smokers run about 8 mmHg higher, so the test should find it
	assert.True(t, report.SmokerTest.RejectNull)
	assert.Greater(t, report.SmokerTest.TStatistic, 0.0)

	assert.Len(t, report.SimpleModel.Coefficients, 1)
	assert.Len(t, report.MultipleModel.Coefficients, 2)
	assert.Greater(t, report.SimpleModel.R2, 0.3)
	assert.Len(t, report.PCA.Components, 6)
}

func TestStudyServiceIsDeterministic(t *testing.T) {
	path := writeStudyFile(t)

	first, err := newTestService(path).Run(context.Background(), testConfig(path))
	require.NoError(t, err)
	second, err := newTestService(path).Run(context.Background(), testConfig(path))
	require.NoError(t, err)

	assert.Equal(t, first.Simulation.Outcomes, second.Simulation.Outcomes)
	assert.Equal(t, first.BootstrapInterval.Lower, second.BootstrapInterval.Lower)
	assert.Equal(t, first.SmokerTest, second.SmokerTest)
	assert.Equal(t, first.SimpleModel, second.SimpleModel)
}

func TestStudyServicePropagatesLoadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")
	_, err := newTestService(path).Run(context.Background(), testConfig(path))
	require.Error(t, err)
}

func TestRenderMarkdown(t *testing.T) {
	path := writeStudyFile(t)
	report, err := newTestService(path).Run(context.Background(), testConfig(path))
	require.NoError(t, err)

	md := RenderMarkdown(report)
	for _, heading := range []string{
		"# Health Study Report",
		"## Descriptive statistics",
		"## Disease simulation",
		"## Smokers vs non-smokers",
		"## Regression",
		"## Principal component analysis",
	} {
		assert.Contains(t, md, heading)
	}
	assert.Contains(t, md, report.ReportID.String())
	assert.Contains(t, md, "| bmi |")
	assert.Contains(t, md, "Kaiser rule retains")
}

func TestRenderHTML(t *testing.T) {
	path := writeStudyFile(t)
	report, err := newTestService(path).Run(context.Background(), testConfig(path))
	require.NoError(t, err)

	html := string(RenderHTML(report))
	assert.Contains(t, html, "<h1")
	assert.True(t, strings.Contains(html, "<table>") || strings.Contains(html, "<table"))
}
