package app

import (
	"context"
	"time"

	"healthstudy/domain/core"
	"healthstudy/domain/health"
	"healthstudy/domain/stats"
	"healthstudy/internal"
	"healthstudy/internal/analysis"
	"healthstudy/internal/config"
	"healthstudy/internal/inference"
	"healthstudy/internal/regression"
	"healthstudy/internal/simulation"
	"healthstudy/ports"
)

// StudyReport aggregates every result of one analysis run. It is a plain
// value handed to the presentation layer; the service never persists it.
type StudyReport struct {
	RunID       core.RunID    `json:"run_id"`
	ReportID    core.ReportID `json:"report_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	RowCount    int           `json:"row_count"`
	GroupColumn string        `json:"group_column"`

	Summaries        []stats.Summary `json:"summaries"`
	GroupedSummaries []stats.Summary `json:"grouped_summaries"`

	Simulation       stats.SimulationResult       `json:"simulation"`
	GroupSimulations []stats.SimulationResult     `json:"group_simulations"`
	Comparisons      []stats.SimulationComparison `json:"comparisons"`

	SystolicInterval  stats.ConfidenceInterval `json:"systolic_interval"`
	BootstrapInterval stats.ConfidenceInterval `json:"bootstrap_interval"`
	SmokerTest        stats.TTestResult        `json:"smoker_test"`

	SimpleModel   stats.RegressionModel `json:"simple_model"`
	MultipleModel stats.RegressionModel `json:"multiple_model"`
	PCA           stats.PCAResult       `json:"pca"`
}

// StudyService runs the analysis pipeline: load, describe, simulate, infer,
// regress. Each step takes the dataset as an explicit value; nothing is
// shared through package state.
type StudyService struct {
	log       *internal.Logger
	reader    ports.DatasetReader
	summaries *analysis.SummaryComputer
	simulator *simulation.Simulator
	intervals *inference.IntervalEstimator
	ttester   *inference.TTester
	ols       *regression.OLSFitter
	pca       *regression.PCAAnalyzer
}

// NewStudyService wires the pipeline components around a dataset reader
func NewStudyService(log *internal.Logger, reader ports.DatasetReader) *StudyService {
	return &StudyService{
		log:       log,
		reader:    reader,
		summaries: analysis.NewSummaryComputer(),
		simulator: simulation.NewSimulator(),
		intervals: inference.NewIntervalEstimator(),
		ttester:   inference.NewTTester(),
		ols:       regression.NewOLSFitter(),
		pca:       regression.NewPCAAnalyzer(),
	}
}

// Run executes the full pipeline and returns the aggregated report. Any step
// failure aborts the run and surfaces the error unmodified.
func (s *StudyService) Run(ctx context.Context, cfg *config.Config) (*StudyReport, error) {
	report := &StudyReport{
		RunID:       core.RunID(core.NewID()),
		ReportID:    core.ReportID(core.NewID()),
		GeneratedAt: time.Now().UTC(),
		GroupColumn: cfg.Analysis.GroupColumn,
	}

	s.log.Info("loading dataset from %s", cfg.Input.Path)
	ds, err := s.reader.Read(ctx)
	if err != nil {
		return nil, err
	}
	report.RowCount = ds.Len()
	s.log.Info("loaded %d observations", ds.Len())

	if report.Summaries, err = s.summaries.DescribeAll(ds); err != nil {
		return nil, err
	}
	bmi, err := s.summaries.Describe(ds, health.ColBMI)
	if err != nil {
		return nil, err
	}
	report.Summaries = append(report.Summaries, bmi)
	if report.GroupedSummaries, err = s.describeGrouped(ds, cfg.Analysis.GroupColumn); err != nil {
		return nil, err
	}

	s.log.Info("simulating %d outcomes at observed prevalence %.3f (seed %d)",
		cfg.Simulation.SampleSize, ds.DiseaseRate(), cfg.Simulation.Seed)
	if report.Simulation, err = s.simulator.SimulateDataset(ds, cfg.Simulation.SampleSize, cfg.Simulation.Seed); err != nil {
		return nil, err
	}
	if report.GroupSimulations, err = s.simulator.SimulateGroups(ds, cfg.Analysis.GroupColumn, cfg.Simulation.SampleSize, cfg.Simulation.Seed); err != nil {
		return nil, err
	}
	report.Comparisons = append(report.Comparisons, simulation.Compare(ds.DiseaseRate(), report.Simulation))
	groupComparisons, err := simulation.CompareGroups(ds, cfg.Analysis.GroupColumn, report.GroupSimulations)
	if err != nil {
		return nil, err
	}
	report.Comparisons = append(report.Comparisons, groupComparisons...)

	systolic, err := ds.Column(health.ColSystolic)
	if err != nil {
		return nil, err
	}
	s.log.Info("estimating %.0f%% confidence interval for systolic pressure", cfg.Analysis.Confidence*100)
	if report.SystolicInterval, err = s.intervals.MeanInterval(systolic, cfg.Analysis.Confidence); err != nil {
		return nil, err
	}
	if report.BootstrapInterval, err = s.intervals.BootstrapInterval(systolic, cfg.Analysis.Confidence,
		cfg.Simulation.BootstrapReplicates, cfg.Simulation.Seed); err != nil {
		return nil, err
	}

	smokers, err := ds.Smokers().Column(health.ColSystolic)
	if err != nil {
		return nil, err
	}
	nonSmokers, err := ds.NonSmokers().Column(health.ColSystolic)
	if err != nil {
		return nil, err
	}
	s.log.Info("testing smokers (n=%d) against non-smokers (n=%d)", ds.Smokers().Len(), ds.NonSmokers().Len())
	if report.SmokerTest, err = s.ttester.WelchTTest(smokers, nonSmokers, cfg.Analysis.Alpha); err != nil {
		return nil, err
	}

	if err := s.fitModels(ds, report); err != nil {
		return nil, err
	}

	s.log.Info("run %s complete", report.RunID)
	return report, nil
}

func (s *StudyService) describeGrouped(ds *health.Dataset, groupColumn string) ([]stats.Summary, error) {
	var grouped []stats.Summary
	for _, column := range health.NumericColumns {
		summaries, err := s.summaries.DescribeBy(ds, column, groupColumn)
		if err != nil {
			return nil, err
		}
		grouped = append(grouped, summaries...)
	}
	return grouped, nil
}

func (s *StudyService) fitModels(ds *health.Dataset, report *StudyReport) error {
	systolic, err := ds.Column(health.ColSystolic)
	if err != nil {
		return err
	}
	age, err := ds.Column(health.ColAge)
	if err != nil {
		return err
	}
	weight, err := ds.Column(health.ColWeight)
	if err != nil {
		return err
	}

	response := regression.Variable{Name: health.ColSystolic, Values: systolic}
	agePredictor := regression.Variable{Name: health.ColAge, Values: age}
	weightPredictor := regression.Variable{Name: health.ColWeight, Values: weight}

	s.log.Info("fitting systolic ~ age")
	if report.SimpleModel, err = s.ols.Fit(response, agePredictor); err != nil {
		return err
	}
	s.log.Info("fitting systolic ~ age + weight")
	if report.MultipleModel, err = s.ols.Fit(response, agePredictor, weightPredictor); err != nil {
		return err
	}

	variables := make([]regression.Variable, 0, len(health.NumericColumns))
	for _, column := range health.NumericColumns {
		values, err := ds.Column(column)
		if err != nil {
			return err
		}
		variables = append(variables, regression.Variable{Name: column, Values: values})
	}
	s.log.Info("running pca over %d standardized variables", len(variables))
	if report.PCA, err = s.pca.Fit(variables...); err != nil {
		return err
	}
	return nil
}
