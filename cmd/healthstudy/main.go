package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"healthstudy/adapters/csvfile"
	"healthstudy/adapters/excel"
	"healthstudy/app"
	"healthstudy/domain/health"
	"healthstudy/domain/stats"
	"healthstudy/internal"
	"healthstudy/internal/analysis"
	"healthstudy/internal/config"
	"healthstudy/internal/errors"
	"healthstudy/internal/inference"
	"healthstudy/internal/regression"
	"healthstudy/internal/simulation"
	"healthstudy/ports"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "healthstudy",
		Short: "Statistical analysis of the health study dataset",
	}

	rootCmd.AddCommand(
		newDescribeCmd(),
		newSimulateCmd(),
		newCICmd(),
		newTTestCmd(),
		newRegressCmd(),
		newPCACmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		err = errors.Classify(err)
		fmt.Fprintf(os.Stderr, "[%s] %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

// newReader picks the loader from the file extension
func newReader(cfg *config.Config) ports.DatasetReader {
	if strings.EqualFold(filepath.Ext(cfg.Input.Path), ".xlsx") {
		if cfg.Input.Sheet != "" {
			return excel.NewReaderForSheet(cfg.Input.Path, cfg.Input.Sheet)
		}
		return excel.NewReader(cfg.Input.Path)
	}
	return csvfile.NewReaderWithDelimiter(cfg.Input.Path, rune(cfg.Input.Delimiter[0]))
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		cfg.Input.Path = input
	}
	if delimiter, _ := cmd.Flags().GetString("delimiter"); cmd.Flags().Changed("delimiter") {
		cfg.Input.Delimiter = delimiter
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if n, _ := cmd.Flags().GetInt("n"); cmd.Flags().Changed("n") {
		cfg.Simulation.SampleSize = n
	}
	if confidence, _ := cmd.Flags().GetFloat64("confidence"); cmd.Flags().Changed("confidence") {
		cfg.Analysis.Confidence = confidence
	}
	if alpha, _ := cmd.Flags().GetFloat64("alpha"); cmd.Flags().Changed("alpha") {
		cfg.Analysis.Alpha = alpha
	}
	if group, _ := cmd.Flags().GetString("group"); group != "" {
		cfg.Analysis.GroupColumn = group
	}
	return cfg, cfg.Validate()
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "path to the study CSV or XLSX file")
	cmd.Flags().String("delimiter", ",", "field delimiter for CSV input")
	cmd.Flags().Int64("seed", 42, "seed for simulation and bootstrap streams")
	cmd.Flags().Int("n", 1000, "simulated sample size")
	cmd.Flags().Float64("confidence", 0.95, "confidence level for intervals")
	cmd.Flags().Float64("alpha", 0.05, "significance level for hypothesis tests")
	cmd.Flags().String("group", "", "categorical column for grouping (sex, smoker, disease)")
}

func loadDataset(cmd *cobra.Command) (*config.Config, *health.Dataset, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	ds, err := newReader(cfg).Read(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return cfg, ds, nil
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [columns...]",
		Short: "Descriptive statistics per numeric column, optionally grouped",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}
			columns := args
			if len(columns) == 0 {
				columns = health.NumericColumns
			}
			computer := analysis.NewSummaryComputer()
			group, _ := cmd.Flags().GetString("group")
			for _, column := range columns {
				if group == "" {
					summary, err := computer.Describe(ds, column)
					if err != nil {
						return err
					}
					printSummary(summary)
					continue
				}
				summaries, err := computer.DescribeBy(ds, column, group)
				if err != nil {
					return err
				}
				for _, summary := range summaries {
					printSummary(summary)
				}
			}
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func printSummary(s stats.Summary) {
	label := s.Column
	if s.Group != "" {
		label = fmt.Sprintf("%s[%s]", s.Column, s.Group)
	}
	if !s.HasData {
		fmt.Printf("%-22s no data (missing=%d)\n", label, s.MissingCount)
		return
	}
	fmt.Printf("%-22s n=%-5d mean=%-9.2f median=%-9.2f min=%-9.2f max=%-9.2f sd=%-9.2f missing=%d\n",
		label, s.Count, s.Mean, s.Median, s.Min, s.Max, s.StdDev, s.MissingCount)
}

func printModel(m stats.RegressionModel) {
	terms := make([]string, 0, len(m.Predictors)+1)
	terms = append(terms, fmt.Sprintf("%.3f", m.Intercept))
	for i, p := range m.Predictors {
		terms = append(terms, fmt.Sprintf("%.3f*%s", m.Coefficients[i], p))
	}
	fmt.Printf("%s = %s  (R2=%.4f adjR2=%.4f n=%d)\n",
		m.Response, strings.Join(terms, " + "), m.R2, m.AdjustedR2, m.SampleSize)
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Reproducible Monte Carlo simulation of disease incidence",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}
			simulator := simulation.NewSimulator()
			overall, err := simulator.SimulateDataset(ds, cfg.Simulation.SampleSize, cfg.Simulation.Seed)
			if err != nil {
				return err
			}
			fmt.Printf("overall: prevalence %.3f, simulated %.3f (n=%d, seed=%d)\n",
				ds.DiseaseRate(), overall.Proportion(), len(overall.Outcomes), overall.Seed)

			results, err := simulator.SimulateGroups(ds, cfg.Analysis.GroupColumn, cfg.Simulation.SampleSize, cfg.Simulation.Seed)
			if err != nil {
				return err
			}
			comparisons, err := simulation.CompareGroups(ds, cfg.Analysis.GroupColumn, results)
			if err != nil {
				return err
			}
			for _, c := range comparisons {
				fmt.Printf("%s=%s: prevalence %.3f, simulated %.3f, diff %.4f\n",
					cfg.Analysis.GroupColumn, c.Group, c.TrueRate, c.SimulatedRate, c.AbsDifference)
			}
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func newCICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ci [column]",
		Short: "Confidence interval for a population mean (default systolic)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}
			column := health.ColSystolic
			if len(args) == 1 {
				column = args[0]
			}
			sample, err := ds.Column(column)
			if err != nil {
				return err
			}
			estimator := inference.NewIntervalEstimator()
			student, err := estimator.MeanInterval(sample, cfg.Analysis.Confidence)
			if err != nil {
				return err
			}
			boot, err := estimator.BootstrapInterval(sample, cfg.Analysis.Confidence,
				cfg.Simulation.BootstrapReplicates, cfg.Simulation.Seed)
			if err != nil {
				return err
			}
			fmt.Printf("%s mean %.2f, n=%d\n", column, student.Mean, student.SampleSize)
			fmt.Printf("%.0f%% CI (student t):  [%.2f, %.2f]\n", student.Confidence*100, student.Lower, student.Upper)
			fmt.Printf("%.0f%% CI (bootstrap):  [%.2f, %.2f]\n", boot.Confidence*100, boot.Lower, boot.Upper)
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func newTTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ttest [column]",
		Short: "Welch t-test of smokers vs non-smokers (default systolic)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}
			column := health.ColSystolic
			if len(args) == 1 {
				column = args[0]
			}
			smokers, err := ds.Smokers().Column(column)
			if err != nil {
				return err
			}
			nonSmokers, err := ds.NonSmokers().Column(column)
			if err != nil {
				return err
			}
			result, err := inference.NewTTester().WelchTTest(smokers, nonSmokers, cfg.Analysis.Alpha)
			if err != nil {
				return err
			}
			fmt.Printf("smokers %.2f (n=%d), non-smokers %.2f (n=%d)\n",
				result.MeanA, result.SizeA, result.MeanB, result.SizeB)
			fmt.Printf("t=%.3f df=%.1f p=%.4f (one-sided %.4f) d=%.3f power=%.3f\n",
				result.TStatistic, result.DegreesFreedom, result.PValueTwoSided,
				result.PValueOneSided, result.CohensD, result.Power)
			if result.RejectNull {
				fmt.Printf("reject H0 at alpha=%.2f\n", result.Alpha)
			} else {
				fmt.Printf("fail to reject H0 at alpha=%.2f\n", result.Alpha)
			}
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func newRegressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regress",
		Short: "OLS fits of systolic pressure on age, then age and weight",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}
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
			fitter := regression.NewOLSFitter()
			response := regression.Variable{Name: health.ColSystolic, Values: systolic}
			simple, err := fitter.Fit(response, regression.Variable{Name: health.ColAge, Values: age})
			if err != nil {
				return err
			}
			multiple, err := fitter.Fit(response,
				regression.Variable{Name: health.ColAge, Values: age},
				regression.Variable{Name: health.ColWeight, Values: weight})
			if err != nil {
				return err
			}
			printModel(simple)
			printModel(multiple)
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func newPCACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pca",
		Short: "Principal component analysis over the standardized numeric columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ds, err := loadDataset(cmd)
			if err != nil {
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
			result, err := regression.NewPCAAnalyzer().Fit(variables...)
			if err != nil {
				return err
			}
			for _, c := range result.Components {
				fmt.Printf("PC%d: variance %.4f, explained %.1f%%\n",
					c.Index, c.Variance, c.ExplainedVarRatio*100)
			}
			kept := regression.KaiserComponents(result)
			fmt.Printf("Kaiser rule retains %d of %d components\n", len(kept), len(result.Components))
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func newReportCmd() *cobra.Command {
	var outPath string
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full pipeline and render a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := internal.NewDefaultLogger()
			service := app.NewStudyService(log, newReader(cfg))
			report, err := service.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			var output []byte
			if asHTML {
				output = app.RenderHTML(report)
			} else {
				output = []byte(app.RenderMarkdown(report))
			}
			if outPath == "" {
				fmt.Print(string(output))
				return nil
			}
			if err := os.WriteFile(outPath, output, 0o644); err != nil {
				return err
			}
			log.Info("report written to %s", outPath)
			return nil
		},
	}
	addCommonFlags(cmd)
	cmd.Flags().StringVar(&outPath, "out", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&asHTML, "html", false, "render the report as HTML")
	return cmd
}
