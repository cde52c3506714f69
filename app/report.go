package app

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"healthstudy/domain/stats"
	"healthstudy/internal/regression"
)

// RenderMarkdown formats a study report as a markdown document
func RenderMarkdown(report *StudyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Health Study Report\n\n")
	fmt.Fprintf(&b, "Report `%s` for run `%s`, generated %s, %d observations.\n\n",
		report.ReportID, report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"), report.RowCount)

	b.WriteString("## Descriptive statistics\n\n")
	writeSummaryTable(&b, report.Summaries, false)

	if len(report.GroupedSummaries) > 0 {
		fmt.Fprintf(&b, "## Descriptive statistics by %s\n\n", report.GroupColumn)
		writeSummaryTable(&b, report.GroupedSummaries, true)
	}

	b.WriteString("## Disease simulation\n\n")
	b.WriteString("| Group | True rate | Simulated rate | Abs. difference |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, c := range report.Comparisons {
		group := c.Group
		if group == "" {
			group = "all"
		}
		fmt.Fprintf(&b, "| %s | %.1f%% | %.1f%% | %.2f%% |\n",
			group, c.TrueRate*100, c.SimulatedRate*100, c.AbsDifference*100)
	}
	b.WriteString("\n")

	b.WriteString("## Systolic blood pressure, population mean\n\n")
	writeInterval(&b, report.SystolicInterval)
	writeInterval(&b, report.BootstrapInterval)
	b.WriteString("\n")

	b.WriteString("## Smokers vs non-smokers\n\n")
	t := report.SmokerTest
	fmt.Fprintf(&b, "- Mean systolic: smokers %.2f mmHg (n=%d), non-smokers %.2f mmHg (n=%d)\n",
		t.MeanA, t.SizeA, t.MeanB, t.SizeB)
	fmt.Fprintf(&b, "- Welch t = %.3f (df = %.1f), two-sided p = %.4f, one-sided p = %.4f\n",
		t.TStatistic, t.DegreesFreedom, t.PValueTwoSided, t.PValueOneSided)
	fmt.Fprintf(&b, "- Cohen's d = %.3f, power ≈ %.3f\n", t.CohensD, t.Power)
	fmt.Fprintf(&b, "- Decision at α = %.2f: %s\n\n", t.Alpha, decision(t))

	b.WriteString("## Regression\n\n")
	writeModel(&b, report.SimpleModel)
	writeModel(&b, report.MultipleModel)

	b.WriteString("## Principal component analysis\n\n")
	b.WriteString("| Component | Variance | Explained |\n")
	b.WriteString("|---|---|---|\n")
	for _, c := range report.PCA.Components {
		fmt.Fprintf(&b, "| PC%d | %.4f | %.1f%% |\n", c.Index, c.Variance, c.ExplainedVarRatio*100)
	}
	kaiser := regression.KaiserComponents(report.PCA)
	fmt.Fprintf(&b, "\nKaiser rule retains %d of %d components.\n\n",
		len(kaiser), len(report.PCA.Components))

	return b.String()
}

// RenderHTML converts the markdown report into a standalone HTML fragment
func RenderHTML(report *StudyReport) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(RenderMarkdown(report)), p, renderer)
}

func writeSummaryTable(b *strings.Builder, summaries []stats.Summary, grouped bool) {
	if grouped {
		b.WriteString("| Column | Group | Count | Missing | Mean | Median | Min | Max | Std dev |\n")
		b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	} else {
		b.WriteString("| Column | Count | Missing | Mean | Median | Min | Max | Std dev |\n")
		b.WriteString("|---|---|---|---|---|---|---|---|\n")
	}
	for _, s := range summaries {
		cells := []string{s.Column}
		if grouped {
			cells = append(cells, s.Group)
		}
		if !s.HasData {
			cells = append(cells, fmt.Sprintf("%d", s.Count), fmt.Sprintf("%d", s.MissingCount),
				"no data", "-", "-", "-", "-")
		} else {
			cells = append(cells,
				fmt.Sprintf("%d", s.Count), fmt.Sprintf("%d", s.MissingCount),
				fmt.Sprintf("%.2f", s.Mean), fmt.Sprintf("%.2f", s.Median),
				fmt.Sprintf("%.2f", s.Min), fmt.Sprintf("%.2f", s.Max),
				fmt.Sprintf("%.2f", s.StdDev))
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
	b.WriteString("\n")
}

func writeInterval(b *strings.Builder, ci stats.ConfidenceInterval) {
	fmt.Fprintf(b, "- %.0f%% CI (%s): [%.2f, %.2f] mmHg, mean %.2f, SE %.3f, n=%d\n",
		ci.Confidence*100, ci.Method, ci.Lower, ci.Upper, ci.Mean, ci.StdErr, ci.SampleSize)
}

func writeModel(b *strings.Builder, m stats.RegressionModel) {
	terms := make([]string, 0, len(m.Predictors)+1)
	terms = append(terms, fmt.Sprintf("%.3f", m.Intercept))
	for i, p := range m.Predictors {
		terms = append(terms, fmt.Sprintf("%.3f·%s", m.Coefficients[i], p))
	}
	fmt.Fprintf(b, "- %s = %s (R² = %.4f, adj. R² = %.4f, residual SD = %.2f, n = %d)\n\n",
		m.Response, strings.Join(terms, " + "), m.R2, m.AdjustedR2, m.ResidualStdDev, m.SampleSize)
}

func decision(t stats.TTestResult) string {
	if t.RejectNull {
		return "reject H0"
	}
	return "fail to reject H0"
}
