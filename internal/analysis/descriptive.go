package analysis

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"healthstudy/domain/health"
	"healthstudy/domain/stats"
)

// SummaryComputer produces descriptive statistics for numeric columns,
// optionally partitioned by a categorical column. Statistics are recomputed
// on demand and never cached.
type SummaryComputer struct{}

// NewSummaryComputer creates a new summary computer
func NewSummaryComputer() *SummaryComputer {
	return &SummaryComputer{}
}

// Describe computes the summary of one numeric column
func (c *SummaryComputer) Describe(ds *health.Dataset, column string) (stats.Summary, error) {
	values, err := ds.Column(column)
	if err != nil {
		return stats.Summary{}, err
	}
	return c.summarize(values, column, ""), nil
}

// DescribeAll computes summaries for every numeric column of the study schema
func (c *SummaryComputer) DescribeAll(ds *health.Dataset) ([]stats.Summary, error) {
	summaries := make([]stats.Summary, 0, len(health.NumericColumns))
	for _, column := range health.NumericColumns {
		summary, err := c.Describe(ds, column)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// DescribeBy computes per-group summaries of a numeric column, partitioned by
// the distinct values of a categorical column. Groups appear in sorted name
// order; an empty group yields a Summary with HasData false.
func (c *SummaryComputer) DescribeBy(ds *health.Dataset, column, groupColumn string) ([]stats.Summary, error) {
	names, partitions, err := ds.PartitionBy(groupColumn)
	if err != nil {
		return nil, err
	}
	summaries := make([]stats.Summary, 0, len(names))
	for _, name := range names {
		values, err := partitions[name].Column(column)
		if err != nil {
			return nil, err
		}
		summary := c.summarize(values, column, name)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// summarize computes the statistics over the non-missing values. The count
// reflects usable values only; missing cells are tallied separately.
func (c *SummaryComputer) summarize(values []float64, column, group string) stats.Summary {
	usable := make([]float64, 0, len(values))
	missing := 0
	for _, v := range values {
		if math.IsNaN(v) {
			missing++
			continue
		}
		usable = append(usable, v)
	}

	summary := stats.Summary{
		Column:       column,
		Group:        group,
		Count:        len(usable),
		MissingCount: missing,
	}
	if len(usable) == 0 {
		return summary
	}

	summary.HasData = true
	summary.Mean, _ = mstats.Mean(usable)
	summary.Median, _ = mstats.Median(usable)
	summary.Min, _ = mstats.Min(usable)
	summary.Max, _ = mstats.Max(usable)
	summary.Q25, _ = mstats.Percentile(usable, 25)
	summary.Q75, _ = mstats.Percentile(usable, 75)
	if len(usable) > 1 {
		summary.StdDev, _ = mstats.StandardDeviationSample(usable)
	}
	return summary
}
