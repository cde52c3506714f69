package analysis

import (
	"math"
	"testing"

	"healthstudy/domain/health"
	"healthstudy/internal/testkit"
)

func TestDescribeMeanWithinRange(t *testing.T) {
	ds := testkit.NewHealthGenerator(testkit.DefaultGeneratorConfig()).Generate()
	computer := NewSummaryComputer()

	summaries, err := computer.DescribeAll(ds)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if len(summaries) != len(health.NumericColumns) {
		t.Fatalf("expected %d summaries, got %d", len(health.NumericColumns), len(summaries))
	}
	for _, s := range summaries {
		if !s.HasData {
			t.Fatalf("column %s unexpectedly empty", s.Column)
		}
		if s.Mean < s.Min || s.Mean > s.Max {
			t.Fatalf("column %s: mean %.2f outside [%.2f, %.2f]", s.Column, s.Mean, s.Min, s.Max)
		}
		if s.Count+s.MissingCount != ds.Len() {
			t.Fatalf("column %s: count %d + missing %d != rows %d", s.Column, s.Count, s.MissingCount, ds.Len())
		}
	}
}

func TestDescribeMedianEvenCount(t *testing.T) {
	ds := health.NewDataset([]health.Observation{
		{Age: 20, Sex: health.SexMale, Weight: 70, Height: 175, Systolic: 110, Diastolic: 70, Cholesterol: 170},
		{Age: 30, Sex: health.SexMale, Weight: 70, Height: 175, Systolic: 120, Diastolic: 70, Cholesterol: 170},
		{Age: 40, Sex: health.SexMale, Weight: 70, Height: 175, Systolic: 130, Diastolic: 70, Cholesterol: 170},
		{Age: 50, Sex: health.SexMale, Weight: 70, Height: 175, Systolic: 160, Diastolic: 70, Cholesterol: 170},
	})
	summary, err := NewSummaryComputer().Describe(ds, health.ColSystolic)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	// Average of the two middle values
	if math.Abs(summary.Median-125) > 1e-9 {
		t.Fatalf("expected median 125, got %v", summary.Median)
	}
}

func TestDescribeSampleStdDev(t *testing.T) {
	ds := health.NewDataset([]health.Observation{
		{Age: 20, Sex: health.SexMale, Weight: 70, Height: 175, Systolic: 110, Diastolic: 70, Cholesterol: 170},
		{Age: 30, Sex: health.SexMale, Weight: 70, Height: 175, Systolic: 120, Diastolic: 70, Cholesterol: 170},
		{Age: 40, Sex: health.SexMale, Weight: 70, Height: 175, Systolic: 130, Diastolic: 70, Cholesterol: 170},
	})
	summary, err := NewSummaryComputer().Describe(ds, health.ColSystolic)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	// Sample (n-1) standard deviation of 110,120,130 is exactly 10
	if math.Abs(summary.StdDev-10) > 1e-9 {
		t.Fatalf("expected sample stddev 10, got %v", summary.StdDev)
	}
}

func TestDescribeEmptyDataset(t *testing.T) {
	summary, err := NewSummaryComputer().Describe(health.NewDataset(nil), health.ColAge)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if summary.HasData || summary.Count != 0 {
		t.Fatalf("expected explicit no-data summary, got %+v", summary)
	}
}

func TestDescribeExcludesMissingFromCount(t *testing.T) {
	config := testkit.DefaultGeneratorConfig()
	config.MissingRate = 0.2
	ds := testkit.NewHealthGenerator(config).Generate()

	summary, err := NewSummaryComputer().Describe(ds, health.ColCholesterol)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if summary.MissingCount == 0 {
		t.Fatal("expected some missing cholesterol values")
	}
	if summary.Count+summary.MissingCount != ds.Len() {
		t.Fatalf("count %d + missing %d != rows %d", summary.Count, summary.MissingCount, ds.Len())
	}
}

func TestDescribeByPartitionsCoverDataset(t *testing.T) {
	ds := testkit.NewHealthGenerator(testkit.DefaultGeneratorConfig()).Generate()
	summaries, err := NewSummaryComputer().DescribeBy(ds, health.ColSystolic, health.ColSex)
	if err != nil {
		t.Fatalf("describe by: %v", err)
	}
	total := 0
	for _, s := range summaries {
		total += s.Count + s.MissingCount
	}
	if total != ds.Len() {
		t.Fatalf("group counts sum to %d, want %d", total, ds.Len())
	}
}
