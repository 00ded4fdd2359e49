package report

import (
	"strings"
	"testing"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
	"github.com/Amanymarey2/cost-effective-model/internal/meps"
	"github.com/Amanymarey2/cost-effective-model/internal/psa"
)

func TestGenerateBucketCostChart(t *testing.T) {
	r := fixtureReport(t)
	chart := GenerateBucketCostChart(r.Costs)

	if !strings.HasPrefix(chart, "```mermaid\nxychart-beta\n") {
		t.Fatalf("chart header wrong:\n%s", chart)
	}
	if !strings.Contains(chart, "\"4+\"") {
		t.Error("top bucket label missing")
	}
	if !strings.Contains(chart, "bar [5000, 8000, 12000, 18000, 25000]") {
		t.Errorf("bar values wrong:\n%s", chart)
	}

	if GenerateBucketCostChart(nil) != "" {
		t.Error("nil summary should yield no chart")
	}
	if GenerateBucketCostChart(&meps.CostSummary{}) != "" {
		t.Error("empty summary should yield no chart")
	}
}

func TestGenerateSurvivalChart(t *testing.T) {
	r := fixtureReport(t)
	chart := GenerateSurvivalChart(r.Standard, r.Intervention)

	if got := strings.Count(chart, "line ["); got != 2 {
		t.Errorf("line series = %d, want 2:\n%s", got, chart)
	}
	if !strings.Contains(chart, "y-axis \"Share Alive\" 0 --> 1") {
		t.Error("y-axis missing or unscaled")
	}
	// Cycle 2 alive shares: 0.98 both strategies in the fixture.
	if !strings.Contains(chart, "0.980") {
		t.Errorf("alive share not plotted:\n%s", chart)
	}

	if GenerateSurvivalChart(nil, r.Intervention) != "" {
		t.Error("nil input should yield no chart")
	}
	short := &markov.ModelResult{Cycles: r.Standard.Cycles[:1]}
	if GenerateSurvivalChart(r.Standard, short) != "" {
		t.Error("mismatched cycle counts should yield no chart")
	}
}

func TestGenerateCycleCostChart(t *testing.T) {
	r := fixtureReport(t)
	chart := GenerateCycleCostChart(r.Standard, r.Intervention)

	if !strings.Contains(chart, "bar [5000, 6310]") {
		t.Errorf("standard bars wrong:\n%s", chart)
	}
	if !strings.Contains(chart, "line [5000, 5830]") {
		t.Errorf("intervention line wrong:\n%s", chart)
	}
}

func TestGenerateAcceptabilityChart(t *testing.T) {
	r := fixtureReport(t)
	chart := GenerateAcceptabilityChart(r.PSA)

	if !strings.Contains(chart, "\"$0\"") || !strings.Contains(chart, "\"$50000\"") {
		t.Errorf("threshold labels missing:\n%s", chart)
	}
	if !strings.Contains(chart, "bar [1.000, 1.000]") {
		t.Errorf("acceptance fractions wrong:\n%s", chart)
	}

	if GenerateAcceptabilityChart(nil) != "" {
		t.Error("nil summary should yield no chart")
	}
	if GenerateAcceptabilityChart(&psa.Summary{}) != "" {
		t.Error("summary without thresholds should yield no chart")
	}
}
