package report

import (
	"testing"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
	"github.com/Amanymarey2/cost-effective-model/internal/meps"
	"github.com/Amanymarey2/cost-effective-model/internal/psa"
	"github.com/Amanymarey2/cost-effective-model/internal/scenario"
)

func fixtureReport(t *testing.T) *Report {
	t.Helper()

	sc := scenario.Default()
	sc.Cycles = 2

	costs := &meps.CostSummary{Records: 12}
	means := [meps.BucketCount]float64{5000, 8000, 12000, 18000, 25000}
	for i := range costs.Buckets {
		costs.Buckets[i] = meps.BucketStat{
			Bucket:       i,
			Label:        meps.BucketLabel(i),
			MeanCost:     means[i],
			Observations: 2,
			Missing:      0,
		}
	}

	std := &markov.ModelResult{
		Strategy: sc.StandardName,
		Cycles: []markov.CycleResult{
			{Cycle: 1, Occupancy: []float64{1, 0, 0, 0, 0, 0}, Cost: 5000, Effect: 0.90},
			{Cycle: 2, Occupancy: []float64{0.70, 0.20, 0.05, 0.02, 0.01, 0.02}, Cost: 6310, Effect: 0.8415},
		},
		TotalCost:   11310,
		TotalEffect: 1.7415,
		Final:       []float64{0.70, 0.20, 0.05, 0.02, 0.01, 0.02},
	}
	intv := &markov.ModelResult{
		Strategy: sc.InterventionName,
		Cycles: []markov.CycleResult{
			{Cycle: 1, Occupancy: []float64{1, 0, 0, 0, 0, 0}, Cost: 5000, Effect: 0.90},
			{Cycle: 2, Occupancy: []float64{0.84, 0.10, 0.025, 0.01, 0.005, 0.02}, Cost: 5830, Effect: 0.8595},
		},
		TotalCost:   10830,
		TotalEffect: 1.7595,
		Final:       []float64{0.84, 0.10, 0.025, 0.01, 0.005, 0.02},
	}

	draws := []psa.Draw{
		{Trial: 0, Standard: psa.Outcome{TotalCost: 11500, TotalEffect: 1.73}, Intervention: psa.Outcome{TotalCost: 10600, TotalEffect: 1.77}},
		{Trial: 1, Standard: psa.Outcome{TotalCost: 11100, TotalEffect: 1.75}, Intervention: psa.Outcome{TotalCost: 10900, TotalEffect: 1.76}},
		{Trial: 2, Standard: psa.Outcome{TotalCost: 11400, TotalEffect: 1.74}, Intervention: psa.Outcome{TotalCost: 10700, TotalEffect: 1.75}},
	}
	summary, err := psa.Summarize(draws, sc.WTP)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	return Build(Inputs{
		DataPath:     "testdata/meps.csv",
		DataDigest:   "9f2fb2b5a1c4502f8d9f04365bcdd5cbf1b796b6bdc6f0f2f7c0caf4b4cbe7d2",
		Seed:         42,
		Scenario:     sc,
		Costs:        costs,
		Standard:     std,
		Intervention: intv,
		Comparison:   markov.Compare(intv, std),
		PSA:          summary,
		Draws:        draws,
	})
}

func TestBuild_AssignsIdentity(t *testing.T) {
	r := fixtureReport(t)
	if r.RunID == "" {
		t.Error("run id is empty")
	}
	if r.GeneratedAt.IsZero() {
		t.Error("generated timestamp is zero")
	}
	if r.Seed != 42 {
		t.Errorf("seed = %d", r.Seed)
	}
	if len(r.DataDigest) != 64 {
		t.Errorf("data digest = %q", r.DataDigest)
	}

	other := fixtureReport(t)
	if other.RunID == r.RunID {
		t.Error("two builds shared a run id")
	}
}
