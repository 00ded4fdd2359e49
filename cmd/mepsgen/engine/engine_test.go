package engine

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/Amanymarey2/cost-effective-model/internal/meps"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Scenario: "typical", Distribution: "lognormal", Count: 300, Seed: 9}

	first, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ChronicConditions != b.ChronicConditions || a.HasExpenditure != b.HasExpenditure {
			t.Fatalf("record %d differs: %+v vs %+v", i, a, b)
		}
		if a.HasExpenditure && !a.Expenditure.Equal(b.Expenditure) {
			t.Fatalf("record %d expenditure differs: %s vs %s", i, a.Expenditure, b.Expenditure)
		}
	}
}

func TestGenerate_SparseLeavesTopBucketsEmpty(t *testing.T) {
	records, err := Generate(GeneratorConfig{Scenario: "sparse", Distribution: "lognormal", Count: 500, Seed: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var buckets [meps.BucketCount]int
	for _, rec := range records {
		buckets[rec.Bucket()]++
	}
	if buckets[3] != 0 || buckets[4] != 0 {
		t.Errorf("sparse population filled top buckets: %v", buckets)
	}

	if _, err := meps.Aggregate(records); err == nil {
		t.Error("aggregation of sparse population succeeded, want insufficient-data error")
	} else {
		var insufficient *meps.InsufficientDataError
		if !errors.As(err, &insufficient) {
			t.Errorf("error = %v, want InsufficientDataError", err)
		}
	}
}

func TestGenerate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  GeneratorConfig
	}{
		{"unknown scenario", GeneratorConfig{Scenario: "zombie", Distribution: "lognormal", Count: 10}},
		{"unknown distribution", GeneratorConfig{Scenario: "typical", Distribution: "cauchy", Count: 10}},
		{"zero count", GeneratorConfig{Scenario: "typical", Distribution: "lognormal", Count: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Generate(tc.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	records, err := Generate(GeneratorConfig{Scenario: "typical", Distribution: "gamma", Count: 1500, Seed: 11})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sample.csv")
	if err := Save(path, records); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := meps.LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("loaded %d records, want %d", len(loaded), len(records))
	}
	for i := range records {
		if loaded[i].ChronicConditions != records[i].ChronicConditions ||
			loaded[i].HasExpenditure != records[i].HasExpenditure {
			t.Fatalf("record %d changed in transit: %+v vs %+v", i, records[i], loaded[i])
		}
	}

	// Sample means land near the bucket targets at this population size.
	summary, err := meps.Aggregate(loaded)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	for b, stat := range summary.Buckets {
		want := bucketMeans[b]
		if math.Abs(stat.MeanCost-want)/want > 0.25 {
			t.Errorf("bucket %s mean = %.0f, want within 25%% of %.0f", stat.Label, stat.MeanCost, want)
		}
	}
}
