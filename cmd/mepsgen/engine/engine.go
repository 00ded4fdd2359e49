package engine

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Amanymarey2/cost-effective-model/internal/meps"
)

type GeneratorConfig struct {
	Scenario     string // "typical", "skewed" or "sparse"
	Distribution string // "lognormal" or "gamma"
	Count        int
	Seed         uint64
}

// Target mean annual expenditure per condition bucket (0..4+), dollars.
var bucketMeans = [meps.BucketCount]float64{5000, 8000, 12000, 18000, 25000}

// missingShare is the fraction of persons whose expenditure cell is left
// blank, mimicking survey nonresponse.
const missingShare = 0.02

// Generate draws a synthetic per-person survey extract. Condition counts
// follow the scenario's population shape; expenditures follow the requested
// right-skewed distribution around the bucket's target mean.
func Generate(cfg GeneratorConfig) ([]meps.Record, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", cfg.Count)
	}

	// 1. Population shape: how many chronic conditions each person carries.
	var weights []float64
	sigma := 0.55
	switch cfg.Scenario {
	case "typical":
		weights = []float64{0.38, 0.26, 0.17, 0.10, 0.05, 0.03, 0.01}
	case "skewed":
		// Older, sicker panel with fatter expenditure tails.
		weights = []float64{0.10, 0.15, 0.20, 0.20, 0.15, 0.12, 0.08}
		sigma = 0.75
	case "sparse":
		// Nobody above two conditions, so the top buckets stay empty and the
		// aggregation's sufficiency guard trips downstream.
		weights = []float64{0.55, 0.30, 0.15}
	default:
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}

	if cfg.Distribution != "lognormal" && cfg.Distribution != "gamma" {
		return nil, fmt.Errorf("unknown distribution %q", cfg.Distribution)
	}

	src := rand.NewPCG(cfg.Seed, 0)
	rng := rand.New(src)

	records := make([]meps.Record, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		// 2. Condition count, then expenditure conditional on its bucket.
		conditions := sampleConditions(rng, weights)
		rec := meps.Record{ChronicConditions: conditions}

		if rng.Float64() >= missingShare {
			mean := bucketMeans[meps.BucketFor(conditions)]
			amount := sampleExpenditure(cfg.Distribution, mean, sigma, src)
			rec.Expenditure = decimal.NewFromFloat(amount).Round(2)
			rec.HasExpenditure = true
		}

		records = append(records, rec)
	}

	return records, nil
}

func sampleConditions(rng *rand.Rand, weights []float64) int {
	u := rng.Float64()
	cum := 0.0
	for count, w := range weights {
		cum += w
		if u < cum {
			return count
		}
	}
	return len(weights) - 1
}

func sampleExpenditure(distribution string, mean, sigma float64, src rand.Source) float64 {
	switch distribution {
	case "gamma":
		// Shape 2 keeps the right skew while the rate pins the mean.
		return distuv.Gamma{Alpha: 2, Beta: 2 / mean, Src: src}.Rand()
	default:
		// Mean-parameterized log-normal: E[X] = exp(mu + sigma^2/2).
		mu := math.Log(mean) - sigma*sigma/2
		return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}.Rand()
	}
}

// Save writes the records as a loader-compatible CSV with a MEPS-style
// header. Missing expenditures become empty cells.
func Save(path string, records []meps.Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"person_id", "totchr17", "totexp17"}); err != nil {
		return err
	}
	for i, rec := range records {
		exp := ""
		if rec.HasExpenditure {
			exp = rec.Expenditure.StringFixed(2)
		}
		if err := w.Write([]string{strconv.Itoa(100001 + i), strconv.Itoa(rec.ChronicConditions), exp}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
