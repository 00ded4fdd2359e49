package psa

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
)

// Metric summarizes one outcome dimension across trials.
type Metric struct {
	Mean float64 `json:"mean"`
	SD   float64 `json:"sd"`
	P025 float64 `json:"p2_5"`
	P50  float64 `json:"p50"`
	P975 float64 `json:"p97_5"`
}

// StrategyStats holds the cost and effect metrics of one strategy.
type StrategyStats struct {
	Strategy string `json:"strategy"`
	Cost     Metric `json:"cost"`
	Effect   Metric `json:"effect"`
}

// AcceptabilityPoint is the fraction of trials in which the intervention
// carries the higher net monetary benefit at a willingness-to-pay threshold.
type AcceptabilityPoint struct {
	WTP      float64 `json:"wtp"`
	Fraction float64 `json:"fraction"`
}

// Summary aggregates the raw draws for reporting. It supplements the draws
// rather than replacing them: the per-trial pairs stay available for export
// and plotting.
type Summary struct {
	Trials           int                  `json:"trials"`
	ClampedDraws     int                  `json:"clamped_draws"`
	Standard         StrategyStats        `json:"standard"`
	Intervention     StrategyStats        `json:"intervention"`
	Comparison       markov.Comparison    `json:"comparison"`
	DominantFraction float64              `json:"dominant_fraction"`
	Acceptability    []AcceptabilityPoint `json:"acceptability"`
}

func describe(values []float64) Metric {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mean, sd := stat.MeanStdDev(sorted, nil)
	return Metric{
		Mean: mean,
		SD:   sd,
		P025: stat.Quantile(0.025, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P975: stat.Quantile(0.975, stat.Empirical, sorted, nil),
	}
}

// Summarize reduces the draws to distribution metrics, a comparison of the
// per-trial means, the fraction of trials where the intervention dominates
// outright, and an acceptability fraction per willingness-to-pay threshold.
func Summarize(draws []Draw, wtp []float64) (*Summary, error) {
	if len(draws) < 2 {
		return nil, fmt.Errorf("summary needs at least 2 trials, got %d", len(draws))
	}

	n := len(draws)
	stdCost := make([]float64, n)
	stdEffect := make([]float64, n)
	intCost := make([]float64, n)
	intEffect := make([]float64, n)
	clamped := 0
	dominant := 0
	for i, d := range draws {
		stdCost[i] = d.Standard.TotalCost
		stdEffect[i] = d.Standard.TotalEffect
		intCost[i] = d.Intervention.TotalCost
		intEffect[i] = d.Intervention.TotalEffect
		clamped += d.Params.Clamped
		if d.Intervention.TotalCost < d.Standard.TotalCost && d.Intervention.TotalEffect > d.Standard.TotalEffect {
			dominant++
		}
	}

	s := &Summary{
		Trials:       n,
		ClampedDraws: clamped,
		Standard: StrategyStats{
			Strategy: "standard",
			Cost:     describe(stdCost),
			Effect:   describe(stdEffect),
		},
		Intervention: StrategyStats{
			Strategy: "intervention",
			Cost:     describe(intCost),
			Effect:   describe(intEffect),
		},
		DominantFraction: float64(dominant) / float64(n),
	}
	s.Comparison = markov.Compare(
		&markov.ModelResult{Strategy: "intervention", TotalCost: s.Intervention.Cost.Mean, TotalEffect: s.Intervention.Effect.Mean},
		&markov.ModelResult{Strategy: "standard", TotalCost: s.Standard.Cost.Mean, TotalEffect: s.Standard.Effect.Mean},
	)

	for _, threshold := range wtp {
		favorable := 0
		for _, d := range draws {
			deltaCost := d.Intervention.TotalCost - d.Standard.TotalCost
			deltaEffect := d.Intervention.TotalEffect - d.Standard.TotalEffect
			if threshold*deltaEffect-deltaCost > 0 {
				favorable++
			}
		}
		s.Acceptability = append(s.Acceptability, AcceptabilityPoint{
			WTP:      threshold,
			Fraction: float64(favorable) / float64(n),
		})
	}
	return s, nil
}
