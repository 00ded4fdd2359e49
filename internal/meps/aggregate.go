package meps

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InsufficientDataError reports a chronic-condition bucket with no usable
// expenditure observations; the mean for that bucket is undefined and the
// model cannot be parameterized.
type InsufficientDataError struct {
	Bucket int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("chronic-condition bucket %s has no expenditure observations to average", BucketLabel(e.Bucket))
}

// BucketStat holds the aggregate for one chronic-condition bucket.
type BucketStat struct {
	Bucket       int     `json:"bucket"`
	Label        string  `json:"label"`
	MeanCost     float64 `json:"mean_cost"`
	Observations int     `json:"observations"`
	Missing      int     `json:"missing"`
}

// CostSummary is the grouped-average output of the aggregation step: one
// mean annual cost per living bucket.
type CostSummary struct {
	Buckets [BucketCount]BucketStat `json:"buckets"`
	Records int                     `json:"records"`
}

// MeanCosts returns the per-bucket means in bucket order.
func (s *CostSummary) MeanCosts() [BucketCount]float64 {
	var costs [BucketCount]float64
	for i, b := range s.Buckets {
		costs[i] = b.MeanCost
	}
	return costs
}

// Aggregate groups records by capped chronic-condition count and computes the
// arithmetic mean expenditure per bucket, skipping missing values. Sums are
// carried in exact decimal so large dollar totals do not lose cents before
// the final division.
func Aggregate(records []Record) (*CostSummary, error) {
	var (
		sums   [BucketCount]decimal.Decimal
		counts [BucketCount]int
		missed [BucketCount]int
	)

	for _, rec := range records {
		b := rec.Bucket()
		if !rec.HasExpenditure {
			missed[b]++
			continue
		}
		sums[b] = sums[b].Add(rec.Expenditure)
		counts[b]++
	}

	summary := &CostSummary{Records: len(records)}
	for b := 0; b < BucketCount; b++ {
		if counts[b] == 0 {
			return nil, &InsufficientDataError{Bucket: b}
		}
		mean := sums[b].Div(decimal.NewFromInt(int64(counts[b])))
		summary.Buckets[b] = BucketStat{
			Bucket:       b,
			Label:        BucketLabel(b),
			MeanCost:     mean.InexactFloat64(),
			Observations: counts[b],
			Missing:      missed[b],
		}
	}

	log.Info().
		Int("records", len(records)).
		Float64("bucket0_mean", summary.Buckets[0].MeanCost).
		Float64("bucket4_mean", summary.Buckets[BucketCount-1].MeanCost).
		Msg("Aggregated expenditure by chronic-condition bucket")

	return summary, nil
}
