package meps

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BucketCount is the number of living chronic-condition buckets (0,1,2,3,4+).
const BucketCount = 5

// Record is one person-year from the expenditure survey extract.
type Record struct {
	// ChronicConditions is the raw condition count, uncapped.
	ChronicConditions int

	// Expenditure is the annual total expenditure in dollars. Only valid
	// when HasExpenditure is true; survey extracts leave the cell empty or
	// mark it NA when the value was not ascertained.
	Expenditure    decimal.Decimal
	HasExpenditure bool
}

// Bucket collapses the condition count into the model's five living buckets:
// 0, 1, 2, 3 and "4 or more".
func (r Record) Bucket() int {
	return BucketFor(r.ChronicConditions)
}

// BucketFor caps a chronic-condition count at the top bucket.
func BucketFor(conditions int) int {
	if conditions >= BucketCount-1 {
		return BucketCount - 1
	}
	return conditions
}

// BucketLabel returns the display label for a bucket index.
func BucketLabel(bucket int) string {
	if bucket == BucketCount-1 {
		return fmt.Sprintf("%d+", BucketCount-1)
	}
	return fmt.Sprintf("%d", bucket)
}
