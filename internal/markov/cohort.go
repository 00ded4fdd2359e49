package markov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Cohort is a probability distribution over the model states: entry i is the
// fraction of the cohort occupying state i. Entries are non-negative and sum
// to 1.0 within RowSumTolerance.
type Cohort struct {
	v *mat.VecDense
}

// NewCohort validates and wraps a starting distribution.
func NewCohort(shares []float64) (*Cohort, error) {
	if len(shares) != StateCount {
		return nil, fmt.Errorf("cohort has %d entries, want %d", len(shares), StateCount)
	}
	for i, s := range shares {
		if s < 0 || math.IsNaN(s) {
			return nil, fmt.Errorf("cohort entry %d is %v, want >= 0", i, s)
		}
	}
	if sum := floats.Sum(shares); math.Abs(sum-1.0) > RowSumTolerance {
		return nil, fmt.Errorf("cohort shares sum to %.12f, want 1.0 within %g", sum, RowSumTolerance)
	}
	data := make([]float64, StateCount)
	copy(data, shares)
	return &Cohort{v: mat.NewVecDense(StateCount, data)}, nil
}

// StartingCohort places the entire cohort in one state.
func StartingCohort(state int) (*Cohort, error) {
	if state < 0 || state >= StateCount {
		return nil, fmt.Errorf("start state %d outside [0,%d)", state, StateCount)
	}
	shares := make([]float64, StateCount)
	shares[state] = 1.0
	return NewCohort(shares)
}

// Shares returns a copy of the distribution.
func (c *Cohort) Shares() []float64 {
	out := make([]float64, StateCount)
	copy(out, c.v.RawVector().Data)
	return out
}

// Share returns the fraction of the cohort in state i.
func (c *Cohort) Share(i int) float64 {
	return c.v.AtVec(i)
}

// CycleResult captures one model cycle under the "end" accounting
// convention: cost and effect are weighted by the distribution occupied at
// the start of the cycle interval, before the transition is applied.
type CycleResult struct {
	Cycle     int       `json:"cycle"`
	Occupancy []float64 `json:"occupancy"`
	Cost      float64   `json:"cost"`
	Effect    float64   `json:"effect"`
}

// ModelResult is the full deterministic run for one strategy.
type ModelResult struct {
	Strategy    string        `json:"strategy"`
	Cycles      []CycleResult `json:"cycles"`
	TotalCost   float64       `json:"total_cost"`
	TotalEffect float64       `json:"total_effect"`
	Final       []float64     `json:"final_occupancy"`
}

// Simulator advances a cohort through a transition matrix for a fixed number
// of annual cycles, accumulating per-cycle cost and QALY contributions.
type Simulator struct {
	states   *StateSet
	discount float64
}

// NewSimulator creates a simulator over the given states. The discount rate
// applies factor (1+r)^-(t-1) to cycle t; rate 0 reproduces the undiscounted
// published numbers.
func NewSimulator(states *StateSet, discount float64) (*Simulator, error) {
	if states == nil {
		return nil, fmt.Errorf("state set is nil")
	}
	if discount < 0 {
		return nil, fmt.Errorf("discount rate %v is negative", discount)
	}
	return &Simulator{states: states, discount: discount}, nil
}

// Run executes cycles model cycles from the starting distribution. Per cycle
// t = 1..N it records cost_t = dot(cohort, costs) and effect_t likewise,
// then advances cohort' = cohort * M. Zero cycles yields zero totals.
func (s *Simulator) Run(strategy string, matrix *TransitionMatrix, start *Cohort, cycles int) (*ModelResult, error) {
	if matrix == nil || start == nil {
		return nil, fmt.Errorf("matrix and starting cohort are required")
	}
	if cycles < 0 {
		return nil, fmt.Errorf("cycle count %d is negative", cycles)
	}

	result := &ModelResult{
		Strategy: strategy,
		Cycles:   make([]CycleResult, 0, cycles),
	}

	cur := mat.NewVecDense(StateCount, start.Shares())
	for t := 1; t <= cycles; t++ {
		factor := 1.0
		if s.discount > 0 {
			factor = math.Pow(1.0+s.discount, -float64(t-1))
		}

		cost := mat.Dot(cur, s.states.costs) * factor
		effect := mat.Dot(cur, s.states.utilities) * factor

		occupancy := make([]float64, StateCount)
		copy(occupancy, cur.RawVector().Data)
		result.Cycles = append(result.Cycles, CycleResult{
			Cycle:     t,
			Occupancy: occupancy,
			Cost:      cost,
			Effect:    effect,
		})
		result.TotalCost += cost
		result.TotalEffect += effect

		// Row vector times matrix: next_j = sum_i cur_i * M_ij.
		next := mat.NewVecDense(StateCount, nil)
		next.MulVec(matrix.m.T(), cur)

		if sum := floats.Sum(next.RawVector().Data); math.Abs(sum-1.0) > RowSumTolerance {
			return nil, fmt.Errorf("strategy %s: cohort mass drifted to %.12f at cycle %d", strategy, sum, t)
		}
		cur = next
	}

	result.Final = make([]float64, StateCount)
	copy(result.Final, cur.RawVector().Data)
	return result, nil
}
