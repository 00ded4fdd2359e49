// Package markov implements the cohort state-transition model: immutable
// state and matrix value objects plus the cycle-by-cycle simulator that
// advances a cohort distribution and accumulates cost and QALY totals.
package markov

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StateCount is fixed by the model: five living chronic-condition states
// (0, 1, 2, 3, 4+ conditions) plus one absorbing terminal state, in that
// order. The simulator itself never inspects state names; absorption follows
// from the matrix structure alone.
const StateCount = 6

// State couples a health state with its annual cost and utility weight.
type State struct {
	Name    string  `json:"name"`
	Cost    float64 `json:"cost"`
	Utility float64 `json:"utility"`
}

// StateSet is the immutable collection of model states. Cost and utility
// vectors are materialized once at construction and shared by every run.
type StateSet struct {
	states    [StateCount]State
	costs     *mat.VecDense
	utilities *mat.VecDense
}

// NewStateSet validates and freezes a set of states. Costs must be
// non-negative and utilities must lie in [0,1]; a zero-utility state with
// nonzero cost is legal, as is the reverse.
func NewStateSet(states [StateCount]State) (*StateSet, error) {
	costs := make([]float64, StateCount)
	utilities := make([]float64, StateCount)
	for i, s := range states {
		if s.Cost < 0 {
			return nil, fmt.Errorf("state %q: cost %v is negative", s.Name, s.Cost)
		}
		if s.Utility < 0 || s.Utility > 1 {
			return nil, fmt.Errorf("state %q: utility %v outside [0,1]", s.Name, s.Utility)
		}
		costs[i] = s.Cost
		utilities[i] = s.Utility
	}
	return &StateSet{
		states:    states,
		costs:     mat.NewVecDense(StateCount, costs),
		utilities: mat.NewVecDense(StateCount, utilities),
	}, nil
}

// WithParameters returns a new StateSet carrying the same names but the
// given cost/utility values. Used by the sensitivity analysis to rebuild
// states from a parameter draw without touching the originals.
func (s *StateSet) WithParameters(costs, utilities [StateCount]float64) (*StateSet, error) {
	states := s.states
	for i := range states {
		states[i].Cost = costs[i]
		states[i].Utility = utilities[i]
	}
	return NewStateSet(states)
}

// State returns the state at index i.
func (s *StateSet) State(i int) State {
	return s.states[i]
}

// Names returns the state names in model order.
func (s *StateSet) Names() []string {
	names := make([]string, StateCount)
	for i, st := range s.states {
		names[i] = st.Name
	}
	return names
}

// Costs returns the state cost vector. Callers must not mutate it.
func (s *StateSet) Costs() *mat.VecDense { return s.costs }

// Utilities returns the state utility vector. Callers must not mutate it.
func (s *StateSet) Utilities() *mat.VecDense { return s.utilities }
