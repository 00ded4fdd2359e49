package psa

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
)

// InvalidDistributionParameterError reports a sampling distribution that
// cannot be built from the supplied point estimate, such as a log-normal
// around a non-positive mean.
type InvalidDistributionParameterError struct {
	Parameter string
	Value     float64
	Reason    string
}

func (e *InvalidDistributionParameterError) Error() string {
	return fmt.Sprintf("invalid distribution parameter %s=%g: %s", e.Parameter, e.Value, e.Reason)
}

// OutOfRangeSampleError reports a recorded utility draw outside [0,1]. With
// clamping applied at draw time it guards the recorded-output invariant; it
// is not raised per sample during normal operation.
type OutOfRangeSampleError struct {
	Parameter string
	Value     float64
}

func (e *OutOfRangeSampleError) Error() string {
	return fmt.Sprintf("sampled %s=%g outside [0,1]", e.Parameter, e.Value)
}

// ParameterModel holds the per-state sampling distributions for a
// sensitivity run. Costs draw from a log-normal whose location is the log of
// the point-estimate mean with a fixed log-scale sigma; utilities draw from
// a normal around the point estimate with a standard deviation proportional
// to it, clamped to [0,1]. The terminal state has nothing to sample and its
// zeros carry through every draw.
type ParameterModel struct {
	states    *markov.StateSet
	costSigma float64
	utilityCV float64
}

// NewParameterModel validates the point estimates against the distribution
// families before any trial runs. Utility ranges are already enforced by
// the state set; cost positivity is checked here because a zero cost is a
// legal state attribute but not a legal log-normal mean.
func NewParameterModel(states *markov.StateSet, costSigma, utilityCV float64) (*ParameterModel, error) {
	if states == nil {
		return nil, fmt.Errorf("state set is nil")
	}
	if costSigma <= 0 || math.IsNaN(costSigma) {
		return nil, &InvalidDistributionParameterError{
			Parameter: "cost sigma",
			Value:     costSigma,
			Reason:    "log-scale standard deviation must be positive",
		}
	}
	if utilityCV <= 0 || math.IsNaN(utilityCV) {
		return nil, &InvalidDistributionParameterError{
			Parameter: "utility cv",
			Value:     utilityCV,
			Reason:    "coefficient of variation must be positive",
		}
	}
	for i := 0; i < markov.StateCount-1; i++ {
		st := states.State(i)
		if st.Cost <= 0 {
			return nil, &InvalidDistributionParameterError{
				Parameter: fmt.Sprintf("cost[%s]", st.Name),
				Value:     st.Cost,
				Reason:    "log-normal location needs a positive mean",
			}
		}
	}
	return &ParameterModel{states: states, costSigma: costSigma, utilityCV: utilityCV}, nil
}

// TrialParams is one joint draw over all sampled parameters. Clamped counts
// utility draws that were pulled back to the [0,1] boundary.
type TrialParams struct {
	Costs     [markov.StateCount]float64 `json:"costs"`
	Utilities [markov.StateCount]float64 `json:"utilities"`
	Clamped   int                        `json:"clamped,omitempty"`
}

// Sample draws one parameter set from the given source. Draw order is fixed
// (cost then utility, states in model order) so a trial's values depend only
// on its source, never on scheduling.
func (m *ParameterModel) Sample(src rand.Source) TrialParams {
	var p TrialParams
	for i := 0; i < markov.StateCount-1; i++ {
		st := m.states.State(i)

		cost := distuv.LogNormal{Mu: math.Log(st.Cost), Sigma: m.costSigma, Src: src}.Rand()
		util := distuv.Normal{Mu: st.Utility, Sigma: m.utilityCV * st.Utility, Src: src}.Rand()
		if util < 0 {
			util = 0
			p.Clamped++
		} else if util > 1 {
			util = 1
			p.Clamped++
		}

		p.Costs[i] = cost
		p.Utilities[i] = util
	}
	return p
}

// check enforces the recorded-output invariant on a finished draw.
func (p *TrialParams) check() error {
	for i, u := range p.Utilities {
		if u < 0 || u > 1 || math.IsNaN(u) {
			return &OutOfRangeSampleError{Parameter: fmt.Sprintf("utility[%d]", i), Value: u}
		}
	}
	return nil
}
