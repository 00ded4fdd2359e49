package markov

// Dominance classifies the relationship between a strategy and its baseline
// on the cost-effectiveness plane. A dominant strategy is reported as its own
// category, never as a bare negative ratio, because a negative ICER is
// ambiguous between "cheaper and better" and "costlier and worse".
type Dominance string

const (
	// StrategyDominates: strictly cheaper and strictly more effective.
	StrategyDominates Dominance = "strategy_dominates"
	// BaselineDominates: strictly costlier and strictly less effective.
	BaselineDominates Dominance = "baseline_dominates"
	// TradeOff: one side gains cost and effect; the ICER carries meaning.
	TradeOff Dominance = "trade_off"
	// Indifferent: no effect difference; the ICER is undefined.
	Indifferent Dominance = "indifferent"
)

// Comparison holds the incremental result of strategy versus baseline.
// ICERValid is false for dominance and indifference outcomes, where the
// ratio either misleads or divides by zero.
type Comparison struct {
	Strategy    string    `json:"strategy"`
	Baseline    string    `json:"baseline"`
	DeltaCost   float64   `json:"delta_cost"`
	DeltaEffect float64   `json:"delta_effect"`
	ICER        float64   `json:"icer,omitempty"`
	ICERValid   bool      `json:"icer_valid"`
	Dominance   Dominance `json:"dominance"`
}

// Compare computes the incremental cost-effectiveness of strategy a over
// baseline b: (cost_a - cost_b) / (effect_a - effect_b), with dominance
// classified before the ratio is trusted.
func Compare(a, b *ModelResult) Comparison {
	cmp := Comparison{
		Strategy:    a.Strategy,
		Baseline:    b.Strategy,
		DeltaCost:   a.TotalCost - b.TotalCost,
		DeltaEffect: a.TotalEffect - b.TotalEffect,
	}

	if cmp.DeltaEffect != 0 {
		// Kept for reference even under dominance; consumers gate on
		// ICERValid before quoting it as a willingness-to-pay ratio.
		cmp.ICER = cmp.DeltaCost / cmp.DeltaEffect
	}

	switch {
	case cmp.DeltaCost < 0 && cmp.DeltaEffect > 0:
		cmp.Dominance = StrategyDominates
	case cmp.DeltaCost > 0 && cmp.DeltaEffect < 0:
		cmp.Dominance = BaselineDominates
	case cmp.DeltaEffect == 0:
		cmp.Dominance = Indifferent
	default:
		cmp.Dominance = TradeOff
		cmp.ICERValid = true
	}

	return cmp
}
