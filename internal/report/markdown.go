package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
)

// RenderMarkdown produces the full Markdown report: input tables, model
// parameters, deterministic traces, the incremental analysis, and the
// sensitivity summary, with Mermaid charts between the sections.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Cost-Effectiveness Report\n\n")
	sb.WriteString(fmt.Sprintf("- Run: `%s`\n", r.RunID))
	sb.WriteString(fmt.Sprintf("- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("- Data: `%s` (%d records)\n", r.DataPath, r.Costs.Records))
	if r.DataDigest != "" {
		sb.WriteString(fmt.Sprintf("- Data SHA-256: `%s`\n", r.DataDigest))
	}
	sb.WriteString(fmt.Sprintf("- Seed: %d\n\n", r.Seed))

	writeCostInputs(&sb, r)
	writeParameters(&sb, r)
	writeDeterministic(&sb, r)
	writeIncremental(&sb, r)
	writeSensitivity(&sb, r)

	return sb.String()
}

func writeCostInputs(sb *strings.Builder, r *Report) {
	sb.WriteString("## Cost Inputs\n\n")
	sb.WriteString("| Conditions | Mean Annual Cost | Observations | Missing |\n")
	sb.WriteString("|---|---:|---:|---:|\n")
	for _, b := range r.Costs.Buckets {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d |\n", b.Label, money(b.MeanCost), b.Observations, b.Missing))
	}
	sb.WriteString("\n")

	if chart := GenerateBucketCostChart(r.Costs); chart != "" {
		sb.WriteString(chart)
		sb.WriteString("\n\n")
	}
}

func writeParameters(sb *strings.Builder, r *Report) {
	sc := r.Scenario

	sb.WriteString("## Model Parameters\n\n")
	sb.WriteString("| State | Annual Cost | Utility |\n")
	sb.WriteString("|---|---:|---:|\n")
	costs := stateCosts(r)
	for i, name := range sc.StateNames {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.2f |\n", name, money(costs[i]), sc.Utilities[i]))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("- Cycles: %d (annual)\n", sc.Cycles))
	sb.WriteString(fmt.Sprintf("- Discount rate: %s per cycle\n", pct(sc.DiscountRate)))
	sb.WriteString(fmt.Sprintf("- Cohort: %d persons starting in %q\n", sc.CohortSize, sc.StateNames[sc.StartState]))
	sb.WriteString(fmt.Sprintf("- %s: progression probabilities reduced by %s\n\n", sc.InterventionName, pct(sc.ProgressionReduction)))
}

func writeDeterministic(sb *strings.Builder, r *Report) {
	sb.WriteString("## Deterministic Results\n\n")
	sb.WriteString("| Strategy | Total Cost per Person | Total QALYs per Person |\n")
	sb.WriteString("|---|---:|---:|\n")
	for _, res := range []*markov.ModelResult{r.Standard, r.Intervention} {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.4f |\n", res.Strategy, money(res.TotalCost), res.TotalEffect))
	}
	sb.WriteString("\n")

	if chart := GenerateSurvivalChart(r.Standard, r.Intervention); chart != "" {
		sb.WriteString(chart)
		sb.WriteString("\n\n")
	}
	if chart := GenerateCycleCostChart(r.Standard, r.Intervention); chart != "" {
		sb.WriteString(chart)
		sb.WriteString("\n\n")
	}

	writeTrace(sb, r, r.Standard)
	writeTrace(sb, r, r.Intervention)
}

func writeTrace(sb *strings.Builder, r *Report, res *markov.ModelResult) {
	sc := r.Scenario

	sb.WriteString(fmt.Sprintf("### Cohort Trace: %s\n\n", res.Strategy))
	sb.WriteString("| Cycle |")
	for _, name := range sc.StateNames {
		sb.WriteString(fmt.Sprintf(" %s |", name))
	}
	sb.WriteString(" Cost | QALY |\n")
	sb.WriteString("|---:|")
	for range sc.StateNames {
		sb.WriteString("---:|")
	}
	sb.WriteString("---:|---:|\n")

	size := float64(sc.CohortSize)
	for _, cycle := range res.Cycles {
		sb.WriteString(fmt.Sprintf("| %d |", cycle.Cycle))
		for _, share := range cycle.Occupancy {
			sb.WriteString(fmt.Sprintf(" %.1f |", share*size))
		}
		sb.WriteString(fmt.Sprintf(" %s | %.4f |\n", money(cycle.Cost), cycle.Effect))
	}
	sb.WriteString("\n")
}

func writeIncremental(sb *strings.Builder, r *Report) {
	cmp := r.Comparison

	sb.WriteString("## Incremental Analysis\n\n")
	sb.WriteString("| Comparison | Δ Cost | Δ QALYs |\n")
	sb.WriteString("|---|---:|---:|\n")
	sb.WriteString(fmt.Sprintf("| %s vs %s | %s | %.4f |\n\n", cmp.Strategy, cmp.Baseline, money(cmp.DeltaCost), cmp.DeltaEffect))
	sb.WriteString(comparisonNarrative(cmp))
	sb.WriteString("\n\n")
}

func writeSensitivity(sb *strings.Builder, r *Report) {
	s := r.PSA

	sb.WriteString("## Probabilistic Sensitivity Analysis\n\n")
	sb.WriteString(fmt.Sprintf("- Trials: %d\n", s.Trials))
	sb.WriteString(fmt.Sprintf("- Clamped utility draws: %d\n", s.ClampedDraws))
	sb.WriteString(fmt.Sprintf("- %s strictly dominant in %s of trials\n\n", r.Scenario.InterventionName, pct(s.DominantFraction)))

	sb.WriteString("| Strategy | Mean Cost | Cost 95% CI | Mean QALYs | QALY 95% CI |\n")
	sb.WriteString("|---|---:|---|---:|---|\n")
	sb.WriteString(fmt.Sprintf("| %s | %s | [%s, %s] | %.4f | [%.4f, %.4f] |\n",
		r.Scenario.StandardName,
		money(s.Standard.Cost.Mean), money(s.Standard.Cost.P025), money(s.Standard.Cost.P975),
		s.Standard.Effect.Mean, s.Standard.Effect.P025, s.Standard.Effect.P975))
	sb.WriteString(fmt.Sprintf("| %s | %s | [%s, %s] | %.4f | [%.4f, %.4f] |\n\n",
		r.Scenario.InterventionName,
		money(s.Intervention.Cost.Mean), money(s.Intervention.Cost.P025), money(s.Intervention.Cost.P975),
		s.Intervention.Effect.Mean, s.Intervention.Effect.P025, s.Intervention.Effect.P975))

	sb.WriteString("| Willingness-to-Pay | Acceptance |\n")
	sb.WriteString("|---:|---:|\n")
	for _, pt := range s.Acceptability {
		sb.WriteString(fmt.Sprintf("| %s / QALY | %s |\n", money(pt.WTP), pct(pt.Fraction)))
	}
	sb.WriteString("\n")

	if chart := GenerateAcceptabilityChart(s); chart != "" {
		sb.WriteString(chart)
		sb.WriteString("\n")
	}
}

// stateCosts is the per-state cost vector of the run: the bucket means plus
// a structural zero for the terminal state.
func stateCosts(r *Report) [markov.StateCount]float64 {
	var costs [markov.StateCount]float64
	means := r.Costs.MeanCosts()
	copy(costs[:], means[:])
	return costs
}

func comparisonNarrative(c markov.Comparison) string {
	switch c.Dominance {
	case markov.StrategyDominates:
		return fmt.Sprintf("**%s dominates %s**: lower cost and higher effectiveness. No ratio is quoted for a dominant strategy.", c.Strategy, c.Baseline)
	case markov.BaselineDominates:
		return fmt.Sprintf("**%s is dominated by %s**: higher cost and lower effectiveness.", c.Strategy, c.Baseline)
	case markov.Indifferent:
		return "The strategies produce the same effectiveness; the ICER is undefined."
	default:
		return fmt.Sprintf("ICER: %s per QALY gained.", money(c.ICER))
	}
}

func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
