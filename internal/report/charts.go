package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
	"github.com/Amanymarey2/cost-effective-model/internal/meps"
	"github.com/Amanymarey2/cost-effective-model/internal/psa"
)

// GenerateBucketCostChart creates a Mermaid bar chart of mean annual cost
// per chronic-condition bucket.
func GenerateBucketCostChart(costs *meps.CostSummary) string {
	if costs == nil || costs.Records == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0

	for _, b := range costs.Buckets {
		labels = append(labels, fmt.Sprintf("%q", b.Label))
		values = append(values, fmt.Sprintf("%.0f", b.MeanCost))
		if b.MeanCost > maxVal {
			maxVal = b.MeanCost
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Mean Annual Cost per Condition Count\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Cost ($)\" 0 --> %d\n", int(math.Ceil(maxVal*1.1))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateSurvivalChart creates a Mermaid line chart comparing the share of
// the cohort outside the terminal state per cycle under both strategies.
func GenerateSurvivalChart(std, intv *markov.ModelResult) string {
	if std == nil || intv == nil || len(std.Cycles) == 0 || len(std.Cycles) != len(intv.Cycles) {
		return ""
	}

	terminal := markov.StateCount - 1
	var labels []string
	var stdAlive []string
	var intAlive []string

	for i, cycle := range std.Cycles {
		labels = append(labels, fmt.Sprintf("%d", cycle.Cycle))
		stdAlive = append(stdAlive, fmt.Sprintf("%.3f", 1.0-cycle.Occupancy[terminal]))
		intAlive = append(intAlive, fmt.Sprintf("%.3f", 1.0-intv.Cycles[i].Occupancy[terminal]))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Survival by Cycle (%s vs %s)\"\n", std.Strategy, intv.Strategy))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Share Alive\" 0 --> 1\n")
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(stdAlive, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(intAlive, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCycleCostChart creates a Mermaid chart of per-cycle cost for both
// strategies: bars for the first, a line overlay for the second.
func GenerateCycleCostChart(std, intv *markov.ModelResult) string {
	if std == nil || intv == nil || len(std.Cycles) == 0 || len(std.Cycles) != len(intv.Cycles) {
		return ""
	}

	var labels []string
	var stdCosts []string
	var intCosts []string
	maxVal := 0.0

	for i, cycle := range std.Cycles {
		labels = append(labels, fmt.Sprintf("%d", cycle.Cycle))
		stdCosts = append(stdCosts, fmt.Sprintf("%.0f", cycle.Cost))
		intCosts = append(intCosts, fmt.Sprintf("%.0f", intv.Cycles[i].Cost))
		maxVal = math.Max(maxVal, math.Max(cycle.Cost, intv.Cycles[i].Cost))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Per-Cycle Cost (bar: %s, line: %s)\"\n", std.Strategy, intv.Strategy))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Cost per Person ($)\" 0 --> %d\n", int(math.Ceil(maxVal*1.1))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(stdCosts, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(intCosts, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateAcceptabilityChart creates a Mermaid bar chart of the fraction of
// trials favoring the intervention per willingness-to-pay threshold.
func GenerateAcceptabilityChart(summary *psa.Summary) string {
	if summary == nil || len(summary.Acceptability) == 0 {
		return ""
	}

	var labels []string
	var values []string

	for _, pt := range summary.Acceptability {
		labels = append(labels, fmt.Sprintf("\"$%.0f\"", pt.WTP))
		values = append(values, fmt.Sprintf("%.3f", pt.Fraction))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Acceptability by Willingness-to-Pay\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Fraction of Trials\" 0 --> 1\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
