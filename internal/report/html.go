package report

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	_ "embed"

	"github.com/evanw/esbuild/pkg/api"
)

//go:embed assets/scatter.js
var scatterJS string

// chartData is the JSON payload inlined into the HTML page. Scatter points
// are [effect, cost] pairs; delta points are [delta effect, delta cost].
type chartData struct {
	StandardName     string       `json:"standard_name"`
	InterventionName string       `json:"intervention_name"`
	StandardPoint    [2]float64   `json:"standard_point"`
	IntervenePoint   [2]float64   `json:"intervene_point"`
	DeltaPoint       [2]float64   `json:"delta_point"`
	Standard         [][2]float64 `json:"standard"`
	Intervention     [][2]float64 `json:"intervention"`
	Deltas           [][2]float64 `json:"deltas"`
	WTP              []float64    `json:"wtp"`
}

// RenderHTML produces a self-contained page: headline tables plus two
// canvas scatters (cost-effectiveness plane and per-strategy outcomes)
// driven by an embedded script minified at render time.
func RenderHTML(r *Report) (string, error) {
	payload, err := json.Marshal(buildChartData(r))
	if err != nil {
		return "", fmt.Errorf("encode chart data: %w", err)
	}
	script, err := minifyJS(scatterJS)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>Cost-Effectiveness Report</title>\n<style>\n")
	sb.WriteString("body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#1b1b1b}\n")
	sb.WriteString("table{border-collapse:collapse;margin:1rem 0}\n")
	sb.WriteString("th,td{border:1px solid #c9c9c9;padding:0.35rem 0.7rem;text-align:right}\n")
	sb.WriteString("th:first-child,td:first-child{text-align:left}\n")
	sb.WriteString("canvas{border:1px solid #d5d5d5;max-width:100%}\n")
	sb.WriteString(".meta{color:#555}\n")
	sb.WriteString("</style>\n</head>\n<body>\n")

	sb.WriteString("<h1>Cost-Effectiveness Report</h1>\n")
	sb.WriteString(fmt.Sprintf("<p class=\"meta\">Run %s &middot; %s &middot; %d records &middot; %d trials &middot; seed %d</p>\n",
		html.EscapeString(r.RunID), r.GeneratedAt.Format(time.RFC3339), r.Costs.Records, r.PSA.Trials, r.Seed))
	if r.DataDigest != "" {
		sb.WriteString(fmt.Sprintf("<p class=\"meta\">Data %s &middot; sha256 %s</p>\n",
			html.EscapeString(r.DataPath), html.EscapeString(r.DataDigest)))
	}

	sb.WriteString("<h2>Deterministic Results</h2>\n")
	writeHTMLTable(&sb,
		[]string{"Strategy", "Total Cost per Person", "Total QALYs per Person"},
		[][]string{
			{r.Standard.Strategy, money(r.Standard.TotalCost), fmt.Sprintf("%.4f", r.Standard.TotalEffect)},
			{r.Intervention.Strategy, money(r.Intervention.TotalCost), fmt.Sprintf("%.4f", r.Intervention.TotalEffect)},
		})

	sb.WriteString("<h2>Incremental Analysis</h2>\n")
	writeHTMLTable(&sb,
		[]string{"Comparison", "Δ Cost", "Δ QALYs"},
		[][]string{{
			fmt.Sprintf("%s vs %s", r.Comparison.Strategy, r.Comparison.Baseline),
			money(r.Comparison.DeltaCost),
			fmt.Sprintf("%.4f", r.Comparison.DeltaEffect),
		}})
	sb.WriteString("<p>")
	sb.WriteString(html.EscapeString(strings.ReplaceAll(comparisonNarrative(r.Comparison), "**", "")))
	sb.WriteString("</p>\n")

	sb.WriteString("<h2>Cost-Effectiveness Plane</h2>\n")
	sb.WriteString("<canvas id=\"ce-plane\" width=\"880\" height=\"520\"></canvas>\n")

	sb.WriteString("<h2>Outcome Scatter</h2>\n")
	sb.WriteString("<canvas id=\"outcomes\" width=\"880\" height=\"520\"></canvas>\n")

	sb.WriteString("<h2>Acceptability</h2>\n")
	rows := make([][]string, 0, len(r.PSA.Acceptability))
	for _, pt := range r.PSA.Acceptability {
		rows = append(rows, []string{money(pt.WTP) + " / QALY", pct(pt.Fraction)})
	}
	writeHTMLTable(&sb, []string{"Willingness-to-Pay", "Acceptance"}, rows)

	sb.WriteString("<script id=\"chart-data\" type=\"application/json\">")
	sb.Write(payload)
	sb.WriteString("</script>\n<script>")
	sb.WriteString(script)
	sb.WriteString("</script>\n</body>\n</html>\n")
	return sb.String(), nil
}

func buildChartData(r *Report) chartData {
	data := chartData{
		StandardName:     r.Standard.Strategy,
		InterventionName: r.Intervention.Strategy,
		StandardPoint:    [2]float64{r.Standard.TotalEffect, r.Standard.TotalCost},
		IntervenePoint:   [2]float64{r.Intervention.TotalEffect, r.Intervention.TotalCost},
		DeltaPoint:       [2]float64{r.Comparison.DeltaEffect, r.Comparison.DeltaCost},
		Standard:         make([][2]float64, 0, len(r.Draws)),
		Intervention:     make([][2]float64, 0, len(r.Draws)),
		Deltas:           make([][2]float64, 0, len(r.Draws)),
		WTP:              r.Scenario.WTP,
	}
	for _, d := range r.Draws {
		data.Standard = append(data.Standard, [2]float64{d.Standard.TotalEffect, d.Standard.TotalCost})
		data.Intervention = append(data.Intervention, [2]float64{d.Intervention.TotalEffect, d.Intervention.TotalCost})
		data.Deltas = append(data.Deltas, [2]float64{
			d.Intervention.TotalEffect - d.Standard.TotalEffect,
			d.Intervention.TotalCost - d.Standard.TotalCost,
		})
	}
	return data
}

func minifyJS(src string) (string, error) {
	result := api.Transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("minify chart script: %s", result.Errors[0].Text)
	}
	return string(result.Code), nil
}

func writeHTMLTable(sb *strings.Builder, headers []string, rows [][]string) {
	sb.WriteString("<table><thead><tr>")
	for _, h := range headers {
		sb.WriteString("<th>")
		sb.WriteString(html.EscapeString(h))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead><tbody>\n")
	for _, row := range rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>")
			sb.WriteString(html.EscapeString(cell))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody></table>\n")
}
