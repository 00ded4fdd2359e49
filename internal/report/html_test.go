package report

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderHTML(t *testing.T) {
	r := fixtureReport(t)
	doc, err := RenderHTML(r)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, fragment := range []string{
		"<!DOCTYPE html>",
		"<canvas id=\"ce-plane\"",
		"<canvas id=\"outcomes\"",
		"sha256 " + r.DataDigest,
		"Intervention dominates Standard Care",
		"$50000.00 / QALY",
	} {
		if !strings.Contains(doc, fragment) {
			t.Errorf("page missing %q", fragment)
		}
	}
}

func TestRenderHTML_ChartDataIsland(t *testing.T) {
	r := fixtureReport(t)
	doc, err := RenderHTML(r)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	const open = "<script id=\"chart-data\" type=\"application/json\">"
	start := strings.Index(doc, open)
	if start < 0 {
		t.Fatal("chart data island missing")
	}
	start += len(open)
	end := strings.Index(doc[start:], "</script>")
	if end < 0 {
		t.Fatal("chart data island not closed")
	}

	var data chartData
	if err := json.Unmarshal([]byte(doc[start:start+end]), &data); err != nil {
		t.Fatalf("island does not parse: %v", err)
	}
	if len(data.Deltas) != 3 || len(data.Standard) != 3 || len(data.Intervention) != 3 {
		t.Errorf("point counts = %d/%d/%d, want 3 each", len(data.Standard), len(data.Intervention), len(data.Deltas))
	}
	if data.StandardName != "Standard Care" || data.InterventionName != "Intervention" {
		t.Errorf("strategy names = %q, %q", data.StandardName, data.InterventionName)
	}
	// First trial: effect first, cost second.
	if data.Standard[0] != [2]float64{1.73, 11500} {
		t.Errorf("standard point 0 = %v", data.Standard[0])
	}
	if data.Deltas[0] != [2]float64{1.77 - 1.73, 10600 - 11500} {
		t.Errorf("delta point 0 = %v", data.Deltas[0])
	}
}

func TestMinifyJS(t *testing.T) {
	minified, err := minifyJS("function add(first, second) {\n  return first + second;\n}\n")
	if err != nil {
		t.Fatalf("minifyJS: %v", err)
	}
	if strings.Contains(minified, "first") || strings.Contains(minified, "\n  ") {
		t.Errorf("identifiers or whitespace survived: %q", minified)
	}

	if _, err := minifyJS("function broken( {"); err == nil {
		t.Error("invalid script minified without error")
	}
}

func TestMinifyJS_EmbeddedAsset(t *testing.T) {
	minified, err := minifyJS(scatterJS)
	if err != nil {
		t.Fatalf("embedded chart script does not minify: %v", err)
	}
	if len(minified) >= len(scatterJS) {
		t.Errorf("minified size %d not smaller than source %d", len(minified), len(scatterJS))
	}
}
