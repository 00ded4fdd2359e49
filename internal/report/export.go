package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
)

// Bundle lists the files one run wrote.
type Bundle struct {
	Dir      string
	Markdown string
	HTML     string
	Draws    string
	Trace    string
}

// WriteBundle renders and writes the complete report bundle into dir. Each
// file lands under a temporary name and is renamed into place, so an
// interrupted run never leaves a truncated report behind. With open set,
// the HTML page opens in the default browser; an open failure is logged,
// not fatal.
func WriteBundle(r *Report, dir string, open bool) (*Bundle, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	b := &Bundle{
		Dir:      dir,
		Markdown: filepath.Join(dir, "report.md"),
		HTML:     filepath.Join(dir, "report.html"),
		Draws:    filepath.Join(dir, "psa_draws.csv"),
		Trace:    filepath.Join(dir, "cohort_trace.csv"),
	}

	htmlDoc, err := RenderHTML(r)
	if err != nil {
		return nil, err
	}
	draws, err := encodeDraws(r)
	if err != nil {
		return nil, err
	}
	trace, err := encodeTrace(r)
	if err != nil {
		return nil, err
	}

	files := []struct {
		path string
		data []byte
	}{
		{b.Markdown, []byte(RenderMarkdown(r))},
		{b.HTML, []byte(htmlDoc)},
		{b.Draws, draws},
		{b.Trace, trace},
	}
	for _, f := range files {
		if err := writeAtomic(f.path, f.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.path, err)
		}
	}

	log.Info().
		Str("dir", dir).
		Str("run_id", r.RunID).
		Msg("Report bundle written")

	if open {
		if err := browser.OpenFile(b.HTML); err != nil {
			log.Warn().Err(err).Str("path", b.HTML).Msg("Could not open report in browser")
		}
	}
	return b, nil
}

// encodeDraws exports the raw per-trial pairs at full float precision so
// the file round-trips back to the exact values.
func encodeDraws(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"trial",
		"standard_cost", "standard_effect",
		"intervention_cost", "intervention_effect",
		"delta_cost", "delta_effect",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, d := range r.Draws {
		row := []string{
			strconv.Itoa(d.Trial),
			formatFloat(d.Standard.TotalCost),
			formatFloat(d.Standard.TotalEffect),
			formatFloat(d.Intervention.TotalCost),
			formatFloat(d.Intervention.TotalEffect),
			formatFloat(d.Intervention.TotalCost - d.Standard.TotalCost),
			formatFloat(d.Intervention.TotalEffect - d.Standard.TotalEffect),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// encodeTrace exports the per-cycle occupancy of both strategies in tidy
// form: one row per strategy, cycle, and state.
func encodeTrace(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"strategy", "cycle", "state", "share", "persons"}); err != nil {
		return nil, err
	}
	size := float64(r.Scenario.CohortSize)
	for _, res := range []*markov.ModelResult{r.Standard, r.Intervention} {
		for _, cycle := range res.Cycles {
			for i, share := range cycle.Occupancy {
				row := []string{
					res.Strategy,
					strconv.Itoa(cycle.Cycle),
					r.Scenario.StateNames[i],
					formatFloat(share),
					formatFloat(share * size),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
