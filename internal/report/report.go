// Package report assembles the run outputs into a bundle: a Markdown
// report with Mermaid charts, a self-contained HTML page with canvas
// scatters, and CSV exports of the cohort trace and the raw trial draws.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
	"github.com/Amanymarey2/cost-effective-model/internal/meps"
	"github.com/Amanymarey2/cost-effective-model/internal/psa"
	"github.com/Amanymarey2/cost-effective-model/internal/scenario"
)

// Inputs collects the results of one full run.
type Inputs struct {
	DataPath     string
	DataDigest   string
	Seed         uint64
	Scenario     *scenario.Scenario
	Costs        *meps.CostSummary
	Standard     *markov.ModelResult
	Intervention *markov.ModelResult
	Comparison   markov.Comparison
	PSA          *psa.Summary
	Draws        []psa.Draw
}

// Report is one run's complete output. Draws are excluded from the JSON
// form; they ship in psa_draws.csv.
type Report struct {
	RunID        string              `json:"run_id"`
	GeneratedAt  time.Time           `json:"generated_at"`
	DataPath     string              `json:"data_path"`
	DataDigest   string              `json:"data_digest,omitempty"`
	Seed         uint64              `json:"seed"`
	Scenario     *scenario.Scenario  `json:"scenario"`
	Costs        *meps.CostSummary   `json:"costs"`
	Standard     *markov.ModelResult `json:"standard"`
	Intervention *markov.ModelResult `json:"intervention"`
	Comparison   markov.Comparison   `json:"comparison"`
	PSA          *psa.Summary        `json:"psa"`
	Draws        []psa.Draw          `json:"-"`
}

// Build stamps the inputs with a run identity.
func Build(in Inputs) *Report {
	return &Report{
		RunID:        uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		DataPath:     in.DataPath,
		DataDigest:   in.DataDigest,
		Seed:         in.Seed,
		Scenario:     in.Scenario,
		Costs:        in.Costs,
		Standard:     in.Standard,
		Intervention: in.Intervention,
		Comparison:   in.Comparison,
		PSA:          in.PSA,
		Draws:        in.Draws,
	}
}
