package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Amanymarey2/cost-effective-model/internal/config"
	"github.com/Amanymarey2/cost-effective-model/internal/markov"
	"github.com/Amanymarey2/cost-effective-model/internal/meps"
	"github.com/Amanymarey2/cost-effective-model/internal/psa"
	"github.com/Amanymarey2/cost-effective-model/internal/report"
	"github.com/Amanymarey2/cost-effective-model/internal/scenario"
)

// run executes the full pipeline: data aggregation, deterministic cohort
// runs, sensitivity analysis, and the report bundle.
func run(ctx context.Context) error {
	// 1. Scenario: built-in defaults or an override file, then env/flag knobs.
	sc := scenario.Default()
	if cfg.ScenarioPath != "" {
		loaded, err := scenario.Load(cfg.ScenarioPath)
		if err != nil {
			return err
		}
		sc = loaded
	}
	applyConfig(sc, cfg)
	if err := sc.Validate(); err != nil {
		return err
	}

	// 2. Expenditure data: per-person records into per-state mean costs.
	if cfg.DataPath == "" {
		return fmt.Errorf("no input data: set --data or CEM_DATA")
	}
	records, err := meps.LoadRecords(cfg.DataPath)
	if err != nil {
		return err
	}
	digest, err := fileDigest(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("digest input data: %w", err)
	}
	costs, err := meps.Aggregate(records)
	if err != nil {
		return err
	}

	// 3. Model objects shared by every run.
	states, err := sc.States(stateCostVector(costs))
	if err != nil {
		return err
	}
	std, intv, err := sc.Matrices()
	if err != nil {
		return err
	}
	start, err := sc.Start()
	if err != nil {
		return err
	}

	// 4. Deterministic runs and the incremental comparison.
	sim, err := markov.NewSimulator(states, sc.DiscountRate)
	if err != nil {
		return err
	}
	stdRes, err := sim.Run(sc.StandardName, std, start, sc.Cycles)
	if err != nil {
		return err
	}
	intRes, err := sim.Run(sc.InterventionName, intv, start, sc.Cycles)
	if err != nil {
		return err
	}
	cmp := markov.Compare(intRes, stdRes)
	log.Info().
		Str("dominance", string(cmp.Dominance)).
		Float64("delta_cost", cmp.DeltaCost).
		Float64("delta_qaly", cmp.DeltaEffect).
		Msg("Deterministic comparison")

	// 5. Probabilistic sensitivity analysis.
	model, err := psa.NewParameterModel(states, sc.CostSigma, sc.UtilityCV)
	if err != nil {
		return err
	}
	engine, err := psa.NewEngine(psa.Config{
		Model:        model,
		Standard:     std,
		Intervention: intv,
		Start:        start,
		Cycles:       sc.Cycles,
		Discount:     sc.DiscountRate,
		Trials:       sc.Trials,
		Seed:         cfg.Seed,
		Workers:      cfg.Workers,
	})
	if err != nil {
		return err
	}
	draws, err := engine.Run(ctx)
	if err != nil {
		return err
	}
	summary, err := psa.Summarize(draws, sc.WTP)
	if err != nil {
		return err
	}

	// 6. Report bundle.
	rep := report.Build(report.Inputs{
		DataPath:     cfg.DataPath,
		DataDigest:   digest,
		Seed:         cfg.Seed,
		Scenario:     sc,
		Costs:        costs,
		Standard:     stdRes,
		Intervention: intRes,
		Comparison:   cmp,
		PSA:          summary,
		Draws:        draws,
	})
	bundle, err := report.WriteBundle(rep, cfg.OutDir, cfg.OpenReport)
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", rep.RunID).
		Str("report", bundle.Markdown).
		Str("html", bundle.HTML).
		Msg("Run complete")
	return nil
}

// applyConfig lays non-zero runtime knobs from the environment over the
// scenario defaults.
func applyConfig(sc *scenario.Scenario, cfg *config.AppConfig) {
	if cfg.Cycles > 0 {
		sc.Cycles = cfg.Cycles
	}
	if cfg.Trials > 0 {
		sc.Trials = cfg.Trials
	}
	if cfg.CohortSize > 0 {
		sc.CohortSize = cfg.CohortSize
	}
	if cfg.DiscountRate > 0 {
		sc.DiscountRate = cfg.DiscountRate
	}
}

// stateCostVector pads the bucket means with the terminal state's zero.
func stateCostVector(costs *meps.CostSummary) [markov.StateCount]float64 {
	var vec [markov.StateCount]float64
	means := costs.MeanCosts()
	copy(vec[:], means[:])
	return vec
}

// fileDigest hashes the input file so the report records exactly which
// extract produced it.
func fileDigest(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
