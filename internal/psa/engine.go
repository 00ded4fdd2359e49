// Package psa implements the probabilistic sensitivity analysis: repeated
// cohort runs under parameter draws from per-state cost and utility
// distributions, with the transition matrices held fixed across trials.
package psa

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
)

// Outcome is the (cost, effect) pair of one strategy in one trial.
type Outcome struct {
	TotalCost   float64 `json:"total_cost"`
	TotalEffect float64 `json:"total_effect"`
}

// Draw captures one trial: the sampled parameters and the totals both
// strategies produce under those parameters with the shared matrices.
type Draw struct {
	Trial        int         `json:"trial"`
	Params       TrialParams `json:"params"`
	Standard     Outcome     `json:"standard"`
	Intervention Outcome     `json:"intervention"`
}

// Config collects everything one sensitivity run needs.
type Config struct {
	Model        *ParameterModel
	Standard     *markov.TransitionMatrix
	Intervention *markov.TransitionMatrix
	Start        *markov.Cohort
	Cycles       int
	Discount     float64
	Trials       int
	Seed         uint64
	Workers      int
}

// Engine runs the Monte Carlo trials. Trials are independent and fan out on
// a bounded worker pool; each trial derives its own random stream from the
// master seed and the trial index, so the output is identical for a given
// seed no matter how many workers run.
type Engine struct {
	cfg Config
}

// NewEngine validates the configuration. A zero worker count defaults to
// the number of CPUs.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("parameter model is required")
	}
	if cfg.Standard == nil || cfg.Intervention == nil {
		return nil, fmt.Errorf("both transition matrices are required")
	}
	if cfg.Start == nil {
		return nil, fmt.Errorf("starting cohort is required")
	}
	if cfg.Cycles <= 0 {
		return nil, fmt.Errorf("cycle count %d must be positive", cfg.Cycles)
	}
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("trial count %d must be positive", cfg.Trials)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Engine{cfg: cfg}, nil
}

// Run executes all trials and returns the raw draws in trial order.
func (e *Engine) Run(ctx context.Context) ([]Draw, error) {
	started := time.Now()
	draws := make([]Draw, e.cfg.Trials)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for trial := 0; trial < e.cfg.Trials; trial++ {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			d, err := e.runTrial(trial)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			draws[trial] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Int("trials", e.cfg.Trials).
		Int("workers", e.cfg.Workers).
		Uint64("seed", e.cfg.Seed).
		Dur("elapsed", time.Since(started)).
		Msg("Sensitivity analysis complete")
	return draws, nil
}

// runTrial samples one parameter set and reruns both strategies with it.
// The per-trial source is seeded from (master seed, trial index) so every
// trial's stream is reproducible in isolation.
func (e *Engine) runTrial(trial int) (Draw, error) {
	src := rand.NewPCG(e.cfg.Seed, uint64(trial))
	params := e.cfg.Model.Sample(src)
	if err := params.check(); err != nil {
		return Draw{}, err
	}

	states, err := e.cfg.Model.states.WithParameters(params.Costs, params.Utilities)
	if err != nil {
		return Draw{}, err
	}
	sim, err := markov.NewSimulator(states, e.cfg.Discount)
	if err != nil {
		return Draw{}, err
	}

	std, err := sim.Run("standard", e.cfg.Standard, e.cfg.Start, e.cfg.Cycles)
	if err != nil {
		return Draw{}, err
	}
	intv, err := sim.Run("intervention", e.cfg.Intervention, e.cfg.Start, e.cfg.Cycles)
	if err != nil {
		return Draw{}, err
	}

	return Draw{
		Trial:        trial,
		Params:       params,
		Standard:     Outcome{TotalCost: std.TotalCost, TotalEffect: std.TotalEffect},
		Intervention: Outcome{TotalCost: intv.TotalCost, TotalEffect: intv.TotalEffect},
	}, nil
}
