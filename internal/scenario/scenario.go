// Package scenario defines the model parameterization: state names and
// utility weights, the standard-care transition rows, and the simulation
// and sensitivity settings. Parameters are built once and passed by value;
// nothing reads them from globals.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/rs/zerolog/log"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
)

// Scenario is the complete model parameterization. Costs are not part of
// it: state costs come from the expenditure data at run time.
type Scenario struct {
	StandardName         string                     `json:"standard_name"`
	InterventionName     string                     `json:"intervention_name"`
	StateNames           [markov.StateCount]string  `json:"state_names"`
	Utilities            [markov.StateCount]float64 `json:"utilities"`
	StandardRows         [][]float64                `json:"standard_matrix"`
	ProgressionReduction float64                    `json:"progression_reduction"`
	StartState           int                        `json:"start_state"`
	Cycles               int                        `json:"cycles"`
	DiscountRate         float64                    `json:"discount_rate"`
	CohortSize           int                        `json:"cohort_size"`
	Trials               int                        `json:"trials"`
	CostSigma            float64                    `json:"cost_sigma"`
	UtilityCV            float64                    `json:"utility_cv"`
	WTP                  []float64                  `json:"wtp"`
}

// Default returns the built-in scenario: five chronic-condition states plus
// an absorbing terminal state, published utility weights, the standard-care
// transition table, and an intervention that halves progression.
func Default() *Scenario {
	return &Scenario{
		StandardName:     "Standard Care",
		InterventionName: "Intervention",
		StateNames: [markov.StateCount]string{
			"0 conditions", "1 condition", "2 conditions", "3 conditions", "4+ conditions", "Dead",
		},
		Utilities: [markov.StateCount]float64{0.90, 0.80, 0.70, 0.60, 0.45, 0},
		StandardRows: [][]float64{
			{0.70, 0.20, 0.05, 0.02, 0.01, 0.02},
			{0.05, 0.65, 0.18, 0.06, 0.03, 0.03},
			{0.01, 0.06, 0.62, 0.17, 0.08, 0.06},
			{0.00, 0.01, 0.05, 0.60, 0.24, 0.10},
			{0.00, 0.00, 0.01, 0.04, 0.77, 0.18},
			{0.00, 0.00, 0.00, 0.00, 0.00, 1.00},
		},
		ProgressionReduction: 0.5,
		StartState:           0,
		Cycles:               10,
		DiscountRate:         0,
		CohortSize:           1000,
		Trials:               1000,
		CostSigma:            0.1,
		UtilityCV:            0.1,
		WTP:                  []float64{0, 50000},
	}
}

// scenarioFile mirrors Scenario with wire-friendly slice fields; the JSON
// schema is derived from this shape.
type scenarioFile struct {
	StandardName         string      `json:"standard_name"`
	InterventionName     string      `json:"intervention_name"`
	StateNames           []string    `json:"state_names"`
	Utilities            []float64   `json:"utilities"`
	StandardMatrix       [][]float64 `json:"standard_matrix"`
	ProgressionReduction float64     `json:"progression_reduction"`
	StartState           int         `json:"start_state"`
	Cycles               int         `json:"cycles"`
	DiscountRate         float64     `json:"discount_rate"`
	CohortSize           int         `json:"cohort_size"`
	Trials               int         `json:"trials"`
	CostSigma            float64     `json:"cost_sigma"`
	UtilityCV            float64     `json:"utility_cv"`
	WTP                  []float64   `json:"wtp"`
}

// Load reads a complete scenario document from a JSON file. The document is
// validated against a schema derived from the file shape before decoding,
// so type mistakes fail with a schema diagnostic rather than a zero value.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	schema, err := jsonschema.For[scenarioFile](nil)
	if err != nil {
		return nil, fmt.Errorf("derive scenario schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve scenario schema: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if err := resolved.Validate(raw); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	var file scenarioFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	sc, err := file.toScenario()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("Loaded scenario override")
	return sc, nil
}

func (f *scenarioFile) toScenario() (*Scenario, error) {
	if len(f.StateNames) != markov.StateCount {
		return nil, fmt.Errorf("state_names has %d entries, want %d", len(f.StateNames), markov.StateCount)
	}
	if len(f.Utilities) != markov.StateCount {
		return nil, fmt.Errorf("utilities has %d entries, want %d", len(f.Utilities), markov.StateCount)
	}

	sc := &Scenario{
		StandardName:         f.StandardName,
		InterventionName:     f.InterventionName,
		StandardRows:         f.StandardMatrix,
		ProgressionReduction: f.ProgressionReduction,
		StartState:           f.StartState,
		Cycles:               f.Cycles,
		DiscountRate:         f.DiscountRate,
		CohortSize:           f.CohortSize,
		Trials:               f.Trials,
		CostSigma:            f.CostSigma,
		UtilityCV:            f.UtilityCV,
		WTP:                  f.WTP,
	}
	copy(sc.StateNames[:], f.StateNames)
	copy(sc.Utilities[:], f.Utilities)
	return sc, nil
}

// Validate checks the semantic constraints the schema cannot express. The
// transition rows go through the full matrix validation.
func (s *Scenario) Validate() error {
	if s.StandardName == "" || s.InterventionName == "" {
		return fmt.Errorf("strategy names must be non-empty")
	}
	for i, name := range s.StateNames {
		if name == "" {
			return fmt.Errorf("state name %d is empty", i)
		}
	}
	for i, u := range s.Utilities {
		if u < 0 || u > 1 {
			return fmt.Errorf("utility %d is %v, want [0,1]", i, u)
		}
	}
	if _, err := markov.NewTransitionMatrix(s.StandardRows); err != nil {
		return err
	}
	if s.ProgressionReduction < 0 || s.ProgressionReduction > 1 {
		return fmt.Errorf("progression_reduction %v outside [0,1]", s.ProgressionReduction)
	}
	if s.StartState < 0 || s.StartState >= markov.StateCount {
		return fmt.Errorf("start_state %d outside [0,%d)", s.StartState, markov.StateCount)
	}
	if s.Cycles <= 0 {
		return fmt.Errorf("cycles %d must be positive", s.Cycles)
	}
	if s.DiscountRate < 0 {
		return fmt.Errorf("discount_rate %v is negative", s.DiscountRate)
	}
	if s.CohortSize <= 0 {
		return fmt.Errorf("cohort_size %d must be positive", s.CohortSize)
	}
	if s.Trials < 2 {
		return fmt.Errorf("trials %d must be at least 2", s.Trials)
	}
	if s.CostSigma <= 0 {
		return fmt.Errorf("cost_sigma %v must be positive", s.CostSigma)
	}
	if s.UtilityCV <= 0 {
		return fmt.Errorf("utility_cv %v must be positive", s.UtilityCV)
	}
	if len(s.WTP) == 0 {
		return fmt.Errorf("wtp needs at least one threshold")
	}
	for i, w := range s.WTP {
		if w < 0 {
			return fmt.Errorf("wtp %d is %v, want >= 0", i, w)
		}
	}
	return nil
}

// Matrices builds the standard-care matrix and derives the intervention
// matrix from it.
func (s *Scenario) Matrices() (std, intv *markov.TransitionMatrix, err error) {
	std, err = markov.NewTransitionMatrix(s.StandardRows)
	if err != nil {
		return nil, nil, err
	}
	intv, err = markov.DeriveIntervention(std, s.ProgressionReduction)
	if err != nil {
		return nil, nil, err
	}
	return std, intv, nil
}

// States combines the scenario's names and utilities with per-state costs
// from the expenditure aggregation.
func (s *Scenario) States(costs [markov.StateCount]float64) (*markov.StateSet, error) {
	var set [markov.StateCount]markov.State
	for i := range set {
		set[i] = markov.State{Name: s.StateNames[i], Cost: costs[i], Utility: s.Utilities[i]}
	}
	return markov.NewStateSet(set)
}

// Start returns the starting cohort distribution.
func (s *Scenario) Start() (*markov.Cohort, error) {
	return markov.StartingCohort(s.StartState)
}
