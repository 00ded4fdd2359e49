package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Amanymarey2/cost-effective-model/cmd/mepsgen/engine"
)

func main() {
	scenario := flag.String("scenario", "typical", "Population to generate: typical, skewed, sparse")
	distribution := flag.String("distribution", "lognormal", "Expenditure distribution: lognormal, gamma")
	out := flag.String("out", "meps_sample.csv", "Output CSV path")
	count := flag.Int("count", 2000, "Number of persons to generate")
	seed := flag.Uint64("seed", 1, "RNG seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Seed:         *seed,
	}

	fmt.Printf("Generating population '%s' (Distribution: %s, Persons: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, *out)

	records, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate records: %v\n", err)
		os.Exit(1)
	}

	if err := engine.Save(*out, records); err != nil {
		fmt.Printf("Failed to save records: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
