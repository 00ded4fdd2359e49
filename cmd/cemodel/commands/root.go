package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Amanymarey2/cost-effective-model/internal/config"
	"github.com/Amanymarey2/cost-effective-model/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose      bool
	dataPath     string
	outDir       string
	scenarioPath string
	openReport   bool

	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "cemodel",
	Short: "Cohort cost-effectiveness model for chronic-condition care",
	Long: `cemodel runs a cohort state-transition model over per-person expenditure
data: it aggregates annual costs by chronic-condition count, simulates a
standard-care and an intervention strategy, compares them on cost and QALY
totals, quantifies parameter uncertainty with a probabilistic sensitivity
analysis, and writes a Markdown/HTML report bundle with CSV exports.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		// Flags take precedence over environment values
		if dataPath != "" {
			cfg.DataPath = dataPath
		}
		if outDir != "" {
			cfg.OutDir = outDir
		}
		if scenarioPath != "" {
			cfg.ScenarioPath = scenarioPath
		}
		if openReport {
			cfg.OpenReport = true
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("cemodel starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().StringVarP(&dataPath, "data", "d", "", "per-person expenditure CSV (overrides CEM_DATA)")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for the report bundle (overrides CEM_OUT)")
	rootCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario JSON override (overrides CEM_SCENARIO)")
	rootCmd.Flags().BoolVar(&openReport, "open", false, "open report.html in the default browser")
}
