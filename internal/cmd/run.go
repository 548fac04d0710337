package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/ctsort/internal/categorize"
	"github.com/Iron-Ham/ctsort/internal/config"
	"github.com/Iron-Ham/ctsort/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Categorize, validate, count, and inspect recordings",
	Long: `Run the full pipeline over the configured recordings.

For each recording the slices under <input_root>/<set>/recording<N>/ are
sorted into axial, coronal, and sagittal directories under the output root,
then validated, counted, and inspected. The recording's log file is
rewritten from scratch on every run.

Examples:
  # Every configured recording
  ctsort run

  # One recording, starting from empty plane directories
  ctsort run --set MD1 --recording 3 --clean`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, runSelection)
	},
}

var runSelection selection

func init() {
	runSelection.register(runCmd)
	runCmd.Flags().Bool("clean", false, "Empty the plane directories before categorizing")
	_ = viper.BindPFlag("categorize.clean", runCmd.Flags().Lookup("clean"))
	runCmd.Flags().Bool("cross-check", false, "Compare both classifier strategies on every slice")
	_ = viper.BindPFlag("classifier.cross_check", runCmd.Flags().Lookup("cross-check"))

	rootCmd.AddCommand(runCmd)
}

func categorizeOptions(cfg *config.Config) categorize.Options {
	return categorize.Options{
		Pattern:    cfg.Input.Pattern,
		CrossCheck: cfg.Classifier.CrossCheck,
		Clean:      cfg.Categorize.Clean,
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Re-check categorized slices and count them per plane",
	Long: `Validate existing categorized output without re-sorting it.

Every stored slice is classified again and compared with the plane directory
it sits in. Results and per-plane counts are appended to the recording's log.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, validateSelection, pipeline.StageValidate, pipeline.StageCount)
	},
}

var validateSelection selection

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report the distinct pixel shapes per plane",
	Long: `Inspect categorized output and report the set of pixel shapes seen in
each plane. A plane with more than one shape cannot be stacked into a volume
as-is.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, inspectSelection, pipeline.StageInspect)
	},
}

var inspectSelection selection

func init() {
	validateSelection.register(validateCmd)
	inspectSelection.register(inspectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
}
