package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/doubt/internal/pipeline"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo [text...]",
	Short: "Show one level of doubt, then doubt the first doubt",
	Long: `Demo analyzes a text (f(x)), then takes the first generated question
and analyzes it again one level deeper (f(f(x))).

Example:
  doubt demo
  doubt demo "The market will always recover."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		p, err := pipeline.NewPipeline(cfg, logger)
		if err != nil {
			return err
		}

		return p.Demonstrate(cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
