package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/golden-retrieval/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "golden",
	Short: "Golden corpus retrieval engine for survey generation",
	Long:  "Stores annotated golden survey examples, scores them against a draft request across semantic, methodology, industry, quality, and annotation dimensions, and returns ranked precedents for generator conditioning.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
