package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/golden-retrieval/internal/model"
	"github.com/sells-group/golden-retrieval/internal/weights"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Inspect and configure scoring weights",
}

var weightsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the weights that would apply to a retrieval context",
	Long: `Resolves weights for the given methodology tags and industry through the
configuration chain (methodology, then industry, then global, then the
built-in defaults) and prints the winning set.`,
	RunE: runWeightsShow,
}

var weightsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a weight configuration for a scope",
	Long: `Writes a weight record. Scope is one of methodology, industry, or global;
--key names the methodology tag or industry (empty for global).

Example:
  golden weights set --scope methodology --key van_westendorp \
    --semantic 0.3 --methodology 0.35 --industry 0.15 --quality 0.1 --annotation 0.1`,
	RunE: runWeightsSet,
}

func init() {
	sf := weightsShowCmd.Flags()
	sf.String("methodologies", "", "comma-separated methodology tags")
	sf.String("industry", "", "target industry")

	cf := weightsSetCmd.Flags()
	cf.String("scope", "", "methodology, industry, or global (required)")
	cf.String("key", "", "methodology tag or industry name")
	cf.Float64("semantic", 0, "semantic similarity weight")
	cf.Float64("methodology", 0, "methodology compatibility weight")
	cf.Float64("industry", 0, "industry match weight")
	cf.Float64("quality", 0, "curation quality weight")
	cf.Float64("annotation", 0, "annotation score weight")
	_ = weightsSetCmd.MarkFlagRequired("scope")

	weightsCmd.AddCommand(weightsShowCmd, weightsSetCmd)
	rootCmd.AddCommand(weightsCmd)
}

func runWeightsShow(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	methodologies, _ := cmd.Flags().GetString("methodologies")
	industry, _ := cmd.Flags().GetString("industry")

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	w := weights.NewResolver(st).Resolve(ctx, model.WeightContext{
		Methodologies: splitTags(methodologies),
		Industry:      industry,
	})
	printWeights(w)
	return nil
}

func runWeightsSet(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scope, _ := cmd.Flags().GetString("scope")
	key, _ := cmd.Flags().GetString("key")

	switch weights.Scope(scope) {
	case weights.ScopeMethodology, weights.ScopeIndustry:
		if key == "" {
			return eris.Errorf("weights: --key is required for scope %s", scope)
		}
	case weights.ScopeGlobal:
	default:
		return eris.Errorf("weights: unknown scope %q", scope)
	}

	w := model.ScoringWeights{}
	w.Semantic, _ = cmd.Flags().GetFloat64("semantic")
	w.Methodology, _ = cmd.Flags().GetFloat64("methodology")
	w.Industry, _ = cmd.Flags().GetFloat64("industry")
	w.Quality, _ = cmd.Flags().GetFloat64("quality")
	w.Annotation, _ = cmd.Flags().GetFloat64("annotation")
	if err := w.Validate(); err != nil {
		return eris.Wrap(err, "weights")
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.SetWeights(ctx, weights.Scope(scope), key, w); err != nil {
		return eris.Wrap(err, "weights: set")
	}
	zap.L().Info("weights stored", zap.String("scope", scope), zap.String("key", key))
	return nil
}

func printWeights(w model.ScoringWeights) {
	fmt.Printf("semantic:    %.3f\n", w.Semantic)
	fmt.Printf("methodology: %.3f\n", w.Methodology)
	fmt.Printf("industry:    %.3f\n", w.Industry)
	fmt.Printf("quality:     %.3f\n", w.Quality)
	fmt.Printf("annotation:  %.3f\n", w.Annotation)
}
