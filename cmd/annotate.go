package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/golden-retrieval/internal/annotator"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <candidate-id>",
	Short: "Rate a candidate with Claude against the five-pillar rubric",
	Long: `Fetches a candidate and asks Claude to rate it on methodological rigor,
content validity, respondent experience, analytical value, and business
impact. The resulting annotation is printed and, with --save, stored
unverified for later human review.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().Bool("save", false, "persist the annotation to the corpus")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	save, _ := cmd.Flags().GetBool("save")
	candidateID := args[0]

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	c, err := st.GetCandidate(ctx, candidateID)
	if err != nil {
		return eris.Wrap(err, "annotate")
	}
	if c == nil {
		return eris.Errorf("annotate: candidate %s not found", candidateID)
	}

	ai, err := initAnthropic()
	if err != nil {
		return err
	}

	ann, err := annotator.New(ai, cfg.Anthropic.Model).Annotate(ctx, c)
	if err != nil {
		return eris.Wrap(err, "annotate")
	}

	fmt.Printf("methodological_rigor:  %d\n", ann.MethodologicalRigor)
	fmt.Printf("content_validity:      %d\n", ann.ContentValidity)
	fmt.Printf("respondent_experience: %d\n", ann.RespondentExperience)
	fmt.Printf("analytical_value:      %d\n", ann.AnalyticalValue)
	fmt.Printf("business_impact:       %d\n", ann.BusinessImpact)
	fmt.Printf("labels:                %v\n", ann.Labels)

	if !save {
		return nil
	}
	if err := st.InsertAnnotation(ctx, ann); err != nil {
		return eris.Wrap(err, "annotate: save")
	}
	zap.L().Info("annotation saved",
		zap.String("annotation_id", ann.ID),
		zap.String("candidate_id", candidateID),
	)
	return nil
}
