package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/golden-retrieval/internal/labels"
	"github.com/sells-group/golden-retrieval/internal/model"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Add a golden example to the corpus",
	Long: `Embeds the given content and stores it as a new corpus candidate.
Methodology tags are normalized to canonical form before storage.

Examples:
  golden ingest --tier pairs --methodologies nps --industry saas \
    --content "How likely are you to recommend us to a colleague?"

  golden ingest --tier sections --file screener.txt --quality 0.9 --verified`,
	RunE: runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.String("tier", "pairs", "corpus tier: pairs, sections, or questions")
	f.String("content", "", "candidate content text")
	f.String("file", "", "read candidate content from a file instead of --content")
	f.String("methodologies", "", "comma-separated methodology tags")
	f.String("industry", "", "candidate industry")
	f.Float64("quality", -1, "curation quality in [0,1] (-1=unrated)")
	f.Bool("verified", false, "mark the candidate human-verified")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tier, _ := cmd.Flags().GetString("tier")
	content, _ := cmd.Flags().GetString("content")
	file, _ := cmd.Flags().GetString("file")
	methodologies, _ := cmd.Flags().GetString("methodologies")
	industry, _ := cmd.Flags().GetString("industry")
	quality, _ := cmd.Flags().GetFloat64("quality")
	verified, _ := cmd.Flags().GetBool("verified")

	if !model.Tier(tier).Valid() {
		return eris.Errorf("ingest: unknown tier %q", tier)
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return eris.Wrap(err, "ingest: read content file")
		}
		content = string(data)
	}
	if content == "" {
		return eris.New("ingest: --content or --file is required")
	}
	if quality > 1 {
		return eris.Errorf("ingest: --quality must be in [0,1] (got %g)", quality)
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	embedder, err := initEmbedder()
	if err != nil {
		return err
	}
	embedding, err := embedder.Embed(ctx, content)
	if err != nil {
		return eris.Wrap(err, "ingest: embed content")
	}

	c := &model.Candidate{
		Tier:          model.Tier(tier),
		Content:       content,
		Embedding:     embedding,
		Methodologies: labels.NormalizeBatch(splitTags(methodologies)),
		Industry:      industry,
		Verified:      verified,
	}
	if quality >= 0 {
		c.Quality = &quality
	}

	if err := st.InsertCandidate(ctx, c); err != nil {
		return eris.Wrap(err, "ingest")
	}

	zap.L().Info("candidate ingested",
		zap.String("candidate_id", c.ID),
		zap.String("tier", tier),
		zap.Strings("methodologies", c.Methodologies),
	)
	fmt.Println(c.ID)
	return nil
}
