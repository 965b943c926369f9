package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/golden-retrieval/internal/model"
	"github.com/sells-group/golden-retrieval/internal/retrieval"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Retrieve ranked golden examples for a draft request",
	Long: `Embeds the query text, searches the corpus for the requested tier, scores
each candidate across semantic similarity, methodology compatibility,
industry match, quality, and annotation dimensions, and prints the top
results in rank order.

Examples:
  # Top pairs for an NPS pricing study
  golden retrieve --tier pairs --query "willingness to pay for premium plan" \
    --methodologies van_westendorp --industry saas

  # Ten section precedents as JSON
  golden retrieve --tier sections --query "screener for B2B decision makers" \
    --limit 10 --format json`,
	RunE: runRetrieve,
}

func init() {
	f := retrieveCmd.Flags()
	f.String("tier", "pairs", "corpus tier: pairs, sections, or questions")
	f.String("query", "", "draft request text to match against (required)")
	f.String("methodologies", "", "comma-separated methodology tags")
	f.String("industry", "", "target industry")
	f.Int("limit", 0, "maximum results (0=use config default)")
	f.String("format", "table", "output format: table or json")
	_ = retrieveCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tier, _ := cmd.Flags().GetString("tier")
	query, _ := cmd.Flags().GetString("query")
	methodologies, _ := cmd.Flags().GetString("methodologies")
	industry, _ := cmd.Flags().GetString("industry")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	if format != "table" && format != "json" {
		return eris.Errorf("retrieve: --format must be table or json (got %q)", format)
	}
	if limit == 0 {
		limit = cfg.Retrieval.Limit
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	retriever, err := initRetriever(st)
	if err != nil {
		return err
	}

	results, err := retriever.Retrieve(ctx, retrieval.Request{
		Tier:          model.Tier(tier),
		Query:         query,
		Methodologies: splitTags(methodologies),
		Industry:      industry,
		Limit:         limit,
	})
	if err != nil {
		return eris.Wrap(err, "retrieve")
	}

	zap.L().Info("retrieval complete", zap.Int("results", len(results)))

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	printScoredTable(results)
	return nil
}

func printScoredTable(results []model.ScoredCandidate) {
	if len(results) == 0 {
		fmt.Println("no matching candidates")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tCOMPOSITE\tSEMANTIC\tMETHOD\tINDUSTRY\tQUALITY\tANNOT\tVERIFIED\tCONTENT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%v\t%s\n",
			i+1, r.Composite, r.Similarity, r.MethodologyScore, r.IndustryScore,
			r.QualityScore, r.AnnotationScore, r.Candidate.Verified,
			truncateContent(r.Candidate.Content, 60))
	}
	_ = w.Flush()
}

func truncateContent(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
