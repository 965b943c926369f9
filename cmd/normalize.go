package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/golden-retrieval/internal/labels"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <label>...",
	Short: "Normalize methodology labels to canonical form",
	Long: `Prints the canonical form of each label: abbreviations expanded,
separators unified, segments title-cased. With --match, each label is
also fuzzy-matched against the given vocabulary.

Examples:
  golden normalize addl_demographics "VW pricing"
  golden normalize nsp --match net_promoter_score,van_westendorp`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func init() {
	f := normalizeCmd.Flags()
	f.String("match", "", "comma-separated vocabulary for fuzzy matching")
	f.Float64("threshold", labels.DefaultFuzzyThreshold, "minimum fuzzy similarity ratio")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	vocab, _ := cmd.Flags().GetString("match")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	candidates := splitTags(vocab)
	for _, label := range args {
		if len(candidates) > 0 {
			fmt.Printf("%s\t%s\n", label, labels.FuzzyMatch(label, candidates, threshold))
			continue
		}
		fmt.Printf("%s\t%s\n", label, labels.Normalize(label))
	}
	return nil
}
