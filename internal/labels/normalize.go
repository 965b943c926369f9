// Package labels canonicalizes the free-form symbolic tags (methodology
// labels, annotation labels, industry terms) used across the golden corpus,
// and offers fuzzy lookup against a known tag set. All functions are pure
// and safe for concurrent use.
package labels

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// abbreviations maps known shorthand tokens to their expansions. Expansion is
// token-boundary aware: "addl" expands, "saddle" does not. Expansions may
// themselves contain underscores.
var abbreviations = map[string]string{
	"addl":  "additional",
	"demog": "demographics",
	"demos": "demographics",
	"vw":    "van_westendorp",
	"gg":    "gabor_granger",
	"csat":  "customer_satisfaction",
	"nps":   "net_promoter_score",
	"seg":   "segmentation",
	"qual":  "qualitative",
	"quant": "quantitative",
	"resp":  "respondent",
}

// Normalize canonicalizes a free-form tag: lower-cases and trims, expands
// known abbreviations at token boundaries, unifies separators to a single
// underscore, and Title_Cases each underscore-delimited segment.
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return ""
	}

	// Tokenize on anything that is not a letter or digit. This both unifies
	// the recognized separators ("-", " ", ".") and collapses repeats, since
	// empty tokens are dropped.
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return ""
	}

	// Abbreviation expansion happens before casing. An expansion may add
	// segments of its own ("vw" -> "van_westendorp"), so re-split after.
	for i, tok := range tokens {
		if exp, ok := abbreviations[tok]; ok {
			tokens[i] = exp
		}
	}
	segments := strings.Split(strings.Join(tokens, "_"), "_")

	caser := cases.Title(language.Und)
	for i, seg := range segments {
		segments[i] = caser.String(seg)
	}
	return strings.Join(segments, "_")
}

// NormalizeBatch normalizes each label in order.
func NormalizeBatch(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Normalize(s)
	}
	return out
}
