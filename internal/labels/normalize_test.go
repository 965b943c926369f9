package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"underscore separated", "addl_demographics", "Additional_Demographics"},
		{"hyphen and mixed case", "ADDL-Demographics", "Additional_Demographics"},
		{"dot separated", "brand.tracking", "Brand_Tracking"},
		{"space separated", "van westendorp", "Van_Westendorp"},
		{"abbreviation with expansion segments", "vw pricing", "Van_Westendorp_Pricing"},
		{"unexpanded token", "coi_check", "Coi_Check"},
		{"abbreviation inside longer token untouched", "saddle_point", "Saddle_Point"},
		{"prefix of abbreviation untouched", "vwx", "Vwx"},
		{"repeated separators collapse", "max--diff  analysis", "Max_Diff_Analysis"},
		{"leading and trailing separators stripped", "_brand_tracking_", "Brand_Tracking"},
		{"whitespace trimmed", "  nps  ", "Net_Promoter_Score"},
		{"already normalized", "Additional_Demographics", "Additional_Demographics"},
		{"digits preserved", "wave 2 tracker", "Wave_2_Tracker"},
		{"empty", "", ""},
		{"separators only", "-_ .", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"addl_demographics",
		"ADDL-Demographics",
		"vw pricing",
		"coi_check",
		"gg.ladder",
		"  seg -- study  ",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeBatch(t *testing.T) {
	got := NormalizeBatch([]string{"addl_demog", "brand tracking"})
	assert.Equal(t, []string{"Additional_Demographics", "Brand_Tracking"}, got)

	assert.Nil(t, NormalizeBatch(nil))
	assert.Equal(t, []string{}, NormalizeBatch([]string{}))
}
