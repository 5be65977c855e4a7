package evaluation

import (
	"math"
	"testing"

	"github.com/abjohnson5f/The-Mirror/internal/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		record       ProfileRecord
		profile      models.Profile
		wantMatch    bool
		wantCoverage float64
	}{
		{
			name:         "gender match case-insensitive",
			record:       ProfileRecord{ID: "r1", ExpectedGender: "Female", StyleKeywords: []string{"minimalist"}},
			profile:      models.Profile{Gender: models.GenderFemale, StyleProfile: "Scandinavian minimalist with clean lines"},
			wantMatch:    true,
			wantCoverage: 1,
		},
		{
			name:         "partial keyword coverage",
			record:       ProfileRecord{ID: "r2", ExpectedGender: "male", StyleKeywords: []string{"rugged", "Denim", "vintage", "workwear"}},
			profile:      models.Profile{Gender: models.GenderMale, StyleProfile: "Rugged denim-heavy look"},
			wantMatch:    true,
			wantCoverage: 0.5,
		},
		{
			name:         "gender mismatch",
			record:       ProfileRecord{ID: "r3", ExpectedGender: "male", StyleKeywords: []string{"classic"}},
			profile:      models.Profile{Gender: models.GenderNeutral, StyleProfile: "Classic tailoring"},
			wantMatch:    false,
			wantCoverage: 1,
		},
		{
			name:         "no keywords scores full coverage",
			record:       ProfileRecord{ID: "r4", ExpectedGender: "neutral"},
			profile:      models.Profile{Gender: models.GenderNeutral, StyleProfile: "Anything"},
			wantMatch:    true,
			wantCoverage: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.record, tt.profile)
			if result.GenderMatch != tt.wantMatch {
				t.Errorf("Expected gender match %v, got %v", tt.wantMatch, result.GenderMatch)
			}
			if math.Abs(result.KeywordCoverage-tt.wantCoverage) > 1e-9 {
				t.Errorf("Expected coverage %f, got %f", tt.wantCoverage, result.KeywordCoverage)
			}
			if result.ID != tt.record.ID {
				t.Errorf("Expected record ID carried, got %s", result.ID)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{ID: "a", GenderMatch: true, KeywordCoverage: 1},
		{ID: "b", GenderMatch: false, KeywordCoverage: 0.5},
		{ID: "c", Error: "image unreadable"},
		{ID: "d", GenderMatch: true, KeywordCoverage: 0.75},
	}

	summary := Summarize(results)

	if summary.Records != 4 {
		t.Errorf("Expected 4 records, got %d", summary.Records)
	}
	if summary.Failures != 1 {
		t.Errorf("Expected 1 failure, got %d", summary.Failures)
	}
	if math.Abs(summary.GenderAccuracy-2.0/3.0) > 1e-9 {
		t.Errorf("Expected gender accuracy 2/3, got %f", summary.GenderAccuracy)
	}
	if math.Abs(summary.MeanKeywordCoverage-0.75) > 1e-9 {
		t.Errorf("Expected mean coverage 0.75, got %f", summary.MeanKeywordCoverage)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary.Records != 0 || summary.GenderAccuracy != 0 || summary.MeanKeywordCoverage != 0 {
		t.Errorf("Expected zero summary, got %+v", summary)
	}
}
