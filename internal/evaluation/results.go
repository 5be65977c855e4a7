package evaluation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abjohnson5f/The-Mirror/internal/models"
	"gopkg.in/yaml.v3"
)

// Result scores one analyzed record against its labels.
type Result struct {
	ID              string  `yaml:"identifier"`
	ExpectedGender  string  `yaml:"expectedgender"`
	PredictedGender string  `yaml:"predictedgender"`
	GenderMatch     bool    `yaml:"gendermatch"`
	StyleProfile    string  `yaml:"styleprofile"`
	KeywordCoverage float64 `yaml:"keywordcoverage"`
	Error           string  `yaml:"error,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	Records             int     `yaml:"records"`
	Failures            int     `yaml:"failures"`
	GenderAccuracy      float64 `yaml:"genderaccuracy"`
	MeanKeywordCoverage float64 `yaml:"meankeywordcoverage"`
}

// RunConfig records how a run was produced.
type RunConfig struct {
	Model       string `yaml:"model"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// RunSpec is the complete evaluation output written to disk.
type RunSpec struct {
	Config  RunConfig `yaml:"config"`
	Summary Summary   `yaml:"summary"`
	Results []Result  `yaml:"results"`
}

// Score compares an analysis result to the record's labels. Keyword
// coverage is the fraction of expected style keywords that appear in
// the predicted style profile, case-insensitively.
func Score(record ProfileRecord, profile models.Profile) Result {
	result := Result{
		ID:              record.ID,
		ExpectedGender:  record.ExpectedGender,
		PredictedGender: string(profile.Gender),
		GenderMatch:     strings.EqualFold(record.ExpectedGender, string(profile.Gender)),
		StyleProfile:    profile.StyleProfile,
	}

	if len(record.StyleKeywords) == 0 {
		result.KeywordCoverage = 1
		return result
	}

	lowered := strings.ToLower(profile.StyleProfile)
	hits := 0
	for _, kw := range record.StyleKeywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			hits++
		}
	}
	result.KeywordCoverage = float64(hits) / float64(len(record.StyleKeywords))
	return result
}

// Summarize computes aggregate metrics over a run.
func Summarize(results []Result) Summary {
	summary := Summary{Records: len(results)}
	if len(results) == 0 {
		return summary
	}

	matches := 0
	scored := 0
	var coverage float64
	for _, r := range results {
		if r.Error != "" {
			summary.Failures++
			continue
		}
		scored++
		coverage += r.KeywordCoverage
		if r.GenderMatch {
			matches++
		}
	}

	if scored > 0 {
		summary.GenderAccuracy = float64(matches) / float64(scored)
		summary.MeanKeywordCoverage = coverage / float64(scored)
	}
	return summary
}

// SaveToYAML writes a run under evals/ with a timestamped filename and
// returns the path.
func SaveToYAML(model, datasetPath string, results []Result) (string, error) {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	spec := RunSpec{
		Config: RunConfig{
			Model:       model,
			DatasetPath: datasetPath,
			SampleSize:  len(results),
			Timestamp:   timestamp,
		},
		Summary: Summarize(results),
		Results: results,
	}

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	path := filepath.Join("evals", fmt.Sprintf("profile_eval_%s.yaml", timestamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}

	return path, nil
}
