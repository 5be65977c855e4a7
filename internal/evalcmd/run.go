package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/abjohnson5f/The-Mirror/internal/evaluation"
	"github.com/abjohnson5f/The-Mirror/internal/models"
	"github.com/abjohnson5f/The-Mirror/internal/providers"
	"github.com/spf13/cobra"
)

// NewRunCmd evaluates the profile analyzer against a labeled dataset.
func NewRunCmd(analyzer providers.ProfileAnalyzer) *cobra.Command {
	var datasetPath string
	var concurrency int
	var limit int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a profile-analysis evaluation",
		Long: `Runs the profile analyzer over a labeled dataset of photos and scores
the predicted gender expression and style keywords against the labels.

The dataset is a Parquet or JSONL file of records with id, image_path,
mime_type, expected_gender, and style_keywords fields.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd.Context(), analyzer, datasetPath, concurrency, limit)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to the labeled dataset (.parquet or .jsonl)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 3, "Concurrent analyzer calls")
	cmd.Flags().IntVar(&limit, "limit", 0, "Evaluate at most this many records (0 = all)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeRun(ctx context.Context, analyzer providers.ProfileAnalyzer, datasetPath string, concurrency, limit int) error {
	slog.Info("Starting evaluation run", "dataset", datasetPath, "concurrency", concurrency)

	records, err := evaluation.NewLoader(datasetPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	slog.Info("Dataset loaded", "records", len(records))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan evaluation.Result, len(records))

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record evaluation.ProfileRecord) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Analyzing record", "id", record.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))
			resultsChan <- analyzeRecord(ctx, analyzer, record)
		}(i, record)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]evaluation.Result, 0, len(records))
	for result := range resultsChan {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	summary := evaluation.Summarize(results)
	path, err := evaluation.SaveToYAML(os.Getenv("GEMINI_TEXT_MODEL"), datasetPath, results)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Printf("\nRecords:               %d\n", summary.Records)
	fmt.Printf("Failures:              %d\n", summary.Failures)
	fmt.Printf("Gender accuracy:       %.1f%%\n", summary.GenderAccuracy*100)
	fmt.Printf("Mean keyword coverage: %.1f%%\n", summary.MeanKeywordCoverage*100)
	fmt.Printf("\nResults saved to: %s\n", path)

	return nil
}

func analyzeRecord(ctx context.Context, analyzer providers.ProfileAnalyzer, record evaluation.ProfileRecord) evaluation.Result {
	data, err := os.ReadFile(record.ImagePath)
	if err != nil {
		return evaluation.Result{ID: record.ID, ExpectedGender: record.ExpectedGender, Error: err.Error()}
	}

	mimeType := record.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	profile, err := analyzer.AnalyzeProfile(ctx, models.ImageData{Data: data, MimeType: mimeType})
	if err != nil {
		return evaluation.Result{ID: record.ID, ExpectedGender: record.ExpectedGender, Error: err.Error()}
	}

	return evaluation.Score(record, profile)
}
