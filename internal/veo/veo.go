// Package veo generates the looping avatar video through the Veo
// long-running REST operation, which the Gemini Go SDK does not cover.
package veo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/abjohnson5f/The-Mirror/internal/media"
	"github.com/abjohnson5f/The-Mirror/internal/models"
)

const (
	defaultModel = "veo-3.1-fast-generate-preview"
	baseURL      = "https://generativelanguage.googleapis.com/v1beta"

	avatarPrompt = `A cinematic wide shot. Full body visible from head to toe.
The person in the uploaded image stands in a luxurious, private walk-in closet with dark wood cabinetry, warm ambient lighting, and shelves of clothes in the background.
The person turns slowly 360 degrees to show their outfit.
Maintain facial identity and features exactly.
Camera Distance: Far enough to show feet and head clearly with space around them.
Atmosphere: High-end, expensive, warm, sophisticated.`
)

// Synthesizer produces the avatar video and stores it for serving.
type Synthesizer struct {
	HTTPClient   *http.Client
	PollInterval time.Duration

	model string
	media *media.Store
}

// NewSynthesizer creates a synthesizer storing videos in store.
func NewSynthesizer(store *media.Store) *Synthesizer {
	model := os.Getenv("VEO_MODEL")
	if model == "" {
		model = defaultModel
	}
	return &Synthesizer{
		HTTPClient:   &http.Client{Timeout: 60 * time.Second},
		PollInterval: 10 * time.Second,
		model:        model,
		media:        store,
	}
}

type operation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

// SynthesizeAvatar starts a video generation from the user photo, polls
// the operation until it settles, downloads the result, and returns a
// serving reference.
func (s *Synthesizer) SynthesizeAvatar(ctx context.Context, image models.ImageData) (models.MediaRef, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	op, err := s.startGeneration(ctx, apiKey, image)
	if err != nil {
		return "", err
	}

	slog.Info("Avatar generation started", "operation", op.Name)

	for !op.Done {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.PollInterval):
		}

		op, err = s.pollOperation(ctx, apiKey, op.Name)
		if err != nil {
			return "", err
		}
	}

	if op.Error != nil {
		return "", fmt.Errorf("video generation failed: %s", op.Error.Message)
	}

	samples := op.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 || samples[0].Video.URI == "" {
		return "", fmt.Errorf("video generation failed: no video returned")
	}

	return s.downloadVideo(ctx, apiKey, samples[0].Video.URI)
}

func (s *Synthesizer) startGeneration(ctx context.Context, apiKey string, image models.ImageData) (*operation, error) {
	requestBody := map[string]any{
		"instances": []map[string]any{
			{
				"prompt": avatarPrompt,
				"image": map[string]string{
					"bytesBase64Encoded": base64.StdEncoding.EncodeToString(image.Data),
					"mimeType":           image.MimeType,
				},
			},
		},
		"parameters": map[string]any{
			"aspectRatio": "9:16",
			"resolution":  "720p",
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning?key=%s", baseURL, s.model, apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to start video generation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("video API returned status %d: %s", resp.StatusCode, string(body))
	}

	var op operation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("failed to decode operation: %w", err)
	}
	return &op, nil
}

func (s *Synthesizer) pollOperation(ctx context.Context, apiKey, name string) (*operation, error) {
	url := fmt.Sprintf("%s/%s?key=%s", baseURL, name, apiKey)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to poll operation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("operation poll returned status %d: %s", resp.StatusCode, string(body))
	}

	var op operation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("failed to decode operation: %w", err)
	}
	return &op, nil
}

func (s *Synthesizer) downloadVideo(ctx context.Context, apiKey, uri string) (models.MediaRef, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", uri+"&key="+apiKey, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download generated video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("video download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read video data: %w", err)
	}

	ref, err := s.media.Save(data, ".mp4")
	if err != nil {
		return "", err
	}

	slog.Info("Avatar video saved", "ref", string(ref), "bytes", len(data))
	return ref, nil
}
