package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"insightlens/internal/models"
	"insightlens/shared/config"

	"google.golang.org/genai"
)

// User-facing failures of a summary request. The underlying cause is logged,
// never returned.
var (
	ErrEmptyResponse    = errors.New("The API returned an empty response. The video topic might be too niche or the URL is invalid. Please try another.")
	ErrSafetyBlocked    = errors.New("The request was blocked due to safety concerns. Please modify your topic and try again.")
	ErrGenerationFailed = errors.New("Failed to generate video summary from AI. Please try again later.")
)

// ContentGenerator is the part of *genai.Models the summarizer needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Summarizer struct {
	models      ContentGenerator
	model       string
	temperature float32
}

func NewSummarizer(cfg *config.Config) (*Summarizer, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.AI.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return NewSummarizerWithGenerator(client.Models, cfg.AI.Model, cfg.AI.Temperature), nil
}

func NewSummarizerWithGenerator(gen ContentGenerator, model string, temperature float32) *Summarizer {
	return &Summarizer{
		models:      gen,
		model:       model,
		temperature: temperature,
	}
}

// GenerateVideoSummary asks the model for a plausible summary of the video at
// videoURL. The model never sees the video itself, only the URL text.
func (s *Summarizer) GenerateVideoSummary(ctx context.Context, videoURL string) (*models.VideoSummary, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(buildSummaryPrompt(videoURL), genai.RoleUser),
	}

	result, err := s.models.GenerateContent(ctx, s.model, contents, s.generationConfig())
	if err != nil {
		log.Printf("Error generating video summary for %s: %v", videoURL, err)
		if strings.Contains(err.Error(), "SAFETY") {
			return nil, ErrSafetyBlocked
		}
		return nil, ErrGenerationFailed
	}

	if result == nil {
		log.Printf("Empty response from AI for %s", videoURL)
		return nil, ErrEmptyResponse
	}

	if reason := blockedReason(result); reason != "" {
		log.Printf("Summary request for %s blocked: %s", videoURL, reason)
		return nil, ErrSafetyBlocked
	}

	responseText := strings.TrimSpace(result.Text())
	if responseText == "" {
		log.Printf("Empty response from AI for %s", videoURL)
		return nil, ErrEmptyResponse
	}

	summary, err := decodeVideoSummary(responseText)
	if err != nil {
		log.Printf("Error decoding video summary for %s: %v", videoURL, err)
		return nil, ErrGenerationFailed
	}

	return summary, nil
}

func (s *Summarizer) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   summarySchema(),
		Temperature:      genai.Ptr(s.temperature),
	}
}

// blockedReason returns a non-empty reason when the prompt or every non-nil candidate
// was stopped by content filtering.
func blockedReason(result *genai.GenerateContentResponse) string {
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return "prompt " + string(fb.BlockReason)
	}
	var reason genai.FinishReason
	for _, c := range result.Candidates {
		if c == nil {
			continue
		}
		if !isSafetyFinish(c.FinishReason) {
			return ""
		}
		if reason == "" {
			reason = c.FinishReason
		}
	}
	if reason == "" {
		return ""
	}
	return "candidate " + string(reason)
}

func isSafetyFinish(reason genai.FinishReason) bool {
	switch reason {
	case genai.FinishReasonSafety,
		genai.FinishReasonBlocklist,
		genai.FinishReasonProhibitedContent,
		genai.FinishReasonSPII:
		return true
	}
	return false
}
