package insightlens

import (
	"context"
	"errors"
	"testing"
)

func TestRateLimitedSummarizer(t *testing.T) {
	fake := &fakeSummarizer{summary: sampleSummary()}
	limited := NewRateLimitedSummarizer(fake, 1, 2)

	for i := 0; i < 2; i++ {
		if _, err := limited.GenerateVideoSummary(context.Background(), "https://x.test"); err != nil {
			t.Fatalf("call %d: unexpected error %v", i, err)
		}
	}

	_, err := limited.GenerateVideoSummary(context.Background(), "https://x.test")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, want %v", err, ErrRateLimited)
	}
	if fake.callCount() != 2 {
		t.Errorf("calls = %d, want 2", fake.callCount())
	}
}

func TestRateLimitDisabled(t *testing.T) {
	fake := &fakeSummarizer{summary: sampleSummary()}
	if got := NewRateLimitedSummarizer(fake, 0, 0); got != VideoSummarizer(fake) {
		t.Error("Expected the summarizer to be returned unwrapped when limiting is disabled")
	}
}
