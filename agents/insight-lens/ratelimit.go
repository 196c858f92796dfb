package insightlens

import (
	"context"
	"errors"
	"log"
	"time"

	"insightlens/internal/models"

	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("Too many summaries requested. Please wait a moment and try again.")

// rateLimitedSummarizer refuses requests once the process-wide token bucket is
// empty. Refused requests are not queued.
type rateLimitedSummarizer struct {
	next    VideoSummarizer
	limiter *rate.Limiter
}

// NewRateLimitedSummarizer allows perMinute requests with the given burst. A
// non-positive perMinute disables limiting.
func NewRateLimitedSummarizer(next VideoSummarizer, perMinute, burst int) VideoSummarizer {
	if perMinute <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedSummarizer{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

func (r *rateLimitedSummarizer) GenerateVideoSummary(ctx context.Context, videoURL string) (*models.VideoSummary, error) {
	if !r.limiter.Allow() {
		log.Printf("Warning: rate limit reached, refusing summary for %s", videoURL)
		return nil, ErrRateLimited
	}
	return r.next.GenerateVideoSummary(ctx, videoURL)
}
