package insightlens

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"insightlens/internal/models"
	"insightlens/shared/ai"
	"insightlens/shared/monitoring"
)

// Input errors are detected before any request is sent.
var (
	ErrEmptyInput = errors.New("Please enter a YouTube video URL.")
	ErrInvalidURL = errors.New("Please enter a valid URL.")
)

const unknownErrorMessage = "An unknown error occurred."

// VideoSummarizer produces a summary for a video URL.
type VideoSummarizer interface {
	GenerateVideoSummary(ctx context.Context, videoURL string) (*models.VideoSummary, error)
}

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseSuccess Phase = "success"
)

// ViewState is everything the page renders.
type ViewState struct {
	URL     string
	Summary *models.VideoSummary
	Loading bool
	Error   string
}

// Phase derives the view phase from the state flags.
func (v ViewState) Phase() Phase {
	switch {
	case v.Loading:
		return PhaseLoading
	case v.Error != "":
		return PhaseError
	case v.Summary != nil:
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// Controller owns one view state and is its only writer.
type Controller struct {
	mu         sync.Mutex
	state      ViewState
	summarizer VideoSummarizer
	monitor    *monitoring.Monitor
}

func NewController(summarizer VideoSummarizer, monitor *monitoring.Monitor) *Controller {
	return &Controller{
		summarizer: summarizer,
		monitor:    monitor,
	}
}

// State returns a snapshot of the view state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) SetURL(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.URL = text
}

// Submit validates the current input and, when it is valid, runs the summary
// request to completion.
func (c *Controller) Submit(ctx context.Context) {
	if run := c.Start(); run != nil {
		run(ctx)
	}
}

// Start validates the current input and moves the view to loading. It returns
// the function that performs the request, or nil when nothing is to be sent:
// the input was rejected or a request is already in flight.
func (c *Controller) Start() func(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked()
}

// StartURL is SetURL followed by Start as one step. The input is left alone
// while a request is in flight.
func (c *Controller) StartURL(text string) func(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Loading {
		return nil
	}
	c.state.URL = text
	return c.startLocked()
}

func (c *Controller) startLocked() func(ctx context.Context) {
	if c.state.Loading {
		return nil
	}

	videoURL, err := validateVideoURL(c.state.URL)
	if err != nil {
		c.state.Error = err.Error()
		return nil
	}

	c.state.Loading = true
	c.state.Error = ""
	c.state.Summary = nil

	return func(ctx context.Context) {
		c.run(ctx, videoURL)
	}
}

func (c *Controller) run(ctx context.Context, videoURL string) {
	startTime := time.Now()
	summary, err := c.summarizer.GenerateVideoSummary(ctx, videoURL)

	c.mu.Lock()
	c.state.Loading = false
	if err != nil {
		c.state.Error = errorMessage(err)
	} else {
		c.state.Summary = summary
	}
	c.mu.Unlock()

	if c.monitor == nil {
		return
	}
	duration := time.Since(startTime)
	switch {
	case err == nil:
		c.monitor.RecordSuccess(videoURL, duration)
	case errors.Is(err, ErrRateLimited), errors.Is(err, ai.ErrSafetyBlocked), errors.Is(err, ai.ErrEmptyResponse):
		// Outcomes that say nothing about the service's health.
		c.monitor.RecordRejection(err)
	default:
		c.monitor.RecordFailure(videoURL, err, duration)
	}
}

// validateVideoURL returns the trimmed input when it is a well-formed absolute URL.
func validateVideoURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyInput
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" {
		return "", ErrInvalidURL
	}
	scheme := strings.ToLower(u.Scheme)
	if _, ok := hostSchemes[scheme]; ok {
		// Browsers treat "http:host" and "http:///host" like "http://host".
		rest := strings.TrimLeft(trimmed[len(u.Scheme)+1:], `/\`)
		u, err = url.Parse(scheme + "://" + rest)
		if err != nil || u.Host == "" || !validPort(u.Port()) {
			return "", ErrInvalidURL
		}
		return trimmed, nil
	}
	if u.Host == "" && u.Opaque == "" && u.Path == "" {
		return "", ErrInvalidURL
	}
	if u.Host != "" && !validPort(u.Port()) {
		return "", ErrInvalidURL
	}

	return trimmed, nil
}

// hostSchemes always carry a host, whatever the number of slashes typed.
var hostSchemes = map[string]struct{}{
	"http":  {},
	"https": {},
	"ftp":   {},
	"ws":    {},
	"wss":   {},
}

func validPort(port string) bool {
	if port == "" {
		return true
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownErrorMessage
}
