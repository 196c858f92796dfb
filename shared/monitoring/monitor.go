package monitoring

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Monitor tracks the outcome of summary requests for the health endpoints.
type Monitor struct {
	mu              sync.RWMutex
	lastSuccess     bool
	lastRequestTime time.Time
	succeeded       int
	failed          int
	rejected        int
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) RecordSuccess(videoURL string, duration time.Duration) {
	m.mu.Lock()
	m.lastSuccess = true
	m.lastRequestTime = time.Now()
	m.succeeded++
	m.mu.Unlock()

	log.Printf("✅ Summary generated for %s (took %v)", videoURL, duration)
}

// RecordRejection counts a submission that ended without a summary for a
// reason outside the service's control, such as a rate-limited request or a
// topic blocked by content filtering. Health status is unchanged.
func (m *Monitor) RecordRejection(err error) {
	m.mu.Lock()
	m.rejected++
	m.mu.Unlock()

	log.Printf("⚠️  Summary rejected: %s", err.Error())
}

func (m *Monitor) RecordFailure(videoURL string, err error, duration time.Duration) {
	m.mu.Lock()
	m.lastSuccess = false
	m.lastRequestTime = time.Now()
	m.failed++
	m.mu.Unlock()

	log.Printf("🚨 Summary failed for %s: %s (Duration: %v)", videoURL, err.Error(), duration)
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRequestTime.IsZero() {
		return true // No requests yet, assume healthy
	}
	return m.lastSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := fmt.Sprintf("%d succeeded, %d failed, %d rejected", m.succeeded, m.failed, m.rejected)
	if m.lastRequestTime.IsZero() {
		if m.rejected > 0 {
			return fmt.Sprintf("No summaries yet (%s)", counts)
		}
		return "No summaries yet"
	}

	if m.lastSuccess {
		return fmt.Sprintf("✅ Last summary: %s (%s)", m.lastRequestTime.Format("Jan 2 15:04"), counts)
	}
	return fmt.Sprintf("❌ Last summary failed: %s (%s)", m.lastRequestTime.Format("Jan 2 15:04"), counts)
}
