// Package metrics tracks pipeline counters for the monitoring
// endpoints.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ItemsDelivered     int64
	DuplicatesSkipped  int64
	FilteredOut        int64
	SourcesFailed      int64
	TranslationsFailed int64
	VideosDelivered    int64
	SessionsStarted    int64
	SessionsCompleted  int64
	ScheduledRuns      int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementItemsDelivered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsDelivered++
}

func (m *Metrics) IncrementDuplicatesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesSkipped++
}

func (m *Metrics) IncrementFilteredOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FilteredOut++
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) IncrementTranslationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsFailed++
}

func (m *Metrics) IncrementVideosDelivered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VideosDelivered++
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
}

func (m *Metrics) IncrementSessionsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsCompleted++
}

func (m *Metrics) IncrementScheduledRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScheduledRuns++
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"items_delivered":     m.ItemsDelivered,
		"duplicates_skipped":  m.DuplicatesSkipped,
		"filtered_out":        m.FilteredOut,
		"sources_failed":      m.SourcesFailed,
		"translations_failed": m.TranslationsFailed,
		"videos_delivered":    m.VideosDelivered,
		"sessions_started":    m.SessionsStarted,
		"sessions_completed":  m.SessionsCompleted,
		"scheduled_runs":      m.ScheduledRuns,
		"last_run_time":       m.LastRunTime.Format(time.RFC3339),
		"last_error_time":     m.LastErrorTime.Format(time.RFC3339),
		"last_error":          m.LastError,
		"is_healthy":          m.IsHealthy,
	}
}
