package compiler

import (
	"sync"
	"time"
)

// Metrics tracks compilation passes
type Metrics struct {
	TotalPasses      int64         `json:"total_passes"`
	SuccessfulPasses int64         `json:"successful_passes"`
	FailedPasses     int64         `json:"failed_passes"`
	LoadFailures     int64         `json:"load_failures"`
	AverageDuration  time.Duration `json:"average_duration"`
	TotalDuration    time.Duration `json:"total_duration"`
	LastDuration     time.Duration `json:"last_duration"`
	LastPass         time.Time     `json:"last_pass"`
	LastFailed       []string      `json:"last_failed,omitempty"`
	LastError        string        `json:"last_error,omitempty"`
	mutex            sync.RWMutex
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordBatch records a completed pass
func (m *Metrics) RecordBatch(batch *Batch) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.record(batch.Duration)

	m.LastFailed = m.LastFailed[:0]
	for _, a := range batch.Failed() {
		m.LastFailed = append(m.LastFailed, a.Name)
	}

	if batch.OK() {
		m.SuccessfulPasses++
		m.LastError = ""
	} else {
		m.FailedPasses++
		m.LastError = batch.Err().Error()
	}
}

// RecordLoadFailure records a pass that could not load the token document
func (m *Metrics) RecordLoadFailure(err error, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.record(duration)
	m.FailedPasses++
	m.LoadFailures++
	m.LastFailed = nil
	m.LastError = err.Error()
}

func (m *Metrics) record(duration time.Duration) {
	m.TotalPasses++
	m.TotalDuration += duration
	m.LastDuration = duration
	m.LastPass = time.Now()
	m.AverageDuration = m.TotalDuration / time.Duration(m.TotalPasses)
}

// Snapshot returns a copy of current metrics
func (m *Metrics) Snapshot() Metrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	failed := make([]string, len(m.LastFailed))
	copy(failed, m.LastFailed)

	// mutex is omitted to prevent lock copying
	return Metrics{
		TotalPasses:      m.TotalPasses,
		SuccessfulPasses: m.SuccessfulPasses,
		FailedPasses:     m.FailedPasses,
		LoadFailures:     m.LoadFailures,
		AverageDuration:  m.AverageDuration,
		TotalDuration:    m.TotalDuration,
		LastDuration:     m.LastDuration,
		LastPass:         m.LastPass,
		LastFailed:       failed,
		LastError:        m.LastError,
	}
}

// Reset resets all metrics
func (m *Metrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalPasses = 0
	m.SuccessfulPasses = 0
	m.FailedPasses = 0
	m.LoadFailures = 0
	m.AverageDuration = 0
	m.TotalDuration = 0
	m.LastDuration = 0
	m.LastPass = time.Time{}
	m.LastFailed = nil
	m.LastError = ""
}

// SuccessRate returns the success rate as a percentage
func (m *Metrics) SuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalPasses == 0 {
		return 0.0
	}

	return float64(m.SuccessfulPasses) / float64(m.TotalPasses) * 100.0
}
