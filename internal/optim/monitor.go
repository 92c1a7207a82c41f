package optim

import "time"

// Monitor receives instrumentation from a running search.
// metrics.Collector implements it.
type Monitor interface {
	RecordEvaluation(body, outcome string, ticks int)
	RecordGeneration(body string, best, mean float64, elapsed time.Duration)
	RecordSearch(body, status string)
}

type nopMonitor struct{}

func (nopMonitor) RecordEvaluation(string, string, int)                     {}
func (nopMonitor) RecordGeneration(string, float64, float64, time.Duration) {}
func (nopMonitor) RecordSearch(string, string)                              {}
