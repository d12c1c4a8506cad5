package monitor

import (
	"time"

	"github.com/hubenschmidt/go-puppyos/core"
)

type DispatchMetrics struct {
	Outcome  core.Outcome  `json:"outcome"`
	Status   int           `json:"status"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration"`
}

type OutcomeStats struct {
	Count         int           `json:"count"`
	Bytes         int64         `json:"bytes"`
	TotalDuration time.Duration `json:"total_duration"`
}

type Summary struct {
	Total     int                           `json:"total"`
	Bytes     int64                         `json:"bytes"`
	Outcomes  map[core.Outcome]OutcomeStats `json:"outcomes"`
	StartTime time.Time                     `json:"start_time"`
	EndTime   time.Time                     `json:"end_time"`
}
