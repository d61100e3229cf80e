package client

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Stats holds execution statistics for a client. All counters are safe
// for concurrent use.
type Stats struct {
	// Queries is the total number of row-returning statements executed.
	Queries atomic.Int64
	// Execs is the total number of non-query statements executed.
	Execs atomic.Int64
	// Errors is the count of failed statements.
	Errors atomic.Int64
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// TotalDuration is the total time spent executing, in nanoseconds.
	TotalDuration atomic.Int64
}

func (s *Stats) record(duration time.Duration, err error, isQuery bool) {
	if isQuery {
		s.Queries.Add(1)
	} else {
		s.Execs.Add(1)
	}
	s.TotalDuration.Add(int64(duration))
	if err != nil {
		s.Errors.Add(1)
	}
}

// Snapshot returns a point-in-time copy of the statistics.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries:       s.Queries.Load(),
		Execs:         s.Execs.Load(),
		Errors:        s.Errors.Load(),
		SlowQueries:   s.SlowQueries.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
	}
}

// Reset resets all statistics to zero.
func (s *Stats) Reset() {
	s.Queries.Store(0)
	s.Execs.Store(0)
	s.Errors.Store(0)
	s.SlowQueries.Store(0)
	s.TotalDuration.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of client statistics.
type StatsSnapshot struct {
	Queries       int64
	Execs         int64
	Errors        int64
	SlowQueries   int64
	TotalDuration time.Duration
}

// AvgDuration returns the average statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	total := s.Queries + s.Execs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.Queries, s.Execs, s.TotalDuration, s.AvgDuration(),
		s.SlowQueries, s.Errors,
	)
}
