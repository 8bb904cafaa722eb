package stats

import (
	"sync"
	"time"
)

// Counters for the current process. Nothing is persisted.
type Stats struct {
	mu            sync.RWMutex
	Downloads     int64
	Failures      int64
	Videos        int64
	Documents     int64
	TotalBytes    int64
	TotalDuration time.Duration
	StartTime     time.Time
}

var globalStats = &Stats{
	StartTime: time.Now(),
}

type Kind int

const (
	KindFailed Kind = iota
	KindVideo
	KindDocument
)

func RecordDownload(kind Kind, size int64, duration time.Duration) {
	globalStats.record(kind, size, duration)
}

func (s *Stats) record(kind Kind, size int64, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindFailed:
		s.Failures++
		return
	case KindVideo:
		s.Videos++
	case KindDocument:
		s.Documents++
	}
	s.Downloads++
	s.TotalBytes += size
	s.TotalDuration += duration
}

type StatSnapshot struct {
	Downloads   int64
	Failures    int64
	Videos      int64
	Documents   int64
	TotalBytes  int64
	AvgDuration time.Duration
	Uptime      time.Duration
}

func GetSnapshot() StatSnapshot {
	return globalStats.snapshot()
}

func (s *Stats) snapshot() StatSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	avg := time.Duration(0)
	if s.Downloads > 0 {
		avg = s.TotalDuration / time.Duration(s.Downloads)
	}

	return StatSnapshot{
		Downloads:   s.Downloads,
		Failures:    s.Failures,
		Videos:      s.Videos,
		Documents:   s.Documents,
		TotalBytes:  s.TotalBytes,
		AvgDuration: avg,
		Uptime:      time.Since(s.StartTime),
	}
}
