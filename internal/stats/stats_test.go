package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestRecord(t *testing.T) {
	s := &Stats{StartTime: time.Now()}
	s.record(KindVideo, 10<<20, 2*time.Second)
	s.record(KindDocument, 80<<20, 4*time.Second)
	s.record(KindFailed, 0, time.Second)

	got := s.snapshot()
	want := StatSnapshot{
		Downloads:   2,
		Failures:    1,
		Videos:      1,
		Documents:   1,
		TotalBytes:  90 << 20,
		AvgDuration: 3 * time.Second,
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(StatSnapshot{}, "Uptime")); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptySnapshot(t *testing.T) {
	s := &Stats{StartTime: time.Now()}
	if got := s.snapshot(); got.AvgDuration != 0 || got.Downloads != 0 {
		t.Errorf("empty snapshot = %+v", got)
	}
}

func TestHostSnapshot(t *testing.T) {
	dir := t.TempDir()
	info := HostSnapshot(dir)
	if info.CPUCores < 1 || info.ProcessPID == 0 || info.DiskPath != dir {
		t.Errorf("HostSnapshot = %+v", info)
	}
	info.Log()
}

func TestLowDisk(t *testing.T) {
	cases := []struct {
		total, free uint64
		want        bool
	}{
		{0, 0, false},
		{10 << 30, 5 << 30, false},
		{10 << 30, 100 << 20, true},
	}
	for _, tc := range cases {
		h := &HostInfo{DiskTotal: tc.total, DiskFree: tc.free}
		if got := h.LowDisk(); got != tc.want {
			t.Errorf("LowDisk(total=%d free=%d) = %v", tc.total, tc.free, got)
		}
	}
}
