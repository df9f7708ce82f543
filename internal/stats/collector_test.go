package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCollector(t *testing.T) {
	c, err := NewCollector(5 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	c.Start()

	garbage := make([][]byte, 0, 100)
	for range 100 {
		garbage = append(garbage, make([]byte, 1<<16))
	}
	time.Sleep(30 * time.Millisecond)
	_ = garbage

	stats := c.Stop()
	if len(stats.Samples) < 2 {
		t.Fatalf("expected initial and final samples, got %d", len(stats.Samples))
	}
	if stats.Summary.SampleCount != len(stats.Samples) {
		t.Fatalf("summary counts %d samples of %d", stats.Summary.SampleCount, len(stats.Samples))
	}
	if stats.Summary.PeakHeapAlloc == 0 || stats.TotalElapsed <= 0 {
		t.Fatalf("unexpected summary %+v", stats.Summary)
	}

	var buf bytes.Buffer
	if err := stats.WriteReport(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Peak heap:") {
		t.Fatalf("unexpected report %q", buf.String())
	}
}

func TestSummarize(t *testing.T) {
	s := summarize([]RuntimeStatPoint{
		{HeapAlloc: 10, CPUPercent: 20, NumGC: 1},
		{HeapAlloc: 30, CPUPercent: 40, NumGC: 3, ProcessRSSBytes: 7},
	})
	if s.PeakHeapAlloc != 30 || s.PeakCPUPercent != 40 || s.AvgCPUPercent != 30 || s.TotalGCCycles != 3 || s.PeakProcessRSS != 7 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if empty := summarize(nil); empty.SampleCount != 0 || empty.AvgCPUPercent != 0 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}
