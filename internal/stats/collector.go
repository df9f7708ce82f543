// Package stats samples process runtime statistics while a long running
// step, such as building a large tree, is in progress.
package stats

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/process"
)

type RuntimeStats struct {
	StartTime    time.Time          `json:"start_time"`
	EndTime      time.Time          `json:"end_time"`
	TotalElapsed time.Duration      `json:"total_elapsed_ns"`
	Samples      []RuntimeStatPoint `json:"samples"`
	Summary      StatsSummary       `json:"summary"`
}

type RuntimeStatPoint struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`

	HeapAlloc       uint64 `json:"heap_alloc"`
	Sys             uint64 `json:"sys"`
	NumGC           uint32 `json:"num_gc"`
	ProcessRSSBytes uint64 `json:"process_rss_bytes"`

	CPUPercent   float64 `json:"cpu_percent"`
	NumGoroutine int     `json:"num_goroutine"`
}

type StatsSummary struct {
	PeakHeapAlloc  uint64  `json:"peak_heap_alloc"`
	PeakSys        uint64  `json:"peak_sys"`
	PeakProcessRSS uint64  `json:"peak_process_rss"`
	PeakCPUPercent float64 `json:"peak_cpu_percent"`
	AvgCPUPercent  float64 `json:"avg_cpu_percent"`
	TotalGCCycles  uint32  `json:"total_gc_cycles"`
	SampleCount    int     `json:"sample_count"`
}

type Collector struct {
	mu       sync.Mutex
	stats    RuntimeStats
	interval time.Duration
	proc     *process.Process

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewCollector(interval time.Duration) (*Collector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process info: %w", err)
	}

	return &Collector{
		interval: interval,
		proc:     proc,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}, nil
}

func (c *Collector) Start() {
	c.stats.StartTime = time.Now()
	go c.collect()
}

func (c *Collector) collect() {
	defer close(c.doneChan)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sample()
	for {
		select {
		case <-c.stopChan:
			c.sample()
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *Collector) sample() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	point := RuntimeStatPoint{
		ElapsedSeconds: time.Since(c.stats.StartTime).Seconds(),
		HeapAlloc:      memStats.HeapAlloc,
		Sys:            memStats.Sys,
		NumGC:          memStats.NumGC,
		NumGoroutine:   runtime.NumGoroutine(),
	}
	if memInfo, err := c.proc.MemoryInfo(); err == nil && memInfo != nil {
		point.ProcessRSSBytes = memInfo.RSS
	}
	if cpuPercent, err := c.proc.CPUPercent(); err == nil {
		point.CPUPercent = cpuPercent
	}

	c.mu.Lock()
	c.stats.Samples = append(c.stats.Samples, point)
	c.mu.Unlock()
}

// Stop takes a final sample and returns everything collected.
func (c *Collector) Stop() RuntimeStats {
	close(c.stopChan)
	<-c.doneChan

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.EndTime = time.Now()
	c.stats.TotalElapsed = c.stats.EndTime.Sub(c.stats.StartTime)
	c.stats.Summary = summarize(c.stats.Samples)

	return c.stats
}

func summarize(samples []RuntimeStatPoint) StatsSummary {
	var s StatsSummary
	var totalCPU float64
	for _, p := range samples {
		s.PeakHeapAlloc = max(s.PeakHeapAlloc, p.HeapAlloc)
		s.PeakSys = max(s.PeakSys, p.Sys)
		s.PeakProcessRSS = max(s.PeakProcessRSS, p.ProcessRSSBytes)
		s.PeakCPUPercent = max(s.PeakCPUPercent, p.CPUPercent)
		s.TotalGCCycles = max(s.TotalGCCycles, p.NumGC)
		totalCPU += p.CPUPercent
	}
	s.SampleCount = len(samples)
	if s.SampleCount > 0 {
		s.AvgCPUPercent = totalCPU / float64(s.SampleCount)
	}
	return s
}

func (stats RuntimeStats) WriteReport(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Duration:        %s\n"+
			"Samples:         %d\n"+
			"Peak heap:       %s\n"+
			"Peak sys:        %s\n"+
			"Peak RSS:        %s\n"+
			"Peak CPU:        %.2f%%\n"+
			"Average CPU:     %.2f%%\n"+
			"GC cycles:       %s\n",
		stats.TotalElapsed,
		stats.Summary.SampleCount,
		humanize.IBytes(stats.Summary.PeakHeapAlloc),
		humanize.IBytes(stats.Summary.PeakSys),
		humanize.IBytes(stats.Summary.PeakProcessRSS),
		stats.Summary.PeakCPUPercent,
		stats.Summary.AvgCPUPercent,
		humanize.Comma(int64(stats.Summary.TotalGCCycles)),
	)
	return err
}
