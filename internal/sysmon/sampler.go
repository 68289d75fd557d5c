/*
Package sysmon samples live system health for the predictive engine.

The Sampler interface isolates the rest of the engine from the OS: the
real implementation reads CPU, memory, disk, network and process counts
via gopsutil, while tests and synthetic data seeding use StaticSampler.
*/
package sysmon

import (
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	gopsnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// Sampler provides point-in-time system health readings.
type Sampler interface {
	// CPUPercent returns total CPU utilization (0-100).
	CPUPercent() (float64, error)

	// MemoryPercent returns memory utilization (0-100).
	MemoryPercent() (float64, error)

	// DiskPercent returns used/total*100 for the root volume (0-100).
	DiskPercent() (float64, error)

	// NetworkBytes returns the cumulative bytes sent+received counter.
	NetworkBytes() (float64, error)

	// ProcessCount returns the number of live processes.
	ProcessCount() (int, error)
}

// cpuSampleInterval is the blocking window for CPU percentage sampling.
const cpuSampleInterval = 100 * time.Millisecond

// SystemSampler reads live values from the host via gopsutil.
type SystemSampler struct {
	// DiskPath is the mount point measured by DiskPercent (default "/").
	DiskPath string
}

// NewSystemSampler creates a sampler for the local host.
func NewSystemSampler() *SystemSampler {
	return &SystemSampler{DiskPath: "/"}
}

// CPUPercent returns total CPU utilization over a short sampling window.
func (s *SystemSampler) CPUPercent() (float64, error) {
	percents, err := cpu.Percent(cpuSampleInterval, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, nil
	}
	return percents[0], nil
}

// MemoryPercent returns virtual memory utilization.
func (s *SystemSampler) MemoryPercent() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

// DiskPercent returns used/total*100 for the configured mount point.
func (s *SystemSampler) DiskPercent() (float64, error) {
	usage, err := disk.Usage(s.DiskPath)
	if err != nil {
		return 0, err
	}
	if usage.Total == 0 {
		return 0, nil
	}
	return float64(usage.Used) / float64(usage.Total) * 100, nil
}

// NetworkBytes returns the cumulative bytes sent+received across all
// interfaces. The counter is monotonic, not a rate.
func (s *SystemSampler) NetworkBytes() (float64, error) {
	counters, err := gopsnet.IOCounters(false)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, c := range counters {
		total += c.BytesSent + c.BytesRecv
	}
	return float64(total), nil
}

// ProcessCount returns the number of live processes.
func (s *SystemSampler) ProcessCount() (int, error) {
	pids, err := process.Pids()
	if err != nil {
		return 0, err
	}
	return len(pids), nil
}

// StaticSampler returns fixed values. Used in tests and for synthetic
// data seeding from the CLI.
type StaticSampler struct {
	CPU       float64
	Memory    float64
	Disk      float64
	Network   float64
	Processes int
}

func (s *StaticSampler) CPUPercent() (float64, error)    { return s.CPU, nil }
func (s *StaticSampler) MemoryPercent() (float64, error) { return s.Memory, nil }
func (s *StaticSampler) DiskPercent() (float64, error)   { return s.Disk, nil }
func (s *StaticSampler) NetworkBytes() (float64, error)  { return s.Network, nil }
func (s *StaticSampler) ProcessCount() (int, error)      { return s.Processes, nil }
