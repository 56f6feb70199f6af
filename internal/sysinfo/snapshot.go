// Package sysinfo collects a point-in-time snapshot of the local system. It
// is the data source that the pull-to-refresh demo reloads.
package sysinfo

import (
	"fmt"
	"sort"
	"time"
)

// Snapshot is one collection of system facts.
type Snapshot struct {
	CollectedAt time.Time
	Host        HostInfo
	CPU         CPUInfo
	Memory      MemoryInfo
	Load        LoadInfo
	Disk        DiskInfo
	Network     NetworkInfo
	Processes   []Process

	// Warnings lists probes that failed while others succeeded.
	Warnings []string
}

type HostInfo struct {
	Hostname        string
	OS              string
	Platform        string
	PlatformVersion string
	KernelVersion   string
	Uptime          time.Duration
}

type CPUInfo struct {
	Cores   int
	Percent float64
}

type MemoryInfo struct {
	Total       uint64
	Used        uint64
	Available   uint64
	UsedPercent float64
}

type LoadInfo struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

type DiskInfo struct {
	Path        string
	Total       uint64
	Used        uint64
	UsedPercent float64
}

type NetworkInfo struct {
	BytesSent uint64
	BytesRecv uint64
}

// Process is one entry of the process table.
type Process struct {
	PID    int32
	Name   string
	CPU    float64 // percent
	Memory float32 // percent
}

// TopProcesses orders processes by CPU, then memory, then PID, and keeps the
// first n. A non-positive n keeps none.
func TopProcesses(ps []Process, n int) []Process {
	if n <= 0 {
		return nil
	}
	sorted := make([]Process, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.CPU != b.CPU {
			return a.CPU > b.CPU
		}
		if a.Memory != b.Memory {
			return a.Memory > b.Memory
		}
		return a.PID < b.PID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// HumanBytes formats a byte count with binary units, e.g. "1.5 GiB".
func HumanBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// HumanDuration formats an uptime as days, hours and minutes.
func HumanDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// HumanAge formats the time since an event, e.g. "just now" or "12s ago".
func HumanAge(d time.Duration) string {
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	default:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	}
}
