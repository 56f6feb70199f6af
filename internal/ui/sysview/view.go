// Package sysview renders a system snapshot and the refresh history as the
// scrollable content under the pull-to-refresh indicator.
package sysview

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Elpulgo/pullrefresh/internal/history"
	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
	"github.com/Elpulgo/pullrefresh/internal/ui/styles"
)

const (
	labelWidth = 10
	barWidth   = 20
)

// Placeholder is shown before the first snapshot arrives.
const Placeholder = "No data yet. Pull down or press r to load."

// Content holds what the view shows.
type Content struct {
	Snapshot *sysinfo.Snapshot
	History  []history.Entry
	Now      time.Time
}

// Render returns the content as lines of at most width cells.
func Render(c Content, s *styles.Styles, width int) string {
	var sb strings.Builder

	if c.Snapshot == nil {
		sb.WriteString(s.Muted.Render(Placeholder))
		sb.WriteString("\n")
	} else {
		renderSnapshot(&sb, *c.Snapshot, s, width)
	}

	if len(c.History) > 0 {
		sb.WriteString("\n")
		renderHistory(&sb, c.History, c.Now, s)
	}

	out := strings.TrimRight(sb.String(), "\n")
	if width > 0 {
		out = lipgloss.NewStyle().MaxWidth(width).Render(out)
	}
	return out
}

func renderSnapshot(sb *strings.Builder, snap sysinfo.Snapshot, s *styles.Styles, width int) {
	host := snap.Host
	title := host.Hostname
	if title == "" {
		title = "unknown host"
	}
	if host.Platform != "" {
		title = fmt.Sprintf("%s (%s %s)", title, host.Platform, host.PlatformVersion)
	}
	sb.WriteString(s.Header.Render(strings.TrimSpace(title)))
	sb.WriteString("\n")
	sb.WriteString(s.Muted.Render(strings.Repeat("─", min(max(width-2, 10), 60))))
	sb.WriteString("\n")

	row(sb, s, "Kernel", host.KernelVersion)
	if host.Uptime > 0 {
		row(sb, s, "Uptime", sysinfo.HumanDuration(host.Uptime))
	}
	if !snap.CollectedAt.IsZero() {
		row(sb, s, "Collected", snap.CollectedAt.Format("15:04:05"))
	}
	sb.WriteString("\n")

	row(sb, s, "CPU", fmt.Sprintf("%s %5.1f%% of %d cores", bar(snap.CPU.Percent, s), snap.CPU.Percent, snap.CPU.Cores))
	row(sb, s, "Memory", fmt.Sprintf("%s %5.1f%% %s / %s", bar(snap.Memory.UsedPercent, s), snap.Memory.UsedPercent,
		sysinfo.HumanBytes(snap.Memory.Used), sysinfo.HumanBytes(snap.Memory.Total)))
	if snap.Disk.Total > 0 {
		row(sb, s, "Disk", fmt.Sprintf("%s %5.1f%% %s on %s", bar(snap.Disk.UsedPercent, s), snap.Disk.UsedPercent,
			sysinfo.HumanBytes(snap.Disk.Used), snap.Disk.Path))
	}
	row(sb, s, "Load", fmt.Sprintf("%.2f %.2f %.2f", snap.Load.Load1, snap.Load.Load5, snap.Load.Load15))
	row(sb, s, "Network", fmt.Sprintf("↑ %s  ↓ %s", sysinfo.HumanBytes(snap.Network.BytesSent), sysinfo.HumanBytes(snap.Network.BytesRecv)))

	if len(snap.Processes) > 0 {
		sb.WriteString("\n")
		sb.WriteString(s.Title.Render("Top processes"))
		sb.WriteString("\n")
		sb.WriteString(s.Muted.Render(fmt.Sprintf("%7s  %6s  %6s  %s", "PID", "CPU%", "MEM%", "NAME")))
		sb.WriteString("\n")
		for _, p := range snap.Processes {
			fmt.Fprintf(sb, "%7d  %6.1f  %6.1f  %s\n", p.PID, p.CPU, p.Memory, p.Name)
		}
	}

	if len(snap.Warnings) > 0 {
		sb.WriteString("\n")
		for _, w := range snap.Warnings {
			sb.WriteString(s.Warning.Render("! " + w))
			sb.WriteString("\n")
		}
	}
}

func renderHistory(sb *strings.Builder, entries []history.Entry, now time.Time, s *styles.Styles) {
	sb.WriteString(s.Title.Render("Recent refreshes"))
	sb.WriteString("\n")

	for _, e := range entries {
		line := fmt.Sprintf("%s #%-4d %-8s %s", outcomeIcon(e.Outcome, s), e.Episode, e.Trigger, formatDuration(e.Duration))
		if !now.IsZero() && !e.FinishedAt.IsZero() {
			line += s.Muted.Render("  " + sysinfo.HumanAge(now.Sub(e.FinishedAt)))
		}
		if e.Error != "" {
			line += "  " + s.Error.Render(e.Error)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func row(sb *strings.Builder, s *styles.Styles, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString(s.Label.Width(labelWidth).Render(label))
	sb.WriteString(s.Value.Render(value))
	sb.WriteString("\n")
}

// bar renders a usage gauge coloured by how full it is.
func bar(percent float64, s *styles.Styles) string {
	p := math.Max(0, math.Min(100, percent))
	filled := int(math.Round(p / 100 * barWidth))

	style := s.Success
	switch {
	case p >= 85:
		style = s.Error
	case p >= 60:
		style = s.Warning
	}
	return style.Render(strings.Repeat("█", filled)) + s.Muted.Render(strings.Repeat("░", barWidth-filled))
}

func outcomeIcon(outcome string, s *styles.Styles) string {
	switch outcome {
	case history.OutcomeOK:
		return s.Success.Render("✓")
	case history.OutcomeError:
		return s.Error.Render("✗")
	case history.OutcomeCancelled:
		return s.Muted.Render("○")
	default:
		return s.Muted.Render("?")
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", mins, secs)
}
