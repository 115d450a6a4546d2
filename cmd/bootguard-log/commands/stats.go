package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bootguard-fw/bootguard-go/pkg/diag"
)

// Stats holds aggregate statistics about a diagnostic log.
type Stats struct {
	TotalEvents      int
	EventsByPhase    map[diag.Phase]int
	EventsBySeverity map[diag.Severity]int
	Boots            map[string]*BootStats
	Faults           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// BootStats holds statistics for a single boot session.
type BootStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Faults    int
	Fatals    int
}

// RunStats analyzes the diagnostic log and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := diag.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open diag log: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByPhase:    make(map[diag.Phase]int),
		EventsBySeverity: make(map[diag.Severity]int),
		Boots:            make(map[string]*BootStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByPhase[event.Phase]++
		stats.EventsBySeverity[event.Severity]++
		if event.Exception != nil {
			stats.Faults++
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		boot, ok := stats.Boots[event.BootID]
		if !ok {
			boot = &BootStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			stats.Boots[event.BootID] = boot
		}
		boot.Events++
		if event.Timestamp.After(boot.LastSeen) {
			boot.LastSeen = event.Timestamp
		}
		if event.Exception != nil {
			boot.Faults++
		}
		if event.Severity == diag.SeverityFatal {
			boot.Fatals++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)
	if stats.TotalEvents == 0 {
		return
	}

	fmt.Fprintf(w, "Time range:   %s .. %s\n",
		stats.TimeRange.Start.UTC().Format(time.RFC3339),
		stats.TimeRange.End.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Faults:       %d\n", stats.Faults)

	fmt.Fprintln(w, "\nEvents by phase:")
	for _, phase := range []diag.Phase{diag.PhaseInit, diag.PhaseRegistration, diag.PhaseFault, diag.PhaseReset} {
		if n := stats.EventsByPhase[phase]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", phase, n)
		}
	}

	fmt.Fprintln(w, "\nEvents by severity:")
	for _, sev := range []diag.Severity{diag.SeverityInfo, diag.SeverityWarn, diag.SeverityError, diag.SeverityFatal} {
		if n := stats.EventsBySeverity[sev]; n > 0 {
			fmt.Fprintf(w, "  %-5s %d\n", sev, n)
		}
	}

	// Stable boot ordering for output
	bootIDs := make([]string, 0, len(stats.Boots))
	for id := range stats.Boots {
		bootIDs = append(bootIDs, id)
	}
	sort.Slice(bootIDs, func(i, j int) bool {
		return stats.Boots[bootIDs[i]].FirstSeen.Before(stats.Boots[bootIDs[j]].FirstSeen)
	})

	fmt.Fprintln(w, "\nBoot sessions:")
	for _, id := range bootIDs {
		b := stats.Boots[id]
		fmt.Fprintf(w, "  %-8s events=%d faults=%d fatals=%d duration=%s\n",
			shortenBootID(id), b.Events, b.Faults, b.Fatals,
			b.LastSeen.Sub(b.FirstSeen).Round(time.Millisecond))
	}
}
