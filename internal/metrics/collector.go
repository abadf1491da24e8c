package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

// Collector aggregates probe outcomes across workers.
type Collector struct {
	mu sync.Mutex

	// Latency Tracking (Successes only)
	latencies []time.Duration

	// Retry Tracking
	successByAttempt map[int]int
	totalSuccess     int

	// Error Tracking
	errorCounts map[string]int
	totalErrors int

	// Network Saturation Heuristic
	timeoutErrors int
}

func New() *Collector {
	return &Collector{
		successByAttempt: make(map[int]int),
		errorCounts:      make(map[string]int),
	}
}

func (c *Collector) RecordSuccess(attempt int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latencies = append(c.latencies, duration)
	c.successByAttempt[attempt]++
	c.totalSuccess++
}

func (c *Collector) RecordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalErrors++
	errType := Classify(err)
	if errType == ErrTimeout {
		c.timeoutErrors++
	}
	c.errorCounts[errType]++
}

const (
	ErrTimeout = "Timeout (Slow)"
	ErrRefused = "Conn Refused (Fast)"
	ErrReset   = "Conn Reset (Fast)"
	ErrEOF     = "EOF / Empty"
	ErrDNS     = "DNS Error"
	ErrStatus  = "Bad Status"
	ErrUnknown = "Unknown"
)

// Classify buckets an error by its message for the saturation heuristic.
func Classify(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return ErrTimeout
	case strings.Contains(msg, "refused"):
		return ErrRefused
	case strings.Contains(msg, "reset"):
		return ErrReset
	case strings.Contains(msg, "EOF"):
		return ErrEOF
	case strings.Contains(msg, "no such host"):
		return ErrDNS
	case strings.Contains(msg, "status"):
		return ErrStatus
	}
	return ErrUnknown
}

// Summary is a point-in-time copy of the collected numbers.
type Summary struct {
	Success  int
	Failures int
	Timeouts int
	P50      time.Duration
	P90      time.Duration
	Average  time.Duration
}

func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{Success: c.totalSuccess, Failures: c.totalErrors, Timeouts: c.timeoutErrors}
	if len(c.latencies) == 0 {
		return s
	}
	sorted := append([]time.Duration(nil), c.latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	s.P50 = sorted[len(sorted)/2]
	s.P90 = sorted[int(float64(len(sorted))*0.9)]
	s.Average = average(sorted)
	return s
}

// PrintReport writes latency percentiles, retry efficiency and an error
// breakdown with tuning hints for --timeout, --retries and --workers.
func (c *Collector) PrintReport(out io.Writer, currentTimeout time.Duration, currentRetries int) {
	summary := c.Summary()

	c.mu.Lock()
	defer c.mu.Unlock()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(out, "\n📊 \033[1mPROBE REPORT\033[0m")
	fmt.Fprintln(out, "────────────────────────────────────────")

	// 1. Latency / Config Tuning
	if summary.Success > 0 {
		fmt.Fprintln(w, "\033[1;36m[ LATENCY (Reachable Profiles) ]\033[0m")
		fmt.Fprintf(w, "  Avg Duration:\t%v\n", summary.Average)
		fmt.Fprintf(w, "  p50 (Median):\t%v\n", summary.P50)
		fmt.Fprintf(w, "  p90 (Slowest 10%%):\t%v\n", summary.P90)

		recTimeout := summary.P90 + (500 * time.Millisecond)
		fmt.Fprintf(w, "  💡 Recommendation:\tSet --timeout to ~%s (Current: %s)\n", recTimeout.Round(time.Second), currentTimeout)
		fmt.Fprintln(w, "")
	}

	// 2. Retry Efficiency
	fmt.Fprintln(w, "\033[1;36m[ RETRY EFFICIENCY ]\033[0m")
	if c.totalSuccess > 0 {
		fmt.Fprintf(w, "  Reachable:\t%d\n", c.totalSuccess)
		for i := 0; i <= currentRetries; i++ {
			count := c.successByAttempt[i]
			pct := float64(count) / float64(c.totalSuccess) * 100
			fmt.Fprintf(w, "  Succeeded on Try %d:\t%d (%.1f%%)\n", i+1, count, pct)
		}
		fmt.Fprintf(w, "  💡 Recommendation:\tSet --retries to %d (Current: %d)\n", c.neededRetries(currentRetries), currentRetries)
	} else {
		fmt.Fprintln(w, "  No reachable profiles to analyze.")
	}
	fmt.Fprintln(w, "")

	// 3. Network Saturation
	fmt.Fprintln(w, "\033[1;36m[ NETWORK HEALTH / ERRORS ]\033[0m")
	fmt.Fprintf(w, "  Total Failures:\t%d\n", c.totalErrors)

	if c.totalErrors > 0 {
		timeoutPct := float64(c.timeoutErrors) / float64(c.totalErrors) * 100
		fmt.Fprintf(w, "  Timeouts (Potential Congestion):\t%d (%.1f%%)\n", c.timeoutErrors, timeoutPct)

		kinds := make([]string, 0, len(c.errorCounts))
		for k := range c.errorCounts {
			if k != ErrTimeout {
				kinds = append(kinds, k)
			}
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %s:\t%d\n", k, c.errorCounts[k])
		}

		fmt.Fprintln(w, "  --------------------------------")
		if timeoutPct > 70 {
			fmt.Fprintln(w, "  ⚠️  \033[1;31mHIGH SATURATION DETECTED\033[0m")
			fmt.Fprintln(w, "  >70% of failures are timeouts. Local bandwidth or the NAT table")
			fmt.Fprintln(w, "  may be choked by too many parallel probes.")
			fmt.Fprintln(w, "  💡 Recommendation: \033[1mDECREASE --workers\033[0m")
		} else {
			fmt.Fprintln(w, "  ✅ Network seems stable (Failures are mostly active rejections).")
		}
	}

	w.Flush()
	fmt.Fprintln(out, "")
}

// neededRetries is the smallest retry count that caught 98% of successes.
func (c *Collector) neededRetries(currentRetries int) int {
	accumulated := 0.0
	for i := 0; i <= currentRetries; i++ {
		accumulated += float64(c.successByAttempt[i]) / float64(c.totalSuccess)
		if accumulated > 0.98 {
			return i
		}
	}
	return currentRetries
}

func average(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return time.Duration(int64(sum) / int64(len(d)))
}
