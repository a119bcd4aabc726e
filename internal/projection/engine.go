// Package projection builds forward-and-backward balance series from the
// transaction history, the household config, and planned entries, to warn
// before the balance crosses the configured safety floor.
package projection

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Dan-Lay/moni/internal/model"
)

// Window selects how far back the series reaches.
type Window string

const (
	// Window1M covers one month back, daily buckets.
	Window1M Window = "1M"
	// Window3M covers three months back, daily buckets.
	Window3M Window = "3M"
	// Window6M covers six months back, weekly buckets.
	Window6M Window = "6M"
	// Window1A covers one year back, weekly buckets.
	Window1A Window = "1A"
	// WindowAll covers the full history, weekly buckets.
	WindowAll Window = "All"
)

// ParseWindow maps a flag value to a Window, case-insensitively. Unknown
// values are rejected rather than silently treated as the full history.
func ParseWindow(value string) (Window, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1m":
		return Window1M, true
	case "3m":
		return Window3M, true
	case "6m":
		return Window6M, true
	case "1a":
		return Window1A, true
	case "all":
		return WindowAll, true
	}
	return "", false
}

// Trend classifies recent spending against the trailing baseline.
type Trend string

const (
	// TrendUp means window spend runs more than 5% above the baseline.
	TrendUp Trend = "up"
	// TrendDown means window spend runs more than 5% below the baseline.
	TrendDown Trend = "down"
	// TrendStable means spend is inside the dead-band.
	TrendStable Trend = "stable"
)

// futureDamping discounts projected deltas to reflect forecast uncertainty.
const futureDamping = 0.85

// Point is one bucket of the balance series. Past buckets carry
// ActualBalance, future buckets ProjectedBalance; all values are rounded to
// whole currency units at the edge.
type Point struct {
	Date             time.Time
	Label            string
	ActualBalance    *float64
	ProjectedBalance *float64
	TrailingAverage  *float64
	Floor            float64
}

// Series is the projection output.
type Series struct {
	Trend        Trend
	Points       []Point
	CrossesFloor bool
}

// bucket is an internal time range with its accumulated transaction delta.
type bucket struct {
	start   time.Time
	end     time.Time // exclusive
	label   string
	delta   float64
	planned float64
	past    bool
}

// Project computes the balance series. The reference instant is an explicit
// parameter so every time-windowed computation is deterministic.
func Project(txns []model.Transaction, cfg model.FinancialConfig, planned []model.PlannedEntry, window Window, now time.Time) Series {
	cfg = cfg.MergeDefaults()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	daily := window == Window1M || window == Window3M

	start, end := seriesRange(window, today, txns)
	var buckets []bucket
	if daily {
		buckets = dailyBuckets(start, end, today)
	} else {
		buckets = weeklyBuckets(start, end, today)
	}

	fillDeltas(buckets, txns, planned)

	points := walkBalances(buckets, cfg, daily)
	crosses := crossesFloor(points, cfg.SafetyFloor)
	trend := classifyTrend(txns, start, today)

	return Series{Points: points, CrossesFloor: crosses, Trend: trend}
}

// seriesRange determines the [start, end) range of the series: the window
// length backward plus a forward horizon (one month for daily windows, two
// for weekly ones).
func seriesRange(window Window, today time.Time, txns []model.Transaction) (time.Time, time.Time) {
	var start time.Time
	switch window {
	case Window1M:
		start = today.AddDate(0, -1, 0)
	case Window3M:
		start = today.AddDate(0, -3, 0)
	case Window6M:
		start = today.AddDate(0, -6, 0)
	case Window1A:
		start = today.AddDate(-1, 0, 0)
	default: // WindowAll
		start = today.AddDate(-1, 0, 0)
		for _, t := range txns {
			if t.Date.Before(start) {
				start = time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
			}
		}
	}

	forward := today.AddDate(0, 1, 1)
	if window == Window6M || window == Window1A || window == WindowAll {
		forward = today.AddDate(0, 2, 1)
	}
	return start, forward
}

func dailyBuckets(start, end, today time.Time) []bucket {
	var buckets []bucket
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		buckets = append(buckets, bucket{
			start: d,
			end:   d.AddDate(0, 0, 1),
			label: d.Format("02/01"),
			past:  !d.After(today),
		})
	}
	return buckets
}

// weeklyBuckets splits each month into four fixed sub-ranges (days 1-7, 8-14,
// 15-21, 22-end) so point counts stay bounded regardless of window length.
func weeklyBuckets(start, end, today time.Time) []bucket {
	var buckets []bucket
	month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)

	for month.Before(end) {
		next := month.AddDate(0, 1, 0)
		weekStarts := []int{1, 8, 15, 22}
		for i, day := range weekStarts {
			ws := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC)
			we := next
			if i < len(weekStarts)-1 {
				we = time.Date(month.Year(), month.Month(), weekStarts[i+1], 0, 0, 0, 0, time.UTC)
			}
			if !we.After(start) || !ws.Before(end) {
				continue
			}
			buckets = append(buckets, bucket{
				start: ws,
				end:   we,
				label: fmt.Sprintf("%s S%d", month.Format("Jan"), i+1),
				past:  ws.Before(today.AddDate(0, 0, 1)),
			})
		}
		month = next
	}
	return buckets
}

func fillDeltas(buckets []bucket, txns []model.Transaction, planned []model.PlannedEntry) {
	if len(buckets) == 0 {
		return
	}
	rangeStart := buckets[0].start
	rangeEnd := buckets[len(buckets)-1].end

	for _, t := range txns {
		idx := bucketIndex(buckets, t.Date)
		if idx >= 0 {
			buckets[idx].delta += t.Amount
		}
	}

	for _, p := range planned {
		if p.Conciliado {
			continue
		}
		for _, due := range p.Occurrences(rangeStart, rangeEnd) {
			idx := bucketIndex(buckets, due)
			if idx >= 0 {
				buckets[idx].planned += p.Amount
			}
		}
	}
}

func bucketIndex(buckets []bucket, date time.Time) int {
	for i, b := range buckets {
		if !date.Before(b.start) && date.Before(b.end) {
			return i
		}
	}
	return -1
}

// walkBalances runs the two regimes over the buckets: past buckets accumulate
// actual transaction deltas from the salary baseline; future buckets apply a
// damped average delta plus any planned amounts. With no history at all the
// series degrades to a flat line at the baseline.
func walkBalances(buckets []bucket, cfg model.FinancialConfig, daily bool) []Point {
	points := make([]Point, 0, len(buckets))
	balance := cfg.Salary

	// Average per-bucket net over the past regime feeds the future estimate.
	var pastNet float64
	pastCount := 0
	for _, b := range buckets {
		if b.past {
			pastNet += b.delta
			pastCount++
		}
	}
	avgNet := 0.0
	if pastCount > 0 {
		avgNet = pastNet / float64(pastCount)
	}

	trailingN := 7
	if !daily {
		trailingN = 5
	}
	var history []float64

	for _, b := range buckets {
		p := Point{Date: b.start, Label: b.label, Floor: cfg.SafetyFloor}

		if b.past {
			balance += b.delta
			v := roundUnit(balance)
			p.ActualBalance = &v
			history = append(history, balance)
		} else {
			if !daily && b.planned > 0 {
				// A planned income in this week anchors the estimate.
				balance += b.planned
			} else {
				balance += avgNet*futureDamping + b.planned
			}
			v := roundUnit(balance)
			p.ProjectedBalance = &v
		}

		// The trailing average reads actual balances only, so past the
		// past/future boundary it stays frozen at the last full window.
		if len(history) >= trailingN {
			avg := mean(history[len(history)-trailingN:])
			t := roundUnit(avg)
			p.TrailingAverage = &t
		}

		points = append(points, p)
	}

	return points
}

// crossesFloor is an existential scan: any point whose balance falls below
// the safety floor raises the flag.
func crossesFloor(points []Point, floor float64) bool {
	for _, p := range points {
		v := p.ProjectedBalance
		if v == nil {
			v = p.ActualBalance
		}
		if v != nil && *v < floor {
			return true
		}
	}
	return false
}

// classifyTrend compares window spend against the trailing three-calendar-
// month expense average, with a 5% dead-band so noise is not flagged as a
// trend. Non-positive baselines yield stable rather than a division blowup.
func classifyTrend(txns []model.Transaction, windowStart, today time.Time) Trend {
	windowDays := today.Sub(windowStart).Hours() / 24
	if windowDays <= 0 {
		return TrendStable
	}

	var windowSpend float64
	for _, t := range txns {
		if t.Amount < 0 && !t.Date.Before(windowStart) && !t.Date.After(today) {
			windowSpend += -t.Amount
		}
	}

	baselineStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -3, 0)
	baselineEnd := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	var baselineSpend float64
	for _, t := range txns {
		if t.Amount < 0 && !t.Date.Before(baselineStart) && t.Date.Before(baselineEnd) {
			baselineSpend += -t.Amount
		}
	}

	baselineMonthly := baselineSpend / 3
	if baselineMonthly <= 0 {
		return TrendStable
	}

	windowMonthly := windowSpend / (windowDays / 30)
	change := (windowMonthly - baselineMonthly) / baselineMonthly
	switch {
	case change > 0.05:
		return TrendUp
	case change < -0.05:
		return TrendDown
	default:
		return TrendStable
	}
}

func roundUnit(v float64) float64 {
	return math.Round(v)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
