package projection

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan-Lay/moni/internal/model"
)

var refNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func txnOn(y int, m time.Month, d int, amount float64) model.Transaction {
	return model.Transaction{
		ID:     "t",
		Date:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Amount: amount,
	}
}

func pointValue(p Point) *float64 {
	if p.ProjectedBalance != nil {
		return p.ProjectedBalance
	}
	return p.ActualBalance
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		input string
		want  Window
		ok    bool
	}{
		{"1M", Window1M, true},
		{"3m", Window3M, true},
		{"6M", Window6M, true},
		{"1a", Window1A, true},
		{"All", WindowAll, true},
		{"ALL", WindowAll, true},
		{" 3M ", Window3M, true},
		{"2M", "", false},
		{"", "", false},
		{"forever", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseWindow(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestProject_EmptyHistoryDegradesToFlatLine(t *testing.T) {
	cfg := model.FinancialConfig{Salary: 5000}

	series := Project(nil, cfg, nil, Window1M, refNow)

	require.NotEmpty(t, series.Points)
	for _, p := range series.Points {
		v := pointValue(p)
		require.NotNil(t, v)
		assert.Equal(t, 5000.0, *v)
	}
	assert.False(t, series.CrossesFloor)
	assert.Equal(t, TrendStable, series.Trend)
}

func TestProject_DailyBuckets(t *testing.T) {
	series := Project(nil, model.FinancialConfig{Salary: 5000}, nil, Window1M, refNow)

	// One month back plus one month forward: 2026-02-15 through 2026-04-15.
	require.Len(t, series.Points, 60)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), series.Points[0].Date)
	for i := 1; i < len(series.Points); i++ {
		assert.Equal(t, series.Points[i-1].Date.AddDate(0, 0, 1), series.Points[i].Date)
	}

	// Past points carry actuals, future points projections, never both.
	for _, p := range series.Points {
		actual := p.ActualBalance != nil
		projected := p.ProjectedBalance != nil
		assert.NotEqual(t, actual, projected, "point %s", p.Label)
		if !p.Date.After(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
			assert.True(t, actual, "point %s should be past", p.Label)
		}
	}
}

func TestProject_WeeklyBuckets(t *testing.T) {
	series := Project(nil, model.FinancialConfig{Salary: 5000}, nil, Window6M, refNow)

	// Six months back plus two forward, four fixed sub-ranges per month.
	require.Len(t, series.Points, 33)
	assert.Equal(t, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), series.Points[0].Date)

	label := regexp.MustCompile(` S[1-4]$`)
	for _, p := range series.Points {
		assert.Regexp(t, label, p.Label)
	}
}

func TestProject_FutureRegimeIsDamped(t *testing.T) {
	cfg := model.FinancialConfig{Salary: 2300}
	txns := []model.Transaction{txnOn(2026, 3, 10, -290)}

	series := Project(txns, cfg, nil, Window1M, refNow)

	// 29 past buckets netting -290 give an average of -10 per day; the future
	// regime applies it damped by 0.85, so the first projected point sits
	// 8.50 below the last actual of 2010.
	var lastActual, firstProjected *float64
	for i := range series.Points {
		if series.Points[i].ActualBalance != nil {
			lastActual = series.Points[i].ActualBalance
		}
		if firstProjected == nil && series.Points[i].ProjectedBalance != nil {
			firstProjected = series.Points[i].ProjectedBalance
		}
	}
	require.NotNil(t, lastActual)
	require.NotNil(t, firstProjected)
	assert.Equal(t, 2010.0, *lastActual)
	assert.Equal(t, 2002.0, *firstProjected)
}

func TestProject_FloorBreach(t *testing.T) {
	// Balance sits exactly at 2000 today; only the damped projected decline
	// dips below it.
	txns := []model.Transaction{txnOn(2026, 3, 10, -300)}

	t.Run("projected decline breaches floor", func(t *testing.T) {
		cfg := model.FinancialConfig{Salary: 2300, SafetyFloor: 2000}
		series := Project(txns, cfg, nil, Window1M, refNow)

		for _, p := range series.Points {
			if p.ActualBalance != nil {
				assert.GreaterOrEqual(t, *p.ActualBalance, 2000.0)
			}
		}
		assert.True(t, series.CrossesFloor)
	})

	t.Run("lower floor is never crossed", func(t *testing.T) {
		cfg := model.FinancialConfig{Salary: 2300, SafetyFloor: 500}
		series := Project(txns, cfg, nil, Window1M, refNow)
		assert.False(t, series.CrossesFloor)
	})
}

func TestCrossesFloor_StrictlyBelow(t *testing.T) {
	at := 2000.0
	below := 1999.0
	assert.False(t, crossesFloor([]Point{{ActualBalance: &at}}, 2000))
	assert.True(t, crossesFloor([]Point{{ProjectedBalance: &below}}, 2000))
	assert.False(t, crossesFloor([]Point{{}}, 2000))
}

func TestProject_PlannedIncomeAnchorsWeeklyEstimate(t *testing.T) {
	cfg := model.FinancialConfig{Salary: 2300}
	txns := []model.Transaction{txnOn(2025, 10, 10, -250)}
	planned := []model.PlannedEntry{{
		ID:         "pl-1",
		Name:       "Decimo Terceiro",
		DueDate:    time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		Amount:     1000,
		Recurrence: model.RecurrenceUnico,
	}}

	series := Project(txns, cfg, planned, Window6M, refNow)

	byDate := make(map[time.Time]Point, len(series.Points))
	for _, p := range series.Points {
		byDate[p.Date] = p
	}

	before := byDate[time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)]
	anchored := byDate[time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC)]
	require.NotNil(t, before.ProjectedBalance)
	require.NotNil(t, anchored.ProjectedBalance)

	// The week of the planned income moves by exactly the planned amount; the
	// damped drift is suspended for that bucket.
	assert.Equal(t, *before.ProjectedBalance+1000, *anchored.ProjectedBalance)
}

func TestProject_TrailingAverage(t *testing.T) {
	series := Project(nil, model.FinancialConfig{Salary: 5000}, nil, Window1M, refNow)

	require.Greater(t, len(series.Points), 7)
	for i := 0; i < 6; i++ {
		assert.Nil(t, series.Points[i].TrailingAverage, "point %d", i)
	}
	require.NotNil(t, series.Points[6].TrailingAverage)
	assert.Equal(t, 5000.0, *series.Points[6].TrailingAverage)
}

func TestProject_TrailingAverageFreezesAtBoundary(t *testing.T) {
	cfg := model.FinancialConfig{Salary: 2300}
	txns := []model.Transaction{txnOn(2026, 3, 10, -290)}

	series := Project(txns, cfg, nil, Window1M, refNow)

	// Last seven actual balances: 2300 on Mar 9 and 2010 from Mar 10 through
	// Mar 15, averaging 2051. Projected balances keep declining, but the
	// trailing average only reads actuals, so every future point holds 2051.
	var lastPast *float64
	for _, p := range series.Points {
		if p.ActualBalance != nil {
			lastPast = p.TrailingAverage
			continue
		}
		require.NotNil(t, p.TrailingAverage, "point %s", p.Label)
		assert.Equal(t, 2051.0, *p.TrailingAverage, "point %s", p.Label)
		assert.Less(t, *p.ProjectedBalance, 2051.0, "point %s", p.Label)
	}
	require.NotNil(t, lastPast)
	assert.Equal(t, 2051.0, *lastPast)
}

func TestClassifyTrend(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	windowStart := today.AddDate(0, -1, 0) // 28 days

	// Baseline: Dec 2025 through Feb 2026 spend of 9000, 3000 per month.
	baseline := []model.Transaction{
		txnOn(2025, 12, 10, -3000),
		txnOn(2026, 1, 10, -3000),
		txnOn(2026, 2, 10, -3000),
	}

	tests := []struct {
		name        string
		windowSpend float64
		want        Trend
	}{
		{"matches baseline", 2800, TrendStable}, // 2800 * 30/28 = 3000/month
		{"well above baseline", 3500, TrendUp},
		{"well below baseline", 1400, TrendDown},
		{"inside dead-band above", 2900, TrendStable},
		{"inside dead-band below", 2700, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := append([]model.Transaction{}, baseline...)
			txns = append(txns, txnOn(2026, 3, 5, -tt.windowSpend))
			assert.Equal(t, tt.want, classifyTrend(txns, windowStart, today))
		})
	}

	t.Run("no baseline yields stable", func(t *testing.T) {
		txns := []model.Transaction{txnOn(2026, 3, 5, -4000)}
		assert.Equal(t, TrendStable, classifyTrend(txns, windowStart, today))
	})
}
