package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowStarts(t *testing.T) {
	now := time.Date(2025, 3, 15, 13, 45, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), monthStart(now))
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), prevMonthStart(now))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), yearStart(now))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), prevYearStart(now))
}

func TestPrevMonthStartAcrossYearBoundary(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), prevMonthStart(now))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, daysInMonth(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 28, daysInMonth(time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, daysInMonth(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, daysInMonth(time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)))
}

func TestFillDaily(t *testing.T) {
	now := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	breakdown := map[string]float64{
		"2025-02-01": 120.5,
		"2025-02-10": 80,
	}

	filled := fillDaily(breakdown, now)

	require.Len(t, filled, 28)
	assert.Equal(t, 120.5, filled[0])
	assert.Equal(t, 80.0, filled[9])
	assert.Zero(t, filled[27])
}

// A clock in a non-UTC zone can sit in a different month than UTC; the
// report windows anchor on the UTC calendar so the fill keys line up with
// Mongo's UTC day buckets.
func TestFillDailyUsesUTCCalendar(t *testing.T) {
	zone := time.FixedZone("UTC+13", 13*60*60)
	local := time.Date(2025, 12, 1, 0, 30, 0, 0, zone)
	now := local.UTC()

	require.Equal(t, time.November, now.Month())

	filled := fillDaily(map[string]float64{"2025-11-30": 42}, now)

	require.Len(t, filled, 30)
	assert.Equal(t, 42.0, filled[29])
}

func TestFillMonthly(t *testing.T) {
	filled := fillMonthly(map[string]float64{"01": 10, "12": 99})

	require.Len(t, filled, 12)
	assert.Equal(t, 10.0, filled[0])
	assert.Equal(t, 99.0, filled[11])
	for i := 1; i < 11; i++ {
		assert.Zero(t, filled[i])
	}
}

func TestFillMonthlyEmpty(t *testing.T) {
	assert.Equal(t, make([]float64, 12), fillMonthly(nil))
}
