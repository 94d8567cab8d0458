package reports

import "time"

var monthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func prevMonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
}

func yearStart(now time.Time) time.Time {
	return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
}

func prevYearStart(now time.Time) time.Time {
	return time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location())
}

func daysInMonth(now time.Time) int {
	return time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
}

// fillDaily expands a sparse "%Y-%m-%d" keyed breakdown into one slot per
// day of the current calendar month, zero-filled. $dateToString buckets in
// UTC, so callers anchor now in UTC to keep the keys on the same calendar.
func fillDaily(breakdown map[string]float64, now time.Time) []float64 {
	days := daysInMonth(now)
	filled := make([]float64, days)
	for day := 1; day <= days; day++ {
		key := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		filled[day-1] = breakdown[key]
	}
	return filled
}

// fillMonthly expands a sparse "%m" keyed breakdown into 12 zero-filled
// slots.
func fillMonthly(breakdown map[string]float64) []float64 {
	filled := make([]float64, 12)
	for i := range filled {
		key := time.Date(2000, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("01")
		filled[i] = breakdown[key]
	}
	return filled
}
