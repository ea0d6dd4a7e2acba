package planning

import (
	"sort"
	"time"
)

// CalendarFallback describes the synthetic calendar used when week records are
// missing, sparse, or carry invalid dates. The caller (not a module-level
// singleton) decides the anchor and length.
type CalendarFallback struct {
	Start time.Time
	Weeks int
}

// DefaultCalendarFallback returns the standard 3-year fallback calendar
// anchored at the first Monday of 2024.
func DefaultCalendarFallback() CalendarFallback {
	return CalendarFallback{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Weeks: 156,
	}
}

// WeekRecord is one (week number, week date) row from the sales weeks table.
// A zero WeekDate means the date is missing or failed to parse upstream.
type WeekRecord struct {
	WeekNumber int
	WeekDate   time.Time
}

// YearSegment is a contiguous run of weeks within one calendar year and
// quarter, used only as a roll-up boundary.
type YearSegment struct {
	Year      int
	Quarter   int
	StartWeek int
	EndWeek   int
}

// WeekCalendar is an immutable week-number to date mapping with min/max
// bounds. It is a derived projection of the sales weeks table and is rebuilt
// whenever the underlying records change.
type WeekCalendar struct {
	dates    map[int]time.Time
	weeks    []int // ascending
	minWeek  int
	maxWeek  int
	start    time.Time
	fallback CalendarFallback
}

// BuildWeekCalendar builds a calendar from week records. It never fails:
// with no usable records it synthesizes the fallback calendar, and any week
// inside the observed bounds with a missing or invalid date is backfilled
// from the fallback anchor at the same week number.
func BuildWeekCalendar(records []WeekRecord, fallback CalendarFallback) *WeekCalendar {
	if fallback.Weeks <= 0 || fallback.Start.IsZero() {
		fallback = DefaultCalendarFallback()
	}

	known := make(map[int]time.Time)
	minWeek, maxWeek := 0, 0
	for _, r := range records {
		if r.WeekNumber <= 0 {
			continue
		}
		if minWeek == 0 || r.WeekNumber < minWeek {
			minWeek = r.WeekNumber
		}
		if r.WeekNumber > maxWeek {
			maxWeek = r.WeekNumber
		}
		if !r.WeekDate.IsZero() {
			known[r.WeekNumber] = r.WeekDate.UTC().Truncate(24 * time.Hour)
		}
	}

	if minWeek == 0 {
		// No records at all: synthesize the full fallback calendar.
		minWeek, maxWeek = 1, fallback.Weeks
	}

	dates := make(map[int]time.Time, maxWeek-minWeek+1)
	weeks := make([]int, 0, maxWeek-minWeek+1)
	for wk := minWeek; wk <= maxWeek; wk++ {
		d, ok := known[wk]
		if !ok {
			d = fallback.Start.AddDate(0, 0, (wk-1)*7)
		}
		dates[wk] = d
		weeks = append(weeks, wk)
	}

	return &WeekCalendar{
		dates:    dates,
		weeks:    weeks,
		minWeek:  minWeek,
		maxWeek:  maxWeek,
		start:    dates[minWeek],
		fallback: fallback,
	}
}

// MinWeek returns the lowest week number in the calendar.
func (c *WeekCalendar) MinWeek() int { return c.minWeek }

// MaxWeek returns the highest week number in the calendar.
func (c *WeekCalendar) MaxWeek() int { return c.maxWeek }

// Start returns the calendar's anchor date (the first week's date).
func (c *WeekCalendar) Start() time.Time { return c.start }

// Weeks returns all week numbers in ascending order.
func (c *WeekCalendar) Weeks() []int {
	out := make([]int, len(c.weeks))
	copy(out, c.weeks)
	return out
}

// Date returns the date for a week number.
func (c *WeekCalendar) Date(week int) (time.Time, bool) {
	d, ok := c.dates[week]
	return d, ok
}

// DateOrFallback returns the date for a week number, extending past the
// calendar bounds with the fallback stride so arithmetic never fails.
func (c *WeekCalendar) DateOrFallback(week int) time.Time {
	if d, ok := c.dates[week]; ok {
		return d
	}
	return c.fallback.Start.AddDate(0, 0, (week-1)*7)
}

// WeekForDate returns the week whose [date, date+7d) range contains t.
func (c *WeekCalendar) WeekForDate(t time.Time) (int, bool) {
	// Weeks are ordered but not guaranteed evenly spaced, so scan for the
	// last week starting on or before t and check its 7-day window.
	idx := sort.Search(len(c.weeks), func(i int) bool {
		return c.dates[c.weeks[i]].After(t)
	})
	if idx == 0 {
		return 0, false
	}
	wk := c.weeks[idx-1]
	if t.Before(c.dates[wk].AddDate(0, 0, 7)) {
		return wk, true
	}
	return 0, false
}

// Segments partitions the calendar into contiguous year/quarter runs ordered
// by week number.
func (c *WeekCalendar) Segments() []YearSegment {
	var segs []YearSegment
	for _, wk := range c.weeks {
		d := c.dates[wk]
		year := d.Year()
		quarter := (int(d.Month())-1)/3 + 1
		if n := len(segs); n > 0 && segs[n-1].Year == year && segs[n-1].Quarter == quarter {
			segs[n-1].EndWeek = wk
			continue
		}
		segs = append(segs, YearSegment{Year: year, Quarter: quarter, StartWeek: wk, EndWeek: wk})
	}
	return segs
}
