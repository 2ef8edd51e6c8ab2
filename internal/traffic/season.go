package traffic

import "time"

// Sri Lankan monsoon calendar. The southwest monsoon runs May 15 - Sep 30,
// the northeast monsoon Oct 15 - Jan 31 (crossing the year boundary), and
// the inter-monsoon periods Mar 1 - May 14 and Oct 1 - Oct 14. February is
// the only fully regular stretch.
type monsoonPeriod struct {
	startMonth time.Month
	startDay   int
	endMonth   time.Month
	endDay     int
	season     Season
}

var monsoonCalendar = []monsoonPeriod{
	{time.May, 15, time.September, 30, SeasonMonsoonSouthwest},
	{time.October, 15, time.January, 31, SeasonMonsoonNortheast},
	{time.March, 1, time.May, 14, SeasonInterMonsoon},
	{time.October, 1, time.October, 14, SeasonInterMonsoon},
}

// SeasonForDate returns the monsoon season bucket for a calendar date.
func SeasonForDate(t time.Time) Season {
	month, day := t.Month(), t.Day()
	for _, p := range monsoonCalendar {
		if inPeriod(month, day, p) {
			return p.season
		}
	}
	return SeasonRegular
}

func inPeriod(month time.Month, day int, p monsoonPeriod) bool {
	start := int(p.startMonth)*100 + p.startDay
	end := int(p.endMonth)*100 + p.endDay
	current := int(month)*100 + day

	if start <= end {
		return current >= start && current <= end
	}
	// Period crosses the year boundary.
	return current >= start || current <= end
}
