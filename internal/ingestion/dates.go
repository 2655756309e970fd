package ingestion

import "time"

// dateKeyLayout is the YYYYMMDD form used in bulletin URLs and temp files.
const dateKeyLayout = "20060102"

// DatesBack returns every calendar date from "from" down to and including
// target, most recent first. The range is empty when target is after from.
//
// SPIMEX keys bulletins by calendar day; dates without a published bulletin
// (weekends, holidays) simply come back empty from the fetch step, so no
// business-day filtering happens here.
func DatesBack(target, from time.Time) []time.Time {
	target = truncateToDate(target)
	d := truncateToDate(from)

	var out []time.Time
	for !d.Before(target) {
		out = append(out, d)
		d = d.AddDate(0, 0, -1)
	}
	return out
}

// DateKey formats a bulletin date as YYYYMMDD.
func DateKey(d time.Time) string {
	return d.Format(dateKeyLayout)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
