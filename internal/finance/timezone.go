package finance

import "time"

// getEasternTime returns America/New_York location, falling back to fixed EST if tzdata is missing.
func getEasternTime() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// marketDate maps a bar timestamp to its New York trading date at UTC midnight.
func marketDate(ts int64) time.Time {
	t := time.Unix(ts, 0).In(getEasternTime())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current New York calendar date at UTC midnight.
func Today() time.Time {
	return marketDate(time.Now().Unix())
}
