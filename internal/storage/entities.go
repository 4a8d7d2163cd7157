package storage

// Row types mirror the sqlite schema. Dates and clock times travel as the
// model's string layouts; instants are never stored.

type CalendarRow struct {
	Title          string
	AllowConflicts bool
}

type EventRow struct {
	ID          string
	SeriesID    string // empty for standalone events
	Subject     string
	StartDate   string
	EndDate     string
	StartTime   string // empty for all-day events
	EndTime     string
	Public      *bool
	Description string
	Location    string
	Position    int
}

type SeriesRow struct {
	ID        string
	Count     int    // 0 in until-mode
	Until     string // empty in count-mode
	Weekdays  string // comma-joined MONDAY..SUNDAY tokens
	StartDate string
	Position  int
}
