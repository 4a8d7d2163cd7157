// Package csvio reads and writes calendars in the Google Calendar CSV
// shape, the format the rest of the ecosystem imports from.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kvnheller/caldr/internal/calendar"
	"github.com/kvnheller/caldr/internal/model"
)

const (
	csvDateLayout = "01/02/2006"
	csvTimeLayout = "3:04 PM"
)

var header = []string{
	"Subject", "Start Date", "Start Time", "End Date", "End Time",
	"All Day Event", "Description", "Location", "Private",
}

var (
	ErrHeader = errors.New("csvio: unexpected header")
	ErrRow    = errors.New("csvio: malformed row")
)

// Export writes every event of the calendar, standalone events first and
// then series instances in series order.
func Export(w io.Writer, cal *calendar.Calendar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csvio: writing header: %w", err)
	}
	write := func(e *model.Event) error {
		if err := cw.Write(record(e)); err != nil {
			return fmt.Errorf("csvio: writing %q: %w", e.Subject, err)
		}
		return nil
	}
	for _, e := range cal.Events() {
		if err := write(e); err != nil {
			return err
		}
	}
	for _, s := range cal.Series() {
		for _, e := range s.Events {
			if err := write(e); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import reads a CSV export and rebuilds a calendar of standalone events.
// Rows are admitted through AddEvent, so duplicate and conflict rules
// apply during the load.
func Import(r io.Reader, title string) (*calendar.Calendar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csvio: reading header: %w", err)
	}
	if !equalFields(first, header) {
		return nil, fmt.Errorf("%w: %q", ErrHeader, strings.Join(first, ","))
	}

	cal := calendar.New(title)
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvio: row %d: %w", row, err)
		}
		spec, err := specFromRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("csvio: row %d: %w", row, err)
		}
		e, err := model.NewEvent(spec)
		if err != nil {
			return nil, fmt.Errorf("csvio: row %d: %w", row, err)
		}
		if err := cal.AddEvent(e); err != nil {
			return nil, fmt.Errorf("csvio: row %d: %w", row, err)
		}
	}
	return cal, nil
}

func record(e *model.Event) []string {
	private := "False"
	if e.Public != nil && !*e.Public {
		private = "True"
	}
	allDay := "False"
	startTime, endTime := "", ""
	if e.AllDay() {
		allDay = "True"
	} else {
		startTime = e.StartTime.Format(csvTimeLayout)
		endTime = e.EndTime.Format(csvTimeLayout)
	}
	return []string{
		e.Subject,
		e.StartDate.Format(csvDateLayout),
		startTime,
		e.EndDate.Format(csvDateLayout),
		endTime,
		allDay,
		e.Description,
		e.Location,
		private,
	}
}

func specFromRecord(fields []string) (model.EventSpec, error) {
	var spec model.EventSpec
	startDate, err := convertDate(fields[1])
	if err != nil {
		return spec, err
	}
	endDate, err := convertDate(fields[3])
	if err != nil {
		return spec, err
	}

	allDay, err := parseFlag(fields[5])
	if err != nil {
		return spec, err
	}
	var startTime, endTime string
	if !allDay {
		if startTime, err = convertTime(fields[2]); err != nil {
			return spec, err
		}
		if endTime, err = convertTime(fields[4]); err != nil {
			return spec, err
		}
	}

	private, err := parseFlag(fields[8])
	if err != nil {
		return spec, err
	}
	public := !private

	spec = model.EventSpec{
		Subject:     fields[0],
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   startTime,
		EndTime:     endTime,
		Public:      &public,
		Description: fields[6],
		Location:    fields[7],
	}
	return spec, nil
}

func convertDate(s string) (string, error) {
	d, err := time.Parse(csvDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: date %q", ErrRow, s)
	}
	return d.Format(model.DateLayout), nil
}

func convertTime(s string) (string, error) {
	c, err := time.Parse(csvTimeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: time %q", ErrRow, s)
	}
	return c.Format(model.TimeLayout), nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: flag %q", ErrRow, s)
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
