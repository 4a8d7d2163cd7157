package storage

import (
	"context"
	"errors"

	"github.com/kvnheller/caldr/internal/calendar"
)

var ErrNotFound = errors.New("storage: not found")

// Repository persists whole calendars. A save replaces the stored snapshot;
// a load rebuilds the aggregate without re-running admission checks, so a
// snapshot taken with conflicts allowed loads back verbatim.
type Repository interface {
	SaveCalendar(ctx context.Context, cal *calendar.Calendar) error
	LoadCalendar(ctx context.Context, title string) (*calendar.Calendar, error)
	ListCalendarTitles(ctx context.Context) ([]string, error)
	DeleteCalendar(ctx context.Context, title string) error
}
