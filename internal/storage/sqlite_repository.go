package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kvnheller/caldr/internal/calendar"
	"github.com/kvnheller/caldr/internal/model"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// DB exposes the handle for migrations.
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

// SaveCalendar replaces the stored snapshot under the calendar's title in a
// single transaction. Foreign keys cascade the old events and series away.
func (r *SQLiteRepository) SaveCalendar(ctx context.Context, cal *calendar.Calendar) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM calendars WHERE title = ?`, cal.Title()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO calendars (title, allow_conflicts)
		VALUES (?, ?)`,
		cal.Title(), boolInt(cal.AllowConflicts()),
	); err != nil {
		return err
	}

	for i, e := range cal.Events() {
		if err := insertEvent(ctx, tx, cal.Title(), "", i, e); err != nil {
			return err
		}
	}
	for i, s := range cal.Series() {
		row := seriesRow(s, i)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO series (id, calendar_title, occurrence_count, until_date, weekdays, start_date, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			row.ID, cal.Title(), row.Count, row.Until, row.Weekdays, row.StartDate, row.Position,
		); err != nil {
			return err
		}
		for j, e := range s.Events {
			if err := insertEvent(ctx, tx, cal.Title(), s.ID, j, e); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// LoadCalendar rebuilds the aggregate from its snapshot. Admission checks
// are bypassed on purpose: whatever was saved is what comes back.
func (r *SQLiteRepository) LoadCalendar(ctx context.Context, title string) (*calendar.Calendar, error) {
	var allowConflicts int
	err := r.db.QueryRowContext(ctx,
		`SELECT allow_conflicts FROM calendars WHERE title = ?`, title,
	).Scan(&allowConflicts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	standalone, err := r.loadEvents(ctx, title, "")
	if err != nil {
		return nil, err
	}

	seriesRows, err := r.loadSeriesRows(ctx, title)
	if err != nil {
		return nil, err
	}
	series := make([]*model.RecurrentEvent, 0, len(seriesRows))
	for _, row := range seriesRows {
		s, buildErr := seriesFromRow(row)
		if buildErr != nil {
			return nil, buildErr
		}
		if s.Events, err = r.loadEvents(ctx, title, row.ID); err != nil {
			return nil, err
		}
		series = append(series, s)
	}

	return calendar.Restore(title, allowConflicts == 1, standalone, series), nil
}

func (r *SQLiteRepository) ListCalendarTitles(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT title FROM calendars ORDER BY title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		out = append(out, title)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteCalendar(ctx context.Context, title string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendars WHERE title = ?`, title)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func insertEvent(ctx context.Context, tx *sql.Tx, title, seriesID string, position int, e *model.Event) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO events (id, calendar_title, series_id, subject, start_date, end_date, start_time, end_time, public, description, location, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, title, nullString(seriesID), e.Subject,
		e.StartDateString(), e.EndDateString(),
		nullString(e.StartTimeString()), nullString(e.EndTimeString()),
		nullBool(e.Public), e.Description, e.Location, position,
	)
	return err
}

func (r *SQLiteRepository) loadEvents(ctx context.Context, title, seriesID string) ([]*model.Event, error) {
	query := `
		SELECT id, subject, start_date, end_date, start_time, end_time, public, description, location
		FROM events WHERE calendar_title = ? AND `
	args := []any{title}
	if seriesID == "" {
		query += `series_id IS NULL`
	} else {
		query += `series_id = ?`
		args = append(args, seriesID)
	}
	query += ` ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Event, 0)
	for rows.Next() {
		e, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadSeriesRows(ctx context.Context, title string) ([]SeriesRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, occurrence_count, until_date, weekdays, start_date, position
		FROM series WHERE calendar_title = ? ORDER BY position ASC`, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SeriesRow, 0)
	for rows.Next() {
		var row SeriesRow
		if err := rows.Scan(&row.ID, &row.Count, &row.Until, &row.Weekdays, &row.StartDate, &row.Position); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanEvent(s scanner) (*model.Event, error) {
	var row EventRow
	var startTime, endTime sql.NullString
	var public sql.NullInt64
	if err := s.Scan(&row.ID, &row.Subject, &row.StartDate, &row.EndDate, &startTime, &endTime, &public, &row.Description, &row.Location); err != nil {
		return nil, err
	}
	row.StartTime = startTime.String
	row.EndTime = endTime.String
	if public.Valid {
		v := public.Int64 == 1
		row.Public = &v
	}
	return eventFromRow(row)
}

func eventFromRow(row EventRow) (*model.Event, error) {
	e, err := model.NewEvent(model.EventSpec{
		Subject:     row.Subject,
		StartDate:   row.StartDate,
		EndDate:     row.EndDate,
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
		Public:      row.Public,
		Description: row.Description,
		Location:    row.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: event %s: %w", row.ID, err)
	}
	e.ID = row.ID
	return e, nil
}

func seriesRow(s *model.RecurrentEvent, position int) SeriesRow {
	row := SeriesRow{
		ID:        s.ID,
		Count:     s.Pattern.Count(),
		Weekdays:  strings.Join(s.Pattern.DayTokens(), ","),
		StartDate: s.StartDate.Format(model.DateLayout),
		Position:  position,
	}
	if until, ok := s.Pattern.Until(); ok {
		row.Until = until.Format(model.DateLayout)
	}
	return row
}

func seriesFromRow(row SeriesRow) (*model.RecurrentEvent, error) {
	days := strings.Split(row.Weekdays, ",")
	var pattern model.RecurrencePattern
	var err error
	if row.Count > 0 {
		pattern, err = model.NewCountPattern(row.Count, days)
	} else {
		pattern, err = model.NewUntilPattern(row.Until, days)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: series %s: %w", row.ID, err)
	}
	start, err := model.ParseDate(row.StartDate)
	if err != nil {
		return nil, fmt.Errorf("storage: series %s: %w", row.ID, err)
	}
	return &model.RecurrentEvent{ID: row.ID, Pattern: pattern, StartDate: start}, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullBool(v *bool) any {
	if v == nil {
		return nil
	}
	return boolInt(*v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
