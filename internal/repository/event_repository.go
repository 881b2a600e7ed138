package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/stanstork/timeline-notify/internal/models"
)

// EventRepository is the shared event store every plugin writes to and
// queries from.
type EventRepository interface {
	RegisterSingleEvent(ctx context.Context, event models.Event) error
	// Find streams events matching filter in store order. Callers must
	// Close the cursor.
	Find(ctx context.Context, filter Filter) (EventCursor, error)
}

// EventCursor iterates over query results the way *sql.Rows does.
type EventCursor interface {
	Next() bool
	Scan(event *models.Event) error
	Err() error
	Close() error
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) RegisterSingleEvent(ctx context.Context, event models.Event) error {
	const query = `
		INSERT INTO timeline.events (id, plugin, timing_start, timing_end, event)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, insertEventArgs(event)...)
	if err != nil {
		return errors.Wrapf(err, "insert event %s", event.ID)
	}
	return nil
}

// insertEventArgs maps event onto the INSERT columns. An instant stores a
// NULL timing_end.
func insertEventArgs(event models.Event) []interface{} {
	var end interface{}
	if event.Timing.End != nil {
		end = *event.Timing.End
	}
	return []interface{}{event.ID, string(event.Plugin), event.Timing.Start, end, []byte(event.Event)}
}

func (r *eventRepository) Find(ctx context.Context, filter Filter) (EventCursor, error) {
	query, args := findQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	return &rowsCursor{rows: rows}, nil
}

func findQuery(filter Filter) (string, []interface{}) {
	where, args := whereClause(filter)
	return `
		SELECT id, plugin, timing_start, timing_end, event
		FROM timeline.events
		WHERE ` + where + `
		ORDER BY seq ASC
	`, args
}

type rowsCursor struct {
	rows *sql.Rows
}

func (c *rowsCursor) Next() bool {
	return c.rows.Next()
}

func (c *rowsCursor) Scan(event *models.Event) error {
	return scanEvent(c.rows, event)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner, event *models.Event) error {
	var (
		plugin string
		end    sql.NullTime
		raw    []byte
	)
	if err := row.Scan(&event.ID, &plugin, &event.Timing.Start, &end, &raw); err != nil {
		return errors.Wrap(err, "scan event")
	}
	event.Plugin = models.PluginKind(plugin)
	event.Timing.Start = event.Timing.Start.UTC()
	event.Timing.End = nil
	if end.Valid {
		t := end.Time.UTC()
		event.Timing.End = &t
	}
	event.Event = raw
	return nil
}

func (c *rowsCursor) Err() error {
	return c.rows.Err()
}

func (c *rowsCursor) Close() error {
	return c.rows.Close()
}
