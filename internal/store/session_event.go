package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const sessionEventsTable = "session_events"

var sessionEventColumns = []string{
	"id", "sequence", "created_at", "session_id", "action",
	"title", "quiz_total", "quiz_correct", "points_awarded",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.SessionID == "" {
		return fmt.Errorf("session event requires a session ID")
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(sessionEventsTable).
		Columns(sessionEventColumns[1:]...).
		Values(
			seqNum,
			time.Now().UnixMilli(),
			data.SessionID,
			data.Action,
			data.Title,
			data.QuizTotal,
			data.QuizCorrect,
			data.PointsAwarded,
		).
		Query()
	if _, err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(sessionEventColumns...).
		From(entsql.Table(sessionEventsTable))
	query, args := applyQueryOpts(sel, opts).Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var (
			e       SessionEvent
			created int64
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &created, &e.SessionID, &e.Action,
			&e.Title, &e.QuizTotal, &e.QuizCorrect, &e.PointsAwarded,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		e.Timestamp = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
