package store

import (
	"context"
	"database/sql"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = default of 50)
	Purpose string // filter by purpose label ("" = all)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// AttemptEventData captures one answered exercise for the event log.
// The authoritative attempt history lives in the course progress file;
// this log exists for stats and debugging.
type AttemptEventData struct {
	SessionID  string
	SectionID  int
	Stage      int
	Question   string
	UserAnswer string
	IsCorrect  bool
}

// AttemptStats aggregates attempt events for a section.
type AttemptStats struct {
	Total   int
	Correct int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns recent LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// AppendAttempt records an answered exercise.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// SectionStats aggregates attempt counts for one section.
	SectionStats(ctx context.Context, sectionID int) (AttemptStats, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_events
			(provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		boolToInt(data.Success), data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	return err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, timestamp, provider, model, purpose, input_tokens, output_tokens,
			latency_ms, success, error_message, request_body, response_body
		FROM llm_events`
	args := []any{}
	if opts.Purpose != "" {
		query += ` WHERE purpose = ?`
		args = append(args, opts.Purpose)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		var e LLMEvent
		var success int
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs,
			&success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
		); err != nil {
			return nil, err
		}
		e.Success = success != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attempt_events (session_id, section_id, stage, question, user_answer, is_correct)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.SectionID, data.Stage, data.Question, data.UserAnswer, boolToInt(data.IsCorrect),
	)
	return err
}

func (r *eventRepo) SectionStats(ctx context.Context, sectionID int) (AttemptStats, error) {
	var stats AttemptStats
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_correct), 0) FROM attempt_events WHERE section_id = ?`,
		sectionID,
	).Scan(&stats.Total, &stats.Correct)
	return stats, err
}

// NoopEvents is an EventRepo that discards everything. Used when the
// engine runs without a local database (e.g. in tests).
type NoopEvents struct{}

func (NoopEvents) AppendLLMRequest(context.Context, LLMRequestEventData) error { return nil }
func (NoopEvents) QueryLLMEvents(context.Context, QueryOpts) ([]LLMEvent, error) {
	return nil, nil
}
func (NoopEvents) AppendAttempt(context.Context, AttemptEventData) error { return nil }
func (NoopEvents) SectionStats(context.Context, int) (AttemptStats, error) {
	return AttemptStats{}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
