package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/database"
)

const eventColumns = `id, name, theme, status, round_duration_sec, max_rounds, created_at`

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Theme,
		&event.Status,
		&event.RoundDurationSec,
		&event.MaxRounds,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create 새 이벤트 생성
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (name, theme, status, round_duration_sec, max_rounds)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Theme,
		event.Status,
		event.RoundDurationSec,
		event.MaxRounds,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return created, nil
}

// FindByID ID로 이벤트 찾기
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	if !validID(id) {
		return nil, nil
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return event, nil
}

// FindAll 모든 이벤트 (최신 순)
func (r *EventRepository) FindAll(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// Update 이벤트 전체 필드 갱신. 없는 이벤트면 nil
func (r *EventRepository) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	if !validID(event.ID) {
		return nil, nil
	}

	query := `
		UPDATE events
		SET name = $1, theme = $2, status = $3, round_duration_sec = $4, max_rounds = $5
		WHERE id = $6
		RETURNING ` + eventColumns

	updated, err := scanEvent(r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Theme,
		event.Status,
		event.RoundDurationSec,
		event.MaxRounds,
		event.ID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return updated, nil
}

// SetStatus 이벤트 상태만 변경
func (r *EventRepository) SetStatus(ctx context.Context, id string, status models.EventStatus) error {
	if !validID(id) {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	return nil
}

// Delete 이벤트 삭제 (참가자와 매치는 cascade)
func (r *EventRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
