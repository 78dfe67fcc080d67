package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/database"
	"github.com/lib/pq"
)

var (
	// ErrRoundConflict 다른 요청이 먼저 라운드를 생성함
	ErrRoundConflict = errors.New("round was advanced concurrently")
	// ErrEventMissing 라운드를 생성할 이벤트가 없음
	ErrEventMissing = errors.New("event does not exist")
)

const matchColumns = `
	id, event_id, round_number, table_number,
	participant_a_id, participant_b_id, icebreaker_question,
	handshake_a, handshake_b, status,
	started_at, completed_at, version, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID,
		&match.EventID,
		&match.RoundNumber,
		&match.TableNumber,
		&match.ParticipantAID,
		&match.ParticipantBID,
		&match.IcebreakerQuestion,
		&match.HandshakeA,
		&match.HandshakeB,
		&match.Status,
		&match.StartedAt,
		&match.CompletedAt,
		&match.Version,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func scanMatches(rows *sql.Rows) ([]*models.Match, error) {
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}
	return matches, nil
}

type MatchRepository struct {
	db *database.DB
}

func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// CreateRound 한 라운드의 매치를 한 번에 저장.
// 이벤트 행을 잠근 뒤 현재 라운드가 expectedCurrent와 다르면 ErrRoundConflict
func (r *MatchRepository) CreateRound(ctx context.Context, eventID string, expectedCurrent int, matches []*models.Match) ([]*models.Match, error) {
	if !validID(eventID) {
		return nil, ErrEventMissing
	}
	created := make([]*models.Match, 0, len(matches))

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&locked)
		if err == sql.ErrNoRows {
			return ErrEventMissing
		}
		if err != nil {
			return fmt.Errorf("failed to lock event: %w", err)
		}

		var current int
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(round_number), 0) FROM matches WHERE event_id = $1`, eventID,
		).Scan(&current)
		if err != nil {
			return fmt.Errorf("failed to read current round: %w", err)
		}
		if current != expectedCurrent {
			return ErrRoundConflict
		}

		query := `
			INSERT INTO matches (
				event_id, round_number, table_number,
				participant_a_id, participant_b_id, icebreaker_question, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, 'pending')
			RETURNING ` + matchColumns

		for _, m := range matches {
			match, err := scanMatch(tx.QueryRowContext(ctx, query,
				eventID,
				m.RoundNumber,
				m.TableNumber,
				m.ParticipantAID,
				m.ParticipantBID,
				m.IcebreakerQuestion,
			))
			if err != nil {
				return fmt.Errorf("failed to insert match: %w", err)
			}
			created = append(created, match)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateState version 기반 조건부 업데이트. 다른 요청이 먼저 바꿨으면 false
func (r *MatchRepository) UpdateState(ctx context.Context, match *models.Match) (bool, error) {
	if !validID(match.ID) {
		return false, nil
	}

	query := `
		UPDATE matches
		SET handshake_a = $1,
		    handshake_b = $2,
		    status = $3,
		    started_at = $4,
		    completed_at = $5,
		    version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	var version int
	err := r.db.QueryRowContext(ctx, query,
		match.HandshakeA,
		match.HandshakeB,
		match.Status,
		match.StartedAt,
		match.CompletedAt,
		match.ID,
		match.Version,
	).Scan(&version)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update match state: %w", err)
	}

	match.Version = version
	return true, nil
}

// StartPending pending 상태인 매치만 active로 전환
func (r *MatchRepository) StartPending(ctx context.Context, matchIDs []string, now time.Time) ([]*models.Match, error) {
	matchIDs = validIDs(matchIDs)
	if len(matchIDs) == 0 {
		return []*models.Match{}, nil
	}

	query := `
		UPDATE matches
		SET status = 'active', started_at = $2, version = version + 1
		WHERE id = ANY($1) AND status = 'pending'
		RETURNING ` + matchColumns

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs), now)
	if err != nil {
		return nil, fmt.Errorf("failed to start matches: %w", err)
	}
	return scanMatches(rows)
}

// StartPendingByEvent 이벤트의 모든 pending 매치 시작
func (r *MatchRepository) StartPendingByEvent(ctx context.Context, eventID string, now time.Time) ([]*models.Match, error) {
	if !validID(eventID) {
		return []*models.Match{}, nil
	}

	query := `
		UPDATE matches
		SET status = 'active', started_at = $2, version = version + 1
		WHERE event_id = $1 AND status = 'pending'
		RETURNING ` + matchColumns

	rows, err := r.db.QueryContext(ctx, query, eventID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to start event matches: %w", err)
	}
	return scanMatches(rows)
}

// FindByID ID로 매치 찾기
func (r *MatchRepository) FindByID(ctx context.Context, id string) (*models.Match, error) {
	if !validID(id) {
		return nil, nil
	}

	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return match, nil
}

// FindByEvent 이벤트의 모든 매치 (라운드, 테이블 순)
func (r *MatchRepository) FindByEvent(ctx context.Context, eventID string) ([]*models.Match, error) {
	if !validID(eventID) {
		return []*models.Match{}, nil
	}

	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE event_id = $1
		ORDER BY round_number ASC, table_number ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query event matches: %w", err)
	}
	return scanMatches(rows)
}

// FindByParticipant 참가자의 매치 목록 (최근 라운드 먼저)
func (r *MatchRepository) FindByParticipant(ctx context.Context, participantID string) ([]*models.Match, error) {
	if !validID(participantID) {
		return []*models.Match{}, nil
	}

	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE participant_a_id = $1 OR participant_b_id = $1
		ORDER BY round_number DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participant matches: %w", err)
	}
	return scanMatches(rows)
}

// FindActiveWithDuration 진행 중인 매치와 이벤트 라운드 길이
func (r *MatchRepository) FindActiveWithDuration(ctx context.Context) ([]*models.Match, map[string]time.Duration, error) {
	query := `
		SELECT m.id, m.event_id, m.round_number, m.table_number,
		       m.participant_a_id, m.participant_b_id, m.icebreaker_question,
		       m.handshake_a, m.handshake_b, m.status,
		       m.started_at, m.completed_at, m.version, m.created_at,
		       e.round_duration_sec
		FROM matches m
		JOIN events e ON e.id = m.event_id
		WHERE m.status = 'active'
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query active matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	durations := make(map[string]time.Duration)
	for rows.Next() {
		match := &models.Match{}
		var durationSec int
		if err := rows.Scan(
			&match.ID,
			&match.EventID,
			&match.RoundNumber,
			&match.TableNumber,
			&match.ParticipantAID,
			&match.ParticipantBID,
			&match.IcebreakerQuestion,
			&match.HandshakeA,
			&match.HandshakeB,
			&match.Status,
			&match.StartedAt,
			&match.CompletedAt,
			&match.Version,
			&match.CreatedAt,
			&durationSec,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan active match: %w", err)
		}
		matches = append(matches, match)
		durations[match.EventID] = time.Duration(durationSec) * time.Second
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate active matches: %w", err)
	}

	return matches, durations, nil
}

// DeleteByEvent 이벤트의 모든 매치 삭제 (페어링 히스토리 초기화)
func (r *MatchRepository) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	if !validID(eventID) {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches: %w", err)
	}
	return result.RowsAffected()
}
