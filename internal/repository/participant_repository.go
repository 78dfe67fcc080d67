package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/database"
	"github.com/lib/pq"
)

const participantColumns = `
	id, event_id, email, full_name, company, position,
	current_intent, checked_in, embedding, created_at`

func scanParticipant(row rowScanner) (*models.Participant, error) {
	p := &models.Participant{}
	var embedding pq.Float64Array
	err := row.Scan(
		&p.ID,
		&p.EventID,
		&p.Email,
		&p.FullName,
		&p.Company,
		&p.Position,
		&p.CurrentIntent,
		&p.CheckedIn,
		&embedding,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(embedding) > 0 {
		p.Embedding = []float64(embedding)
	}
	return p, nil
}

func scanParticipants(rows *sql.Rows) ([]*models.Participant, error) {
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

type ParticipantRepository struct {
	db *database.DB
}

func NewParticipantRepository(db *database.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Create 참가자 등록. 같은 이벤트에 같은 이메일이 있으면 기존 참가자와 false 반환
func (r *ParticipantRepository) Create(ctx context.Context, p *models.Participant) (*models.Participant, bool, error) {
	if !validID(p.EventID) {
		return nil, false, ErrEventMissing
	}

	query := `
		INSERT INTO participants (event_id, email, full_name, company, position, current_intent, checked_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id, email) DO NOTHING
		RETURNING ` + participantColumns

	created, err := scanParticipant(r.db.QueryRowContext(ctx, query,
		p.EventID,
		p.Email,
		p.FullName,
		p.Company,
		p.Position,
		p.CurrentIntent,
		p.CheckedIn,
	))
	if err == sql.ErrNoRows {
		existing, findErr := r.FindByEventAndEmail(ctx, p.EventID, p.Email)
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create participant: %w", err)
	}

	return created, true, nil
}

// FindByID ID로 참가자 찾기
func (r *ParticipantRepository) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	if !validID(id) {
		return nil, nil
	}

	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

// FindByEventAndEmail 이벤트 내 이메일로 참가자 찾기
func (r *ParticipantRepository) FindByEventAndEmail(ctx context.Context, eventID, email string) (*models.Participant, error) {
	if !validID(eventID) {
		return nil, nil
	}

	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 AND email = $2`

	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, eventID, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find participant by email: %w", err)
	}
	return p, nil
}

// FindLatestByEmail 이메일로 가장 최근 등록 찾기 (meeting 페이지용)
func (r *ParticipantRepository) FindLatestByEmail(ctx context.Context, email string) (*models.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find participant by email: %w", err)
	}
	return p, nil
}

// FindByEvent 이벤트의 전체 참가자 (등록 순)
func (r *ParticipantRepository) FindByEvent(ctx context.Context, eventID string) ([]*models.Participant, error) {
	if !validID(eventID) {
		return []*models.Participant{}, nil
	}

	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	return scanParticipants(rows)
}

// FindCheckedInByEvent 체크인한 참가자만 (매칭 대상)
func (r *ParticipantRepository) FindCheckedInByEvent(ctx context.Context, eventID string) ([]*models.Participant, error) {
	if !validID(eventID) {
		return []*models.Participant{}, nil
	}

	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE event_id = $1 AND checked_in = TRUE
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checked-in participants: %w", err)
	}
	return scanParticipants(rows)
}

// FindByIDs 여러 참가자 조회
func (r *ParticipantRepository) FindByIDs(ctx context.Context, ids []string) ([]*models.Participant, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return []*models.Participant{}, nil
	}

	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	return scanParticipants(rows)
}

// SetCheckedIn 체크인 상태 변경. 변경된 행 수 반환
func (r *ParticipantRepository) SetCheckedIn(ctx context.Context, ids []string, checkedIn bool) (int64, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE participants SET checked_in = $1 WHERE id = ANY($2)`,
		checkedIn, pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update check-in: %w", err)
	}
	return result.RowsAffected()
}

// SetEmbedding 임베딩 저장. 이미 있으면 덮어쓰지 않음
func (r *ParticipantRepository) SetEmbedding(ctx context.Context, id string, embedding []float64) error {
	if !validID(id) {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE participants SET embedding = $1 WHERE id = $2 AND embedding IS NULL`,
		pq.Float64Array(embedding), id,
	)
	if err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}
	return nil
}
