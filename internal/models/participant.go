package models

import (
	"strings"
	"time"
)

type Participant struct {
	ID            string    `json:"id" db:"id"`
	EventID       string    `json:"eventId" db:"event_id"`
	Email         string    `json:"email" db:"email"`
	FullName      string    `json:"fullName" db:"full_name"`
	Company       *string   `json:"company,omitempty" db:"company"`
	Position      *string   `json:"position,omitempty" db:"position"`
	CurrentIntent string    `json:"currentIntent" db:"current_intent"`
	CheckedIn     bool      `json:"checkedIn" db:"checked_in"`
	Embedding     []float64 `json:"-" db:"embedding"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// HasEmbedding 임베딩 벡터 존재 여부
func (p *Participant) HasEmbedding() bool {
	return len(p.Embedding) > 0
}

// EmbeddingText 임베딩 생성에 사용하는 텍스트
func (p *Participant) EmbeddingText() string {
	parts := []string{p.CurrentIntent}
	if p.Position != nil && *p.Position != "" {
		parts = append(parts, *p.Position)
	}
	if p.Company != nil && *p.Company != "" {
		parts = append(parts, *p.Company)
	}
	return strings.Join(parts, " | ")
}

// Profile 상대방에게 노출되는 정보만
func (p *Participant) Profile() *ParticipantProfile {
	return &ParticipantProfile{
		ID:            p.ID,
		FullName:      p.FullName,
		Company:       p.Company,
		Position:      p.Position,
		CurrentIntent: p.CurrentIntent,
	}
}

type ParticipantProfile struct {
	ID            string  `json:"id"`
	FullName      string  `json:"fullName"`
	Company       *string `json:"company,omitempty"`
	Position      *string `json:"position,omitempty"`
	CurrentIntent string  `json:"currentIntent"`
}

type RegisterParticipantRequest struct {
	EventID       string  `json:"eventId" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	FullName      string  `json:"fullName" binding:"required,min=1,max=200"`
	Company       *string `json:"company"`
	Position      *string `json:"position"`
	CurrentIntent string  `json:"currentIntent" binding:"required"`
}

type CheckInRequest struct {
	CheckedIn *bool `json:"checkedIn" binding:"required"`
}

type BulkCheckInRequest struct {
	ParticipantIDs []string `json:"participantIds" binding:"required,min=1"`
	CheckedIn      *bool    `json:"checkedIn" binding:"required"`
}
