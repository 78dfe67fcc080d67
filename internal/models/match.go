package models

import "time"

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusActive    MatchStatus = "active"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusSkipped   MatchStatus = "skipped"
)

// IsTerminal completed, skipped 상태는 더 이상 전이하지 않음
func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusCompleted || s == MatchStatusSkipped
}

// Side 매치에서 참가자의 위치 (A 또는 B)
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

type Match struct {
	ID                 string      `json:"id" db:"id"`
	EventID            string      `json:"eventId" db:"event_id"`
	RoundNumber        int         `json:"roundNumber" db:"round_number"`
	TableNumber        int         `json:"tableNumber" db:"table_number"`
	ParticipantAID     string      `json:"participantAId" db:"participant_a_id"`
	ParticipantBID     string      `json:"participantBId" db:"participant_b_id"`
	IcebreakerQuestion *string     `json:"icebreakerQuestion,omitempty" db:"icebreaker_question"`
	HandshakeA         bool        `json:"handshakeA" db:"handshake_a"`
	HandshakeB         bool        `json:"handshakeB" db:"handshake_b"`
	Status             MatchStatus `json:"status" db:"status"`
	StartedAt          *time.Time  `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt        *time.Time  `json:"completedAt,omitempty" db:"completed_at"`
	Version            int         `json:"version" db:"version"`
	CreatedAt          time.Time   `json:"createdAt" db:"created_at"`
}

// SideOf 참가자 ID가 어느 쪽인지 반환
func (m *Match) SideOf(participantID string) (Side, bool) {
	switch participantID {
	case "":
		return "", false
	case m.ParticipantAID:
		return SideA, true
	case m.ParticipantBID:
		return SideB, true
	}
	return "", false
}

// PartnerOf 상대 참가자 ID
func (m *Match) PartnerOf(participantID string) string {
	if participantID == m.ParticipantAID {
		return m.ParticipantBID
	}
	return m.ParticipantAID
}

// Involves 참가자가 이 매치에 속하는지 확인
func (m *Match) Involves(participantID string) bool {
	_, ok := m.SideOf(participantID)
	return ok
}

// ParticipantMatch 참가자 시점의 매치 (상대 정보 포함)
type ParticipantMatch struct {
	Match
	Partner          *ParticipantProfile `json:"partner,omitempty"`
	Side             Side                `json:"side"`
	MyHandshake      bool                `json:"myHandshake"`
	PartnerHandshake bool                `json:"partnerHandshake"`
	RemainingSeconds *int                `json:"remainingSeconds,omitempty"`
}

type HandshakeRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

type BulkStartRequest struct {
	MatchIDs []string `json:"matchIds" binding:"required,min=1"`
}
