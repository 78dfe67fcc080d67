package models

import "time"

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusActive, EventStatusCompleted:
		return true
	}
	return false
}

type Event struct {
	ID               string      `json:"id" db:"id"`
	Name             string      `json:"name" db:"name"`
	Theme            *string     `json:"theme,omitempty" db:"theme"`
	Status           EventStatus `json:"status" db:"status"`
	RoundDurationSec int         `json:"roundDurationSec" db:"round_duration_sec"`
	MaxRounds        int         `json:"maxRounds" db:"max_rounds"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
}

// RoundDuration 라운드 길이
func (e *Event) RoundDuration() time.Duration {
	return time.Duration(e.RoundDurationSec) * time.Second
}

// EventWithParticipants 참가자 목록 포함 이벤트
type EventWithParticipants struct {
	Event
	Participants []*Participant `json:"participants"`
}

type CreateEventRequest struct {
	Name             string       `json:"name" binding:"required,min=1,max=200"`
	Theme            *string      `json:"theme"`
	Status           *EventStatus `json:"status"`
	RoundDurationSec *int         `json:"roundDurationSec"`
	MaxRounds        *int         `json:"maxRounds"`
}

// UpdateEventRequest nil 필드는 변경하지 않음
type UpdateEventRequest struct {
	Name             *string      `json:"name"`
	Theme            *string      `json:"theme"`
	Status           *EventStatus `json:"status"`
	RoundDurationSec *int         `json:"roundDurationSec"`
	MaxRounds        *int         `json:"maxRounds"`
}

func (r *UpdateEventRequest) IsEmpty() bool {
	return r.Name == nil && r.Theme == nil && r.Status == nil &&
		r.RoundDurationSec == nil && r.MaxRounds == nil
}
