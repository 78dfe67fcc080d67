package models

import "time"

type UpdateType string

const (
	UpdateMatchChanged UpdateType = "match_updated"
	UpdateRoundCreated UpdateType = "round_created"
	UpdateMatchesReset UpdateType = "matches_reset"
)

// MatchUpdate 참가자에게 푸시되는 매치 변경 알림
type MatchUpdate struct {
	Type      UpdateType `json:"type"`
	EventID   string     `json:"eventId"`
	Round     int        `json:"round,omitempty"`
	Matches   []*Match   `json:"matches"`
	Timestamp time.Time  `json:"timestamp"`
}

// Recipients 알림을 받을 참가자 ID (중복 제거)
func (u *MatchUpdate) Recipients() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(u.Matches)*2)
	for _, m := range u.Matches {
		for _, id := range []string{m.ParticipantAID, m.ParticipantBID} {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
