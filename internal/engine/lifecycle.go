package engine

import (
	"time"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
)

// Transition 상태 전이 결과.
// From은 조건부 업데이트(compare-and-swap)의 기대 상태로 사용
type Transition struct {
	Match     models.Match
	From      models.MatchStatus
	Changed   bool
	Triggered bool // 양쪽 핸드셰이크로 active 전환됨
}

func unchanged(m models.Match) Transition {
	return Transition{Match: m, From: m.Status}
}

// Handshake 참가자 쪽 핸드셰이크 플래그 설정.
// 양쪽 모두 true가 되고 pending이면 active로 전환
func Handshake(m models.Match, participantID string, now time.Time) (Transition, error) {
	side, ok := m.SideOf(participantID)
	if !ok {
		return unchanged(m), ErrUnauthorizedParticipant
	}
	if m.Status.IsTerminal() {
		return unchanged(m), ErrAlreadyCompleted
	}

	t := Transition{Match: m, From: m.Status}
	switch side {
	case models.SideA:
		if !m.HandshakeA {
			t.Match.HandshakeA = true
			t.Changed = true
		}
	case models.SideB:
		if !m.HandshakeB {
			t.Match.HandshakeB = true
			t.Changed = true
		}
	}

	if t.Match.HandshakeA && t.Match.HandshakeB && t.Match.Status == models.MatchStatusPending {
		started := now
		t.Match.Status = models.MatchStatusActive
		t.Match.StartedAt = &started
		t.Changed = true
		t.Triggered = true
	}

	return t, nil
}

// ManualStart 핸드셰이크 없이 운영자가 시작 (QR 스캔 불가 시)
func ManualStart(m models.Match, now time.Time) (Transition, error) {
	switch m.Status {
	case models.MatchStatusCompleted, models.MatchStatusSkipped:
		return unchanged(m), ErrAlreadyCompleted
	case models.MatchStatusActive:
		return unchanged(m), nil
	}

	started := now
	t := Transition{Match: m, From: m.Status, Changed: true}
	t.Match.Status = models.MatchStatusActive
	t.Match.StartedAt = &started
	return t, nil
}

// Complete 경과 시간과 무관하게 완료 처리
func Complete(m models.Match, now time.Time) (Transition, error) {
	switch m.Status {
	case models.MatchStatusCompleted:
		return unchanged(m), nil
	case models.MatchStatusSkipped:
		return unchanged(m), ErrAlreadyCompleted
	}

	finished := now
	t := Transition{Match: m, From: m.Status, Changed: true}
	t.Match.Status = models.MatchStatusCompleted
	t.Match.CompletedAt = &finished
	// 시작하지 않은 매치를 완료하면 시작 시각도 함께 기록
	if t.Match.StartedAt == nil {
		t.Match.StartedAt = &finished
	}
	return t, nil
}

// Skip pending 매치를 건너뜀
func Skip(m models.Match) (Transition, error) {
	switch m.Status {
	case models.MatchStatusSkipped:
		return unchanged(m), nil
	case models.MatchStatusCompleted:
		return unchanged(m), ErrAlreadyCompleted
	case models.MatchStatusActive:
		return unchanged(m), ErrInvalidTransition
	}

	t := Transition{Match: m, From: m.Status, Changed: true}
	t.Match.Status = models.MatchStatusSkipped
	return t, nil
}

// AutoExpire active 매치가 duration을 넘기면 completed. 순수 함수
func AutoExpire(m models.Match, duration time.Duration, now time.Time) Transition {
	if m.Status != models.MatchStatusActive || m.StartedAt == nil {
		return unchanged(m)
	}
	if now.Sub(*m.StartedAt) <= duration {
		return unchanged(m)
	}

	finished := m.StartedAt.Add(duration)
	t := Transition{Match: m, From: m.Status, Changed: true}
	t.Match.Status = models.MatchStatusCompleted
	t.Match.CompletedAt = &finished
	return t
}

// Remaining 라운드 종료까지 남은 시간. active가 아니면 ok=false
func Remaining(m models.Match, duration time.Duration, now time.Time) (time.Duration, bool) {
	if m.Status != models.MatchStatusActive || m.StartedAt == nil {
		return 0, false
	}
	left := duration - now.Sub(*m.StartedAt)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Reset 테스트/복구용. 핸드셰이크와 시작 시각 초기화
func Reset(m models.Match) Transition {
	t := Transition{Match: m, From: m.Status}
	t.Match.HandshakeA = false
	t.Match.HandshakeB = false
	t.Match.Status = models.MatchStatusPending
	t.Match.StartedAt = nil
	t.Match.CompletedAt = nil
	t.Changed = m.HandshakeA || m.HandshakeB || m.Status != models.MatchStatusPending ||
		m.StartedAt != nil || m.CompletedAt != nil
	return t
}
