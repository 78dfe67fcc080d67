package engine

import "github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"

// CurrentRound 가장 큰 라운드 번호, 매치가 없으면 0
func CurrentRound(matches []*models.Match) int {
	current := 0
	for _, m := range matches {
		if m != nil && m.RoundNumber > current {
			current = m.RoundNumber
		}
	}
	return current
}

// MatchesInRound 특정 라운드의 매치만 추출
func MatchesInRound(matches []*models.Match, roundNumber int) []*models.Match {
	out := make([]*models.Match, 0)
	for _, m := range matches {
		if m != nil && m.RoundNumber == roundNumber {
			out = append(out, m)
		}
	}
	return out
}

// RoundStatus 라운드 상태 집계. 매치가 없는 라운드는 AllCompleted가 아님
func RoundStatus(matches []*models.Match, roundNumber int) models.RoundSummary {
	summary := models.RoundSummary{RoundNumber: roundNumber}

	for _, m := range matches {
		if m == nil || m.RoundNumber != roundNumber {
			continue
		}
		summary.Total++
		switch m.Status {
		case models.MatchStatusPending:
			summary.Pending++
		case models.MatchStatusActive:
			summary.Active++
		case models.MatchStatusCompleted:
			summary.Completed++
		case models.MatchStatusSkipped:
			summary.Skipped++
		}
	}

	summary.AllCompleted = summary.Total > 0 && summary.Completed == summary.Total
	summary.AnyActive = summary.Active > 0
	summary.AnyPending = summary.Pending > 0

	return summary
}
