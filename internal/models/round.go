package models

// RoundSummary 라운드 단위 매치 상태 집계
type RoundSummary struct {
	RoundNumber  int  `json:"roundNumber"`
	Total        int  `json:"total"`
	Pending      int  `json:"pending"`
	Active       int  `json:"active"`
	Completed    int  `json:"completed"`
	Skipped      int  `json:"skipped"`
	AllCompleted bool `json:"allCompleted"`
	AnyActive    bool `json:"anyActive"`
	AnyPending   bool `json:"anyPending"`
}

// RoundStatusResponse 현재 라운드 상태 + 매치 목록
type RoundStatusResponse struct {
	CurrentRound int          `json:"currentRound"`
	Summary      RoundSummary `json:"summary"`
	Matches      []*Match     `json:"matches"`
}

// AdvanceRoundResponse 새 라운드 생성 결과
type AdvanceRoundResponse struct {
	Round      int            `json:"round"`
	MatchCount int            `json:"matchCount"`
	Matches    []*Match       `json:"matches"`
	Byes       []*Participant `json:"byes"`
}
