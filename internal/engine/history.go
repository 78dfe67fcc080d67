package engine

import "github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"

// PairKey 순서가 없는 참가자 쌍. 항상 Low <= High
type PairKey struct {
	Low  string
	High string
}

// NewPairKey PairKey(a, b) == PairKey(b, a)
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

// PairingHistory 이벤트에서 이미 만난 쌍의 집합
type PairingHistory struct {
	pairs map[PairKey]struct{}
}

func NewPairingHistory() *PairingHistory {
	return &PairingHistory{pairs: make(map[PairKey]struct{})}
}

// HistoryFromMatches 매치 기록(상태 무관)으로부터 히스토리 재구성
func HistoryFromMatches(matches []*models.Match) *PairingHistory {
	h := &PairingHistory{pairs: make(map[PairKey]struct{}, len(matches))}
	for _, m := range matches {
		if m == nil {
			continue
		}
		h.Record(m.ParticipantAID, m.ParticipantBID)
	}
	return h
}

// HasMet a와 b가 이전 라운드에서 만났는지
func (h *PairingHistory) HasMet(a, b string) bool {
	if h == nil {
		return false
	}
	_, ok := h.pairs[NewPairKey(a, b)]
	return ok
}

// Record 쌍 기록
func (h *PairingHistory) Record(a, b string) {
	h.pairs[NewPairKey(a, b)] = struct{}{}
}

func (h *PairingHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.pairs)
}
