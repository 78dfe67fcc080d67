package engine

import (
	"sort"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
)

// Pair 라운드에서 만나는 두 참가자
type Pair struct {
	A           *models.Participant
	B           *models.Participant
	Score       float64
	TableNumber int
}

// Candidate 아직 만나지 않은 후보 쌍
type Candidate struct {
	A     *models.Participant
	B     *models.Participant
	Score float64
}

// PairingStrategy 후보 쌍 목록에서 라운드 쌍을 고르는 알고리즘.
// 최대 가중치 매칭 같은 다른 구현으로 교체할 수 있음
type PairingStrategy interface {
	Select(roster []*models.Participant, candidates []Candidate) (pairs []Pair, byes []*models.Participant)
}

// GreedyStrategy 점수 높은 순으로 탐욕적 선택.
// 최대 카디널리티 매칭을 보장하지 않음 (근사)
type GreedyStrategy struct{}

func (GreedyStrategy) Select(roster []*models.Participant, candidates []Candidate) ([]Pair, []*models.Participant) {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	// 동점이면 입력 순서 유지
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	claimed := make(map[string]bool, len(roster))
	pairs := make([]Pair, 0, len(roster)/2)
	table := 1

	for _, c := range sorted {
		if claimed[c.A.ID] || claimed[c.B.ID] {
			continue
		}
		claimed[c.A.ID] = true
		claimed[c.B.ID] = true
		pairs = append(pairs, Pair{A: c.A, B: c.B, Score: c.Score, TableNumber: table})
		table++
	}

	byes := make([]*models.Participant, 0)
	for _, p := range roster {
		if !claimed[p.ID] {
			byes = append(byes, p)
		}
	}

	return pairs, byes
}

// RoundPlan 다음 라운드 배정 결과
type RoundPlan struct {
	RoundNumber int
	Pairs       []Pair
	Byes        []*models.Participant
}

// Matches 저장할 pending 매치 생성
func (p *RoundPlan) Matches(eventID string, deck *IcebreakerDeck) []*models.Match {
	matches := make([]*models.Match, 0, len(p.Pairs))
	for _, pair := range p.Pairs {
		m := &models.Match{
			EventID:        eventID,
			RoundNumber:    p.RoundNumber,
			TableNumber:    pair.TableNumber,
			ParticipantAID: pair.A.ID,
			ParticipantBID: pair.B.ID,
			Status:         models.MatchStatusPending,
		}
		if q := deck.Pick(); q != "" {
			question := q
			m.IcebreakerQuestion = &question
		}
		matches = append(matches, m)
	}
	return matches
}

// Matcher 라운드 매칭 엔진
type Matcher struct {
	scorer   Scorer
	strategy PairingStrategy
}

type MatcherOption func(*Matcher)

func WithScorer(s Scorer) MatcherOption {
	return func(m *Matcher) { m.scorer = s }
}

func WithStrategy(s PairingStrategy) MatcherOption {
	return func(m *Matcher) { m.strategy = s }
}

// NewMatcher 기본값: CosineScorer + GreedyStrategy
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		scorer:   CosineScorer{},
		strategy: GreedyStrategy{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NextRound 기존 매치 기록을 바탕으로 다음 라운드 계획.
// 첫 라운드가 아니면 현재 라운드가 모두 completed여야 함
func (m *Matcher) NextRound(roster []*models.Participant, existing []*models.Match) (*RoundPlan, error) {
	roster = uniqueRoster(roster)
	if len(roster) < 2 {
		return nil, ErrInsufficientParticipants
	}

	current := CurrentRound(existing)
	if current > 0 && !RoundStatus(existing, current).AllCompleted {
		return nil, ErrRoundNotComplete
	}

	return m.PairRound(current+1, roster, HistoryFromMatches(existing))
}

// PairRound 히스토리에 없는 쌍만으로 라운드 구성
func (m *Matcher) PairRound(roundNumber int, roster []*models.Participant, history *PairingHistory) (*RoundPlan, error) {
	roster = uniqueRoster(roster)
	if len(roster) < 2 {
		return nil, ErrInsufficientParticipants
	}

	candidates := m.Candidates(roster, history)
	if len(candidates) == 0 {
		return nil, ErrNoEligiblePairs
	}

	pairs, byes := m.strategy.Select(roster, candidates)
	if len(pairs) == 0 {
		return nil, ErrNoEligiblePairs
	}

	return &RoundPlan{
		RoundNumber: roundNumber,
		Pairs:       pairs,
		Byes:        byes,
	}, nil
}

// Candidates 로스터 순서(i<j)대로 만나지 않은 쌍과 점수
func (m *Matcher) Candidates(roster []*models.Participant, history *PairingHistory) []Candidate {
	candidates := make([]Candidate, 0, len(roster)*(len(roster)-1)/2)
	for i := 0; i < len(roster); i++ {
		for j := i + 1; j < len(roster); j++ {
			a, b := roster[i], roster[j]
			if history.HasMet(a.ID, b.ID) {
				continue
			}
			candidates = append(candidates, Candidate{A: a, B: b, Score: m.scorer.Score(a, b)})
		}
	}
	return candidates
}

// uniqueRoster nil과 중복 ID 제거, 처음 등장한 순서 유지
func uniqueRoster(roster []*models.Participant) []*models.Participant {
	seen := make(map[string]bool, len(roster))
	out := make([]*models.Participant, 0, len(roster))
	for _, p := range roster {
		if p == nil || p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
