package engine

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster(ids ...string) []*models.Participant {
	out := make([]*models.Participant, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.Participant{ID: id, EventID: "event-1"})
	}
	return out
}

func withEmbedding(id string, v ...float64) *models.Participant {
	return &models.Participant{ID: id, EventID: "event-1", Embedding: v}
}

// completeRound 계획된 쌍을 completed 매치로 변환
func completeRound(plan *RoundPlan) []*models.Match {
	matches := plan.Matches("event-1", nil)
	for _, m := range matches {
		m.Status = models.MatchStatusCompleted
	}
	return matches
}

func pairIDs(plan *RoundPlan) []PairKey {
	keys := make([]PairKey, 0, len(plan.Pairs))
	for _, p := range plan.Pairs {
		keys = append(keys, NewPairKey(p.A.ID, p.B.ID))
	}
	return keys
}

func TestMatcher_NextRound_EmptyHistoryPairsEveryone(t *testing.T) {
	matcher := NewMatcher()
	rng := rand.New(rand.NewPCG(42, 7))

	for n := 2; n <= 25; n++ {
		t.Run(fmt.Sprintf("roster of %d", n), func(t *testing.T) {
			participants := make([]*models.Participant, 0, n)
			for i := 0; i < n; i++ {
				p := &models.Participant{ID: fmt.Sprintf("p%02d", i)}
				// 일부 참가자만 임베딩 보유
				if rng.IntN(2) == 0 {
					p.Embedding = []float64{rng.Float64(), rng.Float64(), rng.Float64()}
				}
				participants = append(participants, p)
			}

			plan, err := matcher.NextRound(participants, nil)
			require.NoError(t, err)

			assert.Equal(t, 1, plan.RoundNumber)
			assert.Len(t, plan.Pairs, n/2)
			assert.Len(t, plan.Byes, n%2)

			seen := make(map[string]bool)
			for i, pair := range plan.Pairs {
				assert.NotEqual(t, pair.A.ID, pair.B.ID)
				assert.False(t, seen[pair.A.ID], "participant %s paired twice", pair.A.ID)
				assert.False(t, seen[pair.B.ID], "participant %s paired twice", pair.B.ID)
				seen[pair.A.ID] = true
				seen[pair.B.ID] = true
				assert.Equal(t, i+1, pair.TableNumber)
			}
		})
	}
}

func TestMatcher_NeverRepeatsPairsAcrossRounds(t *testing.T) {
	matcher := NewMatcher()

	for _, n := range []int{4, 5, 6, 9} {
		t.Run(fmt.Sprintf("roster of %d", n), func(t *testing.T) {
			ids := make([]string, 0, n)
			for i := 0; i < n; i++ {
				ids = append(ids, fmt.Sprintf("p%d", i))
			}
			participants := roster(ids...)

			var existing []*models.Match
			seen := make(map[PairKey]bool)

			for round := 1; ; round++ {
				plan, err := matcher.NextRound(participants, existing)
				if err != nil {
					require.ErrorIs(t, err, ErrNoEligiblePairs)
					break
				}
				require.Equal(t, round, plan.RoundNumber)

				for _, key := range pairIDs(plan) {
					assert.False(t, seen[key], "pair %v repeated in round %d", key, round)
					seen[key] = true
				}

				existing = append(existing, completeRound(plan)...)

				history := HistoryFromMatches(existing)
				for _, pair := range plan.Pairs {
					assert.True(t, history.HasMet(pair.A.ID, pair.B.ID))
				}

				require.LessOrEqual(t, round, n*(n-1)/2, "matcher did not terminate")
			}

			// 모든 쌍이 소진된 뒤에만 멈춤
			assert.Len(t, seen, n*(n-1)/2)
		})
	}
}

func TestMatcher_NoEligiblePairsWhenEveryoneMet(t *testing.T) {
	history := NewPairingHistory()
	history.Record("a", "b")
	history.Record("a", "c")
	history.Record("b", "c")

	_, err := NewMatcher().PairRound(4, roster("a", "b", "c"), history)
	assert.ErrorIs(t, err, ErrNoEligiblePairs)
}

func TestMatcher_InsufficientParticipants(t *testing.T) {
	matcher := NewMatcher()

	_, err := matcher.NextRound(nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	_, err = matcher.NextRound(roster("solo"), nil)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	// 중복 ID는 한 명으로 취급
	_, err = matcher.NextRound(roster("dup", "dup"), nil)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)
}

func TestMatcher_RefusesWhileCurrentRoundOpen(t *testing.T) {
	matcher := NewMatcher()
	participants := roster("a", "b", "c", "d")

	first, err := matcher.NextRound(participants, nil)
	require.NoError(t, err)

	existing := first.Matches("event-1", nil)
	existing[0].Status = models.MatchStatusCompleted
	existing[1].Status = models.MatchStatusActive

	_, err = matcher.NextRound(participants, existing)
	assert.ErrorIs(t, err, ErrRoundNotComplete)

	existing[1].Status = models.MatchStatusCompleted
	second, err := matcher.NextRound(participants, existing)
	require.NoError(t, err)
	assert.Equal(t, 2, second.RoundNumber)
}

func TestMatcher_FourParticipantsTwoRounds(t *testing.T) {
	matcher := NewMatcher()
	participants := roster("A", "B", "C", "D")

	first, err := matcher.NextRound(participants, nil)
	require.NoError(t, err)
	require.Len(t, first.Pairs, 2)
	assert.Empty(t, first.Byes)
	assert.ElementsMatch(t, []PairKey{NewPairKey("A", "B"), NewPairKey("C", "D")}, pairIDs(first))

	existing := completeRound(first)
	second, err := matcher.NextRound(participants, existing)
	require.NoError(t, err)
	require.Len(t, second.Pairs, 2)
	assert.Empty(t, second.Byes)
	assert.Equal(t, 2, second.RoundNumber)

	for _, key := range pairIDs(second) {
		assert.NotContains(t, pairIDs(first), key)
	}
	assert.ElementsMatch(t, []PairKey{NewPairKey("A", "C"), NewPairKey("B", "D")}, pairIDs(second))
}

func TestMatcher_OddRosterHasDeterministicBye(t *testing.T) {
	matcher := NewMatcher()

	plan, err := matcher.NextRound(roster("A", "B", "C"), nil)
	require.NoError(t, err)
	require.Len(t, plan.Pairs, 1)
	require.Len(t, plan.Byes, 1)
	assert.Equal(t, "C", plan.Byes[0].ID)

	// 친화도가 가장 낮은 참가자가 남음
	scored := []*models.Participant{
		withEmbedding("far", 0, 1),
		withEmbedding("near1", 1, 0),
		withEmbedding("near2", 0.9, 0.1),
	}
	plan, err = matcher.NextRound(scored, nil)
	require.NoError(t, err)
	require.Len(t, plan.Byes, 1)
	assert.Equal(t, "far", plan.Byes[0].ID)
	assert.Equal(t, NewPairKey("near1", "near2"), pairIDs(plan)[0])
}

func TestMatcher_HighestAffinityFirst(t *testing.T) {
	participants := []*models.Participant{
		withEmbedding("a", 1, 0, 0),
		withEmbedding("b", 0, 1, 0),
		withEmbedding("c", 0.95, 0.05, 0),
		withEmbedding("d", 0.05, 0.95, 0),
	}

	plan, err := NewMatcher().NextRound(participants, nil)
	require.NoError(t, err)
	require.Len(t, plan.Pairs, 2)

	assert.ElementsMatch(t, []PairKey{NewPairKey("a", "c"), NewPairKey("b", "d")}, pairIDs(plan))
	assert.GreaterOrEqual(t, plan.Pairs[0].Score, plan.Pairs[1].Score)
}

// 탐욕 알고리즘은 완전 매칭이 있어도 놓칠 수 있음 (허용된 근사)
func TestGreedyStrategy_IsNotMaximumMatching(t *testing.T) {
	participants := []*models.Participant{
		withEmbedding("A", 1, 0),
		withEmbedding("B", 1, 0),
		withEmbedding("C", 0, 1),
		withEmbedding("D", 0, 1),
	}
	history := NewPairingHistory()
	history.Record("C", "D")

	plan, err := NewMatcher().PairRound(2, participants, history)
	require.NoError(t, err)

	// A-C, B-D 완전 매칭이 존재하지만 A-B를 먼저 고르면 C, D가 남음
	assert.Len(t, plan.Pairs, 1)
	assert.Equal(t, NewPairKey("A", "B"), pairIDs(plan)[0])
	assert.Len(t, plan.Byes, 2)
}

type reverseStrategy struct{}

func (reverseStrategy) Select(roster []*models.Participant, candidates []Candidate) ([]Pair, []*models.Participant) {
	last := candidates[len(candidates)-1]
	return []Pair{{A: last.A, B: last.B, Score: last.Score, TableNumber: 1}}, nil
}

func TestMatcher_CustomStrategy(t *testing.T) {
	matcher := NewMatcher(WithStrategy(reverseStrategy{}))

	plan, err := matcher.NextRound(roster("a", "b", "c"), nil)
	require.NoError(t, err)
	assert.Equal(t, NewPairKey("b", "c"), pairIDs(plan)[0])
}

type constantScorer float64

func (s constantScorer) Score(a, b *models.Participant) float64 { return float64(s) }

func TestMatcher_Candidates(t *testing.T) {
	matcher := NewMatcher(WithScorer(constantScorer(0.1)))
	history := NewPairingHistory()
	history.Record("a", "b")

	candidates := matcher.Candidates(roster("a", "b", "c"), history)
	require.Len(t, candidates, 2)
	assert.Equal(t, "a", candidates[0].A.ID)
	assert.Equal(t, "c", candidates[0].B.ID)
	assert.Equal(t, "b", candidates[1].A.ID)
	assert.Equal(t, 0.1, candidates[1].Score)
}

func TestRoundPlan_MatchesArePending(t *testing.T) {
	plan, err := NewMatcher().NextRound(roster("a", "b", "c", "d"), nil)
	require.NoError(t, err)

	deck := NewIcebreakerDeck([]string{"only question"})
	matches := plan.Matches("event-9", deck)
	require.Len(t, matches, 2)

	tables := make(map[int]bool)
	for _, m := range matches {
		assert.Equal(t, "event-9", m.EventID)
		assert.Equal(t, 1, m.RoundNumber)
		assert.Equal(t, models.MatchStatusPending, m.Status)
		assert.False(t, m.HandshakeA)
		assert.False(t, m.HandshakeB)
		assert.Nil(t, m.StartedAt)
		require.NotNil(t, m.IcebreakerQuestion)
		assert.Equal(t, "only question", *m.IcebreakerQuestion)
		assert.False(t, tables[m.TableNumber])
		tables[m.TableNumber] = true
	}
}

func TestIcebreakerDeck_Pick(t *testing.T) {
	deck := NewIcebreakerDeck([]string{"one", "two", "three"})
	deck.intn = func(n int) int { return n - 1 }
	assert.Equal(t, "three", deck.Pick())

	assert.Contains(t, DefaultIcebreakers, NewIcebreakerDeck(nil).Pick())

	var empty *IcebreakerDeck
	assert.Equal(t, "", empty.Pick())
}
