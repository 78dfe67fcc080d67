package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/repository"
	"github.com/stretchr/testify/mock"
)

var baseTime = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

// memEventStore EventStore 메모리 구현
type memEventStore struct {
	mu     sync.Mutex
	events map[string]*models.Event
	seq    int
}

func newMemEventStore(events ...*models.Event) *memEventStore {
	s := &memEventStore{events: make(map[string]*models.Event)}
	for _, e := range events {
		copied := *e
		s.events[e.ID] = &copied
	}
	return s
}

func (s *memEventStore) Create(_ context.Context, event *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	created := *event
	created.ID = fmt.Sprintf("event-%d", s.seq)
	created.CreatedAt = baseTime
	s.events[created.ID] = &created
	out := created
	return &out, nil
}

func (s *memEventStore) FindByID(_ context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	out := *e
	return &out, nil
}

func (s *memEventStore) FindAll(_ context.Context) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Event, 0, len(s.events))
	for _, e := range s.events {
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memEventStore) Update(_ context.Context, event *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return nil, nil
	}
	stored := *event
	s.events[event.ID] = &stored
	out := stored
	return &out, nil
}

func (s *memEventStore) SetStatus(_ context.Context, id string, status models.EventStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok {
		e.Status = status
	}
	return nil
}

func (s *memEventStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return false, nil
	}
	delete(s.events, id)
	return true, nil
}

// memParticipantStore ParticipantStore 메모리 구현
type memParticipantStore struct {
	mu           sync.Mutex
	participants []*models.Participant
	seq          int
}

func newMemParticipantStore(participants ...*models.Participant) *memParticipantStore {
	s := &memParticipantStore{}
	for _, p := range participants {
		copied := *p
		s.participants = append(s.participants, &copied)
	}
	return s
}

func (s *memParticipantStore) find(pred func(p *models.Participant) bool) []*models.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Participant, 0)
	for _, p := range s.participants {
		if pred(p) {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out
}

func (s *memParticipantStore) first(pred func(p *models.Participant) bool) *models.Participant {
	found := s.find(pred)
	if len(found) == 0 {
		return nil
	}
	return found[len(found)-1]
}

func (s *memParticipantStore) Create(_ context.Context, p *models.Participant) (*models.Participant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.participants {
		if existing.EventID == p.EventID && existing.Email == p.Email {
			copied := *existing
			return &copied, false, nil
		}
	}
	s.seq++
	created := *p
	created.ID = fmt.Sprintf("participant-%d", s.seq)
	created.CreatedAt = baseTime.Add(time.Duration(s.seq) * time.Second)
	s.participants = append(s.participants, &created)
	out := created
	return &out, true, nil
}

func (s *memParticipantStore) FindByID(_ context.Context, id string) (*models.Participant, error) {
	return s.first(func(p *models.Participant) bool { return p.ID == id }), nil
}

func (s *memParticipantStore) FindByEventAndEmail(_ context.Context, eventID, email string) (*models.Participant, error) {
	return s.first(func(p *models.Participant) bool { return p.EventID == eventID && p.Email == email }), nil
}

func (s *memParticipantStore) FindLatestByEmail(_ context.Context, email string) (*models.Participant, error) {
	return s.first(func(p *models.Participant) bool { return p.Email == email }), nil
}

func (s *memParticipantStore) FindByEvent(_ context.Context, eventID string) ([]*models.Participant, error) {
	return s.find(func(p *models.Participant) bool { return p.EventID == eventID }), nil
}

func (s *memParticipantStore) FindCheckedInByEvent(_ context.Context, eventID string) ([]*models.Participant, error) {
	return s.find(func(p *models.Participant) bool { return p.EventID == eventID && p.CheckedIn }), nil
}

func (s *memParticipantStore) FindByIDs(_ context.Context, ids []string) ([]*models.Participant, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return s.find(func(p *models.Participant) bool { return wanted[p.ID] }), nil
}

func (s *memParticipantStore) SetCheckedIn(_ context.Context, ids []string, checkedIn bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.participants {
		for _, id := range ids {
			if p.ID == id {
				p.CheckedIn = checkedIn
				n++
			}
		}
	}
	return n, nil
}

func (s *memParticipantStore) SetEmbedding(_ context.Context, id string, embedding []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.participants {
		if p.ID == id && len(p.Embedding) == 0 {
			p.Embedding = append([]float64(nil), embedding...)
		}
	}
	return nil
}

// memMatchStore MatchStore 메모리 구현. version 기반 조건부 업데이트 동작을 그대로 따름
type memMatchStore struct {
	mu        sync.Mutex
	matches   []*models.Match
	durations map[string]time.Duration
	seq       int

	updateCalls int
	// beforeUpdate UpdateState 직전에 호출. 동시 수정 흉내
	beforeUpdate func(s *memMatchStore, m *models.Match)
	// beforeCreateRound CreateRound 직전에 호출. 먼저 라운드를 만든 다른 요청 흉내
	beforeCreateRound func(s *memMatchStore)
}

func newMemMatchStore(matches ...*models.Match) *memMatchStore {
	s := &memMatchStore{durations: make(map[string]time.Duration)}
	for _, m := range matches {
		copied := *m
		s.matches = append(s.matches, &copied)
	}
	return s
}

func (s *memMatchStore) get(id string) *models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == id {
			copied := *m
			return &copied
		}
	}
	return nil
}

// bump 저장된 매치를 직접 수정하고 version 증가
func (s *memMatchStore) bump(id string, mutate func(m *models.Match)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == id {
			mutate(m)
			m.Version++
		}
	}
}

func (s *memMatchStore) filter(pred func(m *models.Match) bool) []*models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range s.matches {
		if pred(m) {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out
}

func (s *memMatchStore) insert(eventID string, matches []*models.Match) []*models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		s.seq++
		stored := *m
		stored.ID = fmt.Sprintf("match-%d", s.seq)
		stored.EventID = eventID
		stored.Version = 0
		stored.CreatedAt = baseTime
		s.matches = append(s.matches, &stored)
		out := stored
		created = append(created, &out)
	}
	return created
}

func (s *memMatchStore) currentRound(eventID string) int {
	current := 0
	for _, m := range s.filter(func(m *models.Match) bool { return m.EventID == eventID }) {
		if m.RoundNumber > current {
			current = m.RoundNumber
		}
	}
	return current
}

func (s *memMatchStore) CreateRound(_ context.Context, eventID string, expectedCurrent int, matches []*models.Match) ([]*models.Match, error) {
	if hook := s.beforeCreateRound; hook != nil {
		s.beforeCreateRound = nil
		hook(s)
	}
	if s.currentRound(eventID) != expectedCurrent {
		return nil, repository.ErrRoundConflict
	}
	return s.insert(eventID, matches), nil
}

func (s *memMatchStore) UpdateState(_ context.Context, match *models.Match) (bool, error) {
	s.updateCalls++
	if hook := s.beforeUpdate; hook != nil {
		hook(s, match)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stored := range s.matches {
		if stored.ID != match.ID {
			continue
		}
		if stored.Version != match.Version {
			return false, nil
		}
		next := *match
		next.Version = stored.Version + 1
		*stored = next
		match.Version = next.Version
		return true, nil
	}
	return false, nil
}

func (s *memMatchStore) start(pred func(m *models.Match) bool, now time.Time) []*models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range s.matches {
		if m.Status == models.MatchStatusPending && pred(m) {
			started := now
			m.Status = models.MatchStatusActive
			m.StartedAt = &started
			m.Version++
			copied := *m
			out = append(out, &copied)
		}
	}
	return out
}

func (s *memMatchStore) StartPending(_ context.Context, matchIDs []string, now time.Time) ([]*models.Match, error) {
	wanted := make(map[string]bool, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = true
	}
	return s.start(func(m *models.Match) bool { return wanted[m.ID] }, now), nil
}

func (s *memMatchStore) StartPendingByEvent(_ context.Context, eventID string, now time.Time) ([]*models.Match, error) {
	return s.start(func(m *models.Match) bool { return m.EventID == eventID }, now), nil
}

func (s *memMatchStore) FindByID(_ context.Context, id string) (*models.Match, error) {
	return s.get(id), nil
}

func (s *memMatchStore) FindByEvent(_ context.Context, eventID string) ([]*models.Match, error) {
	out := s.filter(func(m *models.Match) bool { return m.EventID == eventID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		return out[i].TableNumber < out[j].TableNumber
	})
	return out, nil
}

func (s *memMatchStore) FindByParticipant(_ context.Context, participantID string) ([]*models.Match, error) {
	out := s.filter(func(m *models.Match) bool { return m.Involves(participantID) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].RoundNumber > out[j].RoundNumber })
	return out, nil
}

func (s *memMatchStore) FindActiveWithDuration(_ context.Context) ([]*models.Match, map[string]time.Duration, error) {
	active := s.filter(func(m *models.Match) bool { return m.Status == models.MatchStatusActive })
	durations := make(map[string]time.Duration)
	for _, m := range active {
		durations[m.EventID] = s.durations[m.EventID]
	}
	return active, durations, nil
}

func (s *memMatchStore) DeleteByEvent(_ context.Context, eventID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.matches[:0]
	var n int64
	for _, m := range s.matches {
		if m.EventID == eventID {
			n++
			continue
		}
		kept = append(kept, m)
	}
	s.matches = kept
	return n, nil
}

// MockEmbedder testify mock
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	args := m.Called(ctx, text)
	if v := args.Get(0); v != nil {
		return v.([]float64), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockNotifier testify mock
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, update *models.MatchUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

// MockLocker testify mock
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func testEvent(id string) *models.Event {
	return &models.Event{
		ID:               id,
		Name:             "Teknopark Networking",
		Status:           models.EventStatusActive,
		RoundDurationSec: 360,
		CreatedAt:        baseTime,
	}
}

func testParticipant(eventID, name string) *models.Participant {
	return &models.Participant{
		ID:            name,
		EventID:       eventID,
		Email:         strings.ToLower(name) + "@example.com",
		FullName:      name,
		CurrentIntent: "meet " + name,
		CheckedIn:     true,
	}
}
