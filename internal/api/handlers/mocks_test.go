package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	args := m.Called(ctx, req)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *MockEventService) GetWithParticipants(ctx context.Context, id string) (*models.EventWithParticipants, error) {
	args := m.Called(ctx, id)
	event, _ := args.Get(0).(*models.EventWithParticipants)
	return event, args.Error(1)
}

func (m *MockEventService) List(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]*models.Event)
	return events, args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, id string, req *models.UpdateEventRequest) (*models.Event, error) {
	args := m.Called(ctx, id, req)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockParticipantService struct {
	mock.Mock
}

func (m *MockParticipantService) Register(ctx context.Context, req *models.RegisterParticipantRequest) (*models.Participant, bool, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(*models.Participant)
	return p, args.Bool(1), args.Error(2)
}

func (m *MockParticipantService) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Participant)
	return p, args.Error(1)
}

func (m *MockParticipantService) Lookup(ctx context.Context, identifier string) (*models.Participant, error) {
	args := m.Called(ctx, identifier)
	p, _ := args.Get(0).(*models.Participant)
	return p, args.Error(1)
}

func (m *MockParticipantService) ListByEvent(ctx context.Context, eventID string) ([]*models.Participant, error) {
	args := m.Called(ctx, eventID)
	ps, _ := args.Get(0).([]*models.Participant)
	return ps, args.Error(1)
}

func (m *MockParticipantService) SetCheckedIn(ctx context.Context, id string, checkedIn bool) (*models.Participant, error) {
	args := m.Called(ctx, id, checkedIn)
	p, _ := args.Get(0).(*models.Participant)
	return p, args.Error(1)
}

func (m *MockParticipantService) BulkSetCheckedIn(ctx context.Context, ids []string, checkedIn bool) (int64, error) {
	args := m.Called(ctx, ids, checkedIn)
	return args.Get(0).(int64), args.Error(1)
}

type MockMatchService struct {
	mock.Mock
}

func (m *MockMatchService) match(args mock.Arguments) (*models.Match, error) {
	match, _ := args.Get(0).(*models.Match)
	return match, args.Error(1)
}

func (m *MockMatchService) matches(args mock.Arguments) ([]*models.Match, error) {
	matches, _ := args.Get(0).([]*models.Match)
	return matches, args.Error(1)
}

func (m *MockMatchService) GetByID(ctx context.Context, id string) (*models.Match, error) {
	return m.match(m.Called(ctx, id))
}

func (m *MockMatchService) Handshake(ctx context.Context, matchID, participantID string) (*models.Match, bool, error) {
	args := m.Called(ctx, matchID, participantID)
	match, _ := args.Get(0).(*models.Match)
	return match, args.Bool(1), args.Error(2)
}

func (m *MockMatchService) Start(ctx context.Context, matchID string) (*models.Match, error) {
	return m.match(m.Called(ctx, matchID))
}

func (m *MockMatchService) Complete(ctx context.Context, matchID string) (*models.Match, error) {
	return m.match(m.Called(ctx, matchID))
}

func (m *MockMatchService) Skip(ctx context.Context, matchID string) (*models.Match, error) {
	return m.match(m.Called(ctx, matchID))
}

func (m *MockMatchService) Reset(ctx context.Context, matchID string) (*models.Match, error) {
	return m.match(m.Called(ctx, matchID))
}

func (m *MockMatchService) BulkStart(ctx context.Context, matchIDs []string) ([]*models.Match, error) {
	return m.matches(m.Called(ctx, matchIDs))
}

func (m *MockMatchService) ActivateEvent(ctx context.Context, eventID string) ([]*models.Match, error) {
	return m.matches(m.Called(ctx, eventID))
}

func (m *MockMatchService) ListByEvent(ctx context.Context, eventID string) ([]*models.Match, error) {
	return m.matches(m.Called(ctx, eventID))
}

func (m *MockMatchService) ResetEvent(ctx context.Context, eventID string) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMatchService) ForParticipant(ctx context.Context, participantID string) ([]*models.ParticipantMatch, error) {
	args := m.Called(ctx, participantID)
	pms, _ := args.Get(0).([]*models.ParticipantMatch)
	return pms, args.Error(1)
}

type MockRoundService struct {
	mock.Mock
}

func (m *MockRoundService) Status(ctx context.Context, eventID string) (*models.RoundStatusResponse, error) {
	args := m.Called(ctx, eventID)
	status, _ := args.Get(0).(*models.RoundStatusResponse)
	return status, args.Error(1)
}

func (m *MockRoundService) Advance(ctx context.Context, eventID string) (*models.AdvanceRoundResponse, error) {
	args := m.Called(ctx, eventID)
	result, _ := args.Get(0).(*models.AdvanceRoundResponse)
	return result, args.Error(1)
}

// perform 요청을 실행하고 응답 JSON을 map으로 반환
func perform(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}
