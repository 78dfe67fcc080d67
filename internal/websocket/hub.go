package websocket

import (
	"context"
	"sync"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"go.uber.org/zap"
)

// Hub 참가자별 WebSocket 연결 관리
type Hub struct {
	// 참가자별 연결 (participantID -> *Client)
	clients map[string]*Client
	mu      sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	allowedOrigins map[string]bool
	logger         *zap.Logger
}

// Message WebSocket 메시지
type Message struct {
	ParticipantID string      `json:"-"`
	Type          string      `json:"type"`
	Payload       interface{} `json:"payload"`
}

// NewHub allowedOrigins가 비어 있거나 "*"를 포함하면 모든 origin 허용
func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Hub{
		clients:        make(map[string]*Client),
		broadcast:      make(chan *Message, 256),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		allowedOrigins: origins,
		logger:         logger,
	}
}

// Run Hub 실행. Stop까지 블록됨
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.sendMessage(message)

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop Hub 종료. 모든 연결의 send 채널을 닫음
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// 같은 참가자의 기존 연결은 닫고 교체
	if old, exists := h.clients[client.participantID]; exists {
		close(old.send)
		h.logger.Info("Replaced existing WebSocket connection",
			zap.String("participantId", client.participantID))
	}

	h.clients[client.participantID] = client
	h.logger.Info("WebSocket client registered",
		zap.String("participantId", client.participantID),
		zap.Int("totalClients", len(h.clients)))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// 교체된 연결이면 이미 닫혀 있음
	if current, exists := h.clients[client.participantID]; exists && current == client {
		delete(h.clients, client.participantID)
		close(client.send)
		h.logger.Info("WebSocket client unregistered",
			zap.String("participantId", client.participantID),
			zap.Int("totalClients", len(h.clients)))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
}

func (h *Hub) sendMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[message.ParticipantID]
	if !exists {
		return
	}

	select {
	case client.send <- message:
	default:
		h.logger.Warn("Client send channel full, dropping message",
			zap.String("participantId", message.ParticipantID),
			zap.String("type", message.Type))
	}
}

// SendToParticipant 특정 참가자에게 메시지 전송
func (h *Hub) SendToParticipant(participantID, msgType string, payload interface{}) {
	select {
	case h.broadcast <- &Message{ParticipantID: participantID, Type: msgType, Payload: payload}:
	case <-h.done:
	}
}

// Deliver 매치 변경을 관련 참가자들에게 전달
func (h *Hub) Deliver(update *models.MatchUpdate) {
	for _, participantID := range update.Recipients() {
		h.SendToParticipant(participantID, string(update.Type), update)
	}
}

// Publish 단일 인스턴스 모드에서 service.Notifier로 사용
func (h *Hub) Publish(_ context.Context, update *models.MatchUpdate) error {
	h.Deliver(update)
	return nil
}

// IsConnected 참가자 연결 여부
func (h *Hub) IsConnected(participantID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[participantID]
	return ok
}

func (h *Hub) originAllowed(origin string) bool {
	if origin == "" || len(h.allowedOrigins) == 0 || h.allowedOrigins["*"] {
		return true
	}
	return h.allowedOrigins[origin]
}
