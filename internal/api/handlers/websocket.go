package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type connectionServer interface {
	ServeWs(w http.ResponseWriter, r *http.Request, participantID string)
}

// WebSocketHandler WebSocket 연결 처리
type WebSocketHandler struct {
	hub          connectionServer
	participants participantService
}

// NewWebSocketHandler WebSocketHandler 생성
func NewWebSocketHandler(hub connectionServer, participants participantService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		participants: participants,
	}
}

// HandleWebSocket 참가자별 매치 업데이트 구독
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	participantID := c.Query("participantId")
	if participantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return
	}

	// 등록된 참가자만 연결 허용
	if _, err := h.participants.GetByID(c.Request.Context(), participantID); err != nil {
		respondError(c, err, "Failed to open connection")
		return
	}

	h.hub.ServeWs(c.Writer, c.Request, participantID)
}
