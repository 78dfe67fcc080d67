package handlers

import (
	"context"
	"net/http"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matches matchService
}

func NewMatchHandler(matches matchService) *MatchHandler {
	return &MatchHandler{
		matches: matches,
	}
}

// GetMatch 매치 조회 (만료 반영)
func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.matches.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get match")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"match": match,
	})
}

// Handshake 참가자 QR 스캔
func (h *MatchHandler) Handshake(c *gin.Context) {
	var req models.HandshakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	match, started, err := h.matches.Handshake(c.Request.Context(), c.Param("id"), req.ParticipantID)
	if err != nil {
		respondError(c, err, "Failed to record handshake")
		return
	}

	// started: 이번 스캔으로 양쪽이 모두 준비되어 시작됨
	c.JSON(http.StatusOK, gin.H{
		"match":   match,
		"started": started,
	})
}

// StartMatch 운영자 수동 시작
func (h *MatchHandler) StartMatch(c *gin.Context) {
	h.transition(c, h.matches.Start, "Failed to start match")
}

// CompleteMatch 매치 완료
func (h *MatchHandler) CompleteMatch(c *gin.Context) {
	h.transition(c, h.matches.Complete, "Failed to complete match")
}

// SkipMatch 매치 건너뛰기
func (h *MatchHandler) SkipMatch(c *gin.Context) {
	h.transition(c, h.matches.Skip, "Failed to skip match")
}

// ResetMatch 매치 초기화
func (h *MatchHandler) ResetMatch(c *gin.Context) {
	h.transition(c, h.matches.Reset, "Failed to reset match")
}

func (h *MatchHandler) transition(c *gin.Context, op func(ctx context.Context, id string) (*models.Match, error), fallback string) {
	match, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, fallback)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"match": match,
	})
}

// BulkStart 여러 매치 동시 시작
func (h *MatchHandler) BulkStart(c *gin.Context) {
	var req models.BulkStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	started, err := h.matches.BulkStart(c.Request.Context(), req.MatchIDs)
	if err != nil {
		respondError(c, err, "Failed to start matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"started": len(started),
		"matches": started,
	})
}
