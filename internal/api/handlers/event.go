package handlers

import (
	"net/http"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	events       eventService
	participants participantService
	matches      matchService
	rounds       roundService
}

func NewEventHandler(events eventService, participants participantService, matches matchService, rounds roundService) *EventHandler {
	return &EventHandler{
		events:       events,
		participants: participants,
		matches:      matches,
		rounds:       rounds,
	}
}

// ListEvents 모든 이벤트 목록
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
	})
}

// CreateEvent 새 이벤트 생성
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	event, err := h.events.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"event": event,
	})
}

// GetEvent 이벤트 + 참가자 목록
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.events.GetWithParticipants(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get event")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event": event,
	})
}

// UpdateEvent 이벤트 수정
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	event, err := h.events.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event": event,
	})
}

// DeleteEvent 이벤트 삭제 (참가자, 매치 포함)
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete event")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully",
	})
}

// ListParticipants 이벤트 참가자 목록
func (h *EventHandler) ListParticipants(c *gin.Context) {
	participants, err := h.participants.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get participants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": participants,
		"total":        len(participants),
	})
}

// GetRoundStatus 현재 라운드 상태
func (h *EventHandler) GetRoundStatus(c *gin.Context) {
	status, err := h.rounds.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get round status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// AdvanceRound 다음 라운드 생성
func (h *EventHandler) AdvanceRound(c *gin.Context) {
	result, err := h.rounds.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to create round")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListMatches 이벤트의 모든 매치
func (h *EventHandler) ListMatches(c *gin.Context) {
	matches, err := h.matches.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
	})
}

// ResetMatches 이벤트 매치 전체 삭제
func (h *EventHandler) ResetMatches(c *gin.Context) {
	deleted, err := h.matches.ResetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to reset matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
	})
}

// ActivateEvent 이벤트의 pending 매치 모두 시작
func (h *EventHandler) ActivateEvent(c *gin.Context) {
	started, err := h.matches.ActivateEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to activate event")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"started": len(started),
		"matches": started,
	})
}
