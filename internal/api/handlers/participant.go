package handlers

import (
	"net/http"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	participants participantService
	matches      matchService
}

func NewParticipantHandler(participants participantService, matches matchService) *ParticipantHandler {
	return &ParticipantHandler{
		participants: participants,
		matches:      matches,
	}
}

// Register 참가자 등록. 이미 등록된 이메일이면 200과 기존 참가자
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req models.RegisterParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	participant, created, err := h.participants.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to register participant")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"participant": participant,
		"created":     created,
	})
}

// GetParticipant 참가자 조회
func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	participant, err := h.participants.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get participant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participant": participant,
	})
}

// GetParticipantMatches 참가자 시점 매치 목록
func (h *ParticipantHandler) GetParticipantMatches(c *gin.Context) {
	matches, err := h.matches.ForParticipant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get participant matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
	})
}

// GetMeeting 참가자 ID 또는 이메일로 현재 만남 정보 조회
func (h *ParticipantHandler) GetMeeting(c *gin.Context) {
	participant, err := h.participants.Lookup(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		respondError(c, err, "Failed to get meeting")
		return
	}

	matches, err := h.matches.ForParticipant(c.Request.Context(), participant.ID)
	if err != nil {
		respondError(c, err, "Failed to get meeting")
		return
	}

	// 가장 최근 라운드의 매치가 현재 만남
	var current *models.ParticipantMatch
	for _, m := range matches {
		if current == nil || m.RoundNumber > current.RoundNumber {
			current = m
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"participant": participant,
		"current":     current,
		"matches":     matches,
	})
}

// SetCheckIn 체크인 상태 변경
func (h *ParticipantHandler) SetCheckIn(c *gin.Context) {
	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	participant, err := h.participants.SetCheckedIn(c.Request.Context(), c.Param("id"), *req.CheckedIn)
	if err != nil {
		respondError(c, err, "Failed to update check-in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participant": participant,
	})
}

// BulkCheckIn 여러 참가자 체크인 상태 변경
func (h *ParticipantHandler) BulkCheckIn(c *gin.Context) {
	var req models.BulkCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.participants.BulkSetCheckedIn(c.Request.Context(), req.ParticipantIDs, *req.CheckedIn)
	if err != nil {
		respondError(c, err, "Failed to update check-in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updated": updated,
	})
}
