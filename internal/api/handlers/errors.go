package handlers

import (
	"errors"
	"net/http"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/engine"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// statusFor 도메인 에러를 HTTP 상태 코드로 변환. 모르는 에러면 0
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrParticipantNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, engine.ErrUnauthorizedParticipant):
		return http.StatusForbidden

	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, engine.ErrInsufficientParticipants),
		errors.Is(err, engine.ErrNoEligiblePairs),
		errors.Is(err, engine.ErrRoundNotComplete),
		errors.Is(err, engine.ErrAlreadyCompleted),
		errors.Is(err, engine.ErrInvalidTransition),
		errors.Is(err, service.ErrMaxRoundsReached),
		errors.Is(err, service.ErrConcurrentUpdate):
		return http.StatusConflict
	}
	return 0
}

// respondError 알려진 에러는 메시지 그대로, 나머지는 fallback 메시지로 500
func respondError(c *gin.Context, err error, fallback string) {
	if status := statusFor(err); status != 0 {
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": fallback,
	})
}

// bindError 요청 바디 검증 실패
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
	})
}
