package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"matchday/services"
)

// respondError 将服务层错误映射为HTTP状态码并返回
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrMeetupNotFound),
		errors.Is(err, services.ErrGuestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotGroupMember):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrConcurrencyConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidCapacity),
		errors.Is(err, services.ErrDateNotFuture),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrRegistrationClosed),
		errors.Is(err, services.ErrMeetupInPast),
		errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, services.ErrGuestAlreadyRegistered),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrCreatorCannotLeave):
		status = http.StatusBadRequest
	}

	ctx.JSON(status, gin.H{"error": err.Error()})
}

// currentUserID 从上下文中获取已认证的用户ID
func currentUserID(ctx *gin.Context) (uint, bool) {
	userID, exists := ctx.Get("userID")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return 0, false
	}
	return userID.(uint), true
}
