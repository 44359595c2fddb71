package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"matchday/models"
	"matchday/services"
)

// MeetupController 约球活动控制器
type MeetupController struct {
	MeetupService *services.MeetupService
}

// NewMeetupController 创建约球活动控制器
func NewMeetupController(meetupService *services.MeetupService) *MeetupController {
	return &MeetupController{
		MeetupService: meetupService,
	}
}

// CreateMeetup 创建约球活动
func (c *MeetupController) CreateMeetup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req models.MeetupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	meetup, err := c.MeetupService.CreateMeetup(userID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "约球活动创建成功",
		"meetup":  meetup,
	})
}

// GetMeetupByID 根据ID获取约球活动
func (c *MeetupController) GetMeetupByID(ctx *gin.Context) {
	meetupID, ok := parseMeetupID(ctx)
	if !ok {
		return
	}

	meetup, err := c.MeetupService.GetMeetupResponse(meetupID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"meetup": meetup,
	})
}

// ListMeetups 列出与当前用户相关的约球活动
func (c *MeetupController) ListMeetups(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	filter := models.MeetupFilter{
		Status:   models.MeetupStatus(ctx.Query("status")),
		Upcoming: ctx.Query("upcoming") == "true",
		Search:   ctx.Query("search"),
	}
	if from := ctx.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := ctx.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	meetups, pagination, err := c.MeetupService.ListUserMeetups(userID, &filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"meetups":    meetups,
		"pagination": pagination,
	})
}

// UpdateMeetup 更新约球活动
func (c *MeetupController) UpdateMeetup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	meetupID, ok := parseMeetupID(ctx)
	if !ok {
		return
	}

	var req models.MeetupUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	meetup, err := c.MeetupService.UpdateMeetup(meetupID, userID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "约球活动更新成功",
		"meetup":  meetup,
	})
}

// DeleteMeetup 删除约球活动
func (c *MeetupController) DeleteMeetup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	meetupID, ok := parseMeetupID(ctx)
	if !ok {
		return
	}

	if err := c.MeetupService.DeleteMeetup(meetupID, userID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "约球活动删除成功",
	})
}

// Register 报名参加约球活动
func (c *MeetupController) Register(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	meetupID, ok := parseMeetupID(ctx)
	if !ok {
		return
	}

	meetup, err := c.MeetupService.Register(meetupID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "报名成功",
		"meetup":  meetup,
	})
}

// CancelRegistration 取消报名
func (c *MeetupController) CancelRegistration(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	meetupID, ok := parseMeetupID(ctx)
	if !ok {
		return
	}

	meetup, err := c.MeetupService.CancelRegistration(meetupID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "已取消报名",
		"meetup":  meetup,
	})
}

// RegisterGuest 为亲友报名
func (c *MeetupController) RegisterGuest(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	meetupID, ok := parseMeetupID(ctx)
	if !ok {
		return
	}

	var req struct {
		GuestID uint `json:"guest_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	meetup, err := c.MeetupService.RegisterGuest(meetupID, userID, req.GuestID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "亲友报名成功，等待审批",
		"meetup":  meetup,
	})
}

// ApproveGuest 审批亲友报名
func (c *MeetupController) ApproveGuest(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	meetupID, ok := parseMeetupID(ctx)
	if !ok {
		return
	}

	guestIDStr := ctx.Param("userId")
	guestID, err := strconv.ParseUint(guestIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的用户ID"})
		return
	}

	var req struct {
		Approved *bool `json:"approved" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	meetup, err := c.MeetupService.ApproveGuest(meetupID, userID, uint(guestID), *req.Approved)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "审批完成",
		"meetup":  meetup,
	})
}

// parseMeetupID 解析路径中的活动ID参数
func parseMeetupID(ctx *gin.Context) (uint, bool) {
	meetupIDStr := ctx.Param("id")
	meetupID, err := strconv.ParseUint(meetupIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的活动ID"})
		return 0, false
	}
	return uint(meetupID), true
}
