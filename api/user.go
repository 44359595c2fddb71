package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"matchday/services"
)

// UserController 用户控制器
type UserController struct {
	UserService  *services.UserService
	StatsService *services.StatsService
}

// NewUserController 创建用户控制器
func NewUserController(userService *services.UserService, statsService *services.StatsService) *UserController {
	return &UserController{
		UserService:  userService,
		StatsService: statsService,
	}
}

// GetUserByID 根据ID获取用户信息
func (c *UserController) GetUserByID(ctx *gin.Context) {
	userID, ok := parseUserID(ctx)
	if !ok {
		return
	}

	user, err := c.UserService.GetUserResponse(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateUser 更新用户资料，只能更新自己的资料
func (c *UserController) UpdateUser(ctx *gin.Context) {
	currentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	userID, ok := parseUserID(ctx)
	if !ok {
		return
	}

	if currentID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "只能更新自己的资料"})
		return
	}

	var req struct {
		Email      string `json:"email" binding:"omitempty,email"`
		Avatar     string `json:"avatar"`
		SkillLevel string `json:"skill_level" binding:"omitempty,oneof=beginner intermediate advanced"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	user, err := c.UserService.UpdateUser(userID, req.Email, req.Avatar, req.SkillLevel)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "资料更新成功",
		"user":    user,
	})
}

// GetUserStats 获取用户统计数据，实时计算
func (c *UserController) GetUserStats(ctx *gin.Context) {
	userID, ok := parseUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.StatsService.GetUserStats(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// parseUserID 解析路径中的用户ID参数
func parseUserID(ctx *gin.Context) (uint, bool) {
	userIDStr := ctx.Param("id")
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的用户ID"})
		return 0, false
	}
	return uint(userID), true
}
