package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"matchday/models"
	"matchday/services"
)

// GroupController 球队控制器
type GroupController struct {
	GroupService *services.GroupService
}

// NewGroupController 创建球队控制器
func NewGroupController(groupService *services.GroupService) *GroupController {
	return &GroupController{
		GroupService: groupService,
	}
}

// CreateGroup 创建球队
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req models.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	group, err := c.GroupService.CreateGroup(userID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	groupResp, err := c.GroupService.GetGroupResponse(group.ID, true)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "球队创建成功",
		"group":   groupResp,
	})
}

// GetGroupByID 根据ID获取球队
func (c *GroupController) GetGroupByID(ctx *gin.Context) {
	groupID, ok := parseGroupID(ctx)
	if !ok {
		return
	}

	// 是否包含成员信息
	includeMembers := ctx.DefaultQuery("include_members", "false") == "true"

	groupResp, err := c.GroupService.GetGroupResponse(groupID, includeMembers)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"group": groupResp,
	})
}

// ListGroups 球队列表，支持隐私级别、城市、关键词筛选
func (c *GroupController) ListGroups(ctx *gin.Context) {
	// mine=true时只返回当前用户加入的球队
	if ctx.Query("mine") == "true" {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		groups, err := c.GroupService.GetUserGroups(userID)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"groups": groups,
		})
		return
	}

	filter := models.GroupFilter{
		Privacy: models.GroupPrivacy(ctx.Query("privacy")),
		City:    ctx.Query("city"),
		Search:  ctx.Query("search"),
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	groups, pagination, err := c.GroupService.ListGroups(&filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"groups":     groups,
		"pagination": pagination,
	})
}

// UpdateGroup 更新球队信息
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(ctx)
	if !ok {
		return
	}

	var req models.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	group, err := c.GroupService.UpdateGroup(groupID, userID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	groupResp, err := c.GroupService.GetGroupResponse(group.ID, false)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "球队更新成功",
		"group":   groupResp,
	})
}

// DeleteGroup 解散球队
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(ctx)
	if !ok {
		return
	}

	if err := c.GroupService.DeleteGroup(groupID, userID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "球队解散成功",
	})
}

// AddMember 添加球队成员
func (c *GroupController) AddMember(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(ctx)
	if !ok {
		return
	}

	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	if err := c.GroupService.AddMember(groupID, userID, req.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "成员添加成功",
	})
}

// RemoveMember 移除球队成员
func (c *GroupController) RemoveMember(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(ctx)
	if !ok {
		return
	}

	targetUserIDStr := ctx.Param("userId")
	targetUserID, err := strconv.ParseUint(targetUserIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的用户ID"})
		return
	}

	if err := c.GroupService.RemoveMember(groupID, userID, uint(targetUserID)); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "成员移除成功",
	})
}

// GetGroupStats 获取球队统计数据
func (c *GroupController) GetGroupStats(ctx *gin.Context) {
	groupID, ok := parseGroupID(ctx)
	if !ok {
		return
	}

	stats, err := c.GroupService.GetGroupStats(groupID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// parseGroupID 解析路径中的球队ID参数
func parseGroupID(ctx *gin.Context) (uint, bool) {
	groupIDStr := ctx.Param("id")
	groupID, err := strconv.ParseUint(groupIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的球队ID"})
		return 0, false
	}
	return uint(groupID), true
}
