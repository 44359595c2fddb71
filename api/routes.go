package api

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"matchday/services"
)

// RegisterRoutes 注册API路由
func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, notifyService *services.NotifyService) {
	// 创建服务
	userService := services.NewUserService(db, rdb)
	groupService := services.NewGroupService(db)
	meetupService := services.NewMeetupService(db, notifyService)
	statsService := services.NewStatsService(db)

	// 创建控制器
	authController := NewAuthController(userService)
	userController := NewUserController(userService, statsService)
	groupController := NewGroupController(groupService)
	meetupController := NewMeetupController(meetupService)
	monitorController := NewMonitorController(db, notifyService)

	// 公开路由
	public := r.Group("/api")
	{
		// 认证相关
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
	}

	// 需要认证的路由
	api := r.Group("/api")
	{
		// 用户相关
		api.GET("/users/:id", userController.GetUserByID)
		api.PUT("/users/:id", userController.UpdateUser)
		api.GET("/users/:id/stats", userController.GetUserStats)

		// 球队相关
		api.GET("/groups", groupController.ListGroups)
		api.POST("/groups", groupController.CreateGroup)
		api.GET("/groups/:id", groupController.GetGroupByID)
		api.PUT("/groups/:id", groupController.UpdateGroup)
		api.DELETE("/groups/:id", groupController.DeleteGroup)
		api.POST("/groups/:id/members", groupController.AddMember)
		api.DELETE("/groups/:id/members/:userId", groupController.RemoveMember)
		api.GET("/groups/:id/stats", groupController.GetGroupStats)

		// 约球活动相关
		api.GET("/meetups", meetupController.ListMeetups)
		api.POST("/meetups", meetupController.CreateMeetup)
		api.GET("/meetups/:id", meetupController.GetMeetupByID)
		api.PUT("/meetups/:id", meetupController.UpdateMeetup)
		api.DELETE("/meetups/:id", meetupController.DeleteMeetup)
		api.POST("/meetups/:id/register", meetupController.Register)
		api.DELETE("/meetups/:id/register", meetupController.CancelRegistration)
		api.POST("/meetups/:id/guests", meetupController.RegisterGuest)
		api.PUT("/meetups/:id/guests/:userId", meetupController.ApproveGuest)

		// 监控相关
		api.GET("/monitor/system", monitorController.GetSystemStatus)
	}
}
