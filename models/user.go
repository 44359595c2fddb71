package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Username   string    `json:"username" gorm:"unique;not null"`
	Password   string    `json:"-" gorm:"not null"` // 密码不返回给前端
	Email      string    `json:"email" gorm:"unique;not null"`
	Avatar     string    `json:"avatar"`
	SkillLevel string    `json:"skill_level"` // beginner / intermediate / advanced
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserResponse 用户响应模型（不包含敏感信息）
type UserResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	SkillLevel string `json:"skill_level,omitempty"`
}

// UserStats 用户统计数据（每次请求实时计算，不做缓存）
type UserStats struct {
	GamesPlayed           int    `json:"games_played"`
	MeetupsAttended       int    `json:"meetups_attended"`
	TotalGoals            int    `json:"total_goals"`
	TotalAssists          int    `json:"total_assists"`
	TotalYellowCards      int    `json:"total_yellow_cards"`
	TotalRedCards         int    `json:"total_red_cards"`
	AverageGoalsPerGame   string `json:"average_goals_per_game"`
	AverageAssistsPerGame string `json:"average_assists_per_game"`
}
