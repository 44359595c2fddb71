package models

import (
	"time"
)

// GameEventType 比赛事件类型
type GameEventType string

const (
	EventGoal         GameEventType = "goal"
	EventAssist       GameEventType = "assist"
	EventYellowCard   GameEventType = "yellow_card"
	EventRedCard      GameEventType = "red_card"
	EventSubstitution GameEventType = "substitution" // 换人不计入任何统计
)

// Game 比赛模型，隶属于某次约球活动
type Game struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	MeetupID   uint        `json:"meetup_id" gorm:"not null;index"`
	Team1Score int         `json:"team1_score" gorm:"default:0"`
	Team2Score int         `json:"team2_score" gorm:"default:0"`
	StartTime  time.Time   `json:"start_time" gorm:"not null"`
	EndTime    *time.Time  `json:"end_time,omitempty"`
	Duration   int         `json:"duration"` // 分钟
	Format     string      `json:"format" gorm:"not null"` // 5v5 / 7v7 / 11v11 / Other
	Events     []GameEvent `json:"events" gorm:"foreignKey:GameID"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// GameEvent 比赛事件（进球、助攻、红黄牌、换人）
type GameEvent struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	GameID         uint          `json:"game_id" gorm:"not null;index"`
	Type           GameEventType `json:"type" gorm:"type:varchar(20);not null"`
	PlayerID       uint          `json:"player_id" gorm:"not null;index"`
	Team           int           `json:"team" gorm:"not null"` // 1 或 2
	Timestamp      time.Time     `json:"timestamp" gorm:"not null"`
	AssistedBy     uint          `json:"assisted_by,omitempty"`
	SubstitutedFor uint          `json:"substituted_for,omitempty"`
}
