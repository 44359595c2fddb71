package models

import (
	"time"
)

// GroupPrivacy 球队隐私级别
type GroupPrivacy string

const (
	GroupPublic     GroupPrivacy = "public"      // 公开，任何人可见
	GroupPrivate    GroupPrivacy = "private"     // 私密
	GroupInviteOnly GroupPrivacy = "invite-only" // 仅限邀请
)

// Group 球队（约球小组）模型
type Group struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"not null"`
	Description string       `json:"description"`
	Privacy     GroupPrivacy `json:"privacy" gorm:"type:varchar(20);default:'public'"`
	City        string       `json:"city" gorm:"not null;index"`
	Lat         float64      `json:"lat"`
	Lng         float64      `json:"lng"`
	Rules       string       `json:"rules"`
	CreatorID   uint         `json:"creator_id" gorm:"not null"`
	Creator     User         `json:"creator" gorm:"foreignKey:CreatorID"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Members     []User       `json:"members,omitempty" gorm:"many2many:group_members;"`
}

// GroupMember 球队成员关联表
type GroupMember struct {
	GroupID   uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"primaryKey"`
	JoinedAt  time.Time `json:"joined_at"`
	IsManager bool      `json:"is_manager" gorm:"default:false"`
}

// GroupResponse 球队响应模型
type GroupResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Privacy     GroupPrivacy   `json:"privacy"`
	City        string         `json:"city"`
	Rules       string         `json:"rules,omitempty"`
	CreatorID   uint           `json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	MemberCount int            `json:"member_count"`
	Members     []UserResponse `json:"members,omitempty"`
}

// GroupRequest 创建/更新球队请求模型
type GroupRequest struct {
	Name        string       `json:"name" binding:"required,max=100"`
	Description string       `json:"description" binding:"required,max=500"`
	Privacy     GroupPrivacy `json:"privacy" binding:"omitempty,oneof=public private invite-only"`
	City        string       `json:"city" binding:"required"`
	Lat         float64      `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng         float64      `json:"lng" binding:"omitempty,min=-180,max=180"`
	Rules       string       `json:"rules" binding:"max=1000"`
}

// GroupStats 球队统计数据
type GroupStats struct {
	TotalMembers         int     `json:"total_members"`
	TotalMeetups         int     `json:"total_meetups"`
	CompletedMeetups     int     `json:"completed_meetups"`
	UpcomingMeetups      int     `json:"upcoming_meetups"`
	AverageParticipation float64 `json:"average_participation"`
}

// GroupFilter 球队列表筛选条件
type GroupFilter struct {
	Privacy GroupPrivacy
	City    string
	Search  string
}
