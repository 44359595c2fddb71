package models

import (
	"time"
)

// MeetupStatus 约球活动状态
type MeetupStatus string

const (
	MeetupDraft     MeetupStatus = "draft"     // 草稿
	MeetupPublished MeetupStatus = "published" // 已发布，开放报名
	MeetupFull      MeetupStatus = "full"      // 名额已满
	MeetupCompleted MeetupStatus = "completed" // 已完成（终态）
	MeetupCancelled MeetupStatus = "cancelled" // 已取消（终态）
)

// IsTerminal 判断状态是否为终态，终态不允许再变更
func (s MeetupStatus) IsTerminal() bool {
	return s == MeetupCompleted || s == MeetupCancelled
}

// CanRegister 只有已发布状态接受新报名，full状态同样拒绝
func (s MeetupStatus) CanRegister() bool {
	return s == MeetupPublished
}

// CanTransitionTo 校验显式状态变更是否合法
func (s MeetupStatus) CanTransitionTo(target MeetupStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case MeetupDraft:
		// 草稿只能发布或取消
		return target == MeetupPublished || target == MeetupCancelled
	case MeetupPublished, MeetupFull:
		return target == MeetupCompleted || target == MeetupCancelled
	default:
		// 终态不可变更
		return false
	}
}

// 参与者状态
const (
	PlayerConfirmed = "confirmed" // 占用正式名额
	PlayerWaitlist  = "waitlist"  // 候补队列，FIFO递补
)

// Meetup 约球活动模型
type Meetup struct {
	ID              uint         `json:"id" gorm:"primaryKey"`
	Title           string       `json:"title" gorm:"not null"`
	Description     string       `json:"description" gorm:"not null"`
	GroupID         uint         `json:"group_id" gorm:"not null;index"`
	Group           Group        `json:"group" gorm:"foreignKey:GroupID"`
	CreatedBy       uint         `json:"created_by" gorm:"not null"`
	DateTime        time.Time    `json:"date_time" gorm:"not null;index"`
	Duration        int          `json:"duration"` // 时长（分钟），可选
	LocationName    string       `json:"location_name" gorm:"not null"`
	LocationAddress string       `json:"location_address" gorm:"not null"`
	Lat             float64      `json:"lat"`
	Lng             float64      `json:"lng"`
	MinParticipants int          `json:"min_participants" gorm:"not null"`
	MaxParticipants int          `json:"max_participants" gorm:"not null"`
	CostPerPerson   float64      `json:"cost_per_person"`
	Status          MeetupStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Version         uint         `json:"-" gorm:"not null;default:0"` // 乐观锁版本号
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// MeetupPlayer 约球报名记录，state区分正式名额与候补，
// position在同一活动内单调递增，作为先后顺序依据
type MeetupPlayer struct {
	MeetupID uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"primaryKey"`
	State    string    `gorm:"type:varchar(20);not null"`
	Position int       `gorm:"not null"`
	JoinedAt time.Time `json:"joined_at"`
}

// MeetupGuest 亲友（嘉宾）报名记录，不占用正式名额
type MeetupGuest struct {
	MeetupID   uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"primaryKey"`
	InvitedBy  uint      `gorm:"not null"`
	Approved   bool      `gorm:"default:false"`
	ApprovedBy uint      `gorm:"default:0"` // 0表示尚未审批
	CreatedAt  time.Time `json:"created_at"`
}

// MeetupGuestResponse 亲友报名响应模型
type MeetupGuestResponse struct {
	UserID     uint `json:"user_id"`
	InvitedBy  uint `json:"invited_by"`
	Approved   bool `json:"approved"`
	ApprovedBy uint `json:"approved_by,omitempty"`
}

// MeetupResponse 约球活动响应模型
type MeetupResponse struct {
	ID              uint                  `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	GroupID         uint                  `json:"group_id"`
	GroupName       string                `json:"group_name,omitempty"`
	CreatedBy       uint                  `json:"created_by"`
	DateTime        time.Time             `json:"date_time"`
	Duration        int                   `json:"duration,omitempty"`
	LocationName    string                `json:"location_name"`
	LocationAddress string                `json:"location_address"`
	Lat             float64               `json:"lat"`
	Lng             float64               `json:"lng"`
	MinParticipants int                   `json:"min_participants"`
	MaxParticipants int                   `json:"max_participants"`
	CostPerPerson   float64               `json:"cost_per_person,omitempty"`
	Status          MeetupStatus          `json:"status"`
	Confirmed       []uint                `json:"confirmed"` // 按报名先后排序
	Waitlist        []uint                `json:"waitlist"`  // 按报名先后排序
	Guests          []MeetupGuestResponse `json:"guests"`
	CreatedAt       time.Time             `json:"created_at"`
}

// MeetupRequest 创建约球活动请求模型
type MeetupRequest struct {
	Title           string    `json:"title" binding:"required,max=200"`
	Description     string    `json:"description" binding:"required,max=1000"`
	GroupID         uint      `json:"group_id" binding:"required"`
	DateTime        time.Time `json:"date_time" binding:"required"`
	Duration        int       `json:"duration" binding:"omitempty,min=30,max=480"`
	LocationName    string    `json:"location_name" binding:"required,max=100"`
	LocationAddress string    `json:"location_address" binding:"required,max=200"`
	Lat             float64   `json:"lat" binding:"min=-90,max=90"`
	Lng             float64   `json:"lng" binding:"min=-180,max=180"`
	MinParticipants int       `json:"min_participants" binding:"required,min=2,max=50"`
	MaxParticipants int       `json:"max_participants" binding:"required,min=2,max=100"`
	CostPerPerson   float64   `json:"cost_per_person" binding:"omitempty,min=0,max=1000"`
	Publish         bool      `json:"publish"` // true则直接发布，否则保存为草稿
}

// MeetupUpdateRequest 更新约球活动请求模型，零值字段不更新
type MeetupUpdateRequest struct {
	Title           string       `json:"title" binding:"omitempty,max=200"`
	Description     string       `json:"description" binding:"omitempty,max=1000"`
	DateTime        *time.Time   `json:"date_time"`
	Duration        int          `json:"duration" binding:"omitempty,min=30,max=480"`
	LocationName    string       `json:"location_name" binding:"omitempty,max=100"`
	LocationAddress string       `json:"location_address" binding:"omitempty,max=200"`
	MinParticipants int          `json:"min_participants" binding:"omitempty,min=2,max=50"`
	MaxParticipants int          `json:"max_participants" binding:"omitempty,min=2,max=100"`
	CostPerPerson   *float64     `json:"cost_per_person"`
	Status          MeetupStatus `json:"status" binding:"omitempty,oneof=draft published full completed cancelled"`
}

// MeetupFilter 约球活动列表筛选条件
type MeetupFilter struct {
	Status   MeetupStatus
	Upcoming bool
	Search   string // 标题/描述模糊匹配
	From     *time.Time
	To       *time.Time
}
