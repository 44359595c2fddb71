package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"matchday/models"
)

// GroupService 球队服务
type GroupService struct {
	db *gorm.DB
}

// NewGroupService 创建球队服务实例
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// CreateGroup 创建新球队，创建者自动成为成员和管理员
func (s *GroupService) CreateGroup(creatorID uint, req *models.GroupRequest) (*models.Group, error) {
	privacy := req.Privacy
	if privacy == "" {
		privacy = models.GroupPublic
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		Privacy:     privacy,
		City:        req.City,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Rules:       req.Rules,
		CreatorID:   creatorID,
	}

	// 开启事务
	tx := s.db.Begin()
	if err := tx.Create(group).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	member := models.GroupMember{
		GroupID:   group.ID,
		UserID:    creatorID,
		JoinedAt:  time.Now(),
		IsManager: true,
	}
	if err := tx.Create(&member).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return group, nil
}

// GetGroupByID 根据ID获取球队
func (s *GroupService) GetGroupByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// GetGroupResponse 获取球队响应模型
func (s *GroupService) GetGroupResponse(id uint, includeMembers bool) (*models.GroupResponse, error) {
	group, err := s.GetGroupByID(id)
	if err != nil {
		return nil, err
	}

	var memberCount int64
	if err := s.db.Model(&models.GroupMember{}).Where("group_id = ?", id).Count(&memberCount).Error; err != nil {
		return nil, err
	}

	response := &models.GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Privacy:     group.Privacy,
		City:        group.City,
		Rules:       group.Rules,
		CreatorID:   group.CreatorID,
		CreatedAt:   group.CreatedAt,
		MemberCount: int(memberCount),
	}

	if includeMembers {
		members, err := s.GetGroupMembers(id)
		if err != nil {
			return nil, err
		}
		response.Members = members
	}

	return response, nil
}

// IsMember 判断用户是否为球队成员
func (s *GroupService) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsManager 判断用户是否为球队管理员
func (s *GroupService) IsManager(groupID, userID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND is_manager = ?", groupID, userID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateGroup 更新球队信息，只有管理员可操作
func (s *GroupService) UpdateGroup(id, userID uint, req *models.GroupRequest) (*models.Group, error) {
	group, err := s.GetGroupByID(id)
	if err != nil {
		return nil, err
	}

	isManager, err := s.IsManager(id, userID)
	if err != nil {
		return nil, err
	}
	if !isManager {
		return nil, ErrForbidden
	}

	group.Name = req.Name
	group.Description = req.Description
	if req.Privacy != "" {
		group.Privacy = req.Privacy
	}
	if req.City != "" {
		group.City = req.City
	}
	group.Rules = req.Rules
	group.UpdatedAt = time.Now()

	if err := s.db.Save(group).Error; err != nil {
		return nil, err
	}

	return group, nil
}

// DeleteGroup 解散球队，只有创建者可操作
func (s *GroupService) DeleteGroup(groupID, userID uint) error {
	group, err := s.GetGroupByID(groupID)
	if err != nil {
		return err
	}

	if group.CreatorID != userID {
		return ErrForbidden
	}

	// 开启事务
	tx := s.db.Begin()
	if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Group{}, groupID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	return nil
}

// AddMember 添加球队成员，只有管理员可操作
func (s *GroupService) AddMember(groupID, userID, targetUserID uint) error {
	if _, err := s.GetGroupByID(groupID); err != nil {
		return err
	}

	isManager, err := s.IsManager(groupID, userID)
	if err != nil {
		return err
	}
	if !isManager {
		return ErrForbidden
	}

	exists, err := s.IsMember(groupID, targetUserID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyMember
	}

	member := models.GroupMember{
		GroupID:  groupID,
		UserID:   targetUserID,
		JoinedAt: time.Now(),
	}
	return s.db.Create(&member).Error
}

// RemoveMember 移除球队成员，管理员可移除任何人，成员可自行退出。
// 移除的同时撤销管理员身份
func (s *GroupService) RemoveMember(groupID, userID, targetUserID uint) error {
	group, err := s.GetGroupByID(groupID)
	if err != nil {
		return err
	}

	if userID != targetUserID {
		isManager, err := s.IsManager(groupID, userID)
		if err != nil {
			return err
		}
		if !isManager {
			return ErrForbidden
		}
	}

	// 创建者不能被移出球队
	if group.CreatorID == targetUserID {
		return ErrCreatorCannotLeave
	}

	exists, err := s.IsMember(groupID, targetUserID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotMember
	}

	return s.db.Where("group_id = ? AND user_id = ?", groupID, targetUserID).
		Delete(&models.GroupMember{}).Error
}

// GetGroupMembers 获取球队成员列表
func (s *GroupService) GetGroupMembers(groupID uint) ([]models.UserResponse, error) {
	var members []models.User
	if err := s.db.Table("users").
		Joins("JOIN group_members ON users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID).
		Find(&members).Error; err != nil {
		return nil, err
	}

	responses := make([]models.UserResponse, len(members))
	for i, member := range members {
		responses[i] = models.UserResponse{
			ID:         member.ID,
			Username:   member.Username,
			Email:      member.Email,
			Avatar:     member.Avatar,
			SkillLevel: member.SkillLevel,
		}
	}
	return responses, nil
}

// GetUserGroups 获取用户加入的所有球队
func (s *GroupService) GetUserGroups(userID uint) ([]models.GroupResponse, error) {
	var groups []models.Group
	if err := s.db.Table("groups").
		Joins("JOIN group_members ON groups.id = group_members.group_id").
		Where("group_members.user_id = ?", userID).
		Find(&groups).Error; err != nil {
		return nil, err
	}

	responses := make([]models.GroupResponse, len(groups))
	for i, group := range groups {
		var count int64
		if err := s.db.Model(&models.GroupMember{}).
			Where("group_id = ?", group.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		responses[i] = models.GroupResponse{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			Privacy:     group.Privacy,
			City:        group.City,
			CreatorID:   group.CreatorID,
			CreatedAt:   group.CreatedAt,
			MemberCount: int(count),
		}
	}
	return responses, nil
}

// ListGroups 按隐私级别、城市、关键词筛选球队并分页
func (s *GroupService) ListGroups(filter *models.GroupFilter, page, limit int) ([]models.GroupResponse, models.Pagination, error) {
	page, limit = models.NormalizePage(page, limit)

	query := s.db.Model(&models.Group{})
	if filter != nil {
		if filter.Privacy != "" {
			query = query.Where("privacy = ?", filter.Privacy)
		}
		if filter.City != "" {
			query = query.Where("city = ?", filter.City)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			query = query.Where("name LIKE ? OR description LIKE ?", like, like)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var groups []models.Group
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&groups).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	responses := make([]models.GroupResponse, len(groups))
	for i, group := range groups {
		var count int64
		if err := s.db.Model(&models.GroupMember{}).
			Where("group_id = ?", group.ID).
			Count(&count).Error; err != nil {
			return nil, models.Pagination{}, err
		}
		responses[i] = models.GroupResponse{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			Privacy:     group.Privacy,
			City:        group.City,
			CreatorID:   group.CreatorID,
			CreatedAt:   group.CreatedAt,
			MemberCount: int(count),
		}
	}

	return responses, models.NewPagination(page, limit, total), nil
}

// GetGroupStats 统计球队活动数据
func (s *GroupService) GetGroupStats(groupID uint) (*models.GroupStats, error) {
	if _, err := s.GetGroupByID(groupID); err != nil {
		return nil, err
	}

	var totalMembers int64
	if err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&totalMembers).Error; err != nil {
		return nil, err
	}

	var totalMeetups int64
	if err := s.db.Model(&models.Meetup{}).
		Where("group_id = ?", groupID).
		Count(&totalMeetups).Error; err != nil {
		return nil, err
	}

	var completedMeetups int64
	if err := s.db.Model(&models.Meetup{}).
		Where("group_id = ? AND status = ?", groupID, models.MeetupCompleted).
		Count(&completedMeetups).Error; err != nil {
		return nil, err
	}

	var upcomingMeetups int64
	if err := s.db.Model(&models.Meetup{}).
		Where("group_id = ? AND status = ? AND date_time >= ?", groupID, models.MeetupPublished, time.Now()).
		Count(&upcomingMeetups).Error; err != nil {
		return nil, err
	}

	// 已完成活动的正式报名总人次 / 已完成活动数
	var attendances int64
	if completedMeetups > 0 {
		if err := s.db.Model(&models.MeetupPlayer{}).
			Where("state = ? AND meetup_id IN (SELECT id FROM meetups WHERE group_id = ? AND status = ?)",
				models.PlayerConfirmed, groupID, models.MeetupCompleted).
			Count(&attendances).Error; err != nil {
			return nil, err
		}
	}

	avg := 0.0
	if completedMeetups > 0 {
		avg = float64(attendances) / float64(completedMeetups)
	}

	return &models.GroupStats{
		TotalMembers:         int(totalMembers),
		TotalMeetups:         int(totalMeetups),
		CompletedMeetups:     int(completedMeetups),
		UpcomingMeetups:      int(upcomingMeetups),
		AverageParticipation: avg,
	}, nil
}
