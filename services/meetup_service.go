package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"matchday/config"
	"matchday/models"
)

// MeetupService 约球活动服务，负责活动生命周期、报名与候补管理
type MeetupService struct {
	db     *gorm.DB
	notify *NotifyService
}

// NewMeetupService 创建约球活动服务实例，notify可以为nil
func NewMeetupService(db *gorm.DB, notify *NotifyService) *MeetupService {
	return &MeetupService{db: db, notify: notify}
}

// maxRetries 乐观锁冲突最大重试次数
func maxRetries() int {
	if config.AppConfig.RegisterMaxRetries > 0 {
		return config.AppConfig.RegisterMaxRetries
	}
	return 3
}

// CreateMeetup 创建约球活动，创建者自动占用第一个正式名额
func (s *MeetupService) CreateMeetup(creatorID uint, req *models.MeetupRequest) (*models.MeetupResponse, error) {
	if req.MaxParticipants < req.MinParticipants {
		return nil, ErrInvalidCapacity
	}
	if !req.DateTime.After(time.Now()) {
		return nil, ErrDateNotFuture
	}

	// 检查球队是否存在
	var group models.Group
	if err := s.db.First(&group, req.GroupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	// 只有球队成员才能发起约球
	var count int64
	if err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", req.GroupID, creatorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotGroupMember
	}

	status := models.MeetupDraft
	if req.Publish {
		status = models.MeetupPublished
	}

	meetup := &models.Meetup{
		Title:           req.Title,
		Description:     req.Description,
		GroupID:         req.GroupID,
		CreatedBy:       creatorID,
		DateTime:        req.DateTime,
		Duration:        req.Duration,
		LocationName:    req.LocationName,
		LocationAddress: req.LocationAddress,
		Lat:             req.Lat,
		Lng:             req.Lng,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
		CostPerPerson:   req.CostPerPerson,
		Status:          status,
	}

	// 开启事务
	tx := s.db.Begin()
	if err := tx.Create(meetup).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// 创建者自动确认报名
	player := models.MeetupPlayer{
		MeetupID: meetup.ID,
		UserID:   creatorID,
		State:    models.PlayerConfirmed,
		Position: 1,
		JoinedAt: time.Now(),
	}
	if err := tx.Create(&player).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.BuildMeetupResponse(meetup)
}

// GetMeetupByID 根据ID获取约球活动
func (s *MeetupService) GetMeetupByID(id uint) (*models.Meetup, error) {
	var meetup models.Meetup
	if err := s.db.First(&meetup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetupNotFound
		}
		return nil, err
	}
	return &meetup, nil
}

// GetMeetupResponse 获取约球活动响应模型（含报名名单）
func (s *MeetupService) GetMeetupResponse(id uint) (*models.MeetupResponse, error) {
	meetup, err := s.GetMeetupByID(id)
	if err != nil {
		return nil, err
	}
	return s.BuildMeetupResponse(meetup)
}

// Register 报名参加约球活动。
// 整个读-改-写在单个事务内完成，通过版本号乐观锁避免并发报名超员
func (s *MeetupService) Register(meetupID, userID uint) (*models.MeetupResponse, error) {
	for i := 0; i < maxRetries(); i++ {
		meetup, conflict, err := s.registerOnce(meetupID, userID)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}
		return s.BuildMeetupResponse(meetup)
	}
	return nil, ErrConcurrencyConflict
}

// registerOnce 执行一次报名尝试，版本冲突时返回conflict=true
func (s *MeetupService) registerOnce(meetupID, userID uint) (*models.Meetup, bool, error) {
	tx := s.db.Begin()

	var meetup models.Meetup
	if err := tx.First(&meetup, meetupID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrMeetupNotFound
		}
		return nil, false, err
	}

	// 只有已发布状态接受报名，full同样拒绝
	if !meetup.Status.CanRegister() {
		tx.Rollback()
		return nil, false, ErrRegistrationClosed
	}
	if !meetup.DateTime.After(time.Now()) {
		tx.Rollback()
		return nil, false, ErrMeetupInPast
	}

	// 已在正式名单或候补名单中则拒绝重复报名
	var existing int64
	if err := tx.Model(&models.MeetupPlayer{}).
		Where("meetup_id = ? AND user_id = ?", meetupID, userID).
		Count(&existing).Error; err != nil {
		tx.Rollback()
		return nil, false, err
	}
	if existing > 0 {
		tx.Rollback()
		return nil, false, ErrAlreadyRegistered
	}

	confirmed, err := s.countConfirmed(tx, meetupID)
	if err != nil {
		tx.Rollback()
		return nil, false, err
	}

	// 有空位进正式名单，否则排入候补队列
	state := models.PlayerConfirmed
	if confirmed >= meetup.MaxParticipants {
		state = models.PlayerWaitlist
	}

	pos, err := s.nextPosition(tx, meetupID)
	if err != nil {
		tx.Rollback()
		return nil, false, err
	}

	player := models.MeetupPlayer{
		MeetupID: meetupID,
		UserID:   userID,
		State:    state,
		Position: pos,
		JoinedAt: time.Now(),
	}
	if err := tx.Create(&player).Error; err != nil {
		tx.Rollback()
		return nil, false, err
	}

	// 名额用尽时自动进入full状态
	if state == models.PlayerConfirmed && confirmed+1 >= meetup.MaxParticipants {
		meetup.Status = models.MeetupFull
	}

	conflict, err := s.commitMeetup(tx, &meetup)
	if err != nil || conflict {
		return nil, conflict, err
	}

	event := NotifyRegistered
	if state == models.PlayerWaitlist {
		event = NotifyWaitlisted
	}
	s.publish(event, meetupID, userID)

	return &meetup, false, nil
}

// CancelRegistration 取消报名。无条件移除，用户未报名时静默成功。
// 腾出名额后按报名顺序递补一名候补
func (s *MeetupService) CancelRegistration(meetupID, userID uint) (*models.MeetupResponse, error) {
	for i := 0; i < maxRetries(); i++ {
		meetup, conflict, err := s.cancelOnce(meetupID, userID)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}
		return s.BuildMeetupResponse(meetup)
	}
	return nil, ErrConcurrencyConflict
}

func (s *MeetupService) cancelOnce(meetupID, userID uint) (*models.Meetup, bool, error) {
	tx := s.db.Begin()

	var meetup models.Meetup
	if err := tx.First(&meetup, meetupID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrMeetupNotFound
		}
		return nil, false, err
	}

	// 不区分正式名单还是候补，直接移除（用户最多出现在其中之一）
	if err := tx.Where("meetup_id = ? AND user_id = ?", meetupID, userID).
		Delete(&models.MeetupPlayer{}).Error; err != nil {
		tx.Rollback()
		return nil, false, err
	}

	confirmed, err := s.countConfirmed(tx, meetupID)
	if err != nil {
		tx.Rollback()
		return nil, false, err
	}

	// 递补：候补队列非空且有空位时，队首升入正式名单。
	// 一次取消只腾出一个名额，因此只递补一人
	var promoted *models.MeetupPlayer
	if confirmed < meetup.MaxParticipants {
		var head models.MeetupPlayer
		err := tx.Where("meetup_id = ? AND state = ?", meetupID, models.PlayerWaitlist).
			Order("position ASC").
			First(&head).Error
		if err == nil {
			if err := tx.Model(&models.MeetupPlayer{}).
				Where("meetup_id = ? AND user_id = ?", meetupID, head.UserID).
				Update("state", models.PlayerConfirmed).Error; err != nil {
				tx.Rollback()
				return nil, false, err
			}
			confirmed++
			promoted = &head
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return nil, false, err
		}
	}

	// 仍有空位则从full回到published
	if confirmed < meetup.MaxParticipants && meetup.Status == models.MeetupFull {
		meetup.Status = models.MeetupPublished
	}

	conflict, err := s.commitMeetup(tx, &meetup)
	if err != nil || conflict {
		return nil, conflict, err
	}

	s.publish(NotifyCancelled, meetupID, userID)
	if promoted != nil {
		s.publish(NotifyPromoted, meetupID, promoted.UserID)
	}

	return &meetup, false, nil
}

// RegisterGuest 为亲友报名，亲友不占用正式名额，需管理员审批
func (s *MeetupService) RegisterGuest(meetupID, hostID, guestID uint) (*models.MeetupResponse, error) {
	meetup, err := s.GetMeetupByID(meetupID)
	if err != nil {
		return nil, err
	}

	tx := s.db.Begin()

	var existing int64
	if err := tx.Model(&models.MeetupGuest{}).
		Where("meetup_id = ? AND user_id = ?", meetupID, guestID).
		Count(&existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if existing > 0 {
		tx.Rollback()
		return nil, ErrGuestAlreadyRegistered
	}

	guest := models.MeetupGuest{
		MeetupID:  meetupID,
		UserID:    guestID,
		InvitedBy: hostID,
		Approved:  false,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&guest).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.BuildMeetupResponse(meetup)
}

// ApproveGuest 审批亲友报名，只有活动创建者或球队管理员可操作。
// 审批通过不会将亲友加入正式名单，亲友始终不占用名额
func (s *MeetupService) ApproveGuest(meetupID, actorID, guestID uint, approved bool) (*models.MeetupResponse, error) {
	meetup, err := s.GetMeetupByID(meetupID)
	if err != nil {
		return nil, err
	}

	ok, err := s.canManageMeetup(meetup, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	var guest models.MeetupGuest
	if err := s.db.Where("meetup_id = ? AND user_id = ?", meetupID, guestID).
		First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&models.MeetupGuest{}).
		Where("meetup_id = ? AND user_id = ?", meetupID, guestID).
		Updates(map[string]interface{}{
			"approved":    approved,
			"approved_by": actorID,
		}).Error; err != nil {
		return nil, err
	}

	if approved {
		s.publish(NotifyGuestApproved, meetupID, guestID)
	}

	return s.BuildMeetupResponse(meetup)
}

// UpdateMeetup 更新约球活动，只有创建者或球队管理员可操作
func (s *MeetupService) UpdateMeetup(meetupID, actorID uint, req *models.MeetupUpdateRequest) (*models.MeetupResponse, error) {
	for i := 0; i < maxRetries(); i++ {
		meetup, conflict, err := s.updateOnce(meetupID, actorID, req)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}
		return s.BuildMeetupResponse(meetup)
	}
	return nil, ErrConcurrencyConflict
}

func (s *MeetupService) updateOnce(meetupID, actorID uint, req *models.MeetupUpdateRequest) (*models.Meetup, bool, error) {
	tx := s.db.Begin()

	var meetup models.Meetup
	if err := tx.First(&meetup, meetupID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrMeetupNotFound
		}
		return nil, false, err
	}

	ok, err := s.canManageMeetup(&meetup, actorID)
	if err != nil {
		tx.Rollback()
		return nil, false, err
	}
	if !ok {
		tx.Rollback()
		return nil, false, ErrForbidden
	}

	if req.Title != "" {
		meetup.Title = req.Title
	}
	if req.Description != "" {
		meetup.Description = req.Description
	}
	if req.LocationName != "" {
		meetup.LocationName = req.LocationName
	}
	if req.LocationAddress != "" {
		meetup.LocationAddress = req.LocationAddress
	}
	if req.Duration > 0 {
		meetup.Duration = req.Duration
	}
	if req.CostPerPerson != nil {
		meetup.CostPerPerson = *req.CostPerPerson
	}
	if req.MinParticipants > 0 {
		meetup.MinParticipants = req.MinParticipants
	}
	if req.MaxParticipants > 0 {
		meetup.MaxParticipants = req.MaxParticipants
	}

	// 人数上下限变更后重新校验
	if meetup.MaxParticipants < meetup.MinParticipants {
		tx.Rollback()
		return nil, false, ErrInvalidCapacity
	}

	// 活动时间变更后必须仍在将来
	if req.DateTime != nil {
		if !req.DateTime.After(time.Now()) {
			tx.Rollback()
			return nil, false, ErrDateNotFuture
		}
		meetup.DateTime = *req.DateTime
	}

	// 显式状态变更走状态机校验，终态不可再变更
	if req.Status != "" && req.Status != meetup.Status {
		if !meetup.Status.CanTransitionTo(req.Status) {
			tx.Rollback()
			return nil, false, ErrInvalidTransition
		}
		// 只有活动时间已过才能标记为已完成
		if req.Status == models.MeetupCompleted && meetup.DateTime.After(time.Now()) {
			tx.Rollback()
			return nil, false, ErrInvalidTransition
		}
		meetup.Status = req.Status
	}

	conflict, err := s.commitMeetupFull(tx, &meetup)
	if err != nil || conflict {
		return nil, conflict, err
	}

	if meetup.Status == models.MeetupCancelled {
		s.publish(NotifyMeetupCancelled, meetupID, actorID)
	}

	return &meetup, false, nil
}

// DeleteMeetup 删除约球活动及其报名记录
func (s *MeetupService) DeleteMeetup(meetupID, actorID uint) error {
	meetup, err := s.GetMeetupByID(meetupID)
	if err != nil {
		return err
	}

	ok, err := s.canManageMeetup(meetup, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}

	// 开启事务
	tx := s.db.Begin()
	if err := tx.Where("meetup_id = ?", meetupID).Delete(&models.MeetupPlayer{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("meetup_id = ?", meetupID).Delete(&models.MeetupGuest{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Meetup{}, meetupID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	return nil
}

// ListUserMeetups 列出与用户相关的约球活动（已报名、候补、亲友或创建者），
// 按活动时间升序排列并分页
func (s *MeetupService) ListUserMeetups(userID uint, filter *models.MeetupFilter, page, limit int) ([]models.MeetupResponse, models.Pagination, error) {
	page, limit = models.NormalizePage(page, limit)

	query := s.db.Model(&models.Meetup{}).
		Where("created_by = ?"+
			" OR id IN (SELECT meetup_id FROM meetup_players WHERE user_id = ?)"+
			" OR id IN (SELECT meetup_id FROM meetup_guests WHERE user_id = ?)",
			userID, userID, userID)
	query = applyMeetupFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var meetups []models.Meetup
	if err := query.Order("date_time ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&meetups).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	responses := make([]models.MeetupResponse, 0, len(meetups))
	for i := range meetups {
		resp, err := s.BuildMeetupResponse(&meetups[i])
		if err != nil {
			return nil, models.Pagination{}, err
		}
		responses = append(responses, *resp)
	}

	return responses, models.NewPagination(page, limit, total), nil
}

// applyMeetupFilter 套用列表筛选条件
func applyMeetupFilter(query *gorm.DB, filter *models.MeetupFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Upcoming {
		query = query.Where("date_time >= ?", time.Now())
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if filter.From != nil {
		query = query.Where("date_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date_time <= ?", *filter.To)
	}
	return query
}

// BuildMeetupResponse 构建约球活动响应，正式名单与候补均按报名顺序
func (s *MeetupService) BuildMeetupResponse(meetup *models.Meetup) (*models.MeetupResponse, error) {
	var players []models.MeetupPlayer
	if err := s.db.Where("meetup_id = ?", meetup.ID).
		Order("position ASC").
		Find(&players).Error; err != nil {
		return nil, err
	}

	confirmed := make([]uint, 0)
	waitlist := make([]uint, 0)
	for _, p := range players {
		if p.State == models.PlayerConfirmed {
			confirmed = append(confirmed, p.UserID)
		} else {
			waitlist = append(waitlist, p.UserID)
		}
	}

	var guests []models.MeetupGuest
	if err := s.db.Where("meetup_id = ?", meetup.ID).
		Order("created_at ASC").
		Find(&guests).Error; err != nil {
		return nil, err
	}

	guestResponses := make([]models.MeetupGuestResponse, len(guests))
	for i, g := range guests {
		guestResponses[i] = models.MeetupGuestResponse{
			UserID:     g.UserID,
			InvitedBy:  g.InvitedBy,
			Approved:   g.Approved,
			ApprovedBy: g.ApprovedBy,
		}
	}

	var groupName string
	var group models.Group
	if err := s.db.Select("name").First(&group, meetup.GroupID).Error; err == nil {
		groupName = group.Name
	}

	return &models.MeetupResponse{
		ID:              meetup.ID,
		Title:           meetup.Title,
		Description:     meetup.Description,
		GroupID:         meetup.GroupID,
		GroupName:       groupName,
		CreatedBy:       meetup.CreatedBy,
		DateTime:        meetup.DateTime,
		Duration:        meetup.Duration,
		LocationName:    meetup.LocationName,
		LocationAddress: meetup.LocationAddress,
		Lat:             meetup.Lat,
		Lng:             meetup.Lng,
		MinParticipants: meetup.MinParticipants,
		MaxParticipants: meetup.MaxParticipants,
		CostPerPerson:   meetup.CostPerPerson,
		Status:          meetup.Status,
		Confirmed:       confirmed,
		Waitlist:        waitlist,
		Guests:          guestResponses,
		CreatedAt:       meetup.CreatedAt,
	}, nil
}

// canManageMeetup 判断用户是否为活动创建者或所属球队管理员
func (s *MeetupService) canManageMeetup(meetup *models.Meetup, userID uint) (bool, error) {
	if meetup.CreatedBy == userID {
		return true, nil
	}

	var count int64
	if err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND is_manager = ?", meetup.GroupID, userID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// countConfirmed 统计正式名额占用数
func (s *MeetupService) countConfirmed(tx *gorm.DB, meetupID uint) (int, error) {
	var count int64
	if err := tx.Model(&models.MeetupPlayer{}).
		Where("meetup_id = ? AND state = ?", meetupID, models.PlayerConfirmed).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// nextPosition 分配下一个报名序号
func (s *MeetupService) nextPosition(tx *gorm.DB, meetupID uint) (int, error) {
	var maxPos int
	if err := tx.Model(&models.MeetupPlayer{}).
		Where("meetup_id = ?", meetupID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error; err != nil {
		return 0, err
	}
	return maxPos + 1, nil
}

// commitMeetup 带版本号校验写回状态并提交事务。
// 版本冲突时回滚并返回true，由调用方重试，保证报名人数永不超员
func (s *MeetupService) commitMeetup(tx *gorm.DB, meetup *models.Meetup) (bool, error) {
	res := tx.Model(&models.Meetup{}).
		Where("id = ? AND version = ?", meetup.ID, meetup.Version).
		Updates(map[string]interface{}{
			"status":  meetup.Status,
			"version": meetup.Version + 1,
		})
	if res.Error != nil {
		tx.Rollback()
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// 其他请求抢先修改了该活动
		tx.Rollback()
		return true, nil
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}
	meetup.Version++
	return false, nil
}

// commitMeetupFull 带版本号校验写回全部字段并提交事务
func (s *MeetupService) commitMeetupFull(tx *gorm.DB, meetup *models.Meetup) (bool, error) {
	version := meetup.Version
	meetup.Version++
	res := tx.Model(&models.Meetup{}).
		Where("id = ? AND version = ?", meetup.ID, version).
		Select("*").
		Omit("id", "created_at").
		Updates(meetup)
	if res.Error != nil {
		tx.Rollback()
		meetup.Version = version
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		meetup.Version = version
		return true, nil
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}
	return false, nil
}

// publish 发送通知事件，通知服务不可用时静默跳过
func (s *MeetupService) publish(event string, meetupID, userID uint) {
	if s.notify == nil {
		return
	}
	s.notify.PublishMeetupEvent(event, meetupID, userID)
}
