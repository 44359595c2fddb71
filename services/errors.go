package services

import (
	"errors"
)

// 服务层错误定义，控制器通过errors.Is映射为HTTP状态码
var (
	// 资源不存在
	ErrUserNotFound   = errors.New("用户不存在")
	ErrGroupNotFound  = errors.New("球队不存在")
	ErrMeetupNotFound = errors.New("约球活动不存在")
	ErrGuestNotFound  = errors.New("亲友报名记录不存在")

	// 权限不足
	ErrForbidden      = errors.New("没有操作权限")
	ErrNotGroupMember = errors.New("必须是球队成员才能发起约球")

	// 参数校验
	ErrInvalidCapacity   = errors.New("最大人数不能小于最小人数")
	ErrDateNotFuture     = errors.New("活动时间必须晚于当前时间")
	ErrInvalidTransition = errors.New("非法的状态变更")

	// 报名相关
	ErrRegistrationClosed     = errors.New("当前状态不接受报名")
	ErrMeetupInPast           = errors.New("活动时间已过，无法报名")
	ErrAlreadyRegistered      = errors.New("已经报名过该活动")
	ErrGuestAlreadyRegistered = errors.New("该亲友已在报名名单中")

	// 球队成员管理
	ErrAlreadyMember      = errors.New("已经是球队成员")
	ErrNotMember          = errors.New("不是球队成员")
	ErrCreatorCannotLeave = errors.New("球队创建者不能退出球队")

	// 乐观锁重试耗尽
	ErrConcurrencyConflict = errors.New("操作冲突，请稍后重试")
)
