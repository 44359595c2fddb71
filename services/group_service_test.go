package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchday/models"
	"matchday/services"
)

func TestCreateGroup_CreatorIsManagerMember(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	svc := services.NewGroupService(db)

	group, err := svc.CreateGroup(alice.ID, &models.GroupRequest{
		Name:        "夜场小队",
		Description: "周三夜场",
		City:        "北京",
	})
	require.NoError(t, err)
	assert.Equal(t, models.GroupPublic, group.Privacy)

	isMember, err := svc.IsMember(group.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	isManager, err := svc.IsManager(group.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, isManager)
}

func TestAddMember(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	group := createGroup(t, db, alice)
	svc := services.NewGroupService(db)

	// 非管理员无权拉人
	require.NoError(t, svc.AddMember(group.ID, alice.ID, bob.ID))
	err := svc.AddMember(group.ID, bob.ID, carol.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// 重复加入
	err = svc.AddMember(group.ID, alice.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrAlreadyMember)

	// 球队不存在
	err = svc.AddMember(9999, alice.ID, carol.ID)
	assert.ErrorIs(t, err, services.ErrGroupNotFound)
}

func TestRemoveMember(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	group := createGroup(t, db, alice, bob, carol)
	svc := services.NewGroupService(db)

	// 普通成员不能移除他人
	err := svc.RemoveMember(group.ID, bob.ID, carol.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// 成员可以自行退出
	require.NoError(t, svc.RemoveMember(group.ID, carol.ID, carol.ID))
	isMember, err := svc.IsMember(group.ID, carol.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	// 已退出的成员再移除报错
	err = svc.RemoveMember(group.ID, alice.ID, carol.ID)
	assert.ErrorIs(t, err, services.ErrNotMember)

	// 管理员可以移除成员
	require.NoError(t, svc.RemoveMember(group.ID, alice.ID, bob.ID))

	// 创建者不能被移出，也不能自行退出
	err = svc.RemoveMember(group.ID, alice.ID, alice.ID)
	assert.ErrorIs(t, err, services.ErrCreatorCannotLeave)
}

func TestUpdateGroup_ManagerOnly(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	group := createGroup(t, db, alice, bob)
	svc := services.NewGroupService(db)

	req := &models.GroupRequest{
		Name:        "改名小队",
		Description: "改了简介",
		Privacy:     models.GroupPrivate,
		City:        "上海",
	}

	_, err := svc.UpdateGroup(group.ID, bob.ID, req)
	assert.ErrorIs(t, err, services.ErrForbidden)

	updated, err := svc.UpdateGroup(group.ID, alice.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "改名小队", updated.Name)
	assert.Equal(t, models.GroupPrivate, updated.Privacy)
}

func TestDeleteGroup_CreatorOnly(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	group := createGroup(t, db, alice, bob)
	svc := services.NewGroupService(db)

	err := svc.DeleteGroup(group.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	require.NoError(t, svc.DeleteGroup(group.ID, alice.ID))
	_, err = svc.GetGroupByID(group.ID)
	assert.ErrorIs(t, err, services.ErrGroupNotFound)

	// 成员关系一并清理
	var count int64
	require.NoError(t, db.Model(&models.GroupMember{}).Where("group_id = ?", group.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetGroupMembersAndUserGroups(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	group := createGroup(t, db, alice, bob)
	svc := services.NewGroupService(db)

	members, err := svc.GetGroupMembers(group.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	groups, err := svc.GetUserGroups(bob.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, group.ID, groups[0].ID)
	assert.Equal(t, 2, groups[0].MemberCount)
}

func TestListGroups_FilterAndPagination(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	svc := services.NewGroupService(db)

	mkGroup := func(name, city string, privacy models.GroupPrivacy) {
		_, err := svc.CreateGroup(alice.ID, &models.GroupRequest{
			Name:        name,
			Description: "测试球队",
			Privacy:     privacy,
			City:        city,
		})
		require.NoError(t, err)
	}

	mkGroup("浦东先锋", "上海", models.GroupPublic)
	mkGroup("静安之星", "上海", models.GroupPrivate)
	mkGroup("朝阳联队", "北京", models.GroupPublic)

	// 按城市筛选
	groups, pagination, err := svc.ListGroups(&models.GroupFilter{City: "上海"}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Equal(t, int64(2), pagination.Total)

	// 按隐私级别筛选
	groups, _, err = svc.ListGroups(&models.GroupFilter{Privacy: models.GroupPrivate}, 1, 20)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "静安之星", groups[0].Name)

	// 关键词搜索
	groups, _, err = svc.ListGroups(&models.GroupFilter{Search: "朝阳"}, 1, 20)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "朝阳联队", groups[0].Name)

	// 分页
	groups, pagination, err = svc.ListGroups(nil, 1, 2)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Equal(t, int64(3), pagination.Total)
	assert.True(t, pagination.HasNext)
}

func TestGetGroupStats(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	group := createGroup(t, db, alice, bob)
	gSvc := services.NewGroupService(db)
	mSvc := services.NewMeetupService(db, nil)

	// 一场已完成，两人正式参加
	done := createMeetup(t, db, alice, group, 2, 10)
	_, err := mSvc.Register(done.ID, bob.ID)
	require.NoError(t, err)
	setMeetupStatus(t, db, done.ID, models.MeetupCompleted)

	// 一场即将开始
	createMeetup(t, db, alice, group, 2, 10)

	stats, err := gSvc.GetGroupStats(group.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalMembers)
	assert.Equal(t, 2, stats.TotalMeetups)
	assert.Equal(t, 1, stats.CompletedMeetups)
	assert.Equal(t, 1, stats.UpcomingMeetups)
	assert.InDelta(t, 2.0, stats.AverageParticipation, 0.001)
}
