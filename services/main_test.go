package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"matchday/models"
	"matchday/services"
)

// newTestDB 为每个测试创建独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Meetup{},
		&models.MeetupPlayer{},
		&models.MeetupGuest{},
		&models.Game{},
		&models.GameEvent{},
	)
	require.NoError(t, err)

	return db
}

// createUser 创建测试用户
func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Password: "hashed",
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createGroup 创建测试球队并加入成员
func createGroup(t *testing.T, db *gorm.DB, creator *models.User, members ...*models.User) *models.Group {
	t.Helper()

	svc := services.NewGroupService(db)
	group, err := svc.CreateGroup(creator.ID, &models.GroupRequest{
		Name:        "周末踢球-" + t.Name(),
		Description: "周末友谊赛小组",
		City:        "上海",
	})
	require.NoError(t, err)

	for _, m := range members {
		require.NoError(t, svc.AddMember(group.ID, creator.ID, m.ID))
	}
	return group
}

// createMeetup 创建已发布的测试约球活动
func createMeetup(t *testing.T, db *gorm.DB, creator *models.User, group *models.Group, minP, maxP int) *models.MeetupResponse {
	t.Helper()

	svc := services.NewMeetupService(db, nil)
	meetup, err := svc.CreateMeetup(creator.ID, &models.MeetupRequest{
		Title:           "周六球局",
		Description:     "五人制友谊赛",
		GroupID:         group.ID,
		DateTime:        time.Now().Add(48 * time.Hour),
		LocationName:    "世纪公园球场",
		LocationAddress: "锦绣路1001号",
		MinParticipants: minP,
		MaxParticipants: maxP,
		Publish:         true,
	})
	require.NoError(t, err)
	return meetup
}

// setMeetupStatus 直接修改活动状态，用于构造特殊场景
func setMeetupStatus(t *testing.T, db *gorm.DB, meetupID uint, status models.MeetupStatus) {
	t.Helper()
	require.NoError(t, db.Model(&models.Meetup{}).
		Where("id = ?", meetupID).
		Update("status", status).Error)
}

// setMeetupDateTime 直接修改活动时间，用于构造过期场景
func setMeetupDateTime(t *testing.T, db *gorm.DB, meetupID uint, dt time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Meetup{}).
		Where("id = ?", meetupID).
		Update("date_time", dt).Error)
}
