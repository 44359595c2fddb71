package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"matchday/models"
	"matchday/services"
)

func createGame(t *testing.T, db *gorm.DB, meetupID uint) *models.Game {
	t.Helper()
	game := &models.Game{
		MeetupID:  meetupID,
		StartTime: time.Now().Add(-2 * time.Hour),
		Duration:  60,
		Format:    "5v5",
	}
	require.NoError(t, db.Create(game).Error)
	return game
}

func addEvent(t *testing.T, db *gorm.DB, gameID, playerID uint, eventType models.GameEventType) {
	t.Helper()
	require.NoError(t, db.Create(&models.GameEvent{
		GameID:    gameID,
		Type:      eventType,
		PlayerID:  playerID,
		Team:      1,
		Timestamp: time.Now().Add(-90 * time.Minute),
	}).Error)
}

func TestGetUserStats_AveragesRoundedToTwoDecimals(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	group := createGroup(t, db, alice)
	meetup := createMeetup(t, db, alice, group, 2, 10)
	svc := services.NewStatsService(db)

	// 三场比赛，共2球1助攻
	g1 := createGame(t, db, meetup.ID)
	g2 := createGame(t, db, meetup.ID)
	g3 := createGame(t, db, meetup.ID)
	addEvent(t, db, g1.ID, alice.ID, models.EventGoal)
	addEvent(t, db, g1.ID, alice.ID, models.EventGoal)
	addEvent(t, db, g2.ID, alice.ID, models.EventAssist)
	addEvent(t, db, g2.ID, alice.ID, models.EventYellowCard)
	addEvent(t, db, g3.ID, alice.ID, models.EventRedCard)

	stats, err := svc.GetUserStats(alice.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.GamesPlayed)
	assert.Equal(t, 2, stats.TotalGoals)
	assert.Equal(t, 1, stats.TotalAssists)
	assert.Equal(t, 1, stats.TotalYellowCards)
	assert.Equal(t, 1, stats.TotalRedCards)
	assert.Equal(t, "0.67", stats.AverageGoalsPerGame)
	assert.Equal(t, "0.33", stats.AverageAssistsPerGame)
}

func TestGetUserStats_SubstitutionNotCounted(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	group := createGroup(t, db, alice)
	meetup := createMeetup(t, db, alice, group, 2, 10)
	svc := services.NewStatsService(db)

	game := createGame(t, db, meetup.ID)
	addEvent(t, db, game.ID, alice.ID, models.EventSubstitution)

	stats, err := svc.GetUserStats(alice.ID)
	require.NoError(t, err)

	// 换人事件算出场，但不计入任何技术统计
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Zero(t, stats.TotalGoals)
	assert.Zero(t, stats.TotalAssists)
	assert.Equal(t, "0.00", stats.AverageGoalsPerGame)
}

func TestGetUserStats_EventsOfOthersNotCounted(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	group := createGroup(t, db, alice, bob)
	meetup := createMeetup(t, db, alice, group, 2, 10)
	svc := services.NewStatsService(db)

	game := createGame(t, db, meetup.ID)
	addEvent(t, db, game.ID, alice.ID, models.EventGoal)
	addEvent(t, db, game.ID, bob.ID, models.EventGoal)
	addEvent(t, db, game.ID, bob.ID, models.EventGoal)

	stats, err := svc.GetUserStats(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGoals)
	assert.Equal(t, "1.00", stats.AverageGoalsPerGame)
}

func TestGetUserStats_MeetupsAttended(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	guest := createUser(t, db, "guest")
	outsider := createUser(t, db, "outsider")
	group := createGroup(t, db, alice, bob)
	mSvc := services.NewMeetupService(db, nil)
	svc := services.NewStatsService(db)

	// 已完成：B正式参加，guest作为已审批亲友
	done := createMeetup(t, db, alice, group, 2, 10)
	_, err := mSvc.Register(done.ID, bob.ID)
	require.NoError(t, err)
	_, err = mSvc.RegisterGuest(done.ID, bob.ID, guest.ID)
	require.NoError(t, err)
	_, err = mSvc.ApproveGuest(done.ID, alice.ID, guest.ID, true)
	require.NoError(t, err)
	setMeetupStatus(t, db, done.ID, models.MeetupCompleted)

	// 已完成但guest未获审批
	pending := createMeetup(t, db, alice, group, 2, 10)
	_, err = mSvc.RegisterGuest(pending.ID, alice.ID, guest.ID)
	require.NoError(t, err)
	setMeetupStatus(t, db, pending.ID, models.MeetupCompleted)

	// 未完成的活动不计入
	upcoming := createMeetup(t, db, alice, group, 2, 10)
	_, err = mSvc.Register(upcoming.ID, bob.ID)
	require.NoError(t, err)

	bobStats, err := svc.GetUserStats(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, bobStats.MeetupsAttended)

	guestStats, err := svc.GetUserStats(guest.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, guestStats.MeetupsAttended)

	// 创建者自动在正式名单中，两场已完成的都算
	aliceStats, err := svc.GetUserStats(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, aliceStats.MeetupsAttended)

	outsiderStats, err := svc.GetUserStats(outsider.ID)
	require.NoError(t, err)
	assert.Zero(t, outsiderStats.MeetupsAttended)
}

func TestGetUserStats_NoRecords(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	svc := services.NewStatsService(db)

	stats, err := svc.GetUserStats(alice.ID)
	require.NoError(t, err)

	assert.Zero(t, stats.GamesPlayed)
	assert.Zero(t, stats.MeetupsAttended)
	assert.Zero(t, stats.TotalGoals)
	assert.Equal(t, "0", stats.AverageGoalsPerGame)
	assert.Equal(t, "0", stats.AverageAssistsPerGame)
}
