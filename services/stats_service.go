package services

import (
	"fmt"

	"gorm.io/gorm"

	"matchday/models"
)

// StatsService 用户统计服务。
// 所有统计均为读时实时计算，不落库也不缓存
type StatsService struct {
	db *gorm.DB
}

// NewStatsService 创建用户统计服务实例
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// GetUserStats 计算用户统计数据。
// 未知用户或没有任何记录的用户返回全零，不报错
func (s *StatsService) GetUserStats(userID uint) (*models.UserStats, error) {
	// 用户作为球员出现过事件的所有比赛
	var gameIDs []uint
	if err := s.db.Model(&models.GameEvent{}).
		Where("player_id = ?", userID).
		Distinct("game_id").
		Pluck("game_id", &gameIDs).Error; err != nil {
		return nil, err
	}
	gamesPlayed := len(gameIDs)

	stats := &models.UserStats{
		GamesPlayed:           gamesPlayed,
		AverageGoalsPerGame:   "0",
		AverageAssistsPerGame: "0",
	}

	if gamesPlayed > 0 {
		var events []models.GameEvent
		if err := s.db.Where("game_id IN ? AND player_id = ?", gameIDs, userID).
			Find(&events).Error; err != nil {
			return nil, err
		}

		for _, event := range events {
			switch event.Type {
			case models.EventGoal:
				stats.TotalGoals++
			case models.EventAssist:
				stats.TotalAssists++
			case models.EventYellowCard:
				stats.TotalYellowCards++
			case models.EventRedCard:
				stats.TotalRedCards++
			}
			// 换人事件不计入任何统计
		}

		stats.AverageGoalsPerGame = fmt.Sprintf("%.2f", float64(stats.TotalGoals)/float64(gamesPlayed))
		stats.AverageAssistsPerGame = fmt.Sprintf("%.2f", float64(stats.TotalAssists)/float64(gamesPlayed))
	}

	// 参加过的已完成活动：在正式名单中，或作为已审批通过的亲友。
	// 与比赛数相互独立，完成的活动未必录入过比赛
	var attended int64
	if err := s.db.Model(&models.Meetup{}).
		Where("status = ?", models.MeetupCompleted).
		Where("id IN (SELECT meetup_id FROM meetup_players WHERE user_id = ? AND state = ?)"+
			" OR id IN (SELECT meetup_id FROM meetup_guests WHERE user_id = ? AND approved = ?)",
			userID, models.PlayerConfirmed, userID, true).
		Count(&attended).Error; err != nil {
		return nil, err
	}
	stats.MeetupsAttended = int(attended)

	return stats, nil
}
