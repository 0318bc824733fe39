package repo

import (
	"context"

	"github.com/riddlebox/riddle-api/internal/models"
)

type LeaderboardEntry struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	BestTime      int64  `json:"best_time"`
	RiddlesSolved int64  `json:"riddles_solved"`
}

func (r *GormRepo) CreateScore(ctx context.Context, score *models.Score) error {
	return r.DB.WithContext(ctx).Create(score).Error
}

// MaybeImproveBestTime lowers the player's best_time when the new time
// beats it. The WHERE guard means a concurrent worse submission can never
// overwrite a better value; the update is still a separate statement from
// the score insert, not part of a transaction.
func (r *GormRepo) MaybeImproveBestTime(ctx context.Context, userID uint, timeToSolve int64) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND (best_time = 0 OR best_time > ?)", userID, timeToSolve).
		Update("best_time", timeToSolve).Error
}

func (r *GormRepo) CountScores(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Score{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GormRepo) ListScores(ctx context.Context, userID uint) ([]models.Score, error) {
	var scores []models.Score
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("id ASC").Find(&scores).Error
	return scores, err
}

// Leaderboard runs one count query per entry. Fine while limit stays small.
func (r *GormRepo) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).
		Where("best_time <> 0").
		Order("best_time ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		solved, err := r.CountScores(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LeaderboardEntry{
			ID:            u.ID,
			Username:      u.Username,
			BestTime:      u.BestTime,
			RiddlesSolved: solved,
		})
	}
	return entries, nil
}
