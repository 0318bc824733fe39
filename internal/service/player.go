package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/riddlebox/riddle-api/internal/apperr"
	"github.com/riddlebox/riddle-api/internal/logging"
	"github.com/riddlebox/riddle-api/internal/models"
	"github.com/riddlebox/riddle-api/internal/mykafka"
	"github.com/riddlebox/riddle-api/internal/repo"
)

const DefaultLeaderboardLimit = 10

type PlayerService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

type PlayerStatsResult struct {
	Player  *models.User   `json:"player"`
	Stats   Stats          `json:"stats"`
	History []models.Score `json:"history"`
}

type Stats struct {
	TotalSolved int64 `json:"total_solved"`
	AvgTime     int64 `json:"avg_time"`
	BestTime    int64 `json:"best_time"`
}

func (s *PlayerService) CreatePlayer(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, apperr.InvalidInput("username is required")
	}

	player := &models.User{
		Username: username,
		Role:     models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, player); err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			return nil, apperr.Conflict("Username already exists")
		}
		return nil, apperr.Wrap(err)
	}
	return player, nil
}

// SubmitScore appends the score row, then conditionally improves the
// player's best_time. The two statements are not wrapped in a transaction;
// concurrent submissions converge on the minimum because the update is
// guarded, but a reader in between can observe the old best_time.
func (s *PlayerService) SubmitScore(ctx context.Context, userID, riddleID uint, timeToSolve int64) error {
	l := logging.FromContext(ctx).With("svc", "player.submit_score", "user_id", userID)

	if timeToSolve <= 0 {
		return apperr.InvalidInput("time_to_solve must be positive")
	}

	score := &models.Score{
		UserID:   userID,
		RiddleID: riddleID,
		Time:     timeToSolve,
	}
	if err := s.Repo.CreateScore(ctx, score); err != nil {
		l.Error("submit_score_error", "reason", "cannot append score", "error", err)
		return apperr.Wrap(err)
	}

	if err := s.Repo.MaybeImproveBestTime(ctx, userID, timeToSolve); err != nil {
		l.Error("submit_score_error", "reason", "cannot update best_time", "error", err)
		return apperr.Wrap(err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":      "score_submitted",
		"user_id":   userID,
		"riddle_id": riddleID,
		"time":      timeToSolve,
	}
	if err := s.Producer.PublishEvent(pubCtx, "score_events", fmt.Sprint(userID), event); err != nil {
		l.Error("kafka_publish_error", "topic", "score_events", "error", err)
	}

	return nil
}

func (s *PlayerService) Leaderboard(ctx context.Context, limit int) ([]repo.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultLeaderboardLimit
	}
	entries, err := s.Repo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return entries, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, username string) (*models.User, error) {
	player, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, apperr.NotFound("Player not found")
		}
		return nil, apperr.Wrap(err)
	}
	return player, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]models.User, error) {
	players, err := s.Repo.ListPlayers(ctx)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return players, nil
}

func (s *PlayerService) PlayerStats(ctx context.Context, username string) (*PlayerStatsResult, error) {
	player, err := s.GetPlayer(ctx, username)
	if err != nil {
		return nil, err
	}

	history, err := s.Repo.ListScores(ctx, player.ID)
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	var avg int64
	if len(history) > 0 {
		var sum int64
		for _, sc := range history {
			sum += sc.Time
		}
		avg = int64(math.Round(float64(sum) / float64(len(history))))
	}

	return &PlayerStatsResult{
		Player: player,
		Stats: Stats{
			TotalSolved: int64(len(history)),
			AvgTime:     avg,
			BestTime:    player.BestTime,
		},
		History: history,
	}, nil
}
