package service

import (
	"context"
	"fmt"
	"log"

	"socialplay/internal/model"
	"socialplay/internal/repository"
)

// Games listed on the ranking page, in display order.
var RankedGames = []string{model.GameTetris, model.GamePacman}

type GameService struct {
	scores repository.ScoreRepository
}

func NewGameService(scores repository.ScoreRepository) *GameService {
	return &GameService{scores: scores}
}

// RecordScore validates a raw submission and appends it as a new score row.
func (s *GameService) RecordScore(ctx context.Context, userID int64, sub model.ScoreSubmission) (*model.Score, error) {
	game, err := model.ParseGame(sub.Game)
	if err != nil {
		return nil, err
	}

	score, err := model.ParseScore(sub.Score)
	if err != nil {
		return nil, err
	}

	saved, err := s.scores.Create(ctx, userID, game, score)
	if err != nil {
		return nil, fmt.Errorf("save score: %w", err)
	}

	log.Printf("[GameService] Score %d saved for user %d in %s", score, userID, game)
	return saved, nil
}

// BestScoresForUser returns one entry per game the user has played.
func (s *GameService) BestScoresForUser(ctx context.Context, userID int64) ([]model.BestScore, error) {
	best, err := s.scores.BestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("best scores: %w", err)
	}
	return best, nil
}

// Leaderboard returns the top users for game. limit is clamped to
// [1, MaxLeaderboardLimit]; zero or less selects the default.
func (s *GameService) Leaderboard(ctx context.Context, game string, limit int) ([]model.RankingEntry, error) {
	if game == "" {
		return nil, model.ErrGameRequired
	}

	switch {
	case limit <= 0:
		limit = model.DefaultLeaderboardLimit
	case limit > model.MaxLeaderboardLimit:
		limit = model.MaxLeaderboardLimit
	}

	entries, err := s.scores.Leaderboard(ctx, game, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	if entries == nil {
		entries = []model.RankingEntry{}
	}
	return entries, nil
}
