package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialplay/internal/model"
)

type scoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

// Create appends a score row; earlier rows are never touched.
func (r *scoreRepository) Create(ctx context.Context, userID int64, game string, score int64) (*model.Score, error) {
	s := model.Score{
		UserID:    userID,
		Game:      game,
		Score:     score,
		CreatedAt: now(),
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO scores (user_id, game, score, created_at) VALUES (?, ?, ?, ?)`,
		s.UserID, s.Game, s.Score, s.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert score: %w", err)
	}

	s.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read score id: %w", err)
	}

	return &s, nil
}

// BestByUser returns, per game, the user's highest score and latest play time.
// Both are independent aggregates over the user's rows for that game.
func (r *scoreRepository) BestByUser(ctx context.Context, userID int64) ([]model.BestScore, error) {
	query := `
		SELECT game, MAX(score) AS best_score, MAX(created_at) AS last_played
		FROM scores
		WHERE user_id = ?
		GROUP BY game
		ORDER BY game ASC
	`

	type bestRow struct {
		Game       string `db:"game"`
		BestScore  int64  `db:"best_score"`
		LastPlayed string `db:"last_played"`
	}

	var rows []bestRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("get best scores: %w", err)
	}

	scores := make([]model.BestScore, len(rows))
	for i, row := range rows {
		lastPlayed, err := parseTimestamp(row.LastPlayed)
		if err != nil {
			return nil, fmt.Errorf("best scores last_played: %w", err)
		}
		scores[i] = model.BestScore{
			Game:       row.Game,
			BestScore:  row.BestScore,
			LastPlayed: lastPlayed,
		}
	}

	return scores, nil
}

// Leaderboard ranks users by their best score for game, highest first.
// Ties go to the user whose best score row was recorded first (lowest id).
func (r *scoreRepository) Leaderboard(ctx context.Context, game string, limit int) ([]model.RankingEntry, error) {
	query := `
		WITH best AS (
			SELECT user_id, MAX(score) AS best_score, MAX(created_at) AS last_played
			FROM scores
			WHERE game = ?
			GROUP BY user_id
		)
		SELECT b.user_id, u.username, u.display_name, b.best_score, b.last_played,
		       (SELECT MIN(s.id) FROM scores s
		        WHERE s.user_id = b.user_id AND s.game = ? AND s.score = b.best_score) AS first_best_id
		FROM best b
		JOIN users u ON u.id = b.user_id
		ORDER BY b.best_score DESC, first_best_id ASC
		LIMIT ?
	`

	type rankingRow struct {
		UserID      int64   `db:"user_id"`
		Username    string  `db:"username"`
		DisplayName *string `db:"display_name"`
		BestScore   int64   `db:"best_score"`
		LastPlayed  string  `db:"last_played"`
		FirstBestID int64   `db:"first_best_id"`
	}

	var rows []rankingRow
	if err := r.db.SelectContext(ctx, &rows, query, game, game, limit); err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}

	entries := make([]model.RankingEntry, len(rows))
	for i, row := range rows {
		lastPlayed, err := parseTimestamp(row.LastPlayed)
		if err != nil {
			return nil, fmt.Errorf("leaderboard last_played: %w", err)
		}
		entries[i] = model.RankingEntry{
			UserID:      row.UserID,
			Username:    row.Username,
			DisplayName: row.DisplayName,
			Score:       row.BestScore,
			LastPlayed:  lastPlayed,
		}
	}

	return entries, nil
}
