package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Score is a single recorded game result. Rows are never overwritten.
type Score struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Game      string    `db:"game" json:"game"`
	Score     int64     `db:"score" json:"score"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BestScore is a user's best result for one game. LastPlayed is the latest
// play of that game and need not belong to the best row.
type BestScore struct {
	Game       string    `json:"game"`
	BestScore  int64     `json:"bestScore"`
	LastPlayed time.Time `json:"lastPlayed"`
}

// RankingEntry is one row of a game leaderboard.
type RankingEntry struct {
	UserID      int64     `json:"-"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"displayName"`
	Score       int64     `json:"score"`
	LastPlayed  time.Time `json:"lastPlayed"`
}

// Name returns the display name when set, the username otherwise.
func (e RankingEntry) Name() string {
	if e.DisplayName != nil && *e.DisplayName != "" {
		return *e.DisplayName
	}
	return e.Username
}

// ScoreSubmission is the body of POST /api/games/score. Score stays raw so that
// both numbers and numeric strings can be accepted.
type ScoreSubmission struct {
	Game  json.RawMessage `json:"game"`
	Score json.RawMessage `json:"score"`
}

// RankingResponse is the body of GET /api/games/score.
type RankingResponse struct {
	Game    string         `json:"game"`
	Ranking []RankingEntry `json:"ranking"`
}

// Known games with a page of their own.
const (
	GameTetris = "tetris"
	GamePacman = "pacman"
)

// Leaderboard limits
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

var (
	ErrInvalidScorePayload = errors.New("invalid payload")
	ErrScoreNotInteger     = errors.New("score must be an integer")
	ErrGameRequired        = errors.New("game required")
)

// ParseGame returns the game name from a raw JSON value. It must be a non-empty string.
func ParseGame(raw json.RawMessage) (string, error) {
	if isAbsent(raw) {
		return "", ErrInvalidScorePayload
	}
	var game string
	if err := json.Unmarshal(raw, &game); err != nil {
		return "", ErrInvalidScorePayload
	}
	game = strings.TrimSpace(game)
	if game == "" {
		return "", ErrInvalidScorePayload
	}
	return game, nil
}

// ParseScore accepts a JSON integer, a float with no fractional part, or a
// string holding a base-10 integer.
func ParseScore(raw json.RawMessage) (int64, error) {
	if isAbsent(raw) {
		return 0, ErrInvalidScorePayload
	}

	trimmed := bytes.TrimSpace(raw)
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, ErrScoreNotInteger
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, ErrScoreNotInteger
		}
		return n, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return 0, ErrScoreNotInteger
		}
		if n, err := num.Int64(); err == nil {
			return n, nil
		}
		f, err := num.Float64()
		if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, ErrScoreNotInteger
		}
		return int64(f), nil
	default:
		return 0, ErrScoreNotInteger
	}
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
