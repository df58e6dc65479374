package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"socialplay/internal/httputil"
	"socialplay/internal/model"
	"socialplay/internal/service"
	"socialplay/internal/transport/http/middleware"
	"socialplay/internal/view"
)

type GameHandler struct {
	gameService *service.GameService
	pages       *Pages
}

func NewGameHandler(gameService *service.GameService, pages *Pages) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		pages:       pages,
	}
}

// Games handles GET /games
func (h *GameHandler) Games(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, view.PageGames, "Games", nil)
}

// Tetris handles GET /games/tetris
func (h *GameHandler) Tetris(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, view.PageTetris, "Tetris", nil)
}

// Pacman handles GET /games/pacman
func (h *GameHandler) Pacman(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, view.PagePacman, "Pac-Man", nil)
}

// Ranking handles GET /games/ranking: the top 10 of every ranked game.
func (h *GameHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	boards := make([]model.RankingResponse, 0, len(service.RankedGames))
	for _, game := range service.RankedGames {
		entries, err := h.gameService.Leaderboard(r.Context(), game, model.DefaultLeaderboardLimit)
		if err != nil {
			h.pages.ServerError(w, r, "Ranking", err)
			return
		}
		boards = append(boards, model.RankingResponse{Game: game, Ranking: entries})
	}
	h.pages.Render(w, r, http.StatusOK, view.PageRanking, "Ranking", boards)
}

// SubmitScore handles POST /api/games/score
func (h *GameHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB is plenty for JSON
	var sub model.ScoreSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		httputil.WriteBadRequest(w, model.ErrInvalidScorePayload.Error())
		return
	}

	if _, err := h.gameService.RecordScore(r.Context(), user.ID, sub); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidScorePayload):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrScoreNotInteger):
			httputil.WriteBadRequestWithCode(w, httputil.ErrCodeInvalidScore, err.Error())
		default:
			logError("SubmitScore", err)
			httputil.WriteInternalError(w, "Failed to save score")
		}
		return
	}

	httputil.WriteOK(w)
}

// GetRanking handles GET /api/games/score?game=&limit=
func (h *GameHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	game := r.URL.Query().Get("game")
	if game == "" {
		httputil.WriteBadRequest(w, model.ErrGameRequired.Error())
		return
	}

	limit := model.DefaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteBadRequest(w, "limit must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := h.gameService.Leaderboard(r.Context(), game, limit)
	if err != nil {
		logError("GetRanking", err)
		httputil.WriteInternalError(w, "Failed to load ranking")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.RankingResponse{Game: game, Ranking: entries})
}
