package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/zhengye7/fitarena/internal/bootstrap"
	"github.com/zhengye7/fitarena/internal/dto"
	"github.com/zhengye7/fitarena/internal/eventbus"
	"github.com/zhengye7/fitarena/internal/service"
)

type apiServer struct {
	core      *bootstrap.Core
	startTime time.Time
}

func newAPI(core *bootstrap.Core) *apiServer {
	return &apiServer{
		core:      core,
		startTime: time.Now(),
	}
}

func (a *apiServer) registerJSONRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v2/challenges", a.handleListChallenges)
	mux.HandleFunc("POST /api/v2/challenges", a.handleCreateChallenge)
	mux.HandleFunc("GET /api/v2/challenges/{id}", a.handleGetChallenge)
	mux.HandleFunc("POST /api/v2/challenges/{id}/recalculate", a.handleRecalculateChallenge)
	mux.HandleFunc("POST /api/v2/challenges/{id}/recalculate/{email}", a.handleRecalculateUser)
	mux.HandleFunc("GET /api/v2/challenges/{id}/scores", a.handleListScores)
	mux.HandleFunc("GET /api/v2/challenges/{id}/leaderboard", a.handleLeaderboard)
	mux.HandleFunc("POST /api/v2/logs", a.handleCreateLog)
}

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       a.core.Cfg.App.Name,
		"version":    a.core.Cfg.App.Version,
		"safe_mode":  a.core.DB.SafeMode,
		"started_at": a.startTime.Format(time.RFC3339),
	})
}

func (a *apiServer) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := a.core.Repos.Challenge.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, challenges)
}

func (a *apiServer) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChallengeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	challenge := req.ToSchema()
	if err := a.core.Repos.Challenge.Create(r.Context(), challenge); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.core.Hub.Publish(eventbus.Event{
		Type: eventbus.EventChallengeCreated,
		Data: map[string]any{"challenge_id": challenge.ID, "name": challenge.Name},
	})
	writeJSON(w, http.StatusCreated, challenge)
}

func (a *apiServer) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "无效的挑战 ID")
		return
	}

	challenge, err := a.core.Repos.Challenge.GetWithRules(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if challenge == nil {
		writeError(w, http.StatusNotFound, "挑战不存在")
		return
	}
	writeJSON(w, http.StatusOK, challenge)
}

func (a *apiServer) handleRecalculateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "无效的挑战 ID")
		return
	}
	email := r.PathValue("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email 不能为空")
		return
	}

	if err := a.core.Services.Scoring.RecalculateUserScores(r.Context(), id, email); err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculateResponse{
		ChallengeID: id,
		UserEmail:   email,
		Status:      "ok",
	})
}

func (a *apiServer) handleRecalculateChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "无效的挑战 ID")
		return
	}

	if err := a.core.Services.Scoring.RecalculateChallengeScores(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculateResponse{ChallengeID: id, Status: "ok"})
}

func (a *apiServer) handleListScores(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "无效的挑战 ID")
		return
	}

	email := r.URL.Query().Get("email")
	if email != "" {
		scores, err := a.core.Repos.Score.ListByUser(r.Context(), id, email)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, scores)
		return
	}

	scores, err := a.core.Repos.Score.ListByChallenge(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (a *apiServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "无效的挑战 ID")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := parseInt64Param(raw); err == nil && n > 0 {
			limit = int(n)
		}
	}

	entries, err := a.core.Repos.Score.Leaderboard(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *apiServer) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLogRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := req.ToSchema()
	if err := a.core.Repos.ActivityLog.Create(r.Context(), log); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.core.Hub.Publish(eventbus.Event{
		Type: eventbus.EventLogCreated,
		Data: map[string]any{
			"user_email": log.UserEmail,
			"metric_id":  log.MetricID,
			"raw_value":  log.RawValue,
		},
	})
	writeJSON(w, http.StatusCreated, log)
}
