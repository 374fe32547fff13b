// Package api provides HTTP handlers for diet coach endpoints.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// DefaultChatHistoryLimit is how many turns the admin chat view returns
// when no limit query parameter is given.
const DefaultChatHistoryLimit = 30

// healthHandler provides a health check endpoint for monitoring and load balancing
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "🟢 DietBuddy Pro is alive!",
		"version": ServiceVersion,
		"model":   s.model,
	})
}

// adminStatsHandler returns service-wide counters (GET /admin/stats).
func (s *Server) adminStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.st.GetStats(s.today())
	if err != nil {
		slog.Error("Server.adminStatsHandler: failed to fetch stats", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch stats"))
		return
	}
	slog.Debug("Server.adminStatsHandler: stats fetched", "total_users", stats.TotalUsers)
	writeJSONResponse(w, http.StatusOK, models.Success(stats))
}

// adminUsersHandler lists all users, most recently active first (GET /admin/users).
func (s *Server) adminUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.st.GetAllUsers()
	if err != nil {
		slog.Error("Server.adminUsersHandler: failed to fetch users", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch users"))
		return
	}
	slog.Debug("Server.adminUsersHandler: users fetched", "count", len(users))
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"users": users,
	}))
}

// adminChatHandler returns a user's profile, recent conversation, and
// today's logs (GET /admin/chat/{phone}?limit=N).
func (s *Server) adminChatHandler(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	user, err := s.st.GetUser(phone)
	if err != nil {
		slog.Error("Server.adminChatHandler: failed to fetch user", "error", err, "phone", phone)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch user"))
		return
	}
	if user == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("User not found"))
		return
	}

	limit := DefaultChatHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, parseErr := strconv.Atoi(raw); parseErr == nil && n > 0 {
			limit = n
		}
	}

	turns, err := s.st.GetRecentTurns(phone, limit)
	if err != nil {
		slog.Error("Server.adminChatHandler: failed to fetch turns", "error", err, "phone", phone)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch conversation"))
		return
	}
	foods, err := s.st.GetTodayFoodLogs(phone, s.today())
	if err != nil {
		slog.Error("Server.adminChatHandler: failed to fetch food logs", "error", err, "phone", phone)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch food logs"))
		return
	}
	water, err := s.st.GetTodayWaterTotal(phone, s.today())
	if err != nil {
		slog.Error("Server.adminChatHandler: failed to fetch water total", "error", err, "phone", phone)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch water total"))
		return
	}

	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"user":        user,
		"messages":    turns,
		"today_food":  foods,
		"water_today": water,
	}))
}

// adminWeeklyHandler returns a user's trailing-week aggregates
// (GET /admin/weekly/{phone}).
func (s *Server) adminWeeklyHandler(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	user, err := s.st.GetUser(phone)
	if err != nil {
		slog.Error("Server.adminWeeklyHandler: failed to fetch user", "error", err, "phone", phone)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch user"))
		return
	}
	if user == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("User not found"))
		return
	}

	startDate := time.Now().In(s.location).AddDate(0, 0, -7).Format("2006-01-02")
	summary, err := s.st.GetWeeklyAggregates(phone, startDate)
	if err != nil {
		slog.Error("Server.adminWeeklyHandler: failed to fetch weekly aggregates", "error", err, "phone", phone)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch weekly summary"))
		return
	}

	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"user":           user,
		"weekly_summary": summary,
	}))
}
