package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"courses-backend/database"
	"courses-backend/middleware"
)

// StatsHandler отдает сводную статистику, доступна только персоналу
type StatsHandler struct {
	reporter *database.Reporter
}

func NewStatsHandler(reporter *database.Reporter) *StatsHandler {
	return &StatsHandler{reporter: reporter}
}

type statsResponse struct {
	Totals  *database.Totals          `json:"totals"`
	Courses []database.CourseActivity `json:"courses"`
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	if !claims.IsStaff {
		log.Printf("❌ User %s tried to access stats without permission", claims.Username)
		http.Error(w, `{"error": "Insufficient permissions"}`, http.StatusForbidden)
		return
	}

	totals, err := h.reporter.Totals()
	if err != nil {
		log.Printf("❌ Error collecting totals: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	courses, err := h.reporter.CourseActivity()
	if err != nil {
		log.Printf("❌ Error collecting course activity: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	response := statsResponse{
		Totals:  totals,
		Courses: courses,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}
