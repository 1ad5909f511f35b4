package web

import (
	"encoding/json"
	"net/http"

	"biosync/internal/domain"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get profile")
		s.logger.Error("get profile failed", "error", err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not set")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentWeight float64 `json:"current_weight"`
		Height        float64 `json:"height"`
		Age           int     `json:"age"`
		Sex           string  `json:"sex"`
		Goal          string  `json:"goal"`
		ActivityLevel string  `json:"activity_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CurrentWeight <= 0 || req.Height <= 0 || req.Age <= 0 {
		writeError(w, http.StatusBadRequest, "current_weight, height, and age must be positive")
		return
	}

	// daily_calorie_target is derived server-side; anything the caller
	// sends for it is ignored.
	saved, err := s.profiles.Save(r.Context(), &domain.Profile{
		CurrentWeight: req.CurrentWeight,
		Height:        req.Height,
		Age:           req.Age,
		Sex:           req.Sex,
		Goal:          req.Goal,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		s.logger.Error("save profile failed", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
