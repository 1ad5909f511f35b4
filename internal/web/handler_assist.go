package web

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"biosync/internal/service"
)

func (s *Server) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MealDescription string `json:"meal_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.MealDescription) == "" {
		writeError(w, http.StatusBadRequest, "meal_description required")
		return
	}

	scan, err := s.assistant.LogMeal(r.Context(), req.MealDescription)
	if err != nil {
		s.respondPipelineError(w, "log-meal", err)
		return
	}

	if _, err := s.foods.RecordScan(r.Context(), scan); err != nil {
		s.logger.Error("failed to record scan", "food_name", scan.FoodName, "error", err)
	}

	writeJSON(w, http.StatusOK, scan)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question required")
		return
	}

	answer, err := s.assistant.Ask(r.Context(), req.Question)
	if err != nil {
		s.respondPipelineError(w, "ask-ai", err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleMealPlan(w http.ResponseWriter, r *http.Request) {
	var req service.MealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	plan, err := s.assistant.GenerateMealPlan(r.Context(), req)
	if err != nil {
		s.respondPipelineError(w, "generate-meal-plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Context string `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	workout, err := s.assistant.GenerateWorkout(r.Context(), req.Context)
	if err != nil {
		s.respondPipelineError(w, "generate-workout", err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

// handleComparePrices is a placeholder price comparison: jittered
// prices around a fixed base with search links, matching the behavior
// the mobile client already expects.
func (s *Server) handleComparePrices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemName string `json:"item_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	const base = 100
	blinkit := base + rand.Intn(26) - 15
	zepto := base + rand.Intn(26) - 15
	query := url.QueryEscape(req.ItemName)

	writeJSON(w, http.StatusOK, map[string]any{
		"item": req.ItemName,
		"results": []map[string]any{
			{
				"store":       "Blinkit",
				"price":       blinkit,
				"currency":    "₹",
				"link":        "https://blinkit.com/s/?q=" + query,
				"is_cheapest": blinkit < zepto,
			},
			{
				"store":       "Zepto",
				"price":       zepto,
				"currency":    "₹",
				"link":        "https://www.google.com/search?q=" + query + "+zepto",
				"is_cheapest": zepto < blinkit,
			},
		},
	})
}
