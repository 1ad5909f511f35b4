package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"biosync/internal/domain"
)

func (s *Server) handleListFoods(w http.ResponseWriter, r *http.Request) {
	items, err := s.foods.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list foods")
		s.logger.Error("list foods failed", "error", err)
		return
	}
	if items == nil {
		items = []*domain.FoodItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateFood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Calories int     `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	item, err := s.foods.Create(r.Context(), req.Name, req.Calories, req.Protein, req.Carbs, req.Fat)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create food")
		s.logger.Error("create food failed", "name", req.Name, "error", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}
