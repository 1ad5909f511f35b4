package service

import (
	"context"
	"log/slog"

	"biosync/internal/domain"
)

// foodRepository is the subset of store.FoodStore that FoodService requires.
type foodRepository interface {
	Create(ctx context.Context, name string, calories int, protein, carbs, fat float64, aiSource string) (*domain.FoodItem, error)
	List(ctx context.Context) ([]*domain.FoodItem, error)
}

// FoodService is the pipeline's result consumer for food scans: it
// persists accepted scan results and serves the food log.
type FoodService struct {
	foods  foodRepository
	logger *slog.Logger
}

func NewFoodService(foods foodRepository, logger *slog.Logger) *FoodService {
	return &FoodService{foods: foods, logger: logger}
}

// RecordScan persists a normalized scan result as a food log entry.
func (s *FoodService) RecordScan(ctx context.Context, scan *domain.ScanResult) (*domain.FoodItem, error) {
	item, err := s.foods.Create(ctx, scan.FoodName, scan.EstimatedCalories, scan.Protein, scan.Carbs, scan.Fat, scan.AISource)
	if err != nil {
		return nil, err
	}
	s.logger.Info("food scan recorded",
		"food_item_id", item.ID,
		"name", item.Name,
		"calories", item.Calories,
		"ai_source", item.AISource,
	)
	return item, nil
}

// Create persists a manually entered food item.
func (s *FoodService) Create(ctx context.Context, name string, calories int, protein, carbs, fat float64) (*domain.FoodItem, error) {
	return s.foods.Create(ctx, name, calories, protein, carbs, fat, "")
}

func (s *FoodService) List(ctx context.Context) ([]*domain.FoodItem, error) {
	return s.foods.List(ctx)
}
