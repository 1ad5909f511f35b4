package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biosync/internal/domain"
)

type fakeFoodRepo struct {
	items []*domain.FoodItem
}

func (r *fakeFoodRepo) Create(_ context.Context, name string, calories int, protein, carbs, fat float64, aiSource string) (*domain.FoodItem, error) {
	item := &domain.FoodItem{
		ID:       int64(len(r.items) + 1),
		Name:     name,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
		AISource: aiSource,
	}
	r.items = append(r.items, item)
	return item, nil
}

func (r *fakeFoodRepo) List(_ context.Context) ([]*domain.FoodItem, error) {
	return r.items, nil
}

func TestRecordScan(t *testing.T) {
	repo := &fakeFoodRepo{}
	svc := NewFoodService(repo, discardLogger())

	item, err := svc.RecordScan(context.Background(), &domain.ScanResult{
		FoodName:          "Apple",
		EstimatedCalories: 95,
		Protein:           0.5,
		Carbs:             25,
		Fat:               0.3,
		AISource:          "gemini:gemini-1.5-flash",
	})
	require.NoError(t, err)

	assert.Equal(t, "Apple", item.Name)
	assert.Equal(t, "gemini:gemini-1.5-flash", item.AISource)
	require.Len(t, repo.items, 1)
}

func TestCreateManualEntryHasNoSource(t *testing.T) {
	repo := &fakeFoodRepo{}
	svc := NewFoodService(repo, discardLogger())

	item, err := svc.Create(context.Background(), "Banana", 105, 1.3, 27, 0.4)
	require.NoError(t, err)
	assert.Empty(t, item.AISource)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
