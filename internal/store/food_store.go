package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"biosync/internal/domain"
)

type FoodStore struct {
	db *sql.DB
}

func NewFoodStore(db *sql.DB) *FoodStore {
	return &FoodStore{db: db}
}

func (s *FoodStore) Create(ctx context.Context, name string, calories int, protein, carbs, fat float64, aiSource string) (*domain.FoodItem, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO food_items (name, calories, protein, carbs, fat, ai_source) VALUES (?, ?, ?, ?, ?, ?)
	`, name, calories, protein, carbs, fat, aiSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create food item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *FoodStore) GetByID(ctx context.Context, id int64) (*domain.FoodItem, error) {
	item := &domain.FoodItem{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, calories, protein, carbs, fat, ai_source, created_at FROM food_items WHERE id = ?
	`, id).Scan(&item.ID, &item.Name, &item.Calories, &item.Protein, &item.Carbs, &item.Fat, &item.AISource, &item.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get food item: %w", err)
	}

	return item, nil
}

func (s *FoodStore) List(ctx context.Context) ([]*domain.FoodItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, calories, protein, carbs, fat, ai_source, created_at FROM food_items
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []*domain.FoodItem
	for rows.Next() {
		item := &domain.FoodItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Calories, &item.Protein, &item.Carbs, &item.Fat, &item.AISource, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan food item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating food items: %w", err)
	}

	return items, nil
}
