package store

import (
	"context"
	"database/sql"
	"fmt"

	"biosync/internal/domain"
)

// ProfileStore persists the single user profile as a fixed-id row.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) Get(ctx context.Context) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT current_weight, height, age, sex, goal, activity_level, daily_calorie_target, updated_at
		FROM profiles WHERE id = 1
	`).Scan(&p.CurrentWeight, &p.Height, &p.Age, &p.Sex, &p.Goal, &p.ActivityLevel, &p.DailyCalorieTarget, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

func (s *ProfileStore) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, current_weight, height, age, sex, goal, activity_level, daily_calorie_target, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			current_weight = excluded.current_weight,
			height = excluded.height,
			age = excluded.age,
			sex = excluded.sex,
			goal = excluded.goal,
			activity_level = excluded.activity_level,
			daily_calorie_target = excluded.daily_calorie_target,
			updated_at = excluded.updated_at
	`, p.CurrentWeight, p.Height, p.Age, p.Sex, p.Goal, p.ActivityLevel, p.DailyCalorieTarget)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return s.Get(ctx)
}
