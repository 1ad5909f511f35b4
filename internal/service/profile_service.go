package service

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"biosync/internal/domain"
)

// profileRepository is the subset of store.ProfileStore that
// ProfileService requires.
type profileRepository interface {
	Get(ctx context.Context) (*domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
}

// ProfileService owns the user profile and derives the daily calorie
// target with the Mifflin-St Jeor equation. The target is computed on
// every save and never accepted from the caller.
type ProfileService struct {
	profiles profileRepository
	logger   *slog.Logger
}

func NewProfileService(profiles profileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

func (s *ProfileService) Get(ctx context.Context) (*domain.Profile, error) {
	return s.profiles.Get(ctx)
}

func (s *ProfileService) Save(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	p.DailyCalorieTarget = CalorieTarget(p)
	saved, err := s.profiles.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("profile saved",
		"goal", saved.Goal,
		"activity_level", saved.ActivityLevel,
		"daily_calorie_target", saved.DailyCalorieTarget,
	)
	return saved, nil
}

// CalorieTarget computes BMR (Mifflin-St Jeor, weight kg, height cm),
// scales by activity level, and shifts by goal.
func CalorieTarget(p *domain.Profile) int {
	bmr := 10*p.CurrentWeight + 6.25*p.Height - 5*float64(p.Age)
	if strings.EqualFold(p.Sex, "female") {
		bmr -= 161
	} else {
		bmr += 5
	}

	tdee := bmr * activityFactor(p.ActivityLevel)

	switch strings.ToLower(p.Goal) {
	case "lose", "lose weight", "cut":
		tdee -= 500
	case "gain", "gain weight", "bulk", "build muscle":
		tdee += 300
	}
	if tdee < 0 {
		return 0
	}
	return int(math.Round(tdee))
}

func activityFactor(level string) float64 {
	switch strings.ToLower(level) {
	case "light", "lightly active":
		return 1.375
	case "moderate", "moderately active":
		return 1.55
	case "active", "very active":
		return 1.725
	case "athlete", "extra active":
		return 1.9
	default: // sedentary
		return 1.2
	}
}
