package service

import (
	"context"
	"fmt"
	"log/slog"

	"biosync/internal/domain"
	"biosync/internal/llm"
	"biosync/internal/normalize"
)

// responder is the subset of llm.Chain that AssistantService requires.
type responder interface {
	Run(ctx context.Context, req llm.Request) (*llm.Result, error)
}

// AssistantService drives the prompt → failover → normalize pipeline
// for every assistant-facing operation. Image tasks go through the
// vision chain, text tasks through the text chain; the two are ordered
// independently in configuration.
type AssistantService struct {
	vision responder
	text   responder
	logger *slog.Logger
}

func NewAssistantService(vision, text responder, logger *slog.Logger) *AssistantService {
	return &AssistantService{vision: vision, text: text, logger: logger}
}

// ScanFood analyzes a food photo and returns the normalized scan.
func (s *AssistantService) ScanFood(ctx context.Context, img *llm.ImagePayload, userGoal string) (*domain.ScanResult, error) {
	system, user := llm.BuildPrompt(llm.TaskFoodScan, llm.PromptContext{UserGoal: userGoal})
	res, err := s.vision.Run(ctx, llm.Request{
		Task:   llm.TaskFoodScan,
		System: system,
		Prompt: user,
		Image:  img,
	})
	if err != nil {
		return nil, fmt.Errorf("food scan failed: %w", err)
	}
	return normalize.FoodScan(res.Text, res.Source)
}

// LogMeal analyzes a free-text meal description with the food-scan
// schema so logged meals and scanned meals share one shape.
func (s *AssistantService) LogMeal(ctx context.Context, description string) (*domain.ScanResult, error) {
	system, user := llm.BuildPrompt(llm.TaskFoodScan, llm.PromptContext{MealDescription: description})
	res, err := s.text.Run(ctx, llm.Request{
		Task:   llm.TaskFoodScan,
		System: system,
		Prompt: user,
	})
	if err != nil {
		return nil, fmt.Errorf("meal log failed: %w", err)
	}
	return normalize.FoodScan(res.Text, res.Source)
}

// AnalyzeRoster extracts a weekly schedule from a timetable photo.
func (s *AssistantService) AnalyzeRoster(ctx context.Context, img *llm.ImagePayload) (*domain.WeeklySchedule, error) {
	system, user := llm.BuildPrompt(llm.TaskRosterScan, llm.PromptContext{})
	res, err := s.vision.Run(ctx, llm.Request{
		Task:   llm.TaskRosterScan,
		System: system,
		Prompt: user,
		Image:  img,
	})
	if err != nil {
		return nil, fmt.Errorf("roster analysis failed: %w", err)
	}
	return normalize.Roster(res.Text, res.Source)
}

// Ask answers a free-text question. The model text is returned
// verbatim; qna has no schema to normalize against.
func (s *AssistantService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	system, user := llm.BuildPrompt(llm.TaskQnA, llm.PromptContext{Question: question})
	res, err := s.text.Run(ctx, llm.Request{
		Task:   llm.TaskQnA,
		System: system,
		Prompt: user,
	})
	if err != nil {
		return nil, fmt.Errorf("question failed: %w", err)
	}
	return &domain.Answer{Answer: res.Text, AISource: res.Source}, nil
}

// MealPlanRequest carries the caller context for plan generation.
type MealPlanRequest struct {
	UserGoal             string   `json:"user_goal"`
	DailyCalories        int      `json:"daily_calories"`
	DietaryPreference    string   `json:"dietary_preference"`
	AvailableIngredients []string `json:"available_ingredients"`
	ActivityContext      string   `json:"activity_context"`
}

// GenerateMealPlan produces a 1-day meal plan for the given context.
func (s *AssistantService) GenerateMealPlan(ctx context.Context, req MealPlanRequest) (*domain.MealPlan, error) {
	system, user := llm.BuildPrompt(llm.TaskMealPlan, llm.PromptContext{
		UserGoal:          req.UserGoal,
		DailyCalories:     req.DailyCalories,
		DietaryPreference: req.DietaryPreference,
		Ingredients:       req.AvailableIngredients,
		ActivityContext:   req.ActivityContext,
	})
	res, err := s.text.Run(ctx, llm.Request{
		Task:   llm.TaskMealPlan,
		System: system,
		Prompt: user,
	})
	if err != nil {
		return nil, fmt.Errorf("meal plan generation failed: %w", err)
	}
	return normalize.MealPlan(res.Text, res.Source)
}

// GenerateWorkout produces a workout for the given context.
func (s *AssistantService) GenerateWorkout(ctx context.Context, workoutContext string) (*domain.Workout, error) {
	system, user := llm.BuildPrompt(llm.TaskWorkout, llm.PromptContext{ActivityContext: workoutContext})
	res, err := s.text.Run(ctx, llm.Request{
		Task:   llm.TaskWorkout,
		System: system,
		Prompt: user,
	})
	if err != nil {
		return nil, fmt.Errorf("workout generation failed: %w", err)
	}
	return normalize.Workout(res.Text, res.Source)
}
