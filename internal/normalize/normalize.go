// Package normalize coerces freeform model output into the fixed JSON
// shapes the rest of the system relies on. Model output is inherently
// unreliable, so every schema applies typed defaults for missing or
// mismatched fields: partial best-effort recovery beats full rejection.
package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"biosync/internal/domain"
	"biosync/internal/llm"
)

// ParseError reports text that could not be reduced to a JSON object
// even after the extraction heuristics. The raw text is always carried
// for diagnostics, never dropped.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize: no parseable JSON object in model output: %v", e.Err)
	}
	return "normalize: no JSON object in model output"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extract reduces raw model text to a parsed JSON object. It strips
// whitespace and code fences, tries a direct parse, and falls back to
// the substring spanning the first '{' and the last '}'.
func Extract(raw string) (map[string]any, error) {
	text := stripFences(strings.TrimSpace(raw))

	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err == nil {
		return m, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, &ParseError{Raw: raw}
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &m); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return m, nil
}

// stripFences removes a leading ```lang line and a trailing ``` line
// when the whole text is fenced. Fences embedded in surrounding prose
// are handled by the brace-substring fallback instead.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := text
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// FoodScan normalizes raw text against the food-scan schema.
func FoodScan(raw, source string) (*domain.ScanResult, error) {
	m, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	return &domain.ScanResult{
		FoodName:          getString(m, "food_name", "Unknown"),
		EstimatedCalories: getInt(m, "estimated_calories", 0),
		Protein:           getFloat(m, "protein", 0),
		Carbs:             getFloat(m, "carbs", 0),
		Fat:               getFloat(m, "fat", 0),
		AISource:          source,
	}, nil
}

// Roster normalizes raw text against the roster-scan schema. A missing
// weekly_schedule wrapper is tolerated when the top-level keys look
// like day names; all seven days are always present and each day's
// events are sorted by their zero-padded HH:MM time.
func Roster(raw, source string) (*domain.WeeklySchedule, error) {
	m, err := Extract(raw)
	if err != nil {
		return nil, err
	}

	sched, ok := m["weekly_schedule"].(map[string]any)
	if !ok {
		if looksLikeSchedule(m) {
			sched = m
		} else {
			sched = map[string]any{}
		}
	}

	out := make(map[string][]domain.ScheduleEvent, len(domain.DaysOfWeek))
	for _, day := range domain.DaysOfWeek {
		out[day] = []domain.ScheduleEvent{}
	}
	for key, v := range sched {
		day, ok := canonicalDay(key)
		if !ok {
			continue
		}
		entries, ok := v.([]any)
		if !ok {
			continue
		}
		for _, entry := range entries {
			em, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			out[day] = append(out[day], domain.ScheduleEvent{
				Time:  getString(em, "time", ""),
				Event: getString(em, "event", ""),
			})
		}
	}
	for day := range out {
		events := out[day]
		sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	}

	return &domain.WeeklySchedule{WeeklySchedule: out, AISource: source}, nil
}

// MealPlan normalizes raw text against the meal-plan schema.
func MealPlan(raw, source string) (*domain.MealPlan, error) {
	m, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	plan := &domain.MealPlan{
		Analysis: getString(m, "analysis", ""),
		Meals:    []domain.Meal{},
		AISource: source,
	}
	for _, entry := range getList(m, "meals") {
		em, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		meal := domain.Meal{
			Type:      getString(em, "type", ""),
			Name:      getString(em, "name", ""),
			Calories:  getInt(em, "calories", 0),
			Nutrients: map[string]string{},
			Recipe:    []string{},
		}
		if nm, ok := em["nutrients"].(map[string]any); ok {
			for k, v := range nm {
				if s, ok := v.(string); ok {
					meal.Nutrients[k] = s
				}
			}
		}
		for _, step := range getList(em, "recipe") {
			if s, ok := step.(string); ok {
				meal.Recipe = append(meal.Recipe, s)
			}
		}
		plan.Meals = append(plan.Meals, meal)
	}
	return plan, nil
}

// Workout normalizes raw text against the workout schema.
func Workout(raw, source string) (*domain.Workout, error) {
	m, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	w := &domain.Workout{
		Advice:    getString(m, "advice", ""),
		Exercises: []domain.Exercise{},
		AISource:  source,
	}
	for _, entry := range getList(m, "exercises") {
		em, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		w.Exercises = append(w.Exercises, domain.Exercise{
			Name: getString(em, "name", ""),
			Sets: getString(em, "sets", ""),
			Reps: getString(em, "reps", ""),
		})
	}
	return w, nil
}

// RequiredKeys lists the top-level keys a task's schema guarantees in
// its normalized output. The prompt tests use this to keep the
// schema-in-prompt text and the normalizer in lockstep.
func RequiredKeys(task llm.Task) []string {
	switch task {
	case llm.TaskFoodScan:
		return []string{"food_name", "estimated_calories", "protein", "carbs", "fat"}
	case llm.TaskRosterScan:
		return []string{"weekly_schedule"}
	case llm.TaskMealPlan:
		return []string{"analysis", "meals"}
	case llm.TaskWorkout:
		return []string{"advice", "exercises"}
	case llm.TaskQnA:
		return []string{"answer"}
	default:
		return nil
	}
}
