package llm

import (
	"fmt"
	"strings"
)

// PromptContext carries the caller-supplied fields a task prompt can
// reference. Unused fields are ignored by tasks that do not need them.
type PromptContext struct {
	UserGoal          string
	DailyCalories     int
	DietaryPreference string
	Ingredients       []string
	ActivityContext   string
	Question          string
	MealDescription   string
}

// The schema literals below are embedded verbatim in structured-task
// prompts. Their keys must stay in lockstep with the normalizer's
// required-key lists; the prompt tests enforce that.

const foodScanShape = `{
  "food_name": "Unknown",
  "estimated_calories": 0,
  "protein": 0.0,
  "carbs": 0.0,
  "fat": 0.0
}`

const rosterShape = `{
  "weekly_schedule": {
    "Monday": [{"time": "09:00", "event": "Math"}],
    "Tuesday": []
  }
}`

const mealPlanShape = `{
  "analysis": "one short paragraph",
  "meals": [
    {
      "type": "Breakfast",
      "name": "Oats Bowl",
      "calories": 0,
      "nutrients": {"protein": "0g", "carbs": "0g", "fat": "0g"},
      "recipe": ["step 1", "step 2"]
    }
  ]
}`

const workoutShape = `{
  "advice": "one short paragraph",
  "exercises": [
    {"name": "Push Up", "sets": "3", "reps": "12"}
  ]
}`

const jsonOnlyDirective = "Respond with the JSON object ONLY. No markdown, no prose outside the JSON object."

// BuildPrompt assembles the system and user instruction text for one
// task. The template is deterministic: pure substitution, no control
// flow beyond picking the task.
func BuildPrompt(task Task, pc PromptContext) (system, user string) {
	switch task {
	case TaskFoodScan:
		subject := "the food visible in this image"
		if pc.MealDescription != "" {
			subject = fmt.Sprintf("this meal description: %q", pc.MealDescription)
		}
		goal := pc.UserGoal
		if goal == "" {
			goal = "Maintain"
		}
		system = "You are a nutritionist. " + jsonOnlyDirective
		user = fmt.Sprintf(
			"Analyze %s for the user goal %q.\n"+
				"Identify the dish, estimate total calories and macros in grams.\n"+
				"Return JSON exactly in this shape:\n%s\n%s",
			subject, goal, foodScanShape, jsonOnlyDirective)
		return system, user

	case TaskRosterScan:
		system = "You extract timetables from images. " + jsonOnlyDirective
		user = fmt.Sprintf(
			"Extract the weekly schedule from this timetable image.\n"+
				"Use full English day names as keys and zero-padded 24-hour HH:MM times.\n"+
				"Return JSON exactly in this shape:\n%s\n%s",
			rosterShape, jsonOnlyDirective)
		return system, user

	case TaskMealPlan:
		ingredients := "anything commonly available"
		if len(pc.Ingredients) > 0 {
			ingredients = strings.Join(pc.Ingredients, ", ")
		}
		system = "You are a nutritionist. " + jsonOnlyDirective
		user = fmt.Sprintf(
			"Create a 1-day meal plan.\n"+
				"Goal: %s. Daily calories: %d. Preference: %s. Day context: %s.\n"+
				"Available ingredients: %s.\n"+
				"Return JSON exactly in this shape:\n%s\n%s",
			pc.UserGoal, pc.DailyCalories, pc.DietaryPreference, pc.ActivityContext,
			ingredients, mealPlanShape, jsonOnlyDirective)
		return system, user

	case TaskWorkout:
		system = "You are a personal trainer. " + jsonOnlyDirective
		user = fmt.Sprintf(
			"Design a workout for this context: %s.\n"+
				"Return JSON exactly in this shape:\n%s\n%s",
			pc.ActivityContext, workoutShape, jsonOnlyDirective)
		return system, user

	default: // TaskQnA: free text in, free text out, no schema.
		system = "You are a concise, practical nutrition and fitness assistant."
		return system, pc.Question
	}
}
