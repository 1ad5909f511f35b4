package domain

import "time"

// DaysOfWeek lists canonical schedule keys in calendar order. Every
// normalized weekly schedule contains all seven, even when empty.
var DaysOfWeek = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ScanResult is the normalized outcome of a food scan (image or text).
type ScanResult struct {
	FoodName          string  `json:"food_name"`
	EstimatedCalories int     `json:"estimated_calories"`
	Protein           float64 `json:"protein"`
	Carbs             float64 `json:"carbs"`
	Fat               float64 `json:"fat"`
	AISource          string  `json:"ai_source"`
}

type ScheduleEvent struct {
	Time  string `json:"time"`
	Event string `json:"event"`
}

// WeeklySchedule is the normalized outcome of a roster scan.
type WeeklySchedule struct {
	WeeklySchedule map[string][]ScheduleEvent `json:"weekly_schedule"`
	AISource       string                     `json:"ai_source"`
}

// Answer wraps a free-text reply verbatim.
type Answer struct {
	Answer   string `json:"answer"`
	AISource string `json:"ai_source"`
}

type Meal struct {
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	Calories  int               `json:"calories"`
	Nutrients map[string]string `json:"nutrients"`
	Recipe    []string          `json:"recipe"`
}

type MealPlan struct {
	Analysis string `json:"analysis"`
	Meals    []Meal `json:"meals"`
	AISource string `json:"ai_source"`
}

type Exercise struct {
	Name string `json:"name"`
	Sets string `json:"sets"`
	Reps string `json:"reps"`
}

type Workout struct {
	Advice    string     `json:"advice"`
	Exercises []Exercise `json:"exercises"`
	AISource  string     `json:"ai_source"`
}

// FoodItem is a persisted food log record.
type FoodItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	AISource  string    `json:"ai_source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the single user profile. DailyCalorieTarget is derived,
// never accepted from the caller.
type Profile struct {
	CurrentWeight      float64   `json:"current_weight"`
	Height             float64   `json:"height"`
	Age                int       `json:"age"`
	Sex                string    `json:"sex"`
	Goal               string    `json:"goal"`
	ActivityLevel      string    `json:"activity_level"`
	DailyCalorieTarget int       `json:"daily_calorie_target"`
	UpdatedAt          time.Time `json:"updated_at"`
}
