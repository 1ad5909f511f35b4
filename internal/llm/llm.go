package llm

import (
	"context"
	"time"
)

// Task identifies what kind of answer the pipeline is asked to produce.
// Structured tasks carry a JSON schema in their prompt; qna returns the
// model text verbatim.
type Task string

const (
	TaskFoodScan   Task = "food-scan"
	TaskRosterScan Task = "roster-scan"
	TaskQnA        Task = "qna"
	TaskMealPlan   Task = "meal-plan"
	TaskWorkout    Task = "workout"
)

// Request is one normalized call going out to a provider adapter.
type Request struct {
	Task   Task
	System string
	Prompt string
	Image  *ImagePayload
}

// Adapter is a uniform calling convention over heterogeneous remote
// chat/vision APIs. Adapters never retry internally; all retry and
// ordering policy lives in Chain.
type Adapter interface {
	// Name identifies the provider and model, e.g. "gemini:gemini-1.5-flash".
	// It is recorded as provenance on accepted results.
	Name() string
	// Configured reports whether the adapter's credential is present.
	// Unconfigured adapters are skipped, never attempted.
	Configured() bool
	SupportsVision() bool
	Invoke(ctx context.Context, req Request) (string, error)
}

// Attempt records the outcome of one failed adapter invocation.
type Attempt struct {
	Provider string
	Kind     FailKind
	Reason   string
	Elapsed  time.Duration
}

// Result is the raw text accepted from the first successful provider,
// with the failures that preceded it.
type Result struct {
	Text     string
	Source   string
	Elapsed  time.Duration
	Attempts []Attempt
}
