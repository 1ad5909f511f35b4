package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"biosync/internal/domain"
	"biosync/internal/llm"
	"biosync/internal/normalize"
	"biosync/internal/service"
)

// assistant is the subset of service.AssistantService the server requires.
type assistant interface {
	ScanFood(ctx context.Context, img *llm.ImagePayload, userGoal string) (*domain.ScanResult, error)
	AnalyzeRoster(ctx context.Context, img *llm.ImagePayload) (*domain.WeeklySchedule, error)
	LogMeal(ctx context.Context, description string) (*domain.ScanResult, error)
	Ask(ctx context.Context, question string) (*domain.Answer, error)
	GenerateMealPlan(ctx context.Context, req service.MealPlanRequest) (*domain.MealPlan, error)
	GenerateWorkout(ctx context.Context, workoutContext string) (*domain.Workout, error)
}

// foodLog is the subset of service.FoodService the server requires.
type foodLog interface {
	RecordScan(ctx context.Context, scan *domain.ScanResult) (*domain.FoodItem, error)
	Create(ctx context.Context, name string, calories int, protein, carbs, fat float64) (*domain.FoodItem, error)
	List(ctx context.Context) ([]*domain.FoodItem, error)
}

// profiles is the subset of service.ProfileService the server requires.
type profiles interface {
	Get(ctx context.Context) (*domain.Profile, error)
	Save(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
}

type Server struct {
	assistant assistant
	foods     foodLog
	profiles  profiles
	mux       *http.ServeMux
	logger    *slog.Logger
}

func NewServer(assistant assistant, foods foodLog, profiles profiles, logger *slog.Logger) *Server {
	s := &Server{
		assistant: assistant,
		foods:     foods,
		profiles:  profiles,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /snap-meal", s.handleSnapMeal)
	s.mux.HandleFunc("POST /analyze-roster", s.handleAnalyzeRoster)
	s.mux.HandleFunc("POST /log-meal", s.handleLogMeal)
	s.mux.HandleFunc("POST /ask-ai", s.handleAsk)
	s.mux.HandleFunc("POST /generate-meal-plan", s.handleMealPlan)
	s.mux.HandleFunc("POST /generate-workout", s.handleWorkout)
	s.mux.HandleFunc("POST /compare-prices", s.handleComparePrices)
	s.mux.HandleFunc("GET /api/foods", s.handleListFoods)
	s.mux.HandleFunc("POST /api/foods", s.handleCreateFood)
	s.mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	s.mux.HandleFunc("PUT /api/profile", s.handleSaveProfile)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// corsHeaders mirrors the permissive CORS policy the mobile client
// depends on.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, corsHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondPipelineError maps pipeline failures onto caller-visible
// statuses: chain exhaustion means every provider is down (retry
// later); a parse failure means a provider answered but the reply
// could not be reduced to the expected JSON. The raw text behind a
// parse failure is logged, never discarded.
func (s *Server) respondPipelineError(w http.ResponseWriter, op string, err error) {
	var exhausted *llm.ExhaustedError
	if errors.As(err, &exhausted) {
		s.logger.Error("all providers failed", "op", op, "attempts", len(exhausted.Attempts), "error", exhausted)
		writeError(w, http.StatusServiceUnavailable, "ai providers unavailable, retry later")
		return
	}
	var parseErr *normalize.ParseError
	if errors.As(err, &parseErr) {
		s.logger.Error("unparseable model output", "op", op, "raw", parseErr.Raw, "error", err)
		writeError(w, http.StatusBadGateway, "ai response could not be parsed")
		return
	}
	s.logger.Error("pipeline failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
