package web

import (
	"io"
	"log/slog"
	"net/http"

	"biosync/internal/llm"
)

const maxImageSize = 20 * 1024 * 1024 // 20 MB

// allowedImageTypes is the set of MIME types accepted for uploaded
// images. net/http.DetectContentType handles JPEG, PNG, and GIF via
// magic-byte sniffing. WebP is detected separately because the WHATWG
// sniff spec (and therefore the stdlib) does not include a WebP
// signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with
// "WEBP" at offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// readImageForm extracts and validates the uploaded image from a
// multipart form, returning a transient payload for the pipeline.
func (s *Server) readImageForm(w http.ResponseWriter, r *http.Request) *llm.ImagePayload {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file required")
		return nil
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		s.logger.Error("read upload failed", "error", err)
		return nil
	}
	mimeType, ok := allowedImageMIME(data)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported image format")
		return nil
	}
	return &llm.ImagePayload{Data: data, MIME: mimeType}
}

func (s *Server) handleSnapMeal(w http.ResponseWriter, r *http.Request) {
	img := s.readImageForm(w, r)
	if img == nil {
		return
	}
	userGoal := r.FormValue("user_goal")

	scan, err := s.assistant.ScanFood(r.Context(), img, userGoal)
	if err != nil {
		s.respondPipelineError(w, "snap-meal", err)
		return
	}

	if _, err := s.foods.RecordScan(r.Context(), scan); err != nil {
		// The scan itself succeeded; persistence trouble should not
		// cost the caller their result.
		s.logger.Error("failed to record scan", "food_name", scan.FoodName, "error", err)
	}

	writeJSON(w, http.StatusOK, scan)
}

func (s *Server) handleAnalyzeRoster(w http.ResponseWriter, r *http.Request) {
	img := s.readImageForm(w, r)
	if img == nil {
		return
	}

	schedule, err := s.assistant.AnalyzeRoster(r.Context(), img)
	if err != nil {
		s.respondPipelineError(w, "analyze-roster", err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
