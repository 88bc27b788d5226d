package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/session"
	"github.com/GoArmGo/ExerciseTracker/internal/usecase"
)

// TrackerHandler — обработчик HTTP-запросов трекера упражнений.
type TrackerHandler struct {
	tracker usecase.ExerciseTracker
	session *session.Session
	logger  *slog.Logger
}

// NewTrackerHandler создаёт новый экземпляр TrackerHandler.
// sess равен nil для варианта в памяти.
func NewTrackerHandler(tracker usecase.ExerciseTracker, sess *session.Session, logger *slog.Logger) *TrackerHandler {
	return &TrackerHandler{
		tracker: tracker,
		session: sess,
		logger:  logger,
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// statusFor переводит категорию ошибки в HTTP-статус
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithDomainError — пользователю уходит только сообщение категории,
// детали инфраструктуры остаются в логе.
func (h *TrackerHandler) respondWithDomainError(w http.ResponseWriter, endpoint string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed", "endpoint", endpoint, "error", err)
	} else {
		h.logger.Warn("request rejected", "endpoint", endpoint, "status", code, "error", err)
	}
	respondWithError(w, code, domain.MessageOf(err), h.logger)
}

// CreateUser — POST /api/users
func (h *TrackerHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		h.logger.Warn("malformed request body", "endpoint", "CreateUser", "error", err)
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	user, err := h.tracker.CreateUser(r.Context(), usecase.CreateUserRequest{Username: fields.get("username")})
	if err != nil {
		h.respondWithDomainError(w, "CreateUser", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user, h.logger)
}

// ListUsers — GET /api/users
func (h *TrackerHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.tracker.ListUsers(r.Context())
	if err != nil {
		h.respondWithDomainError(w, "ListUsers", err)
		return
	}

	h.logger.Info("users listed", "count", len(users))
	respondWithJSON(w, http.StatusOK, users, h.logger)
}

// AddExercise — POST /api/users/{id}/exercises
func (h *TrackerHandler) AddExercise(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		h.logger.Warn("malformed request body", "endpoint", "AddExercise", "error", err)
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	entry, err := h.tracker.AddExercise(r.Context(), usecase.AddExerciseRequest{
		UserID:      chi.URLParam(r, "id"),
		Description: fields.get("description"),
		Duration:    fields.get("duration"),
		Date:        fields.get("date"),
	})
	if err != nil {
		h.respondWithDomainError(w, "AddExercise", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, entry, h.logger)
}

// GetLog — GET /api/users/{id}/logs?from&to&limit
func (h *TrackerHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := chi.URLParam(r, "id")

	log, err := h.tracker.GetLog(r.Context(), usecase.LogRequest{
		UserID: userID,
		From:   q.Get("from"),
		To:     q.Get("to"),
		Limit:  q.Get("limit"),
	})
	if err != nil {
		h.respondWithDomainError(w, "GetLog", err)
		return
	}

	h.logger.Info("exercise log fetched", "user_id", userID, "count", log.Count)
	respondWithJSON(w, http.StatusOK, log, h.logger)
}

// Session — GET /api/session
func (h *TrackerHandler) Session(w http.ResponseWriter, r *http.Request) {
	if h.session == nil {
		respondWithError(w, http.StatusNotFound, "no session in this mode", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, h.session, h.logger)
}

// Health — GET /healthz
func (h *TrackerHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}
