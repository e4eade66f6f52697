// handler.go — регистрация маршрутов API и общие помощники ответов.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/profilestore/internal/api/errors"
	"github.com/bigkaa/profilestore/internal/service"
)

// APIHandler собирает доменные handlers и регистрирует их маршруты.
type APIHandler struct {
	users   *UsersHandler
	details *DetailsHandler
	health  *HealthHandler
}

// NewAPIHandler создаёт единый handler для всех endpoints.
func NewAPIHandler(users *UsersHandler, details *DetailsHandler, health *HealthHandler) *APIHandler {
	return &APIHandler{
		users:   users,
		details: details,
		health:  health,
	}
}

// Routes регистрирует маршруты API и health probes.
func (h *APIHandler) Routes(r chi.Router) {
	r.Get("/health/live", h.health.HealthLive)
	r.Get("/health/ready", h.health.HealthReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/getusers", h.users.ListUsers)
		r.Post("/users", h.users.AddUser)
		r.Post("/login", h.users.Login)

		r.Post("/details", h.details.SubmitDetails)
		r.Put("/updatedetails/{rfid}", h.details.UpdateDetails)
		r.Get("/details/{rfid}", h.details.GetDetails)
	})
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrMissingField), errors.Is(err, service.ErrInvalidField):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "User not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		apierrors.Unauthorized(w, "Invalid RFID or password")
	case errors.Is(err, service.ErrMissingAsset):
		apierrors.AssetUnavailable(w, "Error processing image files")
	default:
		logger.Error("Ошибка обработки запроса", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Internal Server Error")
	}
}
