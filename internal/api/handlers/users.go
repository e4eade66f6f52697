// users.go — HTTP handlers учётных записей: список, регистрация, вход.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/profilestore/internal/api/errors"
	"github.com/bigkaa/profilestore/internal/domain/model"
	"github.com/bigkaa/profilestore/internal/service"
)

// UsersHandler — обработчик endpoints учётных записей.
type UsersHandler struct {
	svc           *service.ProfileService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewUsersHandler создаёт обработчик endpoints учётных записей.
func NewUsersHandler(svc *service.ProfileService, maxUploadSize int64, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		svc:           svc,
		maxUploadSize: maxUploadSize,
		logger:        logger.With(slog.String("component", "users_handler")),
	}
}

// ListUsers обрабатывает GET /api/getusers.
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if users == nil {
		users = []model.Composite{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
	})
}

// AddUser обрабатывает POST /api/users. Тело — JSON или urlencoded форма.
func (h *UsersHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	fields, ok := readFields(w, r, h.maxUploadSize)
	if !ok {
		return
	}

	lat, err := fields.number("latitude")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	lon, err := fields.number("longitude")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	id := model.Identity{
		RFID:      fields.text("rfid"),
		Name:      fields.text("name"),
		Password:  fields.text("password"),
		Latitude:  lat,
		Longitude: lon,
	}

	if err := h.svc.AddIdentity(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User added successfully",
	})
}

// Login обрабатывает POST /api/login.
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields, ok := readFields(w, r, h.maxUploadSize)
	if !ok {
		return
	}

	id, err := h.svc.Login(r.Context(), fields.text("rfid"), fields.text("password"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Harihar " + id.Name,
		"user_name": id.Name,
		"rfid":      id.RFID,
	})
}

