// details.go — HTTP handlers ревизий деталей: добавление, частичное
// обновление (с заменой изображения) и выдача с изображениями.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/profilestore/internal/api/errors"
	"github.com/bigkaa/profilestore/internal/domain/model"
	"github.com/bigkaa/profilestore/internal/service"
)

// imageField — имя multipart-поля с изображением.
const imageField = "image"

// DetailsHandler — обработчик endpoints ревизий деталей.
type DetailsHandler struct {
	svc           *service.ProfileService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewDetailsHandler создаёт обработчик endpoints ревизий деталей.
func NewDetailsHandler(svc *service.ProfileService, maxUploadSize int64, logger *slog.Logger) *DetailsHandler {
	return &DetailsHandler{
		svc:           svc,
		maxUploadSize: maxUploadSize,
		logger:        logger.With(slog.String("component", "details_handler")),
	}
}

// SubmitDetails обрабатывает POST /api/details.
// RFID передаётся в заголовке rfid, поля и изображение — в multipart форме.
func (h *DetailsHandler) SubmitDetails(w http.ResponseWriter, r *http.Request) {
	rfid := r.Header.Get("rfid")
	if rfid == "" {
		apierrors.ValidationError(w, "RFID not provided")
		return
	}

	fields, ok := readFields(w, r, h.maxUploadSize)
	if !ok {
		return
	}

	upload, ok := h.receiveImage(w, r)
	if !ok {
		return
	}

	_, err := h.svc.SubmitDetails(r.Context(), service.SubmitRequest{
		RFID:       rfid,
		Level:      fields.value("level"),
		Experience: fields.value("experience"),
		Bio:        fields.text("bio"),
	}, upload)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Details and image saved successfully",
	})
}

// UpdateDetails обрабатывает PUT /api/updatedetails/{rfid}.
// Пустые поля не изменяют ревизию; publicView принимает "true"/"false".
func (h *DetailsHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	rfid := chi.URLParam(r, "rfid")
	if rfid == "" {
		apierrors.ValidationError(w, "RFID not provided")
		return
	}

	fields, ok := readFields(w, r, h.maxUploadSize)
	if !ok {
		return
	}

	completion := fields.optionalText("completiondate")
	if !completion.IsSet() {
		completion = fields.optionalText("completionDate")
	}

	upd := model.DetailUpdate{
		Level:          fields.optionalValue("level"),
		Experience:     fields.optionalValue("experience"),
		Bio:            fields.optionalText("bio"),
		CompletionDate: completion,
		Public:         fields.optionalBool("publicView"),
	}

	upload, ok := h.receiveImage(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.UpdateDetails(r.Context(), rfid, upd, upload); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Details updated successfully",
	})
}

// GetDetails обрабатывает GET /api/details/{rfid}.
// Отсутствие ревизий — 200 с success=false.
func (h *DetailsHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	rfid := chi.URLParam(r, "rfid")

	views, err := h.svc.GetDetails(r.Context(), rfid)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if len(views) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "No user details found for the provided RFID",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"details": views,
	})
}

// receiveImage сохраняет изображение из multipart-поля image под
// временным именем. Отсутствие файла — не ошибка (nil, true).
func (h *DetailsHandler) receiveImage(w http.ResponseWriter, r *http.Request) (*service.Upload, bool) {
	if r.MultipartForm == nil {
		return nil, true
	}
	files := r.MultipartForm.File[imageField]
	if len(files) == 0 {
		return nil, true
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		apierrors.ValidationError(w, "Не удалось прочитать поле 'image'")
		return nil, false
	}
	defer file.Close()

	upload, err := h.svc.ReceiveUpload(file, header.Filename)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return nil, false
	}
	return upload, true
}
