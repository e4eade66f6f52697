// health.go — обработчики health endpoints для Kubernetes probes.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bigkaa/profilestore/internal/config"
)

// statusFail — строковая константа для статуса "fail" в health checks.
const statusFail = "fail"

// StorageChecker проверяет, что коллекции записей читаются.
type StorageChecker interface {
	CheckStorage(ctx context.Context) error
}

// HealthHandler реализует health endpoints: /health/live, /health/ready.
type HealthHandler struct {
	version string
	// storage — проверка коллекций записей
	storage StorageChecker
	// imagesDir — директория изображений (проверка записи)
	imagesDir string
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(storage StorageChecker, imagesDir string) *HealthHandler {
	return &HealthHandler{
		version:   config.Version,
		storage:   storage,
		imagesDir: imagesDir,
	}
}

// HealthLive обрабатывает GET /health/live.
// Возвращает 200, если процесс жив. Не проверяет зависимости.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"service":   "profilestore",
	})
}

// HealthReady обрабатывает GET /health/ready.
// Проверяет: чтение коллекций записей, запись в директорию изображений.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	overallStatus := "ok"
	httpStatus := http.StatusOK

	storeCheck := h.checkStorage(r.Context())
	fsCheck := h.checkImagesDir()
	if storeCheck["status"] != "ok" || fsCheck["status"] != "ok" {
		overallStatus = statusFail
		httpStatus = http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"service":   "profilestore",
		"checks": map[string]any{
			"records": storeCheck,
			"images":  fsCheck,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *HealthHandler) checkStorage(ctx context.Context) map[string]any {
	if err := h.storage.CheckStorage(ctx); err != nil {
		return map[string]any{
			"status":  statusFail,
			"message": "Коллекции записей недоступны: " + err.Error(),
		}
	}
	return map[string]any{"status": "ok"}
}

// checkImagesDir проверяет доступность директории изображений на запись.
func (h *HealthHandler) checkImagesDir() map[string]any {
	testFile := filepath.Join(h.imagesDir, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return map[string]any{
			"status":  statusFail,
			"message": "Директория изображений недоступна для записи: " + err.Error(),
		}
	}
	_ = os.Remove(testFile)

	return map[string]any{"status": "ok"}
}
