// logging.go — журнал HTTP-запросов сервиса профилей.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// RequestLogger пишет по записи на запрос: шаблон маршрута, RFID
// (из URL или заголовка rfid), статус, длительность, размер ответа.
// 5xx — ERROR, 4xx — WARN, остальное — INFO.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "http"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := captureResponse(w)

			next.ServeHTTP(sw, r)

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status >= 400:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", sw.bytes),
			}
			if rfid := requestRFID(r); rfid != "" {
				attrs = append(attrs, slog.String("rfid", rfid))
			}
			logger.LogAttrs(r.Context(), level, "HTTP запрос", attrs...)
		})
	}
}

// requestRFID — RFID из параметра маршрута или заголовка rfid.
func requestRFID(r *http.Request) string {
	if rfid := chi.URLParam(r, "rfid"); rfid != "" {
		return rfid
	}
	return r.Header.Get("rfid")
}
