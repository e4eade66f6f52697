package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// TestRequestLogger_LevelByStatus проверяет уровень записи по статус-коду.
func TestRequestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte("body"))
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/getusers", nil))

		out := buf.String()
		if !strings.Contains(out, "level="+tt.level) {
			t.Errorf("статус %d: ожидался уровень %s, лог: %s", tt.status, tt.level, out)
		}
		if !strings.Contains(out, "bytes=4") {
			t.Errorf("статус %d: ожидался размер ответа 4, лог: %s", tt.status, out)
		}
	}
}

// TestRequestLogger_RouteAndRFID проверяет, что в журнал попадают шаблон
// маршрута и RFID, а не конкретный путь.
func TestRequestLogger_RouteAndRFID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(), RequestLogger(logger))
	r.Get("/api/details/{rfid}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Post("/api/details", func(w http.ResponseWriter, _ *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/details/A1", nil))

	out := buf.String()
	for _, want := range []string{"route=/api/details/{rfid}", "rfid=A1", "status=404", "component=http"} {
		if !strings.Contains(out, want) {
			t.Errorf("ожидалось %s в записи: %s", want, out)
		}
	}

	buf.Reset()
	req := httptest.NewRequest(http.MethodPost, "/api/details", nil)
	req.Header.Set("rfid", "B2")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if !strings.Contains(buf.String(), "rfid=B2") {
		t.Errorf("ожидался RFID из заголовка: %s", buf.String())
	}
}

// TestCaptureResponse_Shared проверяет, что вложенные middleware
// используют один перехватчик ответа.
func TestCaptureResponse_Shared(t *testing.T) {
	outer := captureResponse(httptest.NewRecorder())
	if inner := captureResponse(outer); inner != outer {
		t.Error("повторная обёртка должна возвращать тот же перехватчик")
	}

	var seen http.ResponseWriter
	h := MetricsMiddleware()(RequestLogger(slog.New(slog.DiscardHandler))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			seen = w
			w.WriteHeader(http.StatusCreated)
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	sw, ok := seen.(*statusWriter)
	if !ok {
		t.Fatalf("handler получил %T, ожидался *statusWriter", seen)
	}
	if _, nested := sw.ResponseWriter.(*statusWriter); nested {
		t.Error("перехватчик обёрнут дважды")
	}
	if sw.status != http.StatusCreated {
		t.Errorf("status = %d, ожидался 201", sw.status)
	}
}

// TestRoutePattern проверяет, что в метрики попадает шаблон маршрута.
func TestRoutePattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/api/details/{rfid}", func(_ http.ResponseWriter, req *http.Request) {
		got = routePattern(req)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/details/A1", nil))

	if got != "/api/details/{rfid}" {
		t.Errorf("ожидался шаблон /api/details/{rfid}, получен %q", got)
	}
	if p := routePattern(httptest.NewRequest(http.MethodGet, "/x", nil)); p != "other" {
		t.Errorf("без маршрута ожидался other, получен %q", p)
	}
}
