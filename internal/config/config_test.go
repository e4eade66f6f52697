package config

import (
	"log/slog"
	"testing"
	"time"
)

// allKeys — все переменные окружения сервиса.
var allKeys = []string{
	"PS_PORT", "PS_DATA_DIR", "PS_PUBLIC_DIR", "PS_IMAGES_DIR",
	"PS_STORE_BACKEND", "PS_MAX_UPLOAD_SIZE",
	"PS_IMAGE_CACHE_SIZE", "PS_IMAGE_CACHE_TTL",
	"PS_LOG_LEVEL", "PS_LOG_FORMAT",
	"PS_HTTP_READ_TIMEOUT", "PS_HTTP_WRITE_TIMEOUT", "PS_HTTP_IDLE_TIMEOUT",
	"PS_SHUTDOWN_TIMEOUT",
}

// clearEnv очищает переменные PS_* на время теста.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

// TestLoad_Defaults проверяет значения по умолчанию.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("ошибка загрузки: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port: ожидалось 3000, получено %d", cfg.Port)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir: ожидалось ./data, получено %q", cfg.DataDir)
	}
	if cfg.PublicDir != "./public" {
		t.Errorf("PublicDir: ожидалось ./public, получено %q", cfg.PublicDir)
	}
	if cfg.ImagesDir != "images" {
		t.Errorf("ImagesDir: ожидалось images, получено %q", cfg.ImagesDir)
	}
	if cfg.StoreBackend != "json" {
		t.Errorf("StoreBackend: ожидалось json, получено %q", cfg.StoreBackend)
	}
	if cfg.MaxUploadSize != 32<<20 {
		t.Errorf("MaxUploadSize: ожидалось %d, получено %d", 32<<20, cfg.MaxUploadSize)
	}
	if cfg.ImageCacheSize != 256 {
		t.Errorf("ImageCacheSize: ожидалось 256, получено %d", cfg.ImageCacheSize)
	}
	if cfg.ImageCacheTTL != 5*time.Minute {
		t.Errorf("ImageCacheTTL: ожидалось 5m, получено %v", cfg.ImageCacheTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: ожидалось info, получено %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: ожидалось json, получено %q", cfg.LogFormat)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout: ожидалось 10s, получено %v", cfg.ShutdownTimeout)
	}
}

// TestLoad_Overrides проверяет чтение заданных значений.
func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PS_PORT", "8080")
	t.Setenv("PS_STORE_BACKEND", "sqlite")
	t.Setenv("PS_IMAGE_CACHE_SIZE", "0")
	t.Setenv("PS_LOG_LEVEL", "DEBUG")
	t.Setenv("PS_LOG_FORMAT", "text")
	t.Setenv("PS_HTTP_READ_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("ошибка загрузки: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port: ожидалось 8080, получено %d", cfg.Port)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("StoreBackend: ожидалось sqlite, получено %q", cfg.StoreBackend)
	}
	if cfg.ImageCacheSize != 0 {
		t.Errorf("ImageCacheSize: ожидалось 0, получено %d", cfg.ImageCacheSize)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: ожидалось debug, получено %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: ожидалось text, получено %q", cfg.LogFormat)
	}
	if cfg.HTTPReadTimeout != 5*time.Second {
		t.Errorf("HTTPReadTimeout: ожидалось 5s, получено %v", cfg.HTTPReadTimeout)
	}
}

// TestLoad_Invalid проверяет отказ при некорректных значениях.
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"нечисловой порт", "PS_PORT", "abc"},
		{"порт вне диапазона", "PS_PORT", "70000"},
		{"неизвестный носитель", "PS_STORE_BACKEND", "mongo"},
		{"нулевой лимит загрузки", "PS_MAX_UPLOAD_SIZE", "0"},
		{"отрицательный размер кэша", "PS_IMAGE_CACHE_SIZE", "-1"},
		{"некорректный TTL", "PS_IMAGE_CACHE_TTL", "5 minutes"},
		{"неизвестный уровень", "PS_LOG_LEVEL", "verbose"},
		{"неизвестный формат", "PS_LOG_FORMAT", "xml"},
		{"некорректный таймаут", "PS_SHUTDOWN_TIMEOUT", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("ожидалась ошибка для %s=%q", tt.key, tt.val)
			}
		})
	}
}
