// main.go — точка входа сервиса профилей.
// Порядок: config → logger → хранилища → сервис → handlers → HTTP-сервер.
package main

import (
	"log"
	"log/slog"

	"github.com/bigkaa/profilestore/internal/api/handlers"
	"github.com/bigkaa/profilestore/internal/api/middleware"
	"github.com/bigkaa/profilestore/internal/config"
	"github.com/bigkaa/profilestore/internal/server"
	"github.com/bigkaa/profilestore/internal/service"
	"github.com/bigkaa/profilestore/internal/storage/assetstore"
	"github.com/bigkaa/profilestore/internal/storage/recordstore"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Сервис профилей запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("store_backend", cfg.StoreBackend),
		slog.String("data_dir", cfg.DataDir),
		slog.String("public_dir", cfg.PublicDir),
	)

	// 3. Коллекции записей
	stores, err := recordstore.Open(cfg.StoreBackend, cfg.DataDir, logger)
	if err != nil {
		logger.Error("Ошибка открытия хранилища записей", slog.String("error", err.Error()))
		log.Fatalf("Ошибка открытия хранилища записей: %v", err)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("Ошибка закрытия хранилища записей", slog.String("error", err.Error()))
		}
	}()

	// 4. Изображения и кэш закодированных изображений
	assets, err := assetstore.New(cfg.PublicDir, cfg.ImagesDir)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища изображений", slog.String("error", err.Error()))
		log.Fatalf("Ошибка инициализации хранилища изображений: %v", err)
	}
	images := service.NewImageCache(assets, cfg.ImageCacheSize, cfg.ImageCacheTTL)

	// 5. Сервис профилей
	profiles := service.NewProfileService(stores.Identities, stores.Details, assets, images, logger)

	// 6. HTTP handlers
	apiHandler := handlers.NewAPIHandler(
		handlers.NewUsersHandler(profiles, cfg.MaxUploadSize, logger),
		handlers.NewDetailsHandler(profiles, cfg.MaxUploadSize, logger),
		handlers.NewHealthHandler(profiles, assets.Dir()),
	)

	// 7. HTTP-сервер: metrics → logging
	srv := server.New(cfg, logger, apiHandler,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	)

	// 8. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		return
	}

	logger.Info("Сервис профилей остановлен")
}
