// Точка входа casedesk — сервис учёта сделок по переоформлению недвижимости.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт сервисный слой и API handlers, запускает topologymetrics
// и HTTP-сервер с JWT middleware и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/casedesk/internal/api/handlers"
	"github.com/bigkaa/casedesk/internal/api/middleware"
	"github.com/bigkaa/casedesk/internal/config"
	"github.com/bigkaa/casedesk/internal/database"
	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/repository"
	"github.com/bigkaa/casedesk/internal/server"
	"github.com/bigkaa/casedesk/internal/service"
)

// jwksProbeTimeout — таймаут readiness-проверки JWKS endpoint.
const jwksProbeTimeout = 5 * time.Second

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("casedesk запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("CD_DEPHEALTH_GROUP") == "" {
		logger.Warn("CD_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Repositories
	caseRepo := repository.NewCaseRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	// 6. Services
	clock := datefmt.SystemClock()
	caseCache := service.NewCaseCache(cfg.CacheSize, cfg.CacheTTL)
	caseSvc := service.NewCaseService(caseRepo, caseCache, clock, logger)
	messageSvc := service.NewMessageService(messageRepo, caseSvc, logger)

	// 7. Readiness checkers (PostgreSQL + JWKS)
	pgChecker := database.NewReadinessChecker(pool)
	jwksChecker := middleware.NewJWKSReadinessChecker(cfg.JWTJWKSURL, jwksProbeTimeout)
	healthHandler := handlers.NewHealthHandler(pgChecker, jwksChecker)

	// 8. API handler
	apiHandler := handlers.NewAPIHandler(healthHandler, caseSvc, messageSvc, logger)

	// 9. JWT middleware
	jwtAuth, err := middleware.NewJWTAuth(
		cfg.JWTJWKSURL,
		cfg.JWTIssuer,
		cfg.JWKSRefreshInterval,
		cfg.JWTLeeway,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("JWT middleware инициализирован",
		slog.String("jwks_url", cfg.JWTJWKSURL),
		slog.String("issuer", cfg.JWTIssuer),
	)

	// 10. topologymetrics — мониторинг зависимостей
	jwksTarget := ""
	if cfg.DephealthCheckJWKS {
		jwksTarget = cfg.JWTJWKSURL
	}
	dephealthSvc, dephealthErr := service.NewDephealthService(service.DephealthConfig{
		ServiceID:     "casedesk",
		Group:         cfg.DephealthGroup,
		DB:            pgDB,
		PGConnURL:     cfg.DatabaseURL(),
		JWKSURL:       jwksTarget,
		CheckInterval: cfg.DephealthCheckInterval,
	}, logger)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
		defer dephealthSvc.Stop()
	}

	// 11. HTTP-сервер
	srv := server.New(cfg, logger, apiHandler, jwtAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("casedesk остановлен")
}
