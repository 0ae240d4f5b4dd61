// Точка входа casedeskctl — клиент сервиса casedesk.
// Загружает конфигурацию клиента, открывает зашифрованный файл сессии
// и выполняет команду.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bigkaa/casedesk/internal/cli"
	"github.com/bigkaa/casedesk/internal/config"
	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/session"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}
	logger := config.SetupClientLogger(cfg)

	store, err := session.Open(cfg.SessionFile, cfg.SessionKey)
	if err != nil {
		logger.Error("Ошибка открытия сессии",
			slog.String("path", cfg.SessionFile),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	if store.Discarded() {
		logger.Warn("Файл сессии не удалось прочитать, требуется повторный вход",
			slog.String("path", store.Path()),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, store, datefmt.SystemClock(), logger)
	if err := cli.RootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		stop()
		os.Exit(1)
	}
}
