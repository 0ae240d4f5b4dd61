// Пакет cli — команды клиента casedeskctl.
// Одна функция на группу команд, каждая команда получает общее состояние через App.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bigkaa/casedesk/internal/casestore"
	"github.com/bigkaa/casedesk/internal/config"
	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/session"
)

// App — общее состояние команд: сессия, клиент сервиса, часы.
type App struct {
	session *session.Store
	client  *casestore.Client
	clock   datefmt.Clock
	logger  *slog.Logger
}

// NewApp создаёт состояние клиента. Сессия передаётся явно и служит
// источником токена для каждого запроса.
func NewApp(cfg *config.ClientConfig, store *session.Store, clock datefmt.Clock, logger *slog.Logger) *App {
	return &App{
		session: store,
		client:  casestore.New(cfg.APIURL, cfg.APITimeout, store, logger),
		clock:   clock,
		logger:  logger,
	}
}

// RootCmd собирает дерево команд casedeskctl.
func RootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "casedeskctl",
		Short: "Клиент casedesk: сделки, сообщения, отчёты",
		Long: `casedeskctl — клиент сервиса учёта сделок по переоформлению недвижимости.

Токен сохраняется командой login в зашифрованном файле сессии
(CD_SESSION_FILE) и используется для каждого запроса к CD_API_URL.`,
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(loginCmd(app))
	root.AddCommand(logoutCmd(app))
	root.AddCommand(whoamiCmd(app))
	root.AddCommand(themeCmd(app))
	root.AddCommand(CasesCmd(app))
	root.AddCommand(MessagesCmd(app))
	root.AddCommand(reportCmd(app))
	root.AddCommand(feesCmd(app))

	return root
}

// FormatError переводит ошибку команды в текст для пользователя.
// Отказ сервера в доступе сопровождается подсказкой выполнить вход.
func FormatError(err error) string {
	var apiErr *casestore.APIError
	switch {
	case errors.Is(err, casestore.ErrUnauthenticated):
		return "Сессия завершена, учётные данные удалены. Выполните: casedeskctl login --token <токен>"
	case errors.As(err, &apiErr):
		return "Ошибка: " + apiErr.UserMessage()
	}
	return fmt.Sprintf("Ошибка: %v", err)
}
