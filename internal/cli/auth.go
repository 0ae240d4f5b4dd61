package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bigkaa/casedesk/internal/session"
)

func loginCmd(app *App) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Сохранить токен и проверить его на сервере",
		Long: `Сохраняет bearer-токен в файле сессии и запрашивает профиль.
Если сервер отвергает токен, он сразу удаляется.

Пример:
  casedeskctl login --token "$(cat token.jwt)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				return errors.New("укажите --token")
			}
			if err := app.session.SetToken(token); err != nil {
				return fmt.Errorf("сохранение токена: %w", err)
			}

			me, err := app.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Вход выполнен: %s\n", me.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer-токен (JWT)")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохранённый токен (тема сохраняется)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Выход выполнен")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Показать текущего пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			me, err := app.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", me.Username, me.ID)
			if me.Email != "" {
				fmt.Fprintln(out, me.Email)
			}
			return nil
		},
	}
}

func themeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Показать или сменить тему оформления",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(session.ThemeLight), string(session.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), app.session.Theme())
				return nil
			}
			t, err := session.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := app.session.SetTheme(t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Тема: %s\n", t)
			return nil
		},
	}
}
