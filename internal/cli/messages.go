package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bigkaa/casedesk/internal/casestore"
)

// MessagesCmd возвращает группу команд ленты сообщений.
func MessagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Лента сообщений дела",
	}

	cmd.AddCommand(messagesListCmd(app))
	cmd.AddCommand(messagesSendCmd(app))
	cmd.AddCommand(messagesDeleteCmd(app))

	return cmd
}

func messagesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <case-id>",
		Short: "Показать ленту (загруженные сообщения отмечаются прочитанными)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := casestore.OpenThread(cmd.Context(), app.client, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			msgs := th.Messages()
			if len(msgs) == 0 {
				fmt.Fprintln(out, "Сообщений нет")
				return nil
			}

			p := paletteFor(app.session.Theme())
			for _, m := range msgs {
				p.heading.Fprintf(out, "%s", m.Author)
				fmt.Fprintf(out, " %s  %s\n", p.muted.Sprint(m.CreatedAt.Local().Format("02/01/2006 15:04")), p.muted.Sprint(m.ID))
				fmt.Fprintf(out, "  %s\n", strings.ReplaceAll(m.Content, "\n", "\n  "))
			}
			return nil
		},
	}
}

func messagesSendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "send <case-id> <text>",
		Short: "Отправить сообщение",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := casestore.OpenThread(cmd.Context(), app.client, args[0])
			if err != nil {
				return err
			}
			m, err := th.Send(cmd.Context(), strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if m == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Пустое сообщение не отправлено")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Сообщение отправлено: %s\n", m.ID)
			return nil
		},
	}
}

func messagesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <case-id> <message-id>",
		Short: "Удалить своё сообщение",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.client.DeleteMessage(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Сообщение удалено: %s\n", args[1])
			return nil
		},
	}
}
