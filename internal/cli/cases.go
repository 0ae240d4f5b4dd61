package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bigkaa/casedesk/internal/casestore"
	"github.com/bigkaa/casedesk/internal/domain/caselist"
	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/domain/model"
)

// CasesCmd возвращает группу команд карточек дел.
func CasesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cases",
		Aliases: []string{"case"},
		Short:   "Карточки дел",
	}

	cmd.AddCommand(casesListCmd(app))
	cmd.AddCommand(casesShowCmd(app))
	cmd.AddCommand(casesCreateCmd(app))
	cmd.AddCommand(casesUpdateCmd(app))
	cmd.AddCommand(casesDeleteCmd(app))
	cmd.AddCommand(casesToggleCmd(app))

	return cmd
}

func casesListCmd(app *App) *cobra.Command {
	var (
		mine   bool
		query  string
		filter string
		group  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список карточек (Dashboard или «Мои сделки»)",
		Long: `Список карточек, отсортированный по номеру дела.

Фильтры: none, missing-bond, missing-deposit, missing-transfer-cost, active, inactive.

Примеры:
  casedeskctl cases list -q smith
  casedeskctl cases list --filter missing-bond --group
  casedeskctl cases list --mine`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := caselist.ParseFilter(filter)
			if err != nil {
				return err
			}
			loader := casestore.NewLoader(app.client, mine, app.clock, app.logger)
			view, err := loader.Load(cmd.Context(), caselist.Query{Text: query, Filter: f}, group && !mine)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(view.Cases) == 0 {
				fmt.Fprintln(out, "Карточки не найдены")
				return nil
			}

			p := paletteFor(app.session.Theme())
			if group && !mine {
				for _, g := range view.Groups {
					p.heading.Fprintf(out, "%s (%d)\n", g.Username, len(g.Cases))
					printCaseTable(out, g.Cases, view.Unread, app.clock, p)
					fmt.Fprintln(out)
				}
				return nil
			}
			printCaseTable(out, view.Cases, view.Unread, app.clock, p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&mine, "mine", false, "только мои карточки")
	cmd.Flags().StringVarP(&query, "query", "q", "", "поиск по номеру, сторонам, объекту, агенту")
	cmd.Flags().StringVar(&filter, "filter", "", "фильтр списка")
	cmd.Flags().BoolVar(&group, "group", false, "сгруппировать по владельцу")
	return cmd
}

// printCaseTable выводит таблицу карточек с подсветкой полей.
// Счётчик непрочитанных — последний столбец.
func printCaseTable(out io.Writer, cases []*model.Case, unread map[string]int, clock datefmt.Clock, p palette) {
	header := []string{"ID", "REFERENCE", "PARTIES", "PROPERTY", "AGENT", "STATUS", "DAYS", "UNREAD"}
	rows := make([][]cell, 0, len(cases))
	for _, c := range cases {
		status := "active"
		if !c.IsActive {
			status = "inactive"
		}
		rows = append(rows, []cell{
			plain(c.ID),
			colored(orDash(c.Reference), c.Colors[model.FieldReference]),
			colored(orDash(c.Parties), c.Colors[model.FieldParties]),
			colored(orDash(c.Property), c.Colors[model.FieldProperty]),
			colored(orDash(c.Agent), c.Colors[model.FieldAgent]),
			colored(status, c.Colors[model.FieldIsActive]),
			plain(datefmt.DaysSinceLabel(c.InstructionReceived, clock)),
			unreadCell(unread, c.ID, p),
		})
	}
	writeTable(out, header, rows)
}

func unreadCell(unread map[string]int, id string, p palette) cell {
	n, ok := unread[id]
	switch {
	case !ok:
		return plain(datefmt.Unknown)
	case n > 0:
		return cell{text: strconv.Itoa(n), style: func(s string) string { return p.alert.Sprint(s) }}
	}
	return plain("0")
}

func casesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <case-id>",
		Short: "Показать карточку",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := casestore.NewForm(app.client)
			c, err := form.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCase(cmd.OutOrStdout(), c, app.clock, paletteFor(app.session.Theme()))
			return nil
		},
	}
}

func casesCreateCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать карточку из JSON-файла",
		Long: `Создаёт карточку из JSON-файла с полями карточки
(reference, parties, instructionReceived, ..., comments, colors).
Даты принимаются в виде YYYY-MM-DD или DD/MM/YYYY.

Пример:
  casedeskctl cases create --file case.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := casestore.NewForm(app.client)
			c := form.New()
			if err := decodeCaseFile(file, c); err != nil {
				return err
			}
			saved, err := form.Save(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Карточка создана: %s (%s)\n", saved.ID, saved.Reference)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON-файл карточки (- для stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func casesUpdateCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <case-id>",
		Short: "Изменить карточку: поля из JSON-файла поверх текущих",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := casestore.NewForm(app.client)
			c, err := form.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := decodeCaseFile(file, c); err != nil {
				return err
			}
			saved, err := form.Save(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Карточка сохранена: %s (%s)\n", saved.ID, saved.Reference)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON-файл с изменяемыми полями (- для stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// decodeCaseFile накладывает поля из JSON-файла на карточку c.
func decodeCaseFile(path string, c *model.Case) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("чтение %s: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("разбор %s: %w", path, err)
	}
	return nil
}

func casesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <case-id>",
		Short: "Удалить карточку безвозвратно",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.client.DeleteCase(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Карточка удалена: %s\n", args[0])
			return nil
		},
	}
}

func casesToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <case-id>",
		Short: "Переключить признак активности",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client.ToggleActive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			status := "active"
			if !c.IsActive {
				status = "inactive"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", orDash(c.Reference), status)
			return nil
		},
	}
}
