package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bigkaa/casedesk/internal/casestore"
	"github.com/bigkaa/casedesk/internal/report"
)

func reportCmd(app *App) *cobra.Command {
	var (
		format string
		outDir string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "report <case-id>",
		Short: "Выгрузить отчёт по карточке (pdf, png, jpg, html)",
		Long: `Формирует отчёт по карточке локально.

png и jpg — файл на каждую страницу A4 (report-1.png, report-2.png, ...),
одна страница — файл без номера. pdf — один файл, html — печатная версия.

Пример:
  casedeskctl report 7d0c... --format pdf --out ./reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := casestore.NewForm(app.client)
			c, err := form.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			layout := report.Build(c, app.clock)

			base := name
			if base == "" {
				base = report.BaseName(c.Reference, c.ID)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("создание каталога %s: %w", outDir, err)
			}

			if strings.EqualFold(format, "html") {
				path := filepath.Join(outDir, base+".html")
				if err := writeHTML(cmd, layout, path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			files, err := report.Export(layout, f, base)
			if err != nil {
				return err
			}
			for _, file := range files {
				path := filepath.Join(outDir, file.Name)
				if err := os.WriteFile(path, file.Data, 0o644); err != nil {
					return fmt.Errorf("запись %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "pdf", "формат: pdf, png, jpg, html")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "каталог для файлов отчёта")
	cmd.Flags().StringVar(&name, "name", "", "базовое имя файлов (по умолчанию report-<номер дела>)")
	return cmd
}

func writeHTML(cmd *cobra.Command, layout *report.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание %s: %w", path, err)
	}
	if err := report.HTML(layout).Render(cmd.Context(), f); err != nil {
		f.Close()
		return fmt.Errorf("запись %s: %w", path, err)
	}
	return f.Close()
}
