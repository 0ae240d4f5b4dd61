package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bigkaa/casedesk/internal/domain/fees"
)

func feesCmd(app *App) *cobra.Command {
	var (
		price  string
		remote bool
	)

	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Калькулятор расходов покупателя",
		Long: `Рассчитывает налог на переход права, сбор регистрационной палаты,
вознаграждение конвейансера и НДС по цене сделки.

Примеры:
  casedeskctl fees --price "R 1 250 000,00"
  casedeskctl fees --price 1250000 --remote`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var q fees.Quote
			if remote {
				rq, err := app.client.TransferCost(cmd.Context(), price)
				if err != nil {
					return err
				}
				q = rq.Quote
			} else {
				cents, err := fees.ParseAmount(price)
				if err != nil {
					return err
				}
				if q, err = fees.NewQuote(cents); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			rows := []struct {
				label  string
				amount int64
			}{
				{"Purchase price", q.Price},
				{"Transfer duty", q.TransferDuty},
				{"Deeds office fee", q.DeedsOfficeFee},
				{"Conveyancing fee", q.ConveyancingFee},
				{fmt.Sprintf("VAT (%d%%)", fees.VATPercent), q.VAT},
				{"Total", q.Total},
			}
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t\n", r.label, fees.FormatAmount(r.amount))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "цена сделки (например \"R 1 250 000,00\")")
	cmd.Flags().BoolVar(&remote, "remote", false, "рассчитать на сервере")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}
