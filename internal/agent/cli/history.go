package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/models"
)

// NewHistoryCmd создаёт команду просмотра истории.
//
// Без аргументов печатает страницу истории (новые первыми) и курсор
// следующей страницы, с аргументом id — одну запись.
func NewHistoryCmd(app *App) *cobra.Command {
	var limit int
	var cursor string

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "История вычислений",
		Example: `  calc history --limit 10
  calc history --cursor <next cursor>
  calc history 6f1c2d3e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				var rec models.CalculationRecord
				err := withAuth(app, func(c *api.Client, token string) error {
					var err error
					rec, err = c.GetCalculation(token, args[0])
					return err
				})
				if err != nil {
					return err
				}
				printRecords(out, []models.CalculationRecord{rec})
				return nil
			}

			var items []models.CalculationRecord
			var next string
			err := withAuth(app, func(c *api.Client, token string) error {
				var err error
				items, next, err = c.History(token, limit, cursor)
				return err
			})
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Fprintln(out, "history is empty")
				return nil
			}
			printRecords(out, items)
			if next != "" {
				fmt.Fprintf(out, "\nnext page: calc history --cursor %s\n", next)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size (server default if 0)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "cursor of the next page")

	return cmd
}

func printRecords(w io.Writer, items []models.CalculationRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOPERATION\tA\tB\tRESULT\tCREATED_AT")
	for _, r := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Operation, formatNumber(r.A), formatNumber(r.B), formatNumber(r.Result),
			r.CreatedAt.Local().Format(time.DateTime))
	}
	tw.Flush()
}
