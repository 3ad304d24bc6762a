package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/models"
)

var opSymbols = map[string]string{
	"add":      "+",
	"subtract": "-",
	"multiply": "*",
	"divide":   "/",
}

// formatNumber печатает число без лишних нулей.
func formatNumber(n models.Number) string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// NewComputeCmd создаёт команду вычисления.
//
// Пример использования:
//
//	calc compute add 2 3
//	calc compute divide 10 4
func NewComputeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compute <add|subtract|multiply|divide> <a> <b>",
		Short: "Выполнить вычисление и сохранить его в историю",
		Example: `  calc compute add 2 3
  calc compute divide 10 4`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := strings.ToLower(strings.TrimSpace(args[0]))
			a, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid operand a %q", args[1])
			}
			b, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid operand b %q", args[2])
			}

			var rec models.CalculationRecord
			err = withAuth(app, func(c *api.Client, token string) error {
				var err error
				rec, err = c.Calculate(token, op, a, b)
				return err
			})
			if err != nil {
				return err
			}

			sym, ok := opSymbols[rec.Operation]
			if !ok {
				sym = rec.Operation
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s = %s\n",
				formatNumber(rec.A), sym, formatNumber(rec.B), formatNumber(rec.Result))
			return nil
		},
	}
}
