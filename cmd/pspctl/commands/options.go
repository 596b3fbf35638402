package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/psp-report-service/internal/entity"
)

func init() {
	rootCmd.AddCommand(optionsCmd)
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Lists the selectable financial years and months.",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		years := entity.FinancialYears(cfg.FirstFinancialYear, time.Now())
		fmt.Fprintf(out, "Financial years: %s\n", strings.Join(years, ", "))
		fmt.Fprintf(out, "Months: %s\n", strings.Join(entity.Months, ", "))
	},
}
