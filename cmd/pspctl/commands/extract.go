package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/psp-report-service/internal/adapter/spreadsheet"
	"github.com/user/psp-report-service/internal/app"
	"github.com/user/psp-report-service/internal/entity"
)

var (
	extractYear  string
	extractMonth string
	extractOut   string
)

func init() {
	extractCmd.Flags().StringVar(&extractYear, "year", "", "Financial year label, e.g. 2024-25.")
	extractCmd.Flags().StringVar(&extractMonth, "month", entity.AllMonths, "Month name or ALL.")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", spreadsheet.ReportFileName, "Path of the workbook to write.")
	_ = extractCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract --year <YYYY-YY> [--month <Month>] [--out <file.xlsx>]",
	Short: "Collects the period's reports and writes the combined workbook.",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		period := entity.Period{FinancialYear: extractYear, Month: extractMonth}
		result, err := application.Extractor.Extract(cmd.Context(), period)
		if err != nil {
			return err
		}

		data, err := spreadsheet.WriteReport(result.Report)
		if err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		if err := os.WriteFile(extractOut, data, 0o644); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}

		slog.Info("Report saved", "path", extractOut, "rows", result.Report.Len(),
			"links", result.Links, "run_id", result.RunID)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows from %d reports\n", extractOut, result.Report.Len(), result.Links)
		return nil
	},
}
