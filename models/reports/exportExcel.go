package reports

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportSummaryExcel renders a summary as a workbook: the headline numbers, the
// per-operation counts and the recent calculations, one section under the other.
func ExportSummaryExcel(summary *ReportSummary) (*excelize.File, error) {

	f := excelize.NewFile()
	_, err := f.NewSheet("Sheet1")
	if err != nil {
		return nil, err
	}

	f.SetCellValue("Sheet1", "A1", "TotalCalculations")
	f.SetCellValue("Sheet1", "B1", "AverageOperands")
	f.SetCellValue("Sheet1", "A2", summary.TotalCalculations)
	f.SetCellValue("Sheet1", "B2", summary.AverageOperands)

	f.SetCellValue("Sheet1", "A4", "Operation")
	f.SetCellValue("Sheet1", "B4", "Count")
	operations := make([]string, 0, len(summary.CountsByOperation))
	for op := range summary.CountsByOperation {
		operations = append(operations, op)
	}
	sort.Strings(operations)
	row := 5
	for _, op := range operations {
		f.SetCellValue("Sheet1", "A"+fmt.Sprint(row), op)
		f.SetCellValue("Sheet1", "B"+fmt.Sprint(row), summary.CountsByOperation[op])
		row++
	}

	row++
	f.SetCellValue("Sheet1", "A"+fmt.Sprint(row), "Type")
	f.SetCellValue("Sheet1", "B"+fmt.Sprint(row), "Inputs")
	f.SetCellValue("Sheet1", "C"+fmt.Sprint(row), "Result")
	f.SetCellValue("Sheet1", "D"+fmt.Sprint(row), "CreatedAt")
	row++
	for _, recent := range summary.RecentCalculations {
		f.SetCellValue("Sheet1", "A"+fmt.Sprint(row), recent.Type)
		f.SetCellValue("Sheet1", "B"+fmt.Sprint(row), formatOperands(recent.Inputs))
		f.SetCellValue("Sheet1", "C"+fmt.Sprint(row), recent.Result)
		f.SetCellValue("Sheet1", "D"+fmt.Sprint(row), recent.CreatedAt)
		row++
	}

	return f, nil
}

func formatOperands(inputs []float64) string {
	pieces := make([]string, 0, len(inputs))
	for _, v := range inputs {
		pieces = append(pieces, fmt.Sprint(v))
	}
	return strings.Join(pieces, ", ")
}
