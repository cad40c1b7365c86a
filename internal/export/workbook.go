// Package export renders dashboard views as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/interference-service/internal/domain"
)

const (
	WorkloadSheet = "Workload"
	ActivitySheet = "Recent Activity"

	timeLayout = "2006-01-02 15:04"
)

var (
	workloadHeaders = []string{"Technician ID", "Name", "Specialization", "Available", "Active", "Resolved", "Avg Resolution (min)"}
	activityHeaders = []string{"Report ID", "Reporter", "Service", "Interference", "Status", "Technician ID", "Updated At"}
)

type workbook struct {
	file *excelize.File
}

// DashboardWorkbook writes the workload table and the recent activity list
// into a two-sheet workbook.
func DashboardWorkbook(workload []domain.WorkloadStat, recent []domain.Report) (*bytes.Buffer, error) {
	wb := &workbook{file: excelize.NewFile()}
	defer wb.file.Close()

	workloadRows := make([][]any, 0, len(workload))
	for _, w := range workload {
		var avg any = ""
		if w.AverageResolutionMinutes != nil {
			avg = fmt.Sprintf("%.1f", *w.AverageResolutionMinutes)
		}
		workloadRows = append(workloadRows, []any{
			w.Technician.ID,
			w.Technician.Name,
			w.Technician.Specialization,
			yesNo(w.Technician.IsAvailable),
			w.ActiveCount,
			w.ResolvedCount,
			avg,
		})
	}
	if err := wb.addSheet(WorkloadSheet, workloadHeaders, workloadRows); err != nil {
		return nil, err
	}

	activityRows := make([][]any, 0, len(recent))
	for _, r := range recent {
		var tech any = ""
		if r.AssignedTechnicianID != nil {
			tech = *r.AssignedTechnicianID
		}
		activityRows = append(activityRows, []any{
			r.ID,
			r.ReporterName,
			string(r.ServiceType),
			string(r.InterferenceType),
			string(r.Status),
			tech,
			r.UpdatedAt.UTC().Format(timeLayout),
		})
	}
	if err := wb.addSheet(ActivitySheet, activityHeaders, activityRows); err != nil {
		return nil, err
	}

	wb.file.SetActiveSheet(0)
	if idx, _ := wb.file.GetSheetIndex("Sheet1"); idx != -1 {
		if err := wb.file.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}

	buffer, err := wb.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer, nil
}

func (w *workbook) addSheet(name string, headers []string, rows [][]any) error {
	if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	headerStyle, err := w.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := w.file.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers on %q: %w", name, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := w.file.SetCellStyle(name, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style headers on %q: %w", name, err)
	}
	if err := w.file.SetColWidth(name, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to set column width on %q: %w", name, err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := w.file.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %q: %w", i+2, name, err)
		}
	}

	if len(rows) == 0 {
		return nil
	}
	if err := w.file.AddTable(name, &excelize.Table{
		Range:     fmt.Sprintf("A1:%s%d", lastCol, len(rows)+1),
		Name:      "table_" + strings.ReplaceAll(name, " ", ""),
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table on %q: %w", name, err)
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
