package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"rusunawa-recon-svc/internal/models/response"
)

// WriteXLSX builds a workbook with Summary, Rooms and Distributions sheets and
// returns its bytes together with a download file name
func WriteXLSX(report response.AggregateReport) ([]byte, string, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D3D3D3"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	summary := [][]interface{}{}
	for _, row := range summaryRows(report) {
		summary = append(summary, []interface{}{row.Label, row.Value})
	}
	for _, key := range sortedKeys(report.Errors) {
		summary = append(summary, []interface{}{key, report.Errors[key]})
	}

	rooms := [][]interface{}{}
	for _, room := range report.Rooms {
		rooms = append(rooms, []interface{}{
			room.RoomID, room.Name, room.Classification, room.Capacity,
			room.OccupantCount, room.Status, room.Source, room.Anomaly,
		})
	}

	dists := [][]interface{}{}
	for _, section := range distributionSections(report.Distributions) {
		for _, point := range ChartSeries(section.Dist) {
			dists = append(dists, []interface{}{section.Name, point.Name, point.Value, point.Percentage})
		}
	}
	for _, method := range sortedKeys(report.RevenueByMethod) {
		dists = append(dists, []interface{}{"Revenue By Method", method, report.RevenueByMethod[method], nil})
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]interface{}
	}{
		{"Summary", []string{"Metric", "Value"}, summary},
		{"Rooms", []string{"Room", "Name", "Classification", "Capacity", "Occupants", "Status", "Source", "Anomaly"}, rooms},
		{"Distributions", []string{"Distribution", "Category", "Value", "Percentage"}, dists},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return nil, "", fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, "", fmt.Errorf("failed to create sheet: %w", err)
		}
		if err := writeSheet(f, sheet.name, sheet.headers, sheet.rows, headerStyle); err != nil {
			return nil, "", err
		}
	}
	f.SetActiveSheet(0)

	filename := fmt.Sprintf("rusunawa_report_%s.xlsx", report.GeneratedAt.Format("20060102_150405"))

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buffer.Bytes(), filename, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 18)
}
