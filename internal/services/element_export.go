package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	types "github.com/yungbote/bexps-backend/internal/domain"
)

const equipmentSheet = "Equipment"

var EquipmentExportHeader = []string{
	"Type code",
	"Type",
	"Name",
	"Global ID",
	"IFC ID",
}

var equipmentColumnWidths = []float64{18, 28, 40, 26, 12}

// BuildEquipmentWorkbook renders elements as a single-sheet xlsx file with a
// bold header row.
func BuildEquipmentWorkbook(elements []*types.ModelElement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(equipmentSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range EquipmentExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(equipmentSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(equipmentSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(equipmentSheet, name, name, equipmentColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, el := range elements {
		row := i + 2
		var code, label string
		if el.ElementType != nil {
			code, label = el.ElementType.Code, el.ElementType.Label
		}
		var ifcID interface{}
		if el.IFCID != nil {
			ifcID = *el.IFCID
		}
		values := []interface{}{code, label, el.Name, el.GlobalID, ifcID}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(equipmentSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
