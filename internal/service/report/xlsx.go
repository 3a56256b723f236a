package report

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

// encodeXLSX writes the table to a single sheet named after the kind. Cells
// are written as text so rendered values like "75.00%" survive unchanged.
func encodeXLSX(kind report.Kind, t report.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(kind)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	rows := append([][]string{t.Header}, t.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sheetName(kind report.Kind) string {
	s := string(kind)
	return strings.ToUpper(s[:1]) + s[1:] + " Report"
}
