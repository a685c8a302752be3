package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"invexa/internal/domain"
)

const sheetName = "Invoices"

// WriteXLSX renders the invoices as an Excel workbook with a single sheet.
// Total and Item Count are written as numeric cells so spreadsheet formulas
// work on them directly.
func WriteXLSX(invoices []domain.Invoice) (*File, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("export.WriteXLSX: creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export.WriteXLSX: removing default sheet: %w", err)
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("export.WriteXLSX: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, fmt.Errorf("export.WriteXLSX: writing header: %w", err)
		}
	}

	for i := range invoices {
		inv := &invoices[i]
		rowNum := i + 2
		cells := []interface{}{
			inv.InvoiceNumber,
			inv.Vendor,
			inv.Date,
			inv.Total,
			len(inv.Items),
			inv.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("export.WriteXLSX: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("export.WriteXLSX: writing row %d: %w", i, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export.WriteXLSX: %w", err)
	}

	return &File{
		Name:        BuildFilename("invoices", "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}
