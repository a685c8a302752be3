package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"invexa/internal/domain"
)

// BOM is the UTF-8 byte order mark, prepended for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV renders the invoices as a CSV file with a header row.
func WriteCSV(invoices []domain.Invoice) (*File, error) {
	var buf bytes.Buffer
	buf.Write(BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("export.WriteCSV: writing header: %w", err)
	}
	for i := range invoices {
		if err := w.Write(invoiceToRow(&invoices[i])); err != nil {
			return nil, fmt.Errorf("export.WriteCSV: writing row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export.WriteCSV: %w", err)
	}

	return &File{
		Name:        BuildFilename("invoices", "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}
