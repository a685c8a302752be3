// Package export renders invoice batches as downloadable CSV or XLSX files.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"invexa/internal/domain"
)

// File is a rendered export ready to be served as a download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// columns defines the export header row, shared by CSV and XLSX.
var columns = []string{
	"Invoice Number",
	"Vendor",
	"Date",
	"Total",
	"Item Count",
	"Created At",
}

// invoiceToRow converts a single invoice to a row of cells.
func invoiceToRow(inv *domain.Invoice) []string {
	return []string{
		inv.InvoiceNumber,
		inv.Vendor,
		inv.Date,
		formatMoney(inv.Total),
		fmt.Sprintf("%d", len(inv.Items)),
		inv.CreatedAt.Format(time.RFC3339),
	}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized download filename.
// Format: {sanitized_base}_{YYYY-MM-DD}.{ext}
func BuildFilename(base, ext string) string {
	sanitized := SanitizeFilename(base)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
