package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"fullName"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// InvoiceItem is a single line item on an extracted invoice.
type InvoiceItem struct {
	ID        uuid.UUID `db:"id" json:"-"`
	InvoiceID uuid.UUID `db:"invoice_id" json:"-"`
	Position  int       `db:"position" json:"-"`
	Name      string    `db:"name" json:"name"`
	Quantity  float64   `db:"quantity" json:"quantity"`
	Price     float64   `db:"price" json:"price"`
}

// Invoice is a validated invoice record as produced by the extraction
// pipeline. RawText is the full extracted document text, kept as an audit
// trail; it is omitted from list responses.
type Invoice struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	UserID        uuid.UUID     `db:"user_id" json:"-"`
	InvoiceNumber string        `db:"invoice_number" json:"invoiceNumber"`
	Vendor        string        `db:"vendor" json:"vendor"`
	Date          string        `db:"invoice_date" json:"date"`
	Total         float64       `db:"total" json:"total"`
	Items         []InvoiceItem `db:"-" json:"items"`
	RawText       string        `db:"raw_text" json:"rawText,omitempty"`
	S3Bucket      string        `db:"s3_bucket" json:"-"`
	S3Key         string        `db:"s3_key" json:"-"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
}
