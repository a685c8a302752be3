package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invexa/internal/domain"
	"invexa/internal/port"
)

// listColumns excludes raw_text: the audit text is only loaded on detail
// fetches, never on listings.
const listColumns = `id, user_id, invoice_number, vendor, invoice_date, total, s3_bucket, s3_key, created_at`

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

// Create stores the invoice, its line items, and the raw document text in one
// transaction, so a partial record is never persisted.
func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO invoices (id, user_id, invoice_number, vendor, invoice_date, total, raw_text, s3_bucket, s3_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = tx.ExecContext(ctx, query,
		inv.ID, inv.UserID, inv.InvoiceNumber, inv.Vendor, inv.Date, inv.Total,
		inv.RawText, inv.S3Bucket, inv.S3Key, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}

	itemQuery := `INSERT INTO invoice_items (id, invoice_id, position, name, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoiceID = inv.ID
		if item.Position == 0 {
			item.Position = i + 1
		}
		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID, item.InvoiceID, item.Position, item.Name, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("invoiceRepo.Create item %d: %w", item.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Create commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		"SELECT * FROM invoices WHERE id = $1 AND user_id = $2", invoiceID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}

	if err := r.loadItems(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM invoices WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	var invoices []domain.Invoice
	err = r.db.SelectContext(ctx, &invoices,
		"SELECT "+listColumns+" FROM invoices WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}

	for i := range invoices {
		if err := r.loadItems(ctx, &invoices[i]); err != nil {
			return nil, 0, err
		}
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		"SELECT "+listColumns+" FROM invoices WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListAll: %w", err)
	}

	for i := range invoices {
		if err := r.loadItems(ctx, &invoices[i]); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM invoices WHERE id = $1 AND user_id = $2", invoiceID, userID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) loadItems(ctx context.Context, inv *domain.Invoice) error {
	err := r.db.SelectContext(ctx, &inv.Items,
		"SELECT * FROM invoice_items WHERE invoice_id = $1 ORDER BY position", inv.ID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.loadItems: %w", err)
	}
	return nil
}
