package port

import (
	"context"

	"github.com/google/uuid"

	"invexa/internal/domain"
)

// InvoiceRepository abstracts invoice persistence. Create stores the invoice,
// its line items, and the raw document text atomically.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Invoice, error)
	Delete(ctx context.Context, userID, invoiceID uuid.UUID) error
}

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
