package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"invexa/internal/config"
	"invexa/internal/domain"
	"invexa/internal/export"
	"invexa/internal/extract"
	"invexa/internal/port"
)

// InvoiceService defines invoice pipeline and query operations.
type InvoiceService interface {
	Upload(ctx context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (*domain.Invoice, error)
	GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Invoice, int, error)
	Delete(ctx context.Context, userID, invoiceID uuid.UUID) error
	Export(ctx context.Context, userID uuid.UUID, format domain.ExportFormat) (*export.File, error)
	DownloadURL(ctx context.Context, userID, invoiceID uuid.UUID) (string, error)
}

type invoiceService struct {
	repo      port.InvoiceRepository
	storage   port.ObjectStorage
	extractor *extract.Service
	s3Cfg     config.S3Config
	uploadCfg config.UploadConfig
}

// NewInvoiceService creates an InvoiceService implementation.
func NewInvoiceService(
	repo port.InvoiceRepository,
	storage port.ObjectStorage,
	extractor *extract.Service,
	s3Cfg config.S3Config,
	uploadCfg config.UploadConfig,
) InvoiceService {
	return &invoiceService{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		s3Cfg:     s3Cfg,
		uploadCfg: uploadCfg,
	}
}

// Upload runs the full pipeline for a single document: validate the file,
// extract and structure its contents, archive the original in S3, then
// persist the record. If persistence fails the archived object is removed
// so storage and database never drift apart.
func (s *invoiceService) Upload(ctx context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (*domain.Invoice, error) {
	if err := s.validateFile(fileHeader); err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening uploaded file: %v", domain.ErrUploadFailed, err)
	}
	defer file.Close()

	documentBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: reading uploaded file: %v", domain.ErrUploadFailed, err)
	}

	inv, rawText, err := s.extractor.ExtractInvoice(ctx, documentBytes)
	if err != nil {
		return nil, err
	}

	inv.ID = uuid.New()
	inv.UserID = userID
	inv.RawText = rawText
	inv.S3Bucket = s.s3Cfg.Bucket
	inv.S3Key = fmt.Sprintf("invoices/%s/%s.pdf", userID, inv.ID)
	inv.CreatedAt = time.Now().UTC()

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      inv.S3Bucket,
		Key:         inv.S3Key,
		Body:        bytes.NewReader(documentBytes),
		ContentType: "application/pdf",
		Size:        int64(len(documentBytes)),
	}); err != nil {
		return nil, fmt.Errorf("%w: archiving document: %v", domain.ErrUploadFailed, err)
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		if delErr := s.storage.Delete(ctx, inv.S3Bucket, inv.S3Key); delErr != nil {
			log.Printf("service.InvoiceService: orphaned object %s/%s after failed insert: %v", inv.S3Bucket, inv.S3Key, delErr)
		}
		return nil, err
	}

	return inv, nil
}

func (s *invoiceService) GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.repo.GetByID(ctx, userID, invoiceID)
}

func (s *invoiceService) List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Invoice, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.repo.List(ctx, userID, offset, pageSize)
}

// Delete removes the database record first, then the archived object. An
// object that outlives its record is harmless and logged; the reverse is not.
func (s *invoiceService) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	inv, err := s.repo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, invoiceID); err != nil {
		return err
	}
	if inv.S3Key != "" {
		if err := s.storage.Delete(ctx, inv.S3Bucket, inv.S3Key); err != nil {
			log.Printf("service.InvoiceService: deleting archived object %s/%s: %v", inv.S3Bucket, inv.S3Key, err)
		}
	}
	return nil
}

// Export renders all of the user's invoices in the requested format.
func (s *invoiceService) Export(ctx context.Context, userID uuid.UUID, format domain.ExportFormat) (*export.File, error) {
	invoices, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch format {
	case domain.ExportFormatCSV:
		return export.WriteCSV(invoices)
	case domain.ExportFormatXLSX:
		return export.WriteXLSX(invoices)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrUnsupportedFileType, format)
	}
}

// DownloadURL returns a presigned URL for the archived original document.
func (s *invoiceService) DownloadURL(ctx context.Context, userID, invoiceID uuid.UUID) (string, error) {
	inv, err := s.repo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return "", err
	}
	if inv.S3Key == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, inv.S3Bucket, inv.S3Key, s.s3Cfg.PresignExpiry)
}

func (s *invoiceService) validateFile(fileHeader *multipart.FileHeader) error {
	maxBytes := s.uploadCfg.MaxFileSizeMB * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return fmt.Errorf("%w: file exceeds %d MB", domain.ErrFileTooLarge, s.uploadCfg.MaxFileSizeMB)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: extension %q", domain.ErrUnsupportedFileType, ext)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "" {
		if _, ok := domain.AllowedContentTypes[contentType]; !ok {
			return fmt.Errorf("%w: content type %q", domain.ErrUnsupportedFileType, contentType)
		}
	}
	return nil
}
