package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invexa/internal/config"
	"invexa/internal/domain"
	"invexa/internal/extract"
	"invexa/internal/port"
	"invexa/internal/service"
	"invexa/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{Region: "us-east-1", Bucket: "test-bucket", PresignExpiry: 3600}
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{MaxFileSizeMB: 10}
}

// multipartFile builds a *multipart.FileHeader the way Gin would hand one to
// the service, by round-tripping a form through the multipart codec.
func multipartFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func pipelineService(gen port.GenerationService, extractor port.TextExtractor) *extract.Service {
	return extract.NewService(extractor, func() (port.GenerationService, error) {
		return gen, nil
	})
}

func validReply() string {
	return `{"invoiceNumber":"INV-001","vendor":"Acme Corp","date":"2025-01-15","total":100.5,"items":[{"name":"Widget","quantity":2,"price":50.25}]}`
}

func TestInvoiceService_Upload_Success(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	storage := new(mocks.MockObjectStorage)
	extractor := new(mocks.MockTextExtractor)
	gen := new(mocks.MockGenerationService)

	extractor.On("Extract", mock.Anything).Return("INVOICE #1 raw text", nil)
	gen.On("Generate", mock.Anything, mock.Anything).Return(validReply(), nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && strings.HasPrefix(in.Key, "invoices/")
	})).Return(&port.UploadOutput{Location: "https://test-bucket.s3/..."}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	svc := service.NewInvoiceService(repo, storage, pipelineService(gen, extractor), testS3Config(), testUploadConfig())

	userID := uuid.New()
	fh := multipartFile(t, "invoice.pdf", "application/pdf", []byte("%PDF-1.7 fake"))

	inv, err := svc.Upload(context.Background(), userID, fh)
	require.NoError(t, err)

	assert.Equal(t, "INV-001", inv.InvoiceNumber)
	assert.Equal(t, userID, inv.UserID)
	assert.Equal(t, "INVOICE #1 raw text", inv.RawText)
	assert.Equal(t, "test-bucket", inv.S3Bucket)
	assert.Contains(t, inv.S3Key, "invoices/"+userID.String()+"/")

	repo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestInvoiceService_Upload_RejectsWrongExtension(t *testing.T) {
	svc := service.NewInvoiceService(nil, nil, nil, testS3Config(), testUploadConfig())

	fh := multipartFile(t, "invoice.docx", "application/pdf", []byte("data"))
	_, err := svc.Upload(context.Background(), uuid.New(), fh)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestInvoiceService_Upload_RejectsWrongContentType(t *testing.T) {
	svc := service.NewInvoiceService(nil, nil, nil, testS3Config(), testUploadConfig())

	fh := multipartFile(t, "invoice.pdf", "image/png", []byte("data"))
	_, err := svc.Upload(context.Background(), uuid.New(), fh)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestInvoiceService_Upload_RejectsOversizeFile(t *testing.T) {
	svc := service.NewInvoiceService(nil, nil, nil, testS3Config(), config.UploadConfig{MaxFileSizeMB: 1})

	big := bytes.Repeat([]byte("a"), 2<<20)
	fh := multipartFile(t, "invoice.pdf", "application/pdf", big)
	_, err := svc.Upload(context.Background(), uuid.New(), fh)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestInvoiceService_Upload_PipelineFailureSkipsStorage(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	storage := new(mocks.MockObjectStorage)
	extractor := new(mocks.MockTextExtractor)
	gen := new(mocks.MockGenerationService)

	extractor.On("Extract", mock.Anything).Return("", domain.ErrEmptyDocument)

	svc := service.NewInvoiceService(repo, storage, pipelineService(gen, extractor), testS3Config(), testUploadConfig())

	fh := multipartFile(t, "invoice.pdf", "application/pdf", []byte("%PDF-1.7 fake"))
	_, err := svc.Upload(context.Background(), uuid.New(), fh)
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)

	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_Upload_CleansUpObjectOnInsertFailure(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	storage := new(mocks.MockObjectStorage)
	extractor := new(mocks.MockTextExtractor)
	gen := new(mocks.MockGenerationService)

	extractor.On("Extract", mock.Anything).Return("raw text", nil)
	gen.On("Generate", mock.Anything, mock.Anything).Return(validReply(), nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	storage.On("Delete", mock.Anything, "test-bucket", mock.AnythingOfType("string")).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	svc := service.NewInvoiceService(repo, storage, pipelineService(gen, extractor), testS3Config(), testUploadConfig())

	fh := multipartFile(t, "invoice.pdf", "application/pdf", []byte("%PDF-1.7 fake"))
	_, err := svc.Upload(context.Background(), uuid.New(), fh)
	require.Error(t, err)

	storage.AssertCalled(t, "Delete", mock.Anything, "test-bucket", mock.AnythingOfType("string"))
}

func TestInvoiceService_List_NormalizesPagination(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	userID := uuid.New()
	repo.On("List", mock.Anything, userID, 0, 20).Return([]domain.Invoice{}, 0, nil)

	svc := service.NewInvoiceService(repo, nil, nil, testS3Config(), testUploadConfig())

	_, _, err := svc.List(context.Background(), userID, -3, 5000)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestInvoiceService_Export_CSV(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	userID := uuid.New()
	repo.On("ListAll", mock.Anything, userID).Return([]domain.Invoice{
		{InvoiceNumber: "INV-001", Vendor: "Acme", Date: "2025-01-15", Total: 100},
	}, nil)

	svc := service.NewInvoiceService(repo, nil, nil, testS3Config(), testUploadConfig())

	file, err := svc.Export(context.Background(), userID, domain.ExportFormatCSV)
	require.NoError(t, err)
	assert.Contains(t, file.Name, ".csv")
	assert.Contains(t, string(file.Data), "INV-001")
}

func TestInvoiceService_Export_UnknownFormat(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	repo.On("ListAll", mock.Anything, mock.Anything).Return([]domain.Invoice{}, nil)

	svc := service.NewInvoiceService(repo, nil, nil, testS3Config(), testUploadConfig())

	_, err := svc.Export(context.Background(), uuid.New(), domain.ExportFormat("yaml"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestInvoiceService_DownloadURL(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	storage := new(mocks.MockObjectStorage)
	userID := uuid.New()
	invoiceID := uuid.New()

	repo.On("GetByID", mock.Anything, userID, invoiceID).Return(&domain.Invoice{
		ID: invoiceID, S3Bucket: "test-bucket", S3Key: "invoices/x/y.pdf",
	}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "invoices/x/y.pdf", int64(3600)).
		Return("https://signed.example/url", nil)

	svc := service.NewInvoiceService(repo, storage, nil, testS3Config(), testUploadConfig())

	url, err := svc.DownloadURL(context.Background(), userID, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/url", url)
}

func TestInvoiceService_Delete(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	storage := new(mocks.MockObjectStorage)
	userID := uuid.New()
	invoiceID := uuid.New()

	repo.On("GetByID", mock.Anything, userID, invoiceID).Return(&domain.Invoice{
		ID: invoiceID, S3Bucket: "test-bucket", S3Key: "invoices/x/y.pdf",
	}, nil)
	repo.On("Delete", mock.Anything, userID, invoiceID).Return(nil)
	storage.On("Delete", mock.Anything, "test-bucket", "invoices/x/y.pdf").Return(nil)

	svc := service.NewInvoiceService(repo, storage, nil, testS3Config(), testUploadConfig())

	require.NoError(t, svc.Delete(context.Background(), userID, invoiceID))
	repo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestInvoiceService_Delete_NotFound(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	userID := uuid.New()
	invoiceID := uuid.New()

	repo.On("GetByID", mock.Anything, userID, invoiceID).Return(nil, domain.ErrNotFound)

	svc := service.NewInvoiceService(repo, nil, nil, testS3Config(), testUploadConfig())
	assert.ErrorIs(t, svc.Delete(context.Background(), userID, invoiceID), domain.ErrNotFound)
}
