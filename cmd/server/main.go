package main

import (
	"fmt"
	"log"

	"invexa/internal/config"
	"invexa/internal/extract"
	"invexa/internal/extract/gemini"
	"invexa/internal/handler"
	"invexa/internal/pdftext"
	"invexa/internal/port"
	"invexa/internal/repository/postgres"
	"invexa/internal/router"
	"invexa/internal/service"
	s3storage "invexa/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// The generation client is constructed lazily on first upload, so a
	// missing API key surfaces as an extraction error rather than a crash
	// at boot.
	extractor := extract.NewService(pdftext.NewExtractor(), func() (port.GenerationService, error) {
		return gemini.NewClient(&cfg.Gemini)
	})

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, s3Client, extractor, cfg.S3, cfg.Upload)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, invoiceH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
