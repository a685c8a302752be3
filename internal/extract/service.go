package extract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"invexa/internal/domain"
	"invexa/internal/port"
	"invexa/internal/validator/invoice"
)

// Service is the extraction orchestrator: raw text in, validated invoice out.
// The generation service handle is built at most once per process, on first
// use, so construction cost (and credential checks) are only paid when
// extraction is actually requested. After initialization the handle is
// treated as read-only and shared across concurrent requests.
type Service struct {
	textExtractor port.TextExtractor
	newGeneration func() (port.GenerationService, error)

	genOnce sync.Once
	gen     port.GenerationService
	genErr  error
}

// NewService creates an extraction Service. newGeneration is invoked lazily on
// the first Structure call; it must return domain.ErrConfiguration (possibly
// wrapped) when required credentials are absent. Tests substitute a fake by
// returning it from the factory.
func NewService(textExtractor port.TextExtractor, newGeneration func() (port.GenerationService, error)) *Service {
	return &Service{
		textExtractor: textExtractor,
		newGeneration: newGeneration,
	}
}

// ExtractInvoice is the sole pipeline entry point: document bytes → raw text →
// validated invoice. The raw text is returned alongside the record so the
// caller can persist it as an audit trail. No partial record is ever returned.
func (s *Service) ExtractInvoice(ctx context.Context, documentBytes []byte) (*domain.Invoice, string, error) {
	rawText, err := s.textExtractor.Extract(documentBytes)
	if err != nil {
		return nil, "", err
	}

	inv, err := s.Structure(ctx, rawText)
	if err != nil {
		return nil, "", err
	}
	return inv, rawText, nil
}

// Structure sends the raw text to the generation service, recovers the JSON
// payload from the reply, and validates it against the invoice schema. Every
// failure is classified; nothing is retried — callers resubmit the whole
// request to retry.
func (s *Service) Structure(ctx context.Context, rawText string) (*domain.Invoice, error) {
	gen, err := s.generation()
	if err != nil {
		return nil, err
	}

	prompt := BuildInvoicePrompt(rawText)

	reply, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, classifyGenerationError(err)
	}

	candidate, err := RecoverJSON(reply)
	if err != nil {
		// The raw reply may contain arbitrary model output: log it for
		// diagnostics, never return it to the caller.
		log.Printf("extract.Service: response recovery failed: %v (raw reply: %s)", err, truncate(reply, 500))
		return nil, err
	}

	inv, violations := invoice.Validate(candidate)
	if len(violations) > 0 {
		return nil, &domain.SchemaValidationError{Violations: violations}
	}

	return inv, nil
}

// generation lazily initializes the generation service handle exactly once.
func (s *Service) generation() (port.GenerationService, error) {
	s.genOnce.Do(func() {
		s.gen, s.genErr = s.newGeneration()
		if s.genErr == nil {
			log.Printf("extract.Service: generation service initialized")
		}
	})
	return s.gen, s.genErr
}

// classifyGenerationError maps a generation failure to the error taxonomy.
// Typed quota and configuration errors from the client adapter pass through;
// everything unrecognized becomes a generic processing failure.
func classifyGenerationError(err error) error {
	if errors.Is(err, domain.ErrQuotaExceeded) || errors.Is(err, domain.ErrConfiguration) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrProcessing, err)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
