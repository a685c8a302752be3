package port

import "context"

// GenerationService abstracts the external text-generation API. Generate sends
// a prompt and returns the model's raw text reply. Implementations classify
// transport failures into the domain error taxonomy (quota, configuration);
// anything they cannot classify is returned as-is for the caller to fold into
// a generic processing failure.
type GenerationService interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
