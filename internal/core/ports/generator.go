package ports

import (
	"context"

	"go.trai.ch/catalyst/internal/core/domain"
)

// Generator talks to the remote resume generation service.
//
//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type Generator interface {
	// Generate submits the request and returns the raw payload, normally a zip archive.
	Generate(ctx context.Context, req domain.GenerateRequest) ([]byte, error)
}
