package ports

import (
	"context"

	"go.trai.ch/catalyst/internal/core/domain"
)

// ResumeService is the set of operations exposed at the HTTP boundary.
// Failures come back inside the outcome, never as a separate error.
//
//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks
type ResumeService interface {
	Tailor(ctx context.Context, resume, jobDescription string) domain.Outcome[string]
	Evaluate(ctx context.Context, resume, jobDescription string) domain.Outcome[string]
	CoverLetter(ctx context.Context, resume, jobDescription string) domain.Outcome[string]
	Interview(ctx context.Context, jobDescription string) domain.Outcome[string]
	Generate(ctx context.Context, req domain.GenerateRequest) domain.Outcome[domain.ArtifactSet]
	Preview(ctx context.Context, req domain.GenerateRequest) domain.Outcome[[]byte]
	Download(ctx context.Context, sessionID, name string) domain.Outcome[domain.FileHandle]
}
