package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/llm"
	"github.com/daru-studio/daru-engine/pkg/prompts"
	"github.com/daru-studio/daru-engine/pkg/retry"
)

// Completion temperatures. Brief generation stays conservative so repeated
// runs over the same transcript produce comparable documents; wireframe
// drafting gets more headroom.
const (
	briefTemperature     = 0.3
	wireframeTemperature = 0.7
)

// BriefService backs the AI assist features: turning a chat transcript into
// a structured project brief, describing reference images, and drafting a
// wireframe outline from a brief.
type BriefService interface {
	GenerateBrief(ctx context.Context, transcript string) (string, error)
	AnalyzeReferenceImages(ctx context.Context, imageURLs []string) (string, error)
	DraftWireframe(ctx context.Context, brief string) (string, error)
}

type briefService struct {
	client llm.LLMClient
	logger *zap.Logger
}

// NewBriefService creates a new brief service.
func NewBriefService(client llm.LLMClient, logger *zap.Logger) BriefService {
	return &briefService{client: client, logger: logger}
}

// GenerateBrief produces a structured brief from a client chat transcript.
// Transient upstream failures are retried on the LLM profile.
func (s *briefService) GenerateBrief(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("%w: transcript is required", apperrors.ErrValidation)
	}

	result, err := retry.DoWithResult(ctx, retry.LLMConfig(), func() (string, error) {
		return s.client.GenerateResponse(ctx, prompts.BriefUser(transcript), prompts.BriefSystem(), briefTemperature)
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate brief: %w", err)
	}

	s.logger.Info("brief generated",
		zap.String("model", s.client.Model()),
		zap.Int("transcript_chars", len(transcript)),
		zap.Int("brief_chars", len(result)))

	return result, nil
}

// AnalyzeReferenceImages describes the supplied reference images.
func (s *briefService) AnalyzeReferenceImages(ctx context.Context, imageURLs []string) (string, error) {
	if len(imageURLs) == 0 {
		return "", fmt.Errorf("%w: at least one image URL is required", apperrors.ErrValidation)
	}

	result, err := retry.DoWithResult(ctx, retry.LLMConfig(), func() (string, error) {
		return s.client.AnalyzeImages(ctx, prompts.ImageAnalysis(), imageURLs)
	})
	if err != nil {
		return "", fmt.Errorf("failed to analyze images: %w", err)
	}

	s.logger.Info("reference images analyzed",
		zap.String("model", s.client.Model()),
		zap.Int("image_count", len(imageURLs)))

	return result, nil
}

// DraftWireframe produces a wireframe outline from a project brief.
func (s *briefService) DraftWireframe(ctx context.Context, brief string) (string, error) {
	if strings.TrimSpace(brief) == "" {
		return "", fmt.Errorf("%w: brief is required", apperrors.ErrValidation)
	}

	result, err := retry.DoWithResult(ctx, retry.LLMConfig(), func() (string, error) {
		return s.client.GenerateResponse(ctx, prompts.WireframeUser(brief), prompts.WireframeSystem(), wireframeTemperature)
	})
	if err != nil {
		return "", fmt.Errorf("failed to draft wireframe: %w", err)
	}

	s.logger.Info("wireframe drafted",
		zap.String("model", s.client.Model()),
		zap.Int("brief_chars", len(brief)))

	return result, nil
}

// Ensure briefService implements BriefService at compile time.
var _ BriefService = (*briefService)(nil)
