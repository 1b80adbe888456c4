package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/llm"
)

func TestGenerateBrief_RetriesTransientFailures(t *testing.T) {
	calls := 0
	client := &llm.MockLLMClient{
		GenerateResponseFunc: func(context.Context, string, string, float64) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("upstream timeout")
			}
			return "## Project Brief\n...", nil
		},
	}
	svc := NewBriefService(client, zap.NewNop())

	brief, err := svc.GenerateBrief(context.Background(), "client: we need a landing page")

	require.NoError(t, err)
	assert.Equal(t, "## Project Brief\n...", brief)
	assert.Equal(t, 3, calls)
}

func TestGenerateBrief_GivesUpAfterRetryBudget(t *testing.T) {
	calls := 0
	client := &llm.MockLLMClient{
		GenerateResponseFunc: func(context.Context, string, string, float64) (string, error) {
			calls++
			return "", errors.New("upstream timeout")
		},
	}
	svc := NewBriefService(client, zap.NewNop())

	_, err := svc.GenerateBrief(context.Background(), "transcript")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestGenerateBrief_RequiresTranscript(t *testing.T) {
	client := &llm.MockLLMClient{
		GenerateResponseFunc: func(context.Context, string, string, float64) (string, error) {
			t.Fatal("the client should not be called with an empty transcript")
			return "", nil
		},
	}
	svc := NewBriefService(client, zap.NewNop())

	_, err := svc.GenerateBrief(context.Background(), "   ")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGenerateBrief_PassesTranscriptIntoPrompt(t *testing.T) {
	var gotPrompt, gotSystem string
	client := &llm.MockLLMClient{
		GenerateResponseFunc: func(_ context.Context, prompt, system string, _ float64) (string, error) {
			gotPrompt = prompt
			gotSystem = system
			return "brief", nil
		},
	}
	svc := NewBriefService(client, zap.NewNop())

	_, err := svc.GenerateBrief(context.Background(), "we want something bold")

	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "we want something bold")
	assert.NotEmpty(t, gotSystem)
}

func TestAnalyzeReferenceImages(t *testing.T) {
	var gotURLs []string
	client := &llm.MockLLMClient{
		AnalyzeImagesFunc: func(_ context.Context, _ string, imageURLs []string) (string, error) {
			gotURLs = imageURLs
			return "moody palette, serif type", nil
		},
	}
	svc := NewBriefService(client, zap.NewNop())

	result, err := svc.AnalyzeReferenceImages(context.Background(), []string{"https://cdn.daru.studio/ref1.png"})

	require.NoError(t, err)
	assert.Equal(t, "moody palette, serif type", result)
	assert.Equal(t, []string{"https://cdn.daru.studio/ref1.png"}, gotURLs)
}

func TestAnalyzeReferenceImages_RequiresImages(t *testing.T) {
	svc := NewBriefService(&llm.MockLLMClient{}, zap.NewNop())

	_, err := svc.AnalyzeReferenceImages(context.Background(), nil)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDraftWireframe(t *testing.T) {
	client := &llm.MockLLMClient{
		GenerateResponseFunc: func(_ context.Context, prompt, _ string, temperature float64) (string, error) {
			assert.Contains(t, prompt, "hero section first")
			assert.InDelta(t, wireframeTemperature, temperature, 0.001)
			return "1. Hero\n2. Features", nil
		},
	}
	svc := NewBriefService(client, zap.NewNop())

	wireframe, err := svc.DraftWireframe(context.Background(), "hero section first, then features")

	require.NoError(t, err)
	assert.Equal(t, "1. Hero\n2. Features", wireframe)
}
