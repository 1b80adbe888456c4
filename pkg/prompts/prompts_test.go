package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesLoad(t *testing.T) {
	require.NotEmpty(t, BriefSystem())
	require.NotEmpty(t, WireframeSystem())
	require.NotEmpty(t, ImageAnalysis())
}

func TestBriefUser_EmbedsTranscript(t *testing.T) {
	prompt := BriefUser("client: we need a landing page")
	assert.Contains(t, prompt, "client: we need a landing page")
	assert.False(t, strings.Contains(prompt, "%s"), "placeholder must be substituted")
}

func TestWireframeUser_EmbedsBrief(t *testing.T) {
	prompt := WireframeUser("Objective: launch page for spring capsule")
	assert.Contains(t, prompt, "Objective: launch page for spring capsule")
	assert.False(t, strings.Contains(prompt, "%s"))
}
