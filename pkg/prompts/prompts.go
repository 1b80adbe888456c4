// Package prompts holds the prompt templates for the AI assist features.
// Templates live in an embedded YAML file so copy changes don't touch code.
package prompts

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

type templates struct {
	BriefSystem     string `yaml:"brief_system"`
	BriefUser       string `yaml:"brief_user"`
	WireframeSystem string `yaml:"wireframe_system"`
	WireframeUser   string `yaml:"wireframe_user"`
	ImageAnalysis   string `yaml:"image_analysis"`
}

var loaded templates

func init() {
	if err := yaml.Unmarshal(templatesYAML, &loaded); err != nil {
		panic(fmt.Sprintf("prompts: invalid templates.yaml: %v", err))
	}
}

// BriefSystem returns the system message for brief generation.
func BriefSystem() string { return loaded.BriefSystem }

// BriefUser returns the user prompt for brief generation built from the
// chat transcript.
func BriefUser(transcript string) string {
	return fmt.Sprintf(loaded.BriefUser, transcript)
}

// WireframeSystem returns the system message for wireframe drafting.
func WireframeSystem() string { return loaded.WireframeSystem }

// WireframeUser returns the user prompt for wireframe drafting built from
// the project brief.
func WireframeUser(brief string) string {
	return fmt.Sprintf(loaded.WireframeUser, brief)
}

// ImageAnalysis returns the vision instruction for reference image analysis.
func ImageAnalysis() string { return loaded.ImageAnalysis }
