package prompts

import (
	"fmt"
	"strings"

	"copy_ai_server/internal/types"
)

// Placeholder tokens recognised in user templates.
const (
	PlaceholderLength         = "{{length}}"
	PlaceholderProductName    = "{{productName}}"
	PlaceholderTargetAudience = "{{targetAudience}}"
	PlaceholderFeatures       = "{{features}}"
	PlaceholderTone           = "{{tone}}"
)

// Build renders the user prompt for cfg. Values are inserted verbatim.
// strings.Replacer scans the template once, so a value that itself contains
// a placeholder token is not expanded again.
func Build(cfg types.GenerationConfig) (string, error) {
	tmpl, err := Lookup(cfg.ContentType)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}
	r := strings.NewReplacer(
		PlaceholderLength, string(cfg.Length),
		PlaceholderProductName, cfg.ProductName,
		PlaceholderTargetAudience, cfg.TargetAudience,
		PlaceholderFeatures, cfg.Features,
		PlaceholderTone, string(cfg.Tone),
	)
	return r.Replace(tmpl.UserTemplate), nil
}

// SystemInstruction returns the instruction a session for cfg's content type
// must be created with.
func SystemInstruction(contentType types.ContentType) (string, error) {
	tmpl, err := Lookup(contentType)
	if err != nil {
		return "", err
	}
	return tmpl.SystemInstruction, nil
}

// DisplayMessage is the short summary shown in the conversation in place of
// the full prompt.
func DisplayMessage(cfg types.GenerationConfig) string {
	return fmt.Sprintf("Generate a %s %s for \"%s\" with a %s tone.", cfg.Length, cfg.ContentType, cfg.ProductName, cfg.Tone)
}
