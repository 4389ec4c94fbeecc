package chat

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed persona.yaml
var personaYAML []byte

const linkPlaceholder = "{{link}}"

// Persona holds the widget's voice: the system prompt and the scripted
// lines used when the model yields no prose or a tool goes sideways.
type Persona struct {
	SystemPrompt string            `yaml:"system_prompt"`
	Replies      map[string]string `yaml:"replies"`
	Fallback     string            `yaml:"fallback"`
	SoftFailure  string            `yaml:"soft_failure"`
}

func loadPersona() (*Persona, error) {
	var p Persona
	if err := yaml.Unmarshal(personaYAML, &p); err != nil {
		return nil, fmt.Errorf("failed to parse persona: %w", err)
	}
	if p.SystemPrompt == "" || p.Fallback == "" || p.SoftFailure == "" {
		return nil, fmt.Errorf("persona is missing required sections")
	}
	for _, tool := range []string{ToolQualifyAndSchedule, ToolQualifyLead} {
		if strings.TrimSpace(p.Replies[tool]) == "" {
			return nil, fmt.Errorf("persona is missing a reply for %s", tool)
		}
	}
	return &p, nil
}

// ReplyFor returns the scripted reply for a tool, with the scheduling
// link substituted when the template carries the placeholder.
func (p *Persona) ReplyFor(tool, link string) string {
	reply, ok := p.Replies[tool]
	if !ok {
		return strings.TrimSpace(p.Fallback)
	}
	return strings.TrimSpace(strings.ReplaceAll(reply, linkPlaceholder, link))
}
