package utils

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type AIConfig struct {
	APIKey   string
	GenModel string
}

func NewAIClient(ctx context.Context, cfg AIConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
}

func GenerateText(ctx context.Context, client *genai.Client, model string, parts ...genai.Part) (string, error) {
	m := client.GenerativeModel(model)
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if resp != nil {
		for _, c := range resp.Candidates {
			if c == nil || c.Content == nil {
				continue
			}
			for _, p := range c.Content.Parts {
				if t, ok := p.(genai.Text); ok {
					b.WriteString(string(t))
				}
			}
		}
	}
	return StripFences(b.String()), nil
}

// StripFences removes a surrounding markdown code fence from model output.
func StripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 && !strings.Contains(t[:i], " ") {
		t = t[i+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// CompanyFacts is what a draft prompt may mention about a company.
type CompanyFacts struct {
	Name             string
	Industry         string
	OrganizationType string
	TeamSize         string
	Description      string
}

// DraftPrompt builds the instruction for drafting the "about" or "vision"
// text of a company profile.
func DraftPrompt(field string, f CompanyFacts) string {
	var b strings.Builder
	switch field {
	case "vision":
		b.WriteString("Write a one-paragraph company vision statement (max 60 words).\n")
	default:
		b.WriteString("Write a short 'About us' paragraph for a company profile (max 120 words).\n")
	}
	b.WriteString("Plain text only, no markdown, no headings, no placeholders.\n")
	b.WriteString("Company: " + f.Name + "\n")
	if f.Industry != "" {
		b.WriteString("Industry: " + f.Industry + "\n")
	}
	if f.OrganizationType != "" {
		b.WriteString("Organization type: " + f.OrganizationType + "\n")
	}
	if f.TeamSize != "" {
		b.WriteString("Team size: " + f.TeamSize + "\n")
	}
	if f.Description != "" && field == "vision" {
		b.WriteString("About the company: " + f.Description + "\n")
	}
	return b.String()
}

// GeminiDrafter drafts profile text with a fresh Gemini client per call.
type GeminiDrafter struct {
	Config AIConfig
}

func (d GeminiDrafter) Draft(ctx context.Context, field string, f CompanyFacts) (string, error) {
	client, err := NewAIClient(ctx, d.Config)
	if err != nil {
		return "", err
	}
	defer client.Close()
	return GenerateText(ctx, client, d.Config.GenModel, genai.Text(DraftPrompt(field, f)))
}
