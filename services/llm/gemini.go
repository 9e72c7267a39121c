package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// safetyCategories are relaxed together; robot hardware pages do not fall into them
var safetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

var thresholds = map[string]genai.HarmBlockThreshold{
	"BLOCK_NONE":             genai.HarmBlockThresholdBlockNone,
	"BLOCK_ONLY_HIGH":        genai.HarmBlockThresholdBlockOnlyHigh,
	"BLOCK_MEDIUM_AND_ABOVE": genai.HarmBlockThresholdBlockMediumAndAbove,
	"BLOCK_LOW_AND_ABOVE":    genai.HarmBlockThresholdBlockLowAndAbove,
	"OFF":                    genai.HarmBlockThresholdOff,
}

// GeminiConfig configures the Gemini generator
type GeminiConfig struct {
	APIKey    string
	Model     string
	Threshold string
}

// GeminiGenerator implements Generator with the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// ParseThreshold maps a configured threshold name to the API value
func ParseThreshold(name string) (genai.HarmBlockThreshold, error) {
	threshold, ok := thresholds[strings.ToUpper(name)]
	if !ok {
		return "", fmt.Errorf("unknown safety threshold %q", name)
	}
	return threshold, nil
}

// SafetySettings applies threshold to every relaxed category
func SafetySettings(threshold genai.HarmBlockThreshold) []*genai.SafetySetting {
	settings := make([]*genai.SafetySetting, 0, len(safetyCategories))
	for _, category := range safetyCategories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}
	return settings
}

// NewGeminiGenerator creates a Gemini API client
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	threshold, err := ParseThreshold(cfg.Threshold)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  cfg.Model,
		config: &genai.GenerateContentConfig{
			SafetySettings: SafetySettings(threshold),
		},
	}, nil
}

// Generate sends prompt as a single user turn
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*Generation, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return nil, fmt.Errorf("generate content with %s: %w", g.model, err)
	}
	return toGeneration(resp), nil
}

// toGeneration flattens a response into text plus diagnostics
func toGeneration(resp *genai.GenerateContentResponse) *Generation {
	gen := &Generation{}
	var feedback []string

	if pf := resp.PromptFeedback; pf != nil {
		if pf.BlockReason != "" {
			gen.BlockReason = string(pf.BlockReason)
			feedback = append(feedback, "block_reason="+gen.BlockReason)
		}
		if pf.BlockReasonMessage != "" {
			feedback = append(feedback, "block_message="+pf.BlockReasonMessage)
		}
		feedback = append(feedback, describeRatings(pf.SafetyRatings)...)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		candidate := resp.Candidates[0]
		gen.FinishReason = string(candidate.FinishReason)
		if gen.FinishReason != "" {
			feedback = append(feedback, "finish_reason="+gen.FinishReason)
		}
		feedback = append(feedback, describeRatings(candidate.SafetyRatings)...)

		if candidate.Content != nil {
			var text strings.Builder
			for _, part := range candidate.Content.Parts {
				if part != nil && !part.Thought {
					text.WriteString(part.Text)
				}
			}
			gen.Text = text.String()
		}
	} else {
		feedback = append(feedback, "no candidates")
	}

	gen.Feedback = strings.Join(feedback, " ")
	return gen
}

func describeRatings(ratings []*genai.SafetyRating) []string {
	var out []string
	for _, r := range ratings {
		if r == nil {
			continue
		}
		desc := fmt.Sprintf("%s=%s", r.Category, r.Probability)
		if r.Blocked {
			desc += "(blocked)"
		}
		out = append(out, desc)
	}
	return out
}
