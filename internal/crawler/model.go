package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sjsage522/robotscraper/helpers"
	"sjsage522/robotscraper/logger"
	"sjsage522/robotscraper/pkg/errors"
	"sjsage522/robotscraper/services/llm"

	"github.com/PuerkitoBio/goquery"
)

// nonVisibleSelector matches elements whose text is never rendered
const nonVisibleSelector = "head, script, style, noscript, template"

const promptTemplate = `You are extracting structured data about a robot from an encyclopedia page.
Return exactly one JSON object with this shape and these field names:

{
  "name": "Full robot name, e.g. Spot",
  "manufacturer": "Company that builds it, e.g. Boston Dynamics",
  "type": "Kind of robot, e.g. Quadruped robot",
  "specs": {
    "Weight": "Mass with unit, e.g. 32.5 kg",
    "Payload": "Carrying capacity with unit, e.g. 14 kg",
    "Speed": "Top speed with unit, e.g. 1.6 m/s"
  },
  "modules": {
    "Perception": {
      "components": ["e.g. Stereo cameras", "e.g. LiDAR"],
      "suppliers": ["e.g. Intel"]
    },
    "Locomotion": {
      "components": ["e.g. Electric actuators", "e.g. Legs"],
      "suppliers": ["e.g. Boston Dynamics"]
    }
  }
}

Rules:
- Use the string "N/A" for any value the text does not state.
- Use empty lists when no components or suppliers are known.
- Output only the JSON object. No explanations, no markdown, no code fences.

Page text:
%s`

// ModelExtractor delegates extraction to a generative text model
type ModelExtractor struct {
	Generator       llm.Generator
	MaxPageChars    int
	Timeout         time.Duration
	StripCodeFences bool
}

// NewModelExtractor creates a model-based extractor
func NewModelExtractor(generator llm.Generator, maxPageChars int, timeout time.Duration, stripCodeFences bool) *ModelExtractor {
	return &ModelExtractor{
		Generator:       generator,
		MaxPageChars:    maxPageChars,
		Timeout:         timeout,
		StripCodeFences: stripCodeFences,
	}
}

// Name returns the strategy name
func (e *ModelExtractor) Name() string {
	return "model"
}

// Extract sends the page's visible text to the model and parses the JSON it returns
func (e *ModelExtractor) Extract(ctx context.Context, target Target, doc *goquery.Document) (*RobotRecord, error) {
	log := logger.ForExtractor(e.Name()).WithField("target", target.Key)

	text := helpers.TruncateRunes(VisibleText(doc), e.MaxPageChars)
	prompt := BuildPrompt(text)

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	gen, err := e.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, errors.NewExtraction(target.Key, "model call failed", err)
	}
	if gen == nil {
		return nil, errors.NewExtraction(target.Key, "model returned no generation", nil)
	}

	if gen.Blocked() {
		log.Warn().Str("feedback", gen.Feedback).Msg("Model response blocked")
		return nil, errors.NewSafety(target.Key, "model response blocked: "+gen.Feedback)
	}

	record, err := ParseModelResponse(gen.Text, e.StripCodeFences)
	if err != nil {
		log.Warn().Str("feedback", gen.Feedback).Str("response", helpers.TruncateRunes(gen.Text, 200)).Msg("Unparsable model response")
		return nil, errors.NewExtraction(target.Key, "model response is not a JSON object", err)
	}

	return record, nil
}

// VisibleText returns the rendered text of doc, one space between text nodes
func VisibleText(doc *goquery.Document) string {
	sel := doc.Selection.Clone()
	sel.Find(nonVisibleSelector).Remove()

	var parts []string
	for _, n := range sel.Nodes {
		parts = appendTextNodes(parts, n)
	}
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(strings.Join(parts, " "), " "))
}

// BuildPrompt builds the extraction instruction for the given page text
func BuildPrompt(pageText string) string {
	return fmt.Sprintf(promptTemplate, pageText)
}

// ParseModelResponse decodes a model reply that must be a bare JSON object.
// With stripFences, a single surrounding ``` or ```json fence is removed first;
// any other surrounding text is still rejected.
func ParseModelResponse(text string, stripFences bool) (*RobotRecord, error) {
	body := strings.TrimSpace(text)
	if stripFences {
		body = stripCodeFence(body)
	}

	if !strings.HasPrefix(body, "{") {
		return nil, fmt.Errorf("response does not start with a JSON object")
	}

	var record RobotRecord
	if err := json.Unmarshal([]byte(body), &record); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	record.fillDefaults()
	return &record, nil
}

// stripCodeFence removes a fence that wraps the whole reply
func stripCodeFence(body string) string {
	if !strings.HasPrefix(body, "```") || !strings.HasSuffix(body, "```") || len(body) < 6 {
		return body
	}

	inner := strings.TrimSuffix(body, "```")
	firstLine, rest, found := strings.Cut(inner, "\n")
	if !found {
		return body
	}

	lang := strings.TrimSpace(strings.TrimPrefix(firstLine, "```"))
	if lang != "" && !strings.EqualFold(lang, "json") {
		return body
	}
	return strings.TrimSpace(rest)
}
