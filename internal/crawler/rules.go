package crawler

import (
	"context"

	"sjsage522/robotscraper/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// titleSelector is the first-level page heading
const titleSelector = "h1#firstHeading"

// fieldLabels lists the infobox labels tried, in order, for each field
var fieldLabels = struct {
	Manufacturer []string
	Type         []string
	Weight       []string
	Payload      []string
	Speed        []string
}{
	Manufacturer: []string{"manufacturer"},
	Type:         []string{"type"},
	Weight:       []string{"weight", "mass"},
	Payload:      []string{"payload"},
	Speed:        []string{"speed"},
}

// RuleExtractor builds records from the page heading and infobox table
type RuleExtractor struct{}

// NewRuleExtractor creates a rule-based extractor
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// Name returns the strategy name
func (e *RuleExtractor) Name() string {
	return "rules"
}

// Extract reads name from the page heading and the remaining fields from the infobox.
// Modules are always the placeholder lists; pages carry no component data to parse.
func (e *RuleExtractor) Extract(_ context.Context, target Target, doc *goquery.Document) (*RobotRecord, error) {
	heading := doc.Find(titleSelector).First()
	if heading.Length() == 0 {
		return nil, errors.NewParsing(target.Key, "page heading "+titleSelector+" not found", nil)
	}

	fields := ParseInfobox(doc)

	record := &RobotRecord{
		Name:         CleanText(heading.Text()),
		Manufacturer: fields.Lookup(fieldLabels.Manufacturer...),
		Type:         fields.Lookup(fieldLabels.Type...),
		Specs: Specs{
			Weight:  fields.Lookup(fieldLabels.Weight...),
			Payload: fields.Lookup(fieldLabels.Payload...),
			Speed:   fields.Lookup(fieldLabels.Speed...),
		},
		Modules: PlaceholderModules(),
	}
	return record, nil
}

// PlaceholderModules returns the fixed module lists used by rule-based extraction
func PlaceholderModules() Modules {
	return Modules{
		Perception: ModuleInfo{
			Components: []string{"Cameras", "IMU", "Sensors"},
			Suppliers:  []string{"Various"},
		},
		Locomotion: ModuleInfo{
			Components: []string{"Actuators", "Legs", "Motors"},
			Suppliers:  []string{"Various"},
		},
	}
}
