package crawler

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// NotAvailable is written for every field a page does not provide
const NotAvailable = "N/A"

// Target is one page to scrape, keyed by its normalized robot name
type Target struct {
	Key string
	URL string
}

// Specs holds the headline specifications of a robot
type Specs struct {
	Weight  string `json:"Weight"`
	Payload string `json:"Payload"`
	Speed   string `json:"Speed"`
}

// ModuleInfo lists the components and suppliers of one robot subsystem
type ModuleInfo struct {
	Components []string `json:"components"`
	Suppliers  []string `json:"suppliers"`
}

// Modules groups the subsystems reported for a robot
type Modules struct {
	Perception ModuleInfo `json:"Perception"`
	Locomotion ModuleInfo `json:"Locomotion"`
}

// RobotRecord is the extracted description of a single robot
type RobotRecord struct {
	Name         string  `json:"name"`
	Manufacturer string  `json:"manufacturer"`
	Type         string  `json:"type"`
	Specs        Specs   `json:"specs"`
	Modules      Modules `json:"modules"`
}

// Extractor turns a fetched page into a RobotRecord. A record is only returned when
// extraction fully succeeded.
type Extractor interface {
	// Extract builds a record from the parsed page of target
	Extract(ctx context.Context, target Target, doc *goquery.Document) (*RobotRecord, error)

	// Name returns the strategy name for logging
	Name() string
}

// Crawler scrapes a target end to end: fetch, parse, extract
type Crawler interface {
	// Scrape returns the record for target or an error; never a partial record
	Scrape(ctx context.Context, target Target) (*RobotRecord, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string
}

// fillDefaults replaces empty scalars with NotAvailable and nil lists with empty ones
func (r *RobotRecord) fillDefaults() {
	for _, field := range []*string{
		&r.Name, &r.Manufacturer, &r.Type,
		&r.Specs.Weight, &r.Specs.Payload, &r.Specs.Speed,
	} {
		if *field == "" {
			*field = NotAvailable
		}
	}
	for _, m := range []*ModuleInfo{&r.Modules.Perception, &r.Modules.Locomotion} {
		if m.Components == nil {
			m.Components = []string{}
		}
		if m.Suppliers == nil {
			m.Suppliers = []string{}
		}
	}
}
