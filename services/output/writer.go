package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"sjsage522/robotscraper/internal/crawler"
	"sjsage522/robotscraper/pkg/errors"
)

// TimestampLayout formats last_updated; the zone suffix is always UTC
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// Document is the persisted output of a run
type Document struct {
	LastUpdated string                         `json:"last_updated"`
	Robots      map[string]crawler.RobotRecord `json:"robots"`
}

// FormatTimestamp renders t in UTC as "YYYY-MM-DD HH:MM:SS UTC"
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewDocument wraps the aggregated records with the run timestamp
func NewDocument(robots map[string]crawler.RobotRecord, now time.Time) Document {
	if robots == nil {
		robots = map[string]crawler.RobotRecord{}
	}
	return Document{
		LastUpdated: FormatTimestamp(now),
		Robots:      robots,
	}
}

// Encode renders doc as two-space indented JSON, leaving non-ASCII text and HTML
// characters unescaped
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write replaces the file at path with the document for robots
func Write(path string, robots map[string]crawler.RobotRecord, now time.Time) error {
	data, err := Encode(NewDocument(robots, now))
	if err != nil {
		return errors.NewOutput("failed to encode output document", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewOutput("failed to create output directory "+dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewOutput("failed to write "+path, err)
	}
	return nil
}
