package crawler

import (
	"bufio"
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"sjsage522/robotscraper/logger"
	"sjsage522/robotscraper/pkg/errors"
)

// staticPages is the built-in target list, in scrape order
var staticPages = []string{
	"Spot_(robot)",
	"Atlas_(robot)",
	"ASIMO",
	"Optimus_(robot)",
	"Digit_(robot)",
}

// NormalizeKey turns a page identifier into the key used in the output document
func NormalizeKey(identifier string) string {
	key := strings.ToLower(identifier)
	key = strings.ReplaceAll(key, "_(robot)", "")
	return strings.ReplaceAll(key, "_", " ")
}

// newTarget builds a target for a page identifier under baseURL
func newTarget(baseURL, identifier string) Target {
	return Target{
		Key: NormalizeKey(identifier),
		URL: baseURL + identifier,
	}
}

// StaticTargets returns the built-in targets
func StaticTargets(baseURL string) []Target {
	targets := make([]Target, 0, len(staticPages))
	for _, page := range staticPages {
		targets = append(targets, newTarget(baseURL, page))
	}
	return targets
}

// LoadTargetsFromFile reads one page identifier per line, skipping blank lines.
// A missing file is reported and yields no targets.
func LoadTargetsFromFile(path, baseURL string) ([]Target, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Warn("Target list %s not found, nothing to scrape", path)
			return []Target{}, nil
		}
		return nil, errors.NewSource("failed to open target list "+path, err)
	}
	defer f.Close()

	targets := []Target{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		identifier := strings.TrimSpace(scanner.Text())
		if identifier == "" {
			continue
		}
		targets = append(targets, newTarget(baseURL, identifier))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewSource("failed to read target list "+path, err)
	}

	return targets, nil
}
