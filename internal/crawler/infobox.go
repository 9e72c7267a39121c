package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// infoboxSelector identifies the two-column summary table of an encyclopedia page
const infoboxSelector = "table.infobox"

// FieldTable maps a lowercase infobox label to its cleaned value
type FieldTable map[string]string

// ParseInfobox reads the first infobox of doc. A page without one yields an empty table.
// When a label repeats, the last row wins.
func ParseInfobox(doc *goquery.Document) FieldTable {
	table := FieldTable{}

	infobox := doc.Find(infoboxSelector).First()
	if infobox.Length() == 0 {
		return table
	}

	infobox.Find("tr").Each(func(_ int, row *goquery.Selection) {
		header := row.Find("th").First()
		value := row.Find("td").First()
		if header.Length() == 0 || value.Length() == 0 {
			return
		}

		key := strings.ToLower(CleanText(nodeText(header)))
		table[key] = CleanText(firstFragment(value))
	})

	return table
}

// Lookup returns the value of the first label present in the table, or NotAvailable
func (t FieldTable) Lookup(labels ...string) string {
	for _, label := range labels {
		if value, ok := t[label]; ok {
			return value
		}
	}
	return NotAvailable
}
