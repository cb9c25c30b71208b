package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/foomo/recorddescription-mcp/marc"
)

// subfieldMarker matches "|a" style subfield codes in a staff view cell.
var subfieldMarker = regexp.MustCompile(`(?:^|\s)\|(\S)`)

// Record downloads a catalog staff view and reads the MARC table found by
// selector.
func Record(ctx context.Context, httpClient *http.Client, url, selector string) (*marc.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download HTML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	return ParseRecord(resp.Body, selector)
}

// ParseRecord reads the MARC table of a staff view page. Each row holds the
// tag in a th cell followed either by the control field value or by both
// indicators and the subfields:
//
//	<tr><th>245</th><td>1</td><td>0</td><td><strong>|a</strong> Title <strong>|b</strong> Subtitle</td></tr>
func ParseRecord(r io.Reader, selector string) (*marc.Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table, err := extractNodeBySelector(doc, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to extract node with selector '%s': %w", selector, err)
	}

	record := &marc.Record{}
	for _, row := range findAllByTag(table, "tr") {
		cells := childElements(row, "th", "td")
		if len(cells) < 2 {
			continue
		}
		tag := cellText(cells[0])
		switch {
		case strings.EqualFold(tag, "LEADER"):
			record.Leader = cellText(cells[1])
		case len(tag) != 3:
			continue
		case len(cells) == 2:
			record.Fields = append(record.Fields, &marc.ControlField{Tag: tag, Value: cellText(cells[1])})
		case len(cells) >= 4:
			record.Fields = append(record.Fields, &marc.DataField{
				Tag:       tag,
				Ind1:      indicator(cellText(cells[1])),
				Ind2:      indicator(cellText(cells[2])),
				Subfields: parseSubfields(cellText(cells[3])),
			})
		}
	}
	if len(record.Fields) == 0 {
		return nil, fmt.Errorf("%w: no MARC rows below '%s'", marc.ErrInvalidRecord, selector)
	}
	return record, nil
}

func parseSubfields(text string) []marc.Subfield {
	var subfields []marc.Subfield
	matches := subfieldMarker.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		subfields = append(subfields, marc.Subfield{
			Code:  text[m[2]:m[3]],
			Value: strings.TrimSpace(text[m[1]:end]),
		})
	}
	return subfields
}

func cellText(n *html.Node) string {
	text := strings.ReplaceAll(textContent(n), "\u00a0", " ")
	return norm.NFC.String(strings.TrimSpace(text))
}

// indicator maps the blank placeholders used by staff views to a space.
func indicator(s string) byte {
	switch s {
	case "", "_", "#":
		return ' '
	}
	return s[0]
}
