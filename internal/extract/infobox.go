package extract

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxClimateTypeLen = 50

var errNoInfobox = errors.New("no infobox table")

// Infobox scans the label/data rows of the page infobox. A row labeled
// with "climate" contributes the climate type, a row labeled with
// "temperature" contributes the first decimal number in its data cell.
func Infobox(doc *goquery.Document) (Partial, error) {
	var p Partial

	infobox := doc.Find("table.infobox").First()
	if infobox.Length() == 0 {
		return p, errNoInfobox
	}

	infobox.Find("tr").Each(func(_ int, row *goquery.Selection) {
		label := row.Find("th").First()
		data := row.Find("td").First()
		if label.Length() == 0 || data.Length() == 0 {
			return
		}

		labelText := strings.ToLower(strings.TrimSpace(label.Text()))
		switch {
		case strings.Contains(labelText, "climate") && p.ClimateType == nil:
			if ct := truncateRunes(cleanText(data.Text()), maxClimateTypeLen); ct != "" {
				p.ClimateType = &ct
			}
		case strings.Contains(labelText, "temperature") && p.AvgTemperatureCelsius == nil:
			if v, ok := firstDecimal(data.Text()); ok {
				p.AvgTemperatureCelsius = &v
			}
		}
	})

	return p, nil
}
