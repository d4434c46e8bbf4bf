package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ClimateTable scans wide month-per-column tables. An "average high" /
// "mean maximum" row yields the mean of up to 12 monthly values, a
// "rainfall" / "precipitation" row their sum, each rounded to one
// decimal. The first matching row across all candidate tables wins.
func ClimateTable(doc *goquery.Document) (Partial, error) {
	var p Partial

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if p.AvgTemperatureCelsius != nil && p.AnnualRainfallMM != nil {
			return
		}
		if !isClimateTable(table) {
			return
		}

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td, th")
			if cells.Length() < 2 {
				return
			}

			label := strings.ToLower(strings.TrimSpace(cells.First().Text()))
			switch {
			case (strings.Contains(label, "average high") || strings.Contains(label, "mean maximum")) &&
				p.AvgTemperatureCelsius == nil:
				if values := monthlyValues(rowCellTexts(cells)); len(values) > 0 {
					v := round1(mean(values))
					p.AvgTemperatureCelsius = &v
				}
			case (strings.Contains(label, "rainfall") || strings.Contains(label, "precipitation")) &&
				p.AnnualRainfallMM == nil:
				if values := monthlyValues(rowCellTexts(cells)); len(values) > 0 {
					v := round1(sum(values))
					p.AnnualRainfallMM = &v
				}
			}
		})
	})

	return p, nil
}

// isClimateTable reports whether a table looks like climate data: an
// explicit climate-table class, a climate/weather caption, or body text
// mentioning both temperature and rainfall.
func isClimateTable(table *goquery.Selection) bool {
	if table.HasClass("climate-table") {
		return true
	}

	caption := strings.ToLower(table.Find("caption").First().Text())
	if strings.Contains(caption, "climate") || strings.Contains(caption, "weather") {
		return true
	}

	text := strings.ToLower(table.Text())
	return strings.Contains(text, "temperature") && strings.Contains(text, "rainfall")
}

// rowCellTexts returns the trimmed text of every cell after the label.
func rowCellTexts(cells *goquery.Selection) []string {
	return cells.Slice(1, cells.Length()).Map(func(_ int, cell *goquery.Selection) string {
		return strings.TrimSpace(cell.Text())
	})
}
