package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/a-mehta/wikiweather/internal/logger"
	"github.com/a-mehta/wikiweather/internal/models"
)

// pass is one extraction heuristic applied to a parsed page.
type pass struct {
	name string
	run  func(*goquery.Document) (Partial, error)
}

// passes run in a fixed order; the ordered merge makes the order the
// precedence rule for fields more than one pass can produce.
var passes = []pass{
	{"coordinates", Coordinates},
	{"narrative", Narrative},
	{"infobox", Infobox},
	{"climate-table", ClimateTable},
}

// Runner applies every extraction pass to a parsed document and merges
// the partial results into a single record.
type Runner struct {
	logger logger.Logger
}

func NewRunner(log logger.Logger) *Runner {
	return &Runner{
		logger: log.WithField("component", "extractor"),
	}
}

// Extract builds a best-effort record for one city. A pass that finds
// nothing leaves its fields unset and is logged as a warning; it never
// fails the record.
func (r *Runner) Extract(cityName string, doc *goquery.Document) *models.WeatherRecord {
	record := models.NewWeatherRecord(cityName)

	for _, p := range passes {
		partial, err := p.run(doc)
		if err != nil {
			r.logger.Warnf("%s: %s pass: %v", cityName, p.name, err)
		}
		merge(record, partial)
	}

	return record
}
