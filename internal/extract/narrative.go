package extract

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxDescriptionLen = 500

var climateHeading = regexp.MustCompile(`(?i)climate|weather`)

var errNoClimateSection = errors.New("no climate section with paragraph text")

// Narrative finds the first level 2-3 heading matching climate/weather,
// collects the paragraph text that follows it up to the next heading,
// and classifies the climate type by keyword. The stored description is
// capped; classification runs over the full text.
func Narrative(doc *goquery.Document) (Partial, error) {
	var p Partial
	found := false

	doc.Find("h2, h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !climateHeading.MatchString(heading.Text()) {
			return true
		}

		text := sectionParagraphs(heading)
		if strings.TrimSpace(text) == "" {
			return true
		}

		desc := truncateRunes(cleanText(text), maxDescriptionLen)
		p.WeatherDescription = &desc

		if label, ok := classifyClimate(text); ok {
			p.ClimateType = &label
		}

		found = true
		return false
	})

	if !found {
		return p, errNoClimateSection
	}
	return p, nil
}

// sectionParagraphs walks the siblings after a heading, concatenating
// paragraph text until the next heading or the end of the section.
func sectionParagraphs(heading *goquery.Selection) string {
	var b strings.Builder
	for sib := heading.Next(); sib.Length() > 0; sib = sib.Next() {
		if sib.Is("h1, h2, h3, h4") {
			break
		}
		if sib.Is("p") {
			b.WriteString(sib.Text())
			b.WriteString(" ")
		}
	}
	return b.String()
}
