package extract

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

var errNoGeoElement = errors.New("no geo microformat element")

// Coordinates reads the first span.geo microformat element and parses
// its "lat; lon" payload. Either both coordinates come out or neither.
func Coordinates(doc *goquery.Document) (Partial, error) {
	var p Partial

	geo := doc.Find("span.geo").First()
	if geo.Length() == 0 {
		return p, errNoGeoElement
	}

	lat, lon, err := parseGeoPair(cleanText(geo.Text()))
	if err != nil {
		return p, fmt.Errorf("malformed geo text: %w", err)
	}

	p.Latitude = &lat
	p.Longitude = &lon
	return p, nil
}
