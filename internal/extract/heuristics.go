package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var decimalPattern = regexp.MustCompile(`(\d+\.?\d*)`)

// firstDecimal returns the first decimal number appearing in s. For a
// range like "20–25" this yields the lower bound; callers rely on that.
func firstDecimal(s string) (float64, bool) {
	match := decimalPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseGeoPair parses a geo microformat payload of the form "lat; lon".
func parseGeoPair(s string) (float64, float64, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two semicolon-separated parts, got %d", len(parts))
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude %q: %w", strings.TrimSpace(parts[0]), err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude %q: %w", strings.TrimSpace(parts[1]), err)
	}
	return lat, lon, nil
}

// climateKeywords is checked in priority order against lower-cased text.
var climateKeywords = []struct {
	substring string
	label     string
}{
	{"desert", "Desert"},
	{"arid", "Arid"},
	{"subtropical", "Subtropical"},
}

// classifyClimate maps narrative text to a climate label by keyword.
func classifyClimate(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, kw := range climateKeywords {
		if strings.Contains(lower, kw.substring) {
			return kw.label, true
		}
	}
	return "", false
}

// monthlyValues extracts the first decimal from each of up to 12 monthly
// cells. Cells that yield no number are skipped. The positional 12-column
// window assumes the usual label-plus-months layout; a table with a
// leading annual column would be misread.
func monthlyValues(cells []string) []float64 {
	if len(cells) > 12 {
		cells = cells[:12]
	}
	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if v, ok := firstDecimal(cell); ok {
			values = append(values, v)
		}
	}
	return values
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// cleanText trims surrounding whitespace and normalizes to NFC, the
// canonical form every stored text field uses.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// truncateRunes caps s at n characters, not bytes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
