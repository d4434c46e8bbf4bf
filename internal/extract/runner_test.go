package extract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-mehta/wikiweather/internal/logger"
)

func newTestRunner() *Runner {
	return NewRunner(logger.NewWithWriter("error", &bytes.Buffer{}))
}

func TestRunnerExtract(t *testing.T) {
	t.Run("full page populates every field", func(t *testing.T) {
		doc := parseDoc(t, `<html><body>
			<span class="geo">25.2048; 55.2708</span>
			<table class="infobox">
				<tr><th>Climate</th><td>BWh</td></tr>
			</table>
			<h2>Climate</h2>
			<p>The city has a hot desert climate with very little rain.</p>
			<table class="climate-table">
				<tr><th>Average high °C</th><td>24</td><td>28</td></tr>
				<tr><th>Rainfall mm</th><td>11</td><td>36.5</td></tr>
			</table>
		</body></html>`)

		record := newTestRunner().Extract("Dubai", doc)

		assert.Equal(t, "Dubai", record.CityName)
		require.NotNil(t, record.Latitude)
		assert.Equal(t, 25.2048, *record.Latitude)
		require.NotNil(t, record.Longitude)
		assert.Equal(t, 55.2708, *record.Longitude)
		require.NotNil(t, record.ClimateType)
		assert.Equal(t, "Desert", *record.ClimateType)
		require.NotNil(t, record.AvgTemperatureCelsius)
		assert.Equal(t, 26.0, *record.AvgTemperatureCelsius)
		require.NotNil(t, record.AnnualRainfallMM)
		assert.Equal(t, 47.5, *record.AnnualRainfallMM)
		require.NotNil(t, record.WeatherDescription)
		assert.Contains(t, *record.WeatherDescription, "hot desert climate")
	})

	t.Run("narrative climate type beats infobox", func(t *testing.T) {
		doc := parseDoc(t, `<html><body>
			<table class="infobox">
				<tr><th>Climate</th><td>BWh</td></tr>
			</table>
			<h2>Climate</h2>
			<p>A hot desert climate prevails.</p>
		</body></html>`)

		record := newTestRunner().Extract("Dubai", doc)

		require.NotNil(t, record.ClimateType)
		assert.Equal(t, "Desert", *record.ClimateType)
	})

	t.Run("infobox climate type used when narrative has none", func(t *testing.T) {
		doc := parseDoc(t, `<html><body>
			<table class="infobox">
				<tr><th>Climate</th><td>BWh</td></tr>
			</table>
			<h2>Climate</h2>
			<p>Warm throughout the year.</p>
		</body></html>`)

		record := newTestRunner().Extract("Dubai", doc)

		require.NotNil(t, record.ClimateType)
		assert.Equal(t, "BWh", *record.ClimateType)
		require.NotNil(t, record.WeatherDescription)
		assert.Contains(t, *record.WeatherDescription, "Warm throughout")
	})

	t.Run("infobox temperature beats climate table", func(t *testing.T) {
		doc := parseDoc(t, `<html><body>
			<table class="infobox">
				<tr><th>Mean annual temperature</th><td>27.5 °C</td></tr>
			</table>
			<table class="climate-table">
				<tr><th>Average high</th><td>40</td><td>42</td></tr>
			</table>
		</body></html>`)

		record := newTestRunner().Extract("Dubai", doc)

		require.NotNil(t, record.AvgTemperatureCelsius)
		assert.Equal(t, 27.5, *record.AvgTemperatureCelsius)
	})

	t.Run("bare page yields a record with only the city name", func(t *testing.T) {
		doc := parseDoc(t, `<html><body>
			<h2>History</h2>
			<p>Founded as a fishing village.</p>
		</body></html>`)

		record := newTestRunner().Extract("Umm Al Quwain", doc)

		assert.Equal(t, "Umm Al Quwain", record.CityName)
		assert.Nil(t, record.Latitude)
		assert.Nil(t, record.Longitude)
		assert.Nil(t, record.ClimateType)
		assert.Nil(t, record.AvgTemperatureCelsius)
		assert.Nil(t, record.AnnualRainfallMM)
		assert.Nil(t, record.WeatherDescription)
		assert.Nil(t, record.HottestMonth)
		assert.Nil(t, record.ColdestMonth)
	})
}
