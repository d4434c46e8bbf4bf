package extract

import (
	"github.com/a-mehta/wikiweather/internal/models"
)

// Partial holds the record fields a single extractor pass managed to
// derive. Fields the pass did not produce stay nil and never overwrite
// values merged from an earlier pass.
type Partial struct {
	Latitude              *float64
	Longitude             *float64
	ClimateType           *string
	AvgTemperatureCelsius *float64
	AnnualRainfallMM      *float64
	WeatherDescription    *string
}

// merge applies p onto record, first non-nil value wins per field.
func merge(record *models.WeatherRecord, p Partial) {
	if record.Latitude == nil && p.Latitude != nil {
		record.Latitude = p.Latitude
	}
	if record.Longitude == nil && p.Longitude != nil {
		record.Longitude = p.Longitude
	}
	if record.ClimateType == nil && p.ClimateType != nil {
		record.ClimateType = p.ClimateType
	}
	if record.AvgTemperatureCelsius == nil && p.AvgTemperatureCelsius != nil {
		record.AvgTemperatureCelsius = p.AvgTemperatureCelsius
	}
	if record.AnnualRainfallMM == nil && p.AnnualRainfallMM != nil {
		record.AnnualRainfallMM = p.AnnualRainfallMM
	}
	if record.WeatherDescription == nil && p.WeatherDescription != nil {
		record.WeatherDescription = p.WeatherDescription
	}
}
