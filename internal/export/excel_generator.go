package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/a-mehta/wikiweather/internal/logger"
	"github.com/a-mehta/wikiweather/internal/models"
)

// ReportGenerator renders extraction output as a tabular artifact for
// offline analysis, one row per record.
type ReportGenerator interface {
	Generate(ctx context.Context, records []models.WeatherRecord) ([]byte, error)
}

type ExcelGenerator struct {
	logger logger.Logger
}

func NewExcelGenerator(log logger.Logger) *ExcelGenerator {
	return &ExcelGenerator{
		logger: log.WithField("component", "excel_generator"),
	}
}

const sheetName = "Weather Data"

var headers = []string{
	"City", "Latitude", "Longitude", "Climate Type",
	"Avg Temperature (°C)", "Annual Rainfall (mm)",
	"Hottest Month", "Coldest Month", "Description",
	"Source", "Extracted At",
}

func (g *ExcelGenerator) Generate(ctx context.Context, records []models.WeatherRecord) ([]byte, error) {
	g.logger.Infof("Generating report for %d records", len(records))

	f := excelize.NewFile()
	defer f.Close()

	f.SetDocProps(&excelize.DocProperties{
		Title:       "City Climate Report",
		Subject:     "Extracted weather and climate data",
		Creator:     "wikiweather",
		Description: fmt.Sprintf("Climate records for %d cities", len(records)),
	})

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, record := range records {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Unset fields render as empty cells, never as placeholders.
		values := []interface{}{
			record.CityName,
			floatOrNil(record.Latitude),
			floatOrNil(record.Longitude),
			stringOrNil(record.ClimateType),
			floatOrNil(record.AvgTemperatureCelsius),
			floatOrNil(record.AnnualRainfallMM),
			stringOrNil(record.HottestMonth),
			stringOrNil(record.ColdestMonth),
			stringOrNil(record.WeatherDescription),
			record.DataSource,
			record.ExtractedAt.Format(time.RFC3339),
		}

		for col, value := range values {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	g.logger.Infof("Generated report with %d rows", len(records))
	return buf.Bytes(), nil
}

func floatOrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringOrNil(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
