package testkit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// CountryRows is a small country → income group table with one skipped row and
// one unknown category
var CountryRows = [][]string{
	{"country", "iso3", "income_group", "skip"},
	{"Germany", "DEU", "High income", "false"},
	{"Brazil", "BRA", "Upper-middle income", ""},
	{"Kenya", "KEN", "Lower-middle income", "0"},
	{"India", "IND", "Lower-middle income", "no"},
	{"Antarctica", "ATA", "High income", "true"},
	{"Chad", "TCD", "Low income", ""},
}

// BoundaryCollection is a GeoJSON collection matching CountryRows by ISO code,
// except France, which matches nothing, and India, which matches by name only
const BoundaryCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Germany", "iso_a3": "DEU"}, "geometry": {"type": "Point", "coordinates": [10, 51]}},
    {"type": "Feature", "properties": {"name": "Brazil", "iso_a3": "BRA"}, "geometry": {"type": "Point", "coordinates": [-51, -10]}},
    {"type": "Feature", "properties": {"name": "Kenya", "iso_a3": "KEN"}, "geometry": {"type": "Point", "coordinates": [38, 0]}},
    {"type": "Feature", "properties": {"name": "india"}, "geometry": {"type": "Point", "coordinates": [78, 21]}},
    {"type": "Feature", "properties": {"name": "France", "iso_a3": "FRA"}, "geometry": {"type": "Point", "coordinates": [2, 46]}}
  ]
}`

// Fixture is a directory of generated input files
type Fixture struct {
	Dir            string
	DataCSV        string
	DataXLSX       string
	CountryCSV     string
	BoundariesJSON string
}

// NewFixture writes a complete set of inputs into dir
func NewFixture(dir string, config NDVIGeneratorConfig) (*Fixture, error) {
	rows := NewNDVIGenerator(config).Rows()
	f := &Fixture{
		Dir:            dir,
		DataCSV:        filepath.Join(dir, "ndvi_income_year.csv"),
		DataXLSX:       filepath.Join(dir, "ndvi_income_year.xlsx"),
		CountryCSV:     filepath.Join(dir, "countries.csv"),
		BoundariesJSON: filepath.Join(dir, "countries.geojson"),
	}

	if err := WriteCSV(f.DataCSV, rows); err != nil {
		return nil, err
	}
	if err := WriteXLSX(f.DataXLSX, rows); err != nil {
		return nil, err
	}
	if err := WriteCSV(f.CountryCSV, CountryRows); err != nil {
		return nil, err
	}
	if err := os.WriteFile(f.BoundariesJSON, []byte(BoundaryCollection), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write boundaries: %w", err)
	}
	return f, nil
}

// WriteCSV writes rows to path
func WriteCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteXLSX writes rows to the first sheet of a new workbook
func WriteXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
