// Package export writes the flat derived table for a region set and year
// range. Rows are a pure projection of already-computed data; nothing is
// recomputed here.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"econatlas/internal/engine"
)

var header = []string{"Region", "Year", "GDP", "GDP_PPP", "PriceLevelRatio"}

// Row is one exported line. Undefined values export as empty cells, not
// zeros.
type Row struct {
	Region    string
	Year      int
	Primary   engine.Value
	Secondary engine.Value
	Ratio     engine.Value
}

func cell(v engine.Value) string {
	if !v.Defined {
		return ""
	}
	return strconv.FormatFloat(v.V, 'f', -1, 64)
}

// WriteCSV streams the table as CSV.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Region,
			strconv.Itoa(r.Year),
			cell(r.Primary),
			cell(r.Secondary),
			cell(r.Ratio),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same table as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	for col, name := range header {
		ref, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, ref, name); err != nil {
			return err
		}
	}
	for i, r := range rows {
		values := []any{r.Region, r.Year, nil, nil, nil}
		if r.Primary.Defined {
			values[2] = r.Primary.V
		}
		if r.Secondary.Defined {
			values[3] = r.Secondary.V
		}
		if r.Ratio.Defined {
			values[4] = r.Ratio.V
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, ref, v); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// BuildRows projects the derived table for the given codes over
// [fromYear, toYear]. Codes without a series are skipped; years a series
// never saw are skipped too, undefined cells inside the range are kept.
func BuildRows(nominal, ppp *engine.Store, codes []string, fromYear, toYear int) []Row {
	var rows []Row
	for _, code := range codes {
		s, ok := nominal.Get(code)
		if !ok {
			continue
		}
		var p *engine.TimeSeries
		if ppp != nil {
			p, _ = ppp.Get(code)
		}
		for year := fromYear; year <= toYear; year++ {
			primary, present := s.Values[year]
			if !present {
				continue
			}
			row := Row{Region: s.Name, Year: year, Primary: primary}
			if p != nil {
				if v, ok := p.Values[year]; ok {
					row.Secondary = v
				}
				if v, ok := engine.Ratio(s, p, year); ok {
					row.Ratio = engine.Some(v)
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}
