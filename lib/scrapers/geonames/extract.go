package geonames

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hcsolakoglu/country-list-updated-weekly/internal/countries"
	"github.com/hcsolakoglu/country-list-updated-weekly/lib/htmlutil"
	"github.com/hcsolakoglu/country-list-updated-weekly/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ExtractionError means the page no longer looks the way we expect it
// to: the table or a column is gone, or a data row is malformed.
type ExtractionError struct {
	Reason string
	// table row index, -1 when the failure is not tied to a row
	Row int
}

func (e *ExtractionError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("extract countries: %s (row %d)", e.Reason, e.Row)
	}
	return fmt.Sprintf("extract countries: %s", e.Reason)
}

// source page headers mapped to snapshot keys. headers not listed here
// are carried over snake_cased.
var headerKeys = map[string]string{
	"ISO-3166 alpha2":  countries.FieldIsoAlpha2,
	"ISO-3166 alpha3":  countries.FieldIsoAlpha3,
	"ISO-3166 numeric": countries.FieldIsoNumeric,
	"fips":             countries.FieldFips,
	"Country":          countries.FieldName,
	"Capital":          countries.FieldCapital,
	"Area in km²":      countries.FieldAreaKm2,
	"Population":       countries.FieldPopulation,
	"Continent":        countries.FieldContinent,
}

// Extract parses the countries table into records, preserving the row
// order of the page. Rows that do not have the full column count are
// structural noise and skipped; rows that look like data but lack a code
// or name fail the extraction.
func Extract(ctx context.Context, html string) ([]countries.Record, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.SetStatus(codes.Error, "unparseable html")
		return nil, &ExtractionError{Reason: fmt.Sprintf("parse html: %s", err), Row: -1}
	}

	table := doc.Find("table#countries")
	if table.Length() == 0 {
		span.SetStatus(codes.Error, "countries table not found")
		return nil, &ExtractionError{Reason: "countries table not found", Row: -1}
	}

	rows := table.Find("tr")
	columns := headerColumns(rows.First())
	if len(columns) == 0 {
		span.SetStatus(codes.Error, "header row not found")
		return nil, &ExtractionError{Reason: "header row not found", Row: -1}
	}
	for _, required := range countries.RequiredFields {
		if !slices.Contains(columns, required) {
			span.SetStatus(codes.Error, "expected column missing")
			return nil, &ExtractionError{
				Reason: fmt.Sprintf("expected column %q missing, page structure changed?", required),
				Row:    -1,
			}
		}
	}

	var records []countries.Record
	var rowErr *ExtractionError
	rows.Each(func(i int, row *goquery.Selection) {
		if rowErr != nil || i == 0 {
			return
		}

		cells := row.Find("td")
		// header, separator and nested rows don't carry the full column
		// count; they are not data, not errors
		if cells.Length() != len(columns) {
			return
		}

		record := countries.Record{}
		cells.Each(func(j int, cell *goquery.Selection) {
			key := columns[j]
			value := htmlutil.CellText(cell)
			if key == countries.FieldIsoAlpha2 || key == countries.FieldIsoAlpha3 {
				value = textutil.NormalizeCode(value)
			}
			if value == "" {
				return
			}
			if slices.Contains(countries.NumericFields, key) {
				record[key] = parseNumber(value)
				return
			}
			record[key] = value
		})

		if record.Code() == "" || record.Name() == "" {
			rowErr = &ExtractionError{Reason: "data row missing code or name", Row: i}
			return
		}
		records = append(records, record)
	})
	if rowErr != nil {
		span.SetStatus(codes.Error, rowErr.Reason)
		return nil, rowErr
	}

	// zero countries is a broken scrape, never a valid result
	if len(records) == 0 {
		span.SetStatus(codes.Error, "no data rows")
		return nil, &ExtractionError{Reason: "no data rows in countries table", Row: -1}
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

func headerColumns(headerRow *goquery.Selection) []string {
	var columns []string
	headerRow.Find("th").Each(func(_ int, th *goquery.Selection) {
		header := htmlutil.CellText(th)
		key, known := headerKeys[header]
		if !known {
			key = textutil.SnakeCase(header)
		}
		columns = append(columns, key)
	})
	return columns
}

// parseNumber strips digit grouping and parses the cell as a number.
// unparseable text is kept verbatim so the validator can flag it instead
// of it silently becoming zero.
func parseNumber(value string) any {
	cleaned := strings.ReplaceAll(value, ",", "")
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return value
	}
	return n
}
