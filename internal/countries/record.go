package countries

import (
	"github.com/samber/lo"
)

// normalized column names of the geonames country table
const (
	FieldIsoAlpha2  = "iso_alpha2"
	FieldIsoAlpha3  = "iso_alpha3"
	FieldIsoNumeric = "iso_numeric"
	FieldFips       = "fips"
	FieldName       = "country_name"
	FieldCapital    = "capital"
	FieldAreaKm2    = "area_km2"
	FieldPopulation = "population"
	FieldContinent  = "continent"
)

// fields every record must carry, with a non-empty value
var RequiredFields = []string{
	FieldIsoAlpha2,
	FieldIsoAlpha3,
	FieldIsoNumeric,
	FieldName,
	FieldContinent,
}

// fields that must hold numbers when present
var NumericFields = []string{FieldAreaKm2, FieldPopulation}

var ValidContinents = []string{"AF", "AS", "EU", "NA", "SA", "OC", "AN"}

// Record is one row of the country table, keyed by normalized column
// name. Values are strings, except numeric columns which hold float64 —
// the same shape a JSON round trip of the snapshot file produces, so
// freshly extracted records compare equal to reloaded ones.
type Record map[string]any

func (r Record) stringField(key string) string {
	v, ok := r[key].(string)
	if !ok {
		return ""
	}
	return v
}

// Code returns the two-letter ISO-3166 alpha2 identifier of the record.
func (r Record) Code() string {
	return r.stringField(FieldIsoAlpha2)
}

// Name returns the display name of the country.
func (r Record) Name() string {
	return r.stringField(FieldName)
}

// Codes returns the codes of the given records, in order.
func Codes(records []Record) []string {
	return lo.Map(records, func(r Record, _ int) string {
		return r.Code()
	})
}
