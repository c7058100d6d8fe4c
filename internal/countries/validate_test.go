package countries

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validRecord(code, alpha3, name string) Record {
	return Record{
		FieldIsoAlpha2:  code,
		FieldIsoAlpha3:  alpha3,
		FieldIsoNumeric: "840",
		FieldFips:       "US",
		FieldName:       name,
		FieldCapital:    "Washington",
		FieldAreaKm2:    float64(9629091),
		FieldPopulation: float64(327167434),
		FieldContinent:  "NA",
	}
}

func TestValidateOk(t *testing.T) {
	records := []Record{
		validRecord("US", "USA", "United States"),
		validRecord("FR", "FRA", "France"),
	}
	require.NoError(t, Validate(records, 2))
}

func TestValidateEmptySet(t *testing.T) {
	err := Validate(nil, 0)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, ReasonEmptySet, verr.Reason)
}

func TestValidateDuplicateCode(t *testing.T) {
	records := []Record{
		validRecord("US", "USA", "United States"),
		validRecord("US", "USA", "United States Again"),
	}
	err := Validate(records, 0)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, ReasonDuplicateCode, verr.Reason)
	require.Equal(t, "US", verr.Code)
	require.Equal(t, 1, verr.Index)
}

func TestValidateMissingRequiredField(t *testing.T) {
	record := validRecord("US", "USA", "United States")
	record[FieldName] = ""

	err := Validate([]Record{record}, 0)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, ReasonMissingField, verr.Reason)
	require.Equal(t, FieldName, verr.Field)
	require.Equal(t, "US", verr.Code)
}

func TestValidateCodeLengths(t *testing.T) {
	record := validRecord("USA", "US", "United States")

	err := Validate([]Record{record}, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), string(ReasonBadCodeLength))
}

func TestValidateInvalidContinent(t *testing.T) {
	record := validRecord("US", "USA", "United States")
	record[FieldContinent] = "XX"

	err := Validate([]Record{record}, 0)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, ReasonInvalidContinent, verr.Reason)
}

func TestValidateTypeMismatch(t *testing.T) {
	record := validRecord("US", "USA", "United States")
	record[FieldPopulation] = "lots"

	err := Validate([]Record{record}, 0)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, ReasonTypeMismatch, verr.Reason)
	require.Equal(t, FieldPopulation, verr.Field)
}

func TestValidateOmittedOptionalFields(t *testing.T) {
	record := validRecord("AQ", "ATA", "Antarctica")
	record[FieldContinent] = "AN"
	delete(record, FieldCapital)
	delete(record, FieldPopulation)
	delete(record, FieldAreaKm2)
	delete(record, FieldFips)

	require.NoError(t, Validate([]Record{record}, 0))
}

func TestValidateCountBelowMinimum(t *testing.T) {
	records := []Record{
		validRecord("US", "USA", "United States"),
		validRecord("FR", "FRA", "France"),
	}
	err := Validate(records, 100)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, ReasonCountBelowMinimum, verr.Reason)
}

func TestValidateCollectsAllFailures(t *testing.T) {
	bad := validRecord("", "", "")
	worse := validRecord("DE", "DEU", "Germany")
	worse[FieldAreaKm2] = "big"

	err := Validate([]Record{bad, worse}, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), string(ReasonMissingField))
	require.Contains(t, err.Error(), string(ReasonTypeMismatch))
}
