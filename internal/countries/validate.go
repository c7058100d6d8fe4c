package countries

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type Reason string

const (
	ReasonEmptySet          Reason = "empty record set"
	ReasonDuplicateCode     Reason = "duplicate country code"
	ReasonMissingField      Reason = "missing required field"
	ReasonBadCodeLength     Reason = "bad code length"
	ReasonInvalidContinent  Reason = "invalid continent code"
	ReasonTypeMismatch      Reason = "type mismatch"
	ReasonCountBelowMinimum Reason = "record count below minimum"
)

// ValidationError is a single data quality failure, carrying enough
// context to locate the offending record and field.
type ValidationError struct {
	Reason Reason
	// index of the record in the extracted set, -1 for set-wide failures
	Index  int
	Code   string
	Field  string
	Detail string
}

func (e ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "validation failed: %s", e.Reason)
	if e.Index >= 0 {
		fmt.Fprintf(&b, " (record %d", e.Index)
		if e.Code != "" {
			fmt.Fprintf(&b, ", code %q", e.Code)
		}
		if e.Field != "" {
			fmt.Fprintf(&b, ", field %q", e.Field)
		}
		b.WriteString(")")
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

// Validate checks the shape and plausibility of an extracted record set.
// All failures are collected and returned joined, so a single run is
// enough to diagnose a broken scrape. minExpected guards against silent
// partial scrapes; 0 disables the check.
func Validate(records []Record, minExpected int) error {
	if len(records) == 0 {
		return ValidationError{Reason: ReasonEmptySet, Index: -1}
	}

	var errlist []error

	if minExpected > 0 && len(records) < minExpected {
		errlist = append(errlist, ValidationError{
			Reason: ReasonCountBelowMinimum,
			Index:  -1,
			Detail: fmt.Sprintf("got %d records, expected at least %d", len(records), minExpected),
		})
	}

	seen := map[string]int{}
	for i, record := range records {
		code := record.Code()

		for _, field := range RequiredFields {
			if record.stringField(field) == "" {
				errlist = append(errlist, ValidationError{
					Reason: ReasonMissingField,
					Index:  i,
					Code:   code,
					Field:  field,
				})
			}
		}

		if code != "" {
			if prev, dup := seen[code]; dup {
				errlist = append(errlist, ValidationError{
					Reason: ReasonDuplicateCode,
					Index:  i,
					Code:   code,
					Detail: fmt.Sprintf("already used by record %d", prev),
				})
			} else {
				seen[code] = i
			}

			if len(code) != 2 {
				errlist = append(errlist, ValidationError{
					Reason: ReasonBadCodeLength,
					Index:  i,
					Code:   code,
					Field:  FieldIsoAlpha2,
					Detail: "expected 2 characters",
				})
			}
		}
		if alpha3 := record.stringField(FieldIsoAlpha3); alpha3 != "" && len(alpha3) != 3 {
			errlist = append(errlist, ValidationError{
				Reason: ReasonBadCodeLength,
				Index:  i,
				Code:   code,
				Field:  FieldIsoAlpha3,
				Detail: "expected 3 characters",
			})
		}

		if continent := record.stringField(FieldContinent); continent != "" &&
			!slices.Contains(ValidContinents, continent) {
			errlist = append(errlist, ValidationError{
				Reason: ReasonInvalidContinent,
				Index:  i,
				Code:   code,
				Field:  FieldContinent,
				Detail: continent,
			})
		}

		for _, field := range NumericFields {
			v, present := record[field]
			if !present {
				continue
			}
			if _, isNumber := v.(float64); !isNumber {
				errlist = append(errlist, ValidationError{
					Reason: ReasonTypeMismatch,
					Index:  i,
					Code:   code,
					Field:  field,
					Detail: fmt.Sprintf("%v is not a number", v),
				})
			}
		}
	}

	return errors.Join(errlist...)
}
