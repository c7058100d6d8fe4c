package countries

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// FieldDelta is a single attribute whose value differs between two
// snapshots of the same country.
type FieldDelta struct {
	Field    string `json:"field"`
	Previous any    `json:"previous"`
	Current  any    `json:"current"`
}

// Change is a country present in both snapshots with at least one
// differing attribute.
type Change struct {
	Code   string       `json:"code"`
	Fields []FieldDelta `json:"fields"`
}

// DiffResult holds the differences between the previous and the current
// snapshot. Entries keep the order of the snapshot they came from.
type DiffResult struct {
	Added   []Record `json:"added"`
	Removed []Record `json:"removed"`
	Changed []Change `json:"changed"`
}

func (d DiffResult) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

func (d DiffResult) AddedCodes() []string {
	return Codes(d.Added)
}

func (d DiffResult) RemovedCodes() []string {
	return Codes(d.Removed)
}

func (d DiffResult) ChangedCodes() []string {
	return lo.Map(d.Changed, func(c Change, _ int) string {
		return c.Code
	})
}

// Summary renders the diff in the form consumed by the commit and
// notification automation, e.g.
// "Added 2 countries: US, FR | Modified 1 countries: DE".
func (d DiffResult) Summary() string {
	var parts []string

	if len(d.Added) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Added %d countries: %s",
			len(d.Added), strings.Join(d.AddedCodes(), ", "),
		))
	}
	if len(d.Removed) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Removed %d countries: %s",
			len(d.Removed), strings.Join(d.RemovedCodes(), ", "),
		))
	}
	if len(d.Changed) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Modified %d countries: %s",
			len(d.Changed), strings.Join(d.ChangedCodes(), ", "),
		))
	}

	if len(parts) == 0 {
		return "No changes detected"
	}
	return strings.Join(parts, " | ")
}

// Diff compares two snapshots keyed by country code. Whitespace and
// ordering never count as changes: records are compared attribute by
// attribute on their normalized values.
func Diff(previous, current []Record) DiffResult {
	prevByCode := lo.KeyBy(previous, Record.Code)
	curByCode := lo.KeyBy(current, Record.Code)

	var result DiffResult

	for _, record := range current {
		old, exists := prevByCode[record.Code()]
		if !exists {
			result.Added = append(result.Added, record)
			continue
		}
		deltas := fieldDeltas(old, record)
		if len(deltas) > 0 {
			result.Changed = append(result.Changed, Change{
				Code:   record.Code(),
				Fields: deltas,
			})
		}
	}

	for _, record := range previous {
		if _, exists := curByCode[record.Code()]; !exists {
			result.Removed = append(result.Removed, record)
		}
	}

	return result
}

func fieldDeltas(previous, current Record) []FieldDelta {
	fields := lo.Keys(previous)
	for key := range current {
		if _, ok := previous[key]; !ok {
			fields = append(fields, key)
		}
	}
	sort.Strings(fields)

	var deltas []FieldDelta
	for _, field := range fields {
		prevValue := previous[field]
		curValue := current[field]
		if prevValue != curValue {
			deltas = append(deltas, FieldDelta{
				Field:    field,
				Previous: prevValue,
				Current:  curValue,
			})
		}
	}
	return deltas
}
