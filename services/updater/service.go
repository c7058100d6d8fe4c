package updater

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hcsolakoglu/country-list-updated-weekly/internal/countries"
	"github.com/hcsolakoglu/country-list-updated-weekly/internal/snapshot"
	"github.com/hcsolakoglu/country-list-updated-weekly/lib/scrapers/geonames"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("countrylist.services.updater")

type Options struct {
	// path of the persisted JSONL snapshot
	Output string
	// path the change summary is written to when the snapshot changes,
	// consumed by the commit/notification automation. empty disables it.
	Summary string
	// smallest plausible record count, guards against partial scrapes
	MinExpected int
}

// Service runs the scrape → validate → diff → persist pipeline. Each
// process invocation owns the snapshot file exclusively, so there is no
// locking anywhere.
type Service struct {
	scraper *geonames.Client
	options Options
}

func NewService(scraper *geonames.Client, options Options) *Service {
	return &Service{
		scraper: scraper,
		options: options,
	}
}

// Scrape fetches and extracts the current country records without
// touching the snapshot.
func (s *Service) Scrape(ctx context.Context) ([]countries.Record, error) {
	html, err := s.scraper.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	records, err := geonames.Extract(ctx, html)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "extracted country records", "count", len(records))

	if err := countries.Validate(records, s.options.MinExpected); err != nil {
		return nil, err
	}
	return records, nil
}

// Preview computes the diff between the persisted snapshot and the live
// page without writing anything.
func (s *Service) Preview(ctx context.Context) (countries.DiffResult, error) {
	ctx, span := tracer.Start(ctx, "Preview")
	defer span.End()

	previous, err := snapshot.Load(s.options.Output)
	if err != nil {
		span.SetStatus(codes.Error, "load snapshot")
		return countries.DiffResult{}, err
	}

	current, err := s.Scrape(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "scrape")
		return countries.DiffResult{}, err
	}

	return countries.Diff(previous, current), nil
}

// Run executes one full update: load the previous snapshot, scrape and
// validate the current one, and atomically replace the file only when
// something actually changed. A failed run leaves the snapshot
// untouched.
func (s *Service) Run(ctx context.Context) (countries.DiffResult, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	previous, err := snapshot.Load(s.options.Output)
	if err != nil {
		span.SetStatus(codes.Error, "load snapshot")
		return countries.DiffResult{}, err
	}
	slog.InfoContext(ctx, "loaded previous snapshot", "count", len(previous))

	current, err := s.Scrape(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "scrape")
		return countries.DiffResult{}, err
	}

	diff := countries.Diff(previous, current)
	span.SetAttributes(
		attribute.Int("added", len(diff.Added)),
		attribute.Int("removed", len(diff.Removed)),
		attribute.Int("changed", len(diff.Changed)),
	)

	if diff.IsEmpty() {
		slog.InfoContext(ctx, "no changes detected, snapshot left untouched")
		return diff, nil
	}

	if err := snapshot.Write(s.options.Output, current); err != nil {
		span.SetStatus(codes.Error, "write snapshot")
		return countries.DiffResult{}, err
	}

	if s.options.Summary != "" {
		err := os.WriteFile(s.options.Summary, []byte(diff.Summary()+"\n"), 0o644)
		if err != nil {
			span.SetStatus(codes.Error, "write summary")
			return countries.DiffResult{}, fmt.Errorf("write change summary: %w", err)
		}
	}

	slog.InfoContext(
		ctx, "snapshot updated",
		"added", len(diff.Added),
		"removed", len(diff.Removed),
		"changed", len(diff.Changed),
		"summary", diff.Summary(),
	)
	return diff, nil
}
