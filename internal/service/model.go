package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/collector"
	"github.com/oukeidos/locsync/internal/provider"
	"github.com/oukeidos/locsync/internal/store"
)

// ModelService translates attributes of registered record types.
type ModelService struct {
	base
	records  store.RecordStore
	registry *store.Registry
}

func NewModelService(d Deps, records store.RecordStore, registry *store.Registry) *ModelService {
	if registry == nil {
		registry = store.NewRegistry()
	}
	return &ModelService{base: newBase(d), records: records, registry: registry}
}

// Registry exposes the registered record types.
func (s *ModelService) Registry() *store.Registry { return s.registry }

// fields returns the eligible attributes of rec in form order, restricted
// to allowed (registry) and selected (caller) when those are non-empty.
func (s *ModelService) fields(rec store.LocalizableRecord, allowed, selected []string) []string {
	eligible := s.filter.Eligible(rec.FieldOrder(), rec.FieldConfigs())
	return intersect(intersect(eligible, allowed), selected)
}

func intersect(names, keep []string) []string {
	if len(keep) == 0 {
		return names
	}
	set := make(map[string]bool, len(keep))
	for _, k := range keep {
		set[strings.TrimSpace(k)] = true
	}
	var out []string
	for _, n := range names {
		if set[n] {
			out = append(out, n)
		}
	}
	return out
}

// richContent reports whether any of fields is declared as HTML/markdown.
func (s *ModelService) richContent(rec store.LocalizableRecord, fields []string) bool {
	configs := rec.FieldConfigs()
	for _, f := range fields {
		if s.filter.IsRichContent(configs[f]) {
			return true
		}
	}
	return false
}

// TranslateModel translates one record attribute by attribute. A failed
// attribute maps to nil and does not stop the others; successful values
// are saved together under target.
func (s *ModelService) TranslateModel(ctx context.Context, rec store.LocalizableRecord, source, target string, opts Options) (map[string]*string, error) {
	if rec == nil {
		return nil, apperrors.Validation(errors.New("record does not support localized attributes"))
	}
	if err := validateLocales(source, target); err != nil {
		return nil, err
	}
	fields := s.fields(rec, nil, opts.Fields)
	if len(fields) == 0 {
		return nil, apperrors.Validation(fmt.Errorf("record %s has no translatable fields", rec.ID()))
	}
	out := s.translateRecord(ctx, rec, fields, source, target, opts)
	return out.results, out.err
}

// recordOutcome is what one non-batched record run produced.
type recordOutcome struct {
	results map[string]*string
	stats   collector.Stats
	failed  []string
	saved   bool
	err     error
}

func (s *ModelService) translateRecord(ctx context.Context, rec store.LocalizableRecord, fields []string, source, target string, opts Options) recordOutcome {
	providerSource := s.normalizer.Normalize(source)
	providerTarget := s.normalizer.Normalize(target)
	configs := rec.FieldConfigs()

	out := recordOutcome{results: make(map[string]*string, len(fields))}
	translated := make(map[string]string)
	for _, field := range fields {
		out.results[field] = nil
		text := rec.AttributeForLocale(field, source, true)
		if strings.TrimSpace(text) == "" {
			out.stats.SkippedEmpty++
			continue
		}
		if collector.KeepExisting(rec, field, target, opts.Overwrite) {
			out.stats.SkippedExisting++
			continue
		}
		popts := provider.Options{
			Formality:    opts.Formality,
			PreserveHTML: s.preserveHTML || s.filter.IsRichContent(configs[field]),
		}
		value, err := s.provider.TranslateText(ctx, text, providerSource, providerTarget, popts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				out.err = ctxErr
				return out
			}
			s.log.Error("Attribute translation failed", "record", rec.ID(), "attribute", field, "error", apperrors.PublicMessage(err))
			out.stats.Failed++
			out.failed = append(out.failed, collector.Origin{Record: rec, Attribute: field}.Key())
			continue
		}
		v := value
		out.results[field] = &v
		translated[field] = value
	}

	if len(translated) == 0 {
		return out
	}
	if err := s.persist(ctx, rec, fields, translated, target); err != nil {
		out.err = err
		out.stats.Failed += len(translated)
		for _, field := range fields {
			if _, ok := translated[field]; ok {
				out.failed = append(out.failed, collector.Origin{Record: rec, Attribute: field}.Key())
			}
		}
		return out
	}
	out.stats.Translated += len(translated)
	out.saved = true
	s.log.Info("Record translated", "record", rec.ID(), "target", target, "attributes", len(translated))
	return out
}

// TranslateRecords is the non-batched counterpart of TranslateModelsInBatch:
// every attribute of every selected record is its own provider call, and a
// failed record does not stop the next one.
func (s *ModelService) TranslateRecords(ctx context.Context, typeName, source, target string, ids []string, opts Options) (Report, error) {
	report := s.newReport(KindModels, typeName, source, target)
	if err := validateLocales(source, target); err != nil {
		return report, err
	}
	modelType, err := s.registry.Lookup(typeName)
	if err != nil {
		return report, apperrors.Validation(err)
	}
	records, err := s.records.Load(ctx, typeName, ids)
	if err != nil {
		return report, fmt.Errorf("failed to load %s records: %w", typeName, err)
	}

	var runErr error
	for _, rec := range records {
		fields := s.fields(rec, modelType.Attributes, opts.Fields)
		if len(fields) == 0 {
			continue
		}
		out := s.translateRecord(ctx, rec, fields, source, target, opts)
		report.Stats.Add(out.stats)
		report.Failed = append(report.Failed, out.failed...)
		if out.saved {
			report.RecordsUpdated++
		}
		if out.err == nil {
			continue
		}
		if ctx.Err() != nil {
			runErr = out.err
			break
		}
		s.log.Error("Failed to save record", "record", rec.ID(), "error", out.err)
	}

	report.finish(s.now())
	s.log.Info("Model translation finished", "run", report.RunID, "type", typeName, "target", target,
		"status", string(report.Status), "records_updated", report.RecordsUpdated,
		"translated", report.Stats.Translated, "failed", report.Stats.Failed)
	return report, runErr
}

// persist writes values under target with the explicit-locale setter and
// saves once. The record's locale context is restored afterwards.
func (s *ModelService) persist(ctx context.Context, rec store.LocalizableRecord, order []string, values map[string]string, target string) error {
	saved := rec.LocaleContext()
	defer rec.SetLocaleContext(saved)
	for _, field := range order {
		if v, ok := values[field]; ok {
			rec.SetAttributeForLocale(field, v, target)
		}
	}
	if err := rec.Save(ctx); err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.ID(), err)
	}
	return nil
}

// TranslateModelsInBatch translates every eligible attribute of the
// selected records of typeName. Failed batches are logged and skipped.
func (s *ModelService) TranslateModelsInBatch(ctx context.Context, typeName, source, target string, ids []string, opts Options) (Report, error) {
	report := s.newReport(KindModels, typeName, source, target)
	if err := validateLocales(source, target); err != nil {
		return report, err
	}
	modelType, err := s.registry.Lookup(typeName)
	if err != nil {
		return report, apperrors.Validation(err)
	}

	records, err := s.records.Load(ctx, typeName, ids)
	if err != nil {
		return report, fmt.Errorf("failed to load %s records: %w", typeName, err)
	}
	if len(records) == 0 {
		s.log.Info("No records to translate", "type", typeName)
		report.finish(s.now())
		return report, nil
	}

	// Attributes come from the first record; all records of a type share
	// one form definition.
	attributes := s.fields(records[0], modelType.Attributes, opts.Fields)
	if len(attributes) == 0 {
		return report, apperrors.Validation(fmt.Errorf("no translatable fields selected for %s", typeName))
	}

	units, stats := s.collector.CollectFromModels(records, attributes, source, target, opts.Overwrite)
	report.Stats = stats
	s.log.Info("Collected units", "run", report.RunID, "type", typeName, "target", target,
		"records", len(records), "units", len(units))
	if len(units) == 0 {
		report.finish(s.now())
		return report, nil
	}

	popts := provider.Options{
		Formality:    opts.Formality,
		PreserveHTML: s.preserveHTML || s.richContent(records[0], attributes),
	}
	mapped, runErr := s.runBatches(ctx, units, source, target, popts, &report)
	if runErr != nil && len(mapped) == 0 {
		report.finish(s.now())
		return report, runErr
	}

	s.persistGrouped(ctx, mapped, attributes, target, &report)
	report.finish(s.now())
	s.log.Info("Model translation finished", "run", report.RunID, "type", typeName, "target", target,
		"status", string(report.Status), "records_updated", report.RecordsUpdated,
		"translated", report.Stats.Translated, "failed", report.Stats.Failed)
	return report, runErr
}

type recordGroup struct {
	rec    store.LocalizableRecord
	values map[string]string
	keys   []string
}

// persistGrouped saves each record once with all of its mapped values.
func (s *ModelService) persistGrouped(ctx context.Context, mapped []collector.Mapped, order []string, target string, report *Report) {
	var groups []*recordGroup
	byID := make(map[string]*recordGroup)
	for _, m := range mapped {
		id := m.Origin.Record.ID()
		g, ok := byID[id]
		if !ok {
			g = &recordGroup{rec: m.Origin.Record, values: make(map[string]string)}
			byID[id] = g
			groups = append(groups, g)
		}
		g.values[m.Origin.Attribute] = m.TranslatedText
		g.keys = append(g.keys, m.Origin.Key())
	}

	for _, g := range groups {
		if err := s.persist(ctx, g.rec, order, g.values, target); err != nil {
			s.log.Error("Failed to save record", "record", g.rec.ID(), "error", err)
			report.Stats.Failed += len(g.values)
			report.Failed = append(report.Failed, g.keys...)
			continue
		}
		report.Stats.Translated += len(g.values)
		report.RecordsUpdated++
	}
}
