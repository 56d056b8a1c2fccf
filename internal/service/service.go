// Package service runs translation jobs end to end: collect units, submit
// batches, map results to their origins, persist and report.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/batch"
	"github.com/oukeidos/locsync/internal/collector"
	"github.com/oukeidos/locsync/internal/fieldfilter"
	"github.com/oukeidos/locsync/internal/locale"
	"github.com/oukeidos/locsync/internal/logger"
	"github.com/oukeidos/locsync/internal/provider"
)

// Options are per-run caller choices.
type Options struct {
	Overwrite bool
	// Fields restricts model runs to these attributes. Empty means all
	// eligible attributes.
	Fields    []string
	Formality string
}

// Deps are the collaborators shared by both services.
type Deps struct {
	Provider   provider.Provider
	Strategy   *batch.Strategy
	Filter     *fieldfilter.Filter
	Normalizer *locale.Normalizer
	// PreserveHTML is the global tag-handling setting.
	PreserveHTML bool
	Logger       *slog.Logger
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

type base struct {
	provider     provider.Provider
	strategy     *batch.Strategy
	collector    *collector.Collector
	filter       *fieldfilter.Filter
	normalizer   *locale.Normalizer
	preserveHTML bool
	log          *slog.Logger
	now          func() time.Time
	newID        func() string
}

func newBase(d Deps) base {
	b := base{
		provider:     d.Provider,
		strategy:     d.Strategy,
		filter:       d.Filter,
		normalizer:   d.Normalizer,
		preserveHTML: d.PreserveHTML,
		log:          logger.OrDefault(d.Logger),
		now:          d.Now,
		newID:        d.NewID,
	}
	b.collector = collector.New(b.log)
	if b.strategy == nil {
		b.strategy = batch.New(d.Provider, batch.Config{}, batch.WithLogger(b.log))
	}
	if b.normalizer == nil {
		b.normalizer = locale.NewNormalizer(nil)
	}
	if b.filter == nil {
		b.filter, _ = fieldfilter.New(fieldfilter.DefaultRules())
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = uuid.NewString
	}
	return b
}

func (b *base) newReport(kind, typeName, source, target string) Report {
	return Report{
		RunID:     b.newID(),
		Kind:      kind,
		TypeName:  typeName,
		Source:    source,
		Target:    target,
		Provider:  b.provider.Name(),
		StartedAt: b.now(),
	}
}

func validateLocales(source, target string) error {
	if strings.TrimSpace(source) == "" {
		return apperrors.Validation(fmt.Errorf("source locale is required"))
	}
	if strings.TrimSpace(target) == "" {
		return apperrors.Validation(fmt.Errorf("target locale is required"))
	}
	return nil
}

// validateTarget fails fast when the provider does not list target.
func (b *base) validateTarget(ctx context.Context, target string) error {
	catalog := b.provider.TargetLanguages(ctx)
	code := b.normalizer.Normalize(target)
	if locale.Supported(code, catalog) {
		return nil
	}
	supported := "none (catalog unavailable)"
	if len(catalog) > 0 {
		supported = strings.Join(locale.Codes(catalog), ", ")
	}
	return apperrors.Config(
		fmt.Sprintf("Target language %q (%s) is not supported by %s. Supported: %s", target, code, b.provider.Name(), supported),
		nil)
}

// runBatches submits units and returns the mapped results of successful
// batches. Units of failed batches are counted into report.
func (b *base) runBatches(ctx context.Context, units []collector.Unit, source, target string, popts provider.Options, report *Report) ([]collector.Mapped, error) {
	texts := collector.Texts(units)
	results := b.strategy.ProcessEach(ctx, texts, b.normalizer.Normalize(source), b.normalizer.Normalize(target), popts, nil)

	var mapped []collector.Mapped
	for _, r := range results {
		report.Batches++
		slice := units[r.Offset : r.Offset+r.Size]
		if r.Err != nil {
			report.FailedBatches++
			report.Stats.Failed += len(slice)
			for _, u := range slice {
				report.Failed = append(report.Failed, u.Origin.Key())
			}
			continue
		}
		m, err := collector.MapResults(r.Texts, slice)
		if err != nil {
			return nil, err
		}
		mapped = append(mapped, m...)
	}
	if err := ctx.Err(); err != nil {
		return mapped, err
	}
	return mapped, nil
}
