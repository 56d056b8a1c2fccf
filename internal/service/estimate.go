package service

import (
	"context"
	"fmt"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/batch"
	"github.com/oukeidos/locsync/internal/collector"
)

// Estimate is what a run would submit, computed without calling the provider.
type Estimate struct {
	Target string          `json:"target"`
	Units  int             `json:"units"`
	Stats  collector.Stats `json:"stats"`
	// Characters is the grapheme count of all source texts.
	Characters int `json:"characters"`
	APICalls   int `json:"api_calls"`
}

func (b *base) estimate(target string, units []collector.Unit, stats collector.Stats) Estimate {
	return Estimate{
		Target:     target,
		Units:      len(units),
		Stats:      stats,
		Characters: batch.EstimateCharacters(collector.Texts(units)),
		APICalls:   b.strategy.EstimateAPICalls(len(units)),
	}
}

// EstimateMessages collects message units for target and sizes the run.
func (s *MessageService) EstimateMessages(ctx context.Context, source, target string, ids []string, opts Options) (Estimate, error) {
	if err := validateLocales(source, target); err != nil {
		return Estimate{}, err
	}
	msgs, err := s.messages.Query(ctx, ids)
	if err != nil {
		return Estimate{}, fmt.Errorf("failed to query messages: %w", err)
	}
	units, stats := s.collector.CollectFromMessages(msgs, source, target, opts.Overwrite)
	return s.estimate(target, units, stats), nil
}

// EstimateModels collects record units for target and sizes the run.
func (s *ModelService) EstimateModels(ctx context.Context, typeName, source, target string, ids []string, opts Options) (Estimate, error) {
	if err := validateLocales(source, target); err != nil {
		return Estimate{}, err
	}
	modelType, err := s.registry.Lookup(typeName)
	if err != nil {
		return Estimate{}, apperrors.Validation(err)
	}
	records, err := s.records.Load(ctx, typeName, ids)
	if err != nil {
		return Estimate{}, fmt.Errorf("failed to load %s records: %w", typeName, err)
	}
	if len(records) == 0 {
		return Estimate{Target: target}, nil
	}
	attributes := s.fields(records[0], modelType.Attributes, opts.Fields)
	units, stats := s.collector.CollectFromModels(records, attributes, source, target, opts.Overwrite)
	return s.estimate(target, units, stats), nil
}
