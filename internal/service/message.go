package service

import (
	"context"
	"fmt"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/collector"
	"github.com/oukeidos/locsync/internal/provider"
	"github.com/oukeidos/locsync/internal/store"
)

// MessageService translates UI string messages.
type MessageService struct {
	base
	messages store.MessageStore
}

func NewMessageService(d Deps, messages store.MessageStore) *MessageService {
	return &MessageService{base: newBase(d), messages: messages}
}

func (s *MessageService) prepare(ctx context.Context, source, target string, ids []string, opts Options, report *Report) ([]collector.Unit, error) {
	if err := validateLocales(source, target); err != nil {
		return nil, err
	}
	if err := s.validateTarget(ctx, target); err != nil {
		return nil, err
	}
	msgs, err := s.messages.Query(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	units, stats := s.collector.CollectFromMessages(msgs, source, target, opts.Overwrite)
	report.Stats = stats
	s.log.Info("Collected units", "run", report.RunID, "target", target, "messages", len(msgs), "units", len(units))
	return units, nil
}

func (s *MessageService) providerOptions(opts Options) provider.Options {
	return provider.Options{Formality: opts.Formality, PreserveHTML: s.preserveHTML}
}

// TranslateMessages translates messages one call at a time. A failed
// message is logged and skipped.
func (s *MessageService) TranslateMessages(ctx context.Context, source, target string, ids []string, opts Options) (Report, error) {
	report := s.newReport(KindMessages, "", source, target)
	units, err := s.prepare(ctx, source, target, ids, opts, &report)
	if err != nil {
		return report, err
	}

	popts := s.providerOptions(opts)
	providerSource := s.normalizer.Normalize(source)
	providerTarget := s.normalizer.Normalize(target)
	var mapped []collector.Mapped
	var runErr error
	for _, u := range units {
		out, err := s.provider.TranslateText(ctx, u.SourceText, providerSource, providerTarget, popts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				runErr = ctxErr
				break
			}
			s.log.Error("Message translation failed", "message", u.Origin.Key(), "error", apperrors.PublicMessage(err))
			report.Stats.Failed++
			report.Failed = append(report.Failed, u.Origin.Key())
			continue
		}
		mapped = append(mapped, collector.Mapped{Origin: u.Origin, TranslatedText: out})
	}

	return s.save(ctx, mapped, target, &report, runErr)
}

// TranslateMessagesInBatch translates messages through the batch strategy.
func (s *MessageService) TranslateMessagesInBatch(ctx context.Context, source, target string, ids []string, opts Options) (Report, error) {
	report := s.newReport(KindMessages, "", source, target)
	units, err := s.prepare(ctx, source, target, ids, opts, &report)
	if err != nil {
		return report, err
	}
	if len(units) == 0 {
		report.finish(s.now())
		return report, nil
	}
	mapped, runErr := s.runBatches(ctx, units, source, target, s.providerOptions(opts), &report)
	return s.save(ctx, mapped, target, &report, runErr)
}

// save applies mapped translations and persists the touched messages in
// one call.
func (s *MessageService) save(ctx context.Context, mapped []collector.Mapped, target string, report *Report, runErr error) (Report, error) {
	if len(mapped) == 0 {
		report.finish(s.now())
		return *report, runErr
	}
	updated := make([]store.Message, 0, len(mapped))
	for _, m := range mapped {
		m.Origin.Message.SetLocale(target, m.TranslatedText)
		updated = append(updated, m.Origin.Message)
	}
	if err := s.messages.Save(ctx, updated); err != nil {
		report.Stats.Failed += len(mapped)
		for _, m := range mapped {
			report.Failed = append(report.Failed, m.Origin.Key())
		}
		report.finish(s.now())
		return *report, fmt.Errorf("failed to save messages: %w", err)
	}
	report.Stats.Translated += len(mapped)
	report.RecordsUpdated = len(updated)
	report.finish(s.now())
	s.log.Info("Message translation finished", "run", report.RunID, "target", target,
		"status", string(report.Status), "translated", report.Stats.Translated, "failed", report.Stats.Failed)
	return *report, runErr
}
