// Package action implements the user-facing "translate messages" and
// "translate models" actions: one service run per target locale, summed
// into a single summary message.
package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/collector"
	"github.com/oukeidos/locsync/internal/logger"
	"github.com/oukeidos/locsync/internal/service"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Summary is the single message shown to the user after an action.
type Summary struct {
	Level   Level            `json:"level"`
	Message string           `json:"message"`
	Stats   collector.Stats  `json:"stats"`
	Updated int              `json:"updated"`
	Reports []service.Report `json:"reports"`
}

type Request struct {
	// Source comes from configuration, never from the caller's target list.
	Source    string
	Targets   []string
	IDs       []string
	Overwrite bool
	Formality string
	// TypeName and Fields apply to model actions only.
	TypeName string
	Fields   []string
	// Single sends one provider call per text instead of batching.
	Single bool
}

func (r Request) options() service.Options {
	return service.Options{Overwrite: r.Overwrite, Fields: r.Fields, Formality: r.Formality}
}

// targets drops blanks, duplicates and the source locale.
func (r Request) targets() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.Targets {
		t = strings.TrimSpace(t)
		if t == "" || strings.EqualFold(t, r.Source) || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}

type MessageTranslator interface {
	TranslateMessages(ctx context.Context, source, target string, ids []string, opts service.Options) (service.Report, error)
	TranslateMessagesInBatch(ctx context.Context, source, target string, ids []string, opts service.Options) (service.Report, error)
}

type ModelTranslator interface {
	TranslateRecords(ctx context.Context, typeName, source, target string, ids []string, opts service.Options) (service.Report, error)
	TranslateModelsInBatch(ctx context.Context, typeName, source, target string, ids []string, opts service.Options) (service.Report, error)
}

var (
	_ MessageTranslator = (*service.MessageService)(nil)
	_ ModelTranslator   = (*service.ModelService)(nil)
)

type runFunc func(ctx context.Context, target string) (service.Report, error)

// TranslateMessages runs the message service for every target locale.
func TranslateMessages(ctx context.Context, svc MessageTranslator, req Request, l *slog.Logger) (Summary, error) {
	run := func(ctx context.Context, target string) (service.Report, error) {
		if req.Single {
			return svc.TranslateMessages(ctx, req.Source, target, req.IDs, req.options())
		}
		return svc.TranslateMessagesInBatch(ctx, req.Source, target, req.IDs, req.options())
	}
	return loop(ctx, req, "messages", run, logger.OrDefault(l))
}

// TranslateModels runs the model service for every target locale.
func TranslateModels(ctx context.Context, svc ModelTranslator, req Request, l *slog.Logger) (Summary, error) {
	if strings.TrimSpace(req.TypeName) == "" {
		return errorSummary("Select a model type to translate."), apperrors.Validation(errors.New("model type is required"))
	}
	if req.Fields != nil && len(req.Fields) == 0 {
		return errorSummary("Select at least one field to translate."), apperrors.Validation(errors.New("no fields selected"))
	}
	run := func(ctx context.Context, target string) (service.Report, error) {
		if req.Single {
			return svc.TranslateRecords(ctx, req.TypeName, req.Source, target, req.IDs, req.options())
		}
		return svc.TranslateModelsInBatch(ctx, req.TypeName, req.Source, target, req.IDs, req.options())
	}
	return loop(ctx, req, "records", run, logger.OrDefault(l))
}

func errorSummary(msg string) Summary {
	return Summary{Level: LevelError, Message: msg}
}

func loop(ctx context.Context, req Request, noun string, run runFunc, log *slog.Logger) (Summary, error) {
	if strings.TrimSpace(req.Source) == "" {
		return errorSummary("No source locale is configured."), apperrors.Config("source locale is not configured", nil)
	}
	targets := req.targets()
	if len(targets) == 0 {
		return errorSummary("Select at least one target locale."), apperrors.Validation(errors.New("no target locales selected"))
	}

	var summary Summary
	var runErrs []string
	for _, target := range targets {
		report, err := run(ctx, target)
		summary.Reports = append(summary.Reports, report)
		summary.Stats.Add(report.Stats)
		summary.Updated += report.RecordsUpdated
		if err == nil {
			continue
		}
		if apperrors.IsFatal(err) || ctx.Err() != nil {
			log.Error("Translation aborted", "target", target, "error", apperrors.PublicMessage(err))
			summary.Level = LevelError
			summary.Message = apperrors.PublicMessage(err)
			return summary, err
		}
		log.Error("Translation failed for locale", "target", target, "error", apperrors.PublicMessage(err))
		runErrs = append(runErrs, fmt.Sprintf("%s: %s", target, apperrors.PublicMessage(err)))
	}

	summary.Level, summary.Message = describe(summary, noun, len(targets), runErrs)
	return summary, nil
}

func describe(s Summary, noun string, locales int, runErrs []string) (Level, string) {
	localeWord := "locale"
	if locales != 1 {
		localeWord = "locales"
	}
	switch {
	case len(runErrs) > 0:
		return LevelWarning, fmt.Sprintf("Translated %d strings in %d %s across %d %s, with errors: %s",
			s.Stats.Translated, s.Updated, noun, locales, localeWord, strings.Join(runErrs, "; "))
	case s.Stats.Failed > 0:
		return LevelWarning, fmt.Sprintf("Translated %d strings in %d %s across %d %s; %d could not be translated.",
			s.Stats.Translated, s.Updated, noun, locales, localeWord, s.Stats.Failed)
	case s.Stats.Translated == 0:
		return LevelSuccess, fmt.Sprintf("Nothing to translate: %d skipped as already translated, %d empty.",
			s.Stats.SkippedExisting, s.Stats.SkippedEmpty)
	default:
		return LevelSuccess, fmt.Sprintf("Translated %d strings in %d %s across %d %s.",
			s.Stats.Translated, s.Updated, noun, locales, localeWord)
	}
}
