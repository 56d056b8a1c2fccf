package action

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/collector"
	"github.com/oukeidos/locsync/internal/logger"
	"github.com/oukeidos/locsync/internal/service"
)

type fakeService struct {
	targets  []string
	batched  int
	single   int
	reports  map[string]service.Report
	errs     map[string]error
	typeName string
}

func (f *fakeService) run(target string) (service.Report, error) {
	f.targets = append(f.targets, target)
	r := f.reports[target]
	r.Target = target
	return r, f.errs[target]
}

func (f *fakeService) TranslateMessages(_ context.Context, _, target string, _ []string, _ service.Options) (service.Report, error) {
	f.single++
	return f.run(target)
}

func (f *fakeService) TranslateMessagesInBatch(_ context.Context, _, target string, _ []string, _ service.Options) (service.Report, error) {
	f.batched++
	return f.run(target)
}

func (f *fakeService) TranslateModelsInBatch(_ context.Context, typeName, _, target string, _ []string, _ service.Options) (service.Report, error) {
	f.batched++
	f.typeName = typeName
	return f.run(target)
}

func (f *fakeService) TranslateRecords(_ context.Context, typeName, _, target string, _ []string, _ service.Options) (service.Report, error) {
	f.single++
	f.typeName = typeName
	return f.run(target)
}

func report(translated, failed, updated int) service.Report {
	return service.Report{Stats: collector.Stats{Translated: translated, Failed: failed}, RecordsUpdated: updated}
}

func TestTranslateMessages_SumsAcrossLocales(t *testing.T) {
	svc := &fakeService{reports: map[string]service.Report{
		"de": report(3, 0, 3),
		"fr": report(2, 0, 2),
	}}
	req := Request{Source: "en", Targets: []string{"de", "en", " ", "fr", "DE"}}

	summary, err := TranslateMessages(context.Background(), svc, req, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(svc.targets, []string{"de", "fr"}) {
		t.Fatalf("targets = %v, want source and duplicates skipped", svc.targets)
	}
	if svc.batched != 2 || svc.single != 0 {
		t.Fatalf("expected batched path, got batched=%d single=%d", svc.batched, svc.single)
	}
	if summary.Level != LevelSuccess || summary.Stats.Translated != 5 || summary.Updated != 5 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Message != "Translated 5 strings in 5 messages across 2 locales." {
		t.Fatalf("message = %q", summary.Message)
	}
	if len(summary.Reports) != 2 {
		t.Fatalf("expected a report per locale")
	}
}

func TestTranslateMessages_SinglePath(t *testing.T) {
	svc := &fakeService{}
	if _, err := TranslateMessages(context.Background(), svc, Request{Source: "en", Targets: []string{"de"}, Single: true}, logger.Discard()); err != nil {
		t.Fatal(err)
	}
	if svc.single != 1 || svc.batched != 0 {
		t.Fatalf("expected single path")
	}
}

func TestTranslateModels_Path(t *testing.T) {
	tests := []struct {
		single           bool
		batched, singled int
	}{
		{false, 2, 0},
		{true, 0, 2},
	}
	for _, tt := range tests {
		svc := &fakeService{}
		req := Request{Source: "en", Targets: []string{"de", "fr"}, TypeName: "post", Single: tt.single}
		if _, err := TranslateModels(context.Background(), svc, req, logger.Discard()); err != nil {
			t.Fatal(err)
		}
		if svc.batched != tt.batched || svc.single != tt.singled {
			t.Errorf("single=%v: batched=%d single=%d, want %d/%d", tt.single, svc.batched, svc.single, tt.batched, tt.singled)
		}
	}
}

func TestTranslateModels_PartialFailureIsWarning(t *testing.T) {
	svc := &fakeService{
		reports: map[string]service.Report{"de": report(70, 50, 70), "fr": report(1, 0, 1)},
		errs:    map[string]error{"fr": errors.New("disk full")},
	}
	summary, err := TranslateModels(context.Background(), svc, Request{Source: "en", Targets: []string{"de", "fr"}, TypeName: "post"}, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if svc.typeName != "post" {
		t.Fatalf("type not forwarded")
	}
	if summary.Level != LevelWarning || !strings.Contains(summary.Message, "fr: disk full") {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	svc = &fakeService{reports: map[string]service.Report{"de": report(70, 50, 70)}}
	summary, _ = TranslateModels(context.Background(), svc, Request{Source: "en", Targets: []string{"de"}, TypeName: "post"}, logger.Discard())
	if summary.Level != LevelWarning || !strings.Contains(summary.Message, "50 could not be translated") {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestTranslateModels_FatalStopsLoop(t *testing.T) {
	svc := &fakeService{errs: map[string]error{"de": apperrors.Config("Target language not supported", nil)}}
	summary, err := TranslateModels(context.Background(), svc, Request{Source: "en", Targets: []string{"de", "fr"}, TypeName: "post"}, logger.Discard())
	if err == nil || summary.Level != LevelError {
		t.Fatalf("expected fatal error, got %+v, %v", summary, err)
	}
	if len(svc.targets) != 1 {
		t.Fatalf("loop must stop on fatal error, ran %v", svc.targets)
	}
}

func TestRequestValidation(t *testing.T) {
	ctx := context.Background()
	svc := &fakeService{}
	tests := []struct {
		name string
		run  func() (Summary, error)
	}{
		{"no targets", func() (Summary, error) {
			return TranslateMessages(ctx, svc, Request{Source: "en", Targets: []string{"en"}}, logger.Discard())
		}},
		{"no source", func() (Summary, error) {
			return TranslateMessages(ctx, svc, Request{Targets: []string{"de"}}, logger.Discard())
		}},
		{"no type", func() (Summary, error) {
			return TranslateModels(ctx, svc, Request{Source: "en", Targets: []string{"de"}}, logger.Discard())
		}},
		{"no fields", func() (Summary, error) {
			return TranslateModels(ctx, svc, Request{Source: "en", Targets: []string{"de"}, TypeName: "post", Fields: []string{}}, logger.Discard())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := tt.run()
			if !apperrors.IsFatal(err) || summary.Level != LevelError {
				t.Fatalf("expected fatal error, got %+v, %v", summary, err)
			}
		})
	}
	if len(svc.targets) != 0 {
		t.Fatalf("service must not run on invalid requests")
	}
}

func TestNothingToTranslate(t *testing.T) {
	svc := &fakeService{reports: map[string]service.Report{"de": {Stats: collector.Stats{SkippedExisting: 4}}}}
	summary, _ := TranslateMessages(context.Background(), svc, Request{Source: "en", Targets: []string{"de"}}, logger.Discard())
	if summary.Level != LevelSuccess || !strings.HasPrefix(summary.Message, "Nothing to translate") {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
