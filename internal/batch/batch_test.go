package batch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/logger"
	"github.com/oukeidos/locsync/internal/provider"
)

// sequenceTranslator returns errs[i] on the i-th call, then echoes.
type sequenceTranslator struct {
	mu    sync.Mutex
	calls int
	errs  []error
	// failBatch makes every call whose first text equals it fail.
	failBatch string
	failErr   error
}

func (s *sequenceTranslator) TranslateText(ctx context.Context, text, source, target string, opts provider.Options) (string, error) {
	out, err := s.TranslateBatch(ctx, []string{text}, source, target, opts)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

func (s *sequenceTranslator) TranslateBatch(_ context.Context, texts []string, _, target string, _ provider.Options) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failBatch != "" && len(texts) > 0 && texts[0] == s.failBatch {
		return nil, s.failErr
	}
	if idx := s.calls - 1; idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = target + ":" + t
	}
	return out, nil
}

type recordingSleeper struct {
	slept []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	r.slept = append(r.slept, d)
	return nil
}

func transient() error {
	return apperrors.Remote("deepl", apperrors.KindTransient, "DeepL: server error (503). Please try again later.", errors.New("503"))
}

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("t%d", i)
	}
	return out
}

func newStrategy(tr provider.Translator, cfg Config, sleeper *recordingSleeper) *Strategy {
	return New(tr, cfg, WithSleeper(sleeper.Sleep), WithLogger(logger.Discard()))
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		in, want Config
	}{
		{Config{}, Config{MaxBatchSize: 50, MaxRetries: 3}},
		{Config{MaxBatchSize: 80, MaxRetries: -2}, Config{MaxBatchSize: 50, MaxRetries: 1}},
		{Config{MaxBatchSize: 10, MaxRetries: 5}, Config{MaxBatchSize: 10, MaxRetries: 5}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestCreateBatches(t *testing.T) {
	s := newStrategy(&sequenceTranslator{}, Config{MaxBatchSize: 50}, &recordingSleeper{})
	in := texts(120)
	batches := s.CreateBatches(in)

	var sizes []int
	var joined []string
	for _, b := range batches {
		sizes = append(sizes, len(b))
		joined = append(joined, b...)
	}
	if !reflect.DeepEqual(sizes, []int{50, 50, 20}) {
		t.Fatalf("batch sizes = %v", sizes)
	}
	if !reflect.DeepEqual(joined, in) {
		t.Fatalf("concatenated batches differ from input")
	}
	if got := s.EstimateAPICalls(120); got != 3 {
		t.Fatalf("EstimateAPICalls(120) = %d", got)
	}
	if got := s.CreateBatches(nil); len(got) != 0 {
		t.Fatalf("expected no batches for empty input, got %d", len(got))
	}
}

func TestCreateBatches_Property(t *testing.T) {
	for _, size := range []int{1, 7, 50} {
		s := newStrategy(&sequenceTranslator{}, Config{MaxBatchSize: size}, &recordingSleeper{})
		for n := 1; n <= 130; n += 13 {
			batches := s.CreateBatches(texts(n))
			if len(batches) != s.EstimateAPICalls(n) {
				t.Fatalf("size=%d n=%d: %d batches, estimate %d", size, n, len(batches), s.EstimateAPICalls(n))
			}
			for _, b := range batches {
				if len(b) == 0 || len(b) > size {
					t.Fatalf("size=%d n=%d: batch of %d", size, n, len(b))
				}
			}
		}
	}
}

func TestProcessBatch_RetriesWithExponentialBackoff(t *testing.T) {
	tr := &sequenceTranslator{errs: []error{transient(), transient()}}
	sleeper := &recordingSleeper{}
	s := newStrategy(tr, Config{MaxRetries: 3}, sleeper)

	got, err := s.ProcessBatch(context.Background(), []string{"Hello"}, "EN", "DE", provider.Options{})
	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if !reflect.DeepEqual(got, []string{"DE:Hello"}) {
		t.Fatalf("got %q", got)
	}
	if tr.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", tr.calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if !reflect.DeepEqual(sleeper.slept, want) {
		t.Fatalf("slept %v, want %v", sleeper.slept, want)
	}
}

func TestProcessBatch_ExhaustsRetries(t *testing.T) {
	last := transient()
	tr := &sequenceTranslator{errs: []error{transient(), transient(), last}}
	sleeper := &recordingSleeper{}
	s := newStrategy(tr, Config{MaxRetries: 3}, sleeper)

	_, err := s.ProcessBatch(context.Background(), []string{"x"}, "", "DE", provider.Options{})
	if err != last {
		t.Fatalf("expected last error, got %v", err)
	}
	if tr.calls != 3 || len(sleeper.slept) != 2 {
		t.Fatalf("calls=%d sleeps=%d", tr.calls, len(sleeper.slept))
	}
}

func TestProcessBatch_NonRetryableMessage(t *testing.T) {
	unauthorized := apperrors.Remote("deepl", apperrors.KindTransient, "Unauthorized", nil)
	tr := &sequenceTranslator{errs: []error{unauthorized}}
	sleeper := &recordingSleeper{}
	s := newStrategy(tr, Config{MaxRetries: 3}, sleeper)

	_, err := s.ProcessBatch(context.Background(), []string{"x"}, "", "DE", provider.Options{})
	if err != unauthorized {
		t.Fatalf("expected original error, got %v", err)
	}
	if tr.calls != 1 || len(sleeper.slept) != 0 {
		t.Fatalf("calls=%d sleeps=%d, want 1 and 0", tr.calls, len(sleeper.slept))
	}
}

func TestProcessBatch_NonProviderErrorNotRetried(t *testing.T) {
	tr := &sequenceTranslator{errs: []error{errors.New("nil map write")}}
	sleeper := &recordingSleeper{}
	s := newStrategy(tr, Config{MaxRetries: 3}, sleeper)

	if _, err := s.ProcessBatch(context.Background(), []string{"x"}, "", "DE", provider.Options{}); err == nil {
		t.Fatal("expected error")
	}
	if tr.calls != 1 || len(sleeper.slept) != 0 {
		t.Fatalf("calls=%d sleeps=%d, want 1 and 0", tr.calls, len(sleeper.slept))
	}
}

func TestProcessBatch_SizeValidation(t *testing.T) {
	tr := &sequenceTranslator{}
	s := newStrategy(tr, Config{MaxBatchSize: 2}, &recordingSleeper{})

	for _, b := range [][]string{nil, {"a", "b", "c"}} {
		_, err := s.ProcessBatch(context.Background(), b, "", "DE", provider.Options{})
		if kind, _ := apperrors.KindOf(err); kind != apperrors.KindValidation {
			t.Fatalf("len %d: expected validation error, got %v", len(b), err)
		}
	}
	if tr.calls != 0 {
		t.Fatalf("invalid batches must not reach the provider")
	}
}

func TestProcessBatch_CanceledDuringBackoff(t *testing.T) {
	tr := &sequenceTranslator{errs: []error{transient(), transient()}}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(tr, Config{MaxRetries: 3}, WithLogger(logger.Discard()), WithSleeper(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := s.ProcessBatch(ctx, []string{"x"}, "", "DE", provider.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if tr.calls != 1 {
		t.Fatalf("expected 1 call, got %d", tr.calls)
	}
}

func TestShouldNotRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unauthorized", apperrors.Remote("deepl", apperrors.KindTransient, "Unauthorized", nil), true},
		{"forbidden mixed case", apperrors.Remote("deepl", apperrors.KindTransient, "FORBIDDEN access", nil), true},
		{"invalid in cause", apperrors.Remote("deepl", apperrors.KindTransient, "", errors.New("Invalid target_lang")), true},
		{"bad request", apperrors.Remote("deepl", apperrors.KindTransient, "Bad Request", nil), true},
		{"quota kind", apperrors.Remote("deepl", apperrors.KindQuota, "limit reached", nil), true},
		{"transient", transient(), false},
		{"rate limit", apperrors.Remote("deepl", apperrors.KindRateLimit, "Too many requests", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldNotRetry(tt.err); got != tt.want {
				t.Fatalf("ShouldNotRetry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessMultipleBatches_AbortsOnFailure(t *testing.T) {
	tr := &sequenceTranslator{failBatch: "t2", failErr: apperrors.Remote("deepl", apperrors.KindAuth, "Forbidden", nil)}
	s := newStrategy(tr, Config{MaxBatchSize: 2}, &recordingSleeper{})

	batches := s.CreateBatches(texts(6))
	if _, err := s.ProcessMultipleBatches(context.Background(), batches, "", "DE", provider.Options{}); err == nil {
		t.Fatal("expected error")
	}
	if tr.calls != 2 {
		t.Fatalf("third batch must not be sent, calls=%d", tr.calls)
	}

	ok := newStrategy(&sequenceTranslator{}, Config{MaxBatchSize: 2}, &recordingSleeper{})
	got, err := ok.ProcessMultipleBatches(context.Background(), batches, "", "DE", provider.Options{})
	if err != nil || len(got) != 6 || got[5] != "DE:t5" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestProcessEach_ContinuesPastFailedBatch(t *testing.T) {
	tr := &sequenceTranslator{failBatch: "t50", failErr: apperrors.Remote("deepl", apperrors.KindAuth, "Forbidden", nil)}
	s := newStrategy(tr, Config{}, &recordingSleeper{})

	var seen []int
	results := s.ProcessEach(context.Background(), texts(120), "", "DE", provider.Options{}, func(r Result) {
		seen = append(seen, r.Index)
	})
	if len(results) != 3 || !reflect.DeepEqual(seen, []int{0, 1, 2}) {
		t.Fatalf("expected 3 results in order, got %d (%v)", len(results), seen)
	}
	if results[1].Err == nil || results[1].Texts != nil || results[1].Attempts != 1 {
		t.Fatalf("batch 2 should fail after one attempt: %+v", results[1])
	}
	if results[0].Err != nil || len(results[0].Texts) != 50 || results[2].Offset != 100 || len(results[2].Texts) != 20 {
		t.Fatalf("batches 1 and 3 should succeed: %+v / %+v", results[0].Err, results[2].Err)
	}
}

func TestEstimateCharacters(t *testing.T) {
	if got := EstimateCharacters([]string{"héllo", "👍🏽", ""}); got != 6 {
		t.Fatalf("EstimateCharacters() = %d, want 6", got)
	}
}
