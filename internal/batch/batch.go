// Package batch splits translation units into provider-sized batches and
// submits them sequentially with retry and exponential backoff.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/chunker"
	"github.com/oukeidos/locsync/internal/logger"
	"github.com/oukeidos/locsync/internal/provider"
	"github.com/rivo/uniseg"
)

const (
	// ProviderMaxBatchSize is the most texts DeepL accepts per request.
	ProviderMaxBatchSize = 50
	DefaultMaxBatchSize  = 50
	DefaultMaxRetries    = 3
)

// nonRetryableSignals mark provider messages that no retry can fix.
var nonRetryableSignals = []string{"unauthorized", "forbidden", "invalid", "bad request"}

type Config struct {
	MaxBatchSize int
	MaxRetries   int
}

// Normalize fills defaults and clamps values into range.
func (c Config) Normalize() Config {
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.MaxBatchSize > ProviderMaxBatchSize {
		c.MaxBatchSize = ProviderMaxBatchSize
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = 1
	}
	return c
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Option func(*Strategy)

// WithSleeper replaces the backoff clock, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(st *Strategy) {
		if s != nil {
			st.sleep = s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(st *Strategy) { st.log = logger.OrDefault(l) }
}

// Strategy submits batches to a translator one at a time.
type Strategy struct {
	translator provider.Translator
	cfg        Config
	sleep      Sleeper
	log        *slog.Logger
}

func New(translator provider.Translator, cfg Config, opts ...Option) *Strategy {
	s := &Strategy{
		translator: translator,
		cfg:        cfg.Normalize(),
		sleep:      sleepContext,
		log:        logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Strategy) Config() Config { return s.cfg }

// CreateBatches chunks texts contiguously by MaxBatchSize.
func (s *Strategy) CreateBatches(texts []string) [][]string {
	chunks := chunker.Split(texts, s.cfg.MaxBatchSize)
	out := make([][]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Items
	}
	return out
}

// ProcessBatch translates one batch. A batch outside (0, MaxBatchSize] is a
// validation error and never reaches the provider.
func (s *Strategy) ProcessBatch(ctx context.Context, batch []string, source, target string, opts provider.Options) ([]string, error) {
	out, _, err := s.processBatchWithRetry(ctx, batch, source, target, opts)
	return out, err
}

func (s *Strategy) validate(batch []string) error {
	if len(batch) == 0 || len(batch) > s.cfg.MaxBatchSize {
		return apperrors.Validation(fmt.Errorf("batch size %d outside 1..%d", len(batch), s.cfg.MaxBatchSize))
	}
	return nil
}

// processBatchWithRetry returns the results, the number of provider calls
// made and the last error.
func (s *Strategy) processBatchWithRetry(ctx context.Context, batch []string, source, target string, opts provider.Options) ([]string, int, error) {
	if err := s.validate(batch); err != nil {
		return nil, 0, err
	}
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, err
		}
		out, err := s.translator.TranslateBatch(ctx, batch, source, target, opts)
		if err == nil {
			if len(out) != len(batch) {
				return nil, attempt, apperrors.Validation(fmt.Errorf("provider returned %d results for %d texts", len(out), len(batch)))
			}
			return out, attempt, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, attempt, err
		}
		if !apperrors.IsProviderError(err) {
			s.log.Error("Unexpected translation error; not retrying", "attempt", attempt, "error", err)
			return nil, attempt, err
		}
		if ShouldNotRetry(err) {
			s.log.Error("Translation failed without retry", "attempt", attempt, "error", apperrors.PublicMessage(err))
			return nil, attempt, err
		}
		if attempt == s.cfg.MaxRetries {
			break
		}
		backoff := Backoff(attempt)
		s.log.Warn("Translation failed; retrying", "attempt", attempt, "max_retries", s.cfg.MaxRetries,
			"backoff", backoff, "error", apperrors.PublicMessage(err))
		if err := s.sleep(ctx, backoff); err != nil {
			return nil, attempt, err
		}
	}
	s.log.Error("Translation failed after maximum retries", "attempts", s.cfg.MaxRetries, "error", apperrors.PublicMessage(lastErr))
	return nil, s.cfg.MaxRetries, lastErr
}

// Backoff is 2^attempt seconds: 2s, 4s, 8s...
func Backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// ShouldNotRetry reports whether a provider error is permanent, judged by
// its message text or its kind.
func ShouldNotRetry(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(apperrors.Detail(err))
	for _, signal := range nonRetryableSignals {
		if strings.Contains(msg, signal) {
			return true
		}
	}
	switch kind, _ := apperrors.KindOf(err); kind {
	case apperrors.KindAuth, apperrors.KindBadRequest, apperrors.KindQuota:
		return true
	}
	return false
}

// ProcessMultipleBatches translates batches in order and concatenates the
// results. The first failing batch aborts the call.
func (s *Strategy) ProcessMultipleBatches(ctx context.Context, batches [][]string, source, target string, opts provider.Options) ([]string, error) {
	var out []string
	for i, b := range batches {
		res, err := s.ProcessBatch(ctx, b, source, target, opts)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i+1, err)
		}
		out = append(out, res...)
	}
	return out, nil
}

// Result is the outcome of one batch in ProcessEach.
type Result struct {
	Index  int
	Offset int
	Size   int
	// Texts is nil when Err is set.
	Texts    []string
	Err      error
	Attempts int
}

// ProcessEach chunks texts and translates every batch in order, continuing
// past failed batches. Cancellation stops the loop; batches not attempted
// are reported with the context error. onBatch may be nil.
func (s *Strategy) ProcessEach(ctx context.Context, texts []string, source, target string, opts provider.Options, onBatch func(Result)) []Result {
	chunks := chunker.Split(texts, s.cfg.MaxBatchSize)
	results := make([]Result, 0, len(chunks))
	for _, c := range chunks {
		r := Result{Index: c.Index, Offset: c.Offset, Size: len(c.Items)}
		if err := ctx.Err(); err != nil {
			r.Err = err
		} else {
			r.Texts, r.Attempts, r.Err = s.processBatchWithRetry(ctx, c.Items, source, target, opts)
		}
		if r.Err != nil {
			s.log.Error("Batch failed; continuing", "batch", c.Index+1, "of", len(chunks), "size", len(c.Items),
				"attempts", r.Attempts, "error", apperrors.PublicMessage(r.Err))
		} else {
			s.log.Debug("Batch translated", "batch", c.Index+1, "of", len(chunks), "size", len(c.Items), "attempts", r.Attempts)
		}
		results = append(results, r)
		if onBatch != nil {
			onBatch(r)
		}
	}
	return results
}

// EstimateAPICalls is ceil(n / MaxBatchSize).
func (s *Strategy) EstimateAPICalls(n int) int {
	return chunker.Count(n, s.cfg.MaxBatchSize)
}

// EstimateCharacters counts user-perceived characters, which is what DeepL
// bills.
func EstimateCharacters(texts []string) int {
	total := 0
	for _, t := range texts {
		total += uniseg.GraphemeClusterCount(t)
	}
	return total
}
