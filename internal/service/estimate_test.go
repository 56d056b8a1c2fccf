package service

import (
	"context"
	"testing"

	"github.com/oukeidos/locsync/internal/store"
)

func TestEstimateModels_NoProviderCalls(t *testing.T) {
	p := &stubProvider{}
	svc, _ := modelService(p, posts(120)...)

	est, err := svc.EstimateModels(context.Background(), "post", "en", "de", nil, Options{Fields: []string{"title"}})
	if err != nil {
		t.Fatalf("EstimateModels: %v", err)
	}
	if est.Units != 120 || est.APICalls != 3 {
		t.Fatalf("got units=%d calls=%d, want 120 and 3", est.Units, est.APICalls)
	}
	// t0..t9, t10..t99, t100..t119
	if est.Characters != 10*2+90*3+20*4 {
		t.Fatalf("Characters = %d", est.Characters)
	}
	if p.calls != 0 {
		t.Fatalf("estimate must not call the provider, got %d calls", p.calls)
	}
}

func TestEstimateMessages_SkipsExisting(t *testing.T) {
	mem := store.NewMemoryMessages(
		&store.MessageEntry{Key: "a", Data: map[string]string{"en": "Hello"}},
		&store.MessageEntry{Key: "b", Data: map[string]string{"en": "Bye", "de": "Tschüss"}},
	)
	svc := NewMessageService(deps(&stubProvider{}), mem)

	est, err := svc.EstimateMessages(context.Background(), "en", "de", nil, Options{})
	if err != nil {
		t.Fatalf("EstimateMessages: %v", err)
	}
	if est.Units != 1 || est.Stats.SkippedExisting != 1 || est.Characters != 5 || est.APICalls != 1 {
		t.Fatalf("unexpected estimate %+v", est)
	}
}
