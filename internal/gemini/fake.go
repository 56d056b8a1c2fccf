package gemini

import (
	"context"
	"sync"
)

// Reply is one scripted outcome for FakeTranslator.
type Reply struct {
	Response *ResponseData
	Err      error
}

// FakeTranslator plays back Replies in order, repeating the last one once
// the script runs out. With no script it echoes the request texts.
type FakeTranslator struct {
	Replies []Reply

	mu       sync.Mutex
	Requests []RequestData
}

var _ Translator = (*FakeTranslator)(nil)

func (f *FakeTranslator) Translate(_ context.Context, request RequestData) (*ResponseData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, request)

	if len(f.Replies) == 0 {
		out := make([]string, len(request.Texts))
		copy(out, request.Texts)
		return &ResponseData{Translations: out}, nil
	}
	i := len(f.Requests) - 1
	if i >= len(f.Replies) {
		i = len(f.Replies) - 1
	}
	r := f.Replies[i]
	return r.Response, r.Err
}
