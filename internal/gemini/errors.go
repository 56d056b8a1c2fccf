package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oukeidos/locsync/internal/apperrors"
	"google.golang.org/api/googleapi"
)

// ProviderName tags every error raised from a Gemini response.
const ProviderName = "gemini"

type statusRule struct {
	kind apperrors.Kind
	msg  string
}

// The words "unauthorized", "forbidden" and "bad request" in these messages
// are what the batch retry loop keys on, so keep them.
var statusRules = map[int]statusRule{
	http.StatusBadRequest:      {apperrors.KindBadRequest, "Gemini: Bad request (400)."},
	http.StatusUnauthorized:    {apperrors.KindAuth, "Gemini: Unauthorized (401). Check the API key."},
	http.StatusForbidden:       {apperrors.KindAuth, "Gemini: Forbidden (403). Check the API key and model access."},
	http.StatusNotFound:        {apperrors.KindBadRequest, "Gemini: model not found, bad request (404)."},
	http.StatusTooManyRequests: {apperrors.KindRateLimit, "Gemini rate limit exceeded (429)."},
}

func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("gemini generate content: %w", err)

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return apperrors.Remote(ProviderName, apperrors.KindTransient, "Gemini request failed with a network error.", wrapped)
	}
	if r, ok := statusRules[gerr.Code]; ok {
		return apperrors.Remote(ProviderName, r.kind, r.msg, wrapped)
	}
	if gerr.Code >= 500 {
		return apperrors.Remote(ProviderName, apperrors.KindTransient, fmt.Sprintf("Gemini service unavailable (%d).", gerr.Code), wrapped)
	}
	return apperrors.Remote(ProviderName, apperrors.KindBadRequest, fmt.Sprintf("Gemini API error (%d).", gerr.Code), wrapped)
}
