package deepl

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oukeidos/locsync/internal/apperrors"
)

// ProviderName tags every error raised from a DeepL response.
const ProviderName = "deepl"

// StatusQuotaExceeded is DeepL's non-standard "quota exceeded" status.
const StatusQuotaExceeded = 456

func parseErrorMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Detail != "" {
		return envelope.Message + " (" + envelope.Detail + ")"
	}
	return envelope.Message
}

// classifyStatus maps a non-2xx DeepL response to an apperrors kind. The
// safe message keeps DeepL's own wording ("Forbidden", "Bad request") so
// message-based retry rules see it.
func classifyStatus(statusCode int, body []byte) error {
	cause := fmt.Errorf("deepl status=%d message=%s", statusCode, parseErrorMessage(body))

	switch statusCode {
	case http.StatusBadRequest:
		return apperrors.Remote(ProviderName, apperrors.KindBadRequest, "DeepL: Bad request (400). Check the target language and parameters.", cause)
	case http.StatusUnauthorized:
		return apperrors.Remote(ProviderName, apperrors.KindAuth, "DeepL: Unauthorized (401). Please verify your auth key.", cause)
	case http.StatusForbidden:
		return apperrors.Remote(ProviderName, apperrors.KindAuth, "DeepL: Forbidden (403). The auth key is invalid or does not match the server.", cause)
	case http.StatusNotFound:
		return apperrors.Remote(ProviderName, apperrors.KindBadRequest, "DeepL: resource not found (404).", cause)
	case http.StatusRequestEntityTooLarge:
		return apperrors.Remote(ProviderName, apperrors.KindBadRequest, "DeepL: request too large (413). Reduce the batch size.", cause)
	case http.StatusTooManyRequests:
		return apperrors.Remote(ProviderName, apperrors.KindRateLimit, "DeepL: Too many requests (429). Please try again later.", cause)
	case StatusQuotaExceeded:
		return apperrors.Remote(ProviderName, apperrors.KindQuota, "DeepL: Quota exceeded (456). The character limit has been reached.", cause)
	default:
		if statusCode >= 500 {
			return apperrors.Remote(ProviderName, apperrors.KindTransient, fmt.Sprintf("DeepL: server error (%d). Please try again later.", statusCode), cause)
		}
		return apperrors.Remote(ProviderName, apperrors.KindBadRequest, fmt.Sprintf("DeepL API error (%d).", statusCode), cause)
	}
}
