// Package deepl is a small client for the DeepL v2 REST API.
package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/httpclient"
)

const (
	ServerFree = "free"
	ServerPro  = "pro"

	FreeBaseURL = "https://api-free.deepl.com"
	ProBaseURL  = "https://api.deepl.com"
)

// LanguageType selects the catalog returned by Languages.
type LanguageType string

const (
	SourceLanguages LanguageType = "source"
	TargetLanguages LanguageType = "target"
)

type Client struct {
	authKey string
	baseURL string
	http    *http.Client
}

// IsFreeKey reports whether authKey belongs to the free API tier.
func IsFreeKey(authKey string) bool {
	return strings.HasSuffix(strings.TrimSpace(authKey), ":fx")
}

// BaseURL resolves the API host for server. An empty server picks the host
// from the key suffix.
func BaseURL(server, authKey string) string {
	switch strings.ToLower(strings.TrimSpace(server)) {
	case ServerFree:
		return FreeBaseURL
	case ServerPro:
		return ProBaseURL
	}
	if IsFreeKey(authKey) {
		return FreeBaseURL
	}
	return ProBaseURL
}

func NewClient(authKey, server string) *Client {
	return &Client{
		authKey: strings.TrimSpace(authKey),
		baseURL: BaseURL(server, authKey),
		http:    httpclient.GetDefaultClient(),
	}
}

// WithBaseURL returns a copy of c that talks to baseURL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	cp := *c
	cp.baseURL = strings.TrimRight(baseURL, "/")
	return &cp
}

func (c *Client) BaseURL() string { return c.baseURL }

// Translate sends one /v2/translate request. The result has one entry per
// input text in input order.
func (c *Client) Translate(ctx context.Context, req TranslateRequest) ([]Translation, error) {
	if len(req.Text) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var out translateResponse
	if err := c.do(ctx, http.MethodPost, "/v2/translate", bytes.NewReader(payload), &out); err != nil {
		return nil, err
	}
	if len(out.Translations) != len(req.Text) {
		return nil, apperrors.Remote(ProviderName, apperrors.KindValidation, "DeepL returned an unexpected number of translations.",
			fmt.Errorf("got %d translations for %d texts", len(out.Translations), len(req.Text)))
	}
	slog.Debug("DeepL translate response", "target", req.TargetLang, "count", len(out.Translations))
	return out.Translations, nil
}

// Languages returns the source or target catalog.
func (c *Client) Languages(ctx context.Context, typ LanguageType) ([]Language, error) {
	var out []Language
	path := "/v2/languages?" + url.Values{"type": {string(typ)}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Usage returns the character usage of the current billing period.
func (c *Client) Usage(ctx context.Context) (*Usage, error) {
	var out Usage
	if err := c.do(ctx, http.MethodGet, "/v2/usage", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body *bytes.Reader, out any) error {
	headers := map[string]string{
		"Authorization": "DeepL-Auth-Key " + c.authKey,
		"Accept":        "application/json",
	}
	var req *http.Request
	var err error
	if body != nil {
		headers["Content-Type"] = "application/json"
		req, err = httpclient.NewRequest(ctx, method, c.baseURL+path, body, headers)
	} else {
		req, err = httpclient.NewRequest(ctx, method, c.baseURL+path, nil, headers)
	}
	if err != nil {
		return err
	}

	respBody, resp, err := httpclient.DoAndRead(c.http, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperrors.Remote(ProviderName, apperrors.KindTransient,
			"DeepL request failed due to a temporary network error.", fmt.Errorf("request failed: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode, respBody)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperrors.Remote(ProviderName, apperrors.KindValidation,
			"DeepL response format was invalid.", fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
