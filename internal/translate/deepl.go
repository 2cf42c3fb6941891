package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DeepL endpoints. Keys ending in ":fx" belong to the free tier.
const (
	DeepLProURL  = "https://api.deepl.com/v2/translate"
	DeepLFreeURL = "https://api-free.deepl.com/v2/translate"
)

// DeepL calls the DeepL v2 REST API.
type DeepL struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// DeepLOption configures a DeepL backend.
type DeepLOption func(*DeepL)

// WithDeepLEndpoint overrides the API URL.
func WithDeepLEndpoint(url string) DeepLOption {
	return func(d *DeepL) {
		d.endpoint = url
	}
}

// WithDeepLHTTPClient sets the HTTP client used for requests.
func WithDeepLHTTPClient(c *http.Client) DeepLOption {
	return func(d *DeepL) {
		d.client = c
	}
}

// NewDeepL creates a DeepL backend for apiKey.
func NewDeepL(apiKey string, opts ...DeepLOption) *DeepL {
	d := &DeepL{
		apiKey:   apiKey,
		endpoint: DeepLProURL,
		client:   http.DefaultClient,
	}
	if strings.HasSuffix(apiKey, ":fx") {
		d.endpoint = DeepLFreeURL
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DeepL) Name() string { return "deepl" }

type deeplRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// StatusError reports a non-200 answer from an HTTP backend.
type StatusError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Backend, e.StatusCode, e.Body)
}

func (d *DeepL) Translate(ctx context.Context, text, code string) (string, error) {
	payload, err := json.Marshal(deeplRequest{
		Text:       []string{text},
		TargetLang: strings.ToUpper(code),
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepl request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Backend: d.Name(), StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var out deeplResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Translations) == 0 || out.Translations[0].Text == "" {
		return "", ErrEmptyTranslation
	}
	return out.Translations[0].Text, nil
}
