package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPEngine calls the hosted MT service over its JSON endpoint.
type HTTPEngine struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPEngine(baseURL, apiKey string, timeout time.Duration) *HTTPEngine {
	return &HTTPEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type engineResponse struct {
	Translation    string   `json:"translation"`
	Translations   []string `json:"translations"`
	SourceLang     string   `json:"source_lang"`
	TargetLang     string   `json:"target_lang"`
	TokensUsed     int64    `json:"tokens_used"`
	TotalTokens    int64    `json:"total_tokens"`
	LatencyMS      float64  `json:"latency_ms"`
	ProcessingMode string   `json:"processing_mode"`
}

func (e *HTTPEngine) Translate(ctx context.Context, text, sourceLang, targetLang string) (*EngineResult, error) {
	var resp engineResponse
	err := e.post(ctx, map[string]any{
		"text":        text,
		"source_lang": sourceLang,
		"target_lang": targetLang,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &EngineResult{
		Translation:    resp.Translation,
		TokensUsed:     resp.TokensUsed,
		LatencyMS:      resp.LatencyMS,
		ProcessingMode: mode(resp.ProcessingMode),
	}, nil
}

func (e *HTTPEngine) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) (*EngineBatchResult, error) {
	var resp engineResponse
	err := e.post(ctx, map[string]any{
		"texts":       texts,
		"source_lang": sourceLang,
		"target_lang": targetLang,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &EngineBatchResult{
		Translations:   resp.Translations,
		TotalTokens:    resp.TotalTokens,
		LatencyMS:      resp.LatencyMS,
		ProcessingMode: mode(resp.ProcessingMode),
	}, nil
}

func (e *HTTPEngine) post(ctx context.Context, payload map[string]any, out *engineResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("X-API-Key", e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrEngineUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: bad response: %v", ErrEngineUnavailable, err)
	}
	return nil
}

func mode(m string) string {
	if m == "" {
		return "cloud"
	}
	return m
}
