package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultTranslateTimeout = 30 * time.Second

// HTTPTranslator calls the batch translation endpoint:
// POST {texts, source_lang, target_lang} -> {translations}.
type HTTPTranslator struct {
	URL    string
	Client *http.Client
}

func NewHTTPTranslator(url string, timeout time.Duration) *HTTPTranslator {
	if timeout <= 0 {
		timeout = DefaultTranslateTimeout
	}
	return &HTTPTranslator{URL: url, Client: &http.Client{Timeout: timeout}}
}

type translateRequest struct {
	Texts      []string `json:"texts"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang"`
}

type translateResponse struct {
	Translations []string `json:"translations"`
	Error        string   `json:"error"`
}

func (t *HTTPTranslator) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	body, err := json.Marshal(translateRequest{Texts: texts, SourceLang: sourceLang, TargetLang: targetLang})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("translate request: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode translate response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("translate request: %s", out.Error)
	}
	return out.Translations, nil
}
