package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTranslator_TranslateBatch(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    []string
		wantErr string
	}{
		{
			name: "aligned result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var req translateRequest
				json.NewDecoder(r.Body).Decode(&req)
				out := make([]string, len(req.Texts))
				for i, s := range req.Texts {
					out[i] = req.TargetLang + ":" + s
				}
				json.NewEncoder(w).Encode(map[string]interface{}{"translations": out})
			},
			want: []string{"th:Pad Thai", "th:Soup"},
		},
		{
			name: "upstream error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			},
			wantErr: "status 429: quota exceeded",
		},
		{
			name: "error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"error": "unsupported language"})
			},
			wantErr: "unsupported language",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>"))
			},
			wantErr: "decode translate response",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			srv := httptest.NewServer(testCase.handler)
			defer srv.Close()

			got, err := NewHTTPTranslator(srv.URL, time.Second).TranslateBatch(context.Background(), []string{"Pad Thai", "Soup"}, "auto", "th")

			if testCase.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestHTTPTranslator_SendsRequestShape(t *testing.T) {
	var got translateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"translations":["x"]}`))
	}))
	defer srv.Close()

	_, err := NewHTTPTranslator(srv.URL, 0).TranslateBatch(context.Background(), []string{"Soup"}, "auto", "ja")

	require.NoError(t, err)
	assert.Equal(t, translateRequest{Texts: []string{"Soup"}, SourceLang: "auto", TargetLang: "ja"}, got)
}

func TestHTTPTranslator_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewHTTPTranslator(srv.URL, 20*time.Millisecond).TranslateBatch(context.Background(), []string{"Soup"}, "auto", "ja")

	assert.Error(t, err)
}
