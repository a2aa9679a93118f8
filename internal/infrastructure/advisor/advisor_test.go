package advisor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

func chatServer(t *testing.T, content string, seen *string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)

		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if !assert.Len(t, req.Messages, 2) {
			return
		}
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		if seen != nil {
			*seen = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"total_tokens": 42},
		})
	}))
}

func newTestAdvisor(baseURL string) *Advisor {
	return NewAdvisor(&cfg.OpenAICfg{APIKey: "test", BaseURL: baseURL},
		logger.NewSlogLoggerWithWriter(io.Discard, slog.LevelError))
}

func TestAdvisor_SelectCategories(t *testing.T) {
	var systemMsg string
	srv := chatServer(t, `{"selected_categories":["Shirt","Jeans"],"reasoning":"smart casual"}`, &systemMsg)
	defer srv.Close()

	res, err := newTestAdvisor(srv.URL+"/v1").SelectCategories(context.Background(), usecase.NewAdviceReq("office", map[domain.CategoryGroup][]string{
		domain.BottomWear: {"Jeans"},
		domain.UpperWear:  {"Shirt", "T-Shirt"},
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"Shirt", "Jeans"}, res.Categories)
	assert.Equal(t, "smart casual", res.Reasoning)
	assert.Contains(t, systemMsg, "Shirt, T-Shirt, Jeans")
}

func TestAdvisor_InvalidJSON(t *testing.T) {
	srv := chatServer(t, "not json", nil)
	defer srv.Close()

	_, err := newTestAdvisor(srv.URL+"/v1").SelectCategories(context.Background(), usecase.NewAdviceReq("office", nil))
	assert.Error(t, err)
}

func TestRuleAdvisor(t *testing.T) {
	available := map[domain.CategoryGroup][]string{
		domain.UpperWear:   {"Sweater"},
		domain.BottomWear:  {"Trousers"},
		domain.OuterWear:   {"Coat"},
		domain.Accessories: {"Scarf"},
	}

	res, err := NewRuleAdvisor().SelectCategories(context.Background(), usecase.NewAdviceReq("Walk on a cold day", available))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sweater", "Trousers", "Coat", "Scarf"}, res.Categories)

	res, err = NewRuleAdvisor().SelectCategories(context.Background(), usecase.NewAdviceReq("beach", available))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sweater", "Trousers", "Scarf"}, res.Categories)

	res, err = NewRuleAdvisor().SelectCategories(context.Background(), usecase.NewAdviceReq("beach", map[domain.CategoryGroup][]string{
		domain.OtherItems: {"Dress"},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Dress"}, res.Categories)
}
