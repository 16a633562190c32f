package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewAliyunQwenChatModelRequiresAPIKey 空API密钥应直接报错
func TestNewAliyunQwenChatModelRequiresAPIKey(t *testing.T) {
	_, err := NewAliyunQwenChatModel("", "qwen-plus", "")
	require.Error(t, err)

	_, err = NewAliyunQwenChatModel("   ", "qwen-plus", "")
	require.Error(t, err)
}

// TestNewAliyunQwenChatModelDefaults 模型名和接口地址缺省时使用默认值
func TestNewAliyunQwenChatModelDefaults(t *testing.T) {
	m, err := NewAliyunQwenChatModel("test-key", "", "")
	require.NoError(t, err)
	assert.Equal(t, defaultQwenModelName, m.modelName)
	assert.Equal(t, openAICompatibleQwenAPIURL, m.apiURL)
}

// TestGenerateAgainstMockServer 用模拟的OpenAI兼容接口验证一次完整调用
func TestGenerateAgainstMockServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen-plus", req.Model)
		require.Len(t, req.Messages, 1)

		content := "这是模型的回复"
		resp := openAICompletionResponse{
			Id:    "chatcmpl-test",
			Model: "qwen-plus",
			Choices: []openAIChatChoice{
				{Message: openAIMessage{Role: "assistant", Content: &content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	m, err := NewAliyunQwenChatModel("test-key", "qwen-plus", server.URL)
	require.NoError(t, err)

	msg, err := m.Generate(context.Background(), []*schema.Message{
		{Role: schema.User, Content: "你好"},
	})
	require.NoError(t, err)
	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Equal(t, "这是模型的回复", msg.Content)
}

// TestGenerateNon200Status 非200状态码应返回错误
func TestGenerateNon200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	m, err := NewAliyunQwenChatModel("bad-key", "qwen-plus", server.URL)
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{{Role: schema.User, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API 请求失败")
}

// TestGenerateEmptyChoices 空choices应返回错误
func TestGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "x", "choices": []}`))
	}))
	defer server.Close()

	m, err := NewAliyunQwenChatModel("test-key", "", server.URL)
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{{Role: schema.User, Content: "hi"}})
	require.Error(t, err)
}
