package interview

import (
	"context"
	"errors"
	"testing"

	"interview-agent-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAskEmbedsProfileAndContext 提示词应同时嵌入候选人档案和对话上下文
func TestAskEmbedsProfileAndContext(t *testing.T) {
	mockLLM := &MockLLMModel{Responses: []string{"How would you design a URL shortener?"}}
	iv := NewInterviewer(mockLLM)

	profile := testProfile()
	reply, err := iv.Ask(context.Background(), profile, "some conversation context")
	require.NoError(t, err)
	assert.Equal(t, "How would you design a URL shortener?", reply)

	assert.Contains(t, mockLLM.LastPrompt, `"full_name": "张三"`, "提示词应嵌入序列化的档案")
	assert.Contains(t, mockLLM.LastPrompt, "some conversation context", "提示词应嵌入对话上下文")
	assert.Contains(t, mockLLM.LastPrompt, "Friendly technical interviewer", "提示词应包含面试官角色设定")
}

// TestAskEmptyReply 模型返回空回复时应返回对话错误
func TestAskEmptyReply(t *testing.T) {
	mockLLM := &MockLLMModel{Responses: []string{"   \n  "}}
	iv := NewInterviewer(mockLLM)

	_, err := iv.Ask(context.Background(), testProfile(), "context")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDialogueFailed))
}

// TestAskLLMFailure 模型调用失败时应包装为对话错误
func TestAskLLMFailure(t *testing.T) {
	mockLLM := &MockLLMModel{FailOn: map[int]bool{0: true}}
	iv := NewInterviewer(mockLLM)

	_, err := iv.Ask(context.Background(), testProfile(), "context")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDialogueFailed))
	assert.Equal(t, 1, mockLLM.CallCount, "失败后不应自动重试")
}
