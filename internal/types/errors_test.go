package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestProcessErrorIs 四类错误应能用errors.Is按类别判断
func TestProcessErrorIs(t *testing.T) {
	cases := []struct {
		err  error
		base error
	}{
		{NewValidationError("文件过大"), ErrValidationFailed},
		{NewExtractionError("PDF损坏"), ErrExtractionFailed},
		{NewNormalizationError("JSON不合法"), ErrNormalizationFailed},
		{NewDialogueError("模型超时"), ErrDialogueFailed},
	}

	for _, c := range cases {
		assert.True(t, errors.Is(c.err, c.base), "错误应属于其基础类别: %v", c.err)
	}

	// 类别之间不混淆
	assert.False(t, errors.Is(NewValidationError("x"), ErrExtractionFailed))
}

// TestProcessErrorWrapping 包装后的错误仍能按类别判断
func TestProcessErrorWrapping(t *testing.T) {
	err := fmt.Errorf("上传处理失败: %w", NewValidationError("文件过大"))
	assert.True(t, errors.Is(err, ErrValidationFailed))
}

// TestProcessErrorMessage 错误消息应包含操作和细节
func TestProcessErrorMessage(t *testing.T) {
	err := NewNormalizationError("解析JSON失败")
	assert.Contains(t, err.Error(), "normalize")
	assert.Contains(t, err.Error(), "解析JSON失败")
}

// TestEnsureDefaults 所有集合字段在补齐后均不为nil
func TestEnsureDefaults(t *testing.T) {
	p := CandidateProfile{
		FullName: "张三",
		Projects: []CandidateProject{{Name: "电商平台"}},
	}
	p.EnsureDefaults()

	assert.NotNil(t, p.DesiredPositions)
	assert.NotNil(t, p.TechStack)
	assert.NotNil(t, p.Skills.SoftSkills)
	assert.NotNil(t, p.Skills.HardSkills)
	assert.NotNil(t, p.Projects)
	assert.NotNil(t, p.Projects[0].TechnologiesUsed, "项目内的技术列表也应补齐")
}
