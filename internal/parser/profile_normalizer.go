package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"interview-agent-go/internal/types"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

// LLMProfileNormalizer 使用LLM将非结构化的简历文本归一化为候选人档案
// 一次模型调用、一次解析尝试，成败即定，不做重试：
// 解析失败时上游必须把错误呈现给用户，而不是带着残缺数据开始面试。
type LLMProfileNormalizer struct {
	// LLM模型接口
	llmModel model.BaseChatModel

	// 提示词模板
	promptTemplate string

	// 单次提取的超时时间
	extractionTimeout time.Duration

	logger *log.Logger
}

// NewLLMProfileNormalizer 创建新的LLM档案归一化器
func NewLLMProfileNormalizer(llmModel model.BaseChatModel, logger *log.Logger, options ...NormalizerOption) *LLMProfileNormalizer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	normalizer := &LLMProfileNormalizer{
		llmModel:          llmModel,
		logger:            logger,
		extractionTimeout: 60 * time.Second,
	}

	// 应用选项
	for _, opt := range options {
		opt(normalizer)
	}

	if normalizer.promptTemplate == "" {
		normalizer.generatePromptTemplate()
	}

	return normalizer
}

// NormalizerOption 是归一化器的配置选项
type NormalizerOption func(*LLMProfileNormalizer)

// WithExtractionTimeout 设置单次提取的超时时间
func WithExtractionTimeout(d time.Duration) NormalizerOption {
	return func(n *LLMProfileNormalizer) {
		n.extractionTimeout = d
	}
}

// WithCustomPromptTemplate 设置自定义提示词模板（需包含一个 %s 占位简历文本）
func WithCustomPromptTemplate(template string) NormalizerOption {
	return func(n *LLMProfileNormalizer) {
		n.promptTemplate = template
	}
}

// 生成提取提示词模板
// 逐字段枚举目标schema，要求模型对缺失数据输出空占位符而不是省略键，
// 简历原文通过 %s 占位符逐字嵌入。
func (n *LLMProfileNormalizer) generatePromptTemplate() {
	n.promptTemplate = `Extract the following details from the resume text. Ensure the extracted information is consistent and structured in the following JSON format, even if some fields are missing:

{
    "full_name": "<Full Name>",
    "email": "<Email Address>",
    "phone_number": "<Phone Number>",
    "years_of_experience": "<Years of Experience>",
    "desired_positions": ["<Desired Position 1>", "<Desired Position 2>", ...],
    "current_location": "<Current Location>",
    "tech_stack": ["<Technology 1>", "<Technology 2>", ...],
    "skills": {
        "soft_skills": ["<Soft Skill 1>", "<Soft Skill 2>", ...],
        "hard_skills": ["<Hard Skill 1>", "<Hard Skill 2>", ...]
    },
    "projects": [
        {
            "name": "<Project Name>",
            "description": "<Project Description>",
            "technologies_used": ["<Technology 1>", "<Technology 2>", ...]
        },
        ...
    ]
}

Ensure:
- Variations in formatting or missing data do not affect the JSON structure.
- Provide empty strings, empty lists, or placeholders for missing data.
- Extract the information as accurately as possible.

Resume text:
%s`
}

// Normalize 将简历原文归一化为 CandidateProfile
// 失败时返回 NormalizationError；调用方不得用部分数据继续流程。
func (n *LLMProfileNormalizer) Normalize(ctx context.Context, rawText string) (*types.CandidateProfile, error) {
	prompt := fmt.Sprintf(n.promptTemplate, rawText)

	// 调用LLM（单次请求，不携带会话状态）
	response, err := n.callLLM(ctx, prompt)
	if err != nil {
		n.logger.Printf("[LLMProfileNormalizer] LLM调用失败: %v", err)
		return nil, types.NewNormalizationError(fmt.Sprintf("LLM调用失败: %v", err))
	}

	// 解析LLM响应
	profile, err := n.parseResponse(response)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// callLLM 发起一次模型调用并返回回复文本
func (n *LLMProfileNormalizer) callLLM(ctx context.Context, prompt string) (string, error) {
	messages := []*einoschema.Message{
		{Role: einoschema.User, Content: prompt},
	}

	// 创建带超时的上下文，继承上游的取消信号
	callCtx, cancel := context.WithTimeout(ctx, n.extractionTimeout)
	defer cancel()

	n.logger.Printf("[LLMProfileNormalizer] Prompt: %.50s...", prompt)

	response, err := n.llmModel.Generate(callCtx, messages)
	if err != nil {
		return "", fmt.Errorf("LLM Generate failed: %w", err)
	}

	n.logger.Printf("[LLMProfileNormalizer] LLM Response: %.50s", response.Content)
	return response.Content, nil
}

// parseResponse 从模型回复中提取档案JSON并严格反序列化
func (n *LLMProfileNormalizer) parseResponse(response string) (*types.CandidateProfile, error) {
	// 提取JSON部分（模型被提示只输出该schema，但可能包裹解释性文字）
	jsonStr := extractJSONPayload(response)
	if jsonStr == "" {
		n.logger.Printf("无法从LLM响应中提取有效的JSON。原始响应: %s", response)
		return nil, types.NewNormalizationError("无法从LLM响应中提取有效的JSON")
	}

	// 严格反序列化；除成功解码外不做任何schema级的模糊修复
	var profile types.CandidateProfile
	if err := json.Unmarshal([]byte(jsonStr), &profile); err != nil {
		return nil, types.NewNormalizationError(fmt.Sprintf("解析JSON失败: %v", err))
	}

	// 缺失的集合字段统一补齐为空切片，保证九个顶层字段全部有定义
	profile.EnsureDefaults()

	return &profile, nil
}

// extractJSONPayload 从文本中提取JSON负载
// 取第一个'{'到最后一个'}'之间的子串作为负载。
// 这是唯一的恢复策略，不做括号配平之外的任何语法修复。
func extractJSONPayload(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}
