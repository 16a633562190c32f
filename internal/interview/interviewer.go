package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"interview-agent-go/internal/logger"
	"interview-agent-go/internal/types"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

// Interviewer 面试对话生成器
// 每一轮用同一个固定指令模板调用模型，模板中嵌入序列化后的候选人档案
// 和当前对话上下文。对话策略（语气、每轮只问一个问题、话题分散、8-10题
// 软上限、兜底话术和收尾语）全部写在提示词里，属于传给模型的建议性约束，
// 会话管理器不做机械执行；会话的终止始终由人工在外部触发。
type Interviewer struct {
	// LLM模型接口
	llmModel model.BaseChatModel

	// 提示词模板
	promptTemplate string

	// 单轮对话的超时时间
	turnTimeout time.Duration
}

// NewInterviewer 创建新的面试对话生成器
func NewInterviewer(llmModel model.BaseChatModel, options ...InterviewerOption) *Interviewer {
	iv := &Interviewer{
		llmModel:    llmModel,
		turnTimeout: 60 * time.Second,
	}

	// 应用选项
	for _, opt := range options {
		opt(iv)
	}

	if iv.promptTemplate == "" {
		iv.generatePromptTemplate()
	}

	return iv
}

// InterviewerOption 是面试对话生成器的配置选项
type InterviewerOption func(*Interviewer)

// WithTurnTimeout 设置单轮对话的超时时间
func WithTurnTimeout(d time.Duration) InterviewerOption {
	return func(iv *Interviewer) {
		iv.turnTimeout = d
	}
}

// 生成对话提示词模板
// 两个 %s 占位符分别对应序列化后的候选人档案和对话上下文
func (iv *Interviewer) generatePromptTemplate() {
	iv.promptTemplate = `Role: Friendly technical interviewer having a conversation to assess candidate skill and technical knowledge. all the question & answering should be within the limit of context provided.

Candidate Information:
%s

Conversation History:
%s

Conversation Guidelines:
1. Maintain a casual, friendly tone while professionally assessing technical skills
2. Mix technical questions with conversational elements
3. Show interest in their thought process and experience
4. Build upon their responses naturally
5. Use everyday scenarios to explore technical concepts
6. don't ask too many question on same topic diversify the question
7. keep max no. of question to 8-10 based on candidate response

Question Types to Mix:
- Technical problem-solving: "How would you approach..."
- Experience-based: "What's your take on..."
- Opinion questions: "What do you think about..."
- Architecture discussions: "How would you design..."
- Best practices: "How do you usually handle..."

Style:
- Keep the tone warm and engaging
- Ask one question at a time
- Show active listening by referencing their previous answers
- Use natural transitions between topics
- Avoid rigid or overly formal language

Fallback Mechanism:
- If user input is unclear or not understood, respond with:
  "I'm sorry, I didn't quite catch that. Could you elaborate or rephrase?"
- If unexpected inputs are received, respond with:
  "That's an interesting perspective. Could you share more details about your thought process?"
- Stay focused on the technical assessment purpose, even when uncertain inputs are given.

End Conversation:
- Gracefully conclude the conversation by thanking the candidate:
  "Thank you for taking the time to speak with me today!"
- Inform them of the next steps:
  "Our team will review your interview and get back to you soon with updates on the next steps. Have a great day!"`
}

// Ask 生成下一句面试官发言
// conversationContext 为序列化后的完整对话记录；开场轮传入开场指令。
// 模型调用失败或回复为空时返回 DialogueError，调用方不得追加任何残缺记录。
func (iv *Interviewer) Ask(ctx context.Context, profile types.CandidateProfile, conversationContext string) (string, error) {
	// 档案序列化为缩进JSON嵌入提示词
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", types.NewDialogueError(fmt.Sprintf("序列化候选人档案失败: %v", err))
	}

	prompt := fmt.Sprintf(iv.promptTemplate, string(profileJSON), conversationContext)

	messages := []*einoschema.Message{
		{Role: einoschema.User, Content: prompt},
	}

	// 创建带超时的上下文，继承上游的取消信号
	callCtx, cancel := context.WithTimeout(ctx, iv.turnTimeout)
	defer cancel()

	response, err := iv.llmModel.Generate(callCtx, messages)
	if err != nil {
		logger.Error().Err(err).Msg("面试对话模型调用失败")
		return "", types.NewDialogueError(fmt.Sprintf("LLM调用失败: %v", err))
	}

	reply := strings.TrimSpace(response.Content)
	if reply == "" {
		return "", types.NewDialogueError("模型返回了空回复")
	}

	logger.Debug().
		Int("prompt_len", len(prompt)).
		Int("reply_len", len(reply)).
		Msg("生成面试官发言")

	return reply, nil
}
